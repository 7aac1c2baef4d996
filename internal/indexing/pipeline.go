package indexing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"stellar-indexer/internal/history"
	"stellar-indexer/internal/models"
	"stellar-indexer/internal/util"

	"go.uber.org/zap"
)

var (
	ErrInvalidURL = errors.New("invalid url")
)

// Result 一次成功提交的结果
type Result struct {
	RecordID string
	Status   string
	Response json.RawMessage
}

// Pipeline 驱动单次提交：校验 -> 写历史 -> 调外部服务 -> 回写终态。
// 外部调用每次最多执行一次，失败不自动重试，由调用方重新提交。
type Pipeline struct {
	ledger   *history.Ledger
	provider Provider
	batchMax int
	log      *zap.Logger
}

func NewPipeline(ledger *history.Ledger, provider Provider, batchMax int, log *zap.Logger) *Pipeline {
	if batchMax <= 0 {
		batchMax = 50
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		ledger:   ledger,
		provider: provider,
		batchMax: batchMax,
		log:      log,
	}
}

// SubmitURL 提交单个 URL 并落地一条完整的历史记录
func (p *Pipeline) SubmitURL(ctx context.Context, ownerID uint, rawURL string) (*Result, error) {
	// 1) 语法校验，不合法直接返回，不写历史
	if err := util.ValidateURL(rawURL); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	// 2) 先写一条 submitted 记录。写入失败只记日志，提交继续 ——
	//    历史是审计用途，不是前置条件
	var recordID string
	rec, err := p.ledger.Create(ownerID, rawURL)
	if err != nil {
		p.log.Warn("history record creation failed",
			zap.Uint("user_id", ownerID),
			zap.String("url", rawURL),
			zap.Error(err))
	} else {
		recordID = rec.ID
	}

	// 3) 外部调用，最多一次
	payload, err := p.provider.Submit(ctx, rawURL)
	if err != nil {
		p.reconcileFailure(ownerID, rawURL, recordID, err)
		return nil, err
	}

	// 4) 成功：回写 indexed 状态和原始响应
	status := models.StatusIndexed
	if recordID != "" {
		if uerr := p.ledger.MarkIndexed(recordID, string(payload)); uerr != nil {
			p.log.Warn("history record update failed",
				zap.String("record_id", recordID),
				zap.Error(uerr))
		}
	}

	return &Result{
		RecordID: recordID,
		Status:   status,
		Response: payload,
	}, nil
}

// reconcileFailure 尽力把失败写回历史。有记录 ID 就直接更新；
// 记录创建本身失败时退回到"该用户同 URL 最新一条"的兜底查找。
func (p *Pipeline) reconcileFailure(ownerID uint, rawURL, recordID string, cause error) {
	msg := cause.Error()
	var perr *ProviderError
	if errors.As(cause, &perr) {
		msg = perr.Message
	}

	var err error
	if recordID != "" {
		err = p.ledger.MarkFailed(recordID, msg)
	} else {
		err = p.ledger.FailLatestByURL(ownerID, rawURL, msg)
	}
	if err != nil && !errors.Is(err, history.ErrNotFound) {
		p.log.Warn("failure reconciliation failed",
			zap.Uint("user_id", ownerID),
			zap.String("url", rawURL),
			zap.Error(err))
	}
}
