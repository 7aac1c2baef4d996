package indexing

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"
)

var ErrTooManyItems = errors.New("too many urls in batch")

// BatchItem 批量提交中单个 URL 的结果
type BatchItem struct {
	URL      string          `json:"url"`
	Success  bool            `json:"success"`
	RecordID string          `json:"record_id,omitempty"`
	Response json.RawMessage `json:"response,omitempty"`
	Error    string          `json:"error,omitempty"`
	Code     string          `json:"code,omitempty"`
}

// SubmitBatch 顺序处理一组 URL。不并发：每次成功提交之后
// 等待 delay，用于迁就外部服务的速率限制。单个 URL 的失败
// （包括格式错误）只影响它自己，批次总是跑完，结果按输入顺序返回。
func (p *Pipeline) SubmitBatch(ctx context.Context, ownerID uint, urls []string, delay time.Duration) ([]BatchItem, error) {
	if len(urls) > p.batchMax {
		return nil, ErrTooManyItems
	}

	results := make([]BatchItem, 0, len(urls))
	for _, u := range urls {
		res, err := p.SubmitURL(ctx, ownerID, u)
		if err != nil {
			item := BatchItem{URL: u, Error: err.Error()}
			var perr *ProviderError
			if errors.As(err, &perr) {
				item.Error = perr.Message
				item.Code = string(perr.Code)
			}
			results = append(results, item)
			continue
		}

		results = append(results, BatchItem{
			URL:      u,
			Success:  true,
			RecordID: res.RecordID,
			Response: res.Response,
		})

		if delay > 0 {
			time.Sleep(delay)
		}
	}

	p.log.Info("batch processed",
		zap.Uint("user_id", ownerID),
		zap.Int("count", len(urls)))
	return results, nil
}
