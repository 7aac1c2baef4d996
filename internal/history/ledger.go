package history

import (
	"errors"
	"fmt"

	"stellar-indexer/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNotFound 记录不存在或者不属于当前用户。
// 所有权检查也返回它，不暴露"记录存在但属于别人"这一信息。
var ErrNotFound = errors.New("history record not found")

// Ledger 负责提交历史的落库和查询，所有查询都按归属用户过滤
type Ledger struct {
	db *gorm.DB
}

func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// Create 在调用外部服务之前写入一条 submitted 状态的记录
func (l *Ledger) Create(ownerID uint, url string) (*models.HistoryRecord, error) {
	rec := models.HistoryRecord{
		ID:     uuid.NewString(),
		UserID: ownerID,
		URL:    url,
		Status: models.StatusSubmitted,
	}
	if err := l.db.Create(&rec).Error; err != nil {
		return nil, fmt.Errorf("create history record: %w", err)
	}
	return &rec, nil
}

// MarkIndexed 把 submitted 状态的记录推进到 indexed，并保存原始响应。
// WHERE 里的状态条件保证终态不会被再次改写。
func (l *Ledger) MarkIndexed(id, providerResponse string) error {
	res := l.db.Model(&models.HistoryRecord{}).
		Where("id = ? AND status = ?", id, models.StatusSubmitted).
		Updates(map[string]interface{}{
			"status":            models.StatusIndexed,
			"provider_response": providerResponse,
		})
	if res.Error != nil {
		return fmt.Errorf("update history record: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkFailed 把 submitted 状态的记录推进到 failed，并保存错误信息
func (l *Ledger) MarkFailed(id, errorMessage string) error {
	res := l.db.Model(&models.HistoryRecord{}).
		Where("id = ? AND status = ?", id, models.StatusSubmitted).
		Updates(map[string]interface{}{
			"status":        models.StatusFailed,
			"error_message": errorMessage,
		})
	if res.Error != nil {
		return fmt.Errorf("update history record: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// FailLatestByURL 找到该用户同一 URL 的最新一条 submitted 记录标记为失败。
// 只在创建记录本身失败时作为兜底使用，属于尽力而为。
func (l *Ledger) FailLatestByURL(ownerID uint, url, errorMessage string) error {
	var rec models.HistoryRecord
	err := l.db.Where("user_id = ? AND url = ? AND status = ?",
		ownerID, url, models.StatusSubmitted).
		Order("created_at DESC").
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("query history record: %w", err)
	}
	return l.MarkFailed(rec.ID, errorMessage)
}

// ListForOwner 返回该用户的记录，最新的在前，最多 limit 条
func (l *Ledger) ListForOwner(ownerID uint, limit int) ([]models.HistoryRecord, error) {
	if limit <= 0 || limit > 50 {
		limit = 50
	}
	var records []models.HistoryRecord
	if err := l.db.Where("user_id = ?", ownerID).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return records, nil
}

// AllForOwner 返回该用户的全部记录（导出用），最新的在前
func (l *Ledger) AllForOwner(ownerID uint) ([]models.HistoryRecord, error) {
	var records []models.HistoryRecord
	if err := l.db.Where("user_id = ?", ownerID).
		Order("created_at DESC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return records, nil
}

// GetOwned 按归属查询单条记录
func (l *Ledger) GetOwned(ownerID uint, id string) (*models.HistoryRecord, error) {
	var rec models.HistoryRecord
	err := l.db.Where("id = ? AND user_id = ?", id, ownerID).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query history record: %w", err)
	}
	return &rec, nil
}

// DeleteOwned 按归属删除单条记录，重复删除同样返回 ErrNotFound
func (l *Ledger) DeleteOwned(ownerID uint, id string) error {
	res := l.db.Where("id = ? AND user_id = ?", id, ownerID).
		Delete(&models.HistoryRecord{})
	if res.Error != nil {
		return fmt.Errorf("delete history record: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
