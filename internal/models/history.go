package models

import "time"

// 提交记录的状态，只允许向前流转：
// submitted -> indexed 或 submitted -> failed
const (
	StatusSubmitted = "submitted"
	StatusIndexed   = "indexed"
	StatusFailed    = "failed"
	StatusPending   = "pending" // 预留给异步回执的场景，核心流程不会写入
)

// HistoryRecord 表示一次 URL 提交及其最终结果
type HistoryRecord struct {
	ID               string `gorm:"primaryKey;size:36" json:"id"` // UUID
	UserID           uint   `gorm:"index:idx_history_user_created,priority:1;not null" json:"user_id"`
	URL              string `gorm:"size:2048;index;not null" json:"url"`
	Status           string `gorm:"size:16;not null;default:submitted" json:"status"`
	ProviderResponse string `gorm:"type:text" json:"provider_response,omitempty"` // 原始响应（JSON 文本）
	ErrorMessage     string `gorm:"size:1024" json:"error_message,omitempty"`
	CreatedAt        time.Time `gorm:"index:idx_history_user_created,priority:2,sort:desc" json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
