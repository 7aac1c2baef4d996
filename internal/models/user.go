package models

import "time"

// User represents a registered account.
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	UserID       string `gorm:"size:64;uniqueIndex;not null" json:"user_id"` // 对外的用户标识
	Email        string `gorm:"size:255;uniqueIndex;not null" json:"email"`  // 存小写
	FullName     string `gorm:"size:64" json:"fullname"`
	PasswordHash string `gorm:"size:255;not null" json:"-"` // bcrypt 哈希，永不返回给前端
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"-"`
}
