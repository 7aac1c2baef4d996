package models

import "time"

// RequestLog records API requests of logged-in users for auditing.
type RequestLog struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    *uint  `gorm:"index"`
	Method    string `gorm:"size:16"`
	Path      string `gorm:"size:255"`
	Status    int
	IP        string `gorm:"size:64"`
	UserAgent string `gorm:"size:255"`
	LatencyMS int64
	CreatedAt time.Time
}
