package middleware

import (
	"time"

	"stellar-indexer/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RequestLogger 记录登录用户的 API 请求：结构化日志一条，
// 同时落一行 RequestLog 方便事后审计。落库失败不影响请求。
func RequestLogger(db *gorm.DB, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		// 获取用户 ID
		var userID *uint
		if v, ok := c.Get("currentUser"); ok {
			if user, ok := v.(*models.User); ok && user != nil {
				userID = &user.ID
			}
		}

		// 只记录登录用户的操作
		if userID == nil {
			return
		}

		latency := time.Since(start)
		logger.Info("request",
			zap.Uint("user_id", *userID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
		)

		entry := models.RequestLog{
			UserID:    userID,
			Method:    c.Request.Method,
			Path:      c.Request.URL.Path,
			Status:    c.Writer.Status(),
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
			LatencyMS: latency.Milliseconds(),
		}
		_ = db.Create(&entry).Error
	}
}
