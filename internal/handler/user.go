package handler

import (
	"net/http"

	"stellar-indexer/internal/util"

	"github.com/gin-gonic/gin"
)

// GetMe 返回当前登录用户信息（需要经过 Auth 中间件）
func GetMe(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Login first to access this resource")
		return
	}

	util.Success(c, util.Response{
		"user": gin.H{
			"id":         user.ID,
			"user_id":    user.UserID,
			"fullname":   user.FullName,
			"email":      user.Email,
			"created_at": user.CreatedAt,
		},
	})
}
