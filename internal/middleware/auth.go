package middleware

import (
	"net/http"
	"strings"

	"stellar-indexer/internal/auth"
	"stellar-indexer/internal/util"

	"github.com/gin-gonic/gin"
)

// Auth 校验会话 token，并在 context 里放入当前用户。
// 这是唯一的鉴权边界，后面的 handler 默认它已经执行过。
func Auth(tokens *auth.TokenService, store *auth.Store, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenStr string

		// 1) Cookie（浏览器端的主要载体）
		if cookie, err := c.Cookie(cookieName); err == nil {
			tokenStr = cookie
		}

		// 2) Header: Authorization: Bearer xxx（API 调用方）
		if tokenStr == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader != "" {
				parts := strings.SplitN(authHeader, " ", 2)
				if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
					tokenStr = parts[1]
				}
			}
		}

		if tokenStr == "" {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Login first to access this resource")
			c.Abort()
			return
		}

		userID, err := tokens.Verify(tokenStr)
		if err != nil {
			// 过期和非法对调用方不作区分
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Invalid token")
			c.Abort()
			return
		}

		// token 里只有用户 ID，完整资料要回查一次
		user, err := store.GetByID(userID)
		if err != nil {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Invalid token")
			c.Abort()
			return
		}

		c.Set("currentUser", user)
		c.Next()
	}
}
