package handler

import (
	"errors"
	"net/http"

	"stellar-indexer/internal/auth"
	"stellar-indexer/internal/config"
	"stellar-indexer/internal/models"
	"stellar-indexer/internal/util"

	"github.com/gin-gonic/gin"
)

// AuthHandler 负责注册/登录/登出接口
type AuthHandler struct {
	Store  *auth.Store
	Tokens *auth.TokenService
	Cookie config.CookieConfig
}

func NewAuthHandler(store *auth.Store, tokens *auth.TokenService, cookie config.CookieConfig) *AuthHandler {
	return &AuthHandler{
		Store:  store,
		Tokens: tokens,
		Cookie: cookie,
	}
}

// currentUser 取出 Auth 中间件放进 context 的用户
func currentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get("currentUser")
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}

func sameSiteMode(name string) http.SameSite {
	switch name {
	case "none":
		return http.SameSiteNoneMode
	case "strict":
		return http.SameSiteStrictMode
	default:
		return http.SameSiteLaxMode
	}
}

// setSessionCookie 下发会话 cookie，过期时间和 token 有效期一致
func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(sameSiteMode(h.Cookie.SameSite))
	maxAge := int(h.Tokens.TTL().Seconds())
	c.SetCookie(h.Cookie.Name, token, maxAge, "/", h.Cookie.Domain, h.Cookie.Secure, true)
}

func (h *AuthHandler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(sameSiteMode(h.Cookie.SameSite))
	c.SetCookie(h.Cookie.Name, "", -1, "/", h.Cookie.Domain, h.Cookie.Secure, true)
}

// userJSON 用户的公开字段
func userJSON(user *models.User) gin.H {
	return gin.H{
		"id":       user.ID,
		"user_id":  user.UserID,
		"fullname": user.FullName,
		"email":    user.Email,
	}
}

// ---------- 注册 ----------

type registerReq struct {
	UserID   string `json:"user_id" binding:"required"`
	FullName string `json:"fullname" binding:"required,max=64"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid request body")
		return
	}

	user, err := h.Store.Register(req.UserID, req.FullName, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrDuplicateUserID):
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "User ID already exists")
		case errors.Is(err, auth.ErrDuplicateEmail):
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Email already exists")
		default:
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		}
		return
	}

	token, err := h.Tokens.Issue(user.ID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Error generating token")
		return
	}
	h.setSessionCookie(c, token)

	util.Success(c, util.Response{
		"token": token,
		"user":  userJSON(user),
	})
}

// ---------- 登录 ----------

type loginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Please enter email and password")
		return
	}

	user, err := h.Store.Verify(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Invalid email or password")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Login failed")
		}
		return
	}

	token, err := h.Tokens.Issue(user.ID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Error generating token")
		return
	}
	h.setSessionCookie(c, token)

	util.Success(c, util.Response{
		"token": token,
		"user":  userJSON(user),
	})
}

// ---------- 登出 ----------

// Logout token 是无状态的，登出只是清掉客户端的 cookie
func (h *AuthHandler) Logout(c *gin.Context) {
	h.clearSessionCookie(c)
	util.Success(c, util.Response{
		"message": "Logged out successfully",
	})
}
