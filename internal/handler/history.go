package handler

import (
	"errors"
	"net/http"

	"stellar-indexer/internal/history"
	"stellar-indexer/internal/util"

	"github.com/gin-gonic/gin"
)

// HistoryHandler 负责提交历史的查询和删除
type HistoryHandler struct {
	Ledger *history.Ledger
	Limit  int
}

func NewHistoryHandler(ledger *history.Ledger, limit int) *HistoryHandler {
	if limit <= 0 {
		limit = 50
	}
	return &HistoryHandler{
		Ledger: ledger,
		Limit:  limit,
	}
}

// MyHistory 返回当前用户的提交历史，最新的在前
func (h *HistoryHandler) MyHistory(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Login first to access this resource")
		return
	}

	records, err := h.Ledger.ListForOwner(user.ID, h.Limit)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to fetch history")
		return
	}

	util.Success(c, util.Response{
		"items": records,
		"count": len(records),
	})
}

// GetRecord 返回单条记录。不属于当前用户的记录一律按不存在处理
func (h *HistoryHandler) GetRecord(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Login first to access this resource")
		return
	}

	record, err := h.Ledger.GetOwned(user.ID, c.Param("id"))
	if err != nil {
		if errors.Is(err, history.ErrNotFound) {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "History record not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to fetch history record")
		}
		return
	}

	util.Success(c, util.Response{
		"record": record,
	})
}

// DeleteRecord 删除单条记录，重复删除同样返回 404
func (h *HistoryHandler) DeleteRecord(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Login first to access this resource")
		return
	}

	if err := h.Ledger.DeleteOwned(user.ID, c.Param("id")); err != nil {
		if errors.Is(err, history.ErrNotFound) {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "History record not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to delete history record")
		}
		return
	}

	util.Success(c, util.Response{
		"message": "History record deleted successfully",
	})
}
