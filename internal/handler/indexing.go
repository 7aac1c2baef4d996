package handler

import (
	"errors"
	"net/http"
	"time"

	"stellar-indexer/internal/indexing"
	"stellar-indexer/internal/util"

	"github.com/gin-gonic/gin"
)

// IndexingHandler 负责 URL 提交接口
type IndexingHandler struct {
	Pipeline     *indexing.Pipeline
	DefaultDelay time.Duration
}

func NewIndexingHandler(pipeline *indexing.Pipeline, defaultDelayMS int) *IndexingHandler {
	if defaultDelayMS <= 0 {
		defaultDelayMS = 1000
	}
	return &IndexingHandler{
		Pipeline:     pipeline,
		DefaultDelay: time.Duration(defaultDelayMS) * time.Millisecond,
	}
}

// ---------- 单条提交 ----------

type submitURLReq struct {
	URL string `json:"url" binding:"required"`
}

func (h *IndexingHandler) SubmitURL(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Login first to access this resource")
		return
	}

	var req submitURLReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "URL is required")
		return
	}

	result, err := h.Pipeline.SubmitURL(c.Request.Context(), user.ID, req.URL)
	if err != nil {
		if errors.Is(err, indexing.ErrInvalidURL) {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid URL format")
			return
		}
		// 外部服务失败：带上分类返回给调用方
		var perr *indexing.ProviderError
		if errors.As(err, &perr) {
			util.ErrorWithData(c, http.StatusInternalServerError, util.CodeProviderErr, perr.Message, util.Response{
				"error_code": string(perr.Code),
				"url":        req.URL,
			})
			return
		}
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Indexing failed")
		return
	}

	util.Success(c, util.Response{
		"message":   "URL successfully submitted for indexing",
		"url":       req.URL,
		"record_id": result.RecordID,
		"status":    result.Status,
		"response":  result.Response,
	})
}

// ---------- 批量提交 ----------

type submitBatchReq struct {
	URLs    []string `json:"urls" binding:"required"`
	DelayMS *int     `json:"delay_ms"`
}

func (h *IndexingHandler) SubmitBatch(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Login first to access this resource")
		return
	}

	var req submitBatchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "URLs array is required")
		return
	}

	delay := h.DefaultDelay
	if req.DelayMS != nil && *req.DelayMS >= 0 {
		delay = time.Duration(*req.DelayMS) * time.Millisecond
	}

	results, err := h.Pipeline.SubmitBatch(c.Request.Context(), user.ID, req.URLs, delay)
	if err != nil {
		if errors.Is(err, indexing.ErrTooManyItems) {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Too many URLs in one batch")
			return
		}
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Batch processing failed")
		return
	}

	util.Success(c, util.Response{
		"results": results,
		"count":   len(results),
	})
}
