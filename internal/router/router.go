package router

import (
	"net/http"

	"stellar-indexer/internal/auth"
	"stellar-indexer/internal/config"
	"stellar-indexer/internal/handler"
	"stellar-indexer/internal/history"
	"stellar-indexer/internal/indexing"
	"stellar-indexer/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin engine and wires all handlers.
func SetupRouter(cfg *config.Config, db *gorm.DB, provider indexing.Provider, logger *zap.Logger) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	store := auth.NewStore(db)
	tokens := auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	ledger := history.NewLedger(db)
	pipeline := indexing.NewPipeline(ledger, provider, cfg.Indexing.BatchMax, logger)

	// ====== API ======
	api := r.Group("/api")

	// 登录/注册接口（不需要鉴权）
	authHandler := handler.NewAuthHandler(store, tokens, cfg.Cookie)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/auth/logout", authHandler.Logout)

	// 需要登录才能访问的接口
	protected := api.Group("")
	protected.Use(
		middleware.Auth(tokens, store, cfg.Cookie.Name),
		middleware.RequestLogger(db, logger),
	)

	protected.GET("/auth/me", handler.GetMe)

	indexingHandler := handler.NewIndexingHandler(pipeline, cfg.Indexing.BatchDelayMS)
	protected.POST("/indexing/submit-url", indexingHandler.SubmitURL)
	protected.POST("/indexing/submit-batch", indexingHandler.SubmitBatch)

	historyHandler := handler.NewHistoryHandler(ledger, cfg.App.HistoryLimit)
	protected.GET("/history/my-history", historyHandler.MyHistory)
	protected.GET("/history/:id", historyHandler.GetRecord)
	protected.DELETE("/history/:id", historyHandler.DeleteRecord)

	exportHandler := handler.NewExportHandler(ledger)
	protected.GET("/export/csv", exportHandler.ExportCSV)
	protected.GET("/export/xlsx", exportHandler.ExportXLSX)

	return r
}
