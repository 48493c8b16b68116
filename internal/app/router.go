// internal/app/router.go
package app

import (
	businessHandler "omnia-service/internal/handlers/business"
	datasetHandler "omnia-service/internal/handlers/dataset"
	importHandler "omnia-service/internal/handlers/imports"
	strategyHandler "omnia-service/internal/handlers/strategy"
	wsHandler "omnia-service/internal/handlers/websocket"
	"omnia-service/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handlers struct {
	BusinessHandler *businessHandler.BusinessHandler
	StrategyHandler *strategyHandler.StrategyHandler
	DatasetHandler  *datasetHandler.DatasetHandler
	ImportHandler   *importHandler.ImportHandler
	WSHandler       *wsHandler.WebSocketHandler
	AuthMiddleware  *middleware.AuthMiddleware
}

func SetupRouter(r *gin.Engine, logger *zap.Logger, h *Handlers) {
	api := r.Group("/api/v1")

	// ==================== Health Check ====================
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": "1.0.0", "auth": h.AuthMiddleware.Enabled()})
	})

	// ==================== WebSocket ====================
	r.GET("/ws", h.WSHandler.HandleConnection)
	api.GET("/ws/stats", append(h.AuthMiddleware.AdminOnly(), h.WSHandler.GetStats)...)

	// ==================== Businesses ====================
	businesses := api.Group("/businesses")
	businesses.Use(h.AuthMiddleware.Auth())
	{
		businesses.POST("", h.BusinessHandler.UpsertBusiness)
		businesses.POST("/legacy", h.BusinessHandler.UpsertLegacyBusiness)
		businesses.GET("", h.BusinessHandler.ListBusinesses)
		businesses.GET("/:id", h.BusinessHandler.GetBusiness)
		businesses.DELETE("/:id", h.BusinessHandler.DeleteBusiness)

		// Strategy
		businesses.POST("/:id/strategy/generate", h.StrategyHandler.GenerateStrategy)
		businesses.POST("/:id/plan/generate", h.StrategyHandler.GenerateMarketingPlan)
		businesses.POST("/:id/strategy", h.BusinessHandler.SaveStrategy)
		businesses.GET("/:id/workspace", h.StrategyHandler.GetWorkspace)

		// Imports
		businesses.POST("/:id/imports/:kind", h.ImportHandler.MergeFile)
	}

	// ==================== Preview ====================
	preview := api.Group("/strategy")
	preview.Use(h.AuthMiddleware.Auth())
	{
		preview.POST("/preview", h.StrategyHandler.Preview)
	}

	// ==================== Dataset ====================
	dataset := api.Group("/dataset")
	dataset.Use(h.AuthMiddleware.Auth())
	{
		dataset.POST("", h.DatasetHandler.PromoteStrategy)
		dataset.GET("", h.DatasetHandler.ListEntries)
		dataset.GET("/export", h.DatasetHandler.ExportDataset)
		dataset.POST("/archive", h.DatasetHandler.ArchiveDataset)
		dataset.PUT("/:id/outcome", h.DatasetHandler.RecordOutcome)
		dataset.DELETE("/:id", h.DatasetHandler.DeleteEntry)
	}

	// ==================== Imports ====================
	imports := api.Group("/imports")
	imports.Use(h.AuthMiddleware.Auth())
	{
		imports.GET("/templates/:kind", h.ImportHandler.DownloadTemplate)
		imports.POST("/:kind", h.ImportHandler.ParseFile)
	}

	logger.Info("routes registered", zap.Int("count", len(r.Routes())))
}
