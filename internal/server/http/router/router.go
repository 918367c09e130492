package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/catering/internal/metrics"
	"github.com/polkiloo/catering/internal/server/http/handlers"
	"github.com/polkiloo/catering/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.CateringFacade, logger *slog.Logger, m *metrics.Metrics) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.Metrics(m))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	orderHandler := handlers.NewOrderHandler(facade)
	adminHandler := handlers.NewAdminHandler(facade)
	healthHandler := handlers.NewHealthHandler(facade)

	engine.GET("/healthz", healthHandler.Check)
	engine.GET("/metrics", gin.WrapH(m.Handler()))

	api := engine.Group("/api")
	api.POST("/quotes", orderHandler.Quote)

	orders := api.Group("/orders")
	orders.Use(middleware.AuthRequired(facade))
	orders.POST("", orderHandler.Create)
	orders.GET("", orderHandler.List)
	orders.GET("/:id", orderHandler.Get)
	orders.PATCH("/:id", orderHandler.Edit)
	orders.POST("/:id/status", orderHandler.ChangeStatus)
	orders.GET("/:id/review-eligibility", orderHandler.ReviewEligibility)

	admin := api.Group("/admin")
	admin.Use(middleware.AuthRequired(facade), middleware.OperatorOnly())
	admin.GET("/orders", adminHandler.Search)
	admin.POST("/orders/:id/materials", adminHandler.LoanMaterial)
	admin.POST("/orders/:id/materials/return", adminHandler.ReturnMaterial)
	admin.GET("/materials/overdue", adminHandler.Overdue)
	admin.POST("/analytics/rebuild", adminHandler.RebuildAnalytics)

	return engine
}
