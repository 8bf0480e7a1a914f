package server

import (
	"github.com/labstack/echo/v4"

	"example.com/financial-health/internal/auth"
	"example.com/financial-health/internal/handlers"
)

func registerRoutes(
	e *echo.Echo,
	reportHandler *handlers.FinancialHealthHandler,
	notificationHandler *handlers.NotificationHandler,
	healthHandler *handlers.HealthHandler,
	metricsHandler echo.HandlerFunc,
	authMiddleware echo.MiddlewareFunc,
	reportRateLimiter echo.MiddlewareFunc,
) {
	e.GET("/health", healthHandler.Health)
	e.GET("/metrics", metricsHandler)

	e.POST("/financial-health", reportHandler.Generate, authMiddleware, reportRateLimiter)

	api := e.Group("/api/v1", authMiddleware)

	reports := api.Group("/financial-health")
	reports.POST("", reportHandler.Generate, reportRateLimiter)
	reports.POST("/export/csv", reportHandler.ExportCSV, reportRateLimiter)
	reports.GET("/reports/:id", reportHandler.GetReport, auth.RequireUser)

	notifications := api.Group("/notifications", auth.RequireUser)
	notifications.GET("/stream", notificationHandler.Stream)
}
