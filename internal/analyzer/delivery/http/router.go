package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	swagger "github.com/swaggo/echo-swagger"

	_ "golang-stock-sentiment/internal/analyzer/docs"
	"golang-stock-sentiment/internal/analyzer/metrics"
)

// NewRouter builds the Echo server with every analyzer route mounted.
func NewRouter(analysis *AnalysisHandler, signals *SignalHandler, health *HealthHandler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	e.GET("/health", health.Health)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	e.GET("/swagger/*", swagger.WrapHandler)

	apiV1 := e.Group("/api/v1")
	analysis.RegisterRoutes(apiV1.Group("/analysis"))
	signals.RegisterRoutes(apiV1.Group("/signals"))
	return e
}
