package handler

import (
	"net/http"

	"cadena-service/internal/chain"
	mid "cadena-service/internal/middleware"
	"cadena-service/pkg/logger"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the echo instance with middleware and all routes
func NewRouter(service *chain.Service) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
	}))
	e.Use(mid.RequestIDMiddleware)
	e.Use(logger.Middleware())
	e.Use(mid.MetricsMiddleware)

	// Public routes
	e.GET("/", Hello)
	e.GET("/health", HealthCheck(service))
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Chain API routes
	NewChainHandler(service).Register(e.Group("/cadenas"))

	return e
}
