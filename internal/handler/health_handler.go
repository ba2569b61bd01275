package handler

import (
	"context"
	"net/http"
	"time"

	"cadena-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Pinger reports whether the record store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthCheck returns the health endpoint; ?check=db also pings the store
func HealthCheck(p Pinger) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromEcho(c)

		response := map[string]interface{}{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		}

		if c.QueryParam("check") == "db" {
			ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
			defer cancel()

			if err := p.Ping(ctx); err != nil {
				log.Error("Store ping error", zap.Error(err))
				response["status"] = "error"
				response["db_status"] = "error"
				response["db_error"] = "Failed to ping record store"
				return c.JSON(http.StatusInternalServerError, response)
			}
			response["db_status"] = "ok"
		}

		return c.JSON(http.StatusOK, response)
	}
}

// Hello returns a simple welcome message
func Hello(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Welcome to Cadena Service API",
		"version": "1.0.0",
	})
}
