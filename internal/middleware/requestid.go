package middleware

import (
	"cadena-service/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequestIDMiddleware adds a unique request ID to each request and scopes the
// logger to it, both on the echo context and on the request context.
func RequestIDMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		// Reuse the caller's request ID or generate a new one
		requestID := c.Request().Header.Get(logger.RequestIDKey)
		if requestID == "" {
			requestID = uuid.New().String()
			c.Request().Header.Set(logger.RequestIDKey, requestID)
		}
		c.Response().Header().Set(logger.RequestIDKey, requestID)
		c.Set("request_id", requestID)

		// Create a request-scoped logger
		log := logger.GetLogger().With(zap.String("request_id", requestID))
		c.Set("logger", log)

		req := c.Request()
		c.SetRequest(req.WithContext(logger.WithContext(req.Context(), log)))

		return next(c)
	}
}
