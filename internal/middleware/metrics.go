package middleware

import (
	"cadena-service/prometheus"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// MetricsMiddleware adds prometheus metrics to track HTTP requests
func MetricsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		// Process request
		err := next(c)

		// Handler errors are rendered by echo after the middleware chain returns
		status := c.Response().Status
		if err != nil {
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			} else {
				status = http.StatusInternalServerError
			}
		}

		// Record metrics
		prometheus.ObserveHTTPRequest(c.Request().Method, c.Path(), strconv.Itoa(status), time.Since(start))

		return err
	}
}
