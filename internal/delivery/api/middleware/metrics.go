package middleware

import (
	"time"

	"shoponline/internal/infra/metrics"

	"github.com/labstack/echo/v4"
)

// RequestMetrics records count and latency of every request by route template.
func RequestMetrics(m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				// The error handler has not written yet; report the status it will send.
				c.Error(err)
				status = c.Response().Status
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			m.ObserveRequest(c.Request().Method, route, status, time.Since(start))

			return nil
		}
	}
}
