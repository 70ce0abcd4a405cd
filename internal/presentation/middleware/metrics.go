package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kanehiroyuu/hero-tour/internal/infrastructure/metrics"
)

// EchoMetricsMiddleware reports hero_api.request counts and hero_api.duration
// timings tagged by route, method and status. A nil client disables it.
func EchoMetricsMiddleware(client metrics.Client) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if client == nil {
			return next
		}
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
			tags := []string{
				"route:" + c.Path(),
				"method:" + c.Request().Method,
				"status:" + strconv.Itoa(status),
			}
			_ = client.Incr("hero_api.request", tags, 1)
			_ = client.Timing("hero_api.duration", time.Since(start), tags, 1)
			return err
		}
	}
}
