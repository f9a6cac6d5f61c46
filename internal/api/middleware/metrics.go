package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/yamdb/api-yamdb/internal/pkg/metrics"
)

// Metrics records request counts and latency labelled by route pattern.
// Errors are rendered here so the recorded status is the one sent. Requests
// that match no route are grouped under "unmatched".
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			status := strconv.Itoa(c.Response().Status)

			metrics.HTTPRequestsTotal.WithLabelValues(c.Request().Method, route, status).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(c.Request().Method, route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}
