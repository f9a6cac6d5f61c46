package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/yamdb/api-yamdb/internal/core/access"
	"github.com/yamdb/api-yamdb/internal/pkg/metrics"
)

// Authorize enforces the collection-level rule for resource. Ownership of a
// single review or comment is checked later, once the target is loaded.
func Authorize(resource access.Resource) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := access.Request{
				Actor:    Actor(c),
				Action:   access.ActionFromMethod(c.Request().Method),
				Resource: resource,
			}

			decision := access.Authorize(req)
			metrics.AccessDecisionsTotal.
				WithLabelValues(string(resource), req.Action.String(), decision.String()).
				Inc()

			if decision == access.Deny {
				return access.Check(req)
			}
			return next(c)
		}
	}
}
