package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/yamdb/api-yamdb/internal/core/domain"
)

// ActorKey is the echo context key holding the authenticated *domain.User.
const ActorKey = "actor"

// TokenParser validates a bearer token and returns its subject.
type TokenParser interface {
	Parse(raw string) (string, domain.Role, error)
}

// UserLoader reloads the token subject.
type UserLoader interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// Auth resolves an optional bearer token into the acting identity. Requests
// without an Authorization header continue anonymously; a header that does
// not yield a live identity is rejected with 401.
//
// The identity is reloaded on every request, so role changes and deletions
// apply to tokens already issued. The role claim inside the token is not
// trusted.
func Auth(tokens TokenParser, users UserLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return next(c)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			userID, _, err := tokens.Parse(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			user, err := users.FindByID(c.Request().Context(), userID)
			switch {
			case errors.Is(err, domain.ErrUserNotFound):
				return echo.NewHTTPError(http.StatusUnauthorized, "user no longer exists")
			case err != nil:
				return fmt.Errorf("load actor: %w", err)
			case !user.IsActive:
				return echo.NewHTTPError(http.StatusUnauthorized, "user is not active")
			}

			c.Set(ActorKey, user)
			return next(c)
		}
	}
}

// Actor returns the identity set by Auth, or nil for anonymous requests.
func Actor(c echo.Context) *domain.User {
	u, _ := c.Get(ActorKey).(*domain.User)
	return u
}
