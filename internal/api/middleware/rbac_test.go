package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/yamdb/api-yamdb/internal/core/access"
	"github.com/yamdb/api-yamdb/internal/core/domain"
)

func runAuthorize(t *testing.T, resource access.Resource, method string, actor *domain.User) (bool, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	if actor != nil {
		c.Set(ActorKey, actor)
	}

	called := false
	err := Authorize(resource)(func(c echo.Context) error {
		called = true
		return nil
	})(c)
	return called, err
}

func TestAuthorize(t *testing.T) {
	user := &domain.User{ID: "u", Role: domain.RoleUser}
	admin := &domain.User{ID: "a", Role: domain.RoleAdmin}

	cases := []struct {
		name     string
		resource access.Resource
		method   string
		actor    *domain.User
		wantErr  error
	}{
		{"anonymous reads catalog", access.ResourceCatalog, http.MethodGet, nil, nil},
		{"anonymous writes catalog", access.ResourceCatalog, http.MethodPost, nil, domain.ErrUnauthenticated},
		{"user writes catalog", access.ResourceCatalog, http.MethodDelete, user, domain.ErrForbidden},
		{"admin writes catalog", access.ResourceCatalog, http.MethodPatch, admin, nil},
		{"anonymous reads reviews", access.ResourceReview, http.MethodGet, nil, nil},
		{"anonymous posts review", access.ResourceReview, http.MethodPost, nil, domain.ErrUnauthenticated},
		{"user posts review", access.ResourceReview, http.MethodPost, user, nil},
		{"user lists users", access.ResourceUsers, http.MethodGet, user, domain.ErrForbidden},
		{"admin lists users", access.ResourceUsers, http.MethodGet, admin, nil},
		{"anonymous self", access.ResourceSelf, http.MethodGet, nil, domain.ErrUnauthenticated},
		{"user self update", access.ResourceSelf, http.MethodPatch, user, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			called, err := runAuthorize(t, tc.resource, tc.method, tc.actor)
			if tc.wantErr == nil {
				if err != nil || !called {
					t.Fatalf("expected pass-through, got called=%v err=%v", called, err)
				}
				return
			}
			if called {
				t.Fatalf("should not reach next")
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}
