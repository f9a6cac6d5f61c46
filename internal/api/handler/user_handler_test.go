package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/yamdb/api-yamdb/internal/api/middleware"
	"github.com/yamdb/api-yamdb/internal/core/domain"
	"github.com/yamdb/api-yamdb/internal/core/ports"
)

type stubUserService struct {
	listFn       func(ctx context.Context) ([]*domain.User, error)
	createFn     func(ctx context.Context, in ports.CreateUserInput) (*domain.User, error)
	getFn        func(ctx context.Context, username string) (*domain.User, error)
	updateFn     func(ctx context.Context, username string, in ports.UpdateUserInput) (*domain.User, error)
	deleteFn     func(ctx context.Context, username string) error
	updateSelfFn func(ctx context.Context, actor *domain.User, in ports.UpdateUserInput) (*domain.User, error)
}

func (s *stubUserService) List(ctx context.Context) ([]*domain.User, error) { return s.listFn(ctx) }

func (s *stubUserService) Create(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	return s.createFn(ctx, in)
}

func (s *stubUserService) Get(ctx context.Context, username string) (*domain.User, error) {
	return s.getFn(ctx, username)
}

func (s *stubUserService) Update(ctx context.Context, username string, in ports.UpdateUserInput) (*domain.User, error) {
	return s.updateFn(ctx, username, in)
}

func (s *stubUserService) Delete(ctx context.Context, username string) error {
	return s.deleteFn(ctx, username)
}

func (s *stubUserService) UpdateSelf(ctx context.Context, actor *domain.User, in ports.UpdateUserInput) (*domain.User, error) {
	return s.updateSelfFn(ctx, actor, in)
}

func withActor(u *domain.User) func(echo.Context) {
	return func(c echo.Context) { c.Set(middleware.ActorKey, u) }
}

func withParams(names []string, values []string) func(echo.Context) {
	return func(c echo.Context) {
		c.SetParamNames(names...)
		c.SetParamValues(values...)
	}
}

func TestUserHandler_CreateWithRole(t *testing.T) {
	e := newTestEcho()
	stub := &stubUserService{
		createFn: func(_ context.Context, in ports.CreateUserInput) (*domain.User, error) {
			if in.Role == nil || *in.Role != domain.RoleModerator {
				t.Fatalf("expected moderator role, got %v", in.Role)
			}
			return &domain.User{Username: in.Username, Email: in.Email, Role: *in.Role}, nil
		},
	}
	h := NewUserHandler(stub)

	rec, err := call(t, e, h.Create, http.MethodPost, `{"username":"mod","email":"mod@example.com","role":"moderator"}`, nil)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var resp userResponse
	decode(t, rec, &resp)
	if resp.Role != "moderator" || resp.Username != "mod" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestUserHandler_CreateRejectsUnknownRole(t *testing.T) {
	e := newTestEcho()
	h := NewUserHandler(&stubUserService{})

	_, err := call(t, e, h.Create, http.MethodPost, `{"username":"x","email":"x@example.com","role":"root"}`, nil)
	if _, ok := fieldsOf(t, err)["role"]; !ok {
		t.Fatalf("expected role error, got %v", err)
	}
}

func TestUserHandler_GetMissing(t *testing.T) {
	e := newTestEcho()
	stub := &stubUserService{
		getFn: func(_ context.Context, username string) (*domain.User, error) {
			if username != "ghost" {
				t.Fatalf("unexpected username %q", username)
			}
			return nil, domain.ErrUserNotFound
		},
	}
	h := NewUserHandler(stub)

	_, err := call(t, e, h.Get, http.MethodGet, "", withParams([]string{"username"}, []string{"ghost"}))
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUserHandler_DeleteReturnsNoContent(t *testing.T) {
	e := newTestEcho()
	deleted := ""
	stub := &stubUserService{
		deleteFn: func(_ context.Context, username string) error {
			deleted = username
			return nil
		},
	}
	h := NewUserHandler(stub)

	rec, err := call(t, e, h.Delete, http.MethodDelete, "", withParams([]string{"username"}, []string{"bob"}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent || deleted != "bob" {
		t.Fatalf("expected 204 deleting bob, got %d deleting %q", rec.Code, deleted)
	}
}

func TestUserHandler_Me(t *testing.T) {
	e := newTestEcho()
	h := NewUserHandler(&stubUserService{})
	bob := &domain.User{ID: "b", Username: "bob", Email: "bob@example.com", Role: domain.RoleUser}

	rec, err := call(t, e, h.Me, http.MethodGet, "", withActor(bob))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp userResponse
	decode(t, rec, &resp)
	if resp.Username != "bob" || resp.Role != "user" {
		t.Fatalf("unexpected payload: %+v", resp)
	}

	_, err = call(t, e, h.Me, http.MethodGet, "", nil)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestUserHandler_UpdateMePassesActor(t *testing.T) {
	e := newTestEcho()
	bob := &domain.User{ID: "b", Username: "bob", Role: domain.RoleUser}
	stub := &stubUserService{
		updateSelfFn: func(_ context.Context, actor *domain.User, in ports.UpdateUserInput) (*domain.User, error) {
			if actor != bob {
				t.Fatalf("actor not forwarded")
			}
			if in.Bio == nil || *in.Bio != "hello" {
				t.Fatalf("bio not forwarded: %+v", in)
			}
			u := *bob
			u.Bio = *in.Bio
			return &u, nil
		},
	}
	h := NewUserHandler(stub)

	rec, err := call(t, e, h.UpdateMe, http.MethodPatch, `{"bio":"hello","role":"admin"}`, withActor(bob))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp userResponse
	decode(t, rec, &resp)
	if resp.Bio != "hello" || resp.Role != "user" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}
