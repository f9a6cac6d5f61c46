package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/yamdb/api-yamdb/internal/api/handler"
	"github.com/yamdb/api-yamdb/internal/core/domain"
)

func render(t *testing.T, log zerolog.Logger, err error) (int, errorResponse) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	NewHTTPErrorHandler(log)(err, c)

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return rec.Code, body
}

func TestHTTPErrorHandler_StatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"validation", domain.ErrValidation, http.StatusBadRequest},
		{"username conflict", domain.ErrUsernameTaken, http.StatusBadRequest},
		{"duplicate review", fmt.Errorf("create review: %w", domain.ErrReviewExists), http.StatusBadRequest},
		{"unknown user", domain.ErrUserNotFound, http.StatusNotFound},
		{"missing title", domain.ErrTitleNotFound, http.StatusNotFound},
		{"anonymous", domain.ErrUnauthenticated, http.StatusUnauthorized},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden},
		{"echo error", echo.NewHTTPError(http.StatusMethodNotAllowed, "nope"), http.StatusMethodNotAllowed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, body := render(t, zerolog.Nop(), tc.err)
			if code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, code)
			}
			if body.Error == "" {
				t.Fatalf("expected error message")
			}
		})
	}
}

func TestHTTPErrorHandler_FieldErrors(t *testing.T) {
	code, body := render(t, zerolog.Nop(), domain.NewFieldError("score", "must be between 1 and 10"))
	if code != http.StatusBadRequest || body.Fields["score"] != "must be between 1 and 10" {
		t.Fatalf("unexpected response %d: %+v", code, body)
	}

	code, body = render(t, zerolog.Nop(), &handler.ValidationError{Fields: map[string]string{"email": "is required"}})
	if code != http.StatusBadRequest || body.Fields["email"] != "is required" {
		t.Fatalf("unexpected response %d: %+v", code, body)
	}

	code, body = render(t, zerolog.Nop(), domain.ErrInvalidCredential)
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
	if _, ok := body.Fields["confirmation_code"]; !ok {
		t.Fatalf("expected confirmation_code field, got %+v", body)
	}
}

func TestHTTPErrorHandler_UnexpectedErrorIsLoggedNotLeaked(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	code, body := render(t, log, errors.New("mongo: connection reset"))
	if code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", code)
	}
	if strings.Contains(body.Error, "mongo") {
		t.Fatalf("internal detail leaked: %q", body.Error)
	}
	if !strings.Contains(buf.String(), "connection reset") {
		t.Fatalf("expected cause in log, got %q", buf.String())
	}
}
