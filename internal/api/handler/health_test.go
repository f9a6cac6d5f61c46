package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
)

func TestHealthHandler_Liveness(t *testing.T) {
	h := NewHealthHandler(nil)
	rec, err := call(t, newTestEcho(), h.Liveness, http.MethodGet, "", nil)
	if err != nil || rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%v)", rec.Code, err)
	}
}

func TestHealthHandler_Readiness(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	t.Run("all up", func(t *testing.T) {
		h := NewHealthHandler(map[string]HealthCheck{"mongodb": ok, "redis": ok})
		rec, err := call(t, newTestEcho(), h.Readiness, http.MethodGet, "", nil)
		if err != nil {
			t.Fatalf("handler error: %v", err)
		}
		var resp readinessResponse
		decode(t, rec, &resp)
		if rec.Code != http.StatusOK || resp.Status != "ok" || len(resp.Dependencies) != 2 {
			t.Fatalf("unexpected response %d: %+v", rec.Code, resp)
		}
	})

	t.Run("redis down", func(t *testing.T) {
		h := NewHealthHandler(map[string]HealthCheck{"mongodb": ok, "redis": down})
		rec, err := call(t, newTestEcho(), h.Readiness, http.MethodGet, "", nil)
		if err != nil {
			t.Fatalf("handler error: %v", err)
		}
		var resp readinessResponse
		decode(t, rec, &resp)
		if rec.Code != http.StatusServiceUnavailable || resp.Status != "degraded" {
			t.Fatalf("expected 503 degraded, got %d: %+v", rec.Code, resp)
		}
		if resp.Dependencies["redis"].Error != "connection refused" || resp.Dependencies["mongodb"].Status != "ok" {
			t.Fatalf("unexpected dependencies: %+v", resp.Dependencies)
		}
	})
}
