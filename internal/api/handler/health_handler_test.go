package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestHealthHandler_Liveness(t *testing.T) {
	e := echo.New()
	h := NewHealthHandler()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Liveness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestHealthHandler_Readiness(t *testing.T) {
	up := func(ctx context.Context) error { return nil }
	down := func(ctx context.Context) error { return errors.New("connection refused") }

	cases := []struct {
		name       string
		deps       []Dependency
		wantCode   int
		wantStatus string
	}{
		{name: "all up", deps: []Dependency{{Name: "mongodb", Ping: up}, {Name: "redis", Ping: up}}, wantCode: http.StatusOK, wantStatus: "ok"},
		{name: "redis down", deps: []Dependency{{Name: "mongodb", Ping: up}, {Name: "redis", Ping: down}}, wantCode: http.StatusServiceUnavailable, wantStatus: "degraded"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			h := NewHealthHandler(tc.deps...)

			req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			if err := h.Readiness(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, rec.Code)
			}
			resp := decodeBody(t, rec)
			if resp["status"] != tc.wantStatus {
				t.Fatalf("expected status %q, got %+v", tc.wantStatus, resp)
			}
			deps, ok := resp["dependencies"].(map[string]any)
			if !ok || len(deps) != len(tc.deps) {
				t.Fatalf("unexpected dependencies: %+v", resp["dependencies"])
			}
		})
	}
}
