package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/neon-lab-dev/medhrplus-server/internal/core/domain"
)

func TestHTTPErrorHandler(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"validation", domain.NewError(domain.ErrValidation, "email is required"), http.StatusBadRequest, "email is required"},
		{"unauthenticated", domain.ErrUnauthenticated, http.StatusUnauthorized, "please login to access this resource"},
		{"invalid token", domain.ErrInvalidToken, http.StatusUnauthorized, "invalid or expired token"},
		{"bad credentials", domain.NewError(domain.ErrInvalidCredentials, "Invalid email or password"), http.StatusUnauthorized, "Invalid email or password"},
		{"wrong role", domain.ErrUnauthorizedRole, http.StatusForbidden, "unauthorized role"},
		{"not owner", domain.NewError(domain.ErrForbidden, "You are not allowed to edit this job"), http.StatusForbidden, "You are not allowed to edit this job"},
		{"principal gone", domain.ErrPrincipalNotFound, http.StatusNotFound, "user not found"},
		{"wrapped not found", fmt.Errorf("job repo: %w", domain.NewError(domain.ErrNotFound, "Job not found")), http.StatusNotFound, "Job not found"},
		{"conflict", domain.NewError(domain.ErrConflict, "Already applied"), http.StatusConflict, "Already applied"},
		{"rate limited", domain.ErrRateLimited, http.StatusTooManyRequests, "too many requests"},
		{"upstream", domain.NewError(domain.ErrUpstream, "Email could not be sent"), http.StatusBadGateway, "Email could not be sent"},
		{"echo error", echo.NewHTTPError(http.StatusMethodNotAllowed, "Method Not Allowed"), http.StatusMethodNotAllowed, "Method Not Allowed"},
		{"unexpected", errors.New("mongo: connection reset"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			NewHTTPErrorHandler(zerolog.Nop())(tc.err, c)

			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, rec.Code)
			}
			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp.Success {
				t.Fatalf("expected success=false")
			}
			if resp.Message != tc.wantMsg {
				t.Fatalf("expected message %q, got %q", tc.wantMsg, resp.Message)
			}
		})
	}
}

func TestHTTPErrorHandler_HeadHasNoBody(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodHead, "/api/v1/jobs", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(domain.ErrNotFound, c)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", rec.Body.String())
	}
}

func TestHTTPErrorHandler_SkipsCommittedResponse(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	_ = c.String(http.StatusOK, "done")
	NewHTTPErrorHandler(zerolog.Nop())(domain.ErrNotFound, c)

	if rec.Code != http.StatusOK || rec.Body.String() != "done" {
		t.Fatalf("committed response was overwritten: %d %q", rec.Code, rec.Body.String())
	}
}
