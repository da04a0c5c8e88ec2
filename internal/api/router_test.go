package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/neon-lab-dev/medhrplus-server/internal/core/domain"
	"github.com/neon-lab-dev/medhrplus-server/internal/core/ports"
	"github.com/neon-lab-dev/medhrplus-server/internal/core/query"
)

// headerResolver treats "Bearer <role>:<id>" as a valid token.
type headerResolver struct{}

func (headerResolver) Resolve(ctx context.Context, header string, allowed ...domain.Role) (*domain.Principal, error) {
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return nil, domain.ErrUnauthenticated
	}
	role, id, _ := strings.Cut(token, ":")
	permitted := false
	for _, r := range allowed {
		if domain.Role(role) == r {
			permitted = true
		}
	}
	if !permitted {
		return nil, domain.ErrUnauthorizedRole
	}
	switch domain.Role(role) {
	case domain.RoleAdmin:
		a := &domain.Admin{}
		a.ID = id
		return &domain.Principal{Role: domain.RoleAdmin, Admin: a}, nil
	case domain.RoleEmployer:
		e := &domain.Employer{}
		e.ID = id
		return &domain.Principal{Role: domain.RoleEmployer, Employer: e}, nil
	}
	e := &domain.Employee{}
	e.ID = id
	return &domain.Principal{Role: domain.RoleEmployee, Employee: e}, nil
}

type routerJobs struct {
	ports.JobService
}

func (routerJobs) List(ctx context.Context, p query.Params) (query.Result[*domain.Job], error) {
	return query.Result[*domain.Job]{Items: []*domain.Job{{ID: "j1"}}, Total: 1, Filtered: 1, Page: 1, PageSize: 15}, nil
}

func (routerJobs) ListPosted(ctx context.Context, p *domain.Principal, params query.Params) (query.Result[*domain.Job], error) {
	return query.Result[*domain.Job]{Items: []*domain.Job{}, Page: 1, PageSize: 15}, nil
}

type routerAdmin struct {
	ports.AdminService
}

func (routerAdmin) Counts(ctx context.Context) (ports.Counts, error) {
	return ports.Counts{Jobs: 1}, nil
}

func TestRouter(t *testing.T) {
	e := NewRouter(Deps{
		Log:      zerolog.Nop(),
		Resolver: headerResolver{},
		Jobs:     routerJobs{},
		Admin:    routerAdmin{},
	})

	cases := []struct {
		name     string
		method   string
		path     string
		auth     string
		wantCode int
	}{
		{"liveness", http.MethodGet, "/health", "", http.StatusOK},
		{"public job board", http.MethodGet, "/api/v1/jobs", "", http.StatusOK},
		{"admin counts without token", http.MethodGet, "/api/v1/admin/counts", "", http.StatusUnauthorized},
		{"admin counts as employer", http.MethodGet, "/api/v1/admin/counts", "Bearer employer:e1", http.StatusForbidden},
		{"admin counts as admin", http.MethodGet, "/api/v1/admin/counts", "Bearer admin:a1", http.StatusOK},
		{"posted jobs as employer", http.MethodGet, "/api/v1/employer/job", "Bearer employer:e1", http.StatusOK},
		{"posted jobs as admin", http.MethodGet, "/api/v1/employer/job", "Bearer admin:a1", http.StatusOK},
		{"posted jobs as employee", http.MethodGet, "/api/v1/employer/job", "Bearer employee:u1", http.StatusForbidden},
		{"unknown route", http.MethodGet, "/api/v1/nope", "", http.StatusNotFound},
		{"metrics", http.MethodGet, "/metrics", "", http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			if tc.auth != "" {
				req.Header.Set("Authorization", tc.auth)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d: %s", tc.wantCode, rec.Code, rec.Body.String())
			}
			if tc.wantCode >= 400 && tc.wantCode != http.StatusNotFound {
				var resp errorResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
					t.Fatalf("invalid json: %v", err)
				}
				if resp.Success || resp.Message == "" {
					t.Fatalf("unexpected error envelope: %+v", resp)
				}
			}
		})
	}
}
