package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/neon-lab-dev/medhrplus-server/internal/api/middleware"
	"github.com/neon-lab-dev/medhrplus-server/internal/core/domain"
	"github.com/neon-lab-dev/medhrplus-server/internal/core/ports"
	"github.com/neon-lab-dev/medhrplus-server/internal/core/query"
)

type stubJobService struct {
	ports.JobService

	listFn   func(ctx context.Context, p query.Params) (query.Result[*domain.Job], error)
	applyFn  func(ctx context.Context, e *domain.Employee, jobID string) (*domain.Job, error)
	manageFn func(ctx context.Context, p *domain.Principal, jobID, employeeID string, status domain.ApplicationStatus) error
	exportFn func(ctx context.Context, p *domain.Principal, jobID string) ([]byte, string, error)
}

func (s *stubJobService) List(ctx context.Context, p query.Params) (query.Result[*domain.Job], error) {
	return s.listFn(ctx, p)
}

func (s *stubJobService) Apply(ctx context.Context, e *domain.Employee, jobID string) (*domain.Job, error) {
	return s.applyFn(ctx, e, jobID)
}

func (s *stubJobService) ManageApplicant(ctx context.Context, p *domain.Principal, jobID, employeeID string, status domain.ApplicationStatus) error {
	return s.manageFn(ctx, p, jobID, employeeID, status)
}

func (s *stubJobService) ExportApplicants(ctx context.Context, p *domain.Principal, jobID string) ([]byte, string, error) {
	return s.exportFn(ctx, p, jobID)
}

func first(v []string) string {
	if len(v) == 0 {
		return ""
	}
	return v[0]
}

func employerPrincipal(id string) *domain.Principal {
	emp := &domain.Employer{}
	emp.ID = id
	return &domain.Principal{Role: domain.RoleEmployer, Employer: emp}
}

func TestJobHandler_List_Envelope(t *testing.T) {
	e := newTestEcho()
	stub := &stubJobService{
		listFn: func(ctx context.Context, p query.Params) (query.Result[*domain.Job], error) {
			if first(p["page"]) != "2" || first(p["locationType"]) != "remote" {
				t.Fatalf("query string not forwarded: %v", p)
			}
			jobs := make([]*domain.Job, 5)
			for i := range jobs {
				jobs[i] = &domain.Job{ID: "job", Title: "Nurse"}
			}
			return query.Result[*domain.Job]{Items: jobs, Total: 42, Filtered: 20, Page: 2, PageSize: 15}, nil
		},
	}
	h := NewJobHandler(stub)

	c, rec := newJSONContext(e, http.MethodGet, "/api/v1/jobs?page=2&locationType=remote", "")
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	resp := decodeBody(t, rec)
	if resp["success"] != true {
		t.Fatalf("expected success, got %+v", resp)
	}
	if resp["jobsCount"] != float64(42) || resp["filteredJobsCount"] != float64(20) || resp["resultPerPage"] != float64(15) {
		t.Fatalf("unexpected counts: %+v", resp)
	}
	jobs, ok := resp["jobs"].([]any)
	if !ok || len(jobs) != 5 {
		t.Fatalf("expected 5 jobs, got %+v", resp["jobs"])
	}
}

func TestJobHandler_Apply_RequiresEmployee(t *testing.T) {
	e := newTestEcho()
	h := NewJobHandler(&stubJobService{})

	c, _ := newJSONContext(e, http.MethodPut, "/api/v1/apply/job/j1", "")
	if err := h.Apply(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
}

func TestJobHandler_Apply_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubJobService{
		applyFn: func(ctx context.Context, emp *domain.Employee, jobID string) (*domain.Job, error) {
			if emp.ID != "emp-1" || jobID != "j1" {
				t.Fatalf("unexpected args: %s %s", emp.ID, jobID)
			}
			return &domain.Job{ID: jobID}, nil
		},
	}
	h := NewJobHandler(stub)

	c, rec := newJSONContext(e, http.MethodPut, "/api/v1/apply/job/j1", "")
	c.SetParamNames("id")
	c.SetParamValues("j1")
	emp := &domain.Employee{}
	emp.ID = "emp-1"
	c.Set(string(domain.RoleEmployee), emp)

	if err := h.Apply(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestJobHandler_Manage_RejectsUnknownStatus(t *testing.T) {
	e := newTestEcho()
	stub := &stubJobService{
		manageFn: func(ctx context.Context, p *domain.Principal, jobID, employeeID string, status domain.ApplicationStatus) error {
			t.Fatalf("should not be called")
			return nil
		},
	}
	h := NewJobHandler(stub)

	c, _ := newJSONContext(e, http.MethodPut, "/api/v1/jobs/manage", `{"jobId":"j1","applicantId":"emp-1","status":"ACCEPTED"}`)
	c.Set(middleware.PrincipalKey, employerPrincipal("boss"))

	if err := h.Manage(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestJobHandler_Manage_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubJobService{
		manageFn: func(ctx context.Context, p *domain.Principal, jobID, employeeID string, status domain.ApplicationStatus) error {
			if p.ID() != "boss" || jobID != "j1" || employeeID != "emp-1" || status != domain.ApplicationHired {
				t.Fatalf("unexpected args: %s %s %s %s", p.ID(), jobID, employeeID, status)
			}
			return nil
		},
	}
	h := NewJobHandler(stub)

	c, rec := newJSONContext(e, http.MethodPut, "/api/v1/jobs/manage", `{"jobId":"j1","applicantId":"emp-1","status":"HIRED"}`)
	c.Set(middleware.PrincipalKey, employerPrincipal("boss"))

	if err := h.Manage(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decodeBody(t, rec)
	if resp["message"] != "Job status has been changed to HIRED!" {
		t.Fatalf("unexpected message: %+v", resp)
	}
}

func TestJobHandler_ExportApplicants(t *testing.T) {
	e := newTestEcho()
	stub := &stubJobService{
		exportFn: func(ctx context.Context, p *domain.Principal, jobID string) ([]byte, string, error) {
			return []byte("xlsx"), "applicants-j1.xlsx", nil
		},
	}
	h := NewJobHandler(stub)

	c, rec := newJSONContext(e, http.MethodGet, "/api/v1/job/j1/applicants/export", "")
	c.SetParamNames("id")
	c.SetParamValues("j1")
	c.Set(middleware.PrincipalKey, employerPrincipal("boss"))

	if err := h.ExportApplicants(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="applicants-j1.xlsx"` {
		t.Fatalf("unexpected disposition %q", got)
	}
	if got := rec.Header().Get("Content-Type"); got != xlsxContentType {
		t.Fatalf("unexpected content type %q", got)
	}
	if rec.Body.String() != "xlsx" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}
