package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/neon-lab-dev/medhrplus-server/internal/core/domain"
	"github.com/neon-lab-dev/medhrplus-server/internal/core/ports"
	"github.com/neon-lab-dev/medhrplus-server/internal/core/query"
	"github.com/neon-lab-dev/medhrplus-server/internal/metrics"
)

// JobDeps groups the collaborators of the job service.
type JobDeps struct {
	Jobs      ports.JobRepository
	Employees ports.EmployeeRepository
	Mailer    ports.Mailer
	Queue     ports.MailQueue
	Exporter  ports.ApplicantExporter
}

type jobService struct {
	JobDeps
	appName string
	log     zerolog.Logger
	now     func() time.Time
}

func NewJobService(deps JobDeps, appName string, log zerolog.Logger) ports.JobService {
	return &jobService{JobDeps: deps, appName: appName, log: log, now: time.Now}
}

func (s *jobService) load(ctx context.Context, id string) (*domain.Job, error) {
	job, err := s.Jobs.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Job not found")
	}
	return job, nil
}

// loadOwned loads a job p is allowed to manage.
func (s *jobService) loadOwned(ctx context.Context, p *domain.Principal, id string) (*domain.Job, error) {
	job, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.CanManage(job.PostedBy) {
		return nil, domain.NewError(domain.ErrForbidden, "You are not authorized to manage this job")
	}
	return job, nil
}

func validateJobInput(in ports.JobInput) error {
	switch in.LocationType {
	case domain.LocationRemote, domain.LocationOnsite, domain.LocationHybrid:
	default:
		return domain.Errorf(domain.ErrValidation, "Invalid location type %q", in.LocationType)
	}
	if !domain.ValidEmploymentCategory(in.EmploymentType, in.EmploymentTypeCategory) {
		return domain.Errorf(domain.ErrValidation, "Invalid employment type category %q for %q",
			in.EmploymentTypeCategory, in.EmploymentType)
	}
	switch in.Status {
	case "", domain.JobOpen, domain.JobClosed:
	default:
		return domain.Errorf(domain.ErrValidation, "Invalid job status %q", in.Status)
	}
	return nil
}

func applyJobInput(job *domain.Job, in ports.JobInput) {
	job.Title = strings.TrimSpace(in.Title)
	job.Description = in.Description
	job.Requirements = in.Requirements
	job.RequiredSkills = in.RequiredSkills
	job.Responsibilities = in.Responsibilities
	job.LocationType = in.LocationType
	job.Country = in.Country
	job.City = in.City
	job.EmploymentType = in.EmploymentType
	job.EmploymentTypeCategory = in.EmploymentTypeCategory
	job.TypeOfOrganization = in.TypeOfOrganization
	job.Department = in.Department
	job.EmploymentDuration = in.EmploymentDuration
	job.Salary = in.Salary
	job.ApplicationDeadline = in.ApplicationDeadline
	job.ExtraBenefits = in.ExtraBenefits
	job.Experience = in.Experience
	if in.Status != "" {
		job.Status = in.Status
	}
}

// Create posts a job. Employers get their first company profile copied onto
// the posting.
func (s *jobService) Create(ctx context.Context, p *domain.Principal, in ports.JobInput) (*domain.Job, error) {
	if err := validateJobInput(in); err != nil {
		return nil, err
	}
	job := &domain.Job{
		PostedBy:   domain.PosterOf(p),
		PostedAt:   s.now().UTC(),
		Status:     domain.JobOpen,
		Applicants: []domain.Applicant{},
	}
	applyJobInput(job, in)

	if p.Role == domain.RoleEmployer && p.Employer != nil && len(p.Employer.CompanyDetails) > 0 {
		cd := p.Employer.CompanyDetails[0]
		job.CompanyDetails = &domain.JobCompany{
			CompanyName:  cd.CompanyName,
			IndustryType: cd.IndustryType,
			WebsiteLink:  cd.WebsiteLink,
			Bio:          cd.Bio,
		}
		if avatar := p.Employer.CompanyAvatar; !avatar.Empty() {
			job.CompanyDetails.Logo = avatar.URL
		}
	}

	created, err := s.Jobs.Create(ctx, job)
	if err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	s.log.Info().Str("job", created.ID).Str("by", p.ID()).Msg("job posted")
	return created, nil
}

// List is the public job board.
func (s *jobService) List(ctx context.Context, params query.Params) (query.Result[*domain.Job], error) {
	q := query.New().
		Search(params, "title").
		Filter(params,
			query.CaseInsensitive("employmentTypeCategory", "locationType"),
			query.CaseInsensitiveAs("location", "city"),
		).
		Sort(params, query.Desc("postedAt"))
	return list[*domain.Job](ctx, s.Jobs, q, params)
}

func (s *jobService) Get(ctx context.Context, id string) (*domain.Job, error) {
	return s.load(ctx, id)
}

func (s *jobService) Update(ctx context.Context, p *domain.Principal, id string, in ports.JobInput) (*domain.Job, error) {
	job, err := s.loadOwned(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if err := validateJobInput(in); err != nil {
		return nil, err
	}
	applyJobInput(job, in)
	if err := s.Jobs.UpdateDetails(ctx, job); err != nil {
		return nil, notFound(err, "Job not found")
	}
	return job, nil
}

func (s *jobService) Delete(ctx context.Context, p *domain.Principal, id string) error {
	if _, err := s.loadOwned(ctx, p, id); err != nil {
		return err
	}
	if err := s.Jobs.Delete(ctx, id); err != nil {
		return notFound(err, "Job not found")
	}
	s.log.Info().Str("job", id).Str("by", p.ID()).Msg("job deleted")
	return nil
}

// ListPosted lists the jobs posted by p.
func (s *jobService) ListPosted(ctx context.Context, p *domain.Principal, params query.Params) (query.Result[*domain.Job], error) {
	q := query.New(query.Eq("postedBy._id", p.ID())).
		Search(params, "title").
		Filter(params).
		Sort(params, query.Desc("postedAt"))
	return list[*domain.Job](ctx, s.Jobs, q, params)
}

// Apply records an application. The applicant is told synchronously; the
// poster is notified through the mail queue. A failed confirmation email is
// reported but leaves the application in place.
func (s *jobService) Apply(ctx context.Context, e *domain.Employee, jobID string) (*domain.Job, error) {
	job, err := s.load(ctx, jobID)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	if !job.AcceptsApplications(now) {
		metrics.ApplicationsTotal.WithLabelValues("job", "closed").Inc()
		return nil, domain.NewError(domain.ErrConflict, "Job is closed")
	}

	a := domain.Applicant{Employee: e.ID, AppliedDate: now, Status: domain.ApplicationApplied}
	added, err := s.Jobs.AddApplicant(ctx, jobID, a)
	if err != nil {
		return nil, notFound(err, "Job not found")
	}
	if !added {
		return nil, s.applyRejection(ctx, jobID, now)
	}
	metrics.ApplicationsTotal.WithLabelValues("job", "applied").Inc()
	job.Applicants = append(job.Applicants, a)

	var company string
	if job.CompanyDetails != nil {
		company = job.CompanyDetails.CompanyName
	}
	if job.PostedBy.Email != "" {
		m, err := renderMail(mailNewApplicant, job.PostedBy.Email, "New application for "+job.Title, mailData{
			App:            s.appName,
			Name:           job.PostedBy.FullName,
			Title:          job.Title,
			Applicant:      e.FullName,
			ApplicantEmail: e.Email,
		})
		if err != nil {
			s.log.Error().Err(err).Str("job", jobID).Msg("new applicant email not rendered")
		} else {
			s.Queue.Enqueue(m)
		}
	}

	m, err := renderMail(mailApplicationSent, e.Email, "Application submitted: "+job.Title, mailData{
		App:     s.appName,
		Name:    e.FullName,
		Title:   job.Title,
		Company: company,
	})
	if err == nil {
		err = sendMail(ctx, s.Mailer, m)
	}
	if err != nil {
		s.log.Error().Err(err).Str("job", jobID).Str("employee", e.ID).Msg("application confirmation not sent")
		return nil, domain.NewError(domain.ErrUpstream, "Application submitted but the confirmation email could not be sent")
	}
	return job, nil
}

// applyRejection explains why a conditional apply matched nothing.
func (s *jobService) applyRejection(ctx context.Context, jobID string, now time.Time) error {
	job, err := s.load(ctx, jobID)
	if err != nil {
		return err
	}
	if !job.AcceptsApplications(now) {
		metrics.ApplicationsTotal.WithLabelValues("job", "closed").Inc()
		return domain.NewError(domain.ErrConflict, "Job is closed")
	}
	metrics.ApplicationsTotal.WithLabelValues("job", "duplicate").Inc()
	return domain.NewError(domain.ErrConflict, "You have already applied for this job")
}

func (s *jobService) Withdraw(ctx context.Context, e *domain.Employee, jobID string) error {
	removed, err := s.Jobs.RemoveApplicant(ctx, jobID, e.ID)
	if err != nil {
		return notFound(err, "Job not found")
	}
	if !removed {
		if _, err := s.load(ctx, jobID); err != nil {
			return err
		}
		return domain.NewError(domain.ErrNotFound, "You have not applied for this job")
	}
	metrics.ApplicationsTotal.WithLabelValues("job", "withdrawn").Inc()
	return nil
}

// ListApplied lists the jobs e applied to.
func (s *jobService) ListApplied(ctx context.Context, e *domain.Employee, params query.Params) (query.Result[*domain.Job], error) {
	q := query.New(query.Eq("applicants.employee", e.ID)).
		Search(params, "title").
		Filter(params).
		Sort(params, query.Desc("postedAt"))
	return list[*domain.Job](ctx, s.Jobs, q, params)
}

func (s *jobService) MarkViewed(ctx context.Context, p *domain.Principal, jobID, employeeID string) error {
	if _, err := s.loadOwned(ctx, p, jobID); err != nil {
		return err
	}
	ok, err := s.Jobs.MarkApplicantViewed(ctx, jobID, employeeID)
	if err != nil {
		return notFound(err, "Job not found")
	}
	if !ok {
		return domain.NewError(domain.ErrNotFound, "Applicant not found")
	}
	return nil
}

// ManageApplicant sets the status of an application and lets the applicant
// know. Setting the current status again changes nothing.
func (s *jobService) ManageApplicant(ctx context.Context, p *domain.Principal, jobID, employeeID string, status domain.ApplicationStatus) error {
	job, err := s.loadOwned(ctx, p, jobID)
	if err != nil {
		return err
	}
	if !status.Valid() {
		return domain.Errorf(domain.ErrValidation, "Invalid application status %q", status)
	}
	a, ok := job.Applicant(employeeID)
	if !ok {
		return domain.NewError(domain.ErrNotFound, "Applicant not found")
	}
	if a.Status == status {
		return nil
	}

	moved, err := s.Jobs.SetApplicantStatus(ctx, jobID, employeeID, a.Status, status)
	if err != nil {
		return notFound(err, "Job not found")
	}
	if !moved {
		return domain.NewError(domain.ErrConflict, "Application status was changed by someone else")
	}
	metrics.ApplicationsTotal.WithLabelValues("job", strings.ToLower(string(status))).Inc()

	employee, err := s.Employees.FindByID(ctx, employeeID)
	if err != nil {
		s.log.Warn().Err(err).Str("employee", employeeID).Msg("applicant not notified")
		return nil
	}
	m, err := renderMail(mailApplicationUpdate, employee.Email, "Application update: "+job.Title, mailData{
		App:    s.appName,
		Name:   employee.FullName,
		Title:  job.Title,
		Status: string(status),
	})
	if err != nil {
		s.log.Error().Err(err).Str("job", jobID).Msg("application update email not rendered")
		return nil
	}
	s.Queue.Enqueue(m)
	return nil
}

// ExportApplicants renders the applicants of a job as a spreadsheet.
// Applicants whose account no longer exists are exported without a profile.
func (s *jobService) ExportApplicants(ctx context.Context, p *domain.Principal, jobID string) ([]byte, string, error) {
	job, err := s.loadOwned(ctx, p, jobID)
	if err != nil {
		return nil, "", err
	}

	rows := make([]ports.ApplicantRow, 0, len(job.Applicants))
	for _, a := range job.Applicants {
		row := ports.ApplicantRow{Applicant: a}
		e, err := s.Employees.FindByID(ctx, a.Employee)
		switch {
		case err == nil:
			row.Employee = e
		case !errors.Is(err, domain.ErrNotFound):
			return nil, "", fmt.Errorf("export applicants: %w", err)
		}
		rows = append(rows, row)
	}

	data, name, err := s.Exporter.Export(job, rows)
	if err != nil {
		return nil, "", fmt.Errorf("export applicants: %w", err)
	}
	return data, name, nil
}
