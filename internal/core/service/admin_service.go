package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/neon-lab-dev/medhrplus-server/internal/core/domain"
	"github.com/neon-lab-dev/medhrplus-server/internal/core/ports"
	"github.com/neon-lab-dev/medhrplus-server/internal/core/query"
)

// AdminDeps groups the repositories the admin service reads across.
type AdminDeps struct {
	Employers ports.EmployerRepository
	Employees ports.EmployeeRepository
	Jobs      ports.JobRepository
	Courses   ports.CourseRepository
	Events    ports.EventRepository
}

type adminService struct {
	AdminDeps
	uploads    *Uploader
	mailer     ports.Mailer
	appName    string
	adminEmail string
	log        zerolog.Logger
}

// NewAdminService returns the moderation service. Contact messages are
// delivered to adminEmail.
func NewAdminService(deps AdminDeps, uploads *Uploader, mailer ports.Mailer, appName, adminEmail string, log zerolog.Logger) ports.AdminService {
	return &adminService{
		AdminDeps:  deps,
		uploads:    uploads,
		mailer:     mailer,
		appName:    appName,
		adminEmail: adminEmail,
		log:        log,
	}
}

func (s *adminService) ListEmployers(ctx context.Context, p query.Params) (query.Result[*domain.Employer], error) {
	q := query.New().
		Search(p, "full_name").
		Filter(p, hideCredentials).
		Sort(p, query.Desc("createdAt"))
	return list[*domain.Employer](ctx, s.Employers, q, p)
}

func (s *adminService) GetEmployer(ctx context.Context, id string) (*domain.Employer, error) {
	e, err := s.Employers.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Employer not found")
	}
	return e, nil
}

func (s *adminService) DeleteEmployer(ctx context.Context, id string) error {
	e, err := s.GetEmployer(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Employers.Delete(ctx, id); err != nil {
		return notFound(err, "Employer not found")
	}
	s.uploads.discard(ctx, e.CompanyAvatar)
	s.log.Info().Str("employer", id).Msg("employer deleted")
	return nil
}

func (s *adminService) ListEmployees(ctx context.Context, p query.Params) (query.Result[*domain.Employee], error) {
	q := query.New().
		Search(p, "full_name").
		Filter(p, hideCredentials).
		Sort(p, query.Desc("createdAt"))
	return list[*domain.Employee](ctx, s.Employees, q, p)
}

func (s *adminService) GetEmployee(ctx context.Context, id string) (*domain.Employee, error) {
	e, err := s.Employees.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Employee not found")
	}
	return e, nil
}

func (s *adminService) DeleteEmployee(ctx context.Context, id string) error {
	e, err := s.GetEmployee(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Employees.Delete(ctx, id); err != nil {
		return notFound(err, "Employee not found")
	}
	s.uploads.discard(ctx, e.Avatar)
	s.uploads.discard(ctx, e.Resume)
	s.log.Info().Str("employee", id).Msg("employee deleted")
	return nil
}

func (s *adminService) Counts(ctx context.Context) (ports.Counts, error) {
	var (
		c   ports.Counts
		err error
	)
	all := query.New()
	if c.Jobs, err = s.Jobs.Count(ctx, all); err != nil {
		return c, fmt.Errorf("count jobs: %w", err)
	}
	if c.Employers, err = s.Employers.Count(ctx, all); err != nil {
		return c, fmt.Errorf("count employers: %w", err)
	}
	if c.Employees, err = s.Employees.Count(ctx, all); err != nil {
		return c, fmt.Errorf("count employees: %w", err)
	}
	if c.HiredApplicants, err = s.Jobs.CountApplicants(ctx, domain.ApplicationHired); err != nil {
		return c, fmt.Errorf("count hired applicants: %w", err)
	}
	if c.Courses, err = s.Courses.Count(ctx, all); err != nil {
		return c, fmt.Errorf("count courses: %w", err)
	}
	if c.Events, err = s.Events.Count(ctx, all); err != nil {
		return c, fmt.Errorf("count events: %w", err)
	}
	return c, nil
}

// Contact forwards a message from the public contact form.
func (s *adminService) Contact(ctx context.Context, in ports.ContactForm) error {
	if s.adminEmail == "" {
		return domain.NewError(domain.ErrUpstream, "Contact form is not configured")
	}
	subject := in.Subject
	if subject == "" {
		subject = "Contact form message"
	}
	m, err := renderMail(mailContactAdmin, s.adminEmail, subject, mailData{
		App:     s.appName,
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		Subject: in.Subject,
		Message: in.Message,
	})
	if err != nil {
		return err
	}
	m.ReplyTo = in.Email
	if err := sendMail(ctx, s.mailer, m); err != nil {
		s.log.Error().Err(err).Str("from", in.Email).Msg("contact email not sent")
		return domain.NewError(domain.ErrUpstream, "Failed to send email")
	}
	return nil
}
