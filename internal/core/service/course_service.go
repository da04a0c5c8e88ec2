package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/neon-lab-dev/medhrplus-server/internal/core/domain"
	"github.com/neon-lab-dev/medhrplus-server/internal/core/ports"
	"github.com/neon-lab-dev/medhrplus-server/internal/core/query"
	"github.com/neon-lab-dev/medhrplus-server/internal/metrics"
)

// CourseDeps groups the collaborators of the course service.
type CourseDeps struct {
	Courses ports.CourseRepository
	Uploads *Uploader
	Mailer  ports.Mailer
	Queue   ports.MailQueue
}

type courseService struct {
	CourseDeps
	appName string
	log     zerolog.Logger
	now     func() time.Time
}

func NewCourseService(deps CourseDeps, appName string, log zerolog.Logger) ports.CourseService {
	return &courseService{CourseDeps: deps, appName: appName, log: log, now: time.Now}
}

func (s *courseService) load(ctx context.Context, id string) (*domain.Course, error) {
	c, err := s.Courses.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Course not found")
	}
	return c, nil
}

func (s *courseService) loadOwned(ctx context.Context, p *domain.Principal, id string) (*domain.Course, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.CanManage(c.PostedBy) {
		return nil, domain.NewError(domain.ErrForbidden, "You are not authorized to manage this course")
	}
	return c, nil
}

func validateCourseInput(in ports.CourseInput) error {
	switch in.PricingType {
	case domain.PricingFree:
		if in.Fee != 0 {
			return domain.NewError(domain.ErrValidation, "A free course cannot have a fee")
		}
	case domain.PricingPaid:
		if in.Fee <= 0 {
			return domain.NewError(domain.ErrValidation, "A paid course needs a fee")
		}
	default:
		return domain.Errorf(domain.ErrValidation, "Invalid pricing type %q", in.PricingType)
	}
	if in.NumberOfSeats < 0 {
		return domain.NewError(domain.ErrValidation, "Number of seats cannot be negative")
	}
	return nil
}

func applyCourseInput(c *domain.Course, in ports.CourseInput) {
	c.CourseName = strings.TrimSpace(in.CourseName)
	c.CourseOverview = in.CourseOverview
	c.CourseDescription = in.CourseDescription
	c.CourseType = in.CourseType
	c.Department = in.Department
	c.Duration = in.Duration
	c.DesiredQualificationOrExperience = in.DesiredQualificationOrExperience
	c.CourseLink = in.CourseLink
	c.PricingType = in.PricingType
	c.Fee = in.Fee
	c.NumberOfSeats = in.NumberOfSeats
	c.IsIncludedCertificate = in.IsIncludedCertificate
}

// Create stores the thumbnail first and removes it again when the course
// cannot be saved.
func (s *courseService) Create(ctx context.Context, p *domain.Principal, in ports.CourseInput, thumbnail ports.File) (*domain.Course, error) {
	if err := validateCourseInput(in); err != nil {
		return nil, err
	}
	stored, err := s.Uploads.upload(ctx, p.ID(), thumbnail, FolderThumbnails, imageFile)
	if err != nil {
		return nil, err
	}

	c := &domain.Course{
		Thumbnail:  &stored,
		PostedBy:   domain.PosterOf(p),
		CreatedAt:  s.now().UTC(),
		Applicants: []domain.Applicant{},
	}
	applyCourseInput(c, in)

	created, err := s.Courses.Create(ctx, c)
	if err != nil {
		s.Uploads.discard(ctx, &stored)
		return nil, fmt.Errorf("create course: %w", err)
	}
	s.log.Info().Str("course", created.ID).Str("by", p.ID()).Msg("course created")
	return created, nil
}

func (s *courseService) List(ctx context.Context, params query.Params) (query.Result[*domain.Course], error) {
	q := query.New().
		Search(params, "courseName").
		Filter(params, query.CaseInsensitive("courseType", "department")).
		Sort(params, query.Desc("createdAt"))
	return list[*domain.Course](ctx, s.Courses, q, params)
}

func (s *courseService) Get(ctx context.Context, id string) (*domain.Course, error) {
	return s.load(ctx, id)
}

func (s *courseService) Update(ctx context.Context, p *domain.Principal, id string, in ports.CourseInput, thumbnail *ports.File) (*domain.Course, error) {
	c, err := s.loadOwned(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if err := validateCourseInput(in); err != nil {
		return nil, err
	}
	applyCourseInput(c, in)

	var replaced *domain.StoredFile
	if thumbnail != nil {
		stored, err := s.Uploads.upload(ctx, p.ID(), *thumbnail, FolderThumbnails, imageFile)
		if err != nil {
			return nil, err
		}
		replaced = c.Thumbnail
		c.Thumbnail = &stored
	}

	if err := s.Courses.UpdateDetails(ctx, c); err != nil {
		if thumbnail != nil {
			s.Uploads.discard(ctx, c.Thumbnail)
		}
		return nil, notFound(err, "Course not found")
	}
	s.Uploads.discard(ctx, replaced)
	return c, nil
}

func (s *courseService) Delete(ctx context.Context, p *domain.Principal, id string) error {
	c, err := s.loadOwned(ctx, p, id)
	if err != nil {
		return err
	}
	if err := s.Courses.Delete(ctx, id); err != nil {
		return notFound(err, "Course not found")
	}
	s.Uploads.discard(ctx, c.Thumbnail)
	s.log.Info().Str("course", id).Str("by", p.ID()).Msg("course deleted")
	return nil
}

func (s *courseService) ListPosted(ctx context.Context, p *domain.Principal, params query.Params) (query.Result[*domain.Course], error) {
	q := query.New(query.Eq("postedBy._id", p.ID())).
		Search(params, "courseName").
		Filter(params).
		Sort(params, query.Desc("createdAt"))
	return list[*domain.Course](ctx, s.Courses, q, params)
}

// enrolmentConflict explains why employeeID cannot enrol in c, or returns nil.
func enrolmentConflict(c *domain.Course, employeeID string) error {
	for _, a := range c.Applicants {
		if a.Employee == employeeID {
			metrics.ApplicationsTotal.WithLabelValues("course", "duplicate").Inc()
			return domain.NewError(domain.ErrConflict, "You have already applied for this course")
		}
	}
	if c.NumberOfSeats > 0 && len(c.Applicants) >= c.NumberOfSeats {
		metrics.ApplicationsTotal.WithLabelValues("course", "full").Inc()
		return domain.NewError(domain.ErrConflict, "No seats left in this course")
	}
	return nil
}

// rejectEnrolment reports a write that lost to a concurrent enrolment.
func (s *courseService) rejectEnrolment(ctx context.Context, courseID, employeeID string) error {
	c, err := s.load(ctx, courseID)
	if err != nil {
		return err
	}
	if err := enrolmentConflict(c, employeeID); err != nil {
		return err
	}
	metrics.ApplicationsTotal.WithLabelValues("course", "full").Inc()
	return domain.NewError(domain.ErrConflict, "No seats left in this course")
}

// Apply enrols e in a course. Courses with a seat limit stop accepting
// applications once it is reached.
func (s *courseService) Apply(ctx context.Context, e *domain.Employee, courseID string) (*domain.Course, error) {
	c, err := s.load(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if err := enrolmentConflict(c, e.ID); err != nil {
		return nil, err
	}

	a := domain.Applicant{Employee: e.ID, AppliedDate: s.now().UTC(), Status: domain.ApplicationApplied}
	added, err := s.Courses.AddApplicant(ctx, courseID, a)
	if err != nil {
		return nil, notFound(err, "Course not found")
	}
	if !added {
		return nil, s.rejectEnrolment(ctx, courseID, e.ID)
	}
	metrics.ApplicationsTotal.WithLabelValues("course", "applied").Inc()
	c.Applicants = append(c.Applicants, a)

	if c.PostedBy.Email != "" {
		m, err := renderMail(mailCourseNewApplicant, c.PostedBy.Email, "New applicant for "+c.CourseName, mailData{
			App:            s.appName,
			Name:           c.PostedBy.FullName,
			Title:          c.CourseName,
			Applicant:      e.FullName,
			ApplicantEmail: e.Email,
		})
		if err != nil {
			s.log.Error().Err(err).Str("course", courseID).Msg("course applicant email not rendered")
		} else {
			s.Queue.Enqueue(m)
		}
	}

	m, err := renderMail(mailCourseEnrolled, e.Email, "Course application: "+c.CourseName, mailData{
		App:   s.appName,
		Name:  e.FullName,
		Title: c.CourseName,
	})
	if err == nil {
		err = sendMail(ctx, s.Mailer, m)
	}
	if err != nil {
		s.log.Error().Err(err).Str("course", courseID).Str("employee", e.ID).Msg("course confirmation not sent")
		return nil, domain.NewError(domain.ErrUpstream, "Application submitted but the confirmation email could not be sent")
	}
	return c, nil
}
