package ports

import (
	"context"
	"time"

	"github.com/neon-lab-dev/medhrplus-server/internal/core/domain"
	"github.com/neon-lab-dev/medhrplus-server/internal/core/query"
)

// JobInput carries the editable fields of a job posting.
type JobInput struct {
	Title                  string
	Description            string
	Requirements           string
	RequiredSkills         []string
	Responsibilities       string
	LocationType           string
	Country                string
	City                   string
	EmploymentType         string
	EmploymentTypeCategory string
	TypeOfOrganization     string
	Department             string
	EmploymentDuration     float64
	Salary                 float64
	ApplicationDeadline    *time.Time
	Status                 domain.JobStatus
	ExtraBenefits          string
	Experience             string
}

// JobService manages postings and applications.
type JobService interface {
	Create(ctx context.Context, p *domain.Principal, in JobInput) (*domain.Job, error)
	List(ctx context.Context, params query.Params) (query.Result[*domain.Job], error)
	Get(ctx context.Context, id string) (*domain.Job, error)
	Update(ctx context.Context, p *domain.Principal, id string, in JobInput) (*domain.Job, error)
	Delete(ctx context.Context, p *domain.Principal, id string) error
	ListPosted(ctx context.Context, p *domain.Principal, params query.Params) (query.Result[*domain.Job], error)

	Apply(ctx context.Context, e *domain.Employee, jobID string) (*domain.Job, error)
	Withdraw(ctx context.Context, e *domain.Employee, jobID string) error
	ListApplied(ctx context.Context, e *domain.Employee, params query.Params) (query.Result[*domain.Job], error)
	MarkViewed(ctx context.Context, p *domain.Principal, jobID, employeeID string) error
	ManageApplicant(ctx context.Context, p *domain.Principal, jobID, employeeID string, status domain.ApplicationStatus) error
	ExportApplicants(ctx context.Context, p *domain.Principal, jobID string) ([]byte, string, error)
}

// CourseInput carries the editable fields of a course.
type CourseInput struct {
	CourseName                       string
	CourseOverview                   string
	CourseDescription                string
	CourseType                       string
	Department                       string
	Duration                         string
	DesiredQualificationOrExperience string
	CourseLink                       string
	PricingType                      string
	Fee                              float64
	NumberOfSeats                    int
	IsIncludedCertificate            bool
}

// CourseService manages courses and enrolments.
type CourseService interface {
	Create(ctx context.Context, p *domain.Principal, in CourseInput, thumbnail File) (*domain.Course, error)
	List(ctx context.Context, params query.Params) (query.Result[*domain.Course], error)
	Get(ctx context.Context, id string) (*domain.Course, error)
	// Update replaces the thumbnail only when one is given.
	Update(ctx context.Context, p *domain.Principal, id string, in CourseInput, thumbnail *File) (*domain.Course, error)
	Delete(ctx context.Context, p *domain.Principal, id string) error
	ListPosted(ctx context.Context, p *domain.Principal, params query.Params) (query.Result[*domain.Course], error)
	Apply(ctx context.Context, e *domain.Employee, courseID string) (*domain.Course, error)
}

// EventInput carries the fields of an event announcement.
type EventInput struct {
	EventName        string
	EventURL         string
	OrganizerName    string
	OrganizationType string
	Department       string
	Date             string
	Time             string
	Company          domain.EventCompany
	SkillCovered     []string
}

// EventService manages event announcements.
type EventService interface {
	Create(ctx context.Context, p *domain.Principal, in EventInput, image File) (*domain.Event, error)
	List(ctx context.Context, params query.Params) (query.Result[*domain.Event], error)
	Get(ctx context.Context, id string) (*domain.Event, error)
	Delete(ctx context.Context, p *domain.Principal, id string) error
	ListPosted(ctx context.Context, p *domain.Principal, params query.Params) (query.Result[*domain.Event], error)
}

// PaymentService mirrors gateway orders locally.
type PaymentService interface {
	Create(ctx context.Context, e *domain.Employee, amount int64) (*domain.Payment, error)
	// Verify asks the gateway for the current status of orderID.
	Verify(ctx context.Context, e *domain.Employee, orderID string) (*domain.Payment, error)
	HandleNotification(ctx context.Context, n Notification) error
	List(ctx context.Context, params query.Params) (query.Result[*domain.Payment], error)
	Get(ctx context.Context, id string) (*domain.Payment, error)
	UpdateStatus(ctx context.Context, orderID string, status domain.PaymentStatus, transactionID string) (*domain.Payment, error)
}
