package ports

import (
	"context"
	"time"

	"github.com/neon-lab-dev/medhrplus-server/internal/core/domain"
	"github.com/neon-lab-dev/medhrplus-server/internal/core/query"
)

// JobRepository defines persistence operations for job postings.
type JobRepository interface {
	Create(ctx context.Context, job *domain.Job) (*domain.Job, error)
	FindByID(ctx context.Context, id string) (*domain.Job, error)
	// UpdateDetails overwrites the editable fields of job; applicants and
	// authorship are left untouched.
	UpdateDetails(ctx context.Context, job *domain.Job) error
	Delete(ctx context.Context, id string) error
	Find(ctx context.Context, q *query.Query) ([]*domain.Job, error)
	Count(ctx context.Context, q *query.Query) (int64, error)

	// AddApplicant appends a only when the job is open and a.Employee has not
	// applied yet, in a single atomic step. It reports whether it did.
	AddApplicant(ctx context.Context, jobID string, a domain.Applicant) (bool, error)
	// RemoveApplicant reports whether employeeID had applied.
	RemoveApplicant(ctx context.Context, jobID, employeeID string) (bool, error)
	// SetApplicantStatus moves the application from one status to another and
	// reports whether the application was still in from.
	SetApplicantStatus(ctx context.Context, jobID, employeeID string, from, to domain.ApplicationStatus) (bool, error)
	MarkApplicantViewed(ctx context.Context, jobID, employeeID string) (bool, error)
	CountApplicants(ctx context.Context, status domain.ApplicationStatus) (int64, error)
}

// CourseRepository defines persistence operations for courses.
type CourseRepository interface {
	Create(ctx context.Context, course *domain.Course) (*domain.Course, error)
	FindByID(ctx context.Context, id string) (*domain.Course, error)
	UpdateDetails(ctx context.Context, course *domain.Course) error
	Delete(ctx context.Context, id string) error
	Find(ctx context.Context, q *query.Query) ([]*domain.Course, error)
	Count(ctx context.Context, q *query.Query) (int64, error)
	// AddApplicant reports false when a.Employee is already enrolled or no
	// seat is left. Both conditions are checked atomically with the write.
	AddApplicant(ctx context.Context, courseID string, a domain.Applicant) (bool, error)
}

// EventRepository defines persistence operations for events.
type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) (*domain.Event, error)
	FindByID(ctx context.Context, id string) (*domain.Event, error)
	Delete(ctx context.Context, id string) error
	Find(ctx context.Context, q *query.Query) ([]*domain.Event, error)
	Count(ctx context.Context, q *query.Query) (int64, error)
}

// PaymentRepository keeps the local mirror of gateway orders.
type PaymentRepository interface {
	Create(ctx context.Context, p *domain.Payment) (*domain.Payment, error)
	FindByID(ctx context.Context, id string) (*domain.Payment, error)
	FindByOrderID(ctx context.Context, orderID string) (*domain.Payment, error)
	// UpdateStatus records the gateway's view of orderID.
	UpdateStatus(ctx context.Context, orderID string, status domain.PaymentStatus, transactionID string, at time.Time) (*domain.Payment, error)
	Find(ctx context.Context, q *query.Query) ([]*domain.Payment, error)
	Count(ctx context.Context, q *query.Query) (int64, error)
}
