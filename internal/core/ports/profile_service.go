package ports

import (
	"context"

	"github.com/neon-lab-dev/medhrplus-server/internal/core/domain"
	"github.com/neon-lab-dev/medhrplus-server/internal/core/query"
)

// EmployeeDetailsInput is a partial profile update. Zero fields are left as
// they are.
type EmployeeDetailsInput struct {
	FullName     string
	MobileNumber string
	Profile      domain.EmployeeProfile
}

// EmployeeService edits an employee's own profile.
type EmployeeService interface {
	UpdateDetails(ctx context.Context, id string, in EmployeeDetailsInput) (*domain.Employee, error)
	UpdateAvatar(ctx context.Context, id string, f File) (*domain.Employee, error)
	UploadResume(ctx context.Context, id string, f File) (*domain.Employee, error)
}

// EmployerDetailsInput is a partial employer profile update.
type EmployerDetailsInput struct {
	FullName       string
	MobileNumber   string
	Address        []domain.PostalAddress
	CompanyDetails []domain.CompanyDetails
}

// ContactInput is a message from one user to another.
type ContactInput struct {
	Subject string
	Message string
}

// EmployerService covers employer profile and candidate search.
type EmployerService interface {
	UpdateDetails(ctx context.Context, id string, in EmployerDetailsInput) (*domain.Employer, error)
	UpdateCompanyAvatar(ctx context.Context, id string, f File) (*domain.Employer, error)
	FindCandidates(ctx context.Context, p query.Params) (query.Result[*domain.Employee], error)
	GetEmployee(ctx context.Context, id string) (*domain.Employee, error)
	ContactEmployee(ctx context.Context, from *domain.Employer, employeeID string, in ContactInput) error
}

// ContactForm is a public message to the site administrators.
type ContactForm struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Message string
}

// Counts summarises the platform for the admin dashboard.
type Counts struct {
	Jobs            int64 `json:"jobsCount"`
	Employers       int64 `json:"employersCount"`
	Employees       int64 `json:"employeesCount"`
	HiredApplicants int64 `json:"hiredApplicantsCount"`
	Courses         int64 `json:"coursesCount"`
	Events          int64 `json:"eventsCount"`
}

// AdminService covers moderation.
type AdminService interface {
	ListEmployers(ctx context.Context, p query.Params) (query.Result[*domain.Employer], error)
	GetEmployer(ctx context.Context, id string) (*domain.Employer, error)
	DeleteEmployer(ctx context.Context, id string) error
	ListEmployees(ctx context.Context, p query.Params) (query.Result[*domain.Employee], error)
	GetEmployee(ctx context.Context, id string) (*domain.Employee, error)
	DeleteEmployee(ctx context.Context, id string) error
	Counts(ctx context.Context) (Counts, error)
	Contact(ctx context.Context, in ContactForm) error
}
