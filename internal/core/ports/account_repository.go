package ports

import (
	"context"
	"time"

	"github.com/neon-lab-dev/medhrplus-server/internal/core/domain"
	"github.com/neon-lab-dev/medhrplus-server/internal/core/query"
)

// AccountRepository persists one principal kind (employees, employers or
// admins). Lookups that miss return domain.ErrNotFound; a duplicate email on
// Create returns domain.ErrConflict.
type AccountRepository[T any] interface {
	Create(ctx context.Context, account *T) (*T, error)
	FindByID(ctx context.Context, id string) (*T, error)
	FindByEmail(ctx context.Context, email string) (*T, error)
	// FindByResetToken returns the account holding tokenHash whose reset
	// window is still open at now.
	FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (*T, error)
	Update(ctx context.Context, account *T) error
	Delete(ctx context.Context, id string) error
	Find(ctx context.Context, q *query.Query) ([]*T, error)
	Count(ctx context.Context, q *query.Query) (int64, error)
	// DeleteExpiredUnverified removes accounts that never verified and whose
	// one-time code expired at or before now.
	DeleteExpiredUnverified(ctx context.Context, now time.Time) (int64, error)
}

type (
	EmployeeRepository = AccountRepository[domain.Employee]
	EmployerRepository = AccountRepository[domain.Employer]
	AdminRepository    = AccountRepository[domain.Admin]
)

// ExpiredRegistrationPurger is the slice of an account repository the
// registration sweeper needs.
type ExpiredRegistrationPurger interface {
	DeleteExpiredUnverified(ctx context.Context, now time.Time) (int64, error)
}
