package middleware

import (
	"context"
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/neon-lab-dev/medhrplus-server/internal/core/domain"
	"github.com/neon-lab-dev/medhrplus-server/internal/metrics"
)

// PrincipalKey is the context key every gate stores the resolved principal
// under. The role-specific record is additionally stored under the role name
// ("employee", "employer" or "admin").
const PrincipalKey = "principal"

// PrincipalResolver turns an Authorization header into a principal whose
// role is one of allowed.
type PrincipalResolver interface {
	Resolve(ctx context.Context, header string, allowed ...domain.Role) (*domain.Principal, error)
}

// Require admits only principals of role. The principal is stored in the
// context after resolution succeeded; a rejected request leaves the context
// untouched and the error reaches the HTTP error handler.
func Require(resolver PrincipalResolver, role domain.Role) echo.MiddlewareFunc {
	return gate(resolver, []domain.Role{role})
}

func gate(resolver PrincipalResolver, roles []domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)

			p, err := resolver.Resolve(c.Request().Context(), header, roles...)
			if err != nil {
				metrics.AuthFailuresTotal.WithLabelValues(failureReason(err)).Inc()
				return err
			}

			c.Set(PrincipalKey, p)
			switch p.Role {
			case domain.RoleEmployee:
				c.Set(string(domain.RoleEmployee), p.Employee)
			case domain.RoleEmployer:
				c.Set(string(domain.RoleEmployer), p.Employer)
			case domain.RoleAdmin:
				c.Set(string(domain.RoleAdmin), p.Admin)
			}
			return next(c)
		}
	}
}

// Principal returns the principal stored by a gate, or nil on public routes.
func Principal(c echo.Context) *domain.Principal {
	p, _ := c.Get(PrincipalKey).(*domain.Principal)
	return p
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return "unauthenticated"
	case errors.Is(err, domain.ErrInvalidToken):
		return "invalid_token"
	case errors.Is(err, domain.ErrMalformedClaims):
		return "malformed_claims"
	case errors.Is(err, domain.ErrPrincipalNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrUnauthorizedRole):
		return "role"
	}
	return "error"
}
