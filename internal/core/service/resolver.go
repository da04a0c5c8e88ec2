package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/neon-lab-dev/medhrplus-server/internal/core/domain"
	"github.com/neon-lab-dev/medhrplus-server/internal/core/ports"
)

// Resolver maps an Authorization header to exactly one principal.
//
// The role claim decides which collection is consulted; collections are
// never tried one after another, so an id that happens to exist in two
// collections still resolves to the kind the token was issued for.
type Resolver struct {
	tokens    *TokenManager
	employees ports.EmployeeRepository
	employers ports.EmployerRepository
	admins    ports.AdminRepository
}

func NewResolver(
	tokens *TokenManager,
	employees ports.EmployeeRepository,
	employers ports.EmployerRepository,
	admins ports.AdminRepository,
) *Resolver {
	return &Resolver{tokens: tokens, employees: employees, employers: employers, admins: admins}
}

// BearerToken extracts the token from a "Bearer <token>" header value.
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", domain.ErrUnauthenticated
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", domain.ErrUnauthenticated
	}
	return strings.TrimSpace(parts[1]), nil
}

// Resolve authenticates header and loads the principal it names. allowed
// lists the roles the calling route accepts; a token whose role claim is not
// among them fails with domain.ErrUnauthorizedRole before any lookup. A token
// without a role claim is accepted only by single-role routes and is looked
// up in that route's collection.
func (r *Resolver) Resolve(ctx context.Context, header string, allowed ...domain.Role) (*domain.Principal, error) {
	raw, err := BearerToken(header)
	if err != nil {
		return nil, err
	}

	claims, err := r.tokens.Verify(raw)
	if err != nil {
		return nil, err
	}

	role := claims.Role
	if role == "" && len(allowed) == 1 {
		role = allowed[0]
	}
	if !role.Valid() || !roleAllowed(role, allowed) {
		return nil, domain.ErrUnauthorizedRole
	}

	p := &domain.Principal{Role: role}
	switch role {
	case domain.RoleEmployee:
		p.Employee, err = r.employees.FindByID(ctx, claims.ID)
	case domain.RoleEmployer:
		p.Employer, err = r.employers.FindByID(ctx, claims.ID)
	case domain.RoleAdmin:
		p.Admin, err = r.admins.FindByID(ctx, claims.ID)
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrPrincipalNotFound
		}
		return nil, fmt.Errorf("resolve %s: %w", role, err)
	}
	return p, nil
}

func roleAllowed(role domain.Role, allowed []domain.Role) bool {
	for _, a := range allowed {
		if a == role {
			return true
		}
	}
	return false
}
