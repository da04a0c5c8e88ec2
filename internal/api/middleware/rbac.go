package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/neon-lab-dev/medhrplus-server/internal/core/domain"
)

// RequireAny admits principals of any of roles. The role claim of the token
// picks the single collection the principal is loaded from.
func RequireAny(resolver PrincipalResolver, roles ...domain.Role) echo.MiddlewareFunc {
	allowed := make([]domain.Role, len(roles))
	copy(allowed, roles)
	return gate(resolver, allowed)
}
