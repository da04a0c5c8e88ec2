package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neon-lab-dev/medhrplus-server/internal/core/domain"
)

type resolverFixture struct {
	resolver  *Resolver
	tokens    *TokenManager
	employees *memAccounts[domain.Employee, *domain.Employee]
	employers *memAccounts[domain.Employer, *domain.Employer]
	admins    *memAccounts[domain.Admin, *domain.Admin]
}

func newResolverFixture() *resolverFixture {
	f := &resolverFixture{
		tokens:    NewTokenManager("resolver-secret", time.Hour),
		employees: newMemEmployees(),
		employers: newMemEmployers(),
		admins:    newMemAdmins(),
	}
	f.resolver = NewResolver(f.tokens, f.employees, f.employers, f.admins)
	return f
}

func (f *resolverFixture) bearer(t *testing.T, id string, role domain.Role) string {
	t.Helper()
	tok, err := f.tokens.Issue(id, role)
	require.NoError(t, err)
	return "Bearer " + tok
}

func TestBearerToken(t *testing.T) {
	cases := map[string]bool{
		"":               false,
		"Bearer":         false,
		"Bearer ":        false,
		"Basic abc":      false,
		"Bearer abc.def": true,
		"bearer abc.def": true,
	}
	for header, ok := range cases {
		tok, err := BearerToken(header)
		if ok {
			assert.NoError(t, err, header)
			assert.Equal(t, "abc.def", tok)
		} else {
			assert.ErrorIs(t, err, domain.ErrUnauthenticated, header)
		}
	}
}

func TestTokenManager_ExpiredToken(t *testing.T) {
	m := NewTokenManager("k", time.Hour)
	m.now = fixedClock(t0)
	tok, err := m.Issue("user-1", domain.RoleEmployee)
	require.NoError(t, err)

	m.now = fixedClock(t0.Add(2 * time.Hour))
	_, err = m.Verify(tok)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
	assert.Equal(t, "token has expired", domain.Message(err))
}

func TestTokenManager_WrongSecretAndGarbage(t *testing.T) {
	tok, err := NewTokenManager("a", time.Hour).Issue("user-1", domain.RoleEmployee)
	require.NoError(t, err)

	_, err = NewTokenManager("b", time.Hour).Verify(tok)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	_, err = NewTokenManager("b", time.Hour).Verify("not-a-token")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestTokenManager_MissingIDIsMalformed(t *testing.T) {
	m := NewTokenManager("k", time.Hour)
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: domain.RoleEmployee,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("k"))
	require.NoError(t, err)

	_, err = m.Verify(raw)
	assert.ErrorIs(t, err, domain.ErrMalformedClaims)
}

func TestTokenManager_RejectsOtherAlgorithms(t *testing.T) {
	m := NewTokenManager("k", time.Hour)
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		ID:   "user-1",
		Role: domain.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("k"))
	require.NoError(t, err)

	_, err = m.Verify(raw)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestResolver_SingleRole(t *testing.T) {
	f := newResolverFixture()
	e := seedEmployee(f.employees, "Asha", "asha@example.com")

	p, err := f.resolver.Resolve(context.Background(), f.bearer(t, e.ID, domain.RoleEmployee), domain.RoleEmployee)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleEmployee, p.Role)
	require.NotNil(t, p.Employee)
	assert.Equal(t, e.ID, p.ID())
}

func TestResolver_RoleMismatch(t *testing.T) {
	f := newResolverFixture()
	e := seedEmployee(f.employees, "Asha", "asha@example.com")

	_, err := f.resolver.Resolve(context.Background(), f.bearer(t, e.ID, domain.RoleEmployee), domain.RoleEmployer)
	assert.ErrorIs(t, err, domain.ErrUnauthorizedRole)

	_, err = f.resolver.Resolve(context.Background(), f.bearer(t, e.ID, "superuser"), domain.RoleAdmin, domain.RoleEmployer)
	assert.ErrorIs(t, err, domain.ErrUnauthorizedRole)
}

func TestResolver_RolelessTokenOnlyOnSingleRoleRoutes(t *testing.T) {
	f := newResolverFixture()
	e := seedEmployer(f.employers, "Ravi", "ravi@example.com")
	header := f.bearer(t, e.ID, "")

	p, err := f.resolver.Resolve(context.Background(), header, domain.RoleEmployer)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleEmployer, p.Role)

	_, err = f.resolver.Resolve(context.Background(), header, domain.RoleAdmin, domain.RoleEmployer)
	assert.ErrorIs(t, err, domain.ErrUnauthorizedRole)
}

func TestResolver_CombinedGateDispatchesByClaim(t *testing.T) {
	f := newResolverFixture()
	// The same id exists as an admin and as an employer.
	_, err := f.admins.Create(context.Background(), &domain.Admin{Account: domain.Account{ID: "shared-id", FullName: "Admin", Email: "admin@example.com"}})
	require.NoError(t, err)
	_, err = f.employers.Create(context.Background(), &domain.Employer{Account: domain.Account{ID: "shared-id", FullName: "Employer", Email: "employer@example.com"}})
	require.NoError(t, err)

	p, err := f.resolver.Resolve(context.Background(), f.bearer(t, "shared-id", domain.RoleEmployer), domain.RoleAdmin, domain.RoleEmployer)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleEmployer, p.Role)
	require.NotNil(t, p.Employer)
	assert.Nil(t, p.Admin)
	assert.Equal(t, "Employer", p.Employer.FullName)

	p, err = f.resolver.Resolve(context.Background(), f.bearer(t, "shared-id", domain.RoleAdmin), domain.RoleAdmin, domain.RoleEmployer)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, p.Role)
	require.NotNil(t, p.Admin)
	assert.Nil(t, p.Employer)
}

func TestResolver_PrincipalNotFound(t *testing.T) {
	f := newResolverFixture()
	_, err := f.resolver.Resolve(context.Background(), f.bearer(t, "ghost", domain.RoleAdmin), domain.RoleAdmin)
	assert.ErrorIs(t, err, domain.ErrPrincipalNotFound)
}

func TestResolver_MissingHeader(t *testing.T) {
	f := newResolverFixture()
	_, err := f.resolver.Resolve(context.Background(), "", domain.RoleAdmin)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestPrincipal_CanManage(t *testing.T) {
	owner := domain.Poster{ID: "employer-1", Role: domain.RoleEmployer}

	assert.True(t, employerPrincipal(&domain.Employer{Account: domain.Account{ID: "employer-1"}}).CanManage(owner))
	assert.False(t, employerPrincipal(&domain.Employer{Account: domain.Account{ID: "employer-2"}}).CanManage(owner))
	assert.True(t, adminPrincipal("admin-1").CanManage(owner))
	assert.False(t, employerPrincipal(&domain.Employer{}).CanManage(domain.Poster{}))
}
