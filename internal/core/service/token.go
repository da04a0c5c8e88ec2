package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/neon-lab-dev/medhrplus-server/internal/core/domain"
)

const defaultTokenTTL = 5 * 24 * time.Hour

// Claims is the payload of an access token.
type Claims struct {
	ID   string      `json:"id"`
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256 access tokens. Tokens are stateless:
// nothing is stored and nothing can be revoked before expiry.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager returns a TokenManager signing with secret. A non-positive
// ttl falls back to five days.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for id acting as role.
func (m *TokenManager) Issue(id string, role domain.Role) (string, error) {
	now := m.now()
	claims := Claims{
		ID:   id,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Verify checks signature and expiry of raw. Any failure there is
// domain.ErrInvalidToken; a valid token without an id is
// domain.ErrMalformedClaims.
func (m *TokenManager) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return m.secret, nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !tkn.Valid {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.NewError(domain.ErrInvalidToken, "token has expired")
		}
		return nil, domain.ErrInvalidToken
	}
	if claims.ID == "" {
		return nil, domain.ErrMalformedClaims
	}
	return claims, nil
}
