package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error that crosses the service boundary wraps exactly one
// of these so the transport layer can pick a status code with errors.Is.
var (
	ErrValidation         = errors.New("validation failed")
	ErrUnauthenticated    = errors.New("please login to access this resource")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrMalformedClaims    = errors.New("invalid token payload")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthorizedRole   = errors.New("unauthorized role")
	ErrForbidden          = errors.New("access forbidden")
	ErrPrincipalNotFound  = errors.New("user not found")
	ErrNotFound           = errors.New("resource not found")
	ErrConflict           = errors.New("resource already exists")
	ErrUpstream           = errors.New("upstream service failure")
	ErrRateLimited        = errors.New("too many requests")
)

// Error carries a client-facing message on top of one of the kinds above.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Kind }

// NewError attaches msg to kind.
func NewError(kind error, msg string) error {
	return &Error{Kind: kind, Message: msg}
}

// Errorf is NewError with formatting.
func Errorf(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Message returns the client-facing message for err: the attached message
// when err carries one, otherwise the text of its kind.
func Message(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Error()
	}
	return err.Error()
}
