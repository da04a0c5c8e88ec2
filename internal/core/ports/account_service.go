package ports

import (
	"context"
)

// RegisterInput is a self-service sign-up.
type RegisterInput struct {
	FullName        string
	Email           string
	MobileNumber    string
	Password        string
	ConfirmPassword string
}

type ResetPasswordInput struct {
	Token           string
	Password        string
	ConfirmPassword string
}

type UpdatePasswordInput struct {
	OldPassword     string
	NewPassword     string
	ConfirmPassword string
}

// AccountService covers the credential lifecycle shared by all principal
// kinds. Methods that establish a session also return a fresh access token.
type AccountService[T any] interface {
	Register(ctx context.Context, in RegisterInput) (*T, error)
	// CreateVerified creates an account that needs no email verification.
	CreateVerified(ctx context.Context, in RegisterInput) (*T, error)
	Verify(ctx context.Context, email, otp string) (*T, string, error)
	Login(ctx context.Context, email, password string) (*T, string, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, in ResetPasswordInput) (*T, string, error)
	UpdatePassword(ctx context.Context, id string, in UpdatePasswordInput) (*T, string, error)
	Get(ctx context.Context, id string) (*T, error)
}
