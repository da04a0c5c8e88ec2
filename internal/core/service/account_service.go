package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/neon-lab-dev/medhrplus-server/internal/core/domain"
	"github.com/neon-lab-dev/medhrplus-server/internal/core/ports"
	"github.com/neon-lab-dev/medhrplus-server/internal/metrics"
)

const (
	defaultOTPTTL   = 5 * time.Minute
	defaultResetTTL = 15 * time.Minute
	otpDigits       = 6
	resetTokenBytes = 20
)

// AccountConfig tunes the credential lifecycle.
type AccountConfig struct {
	AppName     string
	FrontendURL string
	OTPTTL      time.Duration
	ResetTTL    time.Duration
}

// AccountService implements registration, verification, login and password
// management for one principal kind.
type AccountService[T any, PT domain.AccountHolder[T]] struct {
	repo   ports.AccountRepository[T]
	role   domain.Role
	tokens *TokenManager
	mailer ports.Mailer
	cfg    AccountConfig
	log    zerolog.Logger
	now    func() time.Time
}

func NewAccountService[T any, PT domain.AccountHolder[T]](
	repo ports.AccountRepository[T],
	role domain.Role,
	tokens *TokenManager,
	mailer ports.Mailer,
	cfg AccountConfig,
	log zerolog.Logger,
) *AccountService[T, PT] {
	if cfg.OTPTTL <= 0 {
		cfg.OTPTTL = defaultOTPTTL
	}
	if cfg.ResetTTL <= 0 {
		cfg.ResetTTL = defaultResetTTL
	}
	if cfg.AppName == "" {
		cfg.AppName = "MedHR+"
	}
	return &AccountService[T, PT]{
		repo:   repo,
		role:   role,
		tokens: tokens,
		mailer: mailer,
		cfg:    cfg,
		log:    log.With().Str("role", string(role)).Logger(),
		now:    time.Now,
	}
}

// Register creates an unverified account and emails it a one-time code. An
// earlier registration for the same email that expired unverified is
// replaced. A failed email does not undo the registration.
func (s *AccountService[T, PT]) Register(ctx context.Context, in ports.RegisterInput) (*T, error) {
	if in.Password != in.ConfirmPassword {
		return nil, domain.NewError(domain.ErrValidation, "Password and confirm password do not match")
	}
	email := normalizeEmail(in.Email)
	now := s.now().UTC()

	existing, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		acc := PT(existing).AccountRef()
		if !acc.PendingExpired(now) {
			return nil, domain.NewError(domain.ErrConflict, "User already exists")
		}
		if err := s.repo.Delete(ctx, acc.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("replace expired registration: %w", err)
		}
	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	otp, err := newOTP()
	if err != nil {
		return nil, fmt.Errorf("register: otp: %w", err)
	}
	expiry := now.Add(s.cfg.OTPTTL)

	var account T
	acc := PT(&account).AccountRef()
	acc.FullName = strings.TrimSpace(in.FullName)
	acc.Email = email
	acc.MobileNumber = in.MobileNumber
	acc.PasswordHash = hash
	acc.OTP = otp
	acc.OTPExpiry = &expiry
	acc.CreatedAt = now

	created, err := s.repo.Create(ctx, &account)
	if err != nil {
		return nil, err
	}
	metrics.RegistrationsTotal.WithLabelValues(string(s.role)).Inc()

	m, err := renderMail(mailOTP, email, "Verify your account", mailData{
		App:     s.cfg.AppName,
		Name:    acc.FullName,
		OTP:     otp,
		Minutes: int(s.cfg.OTPTTL / time.Minute),
	})
	if err == nil {
		err = sendMail(ctx, s.mailer, m)
	}
	if err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("verification email not sent")
	}

	s.log.Info().Str("id", PT(created).AccountRef().ID).Msg("account registered")
	return created, nil
}

// CreateVerified creates an account that skips email verification.
func (s *AccountService[T, PT]) CreateVerified(ctx context.Context, in ports.RegisterInput) (*T, error) {
	if in.ConfirmPassword != "" && in.Password != in.ConfirmPassword {
		return nil, domain.NewError(domain.ErrValidation, "Password and confirm password do not match")
	}
	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	var account T
	acc := PT(&account).AccountRef()
	acc.FullName = strings.TrimSpace(in.FullName)
	acc.Email = normalizeEmail(in.Email)
	acc.MobileNumber = in.MobileNumber
	acc.PasswordHash = hash
	acc.Verified = true
	acc.CreatedAt = s.now().UTC()

	created, err := s.repo.Create(ctx, &account)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.NewError(domain.ErrConflict, "User already exists")
		}
		return nil, err
	}
	return created, nil
}

// Verify completes registration with the emailed code and signs the user in.
func (s *AccountService[T, PT]) Verify(ctx context.Context, email, otp string) (*T, string, error) {
	account, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", domain.NewError(domain.ErrNotFound, "User not found")
		}
		return nil, "", fmt.Errorf("verify: %w", err)
	}

	acc := PT(account).AccountRef()
	if acc.Verified {
		return nil, "", domain.NewError(domain.ErrConflict, "Account already verified")
	}
	now := s.now().UTC()
	if acc.OTP == "" || acc.OTP != strings.TrimSpace(otp) || acc.OTPExpiry == nil || !acc.OTPExpiry.After(now) {
		return nil, "", domain.NewError(domain.ErrValidation, "Invalid OTP or has been expired")
	}

	acc.Verified = true
	acc.OTP = ""
	acc.OTPExpiry = nil
	if err := s.repo.Update(ctx, account); err != nil {
		return nil, "", fmt.Errorf("verify: %w", err)
	}

	m, err := renderMail(mailWelcome, acc.Email, "Welcome to "+s.cfg.AppName, mailData{App: s.cfg.AppName, Name: acc.FullName})
	if err == nil {
		err = sendMail(ctx, s.mailer, m)
	}
	if err != nil {
		s.log.Warn().Err(err).Str("email", acc.Email).Msg("welcome email not sent")
	}

	token, err := s.tokens.Issue(acc.ID, s.role)
	if err != nil {
		return nil, "", err
	}
	return account, token, nil
}

// Login checks credentials and returns a fresh token.
func (s *AccountService[T, PT]) Login(ctx context.Context, email, password string) (*T, string, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, "", domain.NewError(domain.ErrValidation, "Please Enter Email & Password")
	}
	account, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("login: %w", err)
	}

	acc := PT(account).AccountRef()
	if !checkPassword(acc.PasswordHash, password) {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(acc.ID, s.role)
	if err != nil {
		return nil, "", err
	}
	return account, token, nil
}

// ForgotPassword emails a single-use reset link. Only the hash of the token
// is stored. When the email cannot be sent the token is withdrawn again.
func (s *AccountService[T, PT]) ForgotPassword(ctx context.Context, email string) error {
	account, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewError(domain.ErrNotFound, "User not found")
		}
		return fmt.Errorf("forgot password: %w", err)
	}
	acc := PT(account).AccountRef()

	token, err := randomHex(resetTokenBytes)
	if err != nil {
		return fmt.Errorf("forgot password: %w", err)
	}
	expire := s.now().UTC().Add(s.cfg.ResetTTL)
	acc.ResetPasswordToken = hashToken(token)
	acc.ResetPasswordExpire = &expire
	if err := s.repo.Update(ctx, account); err != nil {
		return fmt.Errorf("forgot password: %w", err)
	}

	link := strings.TrimRight(s.cfg.FrontendURL, "/") + "/reset-password/" + token
	m, err := renderMail(mailResetPassword, acc.Email, s.cfg.AppName+" password recovery", mailData{
		App:     s.cfg.AppName,
		Name:    acc.FullName,
		URL:     link,
		Minutes: int(s.cfg.ResetTTL / time.Minute),
	})
	if err == nil {
		err = sendMail(ctx, s.mailer, m)
	}
	if err != nil {
		s.log.Error().Err(err).Str("email", acc.Email).Msg("reset email not sent")
		acc.ResetPasswordToken = ""
		acc.ResetPasswordExpire = nil
		if uerr := s.repo.Update(ctx, account); uerr != nil {
			s.log.Error().Err(uerr).Str("id", acc.ID).Msg("failed to withdraw reset token")
		}
		return domain.NewError(domain.ErrUpstream, "Failed to send password reset email")
	}
	return nil
}

// ResetPassword sets a new password using an emailed reset token.
func (s *AccountService[T, PT]) ResetPassword(ctx context.Context, in ports.ResetPasswordInput) (*T, string, error) {
	account, err := s.repo.FindByResetToken(ctx, hashToken(in.Token), s.now().UTC())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", domain.NewError(domain.ErrValidation, "Reset Password Token is invalid or has been expired")
		}
		return nil, "", fmt.Errorf("reset password: %w", err)
	}
	if in.Password != in.ConfirmPassword {
		return nil, "", domain.NewError(domain.ErrValidation, "Password does not match")
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, "", err
	}
	acc := PT(account).AccountRef()
	acc.PasswordHash = hash
	acc.ResetPasswordToken = ""
	acc.ResetPasswordExpire = nil
	if err := s.repo.Update(ctx, account); err != nil {
		return nil, "", fmt.Errorf("reset password: %w", err)
	}

	token, err := s.tokens.Issue(acc.ID, s.role)
	if err != nil {
		return nil, "", err
	}
	return account, token, nil
}

// UpdatePassword changes the password of a signed-in user.
func (s *AccountService[T, PT]) UpdatePassword(ctx context.Context, id string, in ports.UpdatePasswordInput) (*T, string, error) {
	account, err := s.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	acc := PT(account).AccountRef()
	if !checkPassword(acc.PasswordHash, in.OldPassword) {
		return nil, "", domain.NewError(domain.ErrValidation, "Old password is incorrect")
	}
	if in.NewPassword != in.ConfirmPassword {
		return nil, "", domain.NewError(domain.ErrValidation, "Password does not match")
	}

	hash, err := hashPassword(in.NewPassword)
	if err != nil {
		return nil, "", err
	}
	acc.PasswordHash = hash
	if err := s.repo.Update(ctx, account); err != nil {
		return nil, "", fmt.Errorf("update password: %w", err)
	}

	token, err := s.tokens.Issue(acc.ID, s.role)
	if err != nil {
		return nil, "", err
	}
	return account, token, nil
}

// Get loads an account by id.
func (s *AccountService[T, PT]) Get(ctx context.Context, id string) (*T, error) {
	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewError(domain.ErrNotFound, "User not found")
		}
		return nil, err
	}
	return account, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// newOTP returns a uniformly random numeric code of otpDigits digits.
func newOTP() (string, error) {
	limit := big.NewInt(1)
	for i := 0; i < otpDigits; i++ {
		limit.Mul(limit, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", otpDigits, n.Int64()), nil
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
