package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/neon-lab-dev/medhrplus-server/internal/core/domain"
	"github.com/neon-lab-dev/medhrplus-server/internal/core/ports"
)

// AuthHandler serves the credential routes of one principal kind. The same
// handler type backs employees, employers and admins.
type AuthHandler[T any] struct {
	service ports.AccountService[T]
	role    domain.Role
	meKey   string
}

func NewAuthHandler[T any](service ports.AccountService[T], role domain.Role) *AuthHandler[T] {
	meKey := "user"
	if role == domain.RoleAdmin {
		meKey = "admin"
	}
	return &AuthHandler[T]{service: service, role: role, meKey: meKey}
}

type registerRequest struct {
	FullName        string `json:"full_name" validate:"required,max=100"`
	Email           string `json:"email" validate:"required,email"`
	MobileNumber    string `json:"mobilenumber" validate:"omitempty,min=7,max=20"`
	Password        string `json:"password" validate:"required,min=8,max=72"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

func (r registerRequest) input() ports.RegisterInput {
	return ports.RegisterInput{
		FullName:        r.FullName,
		Email:           r.Email,
		MobileNumber:    r.MobileNumber,
		Password:        r.Password,
		ConfirmPassword: r.ConfirmPassword,
	}
}

// flexString accepts a JSON string or a bare number.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected a string or a number")
	}
	*f = flexString(n.String())
	return nil
}

type verifyRequest struct {
	Email string     `json:"email" validate:"required,email"`
	OTP   flexString `json:"otp" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Password        string `json:"password" validate:"required,min=8,max=72"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

type updatePasswordRequest struct {
	OldPassword     string `json:"oldPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=72"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

// sessionResponse is returned by every route that signs the caller in.
type sessionResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	User        any    `json:"user"`
	AccessToken string `json:"accessToken"`
}

// Register creates an unverified account and mails a one-time code.
//
// @Summary      Register an account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        role  path      string           true  "employee or employer"
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  messageResponse
// @Failure      400   {object}  messageResponse
// @Failure      409   {object}  messageResponse
// @Router       /register/{role} [post]
func (h *AuthHandler[T]) Register(c echo.Context) error {
	var req registerRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	if _, err := h.service.Register(c.Request().Context(), req.input()); err != nil {
		return err
	}
	return success(c, http.StatusCreated, "OTP sent to "+strings.ToLower(strings.TrimSpace(req.Email)))
}

// CreateVerified lets an admin create another account that needs no email
// verification.
//
// @Summary      Create an admin
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      registerRequest  true  "Admin details"
// @Success      201   {object}  map[string]any
// @Failure      400   {object}  messageResponse
// @Failure      409   {object}  messageResponse
// @Router       /register/admin [post]
func (h *AuthHandler[T]) CreateVerified(c echo.Context) error {
	var req registerRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	account, err := h.service.CreateVerified(c.Request().Context(), req.input())
	if err != nil {
		return err
	}
	return reply(c, http.StatusCreated, echo.Map{
		"data":    account,
		"message": fmt.Sprintf("%s created successfully", roleTitle(h.role)),
	})
}

// Verify completes registration with the emailed code.
//
// @Summary      Verify an account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        role  path      string         true  "employee or employer"
// @Param        body  body      verifyRequest  true  "Email and code"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Router       /verify/{role} [post]
func (h *AuthHandler[T]) Verify(c echo.Context) error {
	var req verifyRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	account, token, err := h.service.Verify(c.Request().Context(), req.Email, string(req.OTP))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessionResponse{
		Success:     true,
		Message:     "Account verified. You can now log in.",
		User:        account,
		AccessToken: token,
	})
}

// Login authenticates a user and returns an access token.
//
// @Summary      Login
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        role  path      string        true  "employee, employer or admin"
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Router       /login/{role} [post]
func (h *AuthHandler[T]) Login(c echo.Context) error {
	var req loginRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	account, token, err := h.service.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessionResponse{
		Success:     true,
		Message:     "Logged in Successfully",
		User:        account,
		AccessToken: token,
	})
}

// Logout is a no-op on the server: tokens are stateless and the client
// discards its copy.
//
// @Summary      Logout
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Param        role  path      string  true  "employee, employer or admin"
// @Success      200   {object}  messageResponse
// @Router       /{role}/logout [get]
func (h *AuthHandler[T]) Logout(c echo.Context) error {
	return success(c, http.StatusOK, "Logged Out")
}

// ForgotPassword mails a password reset link.
//
// @Summary      Request a password reset
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        role  path      string                 true  "employee or employer"
// @Param        body  body      forgotPasswordRequest  true  "Account email"
// @Success      200   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Failure      502   {object}  messageResponse
// @Router       /password/forgot/{role} [post]
func (h *AuthHandler[T]) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	if err := h.service.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return success(c, http.StatusOK, "Email sent to "+strings.ToLower(strings.TrimSpace(req.Email))+" successfully")
}

// ResetPassword sets a new password with the token from the reset link.
//
// @Summary      Reset a password
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        role   path      string                true  "employee or employer"
// @Param        token  path      string                true  "Reset token"
// @Param        body   body      resetPasswordRequest  true  "New password"
// @Success      200    {object}  sessionResponse
// @Failure      400    {object}  messageResponse
// @Router       /password/{role}/reset/{token} [put]
func (h *AuthHandler[T]) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	account, token, err := h.service.ResetPassword(c.Request().Context(), ports.ResetPasswordInput{
		Token:           c.Param("token"),
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessionResponse{
		Success:     true,
		Message:     "Password reset successfully",
		User:        account,
		AccessToken: token,
	})
}

// UpdatePassword changes the password of the signed-in caller.
//
// @Summary      Change password
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        role  path      string                 true  "employee or employer"
// @Param        body  body      updatePasswordRequest  true  "Old and new password"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Router       /{role}/password/update [put]
func (h *AuthHandler[T]) UpdatePassword(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	var req updatePasswordRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	account, token, err := h.service.UpdatePassword(c.Request().Context(), p.ID(), ports.UpdatePasswordInput{
		OldPassword:     req.OldPassword,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessionResponse{
		Success:     true,
		Message:     "Password updated successfully",
		User:        account,
		AccessToken: token,
	})
}

// Me returns the signed-in caller's record.
//
// @Summary      Current account
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Param        role  path      string  true  "employee, employer or admin"
// @Success      200   {object}  map[string]any
// @Failure      401   {object}  messageResponse
// @Router       /{role}/me [get]
func (h *AuthHandler[T]) Me(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	account, err := h.service.Get(c.Request().Context(), p.ID())
	if err != nil {
		return err
	}
	return reply(c, http.StatusOK, echo.Map{h.meKey: account})
}

func roleTitle(r domain.Role) string {
	s := string(r)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
