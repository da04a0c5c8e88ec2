package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/neon-lab-dev/medhrplus-server/internal/core/domain"
	"github.com/neon-lab-dev/medhrplus-server/internal/core/ports"
)

// AdminHandler serves moderation routes and the public contact form.
type AdminHandler struct {
	service ports.AdminService
}

func NewAdminHandler(service ports.AdminService) *AdminHandler {
	return &AdminHandler{service: service}
}

type contactRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Number  string `json:"number" validate:"required,max=20"`
	City    string `json:"city" validate:"required,max=100"`
	Subject string `json:"subject" validate:"max=200"`
	Message string `json:"message" validate:"required,max=5000"`
}

// ListEmployers
//
// @Summary      List employers
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        keyword  query     string  false  "Substring of the full name"
// @Param        page     query     int     false  "Page number"
// @Success      200      {object}  map[string]any
// @Router       /admin/employers [get]
func (h *AdminHandler) ListEmployers(c echo.Context) error {
	res, err := h.service.ListEmployers(c.Request().Context(), params(c))
	if err != nil {
		return err
	}
	return replyList(c, res, listFields{items: "employers", total: "employersCount", filtered: "filteredEmployersCount"})
}

// GetEmployer
//
// @Summary      Get an employer
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Employer id"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  messageResponse
// @Router       /admin/employer/{id} [get]
func (h *AdminHandler) GetEmployer(c echo.Context) error {
	e, err := h.service.GetEmployer(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return reply(c, http.StatusOK, echo.Map{"employer": e})
}

// DeleteEmployer
//
// @Summary      Delete an employer
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Employer id"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /admin/employer/{id} [delete]
func (h *AdminHandler) DeleteEmployer(c echo.Context) error {
	if err := h.service.DeleteEmployer(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return success(c, http.StatusOK, "Employer deleted successfully")
}

// ListEmployees
//
// @Summary      List employees
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        keyword  query     string  false  "Substring of the full name"
// @Param        page     query     int     false  "Page number"
// @Success      200      {object}  map[string]any
// @Router       /admin/employees [get]
func (h *AdminHandler) ListEmployees(c echo.Context) error {
	res, err := h.service.ListEmployees(c.Request().Context(), params(c))
	if err != nil {
		return err
	}
	return replyList(c, res, listFields{items: "employees", total: "employeeCount", filtered: "filteredEmployeesCount"})
}

// GetEmployee
//
// @Summary      Get an employee
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Employee id"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  messageResponse
// @Router       /admin/employee/{id} [get]
func (h *AdminHandler) GetEmployee(c echo.Context) error {
	e, err := h.service.GetEmployee(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return reply(c, http.StatusOK, echo.Map{"employee": e})
}

// DeleteEmployee
//
// @Summary      Delete an employee
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Employee id"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /admin/employee/{id} [delete]
func (h *AdminHandler) DeleteEmployee(c echo.Context) error {
	if err := h.service.DeleteEmployee(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return success(c, http.StatusOK, "Employee deleted successfully")
}

// Counts returns the dashboard totals.
//
// @Summary      Platform counts
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.Counts
// @Router       /admin/counts [get]
func (h *AdminHandler) Counts(c echo.Context) error {
	counts, err := h.service.Counts(c.Request().Context())
	if err != nil {
		return err
	}
	return reply(c, http.StatusOK, echo.Map{
		"jobsCount":            counts.Jobs,
		"employersCount":       counts.Employers,
		"employeesCount":       counts.Employees,
		"hiredApplicantsCount": counts.HiredApplicants,
		"coursesCount":         counts.Courses,
		"eventsCount":          counts.Events,
	})
}

// Contact forwards the public contact form to the admin mailbox. A delivery
// failure is reported as a 500 and changes nothing else.
//
// @Summary      Contact the site
// @Tags         public
// @Accept       json
// @Produce      json
// @Param        body  body      contactRequest  true  "Message"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  messageResponse
// @Failure      500   {object}  messageResponse
// @Router       /contact [post]
func (h *AdminHandler) Contact(c echo.Context) error {
	var req contactRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		subject = "New contact message from " + req.Name + " (" + req.City + ")"
	}
	err := h.service.Contact(c.Request().Context(), ports.ContactForm{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Number,
		Subject: subject,
		Message: req.Message,
	})
	if errors.Is(err, domain.ErrUpstream) {
		return c.JSON(http.StatusInternalServerError, messageResponse{
			Success: false,
			Message: "Something went wrong while sending the contact message!",
		})
	}
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, "Contact message sent successfully!")
}
