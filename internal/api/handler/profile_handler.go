package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/neon-lab-dev/medhrplus-server/internal/core/domain"
	"github.com/neon-lab-dev/medhrplus-server/internal/core/ports"
)

// uploadField is the multipart field every single-file upload route reads.
const uploadField = "file"

// EmployeeHandler serves an employee's own profile.
type EmployeeHandler struct {
	service ports.EmployeeService
}

func NewEmployeeHandler(service ports.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{service: service}
}

type employeeDetailsRequest struct {
	FullName     string `json:"full_name" validate:"omitempty,max=100"`
	MobileNumber string `json:"mobilenumber" validate:"omitempty,min=7,max=20"`
	domain.EmployeeProfile
}

// UpdateDetails merges the given profile fields into the caller's record.
//
// @Summary      Update employee details
// @Tags         employee
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      employeeDetailsRequest  true  "Profile fields to change"
// @Success      200   {object}  map[string]any
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Router       /employee/details [put]
func (h *EmployeeHandler) UpdateDetails(c echo.Context) error {
	me, err := ctxEmployee(c)
	if err != nil {
		return err
	}
	var req employeeDetailsRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	updated, err := h.service.UpdateDetails(c.Request().Context(), me.ID, ports.EmployeeDetailsInput{
		FullName:     req.FullName,
		MobileNumber: req.MobileNumber,
		Profile:      req.EmployeeProfile,
	})
	if err != nil {
		return err
	}
	return reply(c, http.StatusOK, echo.Map{"message": "Details Updated Successfully", "user": updated})
}

// UpdateAvatar replaces the caller's avatar. Name and phone may be sent as
// form fields alongside the image.
//
// @Summary      Update employee avatar
// @Tags         employee
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file          formData  file    false  "Avatar image"
// @Param        full_name     formData  string  false  "Full name"
// @Param        mobilenumber  formData  string  false  "Mobile number"
// @Success      200           {object}  map[string]any
// @Failure      400           {object}  messageResponse
// @Failure      429           {object}  messageResponse
// @Router       /employee/me/update [put]
func (h *EmployeeHandler) UpdateAvatar(c echo.Context) error {
	me, err := ctxEmployee(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	updated := me
	if name, phone := c.FormValue("full_name"), c.FormValue("mobilenumber"); name != "" || phone != "" {
		if updated, err = h.service.UpdateDetails(ctx, me.ID, ports.EmployeeDetailsInput{
			FullName:     name,
			MobileNumber: phone,
		}); err != nil {
			return err
		}
	}

	f, err := formFile(c, uploadField)
	if err != nil {
		return err
	}
	if f != nil {
		if updated, err = h.service.UpdateAvatar(ctx, me.ID, *f); err != nil {
			return err
		}
	}
	return reply(c, http.StatusOK, echo.Map{"message": "Profile is updated successfully", "user": updated})
}

// UploadResume replaces the caller's resume.
//
// @Summary      Upload resume
// @Tags         employee
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "Resume (PDF or Word)"
// @Success      200   {object}  map[string]any
// @Failure      400   {object}  messageResponse
// @Failure      429   {object}  messageResponse
// @Router       /employee/me/resume [put]
func (h *EmployeeHandler) UploadResume(c echo.Context) error {
	me, err := ctxEmployee(c)
	if err != nil {
		return err
	}
	f, err := requiredFile(c, uploadField)
	if err != nil {
		return err
	}

	updated, err := h.service.UploadResume(c.Request().Context(), me.ID, f)
	if err != nil {
		return err
	}
	return reply(c, http.StatusOK, echo.Map{"message": "Resume is updated successfully", "user": updated})
}

// EmployerHandler serves an employer's profile and candidate search.
type EmployerHandler struct {
	service ports.EmployerService
}

func NewEmployerHandler(service ports.EmployerService) *EmployerHandler {
	return &EmployerHandler{service: service}
}

type employerDetailsRequest struct {
	FullName       string                  `json:"full_name" validate:"omitempty,max=100"`
	MobileNumber   string                  `json:"mobilenumber" validate:"omitempty,min=7,max=20"`
	Address        []domain.PostalAddress  `json:"address"`
	CompanyDetails []domain.CompanyDetails `json:"companyDetails"`
}

type contactEmployeeRequest struct {
	Subject string `json:"subject" validate:"max=200"`
	Message string `json:"message" validate:"required,max=5000"`
}

// UpdateDetails replaces the caller's address and company details.
//
// @Summary      Update employer details
// @Tags         employer
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      employerDetailsRequest  true  "Employer fields to change"
// @Success      200   {object}  map[string]any
// @Failure      400   {object}  messageResponse
// @Router       /employer/details [put]
func (h *EmployerHandler) UpdateDetails(c echo.Context) error {
	me, err := ctxEmployer(c)
	if err != nil {
		return err
	}
	var req employerDetailsRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	updated, err := h.service.UpdateDetails(c.Request().Context(), me.ID, ports.EmployerDetailsInput{
		FullName:       req.FullName,
		MobileNumber:   req.MobileNumber,
		Address:        req.Address,
		CompanyDetails: req.CompanyDetails,
	})
	if err != nil {
		return err
	}
	return reply(c, http.StatusOK, echo.Map{"message": "Details Updated Successfully", "user": updated})
}

// UpdateCompanyAvatar replaces the company logo and its thumbnail.
//
// @Summary      Update company logo
// @Tags         employer
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "Logo image"
// @Success      200   {object}  map[string]any
// @Failure      400   {object}  messageResponse
// @Failure      429   {object}  messageResponse
// @Router       /employer/me/update [put]
func (h *EmployerHandler) UpdateCompanyAvatar(c echo.Context) error {
	me, err := ctxEmployer(c)
	if err != nil {
		return err
	}
	f, err := requiredFile(c, uploadField)
	if err != nil {
		return err
	}

	updated, err := h.service.UpdateCompanyAvatar(c.Request().Context(), me.ID, f)
	if err != nil {
		return err
	}
	return reply(c, http.StatusOK, echo.Map{"message": "Profile is updated successfully", "user": updated})
}

// FindCandidates searches verified employees.
//
// @Summary      Search candidates
// @Tags         employer
// @Produce      json
// @Security     BearerAuth
// @Param        keyword  query     string  false  "Substring of the full name"
// @Param        page     query     int     false  "Page number"
// @Success      200      {object}  map[string]any
// @Router       /employer/find-candidates [get]
func (h *EmployerHandler) FindCandidates(c echo.Context) error {
	res, err := h.service.FindCandidates(c.Request().Context(), params(c))
	if err != nil {
		return err
	}
	return replyList(c, res, listFields{items: "employees", total: "employeeCount", filtered: "filteredEmployeesCount"})
}

// GetEmployee returns one employee to an employer or admin.
//
// @Summary      Get an employee
// @Tags         employer
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Employee id"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  messageResponse
// @Router       /emp/{id} [get]
func (h *EmployerHandler) GetEmployee(c echo.Context) error {
	e, err := h.service.GetEmployee(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return reply(c, http.StatusOK, echo.Map{"emp": e})
}

// ContactEmployee emails a candidate on behalf of the caller.
//
// @Summary      Contact a candidate
// @Tags         employer
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string                  true  "Employee id"
// @Param        body    body      contactEmployeeRequest  true  "Message"
// @Success      200     {object}  messageResponse
// @Failure      404     {object}  messageResponse
// @Failure      502     {object}  messageResponse
// @Router       /send-contact-email/{userId} [post]
func (h *EmployerHandler) ContactEmployee(c echo.Context) error {
	me, err := ctxEmployer(c)
	if err != nil {
		return err
	}
	var req contactEmployeeRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	if err := h.service.ContactEmployee(c.Request().Context(), me, c.Param("userId"), ports.ContactInput{
		Subject: req.Subject,
		Message: req.Message,
	}); err != nil {
		return err
	}
	return success(c, http.StatusOK, "Email sent successfully")
}
