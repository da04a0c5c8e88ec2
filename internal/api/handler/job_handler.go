package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/neon-lab-dev/medhrplus-server/internal/core/domain"
	"github.com/neon-lab-dev/medhrplus-server/internal/core/ports"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var jobListFields = listFields{items: "jobs", total: "jobsCount", filtered: "filteredJobsCount"}

// JobHandler serves job postings and applications.
type JobHandler struct {
	service ports.JobService
}

func NewJobHandler(service ports.JobService) *JobHandler {
	return &JobHandler{service: service}
}

// flexDate accepts an RFC 3339 timestamp or a plain YYYY-MM-DD date.
type flexDate struct {
	time.Time
}

func (d *flexDate) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("expected a date string")
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("invalid date %q", s)
}

type jobRequest struct {
	Title                  string    `json:"title" validate:"required,max=200"`
	Description            string    `json:"description" validate:"required"`
	Requirements           string    `json:"requirements" validate:"required"`
	RequiredSkills         []string  `json:"requiredSkills" validate:"required,min=1,dive,required"`
	Responsibilities       string    `json:"responsibilities" validate:"required"`
	LocationType           string    `json:"locationType" validate:"required,oneof=Remote Onsite Hybrid"`
	Country                string    `json:"country" validate:"required"`
	City                   string    `json:"city" validate:"required"`
	EmploymentType         string    `json:"employmentType" validate:"required,oneof=Job Internship"`
	EmploymentTypeCategory string    `json:"employmentTypeCategory" validate:"required"`
	TypeOfOrganization     string    `json:"typeOfOrganization" validate:"required"`
	Department             string    `json:"department" validate:"required"`
	EmploymentDuration     float64   `json:"employmentDuration" validate:"gte=0"`
	Salary                 float64   `json:"salary" validate:"gte=0"`
	ApplicationDeadline    *flexDate `json:"applicationDeadline"`
	Status                 string    `json:"status" validate:"omitempty,oneof=Open Closed"`
	ExtraBenefits          string    `json:"extraBenefits"`
	Experience             string    `json:"experience"`
}

func (r jobRequest) input() ports.JobInput {
	in := ports.JobInput{
		Title:                  r.Title,
		Description:            r.Description,
		Requirements:           r.Requirements,
		RequiredSkills:         r.RequiredSkills,
		Responsibilities:       r.Responsibilities,
		LocationType:           r.LocationType,
		Country:                r.Country,
		City:                   r.City,
		EmploymentType:         r.EmploymentType,
		EmploymentTypeCategory: r.EmploymentTypeCategory,
		TypeOfOrganization:     r.TypeOfOrganization,
		Department:             r.Department,
		EmploymentDuration:     r.EmploymentDuration,
		Salary:                 r.Salary,
		Status:                 domain.JobStatus(r.Status),
		ExtraBenefits:          r.ExtraBenefits,
		Experience:             r.Experience,
	}
	if r.ApplicationDeadline != nil && !r.ApplicationDeadline.IsZero() {
		t := r.ApplicationDeadline.Time
		in.ApplicationDeadline = &t
	}
	return in
}

type applicantRequest struct {
	JobID       string `json:"jobId" validate:"required"`
	ApplicantID string `json:"applicantId" validate:"required"`
}

type manageApplicantRequest struct {
	JobID       string `json:"jobId" validate:"required"`
	ApplicantID string `json:"applicantId" validate:"required"`
	Status      string `json:"status" validate:"required,oneof=APPLIED INTERVIEW REJECTED HIRED"`
}

// Create posts a job.
//
// @Summary      Post a job
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      jobRequest  true  "Job posting"
// @Success      201   {object}  map[string]any
// @Failure      400   {object}  messageResponse
// @Failure      403   {object}  messageResponse
// @Router       /createjob [post]
func (h *JobHandler) Create(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	var req jobRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	job, err := h.service.Create(c.Request().Context(), p, req.input())
	if err != nil {
		return err
	}
	return reply(c, http.StatusCreated, echo.Map{
		"message": fmt.Sprintf("You have Successfully Created %s Opportunity", job.EmploymentType),
		"job":     job,
	})
}

// List is the public job board.
//
// @Summary      List jobs
// @Tags         jobs
// @Produce      json
// @Param        keyword                 query     string  false  "Substring of the title"
// @Param        employmentTypeCategory  query     string  false  "Category, case-insensitive"
// @Param        locationType            query     string  false  "Remote, Onsite or Hybrid, case-insensitive"
// @Param        location                query     string  false  "City, case-insensitive"
// @Param        sort                    query     string  false  "Comma separated fields, - for descending"
// @Param        page                    query     int     false  "Page number"
// @Success      200                     {object}  map[string]any
// @Router       /jobs [get]
func (h *JobHandler) List(c echo.Context) error {
	res, err := h.service.List(c.Request().Context(), params(c))
	if err != nil {
		return err
	}
	return replyList(c, res, jobListFields)
}

// Get
//
// @Summary      Get a job
// @Tags         jobs
// @Produce      json
// @Param        id   path      string  true  "Job id"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  messageResponse
// @Router       /job/{id} [get]
func (h *JobHandler) Get(c echo.Context) error {
	job, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return reply(c, http.StatusOK, echo.Map{"job": job})
}

// Update replaces the editable fields of a job the caller posted.
//
// @Summary      Update a job
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string      true  "Job id"
// @Param        body  body      jobRequest  true  "Job posting"
// @Success      200   {object}  map[string]any
// @Failure      400   {object}  messageResponse
// @Failure      403   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Router       /job/{id} [put]
func (h *JobHandler) Update(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	var req jobRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	job, err := h.service.Update(c.Request().Context(), p, c.Param("id"), req.input())
	if err != nil {
		return err
	}
	return reply(c, http.StatusOK, echo.Map{"message": "Job Updated Successfully", "job": job})
}

// Delete removes a job the caller posted; admins may remove any job.
//
// @Summary      Delete a job
// @Tags         jobs
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Job id"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /job/{id} [delete]
func (h *JobHandler) Delete(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), p, c.Param("id")); err != nil {
		return err
	}
	return success(c, http.StatusOK, "Job Deleted Successfully")
}

// ListPosted lists the caller's own postings.
//
// @Summary      List own jobs
// @Tags         jobs
// @Produce      json
// @Security     BearerAuth
// @Param        keyword  query     string  false  "Substring of the title"
// @Param        page     query     int     false  "Page number"
// @Success      200      {object}  map[string]any
// @Router       /employer/job [get]
func (h *JobHandler) ListPosted(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	res, err := h.service.ListPosted(c.Request().Context(), p, params(c))
	if err != nil {
		return err
	}
	return replyList(c, res, jobListFields)
}

// Apply records the caller's application.
//
// @Summary      Apply for a job
// @Tags         jobs
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Job id"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Failure      409  {object}  messageResponse
// @Failure      502  {object}  messageResponse
// @Router       /apply/job/{id} [put]
func (h *JobHandler) Apply(c echo.Context) error {
	me, err := ctxEmployee(c)
	if err != nil {
		return err
	}
	if _, err := h.service.Apply(c.Request().Context(), me, c.Param("id")); err != nil {
		return err
	}
	return success(c, http.StatusOK, "Applied Successfully")
}

// Withdraw removes the caller's application.
//
// @Summary      Withdraw an application
// @Tags         jobs
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Job id"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /withdraw/job/{id} [put]
func (h *JobHandler) Withdraw(c echo.Context) error {
	me, err := ctxEmployee(c)
	if err != nil {
		return err
	}
	if err := h.service.Withdraw(c.Request().Context(), me, c.Param("id")); err != nil {
		return err
	}
	return success(c, http.StatusOK, "Application withdrawn successfully")
}

// ListApplied lists the jobs the caller applied to.
//
// @Summary      List applied jobs
// @Tags         jobs
// @Produce      json
// @Security     BearerAuth
// @Param        page  query     int  false  "Page number"
// @Success      200   {object}  map[string]any
// @Router       /employee/job [get]
func (h *JobHandler) ListApplied(c echo.Context) error {
	me, err := ctxEmployee(c)
	if err != nil {
		return err
	}
	res, err := h.service.ListApplied(c.Request().Context(), me, params(c))
	if err != nil {
		return err
	}
	return replyList(c, res, jobListFields)
}

// MarkViewed flags an application as seen by the poster.
//
// @Summary      Mark an application viewed
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      applicantRequest  true  "Job and applicant"
// @Success      200   {object}  messageResponse
// @Failure      403   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Router       /jobs/application [put]
func (h *JobHandler) MarkViewed(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	var req applicantRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	if err := h.service.MarkViewed(c.Request().Context(), p, req.JobID, req.ApplicantID); err != nil {
		return err
	}
	return success(c, http.StatusOK, "Application has been viewed by the employer")
}

// Manage moves an application to a new status.
//
// @Summary      Change an application status
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      manageApplicantRequest  true  "Job, applicant and status"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  messageResponse
// @Failure      403   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Failure      409   {object}  messageResponse
// @Router       /jobs/manage [put]
func (h *JobHandler) Manage(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	var req manageApplicantRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	status := domain.ApplicationStatus(req.Status)
	if err := h.service.ManageApplicant(c.Request().Context(), p, req.JobID, req.ApplicantID, status); err != nil {
		return err
	}
	return success(c, http.StatusOK, fmt.Sprintf("Job status has been changed to %s!", status))
}

// ExportApplicants downloads the applicants of a job as a spreadsheet.
//
// @Summary      Export applicants
// @Tags         jobs
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Param        id   path  string  true  "Job id"
// @Success      200  {file}    file
// @Failure      403  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /job/{id}/applicants/export [get]
func (h *JobHandler) ExportApplicants(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	content, name, err := h.service.ExportApplicants(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, xlsxContentType, content)
}
