package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/neon-lab-dev/medhrplus-server/internal/core/domain"
	"github.com/neon-lab-dev/medhrplus-server/internal/core/ports"
)

// thumbnailField is the multipart field carrying a course thumbnail or an
// event image.
const thumbnailField = "image"

var courseListFields = listFields{items: "courses", total: "courseCount", filtered: "filteredCoursesCount"}

// CourseHandler serves courses and enrolments.
type CourseHandler struct {
	service ports.CourseService
}

func NewCourseHandler(service ports.CourseService) *CourseHandler {
	return &CourseHandler{service: service}
}

// courseForm is the multipart body of the create and update routes.
type courseForm struct {
	CourseName                       string  `json:"courseName" validate:"required,max=200"`
	CourseOverview                   string  `json:"courseOverview" validate:"required"`
	CourseDescription                string  `json:"courseDescription"`
	CourseType                       string  `json:"courseType"`
	Department                       string  `json:"department" validate:"required"`
	Duration                         string  `json:"duration" validate:"required"`
	DesiredQualificationOrExperience string  `json:"desiredQualificationOrExperience"`
	CourseLink                       string  `json:"courseLink" validate:"omitempty,url"`
	PricingType                      string  `json:"pricingType" validate:"oneof=Free Paid"`
	Fee                              float64 `json:"fee" validate:"gte=0"`
	NumberOfSeats                    int     `json:"numberOfSeats" validate:"gte=0"`
	IsIncludedCertificate            bool    `json:"isIncludedCertificate"`
}

func bindCourseForm(c echo.Context) (ports.CourseInput, error) {
	f := courseForm{
		CourseName:                       c.FormValue("courseName"),
		CourseOverview:                   c.FormValue("courseOverview"),
		CourseDescription:                c.FormValue("courseDescription"),
		CourseType:                       c.FormValue("courseType"),
		Department:                       c.FormValue("department"),
		Duration:                         c.FormValue("duration"),
		DesiredQualificationOrExperience: c.FormValue("desiredQualificationOrExperience"),
		CourseLink:                       c.FormValue("courseLink"),
		PricingType:                      c.FormValue("pricingType"),
	}
	if f.PricingType == "" {
		f.PricingType = domain.PricingFree
	}
	var err error
	if f.Fee, err = formFloat(c, "fee"); err != nil {
		return ports.CourseInput{}, err
	}
	if f.NumberOfSeats, err = formInt(c, "numberOfSeats"); err != nil {
		return ports.CourseInput{}, err
	}
	if f.IsIncludedCertificate, err = formBool(c, "isIncludedCertificate"); err != nil {
		return ports.CourseInput{}, err
	}
	if err := c.Validate(&f); err != nil {
		return ports.CourseInput{}, err
	}

	return ports.CourseInput{
		CourseName:                       f.CourseName,
		CourseOverview:                   f.CourseOverview,
		CourseDescription:                f.CourseDescription,
		CourseType:                       f.CourseType,
		Department:                       f.Department,
		Duration:                         f.Duration,
		DesiredQualificationOrExperience: f.DesiredQualificationOrExperience,
		CourseLink:                       f.CourseLink,
		PricingType:                      f.PricingType,
		Fee:                              f.Fee,
		NumberOfSeats:                    f.NumberOfSeats,
		IsIncludedCertificate:            f.IsIncludedCertificate,
	}, nil
}

// Create adds a course. A thumbnail image is required.
//
// @Summary      Create a course
// @Tags         courses
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        image           formData  file    true   "Thumbnail"
// @Param        courseName      formData  string  true   "Name"
// @Param        courseOverview  formData  string  true   "Overview"
// @Param        department      formData  string  true   "Department"
// @Param        duration        formData  string  true   "Duration"
// @Param        pricingType     formData  string  false  "Free or Paid"
// @Param        fee             formData  number  false  "Fee for paid courses"
// @Param        numberOfSeats   formData  int     false  "Seat limit, 0 for none"
// @Success      201             {object}  map[string]any
// @Failure      400             {object}  messageResponse
// @Failure      429             {object}  messageResponse
// @Router       /course [post]
func (h *CourseHandler) Create(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	in, err := bindCourseForm(c)
	if err != nil {
		return err
	}
	thumb, err := requiredFile(c, thumbnailField)
	if err != nil {
		return err
	}

	course, err := h.service.Create(c.Request().Context(), p, in, thumb)
	if err != nil {
		return err
	}
	return reply(c, http.StatusCreated, echo.Map{"course": course, "message": "Course created successfully"})
}

// List is the public course catalogue.
//
// @Summary      List courses
// @Tags         courses
// @Produce      json
// @Param        keyword      query     string  false  "Substring of the name"
// @Param        courseType   query     string  false  "Course type, case-insensitive"
// @Param        department   query     string  false  "Department, case-insensitive"
// @Param        pricingType  query     string  false  "Free or Paid"
// @Param        page         query     int     false  "Page number"
// @Success      200          {object}  map[string]any
// @Router       /courses [get]
func (h *CourseHandler) List(c echo.Context) error {
	res, err := h.service.List(c.Request().Context(), params(c))
	if err != nil {
		return err
	}
	return replyList(c, res, courseListFields)
}

// Get
//
// @Summary      Get a course
// @Tags         courses
// @Produce      json
// @Param        id   path      string  true  "Course id"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  messageResponse
// @Router       /course/{id} [get]
func (h *CourseHandler) Get(c echo.Context) error {
	course, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return reply(c, http.StatusOK, echo.Map{"course": course})
}

// Update edits a course; the thumbnail is replaced only when a new image is
// sent.
//
// @Summary      Update a course
// @Tags         courses
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string  true   "Course id"
// @Param        image  formData  file    false  "New thumbnail"
// @Success      200    {object}  map[string]any
// @Failure      400    {object}  messageResponse
// @Failure      403    {object}  messageResponse
// @Failure      404    {object}  messageResponse
// @Router       /course/{id} [put]
func (h *CourseHandler) Update(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	in, err := bindCourseForm(c)
	if err != nil {
		return err
	}
	thumb, err := formFile(c, thumbnailField)
	if err != nil {
		return err
	}

	course, err := h.service.Update(c.Request().Context(), p, c.Param("id"), in, thumb)
	if err != nil {
		return err
	}
	return reply(c, http.StatusOK, echo.Map{"course": course, "message": "Course updated successfully"})
}

// Delete removes a course and its thumbnail.
//
// @Summary      Delete a course
// @Tags         courses
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Course id"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /course/{id} [delete]
func (h *CourseHandler) Delete(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), p, c.Param("id")); err != nil {
		return err
	}
	return success(c, http.StatusOK, "Course deleted successfully")
}

// ListPosted lists the caller's own courses.
//
// @Summary      List own courses
// @Tags         courses
// @Produce      json
// @Security     BearerAuth
// @Param        page  query     int  false  "Page number"
// @Success      200   {object}  map[string]any
// @Router       /employer/courses [get]
func (h *CourseHandler) ListPosted(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	res, err := h.service.ListPosted(c.Request().Context(), p, params(c))
	if err != nil {
		return err
	}
	return replyList(c, res, courseListFields)
}

// Apply enrols the caller.
//
// @Summary      Apply for a course
// @Tags         courses
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Course id"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Failure      409  {object}  messageResponse
// @Router       /apply/course/{id} [put]
func (h *CourseHandler) Apply(c echo.Context) error {
	me, err := ctxEmployee(c)
	if err != nil {
		return err
	}
	if _, err := h.service.Apply(c.Request().Context(), me, c.Param("id")); err != nil {
		return err
	}
	return success(c, http.StatusOK, "Successfully Applied")
}
