package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/neon-lab-dev/medhrplus-server/internal/core/domain"
	"github.com/neon-lab-dev/medhrplus-server/internal/core/ports"
)

var eventListFields = listFields{items: "events", total: "eventsCount", filtered: "filteredEventsCount"}

// EventHandler serves event announcements.
type EventHandler struct {
	service ports.EventService
}

func NewEventHandler(service ports.EventService) *EventHandler {
	return &EventHandler{service: service}
}

// eventForm is the multipart body of the create route.
type eventForm struct {
	EventName        string   `json:"eventName" validate:"required,max=200"`
	EventURL         string   `json:"eventUrl" validate:"required,url"`
	OrganizerName    string   `json:"organizerName"`
	OrganizationType string   `json:"organizationType"`
	Department       string   `json:"department"`
	Date             string   `json:"date" validate:"required"`
	Time             string   `json:"time" validate:"required"`
	CompanyName      string   `json:"companyName" validate:"required"`
	CompanyLocation  string   `json:"companyLocation" validate:"required"`
	SkillCovered     []string `json:"skillCovered"`
}

// Create announces an event. An image is required.
//
// @Summary      Create an event
// @Tags         events
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        image            formData  file    true   "Event image"
// @Param        eventName        formData  string  true   "Name"
// @Param        eventUrl         formData  string  true   "Link"
// @Param        date             formData  string  true   "Date"
// @Param        time             formData  string  true   "Time"
// @Param        companyName      formData  string  true   "Host company"
// @Param        companyLocation  formData  string  true   "Host location"
// @Param        skillCovered     formData  string  false  "Skills, comma separated"
// @Success      201              {object}  map[string]any
// @Failure      400              {object}  messageResponse
// @Failure      429              {object}  messageResponse
// @Router       /event [post]
func (h *EventHandler) Create(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	f := eventForm{
		EventName:        c.FormValue("eventName"),
		EventURL:         c.FormValue("eventUrl"),
		OrganizerName:    c.FormValue("organizerName"),
		OrganizationType: c.FormValue("organizationType"),
		Department:       c.FormValue("department"),
		Date:             c.FormValue("date"),
		Time:             c.FormValue("time"),
		CompanyName:      c.FormValue("companyName"),
		CompanyLocation:  c.FormValue("companyLocation"),
		SkillCovered:     formList(c, "skillCovered"),
	}
	if err := c.Validate(&f); err != nil {
		return err
	}
	image, err := requiredFile(c, thumbnailField)
	if err != nil {
		return err
	}

	event, err := h.service.Create(c.Request().Context(), p, ports.EventInput{
		EventName:        f.EventName,
		EventURL:         f.EventURL,
		OrganizerName:    f.OrganizerName,
		OrganizationType: f.OrganizationType,
		Department:       f.Department,
		Date:             f.Date,
		Time:             f.Time,
		Company:          domain.EventCompany{CompanyName: f.CompanyName, CompanyLocation: f.CompanyLocation},
		SkillCovered:     f.SkillCovered,
	}, image)
	if err != nil {
		return err
	}
	return reply(c, http.StatusCreated, echo.Map{"event": event, "message": "Event created successfully"})
}

// List
//
// @Summary      List events
// @Tags         events
// @Produce      json
// @Param        keyword  query     string  false  "Substring of the name"
// @Param        page     query     int     false  "Page number"
// @Success      200      {object}  map[string]any
// @Router       /events [get]
func (h *EventHandler) List(c echo.Context) error {
	res, err := h.service.List(c.Request().Context(), params(c))
	if err != nil {
		return err
	}
	return replyList(c, res, eventListFields)
}

// Get
//
// @Summary      Get an event
// @Tags         events
// @Produce      json
// @Param        id   path      string  true  "Event id"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  messageResponse
// @Router       /event/{id} [get]
func (h *EventHandler) Get(c echo.Context) error {
	event, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return reply(c, http.StatusOK, echo.Map{"event": event})
}

// Delete removes an event and its image.
//
// @Summary      Delete an event
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Event id"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /event/{id} [delete]
func (h *EventHandler) Delete(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), p, c.Param("id")); err != nil {
		return err
	}
	return success(c, http.StatusOK, "Event deleted successfully")
}

// ListPosted lists the caller's own events.
//
// @Summary      List own events
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        page  query     int  false  "Page number"
// @Success      200   {object}  map[string]any
// @Router       /employer/events [get]
func (h *EventHandler) ListPosted(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	res, err := h.service.ListPosted(c.Request().Context(), p, params(c))
	if err != nil {
		return err
	}
	return replyList(c, res, eventListFields)
}
