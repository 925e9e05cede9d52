package controllers

import (
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"gatherly/internal/delivery/http/helpers"
	"gatherly/internal/delivery/http/middleware"
	"gatherly/internal/domain"
)

// maxUploadBytes caps the multipart form size for event image uploads.
const maxUploadBytes = 8 << 20

// dateOnly is the layout for the start_date/end_date listing filters.
const dateOnly = "2006-01-02"

type EventController struct {
	Logger  *slog.Logger
	Events  domain.EventService
	Queries domain.QueryService
}

func NewEventController(logger *slog.Logger, events domain.EventService, queries domain.QueryService) *EventController {
	return &EventController{
		Logger:  logger,
		Events:  events,
		Queries: queries,
	}
}

// ListEvents godoc
// @Summary List upcoming events
// @Description Lists events starting at or after now, ascending by start time. Optional start_date and end_date (YYYY-MM-DD) narrow the range; either may be given alone.
// @Tags events
// @Produce json
// @Param start_date query string false "Inclusive lower bound on start date (YYYY-MM-DD)"
// @Param end_date query string false "Inclusive upper bound on start date (YYYY-MM-DD)"
// @Success 200 {object} helpers.APIResponse "data contains the event list"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	var startDate, endDate *time.Time
	if s := r.URL.Query().Get("start_date"); s != "" {
		t, err := time.Parse(dateOnly, s)
		if err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid start_date, expected YYYY-MM-DD")
			return
		}
		startDate = &t
	}
	if s := r.URL.Query().Get("end_date"); s != "" {
		t, err := time.Parse(dateOnly, s)
		if err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid end_date, expected YYYY-MM-DD")
			return
		}
		// Make the upper bound inclusive for the whole day.
		t = t.Add(24*time.Hour - time.Nanosecond)
		endDate = &t
	}

	events, err := c.Queries.EventsByDateRange(r.Context(), startDate, endDate)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// GetEvent godoc
// @Summary Get an event by ID
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains the event"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, ok := c.fetchEvent(w, r)
	if !ok {
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// CreateEvent godoc
// @Summary Create a new event
// @Description Accepts multipart/form-data with title, description, venue, start_time, end_time (RFC 3339) and an optional image part. The authenticated user becomes the creator.
// @Tags events
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Success 201 {object} helpers.APIResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	form, ok := parseEventForm(w, r, true)
	if !ok {
		return
	}
	defer form.close()

	event := domain.NewEvent(form.title, form.description, form.startTime, form.endTime, form.venue)
	created, err := c.Events.CreateEvent(r.Context(), event, userID, form.image)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, created)
}

// UpdateEvent godoc
// @Summary Update an event
// @Description Accepts the same multipart form as create; omitted text fields are kept, a supplied image replaces the previous one. Only the creator may update.
// @Tags events
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID} [put]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	event, ok := c.fetchEvent(w, r)
	if !ok {
		return
	}
	// The ownership gate: mutating service calls assume it already passed.
	if !c.Events.CanManageEvent(event, userID) {
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "only the creator can modify this event")
		return
	}

	form, ok := parseEventForm(w, r, false)
	if !ok {
		return
	}
	defer form.close()
	form.apply(event)

	updated, err := c.Events.UpdateEvent(r.Context(), event, form.image)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, updated)
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Deletes the event, its image, and (via the store cascade) its registrations. Only the creator may delete.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 204 "no content"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	event, ok := c.fetchEvent(w, r)
	if !ok {
		return
	}
	if !c.Events.CanManageEvent(event, userID) {
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "only the creator can delete this event")
		return
	}
	if err := c.Events.DeleteEvent(r.Context(), event); err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MyEvents godoc
// @Summary List events created by the authenticated user
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the event list, newest first"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /me/events [get]
func (c *EventController) MyEvents(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	events, err := c.Queries.EventsCreatedBy(r.Context(), userID)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

func (c *EventController) fetchEvent(w http.ResponseWriter, r *http.Request) (*domain.Event, bool) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return nil, false
	}
	event, err := c.Events.GetEventByID(r.Context(), eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return nil, false
		}
		c.writeServiceError(w, r, err)
		return nil, false
	}
	return event, true
}

func (c *EventController) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "end time must not be before start time")
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}

// eventForm holds the parsed multipart fields of an event create/update request.
type eventForm struct {
	title       string
	description string
	venue       string
	startTime   time.Time
	endTime     time.Time
	hasTitle    bool
	hasDesc     bool
	hasVenue    bool
	hasStart    bool
	hasEnd      bool
	image       *domain.ImageUpload
	file        multipart.File
}

func (f *eventForm) close() {
	if f.file != nil {
		f.file.Close()
	}
}

// apply copies the supplied fields onto event, leaving omitted ones unchanged.
func (f *eventForm) apply(event *domain.Event) {
	if f.hasTitle {
		event.Title = f.title
	}
	if f.hasDesc {
		event.Description = f.description
	}
	if f.hasVenue {
		event.Venue = f.venue
	}
	if f.hasStart {
		event.StartTime = f.startTime
	}
	if f.hasEnd {
		event.EndTime = f.endTime
	}
}

// parseEventForm reads the multipart form. When required is true (create),
// title, start_time, and end_time must be present. On failure it writes a
// 400 response and returns ok=false.
func parseEventForm(w http.ResponseWriter, r *http.Request, required bool) (*eventForm, bool) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid multipart form: "+err.Error())
		return nil, false
	}

	form := &eventForm{}
	readField := func(name string) (string, bool) {
		vs, ok := r.MultipartForm.Value[name]
		if !ok || len(vs) == 0 {
			return "", false
		}
		return strings.TrimSpace(vs[0]), true
	}

	form.title, form.hasTitle = readField("title")
	form.description, form.hasDesc = readField("description")
	form.venue, form.hasVenue = readField("venue")

	if s, ok := readField("start_time"); ok {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid start_time, expected RFC 3339")
			return nil, false
		}
		form.startTime = t
		form.hasStart = true
	}
	if s, ok := readField("end_time"); ok {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid end_time, expected RFC 3339")
			return nil, false
		}
		form.endTime = t
		form.hasEnd = true
	}

	if required {
		var missing []string
		if !form.hasTitle || form.title == "" {
			missing = append(missing, "title")
		}
		if !form.hasStart {
			missing = append(missing, "start_time")
		}
		if !form.hasEnd {
			missing = append(missing, "end_time")
		}
		if len(missing) > 0 {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing required fields: "+strings.Join(missing, ", "))
			return nil, false
		}
	}

	file, header, err := r.FormFile("image")
	if err == nil {
		form.file = file
		form.image = &domain.ImageUpload{
			Content:   file,
			Extension: strings.TrimPrefix(filepath.Ext(header.Filename), "."),
		}
	} else if !errors.Is(err, http.ErrMissingFile) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid image upload: "+err.Error())
		return nil, false
	}
	return form, true
}
