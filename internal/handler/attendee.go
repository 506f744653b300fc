package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dileeka1998/Event-Planner-sub000/internal/model"
	"github.com/dileeka1998/Event-Planner-sub000/internal/service"
)

// RegistrationService is the part of service.RegistrationService used here.
type RegistrationService interface {
	Register(ctx context.Context, eventID, userID uint64) (*model.Attendee, error)
	Leave(ctx context.Context, eventID, userID uint64) (*service.LeaveResult, error)
	ListAttendees(ctx context.Context, actor service.Actor, eventID uint64) ([]model.Attendee, error)
}

// AttendeeHandler serves /events/:id/attendees.
type AttendeeHandler struct {
	Registrations RegistrationService
	Logger        *slog.Logger
}

// NewAttendeeHandler builds an AttendeeHandler.
func NewAttendeeHandler(reg RegistrationService, logger *slog.Logger) *AttendeeHandler {
	return &AttendeeHandler{Registrations: reg, Logger: logger}
}

// Register handles POST /events/:id/attendees for the caller.  201 carries
// the attendee row, CONFIRMED or WAITLISTED.
func (h *AttendeeHandler) Register(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	eventID, ok := pathID(c, "id")
	if !ok {
		return badID(c, "event id")
	}
	att, err := h.Registrations.Register(c.Request().Context(), eventID, a.UserID)
	if err != nil {
		return writeError(c, h.Logger, err)
	}
	return c.JSON(http.StatusCreated, att)
}

// Leave handles DELETE /events/:id/attendees/me.
func (h *AttendeeHandler) Leave(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	eventID, ok := pathID(c, "id")
	if !ok {
		return badID(c, "event id")
	}
	res, err := h.Registrations.Leave(c.Request().Context(), eventID, a.UserID)
	if err != nil {
		return writeError(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, res)
}

// List handles GET /events/:id/attendees.
func (h *AttendeeHandler) List(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	eventID, ok := pathID(c, "id")
	if !ok {
		return badID(c, "event id")
	}
	list, err := h.Registrations.ListAttendees(c.Request().Context(), a, eventID)
	if err != nil {
		return writeError(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, list)
}
