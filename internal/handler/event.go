package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dileeka1998/Event-Planner-sub000/internal/model"
	"github.com/dileeka1998/Event-Planner-sub000/internal/service"
)

// EventService is the part of service.EventService used here.
type EventService interface {
	Create(ctx context.Context, actor service.Actor, in service.CreateEventInput) (*model.Event, error)
	Get(ctx context.Context, id uint64) (*model.Event, error)
	List(ctx context.Context, actor service.Actor) ([]model.Event, error)
	Update(ctx context.Context, actor service.Actor, id uint64, in service.UpdateEventInput) (*model.Event, error)
	Delete(ctx context.Context, actor service.Actor, id uint64) error
}

// CapacityService reports live capacity snapshots.
type CapacityService interface {
	Get(ctx context.Context, eventID uint64) (service.Snapshot, error)
}

// EventHandler serves /events and /events/:id/capacity.
type EventHandler struct {
	Events   EventService
	Capacity CapacityService
	Logger   *slog.Logger
}

// NewEventHandler builds an EventHandler.
func NewEventHandler(events EventService, capacity CapacityService, logger *slog.Logger) *EventHandler {
	return &EventHandler{Events: events, Capacity: capacity, Logger: logger}
}

// Create handles POST /events.
func (h *EventHandler) Create(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	var in service.CreateEventInput
	if ok, err := bindValid(c, &in); !ok {
		return err
	}
	ev, err := h.Events.Create(c.Request().Context(), a, in)
	if err != nil {
		return writeError(c, h.Logger, err)
	}
	return c.JSON(http.StatusCreated, ev)
}

// List handles GET /events.
func (h *EventHandler) List(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	list, err := h.Events.List(c.Request().Context(), a)
	if err != nil {
		return writeError(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, list)
}

// Get handles GET /events/:id.
func (h *EventHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badID(c, "event id")
	}
	ev, err := h.Events.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, ev)
}

// Update handles PATCH /events/:id.
func (h *EventHandler) Update(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := pathID(c, "id")
	if !ok {
		return badID(c, "event id")
	}
	var in service.UpdateEventInput
	if ok, err := bindValid(c, &in); !ok {
		return err
	}
	ev, err := h.Events.Update(c.Request().Context(), a, id, in)
	if err != nil {
		return writeError(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, ev)
}

// Delete handles DELETE /events/:id.
func (h *EventHandler) Delete(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := pathID(c, "id")
	if !ok {
		return badID(c, "event id")
	}
	if err := h.Events.Delete(c.Request().Context(), a, id); err != nil {
		return writeError(c, h.Logger, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// CapacitySnapshot handles GET /events/:id/capacity.
func (h *EventHandler) CapacitySnapshot(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badID(c, "event id")
	}
	snap, err := h.Capacity.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, snap)
}
