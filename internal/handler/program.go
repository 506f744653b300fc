package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dileeka1998/Event-Planner-sub000/internal/model"
	"github.com/dileeka1998/Event-Planner-sub000/internal/service"
)

// RoomService is the part of service.RoomService used here.
type RoomService interface {
	Create(ctx context.Context, actor service.Actor, eventID uint64, in service.RoomInput) (*model.Room, error)
	List(ctx context.Context, eventID uint64) ([]model.Room, error)
	Update(ctx context.Context, actor service.Actor, eventID, roomID uint64, patch service.RoomPatch) (*model.Room, error)
	Delete(ctx context.Context, actor service.Actor, eventID, roomID uint64) error
}

// SessionService is the part of service.SessionService used here.
type SessionService interface {
	Create(ctx context.Context, actor service.Actor, eventID uint64, in service.SessionInput) (*model.Session, error)
	List(ctx context.Context, eventID uint64) ([]model.Session, error)
	Update(ctx context.Context, actor service.Actor, eventID, sessionID uint64, patch service.SessionPatch) (*model.Session, error)
	Delete(ctx context.Context, actor service.Actor, eventID, sessionID uint64) error
}

// ProgramHandler serves an event's rooms and sessions.
type ProgramHandler struct {
	Rooms    RoomService
	Sessions SessionService
	Logger   *slog.Logger
}

// NewProgramHandler builds a ProgramHandler.
func NewProgramHandler(rooms RoomService, sessions SessionService, logger *slog.Logger) *ProgramHandler {
	return &ProgramHandler{Rooms: rooms, Sessions: sessions, Logger: logger}
}

// eventChild parses the caller, :id and the named child id.  childParam ""
// skips the child.  Failures are *echo.HTTPError values rendered by
// ErrorHandler.
func eventChild(c echo.Context, childParam string) (service.Actor, uint64, uint64, error) {
	a, ok := actor(c)
	if !ok {
		return a, 0, 0, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	eventID, ok := pathID(c, "id")
	if !ok {
		return a, 0, 0, echo.NewHTTPError(http.StatusBadRequest, "invalid event id")
	}
	if childParam == "" {
		return a, eventID, 0, nil
	}
	childID, ok := pathID(c, childParam)
	if !ok {
		return a, 0, 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+childParam)
	}
	return a, eventID, childID, nil
}

// CreateRoom handles POST /events/:id/rooms.
func (h *ProgramHandler) CreateRoom(c echo.Context) error {
	a, eventID, _, err := eventChild(c, "")
	if err != nil {
		return err
	}
	var in service.RoomInput
	if ok, err := bindValid(c, &in); !ok {
		return err
	}
	rm, err := h.Rooms.Create(c.Request().Context(), a, eventID, in)
	if err != nil {
		return writeError(c, h.Logger, err)
	}
	return c.JSON(http.StatusCreated, rm)
}

// ListRooms handles GET /events/:id/rooms.
func (h *ProgramHandler) ListRooms(c echo.Context) error {
	eventID, ok := pathID(c, "id")
	if !ok {
		return badID(c, "event id")
	}
	list, err := h.Rooms.List(c.Request().Context(), eventID)
	if err != nil {
		return writeError(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, list)
}

// UpdateRoom handles PATCH /events/:id/rooms/:roomId.
func (h *ProgramHandler) UpdateRoom(c echo.Context) error {
	a, eventID, roomID, err := eventChild(c, "roomId")
	if err != nil {
		return err
	}
	var patch service.RoomPatch
	if ok, err := bindValid(c, &patch); !ok {
		return err
	}
	rm, err := h.Rooms.Update(c.Request().Context(), a, eventID, roomID, patch)
	if err != nil {
		return writeError(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, rm)
}

// DeleteRoom handles DELETE /events/:id/rooms/:roomId.
func (h *ProgramHandler) DeleteRoom(c echo.Context) error {
	a, eventID, roomID, err := eventChild(c, "roomId")
	if err != nil {
		return err
	}
	if err := h.Rooms.Delete(c.Request().Context(), a, eventID, roomID); err != nil {
		return writeError(c, h.Logger, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateSession handles POST /events/:id/sessions.
func (h *ProgramHandler) CreateSession(c echo.Context) error {
	a, eventID, _, err := eventChild(c, "")
	if err != nil {
		return err
	}
	var in service.SessionInput
	if ok, err := bindValid(c, &in); !ok {
		return err
	}
	ss, err := h.Sessions.Create(c.Request().Context(), a, eventID, in)
	if err != nil {
		return writeError(c, h.Logger, err)
	}
	return c.JSON(http.StatusCreated, ss)
}

// ListSessions handles GET /events/:id/sessions.
func (h *ProgramHandler) ListSessions(c echo.Context) error {
	eventID, ok := pathID(c, "id")
	if !ok {
		return badID(c, "event id")
	}
	list, err := h.Sessions.List(c.Request().Context(), eventID)
	if err != nil {
		return writeError(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, list)
}

// UpdateSession handles PATCH /events/:id/sessions/:sessionId.
func (h *ProgramHandler) UpdateSession(c echo.Context) error {
	a, eventID, sessionID, err := eventChild(c, "sessionId")
	if err != nil {
		return err
	}
	var patch service.SessionPatch
	if ok, err := bindValid(c, &patch); !ok {
		return err
	}
	ss, err := h.Sessions.Update(c.Request().Context(), a, eventID, sessionID, patch)
	if err != nil {
		return writeError(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, ss)
}

// DeleteSession handles DELETE /events/:id/sessions/:sessionId.
func (h *ProgramHandler) DeleteSession(c echo.Context) error {
	a, eventID, sessionID, err := eventChild(c, "sessionId")
	if err != nil {
		return err
	}
	if err := h.Sessions.Delete(c.Request().Context(), a, eventID, sessionID); err != nil {
		return writeError(c, h.Logger, err)
	}
	return c.NoContent(http.StatusNoContent)
}
