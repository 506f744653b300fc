package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dileeka1998/Event-Planner-sub000/internal/model"
	"github.com/dileeka1998/Event-Planner-sub000/internal/service"
)

// ScheduleService is the part of service.ScheduleService used here.
type ScheduleService interface {
	Generate(ctx context.Context, actor service.Actor, eventID uint64, opts service.GenerateOptions) (*service.ScheduleResult, error)
	Apply(ctx context.Context, actor service.Actor, eventID uint64, assignments []model.Assignment) (*service.ScheduleResult, error)
}

// ScheduleHandler serves /events/:id/schedule.
type ScheduleHandler struct {
	Schedules ScheduleService
	Logger    *slog.Logger
}

// NewScheduleHandler builds a ScheduleHandler.
func NewScheduleHandler(s ScheduleService, logger *slog.Logger) *ScheduleHandler {
	return &ScheduleHandler{Schedules: s, Logger: logger}
}

type applyReq struct {
	Assignments []model.Assignment `json:"assignments" validate:"required,dive"`
}

// Generate handles POST /events/:id/schedule.  A solver outage is a 200
// with success=false.  An empty body uses the defaults.
func (h *ScheduleHandler) Generate(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	eventID, ok := pathID(c, "id")
	if !ok {
		return badID(c, "event id")
	}
	var opts service.GenerateOptions
	if c.Request().ContentLength != 0 {
		if ok, err := bindValid(c, &opts); !ok {
			return err
		}
	}
	res, err := h.Schedules.Generate(c.Request().Context(), a, eventID, opts)
	if err != nil {
		return writeError(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, res)
}

// Apply handles POST /events/:id/schedule/apply.
func (h *ScheduleHandler) Apply(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	eventID, ok := pathID(c, "id")
	if !ok {
		return badID(c, "event id")
	}
	var req applyReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	res, err := h.Schedules.Apply(c.Request().Context(), a, eventID, req.Assignments)
	if err != nil {
		return writeError(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, res)
}
