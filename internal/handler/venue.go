package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/dileeka1998/Event-Planner-sub000/internal/model"
	"github.com/dileeka1998/Event-Planner-sub000/internal/service"
)

// VenueService is the part of service.VenueService used here.
type VenueService interface {
	Create(ctx context.Context, actor service.Actor, in service.VenueInput) (*model.Venue, error)
	Get(ctx context.Context, actor service.Actor, id uint64) (*model.Venue, error)
	List(ctx context.Context, actor service.Actor) ([]model.Venue, error)
	Update(ctx context.Context, actor service.Actor, id uint64, patch service.VenuePatch) (*model.Venue, error)
	Delete(ctx context.Context, actor service.Actor, id uint64) error
	Availability(ctx context.Context, venueID uint64, start, end model.Date, excludeEventID uint64) (*service.Availability, error)
}

// VenueHandler serves /venues.
type VenueHandler struct {
	Venues VenueService
	Logger *slog.Logger
}

// NewVenueHandler builds a VenueHandler.
func NewVenueHandler(venues VenueService, logger *slog.Logger) *VenueHandler {
	return &VenueHandler{Venues: venues, Logger: logger}
}

// Create handles POST /venues.
func (h *VenueHandler) Create(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	var in service.VenueInput
	if ok, err := bindValid(c, &in); !ok {
		return err
	}
	v, err := h.Venues.Create(c.Request().Context(), a, in)
	if err != nil {
		return writeError(c, h.Logger, err)
	}
	return c.JSON(http.StatusCreated, v)
}

// List handles GET /venues.
func (h *VenueHandler) List(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	list, err := h.Venues.List(c.Request().Context(), a)
	if err != nil {
		return writeError(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, list)
}

// Get handles GET /venues/:id.
func (h *VenueHandler) Get(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := pathID(c, "id")
	if !ok {
		return badID(c, "venue id")
	}
	v, err := h.Venues.Get(c.Request().Context(), a, id)
	if err != nil {
		return writeError(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, v)
}

// Update handles PATCH /venues/:id.
func (h *VenueHandler) Update(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := pathID(c, "id")
	if !ok {
		return badID(c, "venue id")
	}
	var patch service.VenuePatch
	if ok, err := bindValid(c, &patch); !ok {
		return err
	}
	v, err := h.Venues.Update(c.Request().Context(), a, id, patch)
	if err != nil {
		return writeError(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, v)
}

// Delete handles DELETE /venues/:id.
func (h *VenueHandler) Delete(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := pathID(c, "id")
	if !ok {
		return badID(c, "venue id")
	}
	if err := h.Venues.Delete(c.Request().Context(), a, id); err != nil {
		return writeError(c, h.Logger, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Availability handles GET /venues/:id/availability?startDate=&endDate=&excludeEventId=.
func (h *VenueHandler) Availability(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badID(c, "venue id")
	}
	start, err := model.ParseDate(c.QueryParam("startDate"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "startDate must be YYYY-MM-DD"})
	}
	end, err := model.ParseDate(c.QueryParam("endDate"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "endDate must be YYYY-MM-DD"})
	}
	var exclude uint64
	if s := c.QueryParam("excludeEventId"); s != "" {
		if exclude, err = strconv.ParseUint(s, 10, 64); err != nil {
			return badID(c, "excludeEventId")
		}
	}
	res, err := h.Venues.Availability(c.Request().Context(), id, start, end, exclude)
	if err != nil {
		return writeError(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, res)
}
