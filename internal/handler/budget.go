package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dileeka1998/Event-Planner-sub000/internal/model"
	"github.com/dileeka1998/Event-Planner-sub000/internal/service"
)

// BudgetService is the part of service.BudgetService used here.
type BudgetService interface {
	Get(ctx context.Context, actor service.Actor, eventID uint64) (*model.Budget, error)
	CreateItem(ctx context.Context, actor service.Actor, eventID uint64, in service.ItemInput) (*model.BudgetItem, error)
	UpdateItem(ctx context.Context, actor service.Actor, eventID, itemID uint64, patch service.ItemPatch) (*model.BudgetItem, error)
	DeleteItem(ctx context.Context, actor service.Actor, eventID, itemID uint64) error
}

// BudgetHandler serves /events/:id/budget.
type BudgetHandler struct {
	Budgets BudgetService
	Logger  *slog.Logger
}

// NewBudgetHandler builds a BudgetHandler.
func NewBudgetHandler(budgets BudgetService, logger *slog.Logger) *BudgetHandler {
	return &BudgetHandler{Budgets: budgets, Logger: logger}
}

// Get handles GET /events/:id/budget.
func (h *BudgetHandler) Get(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	eventID, ok := pathID(c, "id")
	if !ok {
		return badID(c, "event id")
	}
	b, err := h.Budgets.Get(c.Request().Context(), a, eventID)
	if err != nil {
		return writeError(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, b)
}

// CreateItem handles POST /events/:id/budget/items.
func (h *BudgetHandler) CreateItem(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	eventID, ok := pathID(c, "id")
	if !ok {
		return badID(c, "event id")
	}
	var in service.ItemInput
	if ok, err := bindValid(c, &in); !ok {
		return err
	}
	it, err := h.Budgets.CreateItem(c.Request().Context(), a, eventID, in)
	if err != nil {
		return writeError(c, h.Logger, err)
	}
	return c.JSON(http.StatusCreated, it)
}

// UpdateItem handles PATCH /events/:id/budget/items/:itemId.
func (h *BudgetHandler) UpdateItem(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	eventID, ok := pathID(c, "id")
	if !ok {
		return badID(c, "event id")
	}
	itemID, ok := pathID(c, "itemId")
	if !ok {
		return badID(c, "item id")
	}
	var patch service.ItemPatch
	if ok, err := bindValid(c, &patch); !ok {
		return err
	}
	it, err := h.Budgets.UpdateItem(c.Request().Context(), a, eventID, itemID, patch)
	if err != nil {
		return writeError(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, it)
}

// DeleteItem handles DELETE /events/:id/budget/items/:itemId.
func (h *BudgetHandler) DeleteItem(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	eventID, ok := pathID(c, "id")
	if !ok {
		return badID(c, "event id")
	}
	itemID, ok := pathID(c, "itemId")
	if !ok {
		return badID(c, "item id")
	}
	if err := h.Budgets.DeleteItem(c.Request().Context(), a, eventID, itemID); err != nil {
		return writeError(c, h.Logger, err)
	}
	return c.NoContent(http.StatusNoContent)
}
