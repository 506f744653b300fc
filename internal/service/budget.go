package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dileeka1998/Event-Planner-sub000/internal/model"
	"github.com/dileeka1998/Event-Planner-sub000/internal/repository"
)

// seedSplit is the fixed proportional split applied when an event is
// created with a budget amount and no explicit items.
var seedSplit = []struct {
	Category string
	Fraction decimal.Decimal
}{
	{"Venue", decimal.RequireFromString("0.40")},
	{"Catering", decimal.RequireFromString("0.30")},
	{"Audio/Visual", decimal.RequireFromString("0.10")},
	{"Miscellaneous", decimal.RequireFromString("0.20")},
}

// ItemInput is the client supplied content of a new budget item.
type ItemInput struct {
	Category        string          `json:"category" validate:"required,max=120"`
	Description     string          `json:"description" validate:"max=500"`
	EstimatedAmount decimal.Decimal `json:"estimatedAmount"`
	ActualAmount    decimal.Decimal `json:"actualAmount"`
	Quantity        *int            `json:"quantity" validate:"omitempty,min=1"`
	Unit            string          `json:"unit" validate:"max=40"`
	Vendor          string          `json:"vendor" validate:"max=200"`
	Status          string          `json:"status"`
}

// ItemPatch holds the fields a PATCH may change; nil means keep.
type ItemPatch struct {
	Category        *string          `json:"category" validate:"omitempty,min=1,max=120"`
	Description     *string          `json:"description" validate:"omitempty,max=500"`
	EstimatedAmount *decimal.Decimal `json:"estimatedAmount"`
	ActualAmount    *decimal.Decimal `json:"actualAmount"`
	Quantity        *int             `json:"quantity" validate:"omitempty,min=1"`
	Unit            *string          `json:"unit" validate:"omitempty,max=40"`
	Vendor          *string          `json:"vendor" validate:"omitempty,max=200"`
	Status          *string          `json:"status"`
}

// BudgetService keeps an event budget's derived totals equal to the sum of
// its line items.  Every item mutation recalculates inside the same
// transaction.
type BudgetService struct {
	store  repository.Store
	logger *slog.Logger
}

// NewBudgetService builds a BudgetService.
func NewBudgetService(store repository.Store, logger *slog.Logger) *BudgetService {
	return &BudgetService{store: store, logger: logger}
}

// Totals computes Σ estimatedAmount × quantity and Σ actualAmount, each
// rounded to two decimal places.
func Totals(items []model.BudgetItem) (estimated, actual decimal.Decimal) {
	estimated, actual = decimal.Zero, decimal.Zero
	for _, it := range items {
		estimated = estimated.Add(it.EstimatedAmount.Mul(decimal.NewFromInt(int64(it.Quantity))))
		actual = actual.Add(it.ActualAmount)
	}
	return estimated.Round(2), actual.Round(2)
}

// SeedItems returns the heuristic split of total for budgetID.
func SeedItems(budgetID uint64, total decimal.Decimal) []model.BudgetItem {
	items := make([]model.BudgetItem, 0, len(seedSplit))
	for _, s := range seedSplit {
		items = append(items, model.BudgetItem{
			BudgetID:        budgetID,
			Category:        s.Category,
			Description:     "Estimated " + strings.ToLower(s.Category) + " costs",
			EstimatedAmount: total.Mul(s.Fraction).Round(2),
			ActualAmount:    decimal.Zero,
			Quantity:        1,
			Status:          model.ItemPlanned,
		})
	}
	return items
}

// Get returns eventID's budget with its items.  An event without a budget
// row yields an empty budget with zero totals.
func (s *BudgetService) Get(ctx context.Context, actor Actor, eventID uint64) (*model.Budget, error) {
	r := s.store.Repos()
	if _, err := loadManagedEvent(ctx, r, actor, eventID); err != nil {
		return nil, err
	}
	b, err := r.Budgets.GetByEvent(ctx, eventID)
	if errors.Is(err, repository.ErrNotFound) {
		return &model.Budget{EventID: eventID, Items: []model.BudgetItem{}}, nil
	}
	if err != nil {
		return nil, err
	}
	if b.Items, err = r.Budgets.ListItems(ctx, b.ID); err != nil {
		return nil, err
	}
	return b, nil
}

// Recalculate reloads the budget's items, recomputes both totals and
// persists them.  Calling it twice without an item change yields the same
// totals.
func (s *BudgetService) Recalculate(ctx context.Context, budgetID uint64) (*model.Budget, error) {
	var out *model.Budget
	err := s.store.WithTx(ctx, func(r repository.Repos) error {
		b, err := recalculate(ctx, r, budgetID)
		out = b
		return err
	})
	return out, err
}

// CreateItem adds an item to eventID's budget, creating the budget row on
// first use.
func (s *BudgetService) CreateItem(ctx context.Context, actor Actor, eventID uint64, in ItemInput) (*model.BudgetItem, error) {
	it, err := itemFromInput(in)
	if err != nil {
		return nil, err
	}
	err = s.store.WithTx(ctx, func(r repository.Repos) error {
		if _, err := loadManagedEvent(ctx, r, actor, eventID); err != nil {
			return err
		}
		b, err := ensureBudget(ctx, r, eventID)
		if err != nil {
			return err
		}
		it.BudgetID = b.ID
		if err := r.Budgets.CreateItem(ctx, it); err != nil {
			return err
		}
		_, err = recalculate(ctx, r, b.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return it, nil
}

// UpdateItem applies patch to itemID, which must belong to eventID's
// budget.
func (s *BudgetService) UpdateItem(ctx context.Context, actor Actor, eventID, itemID uint64, patch ItemPatch) (*model.BudgetItem, error) {
	var out *model.BudgetItem
	err := s.store.WithTx(ctx, func(r repository.Repos) error {
		it, err := loadEventItem(ctx, r, actor, eventID, itemID)
		if err != nil {
			return err
		}
		if err := applyItemPatch(it, patch); err != nil {
			return err
		}
		if err := r.Budgets.UpdateItem(ctx, it); err != nil {
			return err
		}
		if _, err := recalculate(ctx, r, it.BudgetID); err != nil {
			return err
		}
		out = it
		return nil
	})
	return out, err
}

// DeleteItem removes itemID from eventID's budget.
func (s *BudgetService) DeleteItem(ctx context.Context, actor Actor, eventID, itemID uint64) error {
	return s.store.WithTx(ctx, func(r repository.Repos) error {
		it, err := loadEventItem(ctx, r, actor, eventID, itemID)
		if err != nil {
			return err
		}
		if err := r.Budgets.DeleteItem(ctx, it.ID); err != nil {
			return err
		}
		_, err = recalculate(ctx, r, it.BudgetID)
		return err
	})
}

func loadEventItem(ctx context.Context, r repository.Repos, actor Actor, eventID, itemID uint64) (*model.BudgetItem, error) {
	if _, err := loadManagedEvent(ctx, r, actor, eventID); err != nil {
		return nil, err
	}
	b, err := r.Budgets.GetByEvent(ctx, eventID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("budget item not found")
	}
	if err != nil {
		return nil, err
	}
	it, err := r.Budgets.GetItem(ctx, itemID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && it.BudgetID != b.ID) {
		return nil, notFound("budget item not found")
	}
	return it, err
}

// ensureBudget returns the event's budget, inserting an empty one when
// missing.
func ensureBudget(ctx context.Context, r repository.Repos, eventID uint64) (*model.Budget, error) {
	b, err := r.Budgets.GetByEvent(ctx, eventID)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	b = &model.Budget{EventID: eventID, TotalEstimated: decimal.Zero, TotalActual: decimal.Zero}
	if err := r.Budgets.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func recalculate(ctx context.Context, r repository.Repos, budgetID uint64) (*model.Budget, error) {
	b, err := r.Budgets.GetByID(ctx, budgetID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("budget not found")
	}
	if err != nil {
		return nil, err
	}
	items, err := r.Budgets.ListItems(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	b.TotalEstimated, b.TotalActual = Totals(items)
	b.Items = items
	if err := r.Budgets.UpdateTotals(ctx, b.ID, b.TotalEstimated, b.TotalActual); err != nil {
		return nil, err
	}
	return b, nil
}

func itemFromInput(in ItemInput) (*model.BudgetItem, error) {
	category := strings.TrimSpace(in.Category)
	if category == "" {
		return nil, badRequest("category is required")
	}
	status, ok := model.ParseItemStatus(in.Status)
	if !ok {
		return nil, badRequest("invalid status %q", in.Status)
	}
	qty := 1
	if in.Quantity != nil {
		qty = *in.Quantity
	}
	it := &model.BudgetItem{
		Category:        category,
		Description:     strings.TrimSpace(in.Description),
		EstimatedAmount: in.EstimatedAmount.Round(2),
		ActualAmount:    in.ActualAmount.Round(2),
		Quantity:        qty,
		Unit:            strings.TrimSpace(in.Unit),
		Vendor:          strings.TrimSpace(in.Vendor),
		Status:          status,
	}
	return it, validateItem(it)
}

func applyItemPatch(it *model.BudgetItem, p ItemPatch) error {
	if p.Category != nil {
		it.Category = strings.TrimSpace(*p.Category)
		if it.Category == "" {
			return badRequest("category is required")
		}
	}
	if p.Description != nil {
		it.Description = strings.TrimSpace(*p.Description)
	}
	if p.EstimatedAmount != nil {
		it.EstimatedAmount = p.EstimatedAmount.Round(2)
	}
	if p.ActualAmount != nil {
		it.ActualAmount = p.ActualAmount.Round(2)
	}
	if p.Quantity != nil {
		it.Quantity = *p.Quantity
	}
	if p.Unit != nil {
		it.Unit = strings.TrimSpace(*p.Unit)
	}
	if p.Vendor != nil {
		it.Vendor = strings.TrimSpace(*p.Vendor)
	}
	if p.Status != nil {
		st, ok := model.ParseItemStatus(*p.Status)
		if !ok {
			return badRequest("invalid status %q", *p.Status)
		}
		it.Status = st
	}
	return validateItem(it)
}

func validateItem(it *model.BudgetItem) error {
	if it.Quantity < 1 {
		return badRequest("quantity must be at least 1")
	}
	if it.EstimatedAmount.IsNegative() || it.ActualAmount.IsNegative() {
		return badRequest("amounts must not be negative")
	}
	return nil
}
