package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/dileeka1998/Event-Planner-sub000/internal/model"
)

// BudgetRepository persists event budgets and their line items.  Money
// columns are DECIMAL(12,2) and scanned straight into decimal.Decimal.
type BudgetRepository interface {
	Create(ctx context.Context, b *model.Budget) error
	GetByID(ctx context.Context, id uint64) (*model.Budget, error)
	GetByEvent(ctx context.Context, eventID uint64) (*model.Budget, error)
	UpdateTotals(ctx context.Context, id uint64, estimated, actual decimal.Decimal) error
	Delete(ctx context.Context, id uint64) error

	ListItems(ctx context.Context, budgetID uint64) ([]model.BudgetItem, error)
	GetItem(ctx context.Context, id uint64) (*model.BudgetItem, error)
	CreateItem(ctx context.Context, it *model.BudgetItem) error
	UpdateItem(ctx context.Context, it *model.BudgetItem) error
	DeleteItem(ctx context.Context, id uint64) error
	DeleteItemsByBudget(ctx context.Context, budgetID uint64) error
}

// BudgetRepo provides data access to event_budgets and budget_items.
type BudgetRepo struct{ q querier }

const (
	budgetColumns = "id, event_id, total_estimated, total_actual"
	itemColumns   = "id, budget_id, category, description, estimated_amount, actual_amount, quantity, unit, vendor, status"
)

// Create inserts b with zero totals and fills b.ID.  A second budget for
// the same event yields ErrConflict.
func (r *BudgetRepo) Create(ctx context.Context, b *model.Budget) error {
	res, err := r.q.ExecContext(ctx,
		"INSERT INTO event_budgets (event_id, total_estimated, total_actual) VALUES (?,?,?)",
		b.EventID, b.TotalEstimated.StringFixed(2), b.TotalActual.StringFixed(2))
	if err != nil {
		return translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

// GetByID returns the budget header without items.
func (r *BudgetRepo) GetByID(ctx context.Context, id uint64) (*model.Budget, error) {
	return scanBudget(r.q.QueryRowContext(ctx, "SELECT "+budgetColumns+" FROM event_budgets WHERE id=?", id))
}

// GetByEvent returns the event's budget header without items.
func (r *BudgetRepo) GetByEvent(ctx context.Context, eventID uint64) (*model.Budget, error) {
	return scanBudget(r.q.QueryRowContext(ctx, "SELECT "+budgetColumns+" FROM event_budgets WHERE event_id=?", eventID))
}

// UpdateTotals overwrites the derived totals.
func (r *BudgetRepo) UpdateTotals(ctx context.Context, id uint64, estimated, actual decimal.Decimal) error {
	_, err := r.q.ExecContext(ctx,
		"UPDATE event_budgets SET total_estimated=?, total_actual=? WHERE id=?",
		estimated.StringFixed(2), actual.StringFixed(2), id)
	return err
}

// Delete removes the budget header.  Items must be deleted first.
func (r *BudgetRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.q.ExecContext(ctx, "DELETE FROM event_budgets WHERE id=?", id)
	return err
}

// ListItems returns the budget's items in insertion order.
func (r *BudgetRepo) ListItems(ctx context.Context, budgetID uint64) ([]model.BudgetItem, error) {
	rows, err := r.q.QueryContext(ctx,
		"SELECT "+itemColumns+" FROM budget_items WHERE budget_id=? ORDER BY id", budgetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.BudgetItem{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *it)
	}
	return out, rows.Err()
}

// GetItem returns one item or ErrNotFound.
func (r *BudgetRepo) GetItem(ctx context.Context, id uint64) (*model.BudgetItem, error) {
	return scanItem(r.q.QueryRowContext(ctx, "SELECT "+itemColumns+" FROM budget_items WHERE id=?", id))
}

// CreateItem inserts it and fills it.ID.
func (r *BudgetRepo) CreateItem(ctx context.Context, it *model.BudgetItem) error {
	res, err := r.q.ExecContext(ctx,
		`INSERT INTO budget_items (budget_id, category, description, estimated_amount, actual_amount, quantity, unit, vendor, status)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		it.BudgetID, it.Category, it.Description, it.EstimatedAmount.StringFixed(2), it.ActualAmount.StringFixed(2),
		it.Quantity, it.Unit, it.Vendor, string(it.Status))
	if err != nil {
		return translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	it.ID = uint64(id)
	return nil
}

// UpdateItem writes every mutable column of it.
func (r *BudgetRepo) UpdateItem(ctx context.Context, it *model.BudgetItem) error {
	_, err := r.q.ExecContext(ctx,
		`UPDATE budget_items SET category=?, description=?, estimated_amount=?, actual_amount=?, quantity=?, unit=?, vendor=?, status=?
		 WHERE id=?`,
		it.Category, it.Description, it.EstimatedAmount.StringFixed(2), it.ActualAmount.StringFixed(2),
		it.Quantity, it.Unit, it.Vendor, string(it.Status), it.ID)
	return translate(err)
}

// DeleteItem removes one item.
func (r *BudgetRepo) DeleteItem(ctx context.Context, id uint64) error {
	return affectedOrNotFound(r.q.ExecContext(ctx, "DELETE FROM budget_items WHERE id=?", id))
}

// DeleteItemsByBudget removes all items of a budget.
func (r *BudgetRepo) DeleteItemsByBudget(ctx context.Context, budgetID uint64) error {
	_, err := r.q.ExecContext(ctx, "DELETE FROM budget_items WHERE budget_id=?", budgetID)
	return err
}

func scanBudget(row rowScanner) (*model.Budget, error) {
	var b model.Budget
	if err := row.Scan(&b.ID, &b.EventID, &b.TotalEstimated, &b.TotalActual); err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

func scanItem(row rowScanner) (*model.BudgetItem, error) {
	var (
		it     model.BudgetItem
		status string
	)
	err := row.Scan(&it.ID, &it.BudgetID, &it.Category, &it.Description, &it.EstimatedAmount,
		&it.ActualAmount, &it.Quantity, &it.Unit, &it.Vendor, &status)
	if err != nil {
		return nil, translate(err)
	}
	it.Status = model.BudgetItemStatus(status)
	return &it, nil
}
