package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// BudgetItemStatus tracks how far a line item has progressed.
type BudgetItemStatus string

const (
	ItemPlanned   BudgetItemStatus = "PLANNED"
	ItemApproved  BudgetItemStatus = "APPROVED"
	ItemPurchased BudgetItemStatus = "PURCHASED"
	ItemPaid      BudgetItemStatus = "PAID"
)

// ParseItemStatus normalises s; an empty string maps to PLANNED.
func ParseItemStatus(s string) (BudgetItemStatus, bool) {
	switch st := BudgetItemStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case "":
		return ItemPlanned, true
	case ItemPlanned, ItemApproved, ItemPurchased, ItemPaid:
		return st, true
	}
	return "", false
}

// Budget is the one-to-one budget record of an event.  TotalEstimated and
// TotalActual are derived from the items and are never written by clients.
type Budget struct {
	ID             uint64          `json:"id"`
	EventID        uint64          `json:"eventId"`
	TotalEstimated decimal.Decimal `json:"totalEstimated"`
	TotalActual    decimal.Decimal `json:"totalActual"`
	Items          []BudgetItem    `json:"items"`
}

// BudgetItem is one categorised cost entry.
type BudgetItem struct {
	ID              uint64           `json:"id"`
	BudgetID        uint64           `json:"budgetId"`
	Category        string           `json:"category"`
	Description     string           `json:"description"`
	EstimatedAmount decimal.Decimal  `json:"estimatedAmount"`
	ActualAmount    decimal.Decimal  `json:"actualAmount"`
	Quantity        int              `json:"quantity"`
	Unit            string           `json:"unit"`
	Vendor          string           `json:"vendor"`
	Status          BudgetItemStatus `json:"status"`
}
