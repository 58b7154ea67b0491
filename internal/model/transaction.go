package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is an actual movement of money, optionally allocated to a Line.
type Transaction struct {
	ID              string          `json:"id" yaml:"id"`
	BudgetID        string          `json:"budgetId,omitempty" yaml:"budget_id,omitempty"`
	LineID          *string         `json:"budgetLineId,omitempty" yaml:"line_id,omitempty"`
	Name            string          `json:"name" yaml:"name"`
	Amount          decimal.Decimal `json:"amount" yaml:"amount"`
	Kind            Kind            `json:"kind" yaml:"kind"`
	TransactionDate time.Time       `json:"transactionDate" yaml:"transaction_date"`
	CheckedAt       *time.Time      `json:"checkedAt,omitempty" yaml:"checked_at,omitempty"`
	CreatedAt       time.Time       `json:"createdAt" yaml:"created_at"`
}

// IsAllocated reports whether the transaction is attached to a planned line.
func (t Transaction) IsAllocated() bool {
	return t.LineID != nil && *t.LineID != ""
}

// AllocatedTo reports whether the transaction is attached to the given line.
func (t Transaction) AllocatedTo(lineID string) bool {
	return t.IsAllocated() && *t.LineID == lineID
}

// IsChecked reports whether the transaction was ticked off.
func (t Transaction) IsChecked() bool {
	return t.CheckedAt != nil
}

// EffectiveDate returns the transaction date, or the creation time when the
// date is missing.
func (t Transaction) EffectiveDate() time.Time {
	if !t.TransactionDate.IsZero() {
		return t.TransactionDate
	}
	return t.CreatedAt
}
