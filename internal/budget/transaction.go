package budget

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/neogenz/pulpe-sub001/internal/editable"
	"github.com/neogenz/pulpe-sub001/internal/model"
)

// TransactionForm is the editable part of a transaction.
type TransactionForm struct {
	Name            string          `yaml:"name"`
	Amount          decimal.Decimal `yaml:"amount"`
	Kind            model.Kind      `yaml:"kind"`
	TransactionDate time.Time       `yaml:"transaction_date"`
	LineID          *string         `yaml:"line_id,omitempty"`
}

type TransactionCreate struct {
	BudgetID        string          `json:"budgetId,omitempty"`
	LineID          *string         `json:"budgetLineId,omitempty"`
	Name            string          `json:"name"`
	Amount          decimal.Decimal `json:"amount"`
	Kind            model.Kind      `json:"kind"`
	TransactionDate time.Time       `json:"transactionDate"`
}

type TransactionUpdate struct {
	ID              string          `json:"id"`
	LineID          *string         `json:"budgetLineId,omitempty"`
	Name            string          `json:"name"`
	Amount          decimal.Decimal `json:"amount"`
	Kind            model.Kind      `json:"kind"`
	TransactionDate time.Time       `json:"transactionDate"`
}

// TransactionSchema maps the transactions of one budget. Now supplies the
// date of a transaction created without one; nil means time.Now.
type TransactionSchema struct {
	BudgetID string
	Now      func() time.Time
}

var _ editable.Mapper[TransactionForm, model.Transaction, TransactionCreate, TransactionUpdate] = TransactionSchema{}

func (TransactionSchema) FormFromRecord(t model.Transaction) TransactionForm {
	return TransactionForm{
		Name:            t.Name,
		Amount:          t.Amount,
		Kind:            t.Kind,
		TransactionDate: t.TransactionDate,
		LineID:          t.LineID,
	}
}

func (TransactionSchema) RecordID(t model.Transaction) string { return t.ID }

func (TransactionSchema) Modified(f TransactionForm, t model.Transaction) bool {
	return strings.TrimSpace(f.Name) != t.Name ||
		!f.Amount.Equal(t.Amount) ||
		f.Kind != t.Kind ||
		!f.TransactionDate.Equal(t.TransactionDate) ||
		!sameString(f.LineID, t.LineID)
}

func (TransactionSchema) Validate(f TransactionForm) []editable.FieldError {
	var errs []editable.FieldError
	errs = append(errs, validateName(f.Name)...)
	errs = append(errs, validateAmount(f.Amount, true)...)
	errs = append(errs, validateKind(f.Kind)...)
	return errs
}

func (s TransactionSchema) CreateRecord(f TransactionForm) TransactionCreate {
	date := f.TransactionDate
	if date.IsZero() {
		date = s.now()
	}
	return TransactionCreate{
		BudgetID:        s.BudgetID,
		LineID:          f.LineID,
		Name:            strings.TrimSpace(f.Name),
		Amount:          f.Amount,
		Kind:            f.Kind,
		TransactionDate: date,
	}
}

func (TransactionSchema) UpdateRecord(f TransactionForm, t model.Transaction) TransactionUpdate {
	date := f.TransactionDate
	if date.IsZero() {
		date = t.TransactionDate
	}
	return TransactionUpdate{
		ID:              t.ID,
		LineID:          f.LineID,
		Name:            strings.TrimSpace(f.Name),
		Amount:          f.Amount,
		Kind:            f.Kind,
		TransactionDate: date,
	}
}

func (s TransactionSchema) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
