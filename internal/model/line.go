package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Line is a planned budget entry.
type Line struct {
	ID                     string          `json:"id" yaml:"id"`
	BudgetID               string          `json:"budgetId,omitempty" yaml:"budget_id,omitempty"`
	Name                   string          `json:"name" yaml:"name"`
	Amount                 decimal.Decimal `json:"amount" yaml:"amount"` // non-negative, sign implied by Kind
	Kind                   Kind            `json:"kind" yaml:"kind"`
	Recurrence             Recurrence      `json:"recurrence" yaml:"recurrence"`
	TemplateLineID         *string         `json:"templateLineId,omitempty" yaml:"template_line_id,omitempty"`
	IsManuallyAdjusted     bool            `json:"isManuallyAdjusted,omitempty" yaml:"is_manually_adjusted,omitempty"`
	RolloverSourceBudgetID *string         `json:"rolloverSourceBudgetId,omitempty" yaml:"rollover_source_budget_id,omitempty"`
	CreatedAt              time.Time       `json:"createdAt" yaml:"created_at"` // zero = unknown
}

// IsRollover reports whether the line carries a previous period's balance.
func (l Line) IsRollover() bool {
	return l.RolloverSourceBudgetID != nil
}

// TemplateLine is a line of a budget template.
type TemplateLine struct {
	ID          string          `json:"id" yaml:"id"`
	TemplateID  string          `json:"templateId,omitempty" yaml:"template_id,omitempty"`
	Name        string          `json:"name" yaml:"name"`
	Amount      decimal.Decimal `json:"amount" yaml:"amount"`
	Kind        Kind            `json:"kind" yaml:"kind"`
	Recurrence  Recurrence      `json:"recurrence" yaml:"recurrence"`
	Description string          `json:"description" yaml:"description"`
	CreatedAt   time.Time       `json:"createdAt" yaml:"created_at"`
}
