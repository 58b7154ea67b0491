package budget

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/neogenz/pulpe-sub001/internal/editable"
	"github.com/neogenz/pulpe-sub001/internal/model"
)

// LineForm is the editable part of a budget line.
type LineForm struct {
	Name       string           `yaml:"name"`
	Amount     decimal.Decimal  `yaml:"amount"`
	Kind       model.Kind       `yaml:"kind"`
	Recurrence model.Recurrence `yaml:"recurrence"`
}

// LineCreate is the creation payload of a budget line.
type LineCreate struct {
	BudgetID   string           `json:"budgetId,omitempty"`
	Name       string           `json:"name"`
	Amount     decimal.Decimal  `json:"amount"`
	Kind       model.Kind       `json:"kind"`
	Recurrence model.Recurrence `json:"recurrence"`
}

// LineUpdate is the update payload of a budget line. The template link is
// carried through unchanged.
type LineUpdate struct {
	ID                 string           `json:"id"`
	Name               string           `json:"name"`
	Amount             decimal.Decimal  `json:"amount"`
	Kind               model.Kind       `json:"kind"`
	Recurrence         model.Recurrence `json:"recurrence"`
	TemplateLineID     *string          `json:"templateLineId,omitempty"`
	IsManuallyAdjusted bool             `json:"isManuallyAdjusted"`
}

// LineSchema maps budget lines for one budget.
type LineSchema struct {
	BudgetID string
}

var _ editable.Mapper[LineForm, model.Line, LineCreate, LineUpdate] = LineSchema{}

func (LineSchema) FormFromRecord(l model.Line) LineForm {
	return LineForm{Name: l.Name, Amount: l.Amount, Kind: l.Kind, Recurrence: l.Recurrence}
}

func (LineSchema) RecordID(l model.Line) string { return l.ID }

func (LineSchema) Modified(f LineForm, l model.Line) bool {
	return strings.TrimSpace(f.Name) != l.Name ||
		!f.Amount.Equal(l.Amount) ||
		f.Kind != l.Kind ||
		recurrenceOrDefault(f.Recurrence) != recurrenceOrDefault(l.Recurrence)
}

func (LineSchema) Validate(f LineForm) []editable.FieldError {
	var errs []editable.FieldError
	errs = append(errs, validateName(f.Name)...)
	errs = append(errs, validateAmount(f.Amount, false)...)
	errs = append(errs, validateKind(f.Kind)...)
	errs = append(errs, validateRecurrence(f.Recurrence)...)
	return errs
}

func (s LineSchema) CreateRecord(f LineForm) LineCreate {
	return LineCreate{
		BudgetID:   s.BudgetID,
		Name:       strings.TrimSpace(f.Name),
		Amount:     f.Amount,
		Kind:       f.Kind,
		Recurrence: recurrenceOrDefault(f.Recurrence),
	}
}

// UpdateRecord marks a template-linked line as manually adjusted once its
// amount departs from the persisted one.
func (LineSchema) UpdateRecord(f LineForm, l model.Line) LineUpdate {
	adjusted := l.IsManuallyAdjusted || (l.TemplateLineID != nil && !f.Amount.Equal(l.Amount))
	return LineUpdate{
		ID:                 l.ID,
		Name:               strings.TrimSpace(f.Name),
		Amount:             f.Amount,
		Kind:               f.Kind,
		Recurrence:         recurrenceOrDefault(f.Recurrence),
		TemplateLineID:     l.TemplateLineID,
		IsManuallyAdjusted: adjusted,
	}
}

// LinePatch is a partial LineForm; nil fields are left alone.
type LinePatch struct {
	Name       *string           `yaml:"name,omitempty"`
	Amount     *decimal.Decimal  `yaml:"amount,omitempty"`
	Kind       *model.Kind       `yaml:"kind,omitempty"`
	Recurrence *model.Recurrence `yaml:"recurrence,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p LinePatch) Empty() bool {
	return p.Name == nil && p.Amount == nil && p.Kind == nil && p.Recurrence == nil
}

// Patch returns p as a collection patch.
func (p LinePatch) Patch() editable.Patch[LineForm] {
	return func(f *LineForm) {
		if p.Name != nil {
			f.Name = *p.Name
		}
		if p.Amount != nil {
			f.Amount = *p.Amount
		}
		if p.Kind != nil {
			f.Kind = *p.Kind
		}
		if p.Recurrence != nil {
			f.Recurrence = *p.Recurrence
		}
	}
}

// Form returns the patch applied to a zero LineForm, for additions.
func (p LinePatch) Form() LineForm {
	var f LineForm
	p.Patch()(&f)
	return f
}
