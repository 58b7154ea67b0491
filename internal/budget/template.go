package budget

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/neogenz/pulpe-sub001/internal/editable"
	"github.com/neogenz/pulpe-sub001/internal/model"
)

// TemplateLineForm is the editable part of a template line. Recurrence and
// description are not edited here; updates carry them from the original.
type TemplateLineForm struct {
	Name   string          `yaml:"name"`
	Amount decimal.Decimal `yaml:"amount"`
	Kind   model.Kind      `yaml:"kind"`
}

type TemplateLineCreate struct {
	TemplateID  string           `json:"templateId,omitempty"`
	Name        string           `json:"name"`
	Amount      decimal.Decimal  `json:"amount"`
	Kind        model.Kind       `json:"kind"`
	Recurrence  model.Recurrence `json:"recurrence"`
	Description string           `json:"description"`
}

type TemplateLineUpdate struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Amount      decimal.Decimal  `json:"amount"`
	Kind        model.Kind       `json:"kind"`
	Recurrence  model.Recurrence `json:"recurrence"`
	Description string           `json:"description"`
}

// TemplateLineSchema maps the lines of one budget template.
type TemplateLineSchema struct {
	TemplateID string
}

var _ editable.Mapper[TemplateLineForm, model.TemplateLine, TemplateLineCreate, TemplateLineUpdate] = TemplateLineSchema{}

func (TemplateLineSchema) FormFromRecord(l model.TemplateLine) TemplateLineForm {
	return TemplateLineForm{Name: l.Name, Amount: l.Amount, Kind: l.Kind}
}

func (TemplateLineSchema) RecordID(l model.TemplateLine) string { return l.ID }

func (TemplateLineSchema) Modified(f TemplateLineForm, l model.TemplateLine) bool {
	return strings.TrimSpace(f.Name) != l.Name || !f.Amount.Equal(l.Amount) || f.Kind != l.Kind
}

func (TemplateLineSchema) Validate(f TemplateLineForm) []editable.FieldError {
	var errs []editable.FieldError
	errs = append(errs, validateName(f.Name)...)
	errs = append(errs, validateAmount(f.Amount, false)...)
	errs = append(errs, validateKind(f.Kind)...)
	return errs
}

func (s TemplateLineSchema) CreateRecord(f TemplateLineForm) TemplateLineCreate {
	return TemplateLineCreate{
		TemplateID: s.TemplateID,
		Name:       strings.TrimSpace(f.Name),
		Amount:     f.Amount,
		Kind:       f.Kind,
		Recurrence: model.RecurrenceFixed,
	}
}

func (TemplateLineSchema) UpdateRecord(f TemplateLineForm, l model.TemplateLine) TemplateLineUpdate {
	return TemplateLineUpdate{
		ID:          l.ID,
		Name:        strings.TrimSpace(f.Name),
		Amount:      f.Amount,
		Kind:        f.Kind,
		Recurrence:  recurrenceOrDefault(l.Recurrence),
		Description: l.Description,
	}
}
