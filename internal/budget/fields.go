// Package budget binds the generic editing engine to pulpe's records: budget
// lines, template lines and transactions.
package budget

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/neogenz/pulpe-sub001/internal/editable"
	"github.com/neogenz/pulpe-sub001/internal/model"
)

// MaxNameLength is the longest name the API accepts.
const MaxNameLength = 100

var hundred = decimal.NewFromInt(100)

func validateName(name string) []editable.FieldError {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return []editable.FieldError{{Field: "name", Description: "is required"}}
	case len([]rune(name)) > MaxNameLength:
		return []editable.FieldError{{Field: "name", Description: fmt.Sprintf("must be at most %d characters", MaxNameLength)}}
	}
	return nil
}

// validateAmount checks sign and precision. strict rejects zero.
func validateAmount(amount decimal.Decimal, strict bool) []editable.FieldError {
	var errs []editable.FieldError
	if amount.IsNegative() || (strict && amount.IsZero()) {
		desc := "must not be negative"
		if strict {
			desc = "must be greater than zero"
		}
		errs = append(errs, editable.FieldError{Field: "amount", Description: desc})
	}
	// At most 2 decimal places.
	if !amount.Mul(hundred).Equal(amount.Mul(hundred).Floor()) {
		errs = append(errs, editable.FieldError{
			Field:       "amount",
			Description: fmt.Sprintf("%s has more than 2 decimal places", amount),
		})
	}
	return errs
}

func validateKind(k model.Kind) []editable.FieldError {
	if !k.Valid() {
		return []editable.FieldError{{Field: "kind", Description: fmt.Sprintf("unknown kind %q", k)}}
	}
	return nil
}

// validateRecurrence accepts the empty value, which defaults to fixed on create.
func validateRecurrence(r model.Recurrence) []editable.FieldError {
	if r != "" && !r.Valid() {
		return []editable.FieldError{{Field: "recurrence", Description: fmt.Sprintf("unknown recurrence %q", r)}}
	}
	return nil
}

func recurrenceOrDefault(r model.Recurrence) model.Recurrence {
	if r == "" {
		return model.RecurrenceFixed
	}
	return r
}

func sameString(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
