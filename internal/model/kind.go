package model

import "github.com/shopspring/decimal"

// Kind classifies a line or transaction.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
	KindSaving  Kind = "saving"
)

// KindOrder is the display order of kind groups.
var KindOrder = []Kind{KindIncome, KindSaving, KindExpense}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindIncome, KindExpense, KindSaving:
		return true
	}
	return false
}

// Rank returns the position of k in KindOrder; unknown kinds sort last.
func (k Kind) Rank() int {
	for i, o := range KindOrder {
		if o == k {
			return i
		}
	}
	return len(KindOrder)
}

// Sign returns +1 for income and -1 for expense and saving.
func (k Kind) Sign() int {
	if k == KindIncome {
		return 1
	}
	return -1
}

// Signed applies the kind's sign to a non-negative amount.
func (k Kind) Signed(amount decimal.Decimal) decimal.Decimal {
	if k.Sign() < 0 {
		return amount.Neg()
	}
	return amount
}

// Recurrence describes how often a planned line repeats.
type Recurrence string

const (
	RecurrenceFixed  Recurrence = "fixed"
	RecurrenceOneOff Recurrence = "one_off"
)

// Valid reports whether r is a known recurrence.
func (r Recurrence) Valid() bool {
	return r == RecurrenceFixed || r == RecurrenceOneOff
}

// Rank orders fixed before one_off; unknown values sort last.
func (r Recurrence) Rank() int {
	switch r {
	case RecurrenceFixed:
		return 0
	case RecurrenceOneOff:
		return 1
	default:
		return 2
	}
}
