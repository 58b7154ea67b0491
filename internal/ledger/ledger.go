// Package ledger projects planned lines and actual transactions into the
// ordered, grouped rows a budget view displays, with a running balance.
package ledger

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/neogenz/pulpe-sub001/internal/model"
)

// RowKind tells header, line and transaction rows apart.
type RowKind string

const (
	RowHeader      RowKind = "header"
	RowLine        RowKind = "line"
	RowTransaction RowKind = "transaction"
)

// Row is one entry of the projection. Line rows carry their allocated
// transactions and consumption; headers carry only Group and Count.
type Row struct {
	Kind  RowKind
	Group model.Kind
	Count int // headers only

	Line        *model.Line
	Allocated   []model.Transaction
	Consumption Consumption

	Transaction *model.Transaction

	// Amount is the unsigned amount counted in the balance: max(planned,
	// consumed) for lines, the raw amount for transactions.
	Amount decimal.Decimal
	// Balance is the running balance including this row. Zero on headers.
	Balance decimal.Decimal
}

// ID returns the id of the line or transaction behind the row.
func (r Row) ID() string {
	switch {
	case r.Line != nil:
		return r.Line.ID
	case r.Transaction != nil:
		return r.Transaction.ID
	}
	return ""
}

// Name returns the display name of the row.
func (r Row) Name() string {
	switch {
	case r.Line != nil:
		return r.Line.Name
	case r.Transaction != nil:
		return r.Transaction.Name
	}
	return string(r.Group)
}

// Builder builds projections. Names are ordered with Lang's collation.
type Builder struct {
	Lang language.Tag
}

// Build projects with French collation.
func Build(lines []model.Line, txs []model.Transaction) []Row {
	return Builder{Lang: language.French}.Build(lines, txs)
}

// Build returns header, line and unallocated-transaction rows. Within each
// kind group (income, saving, expense) lines come before unallocated
// transactions. A transaction allocated to a line that is not in lines is
// shown as unallocated.
func (b Builder) Build(lines []model.Line, txs []model.Transaction) []Row {
	col := collate.New(b.Lang)

	known := make(map[string]bool, len(lines))
	for _, l := range lines {
		known[l.ID] = true
	}
	consumption := ConsumptionByLine(lines, txs)
	nested := make(map[string][]model.Transaction)

	var loose []model.Transaction
	for _, tx := range txs {
		if tx.IsAllocated() && known[*tx.LineID] {
			nested[*tx.LineID] = append(nested[*tx.LineID], tx)
			continue
		}
		loose = append(loose, tx)
	}

	planned := slices.Clone(lines)
	slices.SortStableFunc(planned, func(a, b model.Line) int {
		if c := a.Recurrence.Rank() - b.Recurrence.Rank(); c != 0 {
			return c
		}
		if c := compareTime(a.CreatedAt, b.CreatedAt); c != 0 {
			return c
		}
		if c := a.Kind.Rank() - b.Kind.Rank(); c != 0 {
			return c
		}
		return col.CompareString(a.Name, b.Name)
	})
	slices.SortStableFunc(loose, func(a, b model.Transaction) int {
		if c := compareTime(a.EffectiveDate(), b.EffectiveDate()); c != 0 {
			return c
		}
		if c := a.Kind.Rank() - b.Kind.Rank(); c != 0 {
			return c
		}
		return col.CompareString(a.Name, b.Name)
	})

	rows := make([]Row, 0, len(planned)+len(loose)+len(model.KindOrder))
	balance := decimal.Zero
	for _, group := range groups(planned, loose) {
		var bucket []Row
		for i := range planned {
			l := planned[i]
			if l.Kind != group {
				continue
			}
			c := consumption[l.ID]
			bucket = append(bucket, Row{
				Kind:        RowLine,
				Group:       group,
				Line:        &l,
				Allocated:   nested[l.ID],
				Consumption: c,
				Amount:      decimal.Max(l.Amount, c.Consumed),
			})
		}
		for i := range loose {
			tx := loose[i]
			if tx.Kind != group {
				continue
			}
			bucket = append(bucket, Row{
				Kind:        RowTransaction,
				Group:       group,
				Transaction: &tx,
				Amount:      tx.Amount,
			})
		}
		if len(bucket) == 0 {
			continue
		}

		rows = append(rows, Row{Kind: RowHeader, Group: group, Count: len(bucket)})
		for _, r := range bucket {
			balance = balance.Add(group.Signed(r.Amount))
			r.Balance = balance
			rows = append(rows, r)
		}
	}
	return rows
}

// groups returns KindOrder followed by any unknown kinds in first-seen order,
// so malformed records still show up at the end.
func groups(lines []model.Line, txs []model.Transaction) []model.Kind {
	out := slices.Clone(model.KindOrder)
	add := func(k model.Kind) {
		if !slices.Contains(out, k) {
			out = append(out, k)
		}
	}
	for _, l := range lines {
		add(l.Kind)
	}
	for _, tx := range txs {
		add(tx.Kind)
	}
	return out
}

// compareTime orders by time with zero values last.
func compareTime(a, b time.Time) int {
	switch {
	case a.IsZero() && b.IsZero():
		return 0
	case a.IsZero():
		return 1
	case b.IsZero():
		return -1
	}
	return a.Compare(b)
}

// Totals sums a projection by group.
type Totals struct {
	Income  decimal.Decimal
	Saving  decimal.Decimal
	Expense decimal.Decimal
	Balance decimal.Decimal
}

// Summarize totals the rows' effective amounts. Balance equals the running
// balance of the last row.
func Summarize(rows []Row) Totals {
	t := Totals{Income: decimal.Zero, Saving: decimal.Zero, Expense: decimal.Zero, Balance: decimal.Zero}
	for _, r := range rows {
		if r.Kind == RowHeader {
			continue
		}
		switch r.Group {
		case model.KindIncome:
			t.Income = t.Income.Add(r.Amount)
		case model.KindSaving:
			t.Saving = t.Saving.Add(r.Amount)
		case model.KindExpense:
			t.Expense = t.Expense.Add(r.Amount)
		}
		t.Balance = r.Balance
	}
	return t
}
