package importer

import (
	"strings"
	"time"

	"github.com/neogenz/pulpe-sub001/internal/budget"
	"github.com/neogenz/pulpe-sub001/internal/model"
)

// Forms turns statement rows into transaction forms. Money out becomes an
// expense and money in an income. Zero rows are dropped and names are cut to
// budget.MaxNameLength. A non-nil lineID allocates every form to that line.
func Forms(rows []Row, lineID *string) []budget.TransactionForm {
	forms := make([]budget.TransactionForm, 0, len(rows))
	for _, r := range rows {
		if r.Amount.IsZero() {
			continue
		}
		kind := model.KindIncome
		if r.Amount.IsNegative() {
			kind = model.KindExpense
		}
		forms = append(forms, budget.TransactionForm{
			Name:            truncate(r.Description, budget.MaxNameLength),
			Amount:          r.Amount.Abs(),
			Kind:            kind,
			TransactionDate: r.Date,
			LineID:          lineID,
		})
	}
	return forms
}

// Dedupe drops forms already present in existing. Matching is on day, name
// (case-insensitive), amount and kind. Each existing transaction absorbs at
// most one form, so two identical purchases on one statement both survive a
// first import.
func Dedupe(forms []budget.TransactionForm, existing []model.Transaction) (fresh []budget.TransactionForm, skipped int) {
	seen := make(map[string]int, len(existing))
	for _, t := range existing {
		seen[key(t.TransactionDate, t.Name, t.Amount.StringFixed(2), t.Kind)]++
	}

	for _, f := range forms {
		k := key(f.TransactionDate, f.Name, f.Amount.StringFixed(2), f.Kind)
		if seen[k] > 0 {
			seen[k]--
			skipped++
			continue
		}
		fresh = append(fresh, f)
	}
	return fresh, skipped
}

func key(date time.Time, name, amount string, kind model.Kind) string {
	return date.Format(time.DateOnly) + "|" + strings.ToLower(strings.TrimSpace(name)) + "|" + amount + "|" + string(kind)
}

func truncate(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return strings.TrimSpace(string(r[:n]))
}
