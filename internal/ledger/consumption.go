package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/neogenz/pulpe-sub001/internal/model"
)

// Consumption is how much of a planned line actual transactions account for.
type Consumption struct {
	Planned          decimal.Decimal
	Consumed         decimal.Decimal
	TransactionCount int
	// Percentage is round(consumed / planned * 100), or 0 when nothing is
	// planned. It is not clamped: 120 means a 20% overrun.
	Percentage int64
}

// Overrun reports whether more was consumed than planned.
func (c Consumption) Overrun() bool {
	return c.Consumed.GreaterThan(c.Planned)
}

// Remaining is planned minus consumed; negative on overrun.
func (c Consumption) Remaining() decimal.Decimal {
	return c.Planned.Sub(c.Consumed)
}

// Consume aggregates the transactions allocated to line.
func Consume(line model.Line, txs []model.Transaction) Consumption {
	c := Consumption{Planned: line.Amount, Consumed: decimal.Zero}
	for _, tx := range txs {
		if tx.AllocatedTo(line.ID) {
			c.Consumed = c.Consumed.Add(tx.Amount)
			c.TransactionCount++
		}
	}
	c.Percentage = percentage(c.Consumed, c.Planned)
	return c
}

// ConsumptionByLine computes Consume for every line in one pass, keyed by
// line id.
func ConsumptionByLine(lines []model.Line, txs []model.Transaction) map[string]Consumption {
	out := make(map[string]Consumption, len(lines))
	for _, l := range lines {
		out[l.ID] = Consumption{Planned: l.Amount, Consumed: decimal.Zero}
	}
	for _, tx := range txs {
		if !tx.IsAllocated() {
			continue
		}
		c, ok := out[*tx.LineID]
		if !ok {
			continue
		}
		c.Consumed = c.Consumed.Add(tx.Amount)
		c.TransactionCount++
		out[*tx.LineID] = c
	}
	for lid, c := range out {
		c.Percentage = percentage(c.Consumed, c.Planned)
		out[lid] = c
	}
	return out
}

var hundred = decimal.NewFromInt(100)

func percentage(consumed, planned decimal.Decimal) int64 {
	if !planned.IsPositive() {
		return 0
	}
	return consumed.Div(planned).Mul(hundred).Round(0).IntPart()
}
