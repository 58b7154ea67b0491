package budget

import (
	"strings"
	"time"

	"github.com/neogenz/pulpe-sub001/internal/bulk/memory"
	"github.com/neogenz/pulpe-sub001/internal/model"
)

// Codecs for the in-memory backend. They mimic the server: names are trimmed
// and CreatedAt is stamped from now (nil means time.Now).

func LineCodec(now func() time.Time) memory.Codec[LineCreate, LineUpdate, model.Line] {
	now = clock(now)
	return memory.Codec[LineCreate, LineUpdate, model.Line]{
		Create: func(rid string, c LineCreate) model.Line {
			return model.Line{
				ID:         rid,
				BudgetID:   c.BudgetID,
				Name:       strings.TrimSpace(c.Name),
				Amount:     c.Amount,
				Kind:       c.Kind,
				Recurrence: recurrenceOrDefault(c.Recurrence),
				CreatedAt:  now(),
			}
		},
		Apply: func(l model.Line, u LineUpdate) model.Line {
			l.Name = strings.TrimSpace(u.Name)
			l.Amount = u.Amount
			l.Kind = u.Kind
			l.Recurrence = recurrenceOrDefault(u.Recurrence)
			l.TemplateLineID = u.TemplateLineID
			l.IsManuallyAdjusted = u.IsManuallyAdjusted
			return l
		},
		UpdateID: func(u LineUpdate) string { return u.ID },
		RecordID: func(l model.Line) string { return l.ID },
	}
}

func TemplateLineCodec(now func() time.Time) memory.Codec[TemplateLineCreate, TemplateLineUpdate, model.TemplateLine] {
	now = clock(now)
	return memory.Codec[TemplateLineCreate, TemplateLineUpdate, model.TemplateLine]{
		Create: func(rid string, c TemplateLineCreate) model.TemplateLine {
			return model.TemplateLine{
				ID:          rid,
				TemplateID:  c.TemplateID,
				Name:        strings.TrimSpace(c.Name),
				Amount:      c.Amount,
				Kind:        c.Kind,
				Recurrence:  recurrenceOrDefault(c.Recurrence),
				Description: c.Description,
				CreatedAt:   now(),
			}
		},
		Apply: func(l model.TemplateLine, u TemplateLineUpdate) model.TemplateLine {
			l.Name = strings.TrimSpace(u.Name)
			l.Amount = u.Amount
			l.Kind = u.Kind
			l.Recurrence = recurrenceOrDefault(u.Recurrence)
			l.Description = u.Description
			return l
		},
		UpdateID: func(u TemplateLineUpdate) string { return u.ID },
		RecordID: func(l model.TemplateLine) string { return l.ID },
	}
}

func TransactionCodec(now func() time.Time) memory.Codec[TransactionCreate, TransactionUpdate, model.Transaction] {
	now = clock(now)
	return memory.Codec[TransactionCreate, TransactionUpdate, model.Transaction]{
		Create: func(rid string, c TransactionCreate) model.Transaction {
			return model.Transaction{
				ID:              rid,
				BudgetID:        c.BudgetID,
				LineID:          c.LineID,
				Name:            strings.TrimSpace(c.Name),
				Amount:          c.Amount,
				Kind:            c.Kind,
				TransactionDate: c.TransactionDate,
				CreatedAt:       now(),
			}
		},
		Apply: func(t model.Transaction, u TransactionUpdate) model.Transaction {
			t.LineID = u.LineID
			t.Name = strings.TrimSpace(u.Name)
			t.Amount = u.Amount
			t.Kind = u.Kind
			t.TransactionDate = u.TransactionDate
			return t
		},
		UpdateID: func(u TransactionUpdate) string { return u.ID },
		RecordID: func(t model.Transaction) string { return t.ID },
	}
}

func clock(now func() time.Time) func() time.Time {
	if now == nil {
		return time.Now
	}
	return now
}
