package budget

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neogenz/pulpe-sub001/internal/editable"
	"github.com/neogenz/pulpe-sub001/internal/model"
)

const sampleSnapshot = `budget_id: b1
lines:
  - id: A
    name: Rent
    amount: 1200
    kind: expense
    recurrence: fixed
    created_at: 2026-03-01T09:00:00Z
  - id: B
    name: Salary
    amount: "5000.00"
    kind: income
    recurrence: fixed
    created_at: 2026-03-01T09:00:00Z
transactions:
  - id: tx1
    line_id: A
    name: Transfer
    amount: 1200
    kind: expense
    transaction_date: 2026-03-02T00:00:00Z
`

func writeFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadSnapshot(t *testing.T) {
	s, err := LoadSnapshot(writeFile(t, "budget.yaml", sampleSnapshot))
	require.NoError(t, err)

	assert.Equal(t, "b1", s.BudgetID)
	require.Len(t, s.Lines, 2)
	assert.True(t, s.Lines[0].Amount.Equal(d("1200")))
	assert.True(t, s.Lines[1].Amount.Equal(d("5000")))
	assert.Equal(t, model.KindIncome, s.Lines[1].Kind)
	assert.True(t, t1.Equal(s.Lines[0].CreatedAt))
	require.Len(t, s.Transactions, 1)
	assert.True(t, s.Transactions[0].AllocatedTo("A"))
}

func TestLoadSnapshot_NotFound(t *testing.T) {
	_, err := LoadSnapshot(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSnapshot_SaveRoundTrip(t *testing.T) {
	s, err := LoadSnapshot(writeFile(t, "budget.yaml", sampleSnapshot))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, SaveSnapshot(path, s))
	got, err := LoadSnapshot(path)
	require.NoError(t, err)

	require.Len(t, got.Lines, 2)
	assert.Equal(t, s.Lines[0].Name, got.Lines[0].Name)
	assert.True(t, s.Lines[1].Amount.Equal(got.Lines[1].Amount))
	assert.True(t, s.Lines[0].CreatedAt.Equal(got.Lines[0].CreatedAt))
}

func TestSnapshot_MergeLines(t *testing.T) {
	s := &Snapshot{Lines: []model.Line{lineA(), lineB()}}
	a := lineA()
	a.Amount = d("1300")
	gym := model.Line{ID: "C", Name: "Gym", Amount: d("60"), Kind: model.KindExpense}

	s.MergeLines([]model.Line{gym, a}, []string{"B"})
	require.Len(t, s.Lines, 2)
	assert.Equal(t, "A", s.Lines[0].ID)
	assert.True(t, s.Lines[0].Amount.Equal(d("1300")))
	assert.Equal(t, "C", s.Lines[1].ID)
}

func TestSnapshot_MergeTransactions(t *testing.T) {
	s := &Snapshot{Transactions: []model.Transaction{{ID: "tx1", Name: "Transfer"}}}
	s.MergeTransactions([]model.Transaction{{ID: "tx2", Name: "Bakery"}}, nil)
	require.Len(t, s.Transactions, 2)
	assert.Equal(t, "tx2", s.Transactions[1].ID)

	s.MergeTransactions(nil, []string{"tx1"})
	require.Len(t, s.Transactions, 1)
	assert.Equal(t, "Bakery", s.Transactions[0].Name)
}

const sampleScript = `- op: add
  ref: gym
  name: Gym
  amount: 60
  kind: expense
- op: update
  target: A
  amount: 1300
- op: update
  target: gym
  amount: 65
- op: remove
  target: B
`

func editorCollection() *editable.Collection[LineForm, model.Line] {
	c := editable.New[LineForm, model.Line](LineSchema{BudgetID: "b1"})
	c.Load([]model.Line{lineA(), lineB()})
	return c
}

func TestScript_Apply(t *testing.T) {
	script, err := LoadScript(writeFile(t, "edits.yaml", sampleScript))
	require.NoError(t, err)
	require.Len(t, script, 4)
	assert.Equal(t, OpAdd, script[0].Op)

	c := editorCollection()
	require.NoError(t, script.Apply(c))

	plan := editable.Diff[LineForm, model.Line, LineCreate, LineUpdate](c, LineSchema{BudgetID: "b1"})
	require.Len(t, plan.Create, 1)
	assert.Equal(t, "Gym", plan.Create[0].Name)
	assert.True(t, plan.Create[0].Amount.Equal(d("65")))
	require.Len(t, plan.Update, 1)
	assert.Equal(t, "A", plan.Update[0].ID)
	assert.True(t, plan.Update[0].Amount.Equal(d("1300")))
	assert.Equal(t, []string{"B"}, plan.Delete)
}

func TestScript_Errors(t *testing.T) {
	amount := d("1")
	tests := []struct {
		name   string
		script Script
		want   error
	}{
		{"unknown op", Script{{Op: "rename", Target: "A"}}, ErrUnknownOp},
		{"missing target", Script{{Op: OpRemove}}, ErrNoTarget},
		{"unknown row", Script{{Op: OpUpdate, Target: "Z", LinePatch: LinePatch{Amount: &amount}}}, ErrRowMissing},
		{"empty patch", Script{{Op: OpUpdate, Target: "A"}}, ErrEmptyPatch},
		{"duplicate ref", Script{{Op: OpAdd, Ref: "x"}, {Op: OpAdd, Ref: "x"}}, ErrDuplicate},
		{"last row", Script{{Op: OpRemove, Target: "A"}, {Op: OpRemove, Target: "B"}}, ErrLastRow},
		{"removed twice", Script{{Op: OpRemove, Target: "A"}, {Op: OpRemove, Target: "A"}}, ErrRowMissing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.script.Apply(editorCollection())
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestScript_LocalTarget(t *testing.T) {
	c := editorCollection()
	eid := c.Add(LineForm{Name: "Gym", Amount: d("60"), Kind: model.KindExpense})

	err := Script{{Op: OpRemove, Target: eid.String()}}.Apply(c)
	require.NoError(t, err)
	assert.Len(t, c.ActiveEntries(), 2)
	assert.False(t, c.HasUnsavedChanges())
}
