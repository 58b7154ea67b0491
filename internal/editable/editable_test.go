package editable

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neogenz/pulpe-sub001/internal/id"
)

// item/record is a minimal form/record pair used to exercise the collection.
type item struct {
	Name   string
	Amount int
}

type record struct {
	ID     string
	Name   string
	Amount int
	Note   string // not editable, carried through updates
}

type createItem struct {
	Name   string
	Amount int
}

type updateItem struct {
	ID     string
	Name   string
	Amount int
	Note   string
}

type itemSchema struct{}

func (itemSchema) FormFromRecord(r record) item   { return item{Name: r.Name, Amount: r.Amount} }
func (itemSchema) RecordID(r record) string       { return r.ID }
func (itemSchema) Modified(f item, r record) bool { return f.Name != r.Name || f.Amount != r.Amount }

func (itemSchema) Validate(f item) []FieldError {
	var errs []FieldError
	if strings.TrimSpace(f.Name) == "" {
		errs = append(errs, FieldError{Field: "name", Description: "required"})
	}
	if f.Amount < 0 {
		errs = append(errs, FieldError{Field: "amount", Description: "must not be negative"})
	}
	return errs
}

func (itemSchema) CreateRecord(f item) createItem {
	return createItem{Name: strings.TrimSpace(f.Name), Amount: f.Amount}
}

func (itemSchema) UpdateRecord(f item, r record) updateItem {
	return updateItem{ID: r.ID, Name: f.Name, Amount: f.Amount, Note: r.Note}
}

func setAmount(n int) Patch[item] {
	return func(f *item) { f.Amount = n }
}

func setName(s string) Patch[item] {
	return func(f *item) { f.Name = s }
}

func loaded(records ...record) *Collection[item, record] {
	c := New[item, record](itemSchema{})
	c.Load(records)
	return c
}

var (
	rent   = record{ID: "r1", Name: "Rent", Amount: 1200, Note: "monthly"}
	salary = record{ID: "r2", Name: "Salary", Amount: 5000}
)

func TestInitialize_PairsByPosition(t *testing.T) {
	c := New[item, record](itemSchema{})
	c.Initialize([]record{rent}, []item{{Name: "Rent", Amount: 1200}, {Name: "Extra", Amount: 5}})

	entries := c.Entries()
	require.Len(t, entries, 2)

	assert.Equal(t, id.FromServer("r1"), entries[0].ID)
	assert.False(t, entries[0].IsNew)
	require.NotNil(t, entries[0].Original)
	assert.Equal(t, "r1", entries[0].Original.ID)

	assert.True(t, entries[1].IsNew)
	assert.Nil(t, entries[1].Original)
	assert.True(t, entries[1].ID.IsLocal())
}

func TestInitialize_MoreOriginalsThanSeeds(t *testing.T) {
	c := New[item, record](itemSchema{})
	c.Initialize([]record{rent, salary}, []item{{Name: "Rent", Amount: 1200}})

	entries := c.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "r1", entries[0].Original.ID)
	assert.False(t, c.HasUnsavedChanges())
}

func TestInitialize_ReplacesPreviousState(t *testing.T) {
	c := loaded(rent, salary)
	c.Add(item{Name: "Gym", Amount: 50})
	require.True(t, c.HasUnsavedChanges())

	c.Load([]record{rent})
	assert.False(t, c.HasUnsavedChanges())
	assert.Len(t, c.Entries(), 1)
}

func TestInitialize_RecordWithoutIDGetsLocalID(t *testing.T) {
	c := loaded(record{Name: "Orphan", Amount: 1})
	entries := c.Entries()
	require.Len(t, entries, 1)
	assert.True(t, entries[0].ID.IsLocal())
	assert.False(t, entries[0].IsNew)
}

func TestAdd(t *testing.T) {
	c := loaded(rent)
	newID := c.Add(item{Name: "Gym", Amount: 50})

	assert.True(t, newID.IsLocal())
	e, ok := c.Get(newID)
	require.True(t, ok)
	assert.True(t, e.IsNew)
	assert.Equal(t, "Gym", e.FormData.Name)
	assert.True(t, c.HasUnsavedChanges())
	assert.NotEqual(t, newID, c.Add(item{Name: "Gym", Amount: 50}))
}

func TestUpdate(t *testing.T) {
	c := loaded(rent, salary)
	ok := c.Update(id.FromServer("r1"), setAmount(1300))
	require.True(t, ok)

	e, _ := c.Get(id.FromServer("r1"))
	assert.Equal(t, 1300, e.FormData.Amount)
	assert.Equal(t, "Rent", e.FormData.Name, "unpatched fields are kept")
	assert.Equal(t, 1200, e.Original.Amount, "original is never mutated")
	assert.True(t, c.HasUnsavedChanges())
}

func TestUpdate_UnknownOrDeleted(t *testing.T) {
	c := loaded(rent, salary)
	assert.False(t, c.Update(id.FromServer("missing"), setAmount(1)))
	assert.False(t, c.Update(id.NewLocal(99), setAmount(1)))

	require.True(t, c.Remove(id.FromServer("r2")))
	assert.False(t, c.Update(id.FromServer("r2"), setAmount(1)))
}

func TestUpdate_BackToOriginalIsClean(t *testing.T) {
	c := loaded(rent)
	c.Update(id.FromServer("r1"), setAmount(1300))
	require.True(t, c.HasUnsavedChanges())
	c.Update(id.FromServer("r1"), setAmount(1200))
	assert.False(t, c.HasUnsavedChanges())
}

func TestRemove_PersistedIsFlagged(t *testing.T) {
	c := loaded(rent, salary)
	require.True(t, c.Remove(id.FromServer("r1")))

	e, ok := c.Get(id.FromServer("r1"))
	require.True(t, ok)
	assert.True(t, e.IsDeleted)
	assert.Equal(t, 1, c.ActiveCount())
	assert.True(t, c.HasUnsavedChanges())
	assert.False(t, c.Remove(id.FromServer("r1")), "already deleted")
}

func TestRemove_LastActiveRowIsBlocked(t *testing.T) {
	c := loaded(rent)
	assert.False(t, c.Remove(id.FromServer("r1")))
	assert.Equal(t, 1, c.ActiveCount())

	c2 := loaded(rent, salary)
	require.True(t, c2.Remove(id.FromServer("r1")))
	assert.False(t, c2.Remove(id.FromServer("r2")))
	assert.Equal(t, 1, c2.ActiveCount())
}

func TestRemove_Unknown(t *testing.T) {
	c := loaded(rent, salary)
	assert.False(t, c.Remove(id.NewLocal(7)))
}

func TestRemove_NewRowIsTotal(t *testing.T) {
	c := loaded(rent)
	before := c.ActiveEntries()

	newID := c.Add(item{Name: "Gym", Amount: 50})
	require.True(t, c.Remove(newID))

	assert.Equal(t, before, c.ActiveEntries())
	assert.Len(t, c.Entries(), 1, "new rows are dropped, not flagged")
	assert.False(t, c.HasUnsavedChanges())
	_, ok := c.Get(newID)
	assert.False(t, ok)
}

func TestRemove_IdentityIsNotPositional(t *testing.T) {
	c := loaded(rent)
	a := c.Add(item{Name: "A", Amount: 1})
	b := c.Add(item{Name: "B", Amount: 2})

	require.True(t, c.Remove(a))
	require.True(t, c.Update(b, setName("B2")))

	e, ok := c.Get(b)
	require.True(t, ok)
	assert.Equal(t, "B2", e.FormData.Name)
	assert.Equal(t, "Rent", c.ActiveEntries()[0].FormData.Name)
}

func TestActiveEntries_Order(t *testing.T) {
	c := loaded(rent, salary)
	c.Add(item{Name: "Gym", Amount: 50})
	c.Remove(id.FromServer("r1"))

	active := c.ActiveEntries()
	require.Len(t, active, 2)
	assert.Equal(t, "Salary", active[0].FormData.Name)
	assert.Equal(t, "Gym", active[1].FormData.Name)
}

func TestEntriesAreCopies(t *testing.T) {
	c := loaded(rent)
	entries := c.Entries()
	entries[0].FormData.Amount = 1
	entries[0].Original.Amount = 1

	e, _ := c.Get(id.FromServer("r1"))
	assert.Equal(t, 1200, e.FormData.Amount)
	assert.Equal(t, 1200, e.Original.Amount)
}

func TestValidate(t *testing.T) {
	c := loaded(rent, salary)
	assert.True(t, c.IsValid())

	bad := c.Add(item{Name: "  ", Amount: -1})
	errs := c.Validate()
	require.Len(t, errs, 2)
	assert.Equal(t, bad, errs[0].EntryID)
	assert.Equal(t, "name", errs[0].Field)
	assert.Equal(t, "amount", errs[1].Field)
	assert.False(t, c.IsValid())
	assert.Contains(t, JoinValidationErrors(errs), "amount: must not be negative")
}

func TestValidate_IgnoresDeletedRows(t *testing.T) {
	c := loaded(rent, salary)
	c.Update(id.FromServer("r1"), setName(""))
	require.False(t, c.IsValid())

	require.True(t, c.Remove(id.FromServer("r1")))
	assert.True(t, c.IsValid())
}

func TestDiff_Rules(t *testing.T) {
	c := loaded(rent, salary, record{ID: "r3", Name: "Phone", Amount: 40})
	c.Update(id.FromServer("r1"), setAmount(1300))
	c.Remove(id.FromServer("r3"))
	c.Add(item{Name: " Gym ", Amount: 50})

	plan := Diff[item, record, createItem, updateItem](c, itemSchema{})

	assert.Equal(t, []createItem{{Name: "Gym", Amount: 50}}, plan.Create)
	assert.Equal(t, []updateItem{{ID: "r1", Name: "Rent", Amount: 1300, Note: "monthly"}}, plan.Update)
	assert.Equal(t, []string{"r3"}, plan.Delete)
	assert.Equal(t, 3, plan.Size())
	assert.False(t, plan.Empty())
}

func TestDiff_Minimality(t *testing.T) {
	c := loaded(rent, salary)
	c.Update(id.FromServer("r1"), setAmount(999))
	c.Update(id.FromServer("r1"), setAmount(1200))
	gym := c.Add(item{Name: "Gym", Amount: 50})
	c.Remove(gym)

	plan := Diff[item, record, createItem, updateItem](c, itemSchema{})
	assert.True(t, plan.Empty())
	assert.NotNil(t, plan.Create, "empty lists marshal as [] not null")
	assert.NotNil(t, plan.Update)
	assert.NotNil(t, plan.Delete)
}

func TestReconcile_CreatedUpdatedDeleted(t *testing.T) {
	c := loaded(rent, salary, record{ID: "r3", Name: "Phone", Amount: 40})
	c.Update(id.FromServer("r1"), setAmount(1300))
	c.Remove(id.FromServer("r3"))
	gym := c.Add(item{Name: " Gym ", Amount: 50})

	plan := Diff[item, record, createItem, updateItem](c, itemSchema{})
	unmatched := Reconcile(c, plan,
		[]record{{ID: "r4", Name: "Gym", Amount: 50}},
		[]record{{ID: "r1", Name: "Rent", Amount: 1300, Note: "monthly"}},
		[]string{"r3"},
	)

	assert.Zero(t, unmatched)
	assert.False(t, c.HasUnsavedChanges())

	entries := c.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, 1300, entries[0].FormData.Amount)
	assert.Equal(t, 1300, entries[0].Original.Amount)

	created, ok := c.Get(gym)
	require.True(t, ok, "created rows keep their working-copy id")
	assert.False(t, created.IsNew)
	assert.Equal(t, "r4", created.Original.ID)
	assert.Equal(t, "Gym", created.FormData.Name, "server normalisation wins")
}

func TestReconcile_EditDuringFlightIsKept(t *testing.T) {
	c := loaded(rent, salary)
	c.Update(id.FromServer("r1"), setAmount(1300))
	plan := Diff[item, record, createItem, updateItem](c, itemSchema{})

	c.Update(id.FromServer("r1"), setAmount(1400))

	Reconcile(c, plan, nil, []record{{ID: "r1", Name: "Rent", Amount: 1300}}, nil)

	e, _ := c.Get(id.FromServer("r1"))
	assert.Equal(t, 1400, e.FormData.Amount)
	assert.Equal(t, 1300, e.Original.Amount)
	assert.True(t, c.HasUnsavedChanges())

	next := Diff[item, record, createItem, updateItem](c, itemSchema{})
	require.Len(t, next.Update, 1)
	assert.Equal(t, 1400, next.Update[0].Amount)
}

func TestReconcile_NewRowRemovedDuringFlight(t *testing.T) {
	c := loaded(rent)
	gym := c.Add(item{Name: "Gym", Amount: 50})
	plan := Diff[item, record, createItem, updateItem](c, itemSchema{})

	require.True(t, c.Remove(gym))

	Reconcile(c, plan, []record{{ID: "r9", Name: "Gym", Amount: 50}}, nil, nil)

	e, ok := c.Get(gym)
	require.True(t, ok)
	assert.True(t, e.IsDeleted)
	assert.False(t, e.IsNew)
	assert.True(t, c.HasUnsavedChanges())

	next := Diff[item, record, createItem, updateItem](c, itemSchema{})
	assert.Equal(t, []string{"r9"}, next.Delete)
}

func TestReconcile_Unmatched(t *testing.T) {
	c := loaded(rent)
	c.Add(item{Name: "Gym", Amount: 50})
	plan := Diff[item, record, createItem, updateItem](c, itemSchema{})

	unmatched := Reconcile(c, plan,
		[]record{{ID: "r4", Name: "Gym", Amount: 50}, {ID: "r5", Name: "Extra"}},
		[]record{{ID: "zz", Name: "Ghost"}},
		nil,
	)
	assert.Equal(t, 2, unmatched)
	assert.Len(t, c.Entries(), 2)
}

func TestReconcile_StalePlanAfterLoad(t *testing.T) {
	c := loaded(rent)
	c.Add(item{Name: "Gym", Amount: 50})
	plan := Diff[item, record, createItem, updateItem](c, itemSchema{})

	c.Load([]record{rent})
	unmatched := Reconcile(c, plan, []record{{ID: "r4", Name: "Gym", Amount: 50}}, nil, []string{rent.ID})

	assert.Equal(t, 1, unmatched)
	assert.Len(t, c.Entries(), 1)
	assert.False(t, c.HasUnsavedChanges())
}
