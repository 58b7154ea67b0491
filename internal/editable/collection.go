// Package editable holds the client-side working copy of a server-owned
// collection and derives the bulk operations that bring the server in sync.
package editable

import (
	"sync"

	"github.com/neogenz/pulpe-sub001/internal/id"
)

// Schema describes how a form type F relates to its persisted record type R.
type Schema[F, R any] interface {
	// FormFromRecord derives editable form data from a persisted record.
	FormFromRecord(r R) F
	// RecordID returns the server identifier of a record.
	RecordID(r R) string
	// Modified reports whether any tracked field of form differs from original.
	Modified(form F, original R) bool
	// Validate returns the invalid fields of form, if any.
	Validate(form F) []FieldError
}

// Patch mutates form data in place. Callers pass only the fields they change.
type Patch[F any] func(*F)

// Entry is one row of the working copy.
//
// IsNew is true exactly when Original is nil. An entry that is both new and
// deleted never exists: new rows are dropped outright on removal.
type Entry[F, R any] struct {
	ID        id.ID
	FormData  F
	IsNew     bool
	IsDeleted bool
	Original  *R

	// revision is bumped on every Update so a reconcile can tell whether the
	// row was edited after its batch was computed.
	revision uint64
}

func (e *Entry[F, R]) clone() Entry[F, R] {
	c := *e
	if e.Original != nil {
		o := *e.Original
		c.Original = &o
	}
	return c
}

// Collection is the working copy of a server collection. All methods are
// safe for concurrent use.
type Collection[F, R any] struct {
	mu      sync.RWMutex
	schema  Schema[F, R]
	ids     *id.Allocator
	entries []*Entry[F, R]

	// generation is bumped by Initialize; plans from an older generation
	// are not reconciled.
	generation uint64
}

// New creates an empty Collection.
func New[F, R any](schema Schema[F, R]) *Collection[F, R] {
	return &Collection[F, R]{schema: schema, ids: id.NewAllocator()}
}

// Schema returns the schema the collection was created with.
func (c *Collection[F, R]) Schema() Schema[F, R] {
	return c.schema
}

// Initialize replaces the working copy. Each seed form is paired with the
// original at the same position; seeds beyond len(originals) become new rows
// and originals beyond len(seed) are left out.
func (c *Collection[F, R]) Initialize(originals []R, seed []F) {
	entries := make([]*Entry[F, R], 0, len(seed))
	for i, form := range seed {
		if i >= len(originals) {
			entries = append(entries, &Entry[F, R]{ID: c.ids.Next(), FormData: form, IsNew: true})
			continue
		}
		orig := originals[i]
		entryID := id.FromServer(c.schema.RecordID(orig))
		if entryID.Value() == "" {
			entryID = c.ids.Next()
		}
		entries = append(entries, &Entry[F, R]{ID: entryID, FormData: form, Original: &orig})
	}

	c.mu.Lock()
	c.entries = entries
	c.generation++
	c.mu.Unlock()
}

// Load initializes the working copy from originals, deriving each form from
// its record.
func (c *Collection[F, R]) Load(originals []R) {
	seed := make([]F, len(originals))
	for i, r := range originals {
		seed[i] = c.schema.FormFromRecord(r)
	}
	c.Initialize(originals, seed)
}

// Add appends a new row and returns its id.
func (c *Collection[F, R]) Add(form F) id.ID {
	c.mu.Lock()
	defer c.mu.Unlock()

	entryID := c.ids.Next()
	c.entries = append(c.entries, &Entry[F, R]{ID: entryID, FormData: form, IsNew: true})
	return entryID
}

// Update applies patch to the row's form data. It returns false when the id
// is unknown or the row is deleted. Original is never touched.
func (c *Collection[F, R]) Update(entryID id.ID, patch Patch[F]) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.find(entryID)
	if e == nil || e.IsDeleted {
		return false
	}
	if patch != nil {
		patch(&e.FormData)
	}
	e.revision++
	return true
}

// Remove drops a new row outright or flags a persisted row as deleted.
// It returns false when the id is unknown, the row is already deleted, or
// the row is the last active one.
func (c *Collection[F, R]) Remove(entryID id.ID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.index(entryID)
	if idx < 0 {
		return false
	}
	e := c.entries[idx]
	if e.IsDeleted || c.activeCount() <= 1 {
		return false
	}
	if e.IsNew {
		c.entries = append(c.entries[:idx], c.entries[idx+1:]...)
		return true
	}
	e.IsDeleted = true
	return true
}

// Get returns a copy of the row with the given id.
func (c *Collection[F, R]) Get(entryID id.ID) (Entry[F, R], bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e := c.find(entryID)
	if e == nil {
		return Entry[F, R]{}, false
	}
	return e.clone(), true
}

// Entries returns copies of every row, deleted ones included, in order.
func (c *Collection[F, R]) Entries() []Entry[F, R] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Entry[F, R], 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e.clone())
	}
	return out
}

// ActiveEntries returns copies of the non-deleted rows in working-copy order.
func (c *Collection[F, R]) ActiveEntries() []Entry[F, R] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Entry[F, R], 0, len(c.entries))
	for _, e := range c.entries {
		if !e.IsDeleted {
			out = append(out, e.clone())
		}
	}
	return out
}

// ActiveCount returns the number of non-deleted rows.
func (c *Collection[F, R]) ActiveCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.activeCount()
}

// HasUnsavedChanges reports whether a save would send anything.
func (c *Collection[F, R]) HasUnsavedChanges() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, e := range c.entries {
		if c.dirty(e) {
			return true
		}
	}
	return false
}

// IsValid reports whether every active row passes validation.
func (c *Collection[F, R]) IsValid() bool {
	return len(c.Validate()) == 0
}

// Validate returns one error per invalid field of each active row.
func (c *Collection[F, R]) Validate() []ValidationError {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var errs []ValidationError
	for _, e := range c.entries {
		if e.IsDeleted {
			continue
		}
		for _, fe := range c.schema.Validate(e.FormData) {
			errs = append(errs, ValidationError{EntryID: e.ID, Field: fe.Field, Description: fe.Description})
		}
	}
	return errs
}

func (c *Collection[F, R]) dirty(e *Entry[F, R]) bool {
	switch {
	case e.IsNew:
		return !e.IsDeleted
	case e.IsDeleted:
		return true
	default:
		return c.schema.Modified(e.FormData, *e.Original)
	}
}

func (c *Collection[F, R]) activeCount() int {
	n := 0
	for _, e := range c.entries {
		if !e.IsDeleted {
			n++
		}
	}
	return n
}

func (c *Collection[F, R]) index(entryID id.ID) int {
	for i, e := range c.entries {
		if e.ID == entryID {
			return i
		}
	}
	return -1
}

func (c *Collection[F, R]) find(entryID id.ID) *Entry[F, R] {
	if i := c.index(entryID); i >= 0 {
		return c.entries[i]
	}
	return nil
}
