package editable

import "github.com/neogenz/pulpe-sub001/internal/id"

// Mapper extends a Schema with the conversions to the bulk API records.
type Mapper[F, R, C, U any] interface {
	Schema[F, R]
	// CreateRecord maps a new row to the creation payload, filling in the
	// defaults the server requires.
	CreateRecord(form F) C
	// UpdateRecord maps a modified row to the update payload. Fields the
	// form does not edit are carried over from original.
	UpdateRecord(form F, original R) U
}

// Batch is the set of operations sent in one bulk call. A row contributes
// to at most one of the three lists.
type Batch[C, U any] struct {
	Create []C      `json:"create"`
	Update []U      `json:"update"`
	Delete []string `json:"delete"`
}

// Empty reports whether the batch carries no operation.
func (b Batch[C, U]) Empty() bool {
	return len(b.Create) == 0 && len(b.Update) == 0 && len(b.Delete) == 0
}

// Size returns the total number of operations.
func (b Batch[C, U]) Size() int {
	return len(b.Create) + len(b.Update) + len(b.Delete)
}

// ref ties a batch item back to the row it was derived from.
type ref struct {
	entry    id.ID
	revision uint64
	recordID string
}

// Plan is a Batch plus the bookkeeping needed to reconcile its result.
type Plan[C, U any] struct {
	Batch[C, U]

	created []ref // same order as Batch.Create
	updated []ref
	deleted []ref

	generation uint64
}

// Diff computes the minimal batch for the current working copy:
//
//	new, not deleted          -> Create
//	persisted, modified       -> Update
//	persisted, deleted        -> Delete
//	persisted, unmodified     -> nothing
func Diff[F, R, C, U any](c *Collection[F, R], m Mapper[F, R, C, U]) Plan[C, U] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	plan := Plan[C, U]{
		Batch: Batch[C, U]{
			Create: make([]C, 0),
			Update: make([]U, 0),
			Delete: make([]string, 0),
		},
		generation: c.generation,
	}

	for _, e := range c.entries {
		switch {
		case e.IsNew && e.IsDeleted:
			// Unreachable: Remove drops new rows outright.
		case e.IsNew:
			plan.Create = append(plan.Create, m.CreateRecord(e.FormData))
			plan.created = append(plan.created, ref{entry: e.ID, revision: e.revision})
		case e.IsDeleted:
			rid := c.schema.RecordID(*e.Original)
			plan.Delete = append(plan.Delete, rid)
			plan.deleted = append(plan.deleted, ref{entry: e.ID, revision: e.revision, recordID: rid})
		case c.schema.Modified(e.FormData, *e.Original):
			rid := c.schema.RecordID(*e.Original)
			plan.Update = append(plan.Update, m.UpdateRecord(e.FormData, *e.Original))
			plan.updated = append(plan.updated, ref{entry: e.ID, revision: e.revision, recordID: rid})
		}
	}
	return plan
}
