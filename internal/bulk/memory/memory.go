// Package memory provides an in-process bulk-operations backend.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/neogenz/pulpe-sub001/internal/bulk"
	"github.com/neogenz/pulpe-sub001/internal/editable"
)

// ErrNotFound is returned when a batch references an unknown record.
var ErrNotFound = errors.New("record not found")

// Codec tells the backend how to build and patch records.
type Codec[C, U, R any] struct {
	// Create builds the stored record for a creation payload.
	Create func(id string, c C) R
	// Apply returns r with the update payload applied.
	Apply func(r R, u U) R
	// UpdateID returns the target id of an update payload.
	UpdateID func(u U) string
	// RecordID returns the id of a stored record.
	RecordID func(r R) string
}

// Backend stores records in memory and applies batches atomically: an
// unknown update or delete id rejects the whole batch.
type Backend[C, U, R any] struct {
	codec Codec[C, U, R]

	mu       sync.Mutex
	order    []string
	records  map[string]R
	calls    int
	failNext error
}

// New creates a backend holding seed.
func New[C, U, R any](codec Codec[C, U, R], seed []R) *Backend[C, U, R] {
	b := &Backend[C, U, R]{codec: codec, records: make(map[string]R, len(seed))}
	for _, r := range seed {
		rid := codec.RecordID(r)
		b.order = append(b.order, rid)
		b.records[rid] = r
	}
	return b
}

// FailNext makes the next Submit return err without touching state.
func (b *Backend[C, U, R]) FailNext(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failNext = err
}

// Calls returns how many times Submit was invoked.
func (b *Backend[C, U, R]) Calls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls
}

// Records returns the stored records in insertion order.
func (b *Backend[C, U, R]) Records() []R {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]R, 0, len(b.order))
	for _, rid := range b.order {
		out = append(out, b.records[rid])
	}
	return out
}

// Submit applies batch and reports what was persisted.
func (b *Backend[C, U, R]) Submit(ctx context.Context, batch editable.Batch[C, U]) (bulk.Result[R], error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.calls++
	if err := ctx.Err(); err != nil {
		return bulk.Result[R]{}, err
	}
	if err := b.failNext; err != nil {
		b.failNext = nil
		return bulk.Result[R]{}, err
	}

	for _, u := range batch.Update {
		if _, ok := b.records[b.codec.UpdateID(u)]; !ok {
			return bulk.Result[R]{}, fmt.Errorf("update %s: %w", b.codec.UpdateID(u), ErrNotFound)
		}
	}
	for _, rid := range batch.Delete {
		if _, ok := b.records[rid]; !ok {
			return bulk.Result[R]{}, fmt.Errorf("delete %s: %w", rid, ErrNotFound)
		}
	}

	res := bulk.Result[R]{
		Created: make([]R, 0, len(batch.Create)),
		Updated: make([]R, 0, len(batch.Update)),
		Deleted: make([]string, 0, len(batch.Delete)),
	}

	for _, rid := range batch.Delete {
		delete(b.records, rid)
		res.Deleted = append(res.Deleted, rid)
	}
	b.compact()

	for _, u := range batch.Update {
		rid := b.codec.UpdateID(u)
		updated := b.codec.Apply(b.records[rid], u)
		b.records[rid] = updated
		res.Updated = append(res.Updated, updated)
	}

	for _, c := range batch.Create {
		rid := uuid.NewString()
		created := b.codec.Create(rid, c)
		b.order = append(b.order, rid)
		b.records[rid] = created
		res.Created = append(res.Created, created)
	}

	return res, nil
}

func (b *Backend[C, U, R]) compact() {
	kept := b.order[:0]
	for _, rid := range b.order {
		if _, ok := b.records[rid]; ok {
			kept = append(kept, rid)
		}
	}
	b.order = kept
}
