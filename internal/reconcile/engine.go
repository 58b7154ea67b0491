// Package reconcile saves an editable working copy through one bulk call and
// splices the server's answer back into it.
//
// Engine states: idle -> saving -> idle. Only one save may be in flight;
// a second call is rejected with ErrSaveInProgress. Rows may still be added,
// updated or removed while a save is in flight; those edits are kept and go
// out with the next save. A failed or cancelled save leaves the working copy
// exactly as it was.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/neogenz/pulpe-sub001/internal/bulk"
	"github.com/neogenz/pulpe-sub001/internal/editable"
	"github.com/neogenz/pulpe-sub001/internal/logging"
)

// Submitter sends one batch to the server.
type Submitter[C, U, R any] interface {
	Submit(ctx context.Context, batch editable.Batch[C, U]) (bulk.Result[R], error)
}

// SubmitterFunc adapts a function to the Submitter interface.
type SubmitterFunc[C, U, R any] func(ctx context.Context, batch editable.Batch[C, U]) (bulk.Result[R], error)

// Submit calls f(ctx, batch).
func (f SubmitterFunc[C, U, R]) Submit(ctx context.Context, batch editable.Batch[C, U]) (bulk.Result[R], error) {
	return f(ctx, batch)
}

// Result is the outcome of a Save. Failures are reported in Err, never
// panicked or returned separately.
type Result[R any] struct {
	Success      bool
	UpdatedLines []R // created and updated records, as persisted
	DeletedIDs   []string
	Propagation  *bulk.PropagationSummary
	Err          error
}

// Message returns the user-facing text of a failed save.
func (r Result[R]) Message() string {
	if r.Err == nil {
		return ""
	}
	var se *SubmissionError
	if errors.As(r.Err, &se) {
		return se.Message
	}
	return message(r.Err)
}

// Status is a snapshot of the engine and its working copy.
type Status struct {
	Loading           bool
	Error             string
	HasUnsavedChanges bool
	IsValid           bool
}

// Engine orchestrates validate -> diff -> submit -> reconcile for one
// working copy.
type Engine[F, R, C, U any] struct {
	collection *editable.Collection[F, R]
	mapper     editable.Mapper[F, R, C, U]
	submitter  Submitter[C, U, R]
	logger     *logging.Logger
	inflight   *semaphore.Weighted

	mu      sync.RWMutex
	loading bool
	lastErr string
}

// New creates an Engine with an empty working copy. A nil logger discards
// output.
func New[F, R, C, U any](mapper editable.Mapper[F, R, C, U], submitter Submitter[C, U, R], logger *logging.Logger) *Engine[F, R, C, U] {
	if logger == nil {
		logger = logging.NewSilentLogger()
	}
	return &Engine[F, R, C, U]{
		collection: editable.New[F, R](mapper),
		mapper:     mapper,
		submitter:  submitter,
		logger:     logger.WithComponent("reconcile"),
		inflight:   semaphore.NewWeighted(1),
	}
}

// Collection returns the working copy.
func (e *Engine[F, R, C, U]) Collection() *editable.Collection[F, R] {
	return e.collection
}

// Initialize replaces the working copy and clears any stored error.
func (e *Engine[F, R, C, U]) Initialize(originals []R, seed []F) {
	e.collection.Initialize(originals, seed)
	e.ClearError()
}

// Load replaces the working copy with forms derived from originals.
func (e *Engine[F, R, C, U]) Load(originals []R) {
	e.collection.Load(originals)
	e.ClearError()
}

// Loading reports whether a save is in flight.
func (e *Engine[F, R, C, U]) Loading() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.loading
}

// LastError returns the message of the last failed save, if any.
func (e *Engine[F, R, C, U]) LastError() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lastErr
}

// ClearError forgets the last failure.
func (e *Engine[F, R, C, U]) ClearError() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastErr = ""
}

// Status returns a snapshot of the derived state.
func (e *Engine[F, R, C, U]) Status() Status {
	e.mu.RLock()
	loading, lastErr := e.loading, e.lastErr
	e.mu.RUnlock()

	return Status{
		Loading:           loading,
		Error:             lastErr,
		HasUnsavedChanges: e.collection.HasUnsavedChanges(),
		IsValid:           e.collection.IsValid(),
	}
}

// Save sends the working copy's pending changes in one bulk call.
func (e *Engine[F, R, C, U]) Save(ctx context.Context) Result[R] {
	if !e.inflight.TryAcquire(1) {
		e.logger.Warn().Msg("save rejected: another save is in flight")
		return Result[R]{Err: ErrSaveInProgress}
	}
	defer e.inflight.Release(1)

	if !e.collection.HasUnsavedChanges() {
		e.logger.Debug().Msg("save skipped: no unsaved changes")
		return Result[R]{Success: true, UpdatedLines: []R{}, DeletedIDs: []string{}}
	}

	if verrs := e.collection.Validate(); len(verrs) > 0 {
		err := &ValidationError{Errors: verrs}
		e.setState(false, err.Error())
		e.logger.Info().Int("invalid", len(verrs)).Msg("save blocked by validation")
		return Result[R]{Err: err}
	}

	plan := editable.Diff(e.collection, e.mapper)
	if plan.Empty() {
		e.logger.Debug().Msg("save skipped: edits reverted before submit")
		return Result[R]{Success: true, UpdatedLines: []R{}, DeletedIDs: []string{}}
	}

	e.setState(true, "")
	e.logger.Info().
		Int("creates", len(plan.Create)).
		Int("updates", len(plan.Update)).
		Int("deletes", len(plan.Delete)).
		Msg("bulk save submitted")

	res, err := e.submit(ctx, plan.Batch)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			e.setState(false, "")
			e.logger.Info().Msg("save cancelled")
			return Result[R]{Err: fmt.Errorf("%w: %w", ErrSaveCancelled, err)}
		}

		se := &SubmissionError{Message: message(err), Err: err}
		var pe panicError
		if errors.As(err, &pe) {
			se.Message = FallbackMessage
		}
		e.setState(false, se.Message)
		e.logger.Warn().Err(err).Msg("bulk save failed; working copy kept")
		return Result[R]{Err: se}
	}

	unmatched := editable.Reconcile(e.collection, plan, res.Created, res.Updated, res.Deleted)
	if unmatched > 0 {
		e.logger.Warn().Int("unmatched", unmatched).Msg("server returned records with no matching row")
	}
	e.setState(false, "")

	updated := make([]R, 0, len(res.Created)+len(res.Updated))
	updated = append(updated, res.Created...)
	updated = append(updated, res.Updated...)
	deleted := res.Deleted
	if deleted == nil {
		deleted = []string{}
	}

	e.logger.Info().
		Int("persisted", len(updated)).
		Int("deleted", len(deleted)).
		Msg("bulk save reconciled")

	return Result[R]{
		Success:      true,
		UpdatedLines: updated,
		DeletedIDs:   deleted,
		Propagation:  res.Propagation,
	}
}

// submit calls the submitter, turning a panic into an error.
func (e *Engine[F, R, C, U]) submit(ctx context.Context, batch editable.Batch[C, U]) (res bulk.Result[R], err error) {
	defer func() {
		if v := recover(); v != nil {
			err = panicError{value: v}
		}
	}()
	return e.submitter.Submit(ctx, batch)
}

func (e *Engine[F, R, C, U]) setState(loading bool, lastErr string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.loading = loading
	e.lastErr = lastErr
}
