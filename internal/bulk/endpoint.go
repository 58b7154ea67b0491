package bulk

import (
	"context"
	"net/url"
	"sync"

	"github.com/neogenz/pulpe-sub001/internal/editable"
)

// DefaultResource is the sub-collection most editors write to.
const DefaultResource = "lines"

// Endpoint submits batches to one bulk-operations URL.
type Endpoint[C, U, R any] struct {
	client *Client
	path   string

	mu        sync.Mutex
	propagate *bool
}

// NewEndpoint builds the endpoint for
// POST /{collection}/{ownerID}/{resource}/bulk-operations.
// An empty resource means DefaultResource.
func NewEndpoint[C, U, R any](client *Client, collection, ownerID, resource string) *Endpoint[C, U, R] {
	if resource == "" {
		resource = DefaultResource
	}
	return &Endpoint[C, U, R]{
		client: client,
		path:   "/" + url.PathEscape(collection) + "/" + url.PathEscape(ownerID) + "/" + url.PathEscape(resource) + "/bulk-operations",
	}
}

// Path returns the request path relative to the client's base URL.
func (e *Endpoint[C, U, R]) Path() string {
	return e.path
}

// SetPropagation sets the propagateToBudgets flag sent with later batches.
func (e *Endpoint[C, U, R]) SetPropagation(v bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.propagate = &v
}

// Submit sends batch and returns what the server persisted.
func (e *Endpoint[C, U, R]) Submit(ctx context.Context, batch editable.Batch[C, U]) (Result[R], error) {
	e.mu.Lock()
	req := Request[C, U]{Batch: batch, PropagateToBudgets: e.propagate}
	e.mu.Unlock()

	var resp Response[R]
	if err := e.client.post(ctx, e.path, req, &resp); err != nil {
		return Result[R]{}, err
	}
	return resp.Data, nil
}
