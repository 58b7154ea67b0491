// Package bulk is the boundary to the bulk-operations API: wire types, an
// HTTP endpoint and (in bulk/memory) an in-process backend.
package bulk

import "github.com/neogenz/pulpe-sub001/internal/editable"

// Request is the body of POST /{collection}/{ownerId}/{resource}/bulk-operations.
type Request[C, U any] struct {
	editable.Batch[C, U]

	// PropagateToBudgets is only understood by the template-line endpoint.
	PropagateToBudgets *bool `json:"propagateToBudgets,omitempty"`
}

// PropagationSummary reports which budgets a template change was pushed to.
type PropagationSummary struct {
	AffectedBudgetIDs    []string `json:"affectedBudgetIds"`
	AffectedBudgetsCount int      `json:"affectedBudgetsCount"`
}

// Result is what the server actually persisted.
type Result[R any] struct {
	Created     []R                 `json:"created"`
	Updated     []R                 `json:"updated"`
	Deleted     []string            `json:"deleted"`
	Propagation *PropagationSummary `json:"propagation,omitempty"`
}

// Response is the envelope around Result.
type Response[R any] struct {
	Data Result[R] `json:"data"`
}
