package tablestorage

import (
	"context"
)

// Strategy decides which backend services a table.
//
// Implementations must not mutate shared state during a call: the same
// (namespace, name) against the same configuration always yields the same
// descriptor, and calls may run concurrently.
type Strategy interface {
	// SelectStorage returns the descriptor of the backend for the table
	SelectStorage(ctx context.Context, namespace, name string) (Descriptor, error)

	// Name identifies the strategy in logs and decision records
	Name() string
}

// DecisionSink receives one record per successful selection.
// Emit should honor ctx: the selector stops waiting when its deadline passes.
// Returned errors are logged and dropped.
type DecisionSink interface {
	Emit(ctx context.Context, decision SelectionDecision) error
}

// BackendChecker reports whether a backend is reachable. It is used for
// readiness only and never reads or writes table data.
type BackendChecker interface {
	Check(ctx context.Context) error
}

// Locator allocates the storage location of a table on one backend
type Locator interface {
	TableLocation(namespace, name string) (string, error)
}
