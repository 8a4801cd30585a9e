// Package tablestorage decides which configured storage backend services a
// table.
//
// A cluster registers one descriptor per backend type (e.g., hdfs, s3) and
// designates one of them as the default. A Strategy maps a table identifier
// (namespace and name) to one of those descriptors, and the Selector is the
// single entry point table-lifecycle code calls so it never branches on
// backend type. Strategy implementations live under the strategy subpackage.
//
// # Lifecycle
//
// Registry, Strategy and Selector are built once at startup and are read-only
// afterwards. Any number of goroutines may call Selector.SelectStorage
// concurrently. Replacing configuration means building a new Registry,
// Strategy and Selector and publishing the new Selector reference.
//
// # Observability
//
// Every successful selection produces a SelectionDecision that is handed to
// the configured DecisionSinks. Sinks run concurrently and a selection waits
// for them at most the emit timeout (see WithEmitTimeout). Sink errors,
// panics and timeouts are logged and dropped; they never turn into selection
// failures.
package tablestorage
