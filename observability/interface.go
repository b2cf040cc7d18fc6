package observability

import "time"

// Observer is notified after an operation completes, successfully or not.
// Implementations must be safe for concurrent use.
type Observer interface {
	ObserveOperation(ctx OperationContext)
}

// OperationContext describes one completed operation.
type OperationContext struct {
	// Component identifies the emitting package, e.g. "dbscope" or "migrate".
	Component string

	// Operation is the operation name: "connect", "begin", "commit", "rollback",
	// "query", "exec", "cancel", "close", "migrate_up", ...
	Operation string

	// Resource is the pool name the operation ran against.
	Resource string

	// SubResource carries optional extra context, such as the isolation level
	// of a transaction or a migration id.
	SubResource string

	// Duration is the wall time of the operation.
	Duration time.Duration

	// Error is the error returned to the caller. Signals that were swallowed
	// (a racing begin, finalizing a never-begun transaction) are reported as nil.
	Error error

	// Size is the number of rows returned or affected, or the number of
	// requests canceled during a teardown.
	Size int64

	// Metadata holds any additional operation-specific values.
	Metadata map[string]interface{}
}
