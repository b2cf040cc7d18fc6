package dbscope

import (
	"context"
	"database/sql"
)

// Executor runs statements. Cancellation of an in-flight statement is
// requested by canceling ctx.
type Executor interface {
	// Query runs a statement that returns rows and buffers all of them.
	Query(ctx context.Context, query string, args ...any) (*Result, error)

	// Exec runs a statement that returns no rows and reports rows affected.
	Exec(ctx context.Context, query string, args ...any) (int64, error)
}

// Pool is a connection pool as seen by dbscope. A freshly constructed pool is
// not connected; Connect must be safe to call concurrently and repeatedly.
type Pool interface {
	Executor

	// Connect establishes the pool, or reuses it if it is already connected.
	Connect(ctx context.Context) error

	// IsConnected reports whether Connect has succeeded and Close has not run.
	IsConnected() bool

	// Transaction constructs a transaction bound to this pool. It does not
	// touch the network; the transaction starts on Begin.
	Transaction() Transaction

	// Close releases every connection held by the pool.
	Close() error
}

// Transaction is a unit of work owned by a Pool.
//
// Begin on an already begun transaction must fail with an error matching
// ErrAlreadyBegun. Commit and Rollback on a transaction that is not begun must
// fail with an error matching ErrNotBegun, and with ErrRequestInProgress while
// a statement on the transaction is still running.
type Transaction interface {
	Executor

	// Pool returns the pool the transaction was constructed from.
	Pool() Pool

	// Begin starts the transaction with the given isolation level.
	// sql.LevelDefault selects the driver default.
	Begin(ctx context.Context, level sql.IsolationLevel) error

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// PoolConfig builds unconnected pools. Dialect configurations such as
// postgres.Config implement it.
type PoolConfig interface {
	NewPool() (Pool, error)
}

// Named is implemented by pools that carry a name. The name is used as the
// resource in logs, spans and observed operations.
type Named interface {
	Name() string
}

// Result is a fully buffered result set.
type Result struct {
	Columns []string
	Rows    [][]any
}

// Len returns the number of rows.
func (r *Result) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}

// Value returns the value of column in row i, or nil when either is out of range.
func (r *Result) Value(i int, column string) any {
	if r == nil || i < 0 || i >= len(r.Rows) {
		return nil
	}
	for c, name := range r.Columns {
		if name == column && c < len(r.Rows[i]) {
			return r.Rows[i][c]
		}
	}
	return nil
}
