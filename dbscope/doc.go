// Package dbscope manages the lifecycle of database connection pools,
// transactions and individual requests carried on a context.Context.
//
// A pool is attached to a context with WithPool. Requests are created from
// that context with GetRequest, or through a transaction attached with WithTx
// and GetTxRequest. Nothing touches the network until a request executes: the
// first Query or Exec connects the pool, and the first request of a
// transaction begins it. Teardown always cancels the tracked requests first:
// ClosePool cancels the pool's requests and closes the pool, Commit and
// Rollback cancel the transaction's requests and finalize it.
//
// Basic usage
//
//	ctx, err := dbscope.WithPool(ctx, postgres.Config{...})
//	if err != nil {
//	    return err
//	}
//	defer dbscope.ClosePool(ctx)
//
//	req, err := dbscope.GetRequest(ctx)
//	if err != nil {
//	    return err
//	}
//	res, err := req.Query(ctx, "SELECT 1")
//
// Transaction usage
//
//	txCtx, err := dbscope.WithTx(ctx, sql.LevelSerializable)
//	if err != nil {
//	    return err
//	}
//	req, err := dbscope.GetTxRequest(txCtx)
//	if err != nil {
//	    _ = dbscope.Rollback(txCtx)
//	    return err
//	}
//	if _, err := req.Exec(txCtx, "UPDATE accounts SET balance = balance - ? WHERE id = ?", 10, 1); err != nil {
//	    _ = dbscope.Rollback(txCtx)
//	    return err
//	}
//	return dbscope.Commit(txCtx)
//
// # Idempotent teardown
//
// Commit and Rollback succeed on a transaction that never began and when
// called a second time: drivers report those cases with ErrNotBegun, which is
// listed in BenignFinalizeSignals and swallowed. Concurrent requests racing to
// begin the same transaction are arbitrated by the driver; the losers receive
// ErrAlreadyBegun (BenignBeginSignals) and proceed. Every other driver error,
// including ErrRequestInProgress, is returned to the caller unchanged.
//
// # Hooks
//
// A Manager carries an optional Logger, observability.Observer and
// OpenTelemetry TracerProvider. Every scope derived from a pool attached by
// that Manager reports through them. The package-level WithPool uses a Manager
// without hooks (spans still go to the global provider).
package dbscope
