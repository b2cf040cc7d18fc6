package dbscope

import (
	"context"
	"database/sql"
	"sync"
	"sync/atomic"
	"time"
)

// txDescriptor is the state WithTx attaches to a context.
//
// The transaction moves from not-started to started on the first successful
// (or benignly racing) Begin, and to finalized on Commit or Rollback.
type txDescriptor struct {
	pool     *poolDescriptor
	tx       Transaction
	level    sql.IsolationLevel
	requests *requestSet
	begun    atomic.Bool

	mu        sync.Mutex
	finalized bool
}

func (d *txDescriptor) manager() *Manager { return d.pool.m }
func (d *txDescriptor) resource() string  { return d.pool.name }
func (d *txDescriptor) forget(r *Request) { d.requests.remove(r) }

func (d *txDescriptor) prepare(ctx context.Context) (Executor, error) {
	if err := d.pool.ensureConnected(ctx); err != nil {
		return nil, err
	}
	if err := d.ensureBegun(ctx); err != nil {
		return nil, err
	}
	return d.tx, nil
}

// ensureBegun begins the transaction unless this descriptor already saw it
// begin. A concurrent caller that loses the race gets a benign begin signal
// from the driver, which counts as success.
func (d *txDescriptor) ensureBegun(ctx context.Context) error {
	if d.begun.Load() {
		return nil
	}

	m := d.manager()
	level := isolationName(d.level)
	start := time.Now()
	ctx, span := m.startSpan(ctx, "begin", d.pool.name)
	span.SetAttributes(isolationAttr(level))

	err := d.tx.Begin(ctx, d.level)
	if IsBenignBegin(err) {
		m.logDebug(ctx, "transaction already begun by a concurrent request", map[string]interface{}{
			"pool": d.pool.name,
		})
		err = nil
	}

	endSpan(span, err)
	m.observe("begin", d.pool.name, level, time.Since(start), err, 0)
	if err != nil {
		m.logError(ctx, "failed to begin transaction", err, map[string]interface{}{
			"pool":      d.pool.name,
			"isolation": level,
		})
		return err
	}

	d.begun.Store(true)
	return nil
}

// WithTx returns a context carrying a new transaction on the pool found on
// ctx. The transaction is not started until a request needs it. level
// sql.LevelDefault selects the driver default. Several transactions may be
// derived from one pool.
func WithTx(ctx context.Context, level sql.IsolationLevel) (context.Context, error) {
	p, err := poolFrom(ctx)
	if err != nil {
		return nil, err
	}

	return context.WithValue(ctx, txKey{}, &txDescriptor{
		pool:     p,
		tx:       p.pool.Transaction(),
		level:    level,
		requests: newRequestSet(),
	}), nil
}

// HasTx reports whether a transaction is attached to ctx. A transaction is
// visible from the context WithTx returned and from contexts derived from it,
// never from its ancestors.
func HasTx(ctx context.Context) bool {
	_, err := txFrom(ctx)
	return err == nil
}

// GetTxRequest makes sure the transaction on ctx has begun, connecting its
// pool first if needed, and returns a tracked request bound to it.
func GetTxRequest(ctx context.Context) (*Request, error) {
	d, err := txFrom(ctx)
	if err != nil {
		return nil, err
	}
	if d.isFinalized() {
		return nil, ErrTxFinalized
	}

	if _, err := d.prepare(ctx); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.finalized {
		// Commit or Rollback won while we were beginning; the transaction we
		// may have just begun is no longer reachable.
		_ = d.tx.Rollback(context.WithoutCancel(ctx))
		return nil, ErrTxFinalized
	}

	r := newRequest(d)
	d.requests.add(r)
	return r, nil
}

// Commit cancels the requests of the transaction on ctx and commits it.
// Committing a transaction that never began is a successful no-op, and so is
// committing twice. Every other driver error is returned unchanged.
func Commit(ctx context.Context) error {
	return finalize(ctx, "commit", Transaction.Commit)
}

// Rollback cancels the requests of the transaction on ctx and rolls it back.
// Rolling back a transaction that never began is a successful no-op, and so is
// rolling back twice. Every other driver error is returned unchanged.
func Rollback(ctx context.Context) error {
	return finalize(ctx, "rollback", Transaction.Rollback)
}

func finalize(ctx context.Context, operation string, fn func(Transaction, context.Context) error) error {
	d, err := txFrom(ctx)
	if err != nil {
		return err
	}

	d.mu.Lock()
	d.finalized = true
	d.mu.Unlock()

	m := d.manager()
	start := time.Now()
	ctx, span := m.startSpan(ctx, operation, d.pool.name)

	canceled := d.requests.cancelAll()
	d.requests.clear()

	err = fn(d.tx, ctx)
	d.begun.Store(false)
	if IsBenignFinalize(err) {
		m.logDebug(ctx, "transaction was not begun, nothing to "+operation, map[string]interface{}{
			"pool": d.pool.name,
		})
		err = nil
	}

	endSpan(span, err)
	m.observe(operation, d.pool.name, isolationName(d.level), time.Since(start), err, int64(canceled))
	if err != nil {
		m.logError(ctx, "failed to "+operation+" transaction", err, map[string]interface{}{
			"pool": d.pool.name,
		})
		return err
	}
	return nil
}

func (d *txDescriptor) isFinalized() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.finalized
}
