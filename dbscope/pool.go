package dbscope

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// poolDescriptor is the state WithPool attaches to a context.
type poolDescriptor struct {
	m        *Manager
	name     string
	pool     Pool
	requests *requestSet

	mu     sync.Mutex
	closed bool
}

func (d *poolDescriptor) manager() *Manager { return d.m }
func (d *poolDescriptor) resource() string  { return d.name }
func (d *poolDescriptor) forget(r *Request) { d.requests.remove(r) }

func (d *poolDescriptor) prepare(ctx context.Context) (Executor, error) {
	if err := d.ensureConnected(ctx); err != nil {
		return nil, err
	}
	return d.pool, nil
}

// ensureConnected connects the pool unless it already is. Concurrent callers
// may all call Connect; the driver reuses the established pool.
func (d *poolDescriptor) ensureConnected(ctx context.Context) error {
	if d.pool.IsConnected() {
		return nil
	}

	start := time.Now()
	ctx, span := d.m.startSpan(ctx, "connect", d.name)
	err := d.pool.Connect(ctx)
	endSpan(span, err)
	d.m.observe("connect", d.name, "", time.Since(start), err, 0)

	if err != nil {
		d.m.logError(ctx, "failed to connect pool", err, map[string]interface{}{"pool": d.name})
		return err
	}
	d.m.logDebug(ctx, "pool connected", map[string]interface{}{"pool": d.name})
	return nil
}

// WithPool attaches a new, unconnected pool built from cfg to ctx using the
// default Manager.
func WithPool(ctx context.Context, cfg PoolConfig) (context.Context, error) {
	return defaultManager.WithPool(ctx, cfg)
}

// WithPool returns a context carrying a new pool built from cfg and an empty
// set of tracked requests. The pool is not connected until the first request
// executes. It fails with ErrPoolAlreadySet when ctx already carries a pool.
func (m *Manager) WithPool(ctx context.Context, cfg PoolConfig) (context.Context, error) {
	if _, err := poolFrom(ctx); err == nil {
		return nil, ErrPoolAlreadySet
	}

	pool, err := cfg.NewPool()
	if err != nil {
		return nil, fmt.Errorf("failed to construct pool: %w", err)
	}

	name := "default"
	if n, ok := pool.(Named); ok && n.Name() != "" {
		name = n.Name()
	}

	return context.WithValue(ctx, poolKey{}, &poolDescriptor{
		m:        m,
		name:     name,
		pool:     pool,
		requests: newRequestSet(),
	}), nil
}

// GetRequest creates a request bound to the pool on ctx and tracks it for
// ClosePool. It does not connect; the first execution does.
func GetRequest(ctx context.Context) (*Request, error) {
	d, err := poolFrom(ctx)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, ErrPoolClosed
	}

	r := newRequest(d)
	d.requests.add(r)
	return r, nil
}

// ClosePool cancels every request created from the pool on ctx, waits for
// their in-flight statements to return, and closes the pool. The close error
// from the driver is returned unchanged.
func ClosePool(ctx context.Context) error {
	d, err := poolFrom(ctx)
	if err != nil {
		return err
	}

	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	start := time.Now()
	ctx, span := d.m.startSpan(ctx, "close", d.name)
	canceled := d.requests.cancelAll()
	err = d.pool.Close()
	endSpan(span, err)
	d.m.observe("close", d.name, "", time.Since(start), err, int64(canceled))

	if err != nil {
		d.m.logError(ctx, "failed to close pool", err, map[string]interface{}{"pool": d.name})
		return err
	}
	d.m.logInfo(ctx, "pool closed", map[string]interface{}{
		"pool":              d.name,
		"requests_canceled": canceled,
	})
	return nil
}

// PoolFrom returns the pool attached to ctx.
func PoolFrom(ctx context.Context) (Pool, error) {
	d, err := poolFrom(ctx)
	if err != nil {
		return nil, err
	}
	return d.pool, nil
}
