package dbscope

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
)

// fakePool is an in-memory Pool that records every call.
type fakePool struct {
	mu         sync.Mutex
	name       string
	connected  bool
	closed     bool
	connects   int
	closes     int
	connectErr error
	closeErr   error
	queryErr   error
	// block, when set, holds every statement until it is closed or the
	// statement's context is canceled.
	block chan struct{}
	txs   []*fakeTx
}

func newFakePool() *fakePool {
	return &fakePool{name: "fake"}
}

func (p *fakePool) Name() string { return p.name }

func (p *fakePool) Connect(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.connects++
	if p.connectErr != nil {
		return p.connectErr
	}
	p.connected = true
	return nil
}

func (p *fakePool) IsConnected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.connected && !p.closed
}

func (p *fakePool) Transaction() Transaction {
	p.mu.Lock()
	defer p.mu.Unlock()
	tx := &fakeTx{pool: p}
	p.txs = append(p.txs, tx)
	return tx
}

func (p *fakePool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closes++
	p.closed = true
	return p.closeErr
}

func (p *fakePool) statement(ctx context.Context) error {
	p.mu.Lock()
	connected, block, queryErr := p.connected, p.block, p.queryErr
	p.mu.Unlock()

	if !connected {
		return ErrNotConnected
	}
	if block != nil {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-block:
		}
	}
	return queryErr
}

func (p *fakePool) Query(ctx context.Context, query string, args ...any) (*Result, error) {
	if err := p.statement(ctx); err != nil {
		return nil, err
	}
	return &Result{Columns: []string{"value"}, Rows: [][]any{{int64(1)}}}, nil
}

func (p *fakePool) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	if err := p.statement(ctx); err != nil {
		return 0, err
	}
	return 1, nil
}

func (p *fakePool) lastTx() *fakeTx {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.txs[len(p.txs)-1]
}

// fakeTx is an in-memory Transaction that honors the driver signal contract.
type fakeTx struct {
	pool *fakePool

	mu            sync.Mutex
	begun         bool
	inflight      int
	beginCalls    int
	begins        int
	commitCalls   int
	commits       int
	rollbackCalls int
	rollbacks     int
	levels        []sql.IsolationLevel
	beginErr      error
	finalizeErr   error
}

func (t *fakeTx) Pool() Pool { return t.pool }

func (t *fakeTx) Begin(ctx context.Context, level sql.IsolationLevel) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.beginCalls++
	if t.beginErr != nil {
		return t.beginErr
	}
	if t.begun {
		return fmt.Errorf("fake: %w", ErrAlreadyBegun)
	}
	t.begun = true
	t.begins++
	t.levels = append(t.levels, level)
	return nil
}

func (t *fakeTx) finalize(counter *int) error {
	if !t.begun {
		return fmt.Errorf("fake: %w", ErrNotBegun)
	}
	if t.inflight > 0 {
		return ErrRequestInProgress
	}
	if t.finalizeErr != nil {
		return t.finalizeErr
	}
	t.begun = false
	*counter++
	return nil
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.commitCalls++
	return t.finalize(&t.commits)
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rollbackCalls++
	return t.finalize(&t.rollbacks)
}

func (t *fakeTx) statement(ctx context.Context) error {
	t.mu.Lock()
	if !t.begun {
		t.mu.Unlock()
		return errors.New("fake: statement on a transaction that has not begun")
	}
	t.inflight++
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		t.inflight--
		t.mu.Unlock()
	}()
	return t.pool.statement(ctx)
}

func (t *fakeTx) Query(ctx context.Context, query string, args ...any) (*Result, error) {
	if err := t.statement(ctx); err != nil {
		return nil, err
	}
	return &Result{Columns: []string{"value"}, Rows: [][]any{{int64(1)}}}, nil
}

func (t *fakeTx) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	if err := t.statement(ctx); err != nil {
		return 0, err
	}
	return 1, nil
}

func (t *fakeTx) snapshot() fakeTx {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fakeTx{
		begun:         t.begun,
		beginCalls:    t.beginCalls,
		begins:        t.begins,
		commitCalls:   t.commitCalls,
		commits:       t.commits,
		rollbackCalls: t.rollbackCalls,
		rollbacks:     t.rollbacks,
		levels:        append([]sql.IsolationLevel(nil), t.levels...),
	}
}

type fakeConfig struct {
	pool *fakePool
	err  error
}

func (c fakeConfig) NewPool() (Pool, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.pool, nil
}
