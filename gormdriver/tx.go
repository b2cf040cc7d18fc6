package gormdriver

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/aalemi-dev/dbscope/dbscope"
	"gorm.io/gorm"
)

// Tx is a gorm transaction that can be begun, finalized and begun again.
type Tx struct {
	pool *Pool

	mu       sync.Mutex
	db       *gorm.DB
	inflight int
}

var _ dbscope.Transaction = (*Tx)(nil)

// Pool returns the pool the transaction runs on.
func (t *Tx) Pool() dbscope.Pool {
	return t.pool
}

// Begun reports whether the transaction is open.
func (t *Tx) Begun() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.db != nil
}

// Begin opens the transaction at level. The connection is held by the
// transaction until Commit or Rollback, so the begin context is detached from
// ctx's cancellation: database/sql rolls back a transaction whose begin
// context ends.
func (t *Tx) Begin(ctx context.Context, level sql.IsolationLevel) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.db != nil {
		return dbscope.ErrAlreadyBegun
	}
	db := t.pool.client.Load()
	if db == nil {
		return dbscope.ErrNotConnected
	}

	tx := db.WithContext(context.WithoutCancel(ctx)).Begin(&sql.TxOptions{Isolation: level})
	if tx.Error != nil {
		return tx.Error
	}
	t.db = tx
	return nil
}

// Commit commits the transaction.
func (t *Tx) Commit(ctx context.Context) error {
	return t.finalize(func(db *gorm.DB) *gorm.DB { return db.Commit() })
}

// Rollback rolls the transaction back.
func (t *Tx) Rollback(ctx context.Context) error {
	return t.finalize(func(db *gorm.DB) *gorm.DB { return db.Rollback() })
}

func (t *Tx) finalize(fn func(*gorm.DB) *gorm.DB) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.db == nil {
		return dbscope.ErrNotBegun
	}
	if t.inflight > 0 {
		return dbscope.ErrRequestInProgress
	}

	err := fn(t.db).Error
	t.db = nil
	return err
}

// Query runs query inside the transaction and returns all rows.
func (t *Tx) Query(ctx context.Context, query string, args ...any) (*dbscope.Result, error) {
	db, release, err := t.acquire()
	if err != nil {
		return nil, err
	}
	defer release()
	return queryRows(db.WithContext(ctx), query, args)
}

// Exec runs query inside the transaction and returns the rows affected.
func (t *Tx) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	db, release, err := t.acquire()
	if err != nil {
		return 0, err
	}
	defer release()
	return execute(db.WithContext(ctx), query, args)
}

// acquire marks a statement as running so finalize can refuse to race it.
func (t *Tx) acquire() (*gorm.DB, func(), error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.db == nil {
		return nil, nil, fmt.Errorf("statement outside a transaction: %w", dbscope.ErrNotBegun)
	}
	t.inflight++
	return t.db, func() {
		t.mu.Lock()
		t.inflight--
		t.mu.Unlock()
	}, nil
}
