package gormdriver

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/aalemi-dev/dbscope/dbscope"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Pool is a lazily connected gorm connection pool.
//
// Concurrency: the connected *gorm.DB is kept in an atomic pointer so that
// statements never wait on Connect or Close; mu only serializes those two.
type Pool struct {
	name      string
	dialector gorm.Dialector
	opts      Options

	mu     sync.Mutex
	client atomic.Pointer[gorm.DB]
	closed bool
}

var _ dbscope.Pool = (*Pool)(nil)

// NewPool returns an unconnected pool that opens dialector on Connect.
func NewPool(name string, dialector gorm.Dialector, opts Options) *Pool {
	return &Pool{
		name:      name,
		dialector: dialector,
		opts:      opts.withDefaults(),
	}
}

// Name returns the pool name used in logs, spans and metrics.
func (p *Pool) Name() string {
	return p.name
}

// Options returns the effective pool options.
func (p *Pool) Options() Options {
	return p.opts
}

// Connect opens the gorm handle, applies the pool options and pings the
// database. Connecting a connected pool is a no-op; connecting a closed pool
// fails with dbscope.ErrPoolClosed.
func (p *Pool) Connect(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return dbscope.ErrPoolClosed
	}
	if p.client.Load() != nil {
		return nil
	}

	db, err := gorm.Open(p.dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to open %s database: %w", p.name, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get %s database instance: %w", p.name, err)
	}

	sqlDB.SetMaxOpenConns(p.opts.MaxOpenConns)
	sqlDB.SetMaxIdleConns(p.opts.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(p.opts.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(p.opts.ConnMaxIdleTime)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return fmt.Errorf("failed to ping %s database: %w", p.name, err)
	}

	p.client.Store(db)
	return nil
}

// IsConnected reports whether Connect succeeded and Close has not run.
func (p *Pool) IsConnected() bool {
	return p.client.Load() != nil
}

// DB returns the underlying gorm handle, or nil before Connect.
func (p *Pool) DB() *gorm.DB {
	return p.client.Load()
}

// Transaction returns a new, not yet begun transaction on the pool.
func (p *Pool) Transaction() dbscope.Transaction {
	return &Tx{pool: p}
}

// Close closes the underlying database/sql pool. Closing an unconnected or
// closed pool is a no-op.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	db := p.client.Swap(nil)
	if db == nil {
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get %s database instance: %w", p.name, err)
	}
	return sqlDB.Close()
}

// Query runs query on the pool and returns all rows.
func (p *Pool) Query(ctx context.Context, query string, args ...any) (*dbscope.Result, error) {
	db := p.client.Load()
	if db == nil {
		return nil, dbscope.ErrNotConnected
	}
	return queryRows(db.WithContext(ctx), query, args)
}

// Exec runs query on the pool and returns the number of rows affected.
func (p *Pool) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	db := p.client.Load()
	if db == nil {
		return 0, dbscope.ErrNotConnected
	}
	return execute(db.WithContext(ctx), query, args)
}

func queryRows(db *gorm.DB, query string, args []any) (*dbscope.Result, error) {
	rows, err := db.Raw(query, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRows(rows)
}

func execute(db *gorm.DB, query string, args []any) (int64, error) {
	res := db.Exec(query, args...)
	return res.RowsAffected, res.Error
}

// scanRows reads every row into a Result. Byte slices are returned as
// strings, which is what text columns decode to on MySQL.
func scanRows(rows *sql.Rows) (*dbscope.Result, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	res := &dbscope.Result{Columns: columns, Rows: [][]any{}}
	for rows.Next() {
		values := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		res.Rows = append(res.Rows, values)
	}
	return res, rows.Err()
}
