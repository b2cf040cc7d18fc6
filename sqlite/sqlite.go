// Package sqlite is the embedded SQLite dialect for dbscope, backed by the
// pure-Go glebarez/sqlite gorm driver. It needs no server, which makes it the
// dialect of choice for tests and single-node tools.
package sqlite

import (
	"errors"
	"net/url"
	"strconv"
	"time"

	"github.com/aalemi-dev/dbscope/dbscope"
	"github.com/aalemi-dev/dbscope/gormdriver"
	"github.com/glebarez/sqlite"
)

// DefaultName is the pool name used when Config.Name is empty.
const DefaultName = "sqlite"

// DefaultBusyTimeout is how long a connection waits for a lock held by
// another connection before failing with SQLITE_BUSY.
const DefaultBusyTimeout = 5 * time.Second

// Config describes a SQLite database file.
type Config struct {
	// Name identifies the pool in logs, spans and metrics. Defaults to "sqlite".
	Name string `mapstructure:"name"`

	// Path is the database file. It is created on first connect.
	Path string `mapstructure:"path" validate:"required"`

	// BusyTimeout overrides DefaultBusyTimeout.
	BusyTimeout time.Duration `mapstructure:"busy_timeout"`

	// ConnectionDetails configures the connection pool. Zero fields fall back
	// to the gormdriver package defaults.
	ConnectionDetails gormdriver.Options `mapstructure:"connection_details"`
}

var _ dbscope.PoolConfig = Config{}

// DSN returns the file URI with the pragmas every connection is opened with:
// WAL journaling so readers do not block the writer, foreign key enforcement
// and the busy timeout.
func (c Config) DSN() string {
	busy := c.BusyTimeout
	if busy == 0 {
		busy = DefaultBusyTimeout
	}

	q := url.Values{}
	q.Add("_pragma", "busy_timeout("+strconv.FormatInt(busy.Milliseconds(), 10)+")")
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", "foreign_keys(1)")
	return "file:" + c.Path + "?" + q.Encode()
}

// NewPool builds an unconnected SQLite pool.
func (c Config) NewPool() (dbscope.Pool, error) {
	if c.Path == "" {
		return nil, errors.New("sqlite: path is required")
	}

	name := c.Name
	if name == "" {
		name = DefaultName
	}
	return gormdriver.NewPool(name, sqlite.Open(c.DSN()), c.ConnectionDetails), nil
}
