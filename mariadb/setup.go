package mariadb

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/aalemi-dev/dbscope/dbscope"
	"github.com/aalemi-dev/dbscope/gormdriver"
	"github.com/go-sql-driver/mysql"
	gormmysql "gorm.io/driver/mysql"
)

// DefaultName is the pool name used when Config.Name is empty.
const DefaultName = "mariadb"

var _ dbscope.PoolConfig = Config{}

// DSN formats the go-sql-driver connection string,
// username:password@tcp(host:port)/dbname?param=value.
func (c Config) DSN() (string, error) {
	charset := c.Connection.Charset
	if charset == "" {
		charset = "utf8mb4"
	}
	locName := c.Connection.Loc
	if locName == "" {
		locName = "Local"
	}
	loc, err := time.LoadLocation(locName)
	if err != nil {
		return "", fmt.Errorf("mariadb: invalid loc %q: %w", locName, err)
	}

	cfg := mysql.NewConfig()
	cfg.User = c.Connection.User
	cfg.Passwd = c.Connection.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(c.Connection.Host, c.Connection.Port)
	cfg.DBName = c.Connection.DbName
	cfg.Params = map[string]string{"charset": charset}
	cfg.ParseTime = c.Connection.ParseTime
	cfg.Loc = loc
	cfg.TLSConfig = c.Connection.TLS
	cfg.MultiStatements = c.Connection.MultiStatements
	cfg.Timeout = c.Connection.Timeout
	cfg.ReadTimeout = c.Connection.ReadTimeout
	cfg.WriteTimeout = c.Connection.WriteTimeout

	return cfg.FormatDSN(), nil
}

// NewPool builds an unconnected MariaDB/MySQL pool.
func (c Config) NewPool() (dbscope.Pool, error) {
	if c.Connection.Host == "" {
		return nil, errors.New("mariadb: host is required")
	}
	dsn, err := c.DSN()
	if err != nil {
		return nil, err
	}

	name := c.Name
	if name == "" {
		name = DefaultName
	}
	return gormdriver.NewPool(name, gormmysql.Open(dsn), c.ConnectionDetails.options()), nil
}
