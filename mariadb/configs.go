package mariadb

import (
	"time"

	"github.com/aalemi-dev/dbscope/gormdriver"
)

// Config represents the complete configuration for a MariaDB/MySQL pool.
// It encapsulates both the basic connection parameters and detailed connection pool settings.
type Config struct {
	// Name identifies the pool in logs, spans and metrics. Defaults to "mariadb".
	Name string `mapstructure:"name"`

	// Connection contains the essential parameters needed to establish a database connection
	Connection Connection `mapstructure:"connection"`

	// ConnectionDetails contains configuration for the connection pool behavior
	ConnectionDetails ConnectionDetails `mapstructure:"connection_details"`
}

// Connection holds the basic parameters required to connect to a MariaDB/MySQL database.
// These parameters are used to construct the database connection DSN.
type Connection struct {
	// Host specifies the database server hostname or IP address
	Host string `mapstructure:"host" validate:"required"`

	// Port specifies the TCP port on which the database server is listening
	Port string `mapstructure:"port" validate:"required"`

	// User specifies the database username for authentication
	User string `mapstructure:"user" validate:"required"`

	// Password specifies the database user password for authentication
	Password string `mapstructure:"password" json:"-"` //nolint:gosec

	// DbName specifies the name of the database to connect to
	DbName string `mapstructure:"db_name" validate:"required"`

	// Charset specifies the character set to use for the connection.
	// Default: "utf8mb4"
	Charset string `mapstructure:"charset"`

	// ParseTime enables parsing of DATE and DATETIME values to time.Time
	ParseTime bool `mapstructure:"parse_time"`

	// Loc specifies the location for parsing timestamps, e.g. "Local" or "UTC".
	// Default: "Local"
	Loc string `mapstructure:"loc"`

	// TLS specifies the TLS/SSL configuration name
	// Common values: "true", "false", "skip-verify", "preferred", or a registered TLS config name
	TLS string `mapstructure:"tls"`

	// MultiStatements allows several statements in one Exec, which
	// migration files commonly need.
	MultiStatements bool `mapstructure:"multi_statements"`

	// Timeout specifies the dial timeout
	Timeout time.Duration `mapstructure:"timeout"`

	// ReadTimeout specifies the I/O read timeout
	ReadTimeout time.Duration `mapstructure:"read_timeout"`

	// WriteTimeout specifies the I/O write timeout
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// ConnectionDetails holds configuration settings for the database connection pool.
// Zero fields fall back to the gormdriver package defaults.
type ConnectionDetails struct {
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

func (d ConnectionDetails) options() gormdriver.Options {
	return gormdriver.Options(d)
}
