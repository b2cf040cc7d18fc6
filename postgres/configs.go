package postgres

import (
	"time"

	"github.com/aalemi-dev/dbscope/gormdriver"
)

// Config represents the complete configuration for a PostgreSQL pool.
// It encapsulates both the basic connection parameters and detailed connection pool settings.
type Config struct {
	// Name identifies the pool in logs, spans and metrics. Defaults to "postgres".
	Name string `mapstructure:"name"`

	// Connection contains the essential parameters needed to establish a database connection
	Connection Connection `mapstructure:"connection"`

	// ConnectionDetails contains configuration for the connection pool behavior
	ConnectionDetails ConnectionDetails `mapstructure:"connection_details"`
}

// Connection holds the basic parameters required to connect to a PostgreSQL database.
// These parameters are used to construct the database connection string.
type Connection struct {
	// Host specifies the database server hostname or IP address
	Host string `mapstructure:"host" validate:"required"`

	// Port specifies the TCP port on which the database server is listening to
	Port string `mapstructure:"port" validate:"required"`

	// User specifies the database username for authentication
	User string `mapstructure:"user" validate:"required"`

	// Password specifies the database user password for authentication
	Password string `mapstructure:"password" json:"-"` //nolint:gosec

	// DbName specifies the name of the database to connect to
	DbName string `mapstructure:"db_name" validate:"required"`

	// SSLMode specifies the SSL mode for the connection (e.g., "disable", "require", "verify-ca", "verify-full").
	// Defaults to "disable".
	SSLMode string `mapstructure:"ssl_mode"`
}

// ConnectionDetails holds configuration settings for the database connection pool.
// Zero fields fall back to the gormdriver package defaults.
type ConnectionDetails struct {
	// MaxOpenConns controls the maximum number of open connections to the database.
	MaxOpenConns int `mapstructure:"max_open_conns"`

	// MaxIdleConns controls the maximum number of connections in the idle connection pool.
	MaxIdleConns int `mapstructure:"max_idle_conns"`

	// ConnMaxLifetime is the maximum amount of time a connection may be reused.
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`

	// ConnMaxIdleTime is the maximum amount of time a connection may sit idle.
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

func (d ConnectionDetails) options() gormdriver.Options {
	return gormdriver.Options{
		MaxOpenConns:    d.MaxOpenConns,
		MaxIdleConns:    d.MaxIdleConns,
		ConnMaxLifetime: d.ConnMaxLifetime,
		ConnMaxIdleTime: d.ConnMaxIdleTime,
	}
}
