// Package config loads dbscope application settings from defaults, an
// optional YAML file and DBSCOPE_* environment variables.
//
// Keys are nested with dots in YAML and underscores in the environment:
//
//	database:
//	  driver: postgres
//	  postgres:
//	    connection:
//	      host: db.internal
//
// is equivalent to DBSCOPE_DATABASE_DRIVER=postgres and
// DBSCOPE_DATABASE_POSTGRES_CONNECTION_HOST=db.internal. The environment wins
// over the file, and flags bound to the viper instance win over both.
package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/aalemi-dev/dbscope/dbscope"
	"github.com/aalemi-dev/dbscope/logger"
	"github.com/aalemi-dev/dbscope/mariadb"
	"github.com/aalemi-dev/dbscope/metrics"
	"github.com/aalemi-dev/dbscope/postgres"
	"github.com/aalemi-dev/dbscope/sqlite"
	"github.com/aalemi-dev/dbscope/tracer"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverMariaDB  = "mariadb"
	DriverSQLite   = "sqlite"
)

// ErrUnknownDriver is returned by PoolConfig for a driver other than the
// supported ones.
var ErrUnknownDriver = errors.New("unknown database driver")

// Config is the complete application configuration.
type Config struct {
	Database   Database      `mapstructure:"database"`
	Migrations Migrations    `mapstructure:"migrations"`
	Logger     logger.Config `mapstructure:"logger"`
	Metrics    Metrics       `mapstructure:"metrics"`
	Tracer     tracer.Config `mapstructure:"tracer"`
}

// Database selects a dialect and carries the settings of each. Only the
// selected dialect is validated.
type Database struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=postgres mariadb sqlite"`

	Postgres postgres.Config `mapstructure:"postgres" validate:"-"`
	MariaDB  mariadb.Config  `mapstructure:"mariadb" validate:"-"`
	SQLite   sqlite.Config   `mapstructure:"sqlite" validate:"-"`
}

// Migrations configures the migrate package.
type Migrations struct {
	// Dir holds the migration files.
	Dir string `mapstructure:"dir" validate:"required"`

	// ExecutedBy is recorded in the history table for every applied migration.
	ExecutedBy string `mapstructure:"executed_by"`
}

// Metrics enables the Prometheus endpoints.
type Metrics struct {
	Enabled bool `mapstructure:"enabled"`

	metrics.Config `mapstructure:",squash"`
}

// PoolConfig returns the validated configuration of the selected dialect.
func (d Database) PoolConfig() (dbscope.PoolConfig, error) {
	var cfg dbscope.PoolConfig
	switch d.Driver {
	case DriverPostgres:
		cfg = d.Postgres
	case DriverMariaDB:
		cfg = d.MariaDB
	case DriverSQLite:
		cfg = d.SQLite
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, d.Driver)
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid %s configuration: %w", d.Driver, err)
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the struct tags of c and the selected dialect.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	_, err := c.Database.PoolConfig()
	return err
}
