package postgres

import (
	"errors"
	"fmt"

	"github.com/aalemi-dev/dbscope/dbscope"
	"github.com/aalemi-dev/dbscope/gormdriver"
	"gorm.io/driver/postgres"
)

// DefaultName is the pool name used when Config.Name is empty.
const DefaultName = "postgres"

var _ dbscope.PoolConfig = Config{}

// DSN returns the keyword/value connection string for the configuration.
func (c Config) DSN() string {
	sslMode := c.Connection.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Connection.Host,
		c.Connection.Port,
		c.Connection.User,
		c.Connection.Password,
		c.Connection.DbName,
		sslMode)
}

// NewPool builds an unconnected PostgreSQL pool. It implements
// dbscope.PoolConfig, so a Config can be handed to dbscope.WithPool directly:
//
//	ctx, err := dbscope.WithPool(ctx, postgres.Config{
//	    Connection: postgres.Connection{
//	        Host:   "localhost",
//	        Port:   "5432",
//	        User:   "postgres",
//	        DbName: "app",
//	    },
//	})
func (c Config) NewPool() (dbscope.Pool, error) {
	if c.Connection.Host == "" {
		return nil, errors.New("postgres: host is required")
	}

	name := c.Name
	if name == "" {
		name = DefaultName
	}
	return gormdriver.NewPool(name, postgres.Open(c.DSN()), c.ConnectionDetails.options()), nil
}
