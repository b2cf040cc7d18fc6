package postgres

import (
	"github.com/aalemi-dev/dbscope/dbscope"
	"go.uber.org/fx"
)

// FXModule exposes a postgres.Config from the container as the
// dbscope.PoolConfig that dbscope.FXModule builds its pool from.
//
//	app := fx.New(
//	    dbscope.FXModule,
//	    postgres.FXModule,
//	    fx.Provide(func() postgres.Config { return loadPostgresConfig() }),
//	)
var FXModule = fx.Module("postgres",
	fx.Provide(ProvidePoolConfig),
)

// ProvidePoolConfig returns cfg as a dbscope.PoolConfig.
func ProvidePoolConfig(cfg Config) dbscope.PoolConfig {
	return cfg
}
