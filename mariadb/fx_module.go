package mariadb

import (
	"github.com/aalemi-dev/dbscope/dbscope"
	"go.uber.org/fx"
)

// FXModule exposes a mariadb.Config from the container as the
// dbscope.PoolConfig that dbscope.FXModule builds its pool from.
var FXModule = fx.Module("mariadb",
	fx.Provide(ProvidePoolConfig),
)

// ProvidePoolConfig returns cfg as a dbscope.PoolConfig.
func ProvidePoolConfig(cfg Config) dbscope.PoolConfig {
	return cfg
}
