package config

import (
	"go.uber.org/fx"

	"github.com/aalemi-dev/dbscope/dbscope"
	"github.com/aalemi-dev/dbscope/logger"
	"github.com/aalemi-dev/dbscope/metrics"
	"github.com/aalemi-dev/dbscope/tracer"
)

// FXModule splits an injected *Config into the configurations the other
// modules consume:
//
//	cfg, err := config.Load(path)
//	...
//	app := fx.New(
//	    fx.Supply(cfg),
//	    config.FXModule,
//	    logger.FXModule,
//	    tracer.FXModule,
//	    metrics.FXModule,
//	    dbscope.FXModule,
//	)
var FXModule = fx.Module("config",
	fx.Provide(
		func(c *Config) logger.Config { return c.Logger },
		func(c *Config) tracer.Config { return c.Tracer },
		func(c *Config) metrics.Config { return c.Metrics.Config },
		func(c *Config) (dbscope.PoolConfig, error) { return c.Database.PoolConfig() },
	),
)
