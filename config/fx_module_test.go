package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/aalemi-dev/dbscope/dbscope"
	"github.com/aalemi-dev/dbscope/logger"
	"github.com/aalemi-dev/dbscope/metrics"
	"github.com/aalemi-dev/dbscope/tracer"
)

func TestFXModule_FullStack(t *testing.T) {
	v := New()
	v.Set("database.sqlite.path", filepath.Join(t.TempDir(), "fx.db"))
	v.Set("logger.level", logger.Error)
	v.Set("metrics.system_metrics_address", "")
	v.Set("metrics.application_metrics_address", "127.0.0.1:0")
	cfg, err := LoadWith(v, "")
	require.NoError(t, err)

	var (
		pc *dbscope.PoolContext
		m  *metrics.Metrics
	)
	app := fxtest.New(t,
		fx.Supply(cfg),
		FXModule,
		logger.FXModule,
		tracer.FXModule,
		metrics.FXModule,
		fx.Provide(func(l *logger.LoggerClient) dbscope.Logger { return l.Named("dbscope") }),
		dbscope.FXModule,
		fx.Populate(&pc, &m),
	)
	app.RequireStart()

	ctx := pc.Context()
	req, err := dbscope.GetRequest(ctx)
	require.NoError(t, err)
	_, err = req.Query(ctx, "SELECT 1")
	require.NoError(t, err)

	app.RequireStop()

	_, err = dbscope.GetRequest(ctx)
	require.ErrorIs(t, err, dbscope.ErrPoolClosed)

	families, err := m.ApplicationRegistry.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, metrics.OperationsTotalName)
}
