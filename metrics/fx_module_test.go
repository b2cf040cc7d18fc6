package metrics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/aalemi-dev/dbscope/logger"
	"github.com/aalemi-dev/dbscope/metrics"
	"github.com/aalemi-dev/dbscope/observability"
)

func testConfig() metrics.Config {
	return metrics.Config{
		ServiceName:               "fx-test",
		SystemMetricsAddress:      metrics.Ptr(""),
		ApplicationMetricsAddress: metrics.Ptr("127.0.0.1:0"),
	}
}

func TestFXModule_Provides(t *testing.T) {
	var (
		m         *metrics.Metrics
		collector metrics.MetricsCollector
		obs       observability.Observer
	)

	app := fxtest.New(t,
		fx.Supply(testConfig()),
		fx.Supply(logger.Config{Level: logger.Error}),
		logger.FXModule,
		metrics.FXModule,
		fx.Populate(&m, &collector, &obs),
	)
	app.RequireStart()
	defer app.RequireStop()

	assert.NotNil(t, m)
	assert.Same(t, m, collector)
	assert.Same(t, m, obs)
}

func TestFXModule_WithoutLogger(t *testing.T) {
	var m *metrics.Metrics

	app := fxtest.New(t,
		fx.Supply(testConfig()),
		metrics.FXModule,
		fx.Populate(&m),
	)
	app.RequireStart()
	app.RequireStop()

	assert.NotNil(t, m)
}
