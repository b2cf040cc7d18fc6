package metrics

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/fx"

	"github.com/aalemi-dev/dbscope/logger"
	"github.com/aalemi-dev/dbscope/observability"
)

// FXModule provides *Metrics, MetricsCollector and observability.Observer from
// an injected metrics.Config, and runs the metrics servers while the
// application is up.
//
//	app := fx.New(
//	    fx.Supply(metrics.Config{ServiceName: "orders"}),
//	    metrics.FXModule,
//	    dbscope.FXModule,
//	)
//
// A *logger.LoggerClient is used for server lifecycle logs when available.
var FXModule = fx.Module("metrics",
	fx.Provide(
		NewMetrics,
		fx.Annotate(
			func(m *Metrics) MetricsCollector { return m },
			fx.As(new(MetricsCollector)),
		),
		fx.Annotate(
			func(m *Metrics) observability.Observer { return m },
			fx.As(new(observability.Observer)),
		),
	),
	fx.Invoke(RegisterMetricsLifecycle),
)

// MetricsLifecycleParams groups the dependencies of RegisterMetricsLifecycle.
type MetricsLifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Metrics   *Metrics
	Logger    *logger.LoggerClient `optional:"true"`
}

// RegisterMetricsLifecycle starts both servers in the background on start and
// shuts them down on stop.
func RegisterMetricsLifecycle(p MetricsLifecycleParams) {
	servers := []struct {
		name   string
		server *http.Server
	}{
		{"system", p.Metrics.SystemServer},
		{"application", p.Metrics.ApplicationServer},
	}

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			for _, s := range servers {
				if s.server == nil {
					continue
				}
				go func(name string, server *http.Server) {
					logInfo(p.Logger, "starting metrics server", map[string]interface{}{
						"endpoint": name,
						"address":  server.Addr,
					})
					if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						logError(p.Logger, "metrics server failed", err, map[string]interface{}{"endpoint": name})
					}
				}(s.name, s.server)
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			var errs []error
			for _, s := range servers {
				if s.server == nil {
					continue
				}
				if err := s.server.Shutdown(ctx); err != nil {
					logError(p.Logger, "failed to shut down metrics server", err, map[string]interface{}{"endpoint": s.name})
					errs = append(errs, err)
				}
			}
			return errors.Join(errs...)
		},
	})
}

func logInfo(log *logger.LoggerClient, msg string, fields map[string]interface{}) {
	if log != nil {
		log.Info(msg, nil, fields)
	}
}

func logError(log *logger.LoggerClient, msg string, err error, fields map[string]interface{}) {
	if log != nil {
		log.Error(msg, err, fields)
	}
}
