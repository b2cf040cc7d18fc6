package tracer

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
)

// FXModule provides *TracerClient, the Tracer interface and the
// trace.TracerProvider dbscope.FXModule starts its spans from. Pending spans
// are flushed when the application stops.
//
//	app := fx.New(
//	    fx.Supply(tracer.Config{ServiceName: "orders", EnableExport: true}),
//	    tracer.FXModule,
//	    dbscope.FXModule,
//	)
var FXModule = fx.Module("tracer",
	fx.Provide(
		NewClient,
		fx.Annotate(
			func(t *TracerClient) Tracer { return t },
			fx.As(new(Tracer)),
		),
		func(t *TracerClient) trace.TracerProvider { return t.Provider() },
	),
	fx.Invoke(RegisterTracerLifecycle),
)

// RegisterTracerLifecycle shuts the provider down on stop.
func RegisterTracerLifecycle(lc fx.Lifecycle, tracer *TracerClient) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return tracer.Shutdown(ctx)
		},
	})
}
