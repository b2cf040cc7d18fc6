package dbscope

import (
	"context"

	"github.com/aalemi-dev/dbscope/observability"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
)

// FXModule provides a *Manager wired with the optional Logger, Observer and
// trace.TracerProvider found in the container, and a *PoolContext built from
// the PoolConfig in the container. The pool is closed (requests canceled
// first) when the app stops.
//
//	app := fx.New(
//	    dbscope.FXModule,
//	    fx.Provide(func() dbscope.PoolConfig { return postgres.Config{...} }),
//	)
var FXModule = fx.Module("dbscope",
	fx.Provide(
		NewManagerWithDI,
		NewPoolContext,
	),
	fx.Invoke(RegisterPoolLifecycle),
)

// ManagerParams groups the optional hooks injected into the Manager.
type ManagerParams struct {
	fx.In

	Logger         Logger                 `optional:"true"`
	Observer       observability.Observer `optional:"true"`
	TracerProvider trace.TracerProvider   `optional:"true"`
}

// NewManagerWithDI creates a Manager with whatever hooks the container has.
func NewManagerWithDI(params ManagerParams) *Manager {
	m := New()
	if params.Logger != nil {
		m.WithLogger(params.Logger)
	}
	if params.Observer != nil {
		m.WithObserver(params.Observer)
	}
	if params.TracerProvider != nil {
		m.WithTracerProvider(params.TracerProvider)
	}
	return m
}

// PoolContext is an application-wide base context carrying a pool. Request
// handlers derive their contexts from Context() so every request shares the
// pool, and transactions are attached per request with WithTx.
type PoolContext struct {
	ctx context.Context
}

// Context returns the base context.
func (p *PoolContext) Context() context.Context {
	return p.ctx
}

// PoolContextParams groups the dependencies of NewPoolContext.
type PoolContextParams struct {
	fx.In

	Manager *Manager
	Config  PoolConfig
}

// NewPoolContext attaches a pool built from the injected PoolConfig to a
// background context. Nothing connects until the first request executes.
func NewPoolContext(params PoolContextParams) (*PoolContext, error) {
	ctx, err := params.Manager.WithPool(context.Background(), params.Config)
	if err != nil {
		return nil, err
	}
	return &PoolContext{ctx: ctx}, nil
}

// RegisterPoolLifecycle closes the pool when the application stops.
func RegisterPoolLifecycle(lc fx.Lifecycle, pc *PoolContext) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return ClosePool(pc.Context())
		},
	})
}
