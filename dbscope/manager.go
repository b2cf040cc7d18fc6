package dbscope

import (
	"context"
	"database/sql"
	"time"

	"github.com/aalemi-dev/dbscope/observability"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/aalemi-dev/dbscope"

// Logger is the subset of logger.Logger used by dbscope.
type Logger interface {
	DebugWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	WarnWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	ErrorWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}

// Manager attaches pools to contexts and carries the optional hooks (logger,
// observer, tracer provider) that every scope derived from those pools reports
// through. The zero hooks are all no-ops; the package-level WithPool uses a
// Manager without hooks.
//
// The With* builders mutate the receiver and must be called before the
// Manager is shared.
type Manager struct {
	logger         Logger
	observer       observability.Observer
	tracerProvider trace.TracerProvider
}

var defaultManager = New()

// New creates a Manager without hooks.
func New() *Manager {
	return &Manager{}
}

// WithLogger attaches a logger for lifecycle events.
func (m *Manager) WithLogger(logger Logger) *Manager {
	m.logger = logger
	return m
}

// WithObserver attaches an observer notified after every operation.
func (m *Manager) WithObserver(observer observability.Observer) *Manager {
	m.observer = observer
	return m
}

// WithTracerProvider sets the provider spans are started from. Without one the
// global OpenTelemetry provider is used at span start.
func (m *Manager) WithTracerProvider(tp trace.TracerProvider) *Manager {
	m.tracerProvider = tp
	return m
}

func (m *Manager) tracer() trace.Tracer {
	if m.tracerProvider != nil {
		return m.tracerProvider.Tracer(instrumentationName)
	}
	return otel.GetTracerProvider().Tracer(instrumentationName)
}

func (m *Manager) startSpan(ctx context.Context, operation, resource string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("db.pool", resource))
	return m.tracer().Start(ctx, "dbscope."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (m *Manager) observe(operation, resource, subResource string, duration time.Duration, err error, size int64) {
	if m == nil || m.observer == nil {
		return
	}
	m.observer.ObserveOperation(observability.OperationContext{
		Component:   "dbscope",
		Operation:   operation,
		Resource:    resource,
		SubResource: subResource,
		Duration:    duration,
		Error:       err,
		Size:        size,
	})
}

func (m *Manager) logDebug(ctx context.Context, msg string, fields map[string]interface{}) {
	if m.logger != nil {
		m.logger.DebugWithContext(ctx, msg, nil, fields)
	}
}

func (m *Manager) logInfo(ctx context.Context, msg string, fields map[string]interface{}) {
	if m.logger != nil {
		m.logger.InfoWithContext(ctx, msg, nil, fields)
	}
}

func (m *Manager) logError(ctx context.Context, msg string, err error, fields map[string]interface{}) {
	if m.logger != nil {
		m.logger.ErrorWithContext(ctx, msg, err, fields)
	}
}

// isolationName renders a level for logs and spans; LevelDefault is "default".
func isolationName(level sql.IsolationLevel) string {
	if level == sql.LevelDefault {
		return "default"
	}
	return level.String()
}

func isolationAttr(level string) attribute.KeyValue {
	return attribute.String("db.isolation_level", level)
}
