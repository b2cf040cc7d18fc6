package tracer

import (
	"context"
)

// Tracer creates spans and propagates trace context.
//
// This interface is implemented by the concrete *TracerClient type.
type Tracer interface {
	// StartSpan starts a span as a child of the span in ctx, if any. Always
	// End the returned span.
	StartSpan(ctx context.Context, name string) (context.Context, Span)

	// GetCarrier returns the trace context of ctx as W3C headers.
	GetCarrier(ctx context.Context) map[string]string

	// SetCarrierOnContext continues the trace described by carrier.
	SetCarrierOnContext(ctx context.Context, carrier map[string]string) context.Context
}

// Span is one traced operation.
type Span interface {
	// End completes the span.
	End()

	// SetAttributes adds attributes to the span. Values other than string,
	// int, int64, float64 and bool are recorded as their fmt.Sprint form.
	//
	// Example:
	//   span.SetAttributes(map[string]interface{}{
	//     "db.pool": "orders",
	//     "db.statements": 3,
	//   })
	SetAttributes(attrs map[string]interface{})

	// RecordError records err on the span and marks the span as failed.
	RecordError(err error)
}
