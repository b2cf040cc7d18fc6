package metrics

import (
	"github.com/aalemi-dev/dbscope/observability"
)

var _ observability.Observer = (*Metrics)(nil)

// ObserveOperation records one completed operation.
func (m *Metrics) ObserveOperation(op observability.OperationContext) {
	status := "success"
	if op.Error != nil {
		status = "error"
	}

	m.operations.WithLabelValues(op.Component, op.Operation, status).Inc()
	m.durations.WithLabelValues(op.Component, op.Operation).Observe(op.Duration.Seconds())
	if op.Size > 0 && (op.Operation == "query" || op.Operation == "exec") {
		m.rows.WithLabelValues(op.Component, op.Operation).Add(float64(op.Size))
	}
}
