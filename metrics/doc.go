// Package metrics exposes dbscope operations to Prometheus.
//
// NewMetrics sets up two registries, each served by its own /metrics
// endpoint:
//
//  1. System metrics (default :9090): Go runtime, process and build info
//     collectors.
//  2. Application metrics (default :9091): the dbscope operation metrics plus
//     any collector created through CreateCounter or CreateHistogram.
//
// Every series carries a constant "service" label taken from Config.ServiceName.
//
// *Metrics implements observability.Observer, so it can be attached directly
// to a dbscope.Manager or a migrate.Migrator:
//
//	m := metrics.NewMetrics(metrics.Config{ServiceName: "orders"})
//	manager := dbscope.New().WithObserver(m)
//
// The operation metrics are:
//
//	dbscope_operations_total{component, operation, status}
//	dbscope_operation_duration_seconds{component, operation}
//	dbscope_operation_rows_total{component, operation}
//
// status is "success" or "error". Rows are the Size reported by query and
// exec operations; teardown operations report canceled requests instead and
// are not counted.
//
// # Fx
//
// FXModule provides *Metrics, MetricsCollector and observability.Observer, and
// runs both HTTP servers for the lifetime of the application.
package metrics
