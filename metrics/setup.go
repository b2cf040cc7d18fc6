package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Operation metric names.
const (
	OperationsTotalName   = "dbscope_operations_total"
	OperationDurationName = "dbscope_operation_duration_seconds"
	OperationRowsName     = "dbscope_operation_rows_total"
)

// Metrics owns the system and application registries, their HTTP servers and
// the dbscope operation collectors.
type Metrics struct {
	// SystemServer serves SystemRegistry on /metrics. nil when disabled.
	SystemServer *http.Server

	// ApplicationServer serves ApplicationRegistry on /metrics. nil when disabled.
	ApplicationServer *http.Server

	// SystemRegistry holds the Go runtime, process and build info
	// collectors. nil when the system endpoint is disabled.
	SystemRegistry *prometheus.Registry

	// ApplicationRegistry holds the operation metrics and everything created
	// through CreateCounter or CreateHistogram.
	ApplicationRegistry *prometheus.Registry

	registerer prometheus.Registerer

	operations Counter
	durations  Histogram
	rows       Counter
}

// NewMetrics builds the registries and servers described by cfg and registers
// the operation metrics. The servers are not started; FXModule does that, or
// the caller can run ListenAndServe itself:
//
//	m := metrics.NewMetrics(cfg)
//	go m.ApplicationServer.ListenAndServe()
func NewMetrics(cfg Config) *Metrics {
	m := &Metrics{}
	serviceLabel := prometheus.Labels{"service": cfg.ServiceName}

	if systemAddr := address(cfg.SystemMetricsAddress, DefaultSystemMetricsAddress); systemAddr != "" {
		systemRegistry := prometheus.NewRegistry()
		prometheus.WrapRegistererWith(serviceLabel, systemRegistry).MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewBuildInfoCollector(),
		)

		m.SystemRegistry = systemRegistry
		m.SystemServer = newServer(systemAddr, systemRegistry)
	}

	m.ApplicationRegistry = prometheus.NewRegistry()
	m.registerer = prometheus.WrapRegistererWith(serviceLabel, m.ApplicationRegistry)
	if appAddr := address(cfg.ApplicationMetricsAddress, DefaultApplicationMetricsAddress); appAddr != "" {
		m.ApplicationServer = newServer(appAddr, m.ApplicationRegistry)
	}

	m.operations = m.CreateCounter(OperationsTotalName,
		"Number of completed dbscope operations.",
		[]string{"component", "operation", "status"})
	m.durations = m.CreateHistogram(OperationDurationName,
		"Duration of dbscope operations in seconds.",
		[]string{"component", "operation"}, nil)
	m.rows = m.CreateCounter(OperationRowsName,
		"Rows returned or affected by dbscope operations.",
		[]string{"component", "operation"})

	return m
}

func newServer(addr string, registry *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
