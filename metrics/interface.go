package metrics

// MetricsCollector creates application metrics without exposing Prometheus
// types. Collectors are registered on the application registry and carry the
// service label.
//
// This interface is implemented by the concrete *Metrics type.
type MetricsCollector interface {
	// CreateCounter creates and registers a counter.
	//
	// Example:
	//   counter := m.CreateCounter("orders_placed_total", "Orders placed", []string{"region"})
	//   counter.WithLabelValues("eu").Inc()
	CreateCounter(name, help string, labels []string) Counter

	// CreateHistogram creates and registers a histogram. nil buckets means
	// prometheus.DefBuckets.
	CreateHistogram(name, help string, labels []string, buckets []float64) Histogram
}
