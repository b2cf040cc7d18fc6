package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CreateCounter creates a counter and registers it on the application registry.
func (m *Metrics) CreateCounter(name, help string, labels []string) Counter {
	vec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: name,
		Help: help,
	}, labels)
	m.registerer.MustRegister(vec)
	return &counterVec{vec: vec}
}

// CreateHistogram creates a histogram and registers it on the application
// registry.
//
// Example:
//
//	hist := m.CreateHistogram(
//	    "checkout_duration_seconds",
//	    "Checkout duration in seconds",
//	    []string{"step"},
//	    []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
//	)
//	hist.WithLabelValues("payment").Observe(0.25)
func (m *Metrics) CreateHistogram(name, help string, labels []string, buckets []float64) Histogram {
	if buckets == nil {
		buckets = prometheus.DefBuckets
	}
	vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    name,
		Help:    help,
		Buckets: buckets,
	}, labels)
	m.registerer.MustRegister(vec)
	return &histogramVec{vec: vec}
}
