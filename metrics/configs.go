package metrics

// Default addresses for metrics servers if none is specified.
const (
	DefaultSystemMetricsAddress      = ":9090"
	DefaultApplicationMetricsAddress = ":9091"
)

// Config defines the configuration for the Prometheus metrics servers.
type Config struct {
	// SystemMetricsAddress is where the Go runtime and process metrics are
	// served. nil means DefaultSystemMetricsAddress; an empty string disables
	// the endpoint.
	SystemMetricsAddress *string `mapstructure:"system_metrics_address"`

	// ApplicationMetricsAddress is where the dbscope operation metrics are
	// served. nil means DefaultApplicationMetricsAddress; an empty string
	// disables the endpoint. The metrics are collected either way.
	ApplicationMetricsAddress *string `mapstructure:"application_metrics_address"`

	// ServiceName populates the constant "service" label of every series.
	ServiceName string `mapstructure:"service_name"`
}

// Ptr returns a pointer to the given string value, for disabling endpoints:
//
//	cfg := metrics.Config{SystemMetricsAddress: metrics.Ptr("")}
func Ptr(s string) *string {
	return &s
}

func address(addr *string, def string) string {
	if addr == nil {
		return def
	}
	return *addr
}
