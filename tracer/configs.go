package tracer

// Config defines the configuration for the OpenTelemetry tracer.
type Config struct {
	// ServiceName is reported as the service.name resource attribute.
	ServiceName string `mapstructure:"service_name"`

	// AppEnv sets the "deployment.environment" and "environment" resource
	// attributes, e.g. "development" or "production".
	AppEnv string `mapstructure:"app_env"`

	// EnableExport sends spans to an OTLP HTTP collector. When false, spans
	// are still created and propagated but never leave the process.
	EnableExport bool `mapstructure:"enable_export"`

	// Endpoint is the collector host:port. Empty uses the OTLP defaults and
	// environment variables.
	Endpoint string `mapstructure:"endpoint"`

	// Insecure disables TLS towards the collector.
	Insecure bool `mapstructure:"insecure"`

	// SampleRatio is the fraction of new traces that are sampled, in [0, 1].
	// 0 means every trace is sampled. Spans with a sampled parent are always
	// sampled.
	SampleRatio float64 `mapstructure:"sample_ratio" validate:"gte=0,lte=1"`
}
