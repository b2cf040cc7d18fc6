package logger

// Log levels accepted by Config.Level.
const (
	// Debug logs everything, including dbscope connection and transaction lifecycle events.
	Debug = "debug"

	// Info logs pool and migration lifecycle events, warnings and errors.
	Info = "info"

	// Warning logs warnings and errors.
	Warning = "warning"

	// Error logs errors only.
	Error = "error"
)

// Config defines the configuration structure for the logger.
type Config struct {
	// Level is the minimum level written: "debug", "info", "warning" or
	// "error". Unknown or empty values mean "info".
	Level string `mapstructure:"level" validate:"omitempty,oneof=debug info warning error"`

	// EnableTracing adds "trace_id" and "span_id" from the active
	// OpenTelemetry span to entries logged through the *WithContext methods.
	EnableTracing bool `mapstructure:"enable_tracing"`

	// ServiceName populates the "service" field of every entry.
	ServiceName string `mapstructure:"service_name"`

	// Output is a zap sink such as "stderr", "stdout" or a file path.
	// Defaults to "stderr".
	Output string `mapstructure:"output"`

	// CallerSkip is the number of wrapper layers between the code that
	// logs and this package. If not set or set to 0, defaults to 1.
	CallerSkip int `mapstructure:"caller_skip"`
}
