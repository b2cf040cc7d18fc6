package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerClient is a wrapper around Uber's Zap logger.
//
// LoggerClient implements the Logger interface, and with it the logging hook
// of dbscope.Manager and migrate.Migrator.
type LoggerClient struct {
	// Zap is the underlying zap.Logger instance, exposed for Zap-specific
	// functionality. Most logging should go through the wrapper methods.
	Zap *zap.Logger

	// tracingEnabled adds trace and span IDs from the context to entries
	tracingEnabled bool
}

// NewLoggerClient builds a JSON logger from cfg.
//
// The logger is configured with:
//   - ISO8601 timestamps under "timestamp"
//   - Capital letter level encoding (e.g., "INFO", "ERROR") without color codes
//   - "pid" and "service" as default fields
//   - Caller information, skipping cfg.CallerSkip wrapper layers
//
// Example:
//
//	log, err := logger.NewLoggerClient(logger.Config{
//	    Level:       logger.Info,
//	    ServiceName: "orders",
//	})
//	if err != nil {
//	    return err
//	}
//	manager := dbscope.New().WithLogger(log.Named("dbscope"))
func NewLoggerClient(cfg Config) (*LoggerClient, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderCfg.EncodeCaller = zapcore.FullCallerEncoder
	encoderCfg.EncodeDuration = zapcore.MillisDurationEncoder

	output := cfg.Output
	if output == "" {
		output = "stderr"
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(parseLevel(cfg.Level)),
		Encoding:         "json",
		EncoderConfig:    encoderCfg,
		OutputPaths:      []string{output},
		ErrorOutputPaths: []string{"stderr"},
		InitialFields: map[string]interface{}{
			"pid":     os.Getpid(),
			"service": cfg.ServiceName,
		},
	}

	callerSkip := cfg.CallerSkip
	if callerSkip <= 0 {
		callerSkip = 1
	}

	// One more frame for the shared write path in utils.go.
	zl, err := config.Build(zap.AddCaller(), zap.AddCallerSkip(callerSkip+1))
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return &LoggerClient{
		Zap:            zl,
		tracingEnabled: cfg.EnableTracing,
	}, nil
}

// Named returns a child logger whose entries carry name in the "logger"
// field, e.g. "dbscope" or "migrate".
func (l *LoggerClient) Named(name string) *LoggerClient {
	return &LoggerClient{
		Zap:            l.Zap.Named(name),
		tracingEnabled: l.tracingEnabled,
	}
}

// Sync flushes buffered entries.
func (l *LoggerClient) Sync() error {
	return l.Zap.Sync()
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case Debug:
		return zap.DebugLevel
	case Warning:
		return zap.WarnLevel
	case Error:
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}
