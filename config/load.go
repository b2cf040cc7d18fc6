package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/aalemi-dev/dbscope/logger"
	"github.com/aalemi-dev/dbscope/mariadb"
	"github.com/aalemi-dev/dbscope/metrics"
	"github.com/aalemi-dev/dbscope/postgres"
	"github.com/aalemi-dev/dbscope/sqlite"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "DBSCOPE"

// New returns a viper instance with the defaults registered and environment
// lookup enabled. Callers may bind flags to it before passing it to LoadWith.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the configuration from defaults, the YAML file at path (skipped
// when path is empty) and the environment, then validates it.
func Load(path string) (*Config, error) {
	return LoadWith(New(), path)
}

// LoadWith is Load on a caller-provided viper instance, typically one with
// command line flags bound.
func LoadWith(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults registers every key, so that AutomaticEnv can override keys the
// config file does not mention.
func setDefaults(v *viper.Viper) {
	v.SetDefault("database.driver", DriverSQLite)

	v.SetDefault("database.postgres.name", postgres.DefaultName)
	v.SetDefault("database.postgres.connection.host", "")
	v.SetDefault("database.postgres.connection.port", "5432")
	v.SetDefault("database.postgres.connection.user", "")
	v.SetDefault("database.postgres.connection.password", "")
	v.SetDefault("database.postgres.connection.db_name", "")
	v.SetDefault("database.postgres.connection.ssl_mode", "disable")
	setPoolDefaults(v, "database.postgres.connection_details")

	v.SetDefault("database.mariadb.name", mariadb.DefaultName)
	v.SetDefault("database.mariadb.connection.host", "")
	v.SetDefault("database.mariadb.connection.port", "3306")
	v.SetDefault("database.mariadb.connection.user", "")
	v.SetDefault("database.mariadb.connection.password", "")
	v.SetDefault("database.mariadb.connection.db_name", "")
	v.SetDefault("database.mariadb.connection.charset", "utf8mb4")
	v.SetDefault("database.mariadb.connection.parse_time", true)
	v.SetDefault("database.mariadb.connection.loc", "UTC")
	v.SetDefault("database.mariadb.connection.tls", "")
	v.SetDefault("database.mariadb.connection.multi_statements", true)
	v.SetDefault("database.mariadb.connection.timeout", "0s")
	v.SetDefault("database.mariadb.connection.read_timeout", "0s")
	v.SetDefault("database.mariadb.connection.write_timeout", "0s")
	setPoolDefaults(v, "database.mariadb.connection_details")

	v.SetDefault("database.sqlite.name", sqlite.DefaultName)
	v.SetDefault("database.sqlite.path", "dbscope.db")
	v.SetDefault("database.sqlite.busy_timeout", sqlite.DefaultBusyTimeout)
	setPoolDefaults(v, "database.sqlite.connection_details")

	v.SetDefault("migrations.dir", "migrations")
	v.SetDefault("migrations.executed_by", "dbscope")

	v.SetDefault("logger.level", logger.Info)
	v.SetDefault("logger.enable_tracing", false)
	v.SetDefault("logger.service_name", "dbscope")
	v.SetDefault("logger.output", "stderr")

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.system_metrics_address", metrics.DefaultSystemMetricsAddress)
	v.SetDefault("metrics.application_metrics_address", metrics.DefaultApplicationMetricsAddress)
	v.SetDefault("metrics.service_name", "dbscope")

	v.SetDefault("tracer.service_name", "dbscope")
	v.SetDefault("tracer.app_env", "development")
	v.SetDefault("tracer.enable_export", false)
	v.SetDefault("tracer.endpoint", "")
	v.SetDefault("tracer.insecure", false)
	v.SetDefault("tracer.sample_ratio", 0.0)
}

// setPoolDefaults registers zero pool settings; gormdriver fills in its own
// defaults for them.
func setPoolDefaults(v *viper.Viper, prefix string) {
	v.SetDefault(prefix+".max_open_conns", 0)
	v.SetDefault(prefix+".max_idle_conns", 0)
	v.SetDefault(prefix+".conn_max_lifetime", "0s")
	v.SetDefault(prefix+".conn_max_idle_time", "0s")
}
