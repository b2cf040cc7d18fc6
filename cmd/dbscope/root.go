package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aalemi-dev/dbscope/config"
	"github.com/aalemi-dev/dbscope/dbscope"
	"github.com/aalemi-dev/dbscope/logger"
	"github.com/aalemi-dev/dbscope/tracer"
)

// app is the state shared by every subcommand of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string
	output  string

	cfg    *config.Config
	log    *logger.LoggerClient
	tracer *tracer.TracerClient
	span   tracer.Span

	// ctx carries the pool for the duration of the command.
	ctx context.Context
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.New()}

	root := &cobra.Command{
		Use:   "dbscope",
		Short: "Run queries, transactions and migrations through scoped pools",
		Long: `dbscope attaches a lazily connected pool to the command, runs the requested
statements as scoped requests and closes the pool when the command ends.

Settings come from --config, DBSCOPE_* environment variables and flags.`,
		SilenceUsage:       true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (YAML)")
	flags.StringVarP(&a.output, "output", "o", "table", "output format: table or json")
	flags.String("driver", "", "database driver: postgres, mariadb or sqlite")
	flags.String("sqlite-path", "", "SQLite database file")
	flags.String("host", "", "database host (postgres, mariadb)")
	flags.String("port", "", "database port (postgres, mariadb)")
	flags.String("user", "", "database user (postgres, mariadb)")
	flags.String("db-name", "", "database name (postgres, mariadb)")
	flags.String("log-level", "", "log level: debug, info, warning or error")
	flags.String("migrations-dir", "", "directory holding migration files")

	a.bind(root, "database.driver", "driver")
	a.bind(root, "database.sqlite.path", "sqlite-path")
	for _, dialect := range []string{config.DriverPostgres, config.DriverMariaDB} {
		prefix := "database." + dialect + ".connection."
		a.bind(root, prefix+"host", "host")
		a.bind(root, prefix+"port", "port")
		a.bind(root, prefix+"user", "user")
		a.bind(root, prefix+"db_name", "db-name")
	}
	a.bind(root, "logger.level", "log-level")
	a.bind(root, "migrations.dir", "migrations-dir")

	root.AddCommand(
		newQueryCmd(a),
		newTxCmd(a),
		newMigrateCmd(a),
	)
	return root
}

// bind makes a persistent flag override a configuration key when it is set.
func (a *app) bind(cmd *cobra.Command, key, flag string) {
	_ = a.v.BindPFlag(key, cmd.PersistentFlags().Lookup(flag))
}

// setup loads the configuration and attaches the pool. Nothing connects
// until the first statement runs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadWith(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if a.output != "table" && a.output != "json" {
		return fmt.Errorf("unknown output format %q", a.output)
	}

	a.log, err = logger.NewLoggerClient(cfg.Logger)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if cfg.Tracer.EnableExport {
		a.tracer, err = tracer.NewClient(cfg.Tracer)
		if err != nil {
			return err
		}
		ctx, a.span = a.tracer.StartSpan(ctx, "dbscope.cli."+cmd.Name())
		a.span.SetAttributes(map[string]interface{}{"db.driver": cfg.Database.Driver})
	}

	poolCfg, err := cfg.Database.PoolConfig()
	if err != nil {
		return err
	}

	manager := dbscope.New().WithLogger(a.log.Named("dbscope"))
	if a.tracer != nil {
		manager.WithTracerProvider(a.tracer.Provider())
	}

	a.ctx, err = manager.WithPool(ctx, poolCfg)
	return err
}

// teardown closes the pool and flushes logs and spans. It runs at most once.
func (a *app) teardown(*cobra.Command, []string) error {
	var errs []error
	if a.ctx != nil {
		errs = append(errs, dbscope.ClosePool(a.ctx))
		a.ctx = nil
	}
	if a.span != nil {
		a.span.End()
		a.span = nil
	}
	if a.tracer != nil {
		errs = append(errs, a.tracer.Shutdown(context.Background()))
		a.tracer = nil
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
	return errors.Join(errs...)
}

// runE wraps a command body. Cobra skips post-run hooks when the body fails,
// so the pool is closed here in that case.
func (a *app) runE(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)
		if err == nil {
			return nil
		}
		if a.span != nil {
			a.span.RecordError(err)
		}
		return errors.Join(err, a.teardown(cmd, args))
	}
}
