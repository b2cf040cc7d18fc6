package main

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/aalemi-dev/dbscope/migrate"
)

func newMigrateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply, revert and inspect SQL migrations",
		Long: `Migrations live in the configured directory as
<id>_<schema|data>_<name>.<up|down>.sql files. Each one runs in its own
transaction and is recorded in the ` + migrate.HistoryTable + ` table.`,
	}
	cmd.AddCommand(
		newMigrateUpCmd(a),
		newMigrateDownCmd(a),
		newMigrateStatusCmd(a),
		newMigrateCreateCmd(a),
	)
	return cmd
}

func (a *app) migrator() *migrate.Migrator {
	return migrate.New(a.cfg.Migrations.Dir).
		WithExecutedBy(a.cfg.Migrations.ExecutedBy).
		WithLogger(a.log.Named("migrate"))
}

func newMigrateUpCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply every pending migration",
		Args:  cobra.NoArgs,
		RunE: a.runE(func(cmd *cobra.Command, _ []string) error {
			n, err := a.migrator().Up(a.ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "applied %d migrations\n", n)
			return nil
		}),
	}
}

func newMigrateDownCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Revert the most recently applied migration",
		Args:  cobra.NoArgs,
		RunE: a.runE(func(cmd *cobra.Command, _ []string) error {
			err := a.migrator().Down(a.ctx)
			if errors.Is(err, migrate.ErrNothingToRevert) {
				fmt.Fprintln(cmd.OutOrStdout(), "nothing to revert")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "reverted 1 migration")
			return nil
		}),
	}
}

func newMigrateStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "List migrations and whether they are applied",
		Args:  cobra.NoArgs,
		RunE: a.runE(func(cmd *cobra.Command, _ []string) error {
			statuses, err := a.migrator().Status(a.ctx)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tTYPE\tAPPLIED\tEXECUTED AT\tEXECUTED BY")
			for _, s := range statuses {
				executedAt := "-"
				if s.Applied {
					executedAt = s.ExecutedAt.Format(time.RFC3339)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%s\t%s\n", s.ID, s.Name, s.Type, s.Applied, executedAt, s.ExecutedBy)
			}
			return tw.Flush()
		}),
	}
}

func newMigrateCreateCmd(a *app) *cobra.Command {
	var migrationType string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create an empty up/down migration pair",
		Args:  cobra.ExactArgs(1),
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			base, err := migrate.Create(a.cfg.Migrations.Dir, args[0], migrate.Type(migrationType))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s.up.sql and %s.down.sql in %s\n", base, base, a.cfg.Migrations.Dir)
			return nil
		}),
	}
	cmd.Flags().StringVar(&migrationType, "type", string(migrate.SchemaType), "migration type: schema or data")
	return cmd
}
