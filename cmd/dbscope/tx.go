package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aalemi-dev/dbscope/dbscope"
)

var isolationLevels = map[string]sql.IsolationLevel{
	"default":          sql.LevelDefault,
	"read-uncommitted": sql.LevelReadUncommitted,
	"read-committed":   sql.LevelReadCommitted,
	"repeatable-read":  sql.LevelRepeatableRead,
	"snapshot":         sql.LevelSnapshot,
	"serializable":     sql.LevelSerializable,
	"linearizable":     sql.LevelLinearizable,
}

func parseIsolation(name string) (sql.IsolationLevel, error) {
	level, ok := isolationLevels[strings.ToLower(name)]
	if !ok {
		return sql.LevelDefault, fmt.Errorf("unknown isolation level %q", name)
	}
	return level, nil
}

func newTxCmd(a *app) *cobra.Command {
	var (
		isolation string
		rollback  bool
	)

	cmd := &cobra.Command{
		Use:   "tx <sql>...",
		Short: "Run statements in one transaction",
		Long: `Run every statement in one transaction, then commit. The transaction is
rolled back instead when --rollback is given or a statement fails.`,
		Example: `  dbscope tx --isolation serializable \
    "UPDATE accounts SET balance = balance - 10 WHERE id = 1" \
    "UPDATE accounts SET balance = balance + 10 WHERE id = 2"`,
		Args: cobra.MinimumNArgs(1),
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			level, err := parseIsolation(isolation)
			if err != nil {
				return err
			}

			ctx, err := dbscope.WithTx(a.ctx, level)
			if err != nil {
				return err
			}

			if err := runStatements(ctx, cmd, a, args); err != nil {
				return errors.Join(err, dbscope.Rollback(ctx))
			}

			if rollback {
				if err := dbscope.Rollback(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "rolled back")
				return nil
			}
			if err := dbscope.Commit(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "committed")
			return nil
		}),
	}

	cmd.Flags().StringVar(&isolation, "isolation", "default",
		"isolation level: default, read-uncommitted, read-committed, repeatable-read, snapshot, serializable or linearizable")
	cmd.Flags().BoolVar(&rollback, "rollback", false, "roll back instead of committing")
	return cmd
}

func runStatements(ctx context.Context, cmd *cobra.Command, a *app, statements []string) error {
	for _, stmt := range statements {
		req, err := dbscope.GetTxRequest(ctx)
		if err != nil {
			return err
		}

		if returnsRows(stmt) {
			res, err := req.Query(ctx, stmt)
			if err != nil {
				return fmt.Errorf("%s: %w", stmt, err)
			}
			if err := printResult(cmd.OutOrStdout(), a.output, res); err != nil {
				return err
			}
			continue
		}

		n, err := req.Exec(ctx, stmt)
		if err != nil {
			return fmt.Errorf("%s: %w", stmt, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d rows affected\n", n)
	}
	return nil
}

// returnsRows guesses from the leading keyword whether stmt produces a result
// set.
func returnsRows(stmt string) bool {
	fields := strings.Fields(stmt)
	if len(fields) == 0 {
		return false
	}
	switch strings.ToUpper(fields[0]) {
	case "SELECT", "WITH", "SHOW", "EXPLAIN", "VALUES", "PRAGMA", "DESCRIBE":
		return true
	}
	return strings.Contains(strings.ToUpper(stmt), " RETURNING ")
}
