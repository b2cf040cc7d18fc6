package main

import (
	"github.com/spf13/cobra"

	"github.com/aalemi-dev/dbscope/dbscope"
)

func newQueryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "query <sql> [args...]",
		Short: "Run one query on the pool and print its rows",
		Example: `  dbscope query "SELECT id, email FROM users WHERE id > ?" 100
  dbscope query --driver postgres --host localhost --user app --db-name shop "SELECT now()"`,
		Args: cobra.MinimumNArgs(1),
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			req, err := dbscope.GetRequest(a.ctx)
			if err != nil {
				return err
			}
			defer req.Cancel()

			res, err := req.Query(a.ctx, args[0], queryArgs(args[1:])...)
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), a.output, res)
		}),
	}
}

func queryArgs(args []string) []any {
	out := make([]any, len(args))
	for i, arg := range args {
		out[i] = arg
	}
	return out
}
