package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/aalemi-dev/dbscope/dbscope"
)

// printResult writes res as an aligned table or as a JSON array of objects
// keyed by column name.
func printResult(w io.Writer, format string, res *dbscope.Result) error {
	if format == "json" {
		rows := make([]map[string]any, 0, res.Len())
		for _, row := range res.Rows {
			obj := make(map[string]any, len(res.Columns))
			for i, col := range res.Columns {
				obj[col] = row[i]
			}
			rows = append(rows, obj)
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.ToUpper(strings.Join(res.Columns, "\t")))
	for _, row := range res.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = formatValue(v)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "(%d rows)\n", res.Len())
	return err
}

func formatValue(v any) string {
	if v == nil {
		return "NULL"
	}
	return fmt.Sprint(v)
}
