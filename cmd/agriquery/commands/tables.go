package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/limoonouo/Haoshi-Fruits/internal/app"
)

func newTablesCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "Show how the reference tables loaded",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TABLE\tROWS\tSKIPPED\tRECOVERED\tSCHEMA\tSTATUS\tLOCATION")
			for _, r := range e.tables.Reports {
				status := "ok"
				if r.Err != nil {
					status = r.Err.Error()
				}
				schema := "-"
				if r.Name == app.TablePrice {
					schema = r.Schema.String()
				}
				fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%s\t%s\t%s\n",
					r.Name, r.Stats.Rows, r.Stats.Skipped, r.Stats.Recovered, schema, status, r.Location)
			}
			return w.Flush()
		},
	}
}
