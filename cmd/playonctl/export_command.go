package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"playonctl/internal/recdb"
	"playonctl/internal/report"
)

func newExportFailedCommand(ctx *commandContext) *cobra.Command {
	var output string
	var limit int

	cmd := &cobra.Command{
		Use:   "export-failed",
		Short: "Export failed and partial recordings as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withReadOnlyStore(cmd, func(store *recdb.Store) error {
				headers, rows, err := store.FailedExport(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if output == "" {
					return report.Write(cmd.OutOrStdout(), headers, rows)
				}
				if err := report.WriteFile(output, headers, rows); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d row(s) to %s\n", len(rows), output)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination CSV file (stdout when omitted)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum rows to export")
	return cmd
}
