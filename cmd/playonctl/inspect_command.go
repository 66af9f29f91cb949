package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"playonctl/internal/recdb"
)

func newInspectCommand(ctx *commandContext) *cobra.Command {
	inspectCmd := &cobra.Command{
		Use:   "inspect",
		Short: "Explore the recording database schema",
	}

	inspectCmd.AddCommand(newInspectTablesCommand(ctx))
	inspectCmd.AddCommand(newInspectColumnsCommand(ctx))
	inspectCmd.AddCommand(newInspectSampleCommand(ctx))

	return inspectCmd
}

func newInspectTablesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List tables in the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withReadOnlyStore(cmd, func(store *recdb.Store) error {
				tables, err := store.Tables(cmd.Context())
				if err != nil {
					return err
				}
				for _, table := range tables {
					fmt.Fprintln(cmd.OutOrStdout(), table)
				}
				return nil
			})
		},
	}
}

func newInspectColumnsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "columns <table>",
		Short: "Show the column layout of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table := strings.TrimSpace(args[0])
			return ctx.withReadOnlyStore(cmd, func(store *recdb.Store) error {
				columns, err := store.Columns(cmd.Context(), table)
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(columns))
				for _, col := range columns {
					rows = append(rows, []string{
						col.Name,
						col.Type,
						yesNo(col.NotNull),
						yesNo(col.PrimaryKey),
					})
				}
				fmt.Fprint(cmd.OutOrStdout(), renderTable(
					[]string{"Column", "Type", "Not Null", "PK"},
					rows,
				))
				return nil
			})
		},
	}
}

func newInspectSampleCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "sample <table>",
		Short: "Print sample rows from a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table := strings.TrimSpace(args[0])
			return ctx.withReadOnlyStore(cmd, func(store *recdb.Store) error {
				headers, rows, err := store.SampleRows(cmd.Context(), table, limit)
				if err != nil {
					return err
				}
				if len(rows) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "Table %s is empty\n", table)
					return nil
				}
				fmt.Fprint(cmd.OutOrStdout(), renderTable(headers, rows))
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 5, "Maximum rows to print")
	return cmd
}
