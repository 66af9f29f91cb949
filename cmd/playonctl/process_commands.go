package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newProcessesCommand(ctx *commandContext) *cobra.Command {
	processesCmd := &cobra.Command{
		Use:   "processes",
		Short: "Control the PlayOn processes that hold the database open",
	}

	processesCmd.AddCommand(newProcessesListCommand(ctx))
	processesCmd.AddCommand(newProcessesStopCommand(ctx))
	processesCmd.AddCommand(newProcessesStartCommand(ctx))

	return processesCmd
}

func newProcessesListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show running PlayOn processes",
		RunE: func(cmd *cobra.Command, args []string) error {
			procs, err := ctx.processTable().Running(cmd.Context())
			if err != nil {
				return fmt.Errorf("scan processes: %w", err)
			}
			if len(procs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No PlayOn processes running")
				return nil
			}
			rows := make([][]string, 0, len(procs))
			for _, proc := range procs {
				rows = append(rows, []string{
					fmt.Sprintf("%d", proc.PID),
					proc.Name,
					proc.Path,
				})
			}
			fmt.Fprint(cmd.OutOrStdout(), renderTable([]string{"PID", "Name", "Path"}, rows, 0))
			return nil
		},
	}
}

func newProcessesStopCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Terminate running PlayOn processes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return stopPlayOnProcesses(cmd, ctx)
		},
	}
}

func newProcessesStartCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "start <executable>...",
		Short: "Launch PlayOn executables, media server first",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.processTable().Start(cmd.Context(), args); err != nil {
				return fmt.Errorf("start processes: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Launched %d process(es)\n", len(args))
			return nil
		},
	}
}
