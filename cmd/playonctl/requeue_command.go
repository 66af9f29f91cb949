package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"playonctl/internal/backup"
	"playonctl/internal/recdb"
	"playonctl/internal/requeue"
)

func newRequeueCommand(ctx *commandContext) *cobra.Command {
	var (
		titles         []string
		since          string
		moviesOnly     bool
		includePartial bool
		all            bool
		position       string
		afterTitle     string
		limit          int
		dryRun         bool
		dryRunOutput   string
		noBackup       bool
		assumeYes      bool
		killProcesses  bool
		restartPaths   []string
	)

	cmd := &cobra.Command{
		Use:   "requeue",
		Short: "Move failed or partial recordings back into the live queue",
		Long: "Selects failed (and optionally partial) recordings matching the given\n" +
			"filters and re-queues them at the chosen position. The database is\n" +
			"backed up before any change unless --no-backup is given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := recdb.ParsePosition(position)
			if err != nil {
				return err
			}

			opts := requeue.Options{
				Titles:         titles,
				Since:          since,
				MoviesOnly:     moviesOnly,
				IncludePartial: includePartial,
				All:            all,
				Position:       pos,
				AfterTitle:     afterTitle,
				Limit:          limit,
				DryRun:         dryRun,
				DryRunOutput:   dryRunOutput,
				NoBackup:       noBackup,
				AssumeYes:      assumeYes,
			}
			if err := opts.Validate(); err != nil {
				return err
			}

			confirmer, err := pickConfirmer(cmd, opts)
			if err != nil {
				return err
			}

			if killProcesses {
				if err := stopPlayOnProcesses(cmd, ctx); err != nil {
					return err
				}
			}

			return ctx.withStore(cmd, func(store *recdb.Store) error {
				cfg := ctx.configValue()
				backupSvc := backup.Service{}
				if cfg != nil {
					backupSvc.Dir = cfg.Backup.Dir
				}

				runner := &requeue.Runner{
					Store:   store,
					Backup:  backupSvc,
					Confirm: confirmer,
					Logger:  ctx.logger(),
					Out:     cmd.OutOrStdout(),
				}

				result, err := runner.Run(cmd.Context(), opts)
				if err != nil {
					return err
				}

				if result.DryRun {
					renderDryRun(cmd, result)
					return nil
				}

				if result.Promoted > 0 && len(restartPaths) > 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Restarting PlayOn processes...")
					if err := ctx.processTable().Start(cmd.Context(), restartPaths); err != nil {
						return fmt.Errorf("restart processes: %w", err)
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().StringArrayVarP(&titles, "title", "t", nil, "Series title or item name to match (repeatable)")
	cmd.Flags().StringVar(&since, "since", "", "Only items updated since: today, yesterday, week, month, or MM-DD-YY")
	cmd.Flags().BoolVar(&moviesOnly, "movies-only", false, "Only items without season/episode numbering")
	cmd.Flags().BoolVar(&includePartial, "include-partial", false, "Also select partial recordings")
	cmd.Flags().BoolVar(&all, "all", false, "Select every failed recording (required when no other filter is set)")
	cmd.Flags().StringVar(&position, "position", "end", "Queue position: beginning, end, or after")
	cmd.Flags().StringVar(&afterTitle, "after-title", "", "Anchor title for --position=after")
	cmd.Flags().IntVar(&limit, "limit", 0, "Cap the number of re-queued items (most recent first)")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Show what would change without touching the database")
	cmd.Flags().StringVar(&dryRunOutput, "dry-run-output", "", "Write the dry-run proposal to a CSV file")
	cmd.Flags().BoolVar(&noBackup, "no-backup", false, "Skip the pre-write database backup")
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the confirmation prompt")
	cmd.Flags().BoolVar(&killProcesses, "kill", false, "Stop PlayOn processes before opening the database")
	cmd.Flags().StringArrayVar(&restartPaths, "restart", nil, "Executable to launch after a successful run (repeatable)")

	return cmd
}

// pickConfirmer chooses the confirmation strategy: --yes bypasses the
// prompt, and without a terminal on stdin there is nothing to prompt, so
// the run is refused rather than silently approved.
func pickConfirmer(cmd *cobra.Command, opts requeue.Options) (requeue.Confirmer, error) {
	if opts.AssumeYes {
		return requeue.AutoConfirmer{}, nil
	}
	if opts.DryRun {
		return requeue.AutoConfirmer{}, nil
	}
	if file, ok := cmd.InOrStdin().(*os.File); ok {
		if !isatty.IsTerminal(file.Fd()) && !isatty.IsCygwinTerminal(file.Fd()) {
			return nil, errors.New("stdin is not a terminal; pass --yes to confirm non-interactively")
		}
	}
	return requeue.PromptConfirmer{In: cmd.InOrStdin(), Out: cmd.OutOrStdout()}, nil
}

func stopPlayOnProcesses(cmd *cobra.Command, ctx *commandContext) error {
	table := ctx.processTable()
	procs, err := table.Running(cmd.Context())
	if err != nil {
		return fmt.Errorf("scan processes: %w", err)
	}
	if len(procs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No PlayOn processes running.")
		return nil
	}
	for _, proc := range procs {
		fmt.Fprintf(cmd.OutOrStdout(), "Stopping %s (pid %d)\n", proc.Name, proc.PID)
	}
	if err := table.Terminate(cmd.Context(), procs); err != nil {
		return fmt.Errorf("stop processes: %w", err)
	}
	return nil
}

func renderDryRun(cmd *cobra.Command, result requeue.Result) {
	out := cmd.OutOrStdout()

	rows := make([][]string, 0, len(result.Plan.Proposals))
	for _, proposal := range result.Plan.Proposals {
		rec := proposal.Recording
		rows = append(rows, []string{
			fmt.Sprintf("%d", rec.ID),
			rec.Title(),
			episodeOrDash(rec),
			rec.Status.String(),
			rec.Updated.UTC().Format(recdb.TimeFormat),
			fmt.Sprintf("%g", proposal.NewRank),
		})
	}
	fmt.Fprint(out, renderTable(
		[]string{"ID", "Title", "Episode", "Status", "Updated", "New Rank"},
		rows, 0, 5,
	))

	if len(result.Live) == 0 {
		fmt.Fprintln(out, "\nLive queue is empty.")
		return
	}
	fmt.Fprintln(out, "\nCurrent live queue:")
	liveRows := make([][]string, 0, len(result.Live))
	for _, rec := range result.Live {
		liveRows = append(liveRows, []string{
			fmt.Sprintf("%d", rec.ID),
			rec.Title(),
			episodeOrDash(rec),
			rec.Status.String(),
			fmt.Sprintf("%g", rec.Rank),
		})
	}
	fmt.Fprint(out, renderTable(
		[]string{"ID", "Title", "Episode", "Status", "Rank"},
		liveRows, 0, 4,
	))
}
