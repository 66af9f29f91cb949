package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"playonctl/internal/recdb"
)

func newQueueCommand(ctx *commandContext) *cobra.Command {
	queueCmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect the recording queue",
	}

	queueCmd.AddCommand(newQueueListCommand(ctx))
	queueCmd.AddCommand(newQueueStatusCommand(ctx))

	return queueCmd
}

type queueItemView struct {
	ID      int64   `json:"id"`
	Title   string  `json:"title"`
	Episode string  `json:"episode,omitempty"`
	Status  string  `json:"status"`
	Rank    float64 `json:"rank"`
	Updated string  `json:"updated"`
}

func newQueueListCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the live queue in rank order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withReadOnlyStore(cmd, func(store *recdb.Store) error {
				items, err := store.LiveQueue(cmd.Context())
				if err != nil {
					return err
				}

				if jsonOut {
					views := make([]queueItemView, 0, len(items))
					for _, rec := range items {
						views = append(views, queueItemView{
							ID:      rec.ID,
							Title:   rec.Title(),
							Episode: rec.EpisodeCode(),
							Status:  rec.Status.String(),
							Rank:    rec.Rank,
							Updated: rec.Updated.UTC().Format(recdb.TimeFormat),
						})
					}
					return writeJSON(cmd, views)
				}

				if len(items) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Live queue is empty")
					return nil
				}
				rows := make([][]string, 0, len(items))
				for _, rec := range items {
					rows = append(rows, []string{
						fmt.Sprintf("%d", rec.ID),
						rec.Title(),
						episodeOrDash(rec),
						rec.Status.String(),
						fmt.Sprintf("%g", rec.Rank),
						rec.Updated.UTC().Format(recdb.TimeFormat),
					})
				}
				fmt.Fprint(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "Title", "Episode", "Status", "Rank", "Updated"},
					rows, 0, 4,
				))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of a table")
	return cmd
}

func newQueueStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show recording counts by status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withReadOnlyStore(cmd, func(store *recdb.Store) error {
				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}

				if jsonOut {
					counts := make(map[string]int, len(stats))
					for status, count := range stats {
						counts[status.String()] = count
					}
					return writeJSON(cmd, counts)
				}

				if len(stats) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Recording queue is empty")
					return nil
				}
				rows := make([][]string, 0, len(stats))
				for _, status := range []recdb.Status{
					recdb.StatusQueued,
					recdb.StatusActive,
					recdb.StatusPartial,
					recdb.StatusFailed,
				} {
					if count, ok := stats[status]; ok {
						rows = append(rows, []string{status.String(), fmt.Sprintf("%d", count)})
					}
				}
				fmt.Fprint(cmd.OutOrStdout(), renderTable([]string{"Status", "Count"}, rows, 1))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of a table")
	return cmd
}
