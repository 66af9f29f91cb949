package requeue

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"playonctl/internal/recdb"
	"playonctl/internal/report"
)

// Backuper copies the database aside before the write phase.
type Backuper interface {
	Create(src string, stamp time.Time) (string, error)
}

// Runner orchestrates one re-queue invocation against an open store.
type Runner struct {
	Store   *recdb.Store
	Backup  Backuper
	Confirm Confirmer
	Logger  *slog.Logger
	Out     io.Writer

	// Now supplies the invocation timestamp; defaults to time.Now. The
	// same value stamps the backup name and every promoted row.
	Now func() time.Time
}

// Result summarizes what one invocation did.
type Result struct {
	// Plan holds the proposed promotions, populated whenever candidates
	// were found.
	Plan Plan
	// Live is the live queue snapshot taken for dry-run rendering.
	Live []recdb.Recording
	// Promoted is the number of rows actually written back.
	Promoted int
	// DryRun reports that no write path was entered.
	DryRun bool
	// Declined reports that the user rejected the confirmation prompt.
	Declined bool
	// BackupPath is the pre-write copy, when one was made.
	BackupPath string
}

// Run performs the full fetch → limit → plan → confirm → backup → promote
// sequence. Read-phase failures leave the database untouched; the promote
// transaction is all-or-nothing.
func (r *Runner) Run(ctx context.Context, opts Options) (Result, error) {
	if err := opts.Validate(); err != nil {
		return Result{}, err
	}

	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	stamp := now().UTC()

	filter, err := r.buildFilter(opts, stamp)
	if err != nil {
		return Result{}, err
	}

	query, args := recdb.CandidateQuery(filter)
	r.Logger.Debug("selecting candidates", "query", recdb.InterpolateSQL(query, args))

	candidates, err := r.Store.Candidates(ctx, filter)
	if err != nil {
		return Result{}, err
	}

	if opts.Limit > 0 && len(candidates) > opts.Limit {
		fmt.Fprintf(r.Out, "Limiting selection from %d to %d item(s).\n", len(candidates), opts.Limit)
		candidates = candidates[:opts.Limit]
	}

	if len(candidates) == 0 {
		fmt.Fprintln(r.Out, "No matching failed/partial recordings found.")
		return Result{}, nil
	}
	fmt.Fprintf(r.Out, "Found %d item(s) to re-queue.\n", len(candidates))

	ranks, err := r.Store.PlanRanks(ctx, opts.Position, opts.AfterTitle, len(candidates))
	if err != nil {
		return Result{}, err
	}
	plan := newPlan(candidates, ranks)

	if opts.DryRun {
		return r.dryRun(ctx, opts, plan)
	}

	fmt.Fprintf(r.Out, "\nYou are about to re-queue %d item(s) in %s.\n", len(plan.Proposals), r.Store.Path())
	if opts.NoBackup {
		fmt.Fprintln(r.Out, "WARNING: --no-backup was given; no safety copy will be made.")
	} else {
		fmt.Fprintln(r.Out, "A backup will be created before any change.")
	}

	confirmed, err := r.Confirm.Confirm("Are you sure you want to proceed?")
	if err != nil {
		return Result{}, err
	}
	if !confirmed {
		fmt.Fprintln(r.Out, "Operation cancelled.")
		return Result{Plan: plan, Declined: true}, nil
	}

	result := Result{Plan: plan}
	if !opts.NoBackup {
		backupPath, err := r.Backup.Create(r.Store.Path(), stamp)
		if err != nil {
			return Result{Plan: plan}, fmt.Errorf("backup database: %w", err)
		}
		result.BackupPath = backupPath
		fmt.Fprintf(r.Out, "Database backed up to %s\n", backupPath)
		r.Logger.Info("database backed up", "path", backupPath)
	}

	if err := r.Store.Promote(ctx, plan.promotions(), stamp); err != nil {
		return result, fmt.Errorf("promote items: %w", err)
	}

	result.Promoted = len(plan.Proposals)
	fmt.Fprintf(r.Out, "Promoted %d item(s). Restart PlayOn to reload the queue.\n", result.Promoted)
	r.Logger.Info("items promoted",
		"count", result.Promoted,
		"position", string(opts.Position),
	)
	return result, nil
}

func (r *Runner) buildFilter(opts Options, now time.Time) (recdb.Filter, error) {
	filter := recdb.Filter{
		Titles:         opts.Titles,
		IncludePartial: opts.IncludePartial,
		MoviesOnly:     opts.MoviesOnly,
	}
	if opts.Since != "" {
		since, err := recdb.ResolveSince(opts.Since, now)
		if err != nil {
			return recdb.Filter{}, err
		}
		filter.Since = &since
	}
	return filter, nil
}

func (r *Runner) dryRun(ctx context.Context, opts Options, plan Plan) (Result, error) {
	fmt.Fprintln(r.Out, "\nDRY RUN - the following items would be re-queued:")

	live, err := r.Store.LiveQueue(ctx)
	if err != nil {
		return Result{}, err
	}

	if opts.DryRunOutput != "" {
		if err := report.WriteFile(opts.DryRunOutput, plan.CSVHeaders(), plan.CSVRows()); err != nil {
			return Result{}, fmt.Errorf("write dry-run export: %w", err)
		}
		fmt.Fprintf(r.Out, "Proposed additions exported to %s\n", opts.DryRunOutput)
	}

	return Result{Plan: plan, Live: live, DryRun: true}, nil
}
