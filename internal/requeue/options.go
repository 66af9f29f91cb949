package requeue

import (
	"errors"
	"fmt"

	"playonctl/internal/recdb"
)

// ErrInvalidOptions marks a rejected option combination.
var ErrInvalidOptions = errors.New("invalid options")

// Options is the configuration contract the CLI layer fills in.
type Options struct {
	// Titles match the series title or item name, case-insensitively.
	Titles []string
	// Since is a date keyword or MM-DD-YY token; empty means no bound.
	Since string
	// MoviesOnly restricts selection to rows without season/episode.
	MoviesOnly bool
	// IncludePartial widens selection from failed-only to failed-or-partial.
	IncludePartial bool
	// All permits running with no other filter set.
	All bool

	// Position picks where promoted items land in the live queue.
	Position recdb.Position
	// AfterTitle anchors PositionAfter; required for it, rejected otherwise
	// when empty is fine.
	AfterTitle string

	// Limit caps the number of promoted items; zero means unlimited.
	Limit int

	// DryRun reports the proposal without touching the database.
	DryRun bool
	// DryRunOutput optionally writes the proposal to a CSV file during a
	// dry run.
	DryRunOutput string

	// NoBackup skips the pre-write database copy.
	NoBackup bool
	// AssumeYes bypasses the interactive confirmation.
	AssumeYes bool
}

// Validate enforces the option rules the core owns: a position anchor when
// inserting after a title, and at least one filter unless --all was given.
func (o Options) Validate() error {
	switch o.Position {
	case recdb.PositionBeginning, recdb.PositionEnd:
	case recdb.PositionAfter:
		if o.AfterTitle == "" {
			return fmt.Errorf("%w: position \"after\" requires an anchor title", ErrInvalidOptions)
		}
	default:
		return fmt.Errorf("%w: unknown position %q", ErrInvalidOptions, o.Position)
	}

	if !o.All && len(o.Titles) == 0 && o.Since == "" && !o.MoviesOnly && !o.IncludePartial {
		return fmt.Errorf("%w: no filters specified; pass at least one filter or --all", ErrInvalidOptions)
	}

	if o.Limit < 0 {
		return fmt.Errorf("%w: limit must be positive", ErrInvalidOptions)
	}
	if o.DryRunOutput != "" && !o.DryRun {
		return fmt.Errorf("%w: --dry-run-output requires --dry-run", ErrInvalidOptions)
	}
	return nil
}
