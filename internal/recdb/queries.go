package recdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CandidateQuery returns the full parameterized SELECT for a filter along
// with its bound arguments. Exposed so callers can log the interpolated
// form without owning any SQL themselves.
func CandidateQuery(f Filter) (string, []any) {
	where, args := f.Where()
	query := "SELECT " + recordColumns + " FROM " + recordTable +
		" WHERE " + where + " ORDER BY Updated DESC"
	return query, args
}

// Candidates returns the rows matching the filter, most recently updated
// first.
func (s *Store) Candidates(ctx context.Context, f Filter) ([]Recording, error) {
	query, args := CandidateQuery(f)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", translateLockError(err))
	}
	defer rows.Close()

	return collectRecordings(rows)
}

// LiveQueue returns the queued and active rows in processing order.
func (s *Store) LiveQueue(ctx context.Context) ([]Recording, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+recordColumns+" FROM "+recordTable+" WHERE Status IN (?, ?) ORDER BY Rank",
		int(StatusQueued), int(StatusActive),
	)
	if err != nil {
		return nil, fmt.Errorf("query live queue: %w", translateLockError(err))
	}
	defer rows.Close()

	return collectRecordings(rows)
}

// MinLiveRank returns the smallest rank among live rows, or 0 when the live
// queue is empty.
func (s *Store) MinLiveRank(ctx context.Context) (float64, error) {
	return s.liveRankBoundary(ctx, "MIN")
}

// MaxLiveRank returns the largest rank among live rows, or 0 when the live
// queue is empty.
func (s *Store) MaxLiveRank(ctx context.Context) (float64, error) {
	return s.liveRankBoundary(ctx, "MAX")
}

func (s *Store) liveRankBoundary(ctx context.Context, aggregate string) (float64, error) {
	var boundary float64
	err := s.db.QueryRowContext(ctx,
		"SELECT COALESCE("+aggregate+"(Rank), 0) FROM "+recordTable+" WHERE Status IN (?, ?)",
		int(StatusQueued), int(StatusActive),
	).Scan(&boundary)
	if err != nil {
		return 0, fmt.Errorf("query live rank boundary: %w", translateLockError(err))
	}
	return boundary, nil
}

// AnchorRank returns the rank of the live row whose title matches
// anchorTitle, taking the highest rank among duplicates so insertion lands
// after the anchor's last occurrence.
func (s *Store) AnchorRank(ctx context.Context, anchorTitle string) (float64, error) {
	var rank float64
	err := s.db.QueryRowContext(ctx,
		"SELECT Rank FROM "+recordTable+
			" WHERE (SeriesTitle = ? OR Name = ?) AND Status IN (?, ?) ORDER BY Rank DESC LIMIT 1",
		anchorTitle, anchorTitle, int(StatusQueued), int(StatusActive),
	).Scan(&rank)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: %q", ErrAnchorNotFound, anchorTitle)
	}
	if err != nil {
		return 0, fmt.Errorf("query anchor rank: %w", translateLockError(err))
	}
	return rank, nil
}

// Promotion pairs a candidate row with its computed target rank.
type Promotion struct {
	ID   int64
	Rank float64
}

// Promote re-queues the given rows in a single transaction: status back to
// queued, the new rank, error cleared, and both timestamps refreshed to the
// shared stamp. Any failure rolls back every update.
func (s *Store) Promote(ctx context.Context, promotions []Promotion, stamp time.Time) error {
	if len(promotions) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin promote transaction: %w", translateLockError(err))
	}
	defer func() { _ = tx.Rollback() }()

	when := stamp.UTC().Format(TimeFormat)
	for _, p := range promotions {
		res, execErr := tx.ExecContext(ctx,
			"UPDATE "+recordTable+" SET Status = ?, Rank = ?, Error = NULL, Queued = ?, Updated = ? WHERE ID = ?",
			int(StatusQueued), p.Rank, when, when, p.ID,
		)
		if execErr != nil {
			return fmt.Errorf("promote item %d: %w", p.ID, translateLockError(execErr))
		}
		affected, affErr := res.RowsAffected()
		if affErr != nil {
			return fmt.Errorf("promote item %d: rows affected: %w", p.ID, affErr)
		}
		if affected == 0 {
			return fmt.Errorf("promote item %d: row no longer exists", p.ID)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit promote transaction: %w", translateLockError(err))
	}
	return nil
}

// GetByID fetches a single row, or nil when it does not exist.
func (s *Store) GetByID(ctx context.Context, id int64) (*Recording, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+recordColumns+" FROM "+recordTable+" WHERE ID = ?", id)
	rec, err := scanRecording(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get recording: %w", err)
	}
	return &rec, nil
}

// Stats counts rows grouped by status.
func (s *Store) Stats(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT Status, COUNT(1) FROM "+recordTable+" GROUP BY Status")
	if err != nil {
		return nil, fmt.Errorf("queue stats: %w", translateLockError(err))
	}
	defer rows.Close()

	stats := make(map[Status]int)
	for rows.Next() {
		var status, count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[Status(status)] = count
	}
	return stats, rows.Err()
}

func collectRecordings(rows *sql.Rows) ([]Recording, error) {
	var records []Recording
	for rows.Next() {
		rec, err := scanRecording(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
