package recdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"
)

// Store wraps a single exclusive connection to a recording database.
type Store struct {
	db   *sql.DB
	path string
	lock *flock.Flock
}

// Open connects to the recording database at path for read-write access.
// An advisory lock is taken on a sibling lock file so concurrent playonctl
// invocations fail fast; a running PlayOn instance holding the SQLite file
// surfaces as ErrDatabaseLocked on the first statement instead.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := statDatabase(path); err != nil {
		return nil, err
	}

	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire database lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrDatabaseLocked, path)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open recording database: %w", err)
	}
	db.SetMaxOpenConns(1)

	store := &Store{db: db, path: path, lock: lock}
	if err := store.verify(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

// OpenReadOnly connects without the lock file for inspection commands.
// The connection refuses writes at the SQLite level.
func OpenReadOnly(ctx context.Context, path string) (*Store, error) {
	if err := statDatabase(path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open recording database read-only: %w", err)
	}
	db.SetMaxOpenConns(1)

	store := &Store{db: db, path: path}
	if err := store.verify(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

// Close releases the connection and the advisory lock.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	var err error
	if s.db != nil {
		err = s.db.Close()
	}
	if s.lock != nil {
		if unlockErr := s.lock.Unlock(); unlockErr != nil && err == nil {
			err = unlockErr
		}
	}
	return err
}

// Path returns the database file path the store was opened on.
func (s *Store) Path() string {
	return s.path
}

func statDatabase(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrDatabaseMissing, path)
		}
		return fmt.Errorf("stat recording database: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("recording database path %q is a directory", path)
	}
	return nil
}

func (s *Store) verify(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "PRAGMA busy_timeout = 2000"); err != nil {
		return fmt.Errorf("apply busy timeout: %w", translateLockError(err))
	}

	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type = 'table' AND name = ?",
		recordTable,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("read database schema: %w", translateLockError(err))
	}
	if count == 0 {
		return fmt.Errorf("table %s not found in %s; is this a PlayOn recording database?", recordTable, s.path)
	}
	return nil
}

// translateLockError maps SQLite busy/locked failures onto the package
// sentinel so callers can branch without string matching.
func translateLockError(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "database is locked") || strings.Contains(msg, "(5)") || strings.Contains(msg, "(6)") {
		return fmt.Errorf("%w: %v", ErrDatabaseLocked, err)
	}
	return err
}

func scanRecording(scanner interface{ Scan(dest ...any) error }) (Recording, error) {
	var (
		id      int64
		name    sql.NullString
		series  sql.NullString
		season  sql.NullFloat64
		episode sql.NullFloat64
		status  int
		rank    sql.NullFloat64
		updated sql.NullString
		errText sql.NullString
		queued  sql.NullString
	)

	if err := scanner.Scan(&id, &name, &series, &season, &episode, &status, &rank, &updated, &errText, &queued); err != nil {
		return Recording{}, err
	}

	rec := Recording{
		ID:          id,
		Name:        name.String,
		SeriesTitle: series.String,
		Status:      Status(status),
		Rank:        rank.Float64,
		Error:       errText.String,
	}
	if season.Valid {
		v := int(season.Float64)
		rec.Season = &v
	}
	if episode.Valid {
		v := int(episode.Float64)
		rec.Episode = &v
	}
	if updated.Valid {
		if t, err := parseTimestamp(updated.String); err == nil {
			rec.Updated = t
		}
	}
	if queued.Valid {
		if t, err := parseTimestamp(queued.String); err == nil {
			rec.Queued = t
		}
	}
	return rec, nil
}

func parseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errors.New("empty timestamp")
	}
	return time.ParseInLocation(TimeFormat, value, time.UTC)
}

const recordTable = "RecordQueueItems"

const recordColumns = "ID, Name, SeriesTitle, Season, EpisodeNumber, Status, Rank, Updated, Error, Queued"
