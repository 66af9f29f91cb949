// Package testsupport builds throwaway recording databases seeded with a
// known fixture so store and requeue tests can run against real SQLite
// files without touching a live PlayOn installation.
package testsupport

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"playonctl/internal/recdb"
)

const recordSchema = `
CREATE TABLE RecordQueueItems (
    ID INTEGER PRIMARY KEY,
    Name TEXT,
    SeriesTitle TEXT,
    Season REAL,
    EpisodeNumber REAL,
    Status INTEGER,
    Rank REAL,
    Updated TEXT,
    Error TEXT,
    Queued TEXT
)`

// Row seeds one RecordQueueItems row. Nil pointers become NULL columns.
type Row struct {
	ID      int64
	Name    string
	Series  *string
	Season  *int
	Episode *int
	Status  recdb.Status
	Rank    float64
	Updated time.Time
	Error   *string
}

// StrPtr and IntPtr keep fixture literals readable.
func StrPtr(s string) *string { return &s }
func IntPtr(i int) *int       { return &i }

// CanonicalRows reproduces the standard seven-row fixture: a live episode
// and movie, two failed "The Test Show" episodes, one partial episode, one
// failed movie, and one week-old failure from another series.
func CanonicalRows(now time.Time) []Row {
	now = now.UTC()
	yesterday := now.AddDate(0, 0, -1)
	lastWeek := now.AddDate(0, 0, -7)
	show := StrPtr("The Test Show")
	old := StrPtr("Old Show")

	return []Row{
		{ID: 1, Name: "Episode 1", Series: show, Season: IntPtr(1), Episode: IntPtr(1), Status: recdb.StatusQueued, Rank: 1.0, Updated: now},
		{ID: 2, Name: "Test Movie One", Status: recdb.StatusQueued, Rank: 2.0, Updated: now},
		{ID: 3, Name: "Episode 2", Series: show, Season: IntPtr(1), Episode: IntPtr(2), Status: recdb.StatusFailed, Rank: -1.0, Updated: now, Error: StrPtr("Failed")},
		{ID: 4, Name: "Test Movie Two", Status: recdb.StatusFailed, Rank: -1.0, Updated: now, Error: StrPtr("Failed")},
		{ID: 5, Name: "Episode 3", Series: show, Season: IntPtr(1), Episode: IntPtr(3), Status: recdb.StatusPartial, Rank: -1.0, Updated: now, Error: StrPtr("Partial")},
		{ID: 6, Name: "Episode 1", Series: old, Season: IntPtr(2), Episode: IntPtr(1), Status: recdb.StatusFailed, Rank: -1.0, Updated: lastWeek, Error: StrPtr("Failed")},
		{ID: 7, Name: "Episode 4", Series: show, Season: IntPtr(1), Episode: IntPtr(4), Status: recdb.StatusFailed, Rank: -1.0, Updated: yesterday, Error: StrPtr("Failed")},
	}
}

// CreateDB writes a recording database populated with the given rows into a
// per-test temp directory and returns its path.
func CreateDB(t testing.TB, rows []Row) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "recording.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open fixture database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(recordSchema); err != nil {
		t.Fatalf("create fixture schema: %v", err)
	}

	for _, row := range rows {
		stamp := row.Updated.UTC().Format(recdb.TimeFormat)
		_, err := db.Exec(
			"INSERT INTO RecordQueueItems (ID, Name, SeriesTitle, Season, EpisodeNumber, Status, Rank, Updated, Error, Queued) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
			row.ID,
			row.Name,
			nullableStr(row.Series),
			nullableInt(row.Season),
			nullableInt(row.Episode),
			int(row.Status),
			row.Rank,
			stamp,
			nullableStr(row.Error),
			stamp,
		)
		if err != nil {
			t.Fatalf("seed fixture row %d: %v", row.ID, err)
		}
	}
	return path
}

// CreateCanonicalDB builds the standard fixture anchored at now.
func CreateCanonicalDB(t testing.TB, now time.Time) string {
	t.Helper()
	return CreateDB(t, CanonicalRows(now))
}

// MustOpenStore opens a read-write store on path and registers cleanup.
func MustOpenStore(t testing.TB, path string) *recdb.Store {
	t.Helper()

	store, err := recdb.Open(context.Background(), path)
	if err != nil {
		t.Fatalf("recdb.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

func nullableStr(value *string) any {
	if value == nil {
		return nil
	}
	return *value
}

func nullableInt(value *int) any {
	if value == nil {
		return nil
	}
	return float64(*value)
}
