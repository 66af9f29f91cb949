package requeue_test

import (
	"context"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"playonctl/internal/logging"
	"playonctl/internal/recdb"
	"playonctl/internal/requeue"
	"playonctl/internal/testsupport"
)

type countingBackup struct {
	calls int
	fail  bool
}

func (b *countingBackup) Create(src string, stamp time.Time) (string, error) {
	b.calls++
	if b.fail {
		return "", errors.New("disk full")
	}
	return src + ".bak-test", nil
}

type refuseConfirmer struct {
	t *testing.T
}

func (c refuseConfirmer) Confirm(string) (bool, error) {
	c.t.Fatal("confirmation prompt must not be reached")
	return false, nil
}

func answer(text string) requeue.Confirmer {
	return requeue.PromptConfirmer{In: strings.NewReader(text), Out: io.Discard}
}

func newRunner(t *testing.T, store *recdb.Store, backup requeue.Backuper, confirm requeue.Confirmer) *requeue.Runner {
	t.Helper()
	return &requeue.Runner{
		Store:   store,
		Backup:  backup,
		Confirm: confirm,
		Logger:  logging.NewNop(),
		Out:     io.Discard,
	}
}

func mustStatus(t *testing.T, store *recdb.Store, id int64) recdb.Recording {
	t.Helper()
	rec, err := store.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("GetByID(%d) failed: %v", id, err)
	}
	if rec == nil {
		t.Fatalf("row %d missing", id)
	}
	return *rec
}

func TestOptionsValidate(t *testing.T) {
	cases := []struct {
		name    string
		opts    requeue.Options
		wantErr bool
	}{
		{
			name:    "after requires anchor",
			opts:    requeue.Options{Position: recdb.PositionAfter, Titles: []string{"x"}},
			wantErr: true,
		},
		{
			name:    "no filters without all",
			opts:    requeue.Options{Position: recdb.PositionEnd},
			wantErr: true,
		},
		{
			name: "all permits unfiltered run",
			opts: requeue.Options{Position: recdb.PositionEnd, All: true},
		},
		{
			name:    "negative limit",
			opts:    requeue.Options{Position: recdb.PositionEnd, All: true, Limit: -1},
			wantErr: true,
		},
		{
			name:    "dry-run-output without dry-run",
			opts:    requeue.Options{Position: recdb.PositionEnd, All: true, DryRunOutput: "x.csv"},
			wantErr: true,
		},
		{
			name: "include-partial alone is a filter",
			opts: requeue.Options{Position: recdb.PositionEnd, IncludePartial: true},
		},
		{
			name:    "unknown position",
			opts:    requeue.Options{Position: recdb.Position("middle"), All: true},
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.opts.Validate()
			if tc.wantErr && !errors.Is(err, requeue.ErrInvalidOptions) {
				t.Fatalf("expected ErrInvalidOptions, got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestRunPromotesFailedMovieByTitle(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.CreateCanonicalDB(t, time.Now().UTC()))
	runner := newRunner(t, store, &countingBackup{}, answer("yes\n"))

	result, err := runner.Run(context.Background(), requeue.Options{
		Titles:     []string{"Test Movie Two"},
		MoviesOnly: true,
		Position:   recdb.PositionEnd,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Promoted != 1 {
		t.Fatalf("expected 1 promotion, got %d", result.Promoted)
	}

	rec := mustStatus(t, store, 4)
	if rec.Status != recdb.StatusQueued {
		t.Fatalf("expected row 4 queued, got %v", rec.Status)
	}
	if rec.Rank <= 2.0 {
		t.Fatalf("expected rank beyond live maximum, got %v", rec.Rank)
	}
	if rec.Error != "" {
		t.Fatalf("expected error cleared, got %q", rec.Error)
	}
}

func TestRunLimitKeepsMostRecent(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.CreateCanonicalDB(t, time.Now().UTC()))
	runner := newRunner(t, store, &countingBackup{}, answer("yes\n"))

	result, err := runner.Run(context.Background(), requeue.Options{
		Titles:   []string{"The Test Show"},
		Position: recdb.PositionEnd,
		Limit:    1,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Promoted != 1 {
		t.Fatalf("expected 1 promotion, got %d", result.Promoted)
	}

	// Row 3 was updated today, row 7 yesterday; recency wins the limit.
	if rec := mustStatus(t, store, 3); rec.Status != recdb.StatusQueued {
		t.Fatalf("expected most recent row promoted, got %v", rec.Status)
	}
	if rec := mustStatus(t, store, 7); rec.Status != recdb.StatusFailed {
		t.Fatalf("expected older row untouched, got %v", rec.Status)
	}
}

func TestRunDryRunIsANoOp(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.CreateCanonicalDB(t, time.Now().UTC()))
	backup := &countingBackup{}
	runner := newRunner(t, store, backup, refuseConfirmer{t})

	result, err := runner.Run(context.Background(), requeue.Options{
		Titles:   []string{"The Test Show"},
		Position: recdb.PositionEnd,
		DryRun:   true,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !result.DryRun {
		t.Fatal("expected dry-run result")
	}
	if len(result.Plan.Proposals) != 2 {
		t.Fatalf("expected 2 proposals, got %d", len(result.Plan.Proposals))
	}
	if len(result.Live) != 2 {
		t.Fatalf("expected live queue snapshot, got %d rows", len(result.Live))
	}
	if backup.calls != 0 {
		t.Fatalf("dry run must not back up, got %d calls", backup.calls)
	}
	for _, id := range []int64{3, 7} {
		if rec := mustStatus(t, store, id); rec.Status != recdb.StatusFailed {
			t.Fatalf("dry run mutated row %d: %v", id, rec.Status)
		}
	}
}

func TestRunDryRunExportsCSV(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.CreateCanonicalDB(t, time.Now().UTC()))
	runner := newRunner(t, store, &countingBackup{}, refuseConfirmer{t})

	outPath := filepath.Join(t.TempDir(), "proposal.csv")
	_, err := runner.Run(context.Background(), requeue.Options{
		Titles:       []string{"The Test Show"},
		Position:     recdb.PositionEnd,
		DryRun:       true,
		DryRunOutput: outPath,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "ID,Title,Episode,Status,Updated,NewRank") {
		t.Fatalf("export missing header:\n%s", content)
	}
	if !strings.Contains(content, "The Test Show") {
		t.Fatalf("export missing proposals:\n%s", content)
	}
}

func TestRunPositionAfterAssignsFractionalRank(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.CreateCanonicalDB(t, time.Now().UTC()))
	runner := newRunner(t, store, &countingBackup{}, answer("YES\n"))

	_, err := runner.Run(context.Background(), requeue.Options{
		Titles:     []string{"Old Show"},
		Position:   recdb.PositionAfter,
		AfterTitle: "The Test Show",
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	rec := mustStatus(t, store, 6)
	if math.Abs(rec.Rank-1.001) > 1e-9 {
		t.Fatalf("expected rank 1.001, got %v", rec.Rank)
	}
}

func TestRunAnchorNotFoundLeavesDatabaseUntouched(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.CreateCanonicalDB(t, time.Now().UTC()))
	backup := &countingBackup{}
	runner := newRunner(t, store, backup, refuseConfirmer{t})

	_, err := runner.Run(context.Background(), requeue.Options{
		Titles:     []string{"Old Show"},
		Position:   recdb.PositionAfter,
		AfterTitle: "No Such Show",
	})
	if !errors.Is(err, recdb.ErrAnchorNotFound) {
		t.Fatalf("expected ErrAnchorNotFound, got %v", err)
	}
	if backup.calls != 0 {
		t.Fatal("read-phase failure must not trigger a backup")
	}
	if rec := mustStatus(t, store, 6); rec.Status != recdb.StatusFailed {
		t.Fatalf("expected row 6 untouched, got %v", rec.Status)
	}
}

func TestRunBackupGating(t *testing.T) {
	t.Run("default backs up once", func(t *testing.T) {
		store := testsupport.MustOpenStore(t, testsupport.CreateCanonicalDB(t, time.Now().UTC()))
		backup := &countingBackup{}
		runner := newRunner(t, store, backup, answer("yes\n"))

		result, err := runner.Run(context.Background(), requeue.Options{
			Titles:   []string{"Test Movie Two"},
			Position: recdb.PositionEnd,
		})
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if backup.calls != 1 {
			t.Fatalf("expected exactly one backup, got %d", backup.calls)
		}
		if result.BackupPath == "" {
			t.Fatal("expected backup path in result")
		}
	})

	t.Run("no-backup suppresses the copy", func(t *testing.T) {
		store := testsupport.MustOpenStore(t, testsupport.CreateCanonicalDB(t, time.Now().UTC()))
		backup := &countingBackup{}
		runner := newRunner(t, store, backup, answer("yes\n"))

		_, err := runner.Run(context.Background(), requeue.Options{
			Titles:   []string{"Test Movie Two"},
			Position: recdb.PositionEnd,
			NoBackup: true,
		})
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if backup.calls != 0 {
			t.Fatalf("expected no backup, got %d", backup.calls)
		}
	})
}

func TestRunBackupFailureAbortsBeforeWrite(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.CreateCanonicalDB(t, time.Now().UTC()))
	runner := newRunner(t, store, &countingBackup{fail: true}, answer("yes\n"))

	_, err := runner.Run(context.Background(), requeue.Options{
		Titles:   []string{"Test Movie Two"},
		Position: recdb.PositionEnd,
	})
	if err == nil {
		t.Fatal("expected backup failure to surface")
	}
	if rec := mustStatus(t, store, 4); rec.Status != recdb.StatusFailed {
		t.Fatalf("expected no write after backup failure, got %v", rec.Status)
	}
}

func TestRunConfirmationGating(t *testing.T) {
	for _, tc := range []struct {
		name  string
		input string
	}{
		{"explicit no", "no\n"},
		{"anything else", "y\n"},
		{"closed input", ""},
	} {
		t.Run(tc.name, func(t *testing.T) {
			store := testsupport.MustOpenStore(t, testsupport.CreateCanonicalDB(t, time.Now().UTC()))
			backup := &countingBackup{}
			runner := newRunner(t, store, backup, answer(tc.input))

			result, err := runner.Run(context.Background(), requeue.Options{
				Titles:   []string{"Test Movie Two"},
				Position: recdb.PositionEnd,
			})
			if err != nil {
				t.Fatalf("Run failed: %v", err)
			}
			if !result.Declined {
				t.Fatal("expected declined result")
			}
			if backup.calls != 0 {
				t.Fatal("decline must come before the backup")
			}
			if rec := mustStatus(t, store, 4); rec.Status != recdb.StatusFailed {
				t.Fatalf("decline mutated the database: %v", rec.Status)
			}
		})
	}
}

func TestRunAssumeYesSkipsPrompt(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.CreateCanonicalDB(t, time.Now().UTC()))
	runner := newRunner(t, store, &countingBackup{}, requeue.AutoConfirmer{})

	result, err := runner.Run(context.Background(), requeue.Options{
		Titles:    []string{"Test Movie Two"},
		Position:  recdb.PositionEnd,
		AssumeYes: true,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Promoted != 1 {
		t.Fatalf("expected promotion, got %d", result.Promoted)
	}
}

func TestRunZeroCandidatesIsCleanNoOp(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.CreateCanonicalDB(t, time.Now().UTC()))
	backup := &countingBackup{}
	runner := newRunner(t, store, backup, refuseConfirmer{t})

	result, err := runner.Run(context.Background(), requeue.Options{
		Titles:   []string{"Unknown Show"},
		Position: recdb.PositionEnd,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(result.Plan.Proposals) != 0 || result.Promoted != 0 {
		t.Fatalf("expected empty result, got %+v", result)
	}
	if backup.calls != 0 {
		t.Fatal("no-match run must not back up")
	}
}

func TestRunInvalidSinceToken(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.CreateCanonicalDB(t, time.Now().UTC()))
	runner := newRunner(t, store, &countingBackup{}, refuseConfirmer{t})

	_, err := runner.Run(context.Background(), requeue.Options{
		Since:    "fortnight",
		Position: recdb.PositionEnd,
	})
	if !errors.Is(err, recdb.ErrInvalidSince) {
		t.Fatalf("expected ErrInvalidSince, got %v", err)
	}
}

func TestRunEndToEndScenario(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	store := testsupport.MustOpenStore(t, testsupport.CreateCanonicalDB(t, now))
	stamp := now.Add(2 * time.Minute)
	runner := newRunner(t, store, &countingBackup{}, answer("yes\n"))
	runner.Now = func() time.Time { return stamp }

	result, err := runner.Run(context.Background(), requeue.Options{
		Titles:   []string{"The Test Show"},
		Position: recdb.PositionEnd,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Promoted != 2 {
		t.Fatalf("expected 2 promotions, got %d", result.Promoted)
	}

	// Live maximum was 2.0; candidate order is updated-descending, so the
	// most recent failure (row 3) takes 3.0 and yesterday's (row 7) 4.0.
	rec3 := mustStatus(t, store, 3)
	rec7 := mustStatus(t, store, 7)
	if rec3.Rank != 3.0 || rec7.Rank != 4.0 {
		t.Fatalf("unexpected ranks: row3=%v row7=%v", rec3.Rank, rec7.Rank)
	}
	for _, rec := range []recdb.Recording{rec3, rec7} {
		if rec.Status != recdb.StatusQueued {
			t.Fatalf("expected queued status, got %v", rec.Status)
		}
		if rec.Error != "" {
			t.Fatalf("expected error cleared, got %q", rec.Error)
		}
		if !rec.Updated.Equal(stamp) || !rec.Queued.Equal(stamp) {
			t.Fatalf("expected shared stamp %v, got updated=%v queued=%v", stamp, rec.Updated, rec.Queued)
		}
	}

	// The partial episode and the other series stay terminal.
	if rec := mustStatus(t, store, 5); rec.Status != recdb.StatusPartial {
		t.Fatalf("partial row mutated: %v", rec.Status)
	}
	if rec := mustStatus(t, store, 6); rec.Status != recdb.StatusFailed {
		t.Fatalf("other series mutated: %v", rec.Status)
	}
}

func TestPromptConfirmerOnlyAcceptsYes(t *testing.T) {
	cases := []struct {
		input    string
		expected bool
	}{
		{"yes\n", true},
		{"YES\n", true},
		{"  yes  \n", true},
		{"y\n", false},
		{"no\n", false},
		{"", false},
		{"yes", true}, // EOF right after the word still counts
	}
	for _, tc := range cases {
		confirmer := requeue.PromptConfirmer{In: strings.NewReader(tc.input), Out: io.Discard}
		got, err := confirmer.Confirm("proceed?")
		if err != nil {
			t.Fatalf("Confirm(%q) failed: %v", tc.input, err)
		}
		if got != tc.expected {
			t.Fatalf("Confirm(%q) = %v, expected %v", tc.input, got, tc.expected)
		}
	}
}
