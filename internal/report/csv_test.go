package report_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"playonctl/internal/report"
)

func TestWriteQuotesEmbeddedCommas(t *testing.T) {
	var b strings.Builder
	err := report.Write(&b,
		[]string{"ID", "Title"},
		[][]string{{"3", "Brooklyn Nine-Nine, Season 1"}},
	)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	expected := "ID,Title\n3,\"Brooklyn Nine-Nine, Season 1\"\n"
	if b.String() != expected {
		t.Fatalf("unexpected csv output:\n%q", b.String())
	}
}

func TestWriteFileCreatesAndTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	if err := os.WriteFile(path, []byte("stale content"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	err := report.WriteFile(path, []string{"A"}, [][]string{{"1"}, {"2"}})
	if err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if string(data) != "A\n1\n2\n" {
		t.Fatalf("unexpected file content: %q", data)
	}
}
