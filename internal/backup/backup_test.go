package backup_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"playonctl/internal/backup"
)

func TestCreateCopiesBytesExactly(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "recording.db")
	payload := []byte("sqlite payload \x00\x01\x02 with binary bytes")
	if err := os.WriteFile(src, payload, 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	stamp := time.Date(2026, time.August, 31, 10, 30, 0, 0, time.UTC)
	path, err := backup.Service{}.Create(src, stamp)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if filepath.Dir(path) != dir {
		t.Fatalf("expected sibling backup, got %s", path)
	}
	if !strings.HasSuffix(path, "recording.db.bak-20260831-103000") {
		t.Fatalf("unexpected backup name: %s", path)
	}

	copied, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}
	if !bytes.Equal(copied, payload) {
		t.Fatal("backup is not byte-identical to the source")
	}
}

func TestCreateHonorsExplicitDirectory(t *testing.T) {
	srcDir := t.TempDir()
	dstDir := t.TempDir()
	src := filepath.Join(srcDir, "recording.db")
	if err := os.WriteFile(src, []byte("data"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	path, err := backup.Service{Dir: dstDir}.Create(src, time.Now())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if filepath.Dir(path) != dstDir {
		t.Fatalf("expected backup in %s, got %s", dstDir, path)
	}
}

func TestCreateFailsOnMissingSource(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "gone.db")
	if _, err := (backup.Service{}).Create(missing, time.Now()); err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestCreateFailsOnUnwritableDestination(t *testing.T) {
	src := filepath.Join(t.TempDir(), "recording.db")
	if err := os.WriteFile(src, []byte("data"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	dst := filepath.Join(t.TempDir(), "does", "not", "exist")
	if _, err := (backup.Service{Dir: dst}).Create(src, time.Now()); err == nil {
		t.Fatal("expected error for unwritable destination")
	}
}
