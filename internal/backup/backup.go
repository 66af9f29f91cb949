// Package backup creates timestamped copies of the recording database
// before any mutation touches it.
package backup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// StampFormat names backup files the same way the historical tooling did:
// recording.db.bak-YYYYMMDD-HHMMSS.
const StampFormat = "20060102-150405"

// Service copies database files into a destination directory. An empty Dir
// places backups next to the source file.
type Service struct {
	Dir string
}

// Create produces a byte-identical copy of src named with the provided
// stamp and returns the backup path. The stamp is supplied by the caller so
// every backup within one invocation shares the same value.
func (s Service) Create(src string, stamp time.Time) (string, error) {
	dir := s.Dir
	if dir == "" {
		dir = filepath.Dir(src)
	}

	name := fmt.Sprintf("%s.bak-%s", filepath.Base(src), stamp.UTC().Format(StampFormat))
	dst := filepath.Join(dir, name)

	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("open backup source: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create backup file: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return "", fmt.Errorf("copy database to backup: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return "", fmt.Errorf("finalize backup file: %w", err)
	}
	return dst, nil
}
