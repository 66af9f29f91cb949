package process

import (
	"context"
	"path/filepath"
	"strings"
)

// Process identifies one running PlayOn executable.
type Process struct {
	PID  int
	Name string
	// Path is the executable path when it could be resolved; restart uses
	// it to relaunch the process after the database work is done.
	Path string
}

// Controller enumerates, terminates, and restarts the blocking processes.
type Controller interface {
	// Running returns the matching processes currently alive.
	Running(ctx context.Context) ([]Process, error)
	// Terminate forcibly stops the given processes. Processes that exit
	// before the signal lands are not an error.
	Terminate(ctx context.Context, procs []Process) error
	// Start relaunches executables by path, server binary first.
	Start(ctx context.Context, paths []string) error
}

// DefaultNames are the PlayOn Home executables that keep recording.db open.
var DefaultNames = []string{
	"PlayOn",
	"MediaMallServer",
	"MediaMall",
	"SettingsManager",
	"POC-Downloader",
}

// ServerName is the executable restarted first, with a settle delay, before
// the auxiliary processes.
const ServerName = "MediaMallServer"

// MatchName reports whether an observed process name matches one of the
// configured targets. Comparison is case-insensitive and ignores a .exe
// suffix so the same configuration works against Wine or native listings.
func MatchName(observed string, targets []string) bool {
	name := normalizeName(observed)
	if name == "" {
		return false
	}
	for _, target := range targets {
		if name == normalizeName(target) {
			return true
		}
	}
	return false
}

// SplitRestartPaths partitions executable paths into the server binary and
// everything else, preserving order within the remainder.
func SplitRestartPaths(paths []string) (server string, rest []string) {
	for _, path := range paths {
		if path == "" {
			continue
		}
		if server == "" && normalizeName(filepath.Base(path)) == normalizeName(ServerName) {
			server = path
			continue
		}
		rest = append(rest, path)
	}
	return server, rest
}

func normalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.TrimSuffix(name, ".exe")
}
