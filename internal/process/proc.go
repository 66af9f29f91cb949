package process

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sys/unix"
)

// serverSettleDelay gives the media server time to open its sockets before
// the auxiliary processes start.
const serverSettleDelay = 10 * time.Second

// Table is the Controller backed by the local process table (procfs).
type Table struct {
	// Names to match; DefaultNames when empty.
	Names []string
	// ProcRoot overrides /proc for tests.
	ProcRoot string
	// SettleDelay overrides the post-server-start wait; zero means the
	// default.
	SettleDelay time.Duration
}

func (t *Table) names() []string {
	if len(t.Names) == 0 {
		return DefaultNames
	}
	return t.Names
}

func (t *Table) procRoot() string {
	if t.ProcRoot == "" {
		return "/proc"
	}
	return t.ProcRoot
}

// Running scans the process table for matching executables.
func (t *Table) Running(ctx context.Context) ([]Process, error) {
	entries, err := os.ReadDir(t.procRoot())
	if err != nil {
		return nil, fmt.Errorf("read process table: %w", err)
	}

	var procs []Process
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pid, err := strconv.Atoi(entry.Name())
		if err != nil || !entry.IsDir() {
			continue
		}

		name := t.readName(pid)
		if !MatchName(name, t.names()) {
			continue
		}
		procs = append(procs, Process{
			PID:  pid,
			Name: name,
			Path: t.readPath(pid),
		})
	}
	return procs, nil
}

// Terminate sends SIGKILL to each process. A process that already exited is
// skipped silently.
func (t *Table) Terminate(ctx context.Context, procs []Process) error {
	for _, proc := range procs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := unix.Kill(proc.PID, unix.SIGKILL); err != nil {
			if errors.Is(err, unix.ESRCH) {
				continue
			}
			return fmt.Errorf("kill %s (pid %d): %w", proc.Name, proc.PID, err)
		}
	}
	return nil
}

// Start relaunches the executables, server first with a settle delay.
func (t *Table) Start(ctx context.Context, paths []string) error {
	server, rest := SplitRestartPaths(paths)

	if server != "" {
		if err := launch(server); err != nil {
			return fmt.Errorf("start server %s: %w", filepath.Base(server), err)
		}
		delay := t.SettleDelay
		if delay == 0 {
			delay = serverSettleDelay
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	for _, path := range rest {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := launch(path); err != nil {
			return fmt.Errorf("start %s: %w", filepath.Base(path), err)
		}
	}
	return nil
}

func (t *Table) readName(pid int) string {
	comm, err := os.ReadFile(filepath.Join(t.procRoot(), strconv.Itoa(pid), "comm"))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(comm))
}

func (t *Table) readPath(pid int) string {
	path, err := os.Readlink(filepath.Join(t.procRoot(), strconv.Itoa(pid), "exe"))
	if err != nil {
		return ""
	}
	return path
}

func launch(path string) error {
	cmd := exec.Command(path)
	if err := cmd.Start(); err != nil {
		return err
	}
	// Detach: the relaunched service outlives this invocation.
	return cmd.Process.Release()
}
