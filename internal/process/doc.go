// Package process locates and controls the PlayOn Home executables that
// hold the recording database open. The queue tooling only talks to the
// Controller interface so the re-queue core stays testable without touching
// the host process table.
package process
