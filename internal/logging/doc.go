// Package logging assembles the structured slog loggers used across the
// playonctl commands.
//
// It owns the console and JSON handler selection, centralizes level
// parsing, and stamps every invocation with a run identifier so a backup,
// its confirmation, and the promote transaction can be correlated in one
// log stream. Prefer these constructors over hand-rolled slog setup.
package logging
