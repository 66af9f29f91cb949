package recdb

import "errors"

var (
	// ErrDatabaseMissing indicates the recording database file does not exist.
	ErrDatabaseMissing = errors.New("recording database not found")

	// ErrDatabaseLocked indicates another process holds the database lock,
	// usually a running PlayOn instance.
	ErrDatabaseLocked = errors.New("recording database is locked")

	// ErrInvalidSince indicates an unrecognized --since token.
	ErrInvalidSince = errors.New("invalid since value")

	// ErrAnchorNotFound indicates the after-position anchor title has no
	// live match in the queue.
	ErrAnchorNotFound = errors.New("anchor title not found in current queue")
)
