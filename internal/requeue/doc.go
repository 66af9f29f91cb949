// Package requeue promotes failed and partially recorded items back into
// the live PlayOn recording queue.
//
// The Runner drives the whole operation: select candidates through the
// recdb filter, truncate to the configured limit, plan target ranks for the
// requested queue position, and then either report the proposal (dry run)
// or walk the write gates: explicit confirmation, pre-write backup, and a
// single all-or-nothing promote transaction. Collaborators (backup
// service, confirmation prompt) are injected so every gate is testable.
package requeue
