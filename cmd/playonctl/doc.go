// Package main hosts the playonctl CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into
// operations against the PlayOn Home recording database: re-queueing failed
// recordings, inspecting the queue and the schema, exporting failure
// reports, and controlling the PlayOn processes that hold the database open.
// It centralizes configuration resolution, database access, and structured
// logging setup so subcommands can focus on user experience instead of
// wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
