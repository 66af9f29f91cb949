// Package recdb reads and selectively mutates the PlayOn Home recording
// database (recording.db). The database is owned by PlayOn; this package
// never creates, deletes, or restructures rows. It exposes the row model,
// the filter predicate builder, the rank allocator, and the transactional
// promotion that re-queues failed or partial recordings.
//
// All write access goes through a Store opened with exclusive file locking
// so a running PlayOn instance fails the open instead of fighting over the
// file. Timestamps in the database are naive UTC text in the
// "YYYY-MM-DD HH:MM:SS" format; every value written back uses the same
// format.
package recdb
