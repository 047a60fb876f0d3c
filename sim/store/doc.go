// Package store keeps a SQLite ledger of completed simulation runs, one row
// per (lattice, M, z, seed) job with its equilibrium point and sample summary.
//
// Rows are ordered by an insertion sequence number rather than wall time, so
// listings are stable across machines and clock changes.
//
// # Database Configuration
//
//   - WAL mode: readers are not blocked while a scan is appending
//   - busy_timeout=5000: concurrent CLI invocations wait instead of failing
//   - single open connection: SQLite allows one writer
package store
