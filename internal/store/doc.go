// Package store provides SQLite-backed persistence for prioritization
// runs.
//
// Each run is one row in `runs` (UUIDv7 id, creation time, parameters)
// plus one row per emitted test in `run_tests`, keyed by emission
// sequence. The per-test rows snapshot the history statistics that were
// current when the ordering was produced, so reports stay meaningful after
// the history log moves on.
//
// Database configuration:
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: referential integrity between runs and run_tests
//
// All report queries order by the emission sequence, never by wall time.
package store
