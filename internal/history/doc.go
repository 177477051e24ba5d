// Package history loads and queries per-test historical execution records.
//
// The source is a tabular execution log with one row per observed run of a
// test, many rows per test. Rows are indexed by revision distance: the
// absolute revision id, clamped to the current history length, gives the
// insertion position, so sparse or out-of-order revision numbering in the
// log still yields a bounded, contiguous history per test. Index 0 is the
// most recent execution.
//
// Loading is a strict, one-shot initialization phase: a missing or
// unreadable log is a configuration error before any parsing starts, and a
// malformed numeric field aborts the whole load. After a successful load
// the store is read-only and all query operations are total, returning
// documented "unknown" defaults for tests never seen in the log.
package history
