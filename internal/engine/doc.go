// Package engine implements fault-ranked test prioritization.
//
// The engine consumes an externally produced fault ranking (source files
// ordered by defect probability) and a coverage index, and emits candidate
// tests one at a time in fault-relevance order.
//
// Selection is a grouped state machine with lazy refill: fault units are
// taken from the ranking in batches of GroupSize; every candidate test
// whose covered lines intersect a batched unit's owned lines joins the
// current wave. Waves drain one test per SelectNext call. When the ranking
// is exhausted the engine falls back to a terminal wave holding the
// remaining candidates in input order, which guarantees every candidate is
// emitted exactly once.
//
// An optional secondary objective (a stable total order) sorts each wave
// before extraction.
//
// The engine is single-threaded: selection is pure in-memory work driven
// by one prioritization loop, after an initialization phase that performed
// all I/O.
package engine
