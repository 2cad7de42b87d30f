// Package store provides SQLite-backed storage for composition runs.
//
// A run is one pass of a sentence suite over a rule table. The store keeps:
//   - Runs: suite, rule file, composer flags and overall result
//   - Sentences: status, term, type and failed expectations per sentence
//   - Warnings: weak type matches raised while composing a sentence
//
// Runs are identified by UUIDv7 and ordered by an insertion sequence, never
// by wall time. Writes are idempotent: storing a run ID twice keeps the
// first copy.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
