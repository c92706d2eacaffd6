// Package store provides SQLite-backed durable storage for record snapshots.
//
// A dataset is a named collection holding exactly one snapshot. Importing
// replaces the snapshot wholesale inside one transaction, mirroring the
// in-memory row store; records are never patched in place.
//
// # Critical Patterns
//
// Stable ordering
//   - Every record keeps its snapshot position in seq INTEGER
//   - All queries end their ORDER BY with seq ASC
//   - Equal sort keys therefore keep snapshot order, as the in-memory sort does
//
// Server-driven pages
//   - QueryPage compiles filter, sort and page state with package querysql
//   - Substring filters run against a folded text document written at import,
//     so SQL matching agrees with the in-memory filter stage
//   - Total counts the filtered set independently of the page window
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Snapshot ids are UUIDv7 by default so they sort by creation time.
package store
