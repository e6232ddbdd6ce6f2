// Package store provides a SQLite-backed archive of rendered reports.
//
// The archive keeps the latest document for every report path together
// with the sequence diagrams embedded in it:
//   - Runs: one row per render invocation, ordered by a logical seq
//   - Reports: the finished HTML document, its status and content digest
//   - Diagrams: canonical SVG and source markup, by position in the report
//
// Captured values are never stored; only finished output is.
//
// # Deterministic Query Results
//
// Listings are ordered with ORDER BY ... COLLATE BINARY so identical
// archives list identically regardless of locale.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Digests are SHA-256 with domain separation, see Digest.
package store
