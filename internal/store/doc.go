// Package store persists analysis runs to SQLite.
//
// The store is a boundary concern: the analyzer itself never touches it.
// The analyze command saves a finished report here so report, waves, and
// follow-up queries can read results back without re-running the analysis.
//
// DESIGN:
//   - Single writer (MaxOpenConns=1) to avoid SQLITE_BUSY
//   - WAL mode so readers don't block the writer
//   - Whole-report transactions: a run is either fully saved or absent
//   - PRAGMA user_version schema migrations
package store
