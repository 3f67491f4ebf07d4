// Package model defines the record views and result types shared across the
// analyzer.
//
// Records (Job, Folder, Condition, ...) are read-only views over the
// normalized scheduler export. The analyzer never mutates them; everything it
// derives (scores, waves, depths, cycle membership) lives on separate result
// types keyed by JobID.
//
// A Snapshot is immutable once built. Re-running the analyzer on the same
// Snapshot must reproduce byte-identical results, so nothing in this package
// carries hidden state.
package model
