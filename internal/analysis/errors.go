package analysis

import (
	"errors"
	"fmt"

	"github.com/schedlens/schedlens/internal/graph"
)

// ErrorCode categorizes fatal analysis errors.
//
// Per-record issues (malformed records, unresolved conditions) are never
// errors: they are recovered locally and aggregated into the report's
// warnings. Cycles are findings, not errors. Only graph-global failures
// carry an ErrorCode, and they abort the run - a partial graph would
// produce misleading scores, so there is no degraded mode.
type ErrorCode string

const (
	// ErrCodeGraphTooLarge indicates the materialized graph exceeded the
	// configured node or edge limits.
	ErrCodeGraphTooLarge ErrorCode = "GRAPH_TOO_LARGE"

	// ErrCodeEmptySnapshot indicates the snapshot contained no jobs at all.
	ErrCodeEmptySnapshot ErrorCode = "EMPTY_SNAPSHOT"
)

// AnalysisError is a fatal, run-aborting error.
type AnalysisError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *AnalysisError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

// IsGraphTooLarge reports whether err is a graph-size abort.
// Uses errors.As to handle wrapped errors.
func IsGraphTooLarge(err error) bool {
	var ae *AnalysisError
	if errors.As(err, &ae) {
		return ae.Code == ErrCodeGraphTooLarge
	}
	var te *graph.TooLargeError
	return errors.As(err, &te)
}
