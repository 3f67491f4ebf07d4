package analysis

import (
	"runtime"

	"github.com/schedlens/schedlens/internal/classify"
	"github.com/schedlens/schedlens/internal/graph"
)

// Options holds engine tunables. Zero value is not usable; use defaults().
type Options struct {
	limits         graph.Limits
	wave2Threshold int
	workers        int
	source         string
}

// Option configures an analysis run.
type Option func(*Options)

func defaults() Options {
	return Options{
		limits:         graph.DefaultLimits,
		wave2Threshold: classify.DefaultWave2Threshold,
		workers:        runtime.NumCPU(),
	}
}

// WithMaxNodes caps the graph node count. <=0 disables the cap.
func WithMaxNodes(n int) Option {
	return func(o *Options) { o.limits.MaxNodes = n }
}

// WithMaxEdges caps the graph edge count. <=0 disables the cap.
func WithMaxEdges(n int) Option {
	return func(o *Options) { o.limits.MaxEdges = n }
}

// WithWave2Threshold sets the "low dependency count" cutoff for Wave 2.
func WithWave2Threshold(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.wave2Threshold = n
		}
	}
}

// WithWorkers sets the scoring worker count. Worker count never affects
// results, only wall time; <=0 falls back to runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithSource records the export path on the report, for provenance only.
func WithSource(path string) Option {
	return func(o *Options) { o.source = path }
}
