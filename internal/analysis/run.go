// Package analysis orchestrates one end-to-end analysis run over an
// immutable snapshot.
//
// PIPELINE:
//
//	snapshot → condition index → graph → SCCs → depths
//	        → per-job scoring (parallel) → waves/topology
//	        → folder classification → report
//
// The index and graph are built once and shared read-only after that; the
// scoring stage partitions jobs across workers writing disjoint slots of a
// pre-sized results slice, so the output is identical for any worker count.
// Cycle detection and depth computation are graph-global and run on a single
// goroutine - neither has a meaningful partial result.
package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/schedlens/schedlens/internal/classify"
	"github.com/schedlens/schedlens/internal/graph"
	"github.com/schedlens/schedlens/internal/model"
)

// Run analyzes a snapshot and returns the complete report.
//
// warnings are the loader's per-record warnings, carried into the report so
// "attempted vs analyzed" is always explained. Run never returns a partial
// report: on a fatal error (graph limits exceeded) the report is nil.
//
// The context bounds the parallel scoring stage; cancellation surfaces as
// ctx.Err(). Everything else is CPU-bound and fast relative to scoring.
func Run(ctx context.Context, snap *model.Snapshot, warnings []model.Warning, opts ...Option) (*model.Report, error) {
	o := defaults()
	for _, opt := range opts {
		opt(&o)
	}

	if len(snap.Jobs) == 0 {
		return nil, &AnalysisError{Code: ErrCodeEmptySnapshot, Message: "snapshot contains no jobs"}
	}

	slog.Info("analysis starting",
		"jobs", len(snap.Jobs),
		"folders", len(snap.Folders),
		"workers", o.workers,
	)

	idx := graph.NewIndex(snap)
	slog.Debug("condition index built", "conditions", idx.ConditionCount())

	g, err := graph.Build(snap, idx, o.limits)
	if err != nil {
		return nil, &AnalysisError{
			Code:    ErrCodeGraphTooLarge,
			Message: "aborting: a partial graph would produce misleading scores",
			Err:     err,
		}
	}
	slog.Info("dependency graph built", "nodes", g.NodeCount(), "edges", g.EdgeCount())

	// Graph-global stages: no partial output is valid for either.
	sccs := graph.SCCs(g)
	cycles := graph.Cycles(g, sccs)
	depths := graph.Depths(g, sccs)
	slog.Info("cycle detection complete",
		"components", sccs.ComponentCount(),
		"cycles", len(cycles),
	)

	results, err := scoreJobs(ctx, snap, g, sccs, depths, &o)
	if err != nil {
		return nil, err
	}

	report := &model.Report{
		RunID:     uuid.NewString(),
		Source:    o.source,
		Attempted: snap.RecordsSeen,
		Analyzed:  len(snap.Jobs),
		Warnings:  warnings,
		Jobs:      results,
		Folders:   classify.ClassifyFolders(snap, g),
		Cycles:    cycles,
	}

	slog.Info("analysis complete",
		"run_id", report.RunID,
		"attempted", report.Attempted,
		"analyzed", report.Analyzed,
		"warnings", len(report.Warnings),
	)
	return report, nil
}

// Graph returns the materialized graph for a snapshot using the same options
// as Run, for callers that need the query surface (subgraph extraction)
// without a full classification pass.
func Graph(snap *model.Snapshot, opts ...Option) (*graph.Graph, error) {
	o := defaults()
	for _, opt := range opts {
		opt(&o)
	}
	idx := graph.NewIndex(snap)
	g, err := graph.Build(snap, idx, o.limits)
	if err != nil {
		return nil, &AnalysisError{
			Code:    ErrCodeGraphTooLarge,
			Message: "aborting: a partial graph would produce misleading scores",
			Err:     err,
		}
	}
	return g, nil
}

// scoreJobs runs the embarrassingly-parallel per-job stage: score,
// difficulty, wave, topology. Jobs are partitioned by id into contiguous
// chunks; each worker writes only its own slots, so no locking and no
// ordering sensitivity.
func scoreJobs(
	ctx context.Context,
	snap *model.Snapshot,
	g *graph.Graph,
	sccs *graph.SCCResult,
	depths []int,
	o *Options,
) ([]model.JobResult, error) {
	n := len(snap.Jobs)
	results := make([]model.JobResult, n)

	workers := o.workers
	if workers > n {
		workers = n
	}
	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		if lo >= hi {
			break
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				id := model.JobID(i)
				job := snap.Job(id)

				score := classify.Score(classify.CountsForJob(job, depths[i]))
				difficulty := classify.DifficultyFor(score)
				preds := len(g.Predecessors(id))
				succs := len(g.Successors(id))

				results[i] = model.JobResult{
					JobID:        id,
					Key:          job.Key(),
					Folder:       job.FolderName,
					Name:         job.Name,
					Score:        score,
					Difficulty:   difficulty,
					Wave:         classify.WaveFor(difficulty, job.Critical, preds, succs, o.wave2Threshold),
					Topology:     classify.TopologyFor(len(job.InConditions), len(job.OutConditions)),
					Depth:        depths[i],
					InCycle:      sccs.InCycle(id, g),
					Predecessors: preds,
					Successors:   succs,
					Unresolved:   g.Unresolved(id),
				}
			}
		}(lo, hi)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scoring cancelled: %w", err)
	}
	return results, nil
}
