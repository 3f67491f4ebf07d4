// Package classify turns graph-derived facts into migration-planning labels:
// complexity scores, difficulty buckets, waves, and topology classes.
// Everything in it is a pure function of its inputs.
package classify

import "github.com/schedlens/schedlens/internal/model"

// Score weights, tuned against migration-effort estimates from completed
// conversions. Control resources appear twice on purpose: a lock is both a
// cross-job dependency (WeightDependency) and an operational constraint
// (WeightResource).
const (
	WeightDependency = 3 // in-conditions + control resources
	WeightDepth      = 5
	WeightCondition  = 2 // in- + out-conditions
	WeightVariable   = 1 // variables + auto-edits
	WeightOnBase     = 4 // per ON block, plus 1 per action in it
	WeightCyclicFlag = 15
	WeightResource   = 3 // quantitative + control resources
	WeightScheduling = 2 // per scheduling feature
)

// Difficulty bucket boundaries.
const (
	EasyMax   = 30
	MediumMax = 60
)

// Counts are the per-job inputs to Score. Extracted from a Job plus its
// computed dependency depth so the scorer itself never touches the graph.
type Counts struct {
	InConditions       int
	OutConditions      int
	ControlRes         int
	QuantitativeRes    int
	Variables          int
	AutoEdits          int
	OnActionCounts     []int // one entry per ON block: number of actions in it
	Depth              int
	Cyclic             bool
	SchedulingFeatures int
}

// CountsForJob extracts scoring inputs from a job record and its depth.
func CountsForJob(job *model.Job, depth int) Counts {
	onActions := make([]int, len(job.OnConditions))
	for i, on := range job.OnConditions {
		onActions[i] = len(on.Actions)
	}
	return Counts{
		InConditions:       len(job.InConditions),
		OutConditions:      len(job.OutConditions),
		ControlRes:         len(job.ControlResources),
		QuantitativeRes:    len(job.QuantitativeResources),
		Variables:          len(job.Variables),
		AutoEdits:          len(job.AutoEdits),
		OnActionCounts:     onActions,
		Depth:              depth,
		Cyclic:             job.Cyclic,
		SchedulingFeatures: job.SchedulingFeatureCount(),
	}
}

// Score computes the weighted complexity score. Deterministic, no state.
func Score(c Counts) int {
	score := WeightDependency * (c.InConditions + c.ControlRes)
	score += WeightDepth * c.Depth
	score += WeightCondition * (c.InConditions + c.OutConditions)
	score += WeightVariable * (c.Variables + c.AutoEdits)
	for _, actions := range c.OnActionCounts {
		score += WeightOnBase + actions
	}
	if c.Cyclic {
		score += WeightCyclicFlag
	}
	score += WeightResource * (c.QuantitativeRes + c.ControlRes)
	score += WeightScheduling * c.SchedulingFeatures
	return score
}

// DifficultyFor buckets a score: easy <=30, medium 31..60, hard >=61.
func DifficultyFor(score int) model.Difficulty {
	switch {
	case score <= EasyMax:
		return model.DifficultyEasy
	case score <= MediumMax:
		return model.DifficultyMedium
	default:
		return model.DifficultyHard
	}
}
