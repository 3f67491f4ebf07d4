package classify

import "github.com/schedlens/schedlens/internal/model"

// DefaultWave2Threshold is the "low dependency count" cutoff for Wave 2:
// jobs with fewer total dependencies than this qualify. Kept small so Wave 2
// stays an early-win bucket; tunable via analysis options.
const DefaultWave2Threshold = 3

// WaveFor assigns the score-based migration wave (1..5), first match wins:
//
//  1. easy, fully disconnected (no predecessors, no successors)
//  2. easy or medium with a low dependency count (< threshold)
//  3. medium difficulty, or the critical flag is set
//  4. medium with at least one dependency
//  5. hard
//
// The rules as stated do not cover every combination (an easy, non-critical
// job with many dependencies matches none of them); such jobs land in Wave 3,
// the middle of the rollout. Total: every job gets exactly one wave.
func WaveFor(d model.Difficulty, critical bool, preds, succs, wave2Threshold int) int {
	deps := preds + succs
	switch {
	case d == model.DifficultyEasy && deps == 0:
		return 1
	case (d == model.DifficultyEasy || d == model.DifficultyMedium) && deps < wave2Threshold:
		return 2
	case d == model.DifficultyMedium || critical:
		return 3
	case d == model.DifficultyMedium && deps > 0:
		return 4
	case d == model.DifficultyHard:
		return 5
	default:
		return 3
	}
}

// TopologyFor buckets a job by its own condition counts. The three named
// buckets are pairwise disjoint; jobs with both in- and out-conditions get
// TopologyNone and are visible only through folder classification.
func TopologyFor(inConds, outConds int) model.Topology {
	switch {
	case inConds == 0 && outConds == 0:
		return model.TopologyIsolated
	case inConds > 0 && outConds == 0:
		return model.TopologyLeaf
	case inConds == 0 && outConds > 0:
		return model.TopologyRoot
	default:
		return model.TopologyNone
	}
}
