package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schedlens/schedlens/internal/model"
	"github.com/schedlens/schedlens/internal/testutil"
)

// pipelineSnapshot: F1 has a root X feeding Y; F1's X also feeds F2's Z
// across the folder boundary; A and B form a cycle; LONER is disconnected.
func pipelineSnapshot() *model.Snapshot {
	return testutil.NewSnapshot().
		Job("F1", "X", nil, []string{"C1", "C2"}).
		Job("F1", "Y", []string{"C1"}, nil).
		Job("F2", "Z", []string{"C2"}, nil).
		Job("F3", "A", []string{"BACK"}, []string{"FWD"}).
		Job("F3", "B", []string{"FWD"}, []string{"BACK"}).
		Job("F4", "LONER", nil, nil).
		Build()
}

// TestRun_EndToEnd drives the full pipeline and spot-checks every output.
func TestRun_EndToEnd(t *testing.T) {
	report, err := Run(context.Background(), pipelineSnapshot(), nil)
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 6, report.Attempted)
	assert.Equal(t, 6, report.Analyzed)
	require.Len(t, report.Jobs, 6)

	byKey := make(map[string]*model.JobResult)
	for i := range report.Jobs {
		byKey[report.Jobs[i].Key] = &report.Jobs[i]
	}

	// Topology buckets.
	assert.Equal(t, model.TopologyRoot, byKey["F1/X"].Topology)
	assert.Equal(t, model.TopologyLeaf, byKey["F1/Y"].Topology)
	assert.Equal(t, model.TopologyLeaf, byKey["F2/Z"].Topology)
	assert.Equal(t, model.TopologyIsolated, byKey["F4/LONER"].Topology)
	assert.Equal(t, model.TopologyNone, byKey["F3/A"].Topology)

	// Cycle membership and shared depth.
	assert.True(t, byKey["F3/A"].InCycle)
	assert.True(t, byKey["F3/B"].InCycle)
	assert.False(t, byKey["F1/X"].InCycle)
	assert.Equal(t, byKey["F3/A"].Depth, byKey["F3/B"].Depth)
	require.Len(t, report.Cycles, 1)
	assert.ElementsMatch(t, []string{"F3/A", "F3/B"}, report.Cycles[0].Keys)

	// Depths.
	assert.Equal(t, 0, byKey["F1/X"].Depth)
	assert.Equal(t, 1, byKey["F1/Y"].Depth)
	assert.Equal(t, 0, byKey["F4/LONER"].Depth)

	// Isolated empty job: score 0, easy, wave 1 (Scenario D).
	loner := byKey["F4/LONER"]
	assert.Equal(t, 0, loner.Score)
	assert.Equal(t, model.DifficultyEasy, loner.Difficulty)
	assert.Equal(t, 1, loner.Wave)

	// Folder classes: F1 and F2 complex (cross-folder C2), F3/F4 self-contained.
	classes := make(map[string]model.FolderClass)
	for _, fr := range report.Folders {
		classes[fr.Name] = fr.Class
	}
	assert.Equal(t, model.FolderComplex, classes["F1"])
	assert.Equal(t, model.FolderComplex, classes["F2"])
	assert.Equal(t, model.FolderSelfContained, classes["F3"])
	assert.Equal(t, model.FolderSelfContained, classes["F4"])
}

// TestRun_WaveTotality: every analyzed job gets exactly one wave in 1..5.
func TestRun_WaveTotality(t *testing.T) {
	report, err := Run(context.Background(), pipelineSnapshot(), nil)
	require.NoError(t, err)
	for _, jr := range report.Jobs {
		assert.GreaterOrEqual(t, jr.Wave, 1, "job %s", jr.Key)
		assert.LessOrEqual(t, jr.Wave, 5, "job %s", jr.Key)
	}
}

// TestRun_Deterministic: identical snapshots give identical results, and the
// worker count never changes the output.
func TestRun_Deterministic(t *testing.T) {
	base, err := Run(context.Background(), pipelineSnapshot(), nil, WithWorkers(1))
	require.NoError(t, err)

	for _, workers := range []int{1, 2, 4, 16} {
		report, err := Run(context.Background(), pipelineSnapshot(), nil, WithWorkers(workers))
		require.NoError(t, err)
		assert.Equal(t, base.Jobs, report.Jobs, "workers=%d", workers)
		assert.Equal(t, base.Folders, report.Folders, "workers=%d", workers)
		assert.Equal(t, base.Cycles, report.Cycles, "workers=%d", workers)
	}
}

// TestRun_GraphTooLarge aborts with a typed fatal error and no report.
func TestRun_GraphTooLarge(t *testing.T) {
	report, err := Run(context.Background(), pipelineSnapshot(), nil, WithMaxEdges(1))
	assert.Nil(t, report, "no partial report on abort")
	require.Error(t, err)
	assert.True(t, IsGraphTooLarge(err))

	var ae *AnalysisError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, ErrCodeGraphTooLarge, ae.Code)
}

// TestRun_EmptySnapshot is a fatal error, not an empty report.
func TestRun_EmptySnapshot(t *testing.T) {
	snap := model.NewSnapshot(nil, nil, 0)
	report, err := Run(context.Background(), snap, nil)
	assert.Nil(t, report)
	require.Error(t, err)
	assert.False(t, IsGraphTooLarge(err))
}

// TestRun_WarningsCarried: loader warnings and the attempted/analyzed gap
// appear on the report untouched.
func TestRun_WarningsCarried(t *testing.T) {
	snap := model.NewSnapshot(
		[]model.Job{{Name: "OK", FolderName: "F1"}},
		[]model.Folder{{Name: "F1"}},
		3, // two records were excluded upstream
	)
	warnings := []model.Warning{
		{Code: model.WarnMalformedRecord, Message: "job \"BAD\" references unknown folder \"GONE\""},
		{Code: model.WarnDuplicateJob, Message: "duplicate job identity \"F1/OK\""},
	}

	report, err := Run(context.Background(), snap, warnings)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Attempted)
	assert.Equal(t, 1, report.Analyzed)
	assert.Equal(t, warnings, report.Warnings)
}

// TestRun_UnresolvedMarkers: producerless in-conditions surface per job.
func TestRun_UnresolvedMarkers(t *testing.T) {
	snap := testutil.NewSnapshot().
		Job("F1", "W", []string{"UPSTREAM-FEED"}, nil).
		Build()

	report, err := Run(context.Background(), snap, nil)
	require.NoError(t, err)
	require.Len(t, report.Jobs, 1)
	assert.Equal(t, []string{"UPSTREAM-FEED"}, report.Jobs[0].Unresolved)
	assert.Equal(t, 0, report.Jobs[0].Predecessors)
}

// TestGraph_UsesSameLimits: the standalone graph constructor honors limits.
func TestGraph_UsesSameLimits(t *testing.T) {
	_, err := Graph(pipelineSnapshot(), WithMaxNodes(2))
	require.Error(t, err)
	assert.True(t, IsGraphTooLarge(err))

	g, err := Graph(pipelineSnapshot())
	require.NoError(t, err)
	assert.Equal(t, 6, g.NodeCount())
}
