package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schedlens/schedlens/internal/model"
	"github.com/schedlens/schedlens/internal/testutil"
)

// TestNewIndex_ProducersAndConsumers tests the basic name->ids maps.
func TestNewIndex_ProducersAndConsumers(t *testing.T) {
	snap := testutil.NewSnapshot().
		Job("F1", "X", nil, []string{"C1"}).
		Job("F1", "Y", []string{"C1"}, nil).
		Job("F1", "Z", []string{"C1"}, []string{"C1"}).
		Build()

	idx := NewIndex(snap)

	assert.Equal(t, []model.JobID{0, 2}, idx.Producers("C1"), "producers in snapshot order")
	assert.Equal(t, []model.JobID{1, 2}, idx.Consumers("C1"), "consumers in snapshot order")
	assert.Nil(t, idx.Producers("C2"), "unknown name has no producers")
}

// TestNewIndex_MultipleProducersKept tests the ambiguity policy: every
// producer of a name stays a valid upstream source.
func TestNewIndex_MultipleProducersKept(t *testing.T) {
	snap := testutil.NewSnapshot().
		Job("F1", "P1", nil, []string{"SHARED"}).
		Job("F2", "P2", nil, []string{"SHARED"}).
		Job("F3", "P3", nil, []string{"SHARED"}).
		Job("F1", "C", []string{"SHARED"}, nil).
		Build()

	idx := NewIndex(snap)
	require.Len(t, idx.Producers("SHARED"), 3)
}

// TestNormalizeName_NFC tests that canonically-equal names link. "é" can be
// encoded precomposed (U+00E9) or decomposed (e + U+0301); both must index
// under the same key.
func TestNormalizeName_NFC(t *testing.T) {
	precomposed := "JOB-é-OK"
	decomposed := "JOB-é-OK"
	require.NotEqual(t, precomposed, decomposed, "sanity: byte-different inputs")

	assert.Equal(t, NormalizeName(precomposed), NormalizeName(decomposed))
	assert.Equal(t, "TRIMMED", NormalizeName("  TRIMMED\t"))
}

// TestNewIndex_NormalizesNames tests that the index itself applies
// normalization, so byte-different spellings of one name share an entry.
func TestNewIndex_NormalizesNames(t *testing.T) {
	snap := testutil.NewSnapshot().
		Job("F1", "P", nil, []string{"COND-é"}).
		Job("F1", "C", []string{"COND-é"}, nil).
		Build()

	idx := NewIndex(snap)
	name := NormalizeName("COND-é")
	assert.Equal(t, []model.JobID{0}, idx.Producers(name))
	assert.Equal(t, []model.JobID{1}, idx.Consumers(name))
}

// TestIndex_EmptyNamesSkipped tests that blank condition names never index.
func TestIndex_EmptyNamesSkipped(t *testing.T) {
	snap := testutil.NewSnapshot().
		Job("F1", "X", []string{"", "  "}, []string{""}).
		Build()

	idx := NewIndex(snap)
	assert.Equal(t, 0, idx.ConditionCount())
}

// TestIndex_ConditionCount counts distinct names across both directions.
func TestIndex_ConditionCount(t *testing.T) {
	snap := testutil.NewSnapshot().
		Job("F1", "A", []string{"IN-ONLY"}, []string{"BOTH"}).
		Job("F1", "B", []string{"BOTH"}, []string{"OUT-ONLY"}).
		Build()

	idx := NewIndex(snap)
	assert.Equal(t, 3, idx.ConditionCount())
}
