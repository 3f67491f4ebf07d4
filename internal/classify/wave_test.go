package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/schedlens/schedlens/internal/model"
)

// TestWaveFor_Rules exercises the first-match-wins ladder.
func TestWaveFor_Rules(t *testing.T) {
	tests := []struct {
		name     string
		d        model.Difficulty
		critical bool
		preds    int
		succs    int
		want     int
	}{
		{"easy disconnected", model.DifficultyEasy, false, 0, 0, 1},
		{"easy few deps", model.DifficultyEasy, false, 1, 1, 2},
		{"medium few deps", model.DifficultyMedium, false, 2, 0, 2},
		{"medium many deps", model.DifficultyMedium, false, 3, 2, 3},
		{"easy but critical, no deps under threshold", model.DifficultyEasy, true, 4, 0, 3},
		{"critical hard still wave 3", model.DifficultyHard, true, 5, 5, 3},
		{"hard", model.DifficultyHard, false, 5, 5, 5},
		{"hard no deps", model.DifficultyHard, false, 0, 0, 5},
		{"easy many deps falls through to 3", model.DifficultyEasy, false, 10, 0, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WaveFor(tt.d, tt.critical, tt.preds, tt.succs, DefaultWave2Threshold)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestWaveFor_CriticalBeforeHard: rule 3 (critical) fires before rule 5.
func TestWaveFor_CriticalBeforeHard(t *testing.T) {
	assert.Equal(t, 3, WaveFor(model.DifficultyHard, true, 9, 9, DefaultWave2Threshold))
}

// TestWaveFor_ThresholdConfigurable: a larger threshold widens Wave 2.
func TestWaveFor_ThresholdConfigurable(t *testing.T) {
	assert.Equal(t, 3, WaveFor(model.DifficultyMedium, false, 4, 0, DefaultWave2Threshold))
	assert.Equal(t, 2, WaveFor(model.DifficultyMedium, false, 4, 0, 10))
}

// TestWaveFor_Total: every combination lands in exactly one of 1..5.
func TestWaveFor_Total(t *testing.T) {
	for _, d := range []model.Difficulty{model.DifficultyEasy, model.DifficultyMedium, model.DifficultyHard} {
		for _, critical := range []bool{false, true} {
			for preds := 0; preds <= 6; preds++ {
				for succs := 0; succs <= 6; succs++ {
					w := WaveFor(d, critical, preds, succs, DefaultWave2Threshold)
					assert.GreaterOrEqual(t, w, 1)
					assert.LessOrEqual(t, w, 5)
				}
			}
		}
	}
}

// TestTopologyFor covers all four buckets; the three named ones are disjoint
// by construction of the switch, pinned here anyway.
func TestTopologyFor(t *testing.T) {
	assert.Equal(t, model.TopologyIsolated, TopologyFor(0, 0))
	assert.Equal(t, model.TopologyLeaf, TopologyFor(3, 0))
	assert.Equal(t, model.TopologyRoot, TopologyFor(0, 2))
	assert.Equal(t, model.TopologyNone, TopologyFor(1, 1))
}
