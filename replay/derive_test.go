package replay

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/rl-replay/types"
)

const delta = 1e-9

func TestArgmax(t *testing.T) {
	cases := []struct {
		name   string
		values []float64
		want   int
	}{
		{"scenario", []float64{0.1, 0.9, 0.3, 0.2}, 1},
		{"single", []float64{-4}, 0},
		{"tie breaks low", []float64{1, 3, 3, 2}, 1},
		{"all equal", []float64{0, 0, 0, 0}, 0},
		{"negatives", []float64{-3, -1, -2}, 1},
		{"empty", nil, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, Argmax(c.values))
		})
	}
}

func TestArgmaxReturnsFirstMaximum(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for n := 0; n < 200; n++ {
		values := make([]float64, 1+r.Intn(6))
		for i := range values {
			// small integer range so ties are common
			values[i] = float64(r.Intn(4))
		}
		idx := Argmax(values)
		max := values[0]
		for _, v := range values {
			max = math.Max(max, v)
		}
		require.Equal(t, max, values[idx], "values %v", values)
		for i := 0; i < idx; i++ {
			require.Less(t, values[i], max, "values %v", values)
		}
	}
}

func TestClampStepIndex(t *testing.T) {
	ep := &types.Episode{Steps: make([]types.StepRecord, 5)}
	assert.Equal(t, 0, ClampStepIndex(ep, 0))
	assert.Equal(t, 3, ClampStepIndex(ep, 3))
	assert.Equal(t, 4, ClampStepIndex(ep, 4))
	assert.Equal(t, 4, ClampStepIndex(ep, 400))
	assert.Equal(t, 0, ClampStepIndex(ep, -2))

	empty := &types.Episode{}
	assert.Equal(t, 0, ClampStepIndex(empty, 0))
	assert.Equal(t, 0, ClampStepIndex(empty, 10))
	assert.Equal(t, 0, ClampStepIndex(nil, 10))

	for length := 0; length < 8; length++ {
		ep := &types.Episode{Steps: make([]types.StepRecord, length)}
		upper := length - 1
		if upper < 0 {
			upper = 0
		}
		for req := 0; req < 12; req++ {
			got := ClampStepIndex(ep, req)
			assert.GreaterOrEqual(t, got, 0)
			assert.LessOrEqual(t, got, upper)
		}
	}
}

func TestClampEpisodeIndex(t *testing.T) {
	log := types.NewTraceLog(types.Episode{Index: 0}, types.Episode{Index: 4})
	assert.Equal(t, 1, ClampEpisodeIndex(log, 7))
	assert.Equal(t, 0, ClampEpisodeIndex(log, -1))
	assert.Equal(t, 0, ClampEpisodeIndex(nil, 3))
	assert.Equal(t, 0, ClampEpisodeIndex(types.NewTraceLog(), 3))
}

func TestBellmanTarget(t *testing.T) {
	assert.InDelta(t, 3.95, BellmanTarget(-1, 0.99, 5.0), delta)

	for _, q := range []float64{-10, -1, 0, 2.5, 100} {
		for _, d := range []float64{-3, 0.5, 7} {
			diff := BellmanTarget(-1, 0.9, q+d) - BellmanTarget(-1, 0.9, q)
			assert.InDelta(t, 0.9*d, diff, delta)
		}
	}
}

func TestSquaredError(t *testing.T) {
	assert.InDelta(t, 3.8025, SquaredError(3.95, 2.0), delta)
	for _, v := range []float64{-5, 0, 1.25, 1e6} {
		assert.Equal(t, 0.0, SquaredError(v, v))
	}
	assert.Equal(t, SquaredError(1, 4), SquaredError(4, 1))
	assert.GreaterOrEqual(t, SquaredError(-3, 8), 0.0)
}

func TestTDUpdate(t *testing.T) {
	assert.InDelta(t, 2.195, TDUpdate(2.0, 0.1, 3.95), delta)
	for _, c := range []float64{-2, 0, 3.5} {
		for _, target := range []float64{-1, 0, 10} {
			assert.Equal(t, c, TDUpdate(c, 0, target))
			assert.InDelta(t, target, TDUpdate(c, 1, target), delta)
		}
	}
}

func TestNormalizeForColor(t *testing.T) {
	assert.Equal(t, 0.5, NormalizeForColor(7, 2, 12))
	assert.Equal(t, 0.0, NormalizeForColor(2, 2, 12))
	assert.Equal(t, 1.0, NormalizeForColor(12, 2, 12))
	// clamped
	assert.Equal(t, 0.0, NormalizeForColor(-50, 2, 12))
	assert.Equal(t, 1.0, NormalizeForColor(50, 2, 12))
	// degenerate range never divides by zero
	got := NormalizeForColor(3, 3, 3)
	assert.False(t, math.IsNaN(got))
	assert.Equal(t, 0.0, got)
	assert.Equal(t, 1.0, NormalizeForColor(4, 3, 3))
}

func TestMaxValue(t *testing.T) {
	assert.Equal(t, 0.9, MaxValue([]float64{0.1, 0.9, 0.3}, 0))
	assert.Equal(t, -7.0, MaxValue(nil, -7))
}
