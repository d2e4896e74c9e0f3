// Package replay derives the quantities displayed for a logged step of a
// training trace: greedy action, Bellman target, loss or TD update, color
// scales and reward curves.
//
// Every function of the package is pure. Out of range or missing input
// resolves to a documented fallback value instead of an error.
package replay

import (
	"math"

	"github.com/zeu5/rl-replay/types"
	"gonum.org/v1/gonum/floats"
)

// ColorEpsilon replaces a zero span when normalizing values for a color scale
const ColorEpsilon = 1e-6

// ClampStepIndex pins the requested step to the last step of the episode.
// Returns 0 for an episode without steps, the caller then treats the step as absent.
func ClampStepIndex(ep *types.Episode, requested int) int {
	if ep == nil {
		return 0
	}
	return clamp(requested, ep.Len())
}

// ClampEpisodeIndex applies the step clamping policy to the episode cursor
func ClampEpisodeIndex(log *types.TraceLog, requested int) int {
	return clamp(requested, log.Len())
}

func clamp(requested, length int) int {
	last := length - 1
	if last < 0 {
		last = 0
	}
	if requested < 0 {
		return 0
	}
	if requested > last {
		return last
	}
	return requested
}

// Argmax returns the lowest index holding the maximum value, 0 for no values.
func Argmax(values []float64) int {
	if len(values) == 0 {
		return 0
	}
	return floats.MaxIdx(values)
}

// MaxValue is values[Argmax(values)], def for no values
func MaxValue(values []float64, def float64) float64 {
	if len(values) == 0 {
		return def
	}
	return values[Argmax(values)]
}

// BellmanTarget is reward + gamma * nextMaxQ
func BellmanTarget(reward, gamma, nextMaxQ float64) float64 {
	return reward + gamma*nextMaxQ
}

// SquaredError is the loss displayed for function approximation
func SquaredError(target, predicted float64) float64 {
	d := target - predicted
	return d * d
}

// TDUpdate moves current towards target scaled by the learning rate alpha
func TDUpdate(current, alpha, target float64) float64 {
	return current + alpha*(target-current)
}

// NormalizeForColor maps value onto [0, 1] relative to [min, max].
// A zero span is replaced by ColorEpsilon.
func NormalizeForColor(value, min, max float64) float64 {
	span := max - min
	if span == 0 {
		span = ColorEpsilon
	}
	t := (value - min) / span
	if math.IsNaN(t) {
		return 0
	}
	return math.Max(0, math.Min(1, t))
}

func valueAt(values []float64, i int, def float64) float64 {
	if i < 0 || i >= len(values) {
		return def
	}
	return values[i]
}

// bounds of all the values, (0, 0) when there are none
func bounds(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	return floats.Min(values), floats.Max(values)
}
