package replay

import (
	"math"

	"github.com/zeu5/rl-replay/types"
)

// Anchor of the reward curve y axis
type Anchor string

var (
	// from the lowest visible reward up to 0
	AnchorMinZero Anchor = "min-zero"
	// from the lowest to the highest visible reward
	AnchorMinMax Anchor = "min-max"
)

// CurveConfig is the geometry of the reward curve plot
type CurveConfig struct {
	Width      float64 `mapstructure:"width" json:"width"`
	Height     float64 `mapstructure:"height" json:"height"`
	Padding    float64 `mapstructure:"padding" json:"padding"`
	TopMargin  float64 `mapstructure:"top_margin" json:"top_margin"`
	XDomainMax int     `mapstructure:"x_domain_max" json:"x_domain_max"`
	Anchor     Anchor  `mapstructure:"anchor" json:"anchor"`
	// Floor and Ceiling, when set, are always inside the y range
	Floor   *float64 `mapstructure:"floor" json:"floor,omitempty"`
	Ceiling *float64 `mapstructure:"ceiling" json:"ceiling,omitempty"`
}

// Point of the reward curve in plot coordinates
type Point struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Episode int     `json:"episode"`
	Reward  float64 `json:"reward"`
}

// StepX is the horizontal distance between two consecutive episodes
func (c CurveConfig) StepX() float64 {
	if c.XDomainMax <= 1 {
		return c.Width - c.Padding
	}
	return (c.Width - c.Padding) / float64(c.XDomainMax-1)
}

// X of the episode index
func (c CurveConfig) X(episode int) float64 {
	return c.Padding + float64(episode)*c.StepX()
}

// Y of the reward, given the y range [lo, hi]. A zero span maps every
// reward to the bottom of the plot.
func (c CurveConfig) Y(reward, lo, hi float64) float64 {
	span := hi - lo
	if span == 0 {
		span = 1
	}
	return c.Height - ((reward-lo)/span)*(c.Height-c.TopMargin)
}

// Range of the y axis for the given rewards
func (c CurveConfig) Range(rewards []float64) (float64, float64) {
	lo, hi := bounds(rewards)
	if c.Anchor == AnchorMinZero {
		hi = 0
	}
	if c.Floor != nil {
		lo = math.Min(lo, *c.Floor)
	}
	if c.Ceiling != nil {
		hi = math.Max(hi, *c.Ceiling)
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi
}

// Ticks labelled on the y axis: bottom, middle and top of the range
func Ticks(lo, hi float64) []float64 {
	return []float64{lo, (lo + hi) / 2, hi}
}

// Visible episodes are the ones with an index up to upto, in log order
func Visible(episodes []types.Episode, upto int) []types.Episode {
	out := make([]types.Episode, 0, len(episodes))
	for _, ep := range episodes {
		if ep.Index <= upto {
			out = append(out, ep)
		}
	}
	return out
}

// VisibleRange is the y range of the curve for the visible episodes
func VisibleRange(episodes []types.Episode, upto int, cfg CurveConfig) (float64, float64) {
	return cfg.Range(rewardsOf(Visible(episodes, upto)))
}

// RewardCurve projects the total reward of every episode with index up to
// upto onto plot coordinates. The result only depends on the arguments.
func RewardCurve(episodes []types.Episode, upto int, cfg CurveConfig) []Point {
	visible := Visible(episodes, upto)
	points := make([]Point, len(visible))
	if len(visible) == 0 {
		return points
	}
	lo, hi := cfg.Range(rewardsOf(visible))
	for i, ep := range visible {
		points[i] = Point{
			X:       cfg.X(ep.Index),
			Y:       cfg.Y(ep.TotalReward, lo, hi),
			Episode: ep.Index,
			Reward:  ep.TotalReward,
		}
	}
	return points
}

func rewardsOf(episodes []types.Episode) []float64 {
	rewards := make([]float64, len(episodes))
	for i, ep := range episodes {
		rewards[i] = ep.TotalReward
	}
	return rewards
}
