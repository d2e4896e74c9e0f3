package replay

import (
	"github.com/zeu5/rl-replay/types"
)

// Cursor selects a step of the trace log. Episode is a position in the log,
// Step a position in the episode.
type Cursor struct {
	Episode int `json:"episode"`
	Step    int `json:"step"`
}

// View holds everything rendered for a single cursor position. It is
// recomputed for every navigation and never stored.
type View struct {
	Variant string `json:"variant"`
	// cursor after clamping
	Cursor Cursor `json:"cursor"`
	// index of the episode as logged
	EpisodeIndex int  `json:"episode_index"`
	Steps        int  `json:"steps"`
	Empty        bool `json:"empty"`

	State       types.State `json:"state"`
	NextState   types.State `json:"next_state"`
	Action      int         `json:"action"`
	Reward      float64     `json:"reward"`
	Epsilon     float64     `json:"epsilon"`
	Done        bool        `json:"done"`
	QValues     []float64   `json:"q_values"`
	NextQValues []float64   `json:"next_q_values"`

	BestAction     int     `json:"best_action"`
	IsGreedy       bool    `json:"is_greedy"`
	NextBestAction int     `json:"next_best_action"`
	NextMaxQ       float64 `json:"next_max_q"`
	Predicted      float64 `json:"predicted"`
	BellmanTarget  float64 `json:"bellman_target"`
	TDError        float64 `json:"td_error"`
	// set for RuleTargetLoss
	Loss float64 `json:"loss"`
	// set for RuleTDUpdate
	UpdatedQ float64 `json:"updated_q"`

	Scale       ColorScale `json:"scale"`
	RewardCurve []Point    `json:"reward_curve"`
	CurveLow    float64    `json:"curve_low"`
	CurveHigh   float64    `json:"curve_high"`
}

// Color of a Q-value on the view's scale
func (v *View) Color(value float64) RGB {
	return v.Scale.Color(value)
}

// Derive computes the view of the step under the cursor. Out of range
// cursors are clamped, an absent episode or step yields an Empty view
// carrying the zero fallbacks of the variant.
func Derive(log *types.TraceLog, cursor Cursor, variant Variant) View {
	view := View{
		Variant:     variant.Name,
		Empty:       true,
		State:       types.ZeroState(variant.StateSize),
		NextState:   types.ZeroState(variant.StateSize),
		QValues:     variant.zeros(),
		NextQValues: variant.zeros(),
		RewardCurve: make([]Point, 0),
	}
	view.Cursor.Episode = ClampEpisodeIndex(log, cursor.Episode)
	episode, ok := log.Get(view.Cursor.Episode)
	if !ok {
		view.deriveValues(variant)
		return view
	}
	view.EpisodeIndex = episode.Index
	view.Steps = episode.Len()
	view.RewardCurve = RewardCurve(log.Episodes, episode.Index, variant.Curve)
	view.CurveLow, view.CurveHigh = VisibleRange(log.Episodes, episode.Index, variant.Curve)

	view.Cursor.Step = ClampStepIndex(episode, cursor.Step)
	step, ok := episode.Get(view.Cursor.Step)
	if !ok {
		view.deriveValues(variant)
		return view
	}
	view.Empty = false
	view.fill(step, variant)
	view.deriveValues(variant)
	if variant.ColorSource == ColorFromSnapshot && step.HasSnapshot() {
		view.Scale = NewColorScale(variant.Stops, step.Snapshot.Flat()...)
	}
	return view
}

// fill copies the logged fields of the step, resolving the Q-values from
// the snapshot for tabular traces.
func (v *View) fill(step *types.StepRecord, variant Variant) {
	if !step.State.IsZero() {
		v.State = step.State.Copy()
	}
	v.NextState = v.State.Copy()
	if !step.NextState.IsZero() {
		v.NextState = step.NextState.Copy()
	}
	v.Action = step.Action
	v.Reward = step.Reward
	v.Epsilon = step.Epsilon
	v.Done = step.Done

	if step.HasSnapshot() {
		v.QValues = copyValues(step.Snapshot.Row(rowOf(v.State), v.QValues))
		v.NextQValues = copyValues(step.Snapshot.Row(rowOf(v.NextState), v.NextQValues))
		return
	}
	if len(step.QValues) > 0 {
		v.QValues = copyValues(step.QValues)
	}
	if len(step.NextQValues) > 0 {
		v.NextQValues = copyValues(step.NextQValues)
	}
}

func (v *View) deriveValues(variant Variant) {
	v.BestAction = Argmax(v.QValues)
	v.IsGreedy = v.Action == v.BestAction
	v.NextBestAction = Argmax(v.NextQValues)
	v.NextMaxQ = MaxValue(v.NextQValues, 0)
	v.Predicted = valueAt(v.QValues, v.Action, 0)
	v.BellmanTarget = BellmanTarget(v.Reward, variant.Gamma, v.NextMaxQ)
	v.TDError = v.BellmanTarget - v.Predicted
	switch variant.Rule {
	case RuleTDUpdate:
		v.UpdatedQ = TDUpdate(v.Predicted, variant.Alpha, v.BellmanTarget)
	default:
		v.Loss = SquaredError(v.BellmanTarget, v.Predicted)
	}
	v.Scale = NewColorScale(variant.Stops, append(copyValues(v.QValues), v.NextQValues...)...)
}

// row of a state in a Q-table snapshot, -1 for continuous states
func rowOf(s types.State) int {
	if !s.Discrete {
		return -1
	}
	return s.Index
}

func copyValues(values []float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	return out
}
