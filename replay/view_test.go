package replay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/rl-replay/types"
)

func mustVariant(t *testing.T, name string) Variant {
	t.Helper()
	v, ok := LookupVariant(name)
	require.True(t, ok, "variant %s", name)
	return v
}

func tabularLog() *types.TraceLog {
	snapshot := make(types.QTable, 48)
	for s := range snapshot {
		snapshot[s] = []float64{0, 0, 0, 0}
	}
	snapshot[36] = []float64{-1, 2.0, -3, -2}
	snapshot[24] = []float64{1, 5.0, 0.5, 0}
	snapshot[47] = []float64{-10, -10, -10, -10}

	return types.NewTraceLog(
		types.Episode{
			Index:       0,
			TotalReward: -13,
			Steps: []types.StepRecord{
				{
					State:     types.DiscreteState(36),
					Action:    1,
					Reward:    -1,
					NextState: types.DiscreteState(24),
					Epsilon:   0.3,
					Snapshot:  snapshot,
				},
				{
					State:    types.DiscreteState(24),
					Action:   0,
					Reward:   -1,
					Done:     true,
					Snapshot: snapshot,
				},
			},
		},
		types.Episode{Index: 1, TotalReward: -40},
	)
}

func TestDeriveTabular(t *testing.T) {
	v := mustVariant(t, "ql-cliffwalk")
	view := Derive(tabularLog(), Cursor{Episode: 0, Step: 0}, v)

	assert.False(t, view.Empty)
	assert.Equal(t, "ql-cliffwalk", view.Variant)
	assert.Equal(t, []float64{-1, 2.0, -3, -2}, view.QValues)
	assert.Equal(t, []float64{1, 5.0, 0.5, 0}, view.NextQValues)
	assert.Equal(t, 1, view.BestAction)
	assert.True(t, view.IsGreedy)
	assert.Equal(t, 1, view.NextBestAction)
	assert.Equal(t, 5.0, view.NextMaxQ)
	// -1 + 0.9 * 5
	assert.InDelta(t, 3.5, view.BellmanTarget, delta)
	// 2 + 0.1 * (3.5 - 2)
	assert.InDelta(t, 2.15, view.UpdatedQ, delta)
	assert.Equal(t, 0.0, view.Loss)
	assert.Equal(t, 0.3, view.Epsilon)

	// scale spans the full snapshot
	assert.Equal(t, -10.0, view.Scale.Min)
	assert.Equal(t, 5.0, view.Scale.Max)
	assert.Equal(t, DefaultStops.High, view.Color(5))

	require.Len(t, view.RewardCurve, 1)
	assert.Equal(t, 0, view.RewardCurve[0].Episode)
}

func TestDeriveTabularMissingNextState(t *testing.T) {
	v := mustVariant(t, "ql-cliffwalk")
	view := Derive(tabularLog(), Cursor{Episode: 0, Step: 1}, v)

	// next state falls back to the state itself
	assert.Equal(t, types.DiscreteState(24), view.NextState)
	assert.Equal(t, view.QValues, view.NextQValues)
	assert.False(t, view.IsGreedy)
	assert.True(t, view.Done)
}

func TestDeriveFunctionApproximation(t *testing.T) {
	v := mustVariant(t, "dqn-cartpole")
	log := types.NewTraceLog(types.Episode{
		Index:       0,
		TotalReward: 18,
		Steps: []types.StepRecord{{
			State:       types.VectorState(0.01, -0.2, 0.03, 0.1),
			Action:      0,
			Reward:      -1,
			NextState:   types.VectorState(0.02, -0.1, 0.02, 0.2),
			Epsilon:     0.05,
			QValues:     []float64{2.0, 1.0},
			NextQValues: []float64{5.0, 4.0},
		}},
	})
	view := Derive(log, Cursor{Episode: 0, Step: 0}, v)

	assert.Equal(t, 0, view.BestAction)
	assert.True(t, view.IsGreedy)
	assert.InDelta(t, 3.95, view.BellmanTarget, delta)
	assert.InDelta(t, 3.8025, view.Loss, delta)
	assert.Equal(t, 0.0, view.UpdatedQ)
	assert.Equal(t, 1.0, view.Scale.Min)
	assert.Equal(t, 5.0, view.Scale.Max)
}

func oneHot(cell int) types.State {
	v := make([]float64, 48)
	v[cell] = 1
	return types.VectorState(v...)
}

func TestDeriveOneHotCliffWalk(t *testing.T) {
	v := mustVariant(t, "dqn-cliffwalk")
	log := types.NewTraceLog(
		types.Episode{Index: 0, TotalReward: -120},
		types.Episode{
			Index:       1,
			TotalReward: -30,
			Steps: []types.StepRecord{{
				State:       oneHot(36),
				Action:      3,
				Reward:      -1,
				NextState:   oneHot(24),
				Epsilon:     0.2,
				QValues:     []float64{-1, 0.5, -2, -0.5},
				NextQValues: []float64{0.2, -0.1, 1.5, 0},
			}},
		},
	)
	view := Derive(log, Cursor{Episode: 1, Step: 0}, v)

	assert.False(t, view.Empty)
	assert.Equal(t, oneHot(36), view.State)
	assert.Equal(t, oneHot(24), view.NextState)
	assert.Equal(t, 1, view.BestAction)
	assert.False(t, view.IsGreedy)
	assert.Equal(t, 2, view.NextBestAction)
	assert.Equal(t, -0.5, view.Predicted)
	// -1 + 0.99 * 1.5
	assert.InDelta(t, 0.485, view.BellmanTarget, delta)
	// (0.485 - -0.5)^2
	assert.InDelta(t, 0.970225, view.Loss, delta)
	assert.Equal(t, 0.0, view.UpdatedQ)

	// the scale spans the Q-values of the step only
	assert.Equal(t, -2.0, view.Scale.Min)
	assert.Equal(t, 1.5, view.Scale.Max)

	// the curve is anchored at zero
	assert.Equal(t, -120.0, view.CurveLow)
	assert.Equal(t, 0.0, view.CurveHigh)
	require.Len(t, view.RewardCurve, 2)
	// t = 0.75 on [-120, 0]
	assert.InDelta(t, 150-0.75*110, view.RewardCurve[1].Y, delta)

	// an episode without steps falls back to a 48-wide zero state
	empty := Derive(log, Cursor{Episode: 0, Step: 0}, v)
	assert.True(t, empty.Empty)
	assert.Equal(t, make([]float64, 48), empty.State.Vector)
	assert.Equal(t, make([]float64, 4), empty.QValues)
	require.Len(t, empty.RewardCurve, 1)
}

func TestDeriveClampsCursor(t *testing.T) {
	v := mustVariant(t, "ql-cliffwalk")
	view := Derive(tabularLog(), Cursor{Episode: 0, Step: 99}, v)
	assert.Equal(t, 1, view.Cursor.Step)
	assert.False(t, view.Empty)

	// second episode has no steps: the cursor pins to 0 and the view is empty
	view = Derive(tabularLog(), Cursor{Episode: 7, Step: 3}, v)
	assert.Equal(t, Cursor{Episode: 1, Step: 0}, view.Cursor)
	assert.Equal(t, 1, view.EpisodeIndex)
	assert.True(t, view.Empty)
	assert.Len(t, view.RewardCurve, 2)
}

func TestDeriveEmptyLog(t *testing.T) {
	for _, v := range Variants() {
		t.Run(v.Name, func(t *testing.T) {
			for _, log := range []*types.TraceLog{nil, types.NewTraceLog()} {
				view := Derive(log, Cursor{Episode: 3, Step: 5}, v)
				assert.True(t, view.Empty)
				assert.Equal(t, Cursor{}, view.Cursor)
				assert.Equal(t, 0, view.Action)
				assert.Equal(t, make([]float64, v.Actions), view.QValues)
				assert.Equal(t, 0, view.BestAction)
				assert.True(t, view.IsGreedy)
				assert.Empty(t, view.RewardCurve)
				if v.StateSize > 0 {
					assert.Equal(t, make([]float64, v.StateSize), view.State.Vector)
				} else {
					assert.True(t, view.State.Discrete)
				}
			}
		})
	}
}

func TestDeriveDoesNotAliasLog(t *testing.T) {
	v := mustVariant(t, "ql-cliffwalk")
	log := tabularLog()
	view := Derive(log, Cursor{}, v)
	view.QValues[0] = 1000
	assert.Equal(t, -1.0, log.Episodes[0].Steps[0].Snapshot[36][0])
}

func TestVariants(t *testing.T) {
	names := make([]string, 0)
	for _, v := range Variants() {
		names = append(names, v.Name)
	}
	assert.Equal(t, []string{"dqn-cartpole", "dqn-cliffwalk", "ql-cartpole", "ql-cliffwalk"}, names)

	_, ok := LookupVariant("sarsa")
	assert.False(t, ok)

	v := mustVariant(t, "ql-cartpole")
	*v.Curve.Floor = -100
	fresh := mustVariant(t, "ql-cartpole")
	assert.Equal(t, 0.0, *fresh.Curve.Floor)
	assert.True(t, fresh.Tabular())
	assert.False(t, mustVariant(t, "dqn-cliffwalk").Tabular())
}
