package plots

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/rl-replay/replay"
	"github.com/zeu5/rl-replay/types"
)

func rewardLog() *types.TraceLog {
	return types.NewTraceLog(
		types.Episode{Index: 0, TotalReward: -120},
		types.Episode{Index: 1, TotalReward: -60},
		types.Episode{Index: 2, TotalReward: -25},
		types.Episode{Index: 3, TotalReward: -13},
	)
}

func variant(t *testing.T, name string) replay.Variant {
	v, ok := replay.LookupVariant(name)
	require.True(t, ok)
	return v
}

func TestRewardXYs(t *testing.T) {
	points := replay.RewardCurve(rewardLog().Episodes, 2, variant(t, "dqn-cliffwalk").Curve)
	xys := RewardXYs(points)
	require.Equal(t, 3, xys.Len())
	x, y := xys.XY(2)
	assert.Equal(t, 2.0, x)
	assert.Equal(t, -25.0, y)
}

func TestNewRewardPlotAnchors(t *testing.T) {
	p, err := NewRewardPlot(rewardLog(), 3, variant(t, "dqn-cliffwalk"))
	require.NoError(t, err)
	assert.Equal(t, -120.0, p.Y.Min)
	assert.Equal(t, 0.0, p.Y.Max)
	assert.Equal(t, 500.0, p.X.Max)

	p, err = NewRewardPlot(rewardLog(), 3, variant(t, "ql-cliffwalk"))
	require.NoError(t, err)
	assert.Equal(t, -120.0, p.Y.Min)
	assert.Equal(t, -13.0, p.Y.Max)
}

func TestSaveRewardCurvePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reward_curve.png")
	require.NoError(t, SaveRewardCurvePNG(path, rewardLog(), 3, variant(t, "ql-cliffwalk")))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	// nothing visible yet still renders axes
	empty := filepath.Join(t.TempDir(), "empty.png")
	require.NoError(t, SaveRewardCurvePNG(empty, types.NewTraceLog(), 0, variant(t, "dqn-cartpole")))
}

func TestRenderRewardCurveHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderRewardCurveHTML(&buf, rewardLog(), 1, variant(t, "ql-cliffwalk")))
	html := buf.String()
	assert.Contains(t, html, "Total Rewards per Episode")
	assert.Contains(t, html, "<title>rl-replay ql-cliffwalk</title>")
	// series drawn in the high stop like the png line
	assert.Contains(t, html, replay.DefaultStops.High.Hex())

	path := filepath.Join(t.TempDir(), "reward_curve.html")
	require.NoError(t, SaveRewardCurveHTML(path, rewardLog(), 3, variant(t, "ql-cliffwalk")))
	_, err := os.Stat(path)
	require.NoError(t, err)
}

func TestQTableGrid(t *testing.T) {
	snapshot := make(types.QTable, 48)
	for s := range snapshot {
		snapshot[s] = []float64{0, 0, 0, 0}
	}
	snapshot[0] = []float64{1, 9, 2, 3}
	snapshot[47] = []float64{-4, -2, -8, -3}

	g := NewQTableGrid(snapshot)
	c, r := g.Dims()
	assert.Equal(t, 12, c)
	assert.Equal(t, 4, r)
	// layout row 0 is drawn on top
	assert.Equal(t, 9.0, g.Z(0, 3))
	assert.Equal(t, -2.0, g.Z(11, 0))

	path := filepath.Join(t.TempDir(), "qtable.png")
	require.NoError(t, SaveQTableHeatMap(path, snapshot, variant(t, "ql-cliffwalk")))

	// an unknown snapshot is flat and still renders
	require.NoError(t, SaveQTableHeatMap(filepath.Join(t.TempDir(), "flat.png"), nil, variant(t, "ql-cliffwalk")))
}

func TestScalePalette(t *testing.T) {
	colors := ScalePalette{Stops: replay.DefaultStops, N: 3}.Colors()
	require.Len(t, colors, 3)
	assert.Equal(t, replay.DefaultStops.Low, colors[0])
	assert.Equal(t, replay.DefaultStops.Mid, colors[1])
	assert.Equal(t, replay.DefaultStops.High, colors[2])

	assert.Len(t, ScalePalette{Stops: replay.DefaultStops}.Colors(), 2)
}
