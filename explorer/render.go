package explorer

import (
	"fmt"
	"math"
	"strings"

	"github.com/zeu5/rl-replay/grid"
	"github.com/zeu5/rl-replay/replay"
	"github.com/zeu5/rl-replay/types"
)

func (e *Explorer) listEpisodes() string {
	if e.Log.Len() == 0 {
		return "No episodes in the trace\n"
	}
	out := "Episodes are:\n"
	for i, ep := range e.Log.Episodes {
		out += fmt.Sprintf("%d. episode %d: %d steps, total reward %.2f\n", i+1, ep.Index, ep.Len(), ep.TotalReward)
	}
	return out
}

func (e *Explorer) rewardCurve() string {
	last, ok := e.Log.Get(e.Log.Len() - 1)
	if !ok {
		return "No episodes in the trace\n"
	}
	points := replay.RewardCurve(e.Log.Episodes, last.Index, e.Variant.Curve)
	lo, hi := replay.VisibleRange(e.Log.Episodes, last.Index, e.Variant.Curve)
	out := fmt.Sprintf("Total rewards in [%.2f, %.2f]:\n", lo, hi)
	for _, p := range points {
		out += fmt.Sprintf("episode %d: %.2f\n", p.Episode, p.Reward)
	}
	return out
}

func (e *Explorer) stateLabel(s types.State) string {
	if e.Variant.Environment == replay.EnvCliffWalk {
		cell := grid.CellOf(s)
		return fmt.Sprintf("%d %s", cell, grid.Coord(cell))
	}
	return s.String()
}

// renderStep prints the logged fields of the step and the update derived
// from them
func (e *Explorer) renderStep(v replay.View) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Episode %d (%d/%d), step %d/%d\n", v.EpisodeIndex, v.Cursor.Episode+1, e.Log.Len(), v.Cursor.Step+1, v.Steps)
	fmt.Fprintf(&b, "State: %s\n", e.stateLabel(v.State))

	choice := e.au.Red("exploring")
	if v.IsGreedy {
		choice = e.au.Green("greedy")
	}
	fmt.Fprintf(&b, "Action: %s (%d) %s, epsilon %.3f\n", e.arrow(v.Action), v.Action, choice, v.Epsilon)
	fmt.Fprintf(&b, "Reward: %.2f\n", v.Reward)
	next := e.stateLabel(v.NextState)
	if v.Done {
		next += " " + e.au.Yellow("(done)").String()
	}
	fmt.Fprintf(&b, "NextState: %s\n", next)

	fmt.Fprintf(&b, "Bellman target: %.4f + %.2f x %.4f = %.4f\n", v.Reward, e.Variant.Gamma, v.NextMaxQ, v.BellmanTarget)
	switch e.Variant.Rule {
	case replay.RuleTDUpdate:
		fmt.Fprintf(&b, "TD update: %.4f + %.2f x (%.4f - %.4f) = %.4f\n", v.Predicted, e.Variant.Alpha, v.BellmanTarget, v.Predicted, v.UpdatedQ)
	default:
		fmt.Fprintf(&b, "Loss: (%.4f - %.4f)^2 = %.4f\n", v.BellmanTarget, v.Predicted, v.Loss)
	}
	return b.String()
}

func (e *Explorer) renderQValues(v replay.View) string {
	var b strings.Builder
	b.WriteString("Q values are:\n")
	e.writeRow(&b, "Q(s)", v, v.QValues, v.BestAction)
	e.writeRow(&b, "Q(s')", v, v.NextQValues, v.NextBestAction)
	return b.String()
}

// writeRow prints the values on the background color of the view's scale,
// light text on the upper half of the scale and the best action in bold
func (e *Explorer) writeRow(b *strings.Builder, label string, v replay.View, values []float64, best int) {
	fmt.Fprintf(b, "%-6s", label)
	for a, q := range values {
		cell := e.au.BgIndex(xtermIndex(v.Color(q)), fmt.Sprintf(" %s %8.4f", e.arrow(a), q))
		if v.Scale.Bright(q) {
			cell = cell.White()
		} else {
			cell = cell.Black()
		}
		if a == best {
			cell = cell.Bold()
		}
		fmt.Fprintf(b, "%s", cell)
	}
	b.WriteString("\n")
}

// renderGrid draws the CliffWalk layout with the agent on the current cell
func (e *Explorer) renderGrid(v replay.View) string {
	if e.Variant.Environment != replay.EnvCliffWalk {
		return fmt.Sprintf("No grid for %s\n", e.Variant.Environment)
	}
	agent := grid.CellOf(v.State)
	var b strings.Builder
	for i := 0; i < grid.Rows; i++ {
		for j := 0; j < grid.Cols; j++ {
			state := grid.Position{I: i, J: j}.State()
			switch {
			case state == agent:
				fmt.Fprintf(&b, "%s", e.au.Green(" A "))
			case grid.KindOf(state) == grid.KindCliff:
				fmt.Fprintf(&b, "%s", e.au.Red(" C "))
			case grid.KindOf(state) == grid.KindGoal:
				fmt.Fprintf(&b, "%s", e.au.Yellow(" G "))
			case grid.KindOf(state) == grid.KindStart:
				fmt.Fprintf(&b, "%s", e.au.Blue(" S "))
			default:
				b.WriteString(" . ")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// xtermIndex maps a color onto the 6x6x6 cube of the 256 color palette
func xtermIndex(c replay.RGB) uint8 {
	level := func(v uint8) int {
		return int(math.Round(float64(v) / 255 * 5))
	}
	return uint8(16 + 36*level(c.R) + 6*level(c.G) + level(c.B))
}
