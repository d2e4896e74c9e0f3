// Package plots renders the reward curve and the Q-table of a trace log to
// image and html files.
package plots

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/zeu5/rl-replay/replay"
	"github.com/zeu5/rl-replay/types"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// RewardXYs are the (episode, total reward) pairs of the curve points
func RewardXYs(points []replay.Point) plotter.XYs {
	xys := make(plotter.XYs, len(points))
	for i, p := range points {
		xys[i] = plotter.XY{
			X: float64(p.Episode),
			Y: p.Reward,
		}
	}
	return xys
}

// NewRewardPlot plots the total reward of the episodes up to upto. The y
// axis follows the anchoring of the variant's curve.
func NewRewardPlot(log *types.TraceLog, upto int, variant replay.Variant) (*plot.Plot, error) {
	points := replay.RewardCurve(log.Episodes, upto, variant.Curve)
	lo, hi := replay.VisibleRange(log.Episodes, upto, variant.Curve)

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Total Rewards per Episode (%s)", variant.Name)
	p.X.Label.Text = "Episode"
	p.Y.Label.Text = "Total reward"
	p.X.Min = 0
	p.X.Max = float64(variant.Curve.XDomainMax)
	p.Y.Min = lo
	p.Y.Max = hi
	p.Y.Tick.Marker = plot.ConstantTicks(ticks(lo, hi))
	p.Add(plotter.NewGrid())

	if len(points) == 0 {
		return p, nil
	}
	line, err := plotter.NewLine(RewardXYs(points))
	if err != nil {
		return nil, fmt.Errorf("error building reward line: %w", err)
	}
	line.Color = variant.Stops.High
	line.Width = vg.Points(2)
	p.Add(line)
	return p, nil
}

func ticks(lo, hi float64) []plot.Tick {
	values := replay.Ticks(lo, hi)
	out := make([]plot.Tick, len(values))
	for i, v := range values {
		out[i] = plot.Tick{Value: v, Label: strconv.FormatFloat(v, 'f', 1, 64)}
	}
	return out
}

// SaveRewardCurvePNG writes the reward plot to path
func SaveRewardCurvePNG(path string, log *types.TraceLog, upto int, variant replay.Variant) error {
	p, err := NewRewardPlot(log, upto, variant)
	if err != nil {
		return err
	}
	return p.Save(9*vg.Inch, 3*vg.Inch, path)
}

// NewRewardChart is the interactive html version of the reward plot
func NewRewardChart(log *types.TraceLog, upto int, variant replay.Variant) *charts.Line {
	points := replay.RewardCurve(log.Episodes, upto, variant.Curve)
	lo, hi := replay.VisibleRange(log.Episodes, upto, variant.Curve)

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Total Rewards per Episode",
			Subtitle: variant.Name,
		}),
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "rl-replay " + variant.Name,
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Episode"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Total reward", Min: lo, Max: hi}),
	)

	episodes := make([]string, len(points))
	items := make([]opts.LineData, len(points))
	for i, p := range points {
		episodes[i] = strconv.Itoa(p.Episode)
		items[i] = opts.LineData{Value: p.Reward}
	}
	line.SetXAxis(episodes).AddSeries("total reward", items,
		charts.WithLineStyleOpts(opts.LineStyle{Color: variant.Stops.High.Hex()}),
	)
	return line
}

// RenderRewardCurveHTML writes a page holding the reward chart to w
func RenderRewardCurveHTML(w io.Writer, log *types.TraceLog, upto int, variant replay.Variant) error {
	page := components.NewPage()
	page.SetPageTitle("rl-replay " + variant.Name)
	page.AddCharts(NewRewardChart(log, upto, variant))
	return page.Render(w)
}

// SaveRewardCurveHTML writes the reward chart page to path
func SaveRewardCurveHTML(path string, log *types.TraceLog, upto int, variant replay.Variant) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return RenderRewardCurveHTML(f, log, upto, variant)
}
