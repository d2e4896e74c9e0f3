package plots

import (
	"fmt"
	"image/color"

	"github.com/zeu5/rl-replay/grid"
	"github.com/zeu5/rl-replay/replay"
	"github.com/zeu5/rl-replay/types"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// QTableGrid lays the greedy value of every CliffWalk cell out on the grid,
// row 0 of the layout at the top of the plot.
type QTableGrid struct {
	Snapshot types.QTable
	Rows     int
	Cols     int
}

var _ plotter.GridXYZ = &QTableGrid{}

func NewQTableGrid(snapshot types.QTable) *QTableGrid {
	return &QTableGrid{
		Snapshot: snapshot,
		Rows:     grid.Rows,
		Cols:     grid.Cols,
	}
}

func (g *QTableGrid) Dims() (int, int) {
	return g.Cols, g.Rows
}

// Value is the greedy value of the cell at layout row i, column j
func (g *QTableGrid) Value(i, j int) float64 {
	row := g.Snapshot.Row(grid.Position{I: i, J: j}.State(), nil)
	return replay.MaxValue(row, 0)
}

func (g *QTableGrid) Z(c, r int) float64 {
	return g.Value(g.Rows-1-r, c)
}

func (g *QTableGrid) X(c int) float64 {
	return float64(c)
}

func (g *QTableGrid) Y(r int) float64 {
	return float64(r)
}

// ScalePalette samples the color stops at n evenly spaced points
type ScalePalette struct {
	Stops replay.ColorStops
	N     int
}

var _ palette.Palette = ScalePalette{}

func (s ScalePalette) Colors() []color.Color {
	n := s.N
	if n < 2 {
		n = 2
	}
	out := make([]color.Color, n)
	for i := range out {
		out[i] = replay.ColorForT(float64(i)/float64(n-1), s.Stops)
	}
	return out
}

// NewQTablePlot draws the snapshot as a heat map of greedy values
func NewQTablePlot(snapshot types.QTable, variant replay.Variant) *plot.Plot {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Greedy Q-values (%s)", variant.Name)
	p.X.Label.Text = "Column"
	p.Y.Label.Text = "Row"
	heatMap := plotter.NewHeatMap(NewQTableGrid(snapshot), ScalePalette{Stops: variant.Stops, N: 32})
	if heatMap.Min == heatMap.Max {
		heatMap.Max = heatMap.Min + replay.ColorEpsilon
	}
	p.Add(heatMap)
	return p
}

// SaveQTableHeatMap writes the heat map of the snapshot to path
func SaveQTableHeatMap(path string, snapshot types.QTable, variant replay.Variant) error {
	return NewQTablePlot(snapshot, variant).Save(8*vg.Inch, 3*vg.Inch, path)
}
