package explorer

import (
	"bufio"
	"io"

	"github.com/logrusorgru/aurora"
	"github.com/zeu5/rl-replay/grid"
	"github.com/zeu5/rl-replay/replay"
	"github.com/zeu5/rl-replay/types"
)

// Explorer steps through the episodes of a trace log and prints the
// derived view of every step it lands on
type Explorer struct {
	Log     *types.TraceLog
	Variant replay.Variant

	cursor    replay.Cursor
	movements []*grid.Movement
	reader    *bufio.Reader
	out       io.Writer
	au        aurora.Aurora
}

// Create an explorer reading commands from in and printing to out
func NewExplorer(log *types.TraceLog, variant replay.Variant, in io.Reader, out io.Writer, colors bool) *Explorer {
	movements := grid.AllMovements
	if variant.Environment == replay.EnvCartPole {
		movements = grid.CartMovements
	}
	return &Explorer{
		Log:       log,
		Variant:   variant,
		movements: movements,
		reader:    bufio.NewReader(in),
		out:       out,
		au:        aurora.NewAurora(colors),
	}
}

// Cursor is the current position of the explorer
func (e *Explorer) Cursor() replay.Cursor {
	return e.cursor
}

// View of the current position
func (e *Explorer) View() replay.View {
	return replay.Derive(e.Log, e.cursor, e.Variant)
}

func (e *Explorer) arrow(action int) string {
	return grid.Arrow(e.movements, action)
}
