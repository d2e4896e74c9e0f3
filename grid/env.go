package grid

import (
	"fmt"

	"github.com/zeu5/rl-replay/types"
)

// CliffWalk layout: 4 rows by 12 columns, the agent starts at the bottom
// left corner, the goal is the bottom right corner and the cells in
// between are the cliff.
const (
	Rows       = 4
	Cols       = 12
	States     = Rows * Cols
	StartState = 36
	GoalState  = 47
)

// Cell kinds of the layout
type Kind string

var (
	KindFree  Kind = "Free"
	KindStart Kind = "Start"
	KindGoal  Kind = "Goal"
	KindCliff Kind = "Cliff"
)

type Position struct {
	I int
	J int
}

// PositionOf maps a state index to its (row, col) position
func PositionOf(state int) Position {
	return Position{I: state / Cols, J: state % Cols}
}

func (p Position) State() int {
	return p.I*Cols + p.J
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.I, p.J)
}

// Coord is the readable (row,col) label of the state
func Coord(state int) string {
	return PositionOf(state).String()
}

func IsCliff(state int) bool {
	return state > StartState && state < GoalState
}

func KindOf(state int) Kind {
	switch {
	case state == StartState:
		return KindStart
	case state == GoalState:
		return KindGoal
	case IsCliff(state):
		return KindCliff
	}
	return KindFree
}

// CellOf decodes the grid cell of a state. Discrete states are the cell
// index, one-hot vectors are decoded to the position of the first 1.
// Anything else is the start cell.
func CellOf(s types.State) int {
	if s.Discrete {
		return s.Index
	}
	for i, v := range s.Vector {
		if v == 1 {
			return i
		}
	}
	return StartState
}

type Movement struct {
	Direction string
	Arrow     string
}

var (
	MovementUp    = &Movement{"Up", "↑"}
	MovementRight = &Movement{"Right", "→"}
	MovementDown  = &Movement{"Down", "↓"}
	MovementLeft  = &Movement{"Left", "←"}
	// action index order of the CliffWalk traces
	AllMovements = []*Movement{
		MovementUp,
		MovementRight,
		MovementDown,
		MovementLeft,
	}
	// action index order of the CartPole traces
	CartMovements = []*Movement{
		MovementLeft,
		MovementRight,
	}
)

// Arrow of the action index in the given action set, "?" when unknown
func Arrow(movements []*Movement, action int) string {
	if action < 0 || action >= len(movements) {
		return "?"
	}
	return movements[action].Arrow
}
