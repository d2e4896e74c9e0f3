package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// State observed by the agent at a step. Either a discrete index into a
// finite state space (grid cell) or a fixed length numeric vector.
type State struct {
	Discrete bool
	Index    int
	Vector   []float64
}

// DiscreteState creates a state indexing a finite state space
func DiscreteState(i int) State {
	return State{Discrete: true, Index: i}
}

// VectorState creates a continuous state from the observation vector
func VectorState(v ...float64) State {
	return State{Vector: v}
}

// ZeroState is the fallback state: the discrete index 0 or a vector of size zeros.
func ZeroState(size int) State {
	if size <= 0 {
		return DiscreteState(0)
	}
	return State{Vector: make([]float64, size)}
}

// IsZero is true for a state that was never set
func (s State) IsZero() bool {
	return !s.Discrete && s.Vector == nil
}

func (s State) String() string {
	if s.Discrete {
		return strconv.Itoa(s.Index)
	}
	parts := make([]string, len(s.Vector))
	for i, v := range s.Vector {
		parts[i] = fmt.Sprintf("%.2f", v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Copy returns a state that shares no memory with s
func (s State) Copy() State {
	n := State{Discrete: s.Discrete, Index: s.Index}
	if s.Vector != nil {
		n.Vector = make([]float64, len(s.Vector))
		copy(n.Vector, s.Vector)
	}
	return n
}

func (s State) MarshalJSON() ([]byte, error) {
	if s.Discrete {
		return json.Marshal(s.Index)
	}
	if s.Vector == nil {
		return []byte("null"), nil
	}
	return json.Marshal(s.Vector)
}

func (s *State) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = State{}
		return nil
	}
	if data[0] == '[' {
		vector := make([]float64, 0)
		if err := json.Unmarshal(data, &vector); err != nil {
			return fmt.Errorf("error parsing state vector: %w", err)
		}
		*s = State{Vector: vector}
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("error parsing state index: %w", err)
	}
	if f != math.Trunc(f) {
		return fmt.Errorf("state index %v is not an integer", f)
	}
	*s = DiscreteState(int(f))
	return nil
}
