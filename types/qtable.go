package types

// QTable is a snapshot of a tabular policy: one row of action values per
// discrete state index.
type QTable [][]float64

// HasState is true when the snapshot carries a row for the state
func (q QTable) HasState(state int) bool {
	return state >= 0 && state < len(q) && q[state] != nil
}

// Row returns the action values for the state, or def when the state is unknown.
func (q QTable) Row(state int, def []float64) []float64 {
	if !q.HasState(state) {
		return def
	}
	return q[state]
}

// Flat returns all the values of the snapshot in row order
func (q QTable) Flat() []float64 {
	out := make([]float64, 0, len(q)*4)
	for _, row := range q {
		out = append(out, row...)
	}
	return out
}

