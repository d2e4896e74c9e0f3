package types

// StepRecord is one logged transition of an episode.
// For tabular traces QValues and NextQValues are looked up from Snapshot
// rather than stored on the step.
type StepRecord struct {
	State       State     `json:"state"`
	Action      int       `json:"action"`
	Reward      float64   `json:"reward"`
	NextState   State     `json:"next_state"`
	Epsilon     float64   `json:"epsilon"`
	QValues     []float64 `json:"q_values,omitempty"`
	NextQValues []float64 `json:"next_q_values,omitempty"`
	Done        bool      `json:"done"`
	Snapshot    QTable    `json:"q_table_snapshot,omitempty"`
}

// HasSnapshot is true for steps of a tabular trace
func (s *StepRecord) HasSnapshot() bool {
	return len(s.Snapshot) > 0
}

// Episode of a trace log, steps in the order they were logged
type Episode struct {
	Index       int          `json:"episode"`
	Steps       []StepRecord `json:"steps"`
	TotalReward float64      `json:"total_reward"`
}

func (e *Episode) Len() int {
	return len(e.Steps)
}

// Get the step at index i, false if out of bounds
func (e *Episode) Get(i int) (*StepRecord, bool) {
	if i < 0 || i >= len(e.Steps) {
		return nil, false
	}
	return &e.Steps[i], true
}

// Last step of the episode
func (e *Episode) Last() (*StepRecord, bool) {
	return e.Get(len(e.Steps) - 1)
}

// TraceLog is the full set of episodes replayed by the visualizer.
// Episodes are ordered by non-decreasing Index, the indices can be sparse.
// A TraceLog is never modified after it is loaded.
type TraceLog struct {
	Episodes []Episode
}

func NewTraceLog(episodes ...Episode) *TraceLog {
	if episodes == nil {
		episodes = make([]Episode, 0)
	}
	return &TraceLog{Episodes: episodes}
}

// Len is the number of episodes, zero for a nil log
func (t *TraceLog) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Episodes)
}

// Get the episode at position i, false if out of bounds
func (t *TraceLog) Get(i int) (*Episode, bool) {
	if i < 0 || i >= t.Len() {
		return nil, false
	}
	return &t.Episodes[i], true
}

// Steps is the total number of steps over all the episodes
func (t *TraceLog) Steps() int {
	total := 0
	for i := 0; i < t.Len(); i++ {
		total += t.Episodes[i].Len()
	}
	return total
}

// Position of the episode with the given Index, false when absent
func (t *TraceLog) Position(index int) (int, bool) {
	for i := 0; i < t.Len(); i++ {
		if t.Episodes[i].Index == index {
			return i, true
		}
	}
	return 0, false
}
