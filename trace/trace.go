// Package trace loads the trace logs replayed by the visualizer.
//
// Two layouts are understood. Episode grouped logs carry one object per
// episode with its steps. Tabular logs carry one object per environment
// step with the full Q-table snapshot at that step and are grouped into
// episodes here. Either layout is a JSON array or JSONL with one object
// per line.
package trace

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/zeu5/rl-replay/types"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var (
	ErrUnknownFormat = errors.New("unknown trace format")
	ErrEmptySource   = errors.New("empty trace source")
)

// Format of a trace log
type Format string

var (
	FormatEpisodes Format = "episodes"
	FormatTabular  Format = "tabular"
)

const maxLineSize = 64 * 1024 * 1024

// record covers the fields of both layouts
type record struct {
	// episode layout
	Episode     *int      `json:"episode"`
	TotalReward float64   `json:"total_reward"`
	Steps       []rawStep `json:"steps"`

	// tabular layout, one record per step
	rawStep
	TotalRewardSoFar float64 `json:"total_reward_so_far"`
}

type rawStep struct {
	State       types.State  `json:"state"`
	Action      int          `json:"action"`
	Reward      float64      `json:"reward"`
	NextState   types.State  `json:"next_state"`
	NewState    types.State  `json:"new_state"`
	Epsilon     float64      `json:"epsilon"`
	QValues     []float64    `json:"q_values"`
	NextQValues []float64    `json:"next_q_values"`
	Done        bool         `json:"done"`
	Snapshot    types.QTable `json:"qTable_snapshot"`
}

func (r rawStep) toStep() types.StepRecord {
	next := r.NextState
	if next.IsZero() {
		next = r.NewState
	}
	return types.StepRecord{
		State:       r.State,
		Action:      r.Action,
		Reward:      r.Reward,
		NextState:   next,
		Epsilon:     r.Epsilon,
		QValues:     r.QValues,
		NextQValues: r.NextQValues,
		Done:        r.Done,
		Snapshot:    r.Snapshot,
	}
}

// DetectFormat looks at the keys of the first record
func DetectFormat(first json.RawMessage) (Format, error) {
	keys := make(map[string]json.RawMessage)
	if err := json.Unmarshal(first, &keys); err != nil {
		return "", fmt.Errorf("error parsing record: %w", err)
	}
	if _, ok := keys["steps"]; ok {
		return FormatEpisodes, nil
	}
	if _, ok := keys["qTable_snapshot"]; ok {
		return FormatTabular, nil
	}
	if _, ok := keys["state"]; ok {
		return FormatTabular, nil
	}
	return "", ErrUnknownFormat
}

// loaded is a parsed log and how it was laid out in its source
type loaded struct {
	log    *types.TraceLog
	format Format
	// episodes were not logged in ascending index order
	reordered bool
}

// Parse a trace log stored as a JSON array
func Parse(data []byte) (*types.TraceLog, Format, error) {
	l, err := parseArray(data)
	if err != nil {
		return nil, "", err
	}
	return l.log, l.format, nil
}

// ParseJSONL parses a trace log with one record per line
func ParseJSONL(r io.Reader) (*types.TraceLog, Format, error) {
	l, err := parseLines(r)
	if err != nil {
		return nil, "", err
	}
	return l.log, l.format, nil
}

func parseArray(data []byte) (loaded, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return loaded{}, ErrEmptySource
	}
	raw := make([]json.RawMessage, 0)
	if err := json.Unmarshal(data, &raw); err != nil {
		return loaded{}, fmt.Errorf("error parsing trace log: %w", err)
	}
	return fromRecords(raw)
}

func parseLines(r io.Reader) (loaded, error) {
	raw := make([]json.RawMessage, 0)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), maxLineSize)
	line := 0
	for scanner.Scan() {
		line++
		bs := bytes.TrimSpace(scanner.Bytes())
		if len(bs) == 0 {
			continue
		}
		if !json.Valid(bs) {
			return loaded{}, fmt.Errorf("error parsing line %d: invalid json", line)
		}
		raw = append(raw, json.RawMessage(slices.Clone(bs)))
	}
	if err := scanner.Err(); err != nil {
		return loaded{}, fmt.Errorf("failed to read traces: %w", err)
	}
	if line == 0 {
		return loaded{}, ErrEmptySource
	}
	return fromRecords(raw)
}

func fromRecords(raw []json.RawMessage) (loaded, error) {
	if len(raw) == 0 {
		return loaded{log: types.NewTraceLog(), format: FormatEpisodes}, nil
	}
	format, err := DetectFormat(raw[0])
	if err != nil {
		return loaded{}, err
	}
	records := make([]record, len(raw))
	for i, r := range raw {
		if err := json.Unmarshal(r, &records[i]); err != nil {
			return loaded{}, fmt.Errorf("error parsing record %d: %w", i, err)
		}
	}
	l := loaded{format: format}
	switch format {
	case FormatEpisodes:
		l.log, l.reordered = fromEpisodeRecords(records)
	default:
		l.log, l.reordered = fromStepRecords(records)
	}
	return l, nil
}

func byIndex(a, b types.Episode) int {
	return a.Index - b.Index
}

// fromEpisodeRecords returns the episodes sorted by index and whether they
// had to be reordered
func fromEpisodeRecords(records []record) (*types.TraceLog, bool) {
	episodes := make([]types.Episode, len(records))
	for i, r := range records {
		index := i
		if r.Episode != nil {
			index = *r.Episode
		}
		steps := make([]types.StepRecord, len(r.Steps))
		for j, s := range r.Steps {
			steps[j] = s.toStep()
		}
		episodes[i] = types.Episode{
			Index:       index,
			Steps:       steps,
			TotalReward: r.TotalReward,
		}
	}
	reordered := !slices.IsSortedFunc(episodes, byIndex)
	slices.SortStableFunc(episodes, byIndex)
	return types.NewTraceLog(episodes...), reordered
}

// fromStepRecords groups per step records by episode. The total reward of
// an episode is the running total of its first terminal step, or of its
// last step when it never terminates. Records of an episode logged after a
// later episode count as a reordering.
func fromStepRecords(records []record) (*types.TraceLog, bool) {
	groups := make(map[int][]record)
	reordered := false
	prev := 0
	for i, r := range records {
		index := 0
		if r.Episode != nil {
			index = *r.Episode
		}
		if i > 0 && index < prev {
			reordered = true
		}
		prev = index
		groups[index] = append(groups[index], r)
	}
	indices := maps.Keys(groups)
	slices.Sort(indices)

	episodes := make([]types.Episode, 0, len(indices))
	for _, index := range indices {
		group := groups[index]
		episode := types.Episode{
			Index: index,
			Steps: make([]types.StepRecord, len(group)),
		}
		terminated := false
		for i, r := range group {
			episode.Steps[i] = r.rawStep.toStep()
			if r.Done && !terminated {
				episode.TotalReward = r.TotalRewardSoFar
				terminated = true
			}
		}
		if !terminated {
			episode.TotalReward = group[len(group)-1].TotalRewardSoFar
		}
		episodes = append(episodes, episode)
	}
	return types.NewTraceLog(episodes...), reordered
}
