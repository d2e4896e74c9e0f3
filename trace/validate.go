package trace

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/zeu5/rl-replay/replay"
	"github.com/zeu5/rl-replay/types"
)

// Validate reports every structural oddity of the log with respect to the
// variant. The findings never prevent a replay, the engine falls back to
// defaults for them, so callers usually only log the result.
//
// Logs returned by Parse and the sources are already sorted by episode
// index (the sources warn when they had to sort), so the ordering finding
// only shows up for logs assembled by hand.
func Validate(log *types.TraceLog, variant replay.Variant) error {
	var result *multierror.Error
	prev := 0
	for i := 0; i < log.Len(); i++ {
		episode := log.Episodes[i]
		if i > 0 && episode.Index < prev {
			result = multierror.Append(result, fmt.Errorf("episode %d: logged after episode %d", episode.Index, prev))
		}
		prev = episode.Index
		for j := range episode.Steps {
			if err := validateStep(&episode.Steps[j], variant); err != nil {
				result = multierror.Append(result, fmt.Errorf("episode %d, step %d: %w", episode.Index, j, err))
			}
		}
	}
	return result.ErrorOrNil()
}

func validateStep(step *types.StepRecord, variant replay.Variant) error {
	var result *multierror.Error
	if variant.Actions > 0 && (step.Action < 0 || step.Action >= variant.Actions) {
		result = multierror.Append(result, fmt.Errorf("action %d out of range", step.Action))
	}
	if step.Epsilon < 0 || step.Epsilon > 1 {
		result = multierror.Append(result, fmt.Errorf("epsilon %f outside [0, 1]", step.Epsilon))
	}
	if variant.Actions > 0 && len(step.QValues) > 0 && len(step.QValues) != variant.Actions {
		result = multierror.Append(result, fmt.Errorf("%d q values, expected %d", len(step.QValues), variant.Actions))
	}
	if variant.Actions > 0 && len(step.NextQValues) > 0 && len(step.NextQValues) != variant.Actions {
		result = multierror.Append(result, fmt.Errorf("%d next q values, expected %d", len(step.NextQValues), variant.Actions))
	}
	if step.State.IsZero() {
		result = multierror.Append(result, fmt.Errorf("missing state"))
	} else if variant.StateSize > 0 && !step.State.Discrete && len(step.State.Vector) != variant.StateSize {
		result = multierror.Append(result, fmt.Errorf("state of size %d, expected %d", len(step.State.Vector), variant.StateSize))
	}
	if step.HasSnapshot() {
		if step.State.Discrete && !step.Snapshot.HasState(step.State.Index) {
			result = multierror.Append(result, fmt.Errorf("state %d not in the q table snapshot", step.State.Index))
		}
		for s, row := range step.Snapshot {
			if variant.Actions > 0 && len(row) != variant.Actions {
				result = multierror.Append(result, fmt.Errorf("snapshot row %d has %d values, expected %d", s, len(row), variant.Actions))
				break
			}
		}
	}
	return result.ErrorOrNil()
}
