package reconcile

import (
	"errors"
	"fmt"
	"strings"

	"feature-merge/core/gff"
)

// ErrUnsupportedStrategy is returned for strategy names outside the fixed set.
var ErrUnsupportedStrategy = errors.New("unsupported merge strategy")

// Strategy names an id-collision policy.
type Strategy string

const (
	StrategyMerge   Strategy = "merge"
	StrategyAppend  Strategy = "append"
	StrategyError   Strategy = "error"
	StrategySkip    Strategy = "skip"
	StrategyReplace Strategy = "replace"
)

// Strategies lists every supported strategy.
var Strategies = []Strategy{StrategyMerge, StrategyAppend, StrategyError, StrategySkip, StrategyReplace}

// ParseStrategy validates a strategy name.
func ParseStrategy(s string) (Strategy, error) {
	st := Strategy(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Strategies {
		if st == known {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q (want one of merge, append, error, skip, replace)", ErrUnsupportedStrategy, s)
}

// ActionType represents the placement decided for an incoming feature.
type ActionType string

const (
	// ActionInsert stores the feature under its own id.
	ActionInsert ActionType = "insert"
	// ActionRename stores the feature under a freshly drawn id.
	ActionRename ActionType = "rename"
	// ActionMerge overwrites the existing record with the merged attributes.
	ActionMerge ActionType = "merge"
	// ActionSkip drops the incoming feature.
	ActionSkip ActionType = "skip"
	// ActionReplace overwrites the existing record with the incoming one.
	ActionReplace ActionType = "replace"
	// ActionReject aborts ingestion with a duplicate id error.
	ActionReject ActionType = "reject"
)

// Action represents a planned placement.
type Action struct {
	// Type specifies the action to perform.
	Type ActionType

	// Key is the id the incoming feature arrived with.
	Key string

	// Reason explains why this action was chosen.
	Reason string

	// Fallback is set when the strategy could not be honored and a weaker
	// action was chosen in its place.
	Fallback bool

	// Feature is the record to store. For ActionMerge it is the merged
	// record; for ActionSkip and ActionReject it is the incoming feature.
	Feature *gff.Feature
}

// Summary counts applied actions.
type Summary struct {
	Inserted int
	Renamed  int
	Merged   int
	Skipped  int
	Replaced int
}

// Total returns the number of incoming features seen.
func (s Summary) Total() int {
	return s.Inserted + s.Renamed + s.Merged + s.Skipped + s.Replaced
}

// Record counts one applied action.
func (s *Summary) Record(t ActionType) {
	switch t {
	case ActionInsert:
		s.Inserted++
	case ActionRename:
		s.Renamed++
	case ActionMerge:
		s.Merged++
	case ActionSkip:
		s.Skipped++
	case ActionReplace:
		s.Replaced++
	}
}
