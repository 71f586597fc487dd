package reconcile

import (
	"feature-merge/core/gff"
)

// Plan decides how to place incoming given the record currently stored under
// its id. existing is nil when the id is free.
func Plan(strategy Strategy, existing, incoming *gff.Feature) Action {
	if incoming.ID == "" {
		return Action{Type: ActionRename, Reason: "feature has no id", Feature: incoming}
	}
	if existing == nil {
		return Action{Type: ActionInsert, Key: incoming.ID, Feature: incoming}
	}

	action := Action{Key: incoming.ID, Feature: incoming}
	switch strategy {
	case StrategyMerge:
		if !sameFields(existing, incoming) {
			action.Type = ActionRename
			action.Reason = "duplicate id with different coordinates or fields; appended instead of merged"
			action.Fallback = true
			return action
		}
		merged := existing.Clone()
		merged.Attributes.Merge(incoming.Attributes)
		action.Type = ActionMerge
		action.Reason = "duplicate id; attributes merged"
		action.Feature = merged
	case StrategyAppend:
		action.Type = ActionRename
		action.Reason = "duplicate id; appended"
	case StrategySkip:
		action.Type = ActionSkip
		action.Reason = "duplicate id; skipped"
	case StrategyReplace:
		action.Type = ActionReplace
		action.Reason = "duplicate id; replaced"
	default:
		action.Type = ActionReject
		action.Reason = "duplicate id"
	}
	return action
}

// sameFields compares every non-attribute field.
func sameFields(a, b *gff.Feature) bool {
	return a.SeqID == b.SeqID &&
		a.Source == b.Source &&
		a.Type == b.Type &&
		a.Start == b.Start &&
		a.End == b.End &&
		a.Score == b.Score &&
		a.Strand == b.Strand &&
		a.Frame == b.Frame
}
