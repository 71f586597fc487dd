package postprocess

import (
	"context"
	"fmt"

	"feature-merge/core/gff"
	"feature-merge/core/reconcile"
	"feature-merge/core/store"
	"feature-merge/core/utils"
)

// Source is the source column given to every aggregate.
const Source = "feature_merge"

// ActionType represents the type of post-processing action.
type ActionType string

const (
	// ActionUpsert writes an aggregate to the store.
	ActionUpsert ActionType = "upsert_aggregate"
	// ActionBind links a component to its aggregate.
	ActionBind ActionType = "bind_component"
	// ActionDelete removes an excluded component.
	ActionDelete ActionType = "delete_component"
)

// Action represents a planned post-processing action.
type Action struct {
	Type ActionType

	// Key is the id of the feature the action applies to.
	Key string

	// Aggregate is the aggregate written or bound to.
	Aggregate *gff.Feature

	// Component is the component bound or deleted. Nil for ActionUpsert.
	Component *gff.Feature
}

// Summary counts planned actions.
type Summary struct {
	Aggregates int
	Bound      int
	Deleted    int
}

// Plan is the set of store changes for one merge pass.
type Plan struct {
	Actions []Action
	Summary Summary
}

// Options controls plan building.
type Options struct {
	// ExcludeComponents deletes components instead of binding them.
	ExcludeComponents bool
}

// BuildPlan prepares aggregates for storage and plans the store changes.
// Features without components are ignored. Upserts come first so every bind
// finds its aggregate in place.
func BuildPlan(aggregates []*gff.Feature, opts Options) *Plan {
	plan := &Plan{}
	var links []Action

	for _, agg := range aggregates {
		if !agg.IsAggregate() {
			continue
		}
		sources := make([]string, len(agg.Children))
		for i, c := range agg.Children {
			sources[i] = c.Source
		}
		agg.Attributes.Set(gff.AttrSources, utils.Unique(sources)...)
		agg.Source = Source

		plan.Actions = append(plan.Actions, Action{Type: ActionUpsert, Key: agg.ID, Aggregate: agg})
		plan.Summary.Aggregates++

		for _, c := range agg.Children {
			action := Action{Type: ActionBind, Key: c.ID, Aggregate: agg, Component: c}
			if opts.ExcludeComponents {
				action.Type = ActionDelete
				plan.Summary.Deleted++
			} else {
				plan.Summary.Bound++
			}
			links = append(links, action)
		}
	}
	plan.Actions = append(plan.Actions, links...)
	return plan
}

// ApplyPlan executes plan against st in a single transaction.
// It returns the number of actions executed.
func ApplyPlan(ctx context.Context, st *store.Store, plan *Plan) (executed int, err error) {
	var upserts []*gff.Feature
	for _, a := range plan.Actions {
		if a.Type == ActionUpsert {
			upserts = append(upserts, a.Aggregate)
		}
	}
	if len(upserts) == 0 {
		return 0, nil
	}

	err = st.Transaction(ctx, func(tx *store.Store) error {
		executed = 0
		if _, err := tx.UpdateFrom(ctx, gff.NewSliceSource(upserts), reconcile.StrategyReplace); err != nil {
			return fmt.Errorf("failed to store aggregates: %w", err)
		}
		executed += len(upserts)

		for _, a := range plan.Actions {
			switch a.Type {
			case ActionBind:
				if err := tx.BindParent(ctx, a.Aggregate, a.Component); err != nil {
					return fmt.Errorf("failed to bind %s to %s: %w", a.Key, a.Aggregate.ID, err)
				}
			case ActionDelete:
				if err := tx.Delete(ctx, a.Key); err != nil {
					return fmt.Errorf("failed to delete component %s of %s: %w", a.Key, a.Aggregate.ID, err)
				}
			default:
				continue
			}
			executed++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return executed, nil
}
