package store

import (
	"context"
	"fmt"

	"feature-merge/core/gff"
	"feature-merge/core/reconcile"

	"go.uber.org/zap"
)

// UpdateFrom streams every feature of src into the store, resolving id
// collisions with strategy. All writes happen in one transaction: if the
// source or a placement fails, nothing from src is kept.
// It returns ErrSourceEmpty when src yields no features.
func (s *Store) UpdateFrom(ctx context.Context, src gff.Source, strategy reconcile.Strategy) (reconcile.Summary, error) {
	var summary reconcile.Summary

	err := s.Transaction(ctx, func(tx *Store) error {
		for src.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			f := src.Feature()
			if err := f.Validate(); err != nil {
				return err
			}
			action, err := tx.place(ctx, f, strategy)
			if err != nil {
				return err
			}
			summary.Record(action)
		}
		if err := src.Err(); err != nil {
			return err
		}
		if summary.Total() == 0 {
			return ErrSourceEmpty
		}
		return nil
	})
	if err != nil {
		return reconcile.Summary{}, err
	}
	return summary, nil
}

// place plans and applies the placement of one incoming feature.
func (s *Store) place(ctx context.Context, f *gff.Feature, strategy reconcile.Strategy) (reconcile.ActionType, error) {
	var existing *gff.Feature
	if f.ID != "" {
		exists, err := s.Exists(ctx, f.ID)
		if err != nil {
			return "", err
		}
		if exists {
			if existing, err = s.Get(ctx, f.ID); err != nil {
				return "", err
			}
		}
	}

	action := reconcile.Plan(strategy, existing, f)
	switch action.Type {
	case reconcile.ActionInsert:
		return action.Type, s.Insert(ctx, action.Feature)

	case reconcile.ActionRename:
		id, err := s.NextID(ctx, f.Type)
		if err != nil {
			return "", err
		}
		switch {
		case action.Fallback:
			s.log.Warn("Merge fallback, duplicate appended",
				zap.String("id", action.Key),
				zap.String("new_id", id),
				zap.String("reason", action.Reason),
			)
		case action.Key != "":
			s.log.Debug("Renamed duplicate feature",
				zap.String("id", action.Key),
				zap.String("new_id", id),
				zap.String("reason", action.Reason),
			)
		}
		action.Feature.SetID(id)
		return action.Type, s.Insert(ctx, action.Feature)

	case reconcile.ActionMerge, reconcile.ActionReplace:
		return action.Type, s.put(ctx, action.Feature)

	case reconcile.ActionSkip:
		s.log.Warn("Duplicate skipped",
			zap.String("id", action.Key),
			zap.String("feature", f.String()),
		)
		return action.Type, nil

	default:
		return "", fmt.Errorf("%w: %s (%s)", ErrDuplicateID, action.Key, f.String())
	}
}
