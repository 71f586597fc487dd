package store

import (
	"context"

	"feature-merge/core/gff"
)

// WalkFunc is called for every feature of a walk. depth is 0 for top-level
// features and grows by one for each level of merge components.
type WalkFunc func(f *gff.Feature, depth int) error

// Walk visits every feature in order. Components bound to an aggregate by
// BindParent are visited directly after their aggregate instead of at their
// own sort position.
func (s *Store) Walk(ctx context.Context, order []OrderKey, fn WalkFunc) error {
	cur, err := s.Iterate(ctx, IterateOptions{Order: order, TopLevel: true})
	if err != nil {
		return err
	}
	defer cur.Close()

	for cur.Next() {
		f := cur.Feature()
		if err := fn(f, 0); err != nil {
			return err
		}
		if err := s.walkComponents(ctx, f.ID, 1, fn); err != nil {
			return err
		}
	}
	return cur.Err()
}

func (s *Store) walkComponents(ctx context.Context, id string, depth int, fn WalkFunc) error {
	for _, childID := range s.Children(id) {
		if s.BoundParent(childID) != id {
			continue
		}
		child, err := s.Get(ctx, childID)
		if err != nil {
			return err
		}
		if err := fn(child, depth); err != nil {
			return err
		}
		if err := s.walkComponents(ctx, childID, depth+1, fn); err != nil {
			return err
		}
	}
	return nil
}
