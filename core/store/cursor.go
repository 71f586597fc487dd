package store

import (
	"context"
	"database/sql"
	"fmt"

	"feature-merge/core/gff"

	"gorm.io/gorm"
)

// IterateOptions selects and orders the features of an iteration.
type IterateOptions struct {
	// Order lists the sort keys. The id always breaks ties.
	Order []OrderKey
	// FeatureTypes restricts iteration to these types. Empty means all.
	FeatureTypes []string
	// TopLevel skips features bound to an aggregate by BindParent.
	TopLevel bool
}

// Cursor walks features in order. It implements gff.Source.
type Cursor struct {
	db   *gorm.DB
	rows *sql.Rows
	skip func(id string) bool
	cur  *gff.Feature
	err  error
}

// Iterate opens a cursor over the store.
func (s *Store) Iterate(ctx context.Context, opts IterateOptions) (*Cursor, error) {
	q := s.db.WithContext(ctx).Model(&featureRow{})
	if len(opts.FeatureTypes) > 0 {
		q = q.Where("featuretype IN ?", opts.FeatureTypes)
	}
	rows, err := q.Order(orderClause(opts.Order)).Rows()
	if err != nil {
		return nil, fmt.Errorf("failed to iterate features: %w", err)
	}
	c := &Cursor{db: s.db, rows: rows}
	if opts.TopLevel {
		c.skip = func(id string) bool { return s.BoundParent(id) != "" }
	}
	return c, nil
}

func (c *Cursor) Next() bool {
	if c.err != nil || c.rows == nil {
		return false
	}
	for c.rows.Next() {
		var row featureRow
		if err := c.db.ScanRows(c.rows, &row); err != nil {
			c.err = fmt.Errorf("failed to scan feature: %w", err)
			c.Close()
			return false
		}
		if c.skip != nil && c.skip(row.ID) {
			continue
		}
		c.cur = row.toFeature()
		return true
	}
	c.err = c.rows.Err()
	c.Close()
	return false
}

func (c *Cursor) Feature() *gff.Feature { return c.cur }

func (c *Cursor) Err() error { return c.err }

// Close releases the cursor. It is safe to call more than once.
func (c *Cursor) Close() error {
	if c.rows == nil {
		return nil
	}
	err := c.rows.Close()
	c.rows = nil
	return err
}
