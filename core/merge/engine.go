package merge

import (
	"context"
	"fmt"

	"feature-merge/core/criteria"
	"feature-merge/core/gff"
	"feature-merge/core/utils"

	"go.uber.org/zap"
)

// IDSource hands out fresh feature ids.
type IDSource interface {
	NextID(ctx context.Context, featureType string) (string, error)
}

// Splitter reports whether cand, although accepted by the criteria, should
// start a new line of the open aggregate instead of widening it.
type Splitter func(acc, cand *gff.Feature, children []*gff.Feature) bool

// EmitFunc receives every feature the engine emits, in order.
type EmitFunc func(f *gff.Feature) error

// Stats counts what one Run produced.
type Stats struct {
	Read        int
	PassThrough int
	Aggregates  int
	Components  int
}

// Engine runs merge passes.
type Engine struct {
	criteria  criteria.List
	ids       IDSource
	log       *zap.Logger
	multiline bool
	split     Splitter
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithMultiline enables split decisions made by s.
func WithMultiline(enabled bool, s Splitter) Option {
	return func(e *Engine) {
		e.multiline = enabled
		e.split = s
	}
}

// NewEngine returns an engine merging with list and drawing ids from ids.
func NewEngine(list criteria.List, ids IDSource, opts ...Option) *Engine {
	e := &Engine{criteria: list, ids: ids, log: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// group is the open merge group.
type group struct {
	merged   *gff.Feature
	children []*gff.Feature
	// id is the aggregate id once one was drawn, or reused after a split.
	id string
}

// Run consumes src, which must be in sort order, and passes every pass-through
// and aggregate to emit.
func (e *Engine) Run(ctx context.Context, src gff.Source, emit EmitFunc) (Stats, error) {
	var (
		stats Stats
		g     *group
	)

	flush := func() error {
		if g == nil {
			return nil
		}
		out := e.finalize(g)
		g = nil
		if out.IsAggregate() {
			stats.Aggregates++
			stats.Components += len(out.Children)
			e.log.Debug("Built aggregate",
				zap.String("id", out.ID),
				zap.String("span", out.String()),
				zap.Int("components", len(out.Children)),
			)
		} else {
			stats.PassThrough++
		}
		return emit(out)
	}

	for src.Next() {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		f := src.Feature()
		stats.Read++

		for {
			if g == nil {
				if e.criteria.Eval(f, f, nil) {
					g = &group{merged: f, children: []*gff.Feature{f}}
				} else {
					stats.PassThrough++
					if err := emit(plain(f)); err != nil {
						return stats, err
					}
				}
				break
			}

			if len(g.children) == 1 && !e.criteria.Eval(g.merged, g.merged, g.children) {
				if err := flush(); err != nil {
					return stats, err
				}
				continue
			}

			if !e.criteria.Eval(g.merged, f, g.children) {
				if err := flush(); err != nil {
					return stats, err
				}
				continue
			}

			if e.multiline && e.split != nil && len(g.children) > 1 && e.split(g.merged, f, g.children) {
				id := g.merged.ID
				if err := flush(); err != nil {
					return stats, err
				}
				g = &group{merged: f, children: []*gff.Feature{f}, id: id}
				break
			}

			if err := e.absorb(ctx, g, f); err != nil {
				return stats, err
			}
			break
		}
	}
	if err := src.Err(); err != nil {
		return stats, err
	}
	if err := flush(); err != nil {
		return stats, err
	}
	return stats, nil
}

// absorb adds f to g, turning the opener into an aggregate on first use.
func (e *Engine) absorb(ctx context.Context, g *group, f *gff.Feature) error {
	if len(g.children) == 1 {
		id := g.id
		if id == "" {
			var err error
			if id, err = e.ids.NextID(ctx, g.merged.Type); err != nil {
				return fmt.Errorf("failed to draw aggregate id for %s: %w", g.merged.ID, err)
			}
		}
		agg := g.merged.Clone()
		agg.Attributes = nil
		agg.SetID(id)
		g.merged = agg
		g.id = id
	}
	g.children = append(g.children, f)

	acc := g.merged
	acc.SeqID = utils.AppendListMember(acc.SeqID, f.SeqID)
	if acc.Strand != f.Strand {
		acc.Strand = gff.StrandUnknown
	}
	if acc.Frame != f.Frame {
		acc.Frame = gff.FrameUnknown
	}
	if acc.Type != f.Type {
		acc.Type = gff.GenericType
	}
	acc.Start = min(acc.Start, f.Start)
	acc.End = max(acc.End, f.End)
	return nil
}

// finalize returns the feature a closed group emits.
func (e *Engine) finalize(g *group) *gff.Feature {
	if len(g.children) <= 1 {
		return plain(g.children[0])
	}
	sources := make([]string, len(g.children))
	for i, c := range g.children {
		sources[i] = c.Source
	}
	agg := g.merged
	agg.Source = utils.JoinUnique(sources, ",")
	agg.Children = g.children
	return agg
}

// plain returns f without components. A feature read back from an earlier
// pass may still carry the children of the aggregate it was.
func plain(f *gff.Feature) *gff.Feature {
	if len(f.Children) == 0 {
		return f
	}
	return f.Clone()
}
