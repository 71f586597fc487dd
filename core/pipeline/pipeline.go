package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"feature-merge/core/criteria"
	"feature-merge/core/gff"
	"feature-merge/core/gffio"
	"feature-merge/core/merge"
	"feature-merge/core/metrics"
	"feature-merge/core/postprocess"
	"feature-merge/core/reconcile"
	"feature-merge/core/store"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Result summarizes a run.
type Result struct {
	Ingested   reconcile.Summary
	Passes     int
	Aggregates int
	Written    int
	// Empty is set when no input produced a feature.
	Empty bool
}

// Pipeline runs merges with one validated configuration.
type Pipeline struct {
	db       *gorm.DB
	opener   *gffio.Opener
	log      *zap.Logger
	metrics  *metrics.Metrics
	splitter merge.Splitter

	criteria criteria.List
	strategy reconcile.Strategy
	order    []store.OrderKey
	groups   [][]string
	format   gffio.Format
	cfg      Config
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithSplitter sets the split decision used when multiline is enabled.
func WithSplitter(s merge.Splitter) Option {
	return func(p *Pipeline) { p.splitter = s }
}

// New validates cfg and returns a pipeline storing features in db.
// m may be nil.
func New(cfg Config, db *gorm.DB, opener *gffio.Opener, log *zap.Logger, m *metrics.Metrics, opts ...Option) (*Pipeline, error) {
	strategy, err := reconcile.ParseStrategy(cfg.MergeStrategy)
	if err != nil {
		return nil, err
	}

	copts := criteria.Options{
		IgnoreStrand:       cfg.IgnoreStrand,
		IgnoreSeqID:        cfg.IgnoreSeqID,
		IgnoreFeatureTypes: cfg.IgnoreFeatureTypes,
		ExactOnly:          cfg.ExactOnly,
		Overlap:            criteria.OverlapMode(cfg.Overlap),
		Threshold:          cfg.Threshold,
	}
	list, err := criteria.Build(copts)
	if err != nil {
		return nil, err
	}

	order, err := cfg.Order()
	if err != nil {
		return nil, err
	}
	format, err := gffio.ParseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}

	if log == nil {
		log = zap.NewNop()
	}
	if m == nil {
		m = metrics.New()
	}
	p := &Pipeline{
		db:       db,
		opener:   opener,
		log:      log,
		metrics:  m,
		criteria: list,
		strategy: strategy,
		order:    order,
		groups:   cfg.Groups(),
		format:   format,
		cfg:      cfg,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Run merges inputs and writes the result to output ("-" or "" for stdout).
func (p *Pipeline) Run(ctx context.Context, inputs []string, output string) (Result, error) {
	var res Result
	started := time.Now()
	defer func() { p.metrics.ObserveDuration(time.Since(started)) }()

	p.log.Info("Starting merge",
		zap.Strings("inputs", inputs),
		zap.String("criteria", p.criteria.String()),
		zap.String("strategy", string(p.strategy)),
	)

	st, err := store.Open(ctx, p.db, p.log)
	if err != nil {
		return res, err
	}

	for _, in := range inputs {
		summary, err := p.ingest(ctx, st, in)
		if errors.Is(err, store.ErrSourceEmpty) {
			p.log.Warn("Input has no features", zap.String("input", in))
			continue
		}
		if err != nil {
			return res, err
		}
		p.metrics.RecordIngest(summary)
		res.Ingested.Inserted += summary.Inserted
		res.Ingested.Renamed += summary.Renamed
		res.Ingested.Merged += summary.Merged
		res.Ingested.Skipped += summary.Skipped
		res.Ingested.Replaced += summary.Replaced
	}

	n, err := st.Count(ctx)
	if err != nil {
		return res, err
	}
	if n == 0 {
		p.log.Warn("No features to merge")
		res.Empty = true
		return res, nil
	}

	for _, types := range p.groups {
		aggs, err := p.pass(ctx, st, types)
		if err != nil {
			return res, err
		}
		res.Passes++
		res.Aggregates += aggs
	}

	written, err := p.write(ctx, st, output)
	if err != nil {
		return res, err
	}
	res.Written = written

	p.log.Info("Merge completed",
		zap.Int("features", res.Ingested.Total()),
		zap.Int("aggregates", res.Aggregates),
		zap.Int("written", res.Written),
	)
	return res, nil
}

// ingest loads one input into st.
func (p *Pipeline) ingest(ctx context.Context, st *store.Store, path string) (reconcile.Summary, error) {
	rc, err := p.opener.OpenInput(ctx, path)
	if err != nil {
		return reconcile.Summary{}, err
	}
	defer rc.Close()

	summary, err := st.UpdateFrom(ctx, gffio.NewSource(rc, path, p.format), p.strategy)
	if err != nil {
		return summary, fmt.Errorf("failed to load %s: %w", path, err)
	}
	p.log.Debug("Loaded input",
		zap.String("input", path),
		zap.Int("inserted", summary.Inserted),
		zap.Int("renamed", summary.Renamed),
		zap.Int("merged", summary.Merged),
		zap.Int("skipped", summary.Skipped),
		zap.Int("replaced", summary.Replaced),
	)
	return summary, nil
}

// pass runs one merge sweep over the features of types (all when nil) and
// writes its aggregates back. The cursor is closed before the store changes.
func (p *Pipeline) pass(ctx context.Context, st *store.Store, types []string) (int, error) {
	cur, err := st.Iterate(ctx, store.IterateOptions{Order: p.order, FeatureTypes: types, TopLevel: true})
	if err != nil {
		return 0, err
	}

	engine := merge.NewEngine(p.criteria, st,
		merge.WithLogger(p.log),
		merge.WithMultiline(p.cfg.Multiline, p.splitter),
	)
	var aggregates []*gff.Feature
	stats, err := engine.Run(ctx, cur, func(f *gff.Feature) error {
		if f.IsAggregate() {
			aggregates = append(aggregates, f)
		}
		return nil
	})
	if cerr := cur.Close(); err == nil && cerr != nil {
		err = cerr
	}
	if err != nil {
		return 0, fmt.Errorf("merge pass failed: %w", err)
	}

	plan := postprocess.BuildPlan(aggregates, postprocess.Options{ExcludeComponents: p.cfg.ExcludeComponents})
	if _, err := postprocess.ApplyPlan(ctx, st, plan); err != nil {
		return 0, err
	}
	p.metrics.RecordPass(stats, plan.Summary)

	p.log.Info("Merge pass completed",
		zap.Strings("featuretypes", types),
		zap.Int("read", stats.Read),
		zap.Int("aggregates", stats.Aggregates),
		zap.Int("pass_through", stats.PassThrough),
		zap.Int("bound", plan.Summary.Bound),
		zap.Int("excluded", plan.Summary.Deleted),
	)
	return stats.Aggregates, nil
}

// write walks the store in order and serializes it as GFF3.
func (p *Pipeline) write(ctx context.Context, st *store.Store, output string) (int, error) {
	out, err := p.opener.CreateOutput(ctx, output)
	if err != nil {
		return 0, err
	}
	w := gffio.NewWriter(out)

	err = w.WriteHeader()
	if err == nil {
		err = st.Walk(ctx, p.order, func(f *gff.Feature, _ int) error {
			return w.Write(f)
		})
	}
	if err == nil {
		err = w.Flush()
	}
	if cerr := out.Close(); err == nil && cerr != nil {
		err = cerr
	}
	if err != nil {
		return w.Count(), fmt.Errorf("failed to write output: %w", err)
	}
	return w.Count(), nil
}
