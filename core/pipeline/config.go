package pipeline

import (
	"strings"

	"feature-merge/core/store"
)

// Config holds the merge options of a run.
type Config struct {
	// IgnoreStrand merges features on different strands.
	IgnoreStrand bool `mapstructure:"ignore_strand" default:"false"`
	// IgnoreSeqID merges features on different sequences.
	IgnoreSeqID bool `mapstructure:"ignore_seqid" default:"false"`
	// IgnoreFeatureTypes merges features of different types.
	IgnoreFeatureTypes bool `mapstructure:"ignore_featuretypes" default:"false"`
	// ExactOnly only merges features with identical coordinates.
	ExactOnly bool `mapstructure:"exact_only" default:"false"`
	// Threshold is the largest gap merged. Nil keeps the overlap test.
	Threshold *int `mapstructure:"threshold"`
	// ExcludeComponents drops merged components from the output.
	ExcludeComponents bool `mapstructure:"exclude_components" default:"false"`
	// FeatureTypes restricts merging to groups of types. Groups are separated
	// by ';' and types within a group by ','. Empty merges all types at once.
	FeatureTypes string `mapstructure:"featuretypes" default:""`
	// MergeStrategy resolves id collisions between input records.
	MergeStrategy string `mapstructure:"merge_strategy" default:"error"`
	// Overlap is the default overlap test (end_inclusive, any_inclusive).
	Overlap string `mapstructure:"overlap" default:"end_inclusive"`
	// OrderBy lists the sort keys of the merge sweep.
	OrderBy []string `mapstructure:"order_by" default:"seqid,featuretype,strand,start"`
	// Multiline enables split decisions for discontiguous aggregates.
	Multiline bool `mapstructure:"multiline" default:"false"`
	// Format is the input dialect (auto, gff3, gtf).
	Format string `mapstructure:"format" default:"auto"`
}

// Groups returns the feature type groups, one merge pass each. A single nil
// group means all types.
func (c Config) Groups() [][]string {
	var groups [][]string
	for _, g := range strings.Split(c.FeatureTypes, ";") {
		var types []string
		for _, t := range strings.Split(g, ",") {
			if t = strings.TrimSpace(t); t != "" {
				types = append(types, t)
			}
		}
		if len(types) > 0 {
			groups = append(groups, types)
		}
	}
	if len(groups) == 0 {
		return [][]string{nil}
	}
	return groups
}

// Order returns the sort order of the merge sweep. IgnoreSeqID drops seqid and
// IgnoreFeatureTypes moves featuretype to the end.
func (c Config) Order() ([]store.OrderKey, error) {
	names := c.OrderBy
	if len(names) == 0 {
		names = make([]string, len(store.DefaultOrder))
		for i, k := range store.DefaultOrder {
			names[i] = string(k)
		}
	}
	keys, err := store.ParseOrder(names)
	if err != nil {
		return nil, err
	}

	out := make([]store.OrderKey, 0, len(keys))
	moveType := false
	for _, k := range keys {
		switch {
		case k == store.OrderSeqID && c.IgnoreSeqID:
		case k == store.OrderFeatureType && c.IgnoreFeatureTypes:
			moveType = true
		default:
			out = append(out, k)
		}
	}
	if moveType {
		out = append(out, store.OrderFeatureType)
	}
	return out, nil
}
