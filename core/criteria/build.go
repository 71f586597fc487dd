package criteria

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidThreshold is returned for a negative overlap threshold.
var ErrInvalidThreshold = errors.New("threshold must be a non-negative integer")

// OverlapMode selects the default overlap predicate.
type OverlapMode string

const (
	// OverlapEnd lets adjacent features merge (overlap_end_inclusive).
	OverlapEnd OverlapMode = "end_inclusive"
	// OverlapAny requires the intervals to intersect (overlap_any_inclusive).
	OverlapAny OverlapMode = "any_inclusive"
)

// ParseOverlapMode validates an overlap mode name. "" selects OverlapEnd.
func ParseOverlapMode(s string) (OverlapMode, error) {
	switch m := OverlapMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return OverlapEnd, nil
	case OverlapEnd, OverlapAny:
		return m, nil
	default:
		return "", fmt.Errorf("unknown overlap mode %q (want end_inclusive or any_inclusive)", s)
	}
}

// Options adjusts the default criteria of a merge run.
type Options struct {
	IgnoreStrand       bool
	IgnoreSeqID        bool
	IgnoreFeatureTypes bool
	ExactOnly          bool
	// Threshold, when set, replaces the overlap predicate with
	// OverlapAnyThreshold. It is ignored when ExactOnly is set.
	Threshold *int
	Overlap   OverlapMode
}

// Default returns the default criteria for the given overlap mode:
// same seqid, overlap, same strand, same feature type.
func Default(mode OverlapMode) List {
	overlap := OverlapEndInclusive
	if mode == OverlapAny {
		overlap = OverlapAnyInclusive
	}
	return List{SameSeqID, overlap, SameStrand, SameFeatureType}
}

// Build returns the criteria selected by opts.
func Build(opts Options) (List, error) {
	mode, err := ParseOverlapMode(string(opts.Overlap))
	if err != nil {
		return nil, err
	}
	if opts.Threshold != nil && *opts.Threshold < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidThreshold, *opts.Threshold)
	}

	list := Default(mode)
	overlapName := list[1].Name

	switch {
	case opts.ExactOnly:
		list = list.Replace(overlapName, ExactCoordinatesOnly)
	case opts.Threshold != nil:
		list = list.Replace(overlapName, OverlapAnyThreshold(*opts.Threshold))
	}
	if opts.IgnoreStrand {
		list = list.Without(NameSameStrand)
	}
	if opts.IgnoreSeqID {
		list = list.Without(NameSameSeqID)
	}
	if opts.IgnoreFeatureTypes {
		list = list.Without(NameSameFeatureType)
	}
	return list, nil
}
