package criteria

import (
	"strings"

	"feature-merge/core/gff"
)

// Func reports whether cand may join the group held by acc.
type Func func(acc, cand *gff.Feature, children []*gff.Feature) bool

// Criterion is a named merge predicate.
type Criterion struct {
	Name  string
	Match Func
}

// Names of the built-in criteria.
const (
	NameSameSeqID            = "same_seqid"
	NameSameStrand           = "same_strand"
	NameSameFeatureType      = "same_feature_type"
	NameOverlapAnyInclusive  = "overlap_any_inclusive"
	NameOverlapEndInclusive  = "overlap_end_inclusive"
	NameExactCoordinatesOnly = "exact_coordinates_only"
	NameOverlapAnyThreshold  = "overlap_any_threshold"
)

var (
	// SameSeqID holds when both features lie on the same sequence.
	SameSeqID = Criterion{NameSameSeqID, sameSeqID}

	// SameStrand holds for identical strands. "." only matches ".".
	SameStrand = Criterion{NameSameStrand, sameStrand}

	// SameFeatureType holds for identical feature types.
	SameFeatureType = Criterion{NameSameFeatureType, sameFeatureType}

	// OverlapAnyInclusive holds when the closed intervals intersect.
	OverlapAnyInclusive = Criterion{NameOverlapAnyInclusive, overlapAnyInclusive}

	// OverlapEndInclusive holds when cand starts no later than one base past
	// the end of acc, so adjacent features touch.
	OverlapEndInclusive = Criterion{NameOverlapEndInclusive, overlapEndInclusive}

	// ExactCoordinatesOnly holds when start and end are identical.
	ExactCoordinatesOnly = Criterion{NameExactCoordinatesOnly, exactCoordinatesOnly}
)

// OverlapAnyThreshold returns a criterion that holds when cand starts no later
// than t bases past the end of acc.
func OverlapAnyThreshold(t int) Criterion {
	return Criterion{
		Name: NameOverlapAnyThreshold,
		Match: func(acc, cand *gff.Feature, _ []*gff.Feature) bool {
			return cand.Start <= acc.End+t
		},
	}
}

func sameSeqID(acc, cand *gff.Feature, _ []*gff.Feature) bool {
	return acc.SeqID == cand.SeqID
}

func sameStrand(acc, cand *gff.Feature, _ []*gff.Feature) bool {
	return acc.Strand == cand.Strand
}

func sameFeatureType(acc, cand *gff.Feature, _ []*gff.Feature) bool {
	return acc.Type == cand.Type
}

func overlapAnyInclusive(acc, cand *gff.Feature, _ []*gff.Feature) bool {
	return acc.Start <= cand.End && cand.Start <= acc.End
}

func overlapEndInclusive(acc, cand *gff.Feature, _ []*gff.Feature) bool {
	return cand.Start <= acc.End+1
}

func exactCoordinatesOnly(acc, cand *gff.Feature, _ []*gff.Feature) bool {
	return acc.Start == cand.Start && acc.End == cand.End
}

// List is an ordered conjunction of criteria.
type List []Criterion

// Eval reports whether every criterion holds, stopping at the first that does not.
func (l List) Eval(acc, cand *gff.Feature, children []*gff.Feature) bool {
	for _, c := range l {
		if !c.Match(acc, cand, children) {
			return false
		}
	}
	return true
}

// Has reports whether a criterion named name is in the list.
func (l List) Has(name string) bool {
	for _, c := range l {
		if c.Name == name {
			return true
		}
	}
	return false
}

// Without returns a copy of l without the criteria named name.
func (l List) Without(name string) List {
	out := make(List, 0, len(l))
	for _, c := range l {
		if c.Name != name {
			out = append(out, c)
		}
	}
	return out
}

// Replace returns a copy of l with every criterion named name swapped for c.
func (l List) Replace(name string, c Criterion) List {
	out := make(List, len(l))
	for i := range l {
		if l[i].Name == name {
			out[i] = c
		} else {
			out[i] = l[i]
		}
	}
	return out
}

// Names returns the criterion names in evaluation order.
func (l List) Names() []string {
	names := make([]string, len(l))
	for i := range l {
		names[i] = l[i].Name
	}
	return names
}

func (l List) String() string {
	return strings.Join(l.Names(), ",")
}
