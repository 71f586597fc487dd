package gff

import (
	"errors"
	"fmt"
)

// ErrInputFormat marks records that violate the data model invariants.
var ErrInputFormat = errors.New("invalid feature record")

const (
	// StrandPlus is the forward strand.
	StrandPlus = "+"
	// StrandMinus is the reverse strand.
	StrandMinus = "-"
	// StrandUnknown is used for unstranded features and disagreeing merges.
	StrandUnknown = "."

	// FrameUnknown is used for features without a reading frame.
	FrameUnknown = "."

	// GenericType is the feature type given to aggregates whose children disagree.
	GenericType = "sequence_feature"

	// AttrID is the attribute holding a feature's identifier.
	AttrID = "ID"
	// AttrParent is the attribute linking a child to its parent(s).
	AttrParent = "Parent"
	// AttrSources lists the distinct sources of an aggregate's children.
	AttrSources = "sources"
)

// Feature is one annotation record over a sequence.
type Feature struct {
	ID         string
	SeqID      string
	Source     string
	Type       string
	Start      int
	End        int
	Score      string
	Strand     string
	Frame      string
	Attributes Attributes

	// Children holds the components of an aggregate. It is never serialized;
	// stored children point at their aggregate through the Parent attribute.
	Children []*Feature
}

// Validate checks the structural invariants of the record.
func (f *Feature) Validate() error {
	if f.SeqID == "" {
		return fmt.Errorf("%w: feature %q has an empty seqid", ErrInputFormat, f.ID)
	}
	if f.Type == "" {
		return fmt.Errorf("%w: feature %q has an empty feature type", ErrInputFormat, f.ID)
	}
	if f.Start < 1 {
		return fmt.Errorf("%w: feature %q starts at %d, coordinates are 1-based", ErrInputFormat, f.ID, f.Start)
	}
	if f.Start > f.End {
		return fmt.Errorf("%w: feature %q has start %d > end %d", ErrInputFormat, f.ID, f.Start, f.End)
	}
	switch f.Strand {
	case StrandPlus, StrandMinus, StrandUnknown:
	default:
		return fmt.Errorf("%w: feature %q has unknown strand %q", ErrInputFormat, f.ID, f.Strand)
	}
	switch f.Frame {
	case "0", "1", "2", FrameUnknown:
	default:
		return fmt.Errorf("%w: feature %q has unknown frame %q", ErrInputFormat, f.ID, f.Frame)
	}
	return nil
}

// Clone returns a deep copy of the feature without its Children.
func (f *Feature) Clone() *Feature {
	c := *f
	c.Attributes = f.Attributes.Clone()
	c.Children = nil
	return &c
}

// IsAggregate reports whether the feature was built by merging components.
func (f *Feature) IsAggregate() bool {
	return len(f.Children) > 0
}

// SetID sets both the identifier and its ID attribute.
func (f *Feature) SetID(id string) {
	f.ID = id
	f.Attributes.Set(AttrID, id)
}

// Parents returns the ids listed in the Parent attribute.
func (f *Feature) Parents() []string {
	return f.Attributes.Get(AttrParent)
}

// String renders a short description for log messages.
func (f *Feature) String() string {
	return fmt.Sprintf("%s %s:%d-%d(%s) %s", f.ID, f.SeqID, f.Start, f.End, f.Strand, f.Type)
}
