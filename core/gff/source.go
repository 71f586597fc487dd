package gff

// Source yields features one at a time, in the style of featio.Scanner.
// Next advances to the following feature and reports whether one is available;
// Err returns the first error other than end of input.
type Source interface {
	Next() bool
	Feature() *Feature
	Err() error
}

// Sink consumes features in order.
type Sink interface {
	Write(f *Feature) error
}

// SliceSource is a Source over an in-memory slice.
type SliceSource struct {
	features []*Feature
	pos      int
}

// NewSliceSource returns a Source yielding features in slice order.
func NewSliceSource(features []*Feature) *SliceSource {
	return &SliceSource{features: features, pos: -1}
}

func (s *SliceSource) Next() bool {
	if s.pos+1 >= len(s.features) {
		s.pos = len(s.features)
		return false
	}
	s.pos++
	return true
}

func (s *SliceSource) Feature() *Feature {
	if s.pos < 0 || s.pos >= len(s.features) {
		return nil
	}
	return s.features[s.pos]
}

func (s *SliceSource) Err() error { return nil }

// Collect drains src into a slice.
func Collect(src Source) ([]*Feature, error) {
	var out []*Feature
	for src.Next() {
		out = append(out, src.Feature())
	}
	return out, src.Err()
}
