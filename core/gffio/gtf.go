package gffio

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"feature-merge/core/gff"

	"github.com/biogo/biogo/io/featio"
	bgff "github.com/biogo/biogo/io/featio/gff"
	"github.com/biogo/biogo/seq"
)

// GTFReader reads GTF records through the biogo GFF2 reader.
type GTFReader struct {
	sc   *featio.Scanner
	name string
	n    int
	cur  *gff.Feature
	err  error
}

// NewGTFReader returns a GTF reader. The name is used in error messages.
func NewGTFReader(r io.Reader, name string) *GTFReader {
	return &GTFReader{sc: featio.NewScanner(bgff.NewReader(r)), name: name}
}

func (r *GTFReader) Next() bool {
	if r.err != nil {
		return false
	}
	if !r.sc.Next() {
		if err := r.sc.Error(); err != nil {
			r.err = fmt.Errorf("%s: %w: %v", r.name, gff.ErrInputFormat, err)
		}
		return false
	}
	r.n++
	bf, ok := r.sc.Feat().(*bgff.Feature)
	if !ok {
		r.err = fmt.Errorf("%s: record %d: %w: not a GFF feature", r.name, r.n, gff.ErrInputFormat)
		return false
	}
	f := fromBiogo(bf)
	if err := f.Validate(); err != nil {
		r.err = fmt.Errorf("%s: record %d: %w", r.name, r.n, err)
		return false
	}
	r.cur = f
	return true
}

func (r *GTFReader) Feature() *gff.Feature { return r.cur }

func (r *GTFReader) Err() error { return r.err }

// fromBiogo converts a biogo record (0-based half-open) to a 1-based feature.
func fromBiogo(bf *bgff.Feature) *gff.Feature {
	f := &gff.Feature{
		SeqID:  bf.SeqName,
		Source: bf.Source,
		Type:   bf.Feature,
		Start:  bf.FeatStart + 1,
		End:    bf.FeatEnd,
		Score:  ".",
		Strand: gff.StrandUnknown,
		Frame:  gff.FrameUnknown,
	}
	if bf.FeatScore != nil {
		f.Score = strconv.FormatFloat(*bf.FeatScore, 'g', -1, 64)
	}
	switch bf.FeatStrand {
	case seq.Plus:
		f.Strand = gff.StrandPlus
	case seq.Minus:
		f.Strand = gff.StrandMinus
	}
	if fr := int(bf.FeatFrame); fr >= 0 && fr <= 2 {
		f.Frame = strconv.Itoa(fr)
	}
	for _, a := range bf.FeatAttributes {
		f.Attributes.Add(a.Tag, strings.Trim(strings.TrimSpace(a.Value), `"`))
	}
	f.ID = f.Attributes.First(gff.AttrID)
	return f
}
