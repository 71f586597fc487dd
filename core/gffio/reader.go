package gffio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"feature-merge/core/gff"
)

const maxLineSize = 16 << 20

// Reader parses GFF3 records from a stream.
type Reader struct {
	sc   *bufio.Scanner
	name string
	line int
	cur  *gff.Feature
	err  error
	done bool
}

// NewReader returns a GFF3 Reader. The name is used in error messages.
func NewReader(r io.Reader, name string) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineSize)
	return &Reader{sc: sc, name: name}
}

// Next advances to the next feature line, skipping comments and directives.
func (r *Reader) Next() bool {
	if r.done || r.err != nil {
		return false
	}
	for r.sc.Scan() {
		r.line++
		text := strings.TrimRight(r.sc.Text(), "\r")
		if text == "" {
			continue
		}
		if strings.HasPrefix(text, "##FASTA") || strings.HasPrefix(text, ">") {
			// Sequence section; no more features follow.
			r.done = true
			return false
		}
		if text[0] == '#' {
			continue
		}
		f, err := ParseLine(text)
		if err != nil {
			r.err = fmt.Errorf("%s:%d: %w", r.name, r.line, err)
			return false
		}
		r.cur = f
		return true
	}
	if err := r.sc.Err(); err != nil {
		r.err = fmt.Errorf("%s: read failed: %w", r.name, err)
	}
	r.done = true
	return false
}

// Feature returns the most recently parsed feature.
func (r *Reader) Feature() *gff.Feature { return r.cur }

// Err returns the first parse or read error.
func (r *Reader) Err() error { return r.err }

// ParseLine parses one tab-separated GFF3 feature line.
func ParseLine(line string) (*gff.Feature, error) {
	cols := strings.Split(line, "\t")
	if len(cols) != 8 && len(cols) != 9 {
		return nil, fmt.Errorf("%w: expected 9 tab-separated columns, got %d", gff.ErrInputFormat, len(cols))
	}

	seqid, err := unescape(cols[0])
	if err != nil {
		return nil, err
	}
	start, err := strconv.Atoi(cols[3])
	if err != nil {
		return nil, fmt.Errorf("%w: bad start %q", gff.ErrInputFormat, cols[3])
	}
	end, err := strconv.Atoi(cols[4])
	if err != nil {
		return nil, fmt.Errorf("%w: bad end %q", gff.ErrInputFormat, cols[4])
	}

	f := &gff.Feature{
		SeqID:  seqid,
		Source: cols[1],
		Type:   cols[2],
		Start:  start,
		End:    end,
		Score:  cols[5],
		Strand: cols[6],
		Frame:  cols[7],
	}
	if len(cols) == 9 {
		attrs, err := ParseAttributes(cols[8])
		if err != nil {
			return nil, err
		}
		f.Attributes = attrs
	}
	f.ID = f.Attributes.First(gff.AttrID)

	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// ParseAttributes parses a GFF3 column 9 value.
func ParseAttributes(col string) (gff.Attributes, error) {
	var attrs gff.Attributes
	if col == "" || col == "." {
		return attrs, nil
	}
	for _, part := range strings.Split(col, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, raw, found := strings.Cut(part, "=")
		key, err := unescape(key)
		if err != nil {
			return nil, err
		}
		if !found {
			attrs.Set(key)
			continue
		}
		var values []string
		for _, v := range strings.Split(raw, ",") {
			uv, err := unescape(v)
			if err != nil {
				return nil, err
			}
			values = append(values, uv)
		}
		attrs.Add(key, values...)
	}
	return attrs, nil
}
