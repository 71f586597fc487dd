package gffio

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"
	"syscall"

	"feature-merge/core/gff"
)

// Header is written before the first feature.
const Header = "##gff-version 3"

// Writer serializes features as GFF3.
type Writer struct {
	w      *bufio.Writer
	header bool
	n      int
}

// NewWriter returns a GFF3 Writer on w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// WriteHeader writes the version header once.
func (w *Writer) WriteHeader() error {
	if w.header {
		return nil
	}
	w.header = true
	_, err := w.w.WriteString(Header + "\n")
	return err
}

// Write writes one feature line, preceded by the header on first use.
func (w *Writer) Write(f *gff.Feature) error {
	if err := w.WriteHeader(); err != nil {
		return err
	}
	if _, err := w.w.WriteString(FormatLine(f)); err != nil {
		return err
	}
	w.n++
	return w.w.WriteByte('\n')
}

// Count returns the number of features written.
func (w *Writer) Count() int { return w.n }

// Flush flushes buffered output.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

// FormatLine renders f as a GFF3 line without the trailing newline.
func FormatLine(f *gff.Feature) string {
	score := f.Score
	if score == "" {
		score = "."
	}
	cols := []string{
		escape(f.SeqID, false),
		orDot(escape(f.Source, false)),
		escape(f.Type, false),
		strconv.Itoa(f.Start),
		strconv.Itoa(f.End),
		score,
		orDot(f.Strand),
		orDot(f.Frame),
		FormatAttributes(f.Attributes),
	}
	return strings.Join(cols, "\t")
}

// FormatAttributes renders column 9.
func FormatAttributes(attrs gff.Attributes) string {
	if len(attrs) == 0 {
		return "."
	}
	parts := make([]string, 0, len(attrs))
	for _, a := range attrs {
		vals := make([]string, len(a.Values))
		for i, v := range a.Values {
			vals[i] = escape(v, true)
		}
		parts = append(parts, escape(a.Key, true)+"="+strings.Join(vals, ","))
	}
	return strings.Join(parts, ";")
}

func orDot(s string) string {
	if s == "" {
		return "."
	}
	return s
}

// IsBrokenPipe reports whether err comes from writing to a closed pipe, as when
// output is piped into head.
func IsBrokenPipe(err error) bool {
	return err != nil && (errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe))
}
