package gffio

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"feature-merge/core/gff"
	"feature-merge/core/storage"
)

// Format names an input dialect.
type Format string

const (
	// FormatAuto picks the dialect from the file name.
	FormatAuto Format = "auto"
	// FormatGFF3 is GFF version 3.
	FormatGFF3 Format = "gff3"
	// FormatGTF is GTF / GFF version 2.
	FormatGTF Format = "gtf"
)

// ParseFormat validates a dialect name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case "", FormatAuto:
		return FormatAuto, nil
	case FormatGFF3, "gff":
		return FormatGFF3, nil
	case FormatGTF, "gff2":
		return FormatGTF, nil
	default:
		return "", fmt.Errorf("unknown input format %q (want auto, gff3 or gtf)", s)
	}
}

// DetectFormat picks the dialect from a path's extension.
func DetectFormat(path string) Format {
	p := strings.TrimSuffix(strings.ToLower(path), ".gz")
	if strings.HasSuffix(p, ".gtf") || strings.HasSuffix(p, ".gff2") {
		return FormatGTF
	}
	return FormatGFF3
}

// NewSource returns a feature Source for the given dialect.
func NewSource(r io.Reader, name string, format Format) gff.Source {
	if format == FormatAuto {
		format = DetectFormat(name)
	}
	if format == FormatGTF {
		return NewGTFReader(r, name)
	}
	return NewReader(r, name)
}

// Opener resolves input and output paths to streams.
type Opener struct {
	client storage.Client
	stdin  io.Reader
	stdout io.Writer
}

// NewOpener returns an Opener. client may be nil when no s3:// paths are used.
func NewOpener(client storage.Client) *Opener {
	return &Opener{client: client, stdin: os.Stdin, stdout: os.Stdout}
}

// WithStdio overrides the streams used for "-".
func (o *Opener) WithStdio(stdin io.Reader, stdout io.Writer) *Opener {
	o.stdin = stdin
	o.stdout = stdout
	return o
}

// OpenInput opens a local file, stdin ("-") or object, decompressing ".gz" inputs.
func (o *Opener) OpenInput(ctx context.Context, path string) (io.ReadCloser, error) {
	var rc io.ReadCloser
	bucket, key, remote, err := storage.ParseURI(path)
	switch {
	case err != nil:
		return nil, err
	case remote:
		if o.client == nil {
			return nil, fmt.Errorf("cannot read %s: object storage is not configured", path)
		}
		rc, err = storage.Download(ctx, o.client, bucket, key)
		if err != nil {
			return nil, err
		}
	case path == "-":
		rc = io.NopCloser(o.stdin)
	default:
		fh, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		rc = fh
	}

	if strings.HasSuffix(path, ".gz") {
		gr, err := gzip.NewReader(rc)
		if err != nil {
			_ = rc.Close()
			return nil, fmt.Errorf("failed to decompress %s: %w", path, err)
		}
		return &multiReadCloser{Reader: gr, closers: []io.Closer{gr, rc}}, nil
	}
	return rc, nil
}

// CreateOutput opens a destination for writing. Object outputs are buffered
// and uploaded on Close.
func (o *Opener) CreateOutput(ctx context.Context, path string) (io.WriteCloser, error) {
	bucket, key, remote, err := storage.ParseURI(path)
	switch {
	case err != nil:
		return nil, err
	case remote:
		if o.client == nil {
			return nil, fmt.Errorf("cannot write %s: object storage is not configured", path)
		}
		return &objectWriter{ctx: ctx, client: o.client, bucket: bucket, key: key}, nil
	case path == "" || path == "-":
		return nopWriteCloser{o.stdout}, nil
	default:
		fh, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", path, err)
		}
		return fh, nil
	}
}

// multiReadCloser closes multiple io.Closers when Close() is called.
type multiReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiReadCloser) Close() error {
	var err error
	for _, c := range m.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

type objectWriter struct {
	ctx    context.Context
	client storage.Client
	bucket string
	key    string
	buf    bytes.Buffer
}

func (w *objectWriter) Write(p []byte) (int, error) { return w.buf.Write(p) }

func (w *objectWriter) Close() error {
	return storage.Upload(w.ctx, w.client, w.bucket, w.key, w.buf.Bytes(), "text/x-gff3")
}
