package gffio

import (
	"fmt"
	"net/url"
	"strings"

	"feature-merge/core/gff"
)

// unescape decodes GFF3 percent-encoding. '+' is kept literally.
func unescape(s string) (string, error) {
	if !strings.Contains(s, "%") {
		return s, nil
	}
	out, err := url.PathUnescape(s)
	if err != nil {
		return "", fmt.Errorf("%w: bad percent-encoding in %q", gff.ErrInputFormat, s)
	}
	return out, nil
}

const hexDigits = "0123456789ABCDEF"

// escape percent-encodes the characters GFF3 reserves in the given context.
// Columns reserve control characters and '%'; attribute tags and values also
// reserve ';', '=', '&' and ','.
func escape(s string, attribute bool) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 0x20 || c == 0x7f || c == '%' || (attribute && (c == ';' || c == '=' || c == '&' || c == ',')) {
			b.WriteByte('%')
			b.WriteByte(hexDigits[c>>4])
			b.WriteByte(hexDigits[c&0x0f])
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
