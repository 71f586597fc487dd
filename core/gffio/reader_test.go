package gffio

import (
	"strings"
	"testing"

	"feature-merge/core/gff"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleGFF3 = `##gff-version 3
##sequence-region chr1 1 1000
# a comment
chr1	ens	gene	10	300	.	+	.	ID=g1;Name=abc%3Bdef
chr1	ens	exon	10	50	.	+	.	ID=e1;Parent=g1,g2

chr1	hav	CDS	20	40	0.5	+	0	ID=c1;Dbxref=GO:1,GO:2
##FASTA
>chr1
ACGT
`

func TestReader_ParsesRecords(t *testing.T) {
	r := NewReader(strings.NewReader(sampleGFF3), "sample.gff3")
	features, err := gff.Collect(r)
	require.NoError(t, err)
	require.Len(t, features, 3)

	g := features[0]
	assert.Equal(t, "g1", g.ID)
	assert.Equal(t, "chr1", g.SeqID)
	assert.Equal(t, "gene", g.Type)
	assert.Equal(t, 10, g.Start)
	assert.Equal(t, 300, g.End)
	assert.Equal(t, "+", g.Strand)
	assert.Equal(t, "abc;def", g.Attributes.First("Name"))

	e := features[1]
	assert.Equal(t, []string{"g1", "g2"}, e.Parents())

	c := features[2]
	assert.Equal(t, "0.5", c.Score)
	assert.Equal(t, "0", c.Frame)
	assert.Equal(t, []string{"GO:1", "GO:2"}, c.Attributes.Get("Dbxref"))
}

func TestReader_Errors(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"TooFewColumns", "chr1\tens\texon\t10\t50", "columns"},
		{"BadStart", "chr1\tens\texon\tx\t50\t.\t+\t.\tID=a", "bad start"},
		{"StartAfterEnd", "chr1\tens\texon\t60\t50\t.\t+\t.\tID=a", "start 60 > end 50"},
		{"BadStrand", "chr1\tens\texon\t10\t50\t.\t*\t.\tID=a", "unknown strand"},
		{"BadEscape", "chr1\tens\texon\t10\t50\t.\t+\t.\tID=a%zz", "percent-encoding"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(strings.NewReader(tt.line+"\n"), "bad.gff3")
			assert.False(t, r.Next())
			err := r.Err()
			assert.ErrorIs(t, err, gff.ErrInputFormat)
			assert.ErrorContains(t, err, tt.want)
			assert.ErrorContains(t, err, "bad.gff3:1")
		})
	}
}

func TestReader_EmptyInput(t *testing.T) {
	r := NewReader(strings.NewReader("##gff-version 3\n"), "empty.gff3")
	assert.False(t, r.Next())
	assert.NoError(t, r.Err())
}

func TestParseAttributes_FlagAndEmpty(t *testing.T) {
	attrs, err := ParseAttributes(".")
	require.NoError(t, err)
	assert.Empty(t, attrs)

	attrs, err = ParseAttributes("ID=a; Is_circular ;Note=x%3Dy")
	require.NoError(t, err)
	assert.Equal(t, []string{"ID", "Is_circular", "Note"}, attrs.Keys())
	assert.Equal(t, "x=y", attrs.First("Note"))
}

func TestGTFReader(t *testing.T) {
	in := "chr1\tens\texon\t10\t50\t.\t-\t0\tgene_id \"A\"; transcript_id \"A1\"\n"
	r := NewGTFReader(strings.NewReader(in), "genes.gtf")

	require.True(t, r.Next())
	f := r.Feature()
	assert.Equal(t, "chr1", f.SeqID)
	assert.Equal(t, "exon", f.Type)
	assert.Equal(t, 10, f.Start)
	assert.Equal(t, 50, f.End)
	assert.Equal(t, gff.StrandMinus, f.Strand)
	assert.Equal(t, "0", f.Frame)
	assert.Equal(t, "A", f.Attributes.First("gene_id"))
	assert.Empty(t, f.ID)

	assert.False(t, r.Next())
	assert.NoError(t, r.Err())
}
