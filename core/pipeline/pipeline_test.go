package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"feature-merge/core/database"
	"feature-merge/core/gff"
	"feature-merge/core/gffio"
	"feature-merge/core/reconcile"
	"feature-merge/core/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func baseConfig() Config {
	return Config{
		MergeStrategy: "error",
		Overlap:       "end_inclusive",
		OrderBy:       []string{"seqid", "featuretype", "strand", "start"},
		Format:        "auto",
	}
}

func gapOf(n int) *int { return &n }

func writeInput(t *testing.T, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

func gffLine(seqid, typ, strand string, start, end int, attrs string) string {
	return strings.Join([]string{seqid, "test", typ, strconv.Itoa(start), strconv.Itoa(end), ".", strand, ".", attrs}, "\t")
}

type runOutput struct {
	lines []string
	res   Result
}

func runPipeline(t *testing.T, cfg Config, log *zap.Logger, inputs ...string) (runOutput, error) {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	var out bytes.Buffer
	opener := gffio.NewOpener(nil).WithStdio(strings.NewReader(""), &out)
	p, err := New(cfg, db, opener, log, nil)
	require.NoError(t, err)

	res, err := p.Run(context.Background(), inputs, "-")
	var lines []string
	if s := strings.TrimRight(out.String(), "\n"); s != "" {
		lines = strings.Split(s, "\n")
	}
	return runOutput{lines: lines, res: res}, err
}

// parsed returns the features of an output, keyed by id.
func parsed(t *testing.T, lines []string) map[string]*gff.Feature {
	t.Helper()
	out := make(map[string]*gff.Feature)
	for _, l := range lines {
		if strings.HasPrefix(l, "#") {
			continue
		}
		f, err := gffio.ParseLine(l)
		require.NoError(t, err, l)
		out[f.ID] = f
	}
	return out
}

func ids(t *testing.T, lines []string) []string {
	t.Helper()
	var out []string
	for _, l := range lines {
		if strings.HasPrefix(l, "#") {
			continue
		}
		f, err := gffio.ParseLine(l)
		require.NoError(t, err, l)
		out = append(out, f.ID)
	}
	return out
}

var s1 = []string{
	gffLine("chr1", "exon", "+", 10, 50, "ID=e1"),
	gffLine("chr1", "exon", "+", 40, 80, "ID=e2"),
	gffLine("chr1", "exon", "+", 200, 300, "ID=e3"),
}

func TestRun_SimpleOverlap(t *testing.T) {
	out, err := runPipeline(t, baseConfig(), nil, writeInput(t, "s1.gff3", s1...))
	require.NoError(t, err)

	assert.Equal(t, []string{
		gffio.Header,
		"chr1\tfeature_merge\texon\t10\t80\t.\t+\t.\tID=exon_1;sources=test",
		"chr1\ttest\texon\t10\t50\t.\t+\t.\tID=e1;Parent=exon_1",
		"chr1\ttest\texon\t40\t80\t.\t+\t.\tID=e2;Parent=exon_1",
		"chr1\ttest\texon\t200\t300\t.\t+\t.\tID=e3",
	}, out.lines)
	assert.Equal(t, 1, out.res.Aggregates)
	assert.Equal(t, 1, out.res.Passes)
	assert.Equal(t, 4, out.res.Written)
	assert.Equal(t, 3, out.res.Ingested.Inserted)
}

func TestRun_Scenarios(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		input  []string
		want   []string
		check  func(t *testing.T, fs map[string]*gff.Feature)
	}{
		{
			name: "StrandMismatchBlocks",
			input: []string{
				gffLine("chr1", "exon", "+", 10, 50, "ID=a"),
				gffLine("chr1", "exon", "-", 40, 80, "ID=b"),
			},
			want: []string{"a", "b"},
		},
		{
			name:   "IgnoreStrand",
			mutate: func(c *Config) { c.IgnoreStrand = true },
			input: []string{
				gffLine("chr1", "exon", "+", 10, 50, "ID=a"),
				gffLine("chr1", "exon", "-", 40, 80, "ID=b"),
			},
			want: []string{"exon_1", "a", "b"},
			check: func(t *testing.T, fs map[string]*gff.Feature) {
				assert.Equal(t, ".", fs["exon_1"].Strand)
				assert.Equal(t, 10, fs["exon_1"].Start)
				assert.Equal(t, 80, fs["exon_1"].End)
			},
		},
		{
			name:   "ExactOnly",
			mutate: func(c *Config) { c.ExactOnly = true },
			input: []string{
				gffLine("chr1", "exon", "+", 10, 50, "ID=a"),
				gffLine("chr1", "exon", "+", 10, 50, "ID=b"),
				gffLine("chr1", "exon", "+", 10, 51, "ID=c"),
			},
			want: []string{"c", "exon_1", "a", "b"},
			check: func(t *testing.T, fs map[string]*gff.Feature) {
				assert.Empty(t, fs["c"].Parents())
			},
		},
		{
			name:   "Threshold",
			mutate: func(c *Config) { c.Threshold = gapOf(5) },
			input: []string{
				gffLine("chr1", "exon", "+", 10, 50, "ID=a"),
				gffLine("chr1", "exon", "+", 53, 80, "ID=b"),
				gffLine("chr1", "exon", "+", 100, 120, "ID=c"),
			},
			want: []string{"exon_1", "a", "b", "c"},
		},
		{
			name:   "ExcludeComponents",
			mutate: func(c *Config) { c.ExcludeComponents = true },
			input:  s1,
			want:   []string{"exon_1", "e3"},
		},
		{
			name:   "FeatureTypeGroups",
			mutate: func(c *Config) { c.FeatureTypes = "exon" },
			input: []string{
				gffLine("chr1", "CDS", "+", 10, 50, "ID=c1"),
				gffLine("chr1", "CDS", "+", 40, 80, "ID=c2"),
				gffLine("chr1", "exon", "+", 10, 50, "ID=e1"),
				gffLine("chr1", "exon", "+", 40, 80, "ID=e2"),
			},
			want: []string{"c1", "c2", "exon_1", "e1", "e2"},
		},
		{
			name: "IgnoreFeatureTypesInSecondPass",
			mutate: func(c *Config) {
				c.FeatureTypes = "exon;exon,CDS"
				c.IgnoreFeatureTypes = true
			},
			input: []string{
				gffLine("chr1", "CDS", "+", 20, 30, "ID=c1"),
				gffLine("chr1", "exon", "+", 10, 50, "ID=e1"),
				gffLine("chr1", "exon", "+", 40, 80, "ID=e2"),
			},
			want: []string{"exon_2", "exon_1", "e1", "e2", "c1"},
			check: func(t *testing.T, fs map[string]*gff.Feature) {
				assert.Equal(t, gff.GenericType, fs["exon_2"].Type)
				assert.Equal(t, []string{"exon_2"}, fs["exon_1"].Parents())
				assert.Equal(t, []string{"exon_1"}, fs["e1"].Parents())
				assert.Equal(t, []string{"exon_2"}, fs["c1"].Parents())
			},
		},
		{
			name:   "IgnoreSeqID",
			mutate: func(c *Config) { c.IgnoreSeqID = true },
			input: []string{
				gffLine("chr1", "exon", "+", 10, 50, "ID=a"),
				gffLine("chr2", "exon", "+", 40, 80, "ID=b"),
			},
			want: []string{"exon_1", "a", "b"},
			check: func(t *testing.T, fs map[string]*gff.Feature) {
				assert.Equal(t, "chr1,chr2", fs["exon_1"].SeqID)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig()
			if tt.mutate != nil {
				tt.mutate(&cfg)
			}
			out, err := runPipeline(t, cfg, nil, writeInput(t, "in.gff3", tt.input...))
			require.NoError(t, err)
			assert.Equal(t, gffio.Header, out.lines[0])
			assert.Equal(t, tt.want, ids(t, out.lines))
			if tt.check != nil {
				tt.check(t, parsed(t, out.lines))
			}
		})
	}
}

func TestRun_MultipleInputs(t *testing.T) {
	a := writeInput(t, "a.gff3", gffLine("chr1", "exon", "+", 10, 50, "ID=e1"))
	b := writeInput(t, "b.gff3", gffLine("chr1", "exon", "+", 500, 600, "ID=e1"))

	t.Run("ErrorStrategy", func(t *testing.T) {
		_, err := runPipeline(t, baseConfig(), nil, a, b)
		assert.ErrorIs(t, err, store.ErrDuplicateID)
		assert.ErrorContains(t, err, "e1")
	})

	t.Run("AppendStrategy", func(t *testing.T) {
		cfg := baseConfig()
		cfg.MergeStrategy = "append"
		out, err := runPipeline(t, cfg, nil, a, b)
		require.NoError(t, err)
		assert.Equal(t, []string{"e1", "exon_1"}, ids(t, out.lines))
		assert.Equal(t, 1, out.res.Ingested.Renamed)
	})

	t.Run("SkipStrategy", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		cfg := baseConfig()
		cfg.MergeStrategy = "skip"
		out, err := runPipeline(t, cfg, zap.New(core), a, b)
		require.NoError(t, err)
		assert.Equal(t, []string{"e1"}, ids(t, out.lines))
		assert.Equal(t, 1, logs.FilterMessage("Duplicate skipped").Len())
	})
}

func TestRun_GTFInput(t *testing.T) {
	gtf := writeInput(t, "genes.gtf",
		"chr1\tens\texon\t10\t50\t.\t+\t.\tgene_id \"g1\"; transcript_id \"t1\"",
		"chr1\tens\texon\t40\t80\t.\t+\t.\tgene_id \"g1\"; transcript_id \"t2\"",
	)
	out, err := runPipeline(t, baseConfig(), nil, gtf)
	require.NoError(t, err)

	// GTF records carry no ID and are named from the exon counter first.
	assert.Equal(t, []string{"exon_3", "exon_1", "exon_2"}, ids(t, out.lines))
	fs := parsed(t, out.lines)
	assert.Equal(t, []string{"g1"}, fs["exon_1"].Attributes.Get("gene_id"))
	assert.Equal(t, []string{"exon_3"}, fs["exon_2"].Parents())
}

func TestRun_EmptyInput(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	empty := writeInput(t, "empty.gff3", "##gff-version 3")

	out, err := runPipeline(t, baseConfig(), zap.New(core), empty)
	require.NoError(t, err)
	assert.True(t, out.res.Empty)
	assert.Empty(t, out.lines)
	assert.Equal(t, 1, logs.FilterMessage("Input has no features").Len())
}

func TestRun_SingleRecord(t *testing.T) {
	out, err := runPipeline(t, baseConfig(), nil, writeInput(t, "one.gff3", gffLine("chr1", "gene", "+", 1, 10, "ID=g1")))
	require.NoError(t, err)
	assert.Equal(t, []string{"g1"}, ids(t, out.lines))
	assert.Zero(t, out.res.Aggregates)
}

func TestRun_InputErrors(t *testing.T) {
	t.Run("BadRecord", func(t *testing.T) {
		bad := writeInput(t, "bad.gff3", gffLine("chr1", "exon", "+", 50, 10, "ID=x"))
		out, err := runPipeline(t, baseConfig(), nil, bad)
		assert.ErrorIs(t, err, gff.ErrInputFormat)
		assert.Empty(t, out.lines, "nothing is written when an input fails")
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := runPipeline(t, baseConfig(), nil, filepath.Join(t.TempDir(), "missing.gff3"))
		assert.ErrorContains(t, err, "failed to open")
	})
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"Strategy", func(c *Config) { c.MergeStrategy = "create_unique" }, "unsupported merge strategy"},
		{"Overlap", func(c *Config) { c.Overlap = "partial" }, "unknown overlap mode"},
		{"Order", func(c *Config) { c.OrderBy = []string{"score"} }, "unknown sort key"},
		{"Format", func(c *Config) { c.Format = "bed" }, "unknown input format"},
		{"NegativeThreshold", func(c *Config) { c.Threshold = gapOf(-1) }, "threshold must be a non-negative integer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig()
			tt.mutate(&cfg)
			_, err := New(cfg, nil, nil, nil, nil)
			assert.ErrorContains(t, err, tt.want)
		})
	}

	_, err := New(Config{MergeStrategy: "merge"}, nil, nil, nil, nil)
	assert.NoError(t, err)

	cfg := baseConfig()
	cfg.MergeStrategy = "nope"
	_, err = New(cfg, nil, nil, nil, nil)
	assert.ErrorIs(t, err, reconcile.ErrUnsupportedStrategy)
}

func TestConfig_Order(t *testing.T) {
	cfg := baseConfig()
	order, err := cfg.Order()
	require.NoError(t, err)
	assert.Equal(t, store.DefaultOrder, order)

	cfg.IgnoreSeqID = true
	cfg.IgnoreFeatureTypes = true
	order, err = cfg.Order()
	require.NoError(t, err)
	assert.Equal(t, []store.OrderKey{store.OrderStrand, store.OrderStart, store.OrderFeatureType}, order)

	order, err = Config{}.Order()
	require.NoError(t, err)
	assert.Equal(t, store.DefaultOrder, order)
}

func TestConfig_Groups(t *testing.T) {
	assert.Equal(t, [][]string{nil}, Config{}.Groups())
	assert.Equal(t, [][]string{{"exon", "CDS"}, {"gene"}}, Config{FeatureTypes: "exon, CDS;;gene"}.Groups())
}
