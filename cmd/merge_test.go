package cmd

import (
	"testing"

	"feature-merge/core/config"
	"feature-merge/core/criteria"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyFlags(t *testing.T) {
	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, mergeCmd.ParseFlags([]string{
		"-s", "-t", "5", "-f", "exon,CDS", "-f", "gene",
		"-m", "append", "--order-by", "seqid,start", "--metrics-file", "run.prom",
	}))
	applyFlags(mergeCmd, cfg)

	assert.True(t, cfg.Merge.IgnoreStrand)
	require.NotNil(t, cfg.Merge.Threshold)
	assert.Equal(t, 5, *cfg.Merge.Threshold)
	assert.Equal(t, "exon,CDS;gene", cfg.Merge.FeatureTypes)
	assert.Equal(t, "append", cfg.Merge.MergeStrategy)
	assert.Equal(t, []string{"seqid", "start"}, cfg.Merge.OrderBy)
	assert.Equal(t, "run.prom", cfg.Metrics.Textfile)

	// Flags left unset keep the configured values.
	assert.False(t, cfg.Merge.ExactOnly)
	assert.Equal(t, "end_inclusive", cfg.Merge.Overlap)
	assert.Equal(t, "auto", cfg.Merge.Format)
}

func TestUsesObjectStorage(t *testing.T) {
	assert.False(t, usesObjectStorage([]string{"-", "a.gff3", "/data/s3://x"}))
	assert.True(t, usesObjectStorage([]string{"-", "s3://bucket/genes.gff3"}))
}

func TestApplyFlags_NegativeThreshold(t *testing.T) {
	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)
	require.Nil(t, cfg.Merge.Threshold)

	require.NoError(t, mergeCmd.ParseFlags([]string{"-t", "-1"}))
	applyFlags(mergeCmd, cfg)

	require.NotNil(t, cfg.Merge.Threshold)
	assert.ErrorIs(t, cfg.Validate(), criteria.ErrInvalidThreshold)
}
