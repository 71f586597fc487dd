package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"feature-merge/core/config"
	"feature-merge/core/database"
	"feature-merge/core/gffio"
	"feature-merge/core/logger"
	"feature-merge/core/metrics"
	"feature-merge/core/pipeline"
	"feature-merge/core/storage"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the merge command
	ignoreStrand       bool
	ignoreSeqID        bool
	ignoreFeatureTypes bool
	exactOnly          bool
	threshold          int
	excludeComponents  bool
	featureTypes       []string
	mergeStrategy      string
	overlapMode        string
	orderBy            []string
	multiline          bool
	outputPath         string
	inputFormat        string
	metricsFile        string
)

// mergeCmd merges the features of one or more annotation files.
var mergeCmd = &cobra.Command{
	Use:   "merge [flags] <input>...",
	Short: "Merge overlapping features into aggregates",
	Long: `Merge reads GFF3 or GTF inputs, groups overlapping features that meet the
merge criteria and writes every group of two or more as an aggregate feature
followed by its components, which are linked with a Parent attribute.

Inputs may be local files (optionally .gz), "-" for stdin, or s3://bucket/key
objects. Options default to the MERGE_* environment variables.

Examples:
  # Merge overlapping exons on the same strand
  feature-merge merge genes.gff3

  # Ignore strand, keep only the aggregates
  feature-merge merge -s -e genes.gff3 -o merged.gff3

  # Merge exons and CDS separately, then genes, from two files
  feature-merge merge -f exon -f CDS -f gene -m append a.gtf.gz b.gff3`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMerge,
}

func init() {
	f := mergeCmd.Flags()
	f.BoolVarP(&ignoreStrand, "ignore-strand", "s", false, "Merge features on different strands")
	f.BoolVar(&ignoreSeqID, "ignore-seqid", false, "Merge features on different sequences")
	f.BoolVarP(&ignoreFeatureTypes, "ignore-featuretypes", "i", false, "Merge features of different types")
	f.BoolVarP(&exactOnly, "exact-only", "x", false, "Only merge features with identical coordinates")
	f.IntVarP(&threshold, "threshold", "t", 0, "Merge features separated by at most this many bases")
	f.BoolVarP(&excludeComponents, "exclude-components", "e", false, "Drop merged components from the output")
	f.StringArrayVarP(&featureTypes, "featuretypes", "f", nil, "Comma-separated feature types merged in one pass (repeatable)")
	f.StringVarP(&mergeStrategy, "merge-strategy", "m", "error", "Id collision strategy: merge, append, error, skip, replace")
	f.StringVar(&overlapMode, "overlap", "end_inclusive", "Overlap test: end_inclusive, any_inclusive")
	f.StringSliceVar(&orderBy, "order-by", nil, "Sort keys of the merge sweep (seqid,featuretype,strand,start)")
	f.BoolVar(&multiline, "multiline", false, "Allow discontiguous aggregates written on several lines")
	f.StringVarP(&outputPath, "output", "o", "-", "Output path, - for stdout, or s3://bucket/key")
	f.StringVar(&inputFormat, "format", "auto", "Input format: auto, gff3, gtf")
	f.StringVar(&metricsFile, "metrics-file", "", "Write run metrics to this file")

	RootCmd.AddCommand(mergeCmd)
}

// applyFlags overrides configuration values with explicitly set flags.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	m := &cfg.Merge

	if changed("ignore-strand") {
		m.IgnoreStrand = ignoreStrand
	}
	if changed("ignore-seqid") {
		m.IgnoreSeqID = ignoreSeqID
	}
	if changed("ignore-featuretypes") {
		m.IgnoreFeatureTypes = ignoreFeatureTypes
	}
	if changed("exact-only") {
		m.ExactOnly = exactOnly
	}
	if changed("threshold") {
		t := threshold
		m.Threshold = &t
	}
	if changed("exclude-components") {
		m.ExcludeComponents = excludeComponents
	}
	if changed("featuretypes") {
		m.FeatureTypes = strings.Join(featureTypes, ";")
	}
	if changed("merge-strategy") {
		m.MergeStrategy = mergeStrategy
	}
	if changed("overlap") {
		m.Overlap = overlapMode
	}
	if changed("order-by") {
		m.OrderBy = orderBy
	}
	if changed("multiline") {
		m.Multiline = multiline
	}
	if changed("format") {
		m.Format = inputFormat
	}
	if changed("metrics-file") {
		cfg.Metrics.Textfile = metricsFile
	}
}

func runMerge(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Initialize logger
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()
	l = logger.WithRunID(l, uuid.NewString())

	// Connect to storage only when an s3:// path is used
	var client storage.Client
	if usesObjectStorage(append([]string{outputPath}, args...)) {
		if client, err = storage.NewClient(cfg.Storage); err != nil {
			return fmt.Errorf("failed to connect to storage: %w", err)
		}
	}

	// Open the feature store backend
	db, err := database.Connect(cfg.Store)
	if err != nil {
		return fmt.Errorf("failed to open feature store: %w", err)
	}
	defer database.Close(db)

	m := metrics.New()
	p, err := pipeline.New(cfg.Merge, db, gffio.NewOpener(client), l, m)
	if err != nil {
		return fmt.Errorf("invalid merge configuration: %w", err)
	}

	_, err = p.Run(ctx, args, outputPath)
	if gffio.IsBrokenPipe(err) {
		l.Debug("Output closed early")
		err = nil
	}
	if err != nil {
		return err
	}

	if cfg.Metrics.Textfile != "" {
		if err := m.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			l.Warn("Failed to export metrics", zap.Error(err))
		}
	}
	return nil
}

func usesObjectStorage(paths []string) bool {
	for _, p := range paths {
		if strings.HasPrefix(p, storage.Scheme) {
			return true
		}
	}
	return false
}
