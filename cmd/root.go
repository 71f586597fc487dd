package cmd

import (
	"fmt"
	"os"

	"feature-merge/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "feature-merge",
	Short: "Merge overlapping GFF/GTF features",
	Long: `feature-merge unifies overlapping records of GFF3 and GTF annotation
files into parent/child hierarchies and writes the result as GFF3.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Report through the standard logger in console format; the debug
		// configuration gives ISO8601 timestamps.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
