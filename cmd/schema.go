package cmd

import (
	"github.com/pulsewatch/pulsewatch/core"
	"github.com/pulsewatch/pulsewatch/internal/contract"
	"github.com/spf13/cobra"
)

// schemaCmd reports the detected column layout per source.
var schemaCmd = &cobra.Command{
	Use:   "schema [input-path]",
	Short: "Show the detected column schema for each source.",
	Long: `Preview each source and report which columns were mapped to the
canonical sample and workout fields, without running incident detection.

Use this to verify that an unfamiliar export is recognized before
analyzing it, or to debug why a source contributes no samples.

Examples:
  # Inspect a single export
  pulsewatch schema export.csv

  # Inspect a directory of mixed exports as JSON
  pulsewatch schema exports/ --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		defer func() { _ = historyStore.Close() }()
		if err := core.ExecuteSchemaReport(cfg); err != nil {
			contract.LogFatal("Cannot run schema report", err)
		}
	},
}
