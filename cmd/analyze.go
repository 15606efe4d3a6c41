package cmd

import (
	"github.com/pulsewatch/pulsewatch/core"
	"github.com/pulsewatch/pulsewatch/internal/contract"
	"github.com/spf13/cobra"
)

// analyzeCmd performs incident detection and classification.
var analyzeCmd = &cobra.Command{
	Use:   "analyze [input-path]",
	Short: "Detect and classify elevated-heart-rate incidents.",
	Long: `Scan heart-rate exports, segment above-threshold samples into incidents,
and classify each incident by temporal overlap with your workout log.

Works with heterogeneous exports: CSV dumps from Apple Health, Fitbit,
Garmin and similar trackers, XLSX spreadsheets, and raw FIT activity files.
Column layout is inferred per source, so mixed directories are fine.

Incidents merge consecutive above-threshold samples whose spacing stays
within --gap-seconds. An incident that lies inside a recorded workout is
labeled workout; everything else stays unknown for manual review.

Examples:
  # Analyze one export with defaults (140 bpm, 120 s gap)
  pulsewatch analyze export.csv

  # Whole export directory with a separate workouts file
  pulsewatch analyze exports/ --workouts workouts.csv

  # Stricter detection over the last month
  pulsewatch analyze export.csv --threshold 150 --start "1 month ago"

  # Keep only sustained incidents and write CSV
  pulsewatch analyze export.csv --min-duration-seconds 60 --output csv --output-file incidents.csv

  # Record the run in the local history store
  pulsewatch analyze export.csv --history-backend sqlite`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		defer func() { _ = historyStore.Close() }()
		if err := core.ExecuteAnalyze(cfg, historyStore); err != nil {
			contract.LogFatal("Cannot run incident analysis", err)
		}
	},
}
