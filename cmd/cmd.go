// Package cmd defines the command-line interface for pulsewatch.
package cmd

import (
	"github.com/pulsewatch/pulsewatch/internal/contract"
	"github.com/pulsewatch/pulsewatch/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("workouts", "w", "", "Separate workouts export file or directory")
	rootCmd.PersistentFlags().String("start", "", "Window start in ISO8601 or time ago")
	rootCmd.PersistentFlags().String("end", "", "Window end in ISO8601 or time ago")
	rootCmd.PersistentFlags().Float64P("threshold", "t", contract.DefaultThresholdBPM, "Heart-rate threshold in BPM; samples strictly above count")
	rootCmd.PersistentFlags().IntP("gap-seconds", "g", contract.DefaultGapSeconds, "Maximum gap in seconds between samples of the same incident")
	rootCmd.PersistentFlags().Float64("min-duration-seconds", contract.DefaultMinDurationSeconds, "Drop incidents shorter than this many seconds")
	rootCmd.PersistentFlags().Float64("min-overlap-seconds", contract.DefaultMinOverlapSeconds, "Minimum workout overlap in seconds for a workout classification")
	rootCmd.PersistentFlags().Int("chunk-size", contract.DefaultChunkSize, "Raw rows read per chunk during normalization")
	rootCmd.PersistentFlags().Int("preview-rows", contract.DefaultPreviewRows, "Raw rows sampled per source for schema detection")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("history-backend", string(schema.NoneBackend), "Run history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
