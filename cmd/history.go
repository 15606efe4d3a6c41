package cmd

import (
	"fmt"

	"github.com/pulsewatch/pulsewatch/internal/contract"
	"github.com/pulsewatch/pulsewatch/internal/history"
	"github.com/pulsewatch/pulsewatch/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// historySetup loads minimal configuration needed for history operations.
// This is used by commands that need store access without full shared setup.
func historySetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(viper.GetString("history-backend"))
	connStr := viper.GetString("history-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	store, err := history.NewHistoryStore(backend, connStr)
	if err != nil {
		return fmt.Errorf("failed to initialize run history: %w", err)
	}
	historyStore = store

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")

	return nil
}

// historySetupWrapper wraps historySetup to provide PreRunE for history commands.
func historySetupWrapper(_ *cobra.Command, _ []string) error {
	return historySetup()
}

// historyMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT open the store or create tables,
// allowing migrations to run on a fresh database.
func historyMigrateSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(viper.GetString("history-backend"))
	connStr := viper.GetString("history-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetHistoryDBFilePath()
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr

	return nil
}

// historyMigrateSetupWrapper wraps historyMigrateSetup to provide PreRunE for migrate command.
func historyMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return historyMigrateSetup()
}

// historyCmd focused on run history data management.
//
// Note: History subcommands use minimal initialization (historySetup) instead
// of the full sharedSetup used by analysis commands. This avoids input path
// validation and window processing for simple store operations.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage recorded analysis runs and exports",
	Long: `Manage the run history store used for longitudinal tracking.

When enabled, Pulsewatch records every analysis run, storing:
- Run metadata (timestamp, configuration, duration)
- Source, sample, workout and incident counts
- Every classified incident with its workout-overlap decision

Supported backends: SQLite (default path ~/.pulsewatch_history.db),
MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show run history statistics
  clear   - Remove all recorded runs
  export  - Export data to Parquet for analytics
  migrate - Run database schema migrations

Examples:
  # Check run history status
  pulsewatch history status --history-backend sqlite

  # Export for analysis in pandas/DuckDB
  pulsewatch history export --history-backend sqlite --output-file history-data`,
}

// historyStatusCmd shows run history status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display run history statistics and connection details",
	Long: `Show detailed information about the run history store.

Displays:
- Backend type and location
- Total number of recorded runs and incidents
- Database size for the SQLite backend

Examples:
  # Check the local SQLite store
  pulsewatch history status --history-backend sqlite`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		defer func() { _ = historyStore.Close() }()
		status, err := historyStore.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		history.PrintHistoryStatus(status)
	},
}

// historyClearCmd clears the run history data.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded runs and incidents",
	Long: `Delete all stored runs and their classified incidents.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  # Export before clearing
  pulsewatch history export --history-backend sqlite --output-file backup
  pulsewatch history clear --history-backend sqlite`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		defer func() { _ = historyStore.Close() }()
		if err := historyStore.Clear(); err != nil {
			contract.LogFatal("Failed to clear run history", err)
		}
		fmt.Println("Run history cleared successfully.")
	},
}

// historyExportCmd exports run history data to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export run history to Parquet for BI tools and analytics",
	Long: `Export all recorded runs and incidents to Parquet format.

Exports two datasets:
- Runs - metadata about each analysis execution
- Incidents - every classified incident across all runs

Requires: --output-file parameter. Two files are written with
.runs.parquet and .incidents.parquet suffixes.

Examples:
  # Export all data
  pulsewatch history export --history-backend sqlite --output-file pulsewatch-data

  # Use with DuckDB for analysis
  duckdb -c "SELECT * FROM read_parquet('pulsewatch-data.incidents.parquet') LIMIT 10"`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		defer func() { _ = historyStore.Close() }()
		if err := history.ExecuteHistoryExport(historyStore, cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export run history", err)
		}
	},
}

// historyMigrateCmd runs database migrations for the run history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the run history store.

By default, migrates to the latest version. Use --target-version for
specific versions, or 0 to roll everything back.

Examples:
  # Migrate to latest version (default)
  pulsewatch history migrate --history-backend sqlite

  # Rollback to initial state
  pulsewatch history migrate --history-backend sqlite --target-version 0`,
	PreRunE: historyMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := history.MigrateHistory(cfg.HistoryBackend, cfg.HistoryDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
