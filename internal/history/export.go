package history

import (
	"errors"
	"fmt"

	"github.com/pulsewatch/pulsewatch/internal/contract"
	"github.com/pulsewatch/pulsewatch/internal/parquet"
)

// ExecuteHistoryExport performs the actual export of run history data to
// Parquet files.
func ExecuteHistoryExport(store contract.HistoryStore, outputFile string) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	// Check if there's any data to export
	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}

	if status.RunCount == 0 {
		return errors.New("no run history found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total runs: %d\n", status.RunCount)
	fmt.Printf("Total incident records: %d\n", status.IncidentCount)

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}

	incidents, err := store.GetAllIncidents()
	if err != nil {
		return fmt.Errorf("failed to retrieve incidents: %w", err)
	}

	// Convert to Parquet format
	parquetRuns := parquet.ConvertRunRecords(runs)
	parquetIncidents := parquet.ConvertIncidentRecords(incidents)

	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WriteAnalysisRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	fmt.Printf("Exported %d runs to: %s\n", len(parquetRuns), runsFile)

	incidentsFile := outputFile + ".incidents.parquet"
	if err := parquet.WriteIncidentRecordsParquet(parquetIncidents, incidentsFile); err != nil {
		return fmt.Errorf("failed to write incidents: %w", err)
	}
	fmt.Printf("Exported %d incident records to: %s\n", len(parquetIncidents), incidentsFile)

	return nil
}
