// Package parquet provides data structures and functions for exporting
// incident analysis data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/pulsewatch/pulsewatch/schema"
)

// AnalysisRun represents a single incident analysis run with metadata.
// This struct maps to the pulsewatch_runs database table.
type AnalysisRun struct {
	// RunID is the unique identifier for this analysis run
	RunID int64 `parquet:"run_id,snappy"`

	// StartedAt is when the analysis began (stored as TIMESTAMP with nanosecond precision)
	StartedAt time.Time `parquet:"started_at,snappy"`

	// FinishedAt is when the analysis completed (nullable, stored as TIMESTAMP with nanosecond precision)
	FinishedAt *time.Time `parquet:"finished_at,optional,snappy"`

	// RunDurationMs is the duration of the analysis run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// TotalSources is the number of input sources scanned in this run
	TotalSources int32 `parquet:"total_sources,snappy"`

	// TotalSamples is the number of normalized samples analyzed in this run
	TotalSamples int32 `parquet:"total_samples,snappy"`

	// TotalWorkouts is the number of normalized workouts analyzed in this run
	TotalWorkouts int32 `parquet:"total_workouts,snappy"`

	// TotalIncidents is the number of incidents detected in this run
	TotalIncidents int32 `parquet:"total_incidents,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// Incident represents a single classified incident row.
// This struct maps to the pulsewatch_incidents database table and to the
// incident export produced by analyze --output parquet.
type Incident struct {
	// RunID references the parent analysis run (zero for direct exports)
	RunID int64 `parquet:"run_id,snappy"`

	// IncidentID is the 1-based incident index within the run
	IncidentID int32 `parquet:"incident_id,snappy"`

	// StartTime is the timestamp of the first above-threshold sample
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is the timestamp of the last above-threshold sample
	EndTime time.Time `parquet:"end_time,snappy"`

	// DurationSeconds is end minus start in seconds
	DurationSeconds float64 `parquet:"duration_seconds,snappy"`

	// MaxBPM is the peak heart rate within the incident
	MaxBPM float64 `parquet:"max_bpm,snappy"`

	// AvgBPM is the mean heart rate within the incident
	AvgBPM float64 `parquet:"avg_bpm,snappy"`

	// SampleCount is the number of samples within the incident
	SampleCount int32 `parquet:"sample_count,snappy"`

	// Classification is the categorical verdict (workout or unknown)
	Classification string `parquet:"classification,snappy"`

	// Confidence is the confidence attached to the classification
	Confidence string `parquet:"workout_confidence,snappy"`

	// WorkoutType is the label of the best overlapping workout
	WorkoutType string `parquet:"workout_type,snappy"`

	// OverlapSeconds is the overlap with the best workout in seconds
	OverlapSeconds float64 `parquet:"overlap_seconds,snappy"`

	// Notes is the human-readable classification note
	Notes string `parquet:"notes,snappy"`
}

// WriteIncidentsParquet writes classified incidents straight to a Parquet
// file. Used by the analyze command's parquet output mode.
func WriteIncidentsParquet(incidents []schema.ClassifiedIncident, outputPath string) error {
	rows := make([]Incident, len(incidents))
	for i, inc := range incidents {
		rows[i] = Incident{
			IncidentID:      int32(inc.ID),
			StartTime:       inc.Start,
			EndTime:         inc.End,
			DurationSeconds: inc.DurationSeconds,
			MaxBPM:          inc.MaxBPM,
			AvgBPM:          inc.AvgBPM,
			SampleCount:     int32(inc.SampleCount),
			Classification:  string(inc.Classification),
			Confidence:      string(inc.Confidence),
			WorkoutType:     inc.WorkoutType,
			OverlapSeconds:  inc.OverlapSeconds,
			Notes:           inc.Notes,
		}
	}
	return writeParquetFile(rows, outputPath)
}

// WriteAnalysisRunsParquet writes a slice of AnalysisRun structs to a Parquet file.
func WriteAnalysisRunsParquet(data []AnalysisRun, outputPath string) error {
	return writeParquetFile(data, outputPath)
}

// WriteIncidentRecordsParquet writes a slice of Incident structs to a Parquet file.
func WriteIncidentRecordsParquet(data []Incident, outputPath string) error {
	return writeParquetFile(data, outputPath)
}

// writeParquetFile creates the output file and writes all records through a
// generic writer whose schema is inferred from the struct tags.
func writeParquetFile[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	return nil
}

// MockFetchAnalysisRuns generates sample AnalysisRun data for demonstration.
func MockFetchAnalysisRuns() []AnalysisRun {
	now := time.Now()
	startedAt1 := now.Add(-2 * time.Hour)
	finishedAt1 := startedAt1.Add(1200 * time.Millisecond)
	durationMs1 := int32(finishedAt1.Sub(startedAt1).Milliseconds())
	configParams1 := `{"threshold":120,"gap_seconds":300,"min_duration_seconds":60}`

	startedAt2 := now.Add(-24 * time.Hour)
	finishedAt2 := startedAt2.Add(4 * time.Second)
	durationMs2 := int32(finishedAt2.Sub(startedAt2).Milliseconds())
	configParams2 := `{"threshold":140,"gap_seconds":120,"min_duration_seconds":0}`

	startedAt3 := now.Add(-10 * time.Minute)
	// Note: finishedAt3, durationMs3, configParams3 are nil to demonstrate nullable fields

	return []AnalysisRun{
		{
			RunID:          1,
			StartedAt:      startedAt1,
			FinishedAt:     &finishedAt1,
			RunDurationMs:  &durationMs1,
			TotalSources:   3,
			TotalSamples:   86400,
			TotalWorkouts:  12,
			TotalIncidents: 4,
			ConfigParams:   &configParams1,
		},
		{
			RunID:          2,
			StartedAt:      startedAt2,
			FinishedAt:     &finishedAt2,
			RunDurationMs:  &durationMs2,
			TotalSources:   1,
			TotalSamples:   2500,
			TotalWorkouts:  0,
			TotalIncidents: 1,
			ConfigParams:   &configParams2,
		},
		{
			RunID:          3,
			StartedAt:      startedAt3,
			FinishedAt:     nil, // Still running - nullable field
			RunDurationMs:  nil, // Not yet calculated - nullable field
			TotalSources:   0,
			TotalSamples:   0,
			TotalWorkouts:  0,
			TotalIncidents: 0,
			ConfigParams:   nil, // No config stored - nullable field
		},
	}
}

// MockFetchIncidents generates sample Incident data for demonstration.
func MockFetchIncidents() []Incident {
	now := time.Now()
	start1 := now.Add(-90 * time.Minute)
	start2 := now.Add(-40 * time.Minute)

	return []Incident{
		{
			RunID:           1,
			IncidentID:      1,
			StartTime:       start1,
			EndTime:         start1.Add(8 * time.Minute),
			DurationSeconds: 480,
			MaxBPM:          172,
			AvgBPM:          158.4,
			SampleCount:     96,
			Classification:  "workout",
			Confidence:      "high",
			WorkoutType:     "Running",
			OverlapSeconds:  480,
			Notes:           "fully inside Running workout",
		},
		{
			RunID:           1,
			IncidentID:      2,
			StartTime:       start2,
			EndTime:         start2.Add(2 * time.Minute),
			DurationSeconds: 120,
			MaxBPM:          141,
			AvgBPM:          133.2,
			SampleCount:     24,
			Classification:  "unknown",
			Confidence:      "unknown",
			WorkoutType:     "",
			OverlapSeconds:  0,
			Notes:           "no overlapping workout",
		},
	}
}

// ConvertRunRecords converts schema.RunRecord to AnalysisRun for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []AnalysisRun {
	result := make([]AnalysisRun, len(records))
	for i, record := range records {
		result[i] = AnalysisRun{
			RunID:          record.RunID,
			StartedAt:      record.StartedAt,
			FinishedAt:     record.FinishedAt,
			RunDurationMs:  record.RunDurationMs,
			TotalSources:   record.TotalSources,
			TotalSamples:   record.TotalSamples,
			TotalWorkouts:  record.TotalWorkouts,
			TotalIncidents: record.TotalIncidents,
			ConfigParams:   record.ConfigParams,
		}
	}
	return result
}

// ConvertIncidentRecords converts schema.IncidentRecord to Incident for Parquet export.
func ConvertIncidentRecords(records []schema.IncidentRecord) []Incident {
	result := make([]Incident, len(records))
	for i, record := range records {
		result[i] = Incident{
			RunID:           record.RunID,
			IncidentID:      record.IncidentID,
			StartTime:       record.StartTime,
			EndTime:         record.EndTime,
			DurationSeconds: record.DurationSeconds,
			MaxBPM:          record.MaxBPM,
			AvgBPM:          record.AvgBPM,
			SampleCount:     record.SampleCount,
			Classification:  record.Classification,
			Confidence:      record.Confidence,
			WorkoutType:     record.WorkoutType,
			OverlapSeconds:  record.OverlapSeconds,
			Notes:           record.Notes,
		}
	}
	return result
}
