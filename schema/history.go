package schema

import "time"

// RunRecord represents a row from the pulsewatch_runs table.
type RunRecord struct {
	RunID          int64
	StartedAt      time.Time
	FinishedAt     *time.Time
	RunDurationMs  *int32
	TotalSources   int32
	TotalSamples   int32
	TotalWorkouts  int32
	TotalIncidents int32
	ConfigParams   *string
}

// IncidentRecord represents a row from the pulsewatch_incidents table.
type IncidentRecord struct {
	RunID           int64
	IncidentID      int32
	StartTime       time.Time
	EndTime         time.Time
	DurationSeconds float64
	MaxBPM          float64
	AvgBPM          float64
	SampleCount     int32
	Classification  string
	Confidence      string
	WorkoutType     string
	OverlapSeconds  float64
	Notes           string
}
