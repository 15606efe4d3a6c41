// Package schema has configs, models and shared value types for all parts of pulsewatch.
package schema

import "time"

// SampleSchema maps raw columns of one source to the canonical heart-rate
// sample fields. It is produced once per source from a preview and is
// immutable thereafter.
type SampleSchema struct {
	Timestamp string `json:"timestamp"` // Raw column holding the sample instant
	BPM       string `json:"bpm"`       // Raw column holding the heart-rate value

	// TypeColumn is the optional record-type label column. When set,
	// AllowedTypes holds the lowercased label values that denote
	// heart-rate records; all other rows are filtered out.
	TypeColumn   string   `json:"type_column,omitempty"`
	AllowedTypes []string `json:"allowed_types,omitempty"`
}

// WorkoutSchema maps raw columns of one source to the canonical workout
// interval fields. Produced once per source from a preview.
type WorkoutSchema struct {
	Start       string `json:"start"`                  // Raw column holding the workout start instant
	End         string `json:"end"`                    // Raw column holding the workout end instant
	WorkoutType string `json:"workout_type,omitempty"` // Optional workout-type label column
}

// Sample is one canonical heart-rate measurement. Invariant: 0 < BPM < 300.
// Timestamps are naive-as-UTC: any source offset has been discarded.
type Sample struct {
	Timestamp time.Time `json:"timestamp"`
	BPM       float64   `json:"bpm"`
}

// Workout is one canonical workout interval. Invariant: End >= Start.
type Workout struct {
	Start       time.Time `json:"start_time"`
	End         time.Time `json:"end_time"`
	WorkoutType string    `json:"workout_type"`
}

// Incident is a contiguous run of above-threshold samples merged under the
// maximum-gap rule. IDs are 1-based and dense in chronological order.
type Incident struct {
	ID              int       `json:"id"`
	Start           time.Time `json:"start_time"`
	End             time.Time `json:"end_time"`
	DurationSeconds float64   `json:"duration_seconds"`
	MaxBPM          float64   `json:"max_bpm"`
	AvgBPM          float64   `json:"avg_bpm"`
	SampleCount     int       `json:"sample_count"`
}

// ClassifiedIncident is an Incident plus its workout-overlap decision.
// It is the terminal artifact of the analysis pipeline.
type ClassifiedIncident struct {
	Incident
	Classification Classification `json:"classification"`
	Confidence     Confidence     `json:"workout_confidence"`
	WorkoutType    string         `json:"workout_type"`
	OverlapSeconds float64        `json:"overlap_seconds"`
	Notes          string         `json:"notes"`
}

// SchemaReport records what was detected for one source, for the schema
// report mode and run logging.
type SchemaReport struct {
	Path          string         `json:"path"`
	SampleSchema  *SampleSchema  `json:"sample_schema"`
	WorkoutSchema *WorkoutSchema `json:"workout_schema"`
}

// ClassBreakdown is the count and percentage of incidents carrying one
// classification value, for the categorical summary.
type ClassBreakdown struct {
	Classification Classification `json:"classification"`
	Count          int            `json:"count"`
	Percent        float64        `json:"percent"`
}

// SummarizeClassifications computes the per-classification breakdown in a
// stable order (workout first, then unknown, then anything else by first
// appearance).
func SummarizeClassifications(incidents []ClassifiedIncident) []ClassBreakdown {
	if len(incidents) == 0 {
		return nil
	}
	counts := make(map[Classification]int)
	order := []Classification{ClassWorkout, ClassUnknown}
	seen := map[Classification]bool{ClassWorkout: true, ClassUnknown: true}
	for _, inc := range incidents {
		counts[inc.Classification]++
		if !seen[inc.Classification] {
			seen[inc.Classification] = true
			order = append(order, inc.Classification)
		}
	}
	total := float64(len(incidents))
	var out []ClassBreakdown
	for _, cls := range order {
		n := counts[cls]
		if n == 0 {
			continue
		}
		out = append(out, ClassBreakdown{
			Classification: cls,
			Count:          n,
			Percent:        100 * float64(n) / total,
		})
	}
	return out
}

// HistoryStatus holds status information about the run history store.
type HistoryStatus struct {
	Backend       DatabaseBackend `json:"backend"`
	Location      string          `json:"location"`
	RunCount      int64           `json:"run_count"`
	IncidentCount int64           `json:"incident_count"`
	SizeBytes     int64           `json:"size_bytes"`
}
