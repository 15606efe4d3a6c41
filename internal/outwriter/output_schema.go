package outwriter

import (
	"fmt"
	"io"
	"strings"

	"github.com/pulsewatch/pulsewatch/internal/contract"
	"github.com/pulsewatch/pulsewatch/schema"
)

// WriteSchemaReports outputs the per-source schema detection reports,
// dispatching based on the output format configured.
func WriteSchemaReports(reports []schema.SchemaReport, sampleCount, workoutCount int, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONSchemaReports(w, reports, sampleCount, workoutCount)
		}, "JSON")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeTextSchemaReports(w, reports, sampleCount, workoutCount)
		}, "schema report")
	}
}

// writeTextSchemaReports writes a human-readable listing of what was
// detected in each source.
func writeTextSchemaReports(w io.Writer, reports []schema.SchemaReport, sampleCount, workoutCount int) error {
	for _, rep := range reports {
		if _, err := fmt.Fprintf(w, "%s\n", rep.Path); err != nil {
			return err
		}
		if rep.SampleSchema == nil && rep.WorkoutSchema == nil {
			if _, err := fmt.Fprintf(w, "  no heart-rate or workout layout recognized\n"); err != nil {
				return err
			}
		}
		if rep.SampleSchema != nil {
			line := fmt.Sprintf("  samples: timestamp=%s bpm=%s", rep.SampleSchema.Timestamp, rep.SampleSchema.BPM)
			if rep.SampleSchema.TypeColumn != "" {
				line += fmt.Sprintf(" type=%s (%s)", rep.SampleSchema.TypeColumn, strings.Join(rep.SampleSchema.AllowedTypes, ", "))
			}
			if _, err := fmt.Fprintf(w, "%s\n", line); err != nil {
				return err
			}
		}
		if rep.WorkoutSchema != nil {
			if _, err := fmt.Fprintf(w, "  workouts: start=%s end=%s type=%s\n",
				rep.WorkoutSchema.Start, rep.WorkoutSchema.End, rep.WorkoutSchema.WorkoutType); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintf(w, "Detected %d sources, %d samples, %d workouts\n", len(reports), sampleCount, workoutCount)
	return err
}

// writeJSONSchemaReports writes the reports plus row counts in JSON format.
func writeJSONSchemaReports(w io.Writer, reports []schema.SchemaReport, sampleCount, workoutCount int) error {
	type JSONSchemaOutput struct {
		Reports      []schema.SchemaReport `json:"reports"`
		SampleCount  int                   `json:"sample_count"`
		WorkoutCount int                   `json:"workout_count"`
	}
	if reports == nil {
		reports = []schema.SchemaReport{}
	}
	return writeJSON(w, JSONSchemaOutput{
		Reports:      reports,
		SampleCount:  sampleCount,
		WorkoutCount: workoutCount,
	})
}
