// Package core has core logic for schema detection, normalization, incident
// segmentation and classification.
package core

import (
	"fmt"
	"sort"
	"time"

	"github.com/pulsewatch/pulsewatch/internal/contract"
	"github.com/pulsewatch/pulsewatch/internal/ingest"
	"github.com/pulsewatch/pulsewatch/internal/outwriter"
	"github.com/pulsewatch/pulsewatch/schema"
)

// LoadResult accumulates the canonical tables and per-source schema reports
// across every input source. Tables are append-only during loading and
// time-sorted once at the end.
type LoadResult struct {
	Samples  []schema.Sample
	Workouts []schema.Workout
	Reports  []schema.SchemaReport
}

// ExecuteAnalyze runs the full pipeline and prints results using the
// configured output format. It serves as the main entry point for the
// 'analyze' mode.
func ExecuteAnalyze(cfg *contract.Config, store contract.HistoryStore) error {
	start := time.Now()

	var runID int64
	if store != nil {
		id, err := store.BeginRun(start, cfg.ConfigParams())
		if err != nil {
			contract.LogWarn("could not begin history run", err)
		} else {
			runID = id
		}
	}

	classified, loaded, err := GetIncidentResults(cfg)
	if err != nil {
		return err
	}

	if store != nil && runID > 0 {
		if err := store.RecordIncidents(runID, classified); err != nil {
			contract.LogWarn("could not record incidents", err)
		}
		if err := store.FinishRun(runID, time.Now(), len(loaded.Reports), len(loaded.Samples), len(loaded.Workouts), len(classified)); err != nil {
			contract.LogWarn("could not finish history run", err)
		}
	}

	duration := time.Since(start)
	return outwriter.WriteIncidentResults(classified, cfg, duration)
}

// ExecuteSchemaReport runs detection only and prints the detected schema
// mappings per source, plus window sample/workout counts. It serves as the
// main entry point for the 'schema' mode.
func ExecuteSchemaReport(cfg *contract.Config) error {
	loaded, err := LoadData(cfg)
	if err != nil {
		return err
	}
	return outwriter.WriteSchemaReports(loaded.Reports, len(loaded.Samples), len(loaded.Workouts), cfg)
}

// GetIncidentResults runs the full pipeline and returns the classified
// incident table without printing it. The MCP handlers call this directly.
func GetIncidentResults(cfg *contract.Config) ([]schema.ClassifiedIncident, *LoadResult, error) {
	loaded, err := LoadData(cfg)
	if err != nil {
		return nil, nil, err
	}
	incidents := DetectIncidents(loaded.Samples, cfg.ThresholdBPM, cfg.GapSeconds, cfg.MinDurationSeconds)
	classified := ClassifyIncidents(incidents, loaded.Workouts, cfg.MinOverlapSeconds)
	return classified, loaded, nil
}

// LoadData discovers input sources and produces the merged, time-sorted
// canonical tables. Sources contributing no recognizable schema are skipped
// silently; unreadable sources are logged and skipped.
func LoadData(cfg *contract.Config) (*LoadResult, error) {
	sources, err := ingest.DiscoverSources(cfg.InputPath)
	if err != nil {
		return nil, fmt.Errorf("discovering input sources: %w", err)
	}

	result := &LoadResult{}
	for _, src := range sources {
		loadSource(cfg, src, result, true)
	}

	// An optional separate workouts path contributes workouts only.
	if cfg.WorkoutsPath != "" && cfg.WorkoutsPath != cfg.InputPath {
		workoutSources, err := ingest.DiscoverSources(cfg.WorkoutsPath)
		if err != nil {
			return nil, fmt.Errorf("discovering workout sources: %w", err)
		}
		for _, src := range workoutSources {
			loadSource(cfg, src, result, false)
		}
	}

	sort.SliceStable(result.Samples, func(i, j int) bool {
		return result.Samples[i].Timestamp.Before(result.Samples[j].Timestamp)
	})
	sort.SliceStable(result.Workouts, func(i, j int) bool {
		return result.Workouts[i].Start.Before(result.Workouts[j].Start)
	})
	return result, nil
}

// loadSource sniffs one source and, when a schema is found, normalizes every
// chunk into the accumulated tables. withSamples is false for
// workouts-only inputs.
func loadSource(cfg *contract.Config, src contract.Source, result *LoadResult, withSamples bool) {
	preview, err := src.Preview(cfg.PreviewRows)
	if err != nil {
		contract.LogWarn(fmt.Sprintf("could not read preview of %s", src.Path()), err)
		result.Reports = append(result.Reports, schema.SchemaReport{Path: src.Path()})
		return
	}

	var sampleSchema *schema.SampleSchema
	if withSamples {
		sampleSchema = DetectSampleSchema(preview)
	}
	workoutSchema := DetectWorkoutSchema(preview)
	result.Reports = append(result.Reports, schema.SchemaReport{
		Path:          src.Path(),
		SampleSchema:  sampleSchema,
		WorkoutSchema: workoutSchema,
	})
	if sampleSchema == nil && workoutSchema == nil {
		return
	}

	err = src.Chunks(cfg.ChunkSize, func(chunk *schema.Frame) error {
		if sampleSchema != nil {
			for _, s := range NormalizeSamples(chunk, sampleSchema) {
				if inWindow(s.Timestamp, cfg.StartTime, cfg.EndTime) {
					result.Samples = append(result.Samples, s)
				}
			}
		}
		if workoutSchema != nil {
			for _, w := range NormalizeWorkouts(chunk, workoutSchema) {
				if inWindow(w.Start, cfg.StartTime, cfg.EndTime) {
					result.Workouts = append(result.Workouts, w)
				}
			}
		}
		return nil
	})
	if err != nil {
		contract.LogWarn(fmt.Sprintf("could not read %s", src.Path()), err)
	}
}

// inWindow reports whether t falls inside the inclusive analysis window.
// Zero bounds are open.
func inWindow(t, start, end time.Time) bool {
	if !start.IsZero() && t.Before(start) {
		return false
	}
	if !end.IsZero() && t.After(end) {
		return false
	}
	return true
}
