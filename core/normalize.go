package core

import (
	"strings"

	"github.com/pulsewatch/pulsewatch/internal/contract"
	"github.com/pulsewatch/pulsewatch/schema"
)

// NormalizeSamples applies a detected schema to one raw chunk and returns
// canonical samples. Rows with unparseable timestamps, non-numeric values or
// out-of-range values are dropped silently; a missing required column yields
// an empty slice, never an error.
func NormalizeSamples(frame *schema.Frame, s *schema.SampleSchema) []schema.Sample {
	if frame == nil || s == nil {
		return nil
	}
	if !frame.HasColumn(s.Timestamp) || !frame.HasColumn(s.BPM) {
		return nil
	}

	var allowed map[string]bool
	if s.TypeColumn != "" && len(s.AllowedTypes) > 0 && frame.HasColumn(s.TypeColumn) {
		allowed = make(map[string]bool, len(s.AllowedTypes))
		for _, t := range s.AllowedTypes {
			allowed[strings.ToLower(t)] = true
		}
	}

	var samples []schema.Sample
	for i := range frame.Rows {
		if allowed != nil {
			typeVal := strings.ToLower(strings.TrimSpace(frame.Cell(i, s.TypeColumn)))
			if !allowed[typeVal] {
				continue
			}
		}
		ts, err := contract.ParseTimestamp(frame.Cell(i, s.Timestamp))
		if err != nil {
			continue
		}
		bpm, ok := contract.ParseFloat(frame.Cell(i, s.BPM))
		if !ok || bpm <= 0 || bpm >= 300 {
			continue
		}
		samples = append(samples, schema.Sample{Timestamp: ts, BPM: bpm})
	}
	return samples
}

// NormalizeWorkouts applies a detected schema to one raw chunk and returns
// canonical workouts. Rows missing either instant or with an inverted
// interval are dropped. When the schema carries a type column, rows with an
// empty type label are dropped too; otherwise the type defaults to "unknown".
func NormalizeWorkouts(frame *schema.Frame, s *schema.WorkoutSchema) []schema.Workout {
	if frame == nil || s == nil {
		return nil
	}
	if !frame.HasColumn(s.Start) || !frame.HasColumn(s.End) {
		return nil
	}
	hasType := s.WorkoutType != "" && frame.HasColumn(s.WorkoutType)

	var workouts []schema.Workout
	for i := range frame.Rows {
		start, err := contract.ParseTimestamp(frame.Cell(i, s.Start))
		if err != nil {
			continue
		}
		end, err := contract.ParseTimestamp(frame.Cell(i, s.End))
		if err != nil {
			continue
		}
		if end.Before(start) {
			continue
		}
		workoutType := schema.UnknownWorkoutType
		if hasType {
			label := strings.TrimSpace(frame.Cell(i, s.WorkoutType))
			if label == "" {
				continue
			}
			workoutType = label
		}
		workouts = append(workouts, schema.Workout{Start: start, End: end, WorkoutType: workoutType})
	}
	return workouts
}
