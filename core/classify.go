package core

import (
	"github.com/pulsewatch/pulsewatch/schema"
)

// ClassifyIncidents decides, per incident, whether a workout explains it.
// Every incident starts with the "unknown" defaults; an incident is
// classified as a workout only when its best-overlapping workout reaches
// minOverlapSeconds. Matching is binary around that threshold.
func ClassifyIncidents(incidents []schema.Incident, workouts []schema.Workout, minOverlapSeconds float64) []schema.ClassifiedIncident {
	classified := make([]schema.ClassifiedIncident, len(incidents))
	for i, inc := range incidents {
		classified[i] = schema.ClassifiedIncident{
			Incident:       inc,
			Classification: schema.ClassUnknown,
			Confidence:     schema.ConfidenceUnknown,
			WorkoutType:    schema.UnknownWorkoutType,
			OverlapSeconds: 0,
			Notes:          schema.NotesNoOverlap,
		}
	}
	if len(incidents) == 0 || len(workouts) == 0 {
		return classified
	}

	for i := range classified {
		workout, overlap := findBestOverlap(&classified[i].Incident, workouts)
		if workout == nil || overlap < minOverlapSeconds {
			continue
		}
		classified[i].Classification = schema.ClassWorkout
		classified[i].Confidence = schema.ConfidenceHigh
		if workout.WorkoutType != "" {
			classified[i].WorkoutType = workout.WorkoutType
		}
		classified[i].OverlapSeconds = overlap
		classified[i].Notes = schema.NotesOverlap
	}
	return classified
}

// findBestOverlap returns the workout with the largest overlap in seconds.
// Only a strictly larger overlap replaces the current best, so ties keep the
// earliest workout in table order.
func findBestOverlap(inc *schema.Incident, workouts []schema.Workout) (*schema.Workout, float64) {
	var best *schema.Workout
	bestOverlap := 0.0
	for i := range workouts {
		overlap := OverlapSeconds(inc.Start, inc.End, workouts[i].Start, workouts[i].End)
		if overlap > bestOverlap {
			bestOverlap = overlap
			best = &workouts[i]
		}
	}
	return best, bestOverlap
}
