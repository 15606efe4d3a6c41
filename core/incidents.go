package core

import (
	"sort"
	"time"

	"github.com/pulsewatch/pulsewatch/schema"
)

// DetectIncidents groups samples above thresholdBPM into incidents. Samples
// whose gap to the previous above-threshold sample is at most gapSeconds
// belong to the same incident; a strictly larger gap closes the run. Runs
// shorter than minDurationSeconds are discarded. IDs are assigned in a
// post-pass over the surviving incidents, 1-based and dense in
// chronological order.
func DetectIncidents(samples []schema.Sample, thresholdBPM float64, gapSeconds int, minDurationSeconds float64) []schema.Incident {
	var filtered []schema.Sample
	for _, s := range samples {
		if s.BPM > thresholdBPM {
			filtered = append(filtered, s)
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Timestamp.Before(filtered[j].Timestamp)
	})

	maxGap := time.Duration(gapSeconds) * time.Second
	var incidents []schema.Incident
	run := []schema.Sample{filtered[0]}
	closeRun := func() {
		inc := summarizeRun(run)
		if inc.DurationSeconds >= minDurationSeconds {
			incidents = append(incidents, inc)
		}
	}
	for _, s := range filtered[1:] {
		if s.Timestamp.Sub(run[len(run)-1].Timestamp) <= maxGap {
			run = append(run, s)
			continue
		}
		closeRun()
		run = []schema.Sample{s}
	}
	closeRun()

	for i := range incidents {
		incidents[i].ID = i + 1
	}
	return incidents
}

// summarizeRun computes the aggregates of one contiguous run. A single-sample
// run has duration zero.
func summarizeRun(run []schema.Sample) schema.Incident {
	start := run[0].Timestamp
	end := run[len(run)-1].Timestamp
	duration := end.Sub(start).Seconds()
	if duration < 0 {
		duration = 0
	}
	maxBPM := run[0].BPM
	var sum float64
	for _, s := range run {
		if s.BPM > maxBPM {
			maxBPM = s.BPM
		}
		sum += s.BPM
	}
	return schema.Incident{
		Start:           start,
		End:             end,
		DurationSeconds: duration,
		MaxBPM:          maxBPM,
		AvgBPM:          sum / float64(len(run)),
		SampleCount:     len(run),
	}
}
