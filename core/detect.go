package core

import (
	"sort"
	"strings"

	"github.com/pulsewatch/pulsewatch/internal/contract"
	"github.com/pulsewatch/pulsewatch/schema"
)

// Schema detection is a prioritized rule cascade over a bounded preview of
// raw rows. Each predicate returns "no match" instead of failing, so an
// unrecognized layout is a normal, silent outcome.

// datetimeSampleSize caps how many non-missing values the datetime heuristic
// inspects per column.
const datetimeSampleSize = 25

// datetimeParseRatio is the minimum fraction of sampled values that must
// parse as datetimes for a column to count as a timestamp column.
const datetimeParseRatio = 0.2

// timestampPriority is the header-name priority order for sample timestamps.
var timestampPriority = []string{
	"startdate",
	"timestamp",
	"date",
	"start_time",
	"creationdate",
	"time",
}

// bpmKeywords are header fragments that suggest a heart-rate value column.
var bpmKeywords = []string{"bpm", "heart", "pulse", "hr"}

// DetectSampleSchema attempts to find timestamp and bpm columns in a preview
// frame. Returns nil when no plausible layout is found.
func DetectSampleSchema(frame *schema.Frame) *schema.SampleSchema {
	if frame == nil || frame.Len() == 0 {
		return nil
	}
	lowerMap := lowerHeaderMap(frame)

	// A type column whose vocabulary contains heart-rate identifiers lets
	// us trust looser value-column selection later.
	var typeCol string
	var allowedTypes []string
	for _, col := range frame.Headers {
		if strings.Contains(strings.ToLower(col), "type") {
			if hrTypes := findHeartRateTypes(frame.Column(col)); len(hrTypes) > 0 {
				typeCol = col
				allowedTypes = hrTypes
				break
			}
		}
	}

	tsCol := findTimestampColumn(frame, lowerMap)
	bpmCol := findBPMColumn(frame, lowerMap, typeCol != "")

	if tsCol == "" || bpmCol == "" {
		return nil
	}
	return &schema.SampleSchema{
		Timestamp:    tsCol,
		BPM:          bpmCol,
		TypeColumn:   typeCol,
		AllowedTypes: allowedTypes,
	}
}

// DetectWorkoutSchema finds start/end/type columns for workout intervals.
//
// A plausible workout type/activity column is required, not optional: tables
// that happen to carry start/end timestamps (heart-rate exports do) must not
// be mistaken for workout records.
func DetectWorkoutSchema(frame *schema.Frame) *schema.WorkoutSchema {
	if frame == nil || frame.Len() == 0 {
		return nil
	}

	var typeCol string
	if frame.HasColumn("workoutActivityType") {
		typeCol = "workoutActivityType"
	} else {
		for _, col := range frame.Headers {
			lowered := strings.ToLower(col)
			if strings.Contains(lowered, "workout") ||
				(strings.Contains(lowered, "activity") && strings.Contains(lowered, "type")) ||
				lowered == "type" {
				if len(findWorkoutTypes(frame.Column(col))) > 0 {
					typeCol = col
					break
				}
			}
		}
	}

	var startCol, endCol string
	for _, col := range frame.Headers {
		lowered := strings.ToLower(col)
		if startCol == "" && (strings.Contains(lowered, "start") || strings.Contains(lowered, "begin")) {
			if isDatetimeColumn(frame.Column(col)) {
				startCol = col
			}
		}
		if endCol == "" && (strings.Contains(lowered, "end") || strings.Contains(lowered, "stop") || strings.Contains(lowered, "finish")) {
			if isDatetimeColumn(frame.Column(col)) {
				endCol = col
			}
		}
	}

	if startCol == "" || endCol == "" || typeCol == "" {
		return nil
	}
	return &schema.WorkoutSchema{Start: startCol, End: endCol, WorkoutType: typeCol}
}

// findTimestampColumn applies the header-name priority list, then falls back
// to scanning any column whose header mentions dates or times.
func findTimestampColumn(frame *schema.Frame, lowerMap map[string]string) string {
	// The first priority-name hit is accepted without the parse heuristic.
	// This mirrors long-standing behavior; tightening it would reject
	// exports whose priority-named column holds sparse or odd values.
	for _, key := range timestampPriority {
		if candidate, ok := lowerMap[key]; ok {
			return candidate
		}
	}
	for _, col := range frame.Headers {
		lowered := strings.ToLower(col)
		if strings.Contains(lowered, "date") || strings.Contains(lowered, "time") || strings.Contains(lowered, "timestamp") {
			if isDatetimeColumn(frame.Column(col)) {
				return col
			}
		}
	}
	return ""
}

// findBPMColumn locates the heart-rate value column. With a corroborating
// type column the keyword match alone is enough; without one the candidate
// must also pass the physiological plausibility check.
func findBPMColumn(frame *schema.Frame, lowerMap map[string]string, hasTypeCol bool) string {
	if hasTypeCol {
		var bpmCol string
		for _, col := range frame.Headers {
			lowered := strings.ToLower(col)
			if containsAny(lowered, bpmKeywords) {
				bpmCol = col
				break
			}
		}
		if bpmCol == "" {
			bpmCol = lowerMap["value"]
		}
		if bpmCol != "" {
			// A keyword column with no numeric content at all is a label
			// column (e.g. "heartRateContext"); fall back to "value".
			if numeric := numericValues(frame.Column(bpmCol)); len(numeric) == 0 {
				if valueCol, ok := lowerMap["value"]; ok && valueCol != bpmCol {
					bpmCol = valueCol
				}
			}
		}
		return bpmCol
	}

	for _, col := range frame.Headers {
		lowered := strings.ToLower(col)
		if containsAny(lowered, bpmKeywords) && isBPMColumn(frame.Column(col)) {
			return col
		}
	}
	if valueCol, ok := lowerMap["value"]; ok && isBPMColumn(frame.Column(valueCol)) {
		return valueCol
	}
	for _, col := range frame.Headers {
		if isBPMColumn(frame.Column(col)) {
			return col
		}
	}
	return ""
}

// isDatetimeColumn heuristic: does this column look like datetimes.
func isDatetimeColumn(values []string) bool {
	var sampled, parsed int
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		if sampled == datetimeSampleSize {
			break
		}
		sampled++
		if _, err := contract.ParseTimestamp(v); err == nil {
			parsed++
		}
	}
	if sampled == 0 {
		return false
	}
	return float64(parsed)/float64(sampled) >= datetimeParseRatio
}

// isBPMColumn heuristic: numeric values in a physiologically plausible
// heart-rate band, or a resting-to-exercise median.
func isBPMColumn(values []string) bool {
	numeric := numericValues(values)
	if len(numeric) == 0 {
		return false
	}
	minVal, maxVal := numeric[0], numeric[0]
	for _, v := range numeric[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	median := medianOf(numeric)
	plausibleRange := minVal >= 20 && minVal <= 260 && maxVal >= 40 && maxVal <= 260
	return plausibleRange || (median >= 60 && median <= 180)
}

// findHeartRateTypes returns unique lowercased values that look like
// heart-rate type identifiers, excluding variability records.
func findHeartRateTypes(values []string) []string {
	var matches []string
	seen := make(map[string]bool)
	for _, raw := range values {
		v := strings.ToLower(strings.TrimSpace(raw))
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		isHR := (strings.Contains(v, "heart") && strings.Contains(v, "rate")) ||
			strings.HasSuffix(v, "heartrate") ||
			v == "hkquantitytypeidentifierheartrate"
		if isHR && !strings.Contains(v, "variability") {
			matches = append(matches, v)
		}
	}
	return matches
}

// findWorkoutTypes returns unique lowercased values that look like workout
// type identifiers.
func findWorkoutTypes(values []string) []string {
	var matches []string
	seen := make(map[string]bool)
	for _, raw := range values {
		v := strings.ToLower(strings.TrimSpace(raw))
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		if strings.Contains(v, "workout") ||
			strings.HasPrefix(v, "hkworkout") ||
			strings.HasPrefix(v, "hkactivitytype") {
			matches = append(matches, v)
		}
	}
	return matches
}

// lowerHeaderMap maps lowercased headers to their original spelling.
// First occurrence wins.
func lowerHeaderMap(frame *schema.Frame) map[string]string {
	m := make(map[string]string, len(frame.Headers))
	for _, col := range frame.Headers {
		lowered := strings.ToLower(col)
		if _, ok := m[lowered]; !ok {
			m[lowered] = col
		}
	}
	return m
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// numericValues coerces cells to floats, dropping anything non-numeric.
func numericValues(values []string) []float64 {
	var out []float64
	for _, v := range values {
		if f, ok := contract.ParseFloat(v); ok {
			out = append(out, f)
		}
	}
	return out
}

func medianOf(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
