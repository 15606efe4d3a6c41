package core

import "time"

// OverlapSeconds returns the length in seconds of the intersection of two
// time intervals. Disjoint or merely touching intervals overlap by zero.
func OverlapSeconds(aStart, aEnd, bStart, bEnd time.Time) float64 {
	latestStart := aStart
	if bStart.After(latestStart) {
		latestStart = bStart
	}
	earliestEnd := aEnd
	if bEnd.Before(earliestEnd) {
		earliestEnd = bEnd
	}
	overlap := earliestEnd.Sub(latestStart).Seconds()
	if overlap < 0 {
		return 0
	}
	return overlap
}
