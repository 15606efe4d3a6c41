package ingest

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pulsewatch/pulsewatch/internal/contract"
	"github.com/pulsewatch/pulsewatch/schema"
	"github.com/tormoder/fit"
)

// FITKind selects which message family of a FIT activity a source exposes.
type FITKind string

// The two row shapes a FIT activity contributes.
const (
	// FITRecords exposes record messages as heart-rate sample rows.
	FITRecords FITKind = "records"
	// FITSessions exposes session messages as workout interval rows.
	FITSessions FITKind = "sessions"
)

// FITSource adapts one FIT activity file into tabular rows, so FIT data
// flows through the same schema detection and normalization as CSV input.
// Record rows carry timestamp/heartRate headers; session rows carry
// startDate/endDate/workoutActivityType with "workout_<sport>" labels,
// which the workout type vocabulary check accepts.
type FITSource struct {
	path string
	kind FITKind
}

var _ contract.Source = (*FITSource)(nil) // Compile-time check

// NewFITSource creates a source over one message family of a FIT file.
func NewFITSource(path string, kind FITKind) *FITSource {
	return &FITSource{path: path, kind: kind}
}

// Path returns the file path tagged with the message family.
func (s *FITSource) Path() string {
	return fmt.Sprintf("%s (%s)", s.path, s.kind)
}

// Preview returns up to limit rows.
func (s *FITSource) Preview(limit int) (*schema.Frame, error) {
	headers, rows, err := s.load()
	if err != nil {
		return nil, err
	}
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return schema.NewFrame(headers, rows), nil
}

// Chunks slices the decoded rows into batches of at most size rows. The
// decode already holds the activity in memory, so chunking only bounds what
// downstream stages see at once.
func (s *FITSource) Chunks(size int, fn func(*schema.Frame) error) error {
	headers, rows, err := s.load()
	if err != nil {
		return err
	}
	for start := 0; start < len(rows); start += size {
		end := min(start+size, len(rows))
		if err := fn(schema.NewFrame(headers, rows[start:end])); err != nil {
			return err
		}
	}
	return nil
}

// load decodes the activity and renders the selected message family as rows.
func (s *FITSource) load() ([]string, [][]string, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = f.Close() }()

	decoded, err := fit.Decode(f)
	if err != nil {
		return nil, nil, fmt.Errorf("decode FIT file: %w", err)
	}
	activity, err := decoded.Activity()
	if err != nil {
		return nil, nil, fmt.Errorf("activity FIT expected: %w", err)
	}

	if s.kind == FITSessions {
		return sessionRows(activity)
	}
	return recordRows(activity)
}

// recordRows renders record messages as sample rows. Records without a
// valid timestamp or heart rate render empty cells and are dropped by the
// normalizer like any other unparseable row.
func recordRows(activity *fit.ActivityFile) ([]string, [][]string, error) {
	headers := []string{"timestamp", "heartRate"}
	rows := make([][]string, 0, len(activity.Records))
	for _, rec := range activity.Records {
		var ts, hr string
		if !rec.Timestamp.IsZero() {
			ts = rec.Timestamp.UTC().Format(time.RFC3339)
		}
		if rec.HeartRate != math.MaxUint8 && rec.HeartRate > 0 {
			hr = strconv.Itoa(int(rec.HeartRate))
		}
		rows = append(rows, []string{ts, hr})
	}
	return headers, rows, nil
}

// sessionRows renders session messages as workout rows. The session's own
// Timestamp marks its end.
func sessionRows(activity *fit.ActivityFile) ([]string, [][]string, error) {
	headers := []string{"startDate", "endDate", "workoutActivityType"}
	rows := make([][]string, 0, len(activity.Sessions))
	for _, session := range activity.Sessions {
		if session.StartTime.IsZero() || session.Timestamp.IsZero() {
			continue
		}
		sport := strings.ToLower(fmt.Sprint(session.Sport))
		rows = append(rows, []string{
			session.StartTime.UTC().Format(time.RFC3339),
			session.Timestamp.UTC().Format(time.RFC3339),
			"workout_" + sport,
		})
	}
	return headers, rows, nil
}
