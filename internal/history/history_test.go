package history

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/pulsewatch/pulsewatch/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleIncidents(start time.Time) []schema.ClassifiedIncident {
	return []schema.ClassifiedIncident{
		{
			Incident: schema.Incident{
				ID:              1,
				Start:           start,
				End:             start.Add(4 * time.Minute),
				DurationSeconds: 240,
				MaxBPM:          168,
				AvgBPM:          152.4,
				SampleCount:     49,
			},
			Classification: schema.ClassWorkout,
			Confidence:     schema.ConfidenceHigh,
			WorkoutType:    "running",
			OverlapSeconds: 240,
			Notes:          schema.NotesOverlap,
		},
		{
			Incident: schema.Incident{
				ID:              2,
				Start:           start.Add(3 * time.Hour),
				End:             start.Add(3*time.Hour + time.Minute),
				DurationSeconds: 60,
				MaxBPM:          149,
				AvgBPM:          144.8,
				SampleCount:     7,
			},
			Classification: schema.ClassUnknown,
			Confidence:     schema.ConfidenceUnknown,
			WorkoutType:    schema.UnknownWorkoutType,
			OverlapSeconds: 0,
			Notes:          schema.NotesNoOverlap,
		},
	}
}

func TestHistoryStore_NoneBackend(t *testing.T) {
	store, err := NewHistoryStore(schema.NoneBackend, "")
	require.NoError(t, err)
	require.NotNil(t, store)

	// BeginRun should return 0 for NoneBackend
	runID, err := store.BeginRun(time.Now(), map[string]any{"test": "value"})
	assert.NoError(t, err)
	assert.Equal(t, int64(0), runID)

	// Other operations should not error
	err = store.RecordIncidents(runID, sampleIncidents(time.Now().UTC()))
	assert.NoError(t, err)

	err = store.FinishRun(runID, time.Now(), 1, 100, 2, 2)
	assert.NoError(t, err)

	status, err := store.GetStatus()
	assert.NoError(t, err)
	assert.Equal(t, schema.NoneBackend, status.Backend)
	assert.Zero(t, status.RunCount)

	runs, err := store.GetAllRuns()
	assert.NoError(t, err)
	assert.Empty(t, runs)

	err = store.Close()
	assert.NoError(t, err)
}

func TestHistoryStore_SQLite(t *testing.T) {
	// Use in-memory SQLite for testing
	store, err := NewHistoryStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	require.NotNil(t, store)
	defer func() { _ = store.Close() }()

	startedAt := time.Now().UTC()
	configParams := map[string]any{
		"threshold_bpm": 140.0,
		"gap_seconds":   120,
		"input_path":    "/test/export.csv",
	}
	runID, err := store.BeginRun(startedAt, configParams)
	require.NoError(t, err)
	assert.Greater(t, runID, int64(0))

	incidents := sampleIncidents(startedAt.Add(-time.Hour))
	err = store.RecordIncidents(runID, incidents)
	require.NoError(t, err)

	err = store.FinishRun(runID, startedAt.Add(5*time.Second), 3, 86400, 4, len(incidents))
	require.NoError(t, err)

	// Verify the run round-trips with counts and duration filled in
	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	run := runs[0]
	assert.Equal(t, runID, run.RunID)
	assert.WithinDuration(t, startedAt, run.StartedAt, time.Millisecond)
	require.NotNil(t, run.FinishedAt)
	require.NotNil(t, run.RunDurationMs)
	assert.Equal(t, int32(5000), *run.RunDurationMs)
	assert.Equal(t, int32(3), run.TotalSources)
	assert.Equal(t, int32(86400), run.TotalSamples)
	assert.Equal(t, int32(4), run.TotalWorkouts)
	assert.Equal(t, int32(2), run.TotalIncidents)

	// Config params should be stored as JSON
	require.NotNil(t, run.ConfigParams)
	var stored map[string]any
	require.NoError(t, json.Unmarshal([]byte(*run.ConfigParams), &stored))
	assert.Equal(t, "/test/export.csv", stored["input_path"])

	// Verify incidents round-trip
	records, err := store.GetAllIncidents()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, runID, records[0].RunID)
	assert.Equal(t, int32(1), records[0].IncidentID)
	assert.Equal(t, string(schema.ClassWorkout), records[0].Classification)
	assert.Equal(t, "running", records[0].WorkoutType)
	assert.WithinDuration(t, incidents[0].Start, records[0].StartTime, time.Millisecond)
	assert.Equal(t, string(schema.ClassUnknown), records[1].Classification)
	assert.InDelta(t, 0, records[1].OverlapSeconds, 0.001)
}

func TestHistoryStore_MultipleRuns(t *testing.T) {
	store, err := NewHistoryStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	require.NotNil(t, store)
	defer func() { _ = store.Close() }()

	startedAt := time.Now().UTC()
	var ids []int64
	for i := 0; i < 3; i++ {
		runID, err := store.BeginRun(startedAt.Add(time.Duration(i)*time.Minute), map[string]any{"run": i})
		require.NoError(t, err)
		ids = append(ids, runID)

		err = store.RecordIncidents(runID, sampleIncidents(startedAt))
		require.NoError(t, err)

		err = store.FinishRun(runID, startedAt.Add(time.Duration(i)*time.Minute+time.Second), 1, 100, 0, 2)
		require.NoError(t, err)
	}

	// IDs should be distinct and increasing
	assert.Less(t, ids[0], ids[1])
	assert.Less(t, ids[1], ids[2])

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, int64(3), status.RunCount)
	assert.Equal(t, int64(6), status.IncidentCount)
	assert.Equal(t, schema.SQLiteBackend, status.Backend)
}

func TestHistoryStore_Clear(t *testing.T) {
	store, err := NewHistoryStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	runID, err := store.BeginRun(time.Now().UTC(), nil)
	require.NoError(t, err)
	require.NoError(t, store.RecordIncidents(runID, sampleIncidents(time.Now().UTC())))

	require.NoError(t, store.Clear())

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Zero(t, status.RunCount)
	assert.Zero(t, status.IncidentCount)
}

func TestHistoryStore_SQLiteFile(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")

	store, err := NewHistoryStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)

	runID, err := store.BeginRun(time.Now().UTC(), map[string]any{"persisted": true})
	require.NoError(t, err)
	require.NoError(t, store.FinishRun(runID, time.Now().UTC(), 1, 10, 0, 0))
	require.NoError(t, store.Close())

	// Reopen and confirm the run survived
	store, err = NewHistoryStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, int64(1), status.RunCount)
	assert.Equal(t, dbPath, status.Location)
	assert.Greater(t, status.SizeBytes, int64(0))
}

func TestHistoryStore_UnsupportedBackend(t *testing.T) {
	_, err := NewHistoryStore(schema.DatabaseBackend("oracle"), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported backend")
}

func TestMigrateHistory_NoneBackend(t *testing.T) {
	err := MigrateHistory(schema.NoneBackend, "", -1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migrations are not supported for NoneBackend")
}

func TestExecuteHistoryExport_RequiresOutputFile(t *testing.T) {
	store, err := NewHistoryStore(schema.NoneBackend, "")
	require.NoError(t, err)

	err = ExecuteHistoryExport(store, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--output-file is required")
}

func TestExecuteHistoryExport_EmptyStore(t *testing.T) {
	store, err := NewHistoryStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	err = ExecuteHistoryExport(store, filepath.Join(t.TempDir(), "export"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no run history found")
}

func TestExecuteHistoryExport_WritesParquetFiles(t *testing.T) {
	store, err := NewHistoryStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	runID, err := store.BeginRun(time.Now().UTC(), map[string]any{"threshold_bpm": 140.0})
	require.NoError(t, err)
	require.NoError(t, store.RecordIncidents(runID, sampleIncidents(time.Now().UTC())))
	require.NoError(t, store.FinishRun(runID, time.Now().UTC(), 1, 500, 1, 2))

	outputFile := filepath.Join(t.TempDir(), "export")
	require.NoError(t, ExecuteHistoryExport(store, outputFile))

	assert.FileExists(t, outputFile+".runs.parquet")
	assert.FileExists(t, outputFile+".incidents.parquet")
}
