package contract

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pulsewatch/pulsewatch/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validRawInput returns a raw input carrying the flag defaults, with the
// input path pointing at a real temp file.
func validRawInput(t *testing.T) *ConfigRawInput {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.csv")
	require.NoError(t, os.WriteFile(path, []byte("timestamp,bpm\n"), 0o644))
	return &ConfigRawInput{
		InputPathStr:       path,
		Threshold:          DefaultThresholdBPM,
		GapSeconds:         DefaultGapSeconds,
		MinDurationSeconds: DefaultMinDurationSeconds,
		MinOverlapSeconds:  DefaultMinOverlapSeconds,
		ChunkSize:          DefaultChunkSize,
		PreviewRows:        DefaultPreviewRows,
		Output:             string(schema.TextOut),
		Precision:          DefaultPrecision,
		Color:              "yes",
		HistoryBackend:     string(schema.NoneBackend),
	}
}

func TestProcessAndValidate_Defaults(t *testing.T) {
	input := validRawInput(t)
	cfg := &Config{}

	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.Equal(t, input.InputPathStr, cfg.InputPath)
	assert.InDelta(t, DefaultThresholdBPM, cfg.ThresholdBPM, 0.001)
	assert.Equal(t, DefaultGapSeconds, cfg.GapSeconds)
	assert.Equal(t, schema.TextOut, cfg.Output)
	assert.True(t, cfg.UseColors)
	assert.Equal(t, schema.NoneBackend, cfg.HistoryBackend)

	// Default window ends roughly now and spans the default lookback.
	assert.WithinDuration(t, time.Now().UTC(), cfg.EndTime, time.Minute)
	assert.WithinDuration(t, cfg.EndTime.AddDate(0, -DefaultLookbackMonths, 0), cfg.StartTime, time.Minute)
}

func TestProcessAndValidate_ExplicitWindow(t *testing.T) {
	input := validRawInput(t)
	input.Start = "2024-01-01T00:00:00Z"
	input.End = "2024-06-30T23:59:59Z"
	cfg := &Config{}

	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), cfg.StartTime)
	assert.Equal(t, time.Date(2024, 6, 30, 23, 59, 59, 0, time.UTC), cfg.EndTime)
}

func TestProcessAndValidate_EndOnlyShiftsStart(t *testing.T) {
	input := validRawInput(t)
	input.End = "2024-06-30T00:00:00Z"
	cfg := &Config{}

	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC), cfg.EndTime)
	assert.Equal(t, cfg.EndTime.AddDate(0, -DefaultLookbackMonths, 0), cfg.StartTime)
}

func TestProcessAndValidate_StartAfterEnd(t *testing.T) {
	input := validRawInput(t)
	input.Start = "2024-07-01T00:00:00Z"
	input.End = "2024-06-30T00:00:00Z"
	cfg := &Config{}

	err := ProcessAndValidate(cfg, input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be after end time")
}

func TestProcessAndValidate_AnalysisKnobs(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ConfigRawInput)
		wantErr string
	}{
		{"zero threshold", func(in *ConfigRawInput) { in.Threshold = 0 }, "threshold must be between"},
		{"threshold too high", func(in *ConfigRawInput) { in.Threshold = 300 }, "threshold must be between"},
		{"negative gap", func(in *ConfigRawInput) { in.GapSeconds = -1 }, "gap-seconds cannot be negative"},
		{"negative min duration", func(in *ConfigRawInput) { in.MinDurationSeconds = -1 }, "min-duration-seconds cannot be negative"},
		{"negative min overlap", func(in *ConfigRawInput) { in.MinOverlapSeconds = -0.5 }, "min-overlap-seconds cannot be negative"},
		{"zero chunk size", func(in *ConfigRawInput) { in.ChunkSize = 0 }, "chunk-size must be greater than 0"},
		{"chunk size too large", func(in *ConfigRawInput) { in.ChunkSize = MaxChunkSize + 1 }, "chunk-size must be greater than 0"},
		{"zero preview rows", func(in *ConfigRawInput) { in.PreviewRows = 0 }, "preview-rows must be greater than 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validRawInput(t)
			tt.mutate(input)
			err := ProcessAndValidate(&Config{}, input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestProcessAndValidate_OutputSettings(t *testing.T) {
	input := validRawInput(t)
	input.Output = "JSON" // case-insensitive
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, schema.JSONOut, cfg.Output)

	input = validRawInput(t)
	input.Output = "xml"
	err := ProcessAndValidate(&Config{}, input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")

	input = validRawInput(t)
	input.Output = string(schema.ParquetOut)
	err = ProcessAndValidate(&Config{}, input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parquet output requires --output-file")

	input = validRawInput(t)
	input.Output = string(schema.ParquetOut)
	input.OutputFile = filepath.Join(t.TempDir(), "out.parquet")
	require.NoError(t, ProcessAndValidate(&Config{}, input))

	input = validRawInput(t)
	input.Precision = 3
	err = ProcessAndValidate(&Config{}, input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "precision must be 1 or 2")

	input = validRawInput(t)
	input.Color = "maybe"
	err = ProcessAndValidate(&Config{}, input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid color setting")
}

func TestProcessAndValidate_InputPaths(t *testing.T) {
	input := validRawInput(t)
	input.InputPathStr = ""
	err := ProcessAndValidate(&Config{}, input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input path is required")

	input = validRawInput(t)
	input.InputPathStr = "/nonexistent/heart_rate.csv"
	err = ProcessAndValidate(&Config{}, input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input path not found")

	input = validRawInput(t)
	input.Workouts = "/nonexistent/workouts.csv"
	err = ProcessAndValidate(&Config{}, input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workouts path not found")
}

func TestProcessAndValidateBase_SkipsInputPaths(t *testing.T) {
	input := validRawInput(t)
	input.InputPathStr = "" // not required for the base validation
	cfg := &Config{}
	require.NoError(t, ProcessAndValidateBase(cfg, input))
	assert.Empty(t, cfg.InputPath)
}

func TestProcessAndValidate_HistoryBackend(t *testing.T) {
	input := validRawInput(t)
	input.HistoryBackend = "oracle"
	err := ProcessAndValidate(&Config{}, input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid history backend")

	input = validRawInput(t)
	input.HistoryBackend = "SQLite" // case-insensitive
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, schema.SQLiteBackend, cfg.HistoryBackend)
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	assert.NoError(t, ValidateDatabaseConnectionString(schema.SQLiteBackend, ""))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.NoneBackend, ""))

	assert.Error(t, ValidateDatabaseConnectionString(schema.MySQLBackend, ""))
	assert.Error(t, ValidateDatabaseConnectionString(schema.MySQLBackend, "user:pass@localhost/db"))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.MySQLBackend, "user:pass@tcp(localhost:3306)/pulsewatch"))

	assert.Error(t, ValidateDatabaseConnectionString(schema.PostgreSQLBackend, ""))
	assert.Error(t, ValidateDatabaseConnectionString(schema.PostgreSQLBackend, "localhost:5432"))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.PostgreSQLBackend, "postgres://user@localhost/db"))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.PostgreSQLBackend, "host=localhost user=postgres"))
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{InputPath: "a.csv", ThresholdBPM: 150}
	clone := cfg.Clone()
	clone.InputPath = "b.csv"
	assert.Equal(t, "a.csv", cfg.InputPath)
	assert.InDelta(t, 150, clone.ThresholdBPM, 0.001)
}

func TestConfigParams(t *testing.T) {
	cfg := &Config{
		InputPath:    "export.csv",
		ThresholdBPM: 140,
		GapSeconds:   120,
		StartTime:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndTime:      time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
	}
	params := cfg.ConfigParams()
	assert.Equal(t, "export.csv", params["input_path"])
	assert.Equal(t, 140.0, params["threshold_bpm"])
	assert.Equal(t, 120, params["gap_seconds"])
	assert.Equal(t, "2024-01-01T00:00:00Z", params["start_time"])
}
