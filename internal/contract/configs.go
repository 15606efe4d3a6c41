package contract

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pulsewatch/pulsewatch/schema"
)

// Default values for configuration.
const (
	DefaultThresholdBPM       = 140.0
	DefaultGapSeconds         = 120
	DefaultMinDurationSeconds = 0.0
	DefaultMinOverlapSeconds  = 1.0
	DefaultChunkSize          = 50000
	DefaultPreviewRows        = 500
	DefaultLookbackMonths     = 9
	DefaultPrecision          = 1
	MaxChunkSize              = 1000000
)

// Config holds the runtime configuration for the analysis.
// This struct remains the "final, validated" config.
type Config struct {
	InputPath    string // CSV/XLSX/FIT file or directory (positional arg)
	WorkoutsPath string // Optional separate workouts file or directory

	StartTime time.Time // Inclusive window start for normalized rows
	EndTime   time.Time // Inclusive window end for normalized rows

	ThresholdBPM       float64
	GapSeconds         int
	MinDurationSeconds float64
	MinOverlapSeconds  float64
	ChunkSize          int
	PreviewRows        int

	Output     schema.OutputMode
	OutputFile string
	Precision  int
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	InputPathStr string

	Workouts           string  `mapstructure:"workouts"`
	Start              string  `mapstructure:"start"`
	End                string  `mapstructure:"end"`
	Threshold          float64 `mapstructure:"threshold"`
	GapSeconds         int     `mapstructure:"gap-seconds"`
	MinDurationSeconds float64 `mapstructure:"min-duration-seconds"`
	MinOverlapSeconds  float64 `mapstructure:"min-overlap-seconds"`
	ChunkSize          int     `mapstructure:"chunk-size"`
	PreviewRows        int     `mapstructure:"preview-rows"`
	Output             string  `mapstructure:"output"`
	OutputFile         string  `mapstructure:"output-file"`
	Precision          int     `mapstructure:"precision"`
	Width              int     `mapstructure:"width"`
	Color              string  `mapstructure:"color"`
	HistoryBackend     string  `mapstructure:"history-backend"`
	HistoryDBConnect   string  `mapstructure:"history-db-connect"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ConfigParams returns the analysis knobs as a flat map for run logging.
func (c *Config) ConfigParams() map[string]any {
	return map[string]any{
		"input_path":           c.InputPath,
		"workouts_path":        c.WorkoutsPath,
		"start_time":           c.StartTime.Format(DateTimeFormat),
		"end_time":             c.EndTime.Format(DateTimeFormat),
		"threshold_bpm":        c.ThresholdBPM,
		"gap_seconds":          c.GapSeconds,
		"min_duration_seconds": c.MinDurationSeconds,
		"min_overlap_seconds":  c.MinOverlapSeconds,
		"chunk_size":           c.ChunkSize,
	}
}

// ProcessAndValidate performs all complex parsing and validation on the raw
// inputs and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := ProcessAndValidateBase(cfg, input); err != nil {
		return err
	}
	return resolveInputPaths(cfg, input)
}

// ProcessAndValidateBase validates everything except the input paths. Used
// by the MCP server, where paths arrive per tool call instead of up front.
func ProcessAndValidateBase(cfg *Config, input *ConfigRawInput) error {
	if err := validateAnalysisInputs(cfg, input); err != nil {
		return err
	}
	if err := validateOutputInputs(cfg, input); err != nil {
		return err
	}
	if err := processTimeWindow(cfg, input); err != nil {
		return err
	}
	return validateHistoryBackend(cfg, input)
}

// validateAnalysisInputs checks the pipeline knobs.
func validateAnalysisInputs(cfg *Config, input *ConfigRawInput) error {
	if input.Threshold <= 0 || input.Threshold >= 300 {
		return fmt.Errorf("threshold must be between 0 and 300 bpm exclusive (received %.1f)", input.Threshold)
	}
	cfg.ThresholdBPM = input.Threshold

	if input.GapSeconds < 0 {
		return fmt.Errorf("gap-seconds cannot be negative (received %d)", input.GapSeconds)
	}
	cfg.GapSeconds = input.GapSeconds

	if input.MinDurationSeconds < 0 {
		return fmt.Errorf("min-duration-seconds cannot be negative (received %.1f)", input.MinDurationSeconds)
	}
	cfg.MinDurationSeconds = input.MinDurationSeconds

	if input.MinOverlapSeconds < 0 {
		return fmt.Errorf("min-overlap-seconds cannot be negative (received %.1f)", input.MinOverlapSeconds)
	}
	cfg.MinOverlapSeconds = input.MinOverlapSeconds

	if input.ChunkSize <= 0 || input.ChunkSize > MaxChunkSize {
		return fmt.Errorf("chunk-size must be greater than 0 and cannot exceed %d (received %d)", MaxChunkSize, input.ChunkSize)
	}
	cfg.ChunkSize = input.ChunkSize

	if input.PreviewRows <= 0 {
		return fmt.Errorf("preview-rows must be greater than 0 (received %d)", input.PreviewRows)
	}
	cfg.PreviewRows = input.PreviewRows
	return nil
}

// validateOutputInputs checks output format, precision and color settings.
func validateOutputInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	cfg.OutputFile = input.OutputFile
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	if input.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", input.Width)
	}
	cfg.Width = input.Width

	useColors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid color setting: %w", err)
	}
	cfg.UseColors = useColors
	return nil
}

// processTimeWindow resolves the inclusive analysis window. The default
// window ends now and starts DefaultLookbackMonths earlier.
func processTimeWindow(cfg *Config, input *ConfigRawInput) error {
	now := time.Now().UTC()
	cfg.EndTime = now
	if input.End != "" {
		t, err := ParseTimePoint(input.End, now)
		if err != nil {
			return fmt.Errorf("invalid end date: %w", err)
		}
		cfg.EndTime = t
	}
	cfg.StartTime = cfg.EndTime.AddDate(0, -DefaultLookbackMonths, 0)
	if input.Start != "" {
		t, err := ParseTimePoint(input.Start, now)
		if err != nil {
			return fmt.Errorf("invalid start date: %w", err)
		}
		cfg.StartTime = t
	}
	if cfg.StartTime.After(cfg.EndTime) {
		return fmt.Errorf("start time (%s) cannot be after end time (%s)",
			cfg.StartTime.Format(DateTimeFormat), cfg.EndTime.Format(DateTimeFormat))
	}
	return nil
}

// validateHistoryBackend checks the run history settings.
func validateHistoryBackend(cfg *Config, input *ConfigRawInput) error {
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	return ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect)
}

// resolveInputPaths checks that the input paths exist. A missing input path
// is the only fatal I/O condition; everything downstream degrades silently.
func resolveInputPaths(cfg *Config, input *ConfigRawInput) error {
	if input.InputPathStr == "" {
		return fmt.Errorf("input path is required")
	}
	if _, err := os.Stat(input.InputPathStr); err != nil {
		return fmt.Errorf("input path not found: %s", input.InputPathStr)
	}
	cfg.InputPath = input.InputPathStr

	if input.Workouts != "" {
		if _, err := os.Stat(input.Workouts); err != nil {
			return fmt.Errorf("workouts path not found: %s", input.Workouts)
		}
		cfg.WorkoutsPath = input.Workouts
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database
// connection strings for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "://") && !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must be a URL or contain 'host=' parameter")
		}
	}
	return nil
}
