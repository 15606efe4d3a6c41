package schema

// Custom string types for type safety.
type (
	// Classification represents the explained-by-workout decision for an incident.
	Classification string

	// Confidence represents how certain the workout classification is.
	Confidence string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for run history.
	DatabaseBackend string
)

// All classifications supported. Matching is binary around the overlap
// threshold, so there is no partial/low-confidence workout class.
const (
	ClassWorkout Classification = "workout"
	ClassUnknown Classification = "unknown" // default
)

// All confidence levels supported.
const (
	ConfidenceHigh    Confidence = "high"
	ConfidenceUnknown Confidence = "unknown" // default
)

// All output modes supported.
const (
	TextOut    OutputMode = "text" // default
	CSVOut     OutputMode = "csv"
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All history backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite"
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none" // default
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut:    {},
	CSVOut:     {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid history backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// Default values for workout-type and notes fields.
const (
	UnknownWorkoutType = "unknown"
	NotesNoOverlap     = "no explicit workout overlap"
	NotesOverlap       = "explicit workout overlap"
)

// IncidentColumns is the canonical export column order, one row per incident.
var IncidentColumns = []string{
	"id",
	"start_time",
	"end_time",
	"duration_seconds",
	"max_bpm",
	"avg_bpm",
	"sample_count",
	"classification",
	"workout_confidence",
	"workout_type",
	"overlap_seconds",
	"notes",
}
