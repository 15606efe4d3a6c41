// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"time"

	"github.com/pulsewatch/pulsewatch/schema"
)

// Source supplies raw tabular rows for one input file. A bounded preview
// feeds schema detection; bounded chunks feed normalization, so raw-row
// memory stays bounded per chunk regardless of file size.
type Source interface {
	// Path returns a human-readable identifier for the source.
	Path() string

	// Preview returns up to limit raw rows for schema detection.
	Preview(limit int) (*schema.Frame, error)

	// Chunks reads the source in batches of at most size rows, invoking fn
	// for each. An error from fn stops the iteration.
	Chunks(size int, fn func(*schema.Frame) error) error
}

// HistoryStore defines the interface for recording analysis runs and their
// classified incidents. This allows the store to be mocked for testing.
type HistoryStore interface {
	// BeginRun creates a new run and returns its unique ID.
	BeginRun(startedAt time.Time, configParams map[string]any) (int64, error)

	// FinishRun updates the run with completion data.
	FinishRun(runID int64, finishedAt time.Time, sources, samples, workouts, incidents int) error

	// RecordIncidents stores the classified incidents of a run.
	RecordIncidents(runID int64, incidents []schema.ClassifiedIncident) error

	// GetStatus returns status information about the store.
	GetStatus() (schema.HistoryStatus, error)

	// GetAllRuns retrieves all recorded runs for export.
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllIncidents retrieves all recorded incidents for export.
	GetAllIncidents() ([]schema.IncidentRecord, error)

	// Clear deletes all recorded runs and incidents.
	Clear() error

	// Close closes the underlying connection.
	Close() error
}
