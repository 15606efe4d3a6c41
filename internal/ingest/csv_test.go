package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pulsewatch/pulsewatch/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCSVSource_Preview(t *testing.T) {
	path := writeCSV(t, t.TempDir(), "samples.csv", strings.Join([]string{
		"timestamp,bpm",
		"2024-05-01T08:00:00Z,72",
		"2024-05-01T08:00:30Z,74",
		"2024-05-01T08:01:00Z,76",
		"",
	}, "\n"))

	src := NewCSVSource(path)
	assert.Equal(t, path, src.Path())

	frame, err := src.Preview(2)
	require.NoError(t, err)
	assert.Equal(t, []string{"timestamp", "bpm"}, frame.Headers)
	require.Equal(t, 2, frame.Len())
	assert.Equal(t, "72", frame.Cell(0, "bpm"))
	assert.Equal(t, "74", frame.Cell(1, "bpm"))
}

func TestCSVSource_PreviewBeyondFileLength(t *testing.T) {
	path := writeCSV(t, t.TempDir(), "samples.csv", "timestamp,bpm\n2024-05-01T08:00:00Z,72\n")

	frame, err := NewCSVSource(path).Preview(500)
	require.NoError(t, err)
	assert.Equal(t, 1, frame.Len())
}

func TestCSVSource_ChunksBatching(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("timestamp,bpm\n")
	for i := 0; i < 7; i++ {
		sb.WriteString("2024-05-01T08:00:00Z,72\n")
	}
	path := writeCSV(t, t.TempDir(), "samples.csv", sb.String())

	var sizes []int
	err := NewCSVSource(path).Chunks(3, func(frame *schema.Frame) error {
		assert.Equal(t, []string{"timestamp", "bpm"}, frame.Headers)
		sizes = append(sizes, frame.Len())
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 3, 1}, sizes)
}

func TestCSVSource_RaggedRowsTolerated(t *testing.T) {
	path := writeCSV(t, t.TempDir(), "ragged.csv", strings.Join([]string{
		"timestamp,bpm,context",
		"2024-05-01T08:00:00Z,72",
		"2024-05-01T08:00:30Z,74,resting,extra",
		"",
	}, "\n"))

	frame, err := NewCSVSource(path).Preview(10)
	require.NoError(t, err)
	require.Equal(t, 2, frame.Len())
	// Short rows read as empty strings through the frame.
	assert.Equal(t, "", frame.Cell(0, "context"))
	assert.Equal(t, "resting", frame.Cell(1, "context"))
}

func TestCSVSource_EmptyFile(t *testing.T) {
	path := writeCSV(t, t.TempDir(), "empty.csv", "")

	_, err := NewCSVSource(path).Preview(10)
	require.Error(t, err)

	// Chunks treats a headerless file as having nothing to do.
	err = NewCSVSource(path).Chunks(10, func(*schema.Frame) error {
		t.Fatal("callback should not run for an empty file")
		return nil
	})
	assert.NoError(t, err)
}

func TestCSVSource_HeaderOnly(t *testing.T) {
	path := writeCSV(t, t.TempDir(), "header.csv", "timestamp,bpm\n")

	frame, err := NewCSVSource(path).Preview(10)
	require.NoError(t, err)
	assert.Equal(t, 0, frame.Len())

	calls := 0
	err = NewCSVSource(path).Chunks(10, func(*schema.Frame) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Zero(t, calls)
}

func TestCSVSource_MissingFile(t *testing.T) {
	_, err := NewCSVSource("/nonexistent/file.csv").Preview(10)
	assert.Error(t, err)
}
