package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverSources_SingleFile(t *testing.T) {
	path := writeCSV(t, t.TempDir(), "samples.csv", "timestamp,bpm\n")

	sources, err := DiscoverSources(path)
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.IsType(t, &CSVSource{}, sources[0])
	assert.Equal(t, path, sources[0].Path())
}

func TestDiscoverSources_UnknownExtensionReadsAsCSV(t *testing.T) {
	path := writeCSV(t, t.TempDir(), "export.txt", "timestamp,bpm\n")

	sources, err := DiscoverSources(path)
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.IsType(t, &CSVSource{}, sources[0])
}

func TestDiscoverSources_FITFileContributesTwoSources(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "activity.fit")
	require.NoError(t, os.WriteFile(path, []byte("not really fit data"), 0o644))

	sources, err := DiscoverSources(path)
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, path+" (records)", sources[0].Path())
	assert.Equal(t, path+" (sessions)", sources[1].Path())
}

func TestDiscoverSources_DirectoryWalk(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "b.csv", "timestamp,bpm\n")
	writeCSV(t, dir, "a.csv", "timestamp,bpm\n")
	sub := filepath.Join(dir, "nested")
	require.NoError(t, os.Mkdir(sub, 0o755))
	writeCSV(t, sub, "c.csv", "timestamp,bpm\n")
	// Unsupported extensions are skipped during directory walks.
	writeCSV(t, dir, "notes.md", "# notes\n")

	sources, err := DiscoverSources(dir)
	require.NoError(t, err)
	require.Len(t, sources, 3)
	// Sorted path order
	assert.Equal(t, filepath.Join(dir, "a.csv"), sources[0].Path())
	assert.Equal(t, filepath.Join(dir, "b.csv"), sources[1].Path())
	assert.Equal(t, filepath.Join(sub, "c.csv"), sources[2].Path())
}

func TestDiscoverSources_MissingPath(t *testing.T) {
	_, err := DiscoverSources("/nonexistent/exports")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input path not found")
}

func TestFITSource_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.fit")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o644))

	_, err := NewFITSource(path, FITRecords).Preview(10)
	assert.Error(t, err)

	err = NewFITSource(path, FITSessions).Chunks(10, nil)
	assert.Error(t, err)
}
