package contract

import (
	"strings"
	"testing"

	"github.com/pulsewatch/pulsewatch/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPlainLabel(t *testing.T) {
	assert.Equal(t, "workout", GetPlainLabel(schema.ClassWorkout))
	assert.Equal(t, "unknown", GetPlainLabel(schema.ClassUnknown))
}

func TestGetColorLabel(t *testing.T) {
	// The colored label always carries the plain text, with or without
	// escape codes depending on terminal detection.
	assert.Contains(t, GetColorLabel(schema.ClassWorkout), "workout")
	assert.Contains(t, GetColorLabel(schema.ClassUnknown), "unknown")
}

func TestParseBoolString(t *testing.T) {
	for _, input := range []string{"yes", "YES", "true", "True", "1"} {
		got, err := ParseBoolString(input)
		require.NoError(t, err, "input %q", input)
		assert.True(t, got, "input %q", input)
	}
	for _, input := range []string{"no", "NO", "false", "False", "0"} {
		got, err := ParseBoolString(input)
		require.NoError(t, err, "input %q", input)
		assert.False(t, got, "input %q", input)
	}
	for _, input := range []string{"", "maybe", "2", "on"} {
		_, err := ParseBoolString(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestGetHistoryDBFilePath(t *testing.T) {
	path := GetHistoryDBFilePath()
	assert.True(t, strings.HasSuffix(path, ".pulsewatch_history.db"))
}

func TestSelectOutputFile_Stdout(t *testing.T) {
	f, err := SelectOutputFile("")
	require.NoError(t, err)
	assert.Equal(t, "/dev/stdout", f.Name())
}

func TestSelectOutputFile_CreatesFile(t *testing.T) {
	path := t.TempDir() + "/out.json"
	f, err := SelectOutputFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, path, f.Name())
}
