//go:build integration

// Package integration contains integration tests for pulsewatch.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags integration ./integration
// Or use: make test-integration
package integration

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestIncidentVerification generates an export with a known incident layout,
// runs pulsewatch analyze and verifies the reported incidents against it.
func TestIncidentVerification(t *testing.T) {
	dir := t.TempDir()

	// Build pulsewatch binary
	pulsewatchPath := filepath.Join(dir, "pulsewatch")
	buildCmd := exec.Command("go", "build", "-o", pulsewatchPath, ".")
	buildCmd.Dir = ".." // Project root
	err := buildCmd.Run()
	require.NoError(t, err)

	// Three bursts of elevated samples separated by gaps wider than
	// the join window, so each burst becomes its own incident.
	base := time.Now().UTC().Add(-2 * time.Hour).Truncate(time.Second)
	var sb strings.Builder
	sb.WriteString("timestamp,bpm\n")
	burstSamples := []int{4, 6, 5}
	cursor := base
	for _, n := range burstSamples {
		for i := 0; i < n; i++ {
			sb.WriteString(fmt.Sprintf("%s,%d\n", cursor.Format(time.RFC3339), 150+i))
			cursor = cursor.Add(30 * time.Second)
		}
		// Cool-down gap between bursts
		sb.WriteString(fmt.Sprintf("%s,%d\n", cursor.Format(time.RFC3339), 80))
		cursor = cursor.Add(10 * time.Minute)
	}

	inputPath := filepath.Join(dir, "heart_rate.csv")
	require.NoError(t, os.WriteFile(inputPath, []byte(sb.String()), 0o644))

	// Run pulsewatch analyze with a zero minimum duration so short bursts count
	cmd := exec.Command(pulsewatchPath, "analyze", inputPath,
		"--threshold", "120", "--gap-seconds", "60", "--min-duration-seconds", "0", "--color", "no")
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	err = cmd.Run()
	require.NoError(t, err)

	// Parse output to extract incident -> sample count map
	incidentSamples := parseIncidentTable(stdout.String())
	require.Len(t, incidentSamples, len(burstSamples))

	for i, want := range burstSamples {
		t.Run(fmt.Sprintf("incident-%d", i+1), func(t *testing.T) {
			got, ok := incidentSamples[i+1]
			require.True(t, ok, "incident %d missing from output", i+1)
			assert.Equal(t, want, got, "sample count mismatch for incident %d", i+1)
		})
	}
}

// parseIncidentTable extracts incident IDs and sample counts from table output
func parseIncidentTable(output string) map[int]int {
	lines := strings.Split(output, "\n")
	incidentSamples := make(map[int]int)

	for _, line := range lines {
		if strings.Contains(line, "│") && !strings.Contains(line, "SAMPLES") && !strings.Contains(line, "───") {
			parts := strings.Split(line, "│")
			if len(parts) >= 8 {
				idStr := strings.TrimSpace(parts[1])
				samplesStr := strings.TrimSpace(parts[7])
				id, err1 := strconv.Atoi(idStr)
				samples, err2 := strconv.Atoi(samplesStr)
				if err1 == nil && err2 == nil {
					incidentSamples[id] = samples
				}
			}
		}
	}

	return incidentSamples
}

// TestWorkoutClassificationVerification checks that incidents overlapping a
// workout window are reported as workout incidents end to end.
func TestWorkoutClassificationVerification(t *testing.T) {
	dir := t.TempDir()

	pulsewatchPath := filepath.Join(dir, "pulsewatch")
	buildCmd := exec.Command("go", "build", "-o", pulsewatchPath, ".")
	buildCmd.Dir = ".."
	err := buildCmd.Run()
	require.NoError(t, err)

	base := time.Now().UTC().Add(-2 * time.Hour).Truncate(time.Second)

	var samples strings.Builder
	samples.WriteString("timestamp,bpm\n")
	for i := 0; i < 6; i++ {
		ts := base.Add(time.Duration(i*30) * time.Second)
		samples.WriteString(fmt.Sprintf("%s,%d\n", ts.Format(time.RFC3339), 160))
	}
	inputPath := filepath.Join(dir, "heart_rate.csv")
	require.NoError(t, os.WriteFile(inputPath, []byte(samples.String()), 0o644))

	workouts := fmt.Sprintf("start,end,type\n%s,%s,HKWorkoutActivityTypeRunning\n",
		base.Add(-10*time.Minute).Format(time.RFC3339),
		base.Add(30*time.Minute).Format(time.RFC3339))
	workoutsPath := filepath.Join(dir, "workouts.csv")
	require.NoError(t, os.WriteFile(workoutsPath, []byte(workouts), 0o644))

	cmd := exec.Command(pulsewatchPath, "analyze", inputPath,
		"--workouts", workoutsPath,
		"--threshold", "120", "--min-duration-seconds", "0", "--color", "no")
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	err = cmd.Run()
	require.NoError(t, err)

	out := stdout.String()
	assert.Contains(t, out, "workout")
	assert.Contains(t, out, "HKWorkout")
}
