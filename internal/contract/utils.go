package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/pulsewatch/pulsewatch/schema"
)

// Color variables for console output.
var (
	WorkoutColor = color.New(color.FgGreen)          // explained by a workout
	UnknownColor = color.New(color.FgYellow)         // unexplained episode
	HighBPMColor = color.New(color.FgRed, color.Bold) // peak values worth a look
)

// GetPlainLabel returns the plain text classification label. This is the
// core logic used for CSV, JSON, and table printing.
func GetPlainLabel(cls schema.Classification) string {
	return string(cls)
}

// GetColorLabel returns a colored classification label for console output
// (table). It uses GetPlainLabel to determine the string, and then applies
// the appropriate color.
func GetColorLabel(cls schema.Classification) string {
	text := GetPlainLabel(cls)
	switch cls {
	case schema.ClassWorkout:
		return WorkoutColor.Sprint(text)
	default:
		return UnknownColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for run
// history storage.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".pulsewatch_history.db"
	}
	return filepath.Join(homeDir, ".pulsewatch_history.db")
}
