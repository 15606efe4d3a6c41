// Package outwriter has output and writer logic.
package outwriter

import (
	"os"

	"github.com/pulsewatch/pulsewatch/internal/contract"
	"golang.org/x/term"
)

// getMaxTableTypeWidth calculates the maximum width for workout-type labels
// in table output based on terminal width and the fixed columns.
func getMaxTableTypeWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Fixed columns: id, two timestamps, duration, max/avg bpm, samples,
	// classification, overlap, plus borders and padding.
	baseWidth := 95
	available := termWidth - baseWidth
	if available < 10 {
		return 10
	}
	if available > 40 {
		return 40
	}
	return available
}

// truncateLabel truncates a label to a maximum width with ellipsis suffix.
func truncateLabel(label string, maxWidth int) string {
	runes := []rune(label)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return label
}
