package outwriter

import (
	"testing"

	"github.com/pulsewatch/pulsewatch/internal/contract"
	"github.com/stretchr/testify/assert"
)

func TestGetMaxTableTypeWidth(t *testing.T) {
	tests := []struct {
		name     string
		width    int
		expected int
	}{
		{"narrow override clamps to minimum", 40, 10},
		{"wide override clamps to maximum", 400, 40},
		{"mid-range override passes through", 120, 25},
		{"exactly at minimum boundary", 105, 10},
		{"exactly at maximum boundary", 135, 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &contract.Config{Width: tt.width}
			assert.Equal(t, tt.expected, getMaxTableTypeWidth(cfg))
		})
	}
}

func TestTruncateLabel(t *testing.T) {
	assert.Equal(t, "HKWorkoutActivityTypeRunning", truncateLabel("HKWorkoutActivityTypeRunning", 40))
	assert.Equal(t, "HKWorko...", truncateLabel("HKWorkoutActivityTypeRunning", 10))
	assert.Equal(t, "run", truncateLabel("run", 10))

	// Labels are never mangled when the budget is too small for an ellipsis.
	assert.Equal(t, "running", truncateLabel("running", 3))
	assert.Equal(t, "running", truncateLabel("running", 0))
}
