package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/pulsewatch/pulsewatch/core"
	"github.com/pulsewatch/pulsewatch/internal/contract"
	"github.com/pulsewatch/pulsewatch/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
}

func (h *toolHandler) handleAnalyzeIncidents(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("input_path", ""); p != "" {
		cfg.InputPath = p
	}
	if p := request.GetString("workouts_path", ""); p != "" {
		cfg.WorkoutsPath = p
	}
	if v := request.GetFloat("threshold", 0); v > 0 {
		cfg.ThresholdBPM = v
	}
	if v := request.GetInt("gap_seconds", -1); v >= 0 {
		cfg.GapSeconds = v
	}
	if v := request.GetFloat("min_duration_seconds", -1); v >= 0 {
		cfg.MinDurationSeconds = v
	}
	if v := request.GetFloat("min_overlap_seconds", -1); v >= 0 {
		cfg.MinOverlapSeconds = v
	}

	if err := applyWindowOverrides(cfg, request); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid analysis window: %v", err)), nil
	}

	classified, _, err := core.GetIncidentResults(cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}
	if classified == nil {
		classified = []schema.ClassifiedIncident{}
	}

	result := struct {
		Incidents []schema.ClassifiedIncident `json:"incidents"`
		Breakdown []schema.ClassBreakdown     `json:"breakdown"`
	}{
		Incidents: classified,
		Breakdown: schema.SummarizeClassifications(classified),
	}
	jsonData, _ := json.MarshalIndent(result, "", "  ")

	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleDetectSchemas(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("input_path", ""); p != "" {
		cfg.InputPath = p
	}

	loaded, err := core.LoadData(cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("schema detection failed: %v", err)), nil
	}

	result := struct {
		Reports      []schema.SchemaReport `json:"reports"`
		SampleCount  int                   `json:"sample_count"`
		WorkoutCount int                   `json:"workout_count"`
	}{
		Reports:      loaded.Reports,
		SampleCount:  len(loaded.Samples),
		WorkoutCount: len(loaded.Workouts),
	}
	if result.Reports == nil {
		result.Reports = []schema.SchemaReport{}
	}
	jsonData, _ := json.MarshalIndent(result, "", "  ")

	return mcp.NewToolResultText(string(jsonData)), nil
}

// applyWindowOverrides re-resolves the analysis window when the tool call
// passes start or end values.
func applyWindowOverrides(cfg *contract.Config, request mcp.CallToolRequest) error {
	now := time.Now().UTC()
	if s := request.GetString("end", ""); s != "" {
		t, err := contract.ParseTimePoint(s, now)
		if err != nil {
			return fmt.Errorf("invalid end date: %w", err)
		}
		cfg.EndTime = t
		cfg.StartTime = t.AddDate(0, -contract.DefaultLookbackMonths, 0)
	}
	if s := request.GetString("start", ""); s != "" {
		t, err := contract.ParseTimePoint(s, now)
		if err != nil {
			return fmt.Errorf("invalid start date: %w", err)
		}
		cfg.StartTime = t
	}
	if cfg.StartTime.After(cfg.EndTime) {
		return fmt.Errorf("start time (%s) cannot be after end time (%s)",
			cfg.StartTime.Format(contract.DateTimeFormat), cfg.EndTime.Format(contract.DateTimeFormat))
	}
	return nil
}
