// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/pulsewatch/pulsewatch/internal/contract"
)

// NewMCPServer initializes and configures the Pulsewatch MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config) *server.MCPServer {
	s := server.NewMCPServer(
		"Pulsewatch Incident Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
	}

	// --- 1. Tool: analyze_incidents ---
	s.AddTool(mcp.NewTool("analyze_incidents",
		mcp.WithDescription("Analyze heart-rate exports to find above-threshold incidents and classify them against workouts."),
		mcp.WithString("input_path", mcp.Description("Path to a heart-rate export file or directory of exports (CSV, XLSX, FIT).")),
		mcp.WithString("workouts_path", mcp.Description("Optional path to a separate workouts export.")),
		mcp.WithNumber("threshold", mcp.Description("Heart-rate threshold in BPM; samples strictly above it count. Defaults to 140.")),
		mcp.WithNumber("gap_seconds", mcp.Description("Maximum gap in seconds between samples of the same incident. Defaults to 120.")),
		mcp.WithNumber("min_duration_seconds", mcp.Description("Drop incidents shorter than this many seconds. Defaults to 0.")),
		mcp.WithNumber("min_overlap_seconds", mcp.Description("Minimum workout overlap in seconds to classify an incident as workout. Defaults to 1.")),
		mcp.WithString("start", mcp.Description("Window start (RFC3339 or relative like '3 months ago'). Defaults to 9 months before end.")),
		mcp.WithString("end", mcp.Description("Window end (RFC3339 or relative). Defaults to now.")),
	), h.handleAnalyzeIncidents)

	// --- 2. Tool: detect_schemas ---
	s.AddTool(mcp.NewTool("detect_schemas",
		mcp.WithDescription("Report the detected sample/workout column schema for each source under a path."),
		mcp.WithString("input_path", mcp.Description("Path to a heart-rate export file or directory of exports.")),
	), h.handleDetectSchemas)

	return s
}

// StartMCPServer starts the Pulsewatch MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config) error {
	s := NewMCPServer(baseCfg)
	return server.ServeStdio(s)
}
