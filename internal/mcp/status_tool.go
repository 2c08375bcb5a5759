package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"matscope/internal/workspace"
)

// AddStatusTool registers the matscope_status tool.
func AddStatusTool(s *server.MCPServer, engine *workspace.Engine, instanceID, version string) {
	tool := mcp.NewTool(
		"matscope_status",
		mcp.WithDescription("Report index and cache statistics for this matscope instance: indexed file and symbol counts, cache hit rates, and whether lint diagnostics are available."),
	)

	s.AddTool(tool, createStatusHandler(engine, instanceID, version))
}

func createStatusHandler(engine *workspace.Engine, instanceID, version string) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tableStats := engine.Table().GetStats()
		parseStats, lintStats := engine.CacheStats()

		response := &StatusResponse{
			InstanceID:    instanceID,
			Version:       version,
			Files:         tableStats.Files,
			Symbols:       tableStats.Symbols,
			SymbolsByKind: tableStats.ByKind,
			ParseCache:    parseStats,
			LintCache:     lintStats,
			LintAvailable: engine.LintAvailable(),
		}

		jsonData, err := json.Marshal(response)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response: %w", err)
		}
		return mcp.NewToolResultText(string(jsonData)), nil
	}
}
