package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"matscope/internal/lint"
	"matscope/internal/workspace"
)

// AddLintTool registers the matlab_lint tool.
func AddLintTool(s *server.MCPServer, engine *workspace.Engine) {
	tool := mcp.NewTool(
		"matlab_lint",
		mcp.WithDescription("Run MATLAB's Code Analyzer (mlint) on one file and return its diagnostics. Requires a local MATLAB installation; reports the on-disk file content."),
		mcp.WithString("file",
			mcp.Required(),
			mcp.Description("Path of the MATLAB file to analyze.")),
	)

	s.AddTool(tool, createLintHandler(engine))
}

func createLintHandler(engine *workspace.Engine) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, ok := request.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		file, ok := argsMap["file"].(string)
		if !ok || file == "" {
			return mcp.NewToolResultError("file parameter is required"), nil
		}

		diags, err := engine.Lint(ctx, file)
		if errors.Is(err, lint.ErrUnavailable) {
			return mcp.NewToolResultError("mlint is not available; set matlab.path or matlab.mlint_path in the configuration"), nil
		}
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		response := &LintResponse{File: file, Diagnostics: diags, Total: len(diags)}
		jsonData, err := json.Marshal(response)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response: %w", err)
		}
		return mcp.NewToolResultText(string(jsonData)), nil
	}
}
