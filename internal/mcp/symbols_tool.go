package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"matscope/internal/parser"
	"matscope/internal/workspace"
)

// AddDocumentSymbolsTool registers the matlab_document_symbols tool. Tool
// registration functions are composable; the server wires them all onto one
// MCP server instance.
func AddDocumentSymbolsTool(s *server.MCPServer, engine *workspace.Engine) {
	tool := mcp.NewTool(
		"matlab_document_symbols",
		mcp.WithDescription("List every symbol (functions, classes, methods, properties, variables) defined in one MATLAB file, with 1-based positions and signature details."),
		mcp.WithString("file",
			mcp.Required(),
			mcp.Description("Path of the MATLAB file to inspect.")),
	)

	s.AddTool(tool, createDocumentSymbolsHandler(engine))
}

func createDocumentSymbolsHandler(engine *workspace.Engine) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, ok := request.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		file, ok := argsMap["file"].(string)
		if !ok || file == "" {
			return mcp.NewToolResultError("file parameter is required"), nil
		}

		syms, err := engine.DocumentSymbols(file)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		response := &DocumentSymbolsResponse{File: file, Symbols: syms, Total: len(syms)}
		jsonData, err := json.Marshal(response)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response: %w", err)
		}
		return mcp.NewToolResultText(string(jsonData)), nil
	}
}

// AddSearchSymbolsTool registers the matlab_search_symbols tool.
func AddSearchSymbolsTool(s *server.MCPServer, engine *workspace.Engine) {
	tool := mcp.NewTool(
		"matlab_search_symbols",
		mcp.WithDescription("Search indexed MATLAB symbols by case-insensitive substring match on the symbol name. Optionally restrict to one file or one symbol kind."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Substring to match against symbol names. Empty string matches every symbol.")),
		mcp.WithString("file",
			mcp.Description("Restrict matches to this file.")),
		mcp.WithString("kind",
			mcp.Description("Restrict matches to one kind: function, method, class, property, or variable.")),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of symbols to return (default: 50).")),
	)

	s.AddTool(tool, createSearchSymbolsHandler(engine))
}

func createSearchSymbolsHandler(engine *workspace.Engine) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, ok := request.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		var args SearchSymbolsRequest
		query, ok := argsMap["query"].(string)
		if !ok {
			return mcp.NewToolResultError("query parameter is required"), nil
		}
		args.Query = query

		if file, ok := argsMap["file"].(string); ok {
			args.File = file
		}
		if kind, ok := argsMap["kind"].(string); ok {
			args.Kind = kind
		}
		if limit, ok := argsMap["limit"].(float64); ok && limit > 0 {
			args.Limit = int(limit)
		} else {
			args.Limit = DefaultSearchLimit
		}

		matches := engine.Table().FindByName(args.Query, args.File, args.Kind)
		response := &SearchSymbolsResponse{
			Symbols:        matches,
			Total:          len(matches),
			QueryIsBuiltin: parser.IsBuiltin(args.Query),
		}
		if len(matches) > args.Limit {
			response.Symbols = matches[:args.Limit]
		}

		jsonData, err := json.Marshal(response)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response: %w", err)
		}
		return mcp.NewToolResultText(string(jsonData)), nil
	}
}
