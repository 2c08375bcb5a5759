package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"matscope/internal/parser"
	"matscope/internal/symbols"
	"matscope/internal/workspace"
)

// AddOutlineTool registers the matlab_outline tool.
func AddOutlineTool(s *server.MCPServer, engine *workspace.Engine) {
	tool := mcp.NewTool(
		"matlab_outline",
		mcp.WithDescription("Return the hierarchical outline of one MATLAB file: top-level functions with their nested functions, classes with their methods and properties, and retained script variables."),
		mcp.WithString("file",
			mcp.Required(),
			mcp.Description("Path of the MATLAB file to outline.")),
	)

	s.AddTool(tool, createOutlineHandler(engine))
}

func createOutlineHandler(engine *workspace.Engine) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, ok := request.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		file, ok := argsMap["file"].(string)
		if !ok || file == "" {
			return mcp.NewToolResultError("file parameter is required"), nil
		}

		result, err := engine.Extraction(file)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		response := &OutlineResponse{File: file, Outline: buildOutline(result)}
		jsonData, err := json.Marshal(response)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response: %w", err)
		}
		return mcp.NewToolResultText(string(jsonData)), nil
	}
}

// buildOutline converts an extraction result into nested outline nodes.
// Nested functions hang off their parent; methods and properties hang off
// their class.
func buildOutline(result *parser.ExtractionResult) []OutlineNode {
	var outline []OutlineNode

	children := make(map[string][]OutlineNode)
	for _, fn := range result.Functions {
		if !fn.IsNested {
			continue
		}
		children[fn.ParentFunction] = append(children[fn.ParentFunction], functionNode(fn, symbols.KindFunction))
	}

	for _, fn := range result.Functions {
		if fn.IsNested {
			continue
		}
		node := functionNode(fn, symbols.KindFunction)
		node.Children = children[fn.Name]
		outline = append(outline, node)
	}

	for _, cls := range result.Classes {
		node := OutlineNode{
			Name:   cls.Name,
			Kind:   symbols.KindClass,
			Detail: "classdef " + cls.Name,
			Line:   cls.Line,
			Column: cls.Column,
		}
		for _, m := range cls.Methods {
			node.Children = append(node.Children, functionNode(m, symbols.KindMethod))
		}
		for _, prop := range cls.Properties {
			node.Children = append(node.Children, OutlineNode{
				Name:   prop,
				Kind:   symbols.KindProperty,
				Detail: "property " + prop,
				Line:   cls.Line + 1,
				Column: 1,
			})
		}
		outline = append(outline, node)
	}

	for _, v := range result.Variables {
		outline = append(outline, OutlineNode{
			Name:   v.Name,
			Kind:   symbols.KindVariable,
			Line:   v.Line,
			Column: v.Column,
		})
	}
	return outline
}

func functionNode(fn parser.FunctionRecord, kind string) OutlineNode {
	return OutlineNode{
		Name:   fn.Name,
		Kind:   kind,
		Detail: symbols.FunctionDetail(fn),
		Line:   fn.Line,
		Column: fn.Column,
	}
}
