package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matscope/internal/config"
	"matscope/internal/symbols"
	"matscope/internal/workspace"
)

func newTestServer(t *testing.T) (*server.MCPServer, *workspace.Engine) {
	t.Helper()

	engine := workspace.NewEngine(config.Default(), symbols.NewTable(), nil)
	mcpServer := server.NewMCPServer(
		"test-server",
		"0.0.0",
		server.WithToolCapabilities(true),
	)
	return mcpServer, engine
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{Arguments: args},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	textContent, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok, "should be text content")
	return textContent.Text
}

func TestToolRegistration(t *testing.T) {
	t.Parallel()

	mcpServer, engine := newTestServer(t)
	require.NotPanics(t, func() {
		AddDocumentSymbolsTool(mcpServer, engine)
		AddSearchSymbolsTool(mcpServer, engine)
		AddOutlineTool(mcpServer, engine)
		AddLintTool(mcpServer, engine)
		AddStatusTool(mcpServer, engine, "test-instance", "0.0.0")
	})
}

func TestDocumentSymbolsHandler(t *testing.T) {
	t.Parallel()

	_, engine := newTestServer(t)
	path := filepath.Join(t.TempDir(), "calc.m")
	require.NoError(t, os.WriteFile(path, []byte("function y = add(x, y)\nend"), 0o644))

	handler := createDocumentSymbolsHandler(engine)
	result, err := handler(context.Background(), callRequest(map[string]interface{}{"file": path}))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	var response DocumentSymbolsResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &response))
	assert.Equal(t, 1, response.Total)
	require.Len(t, response.Symbols, 1)
	assert.Equal(t, "add", response.Symbols[0].Name)
	assert.Equal(t, "y = add(x, y)", response.Symbols[0].Detail)
}

func TestDocumentSymbolsHandler_MissingFile(t *testing.T) {
	t.Parallel()

	_, engine := newTestServer(t)
	handler := createDocumentSymbolsHandler(engine)

	result, err := handler(context.Background(), callRequest(map[string]interface{}{}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "file parameter is required")
}

func TestDocumentSymbolsHandler_UnreadableFile(t *testing.T) {
	t.Parallel()

	_, engine := newTestServer(t)
	handler := createDocumentSymbolsHandler(engine)

	missing := filepath.Join(t.TempDir(), "absent.m")
	result, err := handler(context.Background(), callRequest(map[string]interface{}{"file": missing}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestSearchSymbolsHandler(t *testing.T) {
	t.Parallel()

	_, engine := newTestServer(t)
	engine.UpsertContent("file:///a.m", "function alpha()\nend")
	engine.UpsertContent("file:///b.m", "function beta()\nend\nfunction alphabet()\nend")

	handler := createSearchSymbolsHandler(engine)
	result, err := handler(context.Background(), callRequest(map[string]interface{}{"query": "alpha"}))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	var response SearchSymbolsResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &response))
	assert.Equal(t, 2, response.Total)

	names := []string{response.Symbols[0].Name, response.Symbols[1].Name}
	assert.ElementsMatch(t, []string{"alpha", "alphabet"}, names)
}

func TestSearchSymbolsHandler_LimitTruncates(t *testing.T) {
	t.Parallel()

	_, engine := newTestServer(t)
	engine.UpsertContent("file:///many.m",
		"function f1()\nend\nfunction f2()\nend\nfunction f3()\nend")

	handler := createSearchSymbolsHandler(engine)
	result, err := handler(context.Background(), callRequest(map[string]interface{}{
		"query": "f",
		"limit": float64(2),
	}))
	require.NoError(t, err)

	var response SearchSymbolsResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &response))
	assert.Equal(t, 3, response.Total)
	assert.Len(t, response.Symbols, 2)
}

func TestSearchSymbolsHandler_KindFilter(t *testing.T) {
	t.Parallel()

	_, engine := newTestServer(t)
	engine.UpsertContent("file:///mix.m", "classdef Alpha\nend")
	engine.UpsertContent("file:///fn.m", "function alpha()\nend")

	handler := createSearchSymbolsHandler(engine)
	result, err := handler(context.Background(), callRequest(map[string]interface{}{
		"query": "alpha",
		"kind":  symbols.KindClass,
	}))
	require.NoError(t, err)

	var response SearchSymbolsResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &response))
	require.Equal(t, 1, response.Total)
	assert.Equal(t, "Alpha", response.Symbols[0].Name)
}

func TestSearchSymbolsHandler_BuiltinShadowing(t *testing.T) {
	t.Parallel()

	_, engine := newTestServer(t)
	engine.UpsertContent("file:///shadow.m", "function y = sum(x)\nend")

	handler := createSearchSymbolsHandler(engine)
	result, err := handler(context.Background(), callRequest(map[string]interface{}{"query": "sum"}))
	require.NoError(t, err)

	var response SearchSymbolsResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &response))
	assert.True(t, response.QueryIsBuiltin)
	require.Equal(t, 1, response.Total)
}

func TestSearchSymbolsHandler_MissingQuery(t *testing.T) {
	t.Parallel()

	_, engine := newTestServer(t)
	handler := createSearchSymbolsHandler(engine)

	result, err := handler(context.Background(), callRequest(map[string]interface{}{}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "query parameter is required")
}

func TestOutlineHandler(t *testing.T) {
	t.Parallel()

	content := `classdef Engine
    properties
        Speed
    end
    methods
        function obj = Engine(s)
        end
    end
end`

	_, engine := newTestServer(t)
	path := filepath.Join(t.TempDir(), "Engine.m")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	handler := createOutlineHandler(engine)
	result, err := handler(context.Background(), callRequest(map[string]interface{}{"file": path}))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	var response OutlineResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &response))
	require.Len(t, response.Outline, 1)

	cls := response.Outline[0]
	assert.Equal(t, "Engine", cls.Name)
	assert.Equal(t, symbols.KindClass, cls.Kind)
	require.Len(t, cls.Children, 2)
	assert.Equal(t, symbols.KindMethod, cls.Children[0].Kind)
	assert.Equal(t, "Engine", cls.Children[0].Name)
	assert.Equal(t, symbols.KindProperty, cls.Children[1].Kind)
	assert.Equal(t, "Speed", cls.Children[1].Name)
}

func TestOutlineHandler_NestedFunctions(t *testing.T) {
	t.Parallel()

	content := `function outer()
    function inner()
    end
end`

	_, engine := newTestServer(t)
	path := filepath.Join(t.TempDir(), "outer.m")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	handler := createOutlineHandler(engine)
	result, err := handler(context.Background(), callRequest(map[string]interface{}{"file": path}))
	require.NoError(t, err)

	var response OutlineResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &response))
	require.Len(t, response.Outline, 1)
	assert.Equal(t, "outer", response.Outline[0].Name)
	require.Len(t, response.Outline[0].Children, 1)
	assert.Equal(t, "inner", response.Outline[0].Children[0].Name)
}

func TestLintHandler_Unavailable(t *testing.T) {
	t.Parallel()

	_, engine := newTestServer(t)
	path := filepath.Join(t.TempDir(), "x.m")
	require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0o644))

	handler := createLintHandler(engine)
	result, err := handler(context.Background(), callRequest(map[string]interface{}{"file": path}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "mlint is not available")
}

func TestStatusHandler(t *testing.T) {
	t.Parallel()

	_, engine := newTestServer(t)
	engine.UpsertContent("file:///a.m", "function a()\nend")

	handler := createStatusHandler(engine, "instance-1", "1.2.3")
	result, err := handler(context.Background(), callRequest(nil))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	var response StatusResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &response))
	assert.Equal(t, "instance-1", response.InstanceID)
	assert.Equal(t, "1.2.3", response.Version)
	assert.Equal(t, 1, response.Files)
	assert.Equal(t, 1, response.Symbols)
	assert.Equal(t, 1, response.SymbolsByKind[symbols.KindFunction])
	assert.False(t, response.LintAvailable)
}
