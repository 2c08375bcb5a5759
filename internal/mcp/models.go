package mcp

import (
	"matscope/internal/cache"
	"matscope/internal/lint"
	"matscope/internal/symbols"
)

// DocumentSymbolsResponse is the payload of the matlab_document_symbols tool.
type DocumentSymbolsResponse struct {
	File    string           `json:"file"`
	Symbols []symbols.Symbol `json:"symbols"`
	Total   int              `json:"total"`
}

// SearchSymbolsRequest holds the parsed arguments of matlab_search_symbols.
type SearchSymbolsRequest struct {
	Query string `json:"query"`
	File  string `json:"file,omitempty"`
	Kind  string `json:"kind,omitempty"`
	Limit int    `json:"limit,omitempty"`
}

// SearchSymbolsResponse is the payload of the matlab_search_symbols tool.
// Total counts all matches; Symbols is truncated to the requested limit.
// QueryIsBuiltin is set when the query is exactly the name of a MATLAB
// builtin or keyword, so clients can surface shadowing.
type SearchSymbolsResponse struct {
	Symbols        []symbols.Symbol `json:"symbols"`
	Total          int              `json:"total"`
	QueryIsBuiltin bool             `json:"query_is_builtin,omitempty"`
}

// OutlineNode is one entry in a file outline. Children nest methods and
// properties under their class and nested functions under their parent.
type OutlineNode struct {
	Name     string        `json:"name"`
	Kind     string        `json:"kind"`
	Detail   string        `json:"detail,omitempty"`
	Line     int           `json:"line"`
	Column   int           `json:"column"`
	Children []OutlineNode `json:"children,omitempty"`
}

// OutlineResponse is the payload of the matlab_outline tool.
type OutlineResponse struct {
	File    string        `json:"file"`
	Outline []OutlineNode `json:"outline"`
}

// LintResponse is the payload of the matlab_lint tool.
type LintResponse struct {
	File        string            `json:"file"`
	Diagnostics []lint.Diagnostic `json:"diagnostics"`
	Total       int               `json:"total"`
}

// StatusResponse is the payload of the matscope_status tool.
type StatusResponse struct {
	InstanceID    string         `json:"instance_id"`
	Version       string         `json:"version"`
	Files         int            `json:"files"`
	Symbols       int            `json:"symbols"`
	SymbolsByKind map[string]int `json:"symbols_by_kind,omitempty"`
	ParseCache    cache.Stats    `json:"parse_cache"`
	LintCache     cache.Stats    `json:"lint_cache"`
	LintAvailable bool           `json:"lint_available"`
}

// DefaultSearchLimit bounds matlab_search_symbols responses when the caller
// does not pass a limit.
const DefaultSearchLimit = 50
