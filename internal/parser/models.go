// Package parser extracts structural records (functions, classes, variables,
// comments) from MATLAB source text using ordered line recognizers. It does not
// build a syntax tree; the contract is a pure text -> ExtractionResult function
// so a real lexer can replace it later without touching callers.
package parser

// FunctionRecord describes one function or method header.
type FunctionRecord struct {
	Name           string
	Line           int // 1-based
	Column         int // 1-based, position of the name on its line
	InputParams    []string
	OutputParams   []string
	IsNested       bool
	ParentFunction string // enclosing function name, empty if top-level
	ParentClass    string // enclosing class name, empty if not a method
	Docstring      string
}

// ClassRecord describes a classdef block.
type ClassRecord struct {
	Name       string
	Line       int
	Column     int
	Properties []string
	Methods    []FunctionRecord
	Docstring  string
}

// VariableRecord describes a variable declaration that survived the retention
// rule: declared at nesting zero, or carrying a global/persistent modifier.
type VariableRecord struct {
	Name         string
	Line         int
	Column       int
	IsGlobal     bool
	IsPersistent bool
}

// CommentRecord describes a line comment or a %{ ... }% block comment.
type CommentRecord struct {
	Text           string
	Line           int
	Column         int
	IsBlock        bool
	BlockStartLine int // set only for block comments
	BlockEndLine   int
}

// ExtractionResult is the complete output of one extraction pass. It is
// produced fresh per call and never mutated after return.
type ExtractionResult struct {
	FileID       string
	Functions    []FunctionRecord
	Variables    []VariableRecord
	Classes      []ClassRecord
	Comments     []CommentRecord
	Errors       []string
	FunctionTree map[string][]string // parent function name -> child names
	RawText      string
}
