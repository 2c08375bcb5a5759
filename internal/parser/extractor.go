package parser

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Recognizer patterns, tried in order per line. The extractor is intentionally
// best-effort: lines matching none of them are skipped without error.
var (
	// function [a, b] = name(x, y) | function a = name(x) | function name(x)
	functionPattern = regexp.MustCompile(`^\s*function\s+(?:(?:\[([^\]]*)\]|(\w+))\s*=\s*)?(\w+)\s*\(([^)]*)\)\s*$`)

	classdefPattern = regexp.MustCompile(`^\s*classdef\s+(\w+)\b`)

	// Block headers inside a classdef body that close with their own "end".
	memberBlockPattern = regexp.MustCompile(`(?i)^\s*(properties|methods|events|enumeration|arguments)\b`)

	endPattern = regexp.MustCompile(`^\s*end\s*$`)

	variablePattern = regexp.MustCompile(`^\s*(?:(global|persistent)\s+)?(\w+)\s*(?:=\s*.+)?\s*(?:;.*)?$`)

	// Code before a ; or % marker, then comment text.
	lineCommentPattern = regexp.MustCompile(`^(.*?)(?:;|%)([^%].*)$`)

	identPattern = regexp.MustCompile(`^\s*([A-Za-z]\w*)`)

	blockCommentPattern = regexp.MustCompile(`(?s)%\s*\{\s*(.*?)\s*\}%`)
)

type frameKind int

const (
	frameFunction frameKind = iota
	frameClass
	frameBlock
)

// frame is one entry of the nesting stack. Exactly one of fn/cls is set for
// function and class frames; block frames carry neither.
type frame struct {
	kind       frameKind
	fn         *FunctionRecord
	cls        *ClassRecord
	properties bool // block frame opened by a "properties" header
}

// scanner holds the per-call state of one extraction pass.
type scanner struct {
	frames    []frame
	functions []*FunctionRecord
	classes   []*ClassRecord
	// methods are kept out of the flat function list and folded into their
	// owning ClassRecord when the pass finishes.
	methods map[*ClassRecord][]*FunctionRecord

	currentFunction *FunctionRecord
	currentClass    *ClassRecord

	// pendingDoc receives contiguous comment lines that immediately follow a
	// function or classdef header.
	pendingFn  *FunctionRecord
	pendingCls *ClassRecord

	variables []VariableRecord
	comments  []CommentRecord
	tree      map[string][]string
}

// Extract scans raw MATLAB source text and returns every structural record it
// recognizes. It is pure and total: identical text yields an identical result,
// and malformed input degrades to fewer records, never an error.
func Extract(text, fileID string) *ExtractionResult {
	s := &scanner{
		methods: make(map[*ClassRecord][]*FunctionRecord),
		tree:    make(map[string][]string),
	}

	// Block comments span lines, so the whole text is scanned for them first
	// and their spans removed before line-oriented scanning. Line numbers for
	// records after a removed block refer to the shortened text.
	s.comments = append(s.comments, extractBlockComments(text)...)
	working := blockCommentPattern.ReplaceAllString(text, "")

	for i, line := range strings.Split(working, "\n") {
		s.scanLine(line, i+1)
	}

	return s.result(text, fileID, nil)
}

// ExtractFile reads path and extracts it. Read failures are reported as a
// single entry in the result's Errors with an otherwise-empty result, matching
// the no-raise contract.
func ExtractFile(path string) *ExtractionResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return &ExtractionResult{
			FileID:       path,
			Errors:       []string{fmt.Sprintf("failed to read file: %v", err)},
			FunctionTree: map[string][]string{},
		}
	}
	return Extract(string(data), path)
}

func (s *scanner) scanLine(line string, lineNum int) {
	if strings.TrimSpace(line) == "" {
		s.clearPendingDoc()
		return
	}

	// Line comment: record it, keep the code before the marker for the
	// remaining recognizers.
	if c, code, marker, isComment := splitLineComment(line, lineNum); isComment {
		s.comments = append(s.comments, c)
		line = code
		if strings.TrimSpace(line) == "" {
			if marker == '%' {
				s.appendDoc(c.Text)
			}
			return
		}
	}
	s.clearPendingDoc()

	if m := classdefPattern.FindStringSubmatch(line); m != nil {
		cls := &ClassRecord{
			Name:       m[1],
			Line:       lineNum,
			Column:     strings.Index(line, m[1]) + 1,
			Properties: []string{},
		}
		s.classes = append(s.classes, cls)
		s.push(frame{kind: frameClass, cls: cls})
		s.pendingCls = cls
		return
	}

	if fn := parseFunctionHeader(line, lineNum); fn != nil {
		if s.currentClass != nil {
			fn.ParentClass = s.currentClass.Name
		}
		if s.currentFunction != nil {
			fn.IsNested = true
			fn.ParentFunction = s.currentFunction.Name
			s.tree[fn.ParentFunction] = append(s.tree[fn.ParentFunction], fn.Name)
		}
		if fn.ParentClass != "" {
			s.methods[s.currentClass] = append(s.methods[s.currentClass], fn)
		} else {
			s.functions = append(s.functions, fn)
		}
		s.push(frame{kind: frameFunction, fn: fn})
		s.pendingFn = fn
		return
	}

	// Class-member blocks (properties, methods, ...) consume their own "end".
	if s.currentClass != nil {
		if m := memberBlockPattern.FindStringSubmatch(line); m != nil {
			s.push(frame{kind: frameBlock, properties: strings.EqualFold(m[1], "properties")})
			return
		}
		if s.inProperties() {
			if m := identPattern.FindStringSubmatch(line); m != nil {
				name := m[1]
				if name == "end" {
					s.pop()
					return
				}
				if !IsKeyword(name) {
					s.currentClass.Properties = append(s.currentClass.Properties, name)
					return
				}
			}
		}
	}

	if endPattern.MatchString(line) {
		s.pop()
		return
	}

	if m := variablePattern.FindStringSubmatch(line); m != nil {
		name := m[2]
		if IsKeyword(name) {
			return
		}
		v := VariableRecord{
			Name:         name,
			Line:         lineNum,
			Column:       strings.Index(line, name) + 1,
			IsGlobal:     m[1] == "global",
			IsPersistent: m[1] == "persistent",
		}
		// Retention rule preserved from the observed behavior: top of file,
		// or explicitly marked global/persistent anywhere.
		if len(s.frames) == 0 || v.IsGlobal || v.IsPersistent {
			s.variables = append(s.variables, v)
		}
	}
}

func (s *scanner) push(f frame) {
	s.frames = append(s.frames, f)
	s.recompute()
}

func (s *scanner) pop() {
	if len(s.frames) == 0 {
		return
	}
	s.frames = s.frames[:len(s.frames)-1]
	s.recompute()
}

// recompute restores the current-function and current-class pointers to the
// nearest enclosing frames. Methods never act as the current function: nested
// functions only occur inside plain functions.
func (s *scanner) recompute() {
	s.currentFunction = nil
	s.currentClass = nil
	for i := len(s.frames) - 1; i >= 0; i-- {
		f := s.frames[i]
		if s.currentClass == nil && f.kind == frameClass {
			s.currentClass = f.cls
		}
		if s.currentFunction == nil && f.kind == frameFunction && f.fn.ParentClass == "" {
			s.currentFunction = f.fn
		}
	}
}

func (s *scanner) inProperties() bool {
	if len(s.frames) == 0 {
		return false
	}
	top := s.frames[len(s.frames)-1]
	return top.kind == frameBlock && top.properties
}

func (s *scanner) appendDoc(text string) {
	switch {
	case s.pendingFn != nil:
		if s.pendingFn.Docstring != "" {
			s.pendingFn.Docstring += "\n"
		}
		s.pendingFn.Docstring += text
	case s.pendingCls != nil:
		if s.pendingCls.Docstring != "" {
			s.pendingCls.Docstring += "\n"
		}
		s.pendingCls.Docstring += text
	}
}

func (s *scanner) clearPendingDoc() {
	s.pendingFn = nil
	s.pendingCls = nil
}

func (s *scanner) result(text, fileID string, errs []string) *ExtractionResult {
	res := &ExtractionResult{
		FileID:       fileID,
		Comments:     s.comments,
		Variables:    s.variables,
		Errors:       errs,
		FunctionTree: s.tree,
		RawText:      text,
	}
	for _, fn := range s.functions {
		res.Functions = append(res.Functions, *fn)
	}
	for _, cls := range s.classes {
		c := *cls
		for _, m := range s.methods[cls] {
			c.Methods = append(c.Methods, *m)
		}
		res.Classes = append(res.Classes, c)
	}
	return res
}

// parseFunctionHeader recognizes a function or method header line and returns
// its record, or nil if the line is not a header.
func parseFunctionHeader(line string, lineNum int) *FunctionRecord {
	m := functionPattern.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	var outputs []string
	switch {
	case m[1] != "":
		outputs = splitParams(m[1])
	case m[2] != "":
		outputs = []string{m[2]}
	}
	name := m[3]
	return &FunctionRecord{
		Name:         name,
		Line:         lineNum,
		Column:       strings.Index(line, name) + 1,
		InputParams:  splitParams(m[4]),
		OutputParams: outputs,
	}
}

// splitParams splits a comma-separated identifier list, trimming whitespace.
func splitParams(list string) []string {
	if strings.TrimSpace(list) == "" {
		return nil
	}
	parts := strings.Split(list, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

// splitLineComment finds an unescaped ; or % marker and returns the comment
// record, the code preceding the marker, and the marker byte itself. Lines
// whose trailing text is empty are not treated as comments.
func splitLineComment(line string, lineNum int) (CommentRecord, string, byte, bool) {
	loc := lineCommentPattern.FindStringSubmatchIndex(line)
	if loc == nil {
		return CommentRecord{}, line, 0, false
	}
	textStart := loc[4]
	text := strings.TrimSpace(line[textStart:])
	if text == "" {
		return CommentRecord{}, line, 0, false
	}
	return CommentRecord{
		Text:   text,
		Line:   lineNum,
		Column: textStart + 1,
	}, line[:textStart-1], line[textStart-1], true
}

// extractBlockComments finds every %{ ... }% span in the full text.
func extractBlockComments(text string) []CommentRecord {
	var out []CommentRecord
	for _, loc := range blockCommentPattern.FindAllStringSubmatchIndex(text, -1) {
		before := text[:loc[0]]
		startLine := strings.Count(before, "\n") + 1
		endLine := strings.Count(text[:loc[1]], "\n") + 1
		column := loc[0] + 1
		if i := strings.LastIndexByte(before, '\n'); i >= 0 {
			column = loc[0] - i
		}
		out = append(out, CommentRecord{
			Text:           strings.TrimSpace(text[loc[2]:loc[3]]),
			Line:           startLine,
			Column:         column,
			IsBlock:        true,
			BlockStartLine: startLine,
			BlockEndLine:   endLine,
		})
	}
	return out
}
