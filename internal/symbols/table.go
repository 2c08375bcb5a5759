// Package symbols maintains the in-memory, file-keyed index of extracted
// MATLAB symbols. The index is process-lifetime only and rebuilt from scratch
// on restart.
package symbols

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"

	"matscope/internal/parser"
)

// Symbol kinds.
const (
	KindFunction = "function"
	KindMethod   = "method"
	KindClass    = "class"
	KindProperty = "property"
	KindVariable = "variable"
)

// Symbol is one indexed code entity. Line and Column are 1-based; protocol
// handlers convert to whatever convention their wire format needs.
type Symbol struct {
	Name          string `json:"name"`
	Kind          string `json:"kind"`
	File          string `json:"file"`
	Line          int    `json:"line"`
	Column        int    `json:"column"`
	Detail        string `json:"detail,omitempty"`
	Documentation string `json:"documentation,omitempty"`
	IsGlobal      bool   `json:"is_global"`
	Scope         string `json:"scope"`
}

// GlobalScope is the scope name for symbols not enclosed by a function or
// class.
const GlobalScope = "global"

// Table is the mutable symbol index. All operations are safe for concurrent
// use; a write lock around file replacement makes the delete-then-insert
// sequence atomic for readers. Upserts for the same file id must still be
// serialized by the caller so last-write-wins ordering is meaningful.
type Table struct {
	mu     sync.RWMutex
	byFile map[string][]Symbol
	hashes map[string]string
}

// NewTable creates an empty symbol table.
func NewTable() *Table {
	return &Table{
		byFile: make(map[string][]Symbol),
		hashes: make(map[string]string),
	}
}

// UpsertFile replaces every symbol for fileID with symbols derived from
// result. If content hashes to the stored hash for fileID the call is an
// idempotent no-op and returns false. Returns true when the index changed.
func (t *Table) UpsertFile(fileID, content string, result *parser.ExtractionResult) bool {
	newHash := hashContent(content)

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.hashes[fileID] == newHash {
		return false
	}

	syms := buildSymbols(fileID, result)
	delete(t.byFile, fileID)
	t.hashes[fileID] = newHash
	if len(syms) > 0 {
		t.byFile[fileID] = syms
	}
	return true
}

// RemoveFile deletes all symbols and the stored hash for fileID. Removing an
// unknown file is a no-op. Returns the number of symbols removed.
func (t *Table) RemoveFile(fileID string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	count := len(t.byFile[fileID])
	delete(t.byFile, fileID)
	delete(t.hashes, fileID)
	return count
}

// SymbolsInFile returns the symbols indexed for fileID in insertion order.
// Unknown files yield an empty slice, never an error.
func (t *Table) SymbolsInFile(fileID string) []Symbol {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Symbol, len(t.byFile[fileID]))
	copy(out, t.byFile[fileID])
	return out
}

// FindByName returns symbols whose name contains query, case-insensitively.
// Empty file or kind means no restriction.
func (t *Table) FindByName(query, file, kind string) []Symbol {
	q := strings.ToLower(query)

	t.mu.RLock()
	defer t.mu.RUnlock()

	var out []Symbol
	for f, syms := range t.byFile {
		if file != "" && f != file {
			continue
		}
		for _, s := range syms {
			if kind != "" && s.Kind != kind {
				continue
			}
			if strings.Contains(strings.ToLower(s.Name), q) {
				out = append(out, s)
			}
		}
	}
	return out
}

// AllSymbols returns every indexed symbol across all files.
func (t *Table) AllSymbols() []Symbol {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var out []Symbol
	for _, syms := range t.byFile {
		out = append(out, syms...)
	}
	return out
}

// Clear drops every symbol and stored hash.
func (t *Table) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.byFile = make(map[string][]Symbol)
	t.hashes = make(map[string]string)
}

// Stats summarizes the index for status reporting.
type Stats struct {
	Files   int            `json:"files"`
	Symbols int            `json:"symbols"`
	ByKind  map[string]int `json:"by_kind"`
}

// GetStats returns current index statistics.
func (t *Table) GetStats() Stats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	stats := Stats{Files: len(t.byFile), ByKind: make(map[string]int)}
	for _, syms := range t.byFile {
		stats.Symbols += len(syms)
		for _, s := range syms {
			stats.ByKind[s.Kind]++
		}
	}
	return stats
}

// buildSymbols flattens an extraction result into the symbol insertion order:
// functions, then each class with its methods and properties, then variables.
func buildSymbols(fileID string, result *parser.ExtractionResult) []Symbol {
	if result == nil {
		return nil
	}

	var syms []Symbol
	for _, fn := range result.Functions {
		scope := GlobalScope
		if fn.ParentFunction != "" {
			scope = fn.ParentFunction
		}
		syms = append(syms, Symbol{
			Name:          fn.Name,
			Kind:          KindFunction,
			File:          fileID,
			Line:          fn.Line,
			Column:        fn.Column,
			Detail:        FunctionDetail(fn),
			Documentation: fn.Docstring,
			IsGlobal:      !fn.IsNested,
			Scope:         scope,
		})
	}

	for _, cls := range result.Classes {
		syms = append(syms, Symbol{
			Name:          cls.Name,
			Kind:          KindClass,
			File:          fileID,
			Line:          cls.Line,
			Column:        cls.Column,
			Detail:        "classdef " + cls.Name,
			Documentation: cls.Docstring,
			IsGlobal:      true,
			Scope:         GlobalScope,
		})
		for _, m := range cls.Methods {
			syms = append(syms, Symbol{
				Name:          m.Name,
				Kind:          KindMethod,
				File:          fileID,
				Line:          m.Line,
				Column:        m.Column,
				Detail:        FunctionDetail(m),
				Documentation: m.Docstring,
				Scope:         cls.Name,
			})
		}
		for _, prop := range cls.Properties {
			syms = append(syms, Symbol{
				Name:   prop,
				Kind:   KindProperty,
				File:   fileID,
				Line:   cls.Line + 1, // approximate: the property block follows the classdef line
				Column: 1,
				Detail: "property " + prop,
				Scope:  cls.Name,
			})
		}
	}

	for _, v := range result.Variables {
		syms = append(syms, Symbol{
			Name:     v.Name,
			Kind:     KindVariable,
			File:     fileID,
			Line:     v.Line,
			Column:   v.Column,
			Detail:   variableDetail(v),
			IsGlobal: v.IsGlobal,
			Scope:    GlobalScope,
		})
	}
	return syms
}

// FunctionDetail synthesizes a signature string: "<outputs> = name(<inputs>)"
// when outputs exist (bracketed when there are several), else "name(<inputs>)".
func FunctionDetail(fn parser.FunctionRecord) string {
	sig := fmt.Sprintf("%s(%s)", fn.Name, strings.Join(fn.InputParams, ", "))
	switch len(fn.OutputParams) {
	case 0:
		return sig
	case 1:
		return fn.OutputParams[0] + " = " + sig
	default:
		return "[" + strings.Join(fn.OutputParams, ", ") + "] = " + sig
	}
}

func variableDetail(v parser.VariableRecord) string {
	switch {
	case v.IsGlobal:
		return "global " + v.Name
	case v.IsPersistent:
		return "persistent " + v.Name
	default:
		return "variable " + v.Name
	}
}

func hashContent(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
