// Package workspace wires the extractor, symbol index, result cache, and lint
// analyzer into the document-lifecycle layer: open/change/close events, bulk
// scans, and file watching all funnel through the Engine.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"matscope/internal/cache"
	"matscope/internal/config"
	"matscope/internal/lint"
	"matscope/internal/parser"
	"matscope/internal/symbols"
)

// Engine owns the indexing pipeline for one workspace. It is constructed
// explicitly and passed to every collaborator that needs it; there is no
// process-wide instance.
type Engine struct {
	cfg      *config.Config
	table    *symbols.Table
	docs     *DocumentStore
	analyzer *lint.Analyzer

	parseCache *cache.Cache[*parser.ExtractionResult]
	lintCache  *cache.Cache[[]lint.Diagnostic]
}

// NewEngine creates an engine around the given symbol table and analyzer.
// A nil analyzer disables diagnostics.
func NewEngine(cfg *config.Config, table *symbols.Table, analyzer *lint.Analyzer) *Engine {
	return &Engine{
		cfg:        cfg,
		table:      table,
		docs:       NewDocumentStore(),
		analyzer:   analyzer,
		parseCache: cache.New[*parser.ExtractionResult](cfg.ParseTTL()),
		lintCache:  cache.New[[]lint.Diagnostic](cfg.LintTTL()),
	}
}

// Table exposes the symbol index for query handlers.
func (e *Engine) Table() *symbols.Table { return e.table }

// Documents exposes the open-document store.
func (e *Engine) Documents() *DocumentStore { return e.docs }

// OpenDocument registers an open document and indexes its content.
func (e *Engine) OpenDocument(fileID, path, content string) {
	e.docs.Open(fileID, path, content)
	e.UpsertContent(fileID, content)
}

// ChangeDocument applies an editor change and reindexes. Whole-document
// content is expected; incremental edits are the caller's concern.
func (e *Engine) ChangeDocument(fileID, content string) {
	e.docs.Update(fileID, content)
	e.UpsertContent(fileID, content)
}

// CloseDocument forgets the document, drops its symbols, and invalidates its
// cached results.
func (e *Engine) CloseDocument(fileID string) {
	e.docs.Close(fileID)
	removed := e.table.RemoveFile(fileID)
	e.parseCache.InvalidateByPrefix(cache.FilePrefix(cache.OpParse, fileID))
	e.lintCache.InvalidateByPrefix(cache.FilePrefix(cache.OpLint, fileID))
	slog.Debug("document closed", "file", fileID, "symbols_removed", removed)
}

// UpsertContent extracts content (through the parse cache) and upserts the
// symbol index. Returns true when the index changed.
func (e *Engine) UpsertContent(fileID, content string) bool {
	result := e.extract(fileID, content)
	changed := e.table.UpsertFile(fileID, content, result)
	if changed {
		slog.Debug("file indexed",
			"file", fileID,
			"functions", len(result.Functions),
			"classes", len(result.Classes),
			"variables", len(result.Variables))
	}
	return changed
}

// IndexFile reads path from disk and indexes it. Returns whether the index
// changed; read failures are returned without touching the index.
func (e *Engine) IndexFile(path string) (bool, error) {
	result := parser.ExtractFile(path)
	if len(result.Errors) > 0 {
		slog.Warn("extraction errors", "file", path, "errors", result.Errors)
		return false, fmt.Errorf("extraction failed: %s", strings.Join(result.Errors, "; "))
	}
	hash := cache.HashContent(result.RawText)
	e.parseCache.Set(cache.Key(cache.OpParse, path, hash), result, 0)
	return e.table.UpsertFile(path, result.RawText, result), nil
}

// RemovePath drops a deleted file from the index and caches.
func (e *Engine) RemovePath(path string) {
	e.docs.Close(path)
	e.table.RemoveFile(path)
	e.parseCache.InvalidateByPrefix(cache.FilePrefix(cache.OpParse, path))
	e.lintCache.InvalidateByPrefix(cache.FilePrefix(cache.OpLint, path))
}

// DocumentSymbols indexes fileID if needed and returns its symbols. Content
// resolution follows the same open-document-then-disk order as Extraction.
func (e *Engine) DocumentSymbols(fileID string) ([]symbols.Symbol, error) {
	content, err := e.contentFor(fileID)
	if err != nil {
		return nil, err
	}
	e.UpsertContent(fileID, content)
	return e.table.SymbolsInFile(fileID), nil
}

// Extraction returns the extraction result for fileID, preferring open
// document content over disk, memoized through the parse cache.
func (e *Engine) Extraction(fileID string) (*parser.ExtractionResult, error) {
	content, err := e.contentFor(fileID)
	if err != nil {
		return nil, err
	}
	return e.extract(fileID, content), nil
}

// Lint runs the external analyzer on fileID, memoizing per content hash.
// Diagnostics describe the on-disk file; unsaved edits are not linted.
func (e *Engine) Lint(ctx context.Context, fileID string) ([]lint.Diagnostic, error) {
	if e.analyzer == nil {
		return nil, lint.ErrUnavailable
	}
	content, err := e.contentFor(fileID)
	if err != nil {
		return nil, err
	}

	key := cache.Key(cache.OpLint, fileID, cache.HashContent(content))
	if diags, ok := e.lintCache.Get(key); ok {
		return diags, nil
	}

	diags, err := e.analyzer.Analyze(ctx, e.pathFor(fileID))
	if err != nil {
		return nil, err
	}
	e.lintCache.Set(key, diags, 0)
	return diags, nil
}

// LintAvailable reports whether diagnostics can be produced at all.
func (e *Engine) LintAvailable() bool {
	return e.analyzer != nil && e.analyzer.Available()
}

// CacheStats reports both memoization caches for status output.
func (e *Engine) CacheStats() (parse, lintStats cache.Stats) {
	return e.parseCache.GetStats(), e.lintCache.GetStats()
}

func (e *Engine) extract(fileID, content string) *parser.ExtractionResult {
	key := cache.Key(cache.OpParse, fileID, cache.HashContent(content))
	if result, ok := e.parseCache.Get(key); ok {
		return result
	}
	result := parser.Extract(content, fileID)
	e.parseCache.Set(key, result, 0)
	return result
}

// contentFor prefers open-document content, then falls back to disk.
func (e *Engine) contentFor(fileID string) (string, error) {
	if doc := e.docs.Get(fileID); doc != nil {
		return doc.Content, nil
	}
	data, err := os.ReadFile(fileID)
	if err != nil {
		return "", errors.New("file is neither open nor readable: " + fileID)
	}
	return string(data), nil
}

// pathFor resolves the on-disk path for a file id.
func (e *Engine) pathFor(fileID string) string {
	if doc := e.docs.Get(fileID); doc != nil && doc.Path != "" {
		return doc.Path
	}
	return fileID
}
