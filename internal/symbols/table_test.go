package symbols

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matscope/internal/parser"
)

func upsert(t *testing.T, table *Table, fileID, content string) bool {
	t.Helper()
	return table.UpsertFile(fileID, content, parser.Extract(content, fileID))
}

func TestTable_UpsertAndQuery(t *testing.T) {
	t.Parallel()

	table := NewTable()
	changed := upsert(t, table, "file:///add.m", "function y = add(x, y)\nend")
	assert.True(t, changed)

	syms := table.SymbolsInFile("file:///add.m")
	require.Len(t, syms, 1)
	assert.Equal(t, "add", syms[0].Name)
	assert.Equal(t, KindFunction, syms[0].Kind)
	assert.Equal(t, "y = add(x, y)", syms[0].Detail)
	assert.Equal(t, GlobalScope, syms[0].Scope)
	assert.True(t, syms[0].IsGlobal)
}

func TestTable_IdempotentUpsert(t *testing.T) {
	t.Parallel()

	table := NewTable()
	content := "function y = add(x, y)\nend"

	require.True(t, upsert(t, table, "file:///a.m", content))
	before := table.GetStats()

	// Same content again: hash matches, no mutation.
	assert.False(t, upsert(t, table, "file:///a.m", content))
	assert.Equal(t, before, table.GetStats())
	assert.Len(t, table.SymbolsInFile("file:///a.m"), 1)
}

func TestTable_AtomicReplacement(t *testing.T) {
	t.Parallel()

	table := NewTable()
	upsert(t, table, "file:///a.m", "function one()\nend\nfunction two()\nend")
	require.Len(t, table.SymbolsInFile("file:///a.m"), 2)

	// New content fully replaces the old symbol set.
	upsert(t, table, "file:///a.m", "function three()\nend")
	syms := table.SymbolsInFile("file:///a.m")
	require.Len(t, syms, 1)
	assert.Equal(t, "three", syms[0].Name)
	assert.Empty(t, table.FindByName("one", "", ""))
}

func TestTable_RemoveFile(t *testing.T) {
	t.Parallel()

	table := NewTable()
	upsert(t, table, "file:///a.m", "function gone()\nend")

	assert.Equal(t, 1, table.RemoveFile("file:///a.m"))
	assert.Empty(t, table.SymbolsInFile("file:///a.m"))
	assert.Empty(t, table.FindByName("gone", "", ""))

	// Removing again is a no-op.
	assert.Equal(t, 0, table.RemoveFile("file:///a.m"))

	// Hash is forgotten too: re-upserting the same content indexes again.
	assert.True(t, upsert(t, table, "file:///a.m", "function gone()\nend"))
	assert.Len(t, table.SymbolsInFile("file:///a.m"), 1)
}

func TestTable_FindByName(t *testing.T) {
	t.Parallel()

	table := NewTable()
	upsert(t, table, "file:///a.m", "function computeTotal(x)\nend")
	upsert(t, table, "file:///b.m", "function recompute()\nend\nglobal total")

	// Case-insensitive substring match across files.
	assert.Len(t, table.FindByName("compute", "", ""), 2)
	assert.Len(t, table.FindByName("COMPUTE", "", ""), 2)

	// Restricted by file.
	byFile := table.FindByName("compute", "file:///a.m", "")
	require.Len(t, byFile, 1)
	assert.Equal(t, "computeTotal", byFile[0].Name)

	// Restricted by kind.
	vars := table.FindByName("total", "", KindVariable)
	require.Len(t, vars, 1)
	assert.Equal(t, "total", vars[0].Name)
	assert.True(t, vars[0].IsGlobal)

	// Unknown names or files return empty, never an error.
	assert.Empty(t, table.FindByName("nope", "", ""))
	assert.Empty(t, table.FindByName("compute", "file:///missing.m", ""))
}

func TestTable_ClassScopes(t *testing.T) {
	t.Parallel()

	content := `classdef Foo
  properties
    Bar
  end
  methods
    function obj = Foo(x)
    end
  end
end`
	table := NewTable()
	upsert(t, table, "file:///Foo.m", content)

	props := table.FindByName("Bar", "", KindProperty)
	require.Len(t, props, 1)
	assert.Equal(t, "Foo", props[0].Scope)
	assert.False(t, props[0].IsGlobal)

	methods := table.FindByName("Foo", "", KindMethod)
	require.Len(t, methods, 1)
	assert.Equal(t, "Foo", methods[0].Scope)

	classes := table.FindByName("Foo", "", KindClass)
	require.Len(t, classes, 1)
	assert.Equal(t, GlobalScope, classes[0].Scope)
	assert.True(t, classes[0].IsGlobal)
}

func TestTable_NestedFunctionScope(t *testing.T) {
	t.Parallel()

	content := `function outer()
  function inner()
  end
end`
	table := NewTable()
	upsert(t, table, "file:///n.m", content)

	inner := table.FindByName("inner", "", "")
	require.Len(t, inner, 1)
	assert.Equal(t, "outer", inner[0].Scope)
	assert.False(t, inner[0].IsGlobal)
}

func TestTable_EmptyQueries(t *testing.T) {
	t.Parallel()

	table := NewTable()
	assert.Empty(t, table.SymbolsInFile("file:///unknown.m"))
	assert.Empty(t, table.AllSymbols())
	assert.Equal(t, 0, table.GetStats().Symbols)
}

func TestTable_AllSymbolsAcrossFiles(t *testing.T) {
	t.Parallel()

	table := NewTable()
	upsert(t, table, "file:///a.m", "function a()\nend")
	upsert(t, table, "file:///b.m", "function b()\nend\nglobal g")

	assert.Len(t, table.AllSymbols(), 3)

	stats := table.GetStats()
	assert.Equal(t, 2, stats.Files)
	assert.Equal(t, 2, stats.ByKind[KindFunction])
	assert.Equal(t, 1, stats.ByKind[KindVariable])
}

func TestTable_ConcurrentDistinctFiles(t *testing.T) {
	t.Parallel()

	table := NewTable()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("file:///f%d.m", n)
			content := fmt.Sprintf("function f%d()\nend", n)
			for j := 0; j < 50; j++ {
				table.UpsertFile(id, content, parser.Extract(content, id))
				table.SymbolsInFile(id)
				table.FindByName("f", "", "")
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 8, table.GetStats().Files)
}

func TestFunctionDetail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		fn   parser.FunctionRecord
		want string
	}{
		{"no outputs", parser.FunctionRecord{Name: "run", InputParams: []string{"cfg"}}, "run(cfg)"},
		{"one output", parser.FunctionRecord{Name: "add", InputParams: []string{"x", "y"}, OutputParams: []string{"y"}}, "y = add(x, y)"},
		{"many outputs", parser.FunctionRecord{Name: "divmod", InputParams: []string{"a", "b"}, OutputParams: []string{"q", "r"}}, "[q, r] = divmod(a, b)"},
		{"no params", parser.FunctionRecord{Name: "tick"}, "tick()"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, FunctionDetail(tt.fn))
		})
	}
}
