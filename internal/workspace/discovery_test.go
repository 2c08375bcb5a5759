package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func TestDiscovery_Discover(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"startup.m":        "x = 1;",
		"src/solver.m":     "function solve()\nend",
		"src/deep/util.m":  "function u()\nend",
		"src/solver.asv":   "autosave junk",
		"slprj/gen.m":      "generated",
		"README.md":        "docs",
		".git/hooks/pre.m": "not source",
	})

	d, err := NewDiscovery(root, []string{"**/*.m"}, []string{".git/**", "**/*.asv", "slprj/**"})
	require.NoError(t, err)

	files, err := d.Discover()
	require.NoError(t, err)

	var rels []string
	for _, f := range files {
		rel, err := filepath.Rel(root, f)
		require.NoError(t, err)
		rels = append(rels, filepath.ToSlash(rel))
	}
	assert.ElementsMatch(t, []string{"startup.m", "src/solver.m", "src/deep/util.m"}, rels)
}

func TestDiscovery_Matches(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	d, err := NewDiscovery(root, []string{"**/*.m"}, []string{".git/**", "**/*.asv", "slprj/**"})
	require.NoError(t, err)

	cases := []struct {
		rel  string
		want bool
	}{
		{"startup.m", true},
		{"src/solver.m", true},
		{"src/solver.asv", false},
		{"slprj/gen.m", false},
		{".git/hooks/pre.m", false},
		{"README.md", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, d.Matches(filepath.Join(root, filepath.FromSlash(tc.rel))), tc.rel)
	}
}

func TestDiscovery_BadPattern(t *testing.T) {
	t.Parallel()

	_, err := NewDiscovery(t.TempDir(), []string{"[unclosed"}, nil)
	assert.Error(t, err)
}
