package workspace

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// compiledPattern keeps the source pattern next to its compiled globs. bare
// is the pattern with a leading "**/" stripped, so "**/*.m" also matches
// root-level files like "startup.m"; it is nil when the pattern has no such
// prefix.
type compiledPattern struct {
	pattern string
	glob    glob.Glob
	bare    glob.Glob
}

// Discovery finds MATLAB source files under a root, honoring code and ignore
// glob patterns from configuration.
type Discovery struct {
	rootDir        string
	codePatterns   []compiledPattern
	ignorePatterns []compiledPattern
}

// NewDiscovery compiles the given glob patterns for the workspace root.
func NewDiscovery(rootDir string, codePatterns, ignorePatterns []string) (*Discovery, error) {
	d := &Discovery{rootDir: rootDir}

	var err error
	if d.codePatterns, err = compilePatterns(codePatterns); err != nil {
		return nil, err
	}
	if d.ignorePatterns, err = compilePatterns(ignorePatterns); err != nil {
		return nil, err
	}
	return d, nil
}

func compilePatterns(patterns []string) ([]compiledPattern, error) {
	compiled := make([]compiledPattern, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, err
		}
		cp := compiledPattern{pattern: pattern, glob: g}
		if rest, ok := strings.CutPrefix(pattern, "**/"); ok {
			if bare, err := glob.Compile(rest, '/'); err == nil {
				cp.bare = bare
			}
		}
		compiled = append(compiled, cp)
	}
	return compiled, nil
}

// Discover walks the root and returns matching file paths, lexically ordered
// by the walk.
func (d *Discovery) Discover() ([]string, error) {
	var files []string

	err := filepath.Walk(d.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel := d.relPath(path)
		if info.IsDir() {
			if path != d.rootDir && d.ignoredDir(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if !matchesAny(rel, d.ignorePatterns) && matchesAny(rel, d.codePatterns) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// Matches reports whether a single path would be picked up by a scan, used
// by the watcher to filter events.
func (d *Discovery) Matches(path string) bool {
	rel := d.relPath(path)
	for dir := filepath.Dir(rel); dir != "." && dir != "/"; dir = filepath.Dir(dir) {
		if d.ignoredDir(filepath.ToSlash(dir)) {
			return false
		}
	}
	return !matchesAny(rel, d.ignorePatterns) && matchesAny(rel, d.codePatterns)
}

func (d *Discovery) relPath(path string) string {
	rel, err := filepath.Rel(d.rootDir, path)
	if err != nil {
		rel = path
	}
	return filepath.ToSlash(rel)
}

// ignoredDir reports whether a directory should be pruned from the walk.
// A directory "build" is ignored by the pattern "build/**" as well as by a
// pattern matching the directory path itself.
func (d *Discovery) ignoredDir(rel string) bool {
	return matchesAny(rel, d.ignorePatterns) || matchesAny(rel+"/**", d.ignorePatterns)
}

func matchesAny(rel string, patterns []compiledPattern) bool {
	for _, cp := range patterns {
		if cp.glob.Match(rel) {
			return true
		}
		if cp.bare != nil && !strings.Contains(rel, "/") && cp.bare.Match(rel) {
			return true
		}
	}
	return false
}
