package config

import (
	"fmt"
	"time"
)

// Config is the complete matscope configuration. It can be loaded from
// .matscope/config.yml with MATSCOPE_* environment variable overrides.
type Config struct {
	Paths   PathsConfig   `yaml:"paths" mapstructure:"paths"`
	Matlab  MatlabConfig  `yaml:"matlab" mapstructure:"matlab"`
	Cache   CacheConfig   `yaml:"cache" mapstructure:"cache"`
	Watcher WatcherConfig `yaml:"watcher" mapstructure:"watcher"`
}

// PathsConfig defines which files to index and which to ignore.
type PathsConfig struct {
	Code   []string `yaml:"code" mapstructure:"code"`     // glob patterns for MATLAB sources
	Ignore []string `yaml:"ignore" mapstructure:"ignore"` // glob patterns to skip
}

// MatlabConfig locates the MATLAB installation and controls diagnostics.
type MatlabConfig struct {
	Path            string `yaml:"path" mapstructure:"path"`                           // MATLAB installation root
	MlintPath       string `yaml:"mlint_path" mapstructure:"mlint_path"`               // explicit mlint binary, skips discovery
	LintEnabled     bool   `yaml:"lint_enabled" mapstructure:"lint_enabled"`           // expose mlint diagnostics
	LintTimeoutSecs int    `yaml:"lint_timeout_secs" mapstructure:"lint_timeout_secs"` // per-invocation bound
}

// CacheConfig sets memoization TTLs, in seconds.
type CacheConfig struct {
	ParseTTLSecs int `yaml:"parse_ttl_secs" mapstructure:"parse_ttl_secs"`
	LintTTLSecs  int `yaml:"lint_ttl_secs" mapstructure:"lint_ttl_secs"`
}

// WatcherConfig tunes the workspace file watcher.
type WatcherConfig struct {
	DebounceMS int `yaml:"debounce_ms" mapstructure:"debounce_ms"` // quiet window before reindexing
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			Code: []string{"**/*.m"},
			Ignore: []string{
				".git/**",
				"**/*.asv", // MATLAB editor autosave files
				"slprj/**",
				"codegen/**",
			},
		},
		Matlab: MatlabConfig{
			LintEnabled:     true,
			LintTimeoutSecs: 10,
		},
		Cache: CacheConfig{
			ParseTTLSecs: 300,
			LintTTLSecs:  300,
		},
		Watcher: WatcherConfig{
			DebounceMS: 500,
		},
	}
}

// Validate checks ranges the rest of the system assumes.
func (c *Config) Validate() error {
	if len(c.Paths.Code) == 0 {
		return fmt.Errorf("paths.code must list at least one pattern")
	}
	if c.Cache.ParseTTLSecs <= 0 {
		return fmt.Errorf("cache.parse_ttl_secs must be positive, got %d", c.Cache.ParseTTLSecs)
	}
	if c.Cache.LintTTLSecs <= 0 {
		return fmt.Errorf("cache.lint_ttl_secs must be positive, got %d", c.Cache.LintTTLSecs)
	}
	if c.Watcher.DebounceMS < 0 {
		return fmt.Errorf("watcher.debounce_ms must not be negative, got %d", c.Watcher.DebounceMS)
	}
	return nil
}

// ParseTTL returns the parse-result memoization TTL.
func (c *Config) ParseTTL() time.Duration {
	return time.Duration(c.Cache.ParseTTLSecs) * time.Second
}

// LintTTL returns the lint-result memoization TTL.
func (c *Config) LintTTL() time.Duration {
	return time.Duration(c.Cache.LintTTLSecs) * time.Second
}

// Debounce returns the watcher quiet window.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Watcher.DebounceMS) * time.Millisecond
}

// LintTimeout returns the per-invocation mlint bound.
func (c *Config) LintTimeout() time.Duration {
	return time.Duration(c.Matlab.LintTimeoutSecs) * time.Second
}
