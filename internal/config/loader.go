package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader provides configuration loading.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins).
	Load() (*Config, error)
}

type loader struct {
	rootDir string
}

// NewLoader creates a configuration loader for the given workspace root.
func NewLoader(rootDir string) Loader {
	return &loader{rootDir: rootDir}
}

// Load reads .matscope/config.yml under the workspace root, if present, and
// applies MATSCOPE_* environment overrides (e.g. MATSCOPE_MATLAB_PATH).
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join(l.rootDir, ".matscope"))

	v.SetEnvPrefix("MATSCOPE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.BindEnv("matlab.path")
	v.BindEnv("matlab.mlint_path")
	v.BindEnv("matlab.lint_enabled")
	v.BindEnv("matlab.lint_timeout_secs")
	v.BindEnv("cache.parse_ttl_secs")
	v.BindEnv("cache.lint_ttl_secs")
	v.BindEnv("watcher.debounce_ms")

	cfg := Default()
	setDefaults(v, cfg)

	if err := v.ReadInConfig(); err != nil {
		// A missing config file falls back to defaults; anything else is a
		// real error worth surfacing.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("paths.code", cfg.Paths.Code)
	v.SetDefault("paths.ignore", cfg.Paths.Ignore)
	v.SetDefault("matlab.path", cfg.Matlab.Path)
	v.SetDefault("matlab.mlint_path", cfg.Matlab.MlintPath)
	v.SetDefault("matlab.lint_enabled", cfg.Matlab.LintEnabled)
	v.SetDefault("matlab.lint_timeout_secs", cfg.Matlab.LintTimeoutSecs)
	v.SetDefault("cache.parse_ttl_secs", cfg.Cache.ParseTTLSecs)
	v.SetDefault("cache.lint_ttl_secs", cfg.Cache.LintTTLSecs)
	v.SetDefault("watcher.debounce_ms", cfg.Watcher.DebounceMS)
}
