package cli

import (
	"matscope/internal/config"
	"matscope/internal/lint"
	"matscope/internal/symbols"
	"matscope/internal/workspace"
)

// buildEngine assembles the indexing engine for a loaded configuration. The
// lint analyzer is only constructed when diagnostics are enabled.
func buildEngine(cfg *config.Config) *workspace.Engine {
	var analyzer *lint.Analyzer
	if cfg.Matlab.LintEnabled {
		analyzer = lint.New(lint.Config{
			MatlabPath: cfg.Matlab.Path,
			MlintPath:  cfg.Matlab.MlintPath,
			Timeout:    cfg.LintTimeout(),
		})
	}
	return workspace.NewEngine(cfg, symbols.NewTable(), analyzer)
}
