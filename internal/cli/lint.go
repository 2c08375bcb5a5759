package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"matscope/internal/lint"
)

// lintCmd represents the lint command
var lintCmd = &cobra.Command{
	Use:   "lint <file>...",
	Short: "Run MATLAB's Code Analyzer on files",
	Long: `Run mlint against one or more MATLAB files and print its diagnostics.
Requires a local MATLAB installation; configure matlab.path or
matlab.mlint_path in .matscope/config.yml if discovery fails.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLint,
}

func init() {
	rootCmd.AddCommand(lintCmd)
}

func runLint(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(filepath.Dir(args[0]))
	if err != nil {
		return err
	}

	analyzer := lint.New(lint.Config{
		MatlabPath: cfg.Matlab.Path,
		MlintPath:  cfg.Matlab.MlintPath,
		Timeout:    cfg.LintTimeout(),
	})
	if !analyzer.Available() {
		return lint.ErrUnavailable
	}

	ctx := context.Background()
	total := 0
	for _, path := range args {
		diags, err := analyzer.Analyze(ctx, path)
		if err != nil {
			return fmt.Errorf("lint %s: %w", path, err)
		}
		for _, d := range diags {
			code := d.Code
			if code != "" {
				code = " [" + code + "]"
			}
			fmt.Printf("%s:%d: %s: %s%s\n", path, d.Line, d.Severity, d.Message, code)
		}
		total += len(diags)
	}
	if total == 0 {
		fmt.Println("no issues found")
	}
	return nil
}
