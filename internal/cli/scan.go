package cli

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var scanQuiet bool

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Index every MATLAB file in a workspace",
	Long: `Discover MATLAB source files under the workspace root, extract their
symbols, and print index statistics. Useful for checking what the MCP
server would serve, and for smoke-testing path patterns in
.matscope/config.yml.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().BoolVarP(&scanQuiet, "quiet", "q", false, "suppress the progress bar")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	root, err := workspaceRoot(args)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	engine := buildEngine(cfg)

	var bar *progressbar.ProgressBar
	onFile := func(path string) {
		if bar == nil && !scanQuiet {
			bar = progressbar.NewOptions(-1,
				progressbar.OptionSetDescription("Indexing files"),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionShowIts(),
				progressbar.OptionSetItsString("files/s"),
			)
		}
		if bar != nil {
			bar.Add(1)
		}
	}

	result, err := engine.Scan(context.Background(), root, onFile)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}
	if bar != nil {
		bar.Finish()
		fmt.Println()
	}

	stats := engine.Table().GetStats()
	fmt.Printf("Scanned %s in %s\n", root, result.Duration.Round(time.Millisecond))
	fmt.Printf("  Files:     %d discovered, %d indexed, %d unchanged, %d failed\n",
		result.Discovered, result.Indexed, result.Unchanged, result.Failed)
	fmt.Printf("  Symbols:   %d\n", stats.Symbols)

	kinds := make([]string, 0, len(stats.ByKind))
	for kind := range stats.ByKind {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		fmt.Printf("    %-10s %d\n", kind, stats.ByKind[kind])
	}
	return nil
}
