package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"matscope/internal/mcp"
)

var mcpSkipScan bool

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:     "mcp [path]",
	Aliases: []string{"serve"},
	Short:   "Start the MCP server for MATLAB code intelligence",
	Long: `Start the Model Context Protocol (MCP) server that lets LLM-powered coding
assistants query the MATLAB symbol index.

The MCP server:
- Scans the workspace and builds the symbol index
- Watches for file changes and reindexes incrementally
- Exposes matlab_document_symbols, matlab_search_symbols, matlab_outline,
  matlab_lint, and matscope_status tools
- Communicates via stdio (standard MCP transport)

Example:
  matscope mcp ~/projects/flight-sim`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().BoolVar(&mcpSkipScan, "skip-scan", false, "skip the initial workspace scan")
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	root, err := workspaceRoot(args)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	engine := buildEngine(cfg)

	if !mcpSkipScan {
		result, err := engine.Scan(ctx, root, nil)
		if err != nil {
			return fmt.Errorf("initial scan failed: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Indexed %d of %d files (%d unchanged, %d failed)\n",
			result.Indexed, result.Discovered, result.Unchanged, result.Failed)
	}

	server, err := mcp.NewMCPServer(engine, root, Version)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	if err := server.Serve(ctx); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}
	return nil
}
