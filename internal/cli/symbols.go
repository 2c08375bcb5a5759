package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"matscope/internal/symbols"
)

var (
	symbolsFile string
	symbolsKind string
	symbolsMax  int
)

// symbolsCmd represents the symbols command
var symbolsCmd = &cobra.Command{
	Use:   "symbols <query> [path]",
	Short: "Search the symbol index from the command line",
	Long: `Scan the workspace, then search indexed symbols by case-insensitive
substring match. Prints one line per match: location, kind, and the
synthesized signature.

Examples:
  matscope symbols solve
  matscope symbols "" --kind class
  matscope symbols gain --file src/control/pid.m`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSymbols,
}

func init() {
	symbolsCmd.Flags().StringVar(&symbolsFile, "file", "", "restrict matches to one file")
	symbolsCmd.Flags().StringVar(&symbolsKind, "kind", "", "restrict matches to one kind (function, method, class, property, variable)")
	symbolsCmd.Flags().IntVar(&symbolsMax, "limit", 50, "maximum number of matches to print")
	rootCmd.AddCommand(symbolsCmd)
}

func runSymbols(cmd *cobra.Command, args []string) error {
	query := args[0]
	root, err := workspaceRoot(args[1:])
	if err != nil {
		return err
	}
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	engine := buildEngine(cfg)
	if _, err := engine.Scan(context.Background(), root, nil); err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	matches := engine.Table().FindByName(query, symbolsFile, symbolsKind)
	sortSymbols(matches)

	total := len(matches)
	if total > symbolsMax {
		matches = matches[:symbolsMax]
	}
	for _, s := range matches {
		detail := s.Detail
		if detail == "" {
			detail = s.Name
		}
		fmt.Printf("%s:%d:%d\t%s\t%s\n", s.File, s.Line, s.Column, s.Kind, detail)
	}
	if total > len(matches) {
		fmt.Printf("... and %d more (raise --limit to see them)\n", total-len(matches))
	}
	if total == 0 {
		fmt.Println("no symbols matched")
	}
	return nil
}

// sortSymbols orders matches by file, then position, for stable output.
func sortSymbols(matches []symbols.Symbol) {
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].File != matches[j].File {
			return matches[i].File < matches[j].File
		}
		if matches[i].Line != matches[j].Line {
			return matches[i].Line < matches[j].Line
		}
		return matches[i].Column < matches[j].Column
	})
}
