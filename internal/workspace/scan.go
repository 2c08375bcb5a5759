package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// ScanResult summarizes one bulk workspace scan.
type ScanResult struct {
	Discovered int
	Indexed    int
	Unchanged  int
	Failed     int
	Duration   time.Duration
}

// Scan discovers every matching file under rootDir and indexes it. onFile,
// when non-nil, is called once per discovered file so callers can render
// progress. Individual file failures do not abort the scan.
func (e *Engine) Scan(ctx context.Context, rootDir string, onFile func(path string)) (*ScanResult, error) {
	discovery, err := NewDiscovery(rootDir, e.cfg.Paths.Code, e.cfg.Paths.Ignore)
	if err != nil {
		return nil, fmt.Errorf("invalid path patterns: %w", err)
	}

	files, err := discovery.Discover()
	if err != nil {
		return nil, fmt.Errorf("workspace discovery failed: %w", err)
	}

	start := time.Now()
	result := &ScanResult{Discovered: len(files)}
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if onFile != nil {
			onFile(path)
		}
		changed, err := e.IndexFile(path)
		switch {
		case err != nil:
			result.Failed++
		case changed:
			result.Indexed++
		default:
			result.Unchanged++
		}
	}
	result.Duration = time.Since(start)

	slog.Info("workspace scan complete",
		"root", rootDir,
		"discovered", result.Discovered,
		"indexed", result.Indexed,
		"unchanged", result.Unchanged,
		"failed", result.Failed,
		"duration", result.Duration)
	return result, nil
}
