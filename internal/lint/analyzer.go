// Package lint invokes MATLAB's Code Analyzer (mlint) and parses its output
// into structured diagnostics. The engine proper never depends on this
// package; callers memoize results through the cache under lint:<file>:<hash>
// keys.
package lint

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrUnavailable is returned when no mlint executable could be located.
var ErrUnavailable = errors.New("mlint executable not available")

// DefaultTimeout bounds a single mlint invocation.
const DefaultTimeout = 10 * time.Second

// Severity levels for diagnostics.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// Diagnostic is one finding reported by mlint. Line is 1-based; mlint does
// not report a usable column, so Column is always 1.
type Diagnostic struct {
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
	Code     string `json:"code,omitempty"`
	Source   string `json:"source"`
}

// mlint output lines come in two shapes:
//
//	L 12 (ID): message     (with -id)
//	L 12: message
var (
	mlintWithID = regexp.MustCompile(`^L\s+(\d+)\s+\(([^)]+)\)\s*:\s*(.+)$`)
	mlintSimple = regexp.MustCompile(`^L\s+(\d+)\s*:\s*(.+)$`)
)

// Config controls analyzer construction.
type Config struct {
	// MatlabPath is the MATLAB installation root to search for mlint.
	MatlabPath string
	// MlintPath, when set, is used directly and skips discovery.
	MlintPath string
	// Timeout bounds one invocation; zero selects DefaultTimeout.
	Timeout time.Duration
}

// Analyzer runs mlint against single files.
type Analyzer struct {
	mlintPath string
	timeout   time.Duration
}

// New locates mlint and returns an analyzer. An analyzer is still returned
// when the binary is missing; Analyze then fails with ErrUnavailable so
// callers can degrade to zero diagnostics.
func New(cfg Config) *Analyzer {
	path := cfg.MlintPath
	if path == "" {
		path = findMlint(cfg.MatlabPath)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if path == "" {
		slog.Debug("mlint not found, diagnostics disabled")
	} else {
		slog.Debug("mlint located", "path", path)
	}
	return &Analyzer{mlintPath: path, timeout: timeout}
}

// Available reports whether an mlint executable was found.
func (a *Analyzer) Available() bool {
	if a.mlintPath == "" {
		return false
	}
	_, err := os.Stat(a.mlintPath)
	return err == nil
}

// Analyze runs mlint on path and returns its diagnostics. mlint exits
// non-zero when it finds issues, so exit status is ignored as long as output
// was produced.
func (a *Analyzer) Analyze(ctx context.Context, path string) ([]Diagnostic, error) {
	if !a.Available() {
		return nil, ErrUnavailable
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("file not found: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, a.mlintPath, path, "-id", "-severity", "2")
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() != nil {
		return nil, fmt.Errorf("mlint timed out: %w", ctx.Err())
	}

	// mlint writes diagnostics to stderr.
	output := stderr.String()
	if output == "" {
		output = stdout.String()
	}
	if output == "" && err != nil {
		return nil, fmt.Errorf("mlint failed: %w", err)
	}

	diags := parseOutput(output)
	slog.Debug("mlint completed", "file", path, "diagnostics", len(diags))
	return diags, nil
}

// parseOutput converts raw mlint output into diagnostics, skipping header
// separators and unparseable lines.
func parseOutput(output string) []Diagnostic {
	var diags []Diagnostic
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "==========") {
			continue
		}

		var lineNum int
		var code, message string
		if m := mlintWithID.FindStringSubmatch(line); m != nil {
			lineNum, _ = strconv.Atoi(m[1])
			code = m[2]
			message = m[3]
		} else if m := mlintSimple.FindStringSubmatch(line); m != nil {
			lineNum, _ = strconv.Atoi(m[1])
			message = m[2]
		} else {
			continue
		}

		diags = append(diags, Diagnostic{
			Line:     lineNum,
			Column:   1,
			Message:  message,
			Severity: mapSeverity(code),
			Code:     code,
			Source:   "mlint",
		})
	}
	return diags
}

// mapSeverity maps an mlint message ID prefix to a severity level. Unknown
// or absent IDs default to warning.
func mapSeverity(code string) string {
	if code == "" {
		return SeverityWarning
	}
	switch strings.ToUpper(code)[:1] {
	case "E", "F":
		return SeverityError
	case "I":
		return SeverityInfo
	default:
		return SeverityWarning
	}
}
