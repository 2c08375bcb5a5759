package lint

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOutput(t *testing.T) {
	t.Parallel()

	output := `========== /tmp/bad.m ==========
L 3 (NOPRT): Terminate statement with semicolon to suppress output.
L 7 (E001): Parse error.
L 12: Value assigned but never used.

garbage line that matches nothing`

	diags := parseOutput(output)
	require.Len(t, diags, 3)

	assert.Equal(t, 3, diags[0].Line)
	assert.Equal(t, "NOPRT", diags[0].Code)
	assert.Equal(t, SeverityWarning, diags[0].Severity)
	assert.Equal(t, "mlint", diags[0].Source)
	assert.Equal(t, 1, diags[0].Column)

	assert.Equal(t, "E001", diags[1].Code)
	assert.Equal(t, SeverityError, diags[1].Severity)

	assert.Equal(t, 12, diags[2].Line)
	assert.Empty(t, diags[2].Code)
	assert.Equal(t, SeverityWarning, diags[2].Severity)
	assert.Equal(t, "Value assigned but never used.", diags[2].Message)
}

func TestParseOutput_Empty(t *testing.T) {
	t.Parallel()
	assert.Empty(t, parseOutput(""))
	assert.Empty(t, parseOutput("==========\n\n"))
}

func TestMapSeverity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code string
		want string
	}{
		{"E123", SeverityError},
		{"FNDEF", SeverityError},
		{"C 5-10", SeverityWarning},
		{"WUNUSED", SeverityWarning},
		{"INFO1", SeverityInfo},
		{"XODD", SeverityWarning},
		{"", SeverityWarning},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, mapSeverity(tt.code), "code %q", tt.code)
	}
}

func TestAnalyzer_Unavailable(t *testing.T) {
	t.Parallel()

	a := New(Config{MlintPath: filepath.Join(t.TempDir(), "nope")})
	assert.False(t, a.Available())

	_, err := a.Analyze(context.Background(), "whatever.m")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestAnalyzer_MissingFile(t *testing.T) {
	t.Parallel()

	fake := writeFakeMlint(t, "")
	a := New(Config{MlintPath: fake})
	require.True(t, a.Available())

	_, err := a.Analyze(context.Background(), filepath.Join(t.TempDir(), "gone.m"))
	assert.ErrorContains(t, err, "file not found")
}

func TestAnalyzer_RunsFakeMlint(t *testing.T) {
	t.Parallel()

	fake := writeFakeMlint(t, `L 2 (NOPRT): Terminate statement with semicolon.
L 5: Unused variable.`)
	a := New(Config{MlintPath: fake, Timeout: 5 * time.Second})

	target := filepath.Join(t.TempDir(), "sample.m")
	require.NoError(t, os.WriteFile(target, []byte("x = 1\n"), 0o644))

	diags, err := a.Analyze(context.Background(), target)
	require.NoError(t, err)
	require.Len(t, diags, 2)
	assert.Equal(t, 2, diags[0].Line)
	assert.Equal(t, 5, diags[1].Line)
}

// writeFakeMlint creates a stand-in script that prints diagnostics to stderr
// and exits non-zero, the way mlint reports findings.
func writeFakeMlint(t *testing.T, output string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake mlint script requires a POSIX shell")
	}

	path := filepath.Join(t.TempDir(), "mlint")
	script := "#!/bin/sh\ncat >&2 <<'EOF'\n" + output + "\nEOF\nexit 1\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}
