package lint

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// findMlint searches for the mlint executable: the configured MATLAB
// installation first, then $PATH, then common installation roots.
func findMlint(matlabPath string) string {
	exe := "mlint"
	if runtime.GOOS == "windows" {
		exe = "mlint.exe"
	}

	if matlabPath != "" {
		if p := globFirst(
			filepath.Join(matlabPath, "bin", "*", exe),
			filepath.Join(matlabPath, "bin", exe),
		); p != "" {
			return p
		}
	}

	if p, err := exec.LookPath(exe); err == nil {
		return p
	}

	for _, root := range commonRoots() {
		if p := globFirst(
			filepath.Join(root, "*", "bin", "*", exe),
			filepath.Join(root, "*", "bin", exe),
			filepath.Join(root, "bin", "*", exe),
			filepath.Join(root, "bin", exe),
		); p != "" {
			return p
		}
	}
	return ""
}

func commonRoots() []string {
	switch runtime.GOOS {
	case "windows":
		return []string{
			`C:\Program Files\MATLAB`,
			`C:\Program Files (x86)\MATLAB`,
		}
	case "darwin":
		// Version-suffixed app bundles, newest sorted last by glob.
		matches, _ := filepath.Glob("/Applications/MATLAB_R*.app")
		return matches
	default:
		home, _ := os.UserHomeDir()
		return []string{
			"/usr/local/MATLAB",
			"/opt/MATLAB",
			filepath.Join(home, "MATLAB"),
		}
	}
}

// globFirst returns the first existing regular file matching any pattern.
func globFirst(patterns ...string) string {
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			continue
		}
		for _, m := range matches {
			if info, err := os.Stat(m); err == nil && !info.IsDir() {
				return m
			}
		}
	}
	return ""
}
