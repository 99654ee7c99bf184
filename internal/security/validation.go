// Package security provides validation for executables razer-x-color is
// asked to launch.
package security

import (
	"fmt"
	"os"
	"path/filepath"
)

// ValidateExecutable checks that path names a regular, executable file
// that other users cannot modify, and returns its cleaned absolute form.
func ValidateExecutable(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("empty executable path")
	}

	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("invalid executable path: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("executable not found: %w", err)
	}

	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%s is not a regular file", abs)
	}

	perm := info.Mode().Perm()
	if perm&0o111 == 0 {
		return "", fmt.Errorf("%s is not executable", abs)
	}

	// A world-writable binary could be swapped out by any local user.
	if perm&0o002 != 0 {
		return "", fmt.Errorf("%s is world-writable, refusing to run it", abs)
	}

	return abs, nil
}
