package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/danieljhkim/thirdparty/internal/reactor"
)

// ErrNoProject is returned by Discover when no parent directory holds a project marker.
var ErrNoProject = errors.New("no thirdparty project found")

// Discover finds the project directory by walking up from cwd until a
// directory contains the config file or the default build manifest.
func Discover(cwd string) (string, error) {
	absPath, err := filepath.Abs(cwd)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	current := absPath
	for {
		for _, marker := range []string{FileName, reactor.DefaultManifest} {
			if info, err := os.Stat(filepath.Join(current, marker)); err == nil && info.Mode().IsRegular() {
				return current, nil
			}
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", fmt.Errorf("%w in %s or its parents", ErrNoProject, absPath)
		}
		current = parent
	}
}
