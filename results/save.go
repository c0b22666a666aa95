package results

import (
	"fmt"
	"os"
	"path/filepath"
)

// Save writes the raw results page to a new file in dir (the system temp
// directory when dir is empty) and returns its path.
func Save(dir, html string) (string, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create results directory: %w", err)
	}

	f, err := os.CreateTemp(dir, "results-*.html")
	if err != nil {
		return "", fmt.Errorf("failed to create results file: %w", err)
	}
	if _, err := f.WriteString(html); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write results: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return filepath.Clean(f.Name()), nil
}

// WriteFile writes the raw results page to path
func WriteFile(path, html string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create results directory: %w", err)
		}
	}
	return os.WriteFile(path, []byte(html), 0644)
}
