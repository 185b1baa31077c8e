package fs

import (
	"fmt"
	"os"
	"path/filepath"

	logging "survival-dashboard/internal/infra/log"

	"go.uber.org/zap"
)

// SaveFile writes data to path through a temporary file and a rename, so a
// reader never sees a partially written file. Missing parent directories
// are created.
func SaveFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	tempFilePath := path + ".tmp"
	if err := os.WriteFile(tempFilePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	if err := os.Rename(tempFilePath, path); err != nil {
		os.Remove(tempFilePath)
		return fmt.Errorf("failed to rename temporary file to %s: %w", path, err)
	}

	logging.LogDebug("Saved file", zap.String("file", path), zap.Int("bytes", len(data)))
	return nil
}
