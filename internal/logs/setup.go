package logs

import (
	"fmt"
	"os"
	"path/filepath"

	"linkcheckmcp.dev/internal/dirs"
)

// DefaultFileName is the log file written under dirs.LogDir.
const DefaultFileName = "link-checker.log"

// Setup initializes the log directory structure.
// Creates the log directory and a .gitignore file in the state dir so the
// whole state dir stays out of version control.
func Setup() error {
	if err := os.MkdirAll(dirs.LogDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	gitignorePath := filepath.Join(dirs.StateDir, ".gitignore")
	if _, err := os.Stat(gitignorePath); os.IsNotExist(err) {
		if err := os.WriteFile(gitignorePath, []byte("*\n"), 0644); err != nil {
			return fmt.Errorf("failed to create .gitignore: %w", err)
		}
	}

	return nil
}

// DefaultLogPath returns the log file used when log.file is not configured.
func DefaultLogPath() string {
	return filepath.Join(dirs.LogDir, DefaultFileName)
}
