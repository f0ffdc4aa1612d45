package fsutil

import (
	"fmt"
	"os"
	"path/filepath"

	"presentmw/internal/logchan"
)

const (
	// DefaultStateDir is the default location for middleware state files
	// (idle query caches, crash markers).
	DefaultStateDir = "/var/lib/presentmw"
	// DefaultStatePermissions is the default permission for state directories.
	DefaultStatePermissions = 0o750
	// DefaultFilePermissions is the default permission for state files.
	DefaultFilePermissions = 0o600
)

// GetStateDir returns the state directory from environment or uses the
// provided default. It returns an absolute path when possible.
func GetStateDir(defaultDir string) string {
	if env := os.Getenv("PRESENTMW_STATE_DIR"); env != "" {
		if abs, err := filepath.Abs(env); err == nil {
			return abs
		}
		return env
	}
	return defaultDir
}

// EnsureStateDirectory creates the state directory if it doesn't exist,
// using DefaultStatePermissions.
func EnsureStateDirectory(path string) error {
	if err := os.MkdirAll(path, DefaultStatePermissions); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	return nil
}

// AtomicWriteFile writes data to a file atomically by first writing to a
// temp file and then renaming it to the target path, so the file is never
// observed partially written.
func AtomicWriteFile(path string, data []byte, perm os.FileMode, log *logchan.Channel) error {
	tmpPath := path + ".tmp"

	if err := os.WriteFile(tmpPath, data, perm); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		if removeErr := os.Remove(tmpPath); removeErr != nil && !os.IsNotExist(removeErr) {
			if log != nil {
				log.Warn("fsutil.cleanup_failed", "failed to remove temp file", map[string]interface{}{
					"path":  tmpPath,
					"error": removeErr.Error(),
				})
			}
		}
		return fmt.Errorf("failed to rename file: %w", err)
	}

	return nil
}

// CloseWithError closes a resource and logs any error if a channel is
// provided, for defer statements where close errors shouldn't interrupt
// control flow.
func CloseWithError(closer func() error, log *logchan.Channel, resource string) {
	if err := closer(); err != nil {
		if log != nil {
			log.Warn("fsutil.close_failed", fmt.Sprintf("failed to close %s", resource), map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
}
