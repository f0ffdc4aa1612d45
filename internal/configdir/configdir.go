package configdir

import (
	"os"
	"path/filepath"
)

const defaultConfigDir = "/etc/presentmw"

// ConfigDir resolves the configuration directory, respecting the
// PRESENTMW_CONFIG_DIR override.
func ConfigDir() string {
	if env := os.Getenv("PRESENTMW_CONFIG_DIR"); env != "" {
		if abs, err := filepath.Abs(env); err == nil {
			return abs
		}
	}
	return defaultConfigDir
}
