package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"presentmw/internal/configdir"
)

const (
	systemConfigFile = "config.yaml"
	userConfigDir    = ".presentmw"
	userConfigFile   = "config.yaml"
)

// Load loads and merges configuration from system and user files,
// defaults first, then system config, then user config.
func Load() (Config, error) {
	cfg := DefaultConfig()

	systemPath := filepath.Join(configdir.ConfigDir(), systemConfigFile)
	if err := mergeConfigFile(&cfg, systemPath); err != nil {
		if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("failed to load system config: %w", err)
		}
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		userPath := filepath.Join(homeDir, userConfigDir, userConfigFile)
		if err := mergeConfigFile(&cfg, userPath); err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("failed to load user config: %w", err)
			}
		}
	}

	if validationErrors := cfg.Validate(); len(validationErrors) > 0 {
		return cfg, fmt.Errorf("config.validation.error: %v", formatValidationErrors(validationErrors))
	}

	return cfg, nil
}

// LoadFrom loads configuration from a specific file path, skipping the
// system/user search Load performs.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()
	if err := mergeConfigFile(&cfg, path); err != nil {
		return cfg, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	if validationErrors := cfg.Validate(); len(validationErrors) > 0 {
		return cfg, fmt.Errorf("config.validation.error: %v", formatValidationErrors(validationErrors))
	}

	return cfg, nil
}

func mergeConfigFile(cfg *Config, path string) error {
	data, err := os.ReadFile(filepath.Clean(path)) // #nosec G304 -- path is constructed from trusted sources
	if err != nil {
		return err
	}

	var overlay Config
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	mergeConfig(cfg, &overlay)
	return nil
}

// mergeConfig overwrites dst's fields with src's non-zero fields.
// Zero-valued overlay fields are treated as "not set" rather than "set to
// zero", so an overlay cannot put a field back to 0 (or "") once an earlier
// layer has set it.
func mergeConfig(dst, src *Config) {
	if src.PipeNamePrefix != "" {
		dst.PipeNamePrefix = src.PipeNamePrefix
	}

	if src.Query.DefaultWindowSizeMs != 0 {
		dst.Query.DefaultWindowSizeMs = src.Query.DefaultWindowSizeMs
	}
	if src.Query.DefaultMetricOffsetMs != 0 {
		dst.Query.DefaultMetricOffsetMs = src.Query.DefaultMetricOffsetMs
	}
	if src.Query.CacheSize != 0 {
		dst.Query.CacheSize = src.Query.CacheSize
	}

	if src.Telemetry.SamplePeriodMs != 0 {
		dst.Telemetry.SamplePeriodMs = src.Telemetry.SamplePeriodMs
	}

	if src.Logging.Level != "" {
		dst.Logging.Level = src.Logging.Level
	}
	if src.Logging.Format != "" {
		dst.Logging.Format = src.Logging.Format
	}
	if src.Logging.Output != "" {
		dst.Logging.Output = src.Logging.Output
	}

	if src.Adapter.PreferredIndex != 0 {
		dst.Adapter.PreferredIndex = src.Adapter.PreferredIndex
	}
}

func formatValidationErrors(errors []ValidationError) string {
	if len(errors) == 0 {
		return ""
	}
	if len(errors) == 1 {
		return errors[0].Error()
	}
	result := fmt.Sprintf("%d validation errors:\n", len(errors))
	for _, err := range errors {
		result += "  - " + err.Error() + "\n"
	}
	return result
}

// SystemConfigPath returns the path to the system configuration file.
func SystemConfigPath() string {
	return filepath.Join(configdir.ConfigDir(), systemConfigFile)
}

// UserConfigPath returns the path to the user configuration file.
func UserConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, userConfigDir, userConfigFile)
}
