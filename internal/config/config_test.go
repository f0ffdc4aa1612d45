package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"PipeNamePrefix", cfg.PipeNamePrefix, `\\.\pipe\presentmw`},
		{"DefaultWindowSizeMs", cfg.Query.DefaultWindowSizeMs, 1000.0},
		{"DefaultMetricOffsetMs", cfg.Query.DefaultMetricOffsetMs, 0.0},
		{"CacheSize", cfg.Query.CacheSize, 64},
		{"SamplePeriodMs", cfg.Telemetry.SamplePeriodMs, 16.0},
		{"LogLevel", cfg.Logging.Level, "info"},
		{"LogFormat", cfg.Logging.Format, "json"},
		{"LogOutput", cfg.Logging.Output, "stderr"},
		{"PreferredIndex", cfg.Adapter.PreferredIndex, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("DefaultConfig().%s = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}
}

func TestValidation_ValidConfig(t *testing.T) {
	cfg := DefaultConfig()
	errors := cfg.Validate()

	if len(errors) != 0 {
		t.Errorf("Validate() on default config returned errors: %v", errors)
	}
}

func TestValidation_EmptyPipeNamePrefix(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PipeNamePrefix = ""

	errors := cfg.Validate()
	if len(errors) == 0 {
		t.Error("Validate() should return error for empty pipe_name_prefix")
	}
}

func TestValidation_WindowSizeNotPositive(t *testing.T) {
	tests := []struct {
		name string
		ms   float64
	}{
		{"zero", 0},
		{"negative", -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Query.DefaultWindowSizeMs = tt.ms

			errors := cfg.Validate()
			if len(errors) == 0 {
				t.Errorf("Validate() should return error for window size %v", tt.ms)
			}
		})
	}
}

func TestValidation_CacheSizeTooSmall(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Query.CacheSize = 0

	errors := cfg.Validate()
	if len(errors) == 0 {
		t.Error("Validate() should return error for cache_size < 1")
	}
}

func TestValidation_SamplePeriodNotPositive(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Telemetry.SamplePeriodMs = 0

	errors := cfg.Validate()
	if len(errors) == 0 {
		t.Error("Validate() should return error for sample_period_ms <= 0")
	}
}

func TestValidation_InvalidLogLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Level = "trace"

	errors := cfg.Validate()
	if len(errors) == 0 {
		t.Error("Validate() should return error for invalid log level")
	}
}

func TestValidation_InvalidLogFormat(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Format = "xml"

	errors := cfg.Validate()
	if len(errors) == 0 {
		t.Error("Validate() should return error for invalid log format")
	}
}

func TestLoadFrom_ValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
pipe_name_prefix: '\\.\pipe\presentmw_test'
query:
  default_window_size_ms: 2000
telemetry:
  sample_period_ms: 8
logging:
  level: debug
`
	if err := os.WriteFile(configPath, []byte(configContent), 0o600); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.PipeNamePrefix != `\\.\pipe\presentmw_test` {
		t.Errorf("PipeNamePrefix = %s, want override", cfg.PipeNamePrefix)
	}
	if cfg.Query.DefaultWindowSizeMs != 2000 {
		t.Errorf("DefaultWindowSizeMs = %f, want 2000", cfg.Query.DefaultWindowSizeMs)
	}
	if cfg.Telemetry.SamplePeriodMs != 8 {
		t.Errorf("SamplePeriodMs = %f, want 8", cfg.Telemetry.SamplePeriodMs)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("LogLevel = %s, want debug", cfg.Logging.Level)
	}

	// Defaults preserved for unspecified fields.
	if cfg.Query.CacheSize != 64 {
		t.Errorf("CacheSize = %d, want 64 (default)", cfg.Query.CacheSize)
	}
}

func TestLoadFrom_InvalidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	invalidContent := `
logging:
  level: nonsense
`
	if err := os.WriteFile(configPath, []byte(invalidContent), 0o600); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	_, err := LoadFrom(configPath)
	if err == nil {
		t.Error("LoadFrom() should return error for invalid config")
	}
}

func TestLoadFrom_NonexistentFile(t *testing.T) {
	_, err := LoadFrom("/nonexistent/config.yaml")
	if err == nil {
		t.Error("LoadFrom() should return error for nonexistent file")
	}
}

func TestLoadFrom_MalformedYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	malformedContent := `
pipe_name_prefix: foo
  invalid_indentation: value
`
	if err := os.WriteFile(configPath, []byte(malformedContent), 0o600); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	_, err := LoadFrom(configPath)
	if err == nil {
		t.Error("LoadFrom() should return error for malformed YAML")
	}
}

func TestMergeConfig(t *testing.T) {
	dst := DefaultConfig()

	src := Config{
		PipeNamePrefix: `\\.\pipe\presentmw_other`,
		Query: QueryConfig{
			DefaultWindowSizeMs: 500,
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}

	mergeConfig(&dst, &src)

	if dst.PipeNamePrefix != `\\.\pipe\presentmw_other` {
		t.Errorf("PipeNamePrefix = %s, want override", dst.PipeNamePrefix)
	}
	if dst.Query.DefaultWindowSizeMs != 500 {
		t.Errorf("DefaultWindowSizeMs = %f, want 500", dst.Query.DefaultWindowSizeMs)
	}
	if dst.Logging.Level != "warn" {
		t.Errorf("LogLevel = %s, want warn", dst.Logging.Level)
	}

	// Unspecified fields keep their defaults.
	if dst.Query.CacheSize != 64 {
		t.Errorf("CacheSize = %d, want 64 (default)", dst.Query.CacheSize)
	}
	if dst.Logging.Format != "json" {
		t.Errorf("LogFormat = %s, want json (default)", dst.Logging.Format)
	}
}

func TestSystemConfigPath(t *testing.T) {
	path := SystemConfigPath()
	if path == "" {
		t.Error("SystemConfigPath() should not return empty string")
	}
	if filepath.Base(path) != "config.yaml" {
		t.Errorf("SystemConfigPath() basename = %s, want config.yaml", filepath.Base(path))
	}
}

func TestUserConfigPath(t *testing.T) {
	path := UserConfigPath()
	if path != "" && filepath.Base(path) != "config.yaml" {
		t.Errorf("UserConfigPath() basename = %s, want config.yaml", filepath.Base(path))
	}
}

func TestValidationError_Error(t *testing.T) {
	err := ValidationError{
		Path:    "query.cache_size",
		Message: "must be at least 1",
	}

	expected := "query.cache_size: must be at least 1"
	if err.Error() != expected {
		t.Errorf("ValidationError.Error() = %s, want %s", err.Error(), expected)
	}
}

func TestFormatValidationErrors_Single(t *testing.T) {
	errors := []ValidationError{
		{Path: "test.field", Message: "error message"},
	}

	result := formatValidationErrors(errors)
	expected := "test.field: error message"
	if result != expected {
		t.Errorf("formatValidationErrors() = %s, want %s", result, expected)
	}
}

func TestFormatValidationErrors_Multiple(t *testing.T) {
	errors := []ValidationError{
		{Path: "field1", Message: "error 1"},
		{Path: "field2", Message: "error 2"},
	}

	result := formatValidationErrors(errors)
	if result == "" {
		t.Error("formatValidationErrors() should not return empty string for multiple errors")
	}
	if len(result) < 10 {
		t.Errorf("formatValidationErrors() result too short: %s", result)
	}
}

func TestFormatValidationErrors_Empty(t *testing.T) {
	result := formatValidationErrors([]ValidationError{})
	if result != "" {
		t.Errorf("formatValidationErrors() = %s, want empty string", result)
	}
}
