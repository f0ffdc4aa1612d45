package config

import "fmt"

// Validate checks that the configuration's values are usable, returning
// every violation found rather than failing on the first.
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validatePipeNamePrefix()...)
	errors = append(errors, c.validateQuery()...)
	errors = append(errors, c.validateTelemetry()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

func (c *Config) validatePipeNamePrefix() []ValidationError {
	if c.PipeNamePrefix != "" {
		return nil
	}
	return []ValidationError{{Path: "pipe_name_prefix", Message: "must not be empty"}}
}

func (c *Config) validateQuery() []ValidationError {
	var errors []ValidationError

	if c.Query.DefaultWindowSizeMs <= 0 {
		errors = append(errors, ValidationError{
			Path:    "query.default_window_size_ms",
			Message: fmt.Sprintf("must be positive, got %f", c.Query.DefaultWindowSizeMs),
		})
	}
	if c.Query.CacheSize < 1 {
		errors = append(errors, ValidationError{
			Path:    "query.cache_size",
			Message: fmt.Sprintf("must be at least 1, got %d", c.Query.CacheSize),
		})
	}

	return errors
}

func (c *Config) validateTelemetry() []ValidationError {
	if c.Telemetry.SamplePeriodMs > 0 {
		return nil
	}
	return []ValidationError{{
		Path:    "telemetry.sample_period_ms",
		Message: fmt.Sprintf("must be positive, got %f", c.Telemetry.SamplePeriodMs),
	}}
}

func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError
	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, c.Logging.Level) {
		errors = append(errors, ValidationError{
			Path:    "logging.level",
			Message: fmt.Sprintf("must be one of %v, got %q", validLevels, c.Logging.Level),
		})
	}

	validFormats := []string{"json", "text"}
	if !contains(validFormats, c.Logging.Format) {
		errors = append(errors, ValidationError{
			Path:    "logging.format",
			Message: fmt.Sprintf("must be one of %v, got %q", validFormats, c.Logging.Format),
		})
	}

	return errors
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
