package config

// Config is the complete middleware configuration: shared-memory/pipe
// naming, the dynamic-query clock-alignment defaults, the telemetry
// sampler's period, logging, and adapter selection.
type Config struct {
	PipeNamePrefix string          `yaml:"pipe_name_prefix"`
	Query          QueryConfig     `yaml:"query"`
	Telemetry      TelemetryConfig `yaml:"telemetry"`
	Logging        LoggingConfig   `yaml:"logging"`
	Adapter        AdapterConfig   `yaml:"adapter"`
}

// QueryConfig holds the §4.6 dynamic-query defaults as loaded and
// validated from the config files. RegisterDynamicQuery takes its window
// and offset only from its own arguments and does not read these values.
type QueryConfig struct {
	DefaultWindowSizeMs   float64 `yaml:"default_window_size_ms"`
	DefaultMetricOffsetMs float64 `yaml:"default_metric_offset_ms"`
	CacheSize             int     `yaml:"cache_size"`
}

// TelemetryConfig controls the async GPU/CPU power-telemetry sampler.
type TelemetryConfig struct {
	SamplePeriodMs float64 `yaml:"sample_period_ms"`
}

// LoggingConfig selects the logchan.Channel's minimum level and sink path.
// Format is validated ("json" or "text") but not applied: both shipped
// drivers always write JSON lines.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// AdapterConfig names which GPU the adapter catalog should select at
// startup.
type AdapterConfig struct {
	PreferredIndex int `yaml:"preferred_index"`
}

// ValidationError describes one field that failed Validate.
type ValidationError struct {
	Path    string
	Message string
}

func (e ValidationError) Error() string {
	return e.Path + ": " + e.Message
}
