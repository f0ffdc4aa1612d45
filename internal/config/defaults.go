package config

// DefaultConfig returns the configuration a fresh install runs with.
func DefaultConfig() Config {
	return Config{
		PipeNamePrefix: `\\.\pipe\presentmw`,
		Query: QueryConfig{
			DefaultWindowSizeMs:   1000,
			DefaultMetricOffsetMs: 0,
			CacheSize:             64,
		},
		Telemetry: TelemetryConfig{
			SamplePeriodMs: 16,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stderr",
		},
		Adapter: AdapterConfig{
			PreferredIndex: 0,
		},
	}
}
