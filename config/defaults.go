// =============================================================================
// 📦 ClinicalFlow defaults
// =============================================================================
package config

import "time"

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		LLM:       DefaultLLMConfig(),
		Pipeline:  DefaultPipelineConfig(),
		Input:     DefaultInputConfig(),
		Output:    DefaultOutputConfig(),
		Database:  DefaultDatabaseConfig(),
		Log:       DefaultLogConfig(),
		Telemetry: DefaultTelemetryConfig(),
		Metrics:   DefaultMetricsConfig(),
	}
}

// DefaultLLMConfig returns the generation client defaults.
func DefaultLLMConfig() LLMConfig {
	return LLMConfig{
		Provider:       "gemini",
		Model:          "gemini-3-flash-preview",
		Temperature:    0.5,
		Timeout:        2 * time.Minute,
		RateLimitRPS:   0,
		RateLimitBurst: 1,
	}
}

// DefaultPipelineConfig returns the pipeline defaults.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		RetryLimit:    3,
		PromptVariant: "v2",
		PromptsDir:    "prompts",
		Concurrency:   1,
	}
}

// DefaultInputConfig returns the batch input defaults.
func DefaultInputConfig() InputConfig {
	return InputConfig{
		Dir:     "data/input",
		Pattern: "*.txt",
	}
}

// DefaultOutputConfig returns the report defaults.
func DefaultOutputConfig() OutputConfig {
	return OutputConfig{
		ResultsPath: "results.json",
	}
}

// DefaultDatabaseConfig returns the run history defaults. Disabled.
func DefaultDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Enabled:         false,
		Driver:          "sqlite",
		Host:            "localhost",
		Port:            5432,
		Name:            "clinicalflow.db",
		SSLMode:         "disable",
		MaxOpenConns:    10,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Hour,
	}
}

// DefaultLogConfig returns the logging defaults.
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:            "info",
		Format:           "console",
		OutputPaths:      []string{"stderr"},
		EnableCaller:     false,
		EnableStacktrace: false,
	}
}

// DefaultTelemetryConfig returns the telemetry defaults. Disabled.
func DefaultTelemetryConfig() TelemetryConfig {
	return TelemetryConfig{
		Enabled:      false,
		OTLPEndpoint: "localhost:4317",
		Insecure:     true,
		ServiceName:  "clinicalflow",
		SampleRate:   1.0,
	}
}

// DefaultMetricsConfig returns the Prometheus endpoint defaults. Disabled.
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Enabled:   false,
		Addr:      ":9091",
		Path:      "/metrics",
		Namespace: "clinicalflow",
	}
}
