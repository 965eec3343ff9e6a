package config

import (
	"fmt"
	"strings"

	"github.com/BaSui01/clinicalflow/structured"
	"github.com/BaSui01/clinicalflow/types"
)

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate checks every setting and reports all problems at once.
func (c *Config) Validate() error {
	var errs []string

	if c.LLM.Provider != "gemini" {
		errs = append(errs, fmt.Sprintf("unsupported llm provider %q", c.LLM.Provider))
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		errs = append(errs, "llm temperature must be between 0 and 2")
	}
	if c.LLM.Timeout <= 0 {
		errs = append(errs, "llm timeout must be positive")
	}
	if c.LLM.RateLimitRPS < 0 {
		errs = append(errs, "llm rate_limit_rps must not be negative")
	}

	if c.Pipeline.RetryLimit < 0 {
		errs = append(errs, "pipeline retry_limit must not be negative")
	}
	if c.Pipeline.Concurrency < 1 {
		errs = append(errs, "pipeline concurrency must be at least 1")
	}
	if !structured.IsKnownVariant(c.Pipeline.PromptVariant) {
		errs = append(errs, fmt.Sprintf("unknown prompt variant %q (want one of %s)",
			c.Pipeline.PromptVariant, strings.Join(structured.Variants(), ", ")))
	}

	if c.Database.Enabled {
		switch c.Database.Driver {
		case "sqlite", "postgres":
		default:
			errs = append(errs, fmt.Sprintf("unsupported database driver %q", c.Database.Driver))
		}
		if c.Database.Name == "" {
			errs = append(errs, "database name is required")
		}
	}

	if !validLogLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("invalid log level %q", c.Log.Level))
	}
	if c.Telemetry.SampleRate < 0 || c.Telemetry.SampleRate > 1 {
		errs = append(errs, "telemetry sample_rate must be between 0 and 1")
	}
	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		errs = append(errs, "metrics addr is required when metrics are enabled")
	}

	if len(errs) > 0 {
		return types.NewError(types.ErrInvalidConfig, "config validation errors: "+strings.Join(errs, "; "))
	}
	return nil
}

// RequireAPIKey is a validator for commands that call the model.
func RequireAPIKey(c *Config) error {
	if strings.TrimSpace(c.LLM.APIKey) == "" {
		return types.NewError(types.ErrInvalidConfig,
			fmt.Sprintf("llm api_key is not set (configure llm.api_key or export %s)", APIKeyEnv))
	}
	return nil
}
