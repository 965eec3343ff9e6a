package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/clinicalflow/types"
)

// --- Loader ---

func TestLoader_LoadDefaults(t *testing.T) {
	t.Setenv(APIKeyEnv, "")
	cfg, err := NewLoader().Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "gemini-3-flash-preview", cfg.LLM.Model)
	assert.Equal(t, 3, cfg.Pipeline.RetryLimit)
	assert.Empty(t, cfg.LLM.APIKey)
}

func TestLoader_LoadFromYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "clinicalflow.yaml")

	yamlContent := `
llm:
  api_key: "yaml-key"
  model: "gemini-2.5-pro"
  temperature: 0.2
  timeout: 45s
  rate_limit_rps: 2.5

pipeline:
  retry_limit: 5
  prompt_variant: v1
  prompts_dir: /etc/clinicalflow/prompts
  concurrency: 4

input:
  dir: /data/casos

output:
  results_path: /tmp/out.json

database:
  enabled: true
  driver: postgres
  host: db.internal
  name: clinical

log:
  level: debug
  format: json
  output_paths: ["stdout", "/var/log/clinicalflow.log"]

metrics:
  enabled: true
  addr: ":9100"
`
	require.NoError(t, os.WriteFile(configPath, []byte(yamlContent), 0o644))

	cfg, err := NewLoader().WithConfigPath(configPath).Load()
	require.NoError(t, err)

	assert.Equal(t, "yaml-key", cfg.LLM.APIKey)
	assert.Equal(t, "gemini-2.5-pro", cfg.LLM.Model)
	assert.Equal(t, 0.2, cfg.LLM.Temperature)
	assert.Equal(t, 45*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 2.5, cfg.LLM.RateLimitRPS)

	assert.Equal(t, 5, cfg.Pipeline.RetryLimit)
	assert.Equal(t, "v1", cfg.Pipeline.PromptVariant)
	assert.Equal(t, "/etc/clinicalflow/prompts", cfg.Pipeline.PromptsDir)
	assert.Equal(t, 4, cfg.Pipeline.Concurrency)

	assert.Equal(t, "/data/casos", cfg.Input.Dir)
	assert.Equal(t, "*.txt", cfg.Input.Pattern, "unset keys keep their defaults")
	assert.Equal(t, "/tmp/out.json", cfg.Output.ResultsPath)

	assert.True(t, cfg.Database.Enabled)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 5432, cfg.Database.Port)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, []string{"stdout", "/var/log/clinicalflow.log"}, cfg.Log.OutputPaths)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, ":9100", cfg.Metrics.Addr)
}

func TestLoader_ZeroTemperatureIsKept(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "clinicalflow.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("llm:\n  temperature: 0\n"), 0o644))

	cfg, err := NewLoader().WithConfigPath(configPath).Load()
	require.NoError(t, err)
	assert.Zero(t, cfg.LLM.Temperature)
	assert.NoError(t, cfg.Validate())
}

func TestLoader_LoadFromEnv(t *testing.T) {
	t.Setenv("CLINICALFLOW_LLM_MODEL", "gemini-env")
	t.Setenv("CLINICALFLOW_LLM_TIMEOUT", "30s")
	t.Setenv("CLINICALFLOW_LLM_TEMPERATURE", "1.1")
	t.Setenv("CLINICALFLOW_PIPELINE_RETRY_LIMIT", "7")
	t.Setenv("CLINICALFLOW_PIPELINE_CONCURRENCY", "8")
	t.Setenv("CLINICALFLOW_DATABASE_ENABLED", "true")
	t.Setenv("CLINICALFLOW_LOG_OUTPUT_PATHS", "stdout, stderr")

	cfg, err := NewLoader().Load()
	require.NoError(t, err)

	assert.Equal(t, "gemini-env", cfg.LLM.Model)
	assert.Equal(t, 30*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 1.1, cfg.LLM.Temperature)
	assert.Equal(t, 7, cfg.Pipeline.RetryLimit)
	assert.Equal(t, 8, cfg.Pipeline.Concurrency)
	assert.True(t, cfg.Database.Enabled)
	assert.Equal(t, []string{"stdout", "stderr"}, cfg.Log.OutputPaths)
}

func TestLoader_EnvOverridesYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("pipeline:\n  retry_limit: 2\n  prompt_variant: v0\n"), 0o644))
	t.Setenv("CLINICALFLOW_PIPELINE_RETRY_LIMIT", "4")

	cfg, err := NewLoader().WithConfigPath(configPath).Load()
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Pipeline.RetryLimit)
	assert.Equal(t, "v0", cfg.Pipeline.PromptVariant)
}

func TestLoader_APIKeyFallback(t *testing.T) {
	t.Run("google env used when unset", func(t *testing.T) {
		t.Setenv(APIKeyEnv, "google-key")
		cfg, err := NewLoader().Load()
		require.NoError(t, err)
		assert.Equal(t, "google-key", cfg.LLM.APIKey)
	})

	t.Run("prefixed env wins", func(t *testing.T) {
		t.Setenv(APIKeyEnv, "google-key")
		t.Setenv("CLINICALFLOW_LLM_API_KEY", "own-key")
		cfg, err := NewLoader().Load()
		require.NoError(t, err)
		assert.Equal(t, "own-key", cfg.LLM.APIKey)
	})
}

func TestLoader_CustomEnvPrefix(t *testing.T) {
	t.Setenv("CF_PIPELINE_PROMPT_VARIANT", "v1")

	cfg, err := NewLoader().WithEnvPrefix("CF").Load()
	require.NoError(t, err)
	assert.Equal(t, "v1", cfg.Pipeline.PromptVariant)
}

func TestLoader_WithValidator(t *testing.T) {
	t.Setenv(APIKeyEnv, "")

	_, err := NewLoader().WithValidator(RequireAPIKey).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), APIKeyEnv)
	assert.True(t, types.IsErrorCode(err, types.ErrInvalidConfig))

	t.Setenv(APIKeyEnv, "k")
	cfg, err := NewLoader().
		WithValidator(RequireAPIKey).
		WithValidator(func(c *Config) error { return c.Validate() }).
		Load()
	require.NoError(t, err)
	assert.Equal(t, "k", cfg.LLM.APIKey)
}

func TestLoader_NonExistentFile(t *testing.T) {
	cfg, err := NewLoader().WithConfigPath("/nonexistent/clinicalflow.yaml").Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultPipelineConfig(), cfg.Pipeline)
}

func TestLoader_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("pipeline: [unclosed"), 0o644))

	_, err := NewLoader().WithConfigPath(configPath).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoader_InvalidEnvValue(t *testing.T) {
	t.Setenv("CLINICALFLOW_PIPELINE_RETRY_LIMIT", "three")

	_, err := NewLoader().Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CLINICALFLOW_PIPELINE_RETRY_LIMIT")
}

// --- Validate ---

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr []string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "zero retries allowed", mutate: func(c *Config) { c.Pipeline.RetryLimit = 0 }},
		{
			name:    "negative retries",
			mutate:  func(c *Config) { c.Pipeline.RetryLimit = -1 },
			wantErr: []string{"retry_limit"},
		},
		{
			name:    "temperature out of range",
			mutate:  func(c *Config) { c.LLM.Temperature = 2.5 },
			wantErr: []string{"temperature"},
		},
		{
			name:    "unknown variant",
			mutate:  func(c *Config) { c.Pipeline.PromptVariant = "v9" },
			wantErr: []string{`unknown prompt variant "v9"`},
		},
		{
			name:    "unsupported driver",
			mutate:  func(c *Config) { c.Database.Enabled = true; c.Database.Driver = "mysql" },
			wantErr: []string{`unsupported database driver "mysql"`},
		},
		{
			name: "all problems reported together",
			mutate: func(c *Config) {
				c.Pipeline.Concurrency = 0
				c.Log.Level = "verbose"
				c.LLM.Provider = "openai"
				c.Telemetry.SampleRate = 2
			},
			wantErr: []string{"concurrency", `invalid log level "verbose"`, `unsupported llm provider "openai"`, "sample_rate"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if len(tt.wantErr) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, types.IsErrorCode(err, types.ErrInvalidConfig))
			for _, want := range tt.wantErr {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	tests := []struct {
		name   string
		config DatabaseConfig
		want   string
	}{
		{
			name:   "postgres",
			config: DatabaseConfig{Driver: "postgres", Host: "db", Port: 5432, User: "u", Password: "p", Name: "clinical", SSLMode: "disable"},
			want:   "host=db port=5432 user=u password=p dbname=clinical sslmode=disable",
		},
		{
			name:   "sqlite",
			config: DatabaseConfig{Driver: "sqlite", Name: "history.db"},
			want:   "history.db",
		},
		{
			name:   "unknown",
			config: DatabaseConfig{Driver: "oracle"},
			want:   "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.config.DSN())
		})
	}
}
