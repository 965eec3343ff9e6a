package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/BaSui01/clinicalflow/config"
	"github.com/BaSui01/clinicalflow/internal/database"
	"github.com/BaSui01/clinicalflow/internal/metrics"
	"github.com/BaSui01/clinicalflow/internal/server"
	"github.com/BaSui01/clinicalflow/internal/telemetry"
	"github.com/BaSui01/clinicalflow/llm"
	"github.com/BaSui01/clinicalflow/llm/providers/gemini"
	"github.com/BaSui01/clinicalflow/pipeline"
	"github.com/BaSui01/clinicalflow/results"
	"github.com/BaSui01/clinicalflow/structured"
)

// newGenerator builds the oracle client. Tests replace it.
var newGenerator = func(ctx context.Context, cfg config.LLMConfig, logger *zap.Logger) (llm.Generator, error) {
	return gemini.New(ctx, gemini.Config{
		APIKey:      cfg.APIKey,
		Model:       cfg.Model,
		Temperature: genai.Ptr(float32(cfg.Temperature)),
		Timeout:     cfg.Timeout,
	}, logger)
}

// app holds the wired components of one command invocation.
type app struct {
	cfg        *config.Config
	logger     *zap.Logger
	collector  *metrics.Collector
	telemetry  *telemetry.Providers
	metricsSrv *server.Manager
	pool       *database.PoolManager
	store      *results.Store
	machine    *pipeline.Machine
}

// loadConfig loads the file and environment, applies flag overrides and
// validates the result. requireKey adds the API key check.
func loadConfig(flags *rootFlags, requireKey bool) (*config.Config, error) {
	cfg, err := config.NewLoader().WithConfigPath(flags.configPath).Load()
	if err != nil {
		return nil, err
	}
	if flags.prompt != "" {
		cfg.Pipeline.PromptVariant = flags.prompt
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if requireKey {
		if err := config.RequireAPIKey(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// newApp wires logging, telemetry, metrics and the optional history store.
// The pipeline machine is built only when withPipeline is set.
func newApp(ctx context.Context, cfg *config.Config, withPipeline bool) (*app, error) {
	logger := initLogger(cfg.Log)
	a := &app{cfg: cfg, logger: logger}

	logger.Info("starting clinicalflow",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit),
	)

	providers, err := telemetry.Init(ctx, cfg.Telemetry, Version, logger)
	if err != nil {
		logger.Warn("failed to initialize telemetry", zap.Error(err))
	}
	a.telemetry = providers

	reg := prometheus.NewRegistry()
	a.collector = metrics.NewCollectorWithRegistry(cfg.Metrics.Namespace, reg, reg, logger)
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, a.collector.Handler())
		srv := server.NewManager(mux, server.Config{Addr: cfg.Metrics.Addr}, logger)
		if err := srv.Start(); err != nil {
			logger.Warn("metrics endpoint disabled", zap.Error(err))
		} else {
			a.metricsSrv = srv
		}
	}

	if cfg.Database.Enabled {
		a.openStore(ctx)
	}

	if withPipeline {
		gen, err := newGenerator(ctx, cfg.LLM, logger)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to create generator: %w", err)
		}
		gen = llm.RateLimited(gen, cfg.LLM.RateLimitRPS, cfg.LLM.RateLimitBurst)
		gen = llm.Instrumented(gen, a.collector, logger)

		a.machine = pipeline.New(gen,
			structured.NewDirPromptSource(cfg.Pipeline.PromptsDir, logger),
			pipeline.WithRetryLimit(cfg.Pipeline.RetryLimit),
			pipeline.WithVariant(cfg.Pipeline.PromptVariant),
			pipeline.WithObserver(a.collector),
			pipeline.WithLogger(logger),
		)
	}
	return a, nil
}

// openStore connects the history store. Failures disable persistence and
// are logged; the pipeline still runs.
func (a *app) openStore(ctx context.Context) {
	pool, err := database.Open(a.cfg.Database, a.logger)
	if err != nil {
		a.logger.Warn("database not available, run history disabled", zap.Error(err))
		return
	}
	store := results.NewStore(pool, a.collector, a.logger)
	if err := store.Migrate(ctx); err != nil {
		a.logger.Error("run history migration failed", zap.Error(err))
		_ = pool.Close()
		return
	}
	a.pool = pool
	a.store = store
}

// persist saves results when the history store is enabled.
func (a *app) persist(ctx context.Context, runID string, res []pipeline.Result) {
	if a.store == nil {
		return
	}
	if err := a.store.Save(ctx, runID, a.machine.Variant(), res); err != nil {
		a.logger.Error("failed to persist run history", zap.String("run_id", runID), zap.Error(err))
	}
}

// Close releases every component in reverse wiring order.
func (a *app) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if a.pool != nil {
		if err := a.pool.Close(); err != nil {
			a.logger.Error("database close error", zap.Error(err))
		}
	}
	if a.metricsSrv != nil {
		if err := a.metricsSrv.Shutdown(ctx); err != nil {
			a.logger.Error("metrics server shutdown error", zap.Error(err))
		}
	}
	if a.telemetry != nil {
		if err := a.telemetry.Shutdown(ctx); err != nil {
			a.logger.Error("telemetry shutdown error", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
