// Package metrics provides internal metrics collection.
// This package is internal and should not be imported by external projects.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// =============================================================================
// 📊 Collector
// =============================================================================

// Collector records pipeline, generation and storage metrics.
type Collector struct {
	// Pipeline
	pipelineRunsTotal   *prometheus.CounterVec
	correctionAttempts  prometheus.Histogram
	validationErrors    *prometheus.CounterVec
	pipelineRunDuration *prometheus.HistogramVec

	// Generation
	generationRequestsTotal   *prometheus.CounterVec
	generationRequestDuration *prometheus.HistogramVec

	// Run history store
	dbQueryDuration *prometheus.HistogramVec

	gatherer prometheus.Gatherer
	logger   *zap.Logger
}

// NewCollector registers the collector's metrics on the default registry.
func NewCollector(namespace string, logger *zap.Logger) *Collector {
	return NewCollectorWithRegistry(namespace, prometheus.DefaultRegisterer, prometheus.DefaultGatherer, logger)
}

// NewCollectorWithRegistry registers metrics on reg and exposes them from gatherer.
func NewCollectorWithRegistry(namespace string, reg prometheus.Registerer, gatherer prometheus.Gatherer, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	factory := promauto.With(reg)
	c := &Collector{
		gatherer: gatherer,
		logger:   logger.With(zap.String("component", "metrics")),
	}

	c.pipelineRunsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_runs_total",
			Help:      "Total number of pipeline runs by terminal outcome",
		},
		[]string{"outcome"}, // success, exhausted
	)

	c.correctionAttempts = factory.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_correction_attempts",
			Help:      "Correction attempts consumed per pipeline run",
			Buckets:   []float64{0, 1, 2, 3, 5, 8},
		},
	)

	c.pipelineRunDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_run_duration_seconds",
			Help:      "Pipeline run duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"outcome"},
	)

	c.validationErrors = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_errors_total",
			Help:      "Total number of validation errors by kind",
		},
		[]string{"kind"},
	)

	c.generationRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_requests_total",
			Help:      "Total number of generation requests",
		},
		[]string{"provider", "status"},
	)

	c.generationRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_request_duration_seconds",
			Help:      "Generation request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"provider"},
	)

	c.dbQueryDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "db_query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"database", "operation"},
	)

	c.logger.Info("metrics collector initialized", zap.String("namespace", namespace))

	return c
}

// =============================================================================
// 🔁 Pipeline
// =============================================================================

// RecordRun records one terminal pipeline run.
func (c *Collector) RecordRun(outcome string, attempts int, duration time.Duration) {
	c.pipelineRunsTotal.WithLabelValues(outcome).Inc()
	c.correctionAttempts.Observe(float64(attempts))
	c.pipelineRunDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// RecordValidationError counts one validation error of the given kind.
func (c *Collector) RecordValidationError(kind string) {
	c.validationErrors.WithLabelValues(kind).Inc()
}

// =============================================================================
// 🤖 Generation
// =============================================================================

// RecordGeneration records one generation call.
func (c *Collector) RecordGeneration(provider, status string, duration time.Duration) {
	c.generationRequestsTotal.WithLabelValues(provider, status).Inc()
	c.generationRequestDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// =============================================================================
// 🗄️ Database
// =============================================================================

// RecordDBQuery records a run history query.
func (c *Collector) RecordDBQuery(database, operation string, duration time.Duration) {
	c.dbQueryDuration.WithLabelValues(database, operation).Observe(duration.Seconds())
}

// =============================================================================
// 🌐 Exposition
// =============================================================================

// Handler serves the collector's registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}
