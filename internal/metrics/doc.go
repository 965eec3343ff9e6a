// Copyright (c) ClinicalFlow Authors.
// Licensed under the MIT License.

/*
Package metrics provides Prometheus metrics for pipeline runs, generation
calls and the run history store.

# Core types

  - Collector: holds the counter and histogram vectors. Metrics register on
    an injectable prometheus.Registerer; NewCollector uses the default one.

# Metrics

  - pipeline_runs_total{outcome}, pipeline_correction_attempts,
    pipeline_run_duration_seconds{outcome}
  - validation_errors_total{kind}
  - generation_requests_total{provider,status},
    generation_request_duration_seconds{provider}
  - db_query_duration_seconds{database,operation}

Handler exposes the registry over HTTP via promhttp.
*/
package metrics
