// Copyright (c) ClinicalFlow Authors.
// Licensed under the MIT License.

/*
Package llm defines the text-generation boundary used by the pipeline.

# Generator

[Generator] sends one prompt and returns the raw response text. A call never
retries: every failure is reported once as a [GenerationFailure] carrying a
[types.ErrorCode], the provider name and, when known, the HTTP status.
[ToGenerationFailure] normalizes arbitrary errors, mapping context
cancellation and deadlines to their own codes.

# Decorators

  - [RateLimited] shares a token bucket across every caller, so concurrent
    batch workers stay within the service quota.
  - [Instrumented] opens an OpenTelemetry span per call, logs failures and
    reports status and latency to a [Recorder].

Concrete providers live under llm/providers.
*/
package llm
