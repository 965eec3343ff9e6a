// Copyright (c) ClinicalFlow Authors.
// Licensed under the MIT License.

/*
Package server manages the lifecycle of the background HTTP endpoint that
exposes Prometheus metrics.

Manager wraps net/http.Server: Start listens and serves without blocking,
Shutdown drains in-flight scrapes within the configured timeout, and
Errors reports failures from the serve goroutine.
*/
package server
