// Copyright (c) ClinicalFlow Authors.
// Licensed under the MIT License.

// Package config loads clinicalflow settings from defaults, an optional YAML
// file and CLINICALFLOW_* environment variables, in that order of priority.
// GOOGLE_API_KEY is honoured when no API key is configured.
package config
