// Package telemetry installs the OpenTelemetry SDK for clinicalflow.
// Disabled configurations leave the noop globals in place.
package telemetry
