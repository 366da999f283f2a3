// Package observability wires OpenTelemetry tracing and metrics for the
// voicenotes daemon.
//
// Both signals are off unless enabled in config:
//
//	observability:
//	  tracing: true
//	  metrics: true
//	  endpoint: localhost:4318
//
// Backend calls run inside spans (StartSpan/EndSpan); the recording
// controller counts recordings and saved transcriptions through Metrics.
package observability
