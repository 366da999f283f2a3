package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/voicenotes/logger"
)

// InitMeter installs a global meter provider exporting over OTLP/HTTP.
// The caller shuts the returned provider down on exit.
func InitMeter(ctx context.Context, cfg Config, svc ServiceInfo) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(svc)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if cfg.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", svc.Name,
		"endpoint", cfg.Endpoint,
		"interval", cfg.Interval.String(),
	))
	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Recording lifecycle events counted by Metrics.
const (
	EventRecordingStarted    = "recording_started"
	EventStartRejected       = "start_rejected"
	EventTranscriptionSaved  = "transcription_saved"
	EventTranscriptionEmpty  = "transcription_empty"
	EventTranscriptionFailed = "transcription_failed"
)

// Metrics holds the daemon's instruments.
type Metrics struct {
	recordingEvents metric.Int64Counter
	backendCalls    metric.Int64Counter
	backendDuration metric.Float64Histogram
	entriesAppended metric.Int64Counter
}

// NewMetrics creates the instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	recordingEvents, err := meter.Int64Counter("voicenotes.recording.events",
		metric.WithDescription("Recording lifecycle events by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating recording.events counter: %w", err)
	}

	backendCalls, err := meter.Int64Counter("voicenotes.backend.calls",
		metric.WithDescription("Calls to the transcription backend"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating backend.calls counter: %w", err)
	}

	backendDuration, err := meter.Float64Histogram("voicenotes.backend.duration",
		metric.WithDescription("Duration of backend calls in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating backend.duration histogram: %w", err)
	}

	entriesAppended, err := meter.Int64Counter("voicenotes.vault.entries",
		metric.WithDescription("Transcription entries appended to the vault"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating vault.entries counter: %w", err)
	}

	return &Metrics{
		recordingEvents: recordingEvents,
		backendCalls:    backendCalls,
		backendDuration: backendDuration,
		entriesAppended: entriesAppended,
	}, nil
}

// NewGlobalMetrics creates instruments on the global meter provider.
func NewGlobalMetrics() (*Metrics, error) {
	return NewMetrics(Meter(defaultTracerName))
}

// RecordEvent counts a recording lifecycle event. Safe on a nil receiver.
func (m *Metrics) RecordEvent(ctx context.Context, event string) {
	if m == nil {
		return
	}
	m.recordingEvents.Add(ctx, 1, metric.WithAttributes(attribute.String("event", event)))
}

// RecordBackendCall records one backend call. Safe on a nil receiver.
func (m *Metrics) RecordBackendCall(ctx context.Context, operation string, err error, d time.Duration) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.backendCalls.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("status", status),
	))
	m.backendDuration.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.String("operation", operation)))
}

// RecordAppend counts an appended entry; created reports a new document.
// Safe on a nil receiver.
func (m *Metrics) RecordAppend(ctx context.Context, created bool) {
	if m == nil {
		return
	}
	m.entriesAppended.Add(ctx, 1, metric.WithAttributes(attribute.Bool("created", created)))
}
