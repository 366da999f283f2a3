package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/voicenotes/logger"
)

const defaultTracerName = "github.com/kbukum/voicenotes"

// ServiceInfo identifies the process in exported telemetry.
type ServiceInfo struct {
	Name        string
	Version     string
	Environment string
}

// InitTracer installs a global tracer provider exporting over OTLP/HTTP.
// The caller shuts the returned provider down on exit.
func InitTracer(ctx context.Context, cfg Config, svc ServiceInfo) (*sdktrace.TracerProvider, error) {
	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}

	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating trace exporter: %w", err)
	}

	res, err := newResource(svc)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler(cfg.SampleRate)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.Info("tracer initialized", logger.Fields(
		"service", svc.Name,
		"endpoint", cfg.Endpoint,
		"sample_rate", cfg.SampleRate,
	))
	return tp, nil
}

func sampler(rate float64) sdktrace.Sampler {
	switch {
	case rate >= 1.0:
		return sdktrace.AlwaysSample()
	case rate <= 0:
		return sdktrace.NeverSample()
	default:
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(rate))
	}
}

func newResource(svc ServiceInfo) (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			attribute.String(AttrServiceName, svc.Name),
			attribute.String("service.version", svc.Version),
			attribute.String("deployment.environment", svc.Environment),
		),
	)
}

// Tracer returns a named tracer from the global provider.
func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}

// StartSpan starts a span on the default tracer.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return Tracer(defaultTracerName).Start(ctx, name, trace.WithAttributes(attrs...))
}

// EndSpan records err (if any) on span and ends it.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// Span names.
const (
	SpanBackendCall    = "backend.call"
	SpanRecordingStart = "recording.start"
	SpanRecordingStop  = "recording.stop"
	SpanVaultAppend    = "vault.append"
)

// Attribute keys.
const (
	AttrServiceName = "service.name"
	AttrOperation   = "voicenotes.operation"
	AttrBackendURL  = "voicenotes.backend_url"
	AttrDocument    = "voicenotes.document"
	AttrErrorCode   = "voicenotes.error_code"
)
