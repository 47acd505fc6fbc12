package observability

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/SAP-F-2025/quiz-attempt-service/internal/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"
)

// ShutdownFunc flushes and stops the tracer provider
type ShutdownFunc func(context.Context) error

func noopShutdown(context.Context) error { return nil }

// InitTracing installs the global tracer provider and propagators.
// When tracing is disabled it returns a no-op shutdown and leaves the global provider untouched.
func InitTracing(ctx context.Context, cfg config.TracingConfig, environment string, logger *slog.Logger) (ShutdownFunc, error) {
	if !cfg.Enabled {
		return noopShutdown, nil
	}

	exporter, err := buildExporter(ctx, cfg, logger, nil)
	if err != nil {
		return noopShutdown, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tp := newProvider(ctx, cfg, environment, exporter, logger)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.Info("Tracing initialized", "service", serviceName(cfg), "endpoint", cfg.OTLPEndpoint)
	return tp.Shutdown, nil
}

func newProvider(ctx context.Context, cfg config.TracingConfig, environment string, exporter sdktrace.SpanExporter, logger *slog.Logger) *sdktrace.TracerProvider {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName(cfg)),
			attribute.String("deployment.environment", environment),
		),
	)
	if err != nil {
		logger.Warn("Trace resource init failed, continuing", "error", err)
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(5*time.Second)),
		sdktrace.WithResource(res),
	)
}

// buildExporter exports over OTLP/HTTP when an endpoint is set, otherwise to w (stdout when nil)
func buildExporter(ctx context.Context, cfg config.TracingConfig, logger *slog.Logger, w io.Writer) (sdktrace.SpanExporter, error) {
	if endpoint := strings.TrimSpace(cfg.OTLPEndpoint); endpoint != "" {
		opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(endpoint)}
		if !strings.HasPrefix(endpoint, "https") {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		return otlptracehttp.New(ctx, opts...)
	}

	logger.Warn("No OTLP endpoint configured, exporting traces to stdout")
	if w != nil {
		return stdouttrace.New(stdouttrace.WithWriter(w))
	}
	return stdouttrace.New(stdouttrace.WithPrettyPrint())
}

func serviceName(cfg config.TracingConfig) string {
	if name := strings.TrimSpace(cfg.ServiceName); name != "" {
		return name
	}
	return "quiz-attempt-service"
}
