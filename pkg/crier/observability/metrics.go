package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records crier dispatch metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordHandlerInvocation records one handler invocation with its
	// duration and error status.
	RecordHandlerInvocation(ctx context.Context, eventType, handler string, duration time.Duration, err error)

	// RecordPublish records a completed publish call with its fan-out
	// and failure counts.
	RecordPublish(ctx context.Context, eventType string, handlerCount, failedCount int, duration time.Duration)

	// RecordSubscription records a change in the number of active
	// registrations for an event type (+1 subscribe, -1 unsubscribe).
	RecordSubscription(ctx context.Context, eventType string, delta int64)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	handlerInvocations  metric.Int64Counter
	handlerLatency      metric.Float64Histogram
	handlerErrors       metric.Int64Counter
	publishes           metric.Int64Counter
	publishLatency      metric.Float64Histogram
	publishFanout       metric.Int64Histogram
	activeSubscriptions metric.Int64UpDownCounter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("crier")

	handlerInvocations, err := meter.Int64Counter("crier.handler.invocations",
		metric.WithDescription("Number of handler invocations"),
	)
	if err != nil {
		return nil, err
	}

	handlerLatency, err := meter.Float64Histogram("crier.handler.latency_ms",
		metric.WithDescription("Handler invocation latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	handlerErrors, err := meter.Int64Counter("crier.handler.errors",
		metric.WithDescription("Number of failed handler invocations"),
	)
	if err != nil {
		return nil, err
	}

	publishes, err := meter.Int64Counter("crier.publishes",
		metric.WithDescription("Number of publish calls"),
	)
	if err != nil {
		return nil, err
	}

	publishLatency, err := meter.Float64Histogram("crier.publish.latency_ms",
		metric.WithDescription("Publish call latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	publishFanout, err := meter.Int64Histogram("crier.publish.handlers",
		metric.WithDescription("Handlers invoked per publish call"),
	)
	if err != nil {
		return nil, err
	}

	activeSubscriptions, err := meter.Int64UpDownCounter("crier.subscriptions.active",
		metric.WithDescription("Number of active registrations"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		handlerInvocations:  handlerInvocations,
		handlerLatency:      handlerLatency,
		handlerErrors:       handlerErrors,
		publishes:           publishes,
		publishLatency:      publishLatency,
		publishFanout:       publishFanout,
		activeSubscriptions: activeSubscriptions,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordHandlerInvocation records one handler invocation.
func (m *otelMetrics) RecordHandlerInvocation(ctx context.Context, eventType, handler string, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("event_type", eventType),
		attribute.String("handler", handler),
	}

	m.handlerInvocations.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.handlerLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))

	if err != nil {
		m.handlerErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// RecordPublish records a completed publish call.
func (m *otelMetrics) RecordPublish(ctx context.Context, eventType string, handlerCount, failedCount int, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String("event_type", eventType),
		attribute.Bool("success", failedCount == 0),
	}
	m.publishes.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.publishLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
	m.publishFanout.Record(ctx, int64(handlerCount), metric.WithAttributes(
		attribute.String("event_type", eventType),
	))
}

// RecordSubscription records a registration count change.
func (m *otelMetrics) RecordSubscription(ctx context.Context, eventType string, delta int64) {
	m.activeSubscriptions.Add(ctx, delta, metric.WithAttributes(
		attribute.String("event_type", eventType),
	))
}
