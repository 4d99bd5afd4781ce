package crier

import (
	"log/slog"

	"github.com/randalmurphal/crier/pkg/crier/config"
	"github.com/randalmurphal/crier/pkg/crier/observability"
)

// pubConfig holds configuration for a publisher.
type pubConfig struct {
	logger         *slog.Logger
	metrics        observability.MetricsRecorder
	spans          observability.SpanManager
	tracingEnabled bool
}

// defaultPubConfig returns the default publisher configuration.
// Observability is disabled: no logger, no-op metrics, no-op spans.
func defaultPubConfig() pubConfig {
	return pubConfig{
		logger:         nil,
		metrics:        observability.NoopMetrics{},
		spans:          observability.NoopSpanManager{},
		tracingEnabled: false,
	}
}

// Option configures a publisher.
type Option func(*pubConfig)

// WithLogger sets the structured logger for publish, handler, and
// subscription lifecycle events. A nil logger disables logging.
// Default: nil (no logging)
//
// Publish calls log at Info level; handler and subscription events log
// at Debug level; failures log at Error level.
//
// Example:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
//	p := crier.New(crier.WithLogger(logger))
func WithLogger(logger *slog.Logger) Option {
	return func(c *pubConfig) {
		c.logger = logger
	}
}

// WithMetrics enables or disables OpenTelemetry metrics.
// Default: false (no-op recorder)
//
// When enabled, the publisher records handler invocations, latencies,
// errors, publish calls, fan-out, and active registrations through the
// global OTel meter provider. Configure the provider before publishing:
//
//	otel.SetMeterProvider(yourProvider)
//	p := crier.New(crier.WithMetrics(true))
func WithMetrics(enabled bool) Option {
	return func(c *pubConfig) {
		if enabled {
			c.metrics = observability.NewMetricsRecorder()
		} else {
			c.metrics = observability.NoopMetrics{}
		}
	}
}

// WithTracing enables or disables OpenTelemetry tracing.
// Default: false (no spans)
//
// When enabled, each publish call gets a "crier.publish" span with one
// "crier.handler" child span per handler invoked, through the global
// OTel tracer provider. Configure the provider before publishing:
//
//	otel.SetTracerProvider(yourProvider)
//	p := crier.New(crier.WithTracing(true))
func WithTracing(enabled bool) Option {
	return func(c *pubConfig) {
		c.tracingEnabled = enabled
		if enabled {
			c.spans = observability.NewSpanManager()
		} else {
			c.spans = observability.NoopSpanManager{}
		}
	}
}

// WithMetricsRecorder sets a custom metrics recorder. Useful for
// testing or for routing metrics somewhere other than the global OTel
// meter provider.
//
// Panics if recorder is nil; use WithMetrics(false) to disable metrics.
func WithMetricsRecorder(recorder observability.MetricsRecorder) Option {
	if recorder == nil {
		panic("crier: metrics recorder cannot be nil")
	}
	return func(c *pubConfig) {
		c.metrics = recorder
	}
}

// WithSpanManager sets a custom span manager and enables tracing with
// it. Useful for testing or for custom span naming.
//
// Panics if spans is nil; use WithTracing(false) to disable tracing.
func WithSpanManager(spans observability.SpanManager) Option {
	if spans == nil {
		panic("crier: span manager cannot be nil")
	}
	return func(c *pubConfig) {
		c.spans = spans
		c.tracingEnabled = true
	}
}

// OptionsFromConfig builds publisher options from a loaded
// configuration. It reads the "observability" section:
//
//	observability:
//	  metrics: true
//	  tracing: false
//
// Missing keys default to false. Combine with explicit options by
// appending them after the config-derived ones:
//
//	cfg, err := config.FromFile("crier.yaml")
//	if err != nil {
//	    return err
//	}
//	opts := append(crier.OptionsFromConfig(cfg), crier.WithLogger(logger))
//	p := crier.New(opts...)
func OptionsFromConfig(cfg config.Config) []Option {
	obs := cfg.Section("observability")
	return []Option{
		WithMetrics(obs.Bool("metrics", false)),
		WithTracing(obs.Bool("tracing", false)),
	}
}
