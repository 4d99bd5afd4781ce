// Package observability provides production-grade observability features
// for crier publishers: structured logging, metrics, and distributed
// tracing.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds dispatch context to a logger.
// Returns a new logger with event_type and subscription_id fields.
//
// Example:
//
//	enriched := EnrichLogger(logger, "main.Warning", subID)
//	enriched.Info("doing work") // includes event_type, subscription_id
func EnrichLogger(logger *slog.Logger, eventType, subscriptionID string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("event_type", eventType),
		slog.String("subscription_id", subscriptionID),
	)
}

// LogPublishStart logs the start of a publish call.
func LogPublishStart(logger *slog.Logger, eventType string) {
	if logger == nil {
		return
	}
	logger.Info("publish starting",
		slog.String("event_type", eventType),
	)
}

// LogPublishComplete logs a publish call in which every handler succeeded.
func LogPublishComplete(logger *slog.Logger, eventType string, durationMs float64, handlerCount int) {
	if logger == nil {
		return
	}
	logger.Info("publish completed",
		slog.String("event_type", eventType),
		slog.Float64("duration_ms", durationMs),
		slog.Int("handlers_invoked", handlerCount),
	)
}

// LogPublishError logs a publish call that ended with handler failures.
func LogPublishError(logger *slog.Logger, eventType string, err error, durationMs float64, handlerCount, failedCount int) {
	if logger == nil {
		return
	}
	logger.Error("publish failed",
		slog.String("event_type", eventType),
		slog.String("error", err.Error()),
		slog.Float64("duration_ms", durationMs),
		slog.Int("handlers_invoked", handlerCount),
		slog.Int("handlers_failed", failedCount),
	)
}

// LogHandlerStart logs handler invocation start.
func LogHandlerStart(logger *slog.Logger, eventType, subscriptionID, handler string) {
	if logger == nil {
		return
	}
	logger.Debug("handler starting",
		slog.String("event_type", eventType),
		slog.String("subscription_id", subscriptionID),
		slog.String("handler", handler),
	)
}

// LogHandlerComplete logs successful handler completion.
func LogHandlerComplete(logger *slog.Logger, eventType, subscriptionID, handler string, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("handler completed",
		slog.String("event_type", eventType),
		slog.String("subscription_id", subscriptionID),
		slog.String("handler", handler),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogHandlerError logs a handler invocation failure (non-fatal: the
// publish call continues with the remaining handlers).
func LogHandlerError(logger *slog.Logger, eventType, subscriptionID, handler string, err error) {
	if logger == nil {
		return
	}
	logger.Error("handler failed",
		slog.String("event_type", eventType),
		slog.String("subscription_id", subscriptionID),
		slog.String("handler", handler),
		slog.String("error", err.Error()),
	)
}

// LogSubscribe logs a new registration.
func LogSubscribe(logger *slog.Logger, eventType, subscriptionID, handler, mode string) {
	if logger == nil {
		return
	}
	logger.Debug("handler subscribed",
		slog.String("event_type", eventType),
		slog.String("subscription_id", subscriptionID),
		slog.String("handler", handler),
		slog.String("mode", mode),
	)
}

// LogUnsubscribe logs a removal attempt. removed is false when the id
// was unknown or already removed.
func LogUnsubscribe(logger *slog.Logger, eventType, subscriptionID string, removed bool) {
	if logger == nil {
		return
	}
	logger.Debug("handler unsubscribed",
		slog.String("event_type", eventType),
		slog.String("subscription_id", subscriptionID),
		slog.Bool("removed", removed),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Milliseconds())
	}
}
