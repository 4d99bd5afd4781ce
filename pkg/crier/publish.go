package crier

import (
	"context"
	"reflect"
	"runtime/debug"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/randalmurphal/crier/pkg/crier/observability"
)

// Publish delivers evt to every handler subscribed for evt's concrete
// type when the call starts, in subscription order, on the calling
// goroutine. Handlers subscribed during the call are not invoked;
// handlers unsubscribed during the call still are.
//
// A handler failure or panic never stops dispatch: the remaining
// handlers run, and the failures come back together as a
// *PublishError. Returns nil when every handler succeeded or no
// handler is subscribed for the type, and ErrNilEvent when evt is nil.
//
// Publish flow:
//  1. Snapshot the registrations for evt's concrete type
//  2. Invoke each handler in subscription order, recovering panics
//  3. Collect failures and return them aggregated
//
// Example:
//
//	if err := p.Publish(ctx, Warning{Message: "disk almost full"}); err != nil {
//	    var pubErr *crier.PublishError
//	    if errors.As(err, &pubErr) {
//	        // pubErr.Failures identifies each failed delivery
//	    }
//	}
func (p *Publisher) Publish(ctx context.Context, evt Event) (pubErr error) {
	if evt == nil {
		return ErrNilEvent
	}

	eventType := reflect.TypeOf(evt)
	typeName := eventType.String()

	// Start timing
	startTime := time.Now()

	// Log publish start
	observability.LogPublishStart(p.cfg.logger, typeName)

	// Start publish span if tracing enabled
	var pubSpan trace.Span
	if p.cfg.tracingEnabled {
		ctx, pubSpan = p.cfg.spans.StartPublishSpan(ctx, typeName)
		defer func() {
			p.cfg.spans.EndSpanWithError(pubSpan, pubErr)
		}()
	}

	// Snapshot the bucket. Subscriptions made after this point belong
	// to the next publish call.
	var subs []*subscription
	if b, ok := p.buckets.Get(eventType); ok {
		subs = b.snapshot()
	}

	// Invoke every handler, collecting failures
	var failures []*HandlerError
	for _, sub := range subs {
		if herr := p.invoke(ctx, sub, evt, typeName); herr != nil {
			failures = append(failures, herr)
		}
	}

	// Calculate duration
	duration := time.Since(startTime)
	durationMs := float64(duration.Milliseconds())

	// Record publish metric
	p.cfg.metrics.RecordPublish(ctx, typeName, len(subs), len(failures), duration)

	// Log publish completion or error
	if len(failures) > 0 {
		pubErr = &PublishError{
			EventType: eventType,
			Handlers:  len(subs),
			Failures:  failures,
		}
		observability.LogPublishError(p.cfg.logger, typeName, pubErr, durationMs, len(subs), len(failures))
		return pubErr
	}

	observability.LogPublishComplete(p.cfg.logger, typeName, durationMs, len(subs))
	return nil
}

// invoke runs one handler with full observability and translates its
// failure into a *HandlerError. Returns nil when the handler succeeds.
func (p *Publisher) invoke(ctx context.Context, sub *subscription, evt Event, typeName string) *HandlerError {
	// Log handler start
	observability.LogHandlerStart(p.cfg.logger, typeName, string(sub.id), sub.handler)

	// Start handler span if tracing enabled
	handlerCtx := ctx
	var handlerSpan trace.Span
	if p.cfg.tracingEnabled {
		handlerCtx, handlerSpan = p.cfg.spans.StartHandlerSpan(ctx, typeName, sub.handler)
	}

	// Time the handler invocation
	start := time.Now()

	err := dispatchSafe(handlerCtx, sub, evt)

	// Calculate duration
	handlerDuration := time.Since(start)
	handlerDurationMs := float64(handlerDuration.Milliseconds())

	// Record handler metrics
	p.cfg.metrics.RecordHandlerInvocation(handlerCtx, typeName, sub.handler, handlerDuration, err)

	// End handler span with error status
	if p.cfg.tracingEnabled {
		p.cfg.spans.EndSpanWithError(handlerSpan, err)
	}

	// Log handler completion or error
	if err != nil {
		observability.LogHandlerError(p.cfg.logger, typeName, string(sub.id), sub.handler, err)
		return &HandlerError{
			EventType:      sub.eventType,
			SubscriptionID: sub.id,
			Handler:        sub.handler,
			Err:            err,
		}
	}

	observability.LogHandlerComplete(p.cfg.logger, typeName, string(sub.id), sub.handler, handlerDurationMs)
	return nil
}

// dispatchSafe invokes a single handler with panic recovery.
// Returns the handler's error, or a *PanicError if it panicked.
func dispatchSafe(ctx context.Context, sub *subscription, evt Event) (err error) {
	// Panic recovery
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{
				SubscriptionID: sub.id,
				Handler:        sub.handler,
				Value:          r,
				Stack:          string(debug.Stack()),
			}
		}
	}()

	return sub.entry.dispatch(ctx, evt)
}
