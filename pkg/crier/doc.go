/*
Package crier provides an in-process, type-heterogeneous publish/subscribe dispatcher.

# Overview

crier is a Go library for decoupling event producers from event
consumers within a single process. One Publisher carries handlers for
any number of unrelated event types; published events are routed by
their concrete Go type, so a producer and its consumers share nothing
but the event type itself.

The library dispatches synchronously with:
  - Type-safe generic subscription, type-erased internally
  - A shared pathway for stateless handlers and an exclusive pathway
    for handlers that mutate their own state
  - Aggregated error reporting that never short-circuits dispatch
  - OpenTelemetry integration for observability

# Basic Usage

Declare an event type, subscribe handlers, then publish:

	type Warning struct {
	    Message string
	}

	func (Warning) CrierEvent() {}

	func main() {
	    p := crier.New()

	    id := crier.SubscribeFunc(p, func(ctx context.Context, evt Warning) error {
	        fmt.Println("warning:", evt.Message)
	        return nil
	    })
	    defer p.Unsubscribe(id)

	    if err := p.Publish(context.Background(), Warning{Message: "disk almost full"}); err != nil {
	        log.Fatal(err)
	    }
	}

Events opt in by implementing the Event marker interface with a
CrierEvent() method. Subscription is per concrete type: a handler for
Warning never sees an Info, and a handler for *Warning never sees a
Warning.

# Mutable Handlers

Handlers that mutate their own fields subscribe through SubscribeMut.
The publisher then guarantees the handler is never invoked
concurrently, so it needs no locking of its own:

	type counter struct {
	    seen int
	}

	func (c *counter) HandleMut(ctx context.Context, evt Warning) error {
	    c.seen++ // safe: exclusive access during invocation
	    return nil
	}

	id := crier.SubscribeMut(p, &counter{})

Shared and mutable registrations for the same event type live in one
ordered list and dispatch strictly in subscription order.

# Dispatch Semantics

Publish is synchronous: every handler runs on the calling goroutine
before Publish returns. The set of handlers invoked is fixed when the
call starts; subscribing during a publish takes effect on the next
call, while unsubscribing during a publish does not retract an
invocation already underway.

A mutable handler must not synchronously publish an event of the type
it mutably handles; the exclusive-access guarantee makes that
re-entrant invocation deadlock.

# Error Handling

One failing handler never stops the others. All failures from a
publish call come back aggregated:

	err := p.Publish(ctx, Warning{Message: "overheating"})
	var pubErr *crier.PublishError
	if errors.As(err, &pubErr) {
	    for _, f := range pubErr.Failures {
	        log.Printf("handler %s failed: %v", f.Handler, f.Err)
	    }
	}

	var panicErr *crier.PanicError
	if errors.As(err, &panicErr) {
	    log.Printf("handler %s panicked: %v\n%s", panicErr.Handler, panicErr.Value, panicErr.Stack)
	}

Panics in handlers are recovered and converted to PanicError with stack
trace; the remaining handlers still run.

# Observability

Enable logging, metrics, and tracing:

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	p := crier.New(
	    crier.WithLogger(logger),
	    crier.WithMetrics(true),
	    crier.WithTracing(true),
	)

Logs include structured fields: event_type, subscription_id, handler, duration_ms.
OpenTelemetry metrics: crier.publishes, crier.handler.latency_ms, etc.
OpenTelemetry tracing: crier.publish > crier.handler spans.

# Configuration

Load observability settings from a YAML or JSON file:

	cfg, err := config.FromFile("crier.yaml")
	if err != nil {
	    log.Fatal(err)
	}
	p := crier.New(crier.OptionsFromConfig(cfg)...)

# Thread Safety

  - Publisher IS safe for concurrent use (subscribe, unsubscribe, and
    publish may race freely)
  - Handlers on the shared pathway may be invoked concurrently and
    must be safe for that
  - Handlers on the exclusive pathway are never invoked concurrently

# Subpackages

  - config: YAML/JSON configuration loading with type coercion
  - observability: Logging, metrics, and tracing helpers
  - registry: Generic thread-safe key/value registry
*/
package crier
