package crier

import (
	"context"
)

// Test event types used across tests

// Warning is a simple event for exercising dispatch.
type Warning struct {
	Message string
}

func (Warning) CrierEvent() {}

// Info is a second event type for type-isolation tests.
type Info struct {
	Message string
}

func (Info) CrierEvent() {}

// Helper handlers

// makeTrackingHandler creates a handler that records its invocations.
func makeTrackingHandler[E Event](name string, tracker *[]string) func(context.Context, E) error {
	return func(ctx context.Context, evt E) error {
		*tracker = append(*tracker, name)
		return nil
	}
}

// makeFailingHandler creates a handler that returns the given error.
func makeFailingHandler[E Event](err error) func(context.Context, E) error {
	return func(ctx context.Context, evt E) error {
		return err
	}
}

// makePanicHandler creates a handler that panics with the given value.
func makePanicHandler[E Event](value any) func(context.Context, E) error {
	return func(ctx context.Context, evt E) error {
		panic(value)
	}
}

// counter is a mutable handler that counts events without locking.
// The exclusive pathway is what makes the bare increment safe.
type counter[E Event] struct {
	seen int
}

func (c *counter[E]) HandleMut(ctx context.Context, evt E) error {
	c.seen++
	return nil
}

// trackingMutHandler records invocation order through the exclusive pathway.
type trackingMutHandler[E Event] struct {
	name    string
	tracker *[]string
}

func (h *trackingMutHandler[E]) HandleMut(ctx context.Context, evt E) error {
	*h.tracker = append(*h.tracker, h.name)
	return nil
}

// auditHandler is a struct handler for tests that assert handler names.
type auditHandler struct {
	err error
}

func (h *auditHandler) Handle(ctx context.Context, evt Warning) error {
	return h.err
}
