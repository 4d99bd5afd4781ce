package crier

import (
	"context"
	"fmt"
	"reflect"
	"sync"
)

// Handler processes events of one concrete type. Handle runs on
// whichever goroutine called Publish and may run concurrently with
// other invocations of the same handler, so implementations must not
// mutate shared state without their own synchronization. Handlers that
// need exclusive access to their state should implement MutHandler and
// register through SubscribeMut instead.
//
// A non-nil return marks this delivery as failed. It does not stop
// delivery to the remaining handlers; Publish reports the failure in
// its aggregate error.
type Handler[E Event] interface {
	Handle(ctx context.Context, evt E) error
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc[E Event] func(ctx context.Context, evt E) error

// Handle calls f(ctx, evt).
func (f HandlerFunc[E]) Handle(ctx context.Context, evt E) error {
	return f(ctx, evt)
}

// MutHandler processes events of one concrete type with exclusive
// access to its own state for the duration of each call. The publisher
// serializes invocations per registration, so implementations may
// mutate their fields without additional locking.
//
// A MutHandler must not synchronously publish an event type it handles
// mutably from inside HandleMut: the per-registration lock is still
// held, and the reentrant delivery deadlocks on it.
type MutHandler[E Event] interface {
	HandleMut(ctx context.Context, evt E) error
}

// entry is the erased form every bucket stores. The concrete event
// type is recovered inside dispatch, which lets one publisher hold
// handlers for unrelated event types behind a single interface.
type entry interface {
	dispatch(ctx context.Context, evt Event) error
}

// sharedEntry erases a read-only handler.
type sharedEntry[E Event] struct {
	h Handler[E]
}

func (e *sharedEntry[E]) dispatch(ctx context.Context, evt Event) error {
	typed, ok := evt.(E)
	if !ok {
		// Buckets are keyed by concrete type, so this only fires if
		// an event was routed to the wrong bucket.
		return fmt.Errorf("event %T delivered to handler for %s", evt, reflect.TypeFor[E]())
	}
	return e.h.Handle(ctx, typed)
}

// exclusiveEntry erases a mutable handler. The mutex grants HandleMut
// exclusive access to handler state even when one registration sees
// concurrent publish calls.
type exclusiveEntry[E Event] struct {
	mu sync.Mutex
	h  MutHandler[E]
}

func (e *exclusiveEntry[E]) dispatch(ctx context.Context, evt Event) error {
	typed, ok := evt.(E)
	if !ok {
		return fmt.Errorf("event %T delivered to handler for %s", evt, reflect.TypeFor[E]())
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.h.HandleMut(ctx, typed)
}
