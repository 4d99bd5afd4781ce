// Package crier provides an in-process, type-heterogeneous publish/subscribe dispatcher.
package crier

import (
	"errors"
	"fmt"
	"reflect"
)

// Sentinel errors for publishing.
var (
	// ErrNilEvent indicates Publish() was called with a nil event.
	ErrNilEvent = errors.New("event cannot be nil")
)

// HandlerError wraps one handler's failure during a publish call.
// It identifies which registration failed so callers can unsubscribe
// or report it.
type HandlerError struct {
	// EventType is the concrete type of the published event.
	EventType reflect.Type
	// SubscriptionID identifies the registration whose handler failed.
	SubscriptionID SubscriptionID
	// Handler is the handler's type name.
	Handler string
	// Err is the error the handler returned, or a *PanicError if it panicked.
	Err error
}

// Error implements the error interface.
func (e *HandlerError) Error() string {
	return fmt.Sprintf("handler %s for %s: %v", e.Handler, e.EventType, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *HandlerError) Unwrap() error {
	return e.Err
}

// PanicError captures panic information from a handler invocation.
// It includes the stack trace for debugging.
type PanicError struct {
	// SubscriptionID identifies the registration whose handler panicked.
	SubscriptionID SubscriptionID
	// Handler is the handler's type name.
	Handler string
	// Value is the value passed to panic().
	Value any
	// Stack is the full stack trace at the point of panic.
	Stack string
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("handler %s panicked: %v", e.Handler, e.Value)
}

// PublishError aggregates every handler failure from one publish call.
// The publish call itself always runs to completion; this error reports
// which deliveries failed along the way.
type PublishError struct {
	// EventType is the concrete type of the published event.
	EventType reflect.Type
	// Handlers is the number of handlers invoked for the event.
	Handlers int
	// Failures holds one entry per failed handler, in invocation order.
	Failures []*HandlerError
}

// Error implements the error interface.
func (e *PublishError) Error() string {
	return fmt.Sprintf("publish %s: %d of %d handlers failed", e.EventType, len(e.Failures), e.Handlers)
}

// Unwrap returns the individual failures for errors.Is/As support.
func (e *PublishError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f
	}
	return errs
}
