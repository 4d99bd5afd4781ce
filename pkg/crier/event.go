package crier

import "reflect"

// Event marks a type as publishable through a Publisher.
//
// Implementing the marker is a deliberate opt-in:
//
//	type Saved struct{ Path string }
//
//	func (Saved) CrierEvent() {}
//
// The method body is always empty and is never called; it exists so
// arbitrary values cannot be published or subscribed to by accident.
// Events are handed to every handler of a publish call, so treat them
// as immutable once published.
type Event interface {
	CrierEvent()
}

// eventTypeFor resolves the bucket key for a subscription. Buckets
// are keyed by concrete type, so a subscription under an interface
// type would register handlers no publish could ever reach.
func eventTypeFor[E Event]() reflect.Type {
	t := reflect.TypeFor[E]()
	if t.Kind() == reflect.Interface {
		panic("crier: event type must be a concrete type, not an interface")
	}
	return t
}
