package crier

import (
	"reflect"
	"sync"
)

// SubscriptionID identifies one registration within a Publisher.
// IDs are opaque, unique for the lifetime of the publisher, and never
// reused. Their only use is to remove the registration they were
// issued for.
type SubscriptionID string

// handlerKind records which subscribe pathway created a registration.
type handlerKind int

const (
	kindShared handlerKind = iota
	kindExclusive
)

func (k handlerKind) String() string {
	if k == kindExclusive {
		return "exclusive"
	}
	return "shared"
}

// subscription pairs a SubscriptionID with an erased handler and the
// bucket that owns it. The bucket back-reference lets unsubscribe
// route by id alone.
type subscription struct {
	id        SubscriptionID
	eventType reflect.Type
	kind      handlerKind
	handler   string // handler type name, for logs and errors
	entry     entry
	bucket    *bucket
}

// bucket holds the registrations for one event type. Entries keep
// insertion order; dispatch order is insertion order.
type bucket struct {
	mu      sync.Mutex
	entries []*subscription
}

func (b *bucket) insert(sub *subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = append(b.entries, sub)
}

// remove deletes the entry with the given id, reporting whether it was
// present. Removing an absent id is a no-op.
func (b *bucket) remove(id SubscriptionID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, sub := range b.entries {
		if sub.id == id {
			b.entries = append(b.entries[:i], b.entries[i+1:]...)
			return true
		}
	}
	return false
}

// snapshot copies the current entries. Publish iterates the copy, so
// registrations added or removed mid-dispatch never affect an
// in-flight call.
func (b *bucket) snapshot() []*subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]*subscription, len(b.entries))
	copy(out, b.entries)
	return out
}

func (b *bucket) len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}
