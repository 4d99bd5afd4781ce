package crier

import (
	"context"
	"fmt"
	"reflect"

	"github.com/google/uuid"

	"github.com/randalmurphal/crier/pkg/crier/observability"
	"github.com/randalmurphal/crier/pkg/crier/registry"
)

// Publisher routes published events to every handler registered for the
// event's concrete type. One publisher can hold handlers for any number
// of unrelated event types; each type gets its own bucket, and handlers
// within a bucket are dispatched in subscription order.
//
// All methods are safe for concurrent use. Dispatch itself is
// synchronous: Publish invokes every handler inline on the calling
// goroutine before returning.
//
// Subscribe, SubscribeFunc, and SubscribeMut are package-level functions
// rather than methods because Go methods cannot introduce type
// parameters.
type Publisher struct {
	cfg pubConfig

	buckets *registry.Registry[reflect.Type, *bucket]
	index   *registry.Registry[SubscriptionID, *subscription]
}

// New creates an empty publisher.
//
// With no options the publisher carries no logger, no metrics, and no
// tracing. See WithLogger, WithMetrics, and WithTracing.
func New(opts ...Option) *Publisher {
	cfg := defaultPubConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Publisher{
		cfg:     cfg,
		buckets: registry.New[reflect.Type, *bucket](),
		index:   registry.New[SubscriptionID, *subscription](),
	}
}

// Subscribe registers h for events of type E and returns the id that
// removes exactly this registration. Every call is an independent
// registration: subscribing the same handler value twice means it runs
// twice per publish.
//
// Panics if h is nil or if E is an interface type.
func Subscribe[E Event](p *Publisher, h Handler[E]) SubscriptionID {
	if h == nil {
		panic("crier: handler cannot be nil")
	}
	return p.register(eventTypeFor[E](), &sharedEntry[E]{h: h}, handlerName(h), kindShared)
}

// SubscribeFunc registers a plain function as a read-only handler for
// events of type E.
//
//	id := crier.SubscribeFunc(p, func(ctx context.Context, evt Warning) error {
//	    fmt.Println("warning:", evt.Message)
//	    return nil
//	})
//
// Panics if fn is nil or if E is an interface type.
func SubscribeFunc[E Event](p *Publisher, fn func(ctx context.Context, evt E) error) SubscriptionID {
	if fn == nil {
		panic("crier: handler cannot be nil")
	}
	return Subscribe(p, HandlerFunc[E](fn))
}

// SubscribeMut registers h on the exclusive pathway: the publisher
// guarantees no two invocations of this registration run concurrently,
// so HandleMut may mutate handler state without its own locking.
// Shared and exclusive registrations for the same event type dispatch
// in one combined subscription order.
//
// Panics if h is nil or if E is an interface type.
func SubscribeMut[E Event](p *Publisher, h MutHandler[E]) SubscriptionID {
	if h == nil {
		panic("crier: handler cannot be nil")
	}
	return p.register(eventTypeFor[E](), &exclusiveEntry[E]{h: h}, handlerName(h), kindExclusive)
}

// register stores an erased handler in its event type's bucket.
func (p *Publisher) register(t reflect.Type, e entry, name string, kind handlerKind) SubscriptionID {
	b := p.buckets.GetOrCreate(t, func() *bucket { return &bucket{} })

	sub := &subscription{
		id:        SubscriptionID(uuid.New().String()),
		eventType: t,
		kind:      kind,
		handler:   name,
		entry:     e,
		bucket:    b,
	}

	b.insert(sub)
	p.index.Register(sub.id, sub)

	p.cfg.metrics.RecordSubscription(context.Background(), t.String(), 1)
	observability.LogSubscribe(p.cfg.logger, t.String(), string(sub.id), name, kind.String())
	return sub.id
}

// Unsubscribe removes the registration for id from whichever bucket
// holds it and reports whether anything was removed. Unknown or
// already-removed ids are a no-op returning false, so teardown paths
// may unsubscribe without tracking what is still registered.
func (p *Publisher) Unsubscribe(id SubscriptionID) bool {
	sub, ok := p.index.Get(id)
	if !ok {
		return false
	}
	removed := sub.bucket.remove(id)
	p.index.Delete(id)

	if removed {
		p.cfg.metrics.RecordSubscription(context.Background(), sub.eventType.String(), -1)
	}
	observability.LogUnsubscribe(p.cfg.logger, sub.eventType.String(), string(id), removed)
	return removed
}

// UnsubscribeMut removes a registration made through SubscribeMut. It
// routes by id exactly as Unsubscribe does and exists for symmetry with
// the two subscribe pathways; either method removes either kind of
// registration.
func (p *Publisher) UnsubscribeMut(id SubscriptionID) bool {
	return p.Unsubscribe(id)
}

// Stats is a point-in-time snapshot of publisher state.
type Stats struct {
	// EventTypes is the number of event types with at least one
	// current registration.
	EventTypes int
	// Subscriptions is the total number of current registrations
	// across all event types.
	Subscriptions int
}

// Stats returns counts of current registrations. Buckets persist after
// their last entry is removed; empty ones are not counted.
func (p *Publisher) Stats() Stats {
	s := Stats{Subscriptions: p.index.Len()}
	p.buckets.Range(func(_ reflect.Type, b *bucket) bool {
		if b.len() > 0 {
			s.EventTypes++
		}
		return true
	})
	return s
}

// handlerName names a handler for logs and error messages.
func handlerName(h any) string {
	return fmt.Sprintf("%T", h)
}
