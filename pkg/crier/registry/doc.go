// Package registry provides a generic thread-safe registry for values indexed by key.
//
// Registry is built on sync.RWMutex for read-heavy workloads such as the
// one-lookup-per-publish pattern in the crier dispatcher. It supports any
// comparable key type and any value type through Go generics.
//
// # Basic Usage
//
// Create a registry and register values:
//
//	subs := registry.New[string, *Subscription]()
//	subs.Register(id, sub)
//
//	sub, ok := subs.Get(id)
//	if ok {
//	    // use sub...
//	}
//
// # Lazy Initialization
//
// Use GetOrCreate for thread-safe lazy initialization, for example a
// per-event-type bucket that should be created on first subscription:
//
//	buckets := registry.New[reflect.Type, *Bucket]()
//
//	// First call creates the bucket, subsequent calls return the same one
//	b := buckets.GetOrCreate(eventType, func() *Bucket {
//	    return &Bucket{}
//	})
//
// GetOrCreate is atomic: the factory function is called at most once per
// key, even under concurrent access.
//
// # Thread Safety
//
// All Registry methods are safe for concurrent use. Range iterates over
// a snapshot of the registry, so mutations during iteration do not
// affect the iteration itself:
//
//	buckets.Range(func(t reflect.Type, b *Bucket) bool {
//	    // Safe to call Register() or Delete() here
//	    return true // continue iteration
//	})
package registry
