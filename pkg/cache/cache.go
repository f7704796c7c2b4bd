// Package cache provides the in-memory caches used by the attribute
// resolver.
//
// Resolution results depend only on the tag type and attribute name, never
// on an instance, and a built hierarchy never changes. Cached entries are
// therefore never invalidated: a Cache only needs Load and Store.
//
// # Implementations
//
//   - [NewMap]: unbounded, backed by sync.Map
//   - [NewLRU]: bounded, backed by hashicorp/golang-lru
//   - [NewNull]: stores nothing; every Load misses
//
// All implementations are safe for concurrent use. Concurrent misses for the
// same key may both compute and Store; callers only store deterministic
// values, so the last store wins without changing what readers observe.
package cache

// Cache is a concurrency-safe key/value store without expiry.
type Cache[K comparable, V any] interface {
	// Load returns the value stored for key.
	Load(key K) (V, bool)

	// Store records value for key, replacing any previous value.
	Store(key K, value V)

	// Len returns the number of stored entries.
	Len() int
}
