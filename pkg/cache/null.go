package cache

// NullCache is a no-op cache that never stores anything.
// Useful for testing or when caching should be disabled.
type NullCache[K comparable, V any] struct{}

// NewNull creates a null cache.
func NewNull[K comparable, V any]() NullCache[K, V] {
	return NullCache[K, V]{}
}

// Load always returns a cache miss.
func (NullCache[K, V]) Load(K) (V, bool) {
	var zero V
	return zero, false
}

// Store does nothing.
func (NullCache[K, V]) Store(K, V) {}

// Len always returns 0.
func (NullCache[K, V]) Len() int { return 0 }

// Ensure NullCache implements Cache.
var _ Cache[string, int] = NullCache[string, int]{}
