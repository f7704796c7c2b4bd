package cache

import (
	"sync"
	"sync/atomic"
)

// MapCache is an unbounded cache backed by sync.Map.
type MapCache[K comparable, V any] struct {
	m sync.Map
	n atomic.Int64
}

// NewMap creates an unbounded cache.
func NewMap[K comparable, V any]() *MapCache[K, V] {
	return &MapCache[K, V]{}
}

// Load returns the value stored for key.
func (c *MapCache[K, V]) Load(key K) (V, bool) {
	v, ok := c.m.Load(key)
	if !ok {
		var zero V
		return zero, false
	}
	return v.(V), true
}

// Store records value for key.
func (c *MapCache[K, V]) Store(key K, value V) {
	if _, loaded := c.m.Swap(key, value); !loaded {
		c.n.Add(1)
	}
}

// Len returns the number of stored entries.
func (c *MapCache[K, V]) Len() int { return int(c.n.Load()) }

// Ensure MapCache implements Cache.
var _ Cache[string, int] = (*MapCache[string, int])(nil)
