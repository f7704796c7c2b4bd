package cache

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru"
)

// DefaultLRUSize is the capacity used when NewLRU is given a non-positive size.
const DefaultLRUSize = 4096

// LRUCache is a bounded cache evicting the least recently used entry.
// Evicted entries are simply recomputed on the next miss.
type LRUCache[K comparable, V any] struct {
	c *lru.Cache
}

// NewLRU creates a cache holding at most size entries.
func NewLRU[K comparable, V any](size int) (*LRUCache[K, V], error) {
	if size <= 0 {
		size = DefaultLRUSize
	}
	c, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("create lru cache: %w", err)
	}
	return &LRUCache[K, V]{c: c}, nil
}

// Load returns the value stored for key and marks it recently used.
func (c *LRUCache[K, V]) Load(key K) (V, bool) {
	v, ok := c.c.Get(key)
	if !ok {
		var zero V
		return zero, false
	}
	return v.(V), true
}

// Store records value for key, evicting the oldest entry when full.
func (c *LRUCache[K, V]) Store(key K, value V) {
	c.c.Add(key, value)
}

// Len returns the number of stored entries.
func (c *LRUCache[K, V]) Len() int { return c.c.Len() }

// Ensure LRUCache implements Cache.
var _ Cache[string, int] = (*LRUCache[string, int])(nil)
