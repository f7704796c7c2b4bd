// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about hierarchy builds, resolver cache operations, and
// attribute resolution.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks take no context: every operation they observe is a synchronous
// in-memory computation.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetBuildHooks(&myBuildHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... build the hierarchy, serve queries
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Build().OnBuildStart(len(defs))
//	// ... build ...
//	observability.Build().OnBuildComplete(len(defs), time.Since(start), err)
package observability

import (
	"sync"
	"time"
)

// =============================================================================
// Build Hooks
// =============================================================================

// BuildHooks receives events from the hierarchy builder.
type BuildHooks interface {
	// OnBuildStart records the start of a build over typeCount definitions.
	OnBuildStart(typeCount int)

	// OnBuildComplete records the end of a build. err is nil on success.
	OnBuildComplete(typeCount int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from resolver cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(keyType string)
}

// =============================================================================
// Resolve Hooks
// =============================================================================

// ResolveHooks receives events from the attribute resolver.
type ResolveHooks interface {
	// OnResolve records one effective-value computation.
	OnResolve(tagType, attribute string, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopBuildHooks is a no-op implementation of BuildHooks.
type NoopBuildHooks struct{}

func (NoopBuildHooks) OnBuildStart(int)                           {}
func (NoopBuildHooks) OnBuildComplete(int, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(string)  {}
func (NoopCacheHooks) OnCacheMiss(string) {}
func (NoopCacheHooks) OnCacheSet(string)  {}

// NoopResolveHooks is a no-op implementation of ResolveHooks.
type NoopResolveHooks struct{}

func (NoopResolveHooks) OnResolve(string, string, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	buildHooks   BuildHooks   = NoopBuildHooks{}
	cacheHooks   CacheHooks   = NoopCacheHooks{}
	resolveHooks ResolveHooks = NoopResolveHooks{}
	hooksMu      sync.RWMutex
)

// SetBuildHooks registers custom build hooks.
// This should be called once at application startup before any build.
func SetBuildHooks(h BuildHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		buildHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any resolution.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetResolveHooks registers custom resolve hooks.
func SetResolveHooks(h ResolveHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		resolveHooks = h
	}
}

// Build returns the registered build hooks.
func Build() BuildHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return buildHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Resolve returns the registered resolve hooks.
func Resolve() ResolveHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return resolveHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	buildHooks = NoopBuildHooks{}
	cacheHooks = NoopCacheHooks{}
	resolveHooks = NoopResolveHooks{}
}
