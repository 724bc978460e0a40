// Package observability provides hooks for metrics, tracing, and logging.
//
// Instrumentation is optional: library packages emit events through the
// registered hooks and never import a metrics or tracing backend themselves.
// Hooks are registered once by main; the defaults are no-ops.
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetRankHooks(&myRankHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Rank().OnRankStart(ctx, nodes, edges)
//	// ... propagate ...
//	observability.Rank().OnRankComplete(ctx, nodes, iterations, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Rank Hooks
// =============================================================================

// RankHooks receives events from rank and centrality runs.
type RankHooks interface {
	// OnRankStart fires before propagation begins.
	OnRankStart(ctx context.Context, nodes, edges int)
	// OnRankComplete fires after propagation ends, successfully or not.
	OnRankComplete(ctx context.Context, nodes, iterations int, duration time.Duration, err error)

	// OnCentralityComplete fires after a centrality computation.
	OnCentralityComplete(ctx context.Context, nodes int, duration time.Duration)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP server.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records the response written for a request.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopRankHooks is a no-op implementation of RankHooks.
type NoopRankHooks struct{}

func (NoopRankHooks) OnRankStart(context.Context, int, int)                          {}
func (NoopRankHooks) OnRankComplete(context.Context, int, int, time.Duration, error) {}
func (NoopRankHooks) OnCentralityComplete(context.Context, int, time.Duration)       {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	rankHooks  RankHooks  = NoopRankHooks{}
	cacheHooks CacheHooks = NoopCacheHooks{}
	httpHooks  HTTPHooks  = NoopHTTPHooks{}
	hooksMu    sync.RWMutex
)

// SetRankHooks registers custom rank hooks.
// This should be called once at application startup before any ranking.
func SetRankHooks(h RankHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		rankHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Rank returns the registered rank hooks.
func Rank() RankHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return rankHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	rankHooks = NoopRankHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
