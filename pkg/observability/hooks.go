// Package observability provides hooks for metrics, tracing, and logging.
//
// Hooks let the CLI or a service wrapper instrument pipeline stages and
// cache traffic without the core libraries depending on any observability
// backend. Register implementations at startup:
//
//	observability.SetPipelineHooks(&myPipelineHooks{})
//	observability.SetCacheHooks(&myCacheHooks{})
//
// Libraries emit events through the registry:
//
//	observability.Pipeline().OnStageStart(ctx, "export")
//	// ... run the stage ...
//	observability.Pipeline().OnStageComplete(ctx, "export", duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// PipelineHooks receives events from the load/build/export/render pipeline.
type PipelineHooks interface {
	// OnStageStart records a stage beginning.
	OnStageStart(ctx context.Context, stage string)

	// OnStageComplete records a stage finishing, with its duration and
	// terminal error if any.
	OnStageComplete(ctx context.Context, stage string, duration time.Duration, err error)

	// OnFlightsLoaded records the size of a loaded flight stream.
	OnFlightsLoaded(ctx context.Context, file string, flights int)

	// OnDocumentBuilt records the shape of a finished export document.
	OnDocumentBuilt(ctx context.Context, nodes, links int, sampled bool)
}

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnStageStart(context.Context, string)                          {}
func (NoopPipelineHooks) OnStageComplete(context.Context, string, time.Duration, error) {}
func (NoopPipelineHooks) OnFlightsLoaded(context.Context, string, int)                  {}
func (NoopPipelineHooks) OnDocumentBuilt(context.Context, int, int, bool)               {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks. Call once at startup
// before running any pipeline.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks registers custom cache hooks. Call once at startup before
// any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults. Primarily for tests.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
}
