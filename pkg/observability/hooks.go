// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about rendering, cache lookups, agent calls and diary
// messages.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, never by libraries, so instrumented packages
// do not import any backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPipelineHooks(observability.NewLogHooks(logger))
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnRenderStart(ctx, "trace")
//	// ... render ...
//	observability.Pipeline().OnRenderComplete(ctx, "trace", len(png), duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the generation pipeline.
type PipelineHooks interface {
	// OnInterpret records a finished text interpretation.
	OnInterpret(ctx context.Context, runes, points int)

	// Render events; kind is "trace" or "river".
	OnRenderStart(ctx context.Context, kind string)
	OnRenderComplete(ctx context.Context, kind string, size int, duration time.Duration, err error)

	// OnSave records a gallery write.
	OnSave(ctx context.Context, name string, size int, err error)
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
// Agent Hooks
// =============================================================================

// AgentHooks receives events from conversational agents.
type AgentHooks interface {
	// OnAgentRequest records an outgoing prompt.
	OnAgentRequest(ctx context.Context, provider, model string)

	// OnAgentResponse records the reply, or the error that replaced it.
	OnAgentResponse(ctx context.Context, provider, model string, duration time.Duration, err error)
}

// =============================================================================
// Diary Hooks
// =============================================================================

// DiaryHooks receives events from the diary interceptor.
type DiaryHooks interface {
	// OnMessage records an incoming message and how many emoji it carried.
	OnMessage(ctx context.Context, sessionID string, emojis int)

	// OnCommand records an intercepted image command.
	OnCommand(ctx context.Context, sessionID, command string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnInterpret(context.Context, int, int)      {}
func (NoopPipelineHooks) OnRenderStart(context.Context, string)      {}
func (NoopPipelineHooks) OnSave(context.Context, string, int, error) {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, string, int, time.Duration, error) {
}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopAgentHooks is a no-op implementation of AgentHooks.
type NoopAgentHooks struct{}

func (NoopAgentHooks) OnAgentRequest(context.Context, string, string) {}
func (NoopAgentHooks) OnAgentResponse(context.Context, string, string, time.Duration, error) {
}

// NoopDiaryHooks is a no-op implementation of DiaryHooks.
type NoopDiaryHooks struct{}

func (NoopDiaryHooks) OnMessage(context.Context, string, int)           {}
func (NoopDiaryHooks) OnCommand(context.Context, string, string, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	agentHooks    AgentHooks    = NoopAgentHooks{}
	diaryHooks    DiaryHooks    = NoopDiaryHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any pipeline operations.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetAgentHooks registers custom agent hooks.
func SetAgentHooks(h AgentHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		agentHooks = h
	}
}

// SetDiaryHooks registers custom diary hooks.
func SetDiaryHooks(h DiaryHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		diaryHooks = h
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

// Agent returns the registered agent hooks.
func Agent() AgentHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return agentHooks
}

// Diary returns the registered diary hooks.
func Diary() DiaryHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return diaryHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
	agentHooks = NoopAgentHooks{}
	diaryHooks = NoopDiaryHooks{}
}
