// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about progress runs, channel decoding, and render output.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetEngineHooks(&myEngineHooks{})
//	    observability.SetChannelHooks(&myChannelHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Engine().OnRunStart(ctx, runID, denominator, tileCount)
//	// ... toggle tiles ...
//	observability.Engine().OnToggle(ctx, runID, tileID, done, toggled)
package observability

import (
	"context"
	"sync"
)

// =============================================================================
// Engine Hooks
// =============================================================================

// EngineHooks receives events from the progress engine.
type EngineHooks interface {
	// OnRunStart records the beginning of a progress run (new denominator).
	OnRunStart(ctx context.Context, runID string, denominator, tileCount int)

	// OnToggle records a single tile state transition. done is true for a
	// Start-to-Done toggle, false for a revert. toggled is the engine's
	// toggle count after the transition.
	OnToggle(ctx context.Context, runID string, tileID int, done bool, toggled int)

	// OnRunReset records a run being torn down (denominator change or
	// explicit restart), with the number of tiles reverted.
	OnRunReset(ctx context.Context, runID string, reverted int)
}

// =============================================================================
// Channel Hooks
// =============================================================================

// ChannelHooks receives events from the progress channel.
type ChannelHooks interface {
	// OnOpen records the channel becoming readable (writer connected).
	OnOpen(ctx context.Context, path string)

	// OnEvent records a successfully decoded progress line.
	OnEvent(ctx context.Context, kind string, value int)

	// OnDecodeError records a malformed line that was skipped.
	OnDecodeError(ctx context.Context, line string, err error)

	// OnClosed records the end of the stream. err is nil on clean EOF and
	// a CHANNEL_CLOSED error when the source failed mid-stream.
	OnClosed(ctx context.Context, path string, err error)
}

// =============================================================================
// Render Hooks
// =============================================================================

// RenderHooks receives events from render surfaces.
type RenderHooks interface {
	// OnApply records a transition being handed to a renderer.
	OnApply(ctx context.Context, surface string, tileID int, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopEngineHooks is a no-op implementation of EngineHooks.
type NoopEngineHooks struct{}

func (NoopEngineHooks) OnRunStart(context.Context, string, int, int)     {}
func (NoopEngineHooks) OnToggle(context.Context, string, int, bool, int) {}
func (NoopEngineHooks) OnRunReset(context.Context, string, int)          {}

// NoopChannelHooks is a no-op implementation of ChannelHooks.
type NoopChannelHooks struct{}

func (NoopChannelHooks) OnOpen(context.Context, string)               {}
func (NoopChannelHooks) OnEvent(context.Context, string, int)         {}
func (NoopChannelHooks) OnDecodeError(context.Context, string, error) {}
func (NoopChannelHooks) OnClosed(context.Context, string, error)      {}

// NoopRenderHooks is a no-op implementation of RenderHooks.
type NoopRenderHooks struct{}

func (NoopRenderHooks) OnApply(context.Context, string, int, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	engineHooks  EngineHooks  = NoopEngineHooks{}
	channelHooks ChannelHooks = NoopChannelHooks{}
	renderHooks  RenderHooks  = NoopRenderHooks{}
	hooksMu      sync.RWMutex
)

// SetEngineHooks registers custom engine hooks.
// This should be called once at application startup before any progress run.
func SetEngineHooks(h EngineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		engineHooks = h
	}
}

// SetChannelHooks registers custom channel hooks.
// This should be called once at application startup before opening the channel.
func SetChannelHooks(h ChannelHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		channelHooks = h
	}
}

// SetRenderHooks registers custom render hooks.
// This should be called once at application startup before any rendering.
func SetRenderHooks(h RenderHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		renderHooks = h
	}
}

// Engine returns the registered engine hooks.
func Engine() EngineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return engineHooks
}

// Channel returns the registered channel hooks.
func Channel() ChannelHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return channelHooks
}

// Render returns the registered render hooks.
func Render() RenderHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return renderHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	engineHooks = NoopEngineHooks{}
	channelHooks = NoopChannelHooks{}
	renderHooks = NoopRenderHooks{}
}
