package observability

import (
	"context"
	"testing"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Engine hooks
	e := NoopEngineHooks{}
	e.OnRunStart(ctx, "run-1", 10, 100)
	e.OnToggle(ctx, "run-1", 42, true, 5)
	e.OnRunReset(ctx, "run-1", 5)

	// Channel hooks
	c := NoopChannelHooks{}
	c.OnOpen(ctx, "/tmp/progress.fifo")
	c.OnEvent(ctx, "numerator", 3)
	c.OnDecodeError(ctx, "abc", nil)
	c.OnClosed(ctx, "/tmp/progress.fifo", nil)

	// Render hooks
	r := NoopRenderHooks{}
	r.OnApply(ctx, "svg", 42, nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Engine().(NoopEngineHooks); !ok {
		t.Error("Engine() should return NoopEngineHooks by default")
	}
	if _, ok := Channel().(NoopChannelHooks); !ok {
		t.Error("Channel() should return NoopChannelHooks by default")
	}
	if _, ok := Render().(NoopRenderHooks); !ok {
		t.Error("Render() should return NoopRenderHooks by default")
	}

	// Set custom hooks
	customEngine := &testEngineHooks{}
	SetEngineHooks(customEngine)
	if Engine() != customEngine {
		t.Error("SetEngineHooks should set custom hooks")
	}

	customChannel := &testChannelHooks{}
	SetChannelHooks(customChannel)
	if Channel() != customChannel {
		t.Error("SetChannelHooks should set custom hooks")
	}

	customRender := &testRenderHooks{}
	SetRenderHooks(customRender)
	if Render() != customRender {
		t.Error("SetRenderHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Engine().(NoopEngineHooks); !ok {
		t.Error("Reset() should restore NoopEngineHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testEngineHooks{}
	SetEngineHooks(custom)

	// Setting nil should be ignored
	SetEngineHooks(nil)

	if Engine() != custom {
		t.Error("SetEngineHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testEngineHooks struct{ NoopEngineHooks }
type testChannelHooks struct{ NoopChannelHooks }
type testRenderHooks struct{ NoopRenderHooks }
