package customfields

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPlugins_RegisterPlugin(t *testing.T) {
	plugins := NewPlugins()
	if err := plugins.RegisterPlugin(PluginRecord{ID: "quill", IsReady: true}); err != nil {
		t.Fatalf("register: %v", err)
	}

	record, ok := plugins.Plugin("quill")
	if !ok {
		t.Fatalf("expected plugin record")
	}
	if record.IsReady {
		t.Fatalf("plugins must start out not ready")
	}
	if record.Name != "quill" {
		t.Fatalf("name should default to the id, got %q", record.Name)
	}

	if err := plugins.RegisterPlugin(PluginRecord{ID: "quill"}); !errors.Is(err, ErrDuplicatePlugin) {
		t.Fatalf("expected ErrDuplicatePlugin, got %v", err)
	}
	if err := plugins.RegisterPlugin(PluginRecord{}); !errors.Is(err, ErrInvalidDefinition) {
		t.Fatalf("expected ErrInvalidDefinition, got %v", err)
	}
}

func TestPlugins_InitializeRunsInOrderOnce(t *testing.T) {
	var calls []string
	record := func(id string) PluginRecord {
		return PluginRecord{ID: id, Initializer: func(context.Context) error {
			calls = append(calls, id)
			return nil
		}}
	}

	plugins := NewPlugins()
	_ = plugins.RegisterPlugin(record("quill"))
	_ = plugins.RegisterPlugin(record("media"))

	if err := plugins.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if err := plugins.Initialize(context.Background()); err != nil {
		t.Fatalf("second initialize: %v", err)
	}

	if diff := cmp.Diff([]string{"quill", "media"}, calls); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
	for _, id := range plugins.IDs() {
		if record, _ := plugins.Plugin(id); !record.IsReady {
			t.Fatalf("%s should be ready", id)
		}
	}
}

func TestPlugins_InitializeFailureStaysNotReady(t *testing.T) {
	boom := errors.New("boom")
	plugins := NewPlugins()
	_ = plugins.RegisterPlugin(PluginRecord{ID: "broken", Initializer: func(context.Context) error { return boom }})
	_ = plugins.RegisterPlugin(PluginRecord{ID: "quill"})

	err := plugins.Initialize(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected initializer error, got %v", err)
	}
	if record, _ := plugins.Plugin("broken"); record.IsReady {
		t.Fatalf("failed plugin must not be ready")
	}
	if record, _ := plugins.Plugin("quill"); !record.IsReady {
		t.Fatalf("other plugins should still initialise")
	}
}

func TestPlugins_InitializeCancelled(t *testing.T) {
	plugins := NewPlugins()
	_ = plugins.RegisterPlugin(PluginRecord{ID: "quill"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := plugins.Initialize(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestPlugins_InitializeUnknown(t *testing.T) {
	if err := NewPlugins().InitializePlugin(context.Background(), "nope"); !errors.Is(err, ErrUnknownPlugin) {
		t.Fatalf("expected ErrUnknownPlugin, got %v", err)
	}
}

func TestPlugins_InitializeOnceUnderConcurrency(t *testing.T) {
	var calls atomic.Int32
	plugins := NewPlugins()
	if err := plugins.RegisterPlugin(PluginRecord{ID: "quill", Initializer: func(context.Context) error {
		calls.Add(1)
		return nil
	}}); err != nil {
		t.Fatalf("register: %v", err)
	}

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := plugins.InitializePlugin(context.Background(), "quill"); err != nil {
				t.Errorf("initialize: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Fatalf("initializer ran %d times, want 1", got)
	}
	if record, _ := plugins.Plugin("quill"); !record.IsReady {
		t.Fatalf("plugin should be ready")
	}
}

func TestPlugins_NilTable(t *testing.T) {
	var plugins *Plugins
	if err := plugins.InitializePlugin(context.Background(), "quill"); !errors.Is(err, ErrUnknownPlugin) {
		t.Fatalf("expected ErrUnknownPlugin, got %v", err)
	}
	if err := plugins.Initialize(context.Background()); err != nil {
		t.Fatalf("nil table initialize: %v", err)
	}
}
