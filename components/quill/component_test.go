package quill

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-quillfield/pkg/components"
)

func TestComponent_RegisterAddsDescriptor(t *testing.T) {
	registry := components.New()
	component := New(WithAssets("/assets/quill.js", "/assets/quill.css"))

	if err := component.Register(registry); err != nil {
		t.Fatalf("register: %v", err)
	}
	desc, ok := registry.Descriptor(ComponentName)
	if !ok {
		t.Fatalf("expected %q descriptor", ComponentName)
	}
	if diff := cmp.Diff([]string{"/assets/quill.css"}, desc.Stylesheets); diff != "" {
		t.Fatalf("stylesheets mismatch (-want +got):\n%s", diff)
	}
	if err := component.Register(nil); err != nil {
		t.Fatalf("nil registry should be ignored, got %v", err)
	}
}

func TestComponent_OptionsAreCopies(t *testing.T) {
	component := New(WithCustomColors("red"))

	opts := component.Options()
	opts.CustomColors[0] = "mutated"

	if diff := cmp.Diff([]string{"red"}, component.Options().CustomColors); diff != "" {
		t.Fatalf("component options aliased (-want +got):\n%s", diff)
	}
}

func TestComponent_ConfigReflectsOptions(t *testing.T) {
	config := New(WithCustomFontSizes(Named("small"), DefaultChoice)).Config()

	toolbar := config.Modules.Toolbar()
	want := Group{Picker(FormatSize, Named("small"), DefaultChoice)}
	if diff := cmp.Diff(want, toolbar[toolbar.Slot(FormatSize)]); diff != "" {
		t.Fatalf("size group mismatch (-want +got):\n%s", diff)
	}
}

func TestComponent_NilReceiverDefaults(t *testing.T) {
	var component *Component
	if component.Options().Theme != ThemeSnow {
		t.Fatalf("expected default options from nil component")
	}
}
