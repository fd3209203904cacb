package quill

import (
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
)

func TestParseSettings_JSON(t *testing.T) {
	settings, err := ParseSettings([]byte(`{
		"customColors": ["red", "blue"],
		"customFontSizes": ["small", false, "large"],
		"customFormats": ["bold", "italic"],
		"theme": "bubble"
	}`), "quill.json")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	want := Settings{
		CustomColors:    []string{"red", "blue"},
		CustomFontSizes: []Choice{Named("small"), DefaultChoice, Named("large")},
		CustomFormats:   []string{"bold", "italic"},
		Theme:           ThemeBubble,
	}
	if diff := cmp.Diff(want, settings); diff != "" {
		t.Fatalf("settings mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSettings_JSONC(t *testing.T) {
	settings, err := ParseSettings([]byte(`{
		// swatches shared by color and background
		"customColors": ["#000", "#fff",],
	}`), "quill.jsonc")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if diff := cmp.Diff(Settings{CustomColors: []string{"#000", "#fff"}}, settings); diff != "" {
		t.Fatalf("settings mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSettings_YAMLFallback(t *testing.T) {
	settings, err := ParseSettings([]byte(`
customFonts:
  - serif
  - false
customModules:
  history:
    delay: 500
placeholder: Start typing
`), "quill.yaml")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if diff := cmp.Diff([]Choice{Named("serif"), DefaultChoice}, settings.CustomFonts); diff != "" {
		t.Fatalf("fonts mismatch (-want +got):\n%s", diff)
	}
	if _, ok := settings.CustomModules["history"]; !ok {
		t.Fatalf("expected history module, got %v", settings.CustomModules)
	}
	if settings.Placeholder != "Start typing" {
		t.Fatalf("unexpected placeholder %q", settings.Placeholder)
	}
}

func TestParseSettings_Errors(t *testing.T) {
	if _, err := ParseSettings([]byte("  \n"), "empty.json"); err == nil {
		t.Fatalf("expected error for empty settings")
	}
	if _, err := ParseSettings([]byte("customColors: [unterminated"), "broken.yaml"); err == nil {
		t.Fatalf("expected error for invalid settings")
	}
}

func TestSettingsOptions_OnlySuppliedKeysOverride(t *testing.T) {
	settings := Settings{CustomColors: []string{"red"}}
	opts := NewOptions(append([]OptionFn{
		WithCustomFonts(Named("serif")),
		WithPlaceholder("base"),
	}, settings.Options()...)...)

	if diff := cmp.Diff([]Choice{Named("serif")}, opts.CustomFonts); diff != "" {
		t.Fatalf("fonts should survive (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"red"}, opts.CustomColors); diff != "" {
		t.Fatalf("colors mismatch (-want +got):\n%s", diff)
	}
	if opts.Placeholder != "base" {
		t.Fatalf("placeholder overwritten: %q", opts.Placeholder)
	}
}

func TestSettingsFromMap(t *testing.T) {
	settings, err := SettingsFromMap(map[string]any{
		"customFontSizes": []any{"small", false},
		"customFormats":   []any{"bold"},
	})
	if err != nil {
		t.Fatalf("from map: %v", err)
	}
	if diff := cmp.Diff([]Choice{Named("small"), DefaultChoice}, settings.CustomFontSizes); diff != "" {
		t.Fatalf("sizes mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"bold"}, settings.CustomFormats); diff != "" {
		t.Fatalf("formats mismatch (-want +got):\n%s", diff)
	}

	if _, err := SettingsFromMap(map[string]any{"customFonts": []any{true}}); err == nil {
		t.Fatalf("expected error for true font marker")
	}
}

func TestLoadSettings(t *testing.T) {
	fsys := fstest.MapFS{
		"config/quill.yaml": {Data: []byte("customColors:\n  - \"#ff0000\"\n")},
	}

	settings, err := LoadSettings(fsys, "config/quill.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]string{"#ff0000"}, settings.CustomColors); diff != "" {
		t.Fatalf("colors mismatch (-want +got):\n%s", diff)
	}

	if _, err := LoadSettings(fsys, "config/missing.yaml"); err == nil {
		t.Fatalf("expected error for missing file")
	}
	if _, err := LoadSettings(nil, "config/quill.yaml"); err == nil {
		t.Fatalf("expected error for nil filesystem")
	}
}
