package i18n

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func newTestCatalog() *Catalog {
	catalog := NewCatalog(WithFallbackLocale("en"))
	catalog.Add("en", TranslationSet{
		"quill.quill.label":       "Rich Text (Quill)",
		"quill.quill.description": "Advanced rich text editor",
		"greeting":                "Hello {name}",
	})
	catalog.Add("fr", TranslationSet{"quill.quill.label": "Texte riche (Quill)"})
	return catalog
}

func TestCatalog_TranslateWithFallbackChain(t *testing.T) {
	catalog := newTestCatalog()

	cases := []struct {
		locale, key, want string
	}{
		{"fr", "quill.quill.label", "Texte riche (Quill)"},
		{"fr-CA", "quill.quill.label", "Texte riche (Quill)"},
		{"fr_CA", "quill.quill.label", "Texte riche (Quill)"},
		{"fr", "quill.quill.description", "Advanced rich text editor"},
		{"de", "quill.quill.label", "Rich Text (Quill)"},
	}
	for _, tc := range cases {
		got, err := catalog.Translate(tc.locale, tc.key)
		if err != nil {
			t.Fatalf("%s/%s: %v", tc.locale, tc.key, err)
		}
		if got != tc.want {
			t.Fatalf("%s/%s: want %q, got %q", tc.locale, tc.key, tc.want, got)
		}
	}
}

func TestCatalog_MissingTranslation(t *testing.T) {
	catalog := NewCatalog()
	catalog.Add("en", TranslationSet{"a": "A"})

	if _, err := catalog.Translate("en", "b"); !errors.Is(err, ErrMissingTranslation) {
		t.Fatalf("expected ErrMissingTranslation, got %v", err)
	}
	if _, err := catalog.Translate("fr", "a"); !errors.Is(err, ErrMissingTranslation) {
		t.Fatalf("expected miss without fallback locale, got %v", err)
	}
	if _, err := catalog.Translate("en", " "); !errors.Is(err, ErrMissingTranslation) {
		t.Fatalf("expected miss for blank key, got %v", err)
	}
}

func TestCatalog_FormatArgs(t *testing.T) {
	got, err := newTestCatalog().Translate("en", "greeting", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if got != "Hello Ada" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestCatalog_SetAndLocales(t *testing.T) {
	catalog := newTestCatalog()
	catalog.Add("FR", TranslationSet{"extra": "en plus"})

	if diff := cmp.Diff([]string{"en", "fr"}, catalog.Locales()); diff != "" {
		t.Fatalf("locales mismatch (-want +got):\n%s", diff)
	}

	set := catalog.Set("fr")
	set["quill.quill.label"] = "mutated"
	if got, _ := catalog.Translate("fr", "quill.quill.label"); got != "Texte riche (Quill)" {
		t.Fatalf("Set should return a copy, got %q", got)
	}
	if len(catalog.Set("de")) != 0 {
		t.Fatalf("unknown locale should yield an empty set")
	}
}

func TestResolveAndFunc(t *testing.T) {
	catalog := newTestCatalog()
	msg := Message{ID: "quill.quill.label", DefaultMessage: "Rich Text (Quill)"}

	if got := Resolve(catalog, "fr", msg); got != "Texte riche (Quill)" {
		t.Fatalf("unexpected resolved label %q", got)
	}
	if got := Resolve(nil, "fr", msg); got != "Rich Text (Quill)" {
		t.Fatalf("nil translator should return the default message, got %q", got)
	}
	if got := Resolve(catalog, "fr", Message{ID: "unknown"}); got != "unknown" {
		t.Fatalf("blank default should fall back to the key, got %q", got)
	}

	translate := Func(catalog, "de")
	if got := translate("quill.quill.description", "x"); got != "Advanced rich text editor" {
		t.Fatalf("unexpected translation %q", got)
	}
	if got := translate("nope", "fallback"); got != "fallback" {
		t.Fatalf("unexpected fallback %q", got)
	}
}

func TestFuncWithHandler(t *testing.T) {
	var gotErr error
	translate := FuncWithHandler(TranslatorFunc(func(string, string, ...any) (string, error) {
		return "", errors.New("backend down")
	}), "en", func(locale, key string, _ []any, err error) string {
		gotErr = err
		return "[" + locale + ":" + key + "]"
	})

	if got := translate("a.b", "fallback"); got != "[en:a.b]" {
		t.Fatalf("unexpected handler output %q", got)
	}
	if gotErr == nil || gotErr.Error() != "backend down" {
		t.Fatalf("handler should receive the translator error, got %v", gotErr)
	}
}

func TestFormat(t *testing.T) {
	cases := map[string]struct {
		msg  string
		args []any
		want string
	}{
		"no args":         {msg: "Hello {name}", want: "Hello {name}"},
		"map arg":         {msg: "Hello {name}", args: []any{map[string]any{"name": "Ada"}}, want: "Hello Ada"},
		"non-map ignored": {msg: "Count {n}", args: []any{3}, want: "Count {n}"},
		"numeric value":   {msg: "Count {n}", args: []any{map[string]any{"n": 3}}, want: "Count 3"},
	}
	for name, tc := range cases {
		if got := Format(tc.msg, tc.args...); got != tc.want {
			t.Fatalf("%s: want %q, got %q", name, tc.want, got)
		}
	}
}
