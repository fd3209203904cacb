package customfields

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-quillfield/pkg/components"
	"github.com/goliatone/go-quillfield/pkg/i18n"
	"github.com/goliatone/go-quillfield/pkg/model"
)

func stubInput() components.Descriptor {
	return components.Descriptor{
		Renderer: func(buf *bytes.Buffer, field model.Field, _ components.ComponentData) error {
			buf.WriteString("<textarea name=\"" + field.Name + "\"></textarea>")
			return nil
		},
		Stylesheets: []string{"/editor.css"},
	}
}

func quillAdmin() AdminDefinition {
	return AdminDefinition{
		Definition:      Definition{Name: "quill", Plugin: "quill", Type: TypeString},
		IntlLabel:       i18n.Message{ID: "quill.quill.label", DefaultMessage: "Rich Text (Quill)"},
		IntlDescription: i18n.Message{ID: "quill.quill.description", DefaultMessage: "Advanced rich text editor"},
		Icon:            `<svg viewBox="0 0 24 24" onload="alert(1)"><script>alert(1)</script><path d="M4 4h16"/></svg>`,
		Input:           stubInput(),
	}
}

func TestDefinition_UID(t *testing.T) {
	if got := (Definition{Name: "quill", Plugin: "quill"}).UID(); got != "plugin::quill.quill" {
		t.Fatalf("unexpected plugin uid %q", got)
	}
	if got := (Definition{Name: "color"}).UID(); got != "global::color" {
		t.Fatalf("unexpected global uid %q", got)
	}
}

func TestDefinition_Validate(t *testing.T) {
	cases := map[string]struct {
		def  Definition
		want error
	}{
		"valid":        {def: Definition{Name: "quill", Plugin: "quill", Type: TypeString}},
		"missing name": {def: Definition{Type: TypeString}, want: ErrInvalidDefinition},
		"bad name":     {def: Definition{Name: "rich text", Type: TypeString}, want: ErrInvalidDefinition},
		"bad plugin":   {def: Definition{Name: "quill", Plugin: "my plugin", Type: TypeString}, want: ErrInvalidDefinition},
		"relation":     {def: Definition{Name: "quill", Type: "relation"}, want: ErrUnsupportedType},
		"empty type":   {def: Definition{Name: "quill"}, want: ErrUnsupportedType},
	}
	for name, tc := range cases {
		err := tc.def.Validate()
		if tc.want == nil && err != nil {
			t.Fatalf("%s: unexpected error %v", name, err)
		}
		if tc.want != nil && !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", name, tc.want, err)
		}
	}
}

func TestRegistry_RegisterServer(t *testing.T) {
	registry := NewRegistry()

	if err := registry.RegisterServer(Definition{Name: " quill ", Plugin: "quill", Type: "STRING"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	def, ok := registry.Lookup("plugin::quill.quill")
	if !ok {
		t.Fatalf("expected definition")
	}
	if diff := cmp.Diff(Definition{Name: "quill", Plugin: "quill", Type: TypeString}, def); diff != "" {
		t.Fatalf("definition mismatch (-want +got):\n%s", diff)
	}

	if err := registry.RegisterServer(Definition{Name: "quill", Plugin: "quill", Type: TypeString}); err != nil {
		t.Fatalf("re-declaring the same type should be accepted: %v", err)
	}
	if err := registry.RegisterServer(Definition{Name: "quill", Plugin: "quill", Type: TypeText}); !errors.Is(err, ErrDuplicateField) {
		t.Fatalf("expected ErrDuplicateField, got %v", err)
	}
}

func TestRegistry_RegisterServerJoinsErrors(t *testing.T) {
	err := NewRegistry().RegisterServer(
		Definition{Name: "", Type: TypeString},
		Definition{Name: "ok", Type: TypeString},
		Definition{Name: "geo", Type: "point"},
	)
	if !errors.Is(err, ErrInvalidDefinition) || !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected both failures to be reported, got %v", err)
	}
}

func TestRegistry_RegisterAdmin(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Register(quillAdmin()); err != nil {
		t.Fatalf("register: %v", err)
	}

	admin, ok := registry.Admin("plugin::quill.quill")
	if !ok {
		t.Fatalf("expected admin definition")
	}
	if strings.Contains(admin.Icon, "script") || strings.Contains(admin.Icon, "onload") {
		t.Fatalf("icon was not sanitised: %s", admin.Icon)
	}
	if !strings.Contains(admin.Icon, `d="M4 4h16"`) {
		t.Fatalf("icon lost its drawing: %s", admin.Icon)
	}
	if _, ok := registry.Lookup("plugin::quill.quill"); !ok {
		t.Fatalf("admin registration should also declare the server field")
	}

	if err := registry.Register(quillAdmin()); !errors.Is(err, ErrDuplicateField) {
		t.Fatalf("expected ErrDuplicateField, got %v", err)
	}
}

func TestRegistry_RegisterAdminValidation(t *testing.T) {
	missingLabel := quillAdmin()
	missingLabel.IntlLabel = i18n.Message{}
	missingInput := quillAdmin()
	missingInput.Input = components.Descriptor{}

	for name, def := range map[string]AdminDefinition{"label": missingLabel, "input": missingInput} {
		if err := NewRegistry().Register(def); !errors.Is(err, ErrInvalidDefinition) {
			t.Fatalf("%s: expected ErrInvalidDefinition, got %v", name, err)
		}
	}

	registry := NewRegistry()
	_ = registry.RegisterServer(Definition{Name: "quill", Plugin: "quill", Type: TypeText})
	if err := registry.Register(quillAdmin()); !errors.Is(err, ErrDuplicateField) {
		t.Fatalf("expected type conflict with server declaration, got %v", err)
	}
}

func TestRegistry_ResolveUnknown(t *testing.T) {
	if _, err := NewRegistry().Resolve("plugin::quill.quill"); !errors.Is(err, ErrUnknownCustomField) {
		t.Fatalf("expected ErrUnknownCustomField, got %v", err)
	}
}

func TestRegistry_RegisterComponents(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Register(quillAdmin()); err != nil {
		t.Fatalf("register: %v", err)
	}

	reg := components.New()
	if err := registry.RegisterComponents(reg); err != nil {
		t.Fatalf("register components: %v", err)
	}
	if diff := cmp.Diff([]string{"quill"}, reg.Names()); diff != "" {
		t.Fatalf("component names mismatch (-want +got):\n%s", diff)
	}
}

func TestAdminDefinition_LabelAndDescription(t *testing.T) {
	catalog := i18n.NewCatalog()
	catalog.Add("fr", i18n.TranslationSet{"quill.quill.label": "Texte riche (Quill)"})
	def := quillAdmin()

	if got := def.Label(catalog, "fr"); got != "Texte riche (Quill)" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := def.Description(catalog, "fr"); got != "Advanced rich text editor" {
		t.Fatalf("unexpected description %q", got)
	}
}

func TestRegistry_UIDs(t *testing.T) {
	registry := NewRegistry()
	_ = registry.RegisterServer(
		Definition{Name: "quill", Plugin: "quill", Type: TypeString},
		Definition{Name: "color", Type: TypeString},
	)
	if diff := cmp.Diff([]string{"global::color", "plugin::quill.quill"}, registry.UIDs()); diff != "" {
		t.Fatalf("uids mismatch (-want +got):\n%s", diff)
	}
}

func TestAllowedTypesIsCopy(t *testing.T) {
	types := AllowedTypes()
	types[0] = "mutated"
	if !TypeString.Valid() {
		t.Fatalf("AllowedTypes should return a copy")
	}
}
