package quill

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/goliatone/go-quillfield/pkg/components"
	"github.com/goliatone/go-quillfield/pkg/model"
	"github.com/goliatone/go-quillfield/pkg/render/template/gotemplate"
)

// ComponentName is the name the field registers under in component registries
// and the custom field name used by the host.
const ComponentName = "quill"

const (
	templateName = "templates/quill.tpl"
	themePartial = "forms.quill"

	// Message ids resolved through the host translator.
	LabelMessageID       = "quill.quill.label"
	DescriptionMessageID = "quill.quill.description"

	DefaultLabel       = "Rich Text (Quill)"
	DefaultDescription = "Advanced rich text editor with formatting options"
)

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

// TemplatesFS exposes the embedded template bundle.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}

// NewTemplateRenderer returns a template engine preloaded with the quill
// templates.
func NewTemplateRenderer(opts ...gotemplate.Option) (*gotemplate.Engine, error) {
	return gotemplate.New(append([]gotemplate.Option{gotemplate.WithFS(TemplatesFS())}, opts...)...)
}

// defaultCSSVars reproduces the dark admin toolbar palette.
var defaultCSSVars = map[string]string{
	"--quill-border":     "#4a4a6a",
	"--quill-toolbar-bg": "#272733",
	"--quill-picker-bg":  "#272733",
	"--quill-text":       "#ffffff",
}

// Descriptor returns the component descriptor for the quill field. opts is
// captured at construction time; per-field component config is layered on top
// at render time.
func Descriptor(opts Options) components.Descriptor {
	opts = NewOptions(func(o *Options) { *o = opts })
	return components.Descriptor{
		Name:        ComponentName,
		Renderer:    newRenderer(opts),
		Stylesheets: []string{opts.StylesheetURL},
		Scripts: []components.Script{
			{Src: opts.ScriptURL},
			{Inline: bootScript, Defer: true},
		},
	}
}

func newRenderer(opts Options) components.Renderer {
	return func(buf *bytes.Buffer, field model.Field, data components.ComponentData) error {
		if data.Template == nil {
			return fmt.Errorf("components: template renderer not configured for %q", templateName)
		}

		resolvedTemplate := templateName
		if candidate := data.ThemePartial(themePartial); candidate != "" {
			resolvedTemplate = candidate
		}

		payload, err := renderPayload(opts, field, data)
		if err != nil {
			return err
		}

		rendered, err := data.Template.RenderTemplate(resolvedTemplate, payload)
		if err != nil {
			return fmt.Errorf("components: render template %q: %w", resolvedTemplate, err)
		}
		buf.WriteString(rendered)
		return nil
	}
}

func renderPayload(opts Options, field model.Field, data components.ComponentData) (map[string]any, error) {
	fieldOpts := opts
	if len(data.Config) > 0 {
		settings, err := SettingsFromMap(data.Config)
		if err != nil {
			return nil, fmt.Errorf("components: quill config for %q: %w", field.Name, err)
		}
		fieldOpts = NewOptions(append([]OptionFn{func(o *Options) { *o = opts }}, settings.Options()...)...)
	}
	if fieldOpts.Placeholder == "" && field.Placeholder != "" {
		fieldOpts.Placeholder = field.Placeholder
	}

	disabled := data.Disabled || field.ReadOnly
	config := Merge(fieldOpts)
	config.ReadOnly = disabled

	configJSON, err := json.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("components: encode quill config for %q: %w", field.Name, err)
	}

	label := strings.TrimSpace(field.Label)
	if label == "" {
		label = data.T(LabelMessageID, DefaultLabel)
	}
	hint := strings.TrimSpace(field.Description)
	if helpText := strings.TrimSpace(field.Hint("helpText")); helpText != "" {
		hint = helpText
	}

	state := newRenderState(field, data)
	adapter := Bind(state, field.Name, WithReadOnly(disabled))
	props := adapter.Props(state, label, hint, field.Required)
	value := adapter.Value()
	id := controlID(field.Name)

	vars := themeVars(data)
	vars["--quill-min-height"] = fieldOpts.MinHeight

	return map[string]any{
		"field":        field,
		"name":         field.Name,
		"control_id":   id,
		"label_id":     id + "-label",
		"hint_id":      id + "-hint",
		"error_id":     id + "-error",
		"label":        props.Label,
		"hint":         props.Hint,
		"required":     props.Required,
		"disabled":     props.Disabled,
		"error":        props.Error,
		"errors":       state.errors,
		"value":        value,
		"initial_html": SanitizeMarkup(value),
		"config":       config,
		"config_json":  string(configJSON),
		"style":        cssVarsStyle(vars),
	}, nil
}

// renderState is the form state a server render sees: the submitted or
// stored value and its errors. Edits reach the host through the hidden input
// the boot script writes, so OnChange has nothing to record.
type renderState struct {
	name   string
	value  string
	errors []string
}

func newRenderState(field model.Field, data components.ComponentData) renderState {
	state := renderState{name: field.Name, value: fieldValue(field, data.Value)}
	for _, message := range data.Errors {
		if trimmed := strings.TrimSpace(message); trimmed != "" {
			state.errors = append(state.errors, trimmed)
		}
	}
	return state
}

func (s renderState) FieldValue(name string) string {
	if name != s.name {
		return ""
	}
	return s.value
}

func (s renderState) FieldError(name string) string {
	if name != s.name || len(s.errors) == 0 {
		return ""
	}
	return s.errors[0]
}

func (renderState) OnChange(string, string) {}

func fieldValue(field model.Field, value any) string {
	if value == nil {
		value = field.Default
	}
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func controlID(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "qf-quill"
	}
	return "qf-" + trimmed
}

func themeVars(data components.ComponentData) map[string]string {
	vars := make(map[string]string, len(defaultCSSVars))
	for key, value := range defaultCSSVars {
		vars[key] = value
	}
	if data.Theme == nil {
		return vars
	}
	for key, value := range data.Theme.CSSVars {
		if strings.HasPrefix(key, "--quill-") && strings.TrimSpace(value) != "" {
			vars[key] = value
		}
	}
	return vars
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+vars[key])
	}
	return strings.Join(parts, "; ")
}
