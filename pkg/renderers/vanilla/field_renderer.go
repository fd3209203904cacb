package vanilla

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"slices"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-quillfield/pkg/components"
	"github.com/goliatone/go-quillfield/pkg/model"
	"github.com/goliatone/go-quillfield/pkg/render/template"
	"github.com/goliatone/go-quillfield/pkg/widgets"
)

type fieldState struct {
	values    map[string]any
	errors    map[string][]string
	readOnly  bool
	locale    string
	theme     *theme.RendererConfig
	translate func(key, fallback string) string
}

type componentRenderer struct {
	templates template.TemplateRenderer
	registry  *components.Registry
	state     fieldState

	usedComponents map[string]struct{}
}

func newComponentRenderer(templates template.TemplateRenderer, registry *components.Registry, state fieldState) *componentRenderer {
	return &componentRenderer{
		templates:      templates,
		registry:       registry,
		state:          state,
		usedComponents: make(map[string]struct{}),
	}
}

func (r *componentRenderer) render(field model.Field) (string, error) {
	componentName := resolveComponentName(field)

	descriptor, ok := r.registry.Descriptor(componentName)
	if !ok {
		return "", fmt.Errorf("component %q not registered for field %q", componentName, field.Name)
	}

	config, err := parseComponentConfig(field.Meta(model.MetadataComponentConfig))
	if err != nil {
		return "", fmt.Errorf("parse component config for field %q: %w", field.Name, err)
	}

	var value any
	if r.state.values != nil {
		value = r.state.values[field.Name]
	}
	errs := slices.Clone(r.state.errors[field.Name])

	data := components.ComponentData{
		Template:  r.templates,
		Config:    config,
		Value:     value,
		Errors:    errs,
		Disabled:  r.state.readOnly,
		Locale:    r.state.locale,
		Theme:     r.state.theme,
		Translate: r.state.translate,
	}

	var control bytes.Buffer
	if err := descriptor.Renderer(&control, field, data); err != nil {
		return "", fmt.Errorf("render component %q for field %q: %w", componentName, field.Name, err)
	}

	r.usedComponents[componentName] = struct{}{}

	if componentHandlesChrome(componentName) {
		return control.String(), nil
	}
	return buildFieldMarkup(field, componentName, control.String(), errs), nil
}

func (r *componentRenderer) assets() (stylesheets []string, scripts []components.Script) {
	if r.registry == nil || len(r.usedComponents) == 0 {
		return nil, nil
	}
	names := make([]string, 0, len(r.usedComponents))
	for name := range r.usedComponents {
		names = append(names, name)
	}
	slices.Sort(names)
	return r.registry.Assets(names)
}

// resolveComponentName picks the component for field: an explicit
// component.name, then the decorated widget, then a plain input.
func resolveComponentName(field model.Field) string {
	if name := strings.TrimSpace(field.Meta(model.MetadataComponentName)); name != "" {
		return name
	}
	if name := strings.TrimSpace(field.Meta(model.MetadataWidget)); name != "" {
		return name
	}
	return widgets.WidgetInput
}

func buildFieldMarkup(field model.Field, componentName, control string, errs []string) string {
	var builder strings.Builder
	builder.Grow(len(control) + 256)

	builder.WriteString(`<div class="`)
	builder.WriteString(string(ClassField))
	if cls := sanitizeClassList(field.Hint("cssClass")); cls != "" {
		builder.WriteByte(' ')
		builder.WriteString(html.EscapeString(cls))
	}
	if len(errs) > 0 {
		builder.WriteByte(' ')
		builder.WriteString(string(ClassField))
		builder.WriteString("--error")
	}
	builder.WriteString(`"`)

	if componentName != "" {
		builder.WriteString(` data-component="`)
		builder.WriteString(html.EscapeString(componentName))
		builder.WriteString(`"`)
	}
	builder.WriteString(">\n")

	if shouldRenderLabel(field) {
		builder.WriteString(`    <label for="`)
		builder.WriteString(html.EscapeString(componentControlID(field.Name)))
		builder.WriteString(`">`)
		builder.WriteString(html.EscapeString(field.Label))
		if field.Required {
			builder.WriteString(` *`)
		}
		builder.WriteString("</label>\n")
	}

	for _, line := range strings.Split(control, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		builder.WriteString("    ")
		builder.WriteString(line)
		builder.WriteByte('\n')
	}

	if desc := strings.TrimSpace(field.Description); desc != "" {
		builder.WriteString(`    <small class="quillfield-description">`)
		builder.WriteString(html.EscapeString(desc))
		builder.WriteString("</small>\n")
	}

	if hint := strings.TrimSpace(field.Hint("helpText")); hint != "" {
		builder.WriteString(`    <small class="quillfield-help">`)
		builder.WriteString(html.EscapeString(hint))
		builder.WriteString("</small>\n")
	}

	for _, message := range errs {
		if message = strings.TrimSpace(message); message == "" {
			continue
		}
		builder.WriteString(`    <p class="quillfield-error" role="alert">`)
		builder.WriteString(html.EscapeString(message))
		builder.WriteString("</p>\n")
	}

	builder.WriteString("</div>\n")
	return builder.String()
}

func shouldRenderLabel(field model.Field) bool {
	if strings.TrimSpace(field.Label) == "" {
		return false
	}
	return strings.TrimSpace(field.Hint("hideLabel")) != "true"
}

func parseComponentConfig(raw string) (map[string]any, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var cfg map[string]any
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
