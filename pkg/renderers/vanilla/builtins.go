package vanilla

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goliatone/go-quillfield/pkg/components"
	"github.com/goliatone/go-quillfield/pkg/model"
	"github.com/goliatone/go-quillfield/pkg/widgets"
)

// registerBuiltins adds the plain HTML controls to registry unless a
// component with the same name is already registered.
func registerBuiltins(registry *components.Registry) error {
	builtins := map[string]components.Descriptor{
		widgets.WidgetInput:    {Renderer: templateComponentRenderer("forms.input", componentTemplates+"input.tpl")},
		widgets.WidgetTextarea: {Renderer: templateComponentRenderer("forms.textarea", componentTemplates+"textarea.tpl")},
		widgets.WidgetSelect:   {Renderer: templateComponentRenderer("forms.select", componentTemplates+"select.tpl")},
		widgets.WidgetCheckbox: {Renderer: templateComponentRenderer("forms.checkbox", componentTemplates+"checkbox.tpl")},
	}
	for name, descriptor := range builtins {
		if _, exists := registry.Descriptor(name); exists {
			continue
		}
		if err := registry.Register(name, descriptor); err != nil {
			return err
		}
	}
	return nil
}

func templateComponentRenderer(partialKey, templateName string) components.Renderer {
	return func(buf *bytes.Buffer, field model.Field, data components.ComponentData) error {
		if data.Template == nil {
			return fmt.Errorf("components: template renderer not configured for %q", templateName)
		}

		resolvedTemplate := templateName
		if candidate := data.ThemePartial(partialKey); candidate != "" {
			resolvedTemplate = candidate
		}

		rendered, err := data.Template.RenderTemplate(resolvedTemplate, controlPayload(field, data))
		if err != nil {
			return fmt.Errorf("components: render template %q: %w", resolvedTemplate, err)
		}
		buf.WriteString(rendered)
		return nil
	}
}

type selectOption struct {
	Value    string `json:"value"`
	Selected bool   `json:"selected"`
}

func controlPayload(field model.Field, data components.ComponentData) map[string]any {
	value := stringValue(data.Value)
	if data.Value == nil && field.Default != nil {
		value = stringValue(field.Default)
	}

	options := make([]selectOption, 0, len(field.Enum))
	for _, candidate := range field.Enum {
		str := stringValue(candidate)
		options = append(options, selectOption{Value: str, Selected: str == value})
	}

	inputType := strings.TrimSpace(field.Hint("inputType"))
	if inputType == "" {
		switch field.Type {
		case model.FieldTypeInteger, model.FieldTypeNumber:
			inputType = "number"
		default:
			inputType = "text"
		}
	}

	return map[string]any{
		"field":       field,
		"name":        field.Name,
		"control_id":  componentControlID(field.Name),
		"value":       value,
		"checked":     value == "true",
		"input_type":  inputType,
		"step":        stepFor(field.Type),
		"placeholder": field.Placeholder,
		"max_length":  field.Hint("maxLength"),
		"required":    field.Required,
		"disabled":    data.Disabled || field.ReadOnly,
		"invalid":     len(data.Errors) > 0,
		"options":     options,
		"config":      data.Config,
	}
}

func stepFor(fieldType model.FieldType) string {
	switch fieldType {
	case model.FieldTypeInteger:
		return "1"
	case model.FieldTypeNumber:
		return "any"
	default:
		return ""
	}
}

func stringValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}
