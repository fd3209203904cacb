package schema

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-quillfield/pkg/customfields"
	"github.com/goliatone/go-quillfield/pkg/model"
)

// Labeler turns an attribute name into a display label.
type Labeler func(name string) string

// FormModel derives the form renderers consume from ct. Fields follow the
// attribute declaration order. Custom field attributes carry the widget and
// custom field UID in Metadata, and their Options as component config.
func FormModel(ct ContentType, fields *customfields.Registry, labeler Labeler) (model.FormModel, error) {
	if labeler == nil {
		labeler = DefaultLabeler
	}
	schema, err := OpenAPISchema(ct, fields)
	if err != nil {
		return model.FormModel{}, err
	}

	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	form := model.FormModel{
		ID:          ct.FormID(),
		Endpoint:    ct.Endpoint(),
		Method:      http.MethodPost,
		Title:       schema.Title,
		Description: schema.Description,
		Fields:      make([]model.Field, 0, len(ct.Attributes)),
	}
	if form.Title == "" {
		form.Title = labeler(ct.Info.SingularName)
	}
	for _, attr := range ct.Attributes {
		ref := schema.Properties[attr.Name]
		if ref == nil || ref.Value == nil {
			continue
		}
		field, err := fieldFromAttribute(attr, ref.Value, required[attr.Name], labeler)
		if err != nil {
			return model.FormModel{}, err
		}
		form.Fields = append(form.Fields, field)
	}
	if ct.UID != "" {
		form.Metadata = map[string]string{"contentType": ct.UID}
	}
	return form, nil
}

func fieldFromAttribute(attr Attribute, schema *openapi3.Schema, required bool, labeler Labeler) (model.Field, error) {
	field := model.Field{
		Name:        attr.Name,
		Type:        mapType(schema.Type),
		Format:      schema.Format,
		Label:       labeler(attr.Name),
		Description: schema.Description,
		Required:    required,
		Default:     schema.Default,
	}
	if len(schema.Enum) > 0 {
		field.Enum = append([]any(nil), schema.Enum...)
	}
	field.Metadata = metadataFromExtensions(schema.Extensions)

	if len(attr.Options) > 0 && attr.IsCustomField() {
		raw, err := json.Marshal(attr.Options)
		if err != nil {
			return model.Field{}, fmt.Errorf("schema: encode options for %s: %w", attr.Name, err)
		}
		if field.Metadata == nil {
			field.Metadata = make(map[string]string, 1)
		}
		field.Metadata[model.MetadataComponentConfig] = string(raw)
	}

	field.UIHints = formatHints(field.Format)
	if attr.MaxLength != nil {
		if field.UIHints == nil {
			field.UIHints = make(map[string]string, 1)
		}
		field.UIHints["maxLength"] = strconv.FormatInt(*attr.MaxLength, 10)
	}
	return field, nil
}

func mapType(types *openapi3.Types) model.FieldType {
	switch {
	case types == nil:
		return model.FieldTypeObject
	case types.Is(openapi3.TypeInteger):
		return model.FieldTypeInteger
	case types.Is(openapi3.TypeNumber):
		return model.FieldTypeNumber
	case types.Is(openapi3.TypeBoolean):
		return model.FieldTypeBoolean
	case types.Is(openapi3.TypeObject):
		return model.FieldTypeObject
	default:
		return model.FieldTypeString
	}
}

// metadataFromExtensions flattens the nested ExtensionNamespace map and any
// "x-formgen-<key>" attributes into string metadata.
func metadataFromExtensions(ext map[string]any) map[string]string {
	if len(ext) == 0 {
		return nil
	}
	result := make(map[string]string)
	for key, value := range ext {
		if key == ExtensionNamespace {
			nested, ok := value.(map[string]any)
			if !ok {
				continue
			}
			for nestedKey, nestedValue := range nested {
				if str, ok := extensionString(nestedValue); ok {
					result[nestedKey] = str
				}
			}
			continue
		}
		if trimmed, ok := strings.CutPrefix(key, ExtensionNamespace+"-"); ok {
			if str, ok := extensionString(value); ok {
				result[trimmed] = str
			}
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

func extensionString(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		if v == "" {
			return "", false
		}
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	case nil:
		return "", false
	default:
		return fmt.Sprintf("%v", v), true
	}
}

func formatHints(format string) map[string]string {
	var inputType string
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "date":
		inputType = "date"
	case "time":
		inputType = "time"
	case "date-time":
		inputType = "datetime-local"
	case "email":
		inputType = "email"
	case "password":
		inputType = "password"
	case "richtext":
		return map[string]string{"input": "textarea"}
	default:
		return nil
	}
	return map[string]string{"inputType": inputType}
}

var splitWordsPattern = regexp.MustCompile(`[_\-\s]+`)

// DefaultLabeler splits a name on underscores, dashes and camelCase
// boundaries and title-cases the words: "seoMetaTitle" becomes
// "Seo Meta Title".
func DefaultLabeler(name string) string {
	var segments []string
	for _, word := range splitWordsPattern.Split(name, -1) {
		if word == "" {
			continue
		}
		segments = append(segments, titleCase(splitCamel(word)))
	}
	return strings.Join(segments, " ")
}

func splitCamel(input string) string {
	var out strings.Builder
	for i, r := range input {
		if i > 0 && isUpper(r) && isLower(rune(input[i-1])) {
			out.WriteRune(' ')
		}
		out.WriteRune(r)
	}
	return out.String()
}

func titleCase(words string) string {
	parts := strings.Fields(words)
	for idx, part := range parts {
		lower := strings.ToLower(part)
		parts[idx] = strings.ToUpper(lower[:1]) + lower[1:]
	}
	return strings.Join(parts, " ")
}

func isUpper(r rune) bool { return r >= 'A' && r <= 'Z' }
func isLower(r rune) bool { return r >= 'a' && r <= 'z' }
