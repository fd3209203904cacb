package model

// FieldType is the simplified enum for form-friendly field kinds.
type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeInteger FieldType = "integer"
	FieldTypeNumber  FieldType = "number"
	FieldTypeBoolean FieldType = "boolean"
	FieldTypeObject  FieldType = "object"
)

// Field models an individual input inside a rendered form. Struct fields are
// annotated so renderers can serialise them directly when needed.
type Field struct {
	Name        string            `json:"name"`
	Type        FieldType         `json:"type"`
	Format      string            `json:"format,omitempty"`
	Required    bool              `json:"required"`
	ReadOnly    bool              `json:"readOnly,omitempty"`
	Label       string            `json:"label,omitempty"`
	Placeholder string            `json:"placeholder,omitempty"`
	Description string            `json:"description,omitempty"`
	Default     any               `json:"default,omitempty"`
	Enum        []any             `json:"enum,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	UIHints     map[string]string `json:"uiHints,omitempty"`
}

// FormModel is the top-level representation renderers consume. ID carries the
// content-type UID the fields were derived from.
type FormModel struct {
	ID          string            `json:"id"`
	Endpoint    string            `json:"endpoint,omitempty"`
	Method      string            `json:"method,omitempty"`
	Title       string            `json:"title,omitempty"`
	Description string            `json:"description,omitempty"`
	Fields      []Field           `json:"fields"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Metadata keys shared by the schema layer and the renderers.
const (
	// MetadataWidget names the widget a field should be rendered with.
	MetadataWidget = "widget"
	// MetadataCustomField carries the custom field UID ("plugin::quill.quill").
	MetadataCustomField = "customField"
	// MetadataComponentName pins the component used to render the field.
	MetadataComponentName = "component.name"
	// MetadataComponentConfig holds a JSON object handed to the component.
	MetadataComponentConfig = "component.config"
)

// Decorator mutates a form model after it has been built.
type Decorator interface {
	Decorate(form *FormModel) error
}

// Hint returns the UI hint stored under key.
func (f Field) Hint(key string) string {
	if f.UIHints == nil {
		return ""
	}
	return f.UIHints[key]
}

// Meta returns the metadata value stored under key.
func (f Field) Meta(key string) string {
	if f.Metadata == nil {
		return ""
	}
	return f.Metadata[key]
}
