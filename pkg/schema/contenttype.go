package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-quillfield/pkg/customfields"
)

// TypeCustomField is the attribute type that defers to a registered custom
// field through Attribute.CustomField.
const TypeCustomField = "customField"

// ContentType describes a persisted model and its attributes.
type ContentType struct {
	UID        string     `json:"uid" yaml:"uid"`
	Kind       string     `json:"kind,omitempty" yaml:"kind,omitempty"`
	Info       Info       `json:"info" yaml:"info"`
	Attributes Attributes `json:"attributes" yaml:"attributes"`
}

// Info carries the display names of a content type.
type Info struct {
	DisplayName  string `json:"displayName" yaml:"displayName"`
	SingularName string `json:"singularName,omitempty" yaml:"singularName,omitempty"`
	PluralName   string `json:"pluralName,omitempty" yaml:"pluralName,omitempty"`
	Description  string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Attribute is a single content-type attribute. Name is taken from the key
// the attribute is declared under.
type Attribute struct {
	Name        string         `json:"-" yaml:"-"`
	Type        string         `json:"type" yaml:"type"`
	CustomField string         `json:"customField,omitempty" yaml:"customField,omitempty"`
	Required    bool           `json:"required,omitempty" yaml:"required,omitempty"`
	Private     bool           `json:"private,omitempty" yaml:"private,omitempty"`
	Default     any            `json:"default,omitempty" yaml:"default,omitempty"`
	MinLength   *int64         `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength   *int64         `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Enum        []string       `json:"enum,omitempty" yaml:"enum,omitempty"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Options     map[string]any `json:"options,omitempty" yaml:"options,omitempty"`
}

// IsCustomField reports whether the attribute references a custom field.
func (a Attribute) IsCustomField() bool {
	return a.Type == TypeCustomField
}

// Attributes keeps attributes in declaration order. It decodes from and
// encodes to a JSON/YAML object keyed by attribute name.
type Attributes []Attribute

// Get returns the attribute declared under name.
func (a Attributes) Get(name string) (Attribute, bool) {
	for _, attr := range a {
		if attr.Name == name {
			return attr, true
		}
	}
	return Attribute{}, false
}

// Names lists attribute names in declaration order.
func (a Attributes) Names() []string {
	names := make([]string, 0, len(a))
	for _, attr := range a {
		names = append(names, attr.Name)
	}
	return names
}

func (a Attributes) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for idx, attr := range a {
		if idx > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(attr.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(attr)
		if err != nil {
			return nil, fmt.Errorf("schema: encode attribute %q: %w", attr.Name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (a *Attributes) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		*a = nil
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("schema: decode attributes: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("schema: attributes must be an object")
	}

	var out Attributes
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("schema: decode attributes: %w", err)
		}
		name, _ := keyTok.(string)
		var attr Attribute
		if err := dec.Decode(&attr); err != nil {
			return fmt.Errorf("schema: decode attribute %q: %w", name, err)
		}
		attr.Name = name
		attr.Default = normalizeNumber(attr.Default)
		out = append(out, attr)
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("schema: decode attributes: %w", err)
	}
	*a = out
	return nil
}

func (a *Attributes) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("schema: attributes must be a mapping (line %d)", node.Line)
	}
	out := make(Attributes, 0, len(node.Content)/2)
	for idx := 0; idx+1 < len(node.Content); idx += 2 {
		name := node.Content[idx].Value
		var attr Attribute
		if err := node.Content[idx+1].Decode(&attr); err != nil {
			return fmt.Errorf("schema: decode attribute %q: %w", name, err)
		}
		attr.Name = name
		out = append(out, attr)
	}
	*a = out
	return nil
}

// normalizeNumber turns json.Number defaults into int64 or float64 so they
// compare naturally and validate against integer schemas.
func normalizeNumber(value any) any {
	number, ok := value.(json.Number)
	if !ok {
		return value
	}
	if i, err := number.Int64(); err == nil {
		return i
	}
	if f, err := number.Float64(); err == nil {
		return f
	}
	return number.String()
}

// FormID derives a stable form identifier from the content-type UID
// ("api::article.article" becomes "api.article.article").
func (ct ContentType) FormID() string {
	return strings.ReplaceAll(strings.TrimSpace(ct.UID), "::", ".")
}

// Endpoint returns the collection path entries are submitted to.
func (ct ContentType) Endpoint() string {
	name := strings.TrimSpace(ct.Info.PluralName)
	if name == "" {
		name = strings.TrimSpace(ct.Info.SingularName)
	}
	if name == "" {
		_, rest, _ := strings.Cut(ct.UID, "::")
		name, _, _ = strings.Cut(rest, ".")
	}
	return "/api/" + name
}

func isPrimitive(attrType string) bool {
	return customfields.Type(attrType).Valid()
}
