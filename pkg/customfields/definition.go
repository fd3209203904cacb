package customfields

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/goliatone/go-quillfield/pkg/components"
	"github.com/goliatone/go-quillfield/pkg/i18n"
)

var (
	ErrInvalidDefinition  = errors.New("customfields: invalid definition")
	ErrUnsupportedType    = errors.New("customfields: unsupported field type")
	ErrDuplicateField     = errors.New("customfields: custom field already registered")
	ErrUnknownCustomField = errors.New("customfields: unknown custom field")
)

// Type is the primitive attribute type a custom field is persisted as.
type Type string

const (
	TypeString     Type = "string"
	TypeText       Type = "text"
	TypeRichText   Type = "richtext"
	TypeJSON       Type = "json"
	TypeInteger    Type = "integer"
	TypeBigInteger Type = "biginteger"
	TypeFloat      Type = "float"
	TypeDecimal    Type = "decimal"
	TypeBoolean    Type = "boolean"
	TypeDate       Type = "date"
	TypeTime       Type = "time"
	TypeDateTime   Type = "datetime"
	TypeTimestamp  Type = "timestamp"
	TypeUID        Type = "uid"
	TypeEmail      Type = "email"
	TypePassword   Type = "password"
	TypeEnum       Type = "enumeration"
)

var allowedTypes = []Type{
	TypeString, TypeText, TypeRichText, TypeJSON, TypeInteger, TypeBigInteger,
	TypeFloat, TypeDecimal, TypeBoolean, TypeDate, TypeTime, TypeDateTime,
	TypeTimestamp, TypeUID, TypeEmail, TypePassword, TypeEnum,
}

// AllowedTypes returns the primitive types a custom field may declare.
func AllowedTypes() []Type {
	return slices.Clone(allowedTypes)
}

// Valid reports whether t is one of the allowed primitive types.
func (t Type) Valid() bool {
	return slices.Contains(allowedTypes, t)
}

var namePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

// Definition is the server-side declaration of a custom field: a name, the
// owning plugin and the primitive type the value is stored as.
type Definition struct {
	Name   string `json:"name" yaml:"name"`
	Plugin string `json:"plugin,omitempty" yaml:"plugin,omitempty"`
	Type   Type   `json:"type" yaml:"type"`
}

// UID returns the identifier attributes use to reference the field, e.g.
// "plugin::quill.quill". Fields without a plugin live under "global::".
func (d Definition) UID() string {
	name := strings.TrimSpace(d.Name)
	if plugin := strings.TrimSpace(d.Plugin); plugin != "" {
		return "plugin::" + plugin + "." + name
	}
	return "global::" + name
}

// Validate checks the name and type of the definition.
func (d Definition) Validate() error {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidDefinition)
	}
	if !namePattern.MatchString(name) {
		return fmt.Errorf("%w: name %q must be alphanumeric", ErrInvalidDefinition, name)
	}
	if plugin := strings.TrimSpace(d.Plugin); plugin != "" && !namePattern.MatchString(plugin) {
		return fmt.Errorf("%w: plugin %q must be alphanumeric", ErrInvalidDefinition, plugin)
	}
	if !d.Type.Valid() {
		return fmt.Errorf("%w: %q for %s", ErrUnsupportedType, d.Type, d.UID())
	}
	return nil
}

// AdminDefinition is the admin-side registration: the server definition plus
// the label, description, icon and input component shown in the editor.
type AdminDefinition struct {
	Definition
	IntlLabel       i18n.Message
	IntlDescription i18n.Message
	// Icon is SVG markup; it is sanitised when registered.
	Icon  string
	Input components.Descriptor
	// Options holds per-field configuration handed to the input component.
	Options map[string]any
}

// Validate checks the embedded definition and the admin metadata.
func (d AdminDefinition) Validate() error {
	if err := d.Definition.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(d.IntlLabel.ID) == "" {
		return fmt.Errorf("%w: %s needs a label message id", ErrInvalidDefinition, d.UID())
	}
	if d.Input.Renderer == nil {
		return fmt.Errorf("%w: %s needs an input component", ErrInvalidDefinition, d.UID())
	}
	return nil
}

// Label resolves the field label through t.
func (d AdminDefinition) Label(t i18n.Translator, locale string) string {
	return i18n.Resolve(t, locale, d.IntlLabel)
}

// Description resolves the field description through t.
func (d AdminDefinition) Description(t i18n.Translator, locale string) string {
	return i18n.Resolve(t, locale, d.IntlDescription)
}
