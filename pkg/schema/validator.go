package schema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-quillfield/pkg/customfields"
	"github.com/goliatone/go-quillfield/pkg/validation"
)

var (
	ErrInvalidContentType   = errors.New("schema: invalid content type")
	ErrUnsupportedAttribute = errors.New("schema: unsupported attribute")
	ErrInvalidEntry         = errors.New("schema: invalid entry")
)

// Validator checks content types and entries against the registered custom
// fields.
type Validator struct {
	fields *customfields.Registry
}

// NewValidator returns a Validator resolving custom fields through fields.
// A nil registry rejects every customField attribute.
func NewValidator(fields *customfields.Registry) *Validator {
	return &Validator{fields: fields}
}

// ValidateContentType checks the UID and every attribute type. All problems
// are reported together.
func (v *Validator) ValidateContentType(ct ContentType) error {
	var errs []error
	if strings.TrimSpace(ct.UID) == "" {
		errs = append(errs, fmt.Errorf("%w: uid is required", ErrInvalidContentType))
	}
	seen := make(map[string]struct{}, len(ct.Attributes))
	for _, attr := range ct.Attributes {
		if strings.TrimSpace(attr.Name) == "" {
			errs = append(errs, fmt.Errorf("%w: attribute name is required", ErrInvalidContentType))
			continue
		}
		if _, dup := seen[attr.Name]; dup {
			errs = append(errs, fmt.Errorf("%w: attribute %s declared twice", ErrInvalidContentType, attr.Name))
			continue
		}
		seen[attr.Name] = struct{}{}
		if err := v.validateAttribute(attr); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (v *Validator) validateAttribute(attr Attribute) error {
	attrType := strings.ToLower(strings.TrimSpace(attr.Type))
	switch {
	case attr.IsCustomField():
		if strings.TrimSpace(attr.CustomField) == "" {
			return fmt.Errorf("%w: %s is a customField without a uid", ErrUnsupportedAttribute, attr.Name)
		}
		if v == nil || v.fields == nil {
			return fmt.Errorf("%w: %s references unknown custom field %q", ErrUnsupportedAttribute, attr.Name, attr.CustomField)
		}
		if _, ok := v.fields.Lookup(attr.CustomField); !ok {
			return fmt.Errorf("%w: %s references unknown custom field %q", ErrUnsupportedAttribute, attr.Name, attr.CustomField)
		}
	case isPrimitive(attrType):
		if attrType == string(customfields.TypeEnum) && len(attr.Enum) == 0 {
			return fmt.Errorf("%w: enumeration %s has no values", ErrUnsupportedAttribute, attr.Name)
		}
	default:
		return fmt.Errorf("%w: %s has type %q", ErrUnsupportedAttribute, attr.Name, attr.Type)
	}
	if attr.MinLength != nil && attr.MaxLength != nil && *attr.MinLength > *attr.MaxLength {
		return fmt.Errorf("%w: %s minLength exceeds maxLength", ErrInvalidContentType, attr.Name)
	}
	return nil
}

// ValidateEntry checks entry against the content type. A failed entry yields
// an error matching ErrInvalidEntry that unwraps to *validation.Error, whose
// issues are addressed by attribute name.
func (v *Validator) ValidateEntry(ct ContentType, entry map[string]any) error {
	if err := v.ValidateContentType(ct); err != nil {
		return err
	}
	var fields *customfields.Registry
	if v != nil {
		fields = v.fields
	}
	schema, err := OpenAPISchema(ct, fields)
	if err != nil {
		return err
	}
	if entry == nil {
		entry = map[string]any{}
	}
	if err := schema.VisitJSON(entry, openapi3.MultiErrors()); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEntry, &validation.Error{Result: validation.FromError(err)})
	}
	return nil
}
