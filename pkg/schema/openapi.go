package schema

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-quillfield/pkg/customfields"
)

// ExtensionNamespace is the vendor extension attribute metadata is stored
// under on generated schemas.
const ExtensionNamespace = "x-formgen"

var componentNamePattern = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// OpenAPISchema describes ct as an object schema. Custom field attributes are
// resolved through fields to their primitive storage type and annotated with
// the widget and custom field UID under ExtensionNamespace.
func OpenAPISchema(ct ContentType, fields *customfields.Registry) (*openapi3.Schema, error) {
	schema := openapi3.NewObjectSchema()
	schema.Title = strings.TrimSpace(ct.Info.DisplayName)
	schema.Description = strings.TrimSpace(ct.Info.Description)

	var required []string
	for _, attr := range ct.Attributes {
		prop, err := attributeSchema(attr, fields)
		if err != nil {
			return nil, err
		}
		schema.WithProperty(attr.Name, prop)
		if attr.Required {
			required = append(required, attr.Name)
		}
	}
	schema.Required = required
	return schema, nil
}

func attributeSchema(attr Attribute, fields *customfields.Registry) (*openapi3.Schema, error) {
	attrType := strings.ToLower(strings.TrimSpace(attr.Type))
	var ext map[string]any

	if attr.IsCustomField() {
		if fields == nil {
			return nil, fmt.Errorf("%w: %s references %q but no custom fields are registered", ErrUnsupportedAttribute, attr.Name, attr.CustomField)
		}
		def, err := fields.Resolve(attr.CustomField)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrUnsupportedAttribute, attr.Name, err)
		}
		attrType = string(def.Type)
		ext = map[string]any{
			ExtensionNamespace: map[string]any{
				"widget":      def.Name,
				"customField": def.UID(),
			},
		}
	}

	schema, err := primitiveSchema(attrType, attr)
	if err != nil {
		return nil, err
	}
	schema.Description = strings.TrimSpace(attr.Description)
	schema.Default = attr.Default
	if attr.Private {
		schema.WriteOnly = true
	}
	if len(ext) > 0 {
		schema.Extensions = ext
	}
	return schema, nil
}

func primitiveSchema(attrType string, attr Attribute) (*openapi3.Schema, error) {
	var schema *openapi3.Schema
	switch customfields.Type(attrType) {
	case customfields.TypeString, customfields.TypeText, customfields.TypeUID:
		schema = openapi3.NewStringSchema()
	case customfields.TypeRichText:
		schema = openapi3.NewStringSchema().WithFormat("richtext")
	case customfields.TypeEmail:
		schema = openapi3.NewStringSchema().WithFormat("email")
	case customfields.TypePassword:
		schema = openapi3.NewStringSchema().WithFormat("password")
	case customfields.TypeBigInteger:
		schema = openapi3.NewStringSchema().WithFormat("int64")
	case customfields.TypeDate:
		schema = openapi3.NewStringSchema().WithFormat("date")
	case customfields.TypeTime:
		schema = openapi3.NewStringSchema().WithFormat("time")
	case customfields.TypeDateTime, customfields.TypeTimestamp:
		schema = openapi3.NewDateTimeSchema()
	case customfields.TypeInteger:
		schema = openapi3.NewIntegerSchema()
	case customfields.TypeFloat, customfields.TypeDecimal:
		schema = openapi3.NewFloat64Schema()
	case customfields.TypeBoolean:
		schema = openapi3.NewBoolSchema()
	case customfields.TypeJSON:
		schema = openapi3.NewSchema()
	case customfields.TypeEnum:
		schema = openapi3.NewStringSchema()
		values := make([]any, 0, len(attr.Enum))
		for _, value := range attr.Enum {
			values = append(values, value)
		}
		schema.WithEnum(values...)
	default:
		return nil, fmt.Errorf("%w: %s has type %q", ErrUnsupportedAttribute, attr.Name, attr.Type)
	}

	if schema.Type != nil && schema.Type.Is(openapi3.TypeString) {
		if attr.MinLength != nil {
			schema.WithMinLength(*attr.MinLength)
		}
		if attr.MaxLength != nil {
			schema.WithMaxLength(*attr.MaxLength)
		}
	}
	return schema, nil
}

// ComponentName turns a content-type UID into a valid OpenAPI component key.
func ComponentName(uid string) string {
	name := strings.ReplaceAll(strings.TrimSpace(uid), "::", ".")
	return componentNamePattern.ReplaceAllString(name, "_")
}

// DocumentInfo carries the title and version of a generated document.
type DocumentInfo struct {
	Title   string
	Version string
}

// OpenAPIDocument builds an OpenAPI 3 document with one schema component and one
// create operation per content type. The result is validated before it is
// returned.
func OpenAPIDocument(ctx context.Context, info DocumentInfo, fields *customfields.Registry, cts ...ContentType) (*openapi3.T, error) {
	if strings.TrimSpace(info.Title) == "" {
		info.Title = "Content API"
	}
	if strings.TrimSpace(info.Version) == "" {
		info.Version = "1.0.0"
	}

	components := openapi3.NewComponents()
	components.Schemas = make(openapi3.Schemas, len(cts))
	doc := &openapi3.T{
		OpenAPI:    "3.0.3",
		Info:       &openapi3.Info{Title: info.Title, Version: info.Version},
		Components: &components,
		Paths:      openapi3.NewPaths(),
	}

	for _, ct := range cts {
		schema, err := OpenAPISchema(ct, fields)
		if err != nil {
			return nil, fmt.Errorf("schema: %s: %w", ct.UID, err)
		}
		name := ComponentName(ct.UID)
		components.Schemas[name] = openapi3.NewSchemaRef("", schema)

		ref := openapi3.NewSchemaRef("#/components/schemas/"+name, schema)
		op := openapi3.NewOperation()
		op.OperationID = "create" + strings.ReplaceAll(name, ".", "_")
		op.Summary = "Create " + strings.TrimSpace(ct.Info.DisplayName)
		op.RequestBody = &openapi3.RequestBodyRef{Value: openapi3.NewRequestBody().WithRequired(true).WithJSONSchemaRef(ref)}
		op.Responses = openapi3.NewResponses(
			openapi3.WithStatus(http.StatusCreated, &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription("Created").WithJSONSchemaRef(ref)}),
			openapi3.WithStatus(http.StatusBadRequest, &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription("Validation failed")}),
		)
		doc.AddOperation(ct.Endpoint(), http.MethodPost, op)
	}

	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("schema: generated document is invalid: %w", err)
	}
	return doc, nil
}
