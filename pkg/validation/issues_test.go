package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/go-cmp/cmp"
)

func articleSchema() *openapi3.Schema {
	schema := openapi3.NewObjectSchema().
		WithProperty("title", openapi3.NewStringSchema().WithMaxLength(5)).
		WithProperty("body", openapi3.NewStringSchema())
	schema.Required = []string{"title", "body"}
	return schema
}

func TestFromError_Nil(t *testing.T) {
	result := FromError(nil)
	if !result.Valid || len(result.Issues) != 0 {
		t.Fatalf("expected valid result, got %#v", result)
	}
}

func TestFromError_MultiErrors(t *testing.T) {
	err := articleSchema().VisitJSON(map[string]any{"title": "too long"}, openapi3.MultiErrors())
	if err == nil {
		t.Fatalf("expected validation error")
	}

	result := FromError(err)
	if result.Valid {
		t.Fatalf("expected invalid result")
	}
	if diff := cmp.Diff([]string{"body", "title"}, result.Fields()); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}

	byField := result.FieldErrors()
	if got := byField["title"]; len(got) != 1 || got[0] != "maximum string length is 5" {
		t.Fatalf("unexpected title issues %v", got)
	}
	if got := byField["body"]; len(got) != 1 || !strings.Contains(got[0], `"body" is missing`) {
		t.Fatalf("unexpected body issues %v", got)
	}
	for _, issue := range result.Issues {
		if issue.Path != "#/"+issue.Field {
			t.Fatalf("unexpected pointer %q for field %q", issue.Path, issue.Field)
		}
	}
}

func TestFromError_PlainError(t *testing.T) {
	result := FromError(errors.New(" boom "))
	want := []Issue{{Message: "boom"}}
	if diff := cmp.Diff(want, result.Issues); diff != "" {
		t.Fatalf("issues mismatch (-want +got):\n%s", diff)
	}
}

func TestError_Message(t *testing.T) {
	err := &Error{Result: Result{Issues: []Issue{
		{Field: "title", Message: "required"},
		{Message: "unexpected payload"},
	}}}
	if got := err.Error(); got != "validation failed: title: required; unexpected payload" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestFieldPathFromPointer(t *testing.T) {
	cases := []struct {
		pointer string
		want    string
	}{
		{pointer: "", want: ""},
		{pointer: "#/", want: ""},
		{pointer: "#/title", want: "title"},
		{pointer: "#/properties/seo/properties/meta", want: "seo.meta"},
		{pointer: "#/oneOf/1/properties/a~1b", want: "a/b"},
	}
	for _, tc := range cases {
		if got := fieldPathFromPointer(tc.pointer); got != tc.want {
			t.Fatalf("%q: expected %q, got %q", tc.pointer, tc.want, got)
		}
	}
}
