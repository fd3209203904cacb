// Package testsupport holds fixture helpers shared by the package tests.
package testsupport

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/goliatone/go-quillfield/pkg/schema"
)

// ContentTypePath returns the absolute path of a content-type fixture under
// pkg/schema/testdata, so tests in any package can reach it.
func ContentTypePath(name string) string {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return filepath.Join("pkg", "schema", "testdata", name)
	}
	return filepath.Join(filepath.Dir(file), "..", "schema", "testdata", name)
}

// LoadContentType decodes the named fixture, failing the test on error.
func LoadContentType(t testing.TB, name string) schema.ContentType {
	t.Helper()

	doc, err := schema.NewLoader().Load(context.Background(), schema.SourceFromFile(ContentTypePath(name)))
	if err != nil {
		t.Fatalf("load content type %s: %v", name, err)
	}
	return doc.ContentType
}
