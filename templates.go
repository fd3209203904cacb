package quillfield

import (
	"embed"
	"io/fs"

	"github.com/goliatone/go-quillfield/components/quill"
	vanilla "github.com/goliatone/go-quillfield/pkg/renderers/vanilla"
)

//go:embed translations/*.json
var embeddedTranslations embed.FS

const translationsDir = "translations"

// TranslationsFS exposes the bundled translation files.
func TranslationsFS() fs.FS {
	return embeddedTranslations
}

// EmbeddedTemplates returns the template bundles a renderer needs for forms
// with quill fields, in lookup order.
func EmbeddedTemplates() []fs.FS {
	return []fs.FS{quill.TemplatesFS(), vanilla.TemplatesFS()}
}
