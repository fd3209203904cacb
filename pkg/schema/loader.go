package schema

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Document pairs a decoded content type with the source it came from.
type Document struct {
	Source      Source
	ContentType ContentType
}

// Loader reads content-type documents from the OS filesystem or an fs.FS.
type Loader struct {
	fs fs.FS
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithFileSystem enables SourceKindFS sources.
func WithFileSystem(fsys fs.FS) LoaderOption {
	return func(l *Loader) {
		l.fs = fsys
	}
}

// NewLoader builds a Loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Load reads and decodes the document identified by src.
func (l *Loader) Load(ctx context.Context, src Source) (Document, error) {
	if src == nil {
		return Document{}, errors.New("schema loader: source is nil")
	}
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}

	var (
		data []byte
		err  error
	)
	switch src.Kind() {
	case SourceKindFile:
		data, err = os.ReadFile(src.Location())
	case SourceKindFS:
		if l == nil || l.fs == nil {
			return Document{}, errors.New("schema loader: filesystem is not configured")
		}
		data, err = fs.ReadFile(l.fs, src.Location())
	default:
		err = errors.New("schema loader: unsupported source kind")
	}
	if err != nil {
		return Document{}, fmt.Errorf("schema loader: read %s: %w", src.Location(), err)
	}

	ct, err := ParseContentType(data)
	if err != nil {
		return Document{}, fmt.Errorf("schema loader: %s: %w", src.Location(), err)
	}
	return Document{Source: src, ContentType: ct}, nil
}

// ParseContentType decodes a content type from JSON or JSONC, falling back
// to YAML.
func ParseContentType(data []byte) (ContentType, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return ContentType{}, fmt.Errorf("%w: document is empty", ErrInvalidContentType)
	}

	var ct ContentType
	if stripped := bytes.TrimSpace(jsonc.ToJSON(trimmed)); len(stripped) > 0 && stripped[0] == '{' {
		if err := json.Unmarshal(stripped, &ct); err != nil {
			return ContentType{}, fmt.Errorf("%w: %v", ErrInvalidContentType, err)
		}
	} else if err := yaml.Unmarshal(trimmed, &ct); err != nil {
		return ContentType{}, fmt.Errorf("%w: %v", ErrInvalidContentType, err)
	}
	ct.UID = strings.TrimSpace(ct.UID)
	return ct, nil
}
