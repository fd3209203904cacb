// Package gotemplate implements template.TemplateRenderer on pongo2 template
// sets loaded from fs.FS bundles.
package gotemplate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"reflect"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-quillfield/pkg/render/template"
)

const extension = ".tpl"

// Option configures the engine before construction.
type Option func(*config)

type config struct {
	bundles []fs.FS
	funcs   map[string]any
}

// WithFS adds a template bundle. Bundles are searched in the order they were
// added, so a component can ship templates next to the renderer's own and a
// caller bundle added first can shadow both.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.bundles = append(cfg.bundles, files)
		}
	}
}

// WithTemplateFunc exposes funcs as template globals.
func WithTemplateFunc(funcs map[string]any) Option {
	return func(cfg *config) {
		for name, fn := range funcs {
			name = strings.TrimSpace(name)
			if name == "" || !isCallable(fn) {
				continue
			}
			if cfg.funcs == nil {
				cfg.funcs = make(map[string]any, len(funcs))
			}
			cfg.funcs[name] = fn
		}
	}
}

// Engine renders templates from a pongo2 set and caches parsed templates.
type Engine struct {
	set *pongo2.TemplateSet

	mu    sync.RWMutex
	cache map[string]*pongo2.Template
}

var _ template.TemplateRenderer = (*Engine)(nil)

// New builds an engine over the configured bundles. At least one bundle is
// required.
func New(options ...Option) (*Engine, error) {
	cfg := config{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if len(cfg.bundles) == 0 {
		return nil, errors.New("gotemplate: at least one template fs.FS is required")
	}

	loaders := make([]pongo2.TemplateLoader, 0, len(cfg.bundles))
	for _, bundle := range cfg.bundles {
		loaders = append(loaders, pongo2.NewFSLoader(bundle))
	}
	set := pongo2.NewSet("quillfield", loaders...)
	if set.Globals == nil {
		set.Globals = make(pongo2.Context, len(cfg.funcs))
	}
	for name, fn := range cfg.funcs {
		set.Globals[name] = fn
	}

	return &Engine{set: set, cache: make(map[string]*pongo2.Template)}, nil
}

// RenderTemplate renders name, adding the ".tpl" extension when missing.
// Data is passed through its JSON form so struct tags decide the keys
// templates see; functions inside maps are kept as they are.
func (e *Engine) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.set == nil {
		return "", errors.New("gotemplate: engine is nil")
	}
	path := name
	if !strings.HasSuffix(path, extension) {
		path += extension
	}

	tmpl, err := e.template(path)
	if err != nil {
		return "", err
	}
	ctx, err := toContext(data)
	if err != nil {
		return "", fmt.Errorf("gotemplate: convert data for %q: %w", path, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(ctx, &buf); err != nil {
		return "", fmt.Errorf("gotemplate: execute template %q: %w", path, err)
	}
	for _, w := range out {
		if _, err := w.Write(buf.Bytes()); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

func (e *Engine) template(path string) (*pongo2.Template, error) {
	e.mu.RLock()
	tmpl, ok := e.cache[path]
	e.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if tmpl, ok := e.cache[path]; ok {
		return tmpl, nil
	}
	tmpl, err := e.set.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("gotemplate: load template %q: %w", path, err)
	}
	e.cache[path] = tmpl
	return tmpl, nil
}

func toContext(data any) (pongo2.Context, error) {
	if data == nil {
		return pongo2.Context{}, nil
	}
	converted, err := convert(data)
	if err != nil {
		return nil, err
	}
	m, ok := converted.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("data must encode to an object, got %T", converted)
	}
	return pongo2.Context(m), nil
}

func convert(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case pongo2.Context:
		return convert(map[string]any(v))
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			converted, err := convert(item)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			out[key] = converted
		}
		return out, nil
	case []any:
		out := make([]any, len(v))
		for idx, item := range v {
			converted, err := convert(item)
			if err != nil {
				return nil, err
			}
			out[idx] = converted
		}
		return out, nil
	}
	if isCallable(value) {
		return value, nil
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, err
	}
	return decoded, nil
}

func isCallable(v any) bool {
	return v != nil && reflect.ValueOf(v).Kind() == reflect.Func
}
