package vanilla

import (
	"context"
	"fmt"
	"html"
	"io/fs"
	"maps"
	"net/http"
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/goliatone/go-quillfield/pkg/components"
	"github.com/goliatone/go-quillfield/pkg/i18n"
	"github.com/goliatone/go-quillfield/pkg/model"
	"github.com/goliatone/go-quillfield/pkg/render"
	rendertemplate "github.com/goliatone/go-quillfield/pkg/render/template"
	gotemplate "github.com/goliatone/go-quillfield/pkg/render/template/gotemplate"
	"github.com/goliatone/go-quillfield/pkg/widgets"
)

// Message ids used by the form chrome.
const (
	SubmitMessageID     = "quillfield.form.submit"
	FormErrorsMessageID = "quillfield.form.errors"

	formThemePartial = "forms.form"
	methodOverride   = "_method"
)

var chromeDefaults = map[string]string{
	SubmitMessageID:     "Save",
	FormErrorsMessageID: "Please correct the errors below.",
}

type Option func(*config)

type config struct {
	templates        []fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	components       *components.Registry
	widgets          *widgets.Registry
	translator       i18n.Translator
	extra            []componentEntry
}

type componentEntry struct {
	name       string
	descriptor components.Descriptor
}

// WithTemplatesFS adds a template bundle searched before the embedded one.
// Bundles added first win.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templates = append(cfg.templates, files)
		}
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templates = append(cfg.templates, os.DirFS(path))
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithComponents starts from a copy of registry instead of an empty one.
func WithComponents(registry *components.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.components = registry.Clone()
		}
	}
}

// WithComponent registers descriptor under name and adds its template bundle.
func WithComponent(name string, descriptor components.Descriptor, templates fs.FS) Option {
	return func(cfg *config) {
		cfg.extra = append(cfg.extra, componentEntry{name: name, descriptor: descriptor})
		if templates != nil {
			cfg.templates = append(cfg.templates, templates)
		}
	}
}

// WithWidgets replaces the widget registry used to pick components.
func WithWidgets(registry *widgets.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.widgets = registry
		}
	}
}

// WithTranslator sets the translator used when RenderOptions carries none.
func WithTranslator(t i18n.Translator) Option {
	return func(cfg *config) {
		cfg.translator = t
	}
}

// Renderer produces server-side HTML for a form model.
type Renderer struct {
	templates  rendertemplate.TemplateRenderer
	components *components.Registry
	widgets    *widgets.Registry
	translator i18n.Translator
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.components == nil {
		cfg.components = components.New()
	}
	for _, entry := range cfg.extra {
		if err := cfg.components.Register(entry.name, entry.descriptor); err != nil {
			return nil, fmt.Errorf("vanilla renderer: register component: %w", err)
		}
	}
	if err := registerBuiltins(cfg.components); err != nil {
		return nil, fmt.Errorf("vanilla renderer: register builtins: %w", err)
	}
	if cfg.widgets == nil {
		cfg.widgets = widgets.NewRegistry()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engineOpts := make([]gotemplate.Option, 0, len(cfg.templates)+1)
		for _, bundle := range cfg.templates {
			engineOpts = append(engineOpts, gotemplate.WithFS(bundle))
		}
		engineOpts = append(engineOpts, gotemplate.WithFS(TemplatesFS()))
		engine, err := gotemplate.New(engineOpts...)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates:  renderer,
		components: cfg.components,
		widgets:    cfg.widgets,
		translator: cfg.translator,
	}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Components lists the registered component names.
func (r *Renderer) Components() []string {
	return r.components.Names()
}

func (r *Renderer) Render(ctx context.Context, form model.FormModel, opts render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts.Translator == nil {
		opts.Translator = r.translator
	}

	form = cloneForm(form)
	render.LocalizeFormModel(&form, opts)
	if err := r.widgets.Decorate(&form); err != nil {
		return nil, fmt.Errorf("vanilla renderer: decorate: %w", err)
	}

	translate := opts.Translate()
	if translate == nil {
		translate = func(_, fallback string) string { return fallback }
	}

	fields := newComponentRenderer(r.templates, r.components, fieldState{
		values:    opts.Values,
		errors:    opts.Errors,
		readOnly:  opts.ReadOnly,
		locale:    opts.Locale,
		theme:     opts.Theme,
		translate: translate,
	})
	markup := make([]string, 0, len(form.Fields))
	for _, field := range form.Fields {
		rendered, err := fields.render(r.withFallback(field))
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: %w", err)
		}
		markup = append(markup, rendered)
	}
	stylesheets, scripts := fields.assets()

	method := strings.ToUpper(strings.TrimSpace(opts.Method))
	if method == "" {
		method = strings.ToUpper(strings.TrimSpace(form.Method))
	}
	if method == "" {
		method = http.MethodPost
	}
	hidden := opts.HiddenFields
	formMethod := method
	if method != http.MethodGet && method != http.MethodPost {
		hidden = render.MergeHiddenFields(hidden, render.Hidden(methodOverride, method))
		formMethod = http.MethodPost
	}

	templateName := formTemplate
	if opts.Theme != nil && strings.TrimSpace(opts.Theme.Partials[formThemePartial]) != "" {
		templateName = strings.TrimSpace(opts.Theme.Partials[formThemePartial])
	}

	result, err := r.templates.RenderTemplate(templateName, map[string]any{
		"form_id":          form.ID,
		"title":            form.Title,
		"description":      form.Description,
		"action":           form.Endpoint,
		"method":           strings.ToLower(formMethod),
		"locale":           opts.Locale,
		"fields":           markup,
		"hidden_fields":    hiddenPayload(hidden),
		"form_errors":      normalizeFormErrors(opts.FormErrors),
		"form_errors_hint": translate(FormErrorsMessageID, chromeDefaults[FormErrorsMessageID]),
		"submit_label":     translate(SubmitMessageID, chromeDefaults[SubmitMessageID]),
		"read_only":        opts.ReadOnly,
		"stylesheets":      stylesheets,
		"scripts":          scriptPayload(scripts),
		"classes": map[string]string{
			"form":    string(ClassForm),
			"header":  string(ClassHeader),
			"actions": string(ClassActions),
			"errors":  string(ClassErrors),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

// withFallback swaps a decorated widget for a builtin when no component is
// registered under its name. Explicit component.name values are left alone.
func (r *Renderer) withFallback(field model.Field) model.Field {
	if strings.TrimSpace(field.Meta(model.MetadataComponentName)) != "" {
		return field
	}
	name := resolveComponentName(field)
	if _, ok := r.components.Descriptor(name); ok {
		return field
	}
	fallback := widgets.WidgetInput
	if widgets.IsQuillField(field) || field.Type == model.FieldTypeObject {
		fallback = widgets.WidgetTextarea
	}
	if field.Metadata == nil {
		field.Metadata = make(map[string]string, 1)
	}
	field.Metadata[model.MetadataWidget] = fallback
	return field
}

func cloneForm(form model.FormModel) model.FormModel {
	out := form
	out.Metadata = maps.Clone(form.Metadata)
	out.Fields = make([]model.Field, len(form.Fields))
	for idx, field := range form.Fields {
		field.Metadata = maps.Clone(field.Metadata)
		field.UIHints = maps.Clone(field.UIHints)
		field.Enum = slices.Clone(field.Enum)
		out.Fields[idx] = field
	}
	return out
}

func hiddenPayload(fields map[string]string) []map[string]string {
	sorted := render.SortedHiddenFields(fields)
	out := make([]map[string]string, 0, len(sorted))
	for _, field := range sorted {
		out = append(out, map[string]string{"name": field.Name, "value": field.Value})
	}
	return out
}

func normalizeFormErrors(messages []string) []string {
	out := make([]string, 0, len(messages))
	for _, message := range messages {
		if trimmed := strings.TrimSpace(message); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func scriptPayload(scripts []components.Script) []map[string]any {
	out := make([]map[string]any, 0, len(scripts))
	for _, script := range scripts {
		if script.Src == "" && strings.TrimSpace(script.Inline) == "" {
			continue
		}
		scriptType := script.Type
		if script.Module {
			scriptType = "module"
		}
		out = append(out, map[string]any{
			"src":    script.Src,
			"type":   scriptType,
			"inline": script.Inline,
			"async":  script.Async,
			"defer":  script.Defer && script.Src != "",
			"attrs":  scriptAttrs(script.Attrs),
		})
	}
	return out
}

func scriptAttrs(attrs map[string]string) string {
	if len(attrs) == 0 {
		return ""
	}
	keys := make([]string, 0, len(attrs))
	for key := range attrs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	var builder strings.Builder
	for _, key := range keys {
		builder.WriteByte(' ')
		builder.WriteString(html.EscapeString(key))
		builder.WriteString(`="`)
		builder.WriteString(html.EscapeString(attrs[key]))
		builder.WriteByte('"')
	}
	return builder.String()
}
