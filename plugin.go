package quillfield

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-quillfield/components/quill"
	"github.com/goliatone/go-quillfield/pkg/customfields"
	"github.com/goliatone/go-quillfield/pkg/i18n"
	vanilla "github.com/goliatone/go-quillfield/pkg/renderers/vanilla"
)

// PluginID identifies the plugin in the host; the field UID is
// "plugin::quill.quill".
const PluginID = "quill"

var ErrNotRegistered = errors.New("quillfield: plugin is not registered")

// Option configures a Plugin.
type Option func(*Plugin)

// WithEditorOptions layers editor options over the defaults.
func WithEditorOptions(fns ...quill.OptionFn) Option {
	return func(p *Plugin) {
		p.editor = append(p.editor, fns...)
	}
}

// WithSettings applies plugin settings decoded from a config file.
func WithSettings(settings quill.Settings) Option {
	return func(p *Plugin) {
		p.editor = append(p.editor, settings.Options()...)
	}
}

// WithLogger reports translation fallbacks at debug level.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Plugin) {
		p.logger = logger
	}
}

// WithTranslations replaces the bundled translation files. fsys must hold
// translations/<locale>.json.
func WithTranslations(fsys fs.FS) Option {
	return func(p *Plugin) {
		if fsys != nil {
			p.translations = fsys
		}
	}
}

// Plugin is the quill field plugin.
type Plugin struct {
	editor       []quill.OptionFn
	logger       zerolog.Logger
	translations fs.FS

	mu        sync.Mutex
	component *quill.Component
	app       App
}

// New builds the plugin. Editor options are fixed here and handed to the
// component; nothing is read from global state later.
func New(opts ...Option) *Plugin {
	p := &Plugin{logger: zerolog.Nop(), translations: TranslationsFS()}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	p.component = quill.New(p.editor...)
	return p
}

// Component returns the configured quill component.
func (p *Plugin) Component() *quill.Component {
	return p.component
}

// Definition is the server-side field declaration.
func (p *Plugin) Definition() customfields.Definition {
	return customfields.Definition{
		Name:   quill.ComponentName,
		Plugin: PluginID,
		Type:   customfields.TypeString,
	}
}

// AdminDefinition is the admin-side field declaration.
func (p *Plugin) AdminDefinition() customfields.AdminDefinition {
	return customfields.AdminDefinition{
		Definition:      p.Definition(),
		IntlLabel:       i18n.Message{ID: quill.LabelMessageID, DefaultMessage: quill.DefaultLabel},
		IntlDescription: i18n.Message{ID: quill.DescriptionMessageID, DefaultMessage: quill.DefaultDescription},
		Icon:            PluginIcon,
		Input:           p.component.Descriptor(),
	}
}

// Register declares the custom field and the plugin record with app. The
// record starts out not ready until Bootstrap runs.
func (p *Plugin) Register(app App) error {
	if app == nil {
		return errors.New("quillfield: app is nil")
	}
	if err := app.RegisterCustomField(p.AdminDefinition()); err != nil {
		return fmt.Errorf("quillfield: register custom field: %w", err)
	}
	if err := app.RegisterPlugin(customfields.PluginRecord{
		ID:          PluginID,
		Name:        PluginID,
		Initializer: p.initialize,
	}); err != nil {
		return fmt.Errorf("quillfield: register plugin: %w", err)
	}

	p.mu.Lock()
	p.app = app
	p.mu.Unlock()
	return nil
}

// RegisterServer declares the field with the server schema layer so
// attributes of type customField "plugin::quill.quill" are accepted.
func (p *Plugin) RegisterServer(reg ServerRegistry) error {
	if reg == nil {
		return errors.New("quillfield: server registry is nil")
	}
	if err := reg.RegisterServer(p.Definition()); err != nil {
		return fmt.Errorf("quillfield: register server field: %w", err)
	}
	return nil
}

// RegisterTrads loads translations/<locale>.json for each locale. A locale
// whose file is missing or invalid gets an empty set.
func (p *Plugin) RegisterTrads(ctx context.Context, locales []string) []i18n.LoadResult {
	return i18n.LoadLocales(ctx, p.translations, translationsDir, locales, i18n.WithLogger(p.logger))
}

// Catalog loads the translations for locales into a catalog falling back to
// the first locale.
func (p *Plugin) Catalog(ctx context.Context, locales ...string) *i18n.Catalog {
	var opts []i18n.CatalogOption
	if len(locales) > 0 {
		opts = append(opts, i18n.WithFallbackLocale(locales[0]))
	}
	catalog := i18n.NewCatalog(opts...)
	catalog.Load(p.RegisterTrads(ctx, locales))
	return catalog
}

// Bootstrap runs the plugin initializer through the app it was registered
// with and marks the plugin ready.
func (p *Plugin) Bootstrap(ctx context.Context) error {
	p.mu.Lock()
	app := p.app
	p.mu.Unlock()
	if app == nil {
		return ErrNotRegistered
	}
	return app.InitializePlugin(ctx, PluginID)
}

// Renderer builds a vanilla form renderer with the quill component and its
// templates registered.
func (p *Plugin) Renderer(opts ...vanilla.Option) (*vanilla.Renderer, error) {
	base := []vanilla.Option{
		vanilla.WithComponent(quill.ComponentName, p.component.Descriptor(), quill.TemplatesFS()),
	}
	return vanilla.New(append(base, opts...)...)
}

func (p *Plugin) initialize(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := json.Marshal(p.component.Config()); err != nil {
		return fmt.Errorf("quillfield: editor config: %w", err)
	}
	return nil
}
