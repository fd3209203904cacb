package quill

import "maps"

// Theme names supported by the Quill distribution.
const (
	ThemeSnow   = "snow"
	ThemeBubble = "bubble"
)

// Options configures the quill field. Override lists that are present but
// empty are treated as not supplied.
type Options struct {
	// CustomModules is merged shallowly into the editor modules; keys replace
	// the defaults on collision.
	CustomModules map[string]any
	// CustomFormats replaces the recognised format list when non-empty.
	CustomFormats []string
	// CustomFonts replaces the font picker options.
	CustomFonts []Choice
	// CustomColors drives both the foreground and background pickers.
	CustomColors []string
	// CustomFontSizes replaces the size picker options.
	CustomFontSizes []Choice

	Theme       string
	Placeholder string
	// MinHeight is the editor area height in CSS units.
	MinHeight string

	// RoutePath is the path the config handler is mounted under.
	RoutePath string
	// ScriptURL and StylesheetURL locate the Quill distribution.
	ScriptURL     string
	StylesheetURL string
}

type OptionFn func(*Options)

const (
	defaultRoutePath     = "/api/quill/config"
	defaultScriptURL     = "https://cdn.jsdelivr.net/npm/quill@2.0.3/dist/quill.js"
	defaultStylesheetURL = "https://cdn.jsdelivr.net/npm/quill@2.0.3/dist/quill.snow.css"
	defaultMinHeight     = "300px"
)

func DefaultOptions() Options {
	return Options{
		Theme:         ThemeSnow,
		MinHeight:     defaultMinHeight,
		RoutePath:     defaultRoutePath,
		ScriptURL:     defaultScriptURL,
		StylesheetURL: defaultStylesheetURL,
	}
}

// NewOptions applies fns over DefaultOptions and copies every slice and map so
// the result does not alias caller state.
func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.Theme == "" {
		opts.Theme = ThemeSnow
	}
	if opts.MinHeight == "" {
		opts.MinHeight = defaultMinHeight
	}
	if opts.RoutePath == "" {
		opts.RoutePath = defaultRoutePath
	}
	if opts.ScriptURL == "" {
		opts.ScriptURL = defaultScriptURL
	}
	if opts.StylesheetURL == "" {
		opts.StylesheetURL = defaultStylesheetURL
	}
	if opts.CustomModules != nil {
		opts.CustomModules = maps.Clone(opts.CustomModules)
	}
	opts.CustomFormats = cloneSlice(opts.CustomFormats)
	opts.CustomFonts = cloneSlice(opts.CustomFonts)
	opts.CustomColors = cloneSlice(opts.CustomColors)
	opts.CustomFontSizes = cloneSlice(opts.CustomFontSizes)
	return opts
}

func WithCustomModules(modules map[string]any) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		if modules == nil {
			o.CustomModules = nil
			return
		}
		if o.CustomModules == nil {
			o.CustomModules = make(map[string]any, len(modules))
		}
		maps.Copy(o.CustomModules, modules)
	}
}

func WithCustomFormats(formats ...string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.CustomFormats = cloneSlice(formats)
	}
}

func WithCustomFonts(fonts ...Choice) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.CustomFonts = cloneSlice(fonts)
	}
}

func WithCustomColors(colors ...string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.CustomColors = cloneSlice(colors)
	}
}

func WithCustomFontSizes(sizes ...Choice) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.CustomFontSizes = cloneSlice(sizes)
	}
}

func WithTheme(theme string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Theme = theme
	}
}

func WithPlaceholder(placeholder string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Placeholder = placeholder
	}
}

func WithMinHeight(height string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.MinHeight = height
	}
}

func WithRoutePath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.RoutePath = path
	}
}

// WithAssets overrides the Quill script and stylesheet locations.
func WithAssets(scriptURL, stylesheetURL string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.ScriptURL = scriptURL
		o.StylesheetURL = stylesheetURL
	}
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	return append([]T{}, in...)
}
