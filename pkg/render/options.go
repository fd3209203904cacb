package render

import (
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-quillfield/pkg/i18n"
)

// RenderOptions describe per-request data that renderers can use to customise
// their output without mutating the form model.
type RenderOptions struct {
	// Method overrides the HTTP method declared by the form model.
	Method string
	// Values pre-populates rendered controls keyed by field name.
	Values map[string]any
	// Errors surfaces server-side validation feedback keyed by field name.
	Errors map[string][]string
	// FormErrors are messages not tied to a single field.
	FormErrors []string
	// HiddenFields are emitted as hidden inputs, sorted by name.
	HiddenFields map[string]string
	// ReadOnly disables every control.
	ReadOnly bool

	Locale     string
	Translator i18n.Translator
	OnMissing  i18n.MissingTranslationHandler

	Theme *theme.RendererConfig
}

// Translate returns a translation func bound to the options locale, suitable
// for components.ComponentData.Translate.
func (o RenderOptions) Translate() func(key, fallback string) string {
	if o.Translator == nil {
		return nil
	}
	if o.OnMissing != nil {
		return i18n.FuncWithHandler(o.Translator, o.Locale, o.OnMissing)
	}
	return i18n.Func(o.Translator, o.Locale)
}
