package i18n

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
)

// ErrMissingTranslation reports that no message exists for a key in the
// requested locale or its fallbacks.
var ErrMissingTranslation = errors.New("i18n: missing translation")

// Translator resolves message keys for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// TranslatorFunc adapts a function to the Translator interface.
type TranslatorFunc func(locale, key string, args ...any) (string, error)

func (fn TranslatorFunc) Translate(locale, key string, args ...any) (string, error) {
	return fn(locale, key, args...)
}

// MissingTranslationHandler decides the string used when a lookup fails.
type MissingTranslationHandler func(locale, key string, args []any, err error) string

// Message is a translatable string with the text shown when no translation
// is available.
type Message struct {
	ID             string `json:"id"`
	DefaultMessage string `json:"defaultMessage"`
}

// TranslationSet maps message ids to translated strings for one locale.
type TranslationSet map[string]string

// Catalog is an in-memory Translator backed by per-locale translation sets.
// It is safe for concurrent use.
type Catalog struct {
	mu       sync.RWMutex
	sets     map[string]TranslationSet
	fallback string
}

// CatalogOption configures a Catalog.
type CatalogOption func(*Catalog)

// WithFallbackLocale sets the locale consulted after the requested locale and
// its base language.
func WithFallbackLocale(locale string) CatalogOption {
	return func(c *Catalog) {
		c.fallback = normalizeLocale(locale)
	}
}

// NewCatalog returns an empty catalog.
func NewCatalog(opts ...CatalogOption) *Catalog {
	catalog := &Catalog{sets: make(map[string]TranslationSet)}
	for _, opt := range opts {
		if opt != nil {
			opt(catalog)
		}
	}
	return catalog
}

// Add merges set into the messages known for locale. Later values win.
func (c *Catalog) Add(locale string, set TranslationSet) {
	locale = normalizeLocale(locale)
	if locale == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	existing, ok := c.sets[locale]
	if !ok {
		existing = make(TranslationSet, len(set))
		c.sets[locale] = existing
	}
	maps.Copy(existing, set)
}

// Load adds every result, including the empty sets produced for locales that
// failed to load, so the locale is still reported by Locales.
func (c *Catalog) Load(results []LoadResult) {
	for _, result := range results {
		c.Add(result.Locale, result.Data)
	}
}

// Set returns a copy of the messages registered for locale.
func (c *Catalog) Set(locale string) TranslationSet {
	c.mu.RLock()
	defer c.mu.RUnlock()
	set, ok := c.sets[normalizeLocale(locale)]
	if !ok {
		return TranslationSet{}
	}
	return maps.Clone(set)
}

// Locales lists the registered locales in sorted order.
func (c *Catalog) Locales() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Sorted(maps.Keys(c.sets))
}

// Translate looks key up in locale, then in its base language ("fr" for
// "fr-CA"), then in the fallback locale.
func (c *Catalog) Translate(locale, key string, args ...any) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", fmt.Errorf("i18n: empty message id: %w", ErrMissingTranslation)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, candidate := range c.candidates(locale) {
		if msg, ok := c.sets[candidate][key]; ok && strings.TrimSpace(msg) != "" {
			return Format(msg, args...), nil
		}
	}
	return "", fmt.Errorf("i18n: %s %q: %w", locale, key, ErrMissingTranslation)
}

func (c *Catalog) candidates(locale string) []string {
	locale = normalizeLocale(locale)
	out := make([]string, 0, 3)
	if locale != "" {
		out = append(out, locale)
		if base, _, found := strings.Cut(locale, "-"); found {
			out = append(out, base)
		}
	}
	if c.fallback != "" && !slices.Contains(out, c.fallback) {
		out = append(out, c.fallback)
	}
	return out
}

// Resolve translates msg for locale, returning msg.DefaultMessage when the
// translator is nil or has no entry.
func Resolve(t Translator, locale string, msg Message, args ...any) string {
	return lookup(t, locale, msg.ID, msg.DefaultMessage, nil, args)
}

// Func binds t to locale, producing the lookup helper components receive.
// The returned function never fails; it returns fallback (or the key when
// fallback is blank) on a miss.
func Func(t Translator, locale string) func(key, fallback string) string {
	return FuncWithHandler(t, locale, nil)
}

// FuncWithHandler is Func with a custom handler for misses.
func FuncWithHandler(t Translator, locale string, onMissing MissingTranslationHandler) func(key, fallback string) string {
	return func(key, fallback string) string {
		return lookup(t, locale, key, fallback, onMissing, nil)
	}
}

func lookup(t Translator, locale, key, fallback string, onMissing MissingTranslationHandler, args []any) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}
	var err error = ErrMissingTranslation
	if t != nil {
		var msg string
		msg, err = t.Translate(locale, key, args...)
		if err == nil && strings.TrimSpace(msg) != "" {
			return msg
		}
	}
	if onMissing != nil {
		return onMissing(locale, key, args, err)
	}
	if strings.TrimSpace(fallback) != "" {
		return Format(fallback, args...)
	}
	return key
}

// Format substitutes {name} placeholders in msg with values from any
// map[string]any arguments.
func Format(msg string, args ...any) string {
	if len(args) == 0 || !strings.Contains(msg, "{") {
		return msg
	}
	var pairs []string
	for _, arg := range args {
		values, ok := arg.(map[string]any)
		if !ok {
			continue
		}
		for _, name := range slices.Sorted(maps.Keys(values)) {
			pairs = append(pairs, "{"+name+"}", fmt.Sprint(values[name]))
		}
	}
	if len(pairs) == 0 {
		return msg
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}

func normalizeLocale(locale string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(locale), "_", "-"))
}
