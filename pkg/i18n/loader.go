package i18n

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/rs/zerolog"
)

// LoadResult is the translation set loaded for one locale.
type LoadResult struct {
	Locale string
	Data   TranslationSet
}

type loadConfig struct {
	logger zerolog.Logger
	suffix string
}

// LoadOption configures LoadLocales.
type LoadOption func(*loadConfig)

// WithLogger reports per-locale fallbacks at debug level.
func WithLogger(logger zerolog.Logger) LoadOption {
	return func(cfg *loadConfig) {
		cfg.logger = logger
	}
}

// WithSuffix overrides the file suffix appended to each locale (".json").
func WithSuffix(suffix string) LoadOption {
	return func(cfg *loadConfig) {
		if trimmed := strings.TrimSpace(suffix); trimmed != "" {
			cfg.suffix = trimmed
		}
	}
}

// LoadLocales reads <dir>/<locale>.json for every locale. A locale that cannot
// be read or decoded, or that is reached after ctx is done, yields an empty
// set. Results keep the order of locales.
func LoadLocales(ctx context.Context, fsys fs.FS, dir string, locales []string, opts ...LoadOption) []LoadResult {
	cfg := loadConfig{logger: zerolog.Nop(), suffix: ".json"}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	results := make([]LoadResult, 0, len(locales))
	for _, locale := range locales {
		data, err := loadLocale(ctx, fsys, path.Join(dir, locale+cfg.suffix))
		if err != nil {
			cfg.logger.Debug().Err(err).Str("locale", locale).Msg("translations unavailable, using empty set")
			data = TranslationSet{}
		}
		results = append(results, LoadResult{Locale: locale, Data: data})
	}
	return results
}

func loadLocale(ctx context.Context, fsys fs.FS, name string) (TranslationSet, error) {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	if fsys == nil {
		return nil, fmt.Errorf("i18n: missing filesystem")
	}
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("i18n: read %s: %w", name, err)
	}
	return ParseTranslations(raw)
}

// ParseTranslations decodes a JSON translation document. Nested objects are
// flattened into dotted keys ({"quill": {"label": "x"}} -> "quill.label").
func ParseTranslations(raw []byte) (TranslationSet, error) {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("i18n: decode translations: %w", err)
	}
	set := make(TranslationSet, len(doc))
	if err := flatten(set, "", doc); err != nil {
		return nil, err
	}
	return set, nil
}

func flatten(set TranslationSet, prefix string, doc map[string]any) error {
	for key, value := range doc {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}
		switch v := value.(type) {
		case string:
			set[fullKey] = v
		case map[string]any:
			if err := flatten(set, fullKey, v); err != nil {
				return err
			}
		default:
			return fmt.Errorf("i18n: message %q must be a string, got %T", fullKey, value)
		}
	}
	return nil
}
