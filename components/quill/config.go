package quill

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Settings is the plugin-level configuration surface as it appears in JSON or
// YAML config files.
type Settings struct {
	CustomModules   map[string]any `json:"customModules,omitempty" yaml:"customModules,omitempty"`
	CustomFormats   []string       `json:"customFormats,omitempty" yaml:"customFormats,omitempty"`
	CustomFonts     []Choice       `json:"customFonts,omitempty" yaml:"customFonts,omitempty"`
	CustomColors    []string       `json:"customColors,omitempty" yaml:"customColors,omitempty"`
	CustomFontSizes []Choice       `json:"customFontSizes,omitempty" yaml:"customFontSizes,omitempty"`
	Theme           string         `json:"theme,omitempty" yaml:"theme,omitempty"`
	Placeholder     string         `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
}

// Options converts the settings into option functions. Only keys that were
// supplied produce an option, so settings can be layered over other options.
func (s Settings) Options() []OptionFn {
	var fns []OptionFn
	if s.CustomModules != nil {
		fns = append(fns, WithCustomModules(s.CustomModules))
	}
	if s.CustomFormats != nil {
		fns = append(fns, WithCustomFormats(s.CustomFormats...))
	}
	if s.CustomFonts != nil {
		fns = append(fns, WithCustomFonts(s.CustomFonts...))
	}
	if s.CustomColors != nil {
		fns = append(fns, WithCustomColors(s.CustomColors...))
	}
	if s.CustomFontSizes != nil {
		fns = append(fns, WithCustomFontSizes(s.CustomFontSizes...))
	}
	if strings.TrimSpace(s.Theme) != "" {
		fns = append(fns, WithTheme(strings.TrimSpace(s.Theme)))
	}
	if s.Placeholder != "" {
		fns = append(fns, WithPlaceholder(s.Placeholder))
	}
	return fns
}

// ParseSettings decodes settings from JSON (comments and trailing commas
// allowed), falling back to YAML.
func ParseSettings(data []byte, source string) (Settings, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Settings{}, fmt.Errorf("quill: settings file %s is empty", source)
	}

	var settings Settings
	if err := json.Unmarshal(jsonc.ToJSON(data), &settings); err == nil {
		return settings, nil
	}

	settings = Settings{}
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return Settings{}, fmt.Errorf("quill: parse %s: invalid JSON or YAML: %w", source, err)
	}
	return settings, nil
}

// LoadSettings reads and decodes the settings file at path within fsys.
func LoadSettings(fsys fs.FS, path string) (Settings, error) {
	if fsys == nil {
		return Settings{}, fmt.Errorf("quill: missing filesystem")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return Settings{}, fmt.Errorf("quill: read %s: %w", path, err)
	}
	return ParseSettings(data, path)
}

// SettingsFromMap decodes settings from a loosely typed component config map,
// such as the per-field component config carried in field metadata.
func SettingsFromMap(values map[string]any) (Settings, error) {
	if len(values) == 0 {
		return Settings{}, nil
	}
	payload, err := json.Marshal(values)
	if err != nil {
		return Settings{}, fmt.Errorf("quill: encode component config: %w", err)
	}
	var settings Settings
	if err := json.Unmarshal(payload, &settings); err != nil {
		return Settings{}, fmt.Errorf("quill: decode component config: %w", err)
	}
	return settings, nil
}
