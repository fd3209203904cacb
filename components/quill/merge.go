package quill

import "maps"

// ModuleToolbar is the modules key holding the toolbar layout.
const ModuleToolbar = "toolbar"

// Modules is the editor module set keyed by module name.
type Modules map[string]any

// DefaultModules returns a fresh module set holding the default toolbar.
func DefaultModules() Modules {
	return Modules{ModuleToolbar: DefaultToolbar()}
}

// Toolbar returns the toolbar module as groups. It is nil when the module is
// missing or uses a form other than a group list, such as false, a container
// selector or an object with a container key.
func (m Modules) Toolbar() Toolbar {
	toolbar, err := ParseToolbar(m[ModuleToolbar])
	if err != nil {
		return nil
	}
	return toolbar
}

// EditorConfig is the effective configuration handed to the embedded editor.
type EditorConfig struct {
	Theme       string   `json:"theme"`
	Modules     Modules  `json:"modules"`
	Formats     []string `json:"formats"`
	ReadOnly    bool     `json:"readOnly,omitempty"`
	Placeholder string   `json:"placeholder,omitempty"`
}

// Merge builds the editor configuration from the defaults and the overrides in
// opts. It is evaluated at render time; nothing is cached between calls.
func Merge(opts Options) EditorConfig {
	theme := opts.Theme
	if theme == "" {
		theme = ThemeSnow
	}
	return EditorConfig{
		Theme:       theme,
		Modules:     MergeModules(DefaultModules(), opts),
		Formats:     MergeFormats(DefaultFormats(), opts.CustomFormats),
		Placeholder: opts.Placeholder,
	}
}

// MergeModules starts from a shallow copy of base, merges opts.CustomModules
// over it (override wins, shallow) and then replaces the font, color and size
// slots of the toolbar with the non-empty override lists. A slot is the first
// group holding a keyed control for the format; overrides without a matching
// slot are dropped, as are all of them when the toolbar is not a group list.
// Empty lists count as absent.
func MergeModules(base Modules, opts Options) Modules {
	merged := make(Modules, len(base)+len(opts.CustomModules))
	maps.Copy(merged, base)
	maps.Copy(merged, opts.CustomModules)

	if len(opts.CustomFonts) == 0 && len(opts.CustomColors) == 0 && len(opts.CustomFontSizes) == 0 {
		return merged
	}
	toolbar := merged.Toolbar()
	if toolbar == nil {
		return merged
	}

	replaced := false
	replace := func(format string, group Group) {
		if idx := toolbar.Slot(format); idx >= 0 {
			toolbar[idx] = group
			replaced = true
		}
	}
	if len(opts.CustomFonts) > 0 {
		replace(FormatFont, Group{Picker(FormatFont, cloneSlice(opts.CustomFonts)...)})
	}
	if len(opts.CustomColors) > 0 {
		replace(FormatColor, Group{
			Picker(FormatColor, Choices(opts.CustomColors...)...),
			Picker(FormatBackground, Choices(opts.CustomColors...)...),
		})
	}
	if len(opts.CustomFontSizes) > 0 {
		replace(FormatSize, Group{Picker(FormatSize, cloneSlice(opts.CustomFontSizes)...)})
	}

	if replaced {
		merged[ModuleToolbar] = toolbar
	}
	return merged
}

// MergeFormats returns custom when it is non-empty, otherwise a copy of base.
func MergeFormats(base, custom []string) []string {
	if len(custom) > 0 {
		return cloneSlice(custom)
	}
	return cloneSlice(base)
}
