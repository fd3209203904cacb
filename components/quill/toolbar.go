package quill

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Control formats that carry a mutable option list.
const (
	FormatFont       = "font"
	FormatSize       = "size"
	FormatColor      = "color"
	FormatBackground = "background"
)

// Choice is a single picker option. A Choice is either an explicit value or
// the editor's default marker, which Quill expects as a JSON false.
type Choice struct {
	Value   string
	Default bool
}

// Named returns an explicit picker option.
func Named(value string) Choice {
	return Choice{Value: value}
}

// DefaultChoice is the picker entry that selects the editor default.
var DefaultChoice = Choice{Default: true}

// Choices builds a picker option list from plain strings.
func Choices(values ...string) []Choice {
	out := make([]Choice, 0, len(values))
	for _, value := range values {
		out = append(out, Named(value))
	}
	return out
}

func (c Choice) String() string {
	if c.Default {
		return "false"
	}
	return c.Value
}

func (c Choice) MarshalJSON() ([]byte, error) {
	if c.Default {
		return []byte("false"), nil
	}
	return json.Marshal(c.Value)
}

func (c *Choice) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch string(trimmed) {
	case "false", "null":
		*c = DefaultChoice
		return nil
	case "true":
		return fmt.Errorf("quill: choice cannot be true")
	}
	var value string
	if err := json.Unmarshal(trimmed, &value); err != nil {
		return fmt.Errorf("quill: decode choice: %w", err)
	}
	*c = Named(value)
	return nil
}

func (c *Choice) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("quill: choice must be a scalar (line %d)", node.Line)
	}
	switch node.ShortTag() {
	case "!!bool":
		if strings.EqualFold(node.Value, "false") {
			*c = DefaultChoice
			return nil
		}
		return fmt.Errorf("quill: choice cannot be true (line %d)", node.Line)
	case "!!null":
		*c = DefaultChoice
		return nil
	}
	*c = Named(node.Value)
	return nil
}

// Control is one toolbar entry. A nil Value is a plain button ("bold"),
// anything else is rendered as a keyed control ({"size": [...]}).
type Control struct {
	Format string
	Value  any
}

// Button returns a plain toolbar button.
func Button(format string) Control {
	return Control{Format: format}
}

// Picker returns a keyed control whose value is an option list.
func Picker(format string, choices ...Choice) Control {
	if choices == nil {
		choices = []Choice{}
	}
	return Control{Format: format, Value: choices}
}

// Keyed returns a keyed control with an arbitrary value, e.g. {list: "ordered"}.
func Keyed(format string, value any) Control {
	return Control{Format: format, Value: value}
}

// IsButton reports whether the control renders as a plain button.
func (c Control) IsButton() bool {
	return c.Value == nil
}

func (c Control) MarshalJSON() ([]byte, error) {
	if c.IsButton() {
		return json.Marshal(c.Format)
	}
	return json.Marshal(map[string]any{c.Format: c.Value})
}

func (c *Control) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("quill: decode control: %w", err)
	}
	control, err := controlFrom(raw)
	if err != nil {
		return err
	}
	*c = control
	return nil
}

// Group is a cluster of related controls rendered together.
type Group []Control

// Has reports whether the group contains a keyed control for format.
func (g Group) Has(format string) bool {
	for _, control := range g {
		if !control.IsButton() && control.Format == format {
			return true
		}
	}
	return false
}

// Toolbar is the ordered list of toolbar groups.
type Toolbar []Group

// Clone copies the group structure so callers can replace groups without
// touching the receiver.
func (t Toolbar) Clone() Toolbar {
	if t == nil {
		return nil
	}
	out := make(Toolbar, len(t))
	for idx, group := range t {
		out[idx] = append(Group(nil), group...)
	}
	return out
}

// Slot returns the index of the first group holding a keyed control for
// format, or -1.
func (t Toolbar) Slot(format string) int {
	for idx, group := range t {
		if group.Has(format) {
			return idx
		}
	}
	return -1
}

// DefaultToolbar returns a fresh copy of the default toolbar layout.
func DefaultToolbar() Toolbar {
	return Toolbar{
		{Keyed("header", []any{1, 2, 3, 4, 5, 6, false})},
		{Picker(FormatFont)},
		{Picker(FormatSize, Named("small"), DefaultChoice, Named("large"), Named("huge"))},
		{Button("bold"), Button("italic"), Button("underline"), Button("strike")},
		{Picker(FormatColor), Picker(FormatBackground)},
		{Keyed("list", "ordered"), Keyed("list", "bullet")},
		{Picker("align")},
		{Button("link"), Button("image")},
		{Button("clean")},
	}
}

// DefaultFormats returns a fresh copy of the formats the editor accepts when
// no override is configured.
func DefaultFormats() []string {
	return []string{
		"header",
		"font",
		"size",
		"bold",
		"italic",
		"underline",
		"strike",
		"color",
		"background",
		"list",
		"bullet",
		"align",
		"link",
		"image",
	}
}

// ParseToolbar reads a toolbar from a decoded JSON/YAML value ([]any of
// groups) or from the typed representations.
func ParseToolbar(value any) (Toolbar, error) {
	switch v := value.(type) {
	case nil:
		return nil, fmt.Errorf("quill: toolbar is nil")
	case Toolbar:
		return v.Clone(), nil
	case []Group:
		return Toolbar(v).Clone(), nil
	case []any:
		toolbar := make(Toolbar, 0, len(v))
		for idx, rawGroup := range v {
			group, err := groupFrom(rawGroup)
			if err != nil {
				return nil, fmt.Errorf("quill: toolbar group %d: %w", idx, err)
			}
			toolbar = append(toolbar, group)
		}
		return toolbar, nil
	default:
		return nil, fmt.Errorf("quill: unsupported toolbar type %T", value)
	}
}

func groupFrom(raw any) (Group, error) {
	switch v := raw.(type) {
	case Group:
		return append(Group(nil), v...), nil
	case []any:
		group := make(Group, 0, len(v))
		for _, item := range v {
			control, err := controlFrom(item)
			if err != nil {
				return nil, err
			}
			group = append(group, control)
		}
		return group, nil
	default:
		// A bare control outside of a group renders as its own group.
		control, err := controlFrom(raw)
		if err != nil {
			return nil, err
		}
		return Group{control}, nil
	}
}

func controlFrom(raw any) (Control, error) {
	switch v := raw.(type) {
	case Control:
		return v, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return Control{}, fmt.Errorf("quill: empty control name")
		}
		return Button(v), nil
	case map[string]any:
		if len(v) != 1 {
			return Control{}, fmt.Errorf("quill: keyed control must have exactly one key, got %d", len(v))
		}
		for format, value := range v {
			if value == nil {
				value = []any{}
			}
			return Keyed(format, value), nil
		}
	}
	return Control{}, fmt.Errorf("quill: unsupported control %T", raw)
}
