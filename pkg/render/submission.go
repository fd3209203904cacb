package render

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// HiddenField is an input posted with the form but never shown.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden formats value as a hidden input.
func Hidden(name string, value any) HiddenField {
	return HiddenField{Name: strings.TrimSpace(name), Value: fmt.Sprint(value)}
}

// CSRFToken carries token under the field name the server checks.
func CSRFToken(field, token string) HiddenField {
	return Hidden(field, token)
}

// MergeHiddenFields layers fields over a copy of base. Blank names are
// dropped and the last value for a name wins. The result is nil when empty.
func MergeHiddenFields(base map[string]string, fields ...HiddenField) map[string]string {
	merged := make(map[string]string, len(base)+len(fields))
	set := func(name, value string) {
		if name = strings.TrimSpace(name); name != "" {
			merged[name] = value
		}
	}
	for name, value := range base {
		set(name, value)
	}
	for _, field := range fields {
		set(field.Name, field.Value)
	}
	if len(merged) == 0 {
		return nil
	}
	return merged
}

// SortedHiddenFields lists fields by name, or nil when there are none.
func SortedHiddenFields(fields map[string]string) []HiddenField {
	merged := MergeHiddenFields(fields)
	if merged == nil {
		return nil
	}
	out := make([]HiddenField, 0, len(merged))
	for _, name := range slices.Sorted(maps.Keys(merged)) {
		out = append(out, HiddenField{Name: name, Value: merged[name]})
	}
	return out
}
