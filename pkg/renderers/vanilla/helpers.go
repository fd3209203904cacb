package vanilla

import (
	"slices"
	"strings"
)

const controlIDPrefix = "qf-"

// componentControlID is the DOM id of the control editing field name.
func componentControlID(name string) string {
	if name = strings.TrimSpace(name); name == "" {
		return ""
	}
	return controlIDPrefix + name
}

// componentHandlesChrome reports whether a component draws its own label,
// hint and errors. Only the quill editor does.
func componentHandlesChrome(component string) bool {
	return strings.TrimSpace(component) == "quill"
}

// sanitizeClassList drops author classes that would collide with generated
// control ids.
func sanitizeClassList(value string) string {
	tokens := slices.DeleteFunc(strings.Fields(value), func(token string) bool {
		return strings.HasPrefix(token, controlIDPrefix)
	})
	return strings.Join(tokens, " ")
}
