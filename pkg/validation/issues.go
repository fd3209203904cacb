package validation

import (
	"errors"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// Issue represents a validation error with optional location metadata.
type Issue struct {
	Path    string `json:"path,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// Result captures validation outcomes for a submitted entry.
type Result struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues,omitempty"`
}

// Error wraps a failed Result so it can travel as an error value.
type Error struct {
	Result Result
}

func (e *Error) Error() string {
	if e == nil || len(e.Result.Issues) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Result.Issues))
	for _, issue := range e.Result.Issues {
		if issue.Field != "" {
			parts = append(parts, issue.Field+": "+issue.Message)
			continue
		}
		parts = append(parts, issue.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// FromError converts a kin-openapi validation error (a single SchemaError or
// a MultiError produced with openapi3.MultiErrors) into a Result.
func FromError(err error) Result {
	if err == nil {
		return Result{Valid: true}
	}
	issues := collect(err, nil)
	if len(issues) == 0 {
		issues = []Issue{{Message: strings.TrimSpace(err.Error())}}
	}
	return Result{Valid: false, Issues: issues}
}

func collect(err error, out []Issue) []Issue {
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		for _, inner := range multi {
			out = collect(inner, out)
		}
		return out
	}
	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		pointer := schemaErr.JSONPointer()
		path := ""
		if len(pointer) > 0 {
			path = "#/" + strings.Join(escapePointer(pointer), "/")
		}
		msg := strings.TrimSpace(schemaErr.Reason)
		if msg == "" {
			msg = strings.TrimSpace(schemaErr.Error())
		}
		return append(out, Issue{
			Path:    path,
			Field:   fieldPathFromPointer(path),
			Message: msg,
		})
	}
	return append(out, Issue{Message: strings.TrimSpace(err.Error())})
}

// FieldErrors groups issue messages by field path. Issues without a field are
// stored under the empty key.
func (r Result) FieldErrors() map[string][]string {
	if len(r.Issues) == 0 {
		return nil
	}
	out := make(map[string][]string)
	for _, issue := range r.Issues {
		out[issue.Field] = append(out[issue.Field], issue.Message)
	}
	return out
}

// Fields lists the fields with at least one issue, sorted.
func (r Result) Fields() []string {
	seen := make(map[string]struct{})
	for _, issue := range r.Issues {
		if issue.Field != "" {
			seen[issue.Field] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for field := range seen {
		out = append(out, field)
	}
	sort.Strings(out)
	return out
}

func escapePointer(parts []string) []string {
	out := make([]string, len(parts))
	for idx, part := range parts {
		part = strings.ReplaceAll(part, "~", "~0")
		out[idx] = strings.ReplaceAll(part, "/", "~1")
	}
	return out
}

func fieldPathFromPointer(pointer string) string {
	trimmed := strings.TrimSpace(pointer)
	trimmed = strings.TrimPrefix(trimmed, "#")
	trimmed = strings.TrimPrefix(trimmed, "/")
	if trimmed == "" {
		return ""
	}

	parts := strings.Split(trimmed, "/")
	out := make([]string, 0, len(parts))
	for idx := 0; idx < len(parts); idx++ {
		segment := strings.ReplaceAll(parts[idx], "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		switch segment {
		case "properties":
			if idx+1 < len(parts) {
				next := strings.ReplaceAll(parts[idx+1], "~1", "/")
				next = strings.ReplaceAll(next, "~0", "~")
				out = append(out, next)
				idx++
			}
		case "oneOf", "anyOf", "allOf":
			if idx+1 < len(parts) && isNumeric(parts[idx+1]) {
				idx++
			}
		default:
			if segment == "" {
				continue
			}
			out = append(out, segment)
		}
	}
	return strings.Join(out, ".")
}

func isNumeric(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
