package render

import (
	"slices"
	"strconv"
	"strings"

	"github.com/goliatone/go-quillfield/pkg/model"
)

// ErrorMapping is an error payload split by where the form shows it.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// MergeFormErrors appends extras to existing, trimmed and deduplicated in
// first-seen order.
func MergeFormErrors(existing []string, extras ...string) []string {
	return cleanMessages(slices.Concat(existing, extras))
}

// MapErrorPayload attaches each message in payload to the top-level field
// its key points at. Keys may be attribute names, dotted or bracketed paths,
// or JSON pointers, and may sit under a request envelope such as "/body" or
// "data.attributes". Messages whose key names no field become form errors.
func MapErrorPayload(form model.FormModel, payload map[string][]string) ErrorMapping {
	var mapping ErrorMapping
	for key, messages := range payload {
		messages = cleanMessages(messages)
		if len(messages) == 0 {
			continue
		}
		name := fieldForPath(key)
		if name == "" || !slices.ContainsFunc(form.Fields, func(f model.Field) bool { return f.Name == name }) {
			mapping.Form = append(mapping.Form, messages...)
			continue
		}
		if mapping.Fields == nil {
			mapping.Fields = make(map[string][]string)
		}
		mapping.Fields[name] = append(mapping.Fields[name], messages...)
	}
	mapping.Form = cleanMessages(mapping.Form)
	return mapping
}

var envelopeSegments = []string{"body", "request", "payload", "data", "attributes"}

var pointerUnescaper = strings.NewReplacer("~1", "/", "~0", "~")

// fieldForPath returns the first meaningful segment of key. Envelope
// segments are skipped unless nothing follows them; array indexes are
// ignored.
func fieldForPath(key string) string {
	key = strings.TrimLeft(strings.TrimSpace(key), "#$/.")
	key = strings.NewReplacer("[", ".", "]", "").Replace(key)

	var segments []string
	for _, part := range strings.FieldsFunc(key, func(r rune) bool { return r == '.' || r == '/' }) {
		part = pointerUnescaper.Replace(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		if _, err := strconv.Atoi(part); err == nil {
			continue
		}
		segments = append(segments, part)
	}
	for len(segments) > 1 && slices.Contains(envelopeSegments, strings.ToLower(segments[0])) {
		segments = segments[1:]
	}
	if len(segments) == 0 {
		return ""
	}
	return segments[0]
}

func cleanMessages(messages []string) []string {
	var out []string
	for _, message := range messages {
		message = strings.TrimSpace(message)
		if message != "" && !slices.Contains(out, message) {
			out = append(out, message)
		}
	}
	return out
}
