package widgets

import (
	"cmp"
	"slices"
	"strings"
	"sync"

	"github.com/goliatone/go-quillfield/pkg/model"
)

const (
	WidgetQuill    = "quill"
	WidgetTextarea = "textarea"
	WidgetSelect   = "select"
	WidgetCheckbox = "checkbox"
	WidgetInput    = "input"
)

// QuillFieldUID is the custom field UID the quill widget is bound to.
const QuillFieldUID = "plugin::quill.quill"

// Matcher reports whether a widget can edit field.
type Matcher func(field model.Field) bool

type rule struct {
	widget   string
	priority int
	match    Matcher
}

// Registry picks the widget for a field. A widget named in the field's
// metadata or hints always wins; otherwise the highest priority matcher
// does, with earlier registrations winning ties.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry returns a registry preloaded with the quill, checkbox, select,
// textarea and input widgets.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.Register(WidgetQuill, 100, IsQuillField)
	reg.Register(WidgetCheckbox, 90, func(f model.Field) bool { return f.Type == model.FieldTypeBoolean })
	reg.Register(WidgetSelect, 70, func(f model.Field) bool { return f.Type != model.FieldTypeObject && len(f.Enum) > 0 })
	reg.Register(WidgetTextarea, 60, func(f model.Field) bool {
		return f.Type == model.FieldTypeObject || f.Hint("input") == "textarea"
	})
	reg.Register(WidgetInput, 0, func(model.Field) bool { return true })
	return reg
}

// Register adds a matcher for widget. Blank names and nil matchers are
// ignored.
func (r *Registry) Register(widget string, priority int, matcher Matcher) {
	widget = strings.TrimSpace(widget)
	if r == nil || matcher == nil || widget == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules = append(r.rules, rule{widget: widget, priority: priority, match: matcher})
	slices.SortStableFunc(r.rules, func(a, b rule) int { return cmp.Compare(b.priority, a.priority) })
}

// Resolve returns the widget for field, or false when nothing matches.
func (r *Registry) Resolve(field model.Field) (string, bool) {
	if widget := strings.TrimSpace(field.Meta(model.MetadataWidget)); widget != "" {
		return widget, true
	}
	if widget := strings.TrimSpace(field.Hint("widget")); widget != "" {
		return widget, true
	}
	if r == nil {
		return "", false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rule := range r.rules {
		if rule.match(field) {
			return rule.widget, true
		}
	}
	return "", false
}

// Decorate records the resolved widget in each field's metadata, leaving
// fields that already name one untouched.
func (r *Registry) Decorate(form *model.FormModel) error {
	if r == nil || form == nil {
		return nil
	}
	for idx := range form.Fields {
		field := &form.Fields[idx]
		if field.Meta(model.MetadataWidget) != "" {
			continue
		}
		widget, ok := r.Resolve(*field)
		if !ok {
			continue
		}
		if field.Metadata == nil {
			field.Metadata = make(map[string]string, 1)
		}
		field.Metadata[model.MetadataWidget] = widget
	}
	return nil
}

// IsQuillField reports whether field holds quill markup: either it is bound
// to the quill custom field or its format is richtext.
func IsQuillField(field model.Field) bool {
	return field.Meta(model.MetadataCustomField) == QuillFieldUID ||
		strings.EqualFold(strings.TrimSpace(field.Format), "richtext")
}
