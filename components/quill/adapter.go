package quill

// UpdateFunc receives the full field content after every edit.
type UpdateFunc func(name, value string)

// FormState is the host form-state contract the field binds to.
type FormState interface {
	FieldValue(name string) string
	FieldError(name string) string
	OnChange(name, value string)
}

// FieldProps carries the presentational pass-through values for a field.
type FieldProps struct {
	Name     string
	Label    string
	Hint     string
	Error    string
	Required bool
	Disabled bool
}

// FieldAdapter bridges the editor's single content callback to the host's
// (name, value) update contract. It keeps a shadow copy of the content so the
// editor is never fed a value that lags behind the last edit.
//
// The adapter is not safe for concurrent use; it is driven by one editor.
type FieldAdapter struct {
	name     string
	shadow   string
	external string
	readOnly bool
	update   UpdateFunc
}

// AdapterOption configures a FieldAdapter.
type AdapterOption func(*FieldAdapter)

// WithReadOnly marks the editor read-only. The flag is passed through to the
// editor; the adapter itself does not guard HandleChange.
func WithReadOnly(readOnly bool) AdapterOption {
	return func(a *FieldAdapter) {
		a.readOnly = readOnly
	}
}

// NewFieldAdapter returns an adapter seeded with the externally supplied value.
func NewFieldAdapter(name, value string, update UpdateFunc, opts ...AdapterOption) *FieldAdapter {
	adapter := &FieldAdapter{
		name:     name,
		shadow:   value,
		external: value,
		update:   update,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(adapter)
		}
	}
	return adapter
}

// Bind builds an adapter for name reading from and writing to state.
func Bind(state FormState, name string, opts ...AdapterOption) *FieldAdapter {
	if state == nil {
		return NewFieldAdapter(name, "", nil, opts...)
	}
	return NewFieldAdapter(name, state.FieldValue(name), state.OnChange, opts...)
}

func (a *FieldAdapter) Name() string { return a.name }

// Value returns the shadow copy handed to the editor.
func (a *FieldAdapter) Value() string { return a.shadow }

func (a *FieldAdapter) ReadOnly() bool { return a.readOnly }

// Sync resynchronises the shadow when the externally supplied value differs
// from the last one observed. Repeated calls with the same external value are
// no-ops, so re-renders never clobber in-flight edits. It reports whether the
// shadow was replaced.
func (a *FieldAdapter) Sync(external string) bool {
	if external == a.external {
		return false
	}
	a.external = external
	a.shadow = external
	return true
}

// HandleChange records content as the new shadow and forwards it upstream
// immediately.
func (a *FieldAdapter) HandleChange(content string) {
	a.shadow = content
	if a.update != nil {
		a.update(a.name, content)
	}
}

// Props assembles the presentational props for the bound field.
func (a *FieldAdapter) Props(state FormState, label, hint string, required bool) FieldProps {
	props := FieldProps{
		Name:     a.name,
		Label:    label,
		Hint:     hint,
		Required: required,
		Disabled: a.readOnly,
	}
	if state != nil {
		props.Error = state.FieldError(a.name)
	}
	return props
}
