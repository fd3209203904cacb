// Package quill provides the rich-text field backed by the Quill editor: the
// editor configuration merge, the adapter between the editor's change callback
// and the host form state, the component descriptor rendered by form
// renderers, and a small net/http handler that serves the effective editor
// configuration as JSON.
//
// Configuration is always explicit. Callers build Options (directly, through
// OptionFn helpers or from a Settings file) and hand them to New or
// Descriptor; the merge runs at render time from those options, so a field can
// never render before its configuration is known.
package quill
