// Package formstate provides an in-memory form state that editors bind to:
// values and server errors keyed by field name, with change listeners.
package formstate
