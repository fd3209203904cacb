// Package model defines the typed field model consumed by renderers and
// component descriptors. Content-type attributes are converted into Field
// values by pkg/schema; widget resolution stores its decision in
// Metadata["widget"] and UIHints["widget"]. Renderer-facing directives such as
// `helpText`, `cssClass`, `hideLabel` and `widget` live in the curated UIHints
// map so renderers do not need to parse raw attribute options.
package model
