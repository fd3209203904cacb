// Package schema loads content-type documents and derives what the rest of
// the module needs from them: an OpenAPI description for entry validation and
// a form model for rendering. Attributes typed "customField" are resolved
// through a customfields.Registry to the primitive type they are stored as.
package schema
