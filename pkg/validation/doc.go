// Package validation turns schema validation errors into field-addressed
// issues that forms can display next to the offending input.
package validation
