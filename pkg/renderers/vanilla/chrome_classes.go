package vanilla

// ChromeClass is a typed identifier for semantic chrome CSS classes.
type ChromeClass string

const (
	ClassForm    ChromeClass = "quillfield-form"
	ClassHeader  ChromeClass = "quillfield-header"
	ClassField   ChromeClass = "quillfield-field"
	ClassActions ChromeClass = "quillfield-actions"
	ClassErrors  ChromeClass = "quillfield-errors"
)
