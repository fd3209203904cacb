package tui

// OutputFormat selects how a collected entry is written.
type OutputFormat string

const (
	OutputFormatJSON       OutputFormat = "json"
	OutputFormatPrettyText OutputFormat = "pretty"
)

// Theme prefixes informational and error lines.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// SubmitTransformer rewrites the collected entry before it is encoded.
type SubmitTransformer func(entry map[string]any) (map[string]any, error)

type Option func(*Renderer)

// WithPromptDriver replaces the terminal driver. Nil is ignored.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

func WithSubmitTransformer(fn SubmitTransformer) Option {
	return func(r *Renderer) { r.submitTransformer = fn }
}

func WithTheme(theme Theme) Option {
	return func(r *Renderer) { r.theme = theme }
}

// WithMaxAttempts caps how many invalid answers a field accepts before
// Render fails with ErrTooManyAttempts. Zero keeps asking.
func WithMaxAttempts(n int) Option {
	return func(r *Renderer) {
		if n >= 0 {
			r.maxAttempts = n
		}
	}
}
