package quill

import (
	"net/http"

	"github.com/goliatone/go-quillfield/pkg/components"
)

// Component wraps the field configuration together with its descriptor, the
// config handler and the routing helpers.
type Component struct {
	opts Options
}

// New constructs a component with default options plus any overrides.
func New(fns ...OptionFn) *Component {
	return &Component{opts: NewOptions(fns...)}
}

// Options returns a copy of the component configuration.
func (c *Component) Options() Options {
	if c == nil {
		return DefaultOptions()
	}
	return NewOptions(func(o *Options) { *o = c.opts })
}

// Config returns the merged editor configuration.
func (c *Component) Config() EditorConfig {
	return Merge(c.Options())
}

// Descriptor returns the component descriptor bound to this configuration.
func (c *Component) Descriptor() components.Descriptor {
	return Descriptor(c.Options())
}

// Register adds the component to registry under ComponentName.
func (c *Component) Register(registry *components.Registry) error {
	if registry == nil {
		return nil
	}
	return registry.Register(ComponentName, c.Descriptor())
}

// Bind builds a field adapter for name over state.
func (c *Component) Bind(state FormState, name string, opts ...AdapterOption) *FieldAdapter {
	return Bind(state, name, opts...)
}

// Handler returns the config handler.
func (c *Component) Handler() http.Handler {
	return configHandler(c.Options())
}

// RegisterRoutes registers the config handler under basePath on mux.
func (c *Component) RegisterRoutes(mux Mux, basePath string) (string, error) {
	return registerRoutes(mux, basePath, c.Options())
}
