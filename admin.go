package quillfield

import (
	"context"

	"github.com/goliatone/go-quillfield/pkg/customfields"
)

// App is the admin side of the host: where custom fields and plugin records
// are registered and where plugins are initialised.
type App interface {
	RegisterCustomField(defs ...customfields.AdminDefinition) error
	RegisterPlugin(record customfields.PluginRecord) error
	InitializePlugin(ctx context.Context, id string) error
}

// ServerRegistry is the server side of the host schema layer.
type ServerRegistry interface {
	RegisterServer(defs ...customfields.Definition) error
}

// Admin is an in-process App backed by the customfields registries.
type Admin struct {
	Fields  *customfields.Registry
	Plugins *customfields.Plugins
}

var (
	_ App            = (*Admin)(nil)
	_ ServerRegistry = (*customfields.Registry)(nil)
)

// NewAdmin returns an Admin with empty registries.
func NewAdmin() *Admin {
	return &Admin{
		Fields:  customfields.NewRegistry(),
		Plugins: customfields.NewPlugins(),
	}
}

func (a *Admin) RegisterCustomField(defs ...customfields.AdminDefinition) error {
	return a.Fields.Register(defs...)
}

func (a *Admin) RegisterPlugin(record customfields.PluginRecord) error {
	return a.Plugins.RegisterPlugin(record)
}

func (a *Admin) InitializePlugin(ctx context.Context, id string) error {
	return a.Plugins.InitializePlugin(ctx, id)
}

// Bootstrap initialises every registered plugin that is not ready yet.
func (a *Admin) Bootstrap(ctx context.Context) error {
	return a.Plugins.Initialize(ctx)
}
