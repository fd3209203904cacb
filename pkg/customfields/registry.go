package customfields

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/goliatone/go-quillfield/pkg/components"
)

// Registry tracks custom field declarations for both sides of the host: the
// server definitions that make an attribute type valid and the admin
// definitions that make it editable. It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	server map[string]Definition
	admin  map[string]AdminDefinition
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		server: make(map[string]Definition),
		admin:  make(map[string]AdminDefinition),
	}
}

// RegisterServer declares server-side custom fields. Re-declaring a UID with
// the same type is a no-op; a different type is rejected.
func (r *Registry) RegisterServer(defs ...Definition) error {
	if r == nil {
		return errors.New("customfields: registry is nil")
	}
	var errs []error
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, def := range defs {
		def = normalizeDefinition(def)
		if err := def.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		uid := def.UID()
		if existing, ok := r.server[uid]; ok && existing.Type != def.Type {
			errs = append(errs, fmt.Errorf("%w: %s declared as %q and %q", ErrDuplicateField, uid, existing.Type, def.Type))
			continue
		}
		r.server[uid] = def
	}
	return errors.Join(errs...)
}

// Register declares admin-side custom fields. The icon is sanitised and the
// server definition is recorded as well, so an admin registration alone makes
// the type usable. Registering the same UID twice is an error.
func (r *Registry) Register(defs ...AdminDefinition) error {
	if r == nil {
		return errors.New("customfields: registry is nil")
	}
	var errs []error
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, def := range defs {
		def.Definition = normalizeDefinition(def.Definition)
		if err := def.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		uid := def.UID()
		if _, exists := r.admin[uid]; exists {
			errs = append(errs, fmt.Errorf("%w: %s", ErrDuplicateField, uid))
			continue
		}
		if existing, ok := r.server[uid]; ok && existing.Type != def.Type {
			errs = append(errs, fmt.Errorf("%w: %s declared as %q and %q", ErrDuplicateField, uid, existing.Type, def.Type))
			continue
		}
		def.Icon = SanitizeIcon(def.Icon)
		def.Options = maps.Clone(def.Options)
		r.admin[uid] = def
		r.server[uid] = def.Definition
	}
	return errors.Join(errs...)
}

// Lookup returns the server definition registered under uid.
func (r *Registry) Lookup(uid string) (Definition, bool) {
	if r == nil {
		return Definition{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.server[strings.TrimSpace(uid)]
	return def, ok
}

// Resolve is Lookup returning ErrUnknownCustomField on a miss.
func (r *Registry) Resolve(uid string) (Definition, error) {
	def, ok := r.Lookup(uid)
	if !ok {
		return Definition{}, fmt.Errorf("%w: %q", ErrUnknownCustomField, uid)
	}
	return def, nil
}

// Admin returns the admin definition registered under uid.
func (r *Registry) Admin(uid string) (AdminDefinition, bool) {
	if r == nil {
		return AdminDefinition{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.admin[strings.TrimSpace(uid)]
	if ok {
		def.Options = maps.Clone(def.Options)
	}
	return def, ok
}

// UIDs lists the registered server UIDs in sorted order.
func (r *Registry) UIDs() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.server))
}

// RegisterComponents adds every admin input component to reg under the
// custom field name.
func (r *Registry) RegisterComponents(reg *components.Registry) error {
	if r == nil || reg == nil {
		return nil
	}
	r.mu.RLock()
	defs := slices.Collect(maps.Values(r.admin))
	r.mu.RUnlock()

	slices.SortFunc(defs, func(a, b AdminDefinition) int {
		return strings.Compare(a.UID(), b.UID())
	})
	var errs []error
	for _, def := range defs {
		if err := reg.Register(def.Name, def.Input); err != nil {
			errs = append(errs, fmt.Errorf("customfields: register input for %s: %w", def.UID(), err))
		}
	}
	return errors.Join(errs...)
}

func normalizeDefinition(def Definition) Definition {
	def.Name = strings.TrimSpace(def.Name)
	def.Plugin = strings.TrimSpace(def.Plugin)
	def.Type = Type(strings.ToLower(strings.TrimSpace(string(def.Type))))
	return def
}
