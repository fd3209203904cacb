package customfields

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

var (
	ErrDuplicatePlugin = errors.New("customfields: plugin already registered")
	ErrUnknownPlugin   = errors.New("customfields: unknown plugin")
)

// Initializer runs once when the host bootstraps the plugin.
type Initializer func(ctx context.Context) error

// PluginRecord is the identity the host keeps for initialisation bookkeeping.
type PluginRecord struct {
	ID          string
	Name        string
	Initializer Initializer
	IsReady     bool
}

// Plugins tracks plugin records in registration order. It is safe for
// concurrent use.
type Plugins struct {
	mu      sync.RWMutex
	records map[string]*pluginEntry
	order   []string
}

// pluginEntry serialises initialisation of one plugin so concurrent
// bootstraps run its initializer at most once.
type pluginEntry struct {
	initMu sync.Mutex
	record PluginRecord
}

// NewPlugins returns an empty plugin table.
func NewPlugins() *Plugins {
	return &Plugins{records: make(map[string]*pluginEntry)}
}

// RegisterPlugin adds record. The record starts out not ready regardless of
// the IsReady value supplied.
func (p *Plugins) RegisterPlugin(record PluginRecord) error {
	if p == nil {
		return errors.New("customfields: plugin table is nil")
	}
	record.ID = strings.TrimSpace(record.ID)
	if record.ID == "" {
		return fmt.Errorf("%w: plugin id is required", ErrInvalidDefinition)
	}
	if strings.TrimSpace(record.Name) == "" {
		record.Name = record.ID
	}
	record.IsReady = false

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.records[record.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicatePlugin, record.ID)
	}
	p.records[record.ID] = &pluginEntry{record: record}
	p.order = append(p.order, record.ID)
	return nil
}

// Plugin returns a copy of the record registered under id.
func (p *Plugins) Plugin(id string) (PluginRecord, bool) {
	if p == nil {
		return PluginRecord{}, false
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	entry, ok := p.records[strings.TrimSpace(id)]
	if !ok {
		return PluginRecord{}, false
	}
	return entry.record, true
}

// IDs lists plugin ids in registration order.
func (p *Plugins) IDs() []string {
	if p == nil {
		return nil
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]string(nil), p.order...)
}

// Initialize runs the initializer of every plugin that is not ready yet, in
// registration order, and marks it ready on success. Failures are collected;
// a failed plugin stays not ready and is retried by the next call.
func (p *Plugins) Initialize(ctx context.Context) error {
	if p == nil {
		return nil
	}
	var errs []error
	for _, id := range p.IDs() {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := p.InitializePlugin(ctx, id); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// InitializePlugin runs the initializer of a single plugin unless it is
// already ready. Concurrent calls for the same plugin wait for the first one.
func (p *Plugins) InitializePlugin(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if p == nil {
		return fmt.Errorf("%w: %s", ErrUnknownPlugin, id)
	}
	p.mu.RLock()
	entry, ok := p.records[id]
	p.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPlugin, id)
	}

	entry.initMu.Lock()
	defer entry.initMu.Unlock()

	p.mu.RLock()
	ready, init := entry.record.IsReady, entry.record.Initializer
	p.mu.RUnlock()
	if ready {
		return nil
	}
	if init != nil {
		if err := init(ctx); err != nil {
			return fmt.Errorf("customfields: initialize %s: %w", id, err)
		}
	}

	p.mu.Lock()
	entry.record.IsReady = true
	p.mu.Unlock()
	return nil
}
