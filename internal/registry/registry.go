// Package registry maps analyst names to constructors and default
// parameters. A Registry is an explicit object built once at startup and
// injected into the runner; there is no package-global table, so tests get a
// fresh registry each.
package registry

import (
	"errors"
	"fmt"
	"sync"

	"llm-hedge-fund/internal/interfaces"
)

// ErrNotFound is returned by Create for a name that was never registered.
// Hitting it is a configuration mistake, not a runtime condition to degrade.
var ErrNotFound = errors.New("analyst not registered")

// Params is a named set of numeric parameters for one strategy: weights,
// thresholds and cut-points. Strategy code never hardcodes these.
type Params map[string]float64

// Clone returns an independent copy of p.
func (p Params) Clone() Params {
	cp := make(Params, len(p))
	for k, v := range p {
		cp[k] = v
	}
	return cp
}

// Value returns the parameter named key, or fallback if absent.
func (p Params) Value(key string, fallback float64) float64 {
	if v, ok := p[key]; ok {
		return v
	}
	return fallback
}

// Constructor builds a fresh, stateless analyst carrying the merged
// parameters.
type Constructor func(cfg Params) interfaces.Analyst

// Registration is one entry in the registry.
type Registration struct {
	Name        string
	Description string
	Defaults    Params
	New         Constructor
}

// Info describes a registered analyst for listing.
type Info struct {
	Name        string
	Description string
}

// Registry holds named analyst registrations in registration order.
type Registry struct {
	mu      sync.RWMutex
	order   []string
	entries map[string]Registration
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{entries: map[string]Registration{}}
}

// Register adds or replaces an entry. Re-registering a name overwrites its
// entry and keeps its original position in the listing order.
func (r *Registry) Register(reg Registration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[reg.Name]; !exists {
		r.order = append(r.order, reg.Name)
	}
	r.entries[reg.Name] = reg
}

// Create builds a fresh analyst by name. Overrides merge shallowly into the
// registered defaults; an override key the defaults do not declare is
// rejected. The stored defaults are never mutated.
func (r *Registry) Create(name string, overrides Params) (interfaces.Analyst, error) {
	r.mu.RLock()
	reg, ok := r.entries[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	cfg := reg.Defaults.Clone()
	for k, v := range overrides {
		if _, known := cfg[k]; !known {
			return nil, fmt.Errorf("analyst %q: unknown parameter %q", name, k)
		}
		cfg[k] = v
	}
	return reg.New(cfg), nil
}

// List returns all registered analysts in registration order. The order is
// stable across calls within a process.
func (r *Registry) List() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Info, 0, len(r.order))
	for _, name := range r.order {
		reg := r.entries[name]
		out = append(out, Info{Name: reg.Name, Description: reg.Description})
	}
	return out
}
