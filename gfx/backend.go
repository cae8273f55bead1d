// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gfx

import (
	"errors"
	"sort"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/primegl/surface"
)

// Backend name constants.
const (
	// BackendWGPU is the GPU backend built on gogpu/wgpu HAL.
	BackendWGPU = "wgpu"
	// BackendSoftware is the CPU fallback backend.
	BackendSoftware = "software"
)

// Standard backend priorities (higher = preferred).
const (
	PriorityGPU      = 100
	PrioritySoftware = 10
)

// Backend creates framebuffers bound to surfaces.
type Backend interface {
	// Name returns the backend identifier (e.g., "wgpu", "software").
	Name() string

	// Open allocates a framebuffer for s. The label is used for GPU debug
	// labels and logs. On error nothing is left allocated.
	Open(s surface.Surface, label string) (Framebuffer, error)
}

// Framebuffer is the backend side of a bound graphics context.
type Framebuffer interface {
	// Clear clears the framebuffer to c and presents it to the surface.
	Clear(c Color) error

	// Format returns the framebuffer pixel format.
	Format() gputypes.TextureFormat

	// Adapter describes the device the framebuffer renders on.
	Adapter() gpucontext.AdapterInfo

	// Close releases all framebuffer resources. Close is idempotent.
	Close()
}

// RegistryEntry represents a registered backend.
type RegistryEntry struct {
	// Name is the unique identifier for this backend.
	Name string

	// Priority determines selection order (higher = preferred).
	Priority int

	// Backend opens framebuffers.
	Backend Backend

	// Available reports if the backend is available on this system.
	Available func() bool
}

// globalRegistry is the default registry.
var globalRegistry = NewRegistry()

// Registry manages registered render backends.
//
// Backends register themselves from init functions:
//
//	func init() {
//	    gfx.Register(gfx.BackendWGPU, gfx.PriorityGPU, backend, available)
//	}
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*RegistryEntry
}

// NewRegistry creates a new empty registry.
// Most code should use the global registry via Register and DefaultRegistry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*RegistryEntry),
	}
}

// DefaultRegistry returns the global registry.
func DefaultRegistry() *Registry {
	return globalRegistry
}

// Register adds a backend to the global registry.
//
// If available is nil, the backend is assumed always available.
// Registering a name that already exists replaces the previous entry.
func Register(name string, priority int, b Backend, available func() bool) {
	globalRegistry.Register(name, priority, b, available)
}

// Register adds a backend to this registry.
func (r *Registry) Register(name string, priority int, b Backend, available func() bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.entries == nil {
		r.entries = make(map[string]*RegistryEntry)
	}

	if available == nil {
		available = func() bool { return true }
	}

	r.entries[name] = &RegistryEntry{
		Name:      name,
		Priority:  priority,
		Backend:   b,
		Available: available,
	}
}

// Unregister removes a backend from this registry.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, name)
}

// Get returns information about a specific backend.
func (r *Registry) Get(name string) (*RegistryEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[name]
	if !ok {
		return nil, false
	}

	// Return a copy to prevent modification
	entryCopy := *entry
	return &entryCopy, true
}

// Available returns names of all available backends sorted by priority.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedNames(true)
}

// candidates returns the entries to try for a new context, in order.
// A non-empty preferred name restricts the list to that backend.
// Entries are copies; their Name is the registry key.
func (r *Registry) candidates(preferred string) ([]RegistryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if preferred != "" {
		e, ok := r.entries[preferred]
		if !ok {
			return nil, &BackendNotFoundError{Name: preferred}
		}
		if !e.Available() {
			return nil, &BackendUnavailableError{Name: preferred}
		}
		return []RegistryEntry{*e}, nil
	}

	names := r.sortedNames(true)
	if len(names) == 0 {
		return nil, ErrNoBackendAvailable
	}
	out := make([]RegistryEntry, len(names))
	for i, name := range names {
		out[i] = *r.entries[name]
	}
	return out, nil
}

// sortedNames returns backend names sorted by priority (highest first).
// If onlyAvailable is true, filters to available backends only.
// Must be called with lock held.
func (r *Registry) sortedNames(onlyAvailable bool) []string {
	if len(r.entries) == 0 {
		return nil
	}

	type entry struct {
		name     string
		priority int
	}

	entries := make([]entry, 0, len(r.entries))
	for name, e := range r.entries {
		if onlyAvailable && !e.Available() {
			continue
		}
		entries = append(entries, entry{name: name, priority: e.Priority})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].priority != entries[j].priority {
			return entries[i].priority > entries[j].priority
		}
		return entries[i].name < entries[j].name
	})

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.name
	}
	return names
}

// ErrNoBackendAvailable is returned when no backends are registered
// or available on the current system.
var ErrNoBackendAvailable = errors.New("gfx: no backend available")

// BackendNotFoundError indicates a named backend is not registered.
type BackendNotFoundError struct {
	Name string
}

func (e *BackendNotFoundError) Error() string {
	return "gfx: backend not found: " + e.Name
}

// BackendUnavailableError indicates a backend exists but is not available.
type BackendUnavailableError struct {
	Name string
}

func (e *BackendUnavailableError) Error() string {
	return "gfx: backend unavailable: " + e.Name
}
