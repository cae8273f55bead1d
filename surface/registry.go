// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"errors"
	"sort"
	"sync"
)

// Registry maps surface ids to surfaces.
//
// The host registers its drawable surfaces once; graphics contexts look
// them up by id when they bind.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Surface
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]Surface),
	}
}

// Register adds a surface under id.
// Registering an id that already exists replaces the previous entry
// without closing it.
func (r *Registry) Register(id string, s Surface) error {
	if id == "" {
		return ErrEmptyID
	}
	if s == nil {
		return errors.New("surface: surface must not be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.entries == nil {
		r.entries = make(map[string]Surface)
	}
	r.entries[id] = s
	return nil
}

// Unregister removes a surface from this registry.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, id)
}

// Lookup returns the surface registered under id.
func (r *Registry) Lookup(id string) (Surface, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.entries[id]
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	return s, nil
}

// IDs returns all registered surface ids in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Close closes every registered surface and empties the registry.
// The first error is returned; all surfaces are closed regardless.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var first error
	for id, s := range r.entries {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
		delete(r.entries, id)
	}
	return first
}

// Errors.
var (
	// ErrEmptyID is returned when registering a surface without an id.
	ErrEmptyID = errors.New("surface: empty id")
)

// NotFoundError indicates no surface is registered under an id.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return "surface: not found: " + e.ID
}
