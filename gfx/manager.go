package gfx

import (
	"errors"
	"fmt"

	"github.com/gogpu/primegl/surface"
)

// MinAPILevel is the surface API level required for a context
// (WebGL 2 equivalent).
const MinAPILevel = 2

// Manager owns at most one graphics context.
//
// State machine:
//
//	Uninitialized --Init ok--> Bound --RenderFrame--> Bound
//	Uninitialized --Init failed--> Uninitialized (retryable)
//
// A Manager is NOT safe for concurrent use; callers invoke it from one
// goroutine at a time.
type Manager struct {
	surfaces *surface.Registry
	backends *Registry
	prefer   string
	ctx      *Context
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithRegistry selects the backend registry. The default is
// DefaultRegistry().
func WithRegistry(r *Registry) ManagerOption {
	return func(m *Manager) { m.backends = r }
}

// WithBackend restricts context creation to the named backend.
// An empty name selects the best available backend.
func WithBackend(name string) ManagerOption {
	return func(m *Manager) { m.prefer = name }
}

// NewManager creates a Manager that binds contexts to surfaces from reg.
func NewManager(reg *surface.Registry, opts ...ManagerOption) *Manager {
	m := &Manager{surfaces: reg, backends: globalRegistry}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Init binds a context to the surface named surfaceID.
//
// Calling Init again with the same surface is a no-op that returns nil.
// Calling it with a different surface returns ErrAlreadyBound and leaves
// the existing context alone. On failure the Manager stays uninitialized.
func (m *Manager) Init(surfaceID string) error {
	if m.ctx != nil {
		if m.ctx.surfaceID == surfaceID {
			return nil
		}
		return &SurfaceError{ID: surfaceID, Err: ErrAlreadyBound}
	}

	s, err := m.surfaces.Lookup(surfaceID)
	if err != nil {
		return &SurfaceError{ID: surfaceID, Err: fmt.Errorf("%w: %w", ErrSurfaceNotFound, err)}
	}
	if level := surface.CapabilitiesOf(s).APILevel; level < MinAPILevel {
		return &SurfaceError{
			ID:  surfaceID,
			Err: fmt.Errorf("%w: surface API level %d, need %d", ErrUnsupported, level, MinAPILevel),
		}
	}

	candidates, err := m.backends.candidates(m.prefer)
	if err != nil {
		return &SurfaceError{ID: surfaceID, Err: fmt.Errorf("%w: %w", ErrUnsupported, err)}
	}

	id := newContextID()
	var errs []error
	for _, e := range candidates {
		fb, err := e.Backend.Open(s, label(id))
		if err != nil {
			slogger().Warn("gfx: backend failed, trying next", "backend", e.Name, "err", err)
			errs = append(errs, fmt.Errorf("%s: %w", e.Name, err))
			continue
		}
		m.ctx = newContext(surfaceID, e.Name, fb, id)
		slogger().Info("gfx: context bound",
			"surface", surfaceID, "backend", e.Name, "context", id,
			"width", s.Width(), "height", s.Height())
		return nil
	}
	return &SurfaceError{ID: surfaceID, Err: fmt.Errorf("%w: %w", ErrUnsupported, errors.Join(errs...))}
}

// InitWebGL is the boolean form of Init: it reports whether a context is
// bound to surfaceID after the call.
func (m *Manager) InitWebGL(surfaceID string) bool {
	if err := m.Init(surfaceID); err != nil {
		slogger().Warn("gfx: init failed", "surface", surfaceID, "err", err)
		return false
	}
	return true
}

// RenderFrame clears the bound framebuffer to (r, g, b) and presents it.
// Components are clamped to [0, 1]. Before a successful Init it returns
// ErrNotInitialized and has no side effect.
func (m *Manager) RenderFrame(r, g, b float64) error {
	if m.ctx == nil {
		return ErrNotInitialized
	}
	return m.ctx.present(RGB(r, g, b))
}

// Initialized reports whether a context is bound.
func (m *Manager) Initialized() bool {
	return m.ctx != nil
}

// Context returns the bound context, or nil.
func (m *Manager) Context() *Context {
	return m.ctx
}

// Close releases the bound context, if any. The Manager returns to the
// uninitialized state.
func (m *Manager) Close() {
	if m.ctx == nil {
		return
	}
	m.ctx.release()
	slogger().Debug("gfx: context released", "context", m.ctx.id)
	m.ctx = nil
}
