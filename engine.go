package primegl

import (
	"fmt"
	"image"

	"github.com/gogpu/primegl/gfx"
	"github.com/gogpu/primegl/sieve"
	"github.com/gogpu/primegl/surface"
)

// Engine is the capability façade handed out by a ready Loader.
//
// An Engine assumes a single caller: it is NOT safe for concurrent use.
// ComputePrimes on large bounds can run for a while; callers that need to
// stay responsive should call it from their own goroutine. Calls cannot be
// cancelled once started.
type Engine struct {
	id       string
	cfg      Config
	surfaces *surface.Registry
	graphics *gfx.Manager
	sieve    *sieve.Sieve
	closed   bool
}

// ID returns the engine instance id.
func (e *Engine) ID() string { return e.id }

// Config returns the effective configuration.
func (e *Engine) Config() Config { return e.cfg }

// Surfaces returns the ids of all surfaces known to the engine.
func (e *Engine) Surfaces() []string { return e.surfaces.IDs() }

// InitGraphics binds the graphics context to the surface named surfaceID.
// Repeating the call for the same surface is a no-op.
func (e *Engine) InitGraphics(surfaceID string) error {
	if e.closed {
		return ErrClosed
	}
	return e.graphics.Init(surfaceID)
}

// InitWebGL reports whether a graphics context is bound to surfaceID
// after the call. It returns false if the surface does not exist, cannot
// host a WebGL 2 class context, or another surface is already bound.
func (e *Engine) InitWebGL(surfaceID string) bool {
	if err := e.InitGraphics(surfaceID); err != nil {
		Logger().Warn("primegl: graphics init failed", "surface", surfaceID, "err", err)
		return false
	}
	return true
}

// GraphicsReady reports whether a graphics context is bound.
func (e *Engine) GraphicsReady() bool {
	return !e.closed && e.graphics.Initialized()
}

// Graphics returns the bound graphics context, or nil.
func (e *Engine) Graphics() *gfx.Context {
	if e.closed {
		return nil
	}
	return e.graphics.Context()
}

// RenderFrame clears the bound surface to (r, g, b) and presents it.
// Components are clamped to [0, 1]. Before InitGraphics succeeds it
// returns gfx.ErrNotInitialized and changes nothing.
func (e *Engine) RenderFrame(r, g, b float64) error {
	if e.closed {
		return ErrClosed
	}
	return e.graphics.RenderFrame(r, g, b)
}

// Snapshot returns a copy of the current contents of a surface.
func (e *Engine) Snapshot(surfaceID string) (*image.RGBA, error) {
	if e.closed {
		return nil, ErrClosed
	}
	s, err := e.surfaces.Lookup(surfaceID)
	if err != nil {
		return nil, err
	}
	return s.Snapshot(), nil
}

// CountPrimes returns the number of primes <= bound.
func (e *Engine) CountPrimes(bound int) (int, error) {
	r, err := e.count(bound)
	return r.Count, err
}

// ComputePrimes counts the primes <= bound and returns a summary such as
// "Found 78,498 primes up to 1,000,000". Each call recomputes the result.
func (e *Engine) ComputePrimes(bound int) (string, error) {
	r, err := e.count(bound)
	if err != nil {
		return "", err
	}
	return sieve.Summary(r), nil
}

// Primes returns every prime <= bound in ascending order.
func (e *Engine) Primes(bound int) ([]int, error) {
	if err := e.checkBound(bound); err != nil {
		return nil, err
	}
	return e.sieve.Primes(bound)
}

func (e *Engine) count(bound int) (sieve.Result, error) {
	if err := e.checkBound(bound); err != nil {
		return sieve.Result{}, err
	}
	r, err := e.sieve.Count(bound)
	if err != nil {
		return sieve.Result{}, err
	}
	Logger().Debug("primegl: sieve done",
		"bound", bound, "count", r.Count, "scratch_bytes", e.sieve.Cap())
	return r, nil
}

func (e *Engine) checkBound(bound int) error {
	if e.closed {
		return ErrClosed
	}
	if bound < sieve.MinBound || bound > e.cfg.MaxBound {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrBoundOutOfRange, bound, sieve.MinBound, e.cfg.MaxBound)
	}
	return nil
}

// Close releases the graphics context, the sieve scratch buffer and all
// surfaces. Capability calls after Close return ErrClosed.
func (e *Engine) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	e.graphics.Close()
	e.sieve.Release()
	err := e.surfaces.Close()
	Logger().Info("primegl: engine closed", "engine", e.id)
	return err
}
