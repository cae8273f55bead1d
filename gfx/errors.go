package gfx

import "errors"

var (
	// ErrSurfaceNotFound is returned when no surface has the requested id.
	ErrSurfaceNotFound = errors.New("gfx: surface not found")

	// ErrUnsupported is returned when a surface cannot host a context of
	// MinAPILevel, or no backend could create one.
	ErrUnsupported = errors.New("gfx: graphics context not supported")

	// ErrAlreadyBound is returned when Init names a different surface than
	// the one the existing context is bound to.
	ErrAlreadyBound = errors.New("gfx: context already bound to another surface")

	// ErrNotInitialized is returned by RenderFrame before a successful Init.
	ErrNotInitialized = errors.New("gfx: context not initialized")

	// ErrNoAdapter is returned when a HAL instance exposes no adapters.
	ErrNoAdapter = errors.New("gfx: no GPU adapters found")
)

// SurfaceError records a failed Init against a surface.
type SurfaceError struct {
	ID  string
	Err error
}

func (e *SurfaceError) Error() string {
	return "gfx: init " + e.ID + ": " + e.Err.Error()
}

func (e *SurfaceError) Unwrap() error {
	return e.Err
}
