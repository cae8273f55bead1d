// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"image"
	"image/color"
)

// Surface is a named drawable area that a graphics context presents into.
//
// Surfaces are NOT thread-safe. Each surface should be used from a single
// goroutine, or external synchronization must be used.
//
// Example usage:
//
//	s := surface.NewImageSurface(640, 400)
//	defer s.Close()
//
//	s.Clear(color.RGBA{100, 100, 255, 255})
//	img := s.Snapshot()
type Surface interface {
	// Width returns the surface width in pixels.
	Width() int

	// Height returns the surface height in pixels.
	Height() int

	// Clear fills the entire surface with the given color.
	Clear(c color.Color)

	// Flush ensures all pending drawing operations are complete.
	// For CPU surfaces, this is typically a no-op.
	Flush() error

	// Snapshot returns the current surface contents as an RGBA image.
	// The returned image is a copy; modifications to it do not affect the surface.
	Snapshot() *image.RGBA

	// Close releases all resources associated with the surface.
	// After Close, the surface must not be used.
	// Close is idempotent; multiple calls are safe.
	Close() error
}

// Capabilities describes the rendering features a surface supports.
type Capabilities struct {
	// APILevel is the highest graphics API generation the surface can host.
	// Level 2 corresponds to a WebGL 2 / GLES 3 class context.
	APILevel int

	// MaxWidth is the maximum supported width (0 = unlimited).
	MaxWidth int

	// MaxHeight is the maximum supported height (0 = unlimited).
	MaxHeight int
}

// CapableSurface is an optional interface for querying surface capabilities.
type CapableSurface interface {
	Surface

	// Capabilities returns the surface's capabilities.
	Capabilities() Capabilities
}

// CapabilitiesOf returns the capabilities of s. Surfaces that do not
// implement CapableSurface report APILevel 0.
func CapabilitiesOf(s Surface) Capabilities {
	if cs, ok := s.(CapableSurface); ok {
		return cs.Capabilities()
	}
	return Capabilities{}
}
