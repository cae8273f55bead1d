// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"image"
	"image/color"
	"image/draw"
)

// DefaultAPILevel is the API level reported by image surfaces unless
// overridden in Options.
const DefaultAPILevel = 2

// Options configures a new image surface.
type Options struct {
	Width  int
	Height int

	// APILevel overrides DefaultAPILevel when non-zero.
	// Use a negative value for a surface with no accelerated API at all.
	APILevel int
}

// ImageSurface is a CPU-based surface backed by an *image.RGBA.
//
// It stands in for a host canvas: graphics contexts clear and present
// frames into it, and callers read the result back with Snapshot.
type ImageSurface struct {
	width    int
	height   int
	apiLevel int
	img      *image.RGBA

	// closed tracks if Close has been called
	closed bool
}

// NewImageSurface creates a new CPU-based surface with the given dimensions.
func NewImageSurface(width, height int) *ImageSurface {
	return NewImageSurfaceWithOptions(Options{Width: width, Height: height})
}

// NewImageSurfaceWithOptions creates a new CPU-based surface.
func NewImageSurfaceWithOptions(opts Options) *ImageSurface {
	width, height := opts.Width, opts.Height
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	level := opts.APILevel
	switch {
	case level == 0:
		level = DefaultAPILevel
	case level < 0:
		level = 0
	}

	return &ImageSurface{
		width:    width,
		height:   height,
		apiLevel: level,
		img:      image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

// Width returns the surface width.
func (s *ImageSurface) Width() int {
	return s.width
}

// Height returns the surface height.
func (s *ImageSurface) Height() int {
	return s.height
}

// Clear fills the entire surface with the given color.
func (s *ImageSurface) Clear(c color.Color) {
	if s.closed {
		return
	}

	r, g, b, a := c.RGBA()
	//nolint:gosec // G115: safe - r>>8 is always in [0, 255]
	rgba := color.RGBA{
		R: uint8(r >> 8),
		G: uint8(g >> 8),
		B: uint8(b >> 8),
		A: uint8(a >> 8),
	}

	draw.Draw(s.img, s.img.Bounds(), &image.Uniform{rgba}, image.Point{}, draw.Src)
}

// Flush ensures all pending operations are complete.
// For ImageSurface, this is a no-op.
func (s *ImageSurface) Flush() error {
	return nil
}

// Snapshot returns a copy of the current surface contents.
func (s *ImageSurface) Snapshot() *image.RGBA {
	if s.closed {
		return nil
	}

	result := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	copy(result.Pix, s.img.Pix)
	return result
}

// Close releases resources associated with the surface.
func (s *ImageSurface) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.img = nil
	return nil
}

// Capabilities returns the surface capabilities.
func (s *ImageSurface) Capabilities() Capabilities {
	return Capabilities{
		APILevel:  s.apiLevel,
		MaxWidth:  0, // Unlimited
		MaxHeight: 0,
	}
}

var _ CapableSurface = (*ImageSurface)(nil)
