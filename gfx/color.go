package gfx

import (
	"image/color"
	"math"

	"github.com/gogpu/gputypes"
)

// Color is an opaque clear color with components in [0, 1].
type Color struct {
	R, G, B float64
}

// RGB returns the clamped color for the given components.
func RGB(r, g, b float64) Color {
	return Color{R: clamp01(r), G: clamp01(g), B: clamp01(b)}
}

// clamp01 clamps v to [0, 1]. NaN maps to 0.
func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v <= 0:
		return 0
	case v >= 1:
		return 1
	default:
		return v
	}
}

// RGBA converts c to an opaque 8-bit color.
func (c Color) RGBA() color.RGBA {
	//nolint:gosec // G115: components are clamped to [0, 1]
	return color.RGBA{
		R: uint8(math.Round(c.R * 255)),
		G: uint8(math.Round(c.G * 255)),
		B: uint8(math.Round(c.B * 255)),
		A: 255,
	}
}

// clearValue converts c to a render pass clear value.
func (c Color) clearValue() gputypes.Color {
	return gputypes.Color{R: c.R, G: c.G, B: c.B, A: 1}
}
