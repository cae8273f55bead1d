// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package surface provides the drawable surfaces that graphics contexts
// bind to.
//
// A Surface is a rectangular pixel area owned by the host (the equivalent
// of a canvas element). Surfaces are looked up by id through a Registry:
//
//	reg := surface.NewRegistry()
//	reg.Register("gl-canvas", surface.NewImageSurface(640, 400))
//
//	s, err := reg.Lookup("gl-canvas")
//
// Surfaces report the graphics API level they can host through the
// optional CapableSurface interface. A surface without it is treated as
// unable to host an accelerated context.
package surface
