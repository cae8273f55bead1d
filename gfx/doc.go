// Package gfx manages the graphics context used to present solid-color
// frames onto a named surface.
//
// A Manager binds at most one Context to a surface taken from a
// surface.Registry. Contexts are created by render backends chosen by
// priority from a Registry: the wgpu backend (gogpu/wgpu HAL, registered
// when the Vulkan HAL is present and the nogpu tag is not set) and the
// always-available software backend.
//
//	surfaces := surface.NewRegistry()
//	surfaces.Register("gl-canvas", surface.NewImageSurface(640, 400))
//
//	m := gfx.NewManager(surfaces)
//	defer m.Close()
//	if m.InitWebGL("gl-canvas") {
//	    _ = m.RenderFrame(0.39, 0.39, 1.0)
//	}
package gfx
