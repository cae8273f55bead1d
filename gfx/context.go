package gfx

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/google/uuid"
)

// Context is a graphics context bound to one surface.
// It is owned by a Manager and must not be used after the Manager closes.
type Context struct {
	id        string
	surfaceID string
	backend   string
	fb        Framebuffer
	frames    uint64
	last      Color
}

func newContext(surfaceID, backend string, fb Framebuffer, id string) *Context {
	return &Context{id: id, surfaceID: surfaceID, backend: backend, fb: fb}
}

// newContextID returns a fresh context id.
func newContextID() string {
	return uuid.NewString()
}

// label returns the GPU debug label for a context id.
func label(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return "primegl_" + id
}

// ID returns the unique context id.
func (c *Context) ID() string { return c.id }

// SurfaceID returns the id of the surface the context is bound to.
func (c *Context) SurfaceID() string { return c.surfaceID }

// Backend returns the name of the backend that created the context.
func (c *Context) Backend() string { return c.backend }

// Frames returns the number of frames presented so far.
func (c *Context) Frames() uint64 { return c.frames }

// LastColor returns the color of the most recently presented frame.
func (c *Context) LastColor() Color { return c.last }

// Format returns the framebuffer pixel format.
func (c *Context) Format() gputypes.TextureFormat { return c.fb.Format() }

// Adapter describes the device the context renders on.
func (c *Context) Adapter() gpucontext.AdapterInfo { return c.fb.Adapter() }

// DeviceHandle returns a gpucontext view of the context. Devices opened
// by the context are private, so the handle only reports the format and
// adapter.
func (c *Context) DeviceHandle() DeviceHandle {
	return NullDeviceHandle{Format: c.fb.Format(), Info: c.fb.Adapter()}
}

func (c *Context) present(col Color) error {
	if err := c.fb.Clear(col); err != nil {
		return err
	}
	c.frames++
	c.last = col
	return nil
}

func (c *Context) release() {
	c.fb.Close()
}
