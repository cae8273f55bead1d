package gfx

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/primegl/surface"
)

func init() {
	Register(BackendSoftware, PrioritySoftware, SoftwareBackend{}, nil)
}

// SoftwareBackend clears surfaces on the CPU. It is always available and
// is selected when no GPU backend can open a device.
type SoftwareBackend struct{}

// Name returns the backend identifier.
func (SoftwareBackend) Name() string { return BackendSoftware }

// Open returns a framebuffer that draws straight into s.
func (SoftwareBackend) Open(s surface.Surface, _ string) (Framebuffer, error) {
	return &softwareFramebuffer{target: s}, nil
}

type softwareFramebuffer struct {
	target surface.Surface
}

func (f *softwareFramebuffer) Clear(c Color) error {
	if f.target == nil {
		return ErrNotInitialized
	}
	f.target.Clear(c.RGBA())
	return f.target.Flush()
}

func (f *softwareFramebuffer) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

func (f *softwareFramebuffer) Adapter() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Name: "CPU", Type: gpucontext.AdapterTypeSoftware}
}

func (f *softwareFramebuffer) Close() {
	f.target = nil
}
