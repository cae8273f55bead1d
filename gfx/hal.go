package gfx

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/primegl/surface"
)

// InstanceFactory creates HAL instances. hal.Backend values returned by
// hal.GetBackend satisfy it, as does the noop API used in tests.
type InstanceFactory interface {
	CreateInstance(desc *hal.InstanceDescriptor) (hal.Instance, error)
}

// HALBackend opens a dedicated wgpu HAL device per framebuffer and clears
// frames with a render pass.
type HALBackend struct {
	name string
	api  InstanceFactory
}

// NewHALBackend creates a backend named name on top of api.
func NewHALBackend(name string, api InstanceFactory) *HALBackend {
	return &HALBackend{name: name, api: api}
}

// Name returns the backend identifier.
func (b *HALBackend) Name() string { return b.name }

// Open creates an instance, picks an adapter, opens a device and
// allocates a color target sized to s.
func (b *HALBackend) Open(s surface.Surface, label string) (Framebuffer, error) {
	instance, err := b.api.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("create instance: %w", err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoAdapter
	}

	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("open device: %w", err)
	}

	fb := &halFramebuffer{
		instance: instance,
		device:   openDev.Device,
		queue:    openDev.Queue,
		target:   s,
		label:    label,
		adapter:  adapterInfo(selected.Info),
	}
	//nolint:gosec // G115: surface dimensions are always positive
	if err := fb.createTarget(uint32(s.Width()), uint32(s.Height())); err != nil {
		fb.Close()
		return nil, err
	}

	slogger().Info("gfx: GPU device opened",
		"backend", b.name, "adapter", selected.Info.Name, "label", label)
	return fb, nil
}

// halFramebuffer is a single-sample BGRA8 color target on a HAL device.
type halFramebuffer struct {
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	tex      hal.Texture
	view     hal.TextureView
	target   surface.Surface
	label    string
	adapter  gpucontext.AdapterInfo
	frames   uint64
}

// adapterInfo converts HAL adapter metadata to its gpucontext form.
func adapterInfo(info gputypes.AdapterInfo) gpucontext.AdapterInfo {
	t := gpucontext.AdapterTypeUnknown
	switch info.DeviceType {
	case gputypes.DeviceTypeDiscreteGPU:
		t = gpucontext.AdapterTypeDiscrete
	case gputypes.DeviceTypeIntegratedGPU:
		t = gpucontext.AdapterTypeIntegrated
	case gputypes.DeviceTypeCPU:
		t = gpucontext.AdapterTypeSoftware
	}
	return gpucontext.AdapterInfo{Name: info.Name, Type: t}
}

func (f *halFramebuffer) createTarget(w, h uint32) error {
	tex, err := f.device.CreateTexture(&hal.TextureDescriptor{
		Label:         f.label + "_color",
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatBGRA8Unorm,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("create color texture: %w", err)
	}
	f.tex = tex

	view, err := f.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label: f.label + "_color_view",
	})
	if err != nil {
		return fmt.Errorf("create color view: %w", err)
	}
	f.view = view
	return nil
}

// Clear records a clear-only render pass, submits it, waits until the
// device is idle and presents the frame. A clear is uniform, so presenting copies the
// clear color to the surface without a pixel readback.
func (f *halFramebuffer) Clear(c Color) error {
	if f.device == nil {
		return ErrNotInitialized
	}

	encoder, err := f.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: f.label + "_encoder",
	})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding(f.label + "_frame"); err != nil {
		encoder.DiscardEncoding()
		return fmt.Errorf("begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: f.label + "_clear_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       f.view,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: c.clearValue(),
		}},
	})
	rp.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		encoder.DiscardEncoding()
		return fmt.Errorf("end encoding: %w", err)
	}
	defer f.device.FreeCommandBuffer(cmdBuf)

	index, err := f.queue.Submit([]hal.CommandBuffer{cmdBuf})
	if err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	if err := f.device.WaitIdle(); err != nil {
		return fmt.Errorf("wait for GPU: %w", err)
	}

	f.frames++
	slogger().Debug("gfx: frame submitted",
		"label", f.label, "frame", f.frames, "submission", index)

	f.target.Clear(c.RGBA())
	return f.target.Flush()
}

func (f *halFramebuffer) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatBGRA8Unorm
}

func (f *halFramebuffer) Adapter() gpucontext.AdapterInfo {
	return f.adapter
}

// Close releases resources in reverse order of creation.
func (f *halFramebuffer) Close() {
	if f.device != nil {
		if f.view != nil {
			f.device.DestroyTextureView(f.view)
			f.view = nil
		}
		if f.tex != nil {
			f.device.DestroyTexture(f.tex)
			f.tex = nil
		}
		f.device.Destroy()
		f.device = nil
		f.queue = nil
	}
	if f.instance != nil {
		f.instance.Destroy()
		f.instance = nil
	}
	f.target = nil
}
