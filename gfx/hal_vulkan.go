//go:build !nogpu && !android && !js

package gfx

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// init registers the Vulkan-backed wgpu backend when the HAL exposes it.
// Build with -tags nogpu to get a software-only binary.
func init() {
	api, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return
	}
	Register(BackendWGPU, PriorityGPU, NewHALBackend(BackendWGPU, api), nil)
}
