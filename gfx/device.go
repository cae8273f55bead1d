// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// DeviceHandle provides GPU device access to a host application.
//
// DeviceHandle is an alias for gpucontext.DeviceProvider so a bound
// Context can be handed to anything in the gpucontext ecosystem.
type DeviceHandle = gpucontext.DeviceProvider

// NullDeviceHandle is a DeviceHandle that provides nil implementations.
// Contexts that do not share a gpucontext device return it.
type NullDeviceHandle struct {
	// Format is the framebuffer format reported by SurfaceFormat.
	Format gputypes.TextureFormat

	// Info is reported by AdapterInfo.
	Info gpucontext.AdapterInfo
}

// Device returns nil for the null device.
func (NullDeviceHandle) Device() gpucontext.Device { return nil }

// Queue returns nil for the null device.
func (NullDeviceHandle) Queue() gpucontext.Queue { return nil }

// Adapter returns nil for the null device.
func (NullDeviceHandle) Adapter() gpucontext.Adapter { return nil }

// SurfaceFormat returns the framebuffer format, or undefined.
func (h NullDeviceHandle) SurfaceFormat() gputypes.TextureFormat {
	return h.Format
}

// AdapterInfo returns the adapter the framebuffer renders on.
func (h NullDeviceHandle) AdapterInfo() gpucontext.AdapterInfo {
	return h.Info
}

// Ensure NullDeviceHandle implements DeviceHandle.
var _ DeviceHandle = NullDeviceHandle{}
