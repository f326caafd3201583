// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package sprite

import "github.com/gogpu/sprite/gpucore"

// Device is the presentation backend a Renderer draws through. These
// operations, together with WindowID, are the whole contract a custom
// backend must satisfy; *surface.WindowDevice implements it for any
// swapchain.
type Device interface {
	// BeginFrame is called once per render pass before any drawing. It
	// applies pending resizes and acquires the frame.
	BeginFrame() error

	// EndFrame is called once per render pass after the final flush. It
	// presents the frame and releases the platform's frame resource.
	EndFrame() error

	// ViewportDimensions returns the current drawable size in pixels.
	ViewportDimensions() (width, height float32)

	// WithDeviceInfo gives scoped access to the GPU adapter for resource
	// creation.
	WithDeviceInfo(fn func(gpucore.Adapter) error) error

	// WithFrame gives scoped access to the acquired image.
	WithFrame(fn func(gpucore.Target) error) error

	// WindowID identifies the window the device presents to.
	WindowID() uint64
}
