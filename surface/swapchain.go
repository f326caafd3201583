// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import "github.com/gogpu/sprite/gpucore"

// Swapchain is the platform side of a presentable surface.
//
// Implementations do not need to be safe for concurrent use: Manager
// serializes every call under its guard.
type Swapchain interface {
	// Configure (re)creates the swapchain images for cfg, tearing down any
	// previous configuration first.
	Configure(cfg Config) error

	// Acquire returns the next presentable image. Implementations report
	// ErrSurfaceLost or ErrTimeout for recoverable failures and ErrDeviceLost
	// when the device is gone.
	Acquire() (gpucore.Target, error)

	// Present queues an image returned by Acquire for display and releases it.
	Present(target gpucore.Target) error

	// Release destroys the swapchain.
	Release()
}

// Frame is the exclusive, single-use token for the currently writable
// presentable image. It ends its life in Manager.Present.
type Frame struct {
	seq    uint64
	target gpucore.Target
	width  uint32
	height uint32
}

// Seq returns the frame sequence number. Presentation order equals
// acquisition order, so sequence numbers presented are strictly increasing.
func (f *Frame) Seq() uint64 { return f.seq }

// Target returns the image to draw into. It must not be used after Present.
func (f *Frame) Target() gpucore.Target { return f.target }

// Size returns the swapchain size the frame was acquired at.
func (f *Frame) Size() (width, height uint32) { return f.width, f.height }
