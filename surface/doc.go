// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package surface owns the presentable surface of a window: its swapchain
// configuration, deferred resize handling and the single outstanding frame.
//
// # State machine
//
//	Unconfigured --Configure--> Configured --AcquireFrame--> FrameAcquired
//	                                 ^                             |
//	                                 +-----------Present-----------+
//
// A resize notification does not touch the swapchain. It is recorded and
// applied by the next [Manager.AcquireFrame], so a burst of resize events
// within one frame costs a single rebuild at the last reported size.
//
// # Swapchains
//
// Backends plug in through the [Swapchain] interface, which only knows how
// to configure, acquire and present. All bookkeeping (state, retries,
// resize coalescing, frame ownership) lives in [Manager].
//
// # Devices
//
// [WindowDevice] combines a [Manager], a window and a gpucore.Adapter into
// the device contract consumed by sprite.Renderer:
//
//	dev, err := surface.NewWindowDevice(window, swapchain, adapter)
//	if err != nil {
//	    return err // *surface.DeviceInitError
//	}
//	defer dev.Close()
//
// # Thread Safety
//
// Manager and WindowDevice are safe for concurrent use. NotifyResized may be
// called from window event callbacks on any goroutine while another goroutine
// drives the render loop.
package surface
