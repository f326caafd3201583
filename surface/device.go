// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"sync"

	"github.com/gogpu/sprite/gpucore"
)

// Window is the windowing collaborator a WindowDevice presents into.
// Window creation and the event loop are owned by the host.
type Window interface {
	// ID returns a stable identifier for the window.
	ID() uint64

	// DrawableSize returns the current drawable size in pixels.
	DrawableSize() (width, height int)
}

// WindowDevice is a presentation device bound to one window. It implements
// the device contract of sprite.Renderer on top of a Manager.
type WindowDevice struct {
	window  Window
	adapter gpucore.Adapter
	manager *Manager

	// frameMu guards frame; the manager has its own guard.
	frameMu sync.Mutex
	frame   *Frame
	closed  bool
}

// NewWindowDevice configures a swapchain at the window's drawable size.
// It fails with *DeviceInitError if the swapchain cannot be created.
func NewWindowDevice(w Window, sc Swapchain, adapter gpucore.Adapter, opts ...Option) (*WindowDevice, error) {
	if adapter == nil {
		return nil, &DeviceInitError{Op: "new window device", Err: ErrNoAdapter}
	}
	m := NewManager(sc, opts...)
	width, height := w.DrawableSize()
	if err := m.Configure(width, height); err != nil {
		return nil, err
	}
	return &WindowDevice{
		window:  w,
		adapter: adapter,
		manager: m,
	}, nil
}

// Manager returns the device's surface frame manager.
func (d *WindowDevice) Manager() *Manager { return d.manager }

// NotifyResized forwards a window resize event. Safe to call from any
// goroutine; the rebuild happens at the next BeginFrame.
func (d *WindowDevice) NotifyResized(width, height int) {
	d.manager.NotifyResized(width, height)
}

// BeginFrame propagates the window's drawable size and acquires a frame.
func (d *WindowDevice) BeginFrame() error {
	d.frameMu.Lock()
	defer d.frameMu.Unlock()

	if d.closed {
		return &FrameAcquisitionError{Err: ErrClosed}
	}

	w, h := d.window.DrawableSize()
	cfg := d.manager.Config()
	if clampDimension(w) != cfg.Width || clampDimension(h) != cfg.Height {
		d.manager.NotifyResized(w, h)
	}

	f, err := d.manager.AcquireFrame()
	if err != nil {
		return err
	}
	d.frame = f
	return nil
}

// EndFrame presents the current frame and releases it.
func (d *WindowDevice) EndFrame() error {
	d.frameMu.Lock()
	f := d.frame
	d.frame = nil
	d.frameMu.Unlock()

	return d.manager.Present(f)
}

// ViewportDimensions returns the drawable size used for projection.
func (d *WindowDevice) ViewportDimensions() (width, height float32) {
	d.frameMu.Lock()
	f := d.frame
	d.frameMu.Unlock()

	if f != nil {
		w, h := f.Size()
		return float32(w), float32(h)
	}
	cfg := d.manager.Config()
	return float32(cfg.Width), float32(cfg.Height)
}

// WithDeviceInfo gives fn scoped access to the GPU adapter.
func (d *WindowDevice) WithDeviceInfo(fn func(gpucore.Adapter) error) error {
	return fn(d.adapter)
}

// WithFrame gives fn scoped access to the acquired image.
// It returns ErrNoFrame outside BeginFrame/EndFrame.
func (d *WindowDevice) WithFrame(fn func(gpucore.Target) error) error {
	d.frameMu.Lock()
	f := d.frame
	d.frameMu.Unlock()

	if f == nil {
		return ErrNoFrame
	}
	return fn(f.Target())
}

// WindowID returns the identifier of the window.
func (d *WindowDevice) WindowID() uint64 { return d.window.ID() }

// Close releases the swapchain. Close is idempotent.
func (d *WindowDevice) Close() error {
	d.frameMu.Lock()
	defer d.frameMu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true
	d.frame = nil
	d.manager.Release()
	return nil
}
