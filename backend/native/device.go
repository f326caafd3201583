// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !nogpu

package native

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/sprite"
	"github.com/gogpu/sprite/surface"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// errNoHAL is returned when a host provider does not expose HAL objects.
var errNoHAL = errors.New("native: provider does not expose a HAL device and queue")

// halProvider is implemented by hosts that expose their HAL device and
// queue, such as gogpu.App renderers.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// NewHostAdapter wraps the HAL device and queue of a host provider. The
// pipeline format follows the provider's surface format unless
// WithSurfaceFormat overrides it. The host keeps ownership of the device.
func NewHostAdapter(provider gpucontext.DeviceProvider, opts ...Option) (*Adapter, error) {
	if provider == nil {
		return nil, &surface.DeviceInitError{Backend: "native", Op: "host adapter", Err: surface.ErrNoAdapter}
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, &surface.DeviceInitError{Backend: "native", Op: "host adapter", Err: errNoHAL}
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, &surface.DeviceInitError{Backend: "native", Op: "host adapter", Err: errNoHAL}
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, &surface.DeviceInitError{Backend: "native", Op: "host adapter", Err: errNoHAL}
	}

	cfg := defaultConfig()
	if f := provider.SurfaceFormat(); f != gputypes.TextureFormatUndefined {
		cfg.format = f
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return newAdapter(device, queue, "host", cfg)
}

// NewStandaloneAdapter opens its own device on the configured HAL backend
// (Vulkan by default), preferring discrete and integrated GPUs. Close
// releases the device and the instance.
func NewStandaloneAdapter(opts ...Option) (*Adapter, error) {
	cfg := newConfig(opts)
	fail := func(op string, err error) error {
		return &surface.DeviceInitError{Backend: "native", Op: op, Err: err}
	}

	backend, ok := hal.GetBackend(cfg.backend)
	if !ok {
		return nil, fail("get backend", fmt.Errorf("backend %v not available", cfg.backend))
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fail("create instance", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, fail("enumerate adapters", surface.ErrNoAdapter)
	}
	selected := selectAdapter(adapters)

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fail("open device", err)
	}

	a, err := newAdapter(openDev.Device, openDev.Queue, selected.Info.Name, cfg)
	if err != nil {
		openDev.Device.Destroy()
		instance.Destroy()
		return nil, err
	}
	a.owner = func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	sprite.Logger().Info("native: adapter selected", "name", selected.Info.Name)
	return a, nil
}

// selectAdapter prefers hardware GPUs and falls back to the first adapter.
func selectAdapter(adapters []hal.ExposedAdapter) *hal.ExposedAdapter {
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			return &adapters[i]
		}
	}
	return &adapters[0]
}

// Window is a host window whose surface images the device draws into.
type Window interface {
	surface.Window
	SurfaceSource
}

// Device is a sprite.Device drawing into a host window through a native
// Adapter.
type Device struct {
	*surface.WindowDevice
	adapter     *Adapter
	ownsAdapter bool
}

var _ sprite.Device = (*Device)(nil)

// NewDevice creates a device on the host's GPU device. The window's
// surface must use the provider's surface format.
func NewDevice(w Window, provider gpucontext.DeviceProvider, opts ...Option) (*Device, error) {
	a, err := NewHostAdapter(provider, opts...)
	if err != nil {
		return nil, err
	}
	d, err := NewDeviceWithAdapter(w, w, a, opts...)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	d.ownsAdapter = true
	return d, nil
}

// NewStandaloneDevice creates a device on a GPU device of its own.
func NewStandaloneDevice(w Window, opts ...Option) (*Device, error) {
	a, err := NewStandaloneAdapter(opts...)
	if err != nil {
		return nil, err
	}
	d, err := NewDeviceWithAdapter(w, w, a, opts...)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	d.ownsAdapter = true
	return d, nil
}

// NewDeviceWithAdapter creates a device drawing with a into src. The
// caller keeps ownership of a.
func NewDeviceWithAdapter(w surface.Window, src SurfaceSource, a *Adapter, opts ...Option) (*Device, error) {
	cfg := newConfig(opts)
	wd, err := surface.NewWindowDevice(w, NewSwapchain(a, src), a,
		surface.WithFormat(a.Format()),
		surface.WithPresentMode(cfg.presentMode))
	if err != nil {
		return nil, err
	}
	return &Device{WindowDevice: wd, adapter: a}, nil
}

// Adapter returns the device's GPU adapter.
func (d *Device) Adapter() *Adapter { return d.adapter }

// Close releases the swapchain and, when the device created it, the adapter.
func (d *Device) Close() error {
	err := d.WindowDevice.Close()
	if d.ownsAdapter {
		err = errors.Join(err, d.adapter.Close())
	}
	return err
}
