//go:build !nogpu

package webgpu

import (
	"errors"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gogpu/sprite"
	"github.com/gogpu/sprite/surface"
)

// Window is a native window wgpu-native can create a surface for.
type Window interface {
	surface.Window

	// SurfaceDescriptor describes the platform surface of the window.
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
}

// Device is a sprite.Device presenting into a window through wgpu-native.
type Device struct {
	*surface.WindowDevice
	adapter  *Adapter
	instance *wgpu.Instance
	hardware *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
}

var _ sprite.Device = (*Device)(nil)

// NewDevice creates the instance, surface, adapter and device for w and
// configures its swapchain. Failures are reported as *surface.DeviceInitError.
//
// wgpu-native requires the calling goroutine to stay on one OS thread.
func NewDevice(w Window, opts ...Option) (*Device, error) {
	runtime.LockOSThread()
	cfg := newConfig(opts)
	fail := func(op string, err error) error {
		return &surface.DeviceInitError{Backend: "webgpu", Op: op, Err: err}
	}

	d := &Device{instance: wgpu.CreateInstance(nil)}
	surf := d.instance.CreateSurface(w.SurfaceDescriptor())

	hw, err := d.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: cfg.forceFallback,
		CompatibleSurface:    surf,
	})
	if err != nil {
		surf.Release()
		d.release()
		return nil, fail("request adapter", errors.Join(surface.ErrNoAdapter, err))
	}
	d.hardware = hw

	dev, err := hw.RequestDevice(&wgpu.DeviceDescriptor{Label: cfg.label + " Device"})
	if err != nil {
		surf.Release()
		d.release()
		return nil, fail("request device", err)
	}
	d.device = dev
	d.queue = dev.GetQueue()

	caps := surf.GetCapabilities(hw)
	if len(caps.Formats) == 0 {
		surf.Release()
		d.release()
		return nil, fail("surface capabilities", errors.New("no surface formats"))
	}
	format := pickFormat(caps.Formats)

	a, err := NewAdapter(dev, d.queue, format, "wgpu-native")
	if err != nil {
		surf.Release()
		d.release()
		return nil, fail("create adapter", err)
	}
	a.label = cfg.label
	d.adapter = a

	sc := &Swapchain{surface: surf, hardware: hw, device: dev, gpu: a}
	wd, err := surface.NewWindowDevice(w, sc, a,
		surface.WithFormat(surfaceFormat(format)),
		surface.WithPresentMode(cfg.presentMode))
	if err != nil {
		surf.Release()
		d.release()
		return nil, err
	}
	d.WindowDevice = wd

	sprite.Logger().Info("webgpu: device ready",
		"format", format, "fallback", cfg.forceFallback)
	return d, nil
}

// Adapter returns the device's GPU adapter.
func (d *Device) Adapter() *Adapter { return d.adapter }

// Close releases the swapchain, the adapter's resources and the device.
func (d *Device) Close() error {
	err := d.WindowDevice.Close()
	d.release()
	return err
}

func (d *Device) release() {
	if d.adapter != nil {
		_ = d.adapter.Close()
		d.adapter = nil
	}
	if d.queue != nil {
		d.queue.Release()
		d.queue = nil
	}
	if d.device != nil {
		d.device.Release()
		d.device = nil
	}
	if d.hardware != nil {
		d.hardware.Release()
		d.hardware = nil
	}
	if d.instance != nil {
		d.instance.Release()
		d.instance = nil
	}
}
