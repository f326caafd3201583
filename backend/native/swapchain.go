//go:build !nogpu

package native

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/sprite"
	"github.com/gogpu/sprite/gpucore"
	"github.com/gogpu/sprite/surface"
	"github.com/gogpu/wgpu/hal"
)

// SurfaceSource is the host side of a presentable surface. The host owns
// the platform surface and hands out one view per frame.
type SurfaceSource interface {
	// Configure (re)creates the surface images.
	Configure(width, height uint32, format gputypes.TextureFormat, mode surface.PresentMode) error

	// AcquireView returns the view of the next surface image. Recoverable
	// failures wrap surface.ErrSurfaceLost or surface.ErrTimeout.
	AcquireView() (hal.TextureView, error)

	// Present displays the image of the last acquired view.
	Present() error

	// Unconfigure releases the surface images.
	Unconfigure()
}

// Swapchain implements surface.Swapchain over a host SurfaceSource.
type Swapchain struct {
	adapter *Adapter
	source  SurfaceSource
	cfg     surface.Config
}

// NewSwapchain creates a swapchain drawing with adapter into source.
func NewSwapchain(a *Adapter, src SurfaceSource) *Swapchain {
	return &Swapchain{adapter: a, source: src}
}

// Configure reconfigures the surface source.
func (s *Swapchain) Configure(cfg surface.Config) error {
	if cfg.Format != s.adapter.Format() {
		return fmt.Errorf("native: swapchain format %v does not match pipeline format %v", cfg.Format, s.adapter.Format())
	}
	if err := s.source.Configure(cfg.Width, cfg.Height, cfg.Format, cfg.PresentMode); err != nil {
		return fmt.Errorf("native: configure surface: %w", err)
	}
	s.cfg = cfg
	return nil
}

// Acquire returns a Target over the next surface view.
func (s *Swapchain) Acquire() (gpucore.Target, error) {
	view, err := s.source.AcquireView()
	if err != nil {
		return nil, err
	}
	return NewTarget(s.adapter, view, s.cfg.Width, s.cfg.Height), nil
}

// Present presents the surface image behind target.
func (s *Swapchain) Present(target gpucore.Target) error {
	if t, ok := target.(*Target); ok {
		t.done = true
	}
	return s.source.Present()
}

// Release unconfigures the surface source.
func (s *Swapchain) Release() {
	s.source.Unconfigure()
}

// errNotConfigured is returned by an Offscreen source before Configure.
var errNotConfigured = errors.New("native: offscreen surface not configured")

// Offscreen is a SurfaceSource backed by a single GPU texture. It serves
// headless rendering and tests; Present is a no-op.
type Offscreen struct {
	device hal.Device
	label  string

	tex      hal.Texture
	view     hal.TextureView
	presents int
}

// NewOffscreen creates an unconfigured offscreen surface on device.
func NewOffscreen(device hal.Device) *Offscreen {
	return &Offscreen{device: device, label: "sprite_offscreen"}
}

// Configure recreates the backing texture at the given size.
func (o *Offscreen) Configure(width, height uint32, format gputypes.TextureFormat, _ surface.PresentMode) error {
	o.Unconfigure()

	tex, err := o.device.CreateTexture(&hal.TextureDescriptor{
		Label: o.label,
		Size: hal.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("create offscreen texture: %w", err)
	}
	view, err := o.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         o.label + "_view",
		Format:        format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		o.device.DestroyTexture(tex)
		return fmt.Errorf("create offscreen view: %w", err)
	}
	o.tex, o.view = tex, view
	sprite.Logger().Debug("native: offscreen surface configured", "width", width, "height", height)
	return nil
}

// AcquireView returns the backing texture view.
func (o *Offscreen) AcquireView() (hal.TextureView, error) {
	if o.view == nil {
		return nil, errNotConfigured
	}
	return o.view, nil
}

// Present counts presented frames.
func (o *Offscreen) Present() error {
	if o.view == nil {
		return errNotConfigured
	}
	o.presents++
	return nil
}

// Presents returns the number of presented frames.
func (o *Offscreen) Presents() int { return o.presents }

// Texture returns the backing texture, nil before Configure.
func (o *Offscreen) Texture() hal.Texture { return o.tex }

// Unconfigure destroys the backing texture.
func (o *Offscreen) Unconfigure() {
	if o.view != nil {
		o.device.DestroyTextureView(o.view)
		o.view = nil
	}
	if o.tex != nil {
		o.device.DestroyTexture(o.tex)
		o.tex = nil
	}
}
