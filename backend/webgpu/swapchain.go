//go:build !nogpu

package webgpu

import (
	"fmt"
	"slices"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/sprite"
	"github.com/gogpu/sprite/gpucore"
	"github.com/gogpu/sprite/surface"
)

// Swapchain implements surface.Swapchain on a wgpu surface.
type Swapchain struct {
	surface  *wgpu.Surface
	hardware *wgpu.Adapter
	device   *wgpu.Device
	gpu      *Adapter

	cfg   surface.Config
	frame *wgpu.Texture
	view  *wgpu.TextureView
}

// Configure (re)configures the surface. The pixel format is the one the
// adapter's pipelines were built for.
func (s *Swapchain) Configure(cfg surface.Config) error {
	s.releaseFrame()

	caps := s.surface.GetCapabilities(s.hardware)
	if len(caps.Formats) == 0 || len(caps.AlphaModes) == 0 {
		return fmt.Errorf("webgpu: surface reports no formats")
	}
	mode := presentMode(cfg.PresentMode)
	if !slices.Contains(caps.PresentModes, mode) {
		sprite.Logger().Warn("webgpu: present mode unsupported, using Fifo", "mode", cfg.PresentMode.String())
		mode = wgpu.PresentModeFifo
	}

	s.surface.Configure(s.hardware, s.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      s.gpu.Format(),
		Width:       cfg.Width,
		Height:      cfg.Height,
		PresentMode: mode,
		AlphaMode:   caps.AlphaModes[0],
	})
	s.cfg = cfg
	return nil
}

// Acquire returns the current surface texture. Every failure is reported
// as ErrSurfaceLost so the manager rebuilds the swapchain once.
func (s *Swapchain) Acquire() (gpucore.Target, error) {
	tex, err := s.surface.GetCurrentTexture()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", surface.ErrSurfaceLost, err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, fmt.Errorf("%w: create view: %w", surface.ErrSurfaceLost, err)
	}
	s.frame, s.view = tex, view
	return &Target{adapter: s.gpu, view: view, width: s.cfg.Width, height: s.cfg.Height}, nil
}

// Present presents the surface texture and releases it.
func (s *Swapchain) Present(target gpucore.Target) error {
	if t, ok := target.(*Target); ok {
		t.done = true
	}
	if s.frame == nil {
		return surface.ErrNoFrame
	}
	s.surface.Present()
	s.releaseFrame()
	return nil
}

// Release releases any held frame and the surface.
func (s *Swapchain) Release() {
	s.releaseFrame()
	s.surface.Release()
}

func (s *Swapchain) releaseFrame() {
	if s.view != nil {
		s.view.Release()
		s.view = nil
	}
	if s.frame != nil {
		s.frame.Release()
		s.frame = nil
	}
}

// presentMode maps a surface present mode to wgpu.
func presentMode(m surface.PresentMode) wgpu.PresentMode {
	switch m {
	case surface.PresentModeMailbox:
		return wgpu.PresentModeMailbox
	case surface.PresentModeImmediate:
		return wgpu.PresentModeImmediate
	default:
		return wgpu.PresentModeFifo
	}
}

// surfaceFormat maps a wgpu surface format to gputypes for surface.Config.
func surfaceFormat(f wgpu.TextureFormat) gputypes.TextureFormat {
	switch f {
	case wgpu.TextureFormatBGRA8Unorm:
		return gputypes.TextureFormatBGRA8Unorm
	case wgpu.TextureFormatRGBA8Unorm:
		return gputypes.TextureFormatRGBA8Unorm
	default:
		return gputypes.TextureFormatUndefined
	}
}

// pickFormat prefers a non-sRGB 8-bit format so colors blend the same as
// on the other backends.
func pickFormat(formats []wgpu.TextureFormat) wgpu.TextureFormat {
	for _, f := range formats {
		if surfaceFormat(f) != gputypes.TextureFormatUndefined {
			return f
		}
	}
	return formats[0]
}
