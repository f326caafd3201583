//go:build !nogpu

package native

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/sprite/surface"
)

// Option configures an Adapter or a Device.
type Option func(*config)

type config struct {
	label       string
	format      gputypes.TextureFormat
	backend     gputypes.Backend
	presentMode surface.PresentMode

	// passthrough hands WGSL to the driver instead of compiling to SPIR-V.
	passthrough bool
}

func defaultConfig() config {
	return config{
		label:       "sprite",
		format:      surface.DefaultFormat,
		backend:     gputypes.BackendVulkan,
		presentMode: surface.PresentModeFifo,
	}
}

func newConfig(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithLabel sets the debug label prefix of every GPU object.
func WithLabel(label string) Option {
	return func(c *config) {
		c.label = label
	}
}

// WithSurfaceFormat sets the color format pipelines render into.
// It must match the format of the views the SurfaceSource hands out.
func WithSurfaceFormat(f gputypes.TextureFormat) Option {
	return func(c *config) {
		c.format = f
	}
}

// WithBackend selects the HAL backend used by NewStandaloneAdapter.
// The backend package must be linked in by the caller.
func WithBackend(b gputypes.Backend) Option {
	return func(c *config) {
		c.backend = b
	}
}

// WithPresentMode sets the swapchain present mode.
func WithPresentMode(m surface.PresentMode) Option {
	return func(c *config) {
		c.presentMode = m
	}
}

// WithWGSLPassthrough skips naga and hands WGSL to the backend directly.
func WithWGSLPassthrough() Option {
	return func(c *config) {
		c.passthrough = true
	}
}
