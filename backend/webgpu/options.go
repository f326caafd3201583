//go:build !nogpu

package webgpu

import "github.com/gogpu/sprite/surface"

// Option configures a Device.
type Option func(*config)

type config struct {
	label         string
	presentMode   surface.PresentMode
	forceFallback bool
}

func newConfig(opts []Option) config {
	cfg := config{
		label:       "sprite",
		presentMode: surface.PresentModeFifo,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithPresentMode sets the swapchain present mode. Modes the surface does
// not support fall back to Fifo.
func WithPresentMode(m surface.PresentMode) Option {
	return func(c *config) {
		c.presentMode = m
	}
}

// WithForceFallbackAdapter requests the software fallback adapter.
func WithForceFallbackAdapter() Option {
	return func(c *config) {
		c.forceFallback = true
	}
}

// WithLabel sets the debug label prefix of every GPU object.
func WithLabel(label string) Option {
	return func(c *config) {
		c.label = label
	}
}
