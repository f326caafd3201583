package ebiten

import (
	"github.com/gogpu/sprite"
	"github.com/hajimehoshi/ebiten/v2"
)

// Option configures a Game.
type Option func(*config)

type config struct {
	width, height int
	filter        ebiten.Filter
	update        func() error
	renderer      []sprite.RendererOption
}

func newConfig(opts []Option) config {
	cfg := config{width: 640, height: 480, filter: ebiten.FilterLinear}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithInitialSize sets the screen size used until the first Layout call.
func WithInitialSize(width, height int) Option {
	return func(c *config) {
		if width > 0 && height > 0 {
			c.width, c.height = width, height
		}
	}
}

// WithFilter sets the texture filter used when sampling sprites.
// The default is ebiten.FilterLinear.
func WithFilter(f ebiten.Filter) Option {
	return func(c *config) { c.filter = f }
}

// WithUpdate sets the function called on every game tick, before drawing.
// Returning ebiten.Termination ends the game.
func WithUpdate(fn func() error) Option {
	return func(c *config) { c.update = fn }
}

// WithRendererOptions passes options through to sprite.NewRenderer.
func WithRendererOptions(opts ...sprite.RendererOption) Option {
	return func(c *config) { c.renderer = append(c.renderer, opts...) }
}
