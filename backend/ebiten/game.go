package ebiten

import (
	"errors"

	"github.com/gogpu/sprite"
	"github.com/hajimehoshi/ebiten/v2"
)

// Game is an ebiten.Game that draws through a sprite.Renderer.
type Game struct {
	device   *Device
	renderer *sprite.Renderer
	draw     func(*sprite.Renderer) error
	update   func() error

	// err is the last draw failure; Update reports it to stop the game.
	err error
}

var _ ebiten.Game = (*Game)(nil)

// NewGame creates the device and renderer. draw is called once per
// Ebitengine frame and normally performs a single Renderer.Render.
func NewGame(draw func(*sprite.Renderer) error, opts ...Option) (*Game, error) {
	cfg := newConfig(opts)
	d, err := NewDevice(cfg.width, cfg.height, cfg.filter)
	if err != nil {
		return nil, err
	}
	r, err := sprite.NewRenderer(d, cfg.renderer...)
	if err != nil {
		_ = d.Close()
		return nil, err
	}
	return &Game{device: d, renderer: r, draw: draw, update: cfg.update}, nil
}

// Renderer returns the game's renderer, for loading textures and shaders.
func (g *Game) Renderer() *sprite.Renderer { return g.renderer }

// Device returns the game's device.
func (g *Game) Device() *Device { return g.device }

// Update runs the update hook. A failed draw from the previous frame ends
// the game with that error.
func (g *Game) Update() error {
	if g.err != nil {
		return g.err
	}
	if g.update != nil {
		return g.update()
	}
	return nil
}

// Draw renders one frame into screen.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.err != nil {
		return
	}
	g.device.bindScreen(screen)
	defer g.device.bindScreen(nil)

	if err := g.draw(g.renderer); err != nil {
		sprite.Logger().Error("ebiten: draw failed", "err", err)
		g.err = err
	}
}

// Layout uses the outside size as the screen size and forwards changes
// to the surface manager.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.device.Resize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

// Close releases the renderer and the device.
func (g *Game) Close() error {
	return errors.Join(g.renderer.Close(), g.device.Close())
}
