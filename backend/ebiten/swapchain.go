package ebiten

import (
	"github.com/gogpu/sprite/gpucore"
	"github.com/gogpu/sprite/surface"
	"github.com/hajimehoshi/ebiten/v2"
)

// Swapchain implements surface.Swapchain over the screen image of the
// running game. Ebitengine presents the screen once Game.Draw returns, so
// Present only retires the target.
type Swapchain struct {
	adapter *Adapter
	screen  *ebiten.Image
	cfg     surface.Config
}

// Configure records the configuration. Ebitengine sizes the screen from
// Game.Layout.
func (s *Swapchain) Configure(cfg surface.Config) error {
	s.cfg = cfg
	return nil
}

// Acquire wraps the screen of the current Draw call.
func (s *Swapchain) Acquire() (gpucore.Target, error) {
	if s.screen == nil {
		return nil, surface.ErrNoFrame
	}
	return &Target{adapter: s.adapter, screen: s.screen}, nil
}

// Present retires the target.
func (s *Swapchain) Present(target gpucore.Target) error {
	t, ok := target.(*Target)
	if !ok || t.done {
		return surface.ErrNoFrame
	}
	t.done = true
	return nil
}

// Release implements surface.Swapchain.
func (s *Swapchain) Release() { s.screen = nil }
