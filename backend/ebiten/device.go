package ebiten

import (
	"errors"
	"sync/atomic"

	"github.com/gogpu/sprite"
	"github.com/gogpu/sprite/surface"
	"github.com/hajimehoshi/ebiten/v2"
)

// window is the single Ebitengine window, sized by Game.Layout.
type window struct {
	size atomic.Uint64
}

func (w *window) ID() uint64 { return 1 }

func (w *window) DrawableSize() (int, int) {
	v := w.size.Load()
	return int(v >> 32), int(uint32(v))
}

func (w *window) setSize(width, height int) {
	w.size.Store(uint64(uint32(width))<<32 | uint64(uint32(height)))
}

// Device is a sprite.Device drawing into Ebitengine's screen image.
type Device struct {
	*surface.WindowDevice
	adapter   *Adapter
	swapchain *Swapchain
	window    *window
}

var _ sprite.Device = (*Device)(nil)

// NewDevice creates a device whose screen starts at width x height.
func NewDevice(width, height int, filter ebiten.Filter) (*Device, error) {
	w := &window{}
	w.setSize(width, height)
	a := NewAdapter(filter)
	sc := &Swapchain{adapter: a}
	wd, err := surface.NewWindowDevice(w, sc, a)
	if err != nil {
		_ = a.Close()
		var initErr *surface.DeviceInitError
		if errors.As(err, &initErr) && initErr.Backend == "" {
			initErr.Backend = "ebiten"
		}
		return nil, err
	}
	return &Device{WindowDevice: wd, adapter: a, swapchain: sc, window: w}, nil
}

// Adapter returns the device's adapter.
func (d *Device) Adapter() *Adapter { return d.adapter }

// Resize records the screen size Ebitengine laid out.
func (d *Device) Resize(width, height int) {
	pw, ph := d.window.DrawableSize()
	if pw == width && ph == height {
		return
	}
	d.window.setSize(width, height)
	d.NotifyResized(width, height)
}

// bindScreen makes screen the image the next frame draws into.
func (d *Device) bindScreen(screen *ebiten.Image) { d.swapchain.screen = screen }

// Close releases the swapchain and every image.
func (d *Device) Close() error {
	return errors.Join(d.WindowDevice.Close(), d.adapter.Close())
}
