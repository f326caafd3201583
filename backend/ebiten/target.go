package ebiten

import (
	"errors"
	"image/color"

	"github.com/gogpu/sprite"
	"github.com/gogpu/sprite/gpucore"
	"github.com/hajimehoshi/ebiten/v2"
)

var errTargetDone = errors.New("ebiten: target already presented")

// Target draws into the screen image of the current Game.Draw call.
type Target struct {
	adapter *Adapter
	screen  *ebiten.Image
	done    bool
}

// Size returns the screen size in pixels.
func (t *Target) Size() (uint32, uint32) {
	b := t.screen.Bounds()
	return uint32(b.Dx()), uint32(b.Dy())
}

// Clear fills the screen.
func (t *Target) Clear(c [4]float32) error {
	if t.done {
		return errTargetDone
	}
	t.screen.Fill(toNRGBA(c))
	return nil
}

// Draw issues one DrawTriangles for the call.
func (t *Target) Draw(call gpucore.DrawCall) error {
	if t.done {
		return errTargetDone
	}
	d, err := t.adapter.resolve(call)
	if err != nil {
		return err
	}
	if len(d.indices) == 0 {
		return nil
	}
	w, h := t.Size()
	vs := screenVertices(d.vertices, call.Transform, float32(w), float32(h), float32(d.texture.width), float32(d.texture.height))
	t.screen.DrawTriangles(vs, d.indices, d.texture.img, &ebiten.DrawTrianglesOptions{
		Filter:         t.adapter.filter,
		ColorScaleMode: ebiten.ColorScaleModeStraightAlpha,
	})
	return nil
}

// screenVertices maps vertices through a column-major clip-space transform
// into screen pixels, and normalized UVs into source texels.
func screenVertices(verts []sprite.Vertex, m [16]float32, w, h, texW, texH float32) []ebiten.Vertex {
	out := make([]ebiten.Vertex, len(verts))
	for i, v := range verts {
		x := m[0]*v.Pos.X + m[4]*v.Pos.Y + m[12]
		y := m[1]*v.Pos.X + m[5]*v.Pos.Y + m[13]
		if cw := m[3]*v.Pos.X + m[7]*v.Pos.Y + m[15]; cw != 0 && cw != 1 {
			x, y = x/cw, y/cw
		}
		out[i] = ebiten.Vertex{
			DstX:   (x + 1) * 0.5 * w,
			DstY:   (1 - y) * 0.5 * h,
			SrcX:   v.UV.X * texW,
			SrcY:   v.UV.Y * texH,
			ColorR: v.Color.R,
			ColorG: v.Color.G,
			ColorB: v.Color.B,
			ColorA: v.Color.A,
		}
	}
	return out
}

func toNRGBA(c [4]float32) color.NRGBA {
	b := func(f float32) uint8 {
		return uint8(min(max(f, 0), 1)*255 + 0.5)
	}
	return color.NRGBA{R: b(c[0]), G: b(c[1]), B: b(c[2]), A: b(c[3])}
}
