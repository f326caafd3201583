package sprite

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// NewTextureFromImage uploads a decoded image. Decoding is the caller's
// business; any image.Image is converted to straight-alpha RGBA8 first.
func (r *Renderer) NewTextureFromImage(img image.Image) (*Texture, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrInvalidDimensions)
	}
	b := img.Bounds()
	return r.NewTexture(b.Dx(), b.Dy(), imagePixels(img))
}

// imagePixels returns tightly packed NRGBA pixels of img, copying only
// when the layout requires it.
func imagePixels(img image.Image) []byte {
	b := img.Bounds()
	if n, ok := img.(*image.NRGBA); ok && n.Stride == b.Dx()*4 && n.Rect.Min == (image.Point{}) {
		return n.Pix[:b.Dx()*b.Dy()*4]
	}
	dst := toNRGBA(img)
	return dst.Pix
}

// toNRGBA converts img to an *image.NRGBA with origin (0, 0).
func toNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
