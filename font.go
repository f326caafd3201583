// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package sprite

import (
	"image"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// ASCII is the printable ASCII range, the usual rune set for NewSpriteFont.
const ASCII = " !\"#$%&'()*+,-./0123456789:;<=>?@ABCDEFGHIJKLMNOPQRSTUVWXYZ[\\]^_`abcdefghijklmnopqrstuvwxyz{|}~"

type glyph struct {
	sprite  *Sprite // nil for blank glyphs
	bearing Vec2    // from the pen position on the baseline to the glyph's top-left
	advance float32
}

// SpriteFont draws text from glyphs rasterized once into an atlas.
// Each rune maps to one glyph; there is no shaping beyond the face's
// pair kerning.
type SpriteFont struct {
	face       font.Face
	glyphs     map[rune]glyph
	atlas      *SpriteAtlas
	ascent     float32
	lineHeight float32
}

// NewSpriteFont rasterizes the given runes of face into an atlas texture.
// The face must not be used concurrently with the returned font's Render
// or Measure, which query it for kerning.
func NewSpriteFont(r *Renderer, face font.Face, runes string) (*SpriteFont, error) {
	glyphs, builder := rasterizeGlyphs(face, runes)

	atlas, err := builder.Build(r)
	if err != nil {
		return nil, err
	}
	for ch, g := range glyphs {
		if s, ok := atlas.Sprite(string(ch)); ok {
			g.sprite = s
			glyphs[ch] = g
		}
	}

	m := face.Metrics()
	return &SpriteFont{
		face:       face,
		glyphs:     glyphs,
		atlas:      atlas,
		ascent:     fixedToFloat(m.Ascent),
		lineHeight: fixedToFloat(m.Height),
	}, nil
}

// rasterizeGlyphs draws every rune of face into its own image, queued on an
// atlas builder under the rune's string.
func rasterizeGlyphs(face font.Face, runes string) (map[rune]glyph, *SpriteAtlasBuilder) {
	glyphs := make(map[rune]glyph)
	builder := NewSpriteAtlasBuilder()
	for _, ch := range runes {
		if _, dup := glyphs[ch]; dup {
			continue
		}
		bounds, advance, ok := face.GlyphBounds(ch)
		if !ok {
			continue
		}
		g := glyph{advance: fixedToFloat(advance)}

		minX, minY := bounds.Min.X.Floor(), bounds.Min.Y.Floor()
		w, h := bounds.Max.X.Ceil()-minX, bounds.Max.Y.Ceil()-minY
		if w > 0 && h > 0 {
			img := image.NewNRGBA(image.Rect(0, 0, w, h))
			d := font.Drawer{
				Dst:  img,
				Src:  image.White,
				Face: face,
				Dot:  fixed.P(-minX, -minY),
			}
			d.DrawString(string(ch))
			builder.Add(string(ch), img)
			g.bearing = Vec2{X: float32(minX), Y: float32(minY)}
		}
		glyphs[ch] = g
	}
	return glyphs, builder
}

// Atlas returns the glyph atlas.
func (f *SpriteFont) Atlas() *SpriteAtlas { return f.atlas }

// LineHeight returns the distance between baselines in pixels.
func (f *SpriteFont) LineHeight() float32 { return f.lineHeight }

// Render draws text with its top-left corner at location. Lines are split
// on '\n'. Runes without a glyph are drawn as '?' when available and
// skipped otherwise.
func (f *SpriteFont) Render(ctx *RenderContext, location Vec2, text string, color Color) error {
	var err error
	f.layout(text, location, func(g glyph, pen Vec2) {
		if err != nil || g.sprite == nil {
			return
		}
		err = g.sprite.Render(ctx, NewRenderCommand(pen.Add(g.bearing)).WithColor(color))
	})
	return err
}

// Measure returns the size of the box text occupies.
func (f *SpriteFont) Measure(text string) Vec2 {
	var width float32
	f.layout(text, Vec2{}, func(g glyph, pen Vec2) {
		width = max(width, pen.X+g.advance)
	})
	lines := strings.Count(text, "\n") + 1
	return Vec2{X: width, Y: float32(lines) * f.lineHeight}
}

// layout walks text and calls emit with each glyph and its pen position
// on the baseline.
func (f *SpriteFont) layout(text string, origin Vec2, emit func(g glyph, pen Vec2)) {
	pen := Vec2{X: origin.X, Y: origin.Y + f.ascent}
	prev := rune(-1)
	for _, ch := range text {
		if ch == '\n' {
			pen.X = origin.X
			pen.Y += f.lineHeight
			prev = -1
			continue
		}
		g, ok := f.glyphs[ch]
		if !ok {
			if g, ok = f.glyphs['?']; !ok {
				continue
			}
			ch = '?'
		}
		if prev >= 0 {
			pen.X += fixedToFloat(f.face.Kern(prev, ch))
		}
		emit(g, pen)
		pen.X += g.advance
		prev = ch
	}
}

func fixedToFloat(v fixed.Int26_6) float32 {
	return float32(v) / 64
}
