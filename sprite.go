// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package sprite

import (
	"fmt"
	"image"
)

// Sprite is a view of a rectangular region of a texture. Sprites never
// modify their texture, and many sprites may alias one texture with
// different source rectangles (for example, the entries of an atlas).
type Sprite struct {
	renderer WeakRenderer
	texture  *Texture
	source   Rect
}

// NewSprite creates a sprite covering the whole texture.
func NewSprite(tex *Texture) *Sprite {
	return &Sprite{texture: tex, source: tex.Bounds()}
}

// newSpriteIn creates a sprite over a region of tex. The region must lie
// within the texture.
func newSpriteIn(r WeakRenderer, tex *Texture, source Rect) (*Sprite, error) {
	if !tex.Bounds().Contains(source) {
		return nil, fmt.Errorf("%w: %v in %dx%d", ErrRectOutOfBounds, source, tex.Width(), tex.Height())
	}
	return &Sprite{renderer: r, texture: tex, source: source}, nil
}

// NewSpriteFromImage uploads img to a new texture and returns a sprite
// covering all of it.
func (r *Renderer) NewSpriteFromImage(img image.Image) (*Sprite, error) {
	tex, err := r.NewTextureFromImage(img)
	if err != nil {
		return nil, err
	}
	return newSpriteIn(r.CloneWeakHandle(), tex, tex.Bounds())
}

// Subsprite returns a sprite for a region given relative to this sprite's
// source rectangle.
func (s *Sprite) Subsprite(rect Rect) (*Sprite, error) {
	source := Rect{
		X: s.source.X + rect.X,
		Y: s.source.Y + rect.Y,
		W: rect.W,
		H: rect.H,
	}
	return newSpriteIn(s.renderer, s.texture, source)
}

// Texture returns the texture the sprite reads from.
func (s *Sprite) Texture() *Texture { return s.texture }

// SourceRect returns the source rectangle in texel space.
func (s *Sprite) SourceRect() Rect { return s.source }

// Dimensions returns the sprite size in pixels.
func (s *Sprite) Dimensions() Vec2 { return s.source.Dimensions() }

// Pivot returns a pivot expressed as a fraction of the sprite dimensions;
// Pivot(0.5, 0.5) is the center.
func (s *Sprite) Pivot(fx, fy float32) Vec2 {
	return Vec2{X: s.source.W * fx, Y: s.source.H * fy}
}

// Quad computes the four vertices and six indices drawing the sprite.
//
// Corners are placed relative to the pivot, scaled, rotated (degrees,
// counter-clockwise) and translated to the command location. UVs depend
// only on the source rectangle. Vertices are emitted top-left,
// bottom-left, bottom-right, top-right.
func (s *Sprite) Quad(cmd SpriteRenderCommand) ([4]Vertex, [6]uint16) {
	topLeft := Vec2{}.Sub(cmd.Pivot)
	topRight := topLeft.Add(Vec2{X: s.source.W})
	bottomLeft := topLeft.Add(Vec2{Y: s.source.H})
	bottomRight := bottomLeft.Add(Vec2{X: s.source.W})

	place := func(corner Vec2) Vec2 {
		return cmd.Location.Add(corner.MulVec(cmd.Scale).Rotate(cmd.Angle))
	}

	texW, texH := float32(s.texture.width), float32(s.texture.height)
	uvLeft := s.source.X / texW
	uvTop := s.source.Y / texH
	uvRight := uvLeft + s.source.W/texW
	uvBottom := uvTop + s.source.H/texH

	verts := [4]Vertex{
		{Pos: place(topLeft), UV: Vec2{X: uvLeft, Y: uvTop}, Color: cmd.Color},
		{Pos: place(bottomLeft), UV: Vec2{X: uvLeft, Y: uvBottom}, Color: cmd.Color},
		{Pos: place(bottomRight), UV: Vec2{X: uvRight, Y: uvBottom}, Color: cmd.Color},
		{Pos: place(topRight), UV: Vec2{X: uvRight, Y: uvTop}, Color: cmd.Color},
	}
	return verts, quadIndices
}

// Render draws the sprite through ctx with the renderer's default shader.
func (s *Sprite) Render(ctx *RenderContext, cmd SpriteRenderCommand) error {
	if ctx == nil {
		return &RenderTargetError{Op: "sprite render", Err: ErrNoContext}
	}
	if r, ok := s.renderer.Upgrade(); ok && r != ctx.renderer {
		return &RenderTargetError{Op: "sprite render", Err: ErrForeignContext}
	}
	verts, indices := s.Quad(cmd)
	return ctx.Draw(Renderable{
		Texture:  s.texture,
		Shader:   ctx.renderer.defaultShader,
		Vertices: verts[:],
		Indices:  indices[:],
	})
}

// RenderAt draws the sprite with its top-left corner at location.
func (s *Sprite) RenderAt(ctx *RenderContext, location Vec2) error {
	return s.Render(ctx, NewRenderCommand(location))
}

// SpriteRenderCommand describes one sprite draw. It is a value type; the
// With methods return modified copies.
type SpriteRenderCommand struct {
	Location Vec2
	Pivot    Vec2 // in pixels, relative to the sprite's top-left corner
	Scale    Vec2
	Angle    float32 // degrees, counter-clockwise
	Color    Color
}

// DefaultRenderCommand returns a command at the origin with unit scale,
// no rotation and a white tint.
func DefaultRenderCommand() SpriteRenderCommand {
	return SpriteRenderCommand{
		Scale: Vec2{X: 1, Y: 1},
		Color: White,
	}
}

// NewRenderCommand returns the default command at location.
func NewRenderCommand(location Vec2) SpriteRenderCommand {
	return DefaultRenderCommand().At(location)
}

// At returns the command moved to location.
func (c SpriteRenderCommand) At(location Vec2) SpriteRenderCommand {
	c.Location = location
	return c
}

// WithPivot returns the command with a pivot in pixels.
func (c SpriteRenderCommand) WithPivot(pivot Vec2) SpriteRenderCommand {
	c.Pivot = pivot
	return c
}

// WithScale returns the command with a per-axis scale.
func (c SpriteRenderCommand) WithScale(scale Vec2) SpriteRenderCommand {
	c.Scale = scale
	return c
}

// WithAngle returns the command rotated by angle degrees.
func (c SpriteRenderCommand) WithAngle(angle float32) SpriteRenderCommand {
	c.Angle = angle
	return c
}

// WithColor returns the command with a tint.
func (c SpriteRenderCommand) WithColor(color Color) SpriteRenderCommand {
	c.Color = color
	return c
}

// Render draws sprite s with this command.
func (c SpriteRenderCommand) Render(ctx *RenderContext, s *Sprite) error {
	return s.Render(ctx, c)
}
