// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package sprite

import (
	"errors"
	"fmt"
	"image"
	"slices"
	"sort"

	"golang.org/x/image/draw"
)

// Atlas errors.
var (
	// ErrAtlasTooLarge is returned when the images do not fit the maximum
	// atlas size.
	ErrAtlasTooLarge = errors.New("sprite: atlas exceeds maximum size")

	// ErrDuplicateName is returned when two atlas entries share a name.
	ErrDuplicateName = errors.New("sprite: duplicate atlas entry")
)

const (
	minAtlasSize = 16
	maxAtlasSize = 8192
)

type atlasEntry struct {
	name string
	img  image.Image
}

// SpriteAtlasBuilder packs many images into one texture so that the
// sprites drawn from it share a batch key.
//
// Images are packed into shelves, tallest first, inside the smallest
// power-of-two square that holds them.
//
// Example:
//
//	atlas, err := sprite.NewSpriteAtlasBuilder().
//	    Add("player", playerImg).
//	    Add("enemy", enemyImg).
//	    Build(r)
type SpriteAtlasBuilder struct {
	padding int
	entries []atlasEntry
}

// NewSpriteAtlasBuilder creates a builder with 1px padding between images.
func NewSpriteAtlasBuilder() *SpriteAtlasBuilder {
	return &SpriteAtlasBuilder{padding: 1}
}

// WithPadding sets the transparent gap between packed images.
func (b *SpriteAtlasBuilder) WithPadding(px int) *SpriteAtlasBuilder {
	b.padding = max(px, 0)
	return b
}

// Add queues a named image.
func (b *SpriteAtlasBuilder) Add(name string, img image.Image) *SpriteAtlasBuilder {
	b.entries = append(b.entries, atlasEntry{name: name, img: img})
	return b
}

// Len returns the number of queued images.
func (b *SpriteAtlasBuilder) Len() int { return len(b.entries) }

// Pack lays out the queued images and composes the atlas image. It returns
// the image and the placement of every entry.
func (b *SpriteAtlasBuilder) Pack() (*image.NRGBA, map[string]image.Rectangle, error) {
	seen := make(map[string]bool, len(b.entries))
	order := make([]int, len(b.entries))
	area, longest := 0, 0
	for i, e := range b.entries {
		if seen[e.name] {
			return nil, nil, fmt.Errorf("%w: %q", ErrDuplicateName, e.name)
		}
		seen[e.name] = true
		order[i] = i

		sz := e.img.Bounds().Size()
		area += (sz.X + b.padding) * (sz.Y + b.padding)
		longest = max(longest, sz.X+2*b.padding, sz.Y+2*b.padding)
	}
	sort.SliceStable(order, func(i, j int) bool {
		return b.entries[order[i]].img.Bounds().Dy() > b.entries[order[j]].img.Bounds().Dy()
	})

	size := minAtlasSize
	for size < longest || size*size < area {
		size *= 2
	}
	for ; size <= maxAtlasSize; size *= 2 {
		if placed, ok := b.shelfPack(order, size); ok {
			dst := image.NewNRGBA(image.Rect(0, 0, size, size))
			for _, e := range b.entries {
				src := e.img.Bounds()
				draw.Draw(dst, placed[e.name], e.img, src.Min, draw.Src)
			}
			return dst, placed, nil
		}
	}
	return nil, nil, fmt.Errorf("%w: %d images", ErrAtlasTooLarge, len(b.entries))
}

// shelfPack places entries in order onto horizontal shelves of a square of
// the given size.
func (b *SpriteAtlasBuilder) shelfPack(order []int, size int) (map[string]image.Rectangle, bool) {
	placed := make(map[string]image.Rectangle, len(order))
	x, y, shelf := b.padding, b.padding, 0
	for _, i := range order {
		e := b.entries[i]
		sz := e.img.Bounds().Size()
		if x+sz.X+b.padding > size {
			x = b.padding
			y += shelf + b.padding
			shelf = 0
		}
		if x+sz.X+b.padding > size || y+sz.Y+b.padding > size {
			return nil, false
		}
		placed[e.name] = image.Rect(x, y, x+sz.X, y+sz.Y)
		x += sz.X + b.padding
		shelf = max(shelf, sz.Y)
	}
	return placed, true
}

// Build packs the images, uploads the atlas texture and returns a sprite
// for every entry.
func (b *SpriteAtlasBuilder) Build(r *Renderer) (*SpriteAtlas, error) {
	img, placed, err := b.Pack()
	if err != nil {
		return nil, err
	}
	tex, err := r.NewTexture(img.Rect.Dx(), img.Rect.Dy(), img.Pix)
	if err != nil {
		return nil, err
	}

	atlas := &SpriteAtlas{
		texture: tex,
		sprites: make(map[string]*Sprite, len(placed)),
	}
	weakRef := r.CloneWeakHandle()
	for name, rect := range placed {
		s, err := newSpriteIn(weakRef, tex, Rect{
			X: float32(rect.Min.X),
			Y: float32(rect.Min.Y),
			W: float32(rect.Dx()),
			H: float32(rect.Dy()),
		})
		if err != nil {
			tex.Release()
			return nil, err
		}
		atlas.sprites[name] = s
	}

	Logger().Debug("sprite: atlas built",
		"entries", len(placed), "size", img.Rect.Dx())
	return atlas, nil
}

// SpriteAtlas is a set of named sprites sharing one texture.
type SpriteAtlas struct {
	texture *Texture
	sprites map[string]*Sprite
}

// Sprite returns the sprite added under name.
func (a *SpriteAtlas) Sprite(name string) (*Sprite, bool) {
	s, ok := a.sprites[name]
	return s, ok
}

// Names returns the entry names in sorted order.
func (a *SpriteAtlas) Names() []string {
	names := make([]string, 0, len(a.sprites))
	for name := range a.sprites {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Texture returns the shared atlas texture.
func (a *SpriteAtlas) Texture() *Texture { return a.texture }
