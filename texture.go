// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package sprite

import (
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/gogpu/sprite/gpucore"
)

// nextResourceID stamps textures and shaders with process-unique IDs.
// Batch keys compare these IDs, never pointers.
var nextResourceID atomic.Uint64

func newResourceID() uint64 { return nextResourceID.Add(1) }

// gpuRelease destroys a GPU object when its owner is released or collected.
// It must not reference the owner.
type gpuRelease struct {
	adapter  gpucore.Adapter
	texture  gpucore.TextureID
	pipeline gpucore.PipelineID
}

func (g gpuRelease) run() {
	if g.texture != gpucore.InvalidID {
		g.adapter.DestroyTexture(g.texture)
	}
	if g.pipeline != gpucore.InvalidID {
		g.adapter.DestroyPipeline(g.pipeline)
	}
}

// Texture is an immutable GPU-resident RGBA8 image. Any number of sprites
// may share one texture. The GPU image is destroyed by Release or, failing
// that, once the last reference is dropped.
type Texture struct {
	id     uint64
	width  uint32
	height uint32
	gpu    gpucore.TextureID

	release  gpuRelease
	cleanup  runtime.Cleanup
	released atomic.Bool
}

// newTexture uploads tightly packed straight-alpha RGBA8 pixels.
func newTexture(adapter gpucore.Adapter, label string, width, height int, pixels []byte) (*Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if len(pixels) != width*height*4 {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrPixelDataSize, len(pixels), width*height*4)
	}

	id, err := adapter.CreateTexture(gpucore.TextureDescriptor{
		Label:  label,
		Width:  uint32(width),
		Height: uint32(height),
	})
	if err != nil {
		return nil, fmt.Errorf("sprite: create texture: %w", err)
	}
	if err := adapter.WriteTexture(id, pixels); err != nil {
		adapter.DestroyTexture(id)
		return nil, fmt.Errorf("sprite: upload texture: %w", err)
	}

	t := &Texture{
		id:      newResourceID(),
		width:   uint32(width),
		height:  uint32(height),
		gpu:     id,
		release: gpuRelease{adapter: adapter, texture: id},
	}
	t.cleanup = runtime.AddCleanup(t, gpuRelease.run, t.release)

	Logger().Debug("sprite: texture created", "id", t.id, "width", width, "height", height)
	return t, nil
}

// ID returns the texture's generation-stamped identifier.
func (t *Texture) ID() uint64 { return t.id }

// Width returns the texture width in texels.
func (t *Texture) Width() int { return int(t.width) }

// Height returns the texture height in texels.
func (t *Texture) Height() int { return int(t.height) }

// Dimensions returns the texture size as a vector.
func (t *Texture) Dimensions() Vec2 {
	return Vec2{X: float32(t.width), Y: float32(t.height)}
}

// Bounds returns the full texel rectangle.
func (t *Texture) Bounds() Rect {
	return Rect{W: float32(t.width), H: float32(t.height)}
}

// GPUTexture returns the backend handle.
func (t *Texture) GPUTexture() gpucore.TextureID { return t.gpu }

// Release destroys the GPU image now. Sprites still referencing the texture
// must not be drawn afterwards. Release is idempotent.
func (t *Texture) Release() {
	if t.released.Swap(true) {
		return
	}
	t.cleanup.Stop()
	t.release.run()
}
