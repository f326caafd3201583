// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package sprite

import (
	"errors"
	"sync"
	"weak"

	"github.com/gogpu/sprite/gpucore"
	"github.com/gogpu/sprite/surface"
)

// Renderer draws sprites into the frames of one Device.
//
// Each call to Render is one render pass: it acquires a frame, hands a
// RenderContext to the caller and, however the caller returns, flushes the
// batcher and presents the frame exactly once.
//
// Renderer is safe for concurrent use, but render passes do not overlap:
// a Render call made while another pass is running fails instead of
// waiting.
//
// Example:
//
//	r, err := sprite.NewRenderer(dev)
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//
//	err = r.Render(func(ctx *sprite.RenderContext) error {
//	    if err := ctx.Clear(sprite.Black); err != nil {
//	        return err
//	    }
//	    return player.RenderAt(ctx, sprite.V2(100, 100))
//	})
type Renderer struct {
	device Device
	self   weak.Pointer[Renderer]
	opts   rendererOptions
	info   gpucore.AdapterInfo

	// mu guards inPass and closed; the pass itself runs unlocked.
	mu            sync.Mutex
	inPass        bool
	batch         *StreamRenderBuffer
	defaultShader *Shader
	white         *Sprite
	closed        bool
}

// NewRenderer creates a renderer over dev. It compiles the default shader
// and allocates the streaming buffers.
func NewRenderer(dev Device, opts ...RendererOption) (*Renderer, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	r := &Renderer{device: dev, opts: o}
	err := dev.WithDeviceInfo(func(a gpucore.Adapter) error {
		r.info = a.Info()

		sh, err := newShader(a, "sprite_default", o.shaderSource)
		if err != nil {
			return err
		}
		r.defaultShader = sh

		tex, err := newTexture(a, "sprite_white", 1, 1, []byte{0xff, 0xff, 0xff, 0xff})
		if err != nil {
			return err
		}
		r.white = NewSprite(tex)

		r.batch, err = NewStreamRenderBuffer(a, o.vertexCapacity, o.indexCapacity)
		return err
	})
	if err != nil {
		r.releaseResources()
		return nil, err
	}

	// Inject the back-reference only once construction succeeded.
	r.self = weak.Make(r)
	r.white.renderer = r.CloneWeakHandle()

	Logger().Info("sprite: renderer created",
		"adapter", r.info.Name, "backend", r.info.Backend, "window", dev.WindowID())
	return r, nil
}

// Render runs one render pass. fn receives a context bound to the acquired
// frame. Whether fn succeeds, fails or panics, the open batch is flushed
// and the frame is presented exactly once.
//
// Passes never overlap. Calling Render while a pass is running, including
// from inside fn, fails with a *FrameAcquisitionError wrapping
// surface.ErrFrameOutstanding.
//
// Render returns fn's error, or a *PresentationError if presenting failed,
// or both joined. If the frame could not be acquired, fn is not called and
// the *FrameAcquisitionError is returned.
func (r *Renderer) Render(fn func(*RenderContext) error) error {
	if err := r.beginPass(); err != nil {
		return err
	}
	defer r.endPass()

	if err := r.device.BeginFrame(); err != nil {
		return err
	}
	r.batch.Reset()

	ctx := newRenderContext(r)
	defer func() {
		// Only reached without presenting when fn panicked.
		if !ctx.consumed {
			_ = ctx.present()
		}
	}()

	var errs []error
	if r.opts.clearColor != nil {
		if err := ctx.Clear(*r.opts.clearColor); err != nil {
			errs = append(errs, err)
		}
	}
	if err := fn(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := ctx.present(); err != nil {
		errs = append(errs, err)
	}

	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return errors.Join(errs...)
	}
}

func (r *Renderer) beginPass() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch {
	case r.closed:
		return ErrRendererClosed
	case r.inPass:
		return &FrameAcquisitionError{Err: surface.ErrFrameOutstanding}
	}
	r.inPass = true
	return nil
}

func (r *Renderer) endPass() {
	r.mu.Lock()
	r.inPass = false
	r.mu.Unlock()
}

// Dimensions returns the viewport size in pixels.
func (r *Renderer) Dimensions() Vec2 {
	w, h := r.device.ViewportDimensions()
	return Vec2{X: w, Y: h}
}

// WindowID identifies the window the renderer presents to.
func (r *Renderer) WindowID() uint64 { return r.device.WindowID() }

// AdapterInfo describes the GPU adapter.
func (r *Renderer) AdapterInfo() gpucore.AdapterInfo { return r.info }

// DefaultShader returns the shader sprites are drawn with.
func (r *Renderer) DefaultShader() *Shader { return r.defaultShader }

// NewTexture uploads tightly packed straight-alpha RGBA8 pixels.
func (r *Renderer) NewTexture(width, height int, pixels []byte) (*Texture, error) {
	var tex *Texture
	err := r.device.WithDeviceInfo(func(a gpucore.Adapter) error {
		var err error
		tex, err = newTexture(a, "sprite_texture", width, height, pixels)
		return err
	})
	return tex, err
}

// NewShader compiles a WGSL shader compatible with the sprite pipeline.
func (r *Renderer) NewShader(wgsl string) (*Shader, error) {
	var sh *Shader
	err := r.device.WithDeviceInfo(func(a gpucore.Adapter) error {
		var err error
		sh, err = newShader(a, "sprite_custom", wgsl)
		return err
	})
	return sh, err
}

// Close releases the renderer's GPU resources. Textures, shaders and
// sprites created by it are released independently. Close is idempotent;
// during a render pass it fails with ErrPassInProgress.
func (r *Renderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	if r.inPass {
		return ErrPassInProgress
	}
	r.closed = true
	r.releaseResources()
	return nil
}

func (r *Renderer) releaseResources() {
	if r.batch != nil {
		r.batch.Release()
	}
	if r.defaultShader != nil {
		r.defaultShader.Release()
	}
	if r.white != nil {
		r.white.texture.Release()
	}
}
