// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package sprite

import (
	"errors"

	"github.com/gogpu/sprite/gpucore"
	"github.com/gogpu/sprite/surface"
)

// Renderable is the generic draw primitive: indexed triangles with one
// texture and one shader. Indices refer to Vertices.
type Renderable struct {
	Texture  *Texture
	Shader   *Shader
	Vertices []Vertex
	Indices  []uint16
}

// RenderContext is the scoped draw context of one render pass. It is only
// valid inside the closure passed to Renderer.Render; once the frame is
// presented every method returns *RenderTargetError.
type RenderContext struct {
	renderer  *Renderer
	width     float32
	height    float32
	transform Transform
	consumed  bool
}

func newRenderContext(r *Renderer) *RenderContext {
	w, h := r.device.ViewportDimensions()
	c := &RenderContext{
		renderer:  r,
		width:     w,
		height:    h,
		transform: Identity(),
	}
	r.batch.SetTransform(c.clipTransform())
	return c
}

// Renderer returns the renderer the context belongs to.
func (c *RenderContext) Renderer() *Renderer { return c.renderer }

// Dimensions returns the viewport size of the frame.
func (c *RenderContext) Dimensions() Vec2 { return Vec2{X: c.width, Y: c.height} }

// Transform returns the current world transform.
func (c *RenderContext) Transform() Transform { return c.transform }

// SetTransform replaces the world transform applied to subsequent draws.
func (c *RenderContext) SetTransform(t Transform) error {
	if err := c.check("set transform"); err != nil {
		return err
	}
	if t == c.transform {
		return nil
	}
	if err := c.renderer.batch.Flush(c); err != nil {
		return err
	}
	c.transform = t
	c.renderer.batch.SetTransform(c.clipTransform())
	return nil
}

// Clear fills the frame with a flat color. Draws issued earlier in the
// pass are flushed first, so ordering is preserved.
func (c *RenderContext) Clear(color Color) error {
	if err := c.check("clear"); err != nil {
		return err
	}
	if err := c.renderer.batch.Flush(c); err != nil {
		return err
	}
	return c.withTarget("clear", func(t gpucore.Target) error {
		return t.Clear(color.Array())
	})
}

// Draw queues a renderable with the current world transform.
func (c *RenderContext) Draw(r Renderable) error {
	if err := c.check("draw"); err != nil {
		return err
	}
	return c.renderer.batch.StreamRender(c, r.Texture, r.Shader, r.Vertices, r.Indices)
}

// FillRect draws a solid rectangle.
func (c *RenderContext) FillRect(rect Rect, color Color) error {
	if err := c.check("fill rect"); err != nil {
		return err
	}
	cmd := NewRenderCommand(rect.Location()).
		WithScale(rect.Dimensions()).
		WithColor(color)
	return c.renderer.white.Render(c, cmd)
}

// Submit hands a flushed batch to the frame. It implements Submitter.
func (c *RenderContext) Submit(call gpucore.DrawCall) error {
	return c.withTarget("submit", func(t gpucore.Target) error {
		return t.Draw(call)
	})
}

// present consumes the context: the open batch is flushed and the device
// presents the frame. It runs once per context.
func (c *RenderContext) present() error {
	if c.consumed {
		return nil
	}
	c.consumed = true

	flushErr := c.renderer.batch.Flush(c)
	endErr := c.renderer.device.EndFrame()

	var pe *PresentationError
	if endErr != nil && !errors.As(endErr, &pe) {
		endErr = &PresentationError{Op: "end frame", Err: endErr}
	}
	if flushErr != nil {
		flushErr = &PresentationError{Op: "flush", Err: flushErr}
		if endErr != nil {
			return errors.Join(flushErr, endErr)
		}
		return flushErr
	}
	return endErr
}

func (c *RenderContext) check(op string) error {
	if c.consumed {
		return &RenderTargetError{Op: op, Err: ErrContextConsumed}
	}
	return nil
}

func (c *RenderContext) withTarget(op string, fn func(gpucore.Target) error) error {
	err := c.renderer.device.WithFrame(fn)
	if errors.Is(err, surface.ErrNoFrame) {
		return &RenderTargetError{Op: op, Err: err}
	}
	return err
}

func (c *RenderContext) clipTransform() [16]float32 {
	return pixelToClip(c.width, c.height).Multiply(c.transform).Mat4()
}
