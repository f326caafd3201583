//go:build !nogpu

package webgpu

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gogpu/sprite/gpucore"
)

var errTargetDone = errors.New("webgpu: target already presented")

// Target is the acquired swapchain image of one frame. Each Clear and Draw
// is submitted as its own render pass; queue order keeps them in order.
type Target struct {
	adapter *Adapter
	view    *wgpu.TextureView
	width   uint32
	height  uint32
	done    bool
}

// Size returns the target size in pixels.
func (t *Target) Size() (uint32, uint32) { return t.width, t.height }

// Clear fills the target with a straight-alpha color.
func (t *Target) Clear(c [4]float32) error {
	if t.done {
		return errTargetDone
	}
	cv := wgpu.Color{R: float64(c[0]), G: float64(c[1]), B: float64(c[2]), A: float64(c[3])}
	return t.submitPass("Clear", wgpu.LoadOpClear, cv, nil)
}

// Draw submits one indexed draw.
func (t *Target) Draw(call gpucore.DrawCall) error {
	if t.done {
		return errTargetDone
	}
	a := t.adapter
	p, tex, vb, ib, err := a.resolve(call)
	if err != nil {
		return err
	}

	a.drawMu.Lock()
	defer a.drawMu.Unlock()

	a.queue.WriteBuffer(a.uniforms, 0, transformBytes(call.Transform))

	return t.submitPass("Draw", wgpu.LoadOpLoad, wgpu.Color{}, func(pass *wgpu.RenderPassEncoder) {
		pass.SetPipeline(p.pipeline)
		pass.SetBindGroup(0, tex.bindGroup, nil)
		pass.SetVertexBuffer(0, vb, call.VertexOffset, wgpu.WholeSize)
		pass.SetIndexBuffer(ib, wgpu.IndexFormatUint16, call.IndexOffset, wgpu.WholeSize)
		pass.DrawIndexed(call.IndexCount, 1, 0, 0, 0)
	})
}

func (t *Target) submitPass(name string, load wgpu.LoadOp, cv wgpu.Color, record func(*wgpu.RenderPassEncoder)) error {
	a := t.adapter

	encoder, err := a.device.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: a.label + " " + name})
	if err != nil {
		return fmt.Errorf("webgpu: create command encoder: %w", err)
	}
	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       t.view,
			LoadOp:     load,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: cv,
		}},
	})
	if record != nil {
		record(pass)
	}
	pass.End()

	cmdBuf, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("webgpu: finish encoding: %w", err)
	}
	defer cmdBuf.Release()

	a.queue.Submit(cmdBuf)
	return nil
}

// transformBytes encodes a column-major mat4x4<f32> uniform.
func transformBytes(m [16]float32) []byte {
	buf := make([]byte, gpucore.UniformSize)
	for i, v := range m {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}
