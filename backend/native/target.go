//go:build !nogpu

package native

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/sprite/gpucore"
	"github.com/gogpu/wgpu/hal"
)

// errTargetDone is returned when drawing into a presented target.
var errTargetDone = errors.New("native: target already presented")

// fenceTimeout bounds how long a submission may take.
const fenceTimeout = 5 * time.Second

// Target is one acquired surface image. Every Clear and Draw is encoded as
// its own render pass and submitted before returning, so draws land in
// submission order and the shared uniform buffer can be rewritten safely.
type Target struct {
	adapter *Adapter
	view    hal.TextureView
	width   uint32
	height  uint32
	done    bool
}

// NewTarget wraps a color view of the adapter's surface format.
// The caller keeps ownership of the view.
func NewTarget(a *Adapter, view hal.TextureView, width, height uint32) *Target {
	return &Target{adapter: a, view: view, width: width, height: height}
}

// Size returns the target size in pixels.
func (t *Target) Size() (uint32, uint32) { return t.width, t.height }

// Clear fills the target with a straight-alpha color.
func (t *Target) Clear(c [4]float32) error {
	if t.done {
		return errTargetDone
	}
	cv := gputypes.Color{R: float64(c[0]), G: float64(c[1]), B: float64(c[2]), A: float64(c[3])}
	return t.submitPass("clear", gputypes.LoadOpClear, cv, nil)
}

// Draw encodes and submits one indexed draw.
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

	return t.submitPass("draw", gputypes.LoadOpLoad, gputypes.Color{}, func(rp hal.RenderPassEncoder) {
		rp.SetPipeline(p.pipeline)
		rp.SetBindGroup(0, tex.bindGroup, nil)
		rp.SetVertexBuffer(0, vb, call.VertexOffset)
		rp.SetIndexBuffer(ib, gputypes.IndexFormatUint16, call.IndexOffset)
		rp.DrawIndexed(call.IndexCount, 1, 0, 0, 0)
	})
}

// submitPass records one render pass over the target view, submits it and
// waits for the GPU.
func (t *Target) submitPass(name string, load gputypes.LoadOp, cv gputypes.Color, record func(hal.RenderPassEncoder)) error {
	a := t.adapter
	label := a.label(name)

	encoder, err := a.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: label})
	if err != nil {
		return fmt.Errorf("native: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding(label); err != nil {
		encoder.DiscardEncoding()
		return fmt.Errorf("native: begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: label,
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       t.view,
			LoadOp:     load,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: cv,
		}},
	})
	if record != nil {
		record(rp)
	}
	rp.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		encoder.DiscardEncoding()
		return fmt.Errorf("native: end encoding: %w", err)
	}
	defer a.device.FreeCommandBuffer(cmdBuf)

	fence, err := a.device.CreateFence()
	if err != nil {
		return fmt.Errorf("native: create fence: %w", err)
	}
	defer a.device.DestroyFence(fence)

	if err := a.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("native: submit: %w", err)
	}
	ok, err := a.device.Wait(fence, 1, fenceTimeout)
	if err != nil {
		return fmt.Errorf("native: wait for GPU: %w", err)
	}
	if !ok {
		return fmt.Errorf("native: wait for GPU: timed out after %v", fenceTimeout)
	}
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
