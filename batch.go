// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package sprite

import (
	"fmt"
	"runtime"

	"github.com/gogpu/sprite/gpucore"
)

// maxBatchVertices is the number of vertices addressable by uint16 indices.
const maxBatchVertices = 1 << 16

// BatchKey identifies the GPU state a draw needs. Two consecutive draws
// share one submission iff their keys are equal.
type BatchKey struct {
	Texture uint64
	Shader  uint64
}

// Submitter receives flushed batches, in order.
type Submitter interface {
	Submit(call gpucore.DrawCall) error
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(call gpucore.DrawCall) error

// Submit calls f(call).
func (f SubmitterFunc) Submit(call gpucore.DrawCall) error { return f(call) }

// streamBuffer is a growable GPU buffer written front to back during a
// frame and rewound at the next one.
type streamBuffer struct {
	label    string
	usage    gpucore.BufferUsage
	id       gpucore.BufferID
	capacity uint64 // bytes
	cursor   uint64 // bytes
}

// ensure grows the buffer so that need more bytes fit after the cursor.
// Capacity doubles and never shrinks.
func (s *streamBuffer) ensure(adapter gpucore.Adapter, need uint64) error {
	required := s.cursor + need
	if s.id != gpucore.InvalidID && required <= s.capacity {
		return nil
	}

	capacity := max(s.capacity, 256)
	for capacity < required {
		capacity *= 2
	}
	id, err := adapter.CreateBuffer(gpucore.BufferDescriptor{
		Label: s.label,
		Size:  capacity,
		Usage: s.usage,
	})
	if err != nil {
		return fmt.Errorf("sprite: grow %s to %d bytes: %w", s.label, capacity, err)
	}
	if s.id != gpucore.InvalidID {
		adapter.DestroyBuffer(s.id)
	}
	Logger().Debug("sprite: stream buffer grown",
		"buffer", s.label, "from", s.capacity, "to", capacity)
	s.id = id
	s.capacity = capacity
	return nil
}

// write appends data at the cursor and returns its offset.
func (s *streamBuffer) write(adapter gpucore.Adapter, data []byte) (uint64, error) {
	if err := s.ensure(adapter, uint64(len(data))); err != nil {
		return 0, err
	}
	offset := s.cursor
	if err := adapter.WriteBuffer(s.id, offset, data); err != nil {
		return 0, fmt.Errorf("sprite: write %s: %w", s.label, err)
	}
	s.cursor += uint64(len(data))
	return offset, nil
}

func (s *streamBuffer) destroy(adapter gpucore.Adapter) {
	if s.id != gpucore.InvalidID {
		adapter.DestroyBuffer(s.id)
		s.id = gpucore.InvalidID
		s.capacity = 0
	}
}

// StreamRenderBuffer coalesces consecutive draws sharing a BatchKey into
// one GPU submission.
//
// Vertex and index data of a frame are appended to streaming buffers and
// never compacted within the frame. Batches never span frames: Reset must
// be called when a frame begins and Flush before it is presented.
//
// StreamRenderBuffer is not safe for concurrent use; a render pass is
// recorded by one goroutine.
type StreamRenderBuffer struct {
	adapter gpucore.Adapter

	vertexBuf streamBuffer
	indexBuf  streamBuffer

	open      bool
	key       BatchKey
	texture   *Texture // the open batch owns its texture and shader
	shader    *Shader
	transform [16]float32
	vertices  []Vertex
	indices   []uint16

	nextTransform [16]float32
	scratch       []byte
	submissions   int
}

// NewStreamRenderBuffer creates a batcher whose buffers start with room for
// the given number of vertices and indices.
func NewStreamRenderBuffer(adapter gpucore.Adapter, vertexCapacity, indexCapacity int) (*StreamRenderBuffer, error) {
	b := &StreamRenderBuffer{
		adapter: adapter,
		vertexBuf: streamBuffer{
			label: "sprite_vertex_stream",
			usage: gpucore.BufferUsageVertex | gpucore.BufferUsageCopyDst,
		},
		indexBuf: streamBuffer{
			label: "sprite_index_stream",
			usage: gpucore.BufferUsageIndex | gpucore.BufferUsageCopyDst,
		},
		nextTransform: Identity().Mat4(),
	}
	if err := b.vertexBuf.ensure(adapter, uint64(max(vertexCapacity, 4))*gpucore.VertexStride); err != nil {
		return nil, err
	}
	if err := b.indexBuf.ensure(adapter, alignIndexBytes(max(indexCapacity, 6))); err != nil {
		b.vertexBuf.destroy(adapter)
		return nil, err
	}
	return b, nil
}

// SetTransform sets the clip transform used by batches opened from now on.
// Callers flush first when the open batch must keep the old transform.
func (b *StreamRenderBuffer) SetTransform(m [16]float32) {
	b.nextTransform = m
}

// StreamRender appends one draw. Indices are relative to verts. If the
// open batch has a different key, it is flushed to sub first.
func (b *StreamRenderBuffer) StreamRender(sub Submitter, tex *Texture, sh *Shader, verts []Vertex, indices []uint16) error {
	if tex == nil || sh == nil {
		return ErrNilResource
	}
	if len(verts) > maxBatchVertices {
		return fmt.Errorf("%w: %d", ErrTooManyVertices, len(verts))
	}
	for _, idx := range indices {
		if int(idx) >= len(verts) {
			return fmt.Errorf("%w: index %d with %d vertices", ErrIndexOutOfRange, idx, len(verts))
		}
	}

	key := BatchKey{Texture: tex.ID(), Shader: sh.ID()}
	if b.open && (b.key != key || len(b.vertices)+len(verts) > maxBatchVertices) {
		if err := b.Flush(sub); err != nil {
			return err
		}
	}
	if !b.open {
		b.open = true
		b.key = key
		b.texture = tex
		b.shader = sh
		b.transform = b.nextTransform
	}

	base := uint16(len(b.vertices))
	b.vertices = append(b.vertices, verts...)
	for _, idx := range indices {
		b.indices = append(b.indices, base+idx)
	}
	return nil
}

// Flush submits the open batch, if any. Flushing with no open batch is a
// no-op.
func (b *StreamRenderBuffer) Flush(sub Submitter) error {
	if !b.open {
		return nil
	}
	defer b.closeBatch()

	if len(b.indices) == 0 {
		return nil
	}

	b.scratch = appendVertexBytes(b.scratch[:0], b.vertices)
	vOffset, err := b.vertexBuf.write(b.adapter, b.scratch)
	if err != nil {
		return err
	}
	b.scratch = appendIndexBytes(b.scratch[:0], b.indices)
	iOffset, err := b.indexBuf.write(b.adapter, b.scratch)
	if err != nil {
		return err
	}

	call := gpucore.DrawCall{
		Pipeline:     b.shader.Pipeline(),
		Texture:      b.texture.GPUTexture(),
		VertexBuffer: b.vertexBuf.id,
		VertexOffset: vOffset,
		IndexBuffer:  b.indexBuf.id,
		IndexOffset:  iOffset,
		IndexCount:   uint32(len(b.indices)),
		Transform:    b.transform,
	}
	err = sub.Submit(call)
	runtime.KeepAlive(b.texture)
	runtime.KeepAlive(b.shader)
	if err != nil {
		return fmt.Errorf("sprite: submit batch: %w", err)
	}
	b.submissions++

	Logger().Debug("sprite: batch flushed",
		"texture", b.key.Texture, "shader", b.key.Shader,
		"vertices", len(b.vertices), "indices", len(b.indices))
	return nil
}

func (b *StreamRenderBuffer) closeBatch() {
	b.open = false
	b.texture = nil
	b.shader = nil
	b.vertices = b.vertices[:0]
	b.indices = b.indices[:0]
}

// Reset starts a new frame: the streaming buffers are rewound and no batch
// is open. Pending data of an unflushed batch is dropped.
func (b *StreamRenderBuffer) Reset() {
	b.closeBatch()
	b.vertexBuf.cursor = 0
	b.indexBuf.cursor = 0
	b.submissions = 0
	b.nextTransform = Identity().Mat4()
}

// Open reports whether a batch is open.
func (b *StreamRenderBuffer) Open() bool { return b.open }

// Key returns the key of the open batch.
func (b *StreamRenderBuffer) Key() (BatchKey, bool) { return b.key, b.open }

// Submissions returns the number of draw calls submitted since Reset.
func (b *StreamRenderBuffer) Submissions() int { return b.submissions }

// VertexCapacity returns the vertex buffer capacity in vertices.
func (b *StreamRenderBuffer) VertexCapacity() int {
	return int(b.vertexBuf.capacity / gpucore.VertexStride)
}

// IndexCapacity returns the index buffer capacity in indices.
func (b *StreamRenderBuffer) IndexCapacity() int {
	return int(b.indexBuf.capacity / gpucore.IndexSize)
}

// Release destroys the streaming buffers.
func (b *StreamRenderBuffer) Release() {
	b.closeBatch()
	b.vertexBuf.destroy(b.adapter)
	b.indexBuf.destroy(b.adapter)
}

// alignIndexBytes returns the byte size of n indices rounded up to 4.
func alignIndexBytes(n int) uint64 {
	size := uint64(n) * gpucore.IndexSize
	return (size + 3) &^ 3
}
