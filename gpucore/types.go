package gpucore

// Resource IDs
//
// These opaque IDs represent GPU resources. Each adapter implementation
// maintains a mapping between IDs and actual backend resources.

// BufferID is an opaque handle to a GPU buffer.
type BufferID uint64

// TextureID is an opaque handle to a sampled GPU texture.
type TextureID uint64

// PipelineID is an opaque handle to a render pipeline built from one shader.
type PipelineID uint64

// InvalidID is the zero value, representing an invalid/null resource.
const InvalidID = 0

// BufferUsage is a bitmask specifying how a buffer will be used.
type BufferUsage uint32

// Buffer usage flags.
const (
	// BufferUsageCopyDst indicates the buffer can be written from the CPU.
	BufferUsageCopyDst BufferUsage = 1 << 3

	// BufferUsageIndex indicates the buffer can be used as an index buffer.
	BufferUsageIndex BufferUsage = 1 << 4

	// BufferUsageVertex indicates the buffer can be used as a vertex buffer.
	BufferUsageVertex BufferUsage = 1 << 5

	// BufferUsageUniform indicates the buffer can be used as a uniform buffer.
	BufferUsageUniform BufferUsage = 1 << 6
)

// Has reports whether all bits of flag are set.
func (u BufferUsage) Has(flag BufferUsage) bool {
	return u&flag == flag
}

// VertexStride is the size in bytes of one vertex:
// position (float32x2), uv (float32x2), color (float32x4).
const VertexStride = 32

// IndexSize is the size in bytes of one index. Indices are uint16.
const IndexSize = 2

// UniformSize is the size in bytes of the per-draw uniform block
// (one column-major mat4x4<f32>).
const UniformSize = 64

// TextureDescriptor describes an RGBA8 texture to create.
type TextureDescriptor struct {
	Label  string
	Width  uint32
	Height uint32
}

// BufferDescriptor describes a buffer to create.
type BufferDescriptor struct {
	Label string
	Size  uint64
	Usage BufferUsage
}

// PipelineDescriptor describes a render pipeline. WGSL must define
// vs_main and fs_main and use the sprite vertex layout and bind group
// (uniform transform at binding 0, texture at 1, sampler at 2).
type PipelineDescriptor struct {
	Label string
	WGSL  string
}

// DrawCall is one GPU submission: an indexed triangle list drawn from a
// region of the streaming buffers with a single texture and pipeline.
type DrawCall struct {
	Pipeline PipelineID
	Texture  TextureID

	VertexBuffer BufferID
	VertexOffset uint64 // in bytes
	IndexBuffer  BufferID
	IndexOffset  uint64 // in bytes
	IndexCount   uint32

	// Transform maps vertex positions to clip space (column-major).
	Transform [16]float32
}

// AdapterInfo describes the GPU behind an adapter.
type AdapterInfo struct {
	Name    string
	Backend string
}
