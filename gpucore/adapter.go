package gpucore

// Adapter is the device and queue pair every GPU resource is created on.
// It is shared read-only by all components of a renderer.
//
// Implementations must be safe for concurrent use; resource creation may
// happen from any goroutine while a frame is being drawn.
type Adapter interface {
	// Info describes the adapter.
	Info() AdapterInfo

	// CreateTexture creates an RGBA8 texture usable as a sampled image.
	CreateTexture(desc TextureDescriptor) (TextureID, error)

	// WriteTexture uploads tightly packed RGBA8 pixels covering the whole texture.
	WriteTexture(id TextureID, pixels []byte) error

	// DestroyTexture releases a texture. Unknown IDs are ignored.
	DestroyTexture(id TextureID)

	// CreateBuffer creates a GPU buffer.
	CreateBuffer(desc BufferDescriptor) (BufferID, error)

	// WriteBuffer writes data into a buffer at the given byte offset.
	// Offset and len(data) must be multiples of 4.
	WriteBuffer(id BufferID, offset uint64, data []byte) error

	// DestroyBuffer releases a buffer. Unknown IDs are ignored.
	DestroyBuffer(id BufferID)

	// CreatePipeline compiles a shader into a render pipeline targeting the
	// adapter's surface format.
	CreatePipeline(desc PipelineDescriptor) (PipelineID, error)

	// DestroyPipeline releases a pipeline. Unknown IDs are ignored.
	DestroyPipeline(id PipelineID)
}

// Target is the presentable image acquired for the current frame.
// It is only valid between acquisition and presentation.
type Target interface {
	// Size returns the target size in pixels.
	Size() (width, height uint32)

	// Clear fills the whole target with a color (straight RGBA).
	Clear(color [4]float32) error

	// Draw submits one draw call. Draws are executed in submission order.
	Draw(call DrawCall) error
}
