package ebiten

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gogpu/sprite"
	"github.com/gogpu/sprite/gpucore"
	"github.com/hajimehoshi/ebiten/v2"
)

var errClosed = errors.New("ebiten: adapter closed")

// Adapter implements gpucore.Adapter on Ebitengine images.
//
// Buffers live in CPU memory: Ebitengine takes vertices per draw, so the
// streaming buffers are decoded again when a draw call is issued.
type Adapter struct {
	mu     sync.RWMutex
	nextID atomic.Uint64
	filter ebiten.Filter

	buffers   map[gpucore.BufferID][]byte
	textures  map[gpucore.TextureID]*ebitenTexture
	pipelines map[gpucore.PipelineID]string
	closed    bool
}

type ebitenTexture struct {
	img           *ebiten.Image
	width, height uint32
}

// NewAdapter returns an empty adapter sampling textures with filter.
func NewAdapter(filter ebiten.Filter) *Adapter {
	return &Adapter{
		filter:    filter,
		buffers:   make(map[gpucore.BufferID][]byte),
		textures:  make(map[gpucore.TextureID]*ebitenTexture),
		pipelines: make(map[gpucore.PipelineID]string),
	}
}

// Info implements gpucore.Adapter.
func (a *Adapter) Info() gpucore.AdapterInfo {
	return gpucore.AdapterInfo{Name: "ebitengine", Backend: "ebiten"}
}

// CreateTexture allocates an Ebitengine image.
func (a *Adapter) CreateTexture(desc gpucore.TextureDescriptor) (gpucore.TextureID, error) {
	if desc.Width == 0 || desc.Height == 0 {
		return gpucore.InvalidID, fmt.Errorf("ebiten: texture dimensions must be positive, got %dx%d", desc.Width, desc.Height)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return gpucore.InvalidID, errClosed
	}
	id := gpucore.TextureID(a.nextID.Add(1))
	a.textures[id] = &ebitenTexture{
		img:    ebiten.NewImage(int(desc.Width), int(desc.Height)),
		width:  desc.Width,
		height: desc.Height,
	}
	return id, nil
}

// WriteTexture uploads straight-alpha RGBA8 pixels. Ebitengine stores
// premultiplied pixels, so they are converted first.
func (a *Adapter) WriteTexture(id gpucore.TextureID, pixels []byte) error {
	a.mu.RLock()
	t, ok := a.textures[id]
	a.mu.RUnlock()
	if !ok {
		return fmt.Errorf("ebiten: texture %d not found", id)
	}
	if want := int(t.width) * int(t.height) * 4; len(pixels) != want {
		return fmt.Errorf("ebiten: texture %d expects %d bytes, got %d", id, want, len(pixels))
	}
	t.img.WritePixels(premultiply(pixels))
	return nil
}

// DestroyTexture deallocates the image.
func (a *Adapter) DestroyTexture(id gpucore.TextureID) {
	a.mu.Lock()
	t, ok := a.textures[id]
	delete(a.textures, id)
	a.mu.Unlock()
	if ok {
		t.img.Deallocate()
	}
}

// CreateBuffer allocates a zeroed CPU buffer.
func (a *Adapter) CreateBuffer(desc gpucore.BufferDescriptor) (gpucore.BufferID, error) {
	if desc.Size == 0 {
		return gpucore.InvalidID, fmt.Errorf("ebiten: buffer size must be positive")
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return gpucore.InvalidID, errClosed
	}
	id := gpucore.BufferID(a.nextID.Add(1))
	a.buffers[id] = make([]byte, desc.Size)
	return id, nil
}

// WriteBuffer copies data into a CPU buffer.
func (a *Adapter) WriteBuffer(id gpucore.BufferID, offset uint64, data []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	buf, ok := a.buffers[id]
	if !ok {
		return fmt.Errorf("ebiten: buffer %d not found", id)
	}
	if offset%4 != 0 || len(data)%4 != 0 {
		return fmt.Errorf("ebiten: unaligned buffer write at %d (%d bytes)", offset, len(data))
	}
	if offset+uint64(len(data)) > uint64(len(buf)) {
		return fmt.Errorf("ebiten: write of %d bytes at %d overflows buffer %d (%d bytes)", len(data), offset, id, len(buf))
	}
	copy(buf[offset:], data)
	return nil
}

// DestroyBuffer drops a CPU buffer.
func (a *Adapter) DestroyBuffer(id gpucore.BufferID) {
	a.mu.Lock()
	delete(a.buffers, id)
	a.mu.Unlock()
}

// CreatePipeline records a pipeline. Only the default sprite shader is
// honored; any other WGSL falls back to it.
func (a *Adapter) CreatePipeline(desc gpucore.PipelineDescriptor) (gpucore.PipelineID, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return gpucore.InvalidID, errClosed
	}
	if desc.WGSL != sprite.DefaultShaderSource {
		sprite.Logger().Debug("ebiten: custom shader ignored", "label", desc.Label)
	}
	id := gpucore.PipelineID(a.nextID.Add(1))
	a.pipelines[id] = desc.Label
	return id, nil
}

// DestroyPipeline forgets a pipeline.
func (a *Adapter) DestroyPipeline(id gpucore.PipelineID) {
	a.mu.Lock()
	delete(a.pipelines, id)
	a.mu.Unlock()
}

// Close deallocates every image. Close is idempotent.
func (a *Adapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil
	}
	a.closed = true
	for id, t := range a.textures {
		t.img.Deallocate()
		delete(a.textures, id)
	}
	clear(a.buffers)
	clear(a.pipelines)
	return nil
}

// drawData is a draw call resolved against the adapter's resources.
type drawData struct {
	texture  *ebitenTexture
	vertices []sprite.Vertex
	indices  []uint16
}

// resolve decodes the vertices and indices a draw call refers to. Indices
// are relative to VertexOffset; only the vertices they reach are decoded.
func (a *Adapter) resolve(call gpucore.DrawCall) (drawData, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if _, ok := a.pipelines[call.Pipeline]; !ok {
		return drawData{}, fmt.Errorf("ebiten: pipeline %d not found", call.Pipeline)
	}
	tex, ok := a.textures[call.Texture]
	if !ok {
		return drawData{}, fmt.Errorf("ebiten: texture %d not found", call.Texture)
	}
	vb, ok := a.buffers[call.VertexBuffer]
	if !ok {
		return drawData{}, fmt.Errorf("ebiten: vertex buffer %d not found", call.VertexBuffer)
	}
	ib, ok := a.buffers[call.IndexBuffer]
	if !ok {
		return drawData{}, fmt.Errorf("ebiten: index buffer %d not found", call.IndexBuffer)
	}

	end := call.IndexOffset + uint64(call.IndexCount)*gpucore.IndexSize
	if end > uint64(len(ib)) {
		return drawData{}, fmt.Errorf("ebiten: %d indices at %d overflow index buffer %d", call.IndexCount, call.IndexOffset, call.IndexBuffer)
	}
	indices := sprite.DecodeIndices(ib[call.IndexOffset:end], int(call.IndexCount))

	var count uint64
	for _, i := range indices {
		count = max(count, uint64(i)+1)
	}
	vend := call.VertexOffset + count*gpucore.VertexStride
	if vend > uint64(len(vb)) {
		return drawData{}, fmt.Errorf("ebiten: %d vertices at %d overflow vertex buffer %d", count, call.VertexOffset, call.VertexBuffer)
	}
	return drawData{
		texture:  tex,
		vertices: sprite.DecodeVertices(vb[call.VertexOffset:vend]),
		indices:  indices,
	}, nil
}

// premultiply converts straight-alpha RGBA8 to premultiplied alpha.
func premultiply(pixels []byte) []byte {
	out := make([]byte, len(pixels))
	for i := 0; i+3 < len(pixels); i += 4 {
		a := uint32(pixels[i+3])
		out[i] = byte((uint32(pixels[i])*a + 127) / 255)
		out[i+1] = byte((uint32(pixels[i+1])*a + 127) / 255)
		out[i+2] = byte((uint32(pixels[i+2])*a + 127) / 255)
		out[i+3] = byte(a)
	}
	return out
}
