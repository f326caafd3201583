//go:build !nogpu

package webgpu

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gogpu/sprite"
	"github.com/gogpu/sprite/gpucore"
)

var errClosed = errors.New("webgpu: adapter closed")

// Adapter implements gpucore.Adapter on a wgpu-native device.
type Adapter struct {
	mu     sync.RWMutex
	device *wgpu.Device
	queue  *wgpu.Queue
	format wgpu.TextureFormat
	label  string
	info   gpucore.AdapterInfo

	nextID atomic.Uint64

	buffers   map[gpucore.BufferID]*wgpuBuffer
	textures  map[gpucore.TextureID]*wgpuTexture
	pipelines map[gpucore.PipelineID]*wgpuPipeline

	bindLayout     *wgpu.BindGroupLayout
	pipelineLayout *wgpu.PipelineLayout
	sampler        *wgpu.Sampler
	uniforms       *wgpu.Buffer

	// drawMu orders uniform writes with the submission that reads them.
	drawMu sync.Mutex
	closed bool
}

type wgpuBuffer struct {
	buf  *wgpu.Buffer
	size uint64
}

type wgpuTexture struct {
	tex       *wgpu.Texture
	view      *wgpu.TextureView
	bindGroup *wgpu.BindGroup
	width     uint32
	height    uint32
}

type wgpuPipeline struct {
	module   *wgpu.ShaderModule
	pipeline *wgpu.RenderPipeline
}

// NewAdapter wraps a device and queue owned by the caller. Pipelines
// render into format.
func NewAdapter(device *wgpu.Device, queue *wgpu.Queue, format wgpu.TextureFormat, name string) (*Adapter, error) {
	a := &Adapter{
		device:    device,
		queue:     queue,
		format:    format,
		label:     "sprite",
		info:      gpucore.AdapterInfo{Name: name, Backend: "webgpu"},
		buffers:   make(map[gpucore.BufferID]*wgpuBuffer),
		textures:  make(map[gpucore.TextureID]*wgpuTexture),
		pipelines: make(map[gpucore.PipelineID]*wgpuPipeline),
	}
	a.nextID.Store(1)

	if err := a.createShared(); err != nil {
		a.releaseShared()
		return nil, err
	}
	return a, nil
}

func (a *Adapter) newID() uint64 {
	return a.nextID.Add(1) - 1
}

func (a *Adapter) createShared() error {
	var err error
	a.bindLayout, err = a.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: a.label + " Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    2,
				Visibility: wgpu.ShaderStageFragment,
				Sampler:    wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("webgpu: bind group layout: %w", err)
	}

	a.pipelineLayout, err = a.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            a.label + " Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{a.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("webgpu: pipeline layout: %w", err)
	}

	a.sampler, err = a.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         a.label + " Sampler",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		LodMinClamp:   0,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return fmt.Errorf("webgpu: sampler: %w", err)
	}

	a.uniforms, err = a.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: a.label + " Uniforms",
		Size:  gpucore.UniformSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("webgpu: uniform buffer: %w", err)
	}
	return nil
}

func (a *Adapter) releaseShared() {
	if a.uniforms != nil {
		a.uniforms.Release()
		a.uniforms = nil
	}
	if a.sampler != nil {
		a.sampler.Release()
		a.sampler = nil
	}
	if a.pipelineLayout != nil {
		a.pipelineLayout.Release()
		a.pipelineLayout = nil
	}
	if a.bindLayout != nil {
		a.bindLayout.Release()
		a.bindLayout = nil
	}
}

// Info describes the adapter.
func (a *Adapter) Info() gpucore.AdapterInfo { return a.info }

// Format returns the surface format pipelines render into.
func (a *Adapter) Format() wgpu.TextureFormat { return a.format }

// CreateTexture creates an RGBA8 texture with a view and its bind group.
func (a *Adapter) CreateTexture(desc gpucore.TextureDescriptor) (gpucore.TextureID, error) {
	if desc.Width == 0 || desc.Height == 0 {
		return gpucore.InvalidID, fmt.Errorf("webgpu: texture dimensions must be positive, got %dx%d", desc.Width, desc.Height)
	}
	if a.isClosed() {
		return gpucore.InvalidID, errClosed
	}

	tex, err := a.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:     desc.Label,
		Usage:     wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              desc.Width,
			Height:             desc.Height,
			DepthOrArrayLayers: 1,
		},
		Format:        wgpu.TextureFormatRGBA8Unorm,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("webgpu: create texture: %w", err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return gpucore.InvalidID, fmt.Errorf("webgpu: create texture view: %w", err)
	}
	bg, err := a.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  desc.Label + " Bind Group",
		Layout: a.bindLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: a.uniforms, Offset: 0, Size: wgpu.WholeSize},
			{Binding: 1, TextureView: view},
			{Binding: 2, Sampler: a.sampler},
		},
	})
	if err != nil {
		view.Release()
		tex.Release()
		return gpucore.InvalidID, fmt.Errorf("webgpu: create texture bind group: %w", err)
	}

	id := gpucore.TextureID(a.newID())
	a.mu.Lock()
	a.textures[id] = &wgpuTexture{tex: tex, view: view, bindGroup: bg, width: desc.Width, height: desc.Height}
	a.mu.Unlock()
	return id, nil
}

// WriteTexture uploads tightly packed RGBA8 pixels covering the whole texture.
func (a *Adapter) WriteTexture(id gpucore.TextureID, pixels []byte) error {
	a.mu.RLock()
	t, ok := a.textures[id]
	a.mu.RUnlock()

	if !ok {
		return fmt.Errorf("webgpu: texture %d not found", id)
	}
	if want := int(t.width) * int(t.height) * 4; len(pixels) != want {
		return fmt.Errorf("webgpu: texture %d expects %d bytes, got %d", id, want, len(pixels))
	}

	a.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  t.tex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  t.width * 4,
			RowsPerImage: t.height,
		},
		&wgpu.Extent3D{Width: t.width, Height: t.height, DepthOrArrayLayers: 1},
	)
	return nil
}

// DestroyTexture releases a texture, its view and its bind group.
func (a *Adapter) DestroyTexture(id gpucore.TextureID) {
	a.mu.Lock()
	t, ok := a.textures[id]
	if ok {
		delete(a.textures, id)
	}
	a.mu.Unlock()

	if ok {
		t.release()
	}
}

func (t *wgpuTexture) release() {
	t.bindGroup.Release()
	t.view.Release()
	t.tex.Release()
}

// CreateBuffer creates a GPU buffer.
func (a *Adapter) CreateBuffer(desc gpucore.BufferDescriptor) (gpucore.BufferID, error) {
	if desc.Size == 0 {
		return gpucore.InvalidID, fmt.Errorf("webgpu: buffer size must be positive")
	}
	if a.isClosed() {
		return gpucore.InvalidID, errClosed
	}

	buf, err := a.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            desc.Label,
		Size:             desc.Size,
		Usage:            convertBufferUsage(desc.Usage),
		MappedAtCreation: false,
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("webgpu: create buffer: %w", err)
	}

	id := gpucore.BufferID(a.newID())
	a.mu.Lock()
	a.buffers[id] = &wgpuBuffer{buf: buf, size: desc.Size}
	a.mu.Unlock()
	return id, nil
}

// WriteBuffer writes data into a buffer at a 4-byte aligned offset.
func (a *Adapter) WriteBuffer(id gpucore.BufferID, offset uint64, data []byte) error {
	a.mu.RLock()
	b, ok := a.buffers[id]
	a.mu.RUnlock()

	if !ok {
		return fmt.Errorf("webgpu: buffer %d not found", id)
	}
	if offset%4 != 0 || len(data)%4 != 0 {
		return fmt.Errorf("webgpu: unaligned buffer write at %d (%d bytes)", offset, len(data))
	}
	if offset+uint64(len(data)) > b.size {
		return fmt.Errorf("webgpu: write of %d bytes at %d overflows buffer %d (%d bytes)", len(data), offset, id, b.size)
	}
	if len(data) > 0 {
		a.queue.WriteBuffer(b.buf, offset, data)
	}
	return nil
}

// DestroyBuffer releases a GPU buffer.
func (a *Adapter) DestroyBuffer(id gpucore.BufferID) {
	a.mu.Lock()
	b, ok := a.buffers[id]
	if ok {
		delete(a.buffers, id)
	}
	a.mu.Unlock()

	if ok {
		b.buf.Release()
	}
}

// CreatePipeline hands WGSL to wgpu-native and builds a render pipeline
// targeting the surface format.
func (a *Adapter) CreatePipeline(desc gpucore.PipelineDescriptor) (gpucore.PipelineID, error) {
	if a.isClosed() {
		return gpucore.InvalidID, errClosed
	}
	module, err := a.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: desc.Label,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: desc.WGSL,
		},
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("webgpu: create shader module: %w", err)
	}

	blend := alphaBlend()
	pipeline, err := a.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  desc.Label + " Render Pipeline",
		Layout: a.pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers:    vertexLayout(),
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format:    a.format,
				Blend:     &blend,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		module.Release()
		return gpucore.InvalidID, fmt.Errorf("webgpu: create render pipeline: %w", err)
	}

	id := gpucore.PipelineID(a.newID())
	a.mu.Lock()
	a.pipelines[id] = &wgpuPipeline{module: module, pipeline: pipeline}
	a.mu.Unlock()

	sprite.Logger().Debug("webgpu: pipeline created", "label", desc.Label)
	return id, nil
}

// DestroyPipeline releases a pipeline and its shader module.
func (a *Adapter) DestroyPipeline(id gpucore.PipelineID) {
	a.mu.Lock()
	p, ok := a.pipelines[id]
	if ok {
		delete(a.pipelines, id)
	}
	a.mu.Unlock()

	if ok {
		p.pipeline.Release()
		p.module.Release()
	}
}

// Close releases every resource still registered. It does not release the
// device. Close is idempotent.
func (a *Adapter) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	textures, buffers, pipelines := a.textures, a.buffers, a.pipelines
	a.textures = make(map[gpucore.TextureID]*wgpuTexture)
	a.buffers = make(map[gpucore.BufferID]*wgpuBuffer)
	a.pipelines = make(map[gpucore.PipelineID]*wgpuPipeline)
	a.mu.Unlock()

	for _, p := range pipelines {
		p.pipeline.Release()
		p.module.Release()
	}
	for _, t := range textures {
		t.release()
	}
	for _, b := range buffers {
		b.buf.Release()
	}
	a.releaseShared()
	return nil
}

func (a *Adapter) isClosed() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.closed
}

// resolve looks up the wgpu objects of one draw call.
func (a *Adapter) resolve(call gpucore.DrawCall) (*wgpuPipeline, *wgpuTexture, *wgpu.Buffer, *wgpu.Buffer, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	p, ok := a.pipelines[call.Pipeline]
	if !ok {
		return nil, nil, nil, nil, fmt.Errorf("webgpu: pipeline %d not found", call.Pipeline)
	}
	t, ok := a.textures[call.Texture]
	if !ok {
		return nil, nil, nil, nil, fmt.Errorf("webgpu: texture %d not found", call.Texture)
	}
	vb, ok := a.buffers[call.VertexBuffer]
	if !ok {
		return nil, nil, nil, nil, fmt.Errorf("webgpu: vertex buffer %d not found", call.VertexBuffer)
	}
	ib, ok := a.buffers[call.IndexBuffer]
	if !ok {
		return nil, nil, nil, nil, fmt.Errorf("webgpu: index buffer %d not found", call.IndexBuffer)
	}
	return p, t, vb.buf, ib.buf, nil
}

func convertBufferUsage(usage gpucore.BufferUsage) wgpu.BufferUsage {
	var result wgpu.BufferUsage
	if usage.Has(gpucore.BufferUsageCopyDst) {
		result |= wgpu.BufferUsageCopyDst
	}
	if usage.Has(gpucore.BufferUsageIndex) {
		result |= wgpu.BufferUsageIndex
	}
	if usage.Has(gpucore.BufferUsageVertex) {
		result |= wgpu.BufferUsageVertex
	}
	if usage.Has(gpucore.BufferUsageUniform) {
		result |= wgpu.BufferUsageUniform
	}
	return result
}

func vertexLayout() []wgpu.VertexBufferLayout {
	return []wgpu.VertexBufferLayout{{
		ArrayStride: gpucore.VertexStride,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
			{Format: wgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 2},
		},
	}}
}

func alphaBlend() wgpu.BlendState {
	return wgpu.BlendState{
		Color: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorSrcAlpha,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			Operation: wgpu.BlendOperationAdd,
		},
		Alpha: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorOne,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			Operation: wgpu.BlendOperationAdd,
		},
	}
}
