//go:build !nogpu

package native

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/sprite"
	"github.com/gogpu/sprite/gpucore"
	"github.com/gogpu/sprite/surface"
	"github.com/gogpu/wgpu/hal"
)

// errClosed is returned when using an adapter after Close.
var errClosed = errors.New("native: adapter closed")

// Adapter implements gpucore.Adapter on a gogpu/wgpu HAL device and queue.
//
// Thread Safety: Adapter is safe for concurrent use. Resource maps are
// guarded by an RWMutex; draws are serialized by drawMu.
type Adapter struct {
	mu     sync.RWMutex
	device hal.Device
	queue  hal.Queue
	cfg    config
	info   gpucore.AdapterInfo

	nextID atomic.Uint64

	buffers   map[gpucore.BufferID]*halBuffer
	textures  map[gpucore.TextureID]*halTexture
	pipelines map[gpucore.PipelineID]*halPipeline

	// Shared by every pipeline and texture bind group.
	bindLayout     hal.BindGroupLayout
	pipelineLayout hal.PipelineLayout
	sampler        hal.Sampler
	uniforms       hal.Buffer

	// drawMu serializes uniform writes with their submission.
	drawMu sync.Mutex

	// owner tears down a device this adapter created itself.
	owner  func()
	closed bool
}

type halBuffer struct {
	buf  hal.Buffer
	size uint64
}

type halTexture struct {
	tex       hal.Texture
	view      hal.TextureView
	bindGroup hal.BindGroup
	width     uint32
	height    uint32
}

type halPipeline struct {
	module   hal.ShaderModule
	pipeline hal.RenderPipeline
}

// NewAdapter wraps a HAL device and queue owned by the caller.
// Failures are reported as *surface.DeviceInitError.
func NewAdapter(device hal.Device, queue hal.Queue, opts ...Option) (*Adapter, error) {
	return newAdapter(device, queue, "hal", newConfig(opts))
}

func newAdapter(device hal.Device, queue hal.Queue, name string, cfg config) (*Adapter, error) {
	if device == nil || queue == nil {
		return nil, &surface.DeviceInitError{Backend: "native", Op: "new adapter", Err: surface.ErrNoAdapter}
	}
	a := &Adapter{
		device:    device,
		queue:     queue,
		cfg:       cfg,
		info:      gpucore.AdapterInfo{Name: name, Backend: "native"},
		buffers:   make(map[gpucore.BufferID]*halBuffer),
		textures:  make(map[gpucore.TextureID]*halTexture),
		pipelines: make(map[gpucore.PipelineID]*halPipeline),
	}
	// Start ID generation at 1 (0 is invalid)
	a.nextID.Store(1)

	if err := a.createShared(); err != nil {
		a.destroyShared()
		return nil, &surface.DeviceInitError{Backend: "native", Op: "create shared resources", Err: err}
	}
	return a, nil
}

func (a *Adapter) newID() uint64 {
	return a.nextID.Add(1) - 1
}

func (a *Adapter) label(kind string) string {
	return a.cfg.label + "_" + kind
}

// createShared builds the bind group layout, pipeline layout, sampler and
// uniform buffer every sprite pipeline uses.
func (a *Adapter) createShared() error {
	var err error
	a.bindLayout, err = a.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: a.label("bind_layout"),
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    2,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("bind group layout: %w", err)
	}

	a.pipelineLayout, err = a.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            a.label("pipeline_layout"),
		BindGroupLayouts: []hal.BindGroupLayout{a.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("pipeline layout: %w", err)
	}

	a.sampler, err = a.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        a.label("sampler"),
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeLinear,
	})
	if err != nil {
		return fmt.Errorf("sampler: %w", err)
	}

	a.uniforms, err = a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: a.label("uniforms"),
		Size:  gpucore.UniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("uniform buffer: %w", err)
	}
	return nil
}

// destroyShared releases shared resources in reverse creation order.
func (a *Adapter) destroyShared() {
	if a.uniforms != nil {
		a.device.DestroyBuffer(a.uniforms)
		a.uniforms = nil
	}
	if a.sampler != nil {
		a.device.DestroySampler(a.sampler)
		a.sampler = nil
	}
	if a.pipelineLayout != nil {
		a.device.DestroyPipelineLayout(a.pipelineLayout)
		a.pipelineLayout = nil
	}
	if a.bindLayout != nil {
		a.device.DestroyBindGroupLayout(a.bindLayout)
		a.bindLayout = nil
	}
}

// Info describes the adapter.
func (a *Adapter) Info() gpucore.AdapterInfo { return a.info }

// Device returns the HAL device.
func (a *Adapter) Device() hal.Device { return a.device }

// Queue returns the HAL queue.
func (a *Adapter) Queue() hal.Queue { return a.queue }

// Format returns the color format pipelines are built for.
func (a *Adapter) Format() gputypes.TextureFormat { return a.cfg.format }

// === Texture Management ===

// CreateTexture creates an RGBA8 texture with a view and its bind group.
func (a *Adapter) CreateTexture(desc gpucore.TextureDescriptor) (gpucore.TextureID, error) {
	if desc.Width == 0 || desc.Height == 0 {
		return gpucore.InvalidID, fmt.Errorf("native: texture dimensions must be positive, got %dx%d", desc.Width, desc.Height)
	}
	if a.isClosed() {
		return gpucore.InvalidID, errClosed
	}

	tex, err := a.device.CreateTexture(&hal.TextureDescriptor{
		Label: desc.Label,
		Size: hal.Extent3D{
			Width:              desc.Width,
			Height:             desc.Height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("native: create texture: %w", err)
	}

	view, err := a.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         desc.Label + "_view",
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		a.device.DestroyTexture(tex)
		return gpucore.InvalidID, fmt.Errorf("native: create texture view: %w", err)
	}

	bg, err := a.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  desc.Label + "_bind_group",
		Layout: a.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: a.uniforms.NativeHandle(), Offset: 0, Size: gpucore.UniformSize,
			}},
			{Binding: 1, Resource: gputypes.TextureViewBinding{TextureView: view.NativeHandle()}},
			{Binding: 2, Resource: gputypes.SamplerBinding{Sampler: a.sampler.NativeHandle()}},
		},
	})
	if err != nil {
		a.device.DestroyTextureView(view)
		a.device.DestroyTexture(tex)
		return gpucore.InvalidID, fmt.Errorf("native: create texture bind group: %w", err)
	}

	id := gpucore.TextureID(a.newID())

	a.mu.Lock()
	a.textures[id] = &halTexture{
		tex:       tex,
		view:      view,
		bindGroup: bg,
		width:     desc.Width,
		height:    desc.Height,
	}
	a.mu.Unlock()

	return id, nil
}

// WriteTexture uploads tightly packed RGBA8 pixels covering the whole texture.
func (a *Adapter) WriteTexture(id gpucore.TextureID, pixels []byte) error {
	a.mu.RLock()
	t, ok := a.textures[id]
	a.mu.RUnlock()

	if !ok {
		return fmt.Errorf("native: texture %d not found", id)
	}
	if want := int(t.width) * int(t.height) * 4; len(pixels) != want {
		return fmt.Errorf("native: texture %d expects %d bytes, got %d", id, want, len(pixels))
	}

	a.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  t.tex,
			MipLevel: 0,
			Origin:   hal.Origin3D{X: 0, Y: 0, Z: 0},
			Aspect:   gputypes.TextureAspectAll,
		},
		pixels,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  t.width * 4,
			RowsPerImage: t.height,
		},
		&hal.Extent3D{Width: t.width, Height: t.height, DepthOrArrayLayers: 1},
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
		a.device.DestroyBindGroup(t.bindGroup)
		a.device.DestroyTextureView(t.view)
		a.device.DestroyTexture(t.tex)
	}
}

// === Buffer Management ===

// CreateBuffer creates a GPU buffer.
func (a *Adapter) CreateBuffer(desc gpucore.BufferDescriptor) (gpucore.BufferID, error) {
	if desc.Size == 0 {
		return gpucore.InvalidID, fmt.Errorf("native: buffer size must be positive")
	}
	if a.isClosed() {
		return gpucore.InvalidID, errClosed
	}

	buf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: desc.Label,
		Size:  desc.Size,
		Usage: convertBufferUsage(desc.Usage),
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("native: create buffer: %w", err)
	}

	id := gpucore.BufferID(a.newID())

	a.mu.Lock()
	a.buffers[id] = &halBuffer{buf: buf, size: desc.Size}
	a.mu.Unlock()

	return id, nil
}

// WriteBuffer writes data into a buffer at a 4-byte aligned offset.
func (a *Adapter) WriteBuffer(id gpucore.BufferID, offset uint64, data []byte) error {
	a.mu.RLock()
	b, ok := a.buffers[id]
	a.mu.RUnlock()

	if !ok {
		return fmt.Errorf("native: buffer %d not found", id)
	}
	if offset%4 != 0 || len(data)%4 != 0 {
		return fmt.Errorf("native: unaligned buffer write at %d (%d bytes)", offset, len(data))
	}
	if offset+uint64(len(data)) > b.size {
		return fmt.Errorf("native: write of %d bytes at %d overflows buffer %d (%d bytes)", len(data), offset, id, b.size)
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
		a.device.DestroyBuffer(b.buf)
	}
}

// === Pipeline Management ===

// CreatePipeline compiles WGSL into a render pipeline that targets the
// adapter's surface format with straight alpha blending.
func (a *Adapter) CreatePipeline(desc gpucore.PipelineDescriptor) (gpucore.PipelineID, error) {
	if a.isClosed() {
		return gpucore.InvalidID, errClosed
	}
	src, err := shaderSource(desc.WGSL, a.cfg.passthrough)
	if err != nil {
		return gpucore.InvalidID, err
	}

	module, err := a.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  desc.Label,
		Source: src,
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("native: create shader module: %w", err)
	}

	blend := alphaBlend()
	pipeline, err := a.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  desc.Label,
		Layout: a.pipelineLayout,
		Vertex: hal.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers:    vertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{{
				Format:    a.cfg.format,
				Blend:     &blend,
				WriteMask: gputypes.ColorWriteMaskAll,
			}},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		a.device.DestroyShaderModule(module)
		return gpucore.InvalidID, fmt.Errorf("native: create render pipeline: %w", err)
	}

	id := gpucore.PipelineID(a.newID())

	a.mu.Lock()
	a.pipelines[id] = &halPipeline{module: module, pipeline: pipeline}
	a.mu.Unlock()

	sprite.Logger().Debug("native: pipeline created", "label", desc.Label, "spirv", !a.cfg.passthrough)
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
		a.device.DestroyRenderPipeline(p.pipeline)
		a.device.DestroyShaderModule(p.module)
	}
}

// Close releases every resource still registered and, for adapters that
// created their own device, the device itself. Close is idempotent.
func (a *Adapter) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	textures, buffers, pipelines := a.textures, a.buffers, a.pipelines
	a.textures = make(map[gpucore.TextureID]*halTexture)
	a.buffers = make(map[gpucore.BufferID]*halBuffer)
	a.pipelines = make(map[gpucore.PipelineID]*halPipeline)
	a.mu.Unlock()

	for _, p := range pipelines {
		a.device.DestroyRenderPipeline(p.pipeline)
		a.device.DestroyShaderModule(p.module)
	}
	for _, t := range textures {
		a.device.DestroyBindGroup(t.bindGroup)
		a.device.DestroyTextureView(t.view)
		a.device.DestroyTexture(t.tex)
	}
	for _, b := range buffers {
		a.device.DestroyBuffer(b.buf)
	}
	a.destroyShared()

	if a.owner != nil {
		a.owner()
	}
	return nil
}

func (a *Adapter) isClosed() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.closed
}

// resolve looks up the HAL objects of one draw call.
func (a *Adapter) resolve(call gpucore.DrawCall) (*halPipeline, *halTexture, hal.Buffer, hal.Buffer, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	p, ok := a.pipelines[call.Pipeline]
	if !ok {
		return nil, nil, nil, nil, fmt.Errorf("native: pipeline %d not found", call.Pipeline)
	}
	t, ok := a.textures[call.Texture]
	if !ok {
		return nil, nil, nil, nil, fmt.Errorf("native: texture %d not found", call.Texture)
	}
	vb, ok := a.buffers[call.VertexBuffer]
	if !ok {
		return nil, nil, nil, nil, fmt.Errorf("native: vertex buffer %d not found", call.VertexBuffer)
	}
	ib, ok := a.buffers[call.IndexBuffer]
	if !ok {
		return nil, nil, nil, nil, fmt.Errorf("native: index buffer %d not found", call.IndexBuffer)
	}
	return p, t, vb.buf, ib.buf, nil
}

// === Type Conversion Helpers ===

// convertBufferUsage converts gpucore.BufferUsage to gputypes.BufferUsage.
func convertBufferUsage(usage gpucore.BufferUsage) gputypes.BufferUsage {
	var result gputypes.BufferUsage

	if usage.Has(gpucore.BufferUsageCopyDst) {
		result |= gputypes.BufferUsageCopyDst
	}
	if usage.Has(gpucore.BufferUsageIndex) {
		result |= gputypes.BufferUsageIndex
	}
	if usage.Has(gpucore.BufferUsageVertex) {
		result |= gputypes.BufferUsageVertex
	}
	if usage.Has(gpucore.BufferUsageUniform) {
		result |= gputypes.BufferUsageUniform
	}

	return result
}

// vertexLayout matches sprite.Vertex: pos, uv, color.
func vertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: gpucore.VertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
				{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
				{Format: gputypes.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 2},
			},
		},
	}
}

// alphaBlend is source-over for straight alpha colors.
func alphaBlend() gputypes.BlendState {
	return gputypes.BlendState{
		Color: gputypes.BlendComponent{
			SrcFactor: gputypes.BlendFactorSrcAlpha,
			DstFactor: gputypes.BlendFactorOneMinusSrcAlpha,
			Operation: gputypes.BlendOperationAdd,
		},
		Alpha: gputypes.BlendComponent{
			SrcFactor: gputypes.BlendFactorOne,
			DstFactor: gputypes.BlendFactorOneMinusSrcAlpha,
			Operation: gputypes.BlendOperationAdd,
		},
	}
}
