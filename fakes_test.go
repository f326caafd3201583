package sprite

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/gogpu/sprite/gpucore"
	"github.com/gogpu/sprite/surface"
)

// fakeAdapter keeps every resource in memory so tests can inspect what
// reached the GPU side.
type fakeAdapter struct {
	mu        sync.Mutex
	next      uint64
	textures  map[gpucore.TextureID]*fakeTexture
	buffers   map[gpucore.BufferID][]byte
	pipelines map[gpucore.PipelineID]string

	destroyedTextures  int
	destroyedBuffers   int
	destroyedPipelines int

	pipelineErr error
	textureErr  error
}

type fakeTexture struct {
	desc   gpucore.TextureDescriptor
	pixels []byte
}

func newFakeAdapter() *fakeAdapter {
	return &fakeAdapter{
		textures:  make(map[gpucore.TextureID]*fakeTexture),
		buffers:   make(map[gpucore.BufferID][]byte),
		pipelines: make(map[gpucore.PipelineID]string),
	}
}

func (a *fakeAdapter) Info() gpucore.AdapterInfo {
	return gpucore.AdapterInfo{Name: "fake", Backend: "test"}
}

func (a *fakeAdapter) CreateTexture(desc gpucore.TextureDescriptor) (gpucore.TextureID, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.textureErr != nil {
		return gpucore.InvalidID, a.textureErr
	}
	a.next++
	id := gpucore.TextureID(a.next)
	a.textures[id] = &fakeTexture{desc: desc}
	return id, nil
}

func (a *fakeAdapter) WriteTexture(id gpucore.TextureID, pixels []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	t, ok := a.textures[id]
	if !ok {
		return errors.New("unknown texture")
	}
	t.pixels = append([]byte(nil), pixels...)
	return nil
}

func (a *fakeAdapter) DestroyTexture(id gpucore.TextureID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.textures[id]; ok {
		delete(a.textures, id)
		a.destroyedTextures++
	}
}

func (a *fakeAdapter) CreateBuffer(desc gpucore.BufferDescriptor) (gpucore.BufferID, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.next++
	id := gpucore.BufferID(a.next)
	a.buffers[id] = make([]byte, desc.Size)
	return id, nil
}

func (a *fakeAdapter) WriteBuffer(id gpucore.BufferID, offset uint64, data []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	buf, ok := a.buffers[id]
	if !ok {
		return errors.New("unknown buffer")
	}
	if offset%4 != 0 || len(data)%4 != 0 {
		return errors.New("unaligned write")
	}
	if offset+uint64(len(data)) > uint64(len(buf)) {
		return errors.New("write out of bounds")
	}
	copy(buf[offset:], data)
	return nil
}

func (a *fakeAdapter) DestroyBuffer(id gpucore.BufferID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.buffers[id]; ok {
		delete(a.buffers, id)
		a.destroyedBuffers++
	}
}

func (a *fakeAdapter) CreatePipeline(desc gpucore.PipelineDescriptor) (gpucore.PipelineID, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.pipelineErr != nil {
		return gpucore.InvalidID, a.pipelineErr
	}
	a.next++
	id := gpucore.PipelineID(a.next)
	a.pipelines[id] = desc.WGSL
	return id, nil
}

func (a *fakeAdapter) DestroyPipeline(id gpucore.PipelineID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.pipelines[id]; ok {
		delete(a.pipelines, id)
		a.destroyedPipelines++
	}
}

// resolve checks that every resource a draw call names still exists.
func (a *fakeAdapter) resolve(call gpucore.DrawCall) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.textures[call.Texture]; !ok {
		return fmt.Errorf("texture %d not found", call.Texture)
	}
	if _, ok := a.pipelines[call.Pipeline]; !ok {
		return fmt.Errorf("pipeline %d not found", call.Pipeline)
	}
	return nil
}

// bufferBytes returns a copy of a buffer region.
func (a *fakeAdapter) bufferBytes(id gpucore.BufferID, offset, size uint64) []byte {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]byte(nil), a.buffers[id][offset:offset+size]...)
}

// drawnIndices decodes the indices of a submitted draw call.
func (a *fakeAdapter) drawnIndices(call gpucore.DrawCall) []uint16 {
	data := a.bufferBytes(call.IndexBuffer, call.IndexOffset, uint64(call.IndexCount)*gpucore.IndexSize)
	return DecodeIndices(data, int(call.IndexCount))
}

// fakeTarget records clears and draws of one frame. With an adapter set,
// draws naming resources the adapter no longer holds fail like a real GPU
// lookup would.
type fakeTarget struct {
	adapter  *fakeAdapter
	w, h     uint32
	clears   [][4]float32
	draws    []gpucore.DrawCall
	drawErr  error
	clearErr error
}

func (t *fakeTarget) Size() (uint32, uint32) { return t.w, t.h }

func (t *fakeTarget) Clear(c [4]float32) error {
	if t.clearErr != nil {
		return t.clearErr
	}
	t.clears = append(t.clears, c)
	return nil
}

func (t *fakeTarget) Draw(call gpucore.DrawCall) error {
	if t.drawErr != nil {
		return t.drawErr
	}
	if t.adapter != nil {
		if err := t.adapter.resolve(call); err != nil {
			return err
		}
	}
	t.draws = append(t.draws, call)
	return nil
}

// fakeSwapchain hands out a fresh fakeTarget per frame.
type fakeSwapchain struct {
	adapter    *fakeAdapter
	cfg        surface.Config
	frames     []*fakeTarget
	presents   int
	presentErr error
	drawErr    error
	clearErr   error
}

func (s *fakeSwapchain) Configure(cfg surface.Config) error {
	s.cfg = cfg
	return nil
}

func (s *fakeSwapchain) Acquire() (gpucore.Target, error) {
	t := &fakeTarget{adapter: s.adapter, w: s.cfg.Width, h: s.cfg.Height, drawErr: s.drawErr, clearErr: s.clearErr}
	s.frames = append(s.frames, t)
	return t, nil
}

func (s *fakeSwapchain) Present(gpucore.Target) error {
	s.presents++
	return s.presentErr
}

func (s *fakeSwapchain) Release() {}

// last returns the target of the most recent frame.
func (s *fakeSwapchain) last() *fakeTarget {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}

type fakeWindow struct {
	w, h int
}

func (w *fakeWindow) ID() uint64               { return 7 }
func (w *fakeWindow) DrawableSize() (int, int) { return w.w, w.h }

// countingDevice wraps a device and counts frame brackets.
type countingDevice struct {
	Device
	begins, ends int
}

func (d *countingDevice) BeginFrame() error {
	d.begins++
	return d.Device.BeginFrame()
}

func (d *countingDevice) EndFrame() error {
	d.ends++
	return d.Device.EndFrame()
}

type testRig struct {
	adapter   *fakeAdapter
	swapchain *fakeSwapchain
	window    *fakeWindow
	device    *countingDevice
	renderer  *Renderer
}

func newTestRig(t *testing.T, opts ...RendererOption) *testRig {
	t.Helper()
	rig := &testRig{
		adapter:   newFakeAdapter(),
		window:    &fakeWindow{w: 800, h: 600},
	}
	rig.swapchain = &fakeSwapchain{adapter: rig.adapter}
	wd, err := surface.NewWindowDevice(rig.window, rig.swapchain, rig.adapter)
	if err != nil {
		t.Fatalf("NewWindowDevice() error = %v", err)
	}
	rig.device = &countingDevice{Device: wd}
	r, err := NewRenderer(rig.device, opts...)
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })
	rig.renderer = r
	return rig
}

// solidPixels returns w*h RGBA8 pixels of one color.
func solidPixels(w, h int, r, g, b, a byte) []byte {
	pix := make([]byte, 0, w*h*4)
	for range w * h {
		pix = append(pix, r, g, b, a)
	}
	return pix
}
