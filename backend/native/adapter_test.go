//go:build !nogpu

package native

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/sprite"
	"github.com/gogpu/sprite/gpucore"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// createNoopDevice creates a noop device and queue for testing.
// Returns the device, queue, and a cleanup function.
func createNoopDevice(t *testing.T) (hal.Device, hal.Queue, func()) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return openDev.Device, openDev.Queue, cleanup
}

func newNoopAdapter(t *testing.T, opts ...Option) *Adapter {
	t.Helper()
	device, queue, cleanup := createNoopDevice(t)
	a, err := NewAdapter(device, queue, opts...)
	if err != nil {
		cleanup()
		t.Fatalf("NewAdapter() error = %v", err)
	}
	t.Cleanup(func() {
		_ = a.Close()
		cleanup()
	})
	return a
}

func TestNewAdapterNilDevice(t *testing.T) {
	_, err := NewAdapter(nil, nil)
	var initErr *sprite.DeviceInitError
	if !errors.As(err, &initErr) {
		t.Fatalf("NewAdapter(nil, nil) error = %v, want *DeviceInitError", err)
	}
	if initErr.Backend != "native" {
		t.Errorf("Backend = %q, want native", initErr.Backend)
	}
}

func TestAdapterInfo(t *testing.T) {
	a := newNoopAdapter(t)
	info := a.Info()
	if info.Backend != "native" {
		t.Errorf("Info().Backend = %q, want native", info.Backend)
	}
	if a.Format() != gputypes.TextureFormatBGRA8Unorm {
		t.Errorf("Format() = %v, want BGRA8Unorm", a.Format())
	}
}

func TestAdapterTextureLifecycle(t *testing.T) {
	a := newNoopAdapter(t)

	id, err := a.CreateTexture(gpucore.TextureDescriptor{Label: "tex", Width: 4, Height: 2})
	if err != nil {
		t.Fatalf("CreateTexture() error = %v", err)
	}
	if id == gpucore.InvalidID {
		t.Fatal("CreateTexture() returned InvalidID")
	}

	if err := a.WriteTexture(id, make([]byte, 4*2*4)); err != nil {
		t.Errorf("WriteTexture() error = %v", err)
	}
	if err := a.WriteTexture(id, make([]byte, 7)); err == nil {
		t.Error("WriteTexture() with short data should fail")
	}

	a.DestroyTexture(id)
	if err := a.WriteTexture(id, make([]byte, 4*2*4)); err == nil {
		t.Error("WriteTexture() after destroy should fail")
	}
	a.DestroyTexture(id) // unknown IDs are ignored
}

func TestAdapterTextureValidation(t *testing.T) {
	a := newNoopAdapter(t)
	if _, err := a.CreateTexture(gpucore.TextureDescriptor{Width: 0, Height: 4}); err == nil {
		t.Error("CreateTexture(0x4) should fail")
	}
}

func TestAdapterBufferWrites(t *testing.T) {
	a := newNoopAdapter(t)

	id, err := a.CreateBuffer(gpucore.BufferDescriptor{
		Label: "vb",
		Size:  64,
		Usage: gpucore.BufferUsageVertex | gpucore.BufferUsageCopyDst,
	})
	if err != nil {
		t.Fatalf("CreateBuffer() error = %v", err)
	}

	tests := []struct {
		name    string
		offset  uint64
		size    int
		wantErr bool
	}{
		{"aligned", 0, 32, false},
		{"fills tail", 32, 32, false},
		{"unaligned offset", 2, 4, true},
		{"unaligned size", 0, 6, true},
		{"overflow", 48, 32, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := a.WriteBuffer(id, tt.offset, make([]byte, tt.size))
			if (err != nil) != tt.wantErr {
				t.Errorf("WriteBuffer(%d, %d bytes) error = %v, wantErr %v", tt.offset, tt.size, err, tt.wantErr)
			}
		})
	}

	if _, err := a.CreateBuffer(gpucore.BufferDescriptor{Size: 0}); err == nil {
		t.Error("CreateBuffer(size 0) should fail")
	}
}

func TestAdapterPipeline(t *testing.T) {
	for _, passthrough := range []bool{false, true} {
		var opts []Option
		name := "spirv"
		if passthrough {
			opts = append(opts, WithWGSLPassthrough())
			name = "wgsl"
		}
		t.Run(name, func(t *testing.T) {
			a := newNoopAdapter(t, opts...)
			id, err := a.CreatePipeline(gpucore.PipelineDescriptor{Label: "default", WGSL: sprite.DefaultShaderSource})
			if err != nil {
				t.Fatalf("CreatePipeline() error = %v", err)
			}
			a.DestroyPipeline(id)
			a.DestroyPipeline(id)
		})
	}
}

func TestAdapterPipelineCompileError(t *testing.T) {
	a := newNoopAdapter(t)
	if _, err := a.CreatePipeline(gpucore.PipelineDescriptor{Label: "bad", WGSL: "fn broken( {"}); err == nil {
		t.Error("CreatePipeline() with invalid WGSL should fail")
	}
}

func TestAdapterClose(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	a, err := NewAdapter(device, queue)
	if err != nil {
		t.Fatalf("NewAdapter() error = %v", err)
	}
	if _, err := a.CreateTexture(gpucore.TextureDescriptor{Width: 1, Height: 1}); err != nil {
		t.Fatalf("CreateTexture() error = %v", err)
	}
	if err := a.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := a.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if _, err := a.CreateBuffer(gpucore.BufferDescriptor{Size: 4}); err == nil {
		t.Error("CreateBuffer() after Close should fail")
	}
}

func TestConvertBufferUsage(t *testing.T) {
	tests := []struct {
		in   gpucore.BufferUsage
		want gputypes.BufferUsage
	}{
		{gpucore.BufferUsageVertex | gpucore.BufferUsageCopyDst, gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst},
		{gpucore.BufferUsageIndex, gputypes.BufferUsageIndex},
		{gpucore.BufferUsageUniform | gpucore.BufferUsageCopyDst, gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst},
		{0, 0},
	}
	for _, tt := range tests {
		if got := convertBufferUsage(tt.in); got != tt.want {
			t.Errorf("convertBufferUsage(%b) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTransformBytes(t *testing.T) {
	var m [16]float32
	for i := range m {
		m[i] = float32(i) + 0.5
	}
	b := transformBytes(m)
	if len(b) != gpucore.UniformSize {
		t.Fatalf("len = %d, want %d", len(b), gpucore.UniformSize)
	}
	for i := range m {
		got := math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
		if got != m[i] {
			t.Errorf("element %d = %v, want %v", i, got, m[i])
		}
	}
}

func TestVertexLayoutMatchesStride(t *testing.T) {
	layout := vertexLayout()
	if len(layout) != 1 || layout[0].ArrayStride != gpucore.VertexStride {
		t.Fatalf("vertexLayout() = %+v, want one buffer of stride %d", layout, gpucore.VertexStride)
	}
	attrs := layout[0].Attributes
	wantOffsets := []uint64{0, 8, 16}
	for i, attr := range attrs {
		if uint64(attr.Offset) != wantOffsets[i] || uint32(attr.ShaderLocation) != uint32(i) {
			t.Errorf("attribute %d = %+v, want offset %d location %d", i, attr, wantOffsets[i], i)
		}
	}
}
