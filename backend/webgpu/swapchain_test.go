//go:build !nogpu

package webgpu

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/sprite/gpucore"
	"github.com/gogpu/sprite/surface"
)

func TestPresentMode(t *testing.T) {
	tests := []struct {
		in   surface.PresentMode
		want wgpu.PresentMode
	}{
		{surface.PresentModeFifo, wgpu.PresentModeFifo},
		{surface.PresentModeMailbox, wgpu.PresentModeMailbox},
		{surface.PresentModeImmediate, wgpu.PresentModeImmediate},
		{surface.PresentMode(42), wgpu.PresentModeFifo},
	}
	for _, tt := range tests {
		if got := presentMode(tt.in); got != tt.want {
			t.Errorf("presentMode(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPickFormat(t *testing.T) {
	tests := []struct {
		name    string
		formats []wgpu.TextureFormat
		want    wgpu.TextureFormat
	}{
		{"linear first", []wgpu.TextureFormat{wgpu.TextureFormatBGRA8Unorm, wgpu.TextureFormatBGRA8UnormSrgb}, wgpu.TextureFormatBGRA8Unorm},
		{"skips srgb", []wgpu.TextureFormat{wgpu.TextureFormatBGRA8UnormSrgb, wgpu.TextureFormatRGBA8Unorm}, wgpu.TextureFormatRGBA8Unorm},
		{"srgb only", []wgpu.TextureFormat{wgpu.TextureFormatRGBA8UnormSrgb}, wgpu.TextureFormatRGBA8UnormSrgb},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pickFormat(tt.formats); got != tt.want {
				t.Errorf("pickFormat() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSurfaceFormat(t *testing.T) {
	if got := surfaceFormat(wgpu.TextureFormatBGRA8Unorm); got != gputypes.TextureFormatBGRA8Unorm {
		t.Errorf("surfaceFormat(BGRA8Unorm) = %v", got)
	}
	if got := surfaceFormat(wgpu.TextureFormatRGBA8UnormSrgb); got != gputypes.TextureFormatUndefined {
		t.Errorf("surfaceFormat(RGBA8UnormSrgb) = %v, want Undefined", got)
	}
}

func TestConvertBufferUsage(t *testing.T) {
	got := convertBufferUsage(gpucore.BufferUsageIndex | gpucore.BufferUsageCopyDst)
	if want := wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst; got != want {
		t.Errorf("convertBufferUsage() = %v, want %v", got, want)
	}
}

func TestVertexLayout(t *testing.T) {
	layout := vertexLayout()
	if len(layout) != 1 || layout[0].ArrayStride != gpucore.VertexStride {
		t.Fatalf("vertexLayout() = %+v", layout)
	}
	if n := len(layout[0].Attributes); n != 3 {
		t.Errorf("attributes = %d, want 3", n)
	}
}

func TestTargetAfterPresent(t *testing.T) {
	target := &Target{width: 4, height: 4, done: true}
	if err := target.Clear([4]float32{}); err != errTargetDone {
		t.Errorf("Clear() error = %v, want errTargetDone", err)
	}
	if err := target.Draw(gpucore.DrawCall{}); err != errTargetDone {
		t.Errorf("Draw() error = %v, want errTargetDone", err)
	}
	if w, h := target.Size(); w != 4 || h != 4 {
		t.Errorf("Size() = %dx%d, want 4x4", w, h)
	}
}
