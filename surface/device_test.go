// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"errors"
	"sync"
	"testing"

	"github.com/gogpu/sprite/gpucore"
)

type fakeWindow struct {
	mu   sync.Mutex
	id   uint64
	w, h int
}

func (w *fakeWindow) ID() uint64 { return w.id }

func (w *fakeWindow) DrawableSize() (int, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.w, w.h
}

func (w *fakeWindow) resize(width, height int) {
	w.mu.Lock()
	w.w, w.h = width, height
	w.mu.Unlock()
}

// nullAdapter satisfies gpucore.Adapter without a GPU.
type nullAdapter struct{}

func (nullAdapter) Info() gpucore.AdapterInfo { return gpucore.AdapterInfo{Name: "null"} }
func (nullAdapter) CreateTexture(gpucore.TextureDescriptor) (gpucore.TextureID, error) {
	return 1, nil
}
func (nullAdapter) WriteTexture(gpucore.TextureID, []byte) error { return nil }
func (nullAdapter) DestroyTexture(gpucore.TextureID)             {}
func (nullAdapter) CreateBuffer(gpucore.BufferDescriptor) (gpucore.BufferID, error) {
	return 1, nil
}
func (nullAdapter) WriteBuffer(gpucore.BufferID, uint64, []byte) error { return nil }
func (nullAdapter) DestroyBuffer(gpucore.BufferID)                     {}
func (nullAdapter) CreatePipeline(gpucore.PipelineDescriptor) (gpucore.PipelineID, error) {
	return 1, nil
}
func (nullAdapter) DestroyPipeline(gpucore.PipelineID) {}

func TestWindowDeviceFrameCycle(t *testing.T) {
	win := &fakeWindow{id: 7, w: 800, h: 600}
	sc := &fakeSwapchain{}
	dev, err := NewWindowDevice(win, sc, nullAdapter{})
	if err != nil {
		t.Fatalf("NewWindowDevice() error = %v", err)
	}
	defer dev.Close()

	if got := dev.WindowID(); got != 7 {
		t.Errorf("WindowID() = %d, want 7", got)
	}

	if err := dev.WithFrame(func(gpucore.Target) error { return nil }); !errors.Is(err, ErrNoFrame) {
		t.Errorf("WithFrame() outside frame error = %v, want ErrNoFrame", err)
	}

	if err := dev.BeginFrame(); err != nil {
		t.Fatalf("BeginFrame() error = %v", err)
	}
	var w, h uint32
	if err := dev.WithFrame(func(tgt gpucore.Target) error {
		w, h = tgt.Size()
		return nil
	}); err != nil {
		t.Fatalf("WithFrame() error = %v", err)
	}
	if w != 800 || h != 600 {
		t.Errorf("target size = %dx%d, want 800x600", w, h)
	}
	if err := dev.EndFrame(); err != nil {
		t.Fatalf("EndFrame() error = %v", err)
	}
	if sc.presents != 1 {
		t.Errorf("presents = %d, want 1", sc.presents)
	}
}

func TestWindowDevicePropagatesResize(t *testing.T) {
	win := &fakeWindow{w: 800, h: 600}
	dev, err := NewWindowDevice(win, &fakeSwapchain{}, nullAdapter{})
	if err != nil {
		t.Fatalf("NewWindowDevice() error = %v", err)
	}

	win.resize(1024, 768)
	if err := dev.BeginFrame(); err != nil {
		t.Fatalf("BeginFrame() error = %v", err)
	}
	vw, vh := dev.ViewportDimensions()
	if vw != 1024 || vh != 768 {
		t.Errorf("ViewportDimensions() = %vx%v, want 1024x768", vw, vh)
	}
	if err := dev.EndFrame(); err != nil {
		t.Fatalf("EndFrame() error = %v", err)
	}

	// Unchanged size does not rebuild again.
	if err := dev.BeginFrame(); err != nil {
		t.Fatalf("BeginFrame() error = %v", err)
	}
	if err := dev.EndFrame(); err != nil {
		t.Fatalf("EndFrame() error = %v", err)
	}
	if got := dev.Manager().Rebuilds(); got != 1 {
		t.Errorf("Rebuilds() = %d, want 1", got)
	}
}

func TestWindowDeviceInitErrors(t *testing.T) {
	win := &fakeWindow{w: 10, h: 10}

	_, err := NewWindowDevice(win, &fakeSwapchain{}, nil)
	var initErr *DeviceInitError
	if !errors.As(err, &initErr) || !errors.Is(err, ErrNoAdapter) {
		t.Errorf("NewWindowDevice(nil adapter) error = %v, want DeviceInitError wrapping ErrNoAdapter", err)
	}

	_, err = NewWindowDevice(win, &fakeSwapchain{configErr: errors.New("boom")}, nullAdapter{})
	if !errors.As(err, &initErr) {
		t.Errorf("NewWindowDevice(bad swapchain) error = %v, want *DeviceInitError", err)
	}
}

func TestWindowDeviceClosed(t *testing.T) {
	dev, err := NewWindowDevice(&fakeWindow{w: 10, h: 10}, &fakeSwapchain{}, nullAdapter{})
	if err != nil {
		t.Fatalf("NewWindowDevice() error = %v", err)
	}
	if err := dev.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := dev.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if err := dev.BeginFrame(); !errors.Is(err, ErrClosed) {
		t.Errorf("BeginFrame() after Close error = %v, want ErrClosed", err)
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&DeviceInitError{Backend: "vulkan", Op: "open", Err: ErrNoAdapter},
			"surface: device init failed (vulkan): open: surface: no compatible adapter"},
		{&FrameAcquisitionError{Retried: true, Err: ErrSurfaceLost},
			"surface: frame acquisition failed after swapchain rebuild: surface: surface lost"},
		{&FrameAcquisitionError{Err: ErrTimeout},
			"surface: frame acquisition failed: surface: acquire timeout"},
		{&PresentationError{Op: "present", Err: ErrStaleFrame},
			"surface: presentation failed: present: surface: stale frame"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}
