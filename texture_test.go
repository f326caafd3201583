package sprite

import (
	"bytes"
	"errors"
	"runtime"
	"testing"
	"time"
)

func TestNewTextureValidation(t *testing.T) {
	a := newFakeAdapter()
	tests := []struct {
		name   string
		w, h   int
		pixels []byte
		want   error
	}{
		{"zero width", 0, 4, nil, ErrInvalidDimensions},
		{"negative height", 4, -1, nil, ErrInvalidDimensions},
		{"short pixels", 2, 2, make([]byte, 15), ErrPixelDataSize},
		{"long pixels", 2, 2, make([]byte, 17), ErrPixelDataSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := newTexture(a, "test", tt.w, tt.h, tt.pixels); !errors.Is(err, tt.want) {
				t.Errorf("newTexture() error = %v, want %v", err, tt.want)
			}
		})
	}
	if len(a.textures) != 0 {
		t.Errorf("rejected textures reached the adapter: %d", len(a.textures))
	}
}

func TestNewTextureUploads(t *testing.T) {
	a := newFakeAdapter()
	pix := solidPixels(3, 2, 10, 20, 30, 40)
	tex, err := newTexture(a, "test", 3, 2, pix)
	if err != nil {
		t.Fatalf("newTexture() error = %v", err)
	}
	ft := a.textures[tex.GPUTexture()]
	if ft.desc.Width != 3 || ft.desc.Height != 2 {
		t.Errorf("descriptor = %+v, want 3x2", ft.desc)
	}
	if !bytes.Equal(ft.pixels, pix) {
		t.Error("uploaded pixels differ")
	}
	if tex.Dimensions() != V2(3, 2) || tex.Bounds() != R(0, 0, 3, 2) {
		t.Errorf("Dimensions() = %v, Bounds() = %v", tex.Dimensions(), tex.Bounds())
	}
}

func TestNewTextureAdapterFailure(t *testing.T) {
	a := newFakeAdapter()
	a.textureErr = errors.New("out of memory")
	if _, err := newTexture(a, "test", 1, 1, solidPixels(1, 1, 0, 0, 0, 0)); !errors.Is(err, a.textureErr) {
		t.Errorf("newTexture() error = %v, want %v", err, a.textureErr)
	}
}

func TestResourceIDsUnique(t *testing.T) {
	a := newFakeAdapter()
	t1 := newTestTexture(t, a, 1, 1)
	t2 := newTestTexture(t, a, 1, 1)
	sh := newTestShader(t, a)
	if t1.ID() == t2.ID() || t2.ID() == sh.ID() || t1.ID() == 0 {
		t.Errorf("IDs not unique: %d, %d, %d", t1.ID(), t2.ID(), sh.ID())
	}
}

func TestTextureReleaseIdempotent(t *testing.T) {
	a := newFakeAdapter()
	tex := newTestTexture(t, a, 2, 2)
	tex.Release()
	tex.Release()
	if a.destroyedTextures != 1 {
		t.Errorf("destroyed textures = %d, want 1", a.destroyedTextures)
	}

	sh := newTestShader(t, a)
	sh.Release()
	sh.Release()
	if a.destroyedPipelines != 1 {
		t.Errorf("destroyed pipelines = %d, want 1", a.destroyedPipelines)
	}
}

func TestTextureReleasedWhenUnreachable(t *testing.T) {
	a := newFakeAdapter()
	func() {
		_ = newTestTexture(t, a, 2, 2)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		runtime.GC()
		a.mu.Lock()
		n := a.destroyedTextures
		a.mu.Unlock()
		if n == 1 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Error("unreachable texture was not destroyed")
}
