package sprite

import (
	"errors"
	"image"
	"math"
	"testing"
)

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func approxVec(a, b Vec2) bool {
	return approx(a.X, b.X) && approx(a.Y, b.Y)
}

func newTestSprite(t *testing.T, w, h int) *Sprite {
	t.Helper()
	return NewSprite(newTestTexture(t, newFakeAdapter(), w, h))
}

func TestSpriteQuadIdentity(t *testing.T) {
	s := newTestSprite(t, 32, 16)
	verts, indices := s.Quad(DefaultRenderCommand())

	wantPos := [4]Vec2{{0, 0}, {0, 16}, {32, 16}, {32, 0}}
	wantUV := [4]Vec2{{0, 0}, {0, 1}, {1, 1}, {1, 0}}
	for i, v := range verts {
		if !approxVec(v.Pos, wantPos[i]) {
			t.Errorf("vertex %d pos = %v, want %v", i, v.Pos, wantPos[i])
		}
		if !approxVec(v.UV, wantUV[i]) {
			t.Errorf("vertex %d uv = %v, want %v", i, v.UV, wantUV[i])
		}
		if v.Color != White {
			t.Errorf("vertex %d color = %v, want White", i, v.Color)
		}
	}
	if indices != [6]uint16{1, 2, 0, 2, 0, 3} {
		t.Errorf("indices = %v, want [1 2 0 2 0 3]", indices)
	}

	// Opposite corners span exactly the sprite dimensions.
	if got := verts[2].Pos.Sub(verts[0].Pos); !approxVec(got, s.Dimensions()) {
		t.Errorf("diagonal = %v, want %v", got, s.Dimensions())
	}
}

func TestSpriteQuadUVIndependentOfCommand(t *testing.T) {
	tex := newTestTexture(t, newFakeAdapter(), 64, 64)
	s, err := newSpriteIn(WeakRenderer{}, tex, R(16, 8, 32, 16))
	if err != nil {
		t.Fatalf("newSpriteIn() error = %v", err)
	}
	base, _ := s.Quad(DefaultRenderCommand())

	cmds := []SpriteRenderCommand{
		NewRenderCommand(V2(100, 200)),
		DefaultRenderCommand().WithScale(V2(3, -2)),
		DefaultRenderCommand().WithAngle(37),
		DefaultRenderCommand().WithPivot(s.Pivot(0.5, 0.5)),
		NewRenderCommand(V2(-5, 5)).WithAngle(-90).WithScale(V2(0.5, 0.5)).WithColor(Red),
	}
	for i, cmd := range cmds {
		verts, _ := s.Quad(cmd)
		for j := range verts {
			if verts[j].UV != base[j].UV {
				t.Errorf("command %d vertex %d uv = %v, want %v", i, j, verts[j].UV, base[j].UV)
			}
		}
	}

	want := [4]Vec2{{0.25, 0.125}, {0.25, 0.375}, {0.75, 0.375}, {0.75, 0.125}}
	for i := range base {
		if !approxVec(base[i].UV, want[i]) {
			t.Errorf("vertex %d uv = %v, want %v", i, base[i].UV, want[i])
		}
	}
}

func TestSpriteQuadTransforms(t *testing.T) {
	s := newTestSprite(t, 10, 10)

	tests := []struct {
		name string
		cmd  SpriteRenderCommand
		want [4]Vec2 // TL, BL, BR, TR
	}{
		{
			name: "translate",
			cmd:  NewRenderCommand(V2(100, 50)),
			want: [4]Vec2{{100, 50}, {100, 60}, {110, 60}, {110, 50}},
		},
		{
			name: "center pivot",
			cmd:  NewRenderCommand(V2(50, 50)).WithPivot(s.Pivot(0.5, 0.5)),
			want: [4]Vec2{{45, 45}, {45, 55}, {55, 55}, {55, 45}},
		},
		{
			name: "scale",
			cmd:  DefaultRenderCommand().WithScale(V2(2, 3)),
			want: [4]Vec2{{0, 0}, {0, 30}, {20, 30}, {20, 0}},
		},
		{
			name: "rotate 90",
			cmd:  NewRenderCommand(V2(100, 100)).WithAngle(90),
			want: [4]Vec2{{100, 100}, {90, 100}, {90, 110}, {100, 110}},
		},
		{
			name: "rotate 180 about center",
			cmd:  NewRenderCommand(V2(5, 5)).WithPivot(s.Pivot(0.5, 0.5)).WithAngle(180),
			want: [4]Vec2{{10, 10}, {10, 0}, {0, 0}, {0, 10}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verts, _ := s.Quad(tt.cmd)
			for i := range verts {
				if !approxVec(verts[i].Pos, tt.want[i]) {
					t.Errorf("vertex %d pos = %v, want %v", i, verts[i].Pos, tt.want[i])
				}
			}
		})
	}
}

func TestSubsprite(t *testing.T) {
	s := newTestSprite(t, 64, 64)

	sub, err := s.Subsprite(R(16, 16, 32, 32))
	if err != nil {
		t.Fatalf("Subsprite() error = %v", err)
	}
	if got := sub.SourceRect(); got != R(16, 16, 32, 32) {
		t.Errorf("SourceRect() = %v, want {16 16 32 32}", got)
	}
	if sub.Texture() != s.Texture() {
		t.Error("subsprite does not alias the parent texture")
	}

	nested, err := sub.Subsprite(R(4, 4, 8, 8))
	if err != nil {
		t.Fatalf("nested Subsprite() error = %v", err)
	}
	if got := nested.SourceRect(); got != R(20, 20, 8, 8) {
		t.Errorf("nested SourceRect() = %v, want {20 20 8 8}", got)
	}

	tests := []struct {
		name string
		rect Rect
	}{
		{"past right edge", R(60, 0, 8, 8)},
		{"past bottom edge", R(0, 60, 8, 8)},
		{"negative origin", R(-1, 0, 8, 8)},
		{"negative size", R(0, 0, -4, 4)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Subsprite(tt.rect); !errors.Is(err, ErrRectOutOfBounds) {
				t.Errorf("Subsprite(%v) error = %v, want ErrRectOutOfBounds", tt.rect, err)
			}
		})
	}
}

func TestSpriteRenderWithoutContext(t *testing.T) {
	s := newTestSprite(t, 4, 4)
	err := s.RenderAt(nil, V2(0, 0))

	var rtErr *RenderTargetError
	if !errors.As(err, &rtErr) {
		t.Fatalf("RenderAt(nil) error = %v, want *RenderTargetError", err)
	}
	if !errors.Is(err, ErrNoContext) {
		t.Errorf("RenderAt(nil) error = %v, want ErrNoContext", err)
	}
}

func TestSpriteRenderForeignContext(t *testing.T) {
	rig1 := newTestRig(t)
	rig2 := newTestRig(t)

	s, err := rig1.renderer.NewSpriteFromImage(image.NewNRGBA(image.Rect(0, 0, 4, 4)))
	if err != nil {
		t.Fatalf("NewSpriteFromImage() error = %v", err)
	}
	err = rig2.renderer.Render(func(ctx *RenderContext) error {
		return s.RenderAt(ctx, V2(0, 0))
	})
	if !errors.Is(err, ErrForeignContext) {
		t.Errorf("Render() error = %v, want ErrForeignContext", err)
	}
}

func TestRenderCommandBuilders(t *testing.T) {
	base := DefaultRenderCommand()
	if base.Scale != V2(1, 1) || base.Color != White || base.Angle != 0 {
		t.Errorf("DefaultRenderCommand() = %+v", base)
	}

	moved := base.At(V2(3, 4)).WithAngle(45).WithColor(Blue)
	if base.Location != (Vec2{}) || base.Angle != 0 || base.Color != White {
		t.Error("builders mutated the receiver")
	}
	if moved.Location != V2(3, 4) || moved.Angle != 45 || moved.Color != Blue {
		t.Errorf("built command = %+v", moved)
	}
}

func TestSpritePivot(t *testing.T) {
	s := newTestSprite(t, 20, 10)
	if got := s.Pivot(0.5, 1); got != V2(10, 10) {
		t.Errorf("Pivot(0.5, 1) = %v, want (10, 10)", got)
	}
}
