package sprite

import "testing"

func TestTransformPoint(t *testing.T) {
	tests := []struct {
		name string
		m    Transform
		in   Vec2
		want Vec2
	}{
		{"identity", Identity(), V2(3, 4), V2(3, 4)},
		{"translate", Translate(10, -5), V2(1, 1), V2(11, -4)},
		{"scale", Scale(2, 3), V2(1, 1), V2(2, 3)},
		{"rotate", Rotate(90), V2(1, 0), V2(0, 1)},
		{"scale then translate", Translate(10, 0).Multiply(Scale(2, 2)), V2(1, 1), V2(12, 2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.TransformPoint(tt.in); !approxVec(got, tt.want) {
				t.Errorf("TransformPoint(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTransformIsIdentity(t *testing.T) {
	if !Identity().IsIdentity() || !Translate(0, 0).IsIdentity() {
		t.Error("identity not detected")
	}
	if Scale(2, 1).IsIdentity() {
		t.Error("Scale(2, 1) reported as identity")
	}
}

func TestTransformMat4(t *testing.T) {
	m := Transform{A: 1, B: 2, C: 3, D: 4, E: 5, F: 6}.Mat4()
	want := [16]float32{1, 4, 0, 0, 2, 5, 0, 0, 0, 0, 1, 0, 3, 6, 0, 1}
	if m != want {
		t.Errorf("Mat4() = %v, want %v", m, want)
	}
}

func TestPixelToClip(t *testing.T) {
	m := pixelToClip(800, 600)
	corners := []struct {
		px, clip Vec2
	}{
		{V2(0, 0), V2(-1, 1)},
		{V2(800, 600), V2(1, -1)},
		{V2(400, 300), V2(0, 0)},
	}
	for _, c := range corners {
		if got := m.TransformPoint(c.px); !approxVec(got, c.clip) {
			t.Errorf("pixelToClip(%v) = %v, want %v", c.px, got, c.clip)
		}
	}
	if !pixelToClip(0, 600).IsIdentity() {
		t.Error("degenerate viewport should map to identity")
	}
}
