package sprite

import "testing"

func TestVec2Arithmetic(t *testing.T) {
	a, b := V2(3, 4), V2(1, -2)
	if got := a.Add(b); got != V2(4, 2) {
		t.Errorf("Add() = %v", got)
	}
	if got := a.Sub(b); got != V2(2, 6) {
		t.Errorf("Sub() = %v", got)
	}
	if got := a.Mul(2); got != V2(6, 8) {
		t.Errorf("Mul() = %v", got)
	}
	if got := a.MulVec(b); got != V2(3, -8) {
		t.Errorf("MulVec() = %v", got)
	}
	if got := a.Length(); !approx(got, 5) {
		t.Errorf("Length() = %v, want 5", got)
	}
}

func TestVec2Rotate(t *testing.T) {
	tests := []struct {
		deg  float32
		want Vec2
	}{
		{0, V2(1, 0)},
		{90, V2(0, 1)},
		{180, V2(-1, 0)},
		{270, V2(0, -1)},
		{-90, V2(0, -1)},
	}
	for _, tt := range tests {
		if got := V2(1, 0).Rotate(tt.deg); !approxVec(got, tt.want) {
			t.Errorf("Rotate(%v) = %v, want %v", tt.deg, got, tt.want)
		}
	}
}

func TestRectContains(t *testing.T) {
	outer := R(0, 0, 10, 10)
	tests := []struct {
		name string
		in   Rect
		want bool
	}{
		{"self", outer, true},
		{"inner", R(2, 2, 3, 3), true},
		{"empty at edge", R(10, 10, 0, 0), true},
		{"overhang", R(8, 8, 3, 3), false},
		{"negative", R(-1, 0, 2, 2), false},
		{"negative size", R(5, 5, -1, 1), false},
	}
	for _, tt := range tests {
		if got := outer.Contains(tt.in); got != tt.want {
			t.Errorf("%s: Contains(%v) = %v, want %v", tt.name, tt.in, got, tt.want)
		}
	}
	if !R(1, 1, 0, 5).Empty() || R(0, 0, 1, 1).Empty() {
		t.Error("Empty() misreports")
	}
}
