package sprite

import (
	"image/color"
	"testing"
)

func TestHex(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"#fff", color.NRGBA{255, 255, 255, 255}},
		{"f00", color.NRGBA{255, 0, 0, 255}},
		{"#0f08", color.NRGBA{0, 255, 0, 136}},
		{"336699", color.NRGBA{0x33, 0x66, 0x99, 255}},
		{"#33669980", color.NRGBA{0x33, 0x66, 0x99, 0x80}},
		{"nope", color.NRGBA{0, 0, 0, 255}},
		{"", color.NRGBA{0, 0, 0, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Hex(tt.in).NRGBA(); got != tt.want {
				t.Errorf("Hex(%q).NRGBA() = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFromColor(t *testing.T) {
	// Premultiplied input converts to straight alpha.
	c := FromColor(color.RGBA{R: 64, G: 0, B: 0, A: 128})
	if !approx(c.R, 127.0/255) || !approx(c.A, 128.0/255) {
		t.Errorf("FromColor() = %+v, want R=127/255 A=128/255", c)
	}
	if got := FromColor(color.White); got != White {
		t.Errorf("FromColor(White) = %+v, want White", got)
	}
}

func TestColorNRGBAClamps(t *testing.T) {
	got := RGBA(2, -1, 0.5, 1).NRGBA()
	want := color.NRGBA{255, 0, 127, 255}
	if got != want {
		t.Errorf("NRGBA() = %v, want %v", got, want)
	}
}

func TestColorLerpAndMul(t *testing.T) {
	mid := Black.Lerp(White, 0.5)
	if !approx(mid.R, 0.5) || !approx(mid.A, 1) {
		t.Errorf("Lerp() = %+v", mid)
	}
	tint := RGBA(1, 0.5, 0.5, 0.5).Mul(RGBA(0.5, 1, 0, 1))
	if tint != RGBA(0.5, 0.5, 0, 0.5) {
		t.Errorf("Mul() = %+v", tint)
	}
	if got := Red.Array(); got != [4]float32{1, 0, 0, 1} {
		t.Errorf("Array() = %v", got)
	}
}
