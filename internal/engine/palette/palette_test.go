package palette

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestParseHex(t *testing.T) {
	p, err := ParseHex("#ff0000", "00ff80", " 000000 ")
	if err != nil {
		t.Fatalf("ParseHex: %v", err)
	}
	want := Palette{{1, 0, 0}, {0, 1, 128.0 / 255}, {0, 0, 0}}
	for i := range want {
		if !p[i].ApproxEqual(want[i]) {
			t.Errorf("p[%d] = %v, want %v", i, p[i], want[i])
		}
	}
}

func TestParseHexErrors(t *testing.T) {
	for _, in := range [][]string{nil, {"fff"}, {"gg0000"}, {"#12345678"}} {
		if _, err := ParseHex(in...); err == nil {
			t.Errorf("ParseHex(%q) succeeded", in)
		}
	}
}

func TestAtClamps(t *testing.T) {
	if len(DreamyHaze) != 16 {
		t.Fatalf("DreamyHaze has %d colors, want 16", len(DreamyHaze))
	}
	if DreamyHaze.At(99) != DreamyHaze[15] {
		t.Error("At did not clamp to the last color")
	}
	if DreamyHaze.At(0) == (mgl32.Vec3{}) {
		t.Error("first color is black")
	}
}
