package math

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestNewPlaneNormalizes(t *testing.T) {
	tests := []struct {
		name   string
		normal mgl32.Vec3
		want   mgl32.Vec3
	}{
		{"unit", mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 1, 0}},
		{"scaled z", mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, 1}},
		{"tiny", mgl32.Vec3{0.001, 0, 0}, mgl32.Vec3{1, 0, 0}},
		{"diagonal", mgl32.Vec3{3, 4, 0}, mgl32.Vec3{0.6, 0.8, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPlane(mgl32.Vec3{1, 2, 3}, tt.normal)
			if p.Normal.Sub(tt.want).Len() > 1e-6 {
				t.Errorf("normal = %v, want %v", p.Normal, tt.want)
			}
			if l := p.Normal.Len(); mgl32.Abs(l-1) > 1e-5 {
				t.Errorf("normal length = %f, want 1", l)
			}
		})
	}
}

func TestNewPlaneDistance(t *testing.T) {
	p := NewPlane(mgl32.Vec3{0, 0, 7}, mgl32.Vec3{0, 0, 5})
	if p.Distance != 7 {
		t.Errorf("Distance = %f, want 7", p.Distance)
	}
}

func TestPlaneSDF(t *testing.T) {
	p := NewPlane(mgl32.Vec3{0, 2, 0}, mgl32.Vec3{0, 1, 0})

	if d := p.SDF(mgl32.Vec3{5, 5, -3}); d != 3 {
		t.Errorf("SDF in front = %f, want 3", d)
	}
	if d := p.SDF(mgl32.Vec3{0, 2, 0}); d != 0 {
		t.Errorf("SDF on plane = %f, want 0", d)
	}
	if d := p.SDF(mgl32.Vec3{0, -1, 0}); d != -3 {
		t.Errorf("SDF behind = %f, want -3", d)
	}
}

func TestNewPlaneZeroNormal(t *testing.T) {
	p := NewPlane(mgl32.Vec3{1, 1, 1}, mgl32.Vec3{})
	if d := p.SDF(mgl32.Vec3{10, -4, 2}); d != 0 {
		t.Errorf("degenerate plane SDF = %f, want 0", d)
	}
}
