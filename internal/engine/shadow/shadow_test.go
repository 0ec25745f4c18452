package shadow

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/voxelcore/internal/engine/gpu"
	"github.com/Faultbox/voxelcore/internal/engine/gpu/gputest"
)

func TestMapBindRestoresViewport(t *testing.T) {
	be := gputest.New()
	m, err := NewMap(be, 0)
	if err != nil {
		t.Fatalf("NewMap: %v", err)
	}
	if m.Resolution() != DefaultResolution {
		t.Errorf("Resolution = %d, want %d", m.Resolution(), DefaultResolution)
	}

	tex := m.Texture().Spec()
	if !tex.Shadow || tex.Format != gpu.Depth32 {
		t.Errorf("depth texture spec = %+v", tex)
	}

	m.Bind()
	if be.ViewportRect != [4]int{0, 0, DefaultResolution, DefaultResolution} {
		t.Errorf("viewport while bound = %v", be.ViewportRect)
	}
	if n := len(be.Clears); n != 1 || be.Clears[0] != gpu.ClearDepth {
		t.Errorf("clears = %v, want one depth clear", be.Clears)
	}

	m.Unbind()
	if be.ViewportRect != [4]int{0, 0, 800, 600} {
		t.Errorf("viewport after Unbind = %v", be.ViewportRect)
	}
	if be.BoundFramebuffer != 0 {
		t.Errorf("framebuffer %d still bound", be.BoundFramebuffer)
	}
}

func near(a, b mgl32.Vec3, eps float32) bool {
	return a.Sub(b).Len() < eps
}

func TestSunCameraLooksAwayFromSun(t *testing.T) {
	tests := []struct {
		name string
		sun  mgl32.Vec3
	}{
		{"from south east", mgl32.Vec3{1, 1, 1}.Normalize()},
		{"low", mgl32.Vec3{0, 0.2, -1}.Normalize()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewSunCamera(tt.sun, 1, 128)
			Follow(c, mgl32.Vec3{10, 0, 10})

			if !near(c.Front, tt.sun.Mul(-1), 1e-4) {
				t.Errorf("Front = %v, want %v", c.Front, tt.sun.Mul(-1))
			}
			if !c.Shade {
				t.Error("sun camera is not in shade mode")
			}
			if c.Eye() != c.Position {
				t.Errorf("Eye = %v, want focus %v", c.Eye(), c.Position)
			}

			// The focus projects to the middle of the shadow map.
			clip := c.VP.Mul4x1(mgl32.Vec4{10, 0, 10, 1})
			if !near(clip.Vec3(), mgl32.Vec3{}, 1e-4) {
				t.Errorf("focus in clip space = %v", clip)
			}
		})
	}
}
