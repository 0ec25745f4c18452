package picking

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/voxelcore/pkg/math"
)

func approx(a, b mgl32.Vec3) bool {
	return a.Sub(b).Len() < 1e-3
}

func TestScreenToRayCenter(t *testing.T) {
	eye := mgl32.Vec3{0, 5, 10}
	view := mgl32.LookAtV(eye, mgl32.Vec3{0, 5, 0}, mgl32.Vec3{0, 1, 0})
	proj := mgl32.Perspective(mgl32.DegToRad(60), 4.0/3.0, 0.1, 100)
	inv := proj.Mul4(view).Inv()

	r := ScreenToRay(400, 300, 800, 600, inv)

	if !approx(r.Direction, mgl32.Vec3{0, 0, -1}) {
		t.Errorf("direction = %v, want -Z", r.Direction)
	}
	if !approx(r.Origin, mgl32.Vec3{0, 5, 9.9}) {
		t.Errorf("origin = %v, want on the near plane", r.Origin)
	}
}

func TestScreenToRayCorners(t *testing.T) {
	view := mgl32.LookAtV(mgl32.Vec3{}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0})
	proj := mgl32.Perspective(mgl32.DegToRad(90), 1, 1, 10)
	inv := proj.Mul4(view).Inv()

	tests := []struct {
		name string
		x, y float32
		want mgl32.Vec3
	}{
		{"top left", 0, 0, mgl32.Vec3{-1, 1, -1}.Normalize()},
		{"bottom right", 100, 100, mgl32.Vec3{1, -1, -1}.Normalize()},
	}
	for _, tt := range tests {
		r := ScreenToRay(tt.x, tt.y, 100, 100, inv)
		if !approx(r.Direction, tt.want) {
			t.Errorf("%s: direction = %v, want %v", tt.name, r.Direction, tt.want)
		}
	}
}

func TestIntersectBox(t *testing.T) {
	box := math.NewBox3(mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{1, 1, 1})

	tests := []struct {
		name  string
		ray   Ray
		wantT float32
		hit   bool
	}{
		{"front", Ray{mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, -1}}, 4, true},
		{"inside", Ray{mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}}, 1, true},
		{"behind", Ray{mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, 1}}, 0, false},
		{"parallel outside", Ray{mgl32.Vec3{0, 3, 5}, mgl32.Vec3{0, 0, -1}}, 0, false},
		{"miss", Ray{mgl32.Vec3{3, 0, 5}, mgl32.Vec3{0, 0, -1}}, 0, false},
		{"diagonal", Ray{mgl32.Vec3{-3, -3, 0}, mgl32.Vec3{1, 1, 0}.Normalize()}, 2 * 1.41421356, true},
	}
	for _, tt := range tests {
		got, hit := tt.ray.IntersectBox(box)
		if hit != tt.hit {
			t.Errorf("%s: hit = %v, want %v", tt.name, hit, tt.hit)
			continue
		}
		if hit && mgl32.Abs(got-tt.wantT) > 1e-4 {
			t.Errorf("%s: t = %v, want %v", tt.name, got, tt.wantT)
		}
	}

	if _, hit := (Ray{mgl32.Vec3{}, mgl32.Vec3{1, 0, 0}}).IntersectBox(math.EmptyBox()); hit {
		t.Error("empty box was hit")
	}
}

func TestIntersectPlaneY(t *testing.T) {
	r := Ray{Origin: mgl32.Vec3{0, 10, 0}, Direction: mgl32.Vec3{1, -1, 0}.Normalize()}
	p, ok := r.IntersectPlaneY(0)
	if !ok || !approx(p, mgl32.Vec3{10, 0, 0}) {
		t.Errorf("IntersectPlaneY = %v, %v", p, ok)
	}

	if _, ok := r.IntersectPlaneY(20); ok {
		t.Error("plane behind the ray was hit")
	}
	flat := Ray{Direction: mgl32.Vec3{1, 0, 0}}
	if _, ok := flat.IntersectPlaneY(0); ok {
		t.Error("parallel ray hit the plane")
	}
}
