package math

import "github.com/go-gl/mathgl/mgl32"

// Plane is a half-space boundary: unit normal plus signed distance from origin.
// Points with a positive signed distance lie in front of the plane.
type Plane struct {
	Normal   mgl32.Vec3
	Distance float32
}

// NewPlane builds the plane through point facing normal. The normal is
// normalized, so its magnitude does not matter. A zero normal yields a
// degenerate plane that reports zero distance for every point.
func NewPlane(point, normal mgl32.Vec3) Plane {
	if l := normal.Len(); l > 0 {
		normal = normal.Mul(1 / l)
	}
	return Plane{
		Normal:   normal,
		Distance: normal.Dot(point),
	}
}

// SDF returns the signed distance from the plane to p.
func (p Plane) SDF(pt mgl32.Vec3) float32 {
	return p.Normal.Dot(pt) - p.Distance
}
