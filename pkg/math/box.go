// Package math provides the geometric primitives used for culling and bounds:
// planes, axis-aligned boxes and view frustums. Vectors and matrices come from mgl32.
package math

import (
	"github.com/go-gl/mathgl/mgl32"
)

// boxLarge seeds an empty box so that the first Extend snaps to the point.
const boxLarge = 1e20

// Box3 is an axis-aligned bounding box.
type Box3 struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// NewBox3 returns a box spanning min and max, swapping components where min > max.
func NewBox3(min, max mgl32.Vec3) Box3 {
	for i := 0; i < 3; i++ {
		if min[i] > max[i] {
			min[i], max[i] = max[i], min[i]
		}
	}
	return Box3{Min: min, Max: max}
}

// EmptyBox returns an inverted box that any Extend call will collapse onto.
func EmptyBox() Box3 {
	return Box3{
		Min: mgl32.Vec3{boxLarge, boxLarge, boxLarge},
		Max: mgl32.Vec3{-boxLarge, -boxLarge, -boxLarge},
	}
}

// IsEmpty reports whether the box has not been extended by any point.
func (b Box3) IsEmpty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

// Extend grows the box to include p.
func (b Box3) Extend(p mgl32.Vec3) Box3 {
	return Box3{Min: Vec3Min(b.Min, p), Max: Vec3Max(b.Max, p)}
}

// Union returns the smallest box containing both boxes.
func (b Box3) Union(o Box3) Box3 {
	return Box3{Min: Vec3Min(b.Min, o.Min), Max: Vec3Max(b.Max, o.Max)}
}

// Center returns the midpoint of the box.
func (b Box3) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the extent of the box along each axis.
func (b Box3) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

// Contains reports whether p lies inside or on the box.
func (b Box3) Contains(p mgl32.Vec3) bool {
	return p[0] >= b.Min[0] && p[0] <= b.Max[0] &&
		p[1] >= b.Min[1] && p[1] <= b.Max[1] &&
		p[2] >= b.Min[2] && p[2] <= b.Max[2]
}

// Corners returns the eight corners of the box.
func (b Box3) Corners() [8]mgl32.Vec3 {
	return [8]mgl32.Vec3{
		{b.Min[0], b.Min[1], b.Min[2]},
		{b.Max[0], b.Min[1], b.Min[2]},
		{b.Min[0], b.Max[1], b.Min[2]},
		{b.Max[0], b.Max[1], b.Min[2]},
		{b.Min[0], b.Min[1], b.Max[2]},
		{b.Max[0], b.Min[1], b.Max[2]},
		{b.Min[0], b.Max[1], b.Max[2]},
		{b.Max[0], b.Max[1], b.Max[2]},
	}
}

// Transform returns the axis-aligned box enclosing all eight corners after
// transforming them by m.
func (b Box3) Transform(m mgl32.Mat4) Box3 {
	out := EmptyBox()
	for _, c := range b.Corners() {
		out = out.Extend(mgl32.TransformCoordinate(c, m))
	}
	return out
}

// Vec3Min returns the component-wise minimum.
func Vec3Min(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{min(a[0], b[0]), min(a[1], b[1]), min(a[2], b[2])}
}

// Vec3Max returns the component-wise maximum.
func Vec3Max(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{max(a[0], b[0]), max(a[1], b[1]), max(a[2], b[2])}
}

// Lerp interpolates from a toward b by t.
func Lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}
