package math

// Frustum is a convex region bounded by six planes whose normals point inward.
type Frustum struct {
	Near   Plane
	Far    Plane
	Left   Plane
	Right  Plane
	Top    Plane
	Bottom Plane
}

// Planes returns the six bounding planes in near, far, left, right, top, bottom order.
func (f *Frustum) Planes() [6]Plane {
	return [6]Plane{f.Near, f.Far, f.Left, f.Right, f.Top, f.Bottom}
}

// ContainsBox reports whether b is potentially visible. A box is rejected only
// when all eight of its corners lie strictly behind a single plane. Boxes that
// straddle several planes near a frustum corner are kept, so the test may
// over-include but never drops a visible box.
func (f *Frustum) ContainsBox(b Box3) bool {
	corners := b.Corners()
	for _, pl := range f.Planes() {
		outside := true
		for _, c := range corners {
			if pl.SDF(c) >= 0 {
				outside = false
				break
			}
		}
		if outside {
			return false
		}
	}
	return true
}
