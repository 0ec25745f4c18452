// Package camera provides the orbit camera used for projection and culling.
//
// A Camera keeps two frustums: a tight one for the camera pass and a looser
// "shade" one used to cull shadow casters that sit just outside the view.
package camera

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/voxelcore/pkg/math"
)

// Pass is one traversal of the scene.
type Pass int

const (
	// PassCamera is the lit, on-screen pass.
	PassCamera Pass = iota
	// PassShade is the depth-only shadow pass.
	PassShade
)

func (p Pass) String() string {
	switch p {
	case PassCamera:
		return "camera"
	case PassShade:
		return "shade"
	default:
		return "unknown"
	}
}

const (
	DefaultZoom     = 45.0
	DefaultDistance = 10.0
	// DefaultFar matches a 32-unit chunk drawn 12 chunks out.
	DefaultFar = 271.5290

	Near       = 0.01
	PitchLimit = 89.9
	Smoothing  = 0.5
	// Overshoot inflates distance, fov and aspect for the overshoot matrix.
	Overshoot = 1.33
	// FrustumMargin pulls the frustum apex back behind the eye.
	FrustumMargin = 15.0
	// ShadeDepth is the half depth of the orthographic shade projection.
	ShadeDepth = 256.0
)

// FarPlane returns the far clip distance that covers drawDistance chunks of
// chunkSize in every horizontal direction.
func FarPlane(chunkSize, drawDistance float32) float32 {
	return gomath.Sqrt2 * 0.5 * chunkSize * drawDistance
}

// Camera is an orbit camera. Angles are in degrees.
type Camera struct {
	Position mgl32.Vec3
	WorldUp  mgl32.Vec3

	Yaw, Pitch             float32
	TargetYaw, TargetPitch float32

	Front, Right, Up mgl32.Vec3

	// Zoom is the vertical field of view.
	Zoom     float32
	Distance float32
	Aspect   float32
	Far      float32
	// Sensitivity scales mouse motion in Tick.
	Sensitivity float32

	// Shade switches Projection to an orthographic box of OrthoSize.
	Shade     bool
	OrthoSize float32

	VP  mgl32.Mat4
	CVP mgl32.Mat4

	FrustumCam   math.Frustum
	FrustumShade math.Frustum

	lastMouse mgl32.Vec2
	hasLast   bool
}

// New creates a camera at position looking down -Z.
func New(position, worldUp mgl32.Vec3, yaw, pitch, aspect float32) *Camera {
	pitch = clampPitch(pitch)
	return &Camera{
		Position:    position,
		WorldUp:     worldUp,
		Yaw:         yaw,
		Pitch:       pitch,
		TargetYaw:   yaw,
		TargetPitch: pitch,
		Front:       mgl32.Vec3{0, 0, -1},
		Right:       mgl32.Vec3{1, 0, 0},
		Up:          worldUp,
		Zoom:        DefaultZoom,
		Distance:    DefaultDistance,
		Aspect:      aspect,
		Far:         DefaultFar,
		Sensitivity: 1,
		VP:          mgl32.Ident4(),
		CVP:         mgl32.Ident4(),
	}
}

func clampPitch(p float32) float32 {
	return mgl32.Clamp(p, -PitchLimit, PitchLimit)
}

// Tick feeds the cursor position. While captured, motion since the previous
// captured sample turns the target orientation. A release forgets the last
// sample, so the first captured sample afterwards only records the position.
func (c *Camera) Tick(mouse mgl32.Vec2, captured bool) {
	if !captured {
		c.hasLast = false
		return
	}

	if c.hasLast {
		delta := mouse.Sub(c.lastMouse).Mul(c.Sensitivity)
		c.TargetYaw += delta[0]
		c.TargetPitch = clampPitch(c.TargetPitch - delta[1])
	}
	c.hasLast = true
	c.lastMouse = mouse
}

// Update smooths the orientation toward its target and recomputes the basis,
// both matrices and both frustums. Call once per rendered frame.
func (c *Camera) Update() {
	c.Yaw = math.Lerp(c.Yaw, c.TargetYaw, Smoothing)
	c.Pitch = math.Lerp(c.Pitch, c.TargetPitch, Smoothing)

	yaw := float64(mgl32.DegToRad(c.Yaw))
	pitch := float64(mgl32.DegToRad(c.Pitch))
	c.Front = mgl32.Vec3{
		float32(gomath.Cos(yaw) * gomath.Cos(pitch)),
		float32(gomath.Sin(pitch)),
		float32(gomath.Sin(yaw) * gomath.Cos(pitch)),
	}.Normalize()
	c.Right = c.Front.Cross(c.WorldUp).Normalize()
	c.Up = c.Right.Cross(c.Front).Normalize()

	c.VP = c.Projection().Mul4(c.View())

	eye := c.Position.Sub(c.Front.Mul(c.Distance * Overshoot))
	view := mgl32.LookAtV(eye, eye.Add(c.Front), c.Up)
	proj := mgl32.Perspective(mgl32.DegToRad(c.Zoom*Overshoot), c.Aspect*Overshoot, Near, c.Far*Overshoot)
	c.CVP = proj.Mul4(view)

	apex := c.Eye().Sub(c.Front.Mul(FrustumMargin))
	c.FrustumCam = c.frustum(apex, c.Far)
	c.FrustumShade = c.frustum(apex, c.Far+FrustumMargin)
}

// frustum builds inward-facing planes for a pyramid from apex reaching depth
// along Front. The side planes open to the field of view at the far distance.
func (c *Camera) frustum(apex mgl32.Vec3, depth float32) math.Frustum {
	halfV := c.Far * float32(gomath.Tan(float64(mgl32.DegToRad(c.Zoom))/2))
	halfH := halfV * c.Aspect
	front := c.Front.Mul(depth)

	return math.Frustum{
		Near:   math.NewPlane(apex.Add(c.Front.Mul(Near)), c.Front),
		Far:    math.NewPlane(apex.Add(front), c.Front.Mul(-1)),
		Left:   math.NewPlane(apex, front.Sub(c.Right.Mul(halfH)).Cross(c.Up)),
		Right:  math.NewPlane(apex, c.Up.Cross(front.Add(c.Right.Mul(halfH)))),
		Top:    math.NewPlane(apex, front.Add(c.Up.Mul(halfV)).Cross(c.Right)),
		Bottom: math.NewPlane(apex, c.Right.Cross(front.Sub(c.Up.Mul(halfV)))),
	}
}

// Eye returns the orbit eye position, Distance behind Position along Front.
func (c *Camera) Eye() mgl32.Vec3 {
	return c.Position.Sub(c.Front.Mul(c.Distance))
}

// View returns the look-at matrix from Eye along Front.
func (c *Camera) View() mgl32.Mat4 {
	eye := c.Eye()
	return mgl32.LookAtV(eye, eye.Add(c.Front), c.Up)
}

// Projection returns an orthographic projection in shade mode and a
// perspective one otherwise.
func (c *Camera) Projection() mgl32.Mat4 {
	if c.Shade {
		hh := c.OrthoSize / 2
		hw := hh * c.Aspect
		return mgl32.Ortho(-hw, hw, -hh, hh, -ShadeDepth, ShadeDepth)
	}
	return mgl32.Perspective(mgl32.DegToRad(c.Zoom), c.Aspect, Near, c.Far)
}

// Frustum returns the frustum used to cull for pass.
func (c *Camera) Frustum(pass Pass) *math.Frustum {
	if pass == PassShade {
		return &c.FrustumShade
	}
	return &c.FrustumCam
}

// TestBox reports whether b may be visible in pass.
func (c *Camera) TestBox(b math.Box3, pass Pass) bool {
	return c.Frustum(pass).ContainsBox(b)
}

// InverseVP returns the inverse view-projection, used to unproject screen points.
func (c *Camera) InverseVP() mgl32.Mat4 {
	return c.VP.Inv()
}
