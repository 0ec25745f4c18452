package shadow

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/voxelcore/internal/engine/camera"
)

// NewSunCamera returns a shade-mode camera looking along -sunDir.
// Place it with Follow before the depth pass.
func NewSunCamera(sunDir mgl32.Vec3, aspect, orthoSize float32) *camera.Camera {
	c := camera.New(mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}, 0, 0, aspect)
	c.Shade = true
	c.OrthoSize = orthoSize
	c.Distance = 0
	Aim(c, sunDir)
	return c
}

// Aim points c away from the sun without smoothing.
func Aim(c *camera.Camera, sunDir mgl32.Vec3) {
	front := sunDir.Mul(-1).Normalize()
	yaw := mgl32.RadToDeg(float32(gomath.Atan2(float64(front[2]), float64(front[0]))))
	pitch := mgl32.RadToDeg(float32(gomath.Asin(float64(mgl32.Clamp(front[1], -1, 1)))))
	pitch = mgl32.Clamp(pitch, -camera.PitchLimit, camera.PitchLimit)

	c.Yaw, c.TargetYaw = yaw, yaw
	c.Pitch, c.TargetPitch = pitch, pitch
}

// Follow centers the sun camera on focus and recomputes its matrices.
func Follow(c *camera.Camera, focus mgl32.Vec3) {
	c.Position = focus
	c.Update()
}
