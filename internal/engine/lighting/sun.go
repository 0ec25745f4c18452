// Package lighting computes the directional sun light.
package lighting

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// SunDirection converts longitude/latitude angles in degrees to a light direction vector.
// Longitude is rotation around the Y axis (0-360), latitude is elevation from the horizon (0-90).
// Returns a normalized direction vector pointing towards the sun.
func SunDirection(longitude, latitude float32) mgl32.Vec3 {
	lon := float64(mgl32.DegToRad(longitude))
	lat := float64(mgl32.DegToRad(latitude))

	return mgl32.Vec3{
		float32(math.Cos(lat) * math.Sin(lon)),
		float32(math.Sin(lat)),
		float32(math.Cos(lat) * math.Cos(lon)),
	}
}

// Sun is a slowly orbiting sun. Latitude stays fixed; longitude advances with time.
type Sun struct {
	Longitude float32
	Latitude  float32
	// DegreesPerSecond is the orbit speed. Zero keeps the sun still.
	DegreesPerSecond float32
}

// Advance moves the sun by dt seconds.
func (s *Sun) Advance(dt float32) {
	s.Longitude = float32(math.Mod(float64(s.Longitude+s.DegreesPerSecond*dt), 360))
	if s.Longitude < 0 {
		s.Longitude += 360
	}
}

// Direction returns the direction towards the sun.
func (s *Sun) Direction() mgl32.Vec3 {
	return SunDirection(s.Longitude, s.Latitude)
}
