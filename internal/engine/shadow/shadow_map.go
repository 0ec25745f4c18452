// Package shadow provides the depth target and sun camera for the shade pass.
package shadow

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/voxelcore/internal/engine/framebuffer"
	"github.com/Faultbox/voxelcore/internal/engine/gpu"
	"github.com/Faultbox/voxelcore/internal/engine/texture"
)

// DefaultResolution is the default shadow map resolution.
const DefaultResolution = 2048

// Map is a depth-only framebuffer sampled with depth comparison.
type Map struct {
	be         gpu.Backend
	fb         *framebuffer.Framebuffer
	resolution int
	prev       [4]int
}

// NewMap creates a shadow map with the specified resolution.
// Resolution should be a power of 2 (e.g., 1024, 2048, 4096).
func NewMap(be gpu.Backend, resolution int) (*Map, error) {
	if resolution <= 0 {
		resolution = DefaultResolution
	}

	fb, err := framebuffer.New(be, framebuffer.Depth(texture.Shadow(resolution, resolution)))
	if err != nil {
		return nil, fmt.Errorf("shadow map: %w", err)
	}
	// No color output in the depth pass.
	fb.DrawBuffers()

	return &Map{be: be, fb: fb, resolution: resolution}, nil
}

// Resolution returns the side length of the depth texture.
func (m *Map) Resolution() int { return m.resolution }

// Bind binds the shadow map for rendering the depth pass and clears depth.
// The current viewport is saved for Unbind.
func (m *Map) Bind() {
	m.prev[0], m.prev[1], m.prev[2], m.prev[3] = m.be.ViewportSize()
	m.fb.Bind()
	m.be.SetDepthTest(true)
	m.be.Clear(gpu.ClearDepth, mgl32.Vec4{})
}

// Unbind restores the default framebuffer and the saved viewport.
func (m *Map) Unbind() {
	m.fb.Unbind()
	m.be.Viewport(m.prev[0], m.prev[1], m.prev[2], m.prev[3])
}

// Texture returns the depth texture for sampling in the camera pass.
func (m *Map) Texture() *texture.Texture {
	return m.fb.TexAt(gpu.DepthAttachment)
}

// Destroy releases all GPU resources associated with this shadow map.
func (m *Map) Destroy() {
	m.fb.Destroy()
}
