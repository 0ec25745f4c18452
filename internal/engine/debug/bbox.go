// Package debug draws bounding box overlays and saves screenshots.
package debug

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/voxelcore/internal/engine/gpu"
	"github.com/Faultbox/voxelcore/internal/engine/renderer/shaders"
	"github.com/Faultbox/voxelcore/internal/engine/shader"
	"github.com/Faultbox/voxelcore/pkg/math"
)

// BoxVertexCount is the number of line vertices per box (12 edges × 2).
const BoxVertexCount = 24

// BoxLines returns the 12 edges of box as line-list vertices, grown by pad on every side.
func BoxLines(box math.Box3, pad float32) []mgl32.Vec3 {
	grow := mgl32.Vec3{pad, pad, pad}
	c := math.Box3{Min: box.Min.Sub(grow), Max: box.Max.Add(grow)}.Corners()

	// Corner i has bit 0 set for max x, bit 1 for max y and bit 2 for max z,
	// so every edge joins two corners one bit apart.
	lines := make([]mgl32.Vec3, 0, BoxVertexCount)
	for i := 0; i < 8; i++ {
		for bit := 1; bit < 8; bit <<= 1 {
			if i&bit == 0 {
				lines = append(lines, c[i], c[i|bit])
			}
		}
	}
	return lines
}

// Overlay collects boxes during a frame and draws them as wireframes.
type Overlay struct {
	be      gpu.Backend
	program *shader.Program
	vbo     gpu.Buffer
	vao     gpu.VertexArray
	lines   []mgl32.Vec3
	Color   mgl32.Vec3
	Enabled bool
}

// NewOverlay compiles the line program. The overlay starts disabled.
func NewOverlay(be gpu.Backend) (*Overlay, error) {
	p, err := shader.New(be, shaders.FS, shader.Vertex("line.vert"), shader.Fragment("line.frag"))
	if err != nil {
		return nil, fmt.Errorf("debug overlay: %w", err)
	}
	o := &Overlay{
		be:      be,
		program: p,
		vbo:     be.CreateBuffer(gpu.ArrayBuffer),
		Color:   mgl32.Vec3{1, 0.85, 0.2},
	}
	o.vao = be.CreateVertexArray(o.vbo, gpu.Buffer{}, []gpu.Attrib{gpu.Attrib3f})
	return o, nil
}

// Add queues box for the next Draw. Ignored while disabled.
func (o *Overlay) Add(box math.Box3) {
	if !o.Enabled || box.IsEmpty() {
		return
	}
	o.lines = append(o.lines, BoxLines(box, 0)...)
}

// Len returns the number of queued boxes.
func (o *Overlay) Len() int {
	return len(o.lines) / BoxVertexCount
}

// Draw draws the queued boxes with vp and clears the queue.
func (o *Overlay) Draw(vp mgl32.Mat4) {
	if len(o.lines) == 0 {
		return
	}
	o.be.BufferData(o.vbo, gpu.StreamDraw, gpu.Bytes(o.lines))
	o.program.Mat4("u_vp", vp)
	o.program.Vec3("u_color", o.Color)
	o.program.Use()
	o.be.BindVertexArray(o.vao)
	o.be.DrawArrays(gpu.Lines, 0, len(o.lines))
	o.lines = o.lines[:0]
}

// Delete releases the program and buffers.
func (o *Overlay) Delete() {
	o.program.Delete()
	o.be.DeleteVertexArray(o.vao)
	o.be.DeleteBuffer(o.vbo)
}
