// Package instancing batches per-instance transforms and ids for instanced draws.
//
// Buffer layout: every instance contributes one 64-byte transform record and
// one uint32 id. The transform record is the model matrix in row-major order
// (the transpose of mgl32's column-major storage), read by the vertex shader
// as four vec4 rows starting at the first free attribute location, followed
// by the id as a uint attribute. Shaders rebuild the matrix with
// transpose(mat4(row0, row1, row2, row3)).
package instancing

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/voxelcore/internal/engine/gpu"
	"github.com/Faultbox/voxelcore/internal/engine/model"
	"github.com/Faultbox/voxelcore/pkg/math"
)

// TransformLayout is the per-instance transform stream: four row vectors.
var TransformLayout = []gpu.Attrib{gpu.Attrib4f, gpu.Attrib4f, gpu.Attrib4f, gpu.Attrib4f}

// IDLayout is the per-instance id stream.
var IDLayout = []gpu.Attrib{gpu.Attrib1u}

// Model wraps a static model's meshes and collects instances for one frame.
// Vertex and index buffers are shared with the static model.
type Model struct {
	Name   string
	Meshes []*model.Mesh
	Bounds math.Box3
	// VAOs holds one layout per mesh with the instance streams appended.
	VAOs []gpu.VertexArray

	transforms []mgl32.Mat4
	ids        []uint32

	transformBuf gpu.Buffer
	idBuf        gpu.Buffer
}

// New wraps m for instanced drawing. Call at load time, not per frame.
func New(be gpu.Backend, m *model.Model) *Model {
	im := &Model{
		Name:         m.Name,
		Meshes:       m.Meshes,
		Bounds:       m.Bounds,
		transformBuf: be.CreateBuffer(gpu.ArrayBuffer),
		idBuf:        be.CreateBuffer(gpu.ArrayBuffer),
	}

	for _, mesh := range m.Meshes {
		va := be.CreateVertexArray(mesh.VBO, mesh.IBO, model.VertexLayout)
		be.AddInstanceStream(&va, gpu.InstanceStream{Buffer: im.transformBuf, Attrs: TransformLayout})
		be.AddInstanceStream(&va, gpu.InstanceStream{Buffer: im.idBuf, Attrs: IDLayout})
		im.VAOs = append(im.VAOs, va)
	}
	return im
}

// Submit queues one instance for the current frame.
func (m *Model) Submit(transform mgl32.Mat4, id uint32) {
	m.transforms = append(m.transforms, transform.Transpose())
	m.ids = append(m.ids, id)
}

// Len returns the number of instances queued this frame.
func (m *Model) Len() int {
	return len(m.transforms)
}

// Transform returns the i-th queued transform in ordinary column-major form.
func (m *Model) Transform(i int) mgl32.Mat4 {
	return m.transforms[i].Transpose()
}

// ID returns the i-th queued id.
func (m *Model) ID(i int) uint32 {
	return m.ids[i]
}

// Upload sends the queued instances to the GPU in one transfer per stream.
// It reports false and does nothing when no instance is queued.
func (m *Model) Upload(be gpu.Backend) bool {
	if len(m.transforms) == 0 {
		return false
	}
	be.BufferData(m.transformBuf, gpu.StreamDraw, gpu.Bytes(m.transforms))
	be.BufferData(m.idBuf, gpu.StreamDraw, gpu.Bytes(m.ids))
	return true
}

// Reset drops the queued instances, keeping capacity for the next frame.
func (m *Model) Reset() {
	m.transforms = m.transforms[:0]
	m.ids = m.ids[:0]
}

// Delete releases the instance buffers and layouts. Shared mesh buffers stay.
func (m *Model) Delete(be gpu.Backend) {
	for _, va := range m.VAOs {
		be.DeleteVertexArray(va)
	}
	be.DeleteBuffer(m.transformBuf)
	be.DeleteBuffer(m.idBuf)
	m.VAOs = nil
}
