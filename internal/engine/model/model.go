package model

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/voxelcore/internal/engine/gpu"
	"github.com/Faultbox/voxelcore/internal/logger"
	"github.com/Faultbox/voxelcore/pkg/math"
)

// ErrIncompleteScene is returned for scenes with missing or dangling data.
var ErrIncompleteScene = errors.New("incomplete scene")

// VertexLayout is the attribute layout of Vertex: position, normal.
var VertexLayout = []gpu.Attrib{gpu.Attrib3f, gpu.Attrib3f}

// Mesh is an uploaded vertex/index buffer pair with its material. Immutable after load.
type Mesh struct {
	Name        string
	VBO         gpu.Buffer
	IBO         gpu.Buffer
	VAO         gpu.VertexArray
	VertexCount int
	IndexCount  int
	Material    Material
}

// Triangles returns the number of triangles one draw of the mesh emits.
func (m *Mesh) Triangles() int {
	return m.IndexCount / 3
}

// Model is a static collection of meshes with bounds in engine axes.
type Model struct {
	Name   string
	Meshes []*Mesh
	Bounds math.Box3
}

// Load reads the material table next to sourcePath and loads scene with it.
func Load(be gpu.Backend, scene *Scene, sourcePath string) (*Model, error) {
	mats, err := LoadMaterials(MaterialPath(sourcePath))
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", sourcePath, err)
	}
	m, err := LoadWithMaterials(be, scene, mats)
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", sourcePath, err)
	}
	m.Name = sourcePath
	return m, nil
}

// LoadWithMaterials flattens scene depth-first (a node's meshes before its
// children), resolves materials and uploads each mesh. Nothing is uploaded
// unless the whole scene validates.
func LoadWithMaterials(be gpu.Backend, scene *Scene, mats Materials) (*Model, error) {
	if scene == nil || scene.Root == nil {
		return nil, fmt.Errorf("%w: no root node", ErrIncompleteScene)
	}

	type pending struct {
		src      *SceneMesh
		material Material
	}
	var meshes []pending

	var visit func(n *Node, depth int) error
	visit = func(n *Node, depth int) error {
		if n == nil {
			return fmt.Errorf("%w: nil node", ErrIncompleteScene)
		}
		if depth > 256 {
			return fmt.Errorf("%w: node hierarchy too deep at %q", ErrIncompleteScene, n.Name)
		}
		for _, idx := range n.Meshes {
			if idx < 0 || idx >= len(scene.Meshes) {
				return fmt.Errorf("%w: node %q references mesh %d of %d", ErrIncompleteScene, n.Name, idx, len(scene.Meshes))
			}
			src := &scene.Meshes[idx]
			if err := validate(src); err != nil {
				return err
			}
			mat, err := mats.Lookup(src.Name)
			if err != nil {
				return err
			}
			meshes = append(meshes, pending{src: src, material: mat})
		}
		for _, child := range n.Children {
			if err := visit(child, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	if err := visit(scene.Root, 0); err != nil {
		return nil, err
	}
	if len(meshes) == 0 {
		return nil, fmt.Errorf("%w: no meshes", ErrIncompleteScene)
	}

	m := &Model{Bounds: math.EmptyBox()}
	for _, p := range meshes {
		mesh, bounds := upload(be, p.src, p.material)
		m.Meshes = append(m.Meshes, mesh)
		m.Bounds = m.Bounds.Union(bounds)
	}

	logger.Debug("model loaded",
		zap.Int("meshes", len(m.Meshes)),
		zap.Float32s("min", m.Bounds.Min[:]),
		zap.Float32s("max", m.Bounds.Max[:]),
	)
	return m, nil
}

func validate(src *SceneMesh) error {
	if len(src.Positions) == 0 {
		return fmt.Errorf("%w: mesh %q has no vertices", ErrIncompleteScene, src.Name)
	}
	if len(src.Normals) != len(src.Positions) {
		return fmt.Errorf("%w: mesh %q has %d normals for %d vertices",
			ErrIncompleteScene, src.Name, len(src.Normals), len(src.Positions))
	}
	for i, face := range src.Faces {
		if len(face) != 3 {
			return fmt.Errorf("%w: mesh %q face %d has %d indices, want a triangle",
				ErrIncompleteScene, src.Name, i, len(face))
		}
		for _, idx := range face {
			if int(idx) >= len(src.Positions) {
				return fmt.Errorf("%w: mesh %q face %d references vertex %d of %d",
					ErrIncompleteScene, src.Name, i, idx, len(src.Positions))
			}
		}
	}
	return nil
}

// upload converts src to engine axes and creates its buffers and layout.
func upload(be gpu.Backend, src *SceneMesh, mat Material) (*Mesh, math.Box3) {
	bounds := math.EmptyBox()
	verts := make([]Vertex, len(src.Positions))
	for i := range src.Positions {
		verts[i] = Vertex{
			Position: ConvertAxes(src.Positions[i]),
			Normal:   ConvertAxes(src.Normals[i]),
		}
		bounds = bounds.Extend(verts[i].Position)
	}

	var indices []uint32
	for _, face := range src.Faces {
		indices = append(indices, face...)
	}

	vbo := be.CreateBuffer(gpu.ArrayBuffer)
	be.BufferData(vbo, gpu.StaticDraw, gpu.Bytes(verts))
	ibo := be.CreateBuffer(gpu.ElementArrayBuffer)
	be.BufferData(ibo, gpu.StaticDraw, gpu.Bytes(indices))

	return &Mesh{
		Name:        src.Name,
		VBO:         vbo,
		IBO:         ibo,
		VAO:         be.CreateVertexArray(vbo, ibo, VertexLayout),
		VertexCount: len(verts),
		IndexCount:  len(indices),
		Material:    mat,
	}, bounds
}

// Delete releases every mesh's buffers and layout.
func (m *Model) Delete(be gpu.Backend) {
	for _, mesh := range m.Meshes {
		be.DeleteVertexArray(mesh.VAO)
		be.DeleteBuffer(mesh.VBO)
		be.DeleteBuffer(mesh.IBO)
	}
	m.Meshes = nil
}
