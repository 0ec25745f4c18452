package world

import (
	"bytes"
	_ "embed"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/voxelcore/internal/engine/gpu"
	"github.com/Faultbox/voxelcore/internal/engine/instancing"
	"github.com/Faultbox/voxelcore/internal/engine/model"
	"github.com/Faultbox/voxelcore/internal/logger"
)

//go:embed props.mtl.txt
var propMaterials []byte

// PropMaterials parses the embedded material table shared by every prop scene.
func PropMaterials() (model.Materials, error) {
	mats, err := model.ParseMaterials(bytes.NewReader(propMaterials))
	if err != nil {
		return nil, fmt.Errorf("prop materials: %w", err)
	}
	return mats, nil
}

// boxMesh builds an axis-aligned box in source axes with one normal per face.
func boxMesh(name string, lo, hi mgl32.Vec3) model.SceneMesh {
	m := model.SceneMesh{Name: name}
	pick := func(axis int, high bool) float32 {
		if high {
			return hi[axis]
		}
		return lo[axis]
	}

	for axis := 0; axis < 3; axis++ {
		u, v := (axis+1)%3, (axis+2)%3
		for _, positive := range []bool{false, true} {
			var n mgl32.Vec3
			n[axis] = -1
			if positive {
				n[axis] = 1
			}

			base := uint32(len(m.Positions))
			for _, c := range [4][2]bool{{false, false}, {true, false}, {true, true}, {false, true}} {
				var p mgl32.Vec3
				p[axis] = pick(axis, positive)
				p[u] = pick(u, c[0])
				p[v] = pick(v, c[1])
				m.Positions = append(m.Positions, p)
				m.Normals = append(m.Normals, n)
			}

			// The corners run counter-clockwise seen from +axis.
			if positive {
				m.Faces = append(m.Faces, []uint32{base, base + 1, base + 2}, []uint32{base, base + 2, base + 3})
			} else {
				m.Faces = append(m.Faces, []uint32{base, base + 2, base + 1}, []uint32{base, base + 3, base + 2})
			}
		}
	}
	return m
}

// CubeScene is a crate with a mossy lid, in source axes (Z up).
func CubeScene() *model.Scene {
	return &model.Scene{
		Meshes: []model.SceneMesh{
			boxMesh("Crate", mgl32.Vec3{-0.5, -0.5, 0}, mgl32.Vec3{0.5, 0.5, 1}),
			boxMesh("Moss.001", mgl32.Vec3{-0.45, -0.45, 1}, mgl32.Vec3{0.45, 0.45, 1.08}),
		},
		Root: &model.Node{
			Name:     "cube",
			Meshes:   []int{0},
			Children: []*model.Node{{Name: "lid", Meshes: []int{1}}},
		},
	}
}

// PillarScene is a stone column under a swaying leaf canopy.
func PillarScene() *model.Scene {
	return &model.Scene{
		Meshes: []model.SceneMesh{
			boxMesh("Stone", mgl32.Vec3{-0.3, -0.3, 0}, mgl32.Vec3{0.3, 0.3, 3}),
			boxMesh("Leaf", mgl32.Vec3{-1.2, -1.2, 3}, mgl32.Vec3{1.2, 1.2, 3.6}),
			boxMesh("Leaf.002", mgl32.Vec3{-0.7, -0.7, 3.6}, mgl32.Vec3{0.7, 0.7, 4.1}),
		},
		Root: &model.Node{
			Name:   "pillar",
			Meshes: []int{0},
			Children: []*model.Node{
				{Name: "canopy", Meshes: []int{1, 2}},
			},
		},
	}
}

// GroundScene is a flat slab of half-width extent with its top at height 0.
func GroundScene(extent float32) *model.Scene {
	return &model.Scene{
		Meshes: []model.SceneMesh{
			boxMesh("Ground", mgl32.Vec3{-extent, -extent, -1}, mgl32.Vec3{extent, extent, 0}),
		},
		Root: &model.Node{Name: "ground", Meshes: []int{0}},
	}
}

// Instancer registers a static model for instanced drawing.
type Instancer interface {
	NewInstanced(m *model.Model) *instancing.Model
}

// Props holds the models a world is drawn with.
type Props struct {
	// Ground is drawn once per pass.
	Ground *model.Model
	// Kinds are indexed by Placement.Kind.
	Kinds []*instancing.Model
	// static keeps the source models so Delete can release their buffers.
	static []*model.Model
}

// LoadProps builds and uploads the prop scenes. Every kind is registered with inst.
func LoadProps(be gpu.Backend, inst Instancer, groundExtent float32) (*Props, error) {
	mats, err := PropMaterials()
	if err != nil {
		return nil, err
	}

	p := &Props{}
	ground, err := model.LoadWithMaterials(be, GroundScene(groundExtent), mats)
	if err != nil {
		return nil, fmt.Errorf("ground: %w", err)
	}
	ground.Name = "ground"
	p.Ground = ground
	p.static = append(p.static, ground)

	for _, s := range []struct {
		name  string
		scene *model.Scene
	}{
		{"cube", CubeScene()},
		{"pillar", PillarScene()},
	} {
		m, err := model.LoadWithMaterials(be, s.scene, mats)
		if err != nil {
			p.Delete(be)
			return nil, fmt.Errorf("prop %s: %w", s.name, err)
		}
		m.Name = s.name
		p.static = append(p.static, m)
		p.Kinds = append(p.Kinds, inst.NewInstanced(m))
	}

	logger.Info("props loaded", zap.Int("kinds", len(p.Kinds)), zap.Float32("ground", groundExtent))
	return p, nil
}

// Delete releases the prop meshes. Instanced wrappers belong to the render context.
func (p *Props) Delete(be gpu.Backend) {
	for _, m := range p.static {
		m.Delete(be)
	}
	p.static = nil
}
