package world

import (
	"context"
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/voxelcore/internal/engine/camera"
	"github.com/Faultbox/voxelcore/internal/engine/gpu"
	"github.com/Faultbox/voxelcore/internal/engine/gpu/gputest"
	"github.com/Faultbox/voxelcore/internal/engine/instancing"
	"github.com/Faultbox/voxelcore/internal/engine/model"
	"github.com/Faultbox/voxelcore/internal/engine/picking"
)

type registry struct {
	be     gpu.Backend
	models []*instancing.Model
}

func (r *registry) NewInstanced(m *model.Model) *instancing.Model {
	im := instancing.New(r.be, m)
	r.models = append(r.models, im)
	return im
}

func loadProps(t *testing.T) (*Props, *registry) {
	t.Helper()
	be := gputest.New()
	reg := &registry{be: be}
	p, err := LoadProps(be, reg, 100)
	if err != nil {
		t.Fatalf("LoadProps: %v", err)
	}
	return p, reg
}

func TestLoadProps(t *testing.T) {
	p, reg := loadProps(t)

	if len(p.Kinds) != 2 || len(reg.models) != 2 {
		t.Fatalf("kinds = %d, registered = %d, want 2", len(p.Kinds), len(reg.models))
	}
	if got := len(p.Kinds[0].Meshes); got != 2 {
		t.Errorf("cube meshes = %d, want 2", got)
	}
	if got := len(p.Kinds[1].Meshes); got != 3 {
		t.Errorf("pillar meshes = %d, want 3", got)
	}

	// Depth-first: the column before its canopy.
	pillar := p.Kinds[1].Meshes
	if pillar[0].Name != "Stone" || pillar[1].Material.Cull || pillar[2].Material.Wind != 1 {
		t.Errorf("pillar meshes resolved wrong materials: %+v %+v", pillar[1].Material, pillar[2].Material)
	}

	b := p.Kinds[1].Bounds
	if b.Min.Y() != 0 || mgl32.Abs(b.Max.Y()-4.1) > 1e-5 {
		t.Errorf("pillar height = %v..%v, want 0..4.1 (Y up)", b.Min.Y(), b.Max.Y())
	}
	if g := p.Ground.Bounds; g.Max.Y() != 0 || g.Min.X() != -100 {
		t.Errorf("ground bounds = %+v", g)
	}
}

func TestBoxMeshWinding(t *testing.T) {
	m := boxMesh("Crate", mgl32.Vec3{-1, -2, 0}, mgl32.Vec3{1, 2, 3})
	if len(m.Positions) != 24 || len(m.Faces) != 12 {
		t.Fatalf("got %d vertices, %d faces", len(m.Positions), len(m.Faces))
	}
	for i, f := range m.Faces {
		a, b, c := m.Positions[f[0]], m.Positions[f[1]], m.Positions[f[2]]
		n := b.Sub(a).Cross(c.Sub(a)).Normalize()
		if n.Sub(m.Normals[f[0]]).Len() > 1e-5 {
			t.Errorf("face %d winds %v, normal %v", i, n, m.Normals[f[0]])
		}
	}
}

func TestPropMaterials(t *testing.T) {
	mats, err := PropMaterials()
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"Ground", "Crate", "Moss", "Stone", "Leaf"} {
		if _, ok := mats[name]; !ok {
			t.Errorf("material %q missing", name)
		}
	}
	if mats["Leaf"].Alpha != 0.9 || mats["Crate"].Alpha != 1 {
		t.Errorf("alpha = %v / %v", mats["Leaf"].Alpha, mats["Crate"].Alpha)
	}
}

func TestGenerate(t *testing.T) {
	p, _ := loadProps(t)
	w := Generate(7, 2, 10, p.Kinds)

	if len(w.Chunks) != 25 || w.Len() != 250 {
		t.Fatalf("chunks = %d placements = %d", len(w.Chunks), w.Len())
	}

	again := Generate(7, 2, 10, p.Kinds)
	other := Generate(8, 2, 10, p.Kinds)
	same, differs := true, false
	for i := range w.Chunks {
		for j := range w.Chunks[i].Placements {
			a := w.Chunks[i].Placements[j]
			if a != again.Chunks[i].Placements[j] {
				same = false
			}
			if a.Position != other.Chunks[i].Placements[j].Position {
				differs = true
			}
		}
	}
	if !same {
		t.Error("same seed produced a different layout")
	}
	if !differs {
		t.Error("different seeds produced the same layout")
	}

	seen := make(map[uint32]bool)
	for _, c := range w.Chunks {
		for _, pl := range c.Placements {
			if pl.ID == 0 || seen[pl.ID] {
				t.Fatalf("id %d is zero or repeated", pl.ID)
			}
			seen[pl.ID] = true

			lo := float32(c.X) * ChunkSize
			if pl.Position.X() < lo || pl.Position.X() > lo+ChunkSize {
				t.Errorf("placement %d at x=%v outside chunk %d", pl.ID, pl.Position.X(), c.X)
			}
			if pl.Scale < MinScale || pl.Scale > MaxScale {
				t.Errorf("scale %v out of range", pl.Scale)
			}
			if !c.Box.Contains(pl.Box.Min) || !c.Box.Contains(pl.Box.Max) {
				t.Errorf("chunk box does not enclose placement %d", pl.ID)
			}

			got, ok := w.Placement(pl.ID)
			if !ok || got.ID != pl.ID {
				t.Errorf("Placement(%d) = %v, %v", pl.ID, got, ok)
			}
		}
	}
	if _, ok := w.Placement(0); ok {
		t.Error("Placement(0) found")
	}
	if _, ok := w.Placement(251); ok {
		t.Error("Placement past the end found")
	}

	if empty := Generate(1, 3, 5, nil); empty.Len() != 0 {
		t.Error("generated placements without kinds")
	}
}

func newCamera() *camera.Camera {
	cam := camera.New(mgl32.Vec3{0, 3, 0}, mgl32.Vec3{0, 1, 0}, -90, -5, 16.0/9.0)
	cam.Far = 60
	cam.Update()
	return cam
}

func TestCull(t *testing.T) {
	p, _ := loadProps(t)
	w := Generate(42, 3, 20, p.Kinds)
	cam := newCamera()

	want := 0
	for _, c := range w.Chunks {
		for _, pl := range c.Placements {
			if cam.TestBox(c.Box, camera.PassCamera) && cam.TestBox(pl.Box, camera.PassCamera) {
				want++
			}
		}
	}
	if want == 0 || want == w.Len() {
		t.Fatalf("degenerate setup: %d of %d visible", want, w.Len())
	}

	for _, workers := range []int{1, 4, 0} {
		batches, err := w.Cull(context.Background(), cam, camera.PassCamera, workers)
		if err != nil {
			t.Fatalf("Cull: %v", err)
		}
		if got := Submit(batches); got != want {
			t.Errorf("workers=%d submitted %d, want %d", workers, got, want)
		}

		queued := p.Kinds[0].Len() + p.Kinds[1].Len()
		if queued != want {
			t.Errorf("workers=%d queued %d, want %d", workers, queued, want)
		}
		for _, k := range p.Kinds {
			for i := 0; i < k.Len(); i++ {
				pl, ok := w.Placement(k.ID(i))
				if !ok || p.Kinds[pl.Kind] != k || k.Transform(i) != pl.Transform {
					t.Fatalf("instance %d of %s does not match its placement", i, k.Name)
				}
			}
			k.Reset()
		}
	}
}

func TestCullOrderIsStable(t *testing.T) {
	p, _ := loadProps(t)
	w := Generate(3, 2, 15, p.Kinds)
	cam := newCamera()

	ids := func(workers int) []uint32 {
		batches, err := w.Cull(context.Background(), cam, camera.PassShade, workers)
		if err != nil {
			t.Fatal(err)
		}
		Submit(batches)
		var out []uint32
		for _, k := range p.Kinds {
			for i := 0; i < k.Len(); i++ {
				out = append(out, k.ID(i))
			}
			k.Reset()
		}
		return out
	}

	a, b := ids(1), ids(8)
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("order differs at %d: %d vs %d", i, a[i], b[i])
		}
	}
}

func TestCullCanceled(t *testing.T) {
	p, _ := loadProps(t)
	w := Generate(1, 2, 4, p.Kinds)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := w.Cull(ctx, newCamera(), camera.PassCamera, 2); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestPick(t *testing.T) {
	p, _ := loadProps(t)
	w := Generate(11, 1, 6, p.Kinds)
	target := w.Chunks[4].Placements[0]

	top := target.Box.Center()
	top[1] = 100
	ray := picking.Ray{Origin: top, Direction: mgl32.Vec3{0, -1, 0}}

	got, ok := w.Pick(ray)
	if !ok {
		t.Fatal("nothing picked")
	}
	// Another placement may overlap the target from above; whichever is hit
	// must be the one with the highest top under the ray.
	if got.Box.Max.Y() < target.Box.Max.Y() {
		t.Errorf("picked %d below target %d", got.ID, target.ID)
	}

	away := picking.Ray{Origin: mgl32.Vec3{0, 100, 0}, Direction: mgl32.Vec3{0, 1, 0}}
	if _, ok := w.Pick(away); ok {
		t.Error("ray pointing at the sky picked a placement")
	}
}
