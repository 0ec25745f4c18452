// Package world lays out prop placements in chunks and feeds the visible
// ones to the instanced renderer.
package world

import (
	"context"
	gomath "math"
	"math/rand/v2"
	"runtime"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/voxelcore/internal/engine/camera"
	"github.com/Faultbox/voxelcore/internal/engine/instancing"
	"github.com/Faultbox/voxelcore/internal/engine/picking"
	"github.com/Faultbox/voxelcore/internal/logger"
	"github.com/Faultbox/voxelcore/pkg/math"
)

// ChunkSize is the edge length of a chunk in world units.
const ChunkSize = 32

// Scale range of generated placements.
const (
	MinScale = 0.75
	MaxScale = 1.5
)

// Placement is one prop instance.
type Placement struct {
	// ID is unique within the world and never 0, which the id target reserves for "nothing".
	ID        uint32
	Kind      int
	Position  mgl32.Vec3
	Yaw       float32
	Scale     float32
	Transform mgl32.Mat4
	Box       math.Box3
}

// Chunk is a ChunkSize square column of placements.
type Chunk struct {
	X, Z       int
	Box        math.Box3
	Placements []Placement
}

// World is an immutable layout of chunks. Cull may run while other
// goroutines read it; nothing mutates it after Generate.
type World struct {
	Seed   uint64
	Radius int
	Chunks []Chunk
	kinds  []*instancing.Model
	count  int
}

// Generate lays out (2·radius+1)² chunks centered on the origin with
// perChunk placements each, choosing kinds uniformly. The layout depends
// only on the arguments.
func Generate(seed uint64, radius, perChunk int, kinds []*instancing.Model) *World {
	w := &World{Seed: seed, Radius: radius, kinds: kinds}
	if len(kinds) == 0 || radius < 0 {
		return w
	}

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	nextID := uint32(1)
	for cz := -radius; cz <= radius; cz++ {
		for cx := -radius; cx <= radius; cx++ {
			c := Chunk{X: cx, Z: cz, Box: math.EmptyBox()}
			for i := 0; i < perChunk; i++ {
				p := Placement{
					ID:   nextID,
					Kind: rng.IntN(len(kinds)),
					Position: mgl32.Vec3{
						(float32(cx) + rng.Float32()) * ChunkSize,
						0,
						(float32(cz) + rng.Float32()) * ChunkSize,
					},
					Yaw:   rng.Float32() * 360,
					Scale: MinScale + rng.Float32()*(MaxScale-MinScale),
				}
				p.Transform = placementTransform(p.Position, p.Yaw, p.Scale)
				p.Box = kinds[p.Kind].Bounds.Transform(p.Transform)

				c.Box = c.Box.Union(p.Box)
				c.Placements = append(c.Placements, p)
				nextID++
			}
			w.Chunks = append(w.Chunks, c)
			w.count += len(c.Placements)
		}
	}

	logger.Debug("world generated",
		zap.Uint64("seed", seed),
		zap.Int("chunks", len(w.Chunks)),
		zap.Int("placements", w.count),
	)
	return w
}

func placementTransform(pos mgl32.Vec3, yaw, scale float32) mgl32.Mat4 {
	return mgl32.Translate3D(pos.X(), pos.Y(), pos.Z()).
		Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(yaw))).
		Mul4(mgl32.Scale3D(scale, scale, scale))
}

// Len returns the number of placements.
func (w *World) Len() int {
	return w.count
}

// Extent returns the half-width of the area covered by chunks.
func (w *World) Extent() float32 {
	return Extent(w.Radius)
}

// Extent returns the half-width covered by a world of radius chunks, rounded
// out to whole chunks.
func Extent(radius int) float32 {
	return float32(radius+1) * ChunkSize
}

// Cull tests every chunk and then every placement against the pass frustum,
// spreading chunks across workers (GOMAXPROCS when workers <= 0). It returns
// one batch per chunk with a visible placement, in chunk order.
func (w *World) Cull(ctx context.Context, cam *camera.Camera, pass camera.Pass, workers int) ([]*instancing.Batch, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	batches := make([]*instancing.Batch, len(w.Chunks))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range w.Chunks {
		c := &w.Chunks[i]
		if len(c.Placements) == 0 {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if !cam.TestBox(c.Box, pass) {
				return nil
			}
			b := &instancing.Batch{}
			for j := range c.Placements {
				p := &c.Placements[j]
				if cam.TestBox(p.Box, pass) {
					b.Submit(w.kinds[p.Kind], p.Transform, p.ID)
				}
			}
			if b.Len() > 0 {
				batches[i] = b
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := batches[:0]
	for _, b := range batches {
		if b != nil {
			out = append(out, b)
		}
	}
	return out, nil
}

// Submit commits batches in order on the calling goroutine and returns the
// number of instances submitted.
func Submit(batches []*instancing.Batch) int {
	n := 0
	for _, b := range batches {
		n += b.Len()
		b.Commit()
	}
	return n
}

// Pick returns the placement whose box r enters first.
func (w *World) Pick(r picking.Ray) (*Placement, bool) {
	var (
		best  *Placement
		bestT = float32(gomath.MaxFloat32)
	)
	for i := range w.Chunks {
		c := &w.Chunks[i]
		if _, hit := r.IntersectBox(c.Box); !hit {
			continue
		}
		for j := range c.Placements {
			p := &c.Placements[j]
			if t, hit := r.IntersectBox(p.Box); hit && t < bestT {
				best, bestT = p, t
			}
		}
	}
	return best, best != nil
}

// Placement returns the placement with id.
func (w *World) Placement(id uint32) (*Placement, bool) {
	for i := range w.Chunks {
		ps := w.Chunks[i].Placements
		if len(ps) == 0 || id < ps[0].ID || id > ps[len(ps)-1].ID {
			continue
		}
		p := &ps[id-ps[0].ID]
		return p, true
	}
	return nil, false
}
