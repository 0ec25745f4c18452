// Package renderer draws static and instanced models for the camera and shade passes.
//
// A Context owns the model programs, compiled once in New and indexed by
// model kind and pass, and the registry of instanced models flushed each frame.
package renderer

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/voxelcore/internal/engine/camera"
	"github.com/Faultbox/voxelcore/internal/engine/gpu"
	"github.com/Faultbox/voxelcore/internal/engine/instancing"
	"github.com/Faultbox/voxelcore/internal/engine/model"
	"github.com/Faultbox/voxelcore/internal/engine/palette"
	"github.com/Faultbox/voxelcore/internal/engine/renderer/shaders"
	"github.com/Faultbox/voxelcore/internal/engine/shader"
	"github.com/Faultbox/voxelcore/internal/engine/texture"
	"github.com/Faultbox/voxelcore/internal/logger"
)

// Kind selects between the per-draw and per-instance model programs.
type Kind int

const (
	Static Kind = iota
	Instanced
)

// ShadowUnit is the texture unit the camera pass samples the shadow map from.
const ShadowUnit = 1

// Stats counts the work submitted since BeginFrame.
type Stats struct {
	Triangles int
	DrawCalls int
	Instances int
}

// Lighting is the sun state used by the camera pass.
type Lighting struct {
	Sun mgl32.Vec3
	// LightVP maps world space into the shadow map.
	LightVP mgl32.Mat4
	// Shadow is nil when shadows are off.
	Shadow *texture.Texture
}

// Context draws models through a backend. Not safe for concurrent use.
type Context struct {
	be       gpu.Backend
	programs [2][2]*shader.Program
	registry instancing.Registry
	palette  palette.Palette
	lighting Lighting
	seconds  float32
	stats    Stats
	log      *zap.Logger
}

// New compiles the model programs. pal colors materials; nil selects palette.DreamyHaze.
func New(be gpu.Backend, pal palette.Palette) (*Context, error) {
	if len(pal) == 0 {
		pal = palette.DreamyHaze
	}
	c := &Context{
		be:      be,
		palette: pal,
		lighting: Lighting{
			Sun:     mgl32.Vec3{0, 1, 0},
			LightVP: mgl32.Ident4(),
		},
		log: logger.Named("renderer"),
	}

	stages := [2][2][]shader.Stage{
		Static: {
			camera.PassCamera: {shader.Vertex("mod.vert"), shader.Fragment("mod_light.frag")},
			camera.PassShade:  {shader.Vertex("mod_depth.vert"), shader.Fragment("mod_depth.frag")},
		},
		Instanced: {
			camera.PassCamera: {shader.Vertex("imod.vert"), shader.Fragment("mod_light.frag")},
			camera.PassShade:  {shader.Vertex("imod_depth.vert"), shader.Fragment("mod_depth.frag")},
		},
	}
	for kind := range stages {
		for pass := range stages[kind] {
			p, err := shader.New(be, shaders.FS, stages[kind][pass]...)
			if err != nil {
				c.Delete()
				return nil, fmt.Errorf("renderer: %w", err)
			}
			c.programs[kind][pass] = p
		}
	}

	c.log.Info("renderer ready", zap.Int("palette", len(pal)))
	return c, nil
}

// Program returns the program used for kind in pass.
func (c *Context) Program(kind Kind, pass camera.Pass) *shader.Program {
	return c.programs[kind][pass]
}

// Registry returns the instanced models registered with this context.
func (c *Context) Registry() *instancing.Registry {
	return &c.registry
}

// BeginFrame resets the counters and sets the time fed to u_time.
func (c *Context) BeginFrame(elapsed time.Duration) {
	c.stats = Stats{}
	c.seconds = float32(elapsed.Seconds())
}

// Stats returns the counters accumulated since BeginFrame.
func (c *Context) Stats() Stats {
	return c.stats
}

// SetLighting sets the sun direction and shadow state for the camera pass.
func (c *Context) SetLighting(l Lighting) {
	c.lighting = l
}

// bind selects the program for kind and pass and uploads the per-draw and
// material uniforms.
func (c *Context) bind(kind Kind, pass camera.Pass, cam *camera.Camera, mat model.Material) *shader.Program {
	p := c.programs[kind][pass]

	p.Mat4("u_vp", cam.VP)
	p.Vec3("u_eye", cam.Eye())
	p.Float("u_time", c.seconds)
	p.Vec3("u_light_model", mat.LightModel)
	p.Vec3("u_light", c.palette.At(mat.Light))
	p.Vec3("u_dark", c.palette.At(mat.Dark))
	p.Float("u_trans", mat.Transmission)
	p.Float("u_shine", mat.Shine)
	p.Float("u_wind", mat.Wind)
	p.Float("u_alpha", mat.Alpha)

	if pass == camera.PassCamera {
		p.Vec3("u_sun", c.lighting.Sun)
		p.Mat4("u_light_vp", c.lighting.LightVP)
		if c.lighting.Shadow != nil {
			c.lighting.Shadow.Bind(ShadowUnit)
			p.Int("u_shadow", ShadowUnit)
			p.Int("u_shadows", 1)
		} else {
			p.Int("u_shadows", 0)
		}
	}

	p.Use()
	c.be.SetCullFace(mat.Cull)
	return p
}

// DrawModel draws every mesh of m once with transform. id is written to the
// id target in the camera pass.
func (c *Context) DrawModel(m *model.Model, pass camera.Pass, cam *camera.Camera, transform mgl32.Mat4, id uint32) {
	for _, mesh := range m.Meshes {
		p := c.bind(Static, pass, cam, mesh.Material)
		p.Mat4("u_model", transform)
		p.Int("u_id", int32(id))

		c.be.BindVertexArray(mesh.VAO)
		c.be.DrawElements(gpu.Triangles, mesh.IndexCount)

		c.stats.Triangles += mesh.Triangles()
		c.stats.DrawCalls++
	}
	c.be.SetCullFace(false)
}

// NewInstanced wraps m for instanced drawing and registers it. Call at load time.
func (c *Context) NewInstanced(m *model.Model) *instancing.Model {
	im := instancing.New(c.be, m)
	c.registry.Add(im)
	c.log.Debug("instanced model registered",
		zap.String("model", m.Name),
		zap.Int("meshes", len(m.Meshes)),
		zap.Int("registered", c.registry.Len()),
	)
	return im
}

// Flush uploads and draws the instances queued on every registered model,
// one instanced draw per mesh, then empties every queue. Models with no
// queued instances cost nothing.
func (c *Context) Flush(pass camera.Pass, cam *camera.Camera) {
	for _, im := range c.registry.Models() {
		n := im.Len()
		if !im.Upload(c.be) {
			continue
		}
		for i, mesh := range im.Meshes {
			c.bind(Instanced, pass, cam, mesh.Material)
			c.be.BindVertexArray(im.VAOs[i])
			c.be.DrawElementsInstanced(gpu.Triangles, mesh.IndexCount, n)

			c.stats.Triangles += mesh.Triangles() * n
			c.stats.DrawCalls++
		}
		c.stats.Instances += n
	}
	c.be.SetCullFace(false)
	c.registry.Reset()
}

// Delete releases the programs and every registered instanced model.
func (c *Context) Delete() {
	for kind := range c.programs {
		for pass := range c.programs[kind] {
			if p := c.programs[kind][pass]; p != nil {
				p.Delete()
				c.programs[kind][pass] = nil
			}
		}
	}
	for _, im := range c.registry.Models() {
		im.Delete(c.be)
	}
}
