// Package postfx draws the low-resolution frame to the screen through one of
// the post effects: a plain blit, palette dithering or a CRT look.
package postfx

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/voxelcore/internal/engine/gpu"
	"github.com/Faultbox/voxelcore/internal/engine/palette"
	"github.com/Faultbox/voxelcore/internal/engine/renderer/shaders"
	"github.com/Faultbox/voxelcore/internal/engine/shader"
	"github.com/Faultbox/voxelcore/internal/engine/texture"
)

// MaxPalette is the size of the u_pal array in the dither program.
const MaxPalette = 32

// Effect names a post effect.
type Effect string

const (
	EffectBlit   Effect = "blit"
	EffectDither Effect = "dither"
	EffectCRT    Effect = "crt"
)

// ParseEffect validates a configured effect name. Empty selects EffectBlit.
func ParseEffect(s string) (Effect, error) {
	switch e := Effect(s); e {
	case "":
		return EffectBlit, nil
	case EffectBlit, EffectDither, EffectCRT:
		return e, nil
	}
	return "", fmt.Errorf("unknown post effect %q", s)
}

func (e Effect) fragment() string {
	return string(e) + ".frag"
}

// Uniforms binds an effect's texture and parameters to its program.
type Uniforms interface {
	Apply(p *shader.Program)
}

// Blit copies a texture unchanged.
type Blit struct {
	Tex  *texture.Texture
	Unit uint32
}

func (b Blit) Apply(p *shader.Program) {
	b.Tex.Bind(b.Unit)
	p.Int("u_tex", int32(b.Unit))
}

// Dither snaps colors to a palette with an ordered dither.
type Dither struct {
	Tex     *texture.Texture
	Unit    uint32
	Palette palette.Palette
}

func (d Dither) Apply(p *shader.Program) {
	d.Tex.Bind(d.Unit)
	p.Int("u_tex0", int32(d.Unit))

	pal := []mgl32.Vec3(d.Palette)
	if len(pal) > MaxPalette {
		pal = pal[:MaxPalette]
	}
	p.Vec3Array("u_pal", pal)
	p.Int("u_pal_size", int32(len(pal)))
}

// CRT adds screen curvature and scanlines. Lores is the source height in pixels.
type CRT struct {
	Tex    *texture.Texture
	Unit   uint32
	Aspect float32
	Lores  float32
}

func (c CRT) Apply(p *shader.Program) {
	c.Tex.Bind(c.Unit)
	p.Int("u_tex0", int32(c.Unit))
	p.Float("u_aspect", c.Aspect)
	p.Float("u_lores", c.Lores)
}

// quadVertices is a fullscreen triangle strip in clip space.
var quadVertices = []float32{
	-1, -1,
	1, -1,
	-1, 1,
	1, 1,
}

// Quad is the fullscreen geometry every effect is drawn with.
type Quad struct {
	be  gpu.Backend
	vbo gpu.Buffer
	vao gpu.VertexArray
}

// NewQuad uploads the fullscreen quad.
func NewQuad(be gpu.Backend) *Quad {
	q := &Quad{be: be, vbo: be.CreateBuffer(gpu.ArrayBuffer)}
	be.BufferData(q.vbo, gpu.StaticDraw, gpu.Bytes(quadVertices))
	q.vao = be.CreateVertexArray(q.vbo, gpu.Buffer{}, []gpu.Attrib{gpu.Attrib2f})
	return q
}

// Draw draws the quad with whatever program is bound.
func (q *Quad) Draw() {
	q.be.BindVertexArray(q.vao)
	q.be.DrawArrays(gpu.TriangleStrip, 0, len(quadVertices)/2)
}

// Delete releases the quad's buffers.
func (q *Quad) Delete() {
	q.be.DeleteVertexArray(q.vao)
	q.be.DeleteBuffer(q.vbo)
}

// Pass owns one compiled effect program and the quad it draws with.
type Pass struct {
	be      gpu.Backend
	effect  Effect
	program *shader.Program
	quad    *Quad
}

// New compiles the program for effect.
func New(be gpu.Backend, effect Effect) (*Pass, error) {
	p, err := shader.New(be, shaders.FS, shader.Vertex("post.vert"), shader.Fragment(effect.fragment()))
	if err != nil {
		return nil, fmt.Errorf("postfx %s: %w", effect, err)
	}
	return &Pass{be: be, effect: effect, program: p, quad: NewQuad(be)}, nil
}

// Effect returns the effect this pass draws.
func (p *Pass) Effect() Effect { return p.effect }

// Program returns the compiled effect program.
func (p *Pass) Program() *shader.Program { return p.program }

// Draw applies u and draws the fullscreen quad into the bound framebuffer.
// Depth testing is suspended for the draw.
func (p *Pass) Draw(u Uniforms) {
	u.Apply(p.program)
	p.program.Use()
	p.be.SetDepthTest(false)
	p.quad.Draw()
	p.be.SetDepthTest(true)
}

// Delete releases the program and the quad.
func (p *Pass) Delete() {
	p.program.Delete()
	p.quad.Delete()
}
