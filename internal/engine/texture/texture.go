// Package texture manages 2D textures on a gpu.Backend.
package texture

import (
	"fmt"

	"github.com/Faultbox/voxelcore/internal/engine/gpu"
)

// MaxUnits is the number of texture units Bind accepts.
const MaxUnits = 16

// Texture owns one backend texture and remembers how it was created.
type Texture struct {
	be  gpu.Backend
	tex gpu.Texture
}

func spec(w, h int, filter gpu.Filter, format gpu.Format) gpu.TextureSpec {
	return gpu.TextureSpec{Width: w, Height: h, MinFilter: filter, MagFilter: filter, Format: format}
}

func RGBA8(w, h int, filter gpu.Filter) gpu.TextureSpec {
	return spec(w, h, filter, gpu.RGBA8)
}

func RGBA16F(w, h int, filter gpu.Filter) gpu.TextureSpec {
	return spec(w, h, filter, gpu.RGBA16F)
}

// RGBA16FMSAA is a 4x multisampled RGBA16F target.
func RGBA16FMSAA(w, h int, filter gpu.Filter) gpu.TextureSpec {
	s := spec(w, h, filter, gpu.RGBA16F)
	s.Multisample = true
	return s
}

func R16F(w, h int, filter gpu.Filter) gpu.TextureSpec {
	return spec(w, h, filter, gpu.R16F)
}

// R32I stores one signed integer per texel, e.g. object ids for picking.
func R32I(w, h int, filter gpu.Filter) gpu.TextureSpec {
	return spec(w, h, filter, gpu.R32I)
}

// R8 is a single-channel texture initialized from pixels (w*h bytes).
func R8(w, h int, filter gpu.Filter, pixels []byte) gpu.TextureSpec {
	s := spec(w, h, filter, gpu.R8)
	s.Pixels = pixels
	return s
}

func Depth32(w, h int, filter gpu.Filter) gpu.TextureSpec {
	return spec(w, h, filter, gpu.Depth32)
}

// Shadow is a depth texture sampled with depth comparison.
func Shadow(w, h int) gpu.TextureSpec {
	s := spec(w, h, gpu.Linear, gpu.Depth32)
	s.Shadow = true
	return s
}

// New creates a texture from s.
func New(be gpu.Backend, s gpu.TextureSpec) *Texture {
	return &Texture{be: be, tex: be.CreateTexture(s)}
}

// Handle returns the backend texture.
func (t *Texture) Handle() gpu.Texture { return t.tex }

// Spec returns the spec the texture was last created with.
func (t *Texture) Spec() gpu.TextureSpec { return t.tex.Spec }

// Size returns the texture dimensions.
func (t *Texture) Size() (width, height int) {
	return t.tex.Spec.Width, t.tex.Spec.Height
}

// Resize recreates the texture storage at the new size. Textures created
// with pixel data cannot be resized.
func (t *Texture) Resize(width, height int) {
	if t.tex.Spec.Pixels != nil {
		panic("texture: can't resize a texture that specifies its pixels")
	}
	s := t.tex.Spec
	s.Width, s.Height = width, height
	resized := t.be.CreateTexture(s)
	t.be.DeleteTexture(t.tex)
	t.tex = resized
}

// Bind binds the texture to unit.
func (t *Texture) Bind(unit uint32) {
	if unit >= MaxUnits {
		panic(fmt.Sprintf("texture: unit %d too high (max %d)", unit, MaxUnits-1))
	}
	t.be.BindTexture(t.tex, unit)
}

// Delete releases the texture and drops its pixel data.
func (t *Texture) Delete() {
	t.be.DeleteTexture(t.tex)
	t.tex.Spec.Pixels = nil
}
