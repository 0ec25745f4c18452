// Package framebuffer provides offscreen render targets built from texture attachments.
package framebuffer

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/voxelcore/internal/engine/gpu"
	"github.com/Faultbox/voxelcore/internal/engine/texture"
)

// AttachmentSpec pairs an attachment point with the texture created for it.
type AttachmentSpec struct {
	Attachment gpu.Attachment
	Spec       gpu.TextureSpec
}

// Color returns a color attachment spec at index i.
func Color(i int, spec gpu.TextureSpec) AttachmentSpec {
	return AttachmentSpec{Attachment: gpu.ColorAttachment(i), Spec: spec}
}

// Depth returns a depth attachment spec.
func Depth(spec gpu.TextureSpec) AttachmentSpec {
	return AttachmentSpec{Attachment: gpu.DepthAttachment, Spec: spec}
}

type buffer struct {
	attachment gpu.Attachment
	tex        *texture.Texture
}

// Framebuffer manages an offscreen render target and owns its attachments.
type Framebuffer struct {
	be   gpu.Backend
	fb   gpu.Framebuffer
	bufs []buffer
	draw []gpu.Attachment
}

// New creates a framebuffer with one texture per attachment spec.
func New(be gpu.Backend, specs ...AttachmentSpec) (*Framebuffer, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("creating framebuffer: no attachments")
	}

	f := &Framebuffer{be: be, fb: be.CreateFramebuffer()}
	for _, s := range specs {
		tex := texture.New(be, s.Spec)
		be.FramebufferTexture(f.fb, s.Attachment, tex.Handle())
		f.bufs = append(f.bufs, buffer{attachment: s.Attachment, tex: tex})
		if s.Attachment == gpu.ColorAttachment(0) {
			f.draw = []gpu.Attachment{s.Attachment}
		}
	}

	if err := be.CheckFramebuffer(f.fb); err != nil {
		f.Destroy()
		return nil, fmt.Errorf("creating framebuffer: %w", err)
	}
	return f, nil
}

// Handle returns the backend framebuffer.
func (f *Framebuffer) Handle() gpu.Framebuffer { return f.fb }

// Size returns the dimensions of the first attachment.
func (f *Framebuffer) Size() (width, height int) {
	return f.bufs[0].tex.Size()
}

// Bind makes this framebuffer the current render target and sets the viewport to its size.
func (f *Framebuffer) Bind() {
	w, h := f.Size()
	f.be.BindFramebuffer(f.fb)
	f.be.Viewport(0, 0, w, h)
}

// Unbind restores the default framebuffer.
func (f *Framebuffer) Unbind() {
	f.be.BindFramebuffer(gpu.Framebuffer{})
}

// BindWithViewport binds and sets viewport, saving the previous viewport.
// Returns a restore function that rebinds the default framebuffer and viewport.
func (f *Framebuffer) BindWithViewport() func() {
	x, y, w, h := f.be.ViewportSize()
	f.Bind()
	return func() {
		f.Unbind()
		f.be.Viewport(x, y, w, h)
	}
}

// Clear clears color and depth with color. Integer draw buffers are
// cleared to 0 instead. The framebuffer must be bound.
func (f *Framebuffer) Clear(color mgl32.Vec4) {
	f.be.Clear(gpu.ClearColor|gpu.ClearDepth, color)
	for i, a := range f.draw {
		if f.TexAt(a).Spec().Format.IsInteger() {
			f.be.ClearBufferInt(i, 0)
		}
	}
}

// DrawBuffers selects the color attachments fragment outputs are written to.
func (f *Framebuffer) DrawBuffers(attachments ...gpu.Attachment) {
	f.draw = append(f.draw[:0:0], attachments...)
	f.be.DrawBuffers(f.fb, attachments)
}

// ReadBuffer selects the attachment read by blits and ReadPixels.
func (f *Framebuffer) ReadBuffer(a gpu.Attachment) {
	f.be.ReadBuffer(f.fb, a)
}

// TexAt returns the texture at attachment a. It panics if there is none.
func (f *Framebuffer) TexAt(a gpu.Attachment) *texture.Texture {
	for _, b := range f.bufs {
		if b.attachment == a {
			return b.tex
		}
	}
	panic(fmt.Sprintf("framebuffer: no attachment %d on framebuffer %d", a, f.fb.ID))
}

func mask(a gpu.Attachment) (depth bool) {
	switch {
	case a.IsColor():
		return false
	case a == gpu.DepthAttachment:
		return true
	default:
		panic(fmt.Sprintf("framebuffer: attachment %d is neither color nor depth", a))
	}
}

// Blit copies srcA of src into dstA of dst, scaling between their sizes.
// Both attachments must be of the same kind.
func Blit(src, dst *Framebuffer, srcA, dstA gpu.Attachment, filter gpu.Filter) {
	srcDepth, dstDepth := mask(srcA), mask(dstA)
	if srcDepth != dstDepth {
		panic("framebuffer: blit between color and depth attachments")
	}

	srcTex, dstTex := src.TexAt(srcA), dst.TexAt(dstA)
	if !srcDepth {
		src.ReadBuffer(srcA)
		dst.DrawBuffers(dstA)
	}

	sw, sh := srcTex.Size()
	dw, dh := dstTex.Size()
	src.be.BlitFramebuffer(src.fb, dst.fb, sw, sh, dw, dh, srcDepth, filter)
}

// Resize recreates the given attachments at the new size, or all of them if none are given.
func (f *Framebuffer) Resize(width, height int, attachments ...gpu.Attachment) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	if len(attachments) == 0 {
		for _, b := range f.bufs {
			attachments = append(attachments, b.attachment)
		}
	}
	for _, a := range attachments {
		tex := f.TexAt(a)
		tex.Resize(width, height)
		f.be.FramebufferTexture(f.fb, a, tex.Handle())
	}
}

// ReadPixels reads attachment a as RGBA8 rows, bottom row first.
func (f *Framebuffer) ReadPixels(a gpu.Attachment) []byte {
	w, h := f.TexAt(a).Size()
	return f.be.ReadPixels(f.fb, a, w, h)
}

// Destroy releases the framebuffer and all attachment textures.
func (f *Framebuffer) Destroy() {
	for _, b := range f.bufs {
		b.tex.Delete()
	}
	f.bufs = nil
	if f.fb.ID != 0 {
		f.be.DeleteFramebuffer(f.fb)
		f.fb = gpu.Framebuffer{}
	}
}
