package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/voxelcore/internal/engine/gpu"
)

// formatInfo maps a gpu.Format to internal format, pixel format and pixel type.
func formatInfo(f gpu.Format) (internal int32, format, kind uint32) {
	switch f {
	case gpu.RGBA16F:
		return gl.RGBA16F, gl.RGBA, gl.FLOAT
	case gpu.R16F:
		return gl.R16F, gl.RED, gl.FLOAT
	case gpu.R32I:
		return gl.R32I, gl.RED_INTEGER, gl.INT
	case gpu.R8:
		return gl.R8, gl.RED, gl.UNSIGNED_BYTE
	case gpu.Depth32:
		return gl.DEPTH_COMPONENT32, gl.DEPTH_COMPONENT, gl.FLOAT
	default:
		return gl.RGBA8, gl.RGBA, gl.UNSIGNED_BYTE
	}
}

func filter(f gpu.Filter) int32 {
	if f == gpu.Nearest {
		return gl.NEAREST
	}
	return gl.LINEAR
}

func textureTarget(spec gpu.TextureSpec) uint32 {
	if spec.Multisample {
		return gl.TEXTURE_2D_MULTISAMPLE
	}
	return gl.TEXTURE_2D
}

func attachment(a gpu.Attachment) uint32 {
	if a == gpu.DepthAttachment {
		return gl.DEPTH_ATTACHMENT
	}
	return gl.COLOR_ATTACHMENT0 + uint32(a)
}

// CreateTexture implements gpu.Backend.
func (b *Backend) CreateTexture(spec gpu.TextureSpec) gpu.Texture {
	t := gpu.Texture{Spec: spec}
	internal, format, kind := formatInfo(spec.Format)
	target := textureTarget(spec)

	gl.GenTextures(1, &t.ID)
	gl.BindTexture(target, t.ID)

	if spec.Multisample {
		gl.TexImage2DMultisample(target, 4, uint32(internal), int32(spec.Width), int32(spec.Height), true)
		gl.BindTexture(target, 0)
		return t
	}

	if spec.Format.IsDepth() {
		gl.TexParameteri(target, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
		gl.TexParameteri(target, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	} else {
		gl.TexParameteri(target, gl.TEXTURE_WRAP_S, gl.MIRRORED_REPEAT)
		gl.TexParameteri(target, gl.TEXTURE_WRAP_T, gl.MIRRORED_REPEAT)
	}

	if spec.Shadow {
		gl.TexParameteri(target, gl.TEXTURE_COMPARE_MODE, gl.COMPARE_REF_TO_TEXTURE)
		gl.TexParameteri(target, gl.TEXTURE_COMPARE_FUNC, gl.LESS)
	}

	gl.TexParameteri(target, gl.TEXTURE_MIN_FILTER, filter(spec.MinFilter))
	gl.TexParameteri(target, gl.TEXTURE_MAG_FILTER, filter(spec.MagFilter))

	if len(spec.Pixels) > 0 {
		gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
		gl.TexImage2D(target, 0, internal, int32(spec.Width), int32(spec.Height), 0, format, kind, gl.Ptr(spec.Pixels))
	} else {
		gl.TexImage2D(target, 0, internal, int32(spec.Width), int32(spec.Height), 0, format, kind, nil)
	}

	gl.BindTexture(target, 0)
	return t
}

// DeleteTexture implements gpu.Backend.
func (b *Backend) DeleteTexture(t gpu.Texture) {
	gl.DeleteTextures(1, &t.ID)
}

// BindTexture implements gpu.Backend.
func (b *Backend) BindTexture(t gpu.Texture, unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(textureTarget(t.Spec), t.ID)
}

// CreateFramebuffer implements gpu.Backend.
func (b *Backend) CreateFramebuffer() gpu.Framebuffer {
	var fb gpu.Framebuffer
	gl.GenFramebuffers(1, &fb.ID)
	return fb
}

// FramebufferTexture implements gpu.Backend.
func (b *Backend) FramebufferTexture(fb gpu.Framebuffer, a gpu.Attachment, t gpu.Texture) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.ID)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, attachment(a), textureTarget(t.Spec), t.ID, 0)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

// CheckFramebuffer implements gpu.Backend.
func (b *Backend) CheckFramebuffer(fb gpu.Framebuffer) error {
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.ID)
	defer gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("framebuffer incomplete: 0x%x", status)
	}
	return nil
}

// BindFramebuffer implements gpu.Backend.
func (b *Backend) BindFramebuffer(fb gpu.Framebuffer) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.ID)
}

// DrawBuffers implements gpu.Backend.
func (b *Backend) DrawBuffers(fb gpu.Framebuffer, attachments []gpu.Attachment) {
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, fb.ID)
	if len(attachments) == 0 {
		gl.DrawBuffer(gl.NONE)
		return
	}
	bufs := make([]uint32, len(attachments))
	for i, a := range attachments {
		bufs[i] = attachment(a)
	}
	gl.DrawBuffers(int32(len(bufs)), &bufs[0])
}

// ReadBuffer implements gpu.Backend.
func (b *Backend) ReadBuffer(fb gpu.Framebuffer, a gpu.Attachment) {
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, fb.ID)
	gl.ReadBuffer(attachment(a))
}

// BlitFramebuffer implements gpu.Backend.
func (b *Backend) BlitFramebuffer(src, dst gpu.Framebuffer, srcW, srcH, dstW, dstH int, depth bool, f gpu.Filter) {
	mask := uint32(gl.COLOR_BUFFER_BIT)
	if depth {
		mask = gl.DEPTH_BUFFER_BIT
	}
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, src.ID)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, dst.ID)
	gl.BlitFramebuffer(0, 0, int32(srcW), int32(srcH), 0, 0, int32(dstW), int32(dstH), mask, uint32(filter(f)))
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

// ReadPixels implements gpu.Backend. Returns RGBA8 rows bottom-up.
func (b *Backend) ReadPixels(fb gpu.Framebuffer, a gpu.Attachment, width, height int) []byte {
	pixels := make([]byte, width*height*4)

	var prev int32
	gl.GetIntegerv(gl.READ_FRAMEBUFFER_BINDING, &prev)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, fb.ID)
	if fb.ID != 0 {
		gl.ReadBuffer(attachment(a))
	}
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, uint32(prev))

	return pixels
}

// DeleteFramebuffer implements gpu.Backend.
func (b *Backend) DeleteFramebuffer(fb gpu.Framebuffer) {
	gl.DeleteFramebuffers(1, &fb.ID)
}
