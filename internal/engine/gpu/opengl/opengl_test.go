package opengl

import (
	"runtime"
	"testing"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/voxelcore/internal/engine/gpu"
	"github.com/Faultbox/voxelcore/internal/engine/window"
)

// newTestBackend opens a hidden GL 4.1 context. Tests skip without a display.
func newTestBackend(t *testing.T) *Backend {
	t.Helper()
	runtime.LockOSThread()
	t.Cleanup(runtime.UnlockOSThread)

	w, err := window.New(window.Config{Title: "opengl test", Width: 64, Height: 64, Hidden: true})
	if err != nil {
		t.Skipf("no GL context: %v", err)
	}
	t.Cleanup(w.Close)

	be, err := New()
	if err != nil {
		t.Skipf("no GL functions: %v", err)
	}
	return be
}

func TestIndexUploadKeepsBoundVertexArray(t *testing.T) {
	be := newTestBackend(t)

	vbo := be.CreateBuffer(gpu.ArrayBuffer)
	be.BufferData(vbo, gpu.StaticDraw, gpu.Bytes([]float32{0, 0, 0, 1, 0, 0, 0, 1, 0}))
	first := be.CreateBuffer(gpu.ElementArrayBuffer)
	be.BufferData(first, gpu.StaticDraw, gpu.Bytes([]uint32{0, 1, 2}))
	va := be.CreateVertexArray(vbo, first, []gpu.Attrib{gpu.Attrib3f})

	be.BindVertexArray(va)
	second := be.CreateBuffer(gpu.ElementArrayBuffer)
	be.BufferData(second, gpu.StaticDraw, gpu.Bytes([]uint32{2, 1, 0}))

	var bound, ibo int32
	gl.GetIntegerv(gl.VERTEX_ARRAY_BINDING, &bound)
	gl.GetIntegerv(gl.ELEMENT_ARRAY_BUFFER_BINDING, &ibo)
	if uint32(bound) != va.ID {
		t.Errorf("vertex array binding = %d, want %d", bound, va.ID)
	}
	if uint32(ibo) != first.ID {
		t.Errorf("vertex array index buffer = %d, want %d (upload of %d rewired it)", ibo, first.ID, second.ID)
	}
}

func TestClearBufferInt(t *testing.T) {
	be := newTestBackend(t)

	tex := be.CreateTexture(gpu.TextureSpec{Width: 4, Height: 4, Format: gpu.R32I})
	fb := be.CreateFramebuffer()
	be.FramebufferTexture(fb, gpu.ColorAttachment(0), tex)
	if err := be.CheckFramebuffer(fb); err != nil {
		t.Fatalf("CheckFramebuffer: %v", err)
	}
	be.BindFramebuffer(fb)
	be.DrawBuffers(fb, []gpu.Attachment{gpu.ColorAttachment(0)})

	read := func() []int32 {
		ids := make([]int32, 16)
		gl.BindFramebuffer(gl.READ_FRAMEBUFFER, fb.ID)
		gl.ReadBuffer(gl.COLOR_ATTACHMENT0)
		gl.ReadPixels(0, 0, 4, 4, gl.RED_INTEGER, gl.INT, gl.Ptr(ids))
		return ids
	}

	for _, v := range []int32{7, 0} {
		be.ClearBufferInt(0, v)
		for i, id := range read() {
			if id != v {
				t.Fatalf("texel %d = %d after clearing to %d", i, id, v)
			}
		}
	}
}
