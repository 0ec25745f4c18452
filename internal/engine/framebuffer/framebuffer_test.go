package framebuffer

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/voxelcore/internal/engine/gpu"
	"github.com/Faultbox/voxelcore/internal/engine/gpu/gputest"
	"github.com/Faultbox/voxelcore/internal/engine/texture"
)

func newLowRes(t *testing.T, be *gputest.Recorder, w, h int) *Framebuffer {
	t.Helper()
	f, err := New(be,
		Color(0, texture.RGBA8(w, h, gpu.Nearest)),
		Color(1, texture.R32I(w, h, gpu.Nearest)),
		Depth(texture.Depth32(w, h, gpu.Nearest)),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return f
}

func TestNewAttachesTextures(t *testing.T) {
	be := gputest.New()
	f := newLowRes(t, be, 320, 180)

	rec := be.Framebuffers[f.Handle().ID]
	if len(rec.Attachments) != 3 {
		t.Fatalf("attachments = %d, want 3", len(rec.Attachments))
	}
	if rec.Attachments[gpu.DepthAttachment].ID != f.TexAt(gpu.DepthAttachment).Handle().ID {
		t.Error("depth attachment does not match TexAt")
	}
	if w, h := f.Size(); w != 320 || h != 180 {
		t.Errorf("Size() = %dx%d", w, h)
	}
}

func TestNewNoAttachments(t *testing.T) {
	if _, err := New(gputest.New()); err == nil {
		t.Error("expected error for framebuffer without attachments")
	}
}

func TestTexAtMissingPanics(t *testing.T) {
	f := newLowRes(t, gputest.New(), 4, 4)
	defer func() {
		if recover() == nil {
			t.Error("TexAt did not panic on a missing attachment")
		}
	}()
	f.TexAt(gpu.ColorAttachment(5))
}

func TestBlitColor(t *testing.T) {
	be := gputest.New()
	src := newLowRes(t, be, 320, 180)
	dst := newLowRes(t, be, 640, 360)

	Blit(src, dst, gpu.ColorAttachment(1), gpu.ColorAttachment(0), gpu.Nearest)

	if len(be.Blits) != 1 {
		t.Fatalf("blits = %d, want 1", len(be.Blits))
	}
	b := be.Blits[0]
	if b.Depth || b.SrcW != 320 || b.DstW != 640 || b.SrcH != 180 || b.DstH != 360 {
		t.Errorf("blit = %+v", b)
	}
	if got := be.Framebuffers[src.Handle().ID].ReadBuffer; got != gpu.ColorAttachment(1) {
		t.Errorf("read buffer = %d, want 1", got)
	}
	if got := be.Framebuffers[dst.Handle().ID].DrawBuffers; len(got) != 1 || got[0] != gpu.ColorAttachment(0) {
		t.Errorf("draw buffers = %v", got)
	}
}

func TestBlitDepth(t *testing.T) {
	be := gputest.New()
	src := newLowRes(t, be, 8, 8)
	dst := newLowRes(t, be, 8, 8)

	Blit(src, dst, gpu.DepthAttachment, gpu.DepthAttachment, gpu.Nearest)

	if !be.Blits[0].Depth {
		t.Error("depth blit recorded as color")
	}
	if be.Framebuffers[dst.Handle().ID].DrawBuffers != nil {
		t.Error("depth blit changed draw buffers")
	}
}

func TestBlitPanics(t *testing.T) {
	tests := []struct {
		name       string
		srcA, dstA gpu.Attachment
	}{
		{"color to depth", gpu.ColorAttachment(0), gpu.DepthAttachment},
		{"invalid attachment", gpu.Attachment(-7), gpu.DepthAttachment},
		{"missing attachment", gpu.ColorAttachment(3), gpu.ColorAttachment(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			be := gputest.New()
			src := newLowRes(t, be, 8, 8)
			dst := newLowRes(t, be, 8, 8)
			defer func() {
				if recover() == nil {
					t.Error("Blit did not panic")
				}
			}()
			Blit(src, dst, tt.srcA, tt.dstA, gpu.Nearest)
		})
	}
}

func TestResize(t *testing.T) {
	be := gputest.New()
	f := newLowRes(t, be, 8, 8)

	f.Resize(16, 4, gpu.ColorAttachment(0))
	if w, h := f.TexAt(gpu.ColorAttachment(0)).Size(); w != 16 || h != 4 {
		t.Errorf("color 0 = %dx%d, want 16x4", w, h)
	}
	if w, _ := f.TexAt(gpu.DepthAttachment).Size(); w != 8 {
		t.Errorf("depth resized to %d, want untouched", w)
	}

	f.Resize(32, 32)
	rec := be.Framebuffers[f.Handle().ID]
	for a, tex := range rec.Attachments {
		if tex.Spec.Width != 32 {
			t.Errorf("attachment %d width = %d, want 32", a, tex.Spec.Width)
		}
	}
}

func TestBindWithViewport(t *testing.T) {
	be := gputest.New()
	f := newLowRes(t, be, 64, 32)

	restore := f.BindWithViewport()
	if be.BoundFramebuffer != f.Handle().ID || be.ViewportRect != [4]int{0, 0, 64, 32} {
		t.Errorf("bound = %d viewport = %v", be.BoundFramebuffer, be.ViewportRect)
	}
	restore()
	if be.BoundFramebuffer != 0 || be.ViewportRect != [4]int{0, 0, 800, 600} {
		t.Errorf("after restore bound = %d viewport = %v", be.BoundFramebuffer, be.ViewportRect)
	}
}

func TestClearIntegerDrawBuffers(t *testing.T) {
	tests := []struct {
		name string
		draw []gpu.Attachment
		want []int
	}{
		{"default draw buffer", nil, nil},
		{"color and ids", []gpu.Attachment{gpu.ColorAttachment(0), gpu.ColorAttachment(1)}, []int{1}},
		{"ids first", []gpu.Attachment{gpu.ColorAttachment(1), gpu.ColorAttachment(0)}, []int{0}},
		{"color only", []gpu.Attachment{gpu.ColorAttachment(0)}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			be := gputest.New()
			f := newLowRes(t, be, 8, 8)
			f.Bind()
			if tt.draw != nil {
				f.DrawBuffers(tt.draw...)
			}

			f.Clear(mgl32.Vec4{0.2, 0.3, 0.4, 1})

			if len(be.Clears) != 1 || be.Clears[0] != gpu.ClearColor|gpu.ClearDepth {
				t.Errorf("clears = %v, want one color+depth clear", be.Clears)
			}
			if len(be.IntClears) != len(tt.want) {
				t.Fatalf("int clears = %+v, want draw buffers %v", be.IntClears, tt.want)
			}
			for i, c := range be.IntClears {
				if c.DrawBuffer != tt.want[i] || c.Value != 0 || c.Framebuffer != f.Handle().ID {
					t.Errorf("int clear %d = %+v, want draw buffer %d of framebuffer %d", i, c, tt.want[i], f.Handle().ID)
				}
			}
		})
	}
}
