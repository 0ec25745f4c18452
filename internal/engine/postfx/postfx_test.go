package postfx

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/voxelcore/internal/engine/gpu"
	"github.com/Faultbox/voxelcore/internal/engine/gpu/gputest"
	"github.com/Faultbox/voxelcore/internal/engine/palette"
	"github.com/Faultbox/voxelcore/internal/engine/texture"
)

func TestParseEffect(t *testing.T) {
	tests := []struct {
		in      string
		want    Effect
		wantErr bool
	}{
		{"", EffectBlit, false},
		{"blit", EffectBlit, false},
		{"dither", EffectDither, false},
		{"crt", EffectCRT, false},
		{"bloom", "", true},
	}
	for _, tt := range tests {
		got, err := ParseEffect(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseEffect(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseEffect(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestQuad(t *testing.T) {
	be := gputest.New()
	q := NewQuad(be)

	if len(be.Uploads) != 1 || be.Uploads[0].Size != 8*4 {
		t.Fatalf("uploads = %+v, want one 32-byte upload", be.Uploads)
	}
	q.Draw()
	d := be.Draws[0]
	if d.Mode != gpu.TriangleStrip || d.Count != 4 || d.Indexed {
		t.Errorf("draw = %+v", d)
	}

	q.Delete()
	if len(be.VertexArrays) != 0 {
		t.Error("vertex array not deleted")
	}
}

func TestBlit(t *testing.T) {
	be := gputest.New()
	p, err := New(be, EffectBlit)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	tex := texture.New(be, texture.RGBA8(320, 180, gpu.Nearest))

	p.Draw(Blit{Tex: tex, Unit: 2})

	d := be.Draws[0]
	if d.Uniforms["u_tex"] != int32(2) {
		t.Errorf("u_tex = %v, want 2", d.Uniforms["u_tex"])
	}
	if be.BoundTextures[2] != tex.Handle().ID {
		t.Error("texture not bound to unit 2")
	}
	if d.Program != p.Program().ID() {
		t.Error("effect program not bound")
	}
	if !be.DepthTest {
		t.Error("depth test not restored")
	}
}

func TestDither(t *testing.T) {
	be := gputest.New()
	p, err := New(be, EffectDither)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	tex := texture.New(be, texture.RGBA8(4, 4, gpu.Nearest))

	big := make(palette.Palette, 40)
	for i := range big {
		big[i] = mgl32.Vec3{float32(i) / 40, 0, 0}
	}

	tests := []struct {
		name string
		pal  palette.Palette
		want int32
	}{
		{"default", palette.DreamyHaze, int32(len(palette.DreamyHaze))},
		{"truncated", big, MaxPalette},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			be.Reset()
			p.Draw(Dither{Tex: tex, Palette: tt.pal})
			d := be.Draws[0]
			if d.Uniforms["u_pal_size"] != tt.want {
				t.Errorf("u_pal_size = %v, want %d", d.Uniforms["u_pal_size"], tt.want)
			}
			pal, _ := d.Uniforms["u_pal"].([]mgl32.Vec3)
			if int32(len(pal)) != tt.want {
				t.Errorf("len(u_pal) = %d, want %d", len(pal), tt.want)
			}
		})
	}
}

func TestCRT(t *testing.T) {
	be := gputest.New()
	p, err := New(be, EffectCRT)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	tex := texture.New(be, texture.RGBA8(320, 180, gpu.Nearest))

	p.Draw(CRT{Tex: tex, Aspect: 16.0 / 9.0, Lores: 180})

	d := be.Draws[0]
	if d.Uniforms["u_aspect"] != float32(16.0/9.0) || d.Uniforms["u_lores"] != float32(180) {
		t.Errorf("uniforms = %v", d.Uniforms)
	}
	if d.Uniforms["u_tex0"] != int32(0) {
		t.Errorf("u_tex0 = %v", d.Uniforms["u_tex0"])
	}
}
