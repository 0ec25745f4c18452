package app

import (
	"context"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/voxelcore/internal/config"
	"github.com/Faultbox/voxelcore/internal/engine/camera"
	"github.com/Faultbox/voxelcore/internal/engine/debug"
	"github.com/Faultbox/voxelcore/internal/engine/framebuffer"
	"github.com/Faultbox/voxelcore/internal/engine/gpu"
	"github.com/Faultbox/voxelcore/internal/engine/lighting"
	"github.com/Faultbox/voxelcore/internal/engine/palette"
	"github.com/Faultbox/voxelcore/internal/engine/picking"
	"github.com/Faultbox/voxelcore/internal/engine/postfx"
	"github.com/Faultbox/voxelcore/internal/engine/renderer"
	"github.com/Faultbox/voxelcore/internal/engine/shadow"
	"github.com/Faultbox/voxelcore/internal/engine/texture"
	"github.com/Faultbox/voxelcore/internal/logger"
	"github.com/Faultbox/voxelcore/internal/world"
)

// Scene render targets: color, object id and depth.
var (
	colorTarget = gpu.ColorAttachment(0)
	idTarget    = gpu.ColorAttachment(1)
)

// sunLatitude is the fixed elevation of the sun in degrees.
const sunLatitude = 55

// Frame is the per-frame input to Scene.Render.
type Frame struct {
	// Elapsed is the time since start, fed to shaders.
	Elapsed time.Duration
	// DT is the frame time in seconds.
	DT float32
	// ScreenWidth and ScreenHeight size the default framebuffer.
	ScreenWidth, ScreenHeight int
}

// Scene owns everything drawn each frame. It is independent of the window so
// the frame can be driven through any gpu.Backend.
type Scene struct {
	be      gpu.Backend
	cfg     *config.Config
	palette palette.Palette

	renderer *renderer.Context
	props    *world.Props
	world    *world.World

	cam    *camera.Camera
	sunCam *camera.Camera
	sun    lighting.Sun
	shadow *shadow.Map

	target  *framebuffer.Framebuffer
	post    *postfx.Pass
	overlay *debug.Overlay

	selected *world.Placement
	log      *zap.Logger
}

// NewScene loads every GPU resource for cfg. width and height are the screen size in pixels.
func NewScene(be gpu.Backend, cfg *config.Config, width, height int) (_ *Scene, err error) {
	s := &Scene{
		be:      be,
		cfg:     cfg,
		palette: palette.DreamyHaze,
		sun:     lighting.Sun{Longitude: 30, Latitude: sunLatitude, DegreesPerSecond: cfg.Render.SunSpeed},
		log:     logger.Named("scene"),
	}
	defer func() {
		if err != nil {
			s.Close()
		}
	}()

	if len(cfg.Render.Palette) > 0 {
		if s.palette, err = palette.ParseHex(cfg.Render.Palette...); err != nil {
			return nil, fmt.Errorf("render.palette: %w", err)
		}
	}
	effect, err := postfx.ParseEffect(cfg.Render.PostEffect)
	if err != nil {
		return nil, fmt.Errorf("render.post_effect: %w", err)
	}

	if s.renderer, err = renderer.New(be, s.palette); err != nil {
		return nil, err
	}
	if s.post, err = postfx.New(be, effect); err != nil {
		return nil, err
	}
	if s.overlay, err = debug.NewOverlay(be); err != nil {
		return nil, err
	}

	if s.props, err = world.LoadProps(be, s.renderer, world.Extent(cfg.World.Radius)); err != nil {
		return nil, err
	}
	s.world = world.Generate(cfg.World.Seed, cfg.World.Radius, cfg.World.PropsPerChunk, s.props.Kinds)

	aspect := float32(width) / float32(max(height, 1))
	s.cam = camera.New(mgl32.Vec3{0, 4, 0}, mgl32.Vec3{0, 1, 0}, -90, -15, aspect)
	s.cam.Zoom = cfg.Camera.Zoom
	s.cam.Distance = cfg.Camera.Distance
	s.cam.Sensitivity = cfg.Camera.Sensitivity
	s.cam.Far = camera.FarPlane(world.ChunkSize, cfg.Render.DrawDistance)
	s.cam.Update()

	if cfg.Render.ShadowResolution > 0 {
		if s.shadow, err = shadow.NewMap(be, cfg.Render.ShadowResolution); err != nil {
			return nil, err
		}
		s.sunCam = shadow.NewSunCamera(s.sun.Direction(), 1, cfg.Render.ShadeOrthoSize)
	}

	lw, lh := s.lowRes(width, height)
	s.target, err = framebuffer.New(be,
		framebuffer.Color(0, texture.RGBA8(lw, lh, gpu.Nearest)),
		framebuffer.Color(1, texture.R32I(lw, lh, gpu.Nearest)),
		framebuffer.Depth(texture.Depth32(lw, lh, gpu.Nearest)),
	)
	if err != nil {
		return nil, fmt.Errorf("scene target: %w", err)
	}

	s.log.Info("scene ready",
		zap.Int("placements", s.world.Len()),
		zap.Int("chunks", len(s.world.Chunks)),
		zap.Float32("far", s.cam.Far),
		zap.Bool("shadows", s.shadow != nil),
		zap.String("effect", string(effect)),
		zap.Int("target_width", lw),
		zap.Int("target_height", lh),
	)
	return s, nil
}

func (s *Scene) lowRes(width, height int) (int, int) {
	scale := max(s.cfg.Graphics.LowResScale, 1)
	return max(width/scale, 1), max(height/scale, 1)
}

// Camera returns the viewer camera.
func (s *Scene) Camera() *camera.Camera { return s.cam }

// World returns the generated world.
func (s *Scene) World() *world.World { return s.world }

// Overlay returns the bounds overlay.
func (s *Scene) Overlay() *debug.Overlay { return s.overlay }

// Target returns the low-resolution scene framebuffer.
func (s *Scene) Target() *framebuffer.Framebuffer { return s.target }

// Selected returns the picked placement, if any.
func (s *Scene) Selected() (*world.Placement, bool) { return s.selected, s.selected != nil }

// Stats returns the renderer counters of the last frame.
func (s *Scene) Stats() renderer.Stats { return s.renderer.Stats() }

// Resize adapts the camera and scene target to a new screen size.
func (s *Scene) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.cam.Aspect = float32(width) / float32(height)
	lw, lh := s.lowRes(width, height)
	s.target.Resize(lw, lh)
	s.log.Debug("resized", zap.Int("width", lw), zap.Int("height", lh))
}

// Render draws one frame: the shade pass into the shadow map, the camera pass
// into the scene target and the post effect to the screen. The camera must
// already be updated for this frame.
func (s *Scene) Render(ctx context.Context, f Frame) error {
	s.renderer.BeginFrame(f.Elapsed)
	s.sun.Advance(f.DT)
	sunDir := s.sun.Direction()

	lights := renderer.Lighting{Sun: sunDir, LightVP: mgl32.Ident4()}
	if s.shadow != nil {
		if err := s.shadePass(ctx, sunDir); err != nil {
			return err
		}
		lights.LightVP = s.sunCam.VP
		lights.Shadow = s.shadow.Texture()
	}
	s.renderer.SetLighting(lights)

	if err := s.cameraPass(ctx); err != nil {
		return err
	}

	s.be.Viewport(0, 0, f.ScreenWidth, f.ScreenHeight)
	s.be.Clear(gpu.ClearColor|gpu.ClearDepth, mgl32.Vec4{0, 0, 0, 1})
	s.post.Draw(s.postUniforms())
	return nil
}

// shadePass draws shadow casters from the sun. Casters are culled with the
// viewer's shade frustum, which reaches past the view to catch shadows cast
// into it, and drawn with the sun camera.
func (s *Scene) shadePass(ctx context.Context, sunDir mgl32.Vec3) error {
	shadow.Aim(s.sunCam, sunDir)
	shadow.Follow(s.sunCam, s.cam.Position)

	batches, err := s.world.Cull(ctx, s.cam, camera.PassShade, s.cfg.World.Workers)
	if err != nil {
		return fmt.Errorf("shade pass: %w", err)
	}

	s.shadow.Bind()
	world.Submit(batches)
	s.renderer.DrawModel(s.props.Ground, camera.PassShade, s.sunCam, mgl32.Ident4(), 0)
	s.renderer.Flush(camera.PassShade, s.sunCam)
	s.shadow.Unbind()
	return nil
}

func (s *Scene) cameraPass(ctx context.Context) error {
	batches, err := s.world.Cull(ctx, s.cam, camera.PassCamera, s.cfg.World.Workers)
	if err != nil {
		return fmt.Errorf("camera pass: %w", err)
	}

	s.target.Bind()
	s.target.DrawBuffers(colorTarget, idTarget)
	sky := s.palette.At(10)
	s.target.Clear(mgl32.Vec4{sky[0], sky[1], sky[2], 1})

	world.Submit(batches)
	s.renderer.DrawModel(s.props.Ground, camera.PassCamera, s.cam, mgl32.Ident4(), 0)
	s.renderer.Flush(camera.PassCamera, s.cam)

	if s.overlay.Enabled {
		for i := range s.world.Chunks {
			if c := &s.world.Chunks[i]; len(c.Placements) > 0 && s.cam.TestBox(c.Box, camera.PassCamera) {
				s.overlay.Add(c.Box)
			}
		}
		if s.selected != nil {
			s.overlay.Add(s.selected.Box)
		}
		s.overlay.Draw(s.cam.VP)
	}

	s.target.Unbind()
	return nil
}

func (s *Scene) postUniforms() postfx.Uniforms {
	tex := s.target.TexAt(colorTarget)
	switch s.post.Effect() {
	case postfx.EffectDither:
		return postfx.Dither{Tex: tex, Palette: s.palette}
	case postfx.EffectCRT:
		_, h := tex.Size()
		return postfx.CRT{Tex: tex, Aspect: s.cam.Aspect, Lores: float32(h)}
	}
	return postfx.Blit{Tex: tex}
}

// Pick selects the placement under screen point (x, y). It returns false and
// clears the selection when nothing is hit.
func (s *Scene) Pick(x, y float32, width, height int) (*world.Placement, bool) {
	ray := picking.ScreenToRay(x, y, float32(width), float32(height), s.cam.InverseVP())
	s.selected, _ = s.world.Pick(ray)
	if s.selected == nil {
		if ground, ok := ray.IntersectPlaneY(0); ok {
			s.log.Debug("picked ground", zap.Float32s("at", ground[:]))
		}
		return nil, false
	}

	s.log.Info("picked placement",
		zap.Uint32("id", s.selected.ID),
		zap.String("kind", s.props.Kinds[s.selected.Kind].Name),
		zap.Float32s("at", s.selected.Position[:]),
	)
	return s.selected, true
}

// FocusSelected moves the camera pivot to the center of the selected
// placement. It reports false when nothing is selected.
func (s *Scene) FocusSelected() bool {
	if s.selected == nil {
		return false
	}
	s.cam.Position = s.selected.Box.Center()
	s.log.Debug("focused placement",
		zap.Uint32("id", s.selected.ID),
		zap.Float32s("pivot", s.cam.Position[:]),
	)
	return true
}

// Screenshot saves the scene target's color attachment.
func (s *Scene) Screenshot(sc *debug.ScreenshotCapture) (string, error) {
	return sc.Capture(s.target, colorTarget)
}

// Close releases every GPU resource. Safe on a partially built scene.
func (s *Scene) Close() {
	if s.target != nil {
		s.target.Destroy()
	}
	if s.shadow != nil {
		s.shadow.Destroy()
	}
	if s.overlay != nil {
		s.overlay.Delete()
	}
	if s.post != nil {
		s.post.Delete()
	}
	if s.props != nil {
		s.props.Delete(s.be)
	}
	if s.renderer != nil {
		s.renderer.Delete()
	}
}
