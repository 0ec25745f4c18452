// Package app runs the viewer: window, input and the per-frame render loop.
package app

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/voxelcore/internal/config"
	"github.com/Faultbox/voxelcore/internal/engine/camera"
	"github.com/Faultbox/voxelcore/internal/engine/debug"
	"github.com/Faultbox/voxelcore/internal/engine/gpu/opengl"
	"github.com/Faultbox/voxelcore/internal/engine/input"
	"github.com/Faultbox/voxelcore/internal/engine/window"
	"github.com/Faultbox/voxelcore/internal/logger"
)

// MoveSpeed is the camera pan speed in world units per second.
const MoveSpeed = 12

// App is the viewer instance.
type App struct {
	cfg   *config.Config
	win   *window.Window
	in    *input.Input
	scene *Scene
	shots *debug.ScreenshotCapture
}

// New opens the window and loads the scene.
func New(cfg *config.Config) (*App, error) {
	a := &App{cfg: cfg}

	var err error
	a.win, err = window.New(window.Config{
		Title:      "voxelcore",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// The backend needs the GL context the window just created.
	be, err := opengl.New()
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to init OpenGL: %w", err)
	}

	width, height := a.win.DrawableSize()
	if a.scene, err = NewScene(be, cfg, width, height); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to load scene: %w", err)
	}

	a.in = input.New()
	a.shots = debug.NewScreenshotCapture(filepath.Join(config.ConfigDir(), "screenshots"), "voxelcore")
	return a, nil
}

// Run drives frames until the window closes, Esc is pressed or ctx is done.
func (a *App) Run(ctx context.Context) error {
	start := time.Now()
	last := start
	frames := 0
	fpsTimer := start

	logger.Info("starting render loop")
	for ctx.Err() == nil {
		now := time.Now()
		dt := float32(now.Sub(last).Seconds())
		last = now

		if a.in.Update() {
			break
		}
		state := a.in.State
		shoot := a.handleActions(state)

		width, height := a.win.DrawableSize()
		if state.Resized {
			a.scene.Resize(width, height)
		}
		a.pick(state, width, height)

		cam := a.scene.Camera()
		a.move(cam, state, dt)
		cam.Tick(a.in.Cursor(), state.Captured)
		cam.Update()

		if err := a.scene.Render(ctx, Frame{
			Elapsed:      now.Sub(start),
			DT:           dt,
			ScreenWidth:  width,
			ScreenHeight: height,
		}); err != nil {
			return fmt.Errorf("render error: %w", err)
		}

		if shoot {
			if path, err := a.scene.Screenshot(a.shots); err != nil {
				logger.Warn("screenshot failed", zap.Error(err))
			} else {
				logger.Info("screenshot saved", zap.String("path", path))
			}
		}

		a.win.SwapBuffers()

		frames++
		if time.Since(fpsTimer) >= time.Second {
			stats := a.scene.Stats()
			logger.Debug("fps",
				zap.Int("count", frames),
				zap.Int("triangles", stats.Triangles),
				zap.Int("draw_calls", stats.DrawCalls),
				zap.Int("instances", stats.Instances),
			)
			a.win.SetTitle(fmt.Sprintf("voxelcore - %d fps, %d tris", frames, stats.Triangles))
			frames = 0
			fpsTimer = time.Now()
		}
	}
	return nil
}

// handleActions applies key actions and reports whether a screenshot was requested.
func (a *App) handleActions(state *input.State) (screenshot bool) {
	for _, act := range state.Actions {
		switch act {
		case input.ActionToggleCapture:
			a.in.ToggleCapture()
			logger.Debug("mouse capture", zap.Bool("captured", state.Captured))
		case input.ActionToggleBounds:
			a.scene.Overlay().Enabled = !a.scene.Overlay().Enabled
		case input.ActionScreenshot:
			screenshot = true
		case input.ActionFocus:
			a.scene.FocusSelected()
		}
	}
	return screenshot
}

// pick handles left clicks. While captured the cursor is hidden, so the
// screen center is picked.
func (a *App) pick(state *input.State, width, height int) {
	sw, sh := a.win.Size()
	for _, click := range state.Clicks {
		x, y := click.X()*float32(width)/float32(sw), click.Y()*float32(height)/float32(sh)
		if state.Captured {
			x, y = float32(width)/2, float32(height)/2
		}
		a.scene.Pick(x, y, width, height)
	}
}

// move pans the camera on the ground plane with WASD.
func (a *App) move(cam *camera.Camera, state *input.State, dt float32) {
	forward := state.Axis(sdl.SCANCODE_S, sdl.SCANCODE_W)
	strafe := state.Axis(sdl.SCANCODE_A, sdl.SCANCODE_D)
	if forward == 0 && strafe == 0 {
		return
	}

	front := mgl32.Vec3{cam.Front.X(), 0, cam.Front.Z()}
	right := mgl32.Vec3{cam.Right.X(), 0, cam.Right.Z()}
	if front.Len() > 0 {
		front = front.Normalize()
	}
	if right.Len() > 0 {
		right = right.Normalize()
	}
	step := front.Mul(forward).Add(right.Mul(strafe))
	cam.Position = cam.Position.Add(step.Normalize().Mul(MoveSpeed * dt))
}

// Close releases the scene and the window.
func (a *App) Close() {
	logger.Info("closing viewer")
	if a.scene != nil {
		a.scene.Close()
	}
	if a.win != nil {
		a.win.Close()
	}
}
