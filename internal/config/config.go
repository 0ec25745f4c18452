// Package config handles viewer configuration loading and management.
package config

import (
	"fmt"

	"go.uber.org/multierr"
)

// Config holds all viewer settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Camera   CameraConfig   `yaml:"camera"`
	Render   RenderConfig   `yaml:"render"`
	World    WorldConfig    `yaml:"world"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	// LowResScale divides the window size to get the size of the scene target.
	LowResScale int `yaml:"low_res_scale"`
}

// CameraConfig holds camera settings.
type CameraConfig struct {
	Zoom        float32 `yaml:"zoom"`
	Distance    float32 `yaml:"distance"`
	Sensitivity float32 `yaml:"sensitivity"`
}

// RenderConfig holds renderer settings.
type RenderConfig struct {
	// DrawDistance is measured in chunks.
	DrawDistance     float32  `yaml:"draw_distance"`
	ShadowResolution int      `yaml:"shadow_resolution"`
	ShadeOrthoSize   float32  `yaml:"shade_ortho_size"`
	Palette          []string `yaml:"palette"`
	PostEffect       string   `yaml:"post_effect"`
	// SunSpeed is the sun's longitude change in degrees per second.
	SunSpeed float32 `yaml:"sun_speed"`
}

// WorldConfig holds world generation settings.
type WorldConfig struct {
	Seed          uint64 `yaml:"seed"`
	Radius        int    `yaml:"radius"`
	PropsPerChunk int    `yaml:"props_per_chunk"`
	// Workers bounds the culling goroutines; 0 uses GOMAXPROCS.
	Workers int `yaml:"workers"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
	Console bool   `yaml:"console"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:       1280,
			Height:      720,
			Fullscreen:  false,
			VSync:       true,
			LowResScale: 4,
		},
		Camera: CameraConfig{
			Zoom:        45,
			Distance:    10,
			Sensitivity: 1,
		},
		Render: RenderConfig{
			DrawDistance:     12,
			ShadowResolution: 2048,
			ShadeOrthoSize:   64,
			PostEffect:       "dither",
			SunSpeed:         2,
		},
		World: WorldConfig{
			Seed:          1,
			Radius:        4,
			PropsPerChunk: 24,
			Workers:       0,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
			Console: true,
		},
	}
}

// Validate reports every out-of-range setting.
func (c *Config) Validate() error {
	var err error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			err = multierr.Append(err, fmt.Errorf(format, args...))
		}
	}

	check(c.Graphics.Width > 0 && c.Graphics.Height > 0,
		"graphics: size %dx%d must be positive", c.Graphics.Width, c.Graphics.Height)
	check(c.Graphics.LowResScale >= 1, "graphics: low_res_scale %d must be at least 1", c.Graphics.LowResScale)
	check(c.Camera.Zoom > 0 && c.Camera.Zoom < 180, "camera: zoom %v must be in (0, 180)", c.Camera.Zoom)
	check(c.Camera.Sensitivity > 0, "camera: sensitivity %v must be positive", c.Camera.Sensitivity)
	check(c.Render.DrawDistance > 0, "render: draw_distance %v must be positive", c.Render.DrawDistance)
	check(c.Render.ShadowResolution >= 0, "render: shadow_resolution %d must not be negative", c.Render.ShadowResolution)
	check(c.Render.ShadeOrthoSize > 0, "render: shade_ortho_size %v must be positive", c.Render.ShadeOrthoSize)
	check(c.World.Radius >= 0, "world: radius %d must not be negative", c.World.Radius)
	check(c.World.PropsPerChunk >= 0, "world: props_per_chunk %d must not be negative", c.World.PropsPerChunk)

	return err
}
