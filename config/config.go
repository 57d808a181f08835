// Package config holds the settings for a render run, loaded from YAML or
// JSON.
package config

import (
	"fmt"
	"os"

	"spheretrace/camera"
	"spheretrace/render"
	"spheretrace/scene"

	"sigs.k8s.io/yaml"
)

type Config struct {
	Width           int `json:"width"`
	Height          int `json:"height"`
	SamplesPerPixel int `json:"samplesPerPixel"`
	MaxDepth        int `json:"maxDepth"`

	// Workers, RowsPerTask and ResultDepth tune the render pool.  Zero picks
	// a default.
	Workers     int `json:"workers,omitempty"`
	RowsPerTask int `json:"rowsPerTask,omitempty"`
	ResultDepth int `json:"resultDepth,omitempty"`

	// Seed drives sampling; SceneSeed drives scene generation.
	Seed      int64  `json:"seed"`
	Scene     string `json:"scene"`
	SceneSeed int64  `json:"sceneSeed"`

	// Camera overrides the scene's own camera.  Its aspect ratio is ignored;
	// the image dimensions decide it.
	Camera *camera.Config `json:"camera,omitempty"`

	// Frames > 1 renders an animation, swinging the camera OrbitDegrees
	// around the look-at point between frames.
	Frames       int     `json:"frames"`
	OrbitDegrees float64 `json:"orbitDegrees"`
}

func Default() *Config {
	return &Config{
		Width:           400,
		Height:          225,
		SamplesPerPixel: 100,
		MaxDepth:        50,
		Seed:            1,
		Scene:           "random-spheres",
		SceneSeed:       1,
		Frames:          1,
	}
}

// Load reads a config file on top of the defaults.  Unknown fields are an
// error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("while reading config file: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("while loading %s: %w", path, err)
	}
	return cfg, nil
}

func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("while parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := c.RenderOptions().Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Frames < 1 {
		return fmt.Errorf("invalid config: frames must be at least 1, got %d", c.Frames)
	}
	if _, err := scene.Lookup(c.Scene); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.CameraConfig(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c *Config) RenderOptions() render.Options {
	return render.Options{
		Width:           c.Width,
		Height:          c.Height,
		SamplesPerPixel: c.SamplesPerPixel,
		MaxDepth:        c.MaxDepth,
		Workers:         c.Workers,
		RowsPerTask:     c.RowsPerTask,
		ResultDepth:     c.ResultDepth,
		Seed:            c.Seed,
	}
}

// CameraConfig is the explicit camera if there is one, or else the scene's
// own, with the aspect ratio taken from the image size.
func (c *Config) CameraConfig() (camera.Config, error) {
	var cc camera.Config
	if c.Camera != nil {
		cc = *c.Camera
	} else {
		p, err := scene.Lookup(c.Scene)
		if err != nil {
			return camera.Config{}, err
		}
		cc = p.Camera
	}
	if c.Height > 0 {
		cc.AspectRatio = float64(c.Width) / float64(c.Height)
	}
	if err := cc.Validate(); err != nil {
		return camera.Config{}, fmt.Errorf("bad camera: %w", err)
	}
	return cc, nil
}

func (c *Config) BuildScene() (*scene.Scene, error) {
	p, err := scene.Lookup(c.Scene)
	if err != nil {
		return nil, err
	}
	return p.Build(c.SceneSeed), nil
}
