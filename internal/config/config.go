// Package config loads the viewer and renderer settings from YAML.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"runtime"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/taigrr/softrast/pkg/math3d"
	"github.com/taigrr/softrast/pkg/render"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid config")

// Vec3 is a YAML triple such as [0, 1, 0].
type Vec3 [3]float64

// V returns v as a math3d vector.
func (v Vec3) V() math3d.Vec3 {
	return math3d.V3(v[0], v[1], v[2])
}

// Config is the full configuration file.
type Config struct {
	// Width and Height are the headless framebuffer size in pixels. The
	// viewer sizes its framebuffer from the terminal instead.
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	FPS    int `yaml:"fps"`
	// Workers is the goroutine count per frame; 0 means one per CPU.
	Workers int `yaml:"workers"`

	Model     string  `yaml:"model"`
	Texture   string  `yaml:"texture"`
	SpinSpeed float64 `yaml:"spin_speed"` // radians per second

	Render RenderConfig `yaml:"render"`
	Light  LightConfig  `yaml:"light"`
	Camera CameraConfig `yaml:"camera"`
}

// RenderConfig mirrors render.Settings with names instead of enums.
type RenderConfig struct {
	Cull          string `yaml:"cull"`
	Shading       string `yaml:"shading"`
	NormalMapping bool   `yaml:"normal_mapping"`
	View          string `yaml:"view"`
	Wireframe     bool   `yaml:"wireframe"`

	ClearColor       string     `yaml:"clear_color"`
	WireframeColor   string     `yaml:"wireframe_color"`
	BoundingBoxColor string     `yaml:"bbox_color"`
	DepthRemap       [2]float64 `yaml:"depth_remap"`
}

// LightConfig describes the directional light.
type LightConfig struct {
	Direction Vec3    `yaml:"direction"`
	Intensity float64 `yaml:"intensity"`
}

// CameraConfig places the camera. Angles are in degrees. When LookAt is
// set it overrides Yaw and Pitch.
type CameraConfig struct {
	Position Vec3    `yaml:"position"`
	LookAt   *Vec3   `yaml:"look_at,omitempty"`
	Yaw      float64 `yaml:"yaw"`
	Pitch    float64 `yaml:"pitch"`
	FOV      float64 `yaml:"fov"`
	Near     float64 `yaml:"near"`
	Far      float64 `yaml:"far"`
}

// Default returns the built-in configuration.
func Default() *Config {
	d := render.DefaultSettings()
	return &Config{
		Width:     320,
		Height:    180,
		FPS:       30,
		Workers:   1,
		SpinSpeed: 0.8,
		Render: RenderConfig{
			Cull:             d.Cull.String(),
			Shading:          d.Shading.String(),
			NormalMapping:    d.NormalMapping,
			View:             d.View.String(),
			ClearColor:       "#636363",
			WireframeColor:   "#ffff00",
			BoundingBoxColor: "#ffffff",
			DepthRemap:       [2]float64{d.DepthRemap.Min, d.DepthRemap.Max},
		},
		Light: LightConfig{
			Direction: Vec3{d.Light.Direction.X, d.Light.Direction.Y, d.Light.Direction.Z},
			Intensity: d.Light.Intensity,
		},
		Camera: CameraConfig{
			Position: Vec3{0, 0.75, -4},
			LookAt:   &Vec3{0, 0, 0},
			FOV:      60,
			Near:     0.1,
			Far:      100,
		},
	}
}

// Load reads path over the defaults and validates the result. Keys missing
// from the file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks ranges and parses every name and colour.
func (c *Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: size %dx%d must be positive", ErrInvalid, c.Width, c.Height)
	case c.FPS <= 0:
		return fmt.Errorf("%w: fps %d must be positive", ErrInvalid, c.FPS)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers %d must not be negative", ErrInvalid, c.Workers)
	case c.Render.DepthRemap[0] >= c.Render.DepthRemap[1]:
		return fmt.Errorf("%w: depth remap %v is empty or inverted", ErrInvalid, c.Render.DepthRemap)
	case c.Light.Direction.V().LenSq() == 0:
		return fmt.Errorf("%w: light direction is zero", ErrInvalid)
	case c.Light.Intensity < 0:
		return fmt.Errorf("%w: light intensity %v is negative", ErrInvalid, c.Light.Intensity)
	case c.Camera.Near <= 0 || c.Camera.Near >= c.Camera.Far:
		return fmt.Errorf("%w: clip planes near %v far %v", ErrInvalid, c.Camera.Near, c.Camera.Far)
	case c.Camera.FOV <= 0 || c.Camera.FOV >= 180:
		return fmt.Errorf("%w: fov %v outside (0, 180)", ErrInvalid, c.Camera.FOV)
	}

	if _, err := c.Settings(); err != nil {
		return err
	}
	return nil
}

// Settings converts the render section into renderer settings.
func (c *Config) Settings() (render.Settings, error) {
	s := render.DefaultSettings()
	var err error

	if s.Cull, err = render.ParseCullMode(c.Render.Cull); err != nil {
		return s, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if s.Shading, err = render.ParseShadingMode(c.Render.Shading); err != nil {
		return s, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if s.View, err = render.ParseVisualization(c.Render.View); err != nil {
		return s, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if s.ClearColor, err = parseColor("clear_color", c.Render.ClearColor); err != nil {
		return s, err
	}
	if s.WireframeColor, err = parseColor("wireframe_color", c.Render.WireframeColor); err != nil {
		return s, err
	}
	if s.BoundingBoxColor, err = parseColor("bbox_color", c.Render.BoundingBoxColor); err != nil {
		return s, err
	}

	s.NormalMapping = c.Render.NormalMapping
	s.Wireframe = c.Render.Wireframe
	s.DepthRemap = render.DepthRemap{Min: c.Render.DepthRemap[0], Max: c.Render.DepthRemap[1]}
	s.Light = render.Light{
		Direction: c.Light.Direction.V().Normalize(),
		Intensity: c.Light.Intensity,
	}
	s.Workers = c.Workers
	if s.Workers == 0 {
		s.Workers = runtime.NumCPU()
	}
	return s, nil
}

// ApplyCamera copies the camera section onto cam.
func (c *Config) ApplyCamera(cam *render.Camera) {
	cam.SetPosition(c.Camera.Position.V())
	cam.SetFOV(c.Camera.FOV * math.Pi / 180)
	cam.SetClipPlanes(c.Camera.Near, c.Camera.Far)
	if c.Camera.LookAt != nil {
		cam.LookAt(c.Camera.LookAt.V())
		return
	}
	cam.SetRotation(c.Camera.Pitch*math.Pi/180, c.Camera.Yaw*math.Pi/180)
}

func parseColor(field, hex string) (render.Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return render.Color{}, fmt.Errorf("%w: %s: %w", ErrInvalid, field, err)
	}
	r, g, b := c.RGB255()
	return render.RGB(r, g, b), nil
}
