package config

import (
	"errors"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/taigrr/softrast/pkg/math3d"
	"github.com/taigrr/softrast/pkg/render"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "softrast.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	s, err := cfg.Settings()
	if err != nil {
		t.Fatal(err)
	}
	want := render.DefaultSettings()
	if s.ClearColor != want.ClearColor {
		t.Errorf("clear colour = %v, want %v", s.ClearColor, want.ClearColor)
	}
	if s.WireframeColor != want.WireframeColor || s.BoundingBoxColor != want.BoundingBoxColor {
		t.Errorf("overlay colours = %v %v", s.WireframeColor, s.BoundingBoxColor)
	}
	if s.Cull != want.Cull || s.Shading != want.Shading || s.View != want.View {
		t.Errorf("modes = %v %v %v", s.Cull, s.Shading, s.View)
	}
	if s.DepthRemap != want.DepthRemap {
		t.Errorf("depth remap = %v, want %v", s.DepthRemap, want.DepthRemap)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
fps: 60
workers: 4
render:
  cull: none
  shading: specular
  view: depth
  wireframe: true
  clear_color: "#102030"
light:
  direction: [0, 0, 2]
  intensity: 3
camera:
  position: [1, 2, 3]
  look_at: null
  yaw: 90
  pitch: 10
  fov: 90
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.FPS != 60 || cfg.Width != 320 {
		t.Errorf("fps/width = %d/%d, want 60/320", cfg.FPS, cfg.Width)
	}

	s, err := cfg.Settings()
	if err != nil {
		t.Fatal(err)
	}
	if s.Cull != render.CullNone || s.Shading != render.ShadingSpecular || s.View != render.VisualizeDepth {
		t.Errorf("modes = %v %v %v", s.Cull, s.Shading, s.View)
	}
	if !s.Wireframe {
		t.Error("wireframe not enabled")
	}
	if s.ClearColor != render.RGB(0x10, 0x20, 0x30) {
		t.Errorf("clear colour = %v", s.ClearColor)
	}
	if s.Light.Direction != math3d.V3(0, 0, 1) || s.Light.Intensity != 3 {
		t.Errorf("light = %+v", s.Light)
	}
	if s.Workers != 4 {
		t.Errorf("workers = %d, want 4", s.Workers)
	}

	cam := render.NewCamera()
	cfg.ApplyCamera(cam)
	if cam.Position != math3d.V3(1, 2, 3) {
		t.Errorf("camera position = %v", cam.Position)
	}
	if math.Abs(cam.Yaw-math.Pi/2) > 1e-12 || math.Abs(cam.FOV-math.Pi/2) > 1e-12 {
		t.Errorf("yaw/fov = %v/%v, want pi/2", cam.Yaw, cam.FOV)
	}
}

func TestApplyCameraLookAt(t *testing.T) {
	cfg := Default()
	cfg.Camera.Position = Vec3{0, 0, -4}
	cam := render.NewCamera()
	cam.SetRotation(0.3, 1)
	cfg.ApplyCamera(cam)

	if math.Abs(cam.Yaw) > 1e-12 || math.Abs(cam.Pitch) > 1e-12 {
		t.Errorf("yaw/pitch = %v/%v, want 0/0", cam.Yaw, cam.Pitch)
	}
}

func TestWorkersDefaultToCPUCount(t *testing.T) {
	cfg := Default()
	cfg.Workers = 0
	s, err := cfg.Settings()
	if err != nil {
		t.Fatal(err)
	}
	if s.Workers != runtime.NumCPU() {
		t.Errorf("workers = %d, want %d", s.Workers, runtime.NumCPU())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		mode   bool // also wraps render.ErrUnknownMode
	}{
		{"zero width", func(c *Config) { c.Width = 0 }, false},
		{"negative height", func(c *Config) { c.Height = -1 }, false},
		{"zero fps", func(c *Config) { c.FPS = 0 }, false},
		{"negative workers", func(c *Config) { c.Workers = -2 }, false},
		{"inverted remap", func(c *Config) { c.Render.DepthRemap = [2]float64{1, 0.9} }, false},
		{"zero light", func(c *Config) { c.Light.Direction = Vec3{} }, false},
		{"negative intensity", func(c *Config) { c.Light.Intensity = -1 }, false},
		{"near beyond far", func(c *Config) { c.Camera.Near = 200 }, false},
		{"zero near", func(c *Config) { c.Camera.Near = 0 }, false},
		{"wide fov", func(c *Config) { c.Camera.FOV = 180 }, false},
		{"bad colour", func(c *Config) { c.Render.ClearColor = "grey" }, false},
		{"bad cull", func(c *Config) { c.Render.Cull = "sideways" }, true},
		{"bad shading", func(c *Config) { c.Render.Shading = "toon" }, true},
		{"bad view", func(c *Config) { c.Render.View = "normals" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("Validate() = %v, want ErrInvalid", err)
			}
			if tt.mode && !errors.Is(err, render.ErrUnknownMode) {
				t.Errorf("Validate() = %v, want ErrUnknownMode", err)
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing file = %v, want fs.ErrNotExist", err)
	}

	if _, err := Load(writeConfig(t, "width: [1, 2")); err == nil {
		t.Error("expected parse error")
	}

	_, err = Load(writeConfig(t, "fps: -5\n"))
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("invalid file = %v, want ErrInvalid", err)
	}
}

func TestShippedConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "configs", "softrast.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := cfg.Settings(); err != nil {
		t.Fatal(err)
	}
}
