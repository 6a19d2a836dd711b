// softrast - software triangle rasterizer
// Renders glTF/GLB models, or a built-in demo scene, with a CPU pipeline
// into the terminal or into PNG frames.
//
// Viewer controls:
//
//	F2          - Toggle normal mapping
//	F3          - Cycle cull mode (back, front, none)
//	F4          - Cycle shading mode
//	F5          - Toggle depth view
//	F6          - Toggle bounding-box view
//	F7          - Toggle wireframe overlay
//	F8          - Toggle parallel rendering
//	F11         - Toggle FPS line
//	W/A/S/D     - Move camera
//	Arrows      - Turn camera
//	Space       - Pause spin
//	Esc         - Quit
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/taigrr/softrast/internal/config"
	"github.com/taigrr/softrast/pkg/models"
	"github.com/taigrr/softrast/pkg/render"
	"github.com/taigrr/softrast/pkg/resource"
	"github.com/taigrr/softrast/pkg/scene"
)

// options are the flags shared by every subcommand.
type options struct {
	configPath string
	logLevel   string
	logFile    string

	texture string
	workers int
	fps     int
}

func main() {
	opts := &options{}

	root := &cobra.Command{
		Use:   "softrast",
		Short: "Software triangle rasterizer",
		Long: "softrast draws glTF/GLB models with a CPU rasterization pipeline,\n" +
			"either live in the terminal or as PNG frames.",
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "YAML config file")
	pf.StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.StringVar(&opts.logFile, "log-file", "", "write logs to this file")
	pf.StringVarP(&opts.texture, "texture", "t", "", "diffuse texture overriding the model's")
	pf.IntVarP(&opts.workers, "workers", "w", 1, "goroutines per frame (0 = one per CPU)")
	pf.IntVar(&opts.fps, "fps", 30, "target frames per second")

	root.AddCommand(newViewCommand(opts), newRenderCommand(opts))

	if err := fang.Execute(context.Background(), root); err != nil {
		os.Exit(1)
	}
}

// load reads the config file, if any, and applies flags the user set.
func (o *options) load(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("texture") {
		cfg.Texture = o.texture
	}
	if flags.Changed("workers") {
		cfg.Workers = o.workers
	}
	if flags.Changed("fps") {
		cfg.FPS = o.fps
	}
	if len(args) > 0 {
		cfg.Model = args[0]
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setupLogging installs a text logger writing to the log file, or to
// fallback when no file is set. The returned closer is never nil.
func (o *options) setupLogging(fallback io.Writer) (io.Closer, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(o.logLevel)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	w := fallback
	var closer io.Closer = io.NopCloser(nil)
	if o.logFile != "" {
		f, err := os.OpenFile(o.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		w, closer = f, f
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	render.SetLogger(logger)
	return closer, nil
}

// buildScene loads the configured model, or the demo scene when none is
// set, and returns the meshes the spinner turns.
func buildScene(cfg *config.Config, reg *resource.Registry, cam *render.Camera) (*scene.Scene, []*models.Mesh, error) {
	if cfg.Model == "" {
		s := scene.Demo(reg, cam)
		cube, _ := s.Find(scene.CubeName)
		return s, []*models.Mesh{cube}, nil
	}

	s, err := scene.FromModel(reg, cam, cfg.Model, cfg.Texture)
	if err != nil {
		return nil, nil, err
	}
	return s, s.Meshes(), nil
}
