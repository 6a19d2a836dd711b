package main

import (
	"context"
	"fmt"
	"image/color"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"

	"github.com/taigrr/softrast/internal/config"
	"github.com/taigrr/softrast/pkg/render"
	"github.com/taigrr/softrast/pkg/resource"
	"github.com/taigrr/softrast/pkg/scene"
)

const (
	moveStep = 0.15 // world units per key press
	turnStep = 0.05 // radians per key press
)

func newViewCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "view [model.glb]",
		Short: "Show a model in the terminal",
		Long: "Render a glTF/GLB model, or the demo scene when none is given,\n" +
			"live in the terminal using half-block characters.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd, args)
			if err != nil {
				return err
			}
			// The terminal is the display, so logs only go to a file.
			closer, err := opts.setupLogging(io.Discard)
			if err != nil {
				return err
			}
			defer closer.Close()

			return runView(cmd.Context(), cfg)
		},
	}
}

// HUD draws one status line over the top row of the frame.
type HUD struct {
	title     string
	polyCount int
	show      bool

	fps       float64
	fpsFrames int
	fpsTime   time.Time
}

// NewHUD creates a hidden HUD.
func NewHUD(title string, polyCount int) *HUD {
	return &HUD{
		title:     title,
		polyCount: polyCount,
		fpsTime:   time.Now(),
	}
}

// UpdateFPS updates the FPS counter (call once per frame)
func (h *HUD) UpdateFPS() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

// Line formats the status text for the current frame.
func (h *HUD) Line(r *render.Rasterizer) string {
	s := r.Settings
	return fmt.Sprintf(" %.0f FPS | %s | %d polys | %d drawn | cull %s | %s | view %s | workers %d ",
		h.fps, h.title, h.polyCount, r.Stats.Rasterized, s.Cull, s.Shading, s.View, s.Workers)
}

// Draw writes the status line into row 0 of scr.
func (h *HUD) Draw(scr uv.Screen, width int, r *render.Rasterizer) {
	if !h.show {
		return
	}
	style := uv.Style{Fg: color.RGBA{0, 255, 128, 255}, Bg: color.RGBA{0, 0, 0, 255}}
	x := 0
	for _, ch := range h.Line(r) {
		if x >= width {
			break
		}
		scr.SetCell(x, 0, &uv.Cell{Content: string(ch), Width: 1, Style: style})
		x++
	}
}

// viewer is the interactive state driven by key presses.
type viewer struct {
	rast    *render.Rasterizer
	camera  *render.Camera
	spin    *scene.Spinner
	hud     *HUD
	workers int
}

// handleKey applies one key press. It reports false when the viewer
// should quit.
func (v *viewer) handleKey(ev uv.KeyPressEvent) bool {
	switch {
	case ev.MatchString("escape", "ctrl+c"):
		return false
	case ev.MatchString("f2"):
		v.rast.ToggleNormalMapping()
	case ev.MatchString("f3"):
		v.rast.CycleCullMode()
	case ev.MatchString("f4"):
		v.rast.CycleShadingMode()
	case ev.MatchString("f5"):
		v.rast.ToggleDepthView()
	case ev.MatchString("f6"):
		v.rast.ToggleBoundingBoxView()
	case ev.MatchString("f7"):
		v.rast.ToggleWireframe()
	case ev.MatchString("f8"):
		if v.rast.Settings.Workers > 1 {
			v.rast.SetWorkers(1)
		} else {
			v.rast.SetWorkers(v.workers)
		}
	case ev.MatchString("f11"):
		v.hud.show = !v.hud.show
	case ev.MatchString("w"):
		v.camera.MoveForward(moveStep)
	case ev.MatchString("s"):
		v.camera.MoveForward(-moveStep)
	case ev.MatchString("a"):
		v.camera.MoveRight(-moveStep)
	case ev.MatchString("d"):
		v.camera.MoveRight(moveStep)
	case ev.MatchString("up"):
		v.camera.Rotate(turnStep, 0)
	case ev.MatchString("down"):
		v.camera.Rotate(-turnStep, 0)
	case ev.MatchString("left"):
		v.camera.Rotate(0, -turnStep)
	case ev.MatchString("right"):
		v.camera.Rotate(0, turnStep)
	case ev.MatchString("space"):
		v.spin.TogglePause()
	}
	return true
}

func runView(ctx context.Context, cfg *config.Config) error {
	settings, err := cfg.Settings()
	if err != nil {
		return err
	}

	reg := resource.NewRegistry()
	camera := render.NewCamera()
	cfg.ApplyCamera(camera)

	sc, spinning, err := buildScene(cfg, reg, camera)
	if err != nil {
		return err
	}
	title := "demo"
	if cfg.Model != "" {
		title = filepath.Base(cfg.Model)
	}

	// Create terminal
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	// Each terminal cell shows two framebuffer rows.
	fb := render.NewFramebuffer(width, height*2)
	camera.SetAspectRatio(float64(width) / float64(height*2))
	rast := render.NewRasterizer(fb, reg, reg, settings)

	workers := settings.Workers
	if workers <= 1 {
		workers = runtime.NumCPU()
	}
	v := &viewer{
		rast:    rast,
		camera:  camera,
		spin:    scene.NewSpinner(cfg.FPS, cfg.SpinSpeed),
		hud:     NewHUD(title, sc.TriangleCount()),
		workers: workers,
	}

	// Context for clean shutdown
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cleanup := func() {
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}
	defer cleanup()

	events := term.Events()
	targetDuration := time.Second / time.Duration(cfg.FPS)

	for {
		now := time.Now()

		// Drain input before drawing so state only changes between frames.
	drain:
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev, ok := <-events:
				if !ok {
					return nil
				}
				switch ev := ev.(type) {
				case uv.WindowSizeEvent:
					width, height = ev.Width, ev.Height
					term.Erase()
					term.Resize(width, height)
					rast.Resize(width, height*2)
					camera.SetAspectRatio(float64(width) / float64(height*2))
				case uv.KeyPressEvent:
					if !v.handleKey(ev) {
						return nil
					}
				}
			default:
				break drain
			}
		}

		v.spin.Step(spinning...)

		frame, err := rast.Render(sc)
		if err != nil {
			return err
		}

		// Display
		area := uv.Rect(0, 0, width, height)
		frame.Draw(term, area)
		v.hud.UpdateFPS()
		v.hud.Draw(term, width, rast)
		if err := term.Display(); err != nil {
			return fmt.Errorf("display: %w", err)
		}

		// Frame timing
		elapsed := time.Since(now)
		if elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}
