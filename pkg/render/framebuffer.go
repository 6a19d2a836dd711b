// Package render implements the softrast software rasterization pipeline:
// camera, vertex stage, near-plane clipping, edge-function rasterization
// with perspective-correct interpolation, depth testing and pixel shading.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
)

// Framebuffer holds the color and depth targets of a frame. Presented in a
// terminal, each cell shows two pixel rows using half-block characters, so
// Height is typically twice the terminal rows.
type Framebuffer struct {
	Width  int          // Width in pixels
	Height int          // Height in pixels
	Pixels []color.RGBA // Row-major pixel data
	Depth  []float64    // Row-major depth, +Inf where nothing was written
}

// NewFramebuffer creates a new framebuffer with the given dimensions.
func NewFramebuffer(width, height int) *Framebuffer {
	fb := &Framebuffer{}
	fb.Resize(width, height)
	return fb
}

// Resize reallocates both targets if the dimensions changed.
func (fb *Framebuffer) Resize(width, height int) {
	if width == fb.Width && height == fb.Height && fb.Pixels != nil {
		return
	}
	fb.Width = width
	fb.Height = height
	fb.Pixels = make([]color.RGBA, width*height)
	fb.Depth = make([]float64, width*height)
	fb.ClearDepth()
}

// Clear resets the color target to c and the depth target to +Inf.
func (fb *Framebuffer) Clear(c color.RGBA) {
	n := len(fb.Pixels)
	if n > 0 {
		// copy-doubling fill
		fb.Pixels[0] = c
		for i := 1; i < n; i *= 2 {
			copy(fb.Pixels[i:], fb.Pixels[:i])
		}
	}
	fb.ClearDepth()
}

// ClearDepth resets the depth target to +Inf.
func (fb *Framebuffer) ClearDepth() {
	n := len(fb.Depth)
	if n == 0 {
		return
	}
	fb.Depth[0] = math.Inf(1)
	for i := 1; i < n; i *= 2 {
		copy(fb.Depth[i:], fb.Depth[:i])
	}
}

// SetPixel sets a pixel at (x, y) to the given color.
// Bounds checking is performed.
func (fb *Framebuffer) SetPixel(x, y int, c color.RGBA) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// GetPixel returns the color at (x, y).
// Returns transparent black if out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) color.RGBA {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return color.RGBA{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// DepthAt returns the stored depth at (x, y), or +Inf if out of bounds.
func (fb *Framebuffer) DepthAt(x, y int) float64 {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return math.Inf(1)
	}
	return fb.Depth[y*fb.Width+x]
}

// DrawLine draws a line from (x0, y0) to (x1, y1) using Bresenham's
// algorithm, ignoring depth.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, c color.RGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		fb.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ToImage converts the framebuffer to a standard Go image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := range fb.Height {
		for x := range fb.Width {
			img.SetRGBA(x, y, fb.Pixels[y*fb.Width+x])
		}
	}
	return img
}

// SavePNG saves the framebuffer as a PNG file.
func (fb *Framebuffer) SavePNG(path string) error {
	return SaveImagePNG(fb.ToImage(), path)
}

// SaveImagePNG encodes img to path.
func SaveImagePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
