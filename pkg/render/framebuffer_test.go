package render

import (
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestFramebufferClear(t *testing.T) {
	fb := NewFramebuffer(7, 5)
	fb.SetPixel(3, 3, ColorRed)
	fb.Depth[10] = 0.5

	fb.Clear(ColorBlue)
	for i, c := range fb.Pixels {
		if c != ColorBlue {
			t.Fatalf("pixel %d = %v, want blue", i, c)
		}
	}
	for i, d := range fb.Depth {
		if !math.IsInf(d, 1) {
			t.Fatalf("depth %d = %v, want +Inf", i, d)
		}
	}
}

func TestFramebufferResize(t *testing.T) {
	fb := NewFramebuffer(4, 4)
	pixels := fb.Pixels

	fb.Resize(4, 4)
	if &fb.Pixels[0] != &pixels[0] {
		t.Error("Resize to the same size reallocated")
	}

	fb.Resize(8, 2)
	if fb.Width != 8 || fb.Height != 2 || len(fb.Pixels) != 16 || len(fb.Depth) != 16 {
		t.Errorf("after resize: %dx%d, %d pixels, %d depths", fb.Width, fb.Height, len(fb.Pixels), len(fb.Depth))
	}
	if !math.IsInf(fb.Depth[15], 1) {
		t.Errorf("new depth = %v, want +Inf", fb.Depth[15])
	}
}

func TestFramebufferBounds(t *testing.T) {
	fb := NewFramebuffer(4, 4)
	fb.SetPixel(-1, 0, ColorRed)
	fb.SetPixel(4, 0, ColorRed)
	fb.SetPixel(0, 4, ColorRed)
	for i, c := range fb.Pixels {
		if c != (Color{}) {
			t.Errorf("pixel %d = %v after out-of-bounds writes", i, c)
		}
	}
	if got := fb.GetPixel(9, 9); got != (Color{}) {
		t.Errorf("GetPixel out of bounds = %v", got)
	}
	if got := fb.DepthAt(-1, 0); !math.IsInf(got, 1) {
		t.Errorf("DepthAt out of bounds = %v", got)
	}
}

func TestFramebufferDrawLine(t *testing.T) {
	fb := NewFramebuffer(10, 10)
	fb.DrawLine(1, 1, 8, 5, ColorWhite)

	if fb.GetPixel(1, 1) != ColorWhite || fb.GetPixel(8, 5) != ColorWhite {
		t.Error("line endpoints not drawn")
	}
	count := 0
	for _, c := range fb.Pixels {
		if c == ColorWhite {
			count++
		}
	}
	// An x-major line draws one pixel per column.
	if count != 8 {
		t.Errorf("line drew %d pixels, want 8", count)
	}
}

func TestFramebufferSavePNG(t *testing.T) {
	fb := NewFramebuffer(3, 2)
	fb.Clear(ColorGray)
	fb.SetPixel(2, 1, ColorRed)

	path := filepath.Join(t.TempDir(), "frame.png")
	if err := fb.SavePNG(path); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
		t.Fatalf("bounds = %v, want 3x2", b)
	}
	r, g, b, a := img.At(2, 1).RGBA()
	if r>>8 != 255 || g != 0 || b != 0 || a>>8 != 255 {
		t.Errorf("pixel = %d,%d,%d,%d, want opaque red", r>>8, g>>8, b>>8, a>>8)
	}
}

func TestSavePNGBadPath(t *testing.T) {
	fb := NewFramebuffer(1, 1)
	err := fb.SavePNG(filepath.Join(t.TempDir(), "missing", "frame.png"))
	if err == nil {
		t.Error("expected error for missing directory")
	}
}

func BenchmarkFramebufferClear(b *testing.B) {
	fb := NewFramebuffer(320, 180)
	for b.Loop() {
		fb.Clear(ColorGray)
	}
}
