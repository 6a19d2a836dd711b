package render

import (
	"image"
	"image/color"
	"math"

	"github.com/taigrr/softrast/pkg/math3d"
)

// Sampler maps a UV coordinate to a color. Coordinates outside [0,1] are
// handled by the implementation's wrap mode.
type Sampler interface {
	Sample(uv math3d.Vec2) ColorRGB
	SampleRGBA(uv math3d.Vec2) ColorRGBA
}

// WrapMode determines how texture coordinates outside [0,1] are handled.
type WrapMode int

const (
	WrapClamp  WrapMode = iota // Clamp to edge
	WrapRepeat                 // Tile the texture
)

// FilterMode determines how texture sampling is performed.
type FilterMode int

const (
	FilterNearest  FilterMode = iota // Nearest-neighbor (pixelated)
	FilterBilinear                   // Bilinear interpolation (smooth)
)

// Texture holds a 2D image for texture mapping. UV (0,0) is the top-left
// pixel.
type Texture struct {
	Width      int
	Height     int
	Pixels     []Color    // Row-major pixel data
	WrapU      WrapMode   // Horizontal wrap mode
	WrapV      WrapMode   // Vertical wrap mode
	FilterMode FilterMode // Sampling filter mode
}

// NewTexture creates an empty clamped, nearest-filtered texture.
func NewTexture(width, height int) *Texture {
	return &Texture{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
	}
}

// TextureFromImage copies img into a texture. Colors are stored
// un-premultiplied.
func TextureFromImage(img image.Image) *Texture {
	b := img.Bounds()
	tex := NewTexture(b.Dx(), b.Dy())
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			tex.Pixels[i] = Color(color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA))
			i++
		}
	}
	return tex
}

// NewCheckerTexture creates a checkerboard of size-pixel squares starting
// with c1 in the top-left corner.
func NewCheckerTexture(width, height, size int, c1, c2 Color) *Texture {
	tex := NewTexture(width, height)
	for i := range tex.Pixels {
		x, y := i%width, i/width
		tex.Pixels[i] = c1
		if (x/size+y/size)&1 == 1 {
			tex.Pixels[i] = c2
		}
	}
	return tex
}

// NewSolidTexture creates a 1x1 texture of a single color.
func NewSolidTexture(c Color) *Texture {
	tex := NewTexture(1, 1)
	tex.Pixels[0] = c
	return tex
}

// SetPixel sets a pixel in the texture.
func (t *Texture) SetPixel(x, y int, c Color) {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return
	}
	t.Pixels[y*t.Width+x] = c
}

// GetPixel returns the pixel at (x, y) with bounds checking.
func (t *Texture) GetPixel(x, y int) Color {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return Color{}
	}
	return t.Pixels[y*t.Width+x]
}

// Sample returns the color at uv without alpha.
func (t *Texture) Sample(uv math3d.Vec2) ColorRGB {
	return t.SampleRGBA(uv).RGB()
}

// SampleRGBA returns the color at uv including alpha.
func (t *Texture) SampleRGBA(uv math3d.Vec2) ColorRGBA {
	u := wrapCoord(uv.X, t.WrapU)
	v := wrapCoord(uv.Y, t.WrapV)

	switch t.FilterMode {
	case FilterBilinear:
		return t.sampleBilinear(u, v)
	default:
		return FromColor(t.sampleNearest(u, v))
	}
}

func wrapCoord(coord float64, mode WrapMode) float64 {
	switch {
	case math.IsNaN(coord):
		return 0
	case mode == WrapRepeat:
		return coord - math.Floor(coord)
	}
	return min(max(coord, 0), 1)
}

// sampleNearest returns the texel containing (u, v). A coordinate of
// exactly 1 maps to the last texel.
func (t *Texture) sampleNearest(u, v float64) Color {
	x := min(int(u*float64(t.Width)), t.Width-1)
	y := min(int(v*float64(t.Height)), t.Height-1)
	return t.GetPixel(x, y)
}

// sampleBilinear returns bilinearly interpolated color.
func (t *Texture) sampleBilinear(u, v float64) ColorRGBA {
	fx := u*float64(t.Width) - 0.5
	fy := v*float64(t.Height) - 0.5

	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	x1 := x0 + 1
	y1 := y0 + 1

	tx := fx - float64(x0)
	ty := fy - float64(y0)

	x0 = wrapPixelCoord(x0, t.Width, t.WrapU)
	x1 = wrapPixelCoord(x1, t.Width, t.WrapU)
	y0 = wrapPixelCoord(y0, t.Height, t.WrapV)
	y1 = wrapPixelCoord(y1, t.Height, t.WrapV)

	c00 := FromColor(t.GetPixel(x0, y0))
	c10 := FromColor(t.GetPixel(x1, y0))
	c01 := FromColor(t.GetPixel(x0, y1))
	c11 := FromColor(t.GetPixel(x1, y1))

	top := lerpRGBA(c00, c10, tx)
	bot := lerpRGBA(c01, c11, tx)
	return lerpRGBA(top, bot, ty)
}

func wrapPixelCoord(x, size int, mode WrapMode) int {
	if mode == WrapRepeat {
		return ((x % size) + size) % size
	}
	return min(max(x, 0), size-1)
}

func lerpRGBA(a, b ColorRGBA, t float64) ColorRGBA {
	return ColorRGBA{
		R: a.R + (b.R-a.R)*t,
		G: a.G + (b.G-a.G)*t,
		B: a.B + (b.B-a.B)*t,
		A: a.A + (b.A-a.A)*t,
	}
}
