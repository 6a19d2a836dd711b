package render

import (
	"image/color"
	"math"
)

// Color is an alias for color.RGBA for convenience.
type Color = color.RGBA

// Colors for convenience
var (
	ColorBlack   = color.RGBA{0, 0, 0, 255}
	ColorWhite   = color.RGBA{255, 255, 255, 255}
	ColorRed     = color.RGBA{255, 0, 0, 255}
	ColorGreen   = color.RGBA{0, 255, 0, 255}
	ColorBlue    = color.RGBA{0, 0, 255, 255}
	ColorYellow  = color.RGBA{255, 255, 0, 255}
	ColorCyan    = color.RGBA{0, 255, 255, 255}
	ColorMagenta = color.RGBA{255, 0, 255, 255}
	ColorGray    = color.RGBA{128, 128, 128, 255}

	// ColorFlatNormal encodes the tangent-space normal (0,0,1).
	ColorFlatNormal = color.RGBA{128, 128, 255, 255}
)

// RGB creates a color from RGB values.
func RGB(r, g, b uint8) Color {
	return color.RGBA{r, g, b, 255}
}

// RGBA creates a color from RGBA values.
func RGBA(r, g, b, a uint8) Color {
	return color.RGBA{r, g, b, a}
}

// ColorRGB is a linear floating-point color used during shading. Channels
// are nominally in [0,1] but may exceed 1 before output.
type ColorRGB struct {
	R, G, B float64
}

// Gray returns a color with all channels set to v.
func Gray(v float64) ColorRGB {
	return ColorRGB{v, v, v}
}

// Add returns a + b.
func (a ColorRGB) Add(b ColorRGB) ColorRGB {
	return ColorRGB{a.R + b.R, a.G + b.G, a.B + b.B}
}

// Sub returns a - b.
func (a ColorRGB) Sub(b ColorRGB) ColorRGB {
	return ColorRGB{a.R - b.R, a.G - b.G, a.B - b.B}
}

// Mul returns the component-wise product.
func (a ColorRGB) Mul(b ColorRGB) ColorRGB {
	return ColorRGB{a.R * b.R, a.G * b.G, a.B * b.B}
}

// Scale returns a * s.
func (a ColorRGB) Scale(s float64) ColorRGB {
	return ColorRGB{a.R * s, a.G * s, a.B * s}
}

// Lerp returns a*(1-t) + b*t.
func (a ColorRGB) Lerp(b ColorRGB, t float64) ColorRGB {
	return ColorRGB{
		a.R + (b.R-a.R)*t,
		a.G + (b.G-a.G)*t,
		a.B + (b.B-a.B)*t,
	}
}

// MaxToOne divides all channels by the largest one when it exceeds 1,
// preserving hue instead of clipping per channel.
func (a ColorRGB) MaxToOne() ColorRGB {
	m := math.Max(a.R, math.Max(a.G, a.B))
	if m <= 1 {
		return a
	}
	return a.Scale(1 / m)
}

// WithAlpha attaches an alpha channel.
func (a ColorRGB) WithAlpha(alpha float64) ColorRGBA {
	return ColorRGBA{a.R, a.G, a.B, alpha}
}

// ColorRGBA is ColorRGB with a straight (non-premultiplied) alpha channel.
type ColorRGBA struct {
	R, G, B, A float64
}

// FromColor converts an 8-bit color to floating point.
func FromColor(c Color) ColorRGBA {
	return ColorRGBA{
		float64(c.R) / 255,
		float64(c.G) / 255,
		float64(c.B) / 255,
		float64(c.A) / 255,
	}
}

// RGB drops the alpha channel.
func (c ColorRGBA) RGB() ColorRGB {
	return ColorRGB{c.R, c.G, c.B}
}

// ToColor rescales the color channels with MaxToOne and quantizes to 8
// bits per channel, rounding to nearest. Alpha is clamped, not rescaled.
func (c ColorRGBA) ToColor() Color {
	rgb := c.RGB().MaxToOne()
	return color.RGBA{quantize(rgb.R), quantize(rgb.G), quantize(rgb.B), quantize(c.A)}
}

func quantize(v float64) uint8 {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
