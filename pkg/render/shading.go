package render

import (
	"fmt"
	"math"

	"github.com/taigrr/softrast/pkg/math3d"
	"github.com/taigrr/softrast/pkg/models"
)

const (
	ambientTerm     = 0.025
	glossinessScale = 25
)

// Fragment is the interpolated surface state at one pixel.
type Fragment struct {
	X, Y    int
	Depth   float64
	UV      math3d.Vec2
	Normal  math3d.Vec3 // unit length
	Tangent math3d.Vec3 // unit length
	ViewDir math3d.Vec3 // camera to surface, not renormalized
}

// Shader computes the color of a fragment. dst is the color already in the
// framebuffer. Returning false leaves the pixel untouched.
type Shader interface {
	Shade(frag *Fragment, dst ColorRGBA) (ColorRGBA, bool)
}

// NewShader builds the shader for mat. A material that names a missing
// texture or has fewer slots than its shading model needs is a programming
// error and panics.
func NewShader(mat *models.Material, textures TextureSource, settings *Settings) Shader {
	samplers := resolveTextures(mat, textures)
	switch mat.Shading {
	case models.ShadingLit:
		return &LitShader{
			Diffuse:       samplers[models.SlotDiffuse],
			Normal:        samplers[models.SlotNormal],
			Specular:      samplers[models.SlotSpecular],
			Glossiness:    samplers[models.SlotGlossiness],
			Light:         settings.Light,
			Mode:          settings.Shading,
			NormalMapping: settings.NormalMapping,
		}
	case models.ShadingFlat:
		return &FlatShader{Diffuse: samplers[models.SlotDiffuse]}
	default:
		panic(fmt.Sprintf("material %q: unknown shading model %v", mat.Name, mat.Shading))
	}
}

func resolveTextures(mat *models.Material, textures TextureSource) []Sampler {
	need := mat.Shading.TextureSlots()
	if len(mat.Textures) < need {
		panic(fmt.Sprintf("material %q: %v shading needs %d textures, has %d",
			mat.Name, mat.Shading, need, len(mat.Textures)))
	}

	samplers := make([]Sampler, need)
	for i := range need {
		s, ok := textures.Texture(mat.Textures[i])
		if !ok {
			panic(fmt.Sprintf("material %q: texture %d not registered", mat.Name, mat.Textures[i]))
		}
		samplers[i] = s
	}
	return samplers
}

// LitShader is Lambert diffuse plus Phong specular under one directional
// light, with optional tangent-space normal mapping.
type LitShader struct {
	Diffuse, Normal, Specular, Glossiness Sampler

	Light         Light
	Mode          ShadingMode
	NormalMapping bool
}

// Shade implements Shader. The result is always opaque.
func (s *LitShader) Shade(frag *Fragment, _ ColorRGBA) (ColorRGBA, bool) {
	n := frag.Normal
	if s.NormalMapping {
		n = s.mapNormal(frag)
	}

	toLight := s.Light.Direction.Negate()
	observedArea := math.Max(n.Dot(toLight), 0)

	var out ColorRGB
	switch s.Mode {
	case ShadingObservedArea:
		out = Gray(observedArea)
	case ShadingDiffuse:
		out = s.lambert(frag.UV).Scale(observedArea * s.Light.Intensity)
	case ShadingSpecular:
		out = Gray(s.phong(frag, n, toLight))
	default:
		diffuse := s.lambert(frag.UV).Scale(observedArea * s.Light.Intensity)
		out = Gray(ambientTerm).Add(Gray(s.phong(frag, n, toLight))).Add(diffuse)
	}
	return out.WithAlpha(1), true
}

// mapNormal perturbs the geometric normal by the normal map sample.
func (s *LitShader) mapNormal(frag *Fragment) math3d.Vec3 {
	n, t := frag.Normal, frag.Tangent
	b := n.Cross(t).Normalize()

	c := s.Normal.Sample(frag.UV)
	x, y, z := 2*c.R-1, 2*c.G-1, 2*c.B-1
	return t.Scale(x).Add(b.Scale(y)).Add(n.Scale(z)).Normalize()
}

func (s *LitShader) lambert(uv math3d.Vec2) ColorRGB {
	return s.Diffuse.Sample(uv).Scale(1 / math.Pi)
}

// phong returns the specular intensity for the mirror direction of the
// light about n, seen along the view direction.
func (s *LitShader) phong(frag *Fragment, n, toLight math3d.Vec3) float64 {
	ks := s.Specular.Sample(frag.UV).R
	exp := s.Glossiness.Sample(frag.UV).R * glossinessScale

	cosAlpha := math.Max(frag.ViewDir.Dot(toLight.Reflect(n)), 0)
	if cosAlpha == 0 {
		return 0
	}
	return ks * math.Pow(cosAlpha, exp)
}

// FlatShader alpha-blends an unlit texture over the existing pixel.
type FlatShader struct {
	Diffuse Sampler
}

// Shade implements Shader. Fully transparent samples leave dst untouched.
func (s *FlatShader) Shade(frag *Fragment, dst ColorRGBA) (ColorRGBA, bool) {
	c := s.Diffuse.SampleRGBA(frag.UV)
	if c.A == 0 {
		return dst, false
	}
	return dst.RGB().Lerp(c.RGB(), c.A).WithAlpha(1), true
}
