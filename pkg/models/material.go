package models

import "fmt"

// MaterialID references a material in a registry.
type MaterialID int

// TextureID references a texture in a registry.
type TextureID int

// ShadingModel selects the pixel shader a material is drawn with.
type ShadingModel int

const (
	// ShadingLit is the Lambert/Phong model with normal mapping.
	ShadingLit ShadingModel = iota
	// ShadingFlat alpha-blends a single texture over the framebuffer.
	ShadingFlat
)

// Texture slots for ShadingLit. ShadingFlat only uses SlotDiffuse.
const (
	SlotDiffuse = iota
	SlotNormal
	SlotSpecular
	SlotGlossiness
)

func (s ShadingModel) String() string {
	switch s {
	case ShadingLit:
		return "lit"
	case ShadingFlat:
		return "flat"
	default:
		return fmt.Sprintf("ShadingModel(%d)", int(s))
	}
}

// TextureSlots returns the number of texture slots the model reads.
func (s ShadingModel) TextureSlots() int {
	switch s {
	case ShadingLit:
		return 4
	case ShadingFlat:
		return 1
	default:
		return 0
	}
}

// Material binds a shading model to its textures.
type Material struct {
	Name    string
	Shading ShadingModel
	// DepthWrite controls whether surfaces drawn with this material update
	// the depth buffer after passing the depth test. Translucent overlays
	// leave it off so they never occlude each other.
	DepthWrite bool
	// Textures are ordered by slot.
	Textures []TextureID
}

// NewLitMaterial creates an opaque lit material.
func NewLitMaterial(name string, diffuse, normal, specular, glossiness TextureID) Material {
	return Material{
		Name:       name,
		Shading:    ShadingLit,
		DepthWrite: true,
		Textures:   []TextureID{diffuse, normal, specular, glossiness},
	}
}

// NewFlatMaterial creates a translucent flat material that does not write
// depth.
func NewFlatMaterial(name string, diffuse TextureID) Material {
	return Material{
		Name:     name,
		Shading:  ShadingFlat,
		Textures: []TextureID{diffuse},
	}
}
