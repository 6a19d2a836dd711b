package render

import (
	"github.com/taigrr/softrast/pkg/math3d"
	"github.com/taigrr/softrast/pkg/models"
)

// Scene supplies the meshes and camera for a frame.
type Scene interface {
	Meshes() []*models.Mesh
	Camera() *Camera
}

// MaterialSource resolves material ids.
type MaterialSource interface {
	Material(id models.MaterialID) (*models.Material, bool)
}

// TextureSource resolves texture ids to samplers.
type TextureSource interface {
	Texture(id models.TextureID) (Sampler, bool)
}

// Backend renders a scene into a framebuffer. The software Rasterizer is
// one implementation; a GPU backend would be another.
type Backend interface {
	Render(scene Scene) (*Framebuffer, error)
}

// DrawContext is the state shared by every triangle of one mesh draw.
type DrawContext struct {
	World math3d.Mat4
	// WVP is projection * view * world.
	WVP    math3d.Mat4
	Origin math3d.Vec3

	Material *models.Material
	Shader   Shader
	Settings *Settings
}

// NewDrawContext builds the context for drawing mesh with cam.
func NewDrawContext(cam *Camera, mesh *models.Mesh, mat *models.Material, shader Shader, settings *Settings) *DrawContext {
	return &DrawContext{
		World:    mesh.World,
		WVP:      cam.Projection().Mul(cam.View()).Mul(mesh.World),
		Origin:   cam.Origin(),
		Material: mat,
		Shader:   shader,
		Settings: settings,
	}
}
