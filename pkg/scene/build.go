package scene

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/taigrr/softrast/pkg/math3d"
	"github.com/taigrr/softrast/pkg/models"
	"github.com/taigrr/softrast/pkg/render"
	"github.com/taigrr/softrast/pkg/resource"
)

// ErrUnsupportedFormat is returned for model files other than glTF/GLB.
var ErrUnsupportedFormat = errors.New("unsupported model format")

// Mesh names used by the demo scene.
const (
	BackdropName = "backdrop"
	CubeName     = "cube"
	OverlayName  = "overlay"
)

// Material parameters shared by the demo cube and loaded models.
var (
	specularColor = render.RGB(96, 96, 96)
	// Red channel times 25 is the Phong exponent: 102/255*25 = 10.
	glossColor = render.RGB(102, 102, 102)
)

// litMaterial registers the flat normal, specular and glossiness maps and
// returns a lit material around diffuse.
func litMaterial(reg *resource.Registry, name string, diffuse render.Sampler) models.MaterialID {
	d := reg.AddTexture(diffuse)
	n := reg.AddTexture(render.NewSolidTexture(render.ColorFlatNormal))
	s := reg.AddTexture(render.NewSolidTexture(specularColor))
	g := reg.AddTexture(render.NewSolidTexture(glossColor))
	return reg.AddMaterial(models.NewLitMaterial(name, d, n, s, g))
}

// DefaultCamera returns a camera at (0, 0.75, -4) looking at the origin.
func DefaultCamera() *render.Camera {
	cam := render.NewCamera()
	cam.SetFOV(math.Pi / 3)
	cam.SetPosition(math3d.V3(0, 0.75, -4))
	cam.LookAt(math3d.Zero3())
	return cam
}

// Demo builds a scene that needs no asset files: a textured cube in front
// of a striped backdrop, with a translucent panel between the cube and the
// camera. Materials and textures are added to reg.
func Demo(reg *resource.Registry, cam *render.Camera) *Scene {
	s := New(cam)

	stripes := render.NewCheckerTexture(64, 8, 8, render.RGB(70, 90, 140), render.RGB(40, 50, 80))
	backdrop := models.NewQuadStrip(BackdropName, 8, 5, 8)
	backdrop.World = math3d.Translate(math3d.V3(0, 0, 2))
	backdrop.Material = litMaterial(reg, "backdrop", stripes)

	checker := render.NewCheckerTexture(64, 64, 8, render.RGB(220, 200, 160), render.RGB(150, 60, 40))
	cube := models.NewCube(CubeName, 1.2)
	cube.Material = litMaterial(reg, "cube", checker)

	tint := reg.AddTexture(render.NewSolidTexture(render.RGBA(0, 160, 255, 96)))
	overlay := models.NewQuad(OverlayName, 0.8)
	overlay.World = math3d.Translate(math3d.V3(0.5, -0.3, -1.5))
	overlay.Material = reg.AddMaterial(models.NewFlatMaterial("overlay", tint))

	s.Add(backdrop, cube, overlay)
	return s
}

// LoadModel loads a glTF or GLB file, registers a lit material for it and
// scales it to fit a 2 unit box centred on the origin. The diffuse texture
// comes from texturePath when set, else the embedded base colour image, else a
// checkerboard.
func LoadModel(reg *resource.Registry, path, texturePath string) (*models.Mesh, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".glb" && ext != ".gltf" {
		return nil, fmt.Errorf("%s: %w", ext, ErrUnsupportedFormat)
	}

	mesh, embedded, err := models.LoadGLBWithTexture(path)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}

	var diffuse render.Sampler
	switch {
	case texturePath != "":
		tex, err := resource.LoadTexture(texturePath)
		if err != nil {
			return nil, err
		}
		diffuse = tex
	case embedded != nil:
		diffuse = render.TextureFromImage(embedded)
	default:
		diffuse = render.NewCheckerTexture(64, 64, 8, render.RGB(200, 200, 200), render.RGB(100, 100, 100))
	}
	mesh.Material = litMaterial(reg, mesh.Name, diffuse)

	// Centre the vertices themselves so RotateY spins about the middle of
	// the model; a uniform scale commutes with the spin.
	center := mesh.Center()
	for i := range mesh.Vertices {
		mesh.Vertices[i].Position = mesh.Vertices[i].Position.Sub(center)
	}
	mesh.CalculateBounds()
	size := mesh.Size()
	if maxDim := math.Max(size.X, math.Max(size.Y, size.Z)); maxDim > 0 {
		mesh.World = math3d.ScaleUniform(2.0 / maxDim)
	}

	render.Logger().Info("model loaded",
		"name", mesh.Name,
		"vertices", mesh.VertexCount(),
		"triangles", mesh.TriangleCount(),
	)
	return mesh, nil
}

// FromModel builds a scene holding only the model at path.
func FromModel(reg *resource.Registry, cam *render.Camera, path, texturePath string) (*Scene, error) {
	mesh, err := LoadModel(reg, path, texturePath)
	if err != nil {
		return nil, err
	}
	s := New(cam)
	s.Add(mesh)
	return s, nil
}
