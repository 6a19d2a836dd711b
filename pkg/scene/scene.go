// Package scene holds the meshes and camera the viewer draws, and builds
// the demo and model scenes.
package scene

import (
	"github.com/taigrr/softrast/pkg/models"
	"github.com/taigrr/softrast/pkg/render"
)

// Scene is a flat list of meshes seen through one camera. Meshes are drawn
// in insertion order, so translucent meshes go last.
type Scene struct {
	camera *render.Camera
	meshes []*models.Mesh
}

var _ render.Scene = (*Scene)(nil)

// New creates an empty scene viewed through cam.
func New(cam *render.Camera) *Scene {
	return &Scene{camera: cam}
}

// Add appends meshes to the draw list.
func (s *Scene) Add(meshes ...*models.Mesh) {
	s.meshes = append(s.meshes, meshes...)
}

// Meshes implements render.Scene.
func (s *Scene) Meshes() []*models.Mesh {
	return s.meshes
}

// Camera implements render.Scene.
func (s *Scene) Camera() *render.Camera {
	return s.camera
}

// Find returns the first mesh called name.
func (s *Scene) Find(name string) (*models.Mesh, bool) {
	for _, m := range s.meshes {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}

// TriangleCount sums the triangles of the visible meshes.
func (s *Scene) TriangleCount() int {
	n := 0
	for _, m := range s.meshes {
		if m.Visible {
			n += m.TriangleCount()
		}
	}
	return n
}
