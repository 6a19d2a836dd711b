package render

import (
	"math"

	"github.com/taigrr/softrast/pkg/math3d"
)

// Wireframe draws debug lines over a rendered frame. Lines ignore depth.
type Wireframe struct {
	camera *Camera
	fb     *Framebuffer
}

// NewWireframe creates a line drawer for camera and fb.
func NewWireframe(camera *Camera, fb *Framebuffer) *Wireframe {
	return &Wireframe{
		camera: camera,
		fb:     fb,
	}
}

// DrawLine3D draws a world-space segment. Segments with an endpoint outside
// the view volume are skipped.
func (w *Wireframe) DrawLine3D(p1, p2 math3d.Vec3, color Color) {
	x1, y1, _, vis1 := w.camera.WorldToScreen(p1, w.fb.Width, w.fb.Height)
	x2, y2, _, vis2 := w.camera.WorldToScreen(p2, w.fb.Width, w.fb.Height)
	if !vis1 || !vis2 {
		return
	}
	w.drawScreenLine(x1, y1, x2, y2, color)
}

// DrawBox draws the twelve edges of an axis-aligned box.
func (w *Wireframe) DrawBox(box AABB, color Color) {
	corners := box.Corners()
	for i := range corners {
		for _, bit := range [3]int{1, 2, 4} {
			if i&bit == 0 {
				w.DrawLine3D(corners[i], corners[i|bit], color)
			}
		}
	}
}

// DrawAxes draws the world axes at the origin.
func (w *Wireframe) DrawAxes(length float64) {
	origin := math3d.Zero3()
	w.DrawLine3D(origin, math3d.V3(length, 0, 0), ColorRed)   // X axis
	w.DrawLine3D(origin, math3d.V3(0, length, 0), ColorGreen) // Y axis
	w.DrawLine3D(origin, math3d.V3(0, 0, length), ColorBlue)  // Z axis
}

// drawTriangles outlines every triangle queued for the current frame.
func (w *Wireframe) drawTriangles(tris []screenTriangle, color Color) {
	for i := range tris {
		v := &tris[i].v
		for j := range v {
			a, b := v[j].Position, v[(j+1)%3].Position
			w.drawScreenLine(a.X, a.Y, b.X, b.Y, color)
		}
	}
}

// drawScreenLine clips a pixel-space segment to the framebuffer before
// handing it to the integer line drawer.
func (w *Wireframe) drawScreenLine(x0, y0, x1, y1 float64, color Color) {
	maxX, maxY := float64(w.fb.Width-1), float64(w.fb.Height-1)
	x0, y0, x1, y1, ok := clipSegment(x0, y0, x1, y1, 0, 0, maxX, maxY)
	if !ok {
		return
	}
	w.fb.DrawLine(int(x0), int(y0), int(x1), int(y1), color)
}

// clipSegment clips a segment to a rectangle (Liang-Barsky).
func clipSegment(x0, y0, x1, y1, minX, minY, maxX, maxY float64) (float64, float64, float64, float64, bool) {
	if math.IsNaN(x0) || math.IsNaN(y0) || math.IsNaN(x1) || math.IsNaN(y1) {
		return 0, 0, 0, 0, false
	}
	dx, dy := x1-x0, y1-y0
	t0, t1 := 0.0, 1.0
	p := [4]float64{-dx, dx, -dy, dy}
	q := [4]float64{x0 - minX, maxX - x0, y0 - minY, maxY - y0}
	for i := range p {
		if p[i] == 0 {
			if q[i] < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		r := q[i] / p[i]
		if p[i] < 0 {
			t0 = math.Max(t0, r)
		} else {
			t1 = math.Min(t1, r)
		}
		if t0 > t1 {
			return 0, 0, 0, 0, false
		}
	}
	return x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy, true
}

// drawWireframe overlays triangle edges, mesh bounds and the world axes.
func (r *Rasterizer) drawWireframe(cam *Camera, scene Scene) {
	w := NewWireframe(cam, r.fb)
	w.drawTriangles(r.tris, r.Settings.WireframeColor)
	for _, mesh := range scene.Meshes() {
		if !mesh.Visible {
			continue
		}
		w.DrawBox(AABB{Min: mesh.BoundsMin, Max: mesh.BoundsMax}.Transform(mesh.World), r.Settings.BoundingBoxColor)
	}
	w.DrawAxes(1)
}
