package render

import (
	"fmt"
	"log/slog"

	"github.com/taigrr/softrast/pkg/models"
	"golang.org/x/sync/errgroup"
)

// FrameStats counts the work done by the last Render call.
type FrameStats struct {
	MeshesTested int // Visible meshes tested against the frustum
	MeshesCulled int // Meshes outside the frustum
	MeshesDrawn  int // Meshes that passed culling

	Triangles  int // Triangles assembled from index buffers
	Rejected   int // Triangles rejected by the clip-space test
	Split      int // Triangles clipped against the near plane
	Culled     int // Screen triangles culled by winding or degenerate
	Rasterized int // Screen triangles scanned

	Pixels int // Pixels written
}

// LogValue implements slog.LogValuer.
func (s FrameStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("meshes", s.MeshesDrawn),
		slog.Int("meshes_culled", s.MeshesCulled),
		slog.Int("triangles", s.Triangles),
		slog.Int("rejected", s.Rejected),
		slog.Int("split", s.Split),
		slog.Int("culled", s.Culled),
		slog.Int("rasterized", s.Rasterized),
		slog.Int("pixels", s.Pixels),
	)
}

// Rasterizer is the software Backend.
type Rasterizer struct {
	Settings Settings
	Stats    FrameStats

	fb        *Framebuffer
	materials MaterialSource
	textures  TextureSource

	// Per-frame scratch, reused across frames.
	shaders map[models.MaterialID]Shader
	tris    []screenTriangle
	clipped []Triangle
}

var _ Backend = (*Rasterizer)(nil)

// NewRasterizer creates a rasterizer drawing into fb.
func NewRasterizer(fb *Framebuffer, materials MaterialSource, textures TextureSource, settings Settings) *Rasterizer {
	return &Rasterizer{
		Settings:  settings,
		fb:        fb,
		materials: materials,
		textures:  textures,
		shaders:   make(map[models.MaterialID]Shader),
	}
}

// Framebuffer returns the render target.
func (r *Rasterizer) Framebuffer() *Framebuffer {
	return r.fb
}

// Width returns the framebuffer width.
func (r *Rasterizer) Width() int {
	return r.fb.Width
}

// Height returns the framebuffer height.
func (r *Rasterizer) Height() int {
	return r.fb.Height
}

// Resize resizes the render target.
func (r *Rasterizer) Resize(width, height int) {
	if width == r.fb.Width && height == r.fb.Height {
		return
	}
	r.fb.Resize(width, height)
	Logger().Info("framebuffer resized", "width", width, "height", height)
}

// Render draws one frame of scene. The camera is updated, the targets are
// cleared, and every visible mesh is transformed, assembled, clipped and
// rasterized. An index buffer that references a missing vertex aborts the
// frame with an error wrapping models.ErrIndexOutOfRange.
func (r *Rasterizer) Render(scene Scene) (*Framebuffer, error) {
	cam := scene.Camera()
	cam.Update()

	r.fb.Clear(r.Settings.ClearColor)
	r.Stats = FrameStats{}
	r.tris = r.tris[:0]
	clear(r.shaders)

	frustum := cam.Frustum()
	for _, mesh := range scene.Meshes() {
		if !mesh.Visible {
			continue
		}
		if err := r.prepareMesh(cam, frustum, mesh); err != nil {
			return r.fb, err
		}
	}

	r.rasterize()

	if r.Settings.Wireframe {
		r.drawWireframe(cam, scene)
	}

	Logger().Debug("frame", "stats", r.Stats)
	return r.fb, nil
}

// prepareMesh runs the vertex stage for mesh and queues its clipped,
// culled screen triangles.
func (r *Rasterizer) prepareMesh(cam *Camera, frustum Frustum, mesh *models.Mesh) error {
	if err := mesh.Validate(); err != nil {
		return fmt.Errorf("render: %w", err)
	}

	r.Stats.MeshesTested++
	bounds := AABB{Min: mesh.BoundsMin, Max: mesh.BoundsMax}.Transform(mesh.World)
	if !frustum.IntersectAABB(bounds) {
		r.Stats.MeshesCulled++
		Logger().Debug("mesh culled", "mesh", mesh.Name)
		return nil
	}
	r.Stats.MeshesDrawn++

	mat, ok := r.materials.Material(mesh.Material)
	if !ok {
		panic(fmt.Sprintf("mesh %q: material %d not registered", mesh.Name, mesh.Material))
	}
	shader, ok := r.shaders[mesh.Material]
	if !ok {
		shader = NewShader(mat, r.textures, &r.Settings)
		r.shaders[mesh.Material] = shader
	}

	ctx := NewDrawContext(cam, mesh, mat, shader, &r.Settings)
	verts := TransformVertices(ctx, mesh, r.Settings.Workers)
	r.assemble(ctx, mesh, verts)
	return nil
}

// assemble walks the index buffer, clips each triangle and queues the
// screen triangles that survive culling.
func (r *Rasterizer) assemble(ctx *DrawContext, mesh *models.Mesh, verts []models.TransformedVertex) {
	for k := range mesh.TriangleCount() {
		f := mesh.Triangle(k)
		r.Stats.Triangles++

		var outcome clipOutcome
		r.clipped, outcome = clipTriangle(r.clipped[:0], Triangle{verts[f[0]], verts[f[1]], verts[f[2]]})
		switch outcome {
		case clipRejected:
			r.Stats.Rejected++
			continue
		case clipSplit:
			r.Stats.Split++
		}

		for _, t := range r.clipped {
			st, ok := setupTriangle(t, r.fb.Width, r.fb.Height, r.Settings.Cull)
			if !ok {
				r.Stats.Culled++
				continue
			}
			st.ctx = ctx
			r.tris = append(r.tris, st)
		}
	}
	r.Stats.Rasterized = len(r.tris)
}

// rasterize scans every queued triangle. With several workers the
// framebuffer is split into horizontal bands; each band visits the
// triangles in submission order and owns its rows exclusively, so the
// result matches the serial pass pixel for pixel.
func (r *Rasterizer) rasterize() {
	h := r.fb.Height
	workers := r.Settings.Workers
	if workers <= 1 || h < workers {
		r.Stats.Pixels = r.rasterizeBand(0, h-1)
		return
	}

	bandHeight := (h + workers - 1) / workers
	counts := make([]int, workers)

	var g errgroup.Group
	for i := range workers {
		y0 := i * bandHeight
		y1 := min(y0+bandHeight, h) - 1
		if y0 > y1 {
			break
		}
		g.Go(func() error {
			counts[i] = r.rasterizeBand(y0, y1)
			return nil
		})
	}
	_ = g.Wait()

	for _, c := range counts {
		r.Stats.Pixels += c
	}
}

// rasterizeBand draws rows y0..y1 of every queued triangle.
func (r *Rasterizer) rasterizeBand(y0, y1 int) int {
	written := 0
	for i := range r.tris {
		t := &r.tris[i]
		lo, hi := max(t.minY, y0), min(t.maxY, y1)
		if lo > hi {
			continue
		}
		written += t.rasterizeRows(r.fb, lo, hi)
	}
	return written
}

// ToggleNormalMapping switches normal mapping on or off.
func (r *Rasterizer) ToggleNormalMapping() {
	r.Settings.NormalMapping = !r.Settings.NormalMapping
	Logger().Info("normal mapping", "enabled", r.Settings.NormalMapping)
}

// CycleCullMode advances back -> front -> none.
func (r *Rasterizer) CycleCullMode() {
	r.Settings.Cull = r.Settings.Cull.Next()
	Logger().Info("cull mode", "mode", r.Settings.Cull)
}

// CycleShadingMode advances combined -> observed area -> diffuse -> specular.
func (r *Rasterizer) CycleShadingMode() {
	r.Settings.Shading = r.Settings.Shading.Next()
	Logger().Info("shading mode", "mode", r.Settings.Shading)
}

// ToggleDepthView switches between the depth visualization and shading.
func (r *Rasterizer) ToggleDepthView() {
	r.toggleView(VisualizeDepth)
}

// ToggleBoundingBoxView switches between the bounding-box visualization and
// shading.
func (r *Rasterizer) ToggleBoundingBoxView() {
	r.toggleView(VisualizeBoundingBox)
}

func (r *Rasterizer) toggleView(v Visualization) {
	if r.Settings.View == v {
		r.Settings.View = VisualizeShaded
	} else {
		r.Settings.View = v
	}
	Logger().Info("visualization", "view", r.Settings.View)
}

// ToggleWireframe switches the wireframe overlay on or off.
func (r *Rasterizer) ToggleWireframe() {
	r.Settings.Wireframe = !r.Settings.Wireframe
	Logger().Info("wireframe", "enabled", r.Settings.Wireframe)
}

// SetWorkers sets the number of goroutines used per frame. Values below 1
// mean serial rendering.
func (r *Rasterizer) SetWorkers(n int) {
	r.Settings.Workers = max(n, 1)
	Logger().Info("workers", "count", r.Settings.Workers)
}
