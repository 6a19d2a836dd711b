package scene

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/taigrr/softrast/pkg/math3d"
	"github.com/taigrr/softrast/pkg/models"
	"github.com/taigrr/softrast/pkg/render"
	"github.com/taigrr/softrast/pkg/resource"
)

func TestSceneFind(t *testing.T) {
	s := New(render.NewCamera())
	cube := models.NewCube("cube", 1)
	quad := models.NewQuad("quad", 1)
	s.Add(cube, quad)

	if got, ok := s.Find("quad"); !ok || got != quad {
		t.Errorf("Find(quad) = %v, %v", got, ok)
	}
	if _, ok := s.Find("missing"); ok {
		t.Error("Find(missing) succeeded")
	}

	if got := s.TriangleCount(); got != 14 {
		t.Errorf("TriangleCount = %d, want 14", got)
	}
	quad.Visible = false
	if got := s.TriangleCount(); got != 12 {
		t.Errorf("TriangleCount with hidden quad = %d, want 12", got)
	}
}

func TestDemoScene(t *testing.T) {
	reg := resource.NewRegistry()
	s := Demo(reg, DefaultCamera())

	names := []string{BackdropName, CubeName, OverlayName}
	if len(s.Meshes()) != len(names) {
		t.Fatalf("mesh count = %d, want %d", len(s.Meshes()), len(names))
	}
	for i, name := range names {
		if s.Meshes()[i].Name != name {
			t.Errorf("mesh %d = %q, want %q", i, s.Meshes()[i].Name, name)
		}
	}

	overlay, _ := s.Find(OverlayName)
	mat, ok := reg.Material(overlay.Material)
	if !ok {
		t.Fatal("overlay material missing")
	}
	if mat.Shading != models.ShadingFlat || mat.DepthWrite {
		t.Errorf("overlay material = %+v, want flat without depth write", mat)
	}
}

func TestDemoSceneRenders(t *testing.T) {
	reg := resource.NewRegistry()
	cam := DefaultCamera()
	cam.SetAspectRatio(2)
	s := Demo(reg, cam)

	r := render.NewRasterizer(render.NewFramebuffer(80, 40), reg, reg, render.DefaultSettings())
	fb, err := r.Render(s)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if r.Stats.MeshesDrawn != 3 {
		t.Errorf("meshes drawn = %d, want 3", r.Stats.MeshesDrawn)
	}
	if r.Stats.Pixels == 0 {
		t.Error("no pixels written")
	}

	// The cube sits in the middle of the frame.
	if d := fb.DepthAt(40, 20); math.IsInf(d, 1) {
		t.Error("centre pixel has no depth")
	}
}

func TestSpinner(t *testing.T) {
	const fps = 60
	sp := NewSpinner(fps, 1)
	cube := models.NewCube("cube", 1)

	for range 3 * fps {
		sp.Step(cube)
	}
	if math.Abs(sp.Speed-1) > 0.01 {
		t.Errorf("speed after 3s = %v, want ~1", sp.Speed)
	}
	if cube.World == math3d.Identity() {
		t.Error("cube did not rotate")
	}

	sp.TogglePause()
	if !sp.Paused() {
		t.Fatal("spinner not paused")
	}
	for range 3 * fps {
		sp.Step(cube)
	}
	if math.Abs(sp.Speed) > 0.01 {
		t.Errorf("speed after pause = %v, want ~0", sp.Speed)
	}
}

func TestSpinnerAtRest(t *testing.T) {
	sp := NewSpinner(30, 0)
	cube := models.NewCube("cube", 1)
	sp.Step(cube)
	if cube.World != math3d.Identity() {
		t.Error("spinner with zero target rotated the mesh")
	}
}

// writeTriangleGLB saves a single off-centre triangle as a GLB file.
func writeTriangleGLB(t *testing.T) string {
	t.Helper()
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{2, 0, 0}, {6, 0, 0}, {2, 2, 0}})
	idx := modeler.WriteIndices(doc, []uint16{0, 1, 2})
	doc.Meshes = []*gltf.Mesh{{
		Name: "tri",
		Primitives: []*gltf.Primitive{{
			Attributes: map[string]int{gltf.POSITION: pos},
			Indices:    gltf.Index(idx),
		}},
	}}

	path := filepath.Join(t.TempDir(), "tri.glb")
	if err := gltf.SaveBinary(doc, path); err != nil {
		t.Fatalf("SaveBinary: %v", err)
	}
	return path
}

func TestLoadModel(t *testing.T) {
	reg := resource.NewRegistry()
	mesh, err := LoadModel(reg, writeTriangleGLB(t), "")
	if err != nil {
		t.Fatalf("LoadModel: %v", err)
	}

	center := mesh.Center()
	if center.Len() > 1e-6 {
		t.Errorf("centre = %v, want origin", center)
	}
	// Widest extent is 4, scaled to 2.
	if got := mesh.World[0]; math.Abs(got-0.5) > 1e-9 {
		t.Errorf("scale = %v, want 0.5", got)
	}
	if _, ok := reg.Material(mesh.Material); !ok {
		t.Error("model material not registered")
	}
}

func TestLoadModelErrors(t *testing.T) {
	reg := resource.NewRegistry()

	_, err := LoadModel(reg, "model.obj", "")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("obj error = %v, want ErrUnsupportedFormat", err)
	}

	if _, err := LoadModel(reg, filepath.Join(t.TempDir(), "missing.glb"), ""); err == nil {
		t.Error("expected error for missing file")
	}

	if _, err := LoadModel(reg, writeTriangleGLB(t), "missing.png"); err == nil {
		t.Error("expected error for missing texture")
	}
}

func BenchmarkDemoFrame(b *testing.B) {
	reg := resource.NewRegistry()
	cam := DefaultCamera()
	cam.SetAspectRatio(2)
	s := Demo(reg, cam)
	r := render.NewRasterizer(render.NewFramebuffer(160, 80), reg, reg, render.DefaultSettings())
	spin := NewSpinner(60, 1)
	cube, _ := s.Find(CubeName)

	for b.Loop() {
		spin.Step(cube)
		if _, err := r.Render(s); err != nil {
			b.Fatal(err)
		}
	}
}
