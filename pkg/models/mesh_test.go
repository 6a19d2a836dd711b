package models

import (
	"errors"
	"math"
	"testing"

	"github.com/taigrr/softrast/pkg/math3d"
)

func TestTopologyTriangleCount(t *testing.T) {
	tests := []struct {
		name     string
		topology Topology
		indices  int
		want     int
	}{
		{"list empty", TriangleList, 0, 0},
		{"list exact", TriangleList, 6, 2},
		{"list trailing partial", TriangleList, 8, 2},
		{"strip too short", TriangleStrip, 2, 0},
		{"strip single", TriangleStrip, 3, 1},
		{"strip four", TriangleStrip, 6, 4},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.topology.TriangleCount(tc.indices); got != tc.want {
				t.Errorf("TriangleCount(%d) = %d, want %d", tc.indices, got, tc.want)
			}
		})
	}
}

func TestTopologyTriangle(t *testing.T) {
	indices := []uint32{10, 11, 12, 13, 14, 15}

	tests := []struct {
		name     string
		topology Topology
		k        int
		want     [3]uint32
	}{
		{"list first", TriangleList, 0, [3]uint32{10, 11, 12}},
		{"list second", TriangleList, 1, [3]uint32{13, 14, 15}},
		{"strip even", TriangleStrip, 0, [3]uint32{10, 11, 12}},
		{"strip odd swaps", TriangleStrip, 1, [3]uint32{11, 13, 12}},
		{"strip even again", TriangleStrip, 2, [3]uint32{12, 13, 14}},
		{"strip last odd", TriangleStrip, 3, [3]uint32{13, 15, 14}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.topology.Triangle(indices, tc.k); got != tc.want {
				t.Errorf("Triangle(%d) = %v, want %v", tc.k, got, tc.want)
			}
		})
	}
}

func TestMeshValidate(t *testing.T) {
	verts := make([]Vertex, 3)

	ok := NewMesh("ok", verts, []uint32{0, 1, 2}, TriangleList)
	if err := ok.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	bad := NewMesh("bad", verts, []uint32{0, 1, 3}, TriangleList)
	err := bad.Validate()
	if !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Validate() = %v, want ErrIndexOutOfRange", err)
	}

	// Indices past the last complete triangle are never read.
	partial := NewMesh("partial", verts, []uint32{0, 1, 2, 99}, TriangleList)
	if err := partial.Validate(); err != nil {
		t.Errorf("trailing partial triangle should be ignored, got %v", err)
	}
}

func TestMeshTransformedCache(t *testing.T) {
	mesh := NewQuad("quad", 1)
	first := mesh.Transformed()
	if len(first) != mesh.VertexCount() {
		t.Fatalf("len(Transformed()) = %d, want %d", len(first), mesh.VertexCount())
	}
	second := mesh.Transformed()
	if &first[0] != &second[0] {
		t.Error("Transformed() reallocated for an unchanged vertex count")
	}
}

func TestQuadNormalsMatchWinding(t *testing.T) {
	quad := NewQuad("quad", 2)
	want := quad.Vertices[0].Normal

	quad.CalculateSmoothNormals()
	for i, v := range quad.Vertices {
		if v.Normal.Sub(want).Len() > 1e-9 {
			t.Errorf("vertex %d normal = %v, want %v", i, v.Normal, want)
		}
	}
}

func TestCubeNormalsMatchWinding(t *testing.T) {
	cube := NewCube("cube", 2)
	stored := make([]math3d.Vec3, len(cube.Vertices))
	for i, v := range cube.Vertices {
		stored[i] = v.Normal
	}

	cube.CalculateSmoothNormals()
	for i, v := range cube.Vertices {
		if v.Normal.Sub(stored[i]).Len() > 1e-9 {
			t.Errorf("vertex %d computed normal %v, stored %v", i, v.Normal, stored[i])
		}
		// Outward normals point away from the centre.
		if v.Normal.Dot(v.Position) <= 0 {
			t.Errorf("vertex %d normal %v points inward", i, v.Normal)
		}
	}
}

func TestCalculateTangents(t *testing.T) {
	quad := NewQuad("quad", 2)
	for i := range quad.Vertices {
		quad.Vertices[i].Tangent = math3d.Zero3()
	}

	quad.CalculateTangents()
	for i, v := range quad.Vertices {
		if v.Tangent.Sub(math3d.Right()).Len() > 1e-9 {
			t.Errorf("vertex %d tangent = %v, want +X", i, v.Tangent)
		}
	}
}

func TestQuadStripWinding(t *testing.T) {
	strip := NewQuadStrip("strip", 4, 1, 4)
	if got := strip.TriangleCount(); got != 8 {
		t.Fatalf("TriangleCount() = %d, want 8", got)
	}

	// Every triangle must wind the same way, matching the stored normal.
	for k := range strip.TriangleCount() {
		f := strip.Triangle(k)
		v0, v1, v2 := strip.Vertices[f[0]].Position, strip.Vertices[f[1]].Position, strip.Vertices[f[2]].Position
		n := v2.Sub(v0).Cross(v1.Sub(v0))
		if n.Dot(strip.Vertices[f[0]].Normal) <= 0 {
			t.Errorf("triangle %d winds against its normal", k)
		}
	}
}

func TestMeshRotateY(t *testing.T) {
	mesh := NewQuad("quad", 1)
	mesh.World = math3d.Translate(math3d.V3(0, 0, 5))
	mesh.RotateY(math.Pi / 2)

	// Rotation happens in object space, before the translation.
	got := mesh.World.MulVec3(math3d.Forward())
	want := math3d.V3(1, 0, 5)
	if got.Sub(want).Len() > 1e-9 {
		t.Errorf("rotated forward = %v, want %v", got, want)
	}
}

func TestMeshClone(t *testing.T) {
	mesh := NewCube("cube", 1)
	mesh.Material = 3
	clone := mesh.Clone()

	clone.Vertices[0].Position = math3d.V3(9, 9, 9)
	clone.Indices[0] = 7
	if mesh.Vertices[0].Position == clone.Vertices[0].Position {
		t.Error("Clone shares vertex storage")
	}
	if mesh.Indices[0] == 7 {
		t.Error("Clone shares index storage")
	}
	if clone.Material != 3 || !clone.Visible {
		t.Errorf("Clone lost fields: material=%d visible=%v", clone.Material, clone.Visible)
	}
}
