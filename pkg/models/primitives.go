package models

import "github.com/taigrr/softrast/pkg/math3d"

// quadFace appends a square face centred at normal*half, seen from outside
// with up pointing along up. UV (0,0) is the top-left corner.
func quadFace(verts []Vertex, idx []uint32, normal, up math3d.Vec3, half float64) ([]Vertex, []uint32) {
	right := normal.Cross(up)
	center := normal.Scale(half)
	base := uint32(len(verts))

	corners := [4]struct {
		r, u float64
		uv   math3d.Vec2
	}{
		{-1, -1, math3d.V2(0, 1)},
		{1, -1, math3d.V2(1, 1)},
		{1, 1, math3d.V2(1, 0)},
		{-1, 1, math3d.V2(0, 0)},
	}
	for _, c := range corners {
		pos := center.Add(right.Scale(c.r * half)).Add(up.Scale(c.u * half))
		verts = append(verts, Vertex{Position: pos, UV: c.uv, Normal: normal, Tangent: right})
	}

	idx = append(idx, base, base+1, base+2, base, base+2, base+3)
	return verts, idx
}

// NewQuad creates a square in the XY plane facing -Z, the direction a
// default camera looks from.
func NewQuad(name string, size float64) *Mesh {
	verts, idx := quadFace(nil, nil, math3d.V3(0, 0, -1), math3d.Up(), size/2)
	// quadFace offsets along the normal; pull the face back onto z=0.
	for i := range verts {
		verts[i].Position.Z = 0
	}
	return NewMesh(name, verts, idx, TriangleList)
}

// NewCube creates an axis-aligned cube centred on the origin with outward
// normals and per-face UVs.
func NewCube(name string, size float64) *Mesh {
	faces := []struct{ normal, up math3d.Vec3 }{
		{math3d.V3(0, 0, -1), math3d.Up()},
		{math3d.V3(0, 0, 1), math3d.Up()},
		{math3d.V3(1, 0, 0), math3d.Up()},
		{math3d.V3(-1, 0, 0), math3d.Up()},
		{math3d.V3(0, 1, 0), math3d.V3(0, 0, 1)},
		{math3d.V3(0, -1, 0), math3d.V3(0, 0, -1)},
	}

	var verts []Vertex
	var idx []uint32
	for _, f := range faces {
		verts, idx = quadFace(verts, idx, f.normal, f.up, size/2)
	}
	return NewMesh(name, verts, idx, TriangleList)
}

// NewQuadStrip creates a horizontal ribbon of segments quads in the XY
// plane facing -Z, indexed as a triangle strip.
func NewQuadStrip(name string, width, height float64, segments int) *Mesh {
	if segments < 1 {
		segments = 1
	}

	verts := make([]Vertex, 0, 2*(segments+1))
	idx := make([]uint32, 0, 2*(segments+1))
	normal := math3d.V3(0, 0, -1)

	for i := range segments + 1 {
		u := float64(i) / float64(segments)
		x := -width/2 + u*width
		// Top before bottom keeps the first (even) triangle front-facing.
		verts = append(verts,
			Vertex{Position: math3d.V3(x, height/2, 0), UV: math3d.V2(u, 0), Normal: normal, Tangent: math3d.Right()},
			Vertex{Position: math3d.V3(x, -height/2, 0), UV: math3d.V2(u, 1), Normal: normal, Tangent: math3d.Right()},
		)
		idx = append(idx, uint32(2*i), uint32(2*i+1))
	}

	return NewMesh(name, verts, idx, TriangleStrip)
}
