package models

import "github.com/taigrr/softrast/pkg/math3d"

// Vertex holds the object-space attributes of a mesh vertex.
type Vertex struct {
	Position math3d.Vec3
	UV       math3d.Vec2
	Normal   math3d.Vec3
	Tangent  math3d.Vec3
}

// TransformedVertex is a vertex after the vertex stage. Position is in clip
// space until the rasterizer divides it by W; Normal and Tangent are
// world-oriented but not normalized; ViewDir points from the camera origin
// to the world-space vertex and is unit length.
type TransformedVertex struct {
	Position math3d.Vec4
	UV       math3d.Vec2
	Normal   math3d.Vec3
	Tangent  math3d.Vec3
	ViewDir  math3d.Vec3
}

// Lerp interpolates every attribute of a and b by t.
//
//nolint:st1016 // a,b naming convention is clearer for interpolation
func (a TransformedVertex) Lerp(b TransformedVertex, t float64) TransformedVertex {
	return TransformedVertex{
		Position: a.Position.Lerp(b.Position, t),
		UV:       a.UV.Lerp(b.UV, t),
		Normal:   a.Normal.Lerp(b.Normal, t),
		Tangent:  a.Tangent.Lerp(b.Tangent, t),
		ViewDir:  a.ViewDir.Lerp(b.ViewDir, t),
	}
}
