package render

import (
	"github.com/taigrr/softrast/pkg/math3d"
)

// Plane is the set of points p with Normal·p + D = 0. Points with a
// positive distance lie on the side the normal points to.
type Plane struct {
	Normal math3d.Vec3
	D      float64
}

// Normalize scales the equation so Normal has unit length, making
// DistanceToPoint a true Euclidean distance. A zero normal is left as is.
func (p *Plane) Normalize() {
	l := p.Normal.Len()
	if l == 0 {
		return
	}
	p.Normal = p.Normal.Scale(1 / l)
	p.D /= l
}

// DistanceToPoint returns the signed distance of point from the plane.
func (p Plane) DistanceToPoint(point math3d.Vec3) float64 {
	return p.Normal.Dot(point) + p.D
}

// Frustum is the view volume bounded by six inward-facing planes, indexed
// by the Frustum* constants.
type Frustum struct {
	Planes [6]Plane
}

const (
	FrustumLeft = iota
	FrustumRight
	FrustumBottom
	FrustumTop
	FrustumNear
	FrustumFar
)

// NewFrustumFromMatrix extracts the planes of a view-projection matrix
// (Gribb/Hartmann). A clip point is inside when -w <= x,y <= w and
// 0 <= z <= w, so each plane is a sum or difference of rows, except near,
// which is row 2 alone.
func NewFrustumFromMatrix(m math3d.Mat4) Frustum {
	x, y, z, w := m.Row(0), m.Row(1), m.Row(2), m.Row(3)
	rows := [6]math3d.Vec4{
		FrustumLeft:   w.Add(x),
		FrustumRight:  w.Sub(x),
		FrustumBottom: w.Add(y),
		FrustumTop:    w.Sub(y),
		FrustumNear:   z,
		FrustumFar:    w.Sub(z),
	}

	var f Frustum
	for i, r := range rows {
		f.Planes[i] = Plane{Normal: r.Vec3(), D: r.W}
		f.Planes[i].Normalize()
	}
	return f
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// Center returns the midpoint of the box.
func (b AABB) Center() math3d.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Corners returns the eight corners. Bit 0 of the index selects Max.X,
// bit 1 Max.Y and bit 2 Max.Z, so corners i and i|bit share an edge.
func (b AABB) Corners() [8]math3d.Vec3 {
	var c [8]math3d.Vec3
	for i := range c {
		c[i] = math3d.V3(
			pick(i&1 != 0, b.Max.X, b.Min.X),
			pick(i&2 != 0, b.Max.Y, b.Min.Y),
			pick(i&4 != 0, b.Max.Z, b.Min.Z),
		)
	}
	return c
}

// Transform returns the axis-aligned box enclosing b after m is applied.
func (b AABB) Transform(m math3d.Mat4) AABB {
	corners := b.Corners()
	first := m.MulVec3(corners[0])
	out := AABB{Min: first, Max: first}
	for _, c := range corners[1:] {
		p := m.MulVec3(c)
		out.Min = out.Min.Min(p)
		out.Max = out.Max.Max(p)
	}
	return out
}

// ContainsPoint reports whether p lies inside or on the box.
func (b AABB) ContainsPoint(p math3d.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// support returns the corner furthest along dir.
func (b AABB) support(dir math3d.Vec3) math3d.Vec3 {
	return math3d.V3(
		pick(dir.X >= 0, b.Max.X, b.Min.X),
		pick(dir.Y >= 0, b.Max.Y, b.Min.Y),
		pick(dir.Z >= 0, b.Max.Z, b.Min.Z),
	)
}

// IntersectAABB reports whether any part of box may be inside the
// frustum. It is conservative: boxes near a frustum corner can pass
// without being visible.
func (f Frustum) IntersectAABB(box AABB) bool {
	for _, p := range f.Planes {
		if p.DistanceToPoint(box.support(p.Normal)) < 0 {
			return false
		}
	}
	return true
}

// ContainsAABB reports whether box is entirely inside the frustum.
func (f Frustum) ContainsAABB(box AABB) bool {
	for _, p := range f.Planes {
		if p.DistanceToPoint(box.support(p.Normal.Negate())) < 0 {
			return false
		}
	}
	return true
}

// ContainsPoint reports whether p is inside the frustum.
func (f Frustum) ContainsPoint(p math3d.Vec3) bool {
	for _, pl := range f.Planes {
		if pl.DistanceToPoint(p) < 0 {
			return false
		}
	}
	return true
}

// IntersectsSphere reports whether a sphere overlaps the frustum.
func (f Frustum) IntersectsSphere(center math3d.Vec3, radius float64) bool {
	for _, p := range f.Planes {
		if p.DistanceToPoint(center) < -radius {
			return false
		}
	}
	return true
}

func pick(cond bool, a, b float64) float64 {
	if cond {
		return a
	}
	return b
}
