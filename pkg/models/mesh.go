// Package models provides the mesh, vertex and material data model for
// softrast, plus glTF loading and procedural primitives.
package models

import (
	"fmt"
	"math"

	"github.com/taigrr/softrast/pkg/math3d"
)

// Mesh is an indexed triangle mesh with its world transform and material.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32
	Topology Topology

	World    math3d.Mat4
	Material MaterialID
	Visible  bool

	// Bounding box in object space (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3

	// transformed is the per-frame vertex stage output, sized to Vertices.
	transformed []TransformedVertex
}

// NewMesh creates a visible mesh with an identity world transform.
func NewMesh(name string, vertices []Vertex, indices []uint32, topology Topology) *Mesh {
	m := &Mesh{
		Name:     name,
		Vertices: vertices,
		Indices:  indices,
		Topology: topology,
		World:    math3d.Identity(),
		Visible:  true,
	}
	m.CalculateBounds()
	return m
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		return
	}

	m.BoundsMin = m.Vertices[0].Position
	m.BoundsMax = m.Vertices[0].Position

	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v.Position)
		m.BoundsMax = m.BoundsMax.Max(v.Position)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of triangles the index buffer yields.
func (m *Mesh) TriangleCount() int {
	return m.Topology.TriangleCount(len(m.Indices))
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// Triangle returns the vertex indices of triangle k.
func (m *Mesh) Triangle(k int) [3]uint32 {
	return m.Topology.Triangle(m.Indices, k)
}

// Validate checks that every index the topology reads refers to an
// existing vertex.
func (m *Mesh) Validate() error {
	n := uint32(len(m.Vertices))
	for k := range m.TriangleCount() {
		for _, idx := range m.Triangle(k) {
			if idx >= n {
				return fmt.Errorf("mesh %q triangle %d: vertex %d of %d: %w", m.Name, k, idx, n, ErrIndexOutOfRange)
			}
		}
	}
	return nil
}

// Transformed returns the vertex stage output buffer. It is allocated once
// and only reallocated if the vertex count changes.
func (m *Mesh) Transformed() []TransformedVertex {
	if len(m.transformed) != len(m.Vertices) {
		m.transformed = make([]TransformedVertex, len(m.Vertices))
	}
	return m.transformed
}

// RotateY spins the mesh around its local Y axis.
func (m *Mesh) RotateY(angle float64) {
	m.World = m.World.Mul(math3d.RotateY(angle))
}

// CalculateSmoothNormals computes area-weighted vertex normals.
func (m *Mesh) CalculateSmoothNormals() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = math3d.Zero3()
	}

	for k := range m.TriangleCount() {
		f := m.Triangle(k)
		v0 := m.Vertices[f[0]].Position
		v1 := m.Vertices[f[1]].Position
		v2 := m.Vertices[f[2]].Position

		// Front faces wind counter-clockwise as seen by the viewer in a
		// left-handed frame, so the outward normal is e2 x e1.
		normal := v2.Sub(v0).Cross(v1.Sub(v0))

		for _, idx := range f {
			m.Vertices[idx].Normal = m.Vertices[idx].Normal.Add(normal)
		}
	}

	for i := range m.Vertices {
		m.Vertices[i].Normal = m.Vertices[i].Normal.Normalize()
	}
}

// CalculateTangents derives per-vertex tangents from UV gradients and
// orthogonalizes them against the normals.
func (m *Mesh) CalculateTangents() {
	acc := make([]math3d.Vec3, len(m.Vertices))

	for k := range m.TriangleCount() {
		f := m.Triangle(k)
		a, b, c := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]

		e1 := b.Position.Sub(a.Position)
		e2 := c.Position.Sub(a.Position)
		d1 := b.UV.Sub(a.UV)
		d2 := c.UV.Sub(a.UV)

		det := d1.X*d2.Y - d2.X*d1.Y
		if det == 0 {
			continue
		}
		tangent := e1.Scale(d2.Y).Sub(e2.Scale(d1.Y)).Scale(1 / det)

		for _, idx := range f {
			acc[idx] = acc[idx].Add(tangent)
		}
	}

	for i := range m.Vertices {
		n := m.Vertices[i].Normal
		t := acc[i].Sub(n.Scale(n.Dot(acc[i])))
		if t.LenSq() < 1e-12 {
			t = perpendicular(n)
		}
		m.Vertices[i].Tangent = t.Normalize()
	}
}

// perpendicular returns any unit vector orthogonal to n.
func perpendicular(n math3d.Vec3) math3d.Vec3 {
	axis := math3d.Right()
	if math.Abs(n.X) > 0.9 {
		axis = math3d.Up()
	}
	return axis.Sub(n.Scale(n.Dot(axis))).Normalize()
}

// Clone creates a deep copy of the mesh. The transformed cache is not
// shared.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:      m.Name,
		Vertices:  make([]Vertex, len(m.Vertices)),
		Indices:   make([]uint32, len(m.Indices)),
		Topology:  m.Topology,
		World:     m.World,
		Material:  m.Material,
		Visible:   m.Visible,
		BoundsMin: m.BoundsMin,
		BoundsMax: m.BoundsMax,
	}
	copy(clone.Vertices, m.Vertices)
	copy(clone.Indices, m.Indices)
	return clone
}
