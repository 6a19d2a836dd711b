package models

import (
	"errors"
	"fmt"
)

// ErrIndexOutOfRange is returned when an index buffer references a vertex
// the mesh does not have.
var ErrIndexOutOfRange = errors.New("index out of range")

// Topology describes how an index buffer is grouped into triangles.
type Topology int

const (
	// TriangleList reads non-overlapping index triples.
	TriangleList Topology = iota
	// TriangleStrip shares two indices between consecutive triangles and
	// alternates winding so every triangle faces the same way.
	TriangleStrip
)

func (t Topology) String() string {
	switch t {
	case TriangleList:
		return "list"
	case TriangleStrip:
		return "strip"
	default:
		return fmt.Sprintf("Topology(%d)", int(t))
	}
}

// Step returns how far the index cursor advances per triangle.
func (t Topology) Step() int {
	if t == TriangleStrip {
		return 1
	}
	return 3
}

// TriangleCount returns how many complete triangles n indices produce.
// A trailing partial triangle is not counted.
func (t Topology) TriangleCount(n int) int {
	if n < 3 {
		return 0
	}
	if t == TriangleStrip {
		return n - 2
	}
	return n / 3
}

// Triangle returns the three indices of triangle k. Odd strip triangles
// swap their last two indices to keep the winding consistent.
func (t Topology) Triangle(indices []uint32, k int) [3]uint32 {
	i := k * t.Step()
	if t == TriangleStrip && k%2 == 1 {
		return [3]uint32{indices[i], indices[i+2], indices[i+1]}
	}
	return [3]uint32{indices[i], indices[i+1], indices[i+2]}
}
