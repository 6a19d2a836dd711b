package render

import "github.com/taigrr/softrast/pkg/models"

// Triangle is three transformed vertices in winding order.
type Triangle [3]models.TransformedVertex

// clipOutcome reports what clipTriangle did.
type clipOutcome int

const (
	clipRejected clipOutcome = iota
	clipKept
	clipSplit
)

// clipOrder rotates a triangle so the vertices behind the near plane land
// in the leading slots. Indexed by the bitmask of vertices with z < 0.
// Only cyclic rotations are used so the winding never flips.
var clipOrder = [8][3]int{
	0: {0, 1, 2},
	1: {0, 1, 2}, // v0 behind
	2: {1, 2, 0}, // v1 behind
	3: {0, 1, 2}, // v0, v1 behind
	4: {2, 0, 1}, // v2 behind
	5: {2, 0, 1}, // v2, v0 behind
	6: {1, 2, 0}, // v1, v2 behind
	7: {0, 1, 2},
}

// outsideSamePlane reports whether all three clip-space vertices lie
// beyond the same frustum plane.
func outsideSamePlane(t *Triangle) bool {
	var right, left, top, bottom, far, near int
	for i := range t {
		p := t[i].Position
		if p.X > p.W {
			right++
		}
		if p.X < -p.W {
			left++
		}
		if p.Y > p.W {
			top++
		}
		if p.Y < -p.W {
			bottom++
		}
		if p.Z > p.W {
			far++
		}
		if p.Z < 0 {
			near++
		}
	}
	return right == 3 || left == 3 || top == 3 || bottom == 3 || far == 3 || near == 3
}

// clipTriangle appends the parts of t in front of the near plane (clip
// z >= 0) to dst. Vertices created on the plane interpolate every
// attribute of their source edge.
func clipTriangle(dst []Triangle, t Triangle) ([]Triangle, clipOutcome) {
	if outsideSamePlane(&t) {
		return dst, clipRejected
	}

	var mask int
	for i := range t {
		if t[i].Position.Z < 0 {
			mask |= 1 << i
		}
	}
	if mask == 0 {
		return append(dst, t), clipKept
	}

	order := clipOrder[mask]
	v0, v1, v2 := t[order[0]], t[order[1]], t[order[2]]

	switch mask {
	case 1, 2, 4:
		// One vertex behind: the visible part is the quad A, v1, v2, B,
		// split along A-v2 so the two halves share an edge exactly.
		a := onNearPlane(v0, v1)
		b := onNearPlane(v0, v2)
		return append(dst, Triangle{a, v1, v2}, Triangle{a, v2, b}), clipSplit
	case 3, 5, 6:
		// Two vertices behind: both slide toward v2.
		a := onNearPlane(v0, v2)
		b := onNearPlane(v1, v2)
		return append(dst, Triangle{a, b, v2}), clipSplit
	default:
		return dst, clipRejected
	}
}

// onNearPlane returns the point where the edge from behind (z < 0) to
// front crosses z = 0.
func onNearPlane(behind, front models.TransformedVertex) models.TransformedVertex {
	t := -behind.Position.Z / (front.Position.Z - behind.Position.Z)
	v := behind.Lerp(front, t)
	v.Position.Z = 0
	return v
}
