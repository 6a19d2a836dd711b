package render

import (
	"math"
)

// edgeCoeffs returns A, B, C such that A*x + B*y + C equals
// cross(p1 - p0, p - p0) for p = (x, y).
func edgeCoeffs(x0, y0, x1, y1 float64) (A, B, C float64) {
	A = y0 - y1 // -dy
	B = x1 - x0 // dx
	C = x0*y1 - x1*y0
	return
}

// edgeFunc evaluates edge function at point (x, y)
func edgeFunc(A, B, C, x, y float64) float64 {
	return A*x + B*y + C
}

// edge is one edge function of a triangle plus its tie-break ownership.
// A pixel centre exactly on an edge belongs to the triangle only if the
// edge is owned; two triangles sharing an edge traverse it in opposite
// directions, so exactly one of them owns it.
type edge struct {
	a, b, c float64
	owned   bool
}

func newEdge(x0, y0, x1, y1 float64) edge {
	a, b, c := edgeCoeffs(x0, y0, x1, y1)
	dx, dy := x1-x0, y1-y0
	return edge{a: a, b: b, c: c, owned: dy > 0 || (dy == 0 && dx > 0)}
}

// screenTriangle is a clipped triangle after perspective divide and
// viewport mapping, normalized to the front winding.
type screenTriangle struct {
	// v holds screen x, screen y, NDC z and clip w in Position.
	v       Triangle
	invW    [3]float64
	invArea float64
	// edges[i] is the edge opposite vertex i.
	edges [3]edge

	minX, minY, maxX, maxY int

	ctx *DrawContext
}

// setupTriangle maps a clipped triangle to the screen and applies winding
// culling. Front faces have a negative signed area in y-down screen space.
// Back faces that survive culling are flipped so every accepted triangle
// has the same winding. Degenerate triangles are rejected.
func setupTriangle(t Triangle, width, height int, cull CullMode) (screenTriangle, bool) {
	for i := range t {
		p := t[i].Position.PerspectiveDivide()
		p.X, p.Y = toScreen(p.X, p.Y, width, height)
		t[i].Position = p
	}

	p0, p1, p2 := t[0].Position, t[1].Position, t[2].Position
	area2 := (p1.X-p0.X)*(p2.Y-p0.Y) - (p1.Y-p0.Y)*(p2.X-p0.X)
	if area2 == 0 || math.IsNaN(area2) {
		return screenTriangle{}, false
	}

	back := area2 > 0
	switch cull {
	case CullBack:
		if back {
			return screenTriangle{}, false
		}
	case CullFront:
		if !back {
			return screenTriangle{}, false
		}
	}
	if back {
		t[1], t[2] = t[2], t[1]
		p1, p2 = p2, p1
		area2 = -area2
	}

	st := screenTriangle{
		v:       t,
		invArea: 1 / area2,
		edges: [3]edge{
			newEdge(p1.X, p1.Y, p2.X, p2.Y),
			newEdge(p2.X, p2.Y, p0.X, p0.Y),
			newEdge(p0.X, p0.Y, p1.X, p1.Y),
		},
	}
	for i := range t {
		st.invW[i] = 1 / t[i].Position.W
	}

	st.minX = clampPixel(math.Floor(min3(p0.X, p1.X, p2.X))-1, width)
	st.maxX = clampPixel(math.Ceil(max3(p0.X, p1.X, p2.X))+1, width)
	st.minY = clampPixel(math.Floor(min3(p0.Y, p1.Y, p2.Y))-1, height)
	st.maxY = clampPixel(math.Ceil(max3(p0.Y, p1.Y, p2.Y))+1, height)
	return st, true
}

// weights returns the barycentric weights of (px, py) and whether the
// point is covered.
func (t *screenTriangle) weights(px, py float64) ([3]float64, bool) {
	var b [3]float64
	for i := range t.edges {
		e := &t.edges[i]
		w := edgeFunc(e.a, e.b, e.c, px, py)
		if w > 0 || (w == 0 && !e.owned) {
			return b, false
		}
		b[i] = w * t.invArea
	}
	return b, true
}

// depth interpolates 1/z. Zero weights are skipped so a vertex on the near
// plane (z = 0) does not turn the sum into NaN.
func (t *screenTriangle) depth(b [3]float64) float64 {
	var sum float64
	for i := range b {
		if b[i] != 0 {
			sum += b[i] / t.v[i].Position.Z
		}
	}
	return 1 / sum
}

// interpolate fills the perspective-correct surface attributes of f.
func (t *screenTriangle) interpolate(b [3]float64, f *Fragment) {
	w0, w1, w2 := b[0]*t.invW[0], b[1]*t.invW[1], b[2]*t.invW[2]
	k := 1 / (w0 + w1 + w2)
	v0, v1, v2 := &t.v[0], &t.v[1], &t.v[2]

	f.UV = v0.UV.Scale(w0).Add(v1.UV.Scale(w1)).Add(v2.UV.Scale(w2)).Scale(k)
	f.Normal = v0.Normal.Scale(w0).Add(v1.Normal.Scale(w1)).Add(v2.Normal.Scale(w2)).Normalize()
	f.Tangent = v0.Tangent.Scale(w0).Add(v1.Tangent.Scale(w1)).Add(v2.Tangent.Scale(w2)).Normalize()
	f.ViewDir = v0.ViewDir.Scale(w0).Add(v1.ViewDir.Scale(w1)).Add(v2.ViewDir.Scale(w2)).Scale(k)
}

// rasterizeRows scans rows y0..y1 of the triangle's bounding box and
// returns the number of pixels written.
func (t *screenTriangle) rasterizeRows(fb *Framebuffer, y0, y1 int) int {
	s := t.ctx.Settings
	depthWrite := t.ctx.Material.DepthWrite
	shader := t.ctx.Shader

	var frag Fragment
	written := 0

	for y := y0; y <= y1; y++ {
		py := float64(y) + 0.5
		row := y * fb.Width

		for x := t.minX; x <= t.maxX; x++ {
			idx := row + x
			if s.View == VisualizeBoundingBox {
				fb.Pixels[idx] = s.BoundingBoxColor
				written++
				continue
			}

			b, inside := t.weights(float64(x)+0.5, py)
			if !inside {
				continue
			}

			depth := t.depth(b)
			if math.IsNaN(depth) || math.IsInf(depth, 0) {
				continue
			}
			// Depth is monotonic along a row; once outside [0,1] the
			// rest of the row is too.
			if depth < 0 || depth > 1 {
				break
			}
			if depth >= fb.Depth[idx] {
				continue
			}
			if depthWrite {
				fb.Depth[idx] = depth
			}

			if s.View == VisualizeDepth {
				fb.Pixels[idx] = Gray(s.DepthRemap.Apply(depth)).WithAlpha(1).ToColor()
				written++
				continue
			}

			t.interpolate(b, &frag)
			frag.X, frag.Y, frag.Depth = x, y, depth
			c, ok := shader.Shade(&frag, FromColor(fb.Pixels[idx]))
			if !ok {
				continue
			}
			fb.Pixels[idx] = c.ToColor()
			written++
		}
	}

	return written
}

// clampPixel converts a screen coordinate to a pixel index in [0, size-1].
// Clamping happens before the int conversion so far off-screen vertices
// cannot overflow.
func clampPixel(v float64, size int) int {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	if v >= float64(size-1) {
		return size - 1
	}
	return int(v)
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}
