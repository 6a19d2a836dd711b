package math3d

import "math"

// Mat4 is a 4x4 matrix stored in column-major order that transforms column
// vectors (M * v). A chain applied right-to-left, such as
// proj.Mul(view).Mul(world), equals the row-vector product
// world * view * proj.
//
// Memory layout (indices):
// | 0  4  8  12 |
// | 1  5  9  13 |
// | 2  6  10 14 |
// | 3  7  11 15 |
//
// For a transform matrix:
// | Xx Yx Zx Tx |   X,Y,Z = basis vectors (rotation/scale)
// | Xy Yy Zy Ty |   T = translation
// | Xz Yz Zz Tz |
// | 0  0  0  1  |
type Mat4 [16]float64

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate creates a translation matrix.
func Translate(v Vec3) Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		v.X, v.Y, v.Z, 1,
	}
}

// Scale creates a scaling matrix.
func Scale(v Vec3) Mat4 {
	return Mat4{
		v.X, 0, 0, 0,
		0, v.Y, 0, 0,
		0, 0, v.Z, 0,
		0, 0, 0, 1,
	}
}

// ScaleUniform creates a uniform scaling matrix.
func ScaleUniform(s float64) Mat4 {
	return Scale(V3(s, s, s))
}

// RotateX creates a rotation matrix around the X axis.
func RotateX(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		1, 0, 0, 0,
		0, c, s, 0,
		0, -s, c, 0,
		0, 0, 0, 1,
	}
}

// RotateY creates a rotation matrix around the Y axis. With a positive
// angle, +Z turns toward +X.
func RotateY(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		c, 0, -s, 0,
		0, 1, 0, 0,
		s, 0, c, 0,
		0, 0, 0, 1,
	}
}

// Rotate creates a rotation matrix around an arbitrary axis.
func Rotate(axis Vec3, angle float64) Mat4 {
	axis = axis.Normalize()
	c, s := math.Cos(angle), math.Sin(angle)
	t := 1 - c
	x, y, z := axis.X, axis.Y, axis.Z

	return Mat4{
		t*x*x + c, t*x*y + s*z, t*x*z - s*y, 0,
		t*x*y - s*z, t*y*y + c, t*y*z + s*x, 0,
		t*x*z + s*y, t*y*z - s*x, t*z*z + c, 0,
		0, 0, 0, 1,
	}
}

// FromBasis builds the matrix whose columns are the given axes and origin.
// For an orthonormal basis this is the local-to-world transform of a frame.
func FromBasis(right, up, forward, origin Vec3) Mat4 {
	return Mat4{
		right.X, right.Y, right.Z, 0,
		up.X, up.Y, up.Z, 0,
		forward.X, forward.Y, forward.Z, 0,
		origin.X, origin.Y, origin.Z, 1,
	}
}

// PerspectiveLH creates a left-handed perspective projection with a
// zero-to-one depth range: view-space z = near maps to clip z = 0 and
// z = far maps to clip z = w. Clip w equals view-space z.
// fovy is the vertical field of view in radians, aspect is width/height.
func PerspectiveLH(fovy, aspect, near, far float64) Mat4 {
	ys := 1.0 / math.Tan(fovy/2)
	xs := ys / aspect
	zr := far / (far - near)

	return Mat4{
		xs, 0, 0, 0,
		0, ys, 0, 0,
		0, 0, zr, 1,
		0, 0, -near * zr, 0,
	}
}

// Mul multiplies two matrices: a * b.
//
//nolint:st1016 // a*b naming convention is clearer for matrix multiplication
func (a Mat4) Mul(b Mat4) Mat4 {
	var m Mat4
	for col := range 4 {
		for row := range 4 {
			var sum float64
			for k := range 4 {
				sum += a[row+k*4] * b[k+col*4]
			}
			m[row+col*4] = sum
		}
	}
	return m
}

// MulVec3 transforms a Vec3 as a point (w=1).
func (m Mat4) MulVec3(v Vec3) Vec3 {
	w := m[3]*v.X + m[7]*v.Y + m[11]*v.Z + m[15]
	if w == 0 {
		w = 1
	}
	return Vec3{
		(m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12]) / w,
		(m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13]) / w,
		(m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14]) / w,
	}
}

// MulVec3Dir transforms a Vec3 as a direction (w=0, no translation).
func (m Mat4) MulVec3Dir(v Vec3) Vec3 {
	return Vec3{
		m[0]*v.X + m[4]*v.Y + m[8]*v.Z,
		m[1]*v.X + m[5]*v.Y + m[9]*v.Z,
		m[2]*v.X + m[6]*v.Y + m[10]*v.Z,
	}
}

// MulVec4 transforms a Vec4.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12]*v.W,
		m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13]*v.W,
		m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14]*v.W,
		m[3]*v.X + m[7]*v.Y + m[11]*v.Z + m[15]*v.W,
	}
}

// Row returns row i as a Vec4.
func (m Mat4) Row(i int) Vec4 {
	return Vec4{m[i], m[i+4], m[i+8], m[i+12]}
}

// Determinant returns the determinant of the matrix.
func (m Mat4) Determinant() float64 {
	_, det := m.invert()
	return det
}

// Inverse returns the inverse of the matrix.
// Returns identity if the matrix is singular (det=0).
func (m Mat4) Inverse() Mat4 {
	inv, det := m.invert()
	if det == 0 {
		return Identity()
	}
	return inv
}

// invert runs Gauss-Jordan elimination with partial pivoting on m and the
// identity side by side. The determinant is the product of the pivots,
// negated once per row swap; when it is zero the returned matrix is
// meaningless.
func (m Mat4) invert() (Mat4, float64) {
	a, inv := m, Identity()
	det := 1.0

	for col := range 4 {
		pivot := col
		for r := col + 1; r < 4; r++ {
			if math.Abs(a[col*4+r]) > math.Abs(a[col*4+pivot]) {
				pivot = r
			}
		}
		pv := a[col*4+pivot]
		if pv == 0 {
			return Mat4{}, 0
		}
		if pivot != col {
			a.swapRows(pivot, col)
			inv.swapRows(pivot, col)
			det = -det
		}
		det *= pv

		a.scaleRow(col, 1/pv)
		inv.scaleRow(col, 1/pv)
		for r := range 4 {
			if f := a[col*4+r]; r != col && f != 0 {
				a.addRow(r, col, -f)
				inv.addRow(r, col, -f)
			}
		}
	}
	return inv, det
}

func (m *Mat4) swapRows(i, j int) {
	for c := range 4 {
		m[c*4+i], m[c*4+j] = m[c*4+j], m[c*4+i]
	}
}

func (m *Mat4) scaleRow(i int, s float64) {
	for c := range 4 {
		m[c*4+i] *= s
	}
}

// addRow adds f times row src to row dst.
func (m *Mat4) addRow(dst, src int, f float64) {
	for c := range 4 {
		m[c*4+dst] += f * m[c*4+src]
	}
}

// Translation extracts the translation component.
func (m Mat4) Translation() Vec3 {
	return Vec3{m[12], m[13], m[14]}
}
