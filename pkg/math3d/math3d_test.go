package math3d

import (
	"math"
	"testing"
)

const eps = 1e-9

func nearly(a, b float64) bool {
	return math.Abs(a-b) < eps
}

func vec3Nearly(a, b Vec3) bool {
	return nearly(a.X, b.X) && nearly(a.Y, b.Y) && nearly(a.Z, b.Z)
}

func TestPerspectiveLHDepthRange(t *testing.T) {
	near, far := 0.1, 100.0
	proj := PerspectiveLH(math.Pi/2, 1, near, far)

	tests := []struct {
		name  string
		z     float64
		wantZ float64
	}{
		{"near plane", near, 0},
		{"far plane", far, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clip := proj.MulVec4(V4(0, 0, tc.z, 1))
			if !nearly(clip.W, tc.z) {
				t.Errorf("clip.W = %v, want view z %v", clip.W, tc.z)
			}
			if got := clip.Z / clip.W; math.Abs(got-tc.wantZ) > 1e-6 {
				t.Errorf("ndc z = %v, want %v", got, tc.wantZ)
			}
		})
	}

	// Points in front of the near plane have negative clip z.
	clip := proj.MulVec4(V4(0, 0, near/2, 1))
	if clip.Z >= 0 {
		t.Errorf("point inside near plane should have clip z < 0, got %v", clip.Z)
	}
}

func TestPerspectiveLHFieldOfView(t *testing.T) {
	// With a 90 degree FOV and aspect 1, the frustum edge at z=1 is x=1.
	proj := PerspectiveLH(math.Pi/2, 1, 0.1, 100)
	clip := proj.MulVec4(V4(1, 1, 1, 1))
	if !nearly(clip.X/clip.W, 1) || !nearly(clip.Y/clip.W, 1) {
		t.Errorf("frustum corner mapped to (%v, %v), want (1, 1)", clip.X/clip.W, clip.Y/clip.W)
	}
}

func TestInverseRoundTrip(t *testing.T) {
	m := Translate(V3(1, -2, 3)).Mul(RotateY(0.7)).Mul(Rotate(V3(1, 1, 0), 0.3)).Mul(Scale(V3(2, 3, 4)))
	p := m.Mul(m.Inverse())
	id := Identity()
	for i := range p {
		if math.Abs(p[i]-id[i]) > 1e-9 {
			t.Fatalf("m * inverse(m) != identity at %d: %v", i, p[i])
		}
	}
}

func TestInverseSingular(t *testing.T) {
	if got := (Mat4{}).Inverse(); got != Identity() {
		t.Errorf("inverse of singular matrix = %v, want identity", got)
	}
}

func TestFromBasis(t *testing.T) {
	origin := V3(4, 5, 6)
	m := FromBasis(Right(), Up(), Forward(), origin)

	if got := m.MulVec3(Zero3()); !vec3Nearly(got, origin) {
		t.Errorf("origin maps to %v, want %v", got, origin)
	}
	if got := m.MulVec3Dir(Forward()); !vec3Nearly(got, Forward()) {
		t.Errorf("forward maps to %v, want %v", got, Forward())
	}
	if got := m.Translation(); !vec3Nearly(got, origin) {
		t.Errorf("Translation() = %v, want %v", got, origin)
	}
}

func TestRotateY(t *testing.T) {
	got := RotateY(math.Pi / 2).MulVec3Dir(Forward())
	if !vec3Nearly(got, Right()) {
		t.Errorf("RotateY(90deg) * forward = %v, want %v", got, Right())
	}
}

func TestMatrixChainOrder(t *testing.T) {
	// proj.Mul(view).Mul(world) applies world first.
	world := Translate(V3(1, 0, 0))
	view := Scale(V3(2, 2, 2))
	got := view.Mul(world).MulVec3(Zero3())
	if !vec3Nearly(got, V3(2, 0, 0)) {
		t.Errorf("view*world applied to origin = %v, want (2,0,0)", got)
	}
}

func TestRow(t *testing.T) {
	m := Translate(V3(7, 8, 9))
	if got := m.Row(0); got != V4(1, 0, 0, 7) {
		t.Errorf("Row(0) = %v, want (1,0,0,7)", got)
	}
	if got := m.Row(3); got != V4(0, 0, 0, 1) {
		t.Errorf("Row(3) = %v, want (0,0,0,1)", got)
	}
}

func TestVec2Cross(t *testing.T) {
	tests := []struct {
		name string
		a, b Vec2
		want float64
	}{
		{"x cross y", V2(1, 0), V2(0, 1), 1},
		{"y cross x", V2(0, 1), V2(1, 0), -1},
		{"parallel", V2(2, 2), V2(1, 1), 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Cross(tc.b); got != tc.want {
				t.Errorf("Cross = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestReflect(t *testing.T) {
	got := V3(1, -1, 0).Reflect(Up())
	if !vec3Nearly(got, V3(1, 1, 0)) {
		t.Errorf("Reflect = %v, want (1,1,0)", got)
	}
}

func TestPerspectiveDivideKeepsW(t *testing.T) {
	got := V4(2, 4, 1, 2).PerspectiveDivide()
	want := V4(1, 2, 0.5, 2)
	if got != want {
		t.Errorf("PerspectiveDivide = %v, want %v", got, want)
	}
	if zero := V4(1, 2, 3, 0).PerspectiveDivide(); zero != V4(1, 2, 3, 0) {
		t.Errorf("w=0 should pass through, got %v", zero)
	}
}

func TestNormalizeZero(t *testing.T) {
	if got := Zero3().Normalize(); got != Zero3() {
		t.Errorf("Normalize(zero) = %v, want zero", got)
	}
}
