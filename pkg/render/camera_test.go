package render

import (
	"math"
	"testing"

	"github.com/taigrr/softrast/pkg/math3d"
)

func vecNear(a, b math3d.Vec3, eps float64) bool {
	return math.Abs(a.X-b.X) <= eps && math.Abs(a.Y-b.Y) <= eps && math.Abs(a.Z-b.Z) <= eps
}

func TestCameraBasis(t *testing.T) {
	tests := []struct {
		name           string
		pitch, yaw     float64
		forward, right math3d.Vec3
	}{
		{"default", 0, 0, math3d.V3(0, 0, 1), math3d.V3(1, 0, 0)},
		{"yaw right", 0, math.Pi / 2, math3d.V3(1, 0, 0), math3d.V3(0, 0, -1)},
		{"yaw around", 0, math.Pi, math3d.V3(0, 0, -1), math3d.V3(-1, 0, 0)},
		{"pitch up", math.Pi / 4, 0, math3d.V3(0, math.Sqrt2/2, math.Sqrt2/2), math3d.V3(1, 0, 0)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := NewCamera()
			c.SetRotation(tc.pitch, tc.yaw)
			c.Update()
			if got := c.Forward(); !vecNear(got, tc.forward, 1e-9) {
				t.Errorf("Forward() = %v, want %v", got, tc.forward)
			}
			if got := c.Right(); !vecNear(got, tc.right, 1e-9) {
				t.Errorf("Right() = %v, want %v", got, tc.right)
			}
			// The view basis right must match the movement right.
			if got := c.InvView().MulVec3Dir(math3d.Right()); !vecNear(got, tc.right, 1e-9) {
				t.Errorf("view right = %v, want %v", got, tc.right)
			}
		})
	}
}

func TestCameraViewInverse(t *testing.T) {
	c := NewCamera()
	c.SetPosition(math3d.V3(3, -2, 7))
	c.SetRotation(0.3, -1.1)
	c.Update()

	if o := c.Origin(); !vecNear(o, c.Position, 1e-9) {
		t.Errorf("Origin() = %v, want %v", o, c.Position)
	}

	p := math3d.V3(1, 2, 3)
	back := c.InvView().MulVec3(c.View().MulVec3(p))
	if !vecNear(back, p, 1e-9) {
		t.Errorf("InvView(View(p)) = %v, want %v", back, p)
	}

	// The camera looks down +Z in view space.
	ahead := c.View().MulVec3(c.Position.Add(c.Forward().Scale(5)))
	if !vecNear(ahead, math3d.V3(0, 0, 5), 1e-9) {
		t.Errorf("point ahead in view space = %v, want (0, 0, 5)", ahead)
	}
}

func TestCameraPitchClamp(t *testing.T) {
	c := NewCamera()
	c.SetRotation(10, 0)
	if c.Pitch != maxPitch {
		t.Errorf("pitch = %v, want %v", c.Pitch, maxPitch)
	}
	c.Rotate(-20, 0.5)
	if c.Pitch != -maxPitch {
		t.Errorf("pitch = %v, want %v", c.Pitch, -maxPitch)
	}
	if c.Yaw != 0.5 {
		t.Errorf("yaw = %v, want 0.5", c.Yaw)
	}
}

func TestCameraLookAt(t *testing.T) {
	c := NewCamera()
	c.SetPosition(math3d.V3(0, 10, -20))
	c.LookAt(math3d.Zero3())

	want := math3d.V3(0, -10, 20).Normalize()
	if got := c.Forward(); !vecNear(got, want, 1e-9) {
		t.Errorf("Forward() = %v, want %v", got, want)
	}

	// Looking at its own position leaves the orientation alone.
	c.LookAt(c.Position)
	if got := c.Forward(); !vecNear(got, want, 1e-9) {
		t.Errorf("Forward() after degenerate LookAt = %v, want %v", got, want)
	}
}

func TestCameraMovement(t *testing.T) {
	c := NewCamera()
	c.MoveForward(2)
	c.MoveRight(1)
	c.MoveUp(3)
	if want := math3d.V3(1, 3, 2); !vecNear(c.Position, want, 1e-9) {
		t.Errorf("position = %v, want %v", c.Position, want)
	}
}

func TestCameraWorldToScreen(t *testing.T) {
	c := NewCamera()
	c.SetPosition(math3d.V3(0, 0, -3))
	c.SetAspectRatio(1)
	c.Update()

	tests := []struct {
		name    string
		point   math3d.Vec3
		x, y    float64
		visible bool
	}{
		{"center", math3d.V3(0, 0, 0), 50, 50, true},
		{"up is up", math3d.V3(0, 1.5, 0), 50, 25, true},
		{"right is right", math3d.V3(1.5, 0, 0), 75, 50, true},
		{"behind", math3d.V3(0, 0, -5), 0, 0, false},
		{"off screen", math3d.V3(10, 0, 0), 0, 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			x, y, depth, visible := c.WorldToScreen(tc.point, 100, 100)
			if visible != tc.visible {
				t.Fatalf("visible = %v, want %v", visible, tc.visible)
			}
			if !visible {
				return
			}
			if math.Abs(x-tc.x) > 1e-6 || math.Abs(y-tc.y) > 1e-6 {
				t.Errorf("screen = (%v, %v), want (%v, %v)", x, y, tc.x, tc.y)
			}
			if depth <= 0 || depth >= 1 {
				t.Errorf("depth = %v, want in (0,1)", depth)
			}
		})
	}
}

func BenchmarkCameraUpdate(b *testing.B) {
	c := NewCamera()
	c.SetPosition(math3d.V3(1, 2, -5))
	c.SetRotation(0.2, 0.7)

	for b.Loop() {
		c.Update()
	}
}
