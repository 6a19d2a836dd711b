package render

import (
	"math"

	"github.com/taigrr/softrast/pkg/math3d"
)

// maxPitch keeps the forward vector away from the world up axis.
const maxPitch = math.Pi/2 - 0.01

// Camera is a yaw/pitch camera in a left-handed world (+Z forward).
//
// The basis and matrices are rebuilt by Update, which the rasterizer calls
// once at the start of every frame. Between frames they may lag behind the
// exported fields.
type Camera struct {
	// Position in world space
	Position math3d.Vec3

	// Orientation in radians. Yaw turns +Z toward +X, pitch raises the
	// view toward +Y.
	Pitch float64
	Yaw   float64

	// Projection parameters
	FOV         float64 // Vertical field of view in radians
	AspectRatio float64 // Width / Height
	Near        float64 // Near clipping plane
	Far         float64 // Far clipping plane

	forward, right, up math3d.Vec3
	view               math3d.Mat4
	invView            math3d.Mat4
	projection         math3d.Mat4
}

// NewCamera creates a camera at the origin looking down +Z.
func NewCamera() *Camera {
	c := &Camera{
		FOV:         math.Pi / 2,
		AspectRatio: 16.0 / 9.0,
		Near:        0.1,
		Far:         100,
	}
	c.Update()
	return c
}

// SetPosition sets the camera position.
func (c *Camera) SetPosition(pos math3d.Vec3) {
	c.Position = pos
}

// SetRotation sets pitch and yaw in radians. Pitch is clamped.
func (c *Camera) SetRotation(pitch, yaw float64) {
	c.Pitch = clampPitch(pitch)
	c.Yaw = yaw
}

// SetFOV sets the vertical field of view in radians.
func (c *Camera) SetFOV(fov float64) {
	c.FOV = fov
}

// SetAspectRatio sets the aspect ratio.
func (c *Camera) SetAspectRatio(aspect float64) {
	c.AspectRatio = aspect
}

// SetClipPlanes sets the near and far clipping planes.
func (c *Camera) SetClipPlanes(near, far float64) {
	c.Near = near
	c.Far = far
}

// Update rebuilds the orientation basis, view, inverse view and projection
// from the current fields.
func (c *Camera) Update() {
	c.forward = c.Forward()
	c.right = math3d.Up().Cross(c.forward).Normalize()
	c.up = c.forward.Cross(c.right)

	c.invView = math3d.FromBasis(c.right, c.up, c.forward, c.Position)
	c.view = c.invView.Inverse()
	c.projection = math3d.PerspectiveLH(c.FOV, c.AspectRatio, c.Near, c.Far)
}

// Forward returns the viewing direction derived from yaw and pitch.
func (c *Camera) Forward() math3d.Vec3 {
	cp := math.Cos(c.Pitch)
	return math3d.V3(
		math.Sin(c.Yaw)*cp,
		math.Sin(c.Pitch),
		math.Cos(c.Yaw)*cp,
	)
}

// Right returns the horizontal right direction derived from yaw.
func (c *Camera) Right() math3d.Vec3 {
	return math3d.V3(math.Cos(c.Yaw), 0, -math.Sin(c.Yaw))
}

// Origin returns the camera position as of the last Update.
func (c *Camera) Origin() math3d.Vec3 {
	return c.invView.Translation()
}

// View returns the world-to-camera matrix as of the last Update.
func (c *Camera) View() math3d.Mat4 {
	return c.view
}

// InvView returns the camera-to-world matrix as of the last Update.
func (c *Camera) InvView() math3d.Mat4 {
	return c.invView
}

// Projection returns the projection matrix as of the last Update.
func (c *Camera) Projection() math3d.Mat4 {
	return c.projection
}

// ViewProjection returns projection * view.
func (c *Camera) ViewProjection() math3d.Mat4 {
	return c.projection.Mul(c.view)
}

// Frustum returns the view frustum as of the last Update.
func (c *Camera) Frustum() Frustum {
	return NewFrustumFromMatrix(c.ViewProjection())
}

// MoveForward moves the camera along its view direction (or backward if
// negative).
func (c *Camera) MoveForward(distance float64) {
	c.Position = c.Position.Add(c.Forward().Scale(distance))
}

// MoveRight moves the camera right (or left if negative).
func (c *Camera) MoveRight(distance float64) {
	c.Position = c.Position.Add(c.Right().Scale(distance))
}

// MoveUp moves the camera up (or down if negative).
func (c *Camera) MoveUp(distance float64) {
	c.Position = c.Position.Add(math3d.Up().Scale(distance))
}

// Rotate adds the given angles in radians.
func (c *Camera) Rotate(deltaPitch, deltaYaw float64) {
	c.Pitch = clampPitch(c.Pitch + deltaPitch)
	c.Yaw += deltaYaw
}

// LookAt turns the camera toward a target point.
func (c *Camera) LookAt(target math3d.Vec3) {
	dir := target.Sub(c.Position).Normalize()
	if dir.LenSq() == 0 {
		return
	}
	c.Pitch = clampPitch(math.Asin(dir.Y))
	c.Yaw = math.Atan2(dir.X, dir.Z)
}

func clampPitch(p float64) float64 {
	return max(-maxPitch, min(maxPitch, p))
}

// WorldToScreen transforms a world point to screen coordinates using the
// matrices of the last Update.
// Returns (screenX, screenY, depth, visible).
func (c *Camera) WorldToScreen(worldPos math3d.Vec3, screenWidth, screenHeight int) (x, y, depth float64, visible bool) {
	clipPos := c.ViewProjection().MulVec4(math3d.V4FromV3(worldPos, 1))

	// Check if behind camera
	if clipPos.W <= 0 {
		return 0, 0, 0, false
	}

	ndc := clipPos.PerspectiveDivide()
	if ndc.X < -1 || ndc.X > 1 || ndc.Y < -1 || ndc.Y > 1 || ndc.Z < 0 || ndc.Z > 1 {
		return 0, 0, 0, false
	}

	x, y = toScreen(ndc.X, ndc.Y, screenWidth, screenHeight)
	return x, y, ndc.Z, true
}

// toScreen maps NDC x,y to pixel coordinates with y pointing down.
func toScreen(ndcX, ndcY float64, width, height int) (float64, float64) {
	return (ndcX + 1) * 0.5 * float64(width), (1 - ndcY) * 0.5 * float64(height)
}
