package render

import (
	"math/rand"
	"testing"

	"github.com/taigrr/softrast/pkg/math3d"
)

// BenchmarkFrustumExtract benchmarks plane extraction from a camera.
func BenchmarkFrustumExtract(b *testing.B) {
	cam := NewCamera()
	cam.SetPosition(math3d.V3(0, 10, -20))
	cam.LookAt(math3d.V3(0, 0, 0))
	cam.Update()
	viewProj := cam.ViewProjection()

	for b.Loop() {
		_ = NewFrustumFromMatrix(viewProj)
	}
}

// BenchmarkTransformAABB benchmarks AABB transformation.
func BenchmarkTransformAABB(b *testing.B) {
	local := AABB{Min: math3d.V3(-1, -1, -1), Max: math3d.V3(1, 1, 1)}
	transform := math3d.Translate(math3d.V3(10, 5, 20)).Mul(math3d.RotateY(0.5)).Mul(math3d.ScaleUniform(2))

	for b.Loop() {
		_ = local.Transform(transform)
	}
}

// BenchmarkCullingScenario culls a field of boxes, some visible, some not.
func BenchmarkCullingScenario(b *testing.B) {
	cam := NewCamera()
	cam.SetPosition(math3d.V3(0, 10, -20))
	cam.LookAt(math3d.V3(0, 0, 0))
	cam.Update()
	frustum := cam.Frustum()

	rng := rand.New(rand.NewSource(42))
	type object struct {
		bounds    AABB
		transform math3d.Mat4
	}
	objects := make([]object, 100)
	for i := range objects {
		x := rng.Float64()*100 - 50
		y := rng.Float64() * 10
		z := rng.Float64()*100 - 50
		objects[i] = object{
			bounds:    AABB{Min: math3d.V3(-1, -1, -1), Max: math3d.V3(1, 1, 1)},
			transform: math3d.Translate(math3d.V3(x, y, z)),
		}
	}

	for b.Loop() {
		visible := 0
		for _, obj := range objects {
			if frustum.IntersectAABB(obj.bounds.Transform(obj.transform)) {
				visible++
			}
		}
		_ = visible
	}
}
