package render

import (
	"github.com/taigrr/softrast/pkg/math3d"
	"github.com/taigrr/softrast/pkg/models"
	"golang.org/x/sync/errgroup"
)

// minVerticesPerWorker keeps small meshes on the calling goroutine.
const minVerticesPerWorker = 256

// TransformVertices runs the vertex stage for mesh, overwriting its
// transformed buffer. With workers > 1 the vertex range is split across
// goroutines.
func TransformVertices(ctx *DrawContext, mesh *models.Mesh, workers int) []models.TransformedVertex {
	out := mesh.Transformed()
	n := len(mesh.Vertices)

	if workers <= 1 || n < 2*minVerticesPerWorker {
		transformRange(ctx, mesh.Vertices, out)
		return out
	}

	chunk := max((n+workers-1)/workers, minVerticesPerWorker)
	var g errgroup.Group
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		g.Go(func() error {
			transformRange(ctx, mesh.Vertices[start:end], out[start:end])
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func transformRange(ctx *DrawContext, in []models.Vertex, out []models.TransformedVertex) {
	for i, v := range in {
		out[i] = transformVertex(ctx, v)
	}
}

// transformVertex computes the clip position and the world-oriented shading
// attributes. Normal and tangent are left unnormalized; the rasterizer
// normalizes them per pixel after interpolation.
func transformVertex(ctx *DrawContext, v models.Vertex) models.TransformedVertex {
	world := ctx.World.MulVec3(v.Position)
	return models.TransformedVertex{
		Position: ctx.WVP.MulVec4(math3d.V4FromV3(v.Position, 1)),
		UV:       v.UV,
		Normal:   ctx.World.MulVec3Dir(v.Normal),
		Tangent:  ctx.World.MulVec3Dir(v.Tangent),
		ViewDir:  world.Sub(ctx.Origin).Normalize(),
	}
}
