package render

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestSetLogger(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { SetLogger(nil) })

	r, scene := newTestRasterizer(16, 16)
	scene.meshes = append(scene.meshes, newTestCube(matLit))
	r.CycleCullMode()
	if _, err := r.Render(scene); err != nil {
		t.Fatalf("Render: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "cull mode") || !strings.Contains(out, "mode=front") {
		t.Errorf("missing toggle log in %q", out)
	}
	if !strings.Contains(out, "stats.triangles=12") {
		t.Errorf("missing frame stats in %q", out)
	}

	SetLogger(nil)
	if Logger().Enabled(t.Context(), slog.LevelError) {
		t.Error("default logger should be disabled")
	}
}
