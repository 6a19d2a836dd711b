package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/taigrr/softrast/pkg/math3d"
)

// ErrUnknownMode is returned when a mode name cannot be parsed.
var ErrUnknownMode = errors.New("unknown mode")

// CullMode selects which triangle windings are rasterized.
type CullMode int

const (
	// CullBack draws only front-facing (counter-clockwise on screen)
	// triangles.
	CullBack CullMode = iota
	// CullFront draws only back-facing triangles.
	CullFront
	// CullNone draws both.
	CullNone

	cullModeCount
)

var cullModeNames = [...]string{"back", "front", "none"}

func (m CullMode) String() string {
	if m < 0 || m >= cullModeCount {
		return fmt.Sprintf("CullMode(%d)", int(m))
	}
	return cullModeNames[m]
}

// Next returns the following mode, wrapping around.
func (m CullMode) Next() CullMode {
	return (m + 1) % cullModeCount
}

// ParseCullMode parses a name produced by CullMode.String.
func ParseCullMode(s string) (CullMode, error) {
	for i, name := range cullModeNames {
		if strings.EqualFold(s, name) {
			return CullMode(i), nil
		}
	}
	return 0, fmt.Errorf("cull mode %q: %w", s, ErrUnknownMode)
}

// ShadingMode selects which terms of the lit shader are output.
type ShadingMode int

const (
	ShadingCombined ShadingMode = iota
	ShadingObservedArea
	ShadingDiffuse
	ShadingSpecular

	shadingModeCount
)

var shadingModeNames = [...]string{"combined", "observed-area", "diffuse", "specular"}

func (m ShadingMode) String() string {
	if m < 0 || m >= shadingModeCount {
		return fmt.Sprintf("ShadingMode(%d)", int(m))
	}
	return shadingModeNames[m]
}

// Next returns the following mode, wrapping around.
func (m ShadingMode) Next() ShadingMode {
	return (m + 1) % shadingModeCount
}

// ParseShadingMode parses a name produced by ShadingMode.String.
func ParseShadingMode(s string) (ShadingMode, error) {
	for i, name := range shadingModeNames {
		if strings.EqualFold(s, name) {
			return ShadingMode(i), nil
		}
	}
	return 0, fmt.Errorf("shading mode %q: %w", s, ErrUnknownMode)
}

// Visualization replaces pixel shading with a debug view.
type Visualization int

const (
	VisualizeShaded Visualization = iota
	// VisualizeDepth writes the remapped depth as grayscale.
	VisualizeDepth
	// VisualizeBoundingBox fills every pixel a triangle's bounding box
	// covers.
	VisualizeBoundingBox

	visualizationCount
)

var visualizationNames = [...]string{"shaded", "depth", "bbox"}

func (v Visualization) String() string {
	if v < 0 || v >= visualizationCount {
		return fmt.Sprintf("Visualization(%d)", int(v))
	}
	return visualizationNames[v]
}

// ParseVisualization parses a name produced by Visualization.String.
func ParseVisualization(s string) (Visualization, error) {
	for i, name := range visualizationNames {
		if strings.EqualFold(s, name) {
			return Visualization(i), nil
		}
	}
	return 0, fmt.Errorf("visualization %q: %w", s, ErrUnknownMode)
}

// Light is a single directional light.
type Light struct {
	// Direction the light travels, unit length.
	Direction math3d.Vec3
	Intensity float64
}

// DefaultLight returns the light used when none is configured.
func DefaultLight() Light {
	return Light{
		Direction: math3d.V3(0.577, -0.577, 0.577),
		Intensity: 7,
	}
}

// DepthRemap is the depth range stretched to black..white by the depth
// visualization. Perspective depth crowds near 1, hence the narrow default.
type DepthRemap struct {
	Min, Max float64
}

// Apply maps d into [0,1], clamping outside the range.
func (r DepthRemap) Apply(d float64) float64 {
	if r.Max <= r.Min {
		return d
	}
	t := (d - r.Min) / (r.Max - r.Min)
	return max(0, min(1, t))
}

// Settings holds the renderer's runtime switches.
type Settings struct {
	Cull          CullMode
	Shading       ShadingMode
	NormalMapping bool
	View          Visualization
	Wireframe     bool

	ClearColor       Color
	WireframeColor   Color
	BoundingBoxColor Color
	DepthRemap       DepthRemap
	Light            Light

	// Workers > 1 splits the vertex stage and rasterization across
	// goroutines.
	Workers int
}

// DefaultSettings returns the settings the viewer starts with.
func DefaultSettings() Settings {
	return Settings{
		Cull:             CullBack,
		Shading:          ShadingCombined,
		NormalMapping:    true,
		View:             VisualizeShaded,
		ClearColor:       RGB(99, 99, 99),
		WireframeColor:   ColorYellow,
		BoundingBoxColor: ColorWhite,
		DepthRemap:       DepthRemap{Min: 0.985, Max: 1},
		Light:            DefaultLight(),
		Workers:          1,
	}
}
