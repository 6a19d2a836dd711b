package scene

import (
	"github.com/charmbracelet/harmonica"
	"github.com/taigrr/softrast/pkg/models"
)

// Spinner turns meshes around their Y axis. The angular speed follows a
// critically damped spring toward the target, so pausing and resuming
// ease out and in instead of snapping.
type Spinner struct {
	// Speed is the current yaw speed in radians per second.
	Speed float64
	// Target is the speed the spring pulls toward while running.
	Target float64

	accel  float64
	spring harmonica.Spring
	dt     float64
	paused bool
}

// NewSpinner creates a spinner stepped fps times per second. It starts at
// rest and accelerates toward speed.
func NewSpinner(fps int, speed float64) *Spinner {
	fps = max(fps, 1)
	return &Spinner{
		Target: speed,
		// Frequency 4.0 = moderate speed, damping 1.0 = no overshoot
		spring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
		dt:     1 / float64(fps),
	}
}

// Paused reports whether the spinner is winding down.
func (s *Spinner) Paused() bool {
	return s.paused
}

// TogglePause stops or restarts the spin.
func (s *Spinner) TogglePause() {
	s.paused = !s.paused
}

// Step advances the spring by one frame and rotates every mesh by the
// distance covered.
func (s *Spinner) Step(meshes ...*models.Mesh) {
	target := s.Target
	if s.paused {
		target = 0
	}
	s.Speed, s.accel = s.spring.Update(s.Speed, s.accel, target)

	angle := s.Speed * s.dt
	if angle == 0 {
		return
	}
	for _, m := range meshes {
		m.RotateY(angle)
	}
}
