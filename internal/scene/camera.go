package scene

import (
	"time"

	"github.com/ayusman/particula/internal/geom"
)

// Camera is the orbit camera. It always looks at the origin.
type Camera struct {
	Yaw       float64 `json:"yaw"`
	Pitch     float64 `json:"pitch"`
	Zoom      float64 `json:"zoom"`
	AutoAngle float64 `json:"autoAngle"`
}

// Position returns the camera's world position.
func (c Camera) Position() geom.Vec3 {
	return geom.Orbit(c.Yaw, c.Pitch, c.Zoom)
}

// Window is the fast-blend interval after a formation change.
type Window struct {
	End time.Time
}

// Active reports whether now falls inside the window.
func (w Window) Active(now time.Time) bool {
	return now.Before(w.End)
}

// Pose is what the renderer needs after a tick.
type Pose struct {
	Position      geom.Vec3 `json:"position"`
	Camera        Camera    `json:"camera"`
	Manual        bool      `json:"manual"`
	Transitioning bool      `json:"transitioning"`
	Flash         bool      `json:"flash"`
	Time          float64   `json:"time"` // seconds since the integrator started
}
