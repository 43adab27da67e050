package scene

import (
	"fmt"
	"math"
	"time"

	"github.com/ayusman/particula/internal/geom"
	"github.com/ayusman/particula/internal/gesture"
)

// Config holds the blend rates of the integration loop. Rates are fractions
// of the remaining distance covered per tick.
type Config struct {
	LerpSpeed     float64 // particles, outside a transition
	FastLerpSpeed float64 // particles, inside a transition
	CamSmooth     float64 // camera, manual control
	AutoStep      float64 // auto-pilot angle increment per tick
	AutoSmooth    float64 // camera pitch and zoom, auto-pilot
	AutoYawScale  float64 // auto-pilot yaw = AutoAngle * AutoYawScale
	HomeZoom      float64 // auto-pilot zoom target

	// FrameCompensation rescales every rate by the time since the previous
	// tick, relative to RefFrame. Off means one tick is one step regardless
	// of wall time.
	FrameCompensation bool
	RefFrame          time.Duration
}

// DefaultConfig returns the stock rates.
func DefaultConfig() Config {
	return Config{
		LerpSpeed:     0.03,
		FastLerpSpeed: 0.12,
		CamSmooth:     0.08,
		AutoStep:      0.005,
		AutoSmooth:    0.01,
		AutoYawScale:  0.2,
		HomeZoom:      60,
		RefFrame:      time.Second / 60,
	}
}

// Validate rejects rates outside (0, 1].
func (c Config) Validate() error {
	rates := []struct {
		name string
		v    float64
	}{
		{"lerp_speed", c.LerpSpeed},
		{"fast_lerp_speed", c.FastLerpSpeed},
		{"cam_smooth", c.CamSmooth},
		{"auto_smooth", c.AutoSmooth},
	}
	for _, r := range rates {
		if !(r.v > 0 && r.v <= 1) {
			return fmt.Errorf("%s must be in (0, 1], got %v", r.name, r.v)
		}
	}
	if c.FrameCompensation && c.RefFrame <= 0 {
		return fmt.Errorf("reference frame must be positive, got %v", c.RefFrame)
	}
	return nil
}

// Integrator owns the particle buffer, the camera and the transition window.
// It is not safe for concurrent use.
type Integrator struct {
	cfg       Config
	particles *Particles
	camera    Camera
	window    Window
	flash     time.Time

	start time.Time
	last  time.Time
}

// NewIntegrator creates an integrator with the camera parked at HomeZoom.
func NewIntegrator(cfg Config, particles *Particles) *Integrator {
	return &Integrator{
		cfg:       cfg,
		particles: particles,
		camera:    Camera{Zoom: cfg.HomeZoom},
	}
}

// Particles returns the buffer the integrator advances.
func (it *Integrator) Particles() *Particles {
	return it.particles
}

// Camera returns the camera state after the last tick.
func (it *Integrator) Camera() Camera {
	return it.camera
}

// Window returns the current transition window.
func (it *Integrator) Window() Window {
	return it.window
}

// Retarget installs a new target buffer and transition window. flashUntil
// may be zero.
func (it *Integrator) Retarget(targets []geom.Vec3, end, flashUntil time.Time) {
	it.particles.SetTargets(targets)
	it.window = Window{End: end}
	it.flash = flashUntil
}

// Tick advances particles and camera by one frame. In auto-pilot it also
// writes the steering targets, which the interpreter leaves alone while no
// hands are in view.
func (it *Integrator) Tick(now time.Time, s *gesture.Steering) Pose {
	if it.start.IsZero() {
		it.start = now
	}
	scale := it.frameScale(now)
	it.last = now

	transitioning := it.window.Active(now)
	rate := it.cfg.LerpSpeed
	if transitioning {
		rate = it.cfg.FastLerpSpeed
	}
	it.particles.Blend(it.adjust(rate, scale))

	c := &it.camera
	if s.HandsPresent {
		smooth := it.adjust(it.cfg.CamSmooth, scale)
		c.Pitch = geom.Lerp(c.Pitch, s.TargetPitch, smooth)
		c.Yaw = geom.Lerp(c.Yaw, s.TargetYaw, smooth)
		c.Zoom = geom.Lerp(c.Zoom, s.TargetZoom, smooth)
		c.AutoAngle = c.Yaw
	} else {
		c.AutoAngle += it.cfg.AutoStep * scale
		s.TargetYaw = c.AutoAngle
		s.TargetPitch = 0
		s.SetZoom(it.cfg.HomeZoom)

		smooth := it.adjust(it.cfg.AutoSmooth, scale)
		c.Pitch = geom.Lerp(c.Pitch, s.TargetPitch, smooth)
		c.Yaw = c.AutoAngle * it.cfg.AutoYawScale
		c.Zoom = geom.Lerp(c.Zoom, s.TargetZoom, smooth)
	}

	return Pose{
		Position:      c.Position(),
		Camera:        *c,
		Manual:        s.HandsPresent,
		Transitioning: transitioning,
		Flash:         now.Before(it.flash),
		Time:          now.Sub(it.start).Seconds(),
	}
}

// frameScale is the elapsed time since the previous tick in reference
// frames. Without compensation every tick counts as exactly one frame.
func (it *Integrator) frameScale(now time.Time) float64 {
	if !it.cfg.FrameCompensation || it.last.IsZero() {
		return 1
	}
	dt := now.Sub(it.last)
	if dt < 0 {
		return 0
	}
	return float64(dt) / float64(it.cfg.RefFrame)
}

// adjust converts a per-frame rate to the rate for scale frames.
func (it *Integrator) adjust(rate, scale float64) float64 {
	if scale == 1 {
		return rate
	}
	return 1 - math.Pow(1-rate, scale)
}
