// Package gesture turns per-frame hand landmarks into camera steering targets
// and debounced "advance formation" events.
package gesture

import (
	"fmt"
	"time"

	"github.com/ayusman/particula/internal/geom"
)

// ZoomPolicy decides which end of the zoom range two close hands map to.
type ZoomPolicy string

const (
	// CloserIsNearer maps hands held together to ZoomMin, pulling the camera
	// toward the cloud. Spreading the hands pushes it out to ZoomMax.
	CloserIsNearer ZoomPolicy = "closer-is-nearer"
	// CloserIsFarther maps hands held together to ZoomMax.
	CloserIsFarther ZoomPolicy = "closer-is-farther"
)

// Config holds the interpreter's tuning constants.
type Config struct {
	ZoomMin        float64
	ZoomMax        float64
	ZoomPolicy     ZoomPolicy
	PinchThreshold float64       // thumb-to-index distance that counts as a pinch
	PinchCooldown  time.Duration // minimum gap between two advance events
	YawGain        float64       // target yaw = (mirrored x - 0.5) * YawGain
	PitchGain      float64       // target pitch = (y - 0.5) * PitchGain
	SpreadOffset   float64       // wrist distance that maps to the "together" end
	SpreadGain     float64       // normalized spread = (distance - SpreadOffset) * SpreadGain
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		ZoomMin:        30,
		ZoomMax:        90,
		ZoomPolicy:     CloserIsNearer,
		PinchThreshold: 0.05,
		PinchCooldown:  1500 * time.Millisecond,
		YawGain:        4.0,
		PitchGain:      2.0,
		SpreadOffset:   0.2,
		SpreadGain:     2.0,
	}
}

// Validate checks the config for values the interpreter cannot work with.
func (c Config) Validate() error {
	if !(c.ZoomMin < c.ZoomMax) {
		return fmt.Errorf("zoom range [%v, %v] is empty", c.ZoomMin, c.ZoomMax)
	}
	if c.PinchThreshold <= 0 {
		return fmt.Errorf("pinch threshold must be positive, got %v", c.PinchThreshold)
	}
	if c.PinchCooldown < 0 {
		return fmt.Errorf("pinch cooldown must not be negative, got %v", c.PinchCooldown)
	}
	if c.SpreadGain <= 0 {
		return fmt.Errorf("spread gain must be positive, got %v", c.SpreadGain)
	}
	switch c.ZoomPolicy {
	case CloserIsNearer, CloserIsFarther:
	default:
		return fmt.Errorf("unknown zoom policy %q", c.ZoomPolicy)
	}
	return nil
}

// Steering is the shared control record. The interpreter writes it from
// hand input; the integration loop reads it every tick and, in auto-pilot,
// writes the targets itself.
type Steering struct {
	TargetYaw    float64
	TargetPitch  float64
	TargetZoom   float64 // always within [ZoomMin, ZoomMax]
	HandsPresent bool
	LastAdvance  time.Time
	Cooldown     time.Duration

	zoomMin, zoomMax float64
}

// NewSteering returns a steering record aimed at the given zoom.
func NewSteering(cfg Config, zoom float64) *Steering {
	s := &Steering{
		Cooldown: cfg.PinchCooldown,
		zoomMin:  cfg.ZoomMin,
		zoomMax:  cfg.ZoomMax,
	}
	s.SetZoom(zoom)
	return s
}

// SetZoom sets TargetZoom, clamped to the configured range.
func (s *Steering) SetZoom(zoom float64) {
	s.TargetZoom = geom.Clamp(zoom, s.zoomMin, s.zoomMax)
}

// ZoomRange returns the configured zoom bounds.
func (s *Steering) ZoomRange() (min, max float64) {
	return s.zoomMin, s.zoomMax
}

// CooledDown reports whether an advance at now would pass the debounce.
func (s *Steering) CooledDown(now time.Time) bool {
	return now.Sub(s.LastAdvance) > s.Cooldown
}
