package config

import (
	"errors"
	"fmt"

	"github.com/ayusman/particula/internal/formation"
)

// ErrInvalid is wrapped by every error Validate returns.
var ErrInvalid = errors.New("invalid config")

// Validate reports the first setting the core cannot run with.
func (c *Config) Validate() error {
	if c.Particles.Count < 1 {
		return invalid("particles.count must be at least 1, got %d", c.Particles.Count)
	}
	if _, err := formation.Lookup(c.Formations.Order...); err != nil {
		return invalid("formations.order: %v", err)
	}
	if c.Formations.Transition < 0 || c.Formations.Flash < 0 {
		return invalid("formation timings must not be negative")
	}
	if err := c.SceneSettings().Validate(); err != nil {
		return invalid("motion: %v", err)
	}
	if err := c.GestureSettings().Validate(); err != nil {
		return invalid("gesture: %v", err)
	}
	if h := c.Motion.HomeZoom; h < c.Gesture.ZoomMin || h > c.Gesture.ZoomMax {
		return invalid("motion.home_zoom %v outside zoom range [%v, %v]", h, c.Gesture.ZoomMin, c.Gesture.ZoomMax)
	}
	if c.Render.FPS <= 0 {
		return invalid("render.fps must be positive, got %d", c.Render.FPS)
	}
	if c.Render.StreamFPS < 0 {
		return invalid("render.stream_fps must not be negative, got %d", c.Render.StreamFPS)
	}
	if c.Capture.Enabled {
		if c.Capture.DetectFPS <= 0 {
			return invalid("capture.detect_fps must be positive, got %d", c.Capture.DetectFPS)
		}
		if c.Capture.MaxHands < 1 || c.Capture.MaxHands > 2 {
			return invalid("capture.max_hands must be 1 or 2, got %d", c.Capture.MaxHands)
		}
		if c.Capture.IdleTimeout < 0 || c.Capture.StaleAfter < 0 {
			return invalid("capture timeouts must not be negative")
		}
	}
	if c.Server.Enabled && c.Server.Addr == "" {
		return invalid("server.addr is required when the server is enabled")
	}
	if !validLevel(c.Logging.Level) {
		return invalid("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

func validLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}
