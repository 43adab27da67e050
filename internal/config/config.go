// Package config handles particula configuration loading and management.
package config

import (
	"time"

	"github.com/ayusman/particula/internal/detector"
	"github.com/ayusman/particula/internal/formation"
	"github.com/ayusman/particula/internal/gesture"
	"github.com/ayusman/particula/internal/scene"
)

// Config holds all settings.
type Config struct {
	Particles  ParticlesConfig  `yaml:"particles"`
	Formations FormationsConfig `yaml:"formations"`
	Motion     MotionConfig     `yaml:"motion"`
	Gesture    GestureConfig    `yaml:"gesture"`
	Render     RenderConfig     `yaml:"render"`
	Capture    CaptureConfig    `yaml:"capture"`
	Server     ServerConfig     `yaml:"server"`
	Journal    JournalConfig    `yaml:"journal"`
	Tray       TrayConfig       `yaml:"tray"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ParticlesConfig sizes the particle cloud.
type ParticlesConfig struct {
	Count int   `yaml:"count"`
	Seed  int64 `yaml:"seed"` // initial scatter and shader seeds
}

// FormationsConfig selects and times the formation catalogue.
type FormationsConfig struct {
	Order      []string      `yaml:"order"` // catalogue keys; empty means all
	Transition time.Duration `yaml:"transition"`
	Flash      time.Duration `yaml:"flash"`
}

// MotionConfig holds the integration loop's blend rates.
type MotionConfig struct {
	LerpSpeed         float64 `yaml:"lerp_speed"`
	FastLerpSpeed     float64 `yaml:"fast_lerp_speed"`
	CamSmooth         float64 `yaml:"cam_smooth"`
	AutoStep          float64 `yaml:"auto_step"`
	AutoSmooth        float64 `yaml:"auto_smooth"`
	AutoYawScale      float64 `yaml:"auto_yaw_scale"`
	HomeZoom          float64 `yaml:"home_zoom"`
	FrameCompensation bool    `yaml:"frame_compensation"`
}

// GestureConfig holds the interpreter's thresholds and gains.
type GestureConfig struct {
	ZoomMin        float64       `yaml:"zoom_min"`
	ZoomMax        float64       `yaml:"zoom_max"`
	ZoomPolicy     string        `yaml:"zoom_policy"`
	PinchThreshold float64       `yaml:"pinch_threshold"`
	PinchCooldown  time.Duration `yaml:"pinch_cooldown"`
	YawGain        float64       `yaml:"yaw_gain"`
	PitchGain      float64       `yaml:"pitch_gain"`
	SpreadOffset   float64       `yaml:"spread_offset"`
	SpreadGain     float64       `yaml:"spread_gain"`
}

// RenderConfig holds render loop settings.
type RenderConfig struct {
	FPS       int `yaml:"fps"`
	StreamFPS int `yaml:"stream_fps"` // particle frames pushed to /ws/frames
}

// CaptureConfig holds camera and detection settings.
type CaptureConfig struct {
	Enabled         bool          `yaml:"enabled"`
	Camera          int           `yaml:"camera"`
	Width           int           `yaml:"width"`
	Height          int           `yaml:"height"`
	DetectFPS       int           `yaml:"detect_fps"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"` // 0 disables motion gating
	StaleAfter      time.Duration `yaml:"stale_after"`
	MotionThreshold float64       `yaml:"motion_threshold"`
	MaxHands        int           `yaml:"max_hands"`
	MinConfidence   float64       `yaml:"min_confidence"`
	ScriptPath      string        `yaml:"script_path"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// JournalConfig holds session journal settings.
type JournalConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"` // empty means <data dir>/particula.db
}

// TrayConfig holds system tray settings.
type TrayConfig struct {
	Enabled bool `yaml:"enabled"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with the stock values.
func Default() *Config {
	g := gesture.DefaultConfig()
	m := scene.DefaultConfig()
	d := detector.DefaultConfig()

	return &Config{
		Particles: ParticlesConfig{
			Count: 25000,
			Seed:  1,
		},
		Formations: FormationsConfig{
			Order:      formation.Keys(),
			Transition: formation.DefaultTransition,
			Flash:      formation.DefaultFlash,
		},
		Motion: MotionConfig{
			LerpSpeed:     m.LerpSpeed,
			FastLerpSpeed: m.FastLerpSpeed,
			CamSmooth:     m.CamSmooth,
			AutoStep:      m.AutoStep,
			AutoSmooth:    m.AutoSmooth,
			AutoYawScale:  m.AutoYawScale,
			HomeZoom:      m.HomeZoom,
		},
		Gesture: GestureConfig{
			ZoomMin:        g.ZoomMin,
			ZoomMax:        g.ZoomMax,
			ZoomPolicy:     string(g.ZoomPolicy),
			PinchThreshold: g.PinchThreshold,
			PinchCooldown:  g.PinchCooldown,
			YawGain:        g.YawGain,
			PitchGain:      g.PitchGain,
			SpreadOffset:   g.SpreadOffset,
			SpreadGain:     g.SpreadGain,
		},
		Render: RenderConfig{
			FPS:       60,
			StreamFPS: 30,
		},
		Capture: CaptureConfig{
			Enabled:         true,
			Camera:          0,
			Width:           640,
			Height:          480,
			DetectFPS:       30,
			IdleTimeout:     0,
			StaleAfter:      2 * time.Second,
			MotionThreshold: 0.02,
			MaxHands:        d.MaxHands,
			MinConfidence:   d.MinConfidence,
		},
		Server: ServerConfig{
			Enabled: true,
			Addr:    "127.0.0.1:8770",
		},
		Journal: JournalConfig{
			Enabled: true,
		},
		Tray: TrayConfig{
			Enabled: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// GestureSettings converts to the interpreter's config.
func (c *Config) GestureSettings() gesture.Config {
	g := c.Gesture
	return gesture.Config{
		ZoomMin:        g.ZoomMin,
		ZoomMax:        g.ZoomMax,
		ZoomPolicy:     gesture.ZoomPolicy(g.ZoomPolicy),
		PinchThreshold: g.PinchThreshold,
		PinchCooldown:  g.PinchCooldown,
		YawGain:        g.YawGain,
		PitchGain:      g.PitchGain,
		SpreadOffset:   g.SpreadOffset,
		SpreadGain:     g.SpreadGain,
	}
}

// SceneSettings converts to the integration loop's config.
func (c *Config) SceneSettings() scene.Config {
	m := c.Motion
	cfg := scene.DefaultConfig()
	cfg.LerpSpeed = m.LerpSpeed
	cfg.FastLerpSpeed = m.FastLerpSpeed
	cfg.CamSmooth = m.CamSmooth
	cfg.AutoStep = m.AutoStep
	cfg.AutoSmooth = m.AutoSmooth
	cfg.AutoYawScale = m.AutoYawScale
	cfg.HomeZoom = m.HomeZoom
	cfg.FrameCompensation = m.FrameCompensation
	if c.Render.FPS > 0 {
		cfg.RefFrame = time.Second / time.Duration(c.Render.FPS)
	}
	return cfg
}

// DetectorSettings converts to the landmark detector's config.
func (c *Config) DetectorSettings() detector.Config {
	cfg := detector.DefaultConfig()
	cfg.MaxHands = c.Capture.MaxHands
	cfg.MinConfidence = c.Capture.MinConfidence
	cfg.ScriptPath = c.Capture.ScriptPath
	return cfg
}
