package scene

import (
	"math"
	"testing"
	"time"

	"github.com/ayusman/particula/internal/geom"
	"github.com/ayusman/particula/internal/gesture"
)

const epsilon = 1e-9

var t0 = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

const frame = time.Second / 60

func single(from geom.Vec3) *Particles {
	return &Particles{
		Current: []geom.Vec3{from},
		Target:  []geom.Vec3{{}},
		Seeds:   []float32{0},
	}
}

func steering() *gesture.Steering {
	return gesture.NewSteering(gesture.DefaultConfig(), 60)
}

func TestTick_Convergence(t *testing.T) {
	tests := []struct {
		name   string
		rate   float64
		window bool
	}{
		{"settled rate", 0.03, false},
		{"transition rate", 0.12, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := single(geom.Vec3{X: 1})
			it := NewIntegrator(DefaultConfig(), p)
			if tt.window {
				it.Retarget([]geom.Vec3{{}}, t0.Add(time.Hour), time.Time{})
			}
			s := steering()

			bound := int(math.Ceil(math.Log(1e-3) / math.Log(1-tt.rate)))
			prev := p.Current[0].Length()
			for i := 0; i < bound; i++ {
				it.Tick(t0.Add(time.Duration(i)*frame), s)
				d := p.Current[0].Length()
				if d >= prev {
					t.Fatalf("tick %d: distance %g did not decrease from %g", i, d, prev)
				}
				prev = d
			}
			if prev > 1e-3 {
				t.Errorf("after %d ticks distance = %g, want <= 1e-3", bound, prev)
			}
		})
	}
}

func TestTick_WindowSelectsRate(t *testing.T) {
	p := single(geom.Vec3{X: 1})
	it := NewIntegrator(DefaultConfig(), p)
	it.Retarget([]geom.Vec3{{}}, t0.Add(time.Second), time.Time{})
	s := steering()

	pose := it.Tick(t0, s)
	if !pose.Transitioning {
		t.Error("expected transitioning inside the window")
	}
	if math.Abs(p.Current[0].X-0.88) > epsilon {
		t.Errorf("inside window X = %f, want 0.88", p.Current[0].X)
	}

	// The window end itself is outside.
	pose = it.Tick(t0.Add(time.Second), s)
	if pose.Transitioning {
		t.Error("expected settled at the window end")
	}
	if math.Abs(p.Current[0].X-0.88*0.97) > epsilon {
		t.Errorf("after window X = %f, want %f", p.Current[0].X, 0.88*0.97)
	}
}

func TestTick_Manual(t *testing.T) {
	it := NewIntegrator(DefaultConfig(), single(geom.Vec3{}))
	s := steering()
	s.HandsPresent = true
	s.TargetYaw = 1
	s.TargetPitch = -0.5
	s.SetZoom(30)

	pose := it.Tick(t0, s)
	c := it.Camera()

	if math.Abs(c.Yaw-0.08) > epsilon || math.Abs(c.Pitch+0.04) > epsilon {
		t.Errorf("yaw/pitch = %f/%f, want 0.08/-0.04", c.Yaw, c.Pitch)
	}
	if math.Abs(c.Zoom-(60-30*0.08)) > epsilon {
		t.Errorf("zoom = %f, want %f", c.Zoom, 60-30*0.08)
	}
	if c.AutoAngle != c.Yaw {
		t.Errorf("auto angle %f not synced to yaw %f", c.AutoAngle, c.Yaw)
	}
	if !pose.Manual {
		t.Error("expected manual pose")
	}
	if pose.Position.Distance(geom.Orbit(c.Yaw, c.Pitch, c.Zoom)) > epsilon {
		t.Errorf("position %+v does not match the orbit formula", pose.Position)
	}
}

func TestTick_AutoPilot(t *testing.T) {
	it := NewIntegrator(DefaultConfig(), single(geom.Vec3{}))
	s := steering()
	s.SetZoom(90)

	for i := 1; i <= 100; i++ {
		it.Tick(t0.Add(time.Duration(i)*frame), s)
		c := it.Camera()

		wantAngle := 0.005 * float64(i)
		if math.Abs(c.AutoAngle-wantAngle) > epsilon {
			t.Fatalf("tick %d auto angle = %f, want %f", i, c.AutoAngle, wantAngle)
		}
		if math.Abs(c.Yaw-wantAngle*0.2) > epsilon {
			t.Fatalf("tick %d yaw = %f, want %f", i, c.Yaw, wantAngle*0.2)
		}
		if s.TargetYaw != c.AutoAngle || s.TargetPitch != 0 || s.TargetZoom != 60 {
			t.Fatalf("tick %d steering targets = %f/%f/%f", i, s.TargetYaw, s.TargetPitch, s.TargetZoom)
		}
	}
}

func TestTick_AutoPilotBlendsPitchAndZoom(t *testing.T) {
	it := NewIntegrator(DefaultConfig(), single(geom.Vec3{}))
	s := steering()
	s.HandsPresent = true
	s.TargetPitch = 1
	s.SetZoom(90)
	for i := 0; i < 50; i++ {
		it.Tick(t0.Add(time.Duration(i)*frame), s)
	}

	s.HandsPresent = false
	before := it.Camera()
	it.Tick(t0.Add(time.Second), s)
	after := it.Camera()

	if math.Abs(after.Pitch-before.Pitch*0.99) > epsilon {
		t.Errorf("pitch = %f, want %f", after.Pitch, before.Pitch*0.99)
	}
	if math.Abs(after.Zoom-(before.Zoom+(60-before.Zoom)*0.01)) > epsilon {
		t.Errorf("zoom = %f, want slow blend toward 60", after.Zoom)
	}
	if math.Abs(after.AutoAngle-(before.Yaw+0.005)) > epsilon {
		t.Errorf("auto angle = %f, want resume from %f", after.AutoAngle, before.Yaw)
	}
}

func TestTick_Flash(t *testing.T) {
	it := NewIntegrator(DefaultConfig(), single(geom.Vec3{}))
	it.Retarget([]geom.Vec3{{}}, t0.Add(time.Second), t0.Add(300*time.Millisecond))
	s := steering()

	if !it.Tick(t0, s).Flash {
		t.Error("expected flash right after retarget")
	}
	if it.Tick(t0.Add(300*time.Millisecond), s).Flash {
		t.Error("expected flash over at FlashUntil")
	}
}

func TestTick_FrameCompensation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FrameCompensation = true
	p := single(geom.Vec3{X: 1})
	it := NewIntegrator(cfg, p)
	s := steering()

	it.Tick(t0, s)
	if math.Abs(p.Current[0].X-0.97) > epsilon {
		t.Fatalf("first tick X = %f, want 0.97", p.Current[0].X)
	}

	// Two reference frames elapse: same result as two uncompensated ticks.
	it.Tick(t0.Add(2*cfg.RefFrame), s)
	if math.Abs(p.Current[0].X-0.97*0.97*0.97) > 1e-9 {
		t.Errorf("X = %f, want %f", p.Current[0].X, 0.97*0.97*0.97)
	}
	if math.Abs(it.Camera().AutoAngle-0.015) > 1e-9 {
		t.Errorf("auto angle = %f, want 0.015", it.Camera().AutoAngle)
	}
}

func TestTick_FrameDependentByDefault(t *testing.T) {
	p := single(geom.Vec3{X: 1})
	it := NewIntegrator(DefaultConfig(), p)
	s := steering()

	it.Tick(t0, s)
	it.Tick(t0.Add(time.Second), s)
	if math.Abs(p.Current[0].X-0.97*0.97) > epsilon {
		t.Errorf("X = %f, want two plain steps", p.Current[0].X)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"zero lerp", func(c *Config) { c.LerpSpeed = 0 }, true},
		{"fast above one", func(c *Config) { c.FastLerpSpeed = 1.5 }, true},
		{"nan smooth", func(c *Config) { c.CamSmooth = math.NaN() }, true},
		{"compensation without frame", func(c *Config) { c.FrameCompensation = true; c.RefFrame = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
