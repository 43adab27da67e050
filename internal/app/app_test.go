package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ayusman/particula/internal/capture"
	"github.com/ayusman/particula/internal/config"
	"github.com/ayusman/particula/internal/detector"
	"github.com/ayusman/particula/internal/gesture"
	"github.com/ayusman/particula/internal/scene"
	"github.com/ayusman/particula/internal/status"
	"github.com/ayusman/particula/internal/store"
)

func testSettings() *config.Config {
	cfg := config.Default()
	cfg.Particles.Count = 64
	cfg.Render.FPS = 120
	cfg.Capture.DetectFPS = 100
	cfg.Capture.StaleAfter = 0
	return cfg
}

func newTestApp(t *testing.T, cfg Config) (*App, *status.Recorder) {
	t.Helper()
	rec := &status.Recorder{}
	if cfg.Settings == nil {
		cfg.Settings = testSettings()
	}
	cfg.Status = rec
	a, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return a, rec
}

func start(t *testing.T, a *App) {
	t.Helper()
	if err := a.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(a.Stop)
}

func eventually(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func hands(h ...detector.HandLandmarks) []detector.HandLandmarks { return h }

func TestNew_InvalidSettings(t *testing.T) {
	cfg := testSettings()
	cfg.Particles.Count = 0
	if _, err := New(Config{Settings: cfg}); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("New() error = %v, want ErrInvalid", err)
	}
}

func TestApp_StartPrimesFirstFormation(t *testing.T) {
	a, rec := newTestApp(t, Config{})
	start(t, a)

	snap := a.Snapshot()
	if snap.Formation != "SPHERE ANALYSIS" || snap.FormationIndex != 0 {
		t.Errorf("formation = %q (%d), want SPHERE ANALYSIS (0)", snap.Formation, snap.FormationIndex)
	}
	if snap.Mode != gesture.LabelAuto {
		t.Errorf("mode = %q, want %q", snap.Mode, gesture.LabelAuto)
	}
	if snap.Tracking {
		t.Error("expected no tracking without a sensor")
	}
	if snap.Particles != 64 {
		t.Errorf("particles = %d, want 64", snap.Particles)
	}

	got := rec.Values(status.KindFormation)
	if len(got) != 1 || got[0] != "SPHERE ANALYSIS" {
		t.Errorf("formation events = %v", got)
	}
}

func TestApp_RendersInAutoPilotWithoutSensor(t *testing.T) {
	a, _ := newTestApp(t, Config{})
	start(t, a)

	eventually(t, time.Second, func() bool {
		return a.Snapshot().Camera.AutoAngle > 0
	}, "render loop did not advance the auto-pilot angle")
}

func TestApp_PinchCyclesFormations(t *testing.T) {
	a, rec := newTestApp(t, Config{})
	start(t, a)

	t0 := time.Now()
	pinch := hands(detector.PinchAt(0.5, 0.5))

	a.Interpret(pinch, t0)
	a.Interpret(pinch, t0.Add(100*time.Millisecond))
	a.Interpret(pinch, t0.Add(1400*time.Millisecond))
	a.Interpret(pinch, t0.Add(1600*time.Millisecond))

	got := rec.Values(status.KindFormation)
	want := []string{"SPHERE ANALYSIS", "LATTICE GRID", "ORBITAL RINGS"}
	if len(got) != len(want) {
		t.Fatalf("formation events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("formation %d = %s, want %s", i, got[i], want[i])
		}
	}

	cmds := rec.Values(status.KindCommand)
	for _, c := range cmds[1:] {
		if c != string(gesture.CommandNextPhase) {
			t.Errorf("command = %s, want NEXT PHASE on every pinch frame", c)
		}
	}
}

func TestApp_ModeEvents(t *testing.T) {
	a, rec := newTestApp(t, Config{})
	start(t, a)

	t0 := time.Now()
	open := hands(detector.OpenHandAt(0.3, 0.4))
	a.Interpret(nil, t0)
	a.Interpret(open, t0.Add(time.Millisecond))
	a.Interpret(open, t0.Add(2*time.Millisecond))
	a.Interpret(nil, t0.Add(3*time.Millisecond))

	got := rec.Values(status.KindMode)
	want := []string{gesture.LabelAuto, gesture.LabelManual, gesture.LabelAuto}
	if len(got) != len(want) {
		t.Fatalf("mode events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("mode %d = %s, want %s", i, got[i], want[i])
		}
	}

	var handEvents []status.Event
	for _, e := range rec.Events() {
		if e.Kind == status.KindHands {
			handEvents = append(handEvents, e)
		}
	}
	if len(handEvents) < 3 || !handEvents[2].Hands[0] || handEvents[2].Hands[1] {
		t.Errorf("hands events = %+v", handEvents)
	}
}

func TestApp_SetEnabledFalseReturnsToAutoPilot(t *testing.T) {
	a, _ := newTestApp(t, Config{})
	start(t, a)

	a.Interpret(hands(detector.OpenHandAt(0.2, 0.2)), time.Now())
	if a.Snapshot().Mode != gesture.LabelManual {
		t.Fatal("expected manual control with a hand in view")
	}

	a.SetEnabled(false)
	if a.IsEnabled() {
		t.Error("expected tracking disabled")
	}
	if a.Snapshot().Mode != gesture.LabelAuto {
		t.Error("disabling tracking should return to auto-pilot")
	}
}

func TestApp_AdvanceKeepsPinchCooldown(t *testing.T) {
	a, _ := newTestApp(t, Config{})
	start(t, a)

	c := a.Advance()
	if c.Name != "LATTICE GRID" {
		t.Errorf("Advance() = %s, want LATTICE GRID", c.Name)
	}

	r := a.Interpret(hands(detector.PinchAt(0.5, 0.5)), time.Now())
	if !r.Advanced {
		t.Error("a manual advance must not start the pinch cooldown")
	}

	infos := a.Formations()
	if len(infos) != 4 || !infos[2].Active || infos[1].Active {
		t.Errorf("Formations() = %+v", infos)
	}
}

func TestApp_Seeds(t *testing.T) {
	a, _ := newTestApp(t, Config{})
	seeds := a.Seeds()
	if len(seeds) != 64 {
		t.Fatalf("len(Seeds()) = %d, want 64", len(seeds))
	}
	seeds[0] = -1
	if a.Seeds()[0] == -1 {
		t.Error("Seeds() must return a copy")
	}
}

type frameRecorder struct {
	mu     sync.Mutex
	active bool
	frames int
	length int
}

func (f *frameRecorder) Active() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active
}

func (f *frameRecorder) Frame(_ scene.Pose, xyz []float32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames++
	f.length = len(xyz)
}

func TestApp_TickStreamsFrames(t *testing.T) {
	sink := &frameRecorder{active: true}
	settings := testSettings()
	settings.Render.StreamFPS = 30
	a, _ := newTestApp(t, Config{Settings: settings, Frames: sink})

	t0 := time.Now()
	a.Tick(t0)
	a.Tick(t0.Add(10 * time.Millisecond))
	a.Tick(t0.Add(40 * time.Millisecond))

	if sink.frames != 2 {
		t.Errorf("frames = %d, want 2 at 30 fps", sink.frames)
	}
	if sink.length != 64*3 {
		t.Errorf("frame length = %d, want %d", sink.length, 64*3)
	}

	sink.active = false
	a.Tick(t0.Add(time.Second))
	if sink.frames != 2 {
		t.Error("inactive sink should not receive frames")
	}
}

func TestApp_TickConvergesToFormation(t *testing.T) {
	a, _ := newTestApp(t, Config{})
	a.mu.Lock()
	c := a.engine.PrimeFirst(time.Now())
	a.advanceTo(c, time.Now())
	a.mu.Unlock()

	t0 := time.Now().Add(time.Hour)
	for i := 0; i < 400; i++ {
		a.Tick(t0.Add(time.Duration(i) * time.Millisecond))
	}

	pos := a.Positions()
	for i := range pos {
		if pos[i].Distance(c.Targets[i]) > 1e-3 {
			t.Fatalf("particle %d still %g away from its target", i, pos[i].Distance(c.Targets[i]))
		}
	}
}

func TestApp_Journal(t *testing.T) {
	s, err := store.New(":memory:")
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	a, _ := newTestApp(t, Config{Store: s})
	if err := a.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	id := a.SessionID()
	if id == "" {
		t.Fatal("expected a journal session")
	}

	t0 := time.Now()
	open := hands(detector.OpenHandAt(0.5, 0.5))
	for i := 0; i < 5; i++ {
		a.Interpret(open, t0.Add(time.Duration(i)*time.Millisecond))
	}
	a.Advance()
	a.Stop()

	sess, err := s.Sessions().Get(id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if sess.EndedAt == nil {
		t.Error("expected session end time after Stop")
	}

	counts, err := s.Events().CountByKind(id)
	if err != nil {
		t.Fatalf("CountByKind() error = %v", err)
	}
	if counts["formation"] != 2 {
		t.Errorf("formation events = %d, want 2", counts["formation"])
	}
	// WAITING at start, then ROTATING once despite five frames.
	if counts["command"] != 2 {
		t.Errorf("command events = %d, want 2", counts["command"])
	}
	if counts["mode"] != 2 {
		t.Errorf("mode events = %d, want 2", counts["mode"])
	}
}

func TestApp_StopIsIdempotent(t *testing.T) {
	a, _ := newTestApp(t, Config{})
	if err := a.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	a.Stop()
	a.Stop()
}

func sensor(t *testing.T) (*capture.MockCamera, *detector.MockDetector) {
	t.Helper()
	frames := capture.BlankFrames(2, 64, 48)
	t.Cleanup(func() {
		for _, f := range frames {
			f.Close()
		}
	})
	return capture.NewMockCamera(frames, true), detector.NewMockDetector()
}

func TestApp_DetectionLoop(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	cam, det := sensor(t)
	det.SetHands(hands(detector.OpenHandAt(0.3, 0.5)))
	preview := capture.NewPreview()

	a, _ := newTestApp(t, Config{Camera: cam, Detector: det, Preview: preview})
	start(t, a)

	if !a.Tracking() {
		t.Fatal("expected tracking with a working sensor")
	}
	eventually(t, 2*time.Second, func() bool {
		return a.Snapshot().Mode == gesture.LabelManual
	}, "detection loop never switched to manual control")

	if _, seq := preview.Latest(); seq == 0 {
		t.Error("expected preview frames to be published")
	}

	a.Stop()
	if !det.Closed() {
		t.Error("Stop() should close the detector")
	}
	if cam.IsOpen() {
		t.Error("Stop() should close the camera")
	}
}

func TestApp_DetectionSkipsWhileInFlight(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	cam, det := sensor(t)
	det.SetDelay(100 * time.Millisecond)

	a, _ := newTestApp(t, Config{Camera: cam, Detector: det})
	start(t, a)

	time.Sleep(350 * time.Millisecond)
	a.Stop()

	if calls := det.Calls(); calls > 4 {
		t.Errorf("detector called %d times in 350ms with 100ms inference, want at most 4", calls)
	}
	if a.Skipped() == 0 {
		t.Error("expected ticks to be skipped while inference was running")
	}
	if cam.Reads() != det.Calls() {
		t.Errorf("frames read = %d, detections = %d; a skipped tick must not read a frame", cam.Reads(), det.Calls())
	}
}

func TestApp_SensorUnavailable(t *testing.T) {
	cam := capture.NewMockCamera(nil, false)
	cam.FailOpen(errors.New("no device"))

	a, _ := newTestApp(t, Config{Camera: cam, Detector: detector.NewMockDetector()})
	start(t, a)

	if a.Tracking() {
		t.Error("expected tracking off when the camera cannot open")
	}
	eventually(t, time.Second, func() bool {
		return a.Snapshot().Camera.AutoAngle > 0
	}, "render loop should keep running in auto-pilot")
}

func TestApp_StaleSensorFallsBackToAutoPilot(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	cam, det := sensor(t)
	det.SetHands(hands(detector.OpenHandAt(0.3, 0.5)))

	settings := testSettings()
	settings.Capture.StaleAfter = 100 * time.Millisecond
	a, _ := newTestApp(t, Config{Settings: settings, Camera: cam, Detector: det})
	start(t, a)

	eventually(t, 2*time.Second, func() bool {
		return a.Snapshot().Mode == gesture.LabelManual
	}, "never reached manual control")

	det.SetError(errors.New("model crashed"))
	eventually(t, 2*time.Second, func() bool {
		return a.Snapshot().Mode == gesture.LabelAuto
	}, "a failing detector should end in auto-pilot")
}
