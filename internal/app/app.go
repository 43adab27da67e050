// Package app wires the gesture interpreter, the formation engine and the
// integration loop to a camera and runs them on two loops: a render loop at
// a fixed rate and a detection loop that never blocks it.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/ayusman/particula/internal/capture"
	"github.com/ayusman/particula/internal/config"
	"github.com/ayusman/particula/internal/detector"
	"github.com/ayusman/particula/internal/formation"
	"github.com/ayusman/particula/internal/gesture"
	"github.com/ayusman/particula/internal/logger"
	"github.com/ayusman/particula/internal/scene"
	"github.com/ayusman/particula/internal/status"
	"github.com/ayusman/particula/internal/store"
)

// FrameSink receives the particle buffer for upload to a renderer.
type FrameSink interface {
	// Active reports whether anybody is listening; when false the buffer
	// is not copied at all.
	Active() bool
	// Frame is called from the render loop. xyz holds flat x, y, z triples
	// and is only valid for the duration of the call.
	Frame(pose scene.Pose, xyz []float32)
}

// Config holds the application's collaborators. Camera and Detector are
// optional: without them the cloud stays in auto-pilot.
type Config struct {
	Settings *config.Config
	Camera   capture.Camera
	Detector detector.Detector
	Store    *store.Store
	Status   status.Sink
	Frames   FrameSink
	Preview  *capture.Preview
}

// App owns the shared animation state. Steering, camera, particles, the
// transition window and the formation index are only touched with mu held.
type App struct {
	cfg      Config
	settings *config.Config
	log      *zap.Logger
	now      func() time.Time

	mu         sync.Mutex
	steering   *gesture.Steering
	interp     *gesture.Interpreter
	engine     *formation.Engine
	integrator *scene.Integrator
	reading    gesture.Reading
	active     formation.Change
	pose       scene.Pose
	pending    []status.Event
	lastStream time.Time
	scratch    []float32

	status   status.Sink
	sessions *store.SessionRepository
	session  string

	motion   *capture.MotionDetector
	gate     *capture.IdleGate
	lastSeen atomic.Int64 // unix nanos of the last successful observation

	enabled  atomic.Bool
	inFlight atomic.Bool
	sensorOK atomic.Bool
	failing  atomic.Bool
	skipped  atomic.Int64

	runMu   sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

// New builds the application state. Nothing runs until Start.
func New(cfg Config) (*App, error) {
	s := cfg.Settings
	if s == nil {
		s = config.Default()
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	catalogue, err := formation.Lookup(s.Formations.Order...)
	if err != nil {
		return nil, err
	}
	engine, err := formation.NewEngine(catalogue, s.Particles.Count)
	if err != nil {
		return nil, err
	}
	engine.SetTransition(s.Formations.Transition)
	engine.SetFlash(s.Formations.Flash)

	sceneCfg := s.SceneSettings()
	a := &App{
		cfg:        cfg,
		settings:   s,
		log:        logger.Named("app"),
		now:        time.Now,
		steering:   gesture.NewSteering(s.GestureSettings(), sceneCfg.HomeZoom),
		engine:     engine,
		integrator: scene.NewIntegrator(sceneCfg, scene.NewParticles(s.Particles.Count, s.Particles.Seed)),
		gate:       capture.NewIdleGate(s.Capture.IdleTimeout),
	}
	a.interp = gesture.NewInterpreter(s.GestureSettings(), a.steering, a.advanceLocked)
	a.enabled.Store(true)
	a.reading = gesture.Reading{Mode: gesture.ModeNone, Command: gesture.CommandWaiting}

	sinks := status.NewFanout(cfg.Status)
	if cfg.Store != nil {
		a.sessions = cfg.Store.Sessions()
		sinks.Add(status.NewChanges(newJournal(cfg.Store.Events(), a.sessionID, a.log)))
	}
	a.status = sinks

	if s.Capture.IdleTimeout > 0 {
		a.motion = capture.NewMotionDetector(s.Capture.MotionThreshold)
	}

	return a, nil
}

// Start primes the first formation, opens the journal session and starts
// both loops. A sensor that cannot be opened is logged and the detection
// loop is not started.
func (a *App) Start(ctx context.Context) error {
	a.runMu.Lock()
	defer a.runMu.Unlock()

	if a.running {
		return nil
	}

	now := a.now()
	if a.sessions != nil {
		sess := &store.Session{StartedAt: now, ParticleCount: a.settings.Particles.Count}
		if err := a.sessions.Create(sess); err != nil {
			a.log.Warn("journal session not started", zap.Error(err))
		} else {
			a.mu.Lock()
			a.session = sess.ID
			a.mu.Unlock()
		}
	}

	a.mu.Lock()
	a.advanceTo(a.engine.PrimeFirst(now), now)
	a.pending = append(a.pending,
		status.Event{Kind: status.KindMode, Value: gesture.LabelAuto, At: now},
		status.Event{Kind: status.KindCommand, Value: string(gesture.CommandWaiting), At: now},
		status.Event{Kind: status.KindHands, Value: status.HandsLabel([2]bool{}), At: now},
	)
	events := a.takePending()
	a.mu.Unlock()
	a.report(events)

	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.running = true
	a.lastSeen.Store(now.UnixNano())

	a.wg.Add(1)
	go a.renderLoop(ctx)

	if err := a.openSensor(); err != nil {
		a.log.Warn("hand tracking unavailable, staying in auto-pilot", zap.Error(err))
	} else {
		a.sensorOK.Store(true)
		a.wg.Add(1)
		go a.detectLoop(ctx)
	}

	a.log.Info("started",
		zap.Int("particles", a.settings.Particles.Count),
		zap.Int("render_fps", a.settings.Render.FPS),
		zap.Bool("tracking", a.sensorOK.Load()))
	return nil
}

var errNoSensor = errors.New("no camera or detector configured")

func (a *App) openSensor() error {
	if a.cfg.Camera == nil || a.cfg.Detector == nil {
		return errNoSensor
	}
	if err := a.cfg.Camera.Open(); err != nil {
		return fmt.Errorf("camera: %w", err)
	}
	return nil
}

// Stop cancels both loops, waits for in-flight inference to finish and
// releases the sensor. Safe to call more than once.
func (a *App) Stop() {
	a.runMu.Lock()
	defer a.runMu.Unlock()

	if !a.running {
		return
	}
	a.cancel()
	a.wg.Wait()
	a.running = false

	if a.cfg.Camera != nil {
		if err := a.cfg.Camera.Close(); err != nil {
			a.log.Warn("error closing camera", zap.Error(err))
		}
	}
	if a.cfg.Detector != nil {
		if err := a.cfg.Detector.Close(); err != nil {
			a.log.Warn("error closing detector", zap.Error(err))
		}
	}
	if a.motion != nil {
		a.motion.Close()
	}

	if id := a.sessionID(); id != "" {
		if err := a.sessions.End(id, a.now()); err != nil {
			a.log.Warn("journal session not closed", zap.Error(err))
		}
	}

	a.log.Info("stopped", zap.Int64("skipped_detections", a.skipped.Load()))
}

// Interpret applies one observation. It is what the detection loop calls
// for every frame and what tests drive directly.
func (a *App) Interpret(hands []detector.HandLandmarks, now time.Time) gesture.Reading {
	a.mu.Lock()
	prev := a.reading
	r := a.interp.Interpret(hands, now)
	a.reading = r

	if prev.ModeLabel() != r.ModeLabel() {
		a.pending = append(a.pending, status.Event{Kind: status.KindMode, Value: r.ModeLabel(), At: now})
	}
	a.pending = append(a.pending,
		status.Event{Kind: status.KindCommand, Value: string(r.Command), At: now},
		status.Event{Kind: status.KindHands, Value: status.HandsLabel(r.Hands), Hands: r.Hands, At: now},
	)
	events := a.takePending()
	a.mu.Unlock()

	a.report(events)
	return r
}

// Advance moves to the next formation as if a pinch had fired, without
// touching the pinch cooldown.
func (a *App) Advance() formation.Change {
	now := a.now()
	a.mu.Lock()
	c := a.engine.Advance(now)
	a.advanceTo(c, now)
	events := a.takePending()
	a.mu.Unlock()

	a.report(events)
	return c
}

// advanceLocked is the interpreter's advance callback; mu is held.
func (a *App) advanceLocked(now time.Time) {
	a.advanceTo(a.engine.Advance(now), now)
}

func (a *App) advanceTo(c formation.Change, now time.Time) {
	a.integrator.Retarget(c.Targets, c.TransitionEnd, c.FlashUntil)
	c.Targets = nil
	a.active = c
	a.pending = append(a.pending, status.Event{Kind: status.KindFormation, Value: c.Name, At: now})
}

func (a *App) takePending() []status.Event {
	events := a.pending
	a.pending = nil
	return events
}

func (a *App) report(events []status.Event) {
	for _, e := range events {
		a.status.Report(e)
	}
}

// SetEnabled turns hand tracking on or off. Turning it off hands control
// back to auto-pilot immediately.
func (a *App) SetEnabled(enabled bool) {
	if a.enabled.Swap(enabled) == enabled {
		return
	}
	a.log.Info("hand tracking toggled", zap.Bool("enabled", enabled))
	if !enabled {
		a.Interpret(nil, a.now())
	}
}

// IsEnabled reports whether hand tracking is on.
func (a *App) IsEnabled() bool {
	return a.enabled.Load()
}

// Tracking reports whether a sensor was opened at start.
func (a *App) Tracking() bool {
	return a.sensorOK.Load()
}

// Skipped returns how many detection ticks were dropped because an
// inference was still running.
func (a *App) Skipped() int64 {
	return a.skipped.Load()
}

func (a *App) sessionID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session
}
