package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ayusman/particula/internal/scene"
)

// renderLoop ticks the integration loop at the configured frame rate.
func (a *App) renderLoop(ctx context.Context) {
	defer a.wg.Done()

	ticker := time.NewTicker(time.Second / time.Duration(a.settings.Render.FPS))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.Tick(a.now())
		}
	}
}

// Tick advances particles and camera one frame and hands the result to the
// frame sink when it is due. Tick must be called from a single goroutine.
func (a *App) Tick(now time.Time) scene.Pose {
	a.mu.Lock()
	pose := a.integrator.Tick(now, a.steering)
	a.pose = pose

	var xyz []float32
	if a.cfg.Frames != nil && a.streamDue(now) && a.cfg.Frames.Active() {
		a.scratch = a.integrator.Particles().AppendXYZ(a.scratch[:0])
		xyz = a.scratch
		a.lastStream = now
	}
	a.mu.Unlock()

	if xyz != nil {
		a.cfg.Frames.Frame(pose, xyz)
	}
	return pose
}

func (a *App) streamDue(now time.Time) bool {
	fps := a.settings.Render.StreamFPS
	if fps <= 0 {
		return false
	}
	return now.Sub(a.lastStream) >= time.Second/time.Duration(fps)
}

// detectLoop starts one inference per tick unless the previous one is
// still running. Skipped ticks are dropped, not queued.
func (a *App) detectLoop(ctx context.Context) {
	defer a.wg.Done()

	ticker := time.NewTicker(time.Second / time.Duration(a.settings.Capture.DetectFPS))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if !a.enabled.Load() {
			continue
		}
		if !a.inFlight.CompareAndSwap(false, true) {
			a.skipped.Add(1)
			continue
		}

		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			defer a.inFlight.Store(false)
			a.observe(ctx)
		}()
	}
}

// observe reads the newest frame and runs it through detection. Only one
// observe runs at a time.
func (a *App) observe(ctx context.Context) {
	frame, err := a.cfg.Camera.ReadFrame()
	if err != nil {
		a.log.Debug("frame not read", zap.Error(err))
		a.checkStale(a.now())
		return
	}
	defer frame.Close()

	if a.cfg.Preview != nil {
		if err := a.cfg.Preview.Publish(frame); err != nil {
			a.log.Debug("preview not published", zap.Error(err))
		}
	}

	now := a.now()
	if a.motion != nil {
		if moved, _ := a.motion.Detect(frame); moved {
			a.gate.Motion(now)
		}
	}
	if a.gate.Idle(now) {
		a.lastSeen.Store(now.UnixNano())
		return
	}

	hands, err := a.cfg.Detector.Detect(frame)
	now = a.now()
	if err != nil {
		if !a.failing.Swap(true) {
			a.log.Warn("hand detection failed", zap.Error(err))
		}
		a.checkStale(now)
		return
	}
	if a.failing.Swap(false) {
		a.log.Info("hand detection recovered")
	}

	// Cancelled or switched off while inference ran: drop the result.
	if ctx.Err() != nil || !a.enabled.Load() {
		return
	}

	a.gate.Hands(len(hands) > 0)
	a.lastSeen.Store(now.UnixNano())
	a.Interpret(hands, now)
}

// checkStale interprets an empty observation once the sensor has been
// silent for longer than stale_after, so a failing camera ends in
// auto-pilot instead of freezing the last steering.
func (a *App) checkStale(now time.Time) {
	after := a.settings.Capture.StaleAfter
	if after <= 0 {
		return
	}
	last := time.Unix(0, a.lastSeen.Load())
	if now.Sub(last) < after {
		return
	}
	if a.currentlyManual() {
		a.log.Info("no observation for a while, returning to auto-pilot", zap.Duration("silent", now.Sub(last)))
	}
	a.Interpret(nil, now)
	a.lastSeen.Store(now.UnixNano())
}

func (a *App) currentlyManual() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.steering.HandsPresent
}
