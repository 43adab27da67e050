package gesture

import (
	"time"

	"github.com/ayusman/particula/internal/detector"
	"github.com/ayusman/particula/internal/geom"
)

// Mode is the control mode derived from how many hands are in view.
type Mode int

const (
	ModeNone Mode = iota
	ModeOneHand
	ModeTwoHand
)

func (m Mode) String() string {
	switch m {
	case ModeOneHand:
		return "one-hand"
	case ModeTwoHand:
		return "two-hand"
	default:
		return "no-hands"
	}
}

// Mode labels shown by status displays.
const (
	LabelManual = "MANUAL CONTROL"
	LabelAuto   = "AUTO-PILOT"
)

// Command names the interpreter branch taken for a frame.
type Command string

const (
	CommandWaiting   Command = "WAITING"
	CommandRotating  Command = "ROTATING"
	CommandZooming   Command = "ZOOMING"
	CommandNextPhase Command = "NEXT PHASE"
)

// Reading summarizes one Interpret call for status displays.
type Reading struct {
	Mode     Mode
	Command  Command
	Hands    [2]bool // detector slots 0 and 1; not a left/right guarantee
	Advanced bool    // an advance event fired on this frame
}

// ModeLabel returns the display label for the reading's mode.
func (r Reading) ModeLabel() string {
	if r.Mode == ModeNone {
		return LabelAuto
	}
	return LabelManual
}

// Interpreter maps landmark observations onto a Steering record.
type Interpreter struct {
	cfg       Config
	steering  *Steering
	onAdvance func(now time.Time)
}

// NewInterpreter creates an interpreter writing into steering. onAdvance is
// called synchronously each time a debounced pinch fires; it may be nil.
func NewInterpreter(cfg Config, steering *Steering, onAdvance func(now time.Time)) *Interpreter {
	return &Interpreter{
		cfg:       cfg,
		steering:  steering,
		onAdvance: onAdvance,
	}
}

// Steering returns the record the interpreter writes.
func (in *Interpreter) Steering() *Steering {
	return in.steering
}

// Interpret applies one frame observation. Target assignments are direct;
// smoothing is left to the integration loop. Hands past the second are
// ignored, and a hand missing the landmarks a rule needs is skipped for that
// rule without affecting hand presence.
func (in *Interpreter) Interpret(hands []detector.HandLandmarks, now time.Time) Reading {
	s := in.steering

	r := Reading{
		Hands: [2]bool{len(hands) > 0, len(hands) > 1},
	}

	switch {
	case len(hands) == 0:
		s.HandsPresent = false
		r.Mode = ModeNone
		r.Command = CommandWaiting

	case len(hands) == 1:
		s.HandsPresent = true
		r.Mode = ModeOneHand
		r.Command = CommandRotating
		in.steer(&hands[0])
		if in.pinched(&hands[0]) {
			r.Command = CommandNextPhase
			r.Advanced = in.advance(now)
		}

	default:
		s.HandsPresent = true
		r.Mode = ModeTwoHand
		r.Command = CommandZooming
		in.zoom(&hands[0], &hands[1])
	}

	return r
}

// steer points the camera at the hand's middle knuckle, mirrored so moving
// the hand right turns the view right.
func (in *Interpreter) steer(h *detector.HandLandmarks) {
	if !h.Usable(detector.MiddleMCP) {
		return
	}
	anchor := h.Points[detector.MiddleMCP]
	x := 1.0 - anchor.X
	in.steering.TargetYaw = (x - 0.5) * in.cfg.YawGain
	in.steering.TargetPitch = (anchor.Y - 0.5) * in.cfg.PitchGain
}

func (in *Interpreter) pinched(h *detector.HandLandmarks) bool {
	if !h.Usable(detector.ThumbTip, detector.IndexTip) {
		return false
	}
	d := detector.Distance2D(h.Points[detector.ThumbTip], h.Points[detector.IndexTip])
	return d < in.cfg.PinchThreshold
}

// advance fires the advance callback unless the cooldown is still running.
func (in *Interpreter) advance(now time.Time) bool {
	if !in.steering.CooledDown(now) {
		return false
	}
	in.steering.LastAdvance = now
	if in.onAdvance != nil {
		in.onAdvance(now)
	}
	return true
}

// zoom maps the wrist-to-wrist distance onto the zoom range.
func (in *Interpreter) zoom(a, b *detector.HandLandmarks) {
	if !a.Usable(detector.Wrist) || !b.Usable(detector.Wrist) {
		return
	}
	d := detector.Distance2D(a.Points[detector.Wrist], b.Points[detector.Wrist])
	spread := geom.Clamp((d-in.cfg.SpreadOffset)*in.cfg.SpreadGain, 0, 1)

	span := in.cfg.ZoomMax - in.cfg.ZoomMin
	if in.cfg.ZoomPolicy == CloserIsFarther {
		in.steering.SetZoom(in.cfg.ZoomMin + (1-spread)*span)
		return
	}
	in.steering.SetZoom(in.cfg.ZoomMin + spread*span)
}
