package formation

import (
	"errors"
	"time"

	"github.com/ayusman/particula/internal/geom"
)

// Default timing for formation changes.
const (
	DefaultTransition = 1000 * time.Millisecond
	DefaultFlash      = 300 * time.Millisecond
)

// Change describes a newly activated formation.
type Change struct {
	Index         int
	Key           string
	Name          string
	Targets       []geom.Vec3 // freshly allocated, owned by the receiver
	TransitionEnd time.Time   // particles blend fast until this instant
	FlashUntil    time.Time   // renderers may pulse until this instant
}

// Engine cycles through a fixed catalogue with wrap-around.
type Engine struct {
	catalogue  []Formation
	count      int
	index      int
	transition time.Duration
	flash      time.Duration
}

// NewEngine creates an engine for count particles. The first formation is
// selected but not generated until PrimeFirst.
func NewEngine(catalogue []Formation, count int) (*Engine, error) {
	if len(catalogue) == 0 {
		return nil, errors.New("formation catalogue is empty")
	}
	if count < 1 {
		return nil, errors.New("particle count must be at least 1")
	}
	return &Engine{
		catalogue:  catalogue,
		count:      count,
		transition: DefaultTransition,
		flash:      DefaultFlash,
	}, nil
}

// SetTransition changes how long the fast-blend window lasts.
func (e *Engine) SetTransition(d time.Duration) {
	if d >= 0 {
		e.transition = d
	}
}

// SetFlash changes how long renderers may pulse after a change.
func (e *Engine) SetFlash(d time.Duration) {
	if d >= 0 {
		e.flash = d
	}
}

// PrimeFirst activates the first formation so the cloud has a shape before
// any gesture arrives.
func (e *Engine) PrimeFirst(now time.Time) Change {
	e.index = 0
	return e.activate(now)
}

// Advance moves to the next formation, wrapping after the last.
func (e *Engine) Advance(now time.Time) Change {
	e.index = (e.index + 1) % len(e.catalogue)
	return e.activate(now)
}

// Active returns the currently selected formation.
func (e *Engine) Active() Formation {
	return e.catalogue[e.index]
}

// Index returns the position of the active formation in the catalogue.
func (e *Engine) Index() int {
	return e.index
}

// Count returns the particle count the engine generates for.
func (e *Engine) Count() int {
	return e.count
}

// Catalogue returns a copy of the engine's formations.
func (e *Engine) Catalogue() []Formation {
	out := make([]Formation, len(e.catalogue))
	copy(out, e.catalogue)
	return out
}

func (e *Engine) activate(now time.Time) Change {
	f := e.catalogue[e.index]
	return Change{
		Index:         e.index,
		Key:           f.Key,
		Name:          f.Name,
		Targets:       f.Generate(e.count),
		TransitionEnd: now.Add(e.transition),
		FlashUntil:    now.Add(e.flash),
	}
}
