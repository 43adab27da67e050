package app

import (
	"github.com/ayusman/particula/internal/geom"
	"github.com/ayusman/particula/internal/scene"
	"github.com/ayusman/particula/internal/status"
)

// Snapshot is a consistent copy of the state shown to status displays.
type Snapshot struct {
	Formation      string       `json:"formation"`
	FormationKey   string       `json:"formationKey"`
	FormationIndex int          `json:"formationIndex"`
	Mode           string       `json:"mode"`
	Command        string       `json:"command"`
	Hands          [2]bool      `json:"hands"`
	HandsLabel     string       `json:"handsLabel"`
	Camera         scene.Camera `json:"camera"`
	Position       geom.Vec3    `json:"position"`
	Transitioning  bool         `json:"transitioning"`
	Particles      int          `json:"particles"`
	Session        string       `json:"session,omitempty"`
	Tracking       bool         `json:"tracking"`
	Enabled        bool         `json:"enabled"`
}

// Snapshot returns the current state.
func (a *App) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	cam := a.integrator.Camera()
	return Snapshot{
		Formation:      a.active.Name,
		FormationKey:   a.active.Key,
		FormationIndex: a.active.Index,
		Mode:           a.reading.ModeLabel(),
		Command:        string(a.reading.Command),
		Hands:          a.reading.Hands,
		HandsLabel:     status.HandsLabel(a.reading.Hands),
		Camera:         cam,
		Position:       cam.Position(),
		Transitioning:  a.pose.Transitioning,
		Particles:      a.integrator.Particles().Len(),
		Session:        a.session,
		Tracking:       a.sensorOK.Load(),
		Enabled:        a.enabled.Load(),
	}
}

// FormationInfo describes one catalogue entry.
type FormationInfo struct {
	Index  int    `json:"index"`
	Key    string `json:"key"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// Formations lists the catalogue in cycling order.
func (a *App) Formations() []FormationInfo {
	a.mu.Lock()
	defer a.mu.Unlock()

	cat := a.engine.Catalogue()
	out := make([]FormationInfo, len(cat))
	for i, f := range cat {
		out[i] = FormationInfo{
			Index:  i,
			Key:    f.Key,
			Name:   f.Name,
			Active: i == a.engine.Index(),
		}
	}
	return out
}

// Seeds returns a copy of the per-particle shader seeds.
func (a *App) Seeds() []float32 {
	a.mu.Lock()
	defer a.mu.Unlock()

	seeds := a.integrator.Particles().Seeds
	out := make([]float32, len(seeds))
	copy(out, seeds)
	return out
}

// Positions returns a copy of the current particle positions.
func (a *App) Positions() []geom.Vec3 {
	a.mu.Lock()
	defer a.mu.Unlock()

	cur := a.integrator.Particles().Current
	out := make([]geom.Vec3, len(cur))
	copy(out, cur)
	return out
}

// SessionID returns the journal session of this run, if any.
func (a *App) SessionID() string {
	return a.sessionID()
}
