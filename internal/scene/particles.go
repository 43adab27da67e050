// Package scene advances the particle cloud and the orbit camera once per
// render tick.
package scene

import (
	"math/rand"

	"github.com/ayusman/particula/internal/geom"
)

// scatter is the edge length of the cube the initial cloud is spread over.
const scatter = 100.0

// Particles holds the current and target position of every particle.
// The length is fixed at construction.
type Particles struct {
	Current []geom.Vec3
	Target  []geom.Vec3
	Seeds   []float32 // per-particle shader seeds in [0, 1)
}

// NewParticles scatters n particles uniformly over a cube centred on the
// origin. Targets start equal to the current positions so the cloud holds
// still until a formation is primed.
func NewParticles(n int, seed int64) *Particles {
	if n < 0 {
		n = 0
	}
	rng := rand.New(rand.NewSource(seed))

	p := &Particles{
		Current: make([]geom.Vec3, n),
		Target:  make([]geom.Vec3, n),
		Seeds:   make([]float32, n),
	}
	for i := range p.Current {
		p.Current[i] = geom.Vec3{
			X: (rng.Float64() - 0.5) * scatter,
			Y: (rng.Float64() - 0.5) * scatter,
			Z: (rng.Float64() - 0.5) * scatter,
		}
		p.Seeds[i] = rng.Float32()
	}
	copy(p.Target, p.Current)
	return p
}

// Len returns the particle count.
func (p *Particles) Len() int {
	return len(p.Current)
}

// SetTargets replaces the target buffer wholesale. The caller keeps
// ownership of targets. A shorter slice leaves the remaining targets alone.
func (p *Particles) SetTargets(targets []geom.Vec3) {
	copy(p.Target, targets)
}

// Blend moves every particle toward its target by the fraction rate.
func (p *Particles) Blend(rate float64) {
	for i := range p.Current {
		p.Current[i] = p.Current[i].Lerp(p.Target[i], rate)
	}
}

// AppendXYZ appends the current positions as flat x, y, z float32 triples.
func (p *Particles) AppendXYZ(dst []float32) []float32 {
	for _, v := range p.Current {
		dst = append(dst, float32(v.X), float32(v.Y), float32(v.Z))
	}
	return dst
}
