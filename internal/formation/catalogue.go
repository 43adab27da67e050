// Package formation holds the catalogue of particle arrangements and the
// engine that cycles through them.
package formation

import (
	"errors"
	"fmt"
	"math"

	"github.com/ayusman/particula/internal/geom"
)

// ErrUnknownFormation is returned by Lookup for keys not in the catalogue.
var ErrUnknownFormation = errors.New("unknown formation")

// Generator places particle i of n. Generators are pure: the same (i, n)
// always yields the same position.
type Generator func(i, n int) geom.Vec3

// Formation is a named arrangement of the particle cloud.
type Formation struct {
	Key   string    // config identifier, e.g. "sphere"
	Name  string    // display name
	Point Generator
}

// Generate fills a fresh buffer of n target positions.
func (f Formation) Generate(n int) []geom.Vec3 {
	if n < 0 {
		n = 0
	}
	out := make([]geom.Vec3, n)
	for i := range out {
		out[i] = f.Point(i, n)
	}
	return out
}

// Catalogue returns the stock formations in cycling order.
func Catalogue() []Formation {
	return []Formation{
		{Key: "sphere", Name: "SPHERE ANALYSIS", Point: Sphere},
		{Key: "lattice", Name: "LATTICE GRID", Point: Lattice},
		{Key: "rings", Name: "ORBITAL RINGS", Point: Rings},
		{Key: "vortex", Name: "VORTEX FIELD", Point: Vortex},
	}
}

// Keys lists the stock formation keys in catalogue order.
func Keys() []string {
	cat := Catalogue()
	keys := make([]string, len(cat))
	for i, f := range cat {
		keys[i] = f.Key
	}
	return keys
}

// Lookup builds a catalogue from keys, in the given order. No keys means
// the full stock catalogue.
func Lookup(keys ...string) ([]Formation, error) {
	if len(keys) == 0 {
		return Catalogue(), nil
	}

	byKey := make(map[string]Formation)
	for _, f := range Catalogue() {
		byKey[f.Key] = f
	}

	out := make([]Formation, 0, len(keys))
	for _, k := range keys {
		f, ok := byKey[k]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownFormation, k)
		}
		out = append(out, f)
	}
	return out, nil
}

const (
	sphereRadius = 25.0
	latticeSpan  = 60.0
	ringCount    = 5
	ringInner    = 10.0
	ringSpacing  = 8.0
	ringHeight   = 2.0
	vortexTurn   = 0.02
	vortexRadius = 40.0
	vortexHeight = 60.0
)

// Sphere spreads particles evenly over a sphere with a Fibonacci spiral.
func Sphere(i, n int) geom.Vec3 {
	phi := math.Acos(-1 + 2*float64(i)/float64(n))
	theta := math.Sqrt(float64(n)*math.Pi) * phi
	return geom.Vec3{
		X: sphereRadius * math.Cos(theta) * math.Sin(phi),
		Y: sphereRadius * math.Sin(theta) * math.Sin(phi),
		Z: sphereRadius * math.Cos(phi),
	}
}

// Lattice packs particles into a cube whose side holds floor(cbrt(n))
// points. Particles past the last full cube wrap onto the lattice again.
func Lattice(i, n int) geom.Vec3 {
	side := cubeSide(n)
	step := latticeSpan / math.Cbrt(float64(n))
	offset := float64(side) * step / 2

	c := i % (side * side * side)
	x := c / (side * side)
	y := (c / side) % side
	z := c % side

	return geom.Vec3{
		X: float64(x)*step - offset,
		Y: float64(y)*step - offset,
		Z: float64(z)*step - offset,
	}
}

// cubeSide is floor(cbrt(n)) without float rounding losing perfect cubes.
func cubeSide(n int) int {
	s := int(math.Cbrt(float64(n)))
	for (s+1)*(s+1)*(s+1) <= n {
		s++
	}
	for s > 1 && s*s*s > n {
		s--
	}
	if s < 1 {
		s = 1
	}
	return s
}

// Rings stacks five horizontal bands of growing radius. Angle and thickness
// jitter come from a hash of the particle index.
func Rings(i, n int) geom.Vec3 {
	ring := i % ringCount
	r := ringInner + float64(ring)*ringSpacing
	theta := unit(uint64(i), 1) * 2 * math.Pi
	thick := (unit(uint64(i), 2) - 0.5) * 2

	return geom.Vec3{
		X: math.Cos(theta) * r,
		Y: float64(ring-2)*ringHeight + thick,
		Z: math.Sin(theta) * r,
	}
}

// Vortex winds particles up a widening spiral.
func Vortex(i, n int) geom.Vec3 {
	angle := float64(i) * vortexTurn
	t := float64(i) / float64(n)
	r := t * vortexRadius
	return geom.Vec3{
		X: math.Cos(angle) * r,
		Y: t*vortexHeight - vortexHeight/2,
		Z: math.Sin(angle) * r,
	}
}

// unit hashes (i, stream) to a float in [0, 1) with splitmix64.
func unit(i, stream uint64) float64 {
	z := i*0x9E3779B97F4A7C15 + stream*0xD1B54A32D192ED03
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	z ^= z >> 31
	return float64(z>>11) / (1 << 53)
}
