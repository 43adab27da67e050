package geom

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func TestVec3_Lerp(t *testing.T) {
	tests := []struct {
		name string
		from Vec3
		to   Vec3
		rate float64
		want Vec3
	}{
		{"zero rate stays", Vec3{1, 2, 3}, Vec3{5, 5, 5}, 0, Vec3{1, 2, 3}},
		{"full rate arrives", Vec3{1, 2, 3}, Vec3{5, 5, 5}, 1, Vec3{5, 5, 5}},
		{"half way", Vec3{0, 0, 0}, Vec3{2, -4, 6}, 0.5, Vec3{1, -2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.from.Lerp(tt.to, tt.rate)
			if got.Distance(tt.want) > epsilon {
				t.Errorf("Lerp() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"below", -1, 0},
		{"inside", 0.4, 0.4},
		{"above", 3, 1},
		{"nan", math.NaN(), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clamp(tt.in, 0, 1); got != tt.want {
				t.Errorf("Clamp(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestOrbit(t *testing.T) {
	t.Run("zero angles look down +Z", func(t *testing.T) {
		got := Orbit(0, 0, 60)
		if got.Distance(Vec3{0, 0, 60}) > epsilon {
			t.Errorf("Orbit(0,0,60) = %+v", got)
		}
	})

	t.Run("quarter yaw moves to +X", func(t *testing.T) {
		got := Orbit(math.Pi/2, 0, 10)
		if got.Distance(Vec3{10, 0, 0}) > epsilon {
			t.Errorf("Orbit(pi/2,0,10) = %+v", got)
		}
	})

	t.Run("distance from origin equals radius", func(t *testing.T) {
		for _, r := range []float64{30, 60, 90} {
			got := Orbit(0.7, -0.3, r)
			if math.Abs(got.Length()-r) > 1e-9 {
				t.Errorf("radius %v: |pos| = %v", r, got.Length())
			}
		}
	})

	t.Run("smaller radius is nearer", func(t *testing.T) {
		near := Orbit(0.2, 0.1, 30)
		far := Orbit(0.2, 0.1, 90)
		if near.Length() >= far.Length() {
			t.Errorf("expected radius 30 to be nearer than 90")
		}
	})
}

func TestVec3_Finite(t *testing.T) {
	if !(Vec3{1, 2, 3}).Finite() {
		t.Error("expected finite vector")
	}
	if (Vec3{math.NaN(), 0, 0}).Finite() {
		t.Error("expected NaN vector to be non-finite")
	}
	if (Vec3{0, math.Inf(1), 0}).Finite() {
		t.Error("expected Inf vector to be non-finite")
	}
}
