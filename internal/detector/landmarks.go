// Package detector provides the hand-landmark source: the MediaPipe landmark
// model types, the Detector interface and its implementations.
package detector

import "math"

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Point3D is a landmark in normalized frame coordinates. X and Y are roughly
// in [0,1] relative to the camera frame, Z is relative depth.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Missing marks a landmark the detector did not report.
var Missing = Point3D{X: math.NaN(), Y: math.NaN(), Z: math.NaN()}

// Valid reports whether the point carries finite coordinates.
func (p Point3D) Valid() bool {
	return finite(p.X) && finite(p.Y) && finite(p.Z)
}

// HandLandmarks is one detected hand: 21 landmarks in detector order.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right", as guessed by the model
	Score      float64               `json:"score"`
}

// Usable reports whether every listed landmark is present and finite.
// With no indices it checks the whole hand.
func (h *HandLandmarks) Usable(indices ...int) bool {
	if h == nil {
		return false
	}
	if len(indices) == 0 {
		for i := range h.Points {
			if !h.Points[i].Valid() {
				return false
			}
		}
		return true
	}
	for _, i := range indices {
		if i < 0 || i >= NumLandmarks || !h.Points[i].Valid() {
			return false
		}
	}
	return true
}

// Distance2D is the Euclidean distance between two landmarks in the image
// plane, ignoring depth.
func Distance2D(a, b Point3D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
