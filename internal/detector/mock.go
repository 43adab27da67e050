package detector

import (
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// Scripted observations are returned in order; once the script runs out
// the steady hands set with SetHands are returned on every call.
type MockDetector struct {
	mu     sync.Mutex
	script [][]HandLandmarks
	hands  []HandLandmarks
	err    error
	delay  time.Duration
	calls  int
	closed bool
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands returned once the script is exhausted.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// Push appends observations to the script.
func (m *MockDetector) Push(observations ...[]HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, observations...)
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// SetDelay makes every Detect call sleep, standing in for slow inference.
func (m *MockDetector) SetDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
}

// Calls returns how many times Detect has been called.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Closed reports whether Close has been called.
func (m *MockDetector) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Detect returns the next scripted observation, the steady hands or the error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	m.calls++
	delay := m.delay
	err := m.err
	var hands []HandLandmarks
	if len(m.script) > 0 {
		hands = m.script[0]
		m.script = m.script[1:]
	} else {
		hands = m.hands
	}
	m.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if err != nil {
		return nil, err
	}
	return hands, nil
}

// Close marks the detector closed.
func (m *MockDetector) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// openPalm is an open right hand with the middle knuckle at (0.50, 0.66).
var openPalm = [NumLandmarks]Point3D{
	Wrist:     {X: 0.50, Y: 0.80},
	ThumbCMC:  {X: 0.55, Y: 0.75, Z: 0.02},
	ThumbMCP:  {X: 0.62, Y: 0.70, Z: 0.03},
	ThumbIP:   {X: 0.68, Y: 0.65, Z: 0.03},
	ThumbTip:  {X: 0.73, Y: 0.60, Z: 0.03},
	IndexMCP:  {X: 0.55, Y: 0.68},
	IndexPIP:  {X: 0.57, Y: 0.55},
	IndexDIP:  {X: 0.58, Y: 0.45},
	IndexTip:  {X: 0.58, Y: 0.35},
	MiddleMCP: {X: 0.50, Y: 0.66},
	MiddlePIP: {X: 0.50, Y: 0.52},
	MiddleDIP: {X: 0.50, Y: 0.40},
	MiddleTip: {X: 0.50, Y: 0.28},
	RingMCP:   {X: 0.45, Y: 0.68},
	RingPIP:   {X: 0.43, Y: 0.55},
	RingDIP:   {X: 0.42, Y: 0.45},
	RingTip:   {X: 0.42, Y: 0.35},
	PinkyMCP:  {X: 0.40, Y: 0.70},
	PinkyPIP:  {X: 0.37, Y: 0.60},
	PinkyDIP:  {X: 0.35, Y: 0.50},
	PinkyTip:  {X: 0.34, Y: 0.42},
}

// OpenHandAt returns an open right hand whose middle knuckle sits at (x, y).
// Thumb and index tips are well apart, so it never reads as a pinch.
func OpenHandAt(x, y float64) HandLandmarks {
	return shifted(openPalm, x, y)
}

// PinchAt returns a right hand whose middle knuckle sits at (x, y) with the
// thumb tip touching the index tip (0.01 apart).
func PinchAt(x, y float64) HandLandmarks {
	pose := openPalm
	pose[ThumbIP] = Point3D{X: 0.60, Y: 0.58, Z: 0.01}
	pose[ThumbTip] = Point3D{X: 0.56, Y: 0.50}
	pose[IndexDIP] = Point3D{X: 0.57, Y: 0.48}
	pose[IndexTip] = Point3D{X: 0.56, Y: 0.51}
	return shifted(pose, x, y)
}

// WristAt returns an open hand translated so its wrist sits at (x, y).
func WristAt(x, y float64) HandLandmarks {
	w := openPalm[Wrist]
	m := openPalm[MiddleMCP]
	return shifted(openPalm, x+(m.X-w.X), y+(m.Y-w.Y))
}

func shifted(pose [NumLandmarks]Point3D, x, y float64) HandLandmarks {
	anchor := pose[MiddleMCP]
	h := HandLandmarks{Handedness: "Right", Score: 0.95}
	for i, p := range pose {
		h.Points[i] = Point3D{X: p.X - anchor.X + x, Y: p.Y - anchor.Y + y, Z: p.Z}
	}
	return h
}
