package capture

import (
	"image"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

const (
	blurKernel    = 21
	diffThreshold = 25
)

// MotionDetector compares consecutive frames. A frame counts as motion
// when the fraction of pixels that changed exceeds the threshold.
type MotionDetector struct {
	threshold float64
	prev      gocv.Mat
	primed    bool
	mu        sync.Mutex
}

// NewMotionDetector creates a detector. threshold is a fraction in (0, 1].
func NewMotionDetector(threshold float64) *MotionDetector {
	return &MotionDetector{
		threshold: threshold,
		prev:      gocv.NewMat(),
	}
}

// Detect reports whether frame differs from the previous one and by how
// much. The first frame after construction or Reset only primes the
// baseline.
func (m *MotionDetector) Detect(frame *gocv.Mat) (bool, float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if frame == nil || frame.Empty() {
		return false, 0
	}

	gray := gocv.NewMat()
	defer gray.Close()
	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: blurKernel, Y: blurKernel}, 0, 0, gocv.BorderDefault)

	if !m.primed || m.prev.Rows() != blurred.Rows() || m.prev.Cols() != blurred.Cols() {
		blurred.CopyTo(&m.prev)
		m.primed = true
		return false, 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, m.prev, &diff)

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.Threshold(diff, &mask, diffThreshold, 255, gocv.ThresholdBinary)

	changed := float64(gocv.CountNonZero(mask)) / float64(mask.Rows()*mask.Cols())
	blurred.CopyTo(&m.prev)

	return changed > m.threshold, changed
}

// Reset forgets the baseline frame.
func (m *MotionDetector) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.release()
}

// Close releases the baseline frame. The detector stays usable.
func (m *MotionDetector) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.release()
}

func (m *MotionDetector) release() {
	if !m.prev.Empty() {
		m.prev.Close()
		m.prev = gocv.NewMat()
	}
	m.primed = false
}

// IdleGate decides when hand detection can be skipped because nothing has
// moved in front of the camera and nobody was in view last time.
type IdleGate struct {
	timeout    time.Duration
	lastMotion time.Time
	handsSeen  bool
}

// NewIdleGate creates a gate. A zero timeout never gates.
func NewIdleGate(timeout time.Duration) *IdleGate {
	return &IdleGate{timeout: timeout}
}

// Motion records that motion was observed at now.
func (g *IdleGate) Motion(now time.Time) {
	g.lastMotion = now
}

// Hands records whether the latest detection found any hands.
func (g *IdleGate) Hands(present bool) {
	g.handsSeen = present
}

// Idle reports whether detection should be skipped at now.
func (g *IdleGate) Idle(now time.Time) bool {
	if g.timeout <= 0 || g.handsSeen {
		return false
	}
	if g.lastMotion.IsZero() {
		g.lastMotion = now
	}
	return now.Sub(g.lastMotion) >= g.timeout
}
