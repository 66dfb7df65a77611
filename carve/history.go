package carve

import (
	"github.com/MindPort-GmbH/Z-Anatomy-Sample/core"
	"github.com/MindPort-GmbH/Z-Anatomy-Sample/math"
)

// History is the bounded, ordered sequence of captured stamps, oldest first.
// Appending past capacity evicts the oldest stamp; that is normal operation,
// not an error. History also remembers the last captured pose so repeated
// captures from a nearly stationary cutter can be skipped.
type History struct {
	capacity        int
	transThreshold  float32
	rotThresholdDeg float32

	stamps []math.Mat4

	hasPose      bool
	lastPosition math.Vec3
	lastRotation math.Quaternion
}

// NewHistory creates an empty history. capacity is clamped to [1, MaxSlots].
func NewHistory(capacity int, translationThreshold, rotationThresholdDegrees float32) *History {
	if capacity < 1 {
		capacity = 1
	}
	if capacity > MaxSlots {
		capacity = MaxSlots
	}
	return &History{
		capacity:        capacity,
		transThreshold:  translationThreshold,
		rotThresholdDeg: rotationThresholdDegrees,
		stamps:          make([]math.Mat4, 0, capacity),
	}
}

// Capture records the inverse world transform of pose as a new stamp and
// reports whether a stamp was added. Unforced captures are skipped while the
// cutter has moved less than both thresholds since the last capture. A forced
// capture bypasses the gate but still updates the last-pose memory.
func (h *History) Capture(pose core.Transform, force bool) bool {
	if !force && !h.shouldCapture(pose) {
		return false
	}

	if len(h.stamps) >= h.capacity {
		h.stamps = append(h.stamps[:0], h.stamps[1:]...)
	}
	h.stamps = append(h.stamps, pose.GetInverseMatrix())

	h.hasPose = true
	h.lastPosition = pose.Position
	h.lastRotation = pose.Rotation
	return true
}

// shouldCapture is the pose-delta gate. Without a remembered pose any capture
// is honored; otherwise the cutter must have translated or rotated past the
// configured thresholds.
func (h *History) shouldCapture(pose core.Transform) bool {
	if !h.hasPose {
		return true
	}
	if pose.Position.Distance(h.lastPosition) >= h.transThreshold {
		return true
	}
	angleDeg := pose.Rotation.AngleTo(h.lastRotation) * math.RadToDeg
	return angleDeg >= h.rotThresholdDeg
}

// Reset clears all stamps and the gating memory.
func (h *History) Reset() {
	h.stamps = h.stamps[:0]
	h.hasPose = false
	h.lastPosition = math.Vec3Zero
	h.lastRotation = math.QuaternionIdentity()
}

// Restore replaces the history contents, keeping the newest stamps when the
// input exceeds capacity. Gating memory is cleared.
func (h *History) Restore(stamps []math.Mat4) {
	h.Reset()
	if len(stamps) > h.capacity {
		stamps = stamps[len(stamps)-h.capacity:]
	}
	h.stamps = append(h.stamps, stamps...)
}

// Len returns the number of stored stamps.
func (h *History) Len() int {
	return len(h.stamps)
}

// Capacity returns the maximum number of stamps kept.
func (h *History) Capacity() int {
	return h.capacity
}

// Stamps returns the stored stamps oldest first. The returned slice is the
// internal storage; callers must not mutate it.
func (h *History) Stamps() []math.Mat4 {
	return h.stamps
}
