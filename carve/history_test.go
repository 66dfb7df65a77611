package carve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MindPort-GmbH/Z-Anatomy-Sample/core"
	"github.com/MindPort-GmbH/Z-Anatomy-Sample/math"
)

func poseAt(x, y, z float32) core.Transform {
	return core.PoseAt(math.Vec3{X: x, Y: y, Z: z}, math.QuaternionIdentity())
}

func TestHistoryGrowsToCapacityThenEvicts(t *testing.T) {
	h := NewHistory(3, 0, 0)

	for i := 0; i < 5; i++ {
		added := h.Capture(poseAt(float32(i), 0, 0), true)
		require.True(t, added)

		want := i + 1
		if want > 3 {
			want = 3
		}
		assert.Equal(t, want, h.Len())
	}
}

func TestHistoryEvictsOldestFirst(t *testing.T) {
	h := NewHistory(3, 0, 0)

	for i := 0; i < 4; i++ {
		h.Capture(poseAt(float32(i+1), 0, 0), true)
	}

	// After 4 captures into capacity 3, stamps are the inverses of poses
	// 2, 3, 4 in that order. An inverse translation carries -x in row 3.
	stamps := h.Stamps()
	require.Len(t, stamps, 3)
	for i, wantX := range []float32{-2, -3, -4} {
		assert.InDelta(t, wantX, stamps[i][3][0], 1e-6, "stamp %d", i)
	}
}

func TestHistoryCapacityClamped(t *testing.T) {
	assert.Equal(t, 1, NewHistory(0, 0, 0).Capacity())
	assert.Equal(t, MaxSlots, NewHistory(1000, 0, 0).Capacity())
}

func TestHistoryGateSkipsSmallMoves(t *testing.T) {
	h := NewHistory(8, 0.5, 15)

	require.True(t, h.Capture(poseAt(0, 0, 0), false), "first capture is always honored")

	// Below both thresholds: skipped.
	assert.False(t, h.Capture(poseAt(0.1, 0, 0), false))
	assert.Equal(t, 1, h.Len())

	// Past the translation threshold: honored.
	assert.True(t, h.Capture(poseAt(0.6, 0, 0), false))
	assert.Equal(t, 2, h.Len())
}

func TestHistoryGateHonorsRotation(t *testing.T) {
	h := NewHistory(8, 10, 15)

	base := core.PoseAt(math.Vec3Zero, math.QuaternionIdentity())
	require.True(t, h.Capture(base, false))

	// 5 degrees: under the threshold.
	small := core.PoseAt(math.Vec3Zero,
		math.QuaternionFromAxisAngle(math.Vec3Up, 5*math.DegToRad))
	assert.False(t, h.Capture(small, false))

	// 20 degrees: over.
	large := core.PoseAt(math.Vec3Zero,
		math.QuaternionFromAxisAngle(math.Vec3Up, 20*math.DegToRad))
	assert.True(t, h.Capture(large, false))
}

func TestHistoryForceBypassesGate(t *testing.T) {
	h := NewHistory(8, 1000, 1000)

	require.True(t, h.Capture(poseAt(0, 0, 0), false))
	assert.False(t, h.Capture(poseAt(0, 0, 0), false))
	assert.True(t, h.Capture(poseAt(0, 0, 0), true))
	assert.Equal(t, 2, h.Len())
}

func TestHistoryResetClearsGateMemory(t *testing.T) {
	h := NewHistory(8, 1000, 1000)

	h.Capture(poseAt(0, 0, 0), false)
	h.Reset()
	assert.Equal(t, 0, h.Len())

	// The stationary pose captures again after reset.
	assert.True(t, h.Capture(poseAt(0, 0, 0), false))
}

func TestHistoryRestoreKeepsNewest(t *testing.T) {
	h := NewHistory(2, 0, 0)

	stamps := []math.Mat4{
		math.Mat4Translation(math.Vec3{X: 1}),
		math.Mat4Translation(math.Vec3{X: 2}),
		math.Mat4Translation(math.Vec3{X: 3}),
	}
	h.Restore(stamps)

	require.Equal(t, 2, h.Len())
	assert.InDelta(t, float32(2), h.Stamps()[0][3][0], 1e-6)
	assert.InDelta(t, float32(3), h.Stamps()[1][3][0], 1e-6)
}

func TestHistoryStampIsInverseWorldTransform(t *testing.T) {
	h := NewHistory(4, 0, 0)

	pose := core.Transform{
		Position: math.Vec3{X: 2, Y: 1, Z: -3},
		Rotation: math.QuaternionFromAxisAngle(math.Vec3Up, 0.7),
		Scale:    math.Vec3{X: 2, Y: 2, Z: 2},
	}
	require.True(t, h.Capture(pose, true))

	// stamp * world == identity, so a world-space point at the pose origin
	// maps to the stamp-local origin.
	stamp := h.Stamps()[0]
	local := stamp.MulVec3(pose.Position)
	assert.InDelta(t, 0, local.X, 1e-5)
	assert.InDelta(t, 0, local.Y, 1e-5)
	assert.InDelta(t, 0, local.Z, 1e-5)
}
