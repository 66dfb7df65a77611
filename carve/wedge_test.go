package carve

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MindPort-GmbH/Z-Anatomy-Sample/core"
	"github.com/MindPort-GmbH/Z-Anatomy-Sample/math"
)

func TestPointInWedge(t *testing.T) {
	cases := []struct {
		name  string
		point math.Vec3
		want  bool
	}{
		{"near origin inside", math.Vec3{X: 0, Y: 0.1, Z: 0.1}, true},
		{"origin corner", math.Vec3{X: 0, Y: 0, Z: 0}, true},
		{"on slant edge", math.Vec3{X: 0, Y: 0.5, Z: 0.5}, true},
		{"on side face", math.Vec3{X: 0.5, Y: 0.1, Z: 0.1}, true},
		{"beyond slant", math.Vec3{X: 0, Y: 0.6, Z: 0.6}, false},
		{"beyond side face", math.Vec3{X: 0.6, Y: 0.1, Z: 0.1}, false},
		{"below base", math.Vec3{X: 0, Y: -0.1, Z: 0.1}, false},
		{"behind back face", math.Vec3{X: 0, Y: 0.1, Z: -0.1}, false},
		{"negative x inside", math.Vec3{X: -0.4, Y: 0.2, Z: 0.3}, true},
		{"apex y", math.Vec3{X: 0, Y: 1, Z: 0}, true},
		{"apex z", math.Vec3{X: 0, Y: 0, Z: 1}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, PointInWedge(tc.point))
		})
	}
}

func TestPointInStampsUnion(t *testing.T) {
	// Two stamps: identity and one translated to x = 5.
	stamps := []math.Mat4{
		math.Mat4Identity(),
		core.PoseAt(math.Vec3{X: 5}, math.QuaternionIdentity()).GetInverseMatrix(),
	}

	inside := math.Vec3{X: 0, Y: 0.1, Z: 0.1}
	shifted := math.Vec3{X: 5, Y: 0.1, Z: 0.1}
	outside := math.Vec3{X: 2.5, Y: 0.1, Z: 0.1}

	assert.True(t, PointInStamps(inside, stamps, 2))
	assert.True(t, PointInStamps(shifted, stamps, 2))
	assert.False(t, PointInStamps(outside, stamps, 2))

	// Count limits which stamps participate.
	assert.False(t, PointInStamps(shifted, stamps, 1))

	// Count beyond the slice length is clamped, not a panic.
	assert.True(t, PointInStamps(inside, stamps, 10))
}

func TestPointInStampsRespectsRotation(t *testing.T) {
	// Wedge rotated 180 degrees about X: its cross-section now opens toward
	// negative y and z.
	pose := core.PoseAt(math.Vec3Zero,
		math.QuaternionFromAxisAngle(math.Vec3Right, 180*math.DegToRad))
	stamps := []math.Mat4{pose.GetInverseMatrix()}

	assert.True(t, PointInStamps(math.Vec3{X: 0, Y: -0.1, Z: -0.1}, stamps, 1))
	assert.False(t, PointInStamps(math.Vec3{X: 0, Y: 0.1, Z: 0.1}, stamps, 1))
}

func TestPointInStampsRespectsScale(t *testing.T) {
	// A cutter scaled 2x carves a wedge twice as large.
	pose := core.Transform{
		Position: math.Vec3Zero,
		Rotation: math.QuaternionIdentity(),
		Scale:    math.Vec3{X: 2, Y: 2, Z: 2},
	}
	stamps := []math.Mat4{pose.GetInverseMatrix()}

	assert.True(t, PointInStamps(math.Vec3{X: 0.8, Y: 0.5, Z: 0.5}, stamps, 1))
	assert.False(t, PointInStamps(math.Vec3{X: 1.2, Y: 0.5, Z: 0.5}, stamps, 1))
}

func TestPointInStateDisabled(t *testing.T) {
	var st State // zero value: disabled, identity-free
	assert.False(t, PointInState(math.Vec3{X: 0, Y: 0.1, Z: 0.1}, &st))

	st = BuildState(nil)
	assert.False(t, st.Enabled)
	assert.False(t, PointInState(math.Vec3{X: 0, Y: 0.1, Z: 0.1}, &st))
}
