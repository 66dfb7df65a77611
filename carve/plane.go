package carve

import (
	"github.com/MindPort-GmbH/Z-Anatomy-Sample/core"
	"github.com/MindPort-GmbH/Z-Anatomy-Sample/math"
)

// Single-plane clipping is a companion feature to the stamp engine: one
// oriented plane splitting a model in half, with a sign choosing the kept
// side. It shares the Paintable publication path but none of the history
// machinery.

// PlaneFromPose derives a plane equation from the pose's orientation and a
// side sign. The plane normal is the pose's up axis, flipped when side is
// negative; the returned Vec4 holds (normal, d) with dot(normal, p) + d == 0
// for points on the plane.
func PlaneFromPose(pose core.Transform, side float32) math.Vec4 {
	normal := pose.Rotation.RotateVector(math.Vec3Up)
	if side < 0 {
		normal = normal.Negate()
	}
	d := -normal.Dot(pose.Position)
	return normal.ToVec4(d)
}

// PlaneSide returns the signed distance of point to the plane. Positive means
// the kept side.
func PlaneSide(plane math.Vec4, point math.Vec3) float32 {
	return plane.ToVec3().Dot(point) + plane.W
}

// PublishPlane writes the plane equation and its enabled flag to one
// destination, skipping undeclared properties like the stamp publisher does.
func PublishPlane(p Paintable, plane math.Vec4, enabled bool) {
	if p == nil {
		return
	}
	if p.HasProperty(PropPlaneEnabled) {
		v := float32(0)
		if enabled {
			v = 1
		}
		p.SetFloat(PropPlaneEnabled, v)
	}
	if p.HasProperty(PropPlane) {
		p.SetVec4(PropPlane, plane)
	}
}
