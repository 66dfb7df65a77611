package carve

import (
	"github.com/chewxy/math32"

	"github.com/MindPort-GmbH/Z-Anatomy-Sample/math"
)

// The cutter removes a unit wedge: a right-triangular prism in stamp-local
// space. PointInWedge is the CPU-side twin of the fragment shader test; the
// two must agree or previews and rendered cuts drift apart.

// PointInWedge reports whether a stamp-local point lies inside the wedge
// prism. Edges are inclusive: the prism spans |x| <= 0.5 along the prism
// axis, with the triangular cross-section y >= 0, z >= 0, y+z <= 1.
func PointInWedge(local math.Vec3) bool {
	return math32.Abs(local.X) <= 0.5 &&
		local.Y >= 0 && local.Z >= 0 &&
		local.Y+local.Z <= 1
}

// PointInStamps reports whether worldPoint lies inside any of the first
// count stamp volumes. Union semantics: the first containing stamp wins, and
// a later stamp can never un-cut a region.
func PointInStamps(worldPoint math.Vec3, stamps []math.Mat4, count int) bool {
	if count > len(stamps) {
		count = len(stamps)
	}
	for i := 0; i < count; i++ {
		if PointInWedge(stamps[i].MulVec3(worldPoint)) {
			return true
		}
	}
	return false
}

// PointInState is PointInStamps over a published state. Disabled state
// contains nothing.
func PointInState(worldPoint math.Vec3, st *State) bool {
	if !st.Enabled {
		return false
	}
	return PointInStamps(worldPoint, st.Stamps[:], st.Count)
}
