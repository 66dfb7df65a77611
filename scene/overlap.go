package scene

import (
	"errors"

	"github.com/MindPort-GmbH/Z-Anatomy-Sample/math"
)

// The overlap query is the broad phase the clipping engine consumes: given an
// oriented box volume and a layer filter, return every candidate node whose
// bounds intersect it. Both volumes are reduced to conservative world AABBs,
// so a hit may be slightly generous; the engine tolerates that, since a false
// positive only means a stamp on a surface the cutter grazed.

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math.Vec3
	Max math.Vec3
}

// Intersects reports whether the boxes overlap, boundaries included.
func (a AABB) Intersects(b AABB) bool {
	return a.Min.X <= b.Max.X && a.Max.X >= b.Min.X &&
		a.Min.Y <= b.Max.Y && a.Max.Y >= b.Min.Y &&
		a.Min.Z <= b.Max.Z && a.Max.Z >= b.Min.Z
}

// transformAABB returns the world AABB enclosing the eight transformed
// corners of local.
func transformAABB(local AABB, worldMatrix math.Mat4) AABB {
	corners := [8]math.Vec3{
		{X: local.Min.X, Y: local.Min.Y, Z: local.Min.Z},
		{X: local.Max.X, Y: local.Min.Y, Z: local.Min.Z},
		{X: local.Min.X, Y: local.Max.Y, Z: local.Min.Z},
		{X: local.Max.X, Y: local.Max.Y, Z: local.Min.Z},
		{X: local.Min.X, Y: local.Min.Y, Z: local.Max.Z},
		{X: local.Max.X, Y: local.Min.Y, Z: local.Max.Z},
		{X: local.Min.X, Y: local.Max.Y, Z: local.Max.Z},
		{X: local.Max.X, Y: local.Max.Y, Z: local.Max.Z},
	}

	first := worldMatrix.MulVec3(corners[0])
	box := AABB{Min: first, Max: first}
	for _, c := range corners[1:] {
		p := worldMatrix.MulVec3(c)
		box.Min = box.Min.Min(p)
		box.Max = box.Max.Max(p)
	}
	return box
}

// WorldAABB returns the node's mesh bounds in world space; ok is false when
// the node has no mesh geometry.
func (n *Node) WorldAABB() (AABB, bool) {
	if n.Mesh == nil || !n.Mesh.HasLocalAABB {
		return AABB{}, false
	}
	return transformAABB(n.Mesh.LocalAABB, n.GetWorldMatrix()), true
}

// OverlapBox returns every live node with mesh geometry on a layer selected
// by layerMask whose world bounds intersect the oriented box volume.
func (s *Scene) OverlapBox(center, halfExtents math.Vec3, rotation math.Quaternion, layerMask uint32) []*Node {
	queryLocal := AABB{Min: halfExtents.Negate(), Max: halfExtents}
	queryWorld := transformAABB(queryLocal,
		rotation.ToMat4().Mul(math.Mat4Translation(center)))

	var hits []*Node
	s.Root.Traverse(func(n *Node) {
		if n.destroyed || layerMask&(1<<uint(n.Layer)) == 0 {
			return
		}
		box, ok := n.WorldAABB()
		if !ok {
			return
		}
		if box.Intersects(queryWorld) {
			hits = append(hits, n)
		}
	})
	return hits
}

// ErrNoCollider is returned when an overlap scan is requested for a node
// without a collider.
var ErrNoCollider = errors.New("scene: node has no collider")

// OverlapNode runs OverlapBox with the node's own collider volume, excluding
// the node itself from the results. A node without a collider aborts the scan.
func (s *Scene) OverlapNode(n *Node, layerMask uint32) ([]*Node, error) {
	if n.Collider == nil {
		return nil, ErrNoCollider
	}

	world := n.GetWorldMatrix()
	center := world.MulVec3(math.Vec3Zero)
	half := n.Collider.HalfExtents.MulVec(n.Transform.Scale)

	hits := s.OverlapBox(center, half, n.Transform.Rotation, layerMask)
	kept := hits[:0]
	for _, hit := range hits {
		if hit != n {
			kept = append(kept, hit)
		}
	}
	return kept, nil
}
