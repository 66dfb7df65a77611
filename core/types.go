package core

import (
	"github.com/MindPort-GmbH/Z-Anatomy-Sample/math"
)

type Color struct {
	R, G, B, A float32
}

var (
	ColorWhite  = Color{1, 1, 1, 1}
	ColorBlack  = Color{0, 0, 0, 1}
	ColorRed    = Color{1, 0, 0, 1}
	ColorGreen  = Color{0, 1, 0, 1}
	ColorBlue   = Color{0, 0, 1, 1}
	ColorYellow = Color{1, 1, 0, 1}
)

type Vertex struct {
	Position math.Vec3
	Normal   math.Vec3
	UV       math.Vec2
	Color    Color
}

type MeshData struct {
	Vertices []Vertex
	Indices  []uint32
}

// Transform is a position + rotation + scale triple. A sampled cutter pose
// uses unit scale.
type Transform struct {
	Position math.Vec3
	Rotation math.Quaternion
	Scale    math.Vec3
}

func NewTransform() Transform {
	return Transform{
		Position: math.Vec3Zero,
		Rotation: math.QuaternionIdentity(),
		Scale:    math.Vec3One,
	}
}

// PoseAt builds a transform from a position and rotation with unit scale.
func PoseAt(position math.Vec3, rotation math.Quaternion) Transform {
	return Transform{Position: position, Rotation: rotation, Scale: math.Vec3One}
}

// GetMatrix returns the local-to-world matrix. Row-vector convention: the
// factors apply left to right, scale first, then rotation, then translation.
func (t Transform) GetMatrix() math.Mat4 {
	translation := math.Mat4Translation(t.Position)
	rotation := t.Rotation.ToMat4()
	scale := math.Mat4Scale(t.Scale)
	return scale.Mul(rotation).Mul(translation)
}

// GetInverseMatrix returns the exact world-to-local matrix, built from the
// factored inverse components rather than a general matrix inversion.
func (t Transform) GetInverseMatrix() math.Mat4 {
	invTranslation := math.Mat4Translation(t.Position.Negate())
	invRotation := t.Rotation.Conjugate().ToMat4()
	invScale := math.Mat4Scale(safeInvScale(t.Scale))
	return invTranslation.Mul(invRotation).Mul(invScale)
}

func safeInvScale(s math.Vec3) math.Vec3 {
	inv := math.Vec3One
	if s.X != 0 {
		inv.X = 1 / s.X
	}
	if s.Y != 0 {
		inv.Y = 1 / s.Y
	}
	if s.Z != 0 {
		inv.Z = 1 / s.Z
	}
	return inv
}

func (t Transform) GetForward() math.Vec3 {
	return t.Rotation.RotateVector(math.Vec3Front)
}

func (t Transform) GetRight() math.Vec3 {
	return t.Rotation.RotateVector(math.Vec3Right)
}

func (t Transform) GetUp() math.Vec3 {
	return t.Rotation.RotateVector(math.Vec3Up)
}
