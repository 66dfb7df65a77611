package math

import (
	"testing"

	"github.com/chewxy/math32"
)

func TestVec3Operations(t *testing.T) {
	v1 := NewVec3(1, 2, 3)
	v2 := NewVec3(4, 5, 6)

	// Addition
	result := v1.Add(v2)
	expected := NewVec3(5, 7, 9)
	if result != expected {
		t.Errorf("Add: expected %v, got %v", expected, result)
	}

	// Subtraction
	result = v2.Sub(v1)
	expected = NewVec3(3, 3, 3)
	if result != expected {
		t.Errorf("Sub: expected %v, got %v", expected, result)
	}

	// Scalar multiplication
	result = v1.Mul(2)
	expected = NewVec3(2, 4, 6)
	if result != expected {
		t.Errorf("Mul: expected %v, got %v", expected, result)
	}

	// Dot product
	dot := v1.Dot(v2)
	expectedDot := float32(32) // 1*4 + 2*5 + 3*6
	if dot != expectedDot {
		t.Errorf("Dot: expected %v, got %v", expectedDot, dot)
	}

	// Cross product (Right x Up = Front in right-handed system)
	cross := Vec3Right.Cross(Vec3Up)
	if cross != Vec3Front {
		t.Errorf("Cross: expected %v, got %v", Vec3Front, cross)
	}
}

func TestVec3Normalize(t *testing.T) {
	v := NewVec3(3, 0, 0)
	normalized := v.Normalize()
	expected := NewVec3(1, 0, 0)

	if normalized != expected {
		t.Errorf("Normalize: expected %v, got %v", expected, normalized)
	}

	length := normalized.Length()
	if math32.Abs(length-1) > 0.0001 {
		t.Errorf("Normalize: expected length 1, got %v", length)
	}

	// Zero vector stays zero
	if Vec3Zero.Normalize() != Vec3Zero {
		t.Errorf("Normalize: zero vector should stay zero")
	}
}

func TestVec3Distance(t *testing.T) {
	a := NewVec3(1, 0, 0)
	b := NewVec3(4, 4, 0)
	if d := a.Distance(b); math32.Abs(d-5) > 0.0001 {
		t.Errorf("Distance: expected 5, got %v", d)
	}
}

func TestQuaternionRotation(t *testing.T) {
	// 90 degrees around Y takes Front to Right
	q := QuaternionFromAxisAngle(Vec3Up, math32.Pi/2)
	rotated := q.RotateVector(Vec3Front)

	if math32.Abs(rotated.X-1) > 0.0001 || math32.Abs(rotated.Y) > 0.0001 || math32.Abs(rotated.Z) > 0.0001 {
		t.Errorf("RotateVector: expected (1,0,0), got %v", rotated)
	}
}

func TestQuaternionAngleTo(t *testing.T) {
	a := QuaternionIdentity()
	b := QuaternionFromAxisAngle(Vec3Up, math32.Pi/3)

	angle := a.AngleTo(b)
	if math32.Abs(angle-math32.Pi/3) > 0.001 {
		t.Errorf("AngleTo: expected %v, got %v", math32.Pi/3, angle)
	}

	// Identical rotations have zero angle
	if angle := b.AngleTo(b); angle > 0.001 {
		t.Errorf("AngleTo: expected 0 for equal quaternions, got %v", angle)
	}

	// q and -q represent the same rotation
	neg := Quaternion{-b.X, -b.Y, -b.Z, -b.W}
	if angle := b.AngleTo(neg); angle > 0.001 {
		t.Errorf("AngleTo: expected 0 for negated quaternion, got %v", angle)
	}
}

func TestMat4Identity(t *testing.T) {
	m := Mat4Identity()
	v := NewVec3(1, 2, 3)
	result := m.MulVec3(v)

	if result != v {
		t.Errorf("Identity: expected %v, got %v", v, result)
	}
}

func TestMat4Translation(t *testing.T) {
	m := Mat4Translation(NewVec3(10, 20, 30))
	result := m.MulVec3(NewVec3(1, 2, 3))
	expected := NewVec3(11, 22, 33)

	if result != expected {
		t.Errorf("Translation: expected %v, got %v", expected, result)
	}

	// Directions ignore translation
	dir := m.MulDir(NewVec3(1, 0, 0))
	if dir != NewVec3(1, 0, 0) {
		t.Errorf("MulDir: expected (1,0,0), got %v", dir)
	}
}

func TestMat4Inverse(t *testing.T) {
	m := Mat4Translation(NewVec3(4, -2, 7)).Mul(QuaternionFromAxisAngle(Vec3Up, 0.7).ToMat4()).Mul(Mat4Scale(NewVec3(2, 2, 2)))
	inv := m.Inverse()

	p := NewVec3(1.5, -3, 0.25)
	roundTrip := inv.MulVec3(m.MulVec3(p))

	if roundTrip.Distance(p) > 0.0005 {
		t.Errorf("Inverse: round trip expected %v, got %v", p, roundTrip)
	}

	// Singular matrix falls back to identity
	if Mat4Zero().Inverse() != Mat4Identity() {
		t.Errorf("Inverse: singular matrix should return identity")
	}
}

func TestMat4MulOrder(t *testing.T) {
	// Row-vector convention: v * (A.Mul(B)) == (v * A) * B
	a := Mat4Translation(NewVec3(1, 0, 0))
	b := Mat4RotationY(math32.Pi / 2)

	v := NewVec3(0, 0, 1)
	combined := a.Mul(b).MulVec3(v)
	stepped := b.MulVec3(a.MulVec3(v))

	if combined.Distance(stepped) > 0.0001 {
		t.Errorf("Mul order: expected %v, got %v", stepped, combined)
	}
}
