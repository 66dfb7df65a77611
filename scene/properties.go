package scene

import (
	"github.com/MindPort-GmbH/Z-Anatomy-Sample/math"
)

// PropertyBlock is named shader-property storage: floats, vec4s, and mat4
// arrays. A block either declares a fixed set of property names (material
// and global blocks, mirroring what the shader exposes) or is open and
// accepts any name (per-instance overrides). Writes to undeclared names on a
// closed block are dropped, matching the defensive-write publication model.
type PropertyBlock struct {
	open     bool
	declared map[string]struct{}

	floats   map[string]float32
	vecs     map[string]math.Vec4
	matrices map[string][]math.Mat4
}

// NewPropertyBlock creates a closed block declaring the given names.
func NewPropertyBlock(names ...string) *PropertyBlock {
	b := &PropertyBlock{declared: make(map[string]struct{}, len(names))}
	for _, name := range names {
		b.declared[name] = struct{}{}
	}
	return b
}

// NewOpenPropertyBlock creates a block that accepts any property name.
func NewOpenPropertyBlock() *PropertyBlock {
	return &PropertyBlock{open: true}
}

// Declare adds names to the declared set.
func (b *PropertyBlock) Declare(names ...string) {
	if b.declared == nil {
		b.declared = make(map[string]struct{}, len(names))
	}
	for _, name := range names {
		b.declared[name] = struct{}{}
	}
}

// HasProperty reports whether the block declares name.
func (b *PropertyBlock) HasProperty(name string) bool {
	if b.open {
		return true
	}
	_, ok := b.declared[name]
	return ok
}

func (b *PropertyBlock) SetFloat(name string, value float32) {
	if !b.HasProperty(name) {
		return
	}
	if b.floats == nil {
		b.floats = make(map[string]float32)
	}
	b.floats[name] = value
}

func (b *PropertyBlock) SetVec4(name string, value math.Vec4) {
	if !b.HasProperty(name) {
		return
	}
	if b.vecs == nil {
		b.vecs = make(map[string]math.Vec4)
	}
	b.vecs[name] = value
}

// SetMatrices stores a copy of values, so later mutation of the caller's
// slice cannot change the block.
func (b *PropertyBlock) SetMatrices(name string, values []math.Mat4) {
	if !b.HasProperty(name) {
		return
	}
	if b.matrices == nil {
		b.matrices = make(map[string][]math.Mat4)
	}
	stored := make([]math.Mat4, len(values))
	copy(stored, values)
	b.matrices[name] = stored
}

// Float reads a float property; ok is false when it was never written.
func (b *PropertyBlock) Float(name string) (value float32, ok bool) {
	value, ok = b.floats[name]
	return
}

// Vec4 reads a vec4 property; ok is false when it was never written.
func (b *PropertyBlock) Vec4(name string) (value math.Vec4, ok bool) {
	value, ok = b.vecs[name]
	return
}

// Matrices reads a matrix-array property; ok is false when it was never
// written. The returned slice is the stored copy; callers must not mutate it.
func (b *PropertyBlock) Matrices(name string) (values []math.Mat4, ok bool) {
	values, ok = b.matrices[name]
	return
}
