package carve

import (
	"github.com/MindPort-GmbH/Z-Anatomy-Sample/math"
)

// State is the derived, GPU-visible clipping state: a fixed transform buffer
// plus count and enabled flag. It is a pure function of the history and is
// rebuilt in full on every publish.
type State struct {
	Enabled bool
	Count   int
	Stamps  [MaxSlots]math.Mat4
}

// BuildState copies stamps oldest-first into the fixed buffer, pads the
// remaining slots with identity, and derives count and enabled.
// Count == clamp(len(stamps), 0, MaxSlots).
func BuildState(stamps []math.Mat4) State {
	var st State
	n := len(stamps)
	if n > MaxSlots {
		n = MaxSlots
	}
	copy(st.Stamps[:], stamps[:n])
	for i := n; i < MaxSlots; i++ {
		st.Stamps[i] = math.Mat4Identity()
	}
	st.Count = n
	st.Enabled = n > 0
	return st
}

// enabledFloat follows the shader contract: a single float, 0.0 or 1.0.
func (st *State) enabledFloat() float32 {
	if st.Enabled {
		return 1
	}
	return 0
}

// Apply writes the state to one destination. Each property is written only
// when the destination declares it; missing properties are skipped silently.
func (st *State) Apply(p Paintable) {
	if p == nil {
		return
	}
	if p.HasProperty(PropEnabled) {
		p.SetFloat(PropEnabled, st.enabledFloat())
	}
	if p.HasProperty(PropCount) {
		p.SetFloat(PropCount, float32(st.Count))
	}
	if p.HasProperty(PropStamps) {
		p.SetMatrices(PropStamps, st.Stamps[:])
	}
}

// publishAll rebuilds the state and writes it to the global sink, every
// registered surface's per-instance override, and every registered material.
// Dead targets encountered on the way are pruned from the registry.
func (e *Engine) publishAll() {
	st := BuildState(e.history.Stamps())
	st.Apply(e.global)
	for _, surf := range e.registry.LiveSurfaces() {
		st.Apply(surf.Override())
	}
	for _, mat := range e.registry.LiveMaterials() {
		st.Apply(mat.Properties())
	}
}
