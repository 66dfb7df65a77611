package carve

// Registry holds the deduplicated sets of discovered surfaces and materials.
// Membership is by identity: a surface registers once no matter how often it
// is hit, and a shared material registers once no matter how many surfaces
// reference it. Targets are never removed individually, only by Clear or by
// lazy pruning of dead references during publish.
type Registry struct {
	surfaces  []Surface
	materials []Material

	surfaceSet  map[Surface]struct{}
	materialSet map[Material]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		surfaceSet:  make(map[Surface]struct{}),
		materialSet: make(map[Material]struct{}),
	}
}

// AddSurface registers s and reports whether it was new.
func (r *Registry) AddSurface(s Surface) bool {
	if s == nil {
		return false
	}
	if _, ok := r.surfaceSet[s]; ok {
		return false
	}
	r.surfaceSet[s] = struct{}{}
	r.surfaces = append(r.surfaces, s)
	return true
}

// AddMaterial registers m and reports whether it was new.
func (r *Registry) AddMaterial(m Material) bool {
	if m == nil {
		return false
	}
	if _, ok := r.materialSet[m]; ok {
		return false
	}
	r.materialSet[m] = struct{}{}
	r.materials = append(r.materials, m)
	return true
}

// LiveSurfaces prunes dead surfaces in place and returns the remainder in
// registration order.
func (r *Registry) LiveSurfaces() []Surface {
	kept := r.surfaces[:0]
	for _, s := range r.surfaces {
		if s.Alive() {
			kept = append(kept, s)
			continue
		}
		delete(r.surfaceSet, s)
	}
	// Drop trailing references so pruned surfaces can be collected.
	for i := len(kept); i < len(r.surfaces); i++ {
		r.surfaces[i] = nil
	}
	r.surfaces = kept
	return r.surfaces
}

// LiveMaterials prunes dead materials in place and returns the remainder in
// registration order.
func (r *Registry) LiveMaterials() []Material {
	kept := r.materials[:0]
	for _, m := range r.materials {
		if m.Alive() {
			kept = append(kept, m)
			continue
		}
		delete(r.materialSet, m)
	}
	for i := len(kept); i < len(r.materials); i++ {
		r.materials[i] = nil
	}
	r.materials = kept
	return r.materials
}

// NumSurfaces returns the registered surface count, dead references included.
func (r *Registry) NumSurfaces() int { return len(r.surfaces) }

// NumMaterials returns the registered material count, dead references included.
func (r *Registry) NumMaterials() int { return len(r.materials) }

// Clear forgets every registered target.
func (r *Registry) Clear() {
	r.surfaces = nil
	r.materials = nil
	r.surfaceSet = make(map[Surface]struct{})
	r.materialSet = make(map[Material]struct{})
}
