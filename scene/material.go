package scene

import (
	"github.com/MindPort-GmbH/Z-Anatomy-Sample/carve"
	"github.com/MindPort-GmbH/Z-Anatomy-Sample/core"
)

// ShaderLit is the shader signature of the standard lit, clip-capable shader
// compiled by the OpenGL backend. Materials created by this package use it by
// default; materials with other signatures are skipped by a cutter configured
// to require it.
const ShaderLit = "anatomy/lit"

// Material describes surface appearance for a mesh: Phong shading parameters
// plus a property block the clipping publisher writes into. One material may
// be shared by many surfaces; material-scoped clip properties then affect all
// of them, unless a surface carries its own override.
type Material struct {
	Name      string
	Shader    string     // shader signature, e.g. ShaderLit
	Albedo    core.Color // base diffuse color
	Specular  core.Color // specular highlight color
	Shininess float32    // shininess exponent (1–256+)
	Unlit     bool       // skip lighting, output raw albedo

	// Props holds the material-scoped shader properties. It declares the
	// clipping properties when the shader signature is ShaderLit.
	Props *PropertyBlock

	destroyed bool
}

// DefaultMaterial returns a plain white matte material on the lit shader.
func DefaultMaterial() *Material {
	return NewMaterial("Default", core.ColorWhite)
}

// NewMaterial creates a lit material with the given albedo color.
func NewMaterial(name string, albedo core.Color) *Material {
	m := &Material{
		Name:      name,
		Shader:    ShaderLit,
		Albedo:    albedo,
		Specular:  core.Color{R: 0.3, G: 0.3, B: 0.3, A: 1},
		Shininess: 32,
	}
	m.Props = NewPropertyBlock(
		carve.PropEnabled, carve.PropCount, carve.PropStamps,
		carve.PropPlaneEnabled, carve.PropPlane,
	)
	return m
}

// Destroy marks the material dead so registries holding it prune it lazily.
func (m *Material) Destroy() {
	m.destroyed = true
}

// Alive reports whether the material is still usable as a publish target.
func (m *Material) Alive() bool {
	return !m.destroyed
}

// ShaderName returns the material's shader signature.
func (m *Material) ShaderName() string {
	return m.Shader
}

// Properties returns the material-scoped property block.
func (m *Material) Properties() carve.Paintable {
	if m.Props == nil {
		return nil
	}
	return m.Props
}
