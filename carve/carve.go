// Package carve accumulates wedge-shaped cut volumes ("stamps") left behind
// by a moving cutter and publishes them as clipping state to every rendering
// surface the cutter has touched. Stamps are immutable inverse world
// transforms kept in a bounded FIFO history; cutting is additive only.
package carve

import (
	"github.com/MindPort-GmbH/Z-Anatomy-Sample/math"
)

// MaxSlots is the fixed size of the GPU transform buffer. The shader contract
// expects exactly this many matrices; unused slots hold identity.
const MaxSlots = 64

// Shader property names shared with the clipping fragment shader.
const (
	PropEnabled = "carveEnabled"
	PropCount   = "carveCount"
	PropStamps  = "carveStamps"

	PropPlane        = "clipPlane"
	PropPlaneEnabled = "clipPlaneEnabled"
)

// Paintable is a named-property write capability, scoped either per instance
// or globally. Destinations that do not declare a property report false from
// HasProperty; the publisher skips such writes silently.
type Paintable interface {
	HasProperty(name string) bool
	SetFloat(name string, value float32)
	SetVec4(name string, value math.Vec4)
	SetMatrices(name string, values []math.Mat4)
}

// Collidable is a physical candidate returned by the overlap query.
type Collidable interface {
	// CollisionLayer returns the candidate's physical layer index.
	CollisionLayer() int

	// RenderSurface walks the owning hierarchy upward to the nearest
	// renderable surface. Returns nil when none is reachable.
	RenderSurface() Surface

	// SharesHierarchy reports whether the candidate belongs to other's own
	// hierarchy, as ancestor or descendant. Used to keep the cutter from
	// registering itself.
	SharesHierarchy(other Collidable) bool
}

// Surface is a registered rendering surface. The engine holds surfaces
// weakly: a destroyed surface reports Alive() == false and is pruned lazily
// during the next publish.
type Surface interface {
	Alive() bool

	// Override is the surface's per-instance property block, letting multiple
	// surfaces sharing one material show independent clip state.
	Override() Paintable

	// Materials returns the materials the surface renders with.
	Materials() []Material
}

// Material is a registered material, possibly shared by several surfaces.
type Material interface {
	Alive() bool

	// ShaderName identifies the material's shader signature.
	ShaderName() string

	// Properties is the material-scoped property block, the fallback path for
	// surfaces without per-instance override support.
	Properties() Paintable
}

// Config holds the cutter parameters. The zero value is not usable; start
// from DefaultConfig.
type Config struct {
	// MaxStamps is the history capacity, clamped to [1, MaxSlots].
	MaxStamps int

	// TranslationThreshold is the minimum cutter movement in world units
	// before an unforced capture is honored.
	TranslationThreshold float32

	// RotationThresholdDegrees is the minimum cutter rotation in degrees
	// before an unforced capture is honored.
	RotationThresholdDegrees float32

	// LayerMask selects the physical layers eligible for registration,
	// one bit per layer index.
	LayerMask uint32

	// RequiredShader restricts registration to materials with this shader
	// signature. Empty accepts any material.
	RequiredShader string

	// CaptureOnEveryOverlap requests a gated capture on every tick with at
	// least one overlap, not only when a new target is discovered.
	CaptureOnEveryOverlap bool
}

// DefaultConfig returns the stock cutter parameters: 16 stamps, 5 cm / 10°
// gating, all layers, any shader.
func DefaultConfig() Config {
	return Config{
		MaxStamps:                16,
		TranslationThreshold:     0.05,
		RotationThresholdDegrees: 10,
		LayerMask:                ^uint32(0),
		CaptureOnEveryOverlap:    true,
	}
}

func (c Config) normalized() Config {
	if c.MaxStamps < 1 {
		c.MaxStamps = 1
	}
	if c.MaxStamps > MaxSlots {
		c.MaxStamps = MaxSlots
	}
	if c.TranslationThreshold < 0 {
		c.TranslationThreshold = 0
	}
	if c.RotationThresholdDegrees < 0 {
		c.RotationThresholdDegrees = 0
	}
	return c
}
