package carve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MindPort-GmbH/Z-Anatomy-Sample/math"
)

// ── Test doubles ──────────────────────────────────────────────────────────────

// fakeBlock records property writes. With declared == nil it accepts any
// name; otherwise only declared names are writable.
type fakeBlock struct {
	declared map[string]bool

	floats   map[string]float32
	vecs     map[string]math.Vec4
	matrices map[string][]math.Mat4
	writes   int
}

func newFakeBlock(names ...string) *fakeBlock {
	b := &fakeBlock{
		floats:   make(map[string]float32),
		vecs:     make(map[string]math.Vec4),
		matrices: make(map[string][]math.Mat4),
	}
	if len(names) > 0 {
		b.declared = make(map[string]bool)
		for _, n := range names {
			b.declared[n] = true
		}
	}
	return b
}

func (b *fakeBlock) HasProperty(name string) bool {
	return b.declared == nil || b.declared[name]
}

func (b *fakeBlock) SetFloat(name string, v float32) {
	b.floats[name] = v
	b.writes++
}

func (b *fakeBlock) SetVec4(name string, v math.Vec4) {
	b.vecs[name] = v
	b.writes++
}

func (b *fakeBlock) SetMatrices(name string, vs []math.Mat4) {
	stored := make([]math.Mat4, len(vs))
	copy(stored, vs)
	b.matrices[name] = stored
	b.writes++
}

type fakeMaterial struct {
	alive  bool
	shader string
	props  *fakeBlock
}

func newFakeMaterial(shader string) *fakeMaterial {
	return &fakeMaterial{alive: true, shader: shader, props: newFakeBlock()}
}

func (m *fakeMaterial) Alive() bool           { return m.alive }
func (m *fakeMaterial) ShaderName() string    { return m.shader }
func (m *fakeMaterial) Properties() Paintable { return m.props }

type fakeSurface struct {
	alive    bool
	override *fakeBlock
	mats     []Material
}

func newFakeSurface(mats ...Material) *fakeSurface {
	return &fakeSurface{alive: true, override: newFakeBlock(), mats: mats}
}

func (s *fakeSurface) Alive() bool           { return s.alive }
func (s *fakeSurface) Override() Paintable   { return s.override }
func (s *fakeSurface) Materials() []Material { return s.mats }

type fakeCollidable struct {
	layer    int
	surf     Surface
	shareSet map[Collidable]bool
}

func newFakeCollidable(layer int, surf Surface) *fakeCollidable {
	return &fakeCollidable{layer: layer, surf: surf}
}

func (c *fakeCollidable) CollisionLayer() int    { return c.layer }
func (c *fakeCollidable) RenderSurface() Surface { return c.surf }
func (c *fakeCollidable) SharesHierarchy(o Collidable) bool {
	return c.shareSet[o]
}

// target bundles a collidable with its surface and material for assertions.
type target struct {
	col  *fakeCollidable
	surf *fakeSurface
	mat  *fakeMaterial
}

func newTarget(layer int, shader string) target {
	mat := newFakeMaterial(shader)
	surf := newFakeSurface(mat)
	return target{col: newFakeCollidable(layer, surf), surf: surf, mat: mat}
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.MaxStamps = 3
	cfg.TranslationThreshold = 0.5
	cfg.RotationThresholdDegrees = 15
	return cfg
}

// ── Registration filters ──────────────────────────────────────────────────────

func TestStepRegistersOverlappingTarget(t *testing.T) {
	e := New(testConfig(), nil)
	tg := newTarget(0, "")

	e.Step(poseAt(0, 0, 0), []Collidable{tg.col})

	assert.Equal(t, 1, e.Registry().NumSurfaces())
	assert.Equal(t, 1, e.Registry().NumMaterials())
	// Discovery forces a capture.
	assert.Equal(t, 1, e.History().Len())
}

func TestStepRejectsMaskedLayer(t *testing.T) {
	cfg := testConfig()
	cfg.LayerMask = 1 << 3
	e := New(cfg, nil)

	masked := newTarget(2, "")
	allowed := newTarget(3, "")
	e.Step(poseAt(0, 0, 0), []Collidable{masked.col, allowed.col})

	assert.Equal(t, 1, e.Registry().NumSurfaces())
	assert.Zero(t, masked.surf.override.writes)
	assert.NotZero(t, allowed.surf.override.writes)
}

func TestStepRejectsCutterHierarchy(t *testing.T) {
	e := New(testConfig(), nil)

	cutter := newFakeCollidable(0, nil)
	e.SetCutter(cutter)

	tg := newTarget(0, "")
	tg.col.shareSet = map[Collidable]bool{cutter: true}
	e.Step(poseAt(0, 0, 0), []Collidable{tg.col})

	assert.Zero(t, e.Registry().NumSurfaces())
	assert.Zero(t, e.History().Len())
}

func TestStepRejectsWrongShader(t *testing.T) {
	cfg := testConfig()
	cfg.RequiredShader = "lit"
	e := New(cfg, nil)

	wrong := newTarget(0, "tool")
	right := newTarget(0, "lit")
	e.Step(poseAt(0, 0, 0), []Collidable{wrong.col, right.col})

	assert.Equal(t, 1, e.Registry().NumSurfaces())
	assert.Equal(t, 1, e.Registry().NumMaterials())
}

func TestStepIgnoresNilAndSurfacelessCandidates(t *testing.T) {
	e := New(testConfig(), nil)

	noSurf := newFakeCollidable(0, nil)
	e.Step(poseAt(0, 0, 0), []Collidable{nil, noSurf})

	assert.Zero(t, e.Registry().NumSurfaces())
	assert.Zero(t, e.History().Len())
}

func TestRegistrationIsIdempotent(t *testing.T) {
	e := New(testConfig(), nil)
	tg := newTarget(0, "")

	for i := 0; i < 5; i++ {
		e.Step(poseAt(0, 0, 0), []Collidable{tg.col})
	}

	assert.Equal(t, 1, e.Registry().NumSurfaces())
	assert.Equal(t, 1, e.Registry().NumMaterials())
}

func TestSharedMaterialRegistersOnce(t *testing.T) {
	e := New(testConfig(), nil)

	mat := newFakeMaterial("")
	a := newFakeSurface(mat)
	b := newFakeSurface(mat)
	e.Step(poseAt(0, 0, 0), []Collidable{
		newFakeCollidable(0, a),
		newFakeCollidable(0, b),
	})

	assert.Equal(t, 2, e.Registry().NumSurfaces())
	assert.Equal(t, 1, e.Registry().NumMaterials())
}

// ── Publication ───────────────────────────────────────────────────────────────

func TestNewTargetReceivesExistingState(t *testing.T) {
	e := New(testConfig(), nil)

	first := newTarget(0, "")
	e.CaptureNow(poseAt(0, 0, 0), []Collidable{first.col})
	e.CaptureNow(poseAt(1, 0, 0), nil)
	require.Equal(t, 2, e.History().Len())

	// A target discovered later sees the two existing stamps plus the
	// discovery capture, without waiting for another publish.
	late := newTarget(0, "")
	e.Step(poseAt(1, 0, 0), []Collidable{late.col})

	assert.InDelta(t, 1, late.surf.override.floats[PropEnabled], 1e-6)
	assert.InDelta(t, 3, late.surf.override.floats[PropCount], 1e-6)
	assert.Len(t, late.surf.override.matrices[PropStamps], MaxSlots)
	assert.InDelta(t, 3, late.mat.props.floats[PropCount], 1e-6)
}

func TestPublishWritesGlobalSink(t *testing.T) {
	global := newFakeBlock()
	e := New(testConfig(), global)

	tg := newTarget(0, "")
	e.Step(poseAt(0, 0, 0), []Collidable{tg.col})

	assert.InDelta(t, 1, global.floats[PropEnabled], 1e-6)
	assert.InDelta(t, 1, global.floats[PropCount], 1e-6)
	assert.Len(t, global.matrices[PropStamps], MaxSlots)
}

func TestPublishSkipsUndeclaredProperties(t *testing.T) {
	// A sink that only declares the enabled flag receives nothing else.
	global := newFakeBlock(PropEnabled)
	e := New(testConfig(), global)

	e.CaptureNow(poseAt(0, 0, 0), nil)

	assert.Contains(t, global.floats, PropEnabled)
	assert.NotContains(t, global.floats, PropCount)
	assert.NotContains(t, global.matrices, PropStamps)
}

func TestStateBufferPadsWithIdentity(t *testing.T) {
	e := New(testConfig(), nil)
	e.CaptureNow(poseAt(2, 0, 0), nil)

	st := e.State()
	require.Equal(t, 1, st.Count)
	assert.True(t, st.Enabled)
	for i := 1; i < MaxSlots; i++ {
		assert.Equal(t, math.Mat4Identity(), st.Stamps[i], "slot %d", i)
	}
}

func TestRepublishIsDeterministic(t *testing.T) {
	global := newFakeBlock()
	e := New(testConfig(), global)

	tg := newTarget(0, "")
	e.Step(poseAt(0, 0, 0), []Collidable{tg.col})

	snapFloats := map[string]float32{}
	for k, v := range global.floats {
		snapFloats[k] = v
	}
	snapStamps := append([]math.Mat4(nil), global.matrices[PropStamps]...)

	// Same pose, no movement: republish must not change anything.
	e.Step(poseAt(0, 0, 0), []Collidable{tg.col})

	assert.Equal(t, snapFloats, global.floats)
	assert.Equal(t, snapStamps, global.matrices[PropStamps])
}

// ── Capture policy ────────────────────────────────────────────────────────────

func TestStepGatesRepeatCaptures(t *testing.T) {
	e := New(testConfig(), nil)
	tg := newTarget(0, "")

	// Discovery capture, then tiny moves stay gated.
	e.Step(poseAt(0, 0, 0), []Collidable{tg.col})
	e.Step(poseAt(0.1, 0, 0), []Collidable{tg.col})
	e.Step(poseAt(0.2, 0, 0), []Collidable{tg.col})
	assert.Equal(t, 1, e.History().Len())

	// A move past the threshold adds a stamp.
	e.Step(poseAt(0.8, 0, 0), []Collidable{tg.col})
	assert.Equal(t, 2, e.History().Len())
}

func TestStepWithoutOverlapCapturesNothing(t *testing.T) {
	e := New(testConfig(), nil)

	e.Step(poseAt(0, 0, 0), nil)
	e.Step(poseAt(5, 0, 0), nil)

	assert.Zero(t, e.History().Len())
}

func TestStepWithoutCaptureOnEveryOverlap(t *testing.T) {
	cfg := testConfig()
	cfg.CaptureOnEveryOverlap = false
	e := New(cfg, nil)
	tg := newTarget(0, "")

	e.Step(poseAt(0, 0, 0), []Collidable{tg.col})
	require.Equal(t, 1, e.History().Len())

	// Large moves over a known target do not capture; only discovery and
	// explicit triggers do.
	e.Step(poseAt(5, 0, 0), []Collidable{tg.col})
	assert.Equal(t, 1, e.History().Len())

	e.CaptureNow(poseAt(5, 0, 0), []Collidable{tg.col})
	assert.Equal(t, 2, e.History().Len())
}

func TestHistoryOverflowKeepsNewestStamps(t *testing.T) {
	e := New(testConfig(), nil) // capacity 3
	tg := newTarget(0, "")

	e.Step(poseAt(0, 0, 0), []Collidable{tg.col})
	for i := 1; i <= 4; i++ {
		e.CaptureNow(poseAt(float32(i), 0, 0), []Collidable{tg.col})
	}

	st := e.State()
	require.Equal(t, 3, st.Count)
	for i, wantX := range []float32{-2, -3, -4} {
		assert.InDelta(t, wantX, st.Stamps[i][3][0], 1e-6, "slot %d", i)
	}
}

// ── Reset, clear, teardown ────────────────────────────────────────────────────

func TestResetClippingKeepsTargets(t *testing.T) {
	global := newFakeBlock()
	e := New(testConfig(), global)
	tg := newTarget(0, "")

	e.Step(poseAt(0, 0, 0), []Collidable{tg.col})
	e.ResetClipping()

	assert.Equal(t, 1, e.Registry().NumSurfaces())
	assert.InDelta(t, 0, global.floats[PropEnabled], 1e-6)
	assert.InDelta(t, 0, global.floats[PropCount], 1e-6)
	assert.InDelta(t, 0, tg.surf.override.floats[PropEnabled], 1e-6)
}

func TestClearAllForgetsTargets(t *testing.T) {
	e := New(testConfig(), nil)
	tg := newTarget(0, "")

	e.Step(poseAt(0, 0, 0), []Collidable{tg.col})
	e.ClearAll()

	assert.Zero(t, e.Registry().NumSurfaces())
	assert.Zero(t, e.Registry().NumMaterials())
	assert.Zero(t, e.History().Len())
	// The target saw a final disabled publish before being dropped.
	assert.InDelta(t, 0, tg.surf.override.floats[PropEnabled], 1e-6)
}

func TestDeadTargetsPrunedOnPublish(t *testing.T) {
	e := New(testConfig(), nil)
	a := newTarget(0, "")
	b := newTarget(0, "")

	e.Step(poseAt(0, 0, 0), []Collidable{a.col, b.col})
	require.Equal(t, 2, e.Registry().NumSurfaces())

	a.surf.alive = false
	a.mat.alive = false
	writesBefore := a.surf.override.writes

	e.CaptureNow(poseAt(1, 0, 0), nil)

	assert.Equal(t, 1, e.Registry().NumSurfaces())
	assert.Equal(t, 1, e.Registry().NumMaterials())
	assert.Equal(t, writesBefore, a.surf.override.writes, "dead surface must not be written")
}

// ── End to end ────────────────────────────────────────────────────────────────

func TestCarveSweepEndToEnd(t *testing.T) {
	global := newFakeBlock()
	e := New(testConfig(), global)
	tg := newTarget(0, "")

	// Sweep the cutter through four poses along X.
	for i := 0; i < 4; i++ {
		e.CaptureNow(poseAt(float32(i)*2, 0, 0), []Collidable{tg.col})
	}

	st := e.State()
	require.Equal(t, 3, st.Count)

	// Points at the newest three pose origins are carved away; the origin of
	// the evicted first stamp is not.
	assert.False(t, PointInState(math.Vec3{X: 0, Y: 0.1, Z: 0.1}, &st))
	assert.True(t, PointInState(math.Vec3{X: 2, Y: 0.1, Z: 0.1}, &st))
	assert.True(t, PointInState(math.Vec3{X: 4, Y: 0.1, Z: 0.1}, &st))
	assert.True(t, PointInState(math.Vec3{X: 6, Y: 0.1, Z: 0.1}, &st))
}
