package carve

import (
	"log"

	"github.com/MindPort-GmbH/Z-Anatomy-Sample/core"
)

// Engine ties the pieces together: it owns the stamp history and the target
// registry, and publishes derived state through the injected global sink plus
// the per-target overrides. All operations are frame-synchronous; the engine
// is not safe for concurrent use.
type Engine struct {
	cfg      Config
	history  *History
	registry *Registry
	global   Paintable

	cutter Collidable
	logger *log.Logger
}

// New creates an engine. global is the process- or scene-wide fallback sink;
// nil means no global publication.
func New(cfg Config, global Paintable) *Engine {
	cfg = cfg.normalized()
	return &Engine{
		cfg:      cfg,
		history:  NewHistory(cfg.MaxStamps, cfg.TranslationThreshold, cfg.RotationThresholdDegrees),
		registry: NewRegistry(),
		global:   global,
	}
}

// SetCutter identifies the cutter's own hierarchy so overlap hits on the
// cutter itself are never registered as targets.
func (e *Engine) SetCutter(c Collidable) {
	e.cutter = c
}

// SetLogger installs a diagnostics logger. Diagnostics are advisory only and
// never affect control flow; nil (the default) disables them.
func (e *Engine) SetLogger(logger *log.Logger) {
	e.logger = logger
}

// Config returns the normalized configuration the engine runs with.
func (e *Engine) Config() Config {
	return e.cfg
}

// State returns the current derived shader state.
func (e *Engine) State() State {
	return BuildState(e.history.Stamps())
}

// History exposes the stamp history for inspection.
func (e *Engine) History() *History {
	return e.history
}

// Registry exposes the target registry for inspection.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Step processes one simulation tick: hits are the candidates the overlap
// query found around pose. New targets are registered (each immediately
// receives the current state), then a capture is attempted. The capture is
// forced when a new target appeared, and gated when CaptureOnEveryOverlap is
// set and the cutter is overlapping anything.
func (e *Engine) Step(pose core.Transform, hits []Collidable) {
	added := false
	for _, hit := range hits {
		if e.tryRegister(hit) {
			added = true
		}
	}

	switch {
	case added:
		e.capture(pose, true)
	case e.cfg.CaptureOnEveryOverlap && len(hits) > 0:
		e.capture(pose, false)
	}
}

// CaptureNow registers any new targets among hits and then forces a capture,
// bypassing the pose-delta gate. This backs the explicit trigger command.
func (e *Engine) CaptureNow(pose core.Transform, hits []Collidable) {
	for _, hit := range hits {
		e.tryRegister(hit)
	}
	e.capture(pose, true)
}

// ResetClipping clears all stamps and the gating memory while keeping the
// registered targets, then republishes the now-disabled state.
func (e *Engine) ResetClipping() {
	e.history.Reset()
	e.publishAll()
}

// ClearAll clears stamps and forgets every registered target. Targets receive
// a final disabled state before being dropped.
func (e *Engine) ClearAll() {
	e.history.Reset()
	e.publishAll()
	e.registry.Clear()
}

// Teardown disables the published state everywhere and drops all references.
// The engine must not be used afterwards.
func (e *Engine) Teardown() {
	e.history.Reset()
	e.publishAll()
	e.registry.Clear()
	e.global = nil
	e.cutter = nil
}

// tryRegister applies the registration filters to one overlap candidate and
// reports whether anything new was added. New targets immediately receive the
// current state so freshly discovered geometry reflects existing cuts without
// waiting for the next stamp.
func (e *Engine) tryRegister(candidate Collidable) bool {
	if candidate == nil {
		return false
	}
	if e.cutter != nil && candidate.SharesHierarchy(e.cutter) {
		return false
	}
	if e.cfg.LayerMask&(1<<uint(candidate.CollisionLayer())) == 0 {
		return false
	}
	surf := candidate.RenderSurface()
	if surf == nil {
		return false
	}

	var qualified []Material
	for _, mat := range surf.Materials() {
		if mat == nil {
			continue
		}
		if e.cfg.RequiredShader == "" || mat.ShaderName() == e.cfg.RequiredShader {
			qualified = append(qualified, mat)
		}
	}
	if len(qualified) == 0 {
		e.logf("carve: surface skipped, no material matches shader %q", e.cfg.RequiredShader)
		return false
	}

	st := BuildState(e.history.Stamps())
	added := false
	if e.registry.AddSurface(surf) {
		added = true
		st.Apply(surf.Override())
	}
	for _, mat := range qualified {
		if e.registry.AddMaterial(mat) {
			added = true
			st.Apply(mat.Properties())
		}
	}
	return added
}

func (e *Engine) capture(pose core.Transform, force bool) {
	if e.history.Capture(pose, force) {
		e.publishAll()
	}
}

func (e *Engine) logf(format string, args ...any) {
	if e.logger != nil {
		e.logger.Printf(format, args...)
	}
}
