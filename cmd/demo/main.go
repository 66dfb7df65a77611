// Demo: move a wedge-shaped cutter through a small anatomy scene and carve
// away whatever it sweeps over. Stamps accumulate in the clipping engine and
// are evaluated per fragment on the GPU.
//
// Controls:
//
//	WASD        move cutter on the XZ plane
//	Q / E       move cutter down / up
//	arrow keys  rotate cutter
//	space       force a stamp capture
//	R           reset clipping (keep targets)
//	C           clear everything
//	P           toggle the companion clip plane
//	X           save session    L  load session
//	drag / scroll  orbit and zoom the camera
//	escape      quit
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/MindPort-GmbH/Z-Anatomy-Sample/carve"
	"github.com/MindPort-GmbH/Z-Anatomy-Sample/core"
	"github.com/MindPort-GmbH/Z-Anatomy-Sample/internal/opengl"
	"github.com/MindPort-GmbH/Z-Anatomy-Sample/math"
	"github.com/MindPort-GmbH/Z-Anatomy-Sample/scene"
)

func main() {
	configPath := flag.String("config", "demo.toml", "path to TOML config")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	window, err := core.NewWindow(core.WindowConfig{
		Width:     cfg.Window.Width,
		Height:    cfg.Window.Height,
		Title:     cfg.Window.Title,
		Resizable: true,
		VSync:     cfg.Window.VSync,
	})
	if err != nil {
		log.Fatalf("window: %v", err)
	}
	defer window.Destroy()

	renderer, err := opengl.NewRenderer()
	if err != nil {
		log.Fatalf("renderer: %v", err)
	}
	defer renderer.Destroy()

	s := buildScene(cfg)
	cutter := buildCutter(s)

	engine := carve.New(cfg.carveConfig(), s.Globals)
	engine.SetCutter(cutter)
	engine.SetLogger(log.New(os.Stdout, "demo: ", log.LstdFlags))
	defer engine.Teardown()

	camera := scene.NewOrbitCamera(math.Vec3Zero, 5,
		60*math.DegToRad, float32(cfg.Window.Width)/float32(cfg.Window.Height))
	s.SetCamera(&camera.Camera)

	planeEnabled := false

	window.SetKeyPressCallback(func(key int) {
		pose := cutterPose(cutter)
		switch key {
		case core.KeySpace:
			engine.CaptureNow(pose, overlapHits(s, cutter, engine.Config().LayerMask))
			fmt.Printf("captured: %d stamps\n", engine.History().Len())
		case core.KeyR:
			engine.ResetClipping()
			fmt.Println("clipping reset")
		case core.KeyC:
			engine.ClearAll()
			fmt.Println("cleared stamps and targets")
		case core.KeyP:
			planeEnabled = !planeEnabled
			plane := carve.PlaneFromPose(pose, 1)
			carve.PublishPlane(s.Globals, plane, planeEnabled)
			fmt.Printf("clip plane enabled: %v\n", planeEnabled)
		case core.KeyX:
			if err := engine.SaveSession(cfg.Session.Path); err != nil {
				fmt.Printf("save session: %v\n", err)
			} else {
				fmt.Printf("session saved to %s\n", cfg.Session.Path)
			}
		case core.KeyL:
			if err := engine.LoadSession(cfg.Session.Path); err != nil {
				fmt.Printf("load session: %v\n", err)
			} else {
				fmt.Printf("session loaded: %d stamps\n", engine.History().Len())
			}
		case core.KeyEscape:
			window.Handle.SetShouldClose(true)
		}
	})

	window.SetScrollCallback(func(xoff, yoff float64) {
		camera.Zoom(float32(-yoff) * 0.5)
	})

	var lastX, lastY float64
	dragging := false

	lastTime := core.Time()
	for !window.ShouldClose() {
		now := core.Time()
		dt := float32(now - lastTime)
		lastTime = now

		window.PollEvents()

		moveCutter(window, cutter, cfg.Cutter.MoveSpeed, dt)

		// Mouse orbit
		if window.IsMouseButtonPressed(0) {
			x, y := window.GetCursorPos()
			if dragging {
				camera.Orbit(float32(x-lastX)*0.01, float32(y-lastY)*0.01)
			}
			lastX, lastY = x, y
			dragging = true
		} else {
			dragging = false
		}

		// Tick the clipping engine with this frame's overlap candidates.
		hits := overlapHits(s, cutter, engine.Config().LayerMask)
		engine.Step(cutterPose(cutter), hits)

		fbW, fbH := window.GetFramebufferSize()
		camera.UpdateAspectRatio(float32(fbW), float32(fbH))
		renderer.SetViewport(int32(fbW), int32(fbH))

		renderer.BeginFrame(s)
		viewProj := s.Camera.GetViewProjectionMatrix()
		for _, n := range s.GetVisibleNodes() {
			renderer.DrawNode(s, n, viewProj)
		}

		window.SwapBuffers()
	}
}

// buildScene creates the target geometry: a loaded glTF model when
// configured, otherwise a small arrangement of primitives.
func buildScene(cfg demoConfig) *scene.Scene {
	s := scene.NewScene()

	s.AddLight(&scene.Light{
		Type:      scene.LightTypeDirectional,
		Direction: math.Vec3{X: -0.4, Y: -1, Z: -0.3}.Normalize(),
		Color:     core.ColorWhite,
		Intensity: 1.0,
	})

	if cfg.Scene.GLTF != "" {
		roots, err := scene.LoadGLTF(cfg.Scene.GLTF)
		if err != nil {
			log.Fatalf("load model %q: %v", cfg.Scene.GLTF, err)
		}
		for _, r := range roots {
			s.AddNode(r)
		}
		return s
	}

	sphere := scene.NewNode("Sphere")
	sphere.Mesh = scene.CreateSphere(0.8, 32, 16)
	sphere.Mesh.Material = scene.NewMaterial("Bone", core.Color{R: 0.92, G: 0.89, B: 0.82, A: 1})
	sphere.SetPosition(math.Vec3{X: -1.2, Y: 0.8, Z: 0})
	s.AddNode(sphere)

	cube := scene.NewNode("Cube")
	cube.Mesh = scene.CreateCube(1.2)
	cube.Mesh.Material = scene.NewMaterial("Muscle", core.Color{R: 0.75, G: 0.25, B: 0.22, A: 1})
	cube.SetPosition(math.Vec3{X: 1.2, Y: 0.6, Z: 0})
	s.AddNode(cube)

	floor := scene.NewNode("Floor")
	floor.Mesh = scene.CreateQuad()
	floor.Mesh.Material = scene.NewMaterial("Floor", core.Color{R: 0.35, G: 0.38, B: 0.4, A: 1})
	floor.SetRotation(math.QuaternionFromAxisAngle(math.Vec3Right, -90*math.DegToRad))
	floor.SetScale(math.Vec3{X: 10, Y: 10, Z: 1})
	s.AddNode(floor)

	return s
}

// buildCutter creates the cutter node: a wedge preview mesh with a matching
// box collider. The wedge mesh is unlit so it reads as a tool, and its shader
// signature keeps it out of the engine's target filter.
func buildCutter(s *scene.Scene) *scene.Node {
	cutter := scene.NewNode("Cutter")
	cutter.Mesh = scene.CreateWedge()
	cutter.Mesh.Material = &scene.Material{
		Name:   "CutterPreview",
		Shader: "anatomy/tool",
		Albedo: core.Color{R: 1, G: 0.6, B: 0.1, A: 1},
		Unlit:  true,
	}
	cutter.Collider = &scene.BoxCollider{
		HalfExtents: math.Vec3{X: 0.5, Y: 0.5, Z: 0.5},
	}
	cutter.SetPosition(math.Vec3{X: 0, Y: 0.5, Z: 1.5})
	s.AddNode(cutter)
	return cutter
}

// cutterPose is the world-space pose handed to the clipping engine. The demo
// keeps the cutter at the scene root, so its local transform is its world
// pose.
func cutterPose(cutter *scene.Node) core.Transform {
	return cutter.Transform
}

// overlapHits runs the broad-phase box query around the cutter and adapts the
// result to the engine's candidate interface.
func overlapHits(s *scene.Scene, cutter *scene.Node, layerMask uint32) []carve.Collidable {
	nodes, err := s.OverlapNode(cutter, layerMask)
	if err != nil {
		log.Fatalf("overlap: %v", err)
	}
	hits := make([]carve.Collidable, len(nodes))
	for i, n := range nodes {
		hits[i] = n
	}
	return hits
}

func moveCutter(window *core.Window, cutter *scene.Node, speed, dt float32) {
	step := speed * dt
	if window.IsKeyPressed(core.KeyW) {
		cutter.Translate(math.Vec3{Z: -step})
	}
	if window.IsKeyPressed(core.KeyS) {
		cutter.Translate(math.Vec3{Z: step})
	}
	if window.IsKeyPressed(core.KeyA) {
		cutter.Translate(math.Vec3{X: -step})
	}
	if window.IsKeyPressed(core.KeyD) {
		cutter.Translate(math.Vec3{X: step})
	}
	if window.IsKeyPressed(core.KeyQ) {
		cutter.Translate(math.Vec3{Y: -step})
	}
	if window.IsKeyPressed(core.KeyE) {
		cutter.Translate(math.Vec3{Y: step})
	}
	if window.IsKeyPressed(core.KeyLeft) {
		cutter.Rotate(math.Vec3Up, 1.2*dt)
	}
	if window.IsKeyPressed(core.KeyRight) {
		cutter.Rotate(math.Vec3Up, -1.2*dt)
	}
	if window.IsKeyPressed(core.KeyUp) {
		cutter.Rotate(math.Vec3Right, 1.2*dt)
	}
	if window.IsKeyPressed(core.KeyDown) {
		cutter.Rotate(math.Vec3Right, -1.2*dt)
	}
}
