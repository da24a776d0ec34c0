package main

import (
	"flag"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/Carmen-Shannon/oxy-arcade/arcade/cabinet"
	"github.com/Carmen-Shannon/oxy-arcade/arcade/media"
	"github.com/Carmen-Shannon/oxy-arcade/common"
	"github.com/Carmen-Shannon/oxy-arcade/engine"
	"github.com/Carmen-Shannon/oxy-arcade/engine/camera"
	"github.com/Carmen-Shannon/oxy-arcade/engine/loader"
	"github.com/Carmen-Shannon/oxy-arcade/engine/model"
	"github.com/Carmen-Shannon/oxy-arcade/engine/renderer"
	"github.com/Carmen-Shannon/oxy-arcade/engine/scene"
	"github.com/Carmen-Shannon/oxy-arcade/engine/window"
	"github.com/Carmen-Shannon/oxy-arcade/logging"
	"github.com/Carmen-Shannon/oxy-arcade/screen"
)

// wheelLineDelta scales one scroll notch to the pixel delta embedded games
// expect from a browser wheel event.
const wheelLineDelta = 100.0

func main() {
	var (
		modelPath = flag.String("model", "assets/arcade_cabinet.glb", "path to the cabinet model")
		env       = flag.String("env", "development", "logging environment (development or production)")
		logLevel  = flag.String("log-level", "info", "log level (debug, info, warn, error)")
		width     = flag.Int("width", 1600, "initial window width")
		height    = flag.Int("height", 900, "initial window height")
		profile   = flag.Bool("profile", false, "log frame and memory stats")
	)
	flag.Parse()

	logger := logging.New(logging.Config{
		Environment: *env,
		LogLevel:    *logLevel,
		Component:   "arcade",
	})
	defer func() { _ = logger.Sync() }()

	w := window.NewWindow(
		window.WithTitle("Oxy Arcade"),
		window.WithWidth(*width),
		window.WithHeight(*height),
	)

	r, err := renderer.NewRenderer(
		renderer.BackendTypeWGPU,
		w,
		renderer.WithPresentMode(renderer.PresentModeVSync),
	)
	if err != nil {
		logger.Fatal("renderer init failed", zap.Error(err))
	}

	cam := camera.NewCamera(
		camera.WithSnapshot(camera.StartSnapshot()),
		camera.WithAspect(float32(w.Width())/float32(w.Height())),
	)
	sc := scene.NewScene("arcade", cam, r, scene.WithActive(true))

	// Load the cabinet before the engine starts; the load worker reports
	// progress while the window is already up.
	loaded := make(chan *model.Model, 1)
	ldr := loader.NewLoader()
	ldr.LoadAsync(*modelPath,
		func(p float64) {
			logger.Debug("cabinet model loading", zap.Float64("progress", p))
		},
		func(m *model.Model) { loaded <- m },
		func(err error) {
			logger.Fatal("cabinet model load failed", zap.String("path", *modelPath), zap.Error(err))
		},
	)
	cabinetModel := <-loaded

	screenMesh := cabinetModel.FindMesh("arcade_screen_surface", "screen_surface", "screen")
	if screenMesh == nil {
		logger.Fatal("cabinet model has no screen mesh", zap.String("path", *modelPath))
	}

	surface := screen.NewSurfaceForAspect(meshAspect(screenMesh))
	binding := renderer.ScreenBinding{
		MeshName: screenMesh.Name,
		Width:    uint32(surface.Width()),
		Height:   uint32(surface.Height()),
		FlipU:    true,
	}
	if err := sc.LoadModel(cabinetModel, binding); err != nil {
		logger.Fatal("cabinet model upload failed", zap.Error(err))
	}

	ctrl := cabinet.NewController(surface, sc, media.NewSettings(), cabinet.WithLogger(logger))
	sc.SetScreenSource(ctrl.ScreenFrame)

	eng := engine.NewEngine(
		engine.WithWindow(w),
		engine.WithLogger(logger),
		engine.WithTickRate(60),
		engine.WithScene(0, sc),
		engine.WithProfiling(*profile),
	)
	eng.SetTickCallback(func(float32) {
		ctrl.Tick(time.Now())
	})

	// Pointer events arrive on the message loop thread, so the cursor
	// position tracked for wheel events needs no locking.
	var cursorX, cursorY float64
	w.SetMouseMoveCallback(func(x, y float64) {
		cursorX, cursorY = x, y
		ctrl.PointerMove(x, y, w.Width(), w.Height())
	})
	w.SetMouseDownCallback(func(button int, x, y float64) {
		ctrl.PointerDown(x, y, button, w.Width(), w.Height())
	})
	w.SetMouseUpCallback(func(button int, x, y float64) {
		ctrl.PointerUp(x, y, button, w.Width(), w.Height())
	})
	w.SetScrollCallback(func(delta float32) {
		ctrl.Wheel(cursorX, cursorY, 0, -float64(delta)*wheelLineDelta, w.Width(), w.Height())
	})
	w.SetKeyDownCallback(func(keyCode uint32) {
		switch keyCode {
		case common.KeyEsc:
			ctrl.HandleEscape()
		case common.KeySpace:
			ctrl.ToggleCameraZoom()
		case common.KeyM:
			ctrl.ToggleMute()
		case common.KeyI:
			ctrl.SetGameInputEnabled(!ctrl.GameInputEnabled())
		}
	})

	ctrl.PlayIntro()
	logger.Info("arcade running",
		zap.String("model", *modelPath),
		zap.Int("surface_width", surface.Width()),
		zap.Int("surface_height", surface.Height()),
	)
	eng.Run()
}

// meshAspect estimates a quad mesh's width/height ratio from its world-space
// bounding box, taking the two largest extents so the mesh's facing axis
// drops out.
func meshAspect(m *model.Mesh) float64 {
	positions := m.WorldPositions()
	if len(positions) == 0 {
		return 4.0 / 3.0
	}
	min := positions[0]
	max := positions[0]
	for _, p := range positions[1:] {
		min.X = float32(math.Min(float64(min.X), float64(p.X)))
		min.Y = float32(math.Min(float64(min.Y), float64(p.Y)))
		min.Z = float32(math.Min(float64(min.Z), float64(p.Z)))
		max.X = float32(math.Max(float64(max.X), float64(p.X)))
		max.Y = float32(math.Max(float64(max.Y), float64(p.Y)))
		max.Z = float32(math.Max(float64(max.Z), float64(p.Z)))
	}
	extents := []float64{
		float64(max.X - min.X),
		float64(max.Y - min.Y),
		float64(max.Z - min.Z),
	}
	// Largest two extents, descending.
	a, b := extents[0], extents[1]
	if b > a {
		a, b = b, a
	}
	if extents[2] > a {
		a, b = extents[2], a
	} else if extents[2] > b {
		b = extents[2]
	}
	if b <= 0 {
		return 4.0 / 3.0
	}
	return a / b
}
