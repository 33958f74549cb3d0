package gui

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/orrery/internal/gui/layout"
	"github.com/san-kum/orrery/internal/orrery"
	"github.com/san-kum/orrery/internal/scene"
	"github.com/san-kum/orrery/internal/timescale"
)

var (
	ColBg      = rl.NewColor(0, 0, 0, 255)
	ColStar    = rl.NewColor(255, 255, 255, 255)
	ColRing    = rl.NewColor(80, 80, 90, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColHover   = rl.NewColor(255, 215, 0, 255)
	ColButton  = rl.NewColor(25, 25, 30, 220)
)

// Options are the window settings that do not come from the system.
type Options struct {
	Width, Height int32
	Title         string
	// Assets is the directory textures are resolved against.
	Assets     string
	SunRadius  float64
	SunTexture string
	SunColor   string
	Stars      []scene.Vec3
	Logger     *slog.Logger
}

type sphere struct {
	model    rl.Model
	radius   float32
	color    rl.Color
	textured bool
}

type App struct {
	sys   *orrery.System
	ctrl  *timescale.Controller
	scene *scene.Scene
	opts  Options

	orbit   layout.OrbitCamera
	camera  rl.Camera3D
	bar     []layout.Button
	sun     sphere
	planets []sphere
	stars   []rl.Vector3
	font    rl.Font
	logger  *slog.Logger

	running bool
	quit    bool
}

// Run opens the window and blocks until it is closed.
func Run(sys *orrery.System, ctrl *timescale.Controller, sc *scene.Scene, opts Options) error {
	if opts.Width == 0 {
		opts.Width, opts.Height = 1280, 720
	}
	if opts.Title == "" {
		opts.Title = "orrery"
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(opts.Width, opts.Height, opts.Title)
	defer rl.CloseWindow()
	if !rl.IsWindowReady() {
		return fmt.Errorf("gui: window could not be created")
	}
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)

	app := newApp(sys, ctrl, sc, opts)
	defer app.unload()
	app.RunLoop()
	return nil
}

func newApp(sys *orrery.System, ctrl *timescale.Controller, sc *scene.Scene, opts Options) *App {
	a := &App{
		sys:     sys,
		ctrl:    ctrl,
		scene:   sc,
		opts:    opts,
		orbit:   layout.NewOrbitCamera(),
		font:    rl.GetFontDefault(),
		logger:  opts.Logger,
		running: true,
		stars:   make([]rl.Vector3, len(opts.Stars)),
	}
	a.camera = rl.NewCamera3D(
		vec(a.orbit.Position()),
		rl.NewVector3(0, 0, 0),
		rl.NewVector3(0, 1, 0),
		75.0,
		rl.CameraPerspective,
	)
	for i, s := range opts.Stars {
		a.stars[i] = vec(s)
	}

	sunColor, err := scene.ParseColor(opts.SunColor)
	if err != nil {
		sunColor = scene.Color{R: 253, G: 184, B: 19}
	}
	a.sun = a.loadSphere("Sun", opts.SunRadius, opts.SunTexture, sunColor)

	a.planets = make([]sphere, len(sc.Bodies))
	for i, b := range sc.Bodies {
		a.planets[i] = a.loadSphere(b.Name, b.Radius, b.Texture, b.Color)
	}
	return a
}

// loadSphere builds a textured sphere, falling back to a flat colour when
// the texture is missing or fails to load.
func (a *App) loadSphere(name string, radius float64, texture string, col scene.Color) sphere {
	s := sphere{
		model:  rl.LoadModelFromMesh(rl.GenMeshSphere(float32(radius), 32, 32)),
		radius: float32(radius),
		color:  rl.NewColor(col.R, col.G, col.B, 255),
	}
	if texture == "" {
		return s
	}

	path := texture
	if !filepath.IsAbs(path) {
		path = filepath.Join(a.opts.Assets, texture)
	}
	if _, err := os.Stat(path); err != nil {
		a.logger.Warn("texture unavailable, using flat colour", "body", name, "path", path, "err", err)
		return s
	}
	tex := rl.LoadTexture(path)
	if tex.ID == 0 {
		a.logger.Warn("texture failed to load, using flat colour", "body", name, "path", path)
		return s
	}
	rl.SetMaterialTexture(s.model.Materials, rl.MapDiffuse, tex)
	s.textured = true
	return s
}

func (a *App) unload() {
	rl.UnloadModel(a.sun.model)
	for _, p := range a.planets {
		rl.UnloadModel(p.model)
	}
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() && !a.quit {
		a.Update()
		a.Draw()
	}
}

func (a *App) Update() {
	if rl.IsKeyPressed(rl.KeyQ) {
		a.quit = true
		return
	}

	keys := timescale.Keys()
	for i := range keys {
		if rl.IsKeyPressed(rl.KeyOne + int32(i)) {
			// keys come from the preset table
			_ = a.ctrl.Set(keys[i])
		}
	}
	if rl.IsKeyPressed(rl.KeyRight) {
		a.ctrl.Next()
	}
	if rl.IsKeyPressed(rl.KeyLeft) {
		a.ctrl.Prev()
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		a.running = !a.running
		if a.running {
			a.sys.Resync()
		}
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.sys.Reset()
	}

	a.bar = layout.Bar(timescale.Presets(), int(rl.GetScreenWidth()), int(rl.GetScreenHeight()))
	mouse := rl.GetMousePosition()
	onBar := false
	if key, ok := layout.HitTest(a.bar, mouse.X, mouse.Y); ok {
		onBar = true
		if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
			// buttons are built from timescale.Presets
			_ = a.ctrl.Set(key)
		}
	}

	if (!onBar && rl.IsMouseButtonDown(rl.MouseButtonLeft)) || rl.IsMouseButtonDown(rl.MouseButtonRight) {
		delta := rl.GetMouseDelta()
		a.orbit.Drag(float64(delta.X), float64(delta.Y))
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		a.orbit.Zoom(float64(wheel))
	}
	a.camera.Position = vec(a.orbit.Position())

	if a.running {
		a.sys.Frame()
	}

	a.hover(mouse, onBar)
}

// hover highlights the body under the cursor and clears every other one.
func (a *App) hover(mouse rl.Vector2, onBar bool) {
	if onBar {
		a.sys.ClearHighlight()
		return
	}
	ray := rl.GetMouseRay(mouse, a.camera)
	nodes := a.scene.Place(a.sys.Poses())
	i, ok := scene.Pick(unvec(ray.Position), unvec(ray.Direction), nodes)
	if !ok {
		a.sys.ClearHighlight()
		return
	}
	a.sys.Highlight(nodes[i].Name)
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	rl.BeginMode3D(a.camera)
	a.drawScene()
	rl.EndMode3D()

	a.DrawHUD()
	rl.EndDrawing()
}

func (a *App) drawScene() {
	for _, s := range a.stars {
		rl.DrawPoint3D(s, ColStar)
	}

	origin := rl.NewVector3(0, 0, 0)
	for _, b := range a.scene.Bodies {
		rl.DrawCircle3D(origin, float32(b.Distance), rl.NewVector3(1, 0, 0), 90, ColRing)
	}

	a.drawSphere(a.sun, origin, 0, false)

	nodes := a.scene.Place(a.sys.Poses())
	for i, n := range nodes {
		// a child of its orbit pivot, so its own spin adds to the pivot's turn
		deg := float32((n.OrbitAngle + n.SpinAngle) * rl.Rad2deg)
		a.drawSphere(a.planets[i], vec(n.Position), deg, n.Highlighted)
	}
}

func (a *App) drawSphere(s sphere, pos rl.Vector3, spinDeg float32, highlighted bool) {
	tint := s.color
	if s.textured {
		tint = rl.White
	}
	rl.DrawModelEx(s.model, pos, rl.NewVector3(0, 1, 0), spinDeg, rl.NewVector3(1, 1, 1), tint)
	if highlighted {
		rl.DrawSphereWires(pos, s.radius*1.25, 12, 12, ColHover)
	}
}

func (a *App) DrawHUD() {
	a.drawText("orrery", 30, 30, 24, ColSelect)

	preset := a.ctrl.Preset()
	a.drawText(fmt.Sprintf(":: %s", preset.Label), 130, 34, 16, ColText)
	a.drawText(timescale.FormatElapsed(a.sys.Elapsed()), 30, 62, 16, ColAccent)

	if name, ok := a.sys.Highlighted(); ok {
		a.drawText(name, 30, 90, 20, ColHover)
	}

	status := "RUNNING"
	col := ColSelect
	if !a.running {
		status = "PAUSED"
		col = ColTextDim
	}
	a.drawText(status, int(rl.GetScreenWidth())-130, 30, 16, col)

	for i, b := range a.bar {
		fill, text := ColButton, ColText
		if b.Key == preset.Key {
			fill, text = ColAccent, ColBg
		}
		rl.DrawRectangleRec(rl.NewRectangle(b.X, b.Y, b.W, b.H), fill)
		label := fmt.Sprintf("%d %s", i+1, b.Label)
		a.drawText(label, int(b.X)+6, int(b.Y)+8, 12, text)
	}

	a.drawText("[1-7] SCALE  [SPACE] PAUSE  [R] RESET  [Q] QUIT", 30, int(rl.GetScreenHeight())-80, 14, ColTextDim)
	a.drawText(fmt.Sprintf("%d FPS", int32(rl.GetFPS())), int(rl.GetScreenWidth())-90, int(rl.GetScreenHeight())-80, 14, ColTextDim)
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}

func vec(v scene.Vec3) rl.Vector3 {
	return rl.NewVector3(float32(v.X), float32(v.Y), float32(v.Z))
}

func unvec(v rl.Vector3) scene.Vec3 {
	return scene.Vec3{X: float64(v.X), Y: float64(v.Y), Z: float64(v.Z)}
}
