package gui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/nbody"
	"github.com/san-kum/gravsim/internal/scene"
)

// Theme Colors
var (
	ColBg      = rl.NewColor(0, 0, 0, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColError   = rl.NewColor(239, 71, 111, 255)
)

const (
	fontPath     = "/usr/share/fonts/liberation/LiberationMono-Regular.ttf"
	maxTelemetry = 200
)

// App is the raylib window onto a scene. The frame loop ticks the scene
// once per frame, so the simulation runs at the window's frame rate.
type App struct {
	Scene     *scene.Scene
	Base      *config.Config
	Camera    rl.Camera3D
	Zoom      float32
	Running   bool
	InMenu    bool
	Presets   []string
	MenuIndex int
	Selected  int // slider row: 0 is the body count, i+1 is body i
	Telemetry []float64
	Err       error
	Font      rl.Font
	logger    *log.Logger
}

func initWindow(cfg *config.Config) {
	rl.InitWindow(int32(cfg.Render.Width), int32(cfg.Render.Height), "gravsim")
	rl.SetTargetFPS(int32(cfg.Render.FPS))
	rl.SetExitKey(0)
}

// loadFont loads Liberation Mono when it is installed and falls back to
// the raylib default font.
func loadFont() rl.Font {
	if _, err := os.Stat(fontPath); err != nil {
		return rl.GetFontDefault()
	}
	font := rl.LoadFontEx(fontPath, 32, nil, 0)
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

// NewApp creates the window state. With interactive set the app opens on
// the preset menu; otherwise it starts cfg straight away.
func NewApp(cfg *config.Config, interactive bool, logger *log.Logger) (*App, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	app := &App{
		Base:    cfg,
		Zoom:    1,
		InMenu:  interactive,
		Presets: append([]string{"custom"}, config.ListPresets()...),
		Font:    loadFont(),
		logger:  logger,
	}
	if !interactive {
		if err := app.load(cfg); err != nil {
			return nil, err
		}
	}
	return app, nil
}

// Run opens a window on cfg and blocks until it is closed.
func Run(cfg *config.Config, interactive bool, logger *log.Logger) error {
	initWindow(cfg)
	defer rl.CloseWindow()
	app, err := NewApp(cfg, interactive, logger)
	if err != nil {
		return err
	}
	app.RunLoop()
	return nil
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if !a.Update() {
			return
		}
		a.Draw()
	}
}

func (a *App) load(cfg *config.Config) error {
	sc, err := scene.New(cfg, a.logger)
	if err != nil {
		return err
	}
	a.Scene = sc
	a.Camera = rl.NewCamera3D(
		rl.NewVector3(0, 0, float32(cfg.Camera.Distance)),
		rl.NewVector3(0, 0, 0),
		rl.NewVector3(0, 1, 0),
		float32(cfg.Camera.FOV),
		rl.CameraPerspective,
	)
	a.Running = true
	a.InMenu = false
	a.Selected = 0
	a.Telemetry = a.Telemetry[:0]
	a.Err = nil
	a.syncCamera()
	return nil
}

func (a *App) presetConfig(name string) *config.Config {
	if name == "custom" {
		return a.Base.Clone()
	}
	cfg := config.GetPreset(name)
	cfg.Render = a.Base.Render
	cfg.Simulation.Seed = a.Base.Simulation.Seed
	return cfg
}

// Update handles input and ticks the scene. It returns false to quit.
func (a *App) Update() bool {
	if rl.IsKeyPressed(rl.KeyQ) {
		return false
	}

	if a.InMenu {
		a.updateMenu()
		return true
	}

	if rl.IsKeyPressed(rl.KeyEscape) {
		a.openMenu()
		return true
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		a.Running = !a.Running
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.reset(a.Scene.State().Len())
	}

	if rl.IsKeyPressed(rl.KeyDown) || rl.IsKeyPressed(rl.KeyJ) || rl.IsKeyPressed(rl.KeyTab) {
		a.moveRow(1)
	}
	if rl.IsKeyPressed(rl.KeyUp) || rl.IsKeyPressed(rl.KeyK) {
		a.moveRow(-1)
	}

	step := config.LevelStep
	if rl.IsKeyDown(rl.KeyLeftShift) {
		step = 1
	}
	if rl.IsKeyPressed(rl.KeyRight) || rl.IsKeyPressed(rl.KeyL) || rl.IsKeyPressedRepeat(rl.KeyRight) {
		a.adjust(step)
	}
	if rl.IsKeyPressed(rl.KeyLeft) || rl.IsKeyPressed(rl.KeyH) || rl.IsKeyPressedRepeat(rl.KeyLeft) {
		a.adjust(-step)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		a.Zoom *= 1 - 0.1*wheel
		if a.Zoom < 0.1 {
			a.Zoom = 0.1
		}
		if a.Zoom > 10 {
			a.Zoom = 10
		}
	}

	if a.Running && !a.Scene.Loop().Frozen() {
		if err := a.Scene.Tick(); err != nil {
			a.Err = err
		} else {
			a.Telemetry = append(a.Telemetry, nbody.TotalEnergy(a.Scene.State()))
			if len(a.Telemetry) > maxTelemetry {
				a.Telemetry = a.Telemetry[1:]
			}
		}
	}
	a.syncCamera()
	return true
}

func (a *App) updateMenu() {
	if rl.IsKeyPressed(rl.KeyDown) || rl.IsKeyPressed(rl.KeyJ) {
		a.moveMenu(1)
	}
	if rl.IsKeyPressed(rl.KeyUp) || rl.IsKeyPressed(rl.KeyK) {
		a.moveMenu(-1)
	}
	if rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeySpace) {
		a.choosePreset()
	}
}

func (a *App) openMenu() {
	a.InMenu = true
	a.Running = false
}

func (a *App) moveMenu(delta int) {
	n := len(a.Presets)
	a.MenuIndex = ((a.MenuIndex+delta)%n + n) % n
}

func (a *App) moveRow(delta int) {
	rows := len(a.Scene.Sliders()) + 1
	a.Selected = ((a.Selected+delta)%rows + rows) % rows
}

func (a *App) choosePreset() {
	name := a.Presets[a.MenuIndex]
	if err := a.load(a.presetConfig(name)); err != nil {
		a.Err = err
		a.logger.Error("load preset", "preset", name, "err", err)
	}
}

// adjust moves the selected row: the body count by one, a mass slider by
// delta levels.
func (a *App) adjust(delta float64) {
	if a.Selected == 0 {
		n := a.Scene.State().Len()
		if delta > 0 {
			n++
		} else {
			n--
		}
		if n >= 1 && n <= config.MaxBodies {
			a.reset(n)
		}
		return
	}
	i := a.Selected - 1
	sliders := a.Scene.Sliders()
	if i >= len(sliders) {
		return
	}
	if err := a.Scene.SetLevel(i, sliders[i].Level+delta); err != nil {
		a.Err = err
	}
}

func (a *App) reset(n int) {
	if err := a.Scene.Reset(n); err != nil {
		a.Err = err
		return
	}
	a.Err = nil
	a.Telemetry = a.Telemetry[:0]
	if a.Selected > n {
		a.Selected = n
	}
}

// syncCamera follows the scene's orbit, scaled by the wheel zoom.
func (a *App) syncCamera() {
	eye := a.Scene.Camera().Eye().Mul(float64(a.Zoom))
	a.Camera.Position = vec3(eye)
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	if a.InMenu {
		a.drawMenu()
	} else {
		a.drawSim()
		a.DrawHUD()
	}

	rl.EndDrawing()
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}

func (a *App) DrawHUD() {
	s := a.Scene.State()
	a.drawText("gravsim", 30, 30, 24, ColSelect)
	a.drawText(fmt.Sprintf(":: %d bodies  t=%.3f  tick %d", s.Len(), s.Time(), s.Tick), 150, 34, 16, ColText)

	status, col := "RUNNING", ColSelect
	switch {
	case a.Scene.Loop().Frozen():
		status, col = "FROZEN", ColError
	case !a.Running:
		status, col = "PAUSED", ColTextDim
	}
	w := int(rl.GetScreenWidth())
	h := int(rl.GetScreenHeight())
	a.drawText(status, w-130, 30, 16, col)
	if a.Err != nil {
		a.drawText(a.Err.Error(), 30, 60, 14, ColError)
	}

	a.drawSliders(30, 100)
	a.DrawTelemetry(30, h-120)

	a.drawText("[SPACE] PAUSE  [R] RESPAWN  [ARROWS] SLIDERS  [WHEEL] ZOOM  [ESC] MENU  [Q] QUIT", w-760, h-40, 14, ColTextDim)
	a.drawText(fmt.Sprintf("%d FPS", int32(rl.GetFPS())), 30, h-40, 14, ColTextDim)
}

func (a *App) drawMenu() {
	a.drawText("gravsim", 50, 50, 40, ColSelect)
	a.drawText("Select Preset", 50, 100, 16, ColTextDim)

	y := 160
	for i, name := range a.Presets {
		if i == a.MenuIndex {
			a.drawText(fmt.Sprintf("> %s", name), 50, y, 20, ColSelect)
		} else {
			a.drawText(fmt.Sprintf("  %s", name), 50, y, 20, ColText)
		}
		y += 28
	}
	if a.Err != nil {
		a.drawText(a.Err.Error(), 50, y+20, 14, ColError)
	}

	a.drawText("ARROWS: NAVIGATE  ENTER: SELECT  Q: QUIT", int(rl.GetScreenWidth())-430, int(rl.GetScreenHeight())-40, 14, ColTextDim)
}
