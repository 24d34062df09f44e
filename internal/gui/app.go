package gui

import (
	"fmt"

	"github.com/charmbracelet/log"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/sim"
)

var (
	ColBg      = rl.NewColor(0, 0, 0, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColWarn    = rl.NewColor(255, 0, 30, 255)
)

type App struct {
	Config  *config.Config
	Name    string
	Sim     *sim.Simulator
	Panel   *ControlPanel
	Running bool

	clock  frameClock
	sink   circleSink
	logger *log.Logger
}

func initWindow(w config.WindowConfig) {
	if w.MSAA {
		rl.SetConfigFlags(rl.FlagMsaa4xHint)
	}
	rl.InitWindow(int32(w.Width), int32(w.Height), w.Title)
	rl.SetTargetFPS(int32(w.FPS))
	rl.SetExitKey(0)
}

// NewApp builds the simulation for cfg. The window must already be open.
func NewApp(cfg *config.Config, name string, logger *log.Logger) (*App, error) {
	solver, err := cfg.NewSolver()
	if err != nil {
		return nil, err
	}

	panel := NewControlPanel(cfg)
	s := sim.New(solver, panel)
	if logger == nil {
		logger = log.Default()
	}
	s.SetLogger(logger)

	app := &App{
		Config:  cfg,
		Name:    name,
		Sim:     s,
		Panel:   panel,
		Running: true,
		logger:  logger,
	}
	s.SetSink(app.sink)
	return app, nil
}

// Run opens the window for cfg and blocks until it is closed.
func Run(cfg *config.Config, name string, logger *log.Logger) error {
	if logger == nil {
		logger = log.Default()
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	initWindow(cfg.Window)
	defer rl.CloseWindow()

	app, err := NewApp(cfg, name, logger)
	if err != nil {
		return err
	}

	logger.Info("window open", "preset", name, "bodies", app.Sim.Solver().Len(), "size", fmt.Sprintf("%dx%d", cfg.Window.Width, cfg.Window.Height))
	app.RunLoop()
	logger.Info("window closed", "frames", app.Sim.FrameIndex(), "t", app.Sim.Time())
	return nil
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		a.Update()
		a.Draw()
	}
}

// Update handles keyboard and mouse shortcuts that live outside the panel.
func (a *App) Update() {
	if rl.IsKeyPressed(rl.KeySpace) {
		a.Running = !a.Running
	}
	if rl.IsKeyPressed(rl.KeyC) {
		a.Sim.Solver().ClearTrails()
	}
	if rl.IsMouseButtonPressed(rl.MouseButtonRight) {
		m := rl.GetMousePosition()
		a.Panel.SetSpawnPosition(float64(m.X), float64(m.Y))
	}
}

// Draw renders one frame. The simulation steps while drawing, so bodies are
// painted by the solver itself through the sink; the panel is drawn last and
// its values take effect on the next frame.
func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	dt := a.clock.Tick()
	if a.Running {
		a.Sim.Step(dt)
	} else {
		a.Sim.Solver().Draw(a.sink)
	}

	a.Panel.Draw(a.Config.Window.Width)
	a.DrawHUD()

	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	solver := a.Sim.Solver()

	rl.DrawText(fmt.Sprintf("%d FPS", rl.GetFPS()), 10, 10, 20, ColText)
	rl.DrawText(fmt.Sprintf("bodies %d", solver.Len()), 10, 34, 16, ColText)
	rl.DrawText(fmt.Sprintf("t %.2f  x%d", a.Sim.Time(), solver.Timestep()), 10, 54, 16, ColText)

	dir, col := "FORWARD", ColSelect
	if solver.Direction() < 0 {
		dir, col = "REVERSED", ColWarn
	}
	if !a.Running {
		dir, col = "PAUSED", ColTextDim
	}
	rl.DrawText(dir, 10, 74, 16, col)

	rl.DrawText("[SPACE] PAUSE  [C] CLEAR TRAILS  [RMB] AIM SPAWN", 10, int32(a.Config.Window.Height)-24, 14, ColTextDim)
}
