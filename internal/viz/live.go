package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/sim"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	nudgeStep       = 10.0
)

type TickMsg time.Time

// Options tune the live view.
type Options struct {
	// Theme names the starting theme; empty picks the first one.
	Theme string
	// Snapshot saves the canvas and returns where it went. Nil disables the s key.
	Snapshot func(c *Canvas) (string, error)
}

// history keeps recent total energy and top body speed. It is attached to
// the simulator as an observer, so it only sees frames that were stepped.
type history struct {
	gravity float64
	energy  []float64
	speed   []float64
}

func newHistory(gravity float64) *history {
	return &history{
		gravity: gravity,
		energy:  make([]float64, 0, historyCapacity),
		speed:   make([]float64, 0, historyCapacity),
	}
}

func (h *history) OnFrame(f dynamo.Frame) {
	h.energy = appendCapped(h.energy, physics.Energy(f.Bodies, h.gravity))

	top := 0.0
	for _, b := range f.Bodies {
		top = max(top, b.Velocity.Magnitude())
	}
	h.speed = appendCapped(h.speed, top)
}

// Model is the live terminal view: it steps the simulation on every tick and
// draws the solver into a braille canvas.
type Model struct {
	sim      *sim.Simulator
	panel    *Panel
	canvas   *Canvas
	sink     *Sink
	dt       float64
	name     string
	theme    Theme
	running  bool
	showHelp bool
	status   string
	snapshot func(*Canvas) (string, error)

	history *history
	last    dynamo.Frame
}

// NewModel builds the simulation described by cfg.
func NewModel(cfg *config.Config, name string, opts Options, logger *log.Logger) (Model, error) {
	theme := Themes[0]
	if opts.Theme != "" {
		t, err := LookupTheme(opts.Theme)
		if err != nil {
			return Model{}, err
		}
		theme = t
	}

	solver, err := cfg.NewSolver()
	if err != nil {
		return Model{}, err
	}

	panel := NewPanel(cfg.SpawnInput())
	s := sim.New(solver, panel)
	if logger != nil {
		s.SetLogger(logger)
	}
	hist := newHistory(cfg.Gravity)
	s.AddObserver(hist)

	canvas := NewCanvas(width, height)
	sink := NewSink(canvas, FitViewport(canvas, float64(cfg.Window.Width), float64(cfg.Window.Height)))
	s.SetSink(sink)

	fps := cfg.Window.FPS
	if fps <= 0 {
		fps = config.DefaultFPS
	}

	return Model{
		sim:      s,
		panel:    panel,
		canvas:   canvas,
		sink:     sink,
		dt:       1 / float64(fps),
		name:     name,
		theme:    theme,
		running:  true,
		snapshot: opts.Snapshot,
		history:  hist,
		last:     dynamo.Frame{Direction: solver.Direction(), Bodies: solver.Bodies()},
	}, nil
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Duration(m.dt*float64(time.Second)), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles key presses and steps the simulation on ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.panel.PressReverse()
		case "t":
			m.panel.ToggleTrails()
		case "+", "=":
			m.panel.AdjustTimestep(1)
		case "-", "_":
			m.panel.AdjustTimestep(-1)
		case "n", "enter":
			m.panel.PressCreate()
		case "up", "k":
			m.panel.Nudge(dynamo.V(0, -nudgeStep))
		case "down", "j":
			m.panel.Nudge(dynamo.V(0, nudgeStep))
		case "left", "h":
			m.panel.Nudge(dynamo.V(-nudgeStep, 0))
		case "right", "l":
			m.panel.Nudge(dynamo.V(nudgeStep, 0))
		case "x":
			m.sim.Solver().ClearTrails()
		case "s":
			m.saveSnapshot()
		case "c":
			m.theme = NextTheme(m.theme)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		m.advance()
		return m, m.tick()
	}
	return m, nil
}

// advance runs one frame, or just redraws when paused.
func (m *Model) advance() {
	m.canvas.Clear()
	if !m.running {
		m.sim.Solver().Draw(m.sink)
		return
	}

	m.last = m.sim.Step(m.dt)
}

func (m *Model) saveSnapshot() {
	if m.snapshot == nil {
		m.status = "snapshots disabled"
		return
	}
	path, err := m.snapshot(m.canvas)
	if err != nil {
		m.status = "snapshot failed: " + err.Error()
		return
	}
	m.status = "saved " + path
}

func appendCapped(h []float64, v float64) []float64 {
	h = append(h, v)
	if len(h) > historyCapacity {
		h = h[1:]
	}
	return h
}

// View renders the canvas and the stats panel side by side.
func (m Model) View() string {
	canvasView := canvasStyle.Render(m.canvas.Render())
	solver := m.sim.Solver()
	in := m.panel.Input()

	var s strings.Builder
	s.WriteString(GradientText(strings.ToUpper("gravsim :: "+m.name), m.theme.Primary, m.theme.Accent) + "\n\n")

	switch {
	case !m.running:
		s.WriteString(StatusPaused.Render("PAUSED"))
	case solver.Direction() < 0:
		s.WriteString(StatusReversed.Render("REVERSED"))
	default:
		s.WriteString(StatusRunning.Render("RUNNING"))
	}
	s.WriteString("\n\n")

	if energy := m.history.energy; len(energy) > 1 && finite(energy) {
		chart := asciigraph.Plot(energy, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", m.sim.Time()))
	row("Frame", fmt.Sprintf("%d", m.sim.FrameIndex()))
	row("Bodies", fmt.Sprintf("%d", solver.Len()))
	row("Timestep", fmt.Sprintf("%s %d", ProgressBar(float64(solver.Timestep())/physics.MaxTimestep, 10), solver.Timestep()))
	row("Trails", onOff(solver.DrawTrails()))
	row("Speed", SparklineChart(m.history.speed, 20))
	if !m.last.Valid() {
		row("State", StatusReversed.Render("NaN/Inf"))
	}

	s.WriteString("\n" + Separator(30, m.theme) + "\n")
	row("Spawn at", fmt.Sprintf("(%.0f, %.0f)", in.SpawnPosition.X, in.SpawnPosition.Y))
	row("Spawn vel", fmt.Sprintf("(%.1f, %.1f)", in.SpawnVelocity.X, in.SpawnVelocity.Y))
	row("Spawn mass", fmt.Sprintf("%.1f r=%.0f", in.SpawnMass, in.SpawnRadius))

	if m.status != "" {
		s.WriteString("\n" + valueStyle.Render(m.status) + "\n")
	}

	s.WriteString("\n" + KeyHint.Render("SP:Pause R:Reverse T:Trails X:Clear\n+/-:Timestep N:Spawn ←↑↓→:Aim\nS:Snapshot C:Theme ?:Help Q:Quit"))
	statsView := statsStyle(m.theme).Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)

	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  R        - Reverse time             ║
║  T        - Toggle trails            ║
║  + / -    - Timestep multiplier      ║
║  N/Enter  - Spawn body at cursor     ║
║  Arrows   - Move spawn position      ║
║  X        - Clear trails             ║
║  S        - Save canvas snapshot     ║
║  C        - Cycle color themes       ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func finite(values []float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Run opens the live view full screen and blocks until the user quits.
func Run(cfg *config.Config, name string, opts Options, logger *log.Logger) error {
	m, err := NewModel(cfg, name, opts, logger)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
