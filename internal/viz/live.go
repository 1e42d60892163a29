package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/nbodysim/internal/dynamo"
	"github.com/san-kum/nbodysim/internal/physics"
)

const (
	canvasWidth     = 60
	canvasHeight    = 24
	historyCapacity = 120
	frameInterval   = time.Second / 30
	zoomFactor      = 1.25
)

type TickMsg time.Time

// Model owns the universe being shown. Both steppers are built up front so
// toggling the mode never allocates a new worker pool mid-run.
type Model struct {
	u        *physics.Universe
	initial  *physics.Universe
	dt       float64
	steppers map[dynamo.Mode]dynamo.Stepper
	mode     dynamo.Mode

	canvas   *Canvas
	scale    float64
	running  bool
	tick     int
	lastTick time.Duration
	history  []float64
}

func NewModel(u *physics.Universe, mode dynamo.Mode, workers int, dt float64) (Model, error) {
	steppers := make(map[dynamo.Mode]dynamo.Stepper, 2)
	for _, m := range dynamo.Modes() {
		s, err := dynamo.NewStepper(m, workers)
		if err != nil {
			return Model{}, err
		}
		steppers[m] = s
	}
	if _, ok := steppers[mode]; !ok {
		return Model{}, fmt.Errorf("%w: %q", dynamo.ErrUnknownMode, mode)
	}

	return Model{
		u:        u,
		initial:  u.Clone(),
		dt:       dt,
		steppers: steppers,
		mode:     mode,
		canvas:   NewCanvas(canvasWidth, canvasHeight),
		scale:    fitScale(u),
		running:  true,
		history:  make([]float64, 0, historyCapacity),
	}, nil
}

// fitScale returns the half-extent in world units that keeps every body in
// view.
func fitScale(u *physics.Universe) float64 {
	extent := 0.0
	for _, b := range u.Bodies {
		extent = math.Max(extent, math.Max(math.Abs(b.Pos.X), math.Abs(b.Pos.Y)))
	}
	if extent == 0 || math.IsNaN(extent) || math.IsInf(extent, 0) {
		return 1
	}
	return extent * 1.1
}

func (m Model) Universe() *physics.Universe { return m.u }
func (m Model) Tick() int                   { return m.tick }
func (m Model) Mode() dynamo.Mode           { return m.mode }
func (m Model) Running() bool               { return m.running }
func (m Model) Scale() float64              { return m.scale }

func (m Model) Init() tea.Cmd {
	return nextFrame()
}

func nextFrame() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "n":
			if !m.running {
				m.step()
			}
		case "m":
			m.toggleMode()
		case "+", "=":
			m.scale /= zoomFactor
		case "-", "_":
			m.scale *= zoomFactor
		case "r":
			m.reset()
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, nextFrame()
	}
	return m, nil
}

func (m *Model) step() {
	start := time.Now()
	m.steppers[m.mode].Step(m.u, m.dt)
	m.lastTick = time.Since(start)
	m.tick++

	m.history = append(m.history, float64(m.lastTick.Microseconds())/1000)
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}
}

func (m *Model) toggleMode() {
	if m.mode == dynamo.ModeSerial {
		m.mode = dynamo.ModeParallel
	} else {
		m.mode = dynamo.ModeSerial
	}
	m.history = m.history[:0]
}

func (m *Model) reset() {
	m.u = m.initial.Clone()
	m.tick = 0
	m.lastTick = 0
	m.history = m.history[:0]
	m.scale = fitScale(m.u)
}

// project maps a world position onto canvas sub-pixels, y up.
func (m Model) project(p r3.Vec) (int, int) {
	w, h := m.canvas.PixelSize()
	cx, cy := float64(w)/2, float64(h)/2
	ppu := math.Min(cx, cy) / m.scale
	return int(math.Floor(cx + p.X*ppu)), int(math.Floor(cy - p.Y*ppu))
}

func (m Model) draw() {
	m.canvas.Clear()
	for i, b := range m.u.Bodies {
		if !physics.Finite(b.Pos) {
			continue
		}
		x, y := m.project(b.Pos)
		if i == 0 {
			m.canvas.Block(x, y, 1)
			continue
		}
		m.canvas.Set(x, y)
	}
}

func (m Model) View() string {
	m.draw()

	status := statusRunning.Render("RUNNING")
	if !m.running {
		status = statusPaused.Render("PAUSED")
	}

	var s strings.Builder
	s.WriteString(headerStyle.Render("N-BODY") + "\n")
	s.WriteString(status + "\n\n")
	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("tick", fmt.Sprintf("%d", m.tick))
	row("mode", m.mode.String())
	row("workers", fmt.Sprintf("%d", m.steppers[m.mode].Workers()))
	row("bodies", fmt.Sprintf("%d", m.u.Len()))
	row("tick time", m.lastTick.String())
	row("view", fmt.Sprintf("±%.0f", m.scale))

	if len(m.history) > 1 {
		graph := asciigraph.Plot(m.history,
			asciigraph.Height(6),
			asciigraph.Width(28),
			asciigraph.Caption("tick ms"))
		s.WriteString(graphStyle.Render(graph) + "\n")
	}

	s.WriteString(helpStyle.Render("space pause · n step · m mode · +/- zoom · r reset · q quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top,
		canvasStyle.Render(m.canvas.String()),
		statsStyle.Render(s.String()),
	)
}
