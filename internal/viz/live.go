package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/physim/internal/dynamo"
	"github.com/san-kum/physim/internal/physics"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 300
	maxSpeed        = 64
)

type TickMsg time.Time

// Model renders a simulator and drives it from the frame clock.
type Model struct {
	sim      *dynamo.Simulator
	name     string
	canvas   *Canvas
	proj     Projection
	frame    time.Duration
	speed    int
	running  bool
	showHelp bool
	theme    Theme

	energyHistory []float64
	contacts      int
	wallHits      int
	last          dynamo.StepStats
}

// NewModel wraps sim. fps sets the redraw rate; zero uses the simulator's
// configured FPS.
func NewModel(sim *dynamo.Simulator, name string, fps float64) Model {
	if fps <= 0 {
		fps = sim.Config().FPS
	}
	if fps <= 0 {
		fps = 60
	}
	cfg := sim.Config()
	canvas := NewCanvas(width, height)
	m := Model{
		sim:           sim,
		name:          name,
		canvas:        canvas,
		proj:          NewProjection(canvas, cfg.Width, cfg.Height),
		frame:         time.Duration(float64(time.Second) / fps),
		speed:         1,
		running:       true,
		theme:         Themes[0],
		energyHistory: make([]float64, 0, historyCapacity),
	}
	m.record()
	return m
}

// WithTheme selects the color theme by name.
func (m Model) WithTheme(name string) Model {
	m.theme = GetTheme(name)
	return m
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.frame, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "n":
			if !m.running {
				m.step()
			}
		case "+", "=":
			m.speed = min(m.speed*2, maxSpeed)
		case "-", "_":
			m.speed = max(m.speed/2, 1)
		case "t":
			m.theme = NextTheme(m.theme)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			for i := 0; i < m.speed; i++ {
				m.step()
			}
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) step() {
	m.last = m.sim.Advance()
	m.contacts += m.last.Contacts
	m.wallHits += m.last.WallHits
	m.record()
}

func (m *Model) record() {
	m.energyHistory = append(m.energyHistory, physics.TotalKineticEnergy(m.sim.Bodies()))
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}
}

// reset rewinds the simulator and clears the counters.
func (m *Model) reset() {
	m.sim.Reset()
	m.energyHistory = m.energyHistory[:0]
	m.contacts, m.wallHits = 0, 0
	m.last = dynamo.StepStats{}
	m.record()
}

// draw paints walls, borders and bodies onto the canvas.
func (m *Model) draw() {
	m.canvas.Clear()
	for _, w := range m.sim.Borders() {
		m.drawWall(w)
	}
	for _, w := range m.sim.Walls() {
		m.drawWall(w)
	}
	for _, b := range m.sim.Bodies() {
		x, y := m.proj.Point(b.Pos.X, b.Pos.Y)
		m.canvas.DrawCircle(x, y, m.proj.Length(b.Radius))
	}
}

func (m *Model) drawWall(w physics.Wall) {
	lo, hi := w.Bounds()
	x0, y0 := m.proj.Point(lo.X, lo.Y)
	x1, y1 := m.proj.Point(hi.X, hi.Y)
	m.canvas.FillRect(x0, y0, x1, y1)
}

// View renders the TUI interface.
func (m Model) View() string {
	st := m.theme.styles()
	m.draw()
	canvasView := st.canvas.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(st.header.Render(strings.ToUpper(m.name)) + "\n")
	if m.running {
		s.WriteString(fmt.Sprintf("RUNNING x%d\n\n", m.speed))
	} else {
		s.WriteString(st.paused.Render("PAUSED") + "\n\n")
	}

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Kinetic energy"))
		s.WriteString(st.graph.Render(chart) + "\n\n")
	}

	p := physics.TotalMomentum(m.sim.Bodies())
	rows := [][2]string{
		{"Time", fmt.Sprintf("%.2fs", m.sim.Time())},
		{"Step", fmt.Sprintf("%d", m.sim.Steps())},
		{"Bodies", fmt.Sprintf("%d", m.sim.Len())},
		{"Energy", fmt.Sprintf("%.4g", m.energyHistory[len(m.energyHistory)-1])},
		{"Momentum", fmt.Sprintf("(%.3g, %.3g)", p.X, p.Y)},
		{"Contacts", fmt.Sprintf("%d (+%d)", m.contacts, m.last.Contacts)},
		{"Wall hits", fmt.Sprintf("%d (+%d)", m.wallHits, m.last.WallHits)},
		{"Pair tests", fmt.Sprintf("%d", m.last.Tested)},
	}
	for _, r := range rows {
		s.WriteString(st.label.Render(r[0]) + st.value.Render(r[1]) + "\n")
	}

	s.WriteString(st.help.Render("SP:Pause R:Reset N:Step Q:Quit\n+/-:Speed T:Theme ?:Help"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.stats.Render(s.String()))
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
║  R        - Reset simulation         ║
║  N        - Single step when paused  ║
║  + / -    - Steps per frame          ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`

// Run starts the program on the terminal and blocks until the user quits.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
