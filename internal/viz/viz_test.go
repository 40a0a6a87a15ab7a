package viz

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/physim/internal/dynamo"
	"github.com/san-kum/physim/internal/physics"
)

func TestCanvasSetUnset(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	if c.Grid[0][0] != blank|0x1 || c.Grid[0][1] != blank|0x80 {
		t.Errorf("unexpected cells %U %U", c.Grid[0][0], c.Grid[0][1])
	}
	if !c.IsSet(3, 3) || c.IsSet(2, 3) {
		t.Error("IsSet disagrees with Set")
	}

	c.Unset(0, 0)
	c.Unset(0, 0)
	if c.Grid[0][0] != blank {
		t.Errorf("unset left %U", c.Grid[0][0])
	}

	c.Set(-1, 0)
	c.Set(4, 0)
	c.Set(0, 4)
	if got := c.String(); got != "⠀⢀\n" {
		t.Errorf("out-of-range dots drawn: %q", got)
	}
}

func TestDrawCircle(t *testing.T) {
	c := NewCanvas(10, 5)
	c.DrawCircle(10, 10, 4)
	for _, p := range [][2]int{{14, 10}, {6, 10}, {10, 14}, {10, 6}} {
		if !c.IsSet(p[0], p[1]) {
			t.Errorf("circle misses %v", p)
		}
	}
	if c.IsSet(10, 10) {
		t.Error("circle outline filled its center")
	}

	c.Clear()
	c.DrawCircle(3, 3, 0)
	if !c.IsSet(3, 3) {
		t.Error("tiny circle not drawn as a dot")
	}
}

func TestFillRect(t *testing.T) {
	c := NewCanvas(4, 2)
	c.FillRect(2, 3, -1, 0)
	count := 0
	w, h := c.PixelSize()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if c.IsSet(x, y) {
				count++
			}
		}
	}
	if count != 12 {
		t.Errorf("filled %d dots, want 12", count)
	}
}

func TestProjection(t *testing.T) {
	c := NewCanvas(80, 24)
	p := NewProjection(c, 600, 600)
	// the arena is square, so the short side of the canvas sets the scale
	if x, y := p.Point(600, 600); x != y || y < 95 || y > 96 {
		t.Errorf("corner maps to (%d, %d), want the bottom row", x, y)
	}
	if l := p.Length(10); l != 2 {
		t.Errorf("length = %d, want 2", l)
	}
}

func newTestSim(t *testing.T) *dynamo.Simulator {
	t.Helper()
	bodies := []physics.Body{
		{Pos: physics.V(200, 300), Vel: physics.V(100, 0), Mass: 2, Radius: 20},
		{Pos: physics.V(400, 300), Vel: physics.V(-100, 0), Mass: 1, Radius: 10},
	}
	s, err := dynamo.New(bodies, nil, dynamo.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func press(m Model, key string) (Model, tea.Cmd) {
	var msg tea.KeyMsg
	switch key {
	case " ":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func tick(m Model) Model {
	next, _ := m.Update(TickMsg(time.Now()))
	return next.(Model)
}

func TestModel_TickAdvances(t *testing.T) {
	m := NewModel(newTestSim(t), "collision", 0)
	if m.frame != time.Second/60 {
		t.Errorf("frame = %v, want 1/60s", m.frame)
	}

	m = tick(m)
	if m.sim.Steps() != 1 {
		t.Fatalf("steps = %d after one tick", m.sim.Steps())
	}

	m, _ = press(m, "+")
	m, _ = press(m, "+")
	m = tick(m)
	if m.sim.Steps() != 5 {
		t.Errorf("steps = %d, want 5 at speed 4", m.sim.Steps())
	}
	if len(m.energyHistory) != 6 {
		t.Errorf("energy history has %d samples, want 6", len(m.energyHistory))
	}
}

func TestModel_PauseStepReset(t *testing.T) {
	m := NewModel(newTestSim(t), "collision", 30)

	m, _ = press(m, " ")
	m = tick(m)
	if m.sim.Steps() != 0 {
		t.Error("paused model advanced on tick")
	}
	m, _ = press(m, "n")
	if m.sim.Steps() != 1 {
		t.Error("single step did not advance")
	}

	for i := 0; i < 60; i++ {
		m, _ = press(m, "n")
	}
	if m.contacts == 0 {
		t.Error("expected a contact within a second")
	}

	m, _ = press(m, "r")
	if m.sim.Steps() != 0 || m.sim.Time() != 0 || m.contacts != 0 {
		t.Errorf("reset left steps=%d t=%v contacts=%d", m.sim.Steps(), m.sim.Time(), m.contacts)
	}
}

func TestModel_Quit(t *testing.T) {
	m := NewModel(newTestSim(t), "collision", 0)
	_, cmd := press(m, "q")
	if cmd == nil {
		t.Fatal("quit returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("quit command did not produce QuitMsg")
	}
}

func TestModel_View(t *testing.T) {
	m := NewModel(newTestSim(t), "collision", 0).WithTheme("retro")
	m = tick(m)
	view := m.View()
	for _, want := range []string{"COLLISION", "RUNNING", "Contacts", "Kinetic energy"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	m, _ = press(m, " ")
	m, _ = press(m, "?")
	view = m.View()
	if !strings.Contains(view, "PAUSED") || !strings.Contains(view, "KEYBOARD SHORTCUTS") {
		t.Error("paused help view incomplete")
	}
}

func TestThemes(t *testing.T) {
	if GetTheme("nope").Name != Themes[0].Name {
		t.Error("unknown theme should fall back to the first")
	}
	seen := map[string]bool{}
	th := Themes[0]
	for range Themes {
		seen[th.Name] = true
		th = NextTheme(th)
	}
	if len(seen) != len(ThemeNames()) || th.Name != Themes[0].Name {
		t.Errorf("NextTheme does not cycle: %v", seen)
	}
}

func TestPlotSeries(t *testing.T) {
	data := make([]float64, 500)
	for i := range data {
		data[i] = float64(i % 50)
	}
	out, err := PlotSeries(data, 60, 8, "energy")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "energy") {
		t.Error("caption missing")
	}

	if _, err := PlotSeries([]float64{1}, 20, 5, ""); err == nil {
		t.Error("expected error for a single sample")
	}
	if got := downsample([]float64{1, 3, 5, 7}, 2); got[0] != 2 || got[1] != 6 {
		t.Errorf("downsample = %v", got)
	}
}
