package viz

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/glsim/internal/grid"
	"github.com/san-kum/glsim/internal/physics"
)

const (
	width           = 60
	height          = 24
	historyCapacity = 300
	frameDt         = 1.0 / 60.0
	orbitSpeed      = 1.5 // radians per second while a or d is held
	sparkWidth      = 20
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model is the live view of one demo. Exactly one of engine and anim is set.
type Model struct {
	engine        *physics.Engine
	anim          *grid.Animator
	batch         int
	canvas        *Canvas
	camera        Orbit
	running       bool
	t             float64
	frames        int
	energyHistory []float64
}

// NewSpheresModel views eng. batch spheres are added per r key press.
func NewSpheresModel(eng *physics.Engine, batch int) Model {
	return Model{
		engine:        eng,
		batch:         batch,
		canvas:        NewCanvas(width, height),
		camera:        NewOrbit(),
		running:       true,
		energyHistory: make([]float64, 0, historyCapacity),
	}
}

func NewGridModel(anim *grid.Animator) Model {
	return Model{
		anim:    anim,
		canvas:  NewCanvas(width, height),
		camera:  NewOrbit(),
		running: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles input events and steps the demo.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			if m.engine != nil {
				m.engine.AddSpheres(m.batch)
			}
		case "c":
			if m.engine != nil {
				m.engine.Clear()
			}
		case "a":
			m.camera.Rotate(orbitSpeed, 4*frameDt)
		case "d":
			m.camera.Rotate(-orbitSpeed, 4*frameDt)
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		m.draw()
		return m, tick()
	}
	return m, nil
}

func (m *Model) step() {
	m.frames++
	m.t += frameDt
	if m.engine != nil {
		m.engine.Frame(frameDt)
		m.energyHistory = append(m.energyHistory, m.engine.KineticEnergy()+m.engine.PotentialEnergy())
		if len(m.energyHistory) > historyCapacity {
			m.energyHistory = m.energyHistory[1:]
		}
	}
	if m.anim != nil {
		m.anim.Frame(frameDt)
	}
}

func recent(values []float64, n int) []float64 {
	if len(values) > n {
		return values[len(values)-n:]
	}
	return values
}

// toDots maps normalized screen coordinates to canvas sub-pixels.
func (m *Model) toDots(sx, sy float64) (int, int) {
	w, h := m.canvas.Dots()
	half := float64(min(w, h)) / 2
	return w/2 + int(math.Round(sx*half)), h/2 - int(math.Round(sy*half))
}

func (m *Model) draw() {
	m.canvas.Clear()
	if m.engine != nil {
		m.drawSpheres()
	} else {
		m.drawGrid()
	}
}

var boxEdges = [12][2]int{
	{0, 1}, {1, 3}, {3, 2}, {2, 0},
	{4, 5}, {5, 7}, {7, 6}, {6, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

func boxCorner(k int) mgl64.Vec3 {
	c := mgl64.Vec3{-1, -1, -1}
	for a := 0; a < 3; a++ {
		if k&(1<<a) != 0 {
			c[a] = 1
		}
	}
	return c
}

func (m *Model) drawSpheres() {
	for _, e := range boxEdges {
		x0, y0, _ := m.camera.Project(boxCorner(e[0]))
		x1, y1, _ := m.camera.Project(boxCorner(e[1]))
		px0, py0 := m.toDots(x0, y0)
		px1, py1 := m.toDots(x1, y1)
		m.canvas.DrawLine(px0, py0, px1, py1)
	}

	type disc struct {
		x, y, r int
		depth   float64
	}
	spheres := m.engine.Spheres()
	discs := make([]disc, 0, len(spheres))
	w, h := m.canvas.Dots()
	half := float64(min(w, h)) / 2
	for _, s := range spheres {
		sx, sy, depth := m.camera.Project(s.Position)
		x, y := m.toDots(sx, sy)
		r := int(math.Round(s.Radius * m.camera.Focal / depth * half))
		discs = append(discs, disc{x, y, r, depth})
	}
	// far to near; each disc blanks what lies behind it before its rim is drawn
	sort.Slice(discs, func(i, j int) bool { return discs[i].depth > discs[j].depth })
	for _, d := range discs {
		m.canvas.EraseCircle(d.x, d.y, d.r)
		m.canvas.DrawCircle(d.x, d.y, d.r)
	}
}

func (m *Model) drawGrid() {
	clip := m.anim.ClipPositions()
	w, h := m.canvas.Dots()
	r := int(float64(min(w, h)) / 2 * float64(m.anim.Scale()))
	for k := 0; k+1 < len(clip); k += 2 {
		x, y := m.toDots(float64(clip[k]), float64(clip[k+1]))
		m.canvas.FillCircle(x, y, r)
	}
}

// View renders the canvas next to a stats panel.
func (m Model) View() string {
	canvasView := CanvasStyle.Render(m.canvas.String())

	var s strings.Builder
	title := "SPHERES"
	if m.anim != nil {
		title = "GRID"
	}
	s.WriteString(HeaderStyle.Render(title) + "\n")
	if m.running {
		s.WriteString(StatusRunning.Render("RUNNING") + "\n\n")
	} else {
		s.WriteString(StatusPaused.Render("PAUSED") + "\n\n")
	}

	s.WriteString(MetricLabel.Render("Time") + MetricValue.Render(fmt.Sprintf("%.2fs", m.t)) + "\n")
	s.WriteString(MetricLabel.Render("Frames") + MetricValue.Render(fmt.Sprintf("%d", m.frames)) + "\n")

	if m.engine != nil {
		s.WriteString(MetricLabel.Render("Spheres") + MetricValue.Render(fmt.Sprintf("%d", m.engine.Len())) + "\n")
		energy := 0.0
		if len(m.energyHistory) > 0 {
			energy = m.energyHistory[len(m.energyHistory)-1]
		}
		s.WriteString(MetricLabel.Render("Energy") + MetricValue.Render(fmt.Sprintf("%.2f", energy)) + "\n")
		s.WriteString(MetricLabel.Render("Trend") + Sparkline(recent(m.energyHistory, sparkWidth), sparkWidth) + "\n")
		s.WriteString(MetricLabel.Render("Camera") + MetricValue.Render(fmt.Sprintf("%.0f°", mgl64.RadToDeg(m.camera.Angle))) + "\n")
		if len(m.energyHistory) > 1 {
			chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
			s.WriteString(GraphStyle.Render(chart) + "\n")
		}
		s.WriteString(KeyHint.Render("SP:Pause R:+Spheres C:Clear\nA/D:Orbit Q:Quit"))
	} else {
		g := m.anim.Grid
		s.WriteString(MetricLabel.Render("Circles") + MetricValue.Render(fmt.Sprintf("%d", g.Count())) + "\n")
		s.WriteString(MetricLabel.Render("Moving") + MetricValue.Render(fmt.Sprintf("%d", g.Moves())) + "\n")
		s.WriteString(MetricLabel.Render("Step") + ProgressBar(m.anim.Progress(), 20) + "\n")
		s.WriteString(KeyHint.Render("SP:Pause Q:Quit"))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, Panel.Render(s.String()))
}

// Run starts the bubbletea program and blocks until the user quits.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
