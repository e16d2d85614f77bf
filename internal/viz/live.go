package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/nbody"
	"github.com/san-kum/gravsim/internal/scene"
)

const (
	defaultWidth    = 80
	defaultHeight   = 24
	statsWidth      = 46
	barWidth        = 16
	historyCapacity = 600
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(0, 1)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(0, 2).Width(statsWidth)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model is the live Bubble Tea view of a scene. Each frame advances the
// simulation by one tick.
type Model struct {
	scene         *scene.Scene
	canvas        *Canvas
	width, height int
	running       bool
	selected      int // 0 is the body count row, i+1 is body i
	zoom          float64
	zoomVel       float64
	zoomTarget    float64
	spring        harmonica.Spring
	energyHistory []float64
	theme         Theme
	fps           int
	showHelp      bool
	err           error
}

// NewModel wraps sc for the terminal.
func NewModel(sc *scene.Scene) Model {
	cfg := sc.Config()
	fps := cfg.Render.FPS
	if fps <= 0 {
		fps = config.DefaultFPS
	}
	return Model{
		scene:         sc,
		canvas:        NewCanvas(defaultWidth-statsWidth, defaultHeight),
		width:         defaultWidth - statsWidth,
		height:        defaultHeight,
		running:       true,
		zoom:          1,
		zoomTarget:    1,
		spring:        harmonica.NewSpring(harmonica.FPS(fps), 6.0, 0.8),
		energyHistory: make([]float64, 0, historyCapacity),
		theme:         GetTheme(cfg.Render.Theme),
		fps:           fps,
	}
}

func (m Model) Scene() *scene.Scene { return m.scene }

func (m Model) Selected() int { return m.selected }

func (m Model) Running() bool { return m.running }

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset(m.scene.State().Len())
		case "tab", "down", "j":
			m.selected = (m.selected + 1) % (len(m.scene.Sliders()) + 1)
		case "shift+tab", "up", "k":
			rows := len(m.scene.Sliders()) + 1
			m.selected = (m.selected - 1 + rows) % rows
		case "left", "h":
			m.adjust(-config.LevelStep)
		case "right", "l":
			m.adjust(config.LevelStep)
		case "H":
			m.adjust(-1)
		case "L":
			m.adjust(1)
		case "+", "=":
			m.zoomTarget = clampZoom(m.zoomTarget * 1.25)
		case "-", "_":
			m.zoomTarget = clampZoom(m.zoomTarget / 1.25)
		case "t":
			m.theme = NextTheme(m.theme)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		m.zoom, m.zoomVel = m.spring.Update(m.zoom, m.zoomVel, m.zoomTarget)
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) resize(w, h int) {
	m.width = max(10, w-statsWidth-4)
	m.height = max(5, h-2)
	m.canvas = NewCanvas(m.width, m.height)
}

// step advances the simulation and records its energy.
func (m *Model) step() {
	if m.scene.Loop().Frozen() {
		return
	}
	if err := m.scene.Tick(); err != nil {
		m.err = err
		return
	}
	m.energyHistory = append(m.energyHistory, nbody.TotalEnergy(m.scene.State()))
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}
}

// adjust moves the selected row: the body count by one per press, a mass
// slider by delta levels.
func (m *Model) adjust(delta float64) {
	if m.selected == 0 {
		n := m.scene.State().Len()
		if delta > 0 {
			n++
		} else {
			n--
		}
		if n < 1 || n > config.MaxBodies {
			return
		}
		m.reset(n)
		return
	}

	i := m.selected - 1
	sliders := m.scene.Sliders()
	if i >= len(sliders) {
		return
	}
	if err := m.scene.SetLevel(i, sliders[i].Level+delta); err != nil {
		m.err = err
		return
	}
	// apply now so a paused view shows the new mass
	if err := m.scene.Loop().Flush(); err != nil {
		m.err = err
	}
}

func (m *Model) reset(n int) {
	if err := m.scene.Reset(n); err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.energyHistory = m.energyHistory[:0]
	if rows := n + 1; m.selected >= rows {
		m.selected = rows - 1
	}
}

// View renders the TUI interface.
func (m Model) View() string {
	DrawScene(m.canvas, m.scene, m.zoom, m.theme)
	canvasView := canvasStyle.Render(m.canvas.Render(m.theme.Text))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(m.stats()))
	if m.showHelp {
		return helpOverlay + "\n\n" + mainView
	}
	return mainView
}

func (m Model) stats() string {
	s := m.scene.State()
	var b strings.Builder

	b.WriteString(GradientText("GRAVSIM", m.theme.Primary, m.theme.Accent) + "\n\n")

	switch {
	case m.scene.Loop().Frozen():
		b.WriteString(StatusFrozen.Render("FROZEN") + "  " + Subtle.Render("r to respawn") + "\n")
	case m.running:
		b.WriteString(StatusRunning.Render("RUNNING") + "\n")
	default:
		b.WriteString(StatusPaused.Render("PAUSED") + "\n")
	}
	if m.err != nil {
		b.WriteString(lipgloss.NewStyle().Foreground(m.theme.Error).Width(statsWidth-4).Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n")

	row := func(label, value string) {
		b.WriteString(MetricLabel.Render(label) + MetricValue.Render(value) + "\n")
	}
	row("Tick", fmt.Sprintf("%d", s.Tick))
	row("Time", fmt.Sprintf("%.3fs", s.Time()))
	energy := 0.0
	if n := len(m.energyHistory); n > 0 {
		energy = m.energyHistory[n-1]
	}
	row("Energy", fmt.Sprintf("%.4g", energy))
	row("|p|", fmt.Sprintf("%.3g", nbody.Momentum(s).Len()))
	row("Zoom", fmt.Sprintf("%.2fx", m.zoom))

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		b.WriteString(graphStyle.Render(chart) + "\n")
	}

	b.WriteString("\n" + Separator(statsWidth-4) + "\n")
	b.WriteString(m.sliderRow(0, "Bodies", float64(s.Len())/config.MaxBodies, m.theme.Secondary, fmt.Sprintf("%d", s.Len())))
	for i, sl := range m.scene.Sliders() {
		color := m.theme.Text
		if i < s.Len() {
			if v, ok := m.scene.Visual(s.Bodies[i].ID); ok {
				color = lipgloss.Color(v.Color.Hex())
			}
		}
		label := lipgloss.NewStyle().Foreground(color).Render("●") + fmt.Sprintf(" m%-2d", i)
		b.WriteString(m.sliderRow(i+1, label, sl.Level/config.MaxLevel, color, fmt.Sprintf("%4.1f  %.4g", sl.Level, sl.Mass())))
	}

	b.WriteString(helpStyle.Render("SP:Pause R:Respawn Q:Quit\nTab:Select ←→:Adjust +-:Zoom\nT:Theme ?:Help"))
	return b.String()
}

func (m Model) sliderRow(idx int, label string, fraction float64, color lipgloss.Color, value string) string {
	prefix := "  "
	if idx == m.selected {
		prefix = lipgloss.NewStyle().Foreground(m.theme.Accent).Render("> ")
	}
	return prefix + lipgloss.NewStyle().Width(8).Render(label) + SliderBar(fraction, barWidth, color) + " " + value + "\n"
}

const helpOverlay = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space     - Pause/Resume            ║
║  R         - Respawn bodies          ║
║  Tab/↓     - Next slider             ║
║  S-Tab/↑   - Previous slider         ║
║  ←/→       - Adjust by 0.1           ║
║  H/L       - Adjust by 1             ║
║  +/-       - Zoom                    ║
║  T         - Cycle themes            ║
║  ?         - Toggle this help        ║
║  Q         - Quit                    ║
╚══════════════════════════════════════╝`

// RunLive starts the live view on sc.
func RunLive(sc *scene.Scene) error {
	_, err := tea.NewProgram(NewModel(sc), tea.WithAltScreen()).Run()
	return err
}
